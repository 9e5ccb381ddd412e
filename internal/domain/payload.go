package domain

import "github.com/shopspring/decimal"

// LineItem is an order line derived from a deal's line-item association. The
// item id is the ERP-side internal identifier resolved from the referenced
// catalog item; line items without one are excluded upstream, never defaulted.
type LineItem struct {
	ItemInternalID   string           `json:"itemInternalId"`
	Quantity         decimal.Decimal  `json:"quantity"`
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	SourceLineItemID string           `json:"sourceLineItemId"`
}

// CustomerPayload is the body sent to the customer RESTlet. The full resolved
// company record is forwarded; field-level mapping belongs to the ERP script.
type CustomerPayload struct {
	Record *Record `json:"record"`
}

// ItemPayload is the body sent to the item RESTlet.
type ItemPayload struct {
	Record *Record `json:"record"`
}

// OrderPayload is the body sent to the order RESTlet for both quote creation
// and quote-to-sales-order conversion. CompanyID is null and LineItems may be
// empty when resolution found nothing; the ERP rejects degenerate payloads,
// the bridge does not suppress them.
type OrderPayload struct {
	DealID    string     `json:"dealId"`
	CompanyID *string    `json:"companyId"`
	LineItems []LineItem `json:"lineItems"`
	Record    *Record    `json:"record"`
}
