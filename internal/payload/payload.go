// Package payload shapes resolved CRM records into the bodies the ERP
// RESTlets accept. Pure transformation, no I/O: the bridge forwards the full
// upstream record and the derived order fields; detailed field mapping is
// owned by the ERP-side scripts.
package payload

import "github.com/quayside/suitebridge/internal/domain"

// Customer wraps a resolved company record for the customer RESTlet.
func Customer(rec *domain.Record) domain.CustomerPayload {
	return domain.CustomerPayload{Record: rec}
}

// Item wraps a resolved product record for the item RESTlet.
func Item(rec *domain.Record) domain.ItemPayload {
	return domain.ItemPayload{Record: rec}
}

// Order assembles the order RESTlet body. A nil companyID and an empty line
// set are forwarded as-is; the ERP is the authority that rejects degenerate
// orders.
func Order(dealID string, companyID *string, lineItems []domain.LineItem, rec *domain.Record) domain.OrderPayload {
	if lineItems == nil {
		lineItems = []domain.LineItem{}
	}
	return domain.OrderPayload{
		DealID:    dealID,
		CompanyID: companyID,
		LineItems: lineItems,
		Record:    rec,
	}
}
