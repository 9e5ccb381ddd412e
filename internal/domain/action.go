package domain

// Action is the ERP operation selected for a webhook event.
type Action int

const (
	// ActionSkip means the event maps to no ERP operation.
	ActionSkip Action = iota
	// ActionUpsertCustomerCreate creates a customer from a new company.
	ActionUpsertCustomerCreate
	// ActionUpsertCustomerUpdate updates a customer from a changed company.
	ActionUpsertCustomerUpdate
	// ActionUpsertItem creates an item from a new product.
	ActionUpsertItem
	// ActionCreateQuote creates a quote from a new deal.
	ActionCreateQuote
	// ActionConvertQuoteToOrder converts a deal's quote into a sales order.
	ActionConvertQuoteToOrder
)

var actionNames = map[Action]string{
	ActionSkip:                 "skip",
	ActionUpsertCustomerCreate: "upsert_customer_create",
	ActionUpsertCustomerUpdate: "upsert_customer_update",
	ActionUpsertItem:           "upsert_item",
	ActionCreateQuote:          "create_quote",
	ActionConvertQuoteToOrder:  "convert_quote_to_order",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}
