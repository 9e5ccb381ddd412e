package domain

import "strings"

// WebhookEvent is one notification from a HubSpot webhook batch, reduced to
// the fields the bridge acts on. Events are transient; each is consumed once.
type WebhookEvent struct {
	EventID          string
	ObjectID         string
	SubscriptionType string // e.g. "deal.propertyChange"
}

// Key splits the subscription type on its first dot into raw object type and
// change kind. ok is false when either half is missing.
func (e WebhookEvent) Key() (rawType, changeKind string, ok bool) {
	rawType, changeKind, found := strings.Cut(e.SubscriptionType, ".")
	if !found || rawType == "" || changeKind == "" {
		return "", "", false
	}
	return rawType, changeKind, true
}

// ChangeCreation is the change kind HubSpot sends for newly created objects.
const ChangeCreation = "creation"

// objectTypes maps raw webhook object types to canonical CRM API resource
// names. Static for the process lifetime.
var objectTypes = map[string]string{
	"company": TypeCompanies,
	"deal":    TypeDeals,
	"product": TypeProducts,
	"contact": TypeContacts,
}

// Canonical CRM API resource names.
const (
	TypeCompanies = "companies"
	TypeDeals     = "deals"
	TypeProducts  = "products"
	TypeContacts  = "contacts"
	TypeLineItems = "line_items"
)

// CanonicalType resolves a raw webhook object type to its CRM API resource
// name. ok is false for unknown types.
func CanonicalType(raw string) (string, bool) {
	t, ok := objectTypes[raw]
	return t, ok
}
