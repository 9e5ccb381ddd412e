// Package resolve turns a bare object reference from a webhook into the full
// set of CRM records an ERP operation needs: the primary record, its parent
// company, its line items, and each line item's catalog item.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quayside/suitebridge/internal/domain"
	"github.com/quayside/suitebridge/internal/hubspot"
)

// companyProperties is the exact allow-list requested on company fetches.
// The CRM returns no property that is not named, so this list is the
// downstream customer contract.
var companyProperties = []string{"name", "address", "address2", "city", "state", "zip", "country"}

// lineItemProperties covers quantity, the rate candidates, and the catalog
// item reference.
var lineItemProperties = []string{"name", "quantity", "price", "hs_price", "hs_product_id"}

// rateProperties are the line-item properties tried in order for the unit
// rate. A missing or non-numeric rate stays absent so the ERP applies its
// own pricing.
var rateProperties = []string{"price", "hs_price"}

// Resolver fetches records and associations from the CRM. It holds no state
// between events; every resolution starts from the webhook's object id.
type Resolver struct {
	crm         *hubspot.Client
	itemIDProps []string
}

// New returns a Resolver. itemIDProps is the ordered candidate list of
// catalog-item properties holding the ERP internal item id.
func New(crm *hubspot.Client, itemIDProps []string) *Resolver {
	return &Resolver{crm: crm, itemIDProps: itemIDProps}
}

// Company fetches a company with the fixed property allow-list.
func (r *Resolver) Company(ctx context.Context, id string) (*domain.Record, error) {
	rec, err := r.crm.GetObject(ctx, domain.TypeCompanies, id, hubspot.GetOpts{Properties: companyProperties})
	if err != nil {
		return nil, fmt.Errorf("resolve company %s: %w", id, err)
	}
	return rec, nil
}

// Product fetches a product with its default property set.
func (r *Resolver) Product(ctx context.Context, id string) (*domain.Record, error) {
	rec, err := r.crm.GetObject(ctx, domain.TypeProducts, id, hubspot.GetOpts{})
	if err != nil {
		return nil, fmt.Errorf("resolve product %s: %w", id, err)
	}
	return rec, nil
}

// Deal is a fully resolved deal: the record itself, its primary company (nil
// when none is associated) and its order lines in association order. Both
// degenerate states are surfaced, not suppressed; the ERP owns rejection.
type Deal struct {
	Record    *domain.Record
	CompanyID *string
	LineItems []domain.LineItem
}

// Deal fetches a deal with inline associations, falling back to per-type
// association queries when the primary response lacks a set, then resolves
// every line item through its catalog item.
func (r *Resolver) Deal(ctx context.Context, id string) (*Deal, error) {
	rec, err := r.crm.GetObject(ctx, domain.TypeDeals, id, hubspot.GetOpts{
		Properties:   []string{"dealname", "dealstage", "amount", "closedate"},
		Associations: []string{domain.TypeCompanies, domain.TypeLineItems},
	})
	if err != nil {
		return nil, fmt.Errorf("resolve deal %s: %w", id, err)
	}

	companies, err := r.associations(ctx, rec, id, domain.TypeCompanies)
	if err != nil {
		return nil, err
	}
	lineItemRefs, err := r.associations(ctx, rec, id, domain.TypeLineItems)
	if err != nil {
		return nil, err
	}

	resolved := &Deal{Record: rec}
	if companyID, ok := companies.First(); ok {
		resolved.CompanyID = &companyID
	}

	resolved.LineItems, err = r.lineItems(ctx, id, lineItemRefs.IDs())
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// associations returns the record's inline set for toType, or queries the
// associations endpoint when the primary fetch came back without one.
func (r *Resolver) associations(ctx context.Context, rec *domain.Record, id, toType string) (domain.AssociationSet, error) {
	if set, ok := rec.Associations[toType]; ok && len(set.Results) > 0 {
		return set, nil
	}
	set, err := r.crm.GetAssociations(ctx, domain.TypeDeals, id, toType)
	if err != nil {
		return domain.AssociationSet{}, fmt.Errorf("resolve %s associations of deal %s: %w", toType, id, err)
	}
	return set, nil
}

// lineItems resolves each line-item reference to an order line, preserving
// association order. Lines whose catalog item yields no usable internal id
// are dropped and logged, never defaulted.
func (r *Resolver) lineItems(ctx context.Context, dealID string, ids []string) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(ids))
	for _, id := range ids {
		li, err := r.crm.GetObject(ctx, domain.TypeLineItems, id, hubspot.GetOpts{Properties: lineItemProperties})
		if err != nil {
			return nil, fmt.Errorf("resolve line item %s of deal %s: %w", id, dealID, err)
		}

		internalID, err := r.itemInternalID(ctx, li)
		if err != nil {
			return nil, fmt.Errorf("resolve catalog item for line item %s: %w", id, err)
		}
		if internalID == "" {
			slog.Warn("dropping line item without resolvable internal item id",
				"dealId", dealID,
				"lineItemId", id,
				"productId", li.Property("hs_product_id"),
			)
			continue
		}

		items = append(items, domain.LineItem{
			ItemInternalID:   internalID,
			Quantity:         quantityOf(li),
			Rate:             rateOf(li),
			SourceLineItemID: li.ID,
		})
	}
	return items, nil
}

// itemInternalID fetches the referenced catalog item and tries the configured
// candidate properties in priority order. A missing product reference or a
// catalog item the CRM no longer knows resolves to "".
func (r *Resolver) itemInternalID(ctx context.Context, lineItem *domain.Record) (string, error) {
	productID := lineItem.Property("hs_product_id")
	if productID == "" {
		return "", nil
	}

	product, err := r.crm.GetObject(ctx, domain.TypeProducts, productID, hubspot.GetOpts{Properties: r.itemIDProps})
	if err != nil {
		var apiErr *hubspot.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			// Dangling catalog reference: treated as unresolvable, not fatal.
			return "", nil
		}
		return "", err
	}
	return product.FirstProperty(r.itemIDProps), nil
}

// quantityOf parses the line quantity, defaulting to 1 when missing or
// non-numeric.
func quantityOf(lineItem *domain.Record) decimal.Decimal {
	q, err := decimal.NewFromString(lineItem.Property("quantity"))
	if err != nil {
		return decimal.NewFromInt(1)
	}
	return q
}

// rateOf parses the unit rate from the candidate properties, returning nil
// when no candidate holds a numeric value.
func rateOf(lineItem *domain.Record) *decimal.Decimal {
	v := lineItem.FirstProperty(rateProperties)
	if v == "" {
		return nil
	}
	rate, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &rate
}
