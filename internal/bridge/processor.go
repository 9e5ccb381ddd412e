// Package bridge runs the per-event pipeline: classify the notification,
// resolve the CRM records it points at, build the ERP payload, and dispatch
// it signed. Every failure is converted to a logged outcome at this boundary;
// nothing escapes to the batch loop and nothing is retried.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/quayside/suitebridge/internal/classify"
	"github.com/quayside/suitebridge/internal/domain"
	"github.com/quayside/suitebridge/internal/hubspot"
	"github.com/quayside/suitebridge/internal/journal"
	"github.com/quayside/suitebridge/internal/netsuite"
	"github.com/quayside/suitebridge/internal/payload"
	"github.com/quayside/suitebridge/internal/resolve"
)

// Dispatcher issues one signed call to an ERP endpoint.
type Dispatcher interface {
	Send(ctx context.Context, method, url string, payload any) ([]byte, error)
}

// Endpoints holds the RESTlet URL per action family. An empty URL disables
// the family.
type Endpoints struct {
	Customer string
	Item     string
	Order    string
}

// Outcome summarizes one processed notification.
type Outcome struct {
	Status string // journal outcome: completed, skipped, failed
	Action domain.Action
	Detail string
}

// Processor executes the event pipeline. It is safe for concurrent use; each
// event runs its own chain with no shared mutable state.
type Processor struct {
	classifier *classify.Classifier
	resolver   *resolve.Resolver
	erp        Dispatcher
	endpoints  Endpoints
	journal    *journal.Journal
}

// NewProcessor wires the pipeline together.
func NewProcessor(classifier *classify.Classifier, resolver *resolve.Resolver, erp Dispatcher, endpoints Endpoints, j *journal.Journal) *Processor {
	return &Processor{
		classifier: classifier,
		resolver:   resolver,
		erp:        erp,
		endpoints:  endpoints,
		journal:    j,
	}
}

// Process handles one webhook notification end to end. It never returns an
// error: failures are logged, journaled and absorbed so one bad event cannot
// block the rest of its batch.
func (p *Processor) Process(ctx context.Context, event domain.WebhookEvent) Outcome {
	start := time.Now()

	decision, err := p.classifier.Classify(ctx, event)
	var outcome Outcome
	switch {
	case err != nil:
		outcome = failureOutcome(domain.ActionSkip, err)
	case decision.Action == domain.ActionSkip:
		outcome = Outcome{Status: journal.OutcomeSkipped, Detail: decision.Reason}
	default:
		outcome = p.dispatch(ctx, decision.Action, event.ObjectID)
	}

	p.finish(ctx, event, outcome, time.Since(start))
	return outcome
}

// dispatch resolves and sends the payload for a classified action.
func (p *Processor) dispatch(ctx context.Context, action domain.Action, objectID string) Outcome {
	var err error
	switch action {
	case domain.ActionUpsertCustomerCreate:
		err = p.sendCustomer(ctx, http.MethodPost, objectID)
	case domain.ActionUpsertCustomerUpdate:
		err = p.sendCustomer(ctx, http.MethodPut, objectID)
	case domain.ActionUpsertItem:
		err = p.sendItem(ctx, objectID)
	case domain.ActionCreateQuote, domain.ActionConvertQuoteToOrder:
		err = p.sendOrder(ctx, objectID)
	}

	if err != nil {
		if errors.Is(err, netsuite.ErrEndpointDisabled) {
			return Outcome{Status: journal.OutcomeSkipped, Action: action, Detail: "endpoint not configured, action disabled"}
		}
		return failureOutcome(action, err)
	}
	return Outcome{Status: journal.OutcomeCompleted, Action: action}
}

func (p *Processor) sendCustomer(ctx context.Context, method, companyID string) error {
	rec, err := p.resolver.Company(ctx, companyID)
	if err != nil {
		return err
	}
	_, err = p.erp.Send(ctx, method, p.endpoints.Customer, payload.Customer(rec))
	return err
}

func (p *Processor) sendItem(ctx context.Context, productID string) error {
	rec, err := p.resolver.Product(ctx, productID)
	if err != nil {
		return err
	}
	_, err = p.erp.Send(ctx, http.MethodPost, p.endpoints.Item, payload.Item(rec))
	return err
}

func (p *Processor) sendOrder(ctx context.Context, dealID string) error {
	deal, err := p.resolver.Deal(ctx, dealID)
	if err != nil {
		return err
	}
	_, err = p.erp.Send(ctx, http.MethodPost, p.endpoints.Order,
		payload.Order(dealID, deal.CompanyID, deal.LineItems, deal.Record))
	return err
}

// failureOutcome names the failure class for the journal and logs.
func failureOutcome(action domain.Action, err error) Outcome {
	detail := "event processing failed: " + err.Error()

	var upstreamErr *hubspot.APIError
	var downstreamErr *netsuite.RequestError
	var signingErr *netsuite.SigningError
	switch {
	case errors.Is(err, hubspot.ErrMissingToken):
		detail = "configuration error: " + err.Error()
	case errors.As(err, &signingErr):
		detail = "configuration error: " + err.Error()
	case errors.As(err, &upstreamErr):
		detail = "upstream api error: " + err.Error()
	case errors.As(err, &downstreamErr):
		detail = "downstream api error: " + err.Error()
	}

	return Outcome{Status: journal.OutcomeFailed, Action: action, Detail: detail}
}

// finish logs the outcome and writes the journal row.
func (p *Processor) finish(ctx context.Context, event domain.WebhookEvent, outcome Outcome, elapsed time.Duration) {
	rawType, changeKind, _ := event.Key()

	logArgs := []any{
		"eventId", event.EventID,
		"objectId", event.ObjectID,
		"subscriptionType", event.SubscriptionType,
		"action", outcome.Action.String(),
		"outcome", outcome.Status,
		"duration", elapsed.String(),
	}
	switch outcome.Status {
	case journal.OutcomeFailed:
		slog.Error("webhook event failed", append(logArgs, "detail", outcome.Detail)...)
	case journal.OutcomeSkipped:
		slog.Info("webhook event skipped", append(logArgs, "reason", outcome.Detail)...)
	default:
		slog.Info("webhook event processed", logArgs...)
	}

	if p.journal == nil {
		return
	}
	canonicalType, _ := domain.CanonicalType(rawType)
	_, err := p.journal.Record(ctx, journal.Entry{
		EventID:    event.EventID,
		ObjectType: canonicalType,
		ObjectID:   event.ObjectID,
		ChangeKind: changeKind,
		Action:     outcome.Action.String(),
		Outcome:    outcome.Status,
		Detail:     outcome.Detail,
		DurationMS: elapsed.Milliseconds(),
	})
	if err != nil {
		slog.Error("failed to journal delivery", "error", err)
	}
}
