// Package classify maps webhook notifications onto ERP actions. The deal
// lifecycle is a two-state machine {open, closed-won} observed statelessly
// from the deal's own dealstage property on each event.
package classify

import (
	"context"

	"github.com/quayside/suitebridge/internal/domain"
)

// StageReader reads a deal's current pipeline stage. Deal events other than
// creation cannot be classified without it.
type StageReader interface {
	DealStage(ctx context.Context, dealID string) (string, error)
}

// Decision is the outcome of classifying one event. Reason is set only for
// skips.
type Decision struct {
	Action domain.Action
	Reason string
}

// Classifier selects the ERP action for each webhook event.
type Classifier struct {
	stages    StageReader
	closedWon string
}

// New returns a Classifier that treats closedWonStage as the deal stage
// triggering quote-to-order conversion.
func New(stages StageReader, closedWonStage string) *Classifier {
	return &Classifier{stages: stages, closedWon: closedWonStage}
}

// Classify maps an event onto an ERP action. Malformed or unsupported events
// degrade to a skip decision, never an error; the only error path is a failed
// deal stage read, which aborts the event like any other upstream failure.
func (c *Classifier) Classify(ctx context.Context, event domain.WebhookEvent) (Decision, error) {
	if event.ObjectID == "" {
		return Decision{Reason: "missing object id"}, nil
	}
	rawType, changeKind, ok := event.Key()
	if !ok {
		return Decision{Reason: "missing or malformed notification key"}, nil
	}
	canonicalType, ok := domain.CanonicalType(rawType)
	if !ok {
		return Decision{Reason: "unsupported object type " + rawType}, nil
	}

	stage := stageAny
	if canonicalType == domain.TypeDeals && changeKind != domain.ChangeCreation {
		current, err := c.stages.DealStage(ctx, event.ObjectID)
		if err != nil {
			return Decision{}, err
		}
		if current == c.closedWon {
			stage = stageClosedWon
		} else {
			stage = stageOther
		}
	}

	return transition(canonicalType, changeKind, stage), nil
}

// stageClass abstracts the deal stage so the transition table stays finite.
type stageClass int

const (
	stageAny stageClass = iota
	stageClosedWon
	stageOther
)

// changeClass abstracts the webhook change kind.
type changeClass int

const (
	changeCreation changeClass = iota
	changeOther
)

// rule is one row of the transition table.
type rule struct {
	objectType string
	change     changeClass
	stage      stageClass

	action domain.Action
	reason string
}

// transitions is the full classifier state table. Rows are matched top to
// bottom; stageAny rows match any stage class. Keeping every transition in
// one table makes the machine exhaustively checkable in tests.
var transitions = []rule{
	{domain.TypeCompanies, changeCreation, stageAny, domain.ActionUpsertCustomerCreate, ""},
	{domain.TypeCompanies, changeOther, stageAny, domain.ActionUpsertCustomerUpdate, ""},

	{domain.TypeProducts, changeCreation, stageAny, domain.ActionUpsertItem, ""},
	{domain.TypeProducts, changeOther, stageAny, domain.ActionSkip, "no update path for products"},

	{domain.TypeContacts, changeCreation, stageAny, domain.ActionSkip, "contact sync not implemented"},
	{domain.TypeContacts, changeOther, stageAny, domain.ActionSkip, "contact sync not implemented"},

	{domain.TypeDeals, changeCreation, stageAny, domain.ActionCreateQuote, ""},
	{domain.TypeDeals, changeOther, stageClosedWon, domain.ActionConvertQuoteToOrder, ""},
	{domain.TypeDeals, changeOther, stageOther, domain.ActionSkip, "deal stage is not closed-won"},
}

func transition(canonicalType, changeKind string, stage stageClass) Decision {
	change := changeOther
	if changeKind == domain.ChangeCreation {
		change = changeCreation
	}
	for _, r := range transitions {
		if r.objectType != canonicalType || r.change != change {
			continue
		}
		if r.stage != stageAny && r.stage != stage {
			continue
		}
		return Decision{Action: r.action, Reason: r.reason}
	}
	return Decision{Reason: "no transition for " + canonicalType + "." + changeKind}
}
