package classify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quayside/suitebridge/internal/classify"
	"github.com/quayside/suitebridge/internal/domain"
)

// stageFunc adapts a function to the StageReader interface.
type stageFunc func(ctx context.Context, dealID string) (string, error)

func (f stageFunc) DealStage(ctx context.Context, dealID string) (string, error) {
	return f(ctx, dealID)
}

// fixedStage returns the same stage for every deal and fails the test if the
// reader is consulted when it should not be.
func fixedStage(stage string) stageFunc {
	return func(context.Context, string) (string, error) {
		return stage, nil
	}
}

func noStageRead(t *testing.T) stageFunc {
	return func(context.Context, string) (string, error) {
		t.Fatal("stage reader consulted for an event that should not need it")
		return "", nil
	}
}

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name             string
		event            domain.WebhookEvent
		stage            string
		wantAction       domain.Action
		wantSkip         bool
		stageNotConsumed bool
	}{
		{
			name:             "company creation",
			event:            domain.WebhookEvent{ObjectID: "1", SubscriptionType: "company.creation"},
			wantAction:       domain.ActionUpsertCustomerCreate,
			stageNotConsumed: true,
		},
		{
			name:             "company property change",
			event:            domain.WebhookEvent{ObjectID: "1", SubscriptionType: "company.propertyChange"},
			wantAction:       domain.ActionUpsertCustomerUpdate,
			stageNotConsumed: true,
		},
		{
			name:             "company deletion maps to update",
			event:            domain.WebhookEvent{ObjectID: "1", SubscriptionType: "company.deletion"},
			wantAction:       domain.ActionUpsertCustomerUpdate,
			stageNotConsumed: true,
		},
		{
			name:             "product creation",
			event:            domain.WebhookEvent{ObjectID: "2", SubscriptionType: "product.creation"},
			wantAction:       domain.ActionUpsertItem,
			stageNotConsumed: true,
		},
		{
			name:             "product property change skipped",
			event:            domain.WebhookEvent{ObjectID: "2", SubscriptionType: "product.propertyChange"},
			wantSkip:         true,
			stageNotConsumed: true,
		},
		{
			name:             "contact creation skipped",
			event:            domain.WebhookEvent{ObjectID: "3", SubscriptionType: "contact.creation"},
			wantSkip:         true,
			stageNotConsumed: true,
		},
		{
			name:             "contact property change skipped",
			event:            domain.WebhookEvent{ObjectID: "3", SubscriptionType: "contact.propertyChange"},
			wantSkip:         true,
			stageNotConsumed: true,
		},
		{
			name:             "deal creation ignores stage",
			event:            domain.WebhookEvent{ObjectID: "7", SubscriptionType: "deal.creation"},
			wantAction:       domain.ActionCreateQuote,
			stageNotConsumed: true,
		},
		{
			name:       "deal change at closed-won converts",
			event:      domain.WebhookEvent{ObjectID: "7", SubscriptionType: "deal.propertyChange"},
			stage:      "closedwon",
			wantAction: domain.ActionConvertQuoteToOrder,
		},
		{
			name:     "deal change at other stage skipped",
			event:    domain.WebhookEvent{ObjectID: "7", SubscriptionType: "deal.propertyChange"},
			stage:    "qualifiedtobuy",
			wantSkip: true,
		},
		{
			name:             "unknown object type skipped",
			event:            domain.WebhookEvent{ObjectID: "9", SubscriptionType: "ticket.creation"},
			wantSkip:         true,
			stageNotConsumed: true,
		},
		{
			name:             "missing object id skipped",
			event:            domain.WebhookEvent{SubscriptionType: "company.creation"},
			wantSkip:         true,
			stageNotConsumed: true,
		},
		{
			name:             "missing notification key skipped",
			event:            domain.WebhookEvent{ObjectID: "1"},
			wantSkip:         true,
			stageNotConsumed: true,
		},
		{
			name:             "key without change kind skipped",
			event:            domain.WebhookEvent{ObjectID: "1", SubscriptionType: "company"},
			wantSkip:         true,
			stageNotConsumed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stages classify.StageReader
			if tt.stageNotConsumed {
				stages = noStageRead(t)
			} else {
				stages = fixedStage(tt.stage)
			}
			c := classify.New(stages, "closedwon")

			got, err := c.Classify(context.Background(), tt.event)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}

			if tt.wantSkip {
				if got.Action != domain.ActionSkip {
					t.Fatalf("Action = %v, want skip", got.Action)
				}
				if got.Reason == "" {
					t.Error("skip decision has no reason")
				}
				return
			}
			if got.Action != tt.wantAction {
				t.Errorf("Action = %v, want %v", got.Action, tt.wantAction)
			}
		})
	}
}

func TestClassifyConfiguredClosedWonStage(t *testing.T) {
	c := classify.New(fixedStage("stage-42"), "stage-42")

	got, err := c.Classify(context.Background(), domain.WebhookEvent{
		ObjectID:         "7",
		SubscriptionType: "deal.propertyChange",
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Action != domain.ActionConvertQuoteToOrder {
		t.Errorf("Action = %v, want %v", got.Action, domain.ActionConvertQuoteToOrder)
	}
}

func TestClassifyStageReadFailure(t *testing.T) {
	wantErr := errors.New("upstream 500")
	c := classify.New(stageFunc(func(context.Context, string) (string, error) {
		return "", wantErr
	}), "closedwon")

	_, err := c.Classify(context.Background(), domain.WebhookEvent{
		ObjectID:         "7",
		SubscriptionType: "deal.propertyChange",
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
