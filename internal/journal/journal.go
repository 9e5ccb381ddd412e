// Package journal records the outcome of every processed webhook
// notification. It is a diagnostics log, not a sync state store: nothing is
// read back during event processing, deliveries are never deduplicated
// against it, and rows carry no cross-system mapping.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcomes of one processed notification.
const (
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Entry is one journal row.
type Entry struct {
	ID         string `json:"id"`
	EventID    string `json:"eventId,omitempty"`
	ObjectType string `json:"objectType,omitempty"`
	ObjectID   string `json:"objectId,omitempty"`
	ChangeKind string `json:"changeKind,omitempty"`
	Action     string `json:"action,omitempty"`
	Outcome    string `json:"outcome"`
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"durationMs"`
	CreatedAt  string `json:"createdAt"`
}

// Journal persists entries to SQLite.
type Journal struct {
	db *sql.DB
}

// New creates a Journal backed by db.
func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record inserts an entry, assigning its id and timestamp, and returns the
// stored row.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO deliveries (id, event_id, object_type, object_id, change_kind, action, outcome, detail, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EventID, e.ObjectType, e.ObjectID, e.ChangeKind, e.Action, e.Outcome, e.Detail, e.DurationMS, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert delivery: %w", err)
	}
	return e, nil
}

// Recent returns the newest entries, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, event_id, object_type, object_id, change_kind, action, outcome, detail, duration_ms, created_at
		 FROM deliveries ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EventID, &e.ObjectType, &e.ObjectID, &e.ChangeKind,
			&e.Action, &e.Outcome, &e.Detail, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
