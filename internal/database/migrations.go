package database

// migrations holds the ordered schema migrations. Each entry is one version;
// append only, never edit an applied version.
var migrations = [][]string{
	// v1: delivery journal.
	{
		`CREATE TABLE deliveries (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL DEFAULT '',
			object_type TEXT NOT NULL DEFAULT '',
			object_id TEXT NOT NULL DEFAULT '',
			change_kind TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_deliveries_created_at ON deliveries (created_at DESC)`,
		`CREATE INDEX idx_deliveries_object ON deliveries (object_type, object_id)`,
	},
}
