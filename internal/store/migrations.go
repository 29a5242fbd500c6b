package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	seq                INTEGER PRIMARY KEY AUTOINCREMENT,
	id                 TEXT NOT NULL UNIQUE,
	order_date         TEXT NOT NULL DEFAULT '',
	client_name        TEXT NOT NULL DEFAULT '',
	order_details      TEXT NOT NULL DEFAULT '',
	transaction_amount TEXT NOT NULL DEFAULT '0',
	vat_percent        TEXT NOT NULL DEFAULT '0',
	total_payment      TEXT NOT NULL DEFAULT '0',
	project_receipts   TEXT NOT NULL DEFAULT '0',
	remaining_balance  TEXT NOT NULL DEFAULT '0',
	project_notes      TEXT NOT NULL DEFAULT '',
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
