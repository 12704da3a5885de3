package history

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

CREATE TABLE IF NOT EXISTS exchanges (
	id          TEXT PRIMARY KEY,
	question    TEXT NOT NULL,
	answer      TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	asked_at    DATETIME NOT NULL,
	answered_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exchanges_asked_at ON exchanges(asked_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
