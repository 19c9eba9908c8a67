package store

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = 1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	description TEXT,
	question    TEXT NOT NULL,
	column_name TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS codebooks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER NOT NULL REFERENCES projects(id),
	version    INTEGER NOT NULL,
	data       BLOB NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(project_id, version)
);

CREATE TABLE IF NOT EXISTS classifications (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id    INTEGER NOT NULL REFERENCES projects(id),
	codebook_id   INTEGER NOT NULL REFERENCES codebooks(id),
	response      TEXT NOT NULL,
	assigned_code TEXT NOT NULL,
	details       BLOB,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_codebooks_project ON codebooks(project_id);
CREATE INDEX IF NOT EXISTS idx_classifications_project ON classifications(project_id);
CREATE INDEX IF NOT EXISTS idx_classifications_codebook ON classifications(codebook_id);
`
