package catalog

// schemaSQL defines the SQLite schema for the catalog database.
// Tables:
//   - signatures: one row per declared function
//   - arguments: the parameters of each signature, by position
//   - test_cases: serialized test cases, by function and position; bound is 0
//     for cases whose function has no signature
const schemaSQL = `
CREATE TABLE IF NOT EXISTS signatures (
    name TEXT PRIMARY KEY,
    return_type TEXT NOT NULL,
    declaration TEXT NOT NULL,
    saved_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS arguments (
    function TEXT NOT NULL,
    position INTEGER NOT NULL,
    type TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (function, position)
);

CREATE TABLE IF NOT EXISTS test_cases (
    function TEXT NOT NULL,
    position INTEGER NOT NULL,
    tag TEXT NOT NULL,
    args TEXT NOT NULL,
    expected TEXT NOT NULL,
    tolerance TEXT NOT NULL,
    line INTEGER NOT NULL DEFAULT 0,
    bound INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (function, position)
);

CREATE INDEX IF NOT EXISTS idx_test_cases_tag ON test_cases(tag);
`

// initSchema creates the database tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
