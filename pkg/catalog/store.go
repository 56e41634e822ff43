package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sfgen/pkg/ast"
)

// Store persists bind results in a SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// StoredTest is a test case row as saved, with expressions in serialized form.
type StoredTest struct {
	Function  string
	Tag       string
	Args      string
	Expected  string
	Tolerance string
	Line      int
	Bound     bool
}

// Stats counts the rows of each table.
type Stats struct {
	Signatures int64
	Arguments  int64
	TestCases  int64
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Save writes a bind result in one transaction. Rows of every function in the
// result are replaced; other functions are left alone.
func (s *Store) Save(ctx context.Context, result *BindResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, b := range result.Bindings {
		if err := saveSignature(ctx, tx, b.Signature, now); err != nil {
			return err
		}
		if err := saveTests(ctx, tx, b.Signature.Name, b.Tests, true); err != nil {
			return err
		}
	}
	for _, sig := range result.Untested {
		if err := saveSignature(ctx, tx, sig, now); err != nil {
			return err
		}
	}

	unbound := make(map[string][]ast.TestCase)
	var order []string
	for _, tc := range result.Unbound {
		if _, ok := unbound[tc.FunctionName]; !ok {
			order = append(order, tc.FunctionName)
		}
		unbound[tc.FunctionName] = append(unbound[tc.FunctionName], tc)
	}
	for _, name := range order {
		if err := saveTests(ctx, tx, name, unbound[name], false); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func saveSignature(ctx context.Context, tx *sql.Tx, sig ast.Signature, now string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO signatures (name, return_type, declaration, saved_at) VALUES (?, ?, ?, ?)`,
		sig.Name, sig.ReturnType, sig.String(), now)
	if err != nil {
		return fmt.Errorf("save signature %s: %w", sig.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM arguments WHERE function = ?`, sig.Name); err != nil {
		return fmt.Errorf("clear arguments of %s: %w", sig.Name, err)
	}
	for i, arg := range sig.Arguments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO arguments (function, position, type, name) VALUES (?, ?, ?, ?)`,
			sig.Name, i, arg.Type, arg.Name)
		if err != nil {
			return fmt.Errorf("save argument %d of %s: %w", i, sig.Name, err)
		}
	}
	return nil
}

func saveTests(ctx context.Context, tx *sql.Tx, function string, cases []ast.TestCase, bound bool) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM test_cases WHERE function = ?`, function); err != nil {
		return fmt.Errorf("clear test cases of %s: %w", function, err)
	}
	for i, tc := range cases {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO test_cases (function, position, tag, args, expected, tolerance, line, bound)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			function, i, tc.Tag, ast.SerializeList(tc.Args),
			ast.Serialize(tc.Expected), ast.Serialize(tc.Tolerance), tc.Line, bound)
		if err != nil {
			return fmt.Errorf("save test case %d of %s: %w", i, function, err)
		}
	}
	return nil
}

// Signatures loads all saved signatures ordered by name.
func (s *Store) Signatures(ctx context.Context) ([]ast.Signature, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, return_type FROM signatures ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}

	var sigs []ast.Signature
	for rows.Next() {
		var sig ast.Signature
		if err := rows.Scan(&sig.Name, &sig.ReturnType); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		sigs = append(sigs, sig)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}

	for i := range sigs {
		args, err := s.arguments(ctx, sigs[i].Name)
		if err != nil {
			return nil, err
		}
		sigs[i].Arguments = args
	}
	return sigs, nil
}

func (s *Store) arguments(ctx context.Context, function string) ([]ast.Argument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, name FROM arguments WHERE function = ? ORDER BY position`, function)
	if err != nil {
		return nil, fmt.Errorf("query arguments of %s: %w", function, err)
	}
	defer rows.Close()

	args := []ast.Argument{}
	for rows.Next() {
		var arg ast.Argument
		if err := rows.Scan(&arg.Type, &arg.Name); err != nil {
			return nil, fmt.Errorf("scan argument: %w", err)
		}
		args = append(args, arg)
	}
	return args, rows.Err()
}

// Tests loads the saved test cases of a function in their original order.
func (s *Store) Tests(ctx context.Context, function string) ([]StoredTest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT function, tag, args, expected, tolerance, line, bound
		 FROM test_cases WHERE function = ? ORDER BY position`, function)
	if err != nil {
		return nil, fmt.Errorf("query test cases of %s: %w", function, err)
	}
	defer rows.Close()

	var tests []StoredTest
	for rows.Next() {
		var t StoredTest
		if err := rows.Scan(&t.Function, &t.Tag, &t.Args, &t.Expected, &t.Tolerance, &t.Line, &t.Bound); err != nil {
			return nil, fmt.Errorf("scan test case: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// GetStats returns row counts for the catalog tables.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM signatures").Scan(&stats.Signatures); err != nil {
		return nil, fmt.Errorf("count signatures: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM arguments").Scan(&stats.Arguments); err != nil {
		return nil, fmt.Errorf("count arguments: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM test_cases").Scan(&stats.TestCases); err != nil {
		return nil, fmt.Errorf("count test cases: %w", err)
	}

	return &stats, nil
}
