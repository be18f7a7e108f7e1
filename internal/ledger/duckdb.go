package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
)

// schemaDDL holds the DuckDB results table definition.
//
//go:embed schema.sql
var schemaDDL string

// DuckDB stores records in a DuckDB database file. Each Append is a single
// transaction; records carry the run ID that wrote them.
type DuckDB struct {
	db    *sql.DB
	path  string
	runID string
}

// OpenDuckDB opens or creates the database at path and applies the schema.
func OpenDuckDB(ctx context.Context, path, runID string) (*DuckDB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DuckDB{db: db, path: path, runID: runID}, nil
}

// Path returns the database file path.
func (l *DuckDB) Path() string {
	return l.path
}

// Load reads the key of every stored record.
func (l *DuckDB) Load(ctx context.Context) (KeySet, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT question, model, suggest_empty FROM results")
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()
	keys := KeySet{}
	for rows.Next() {
		var key Key
		if err := rows.Scan(&key.Question, &key.Model, &key.SuggestEmpty); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		keys.Add(key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return keys, nil
}

// Append inserts records in one transaction.
func (l *DuckDB) Append(ctx context.Context, records []Record) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
		(question, expected_answer, model, suggest_empty, response, received_answer, evaluation, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()
	for _, record := range records {
		if _, err = stmt.ExecContext(ctx,
			record.Question,
			record.ExpectedAnswer,
			record.Model,
			record.SuggestEmpty,
			record.Response,
			record.ReceivedAnswer,
			string(record.Evaluation),
			l.runID,
		); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// ReadDuckDBKeys loads the stored keys through a read-only connection. A
// missing database yields an empty set and is not created.
func ReadDuckDBKeys(ctx context.Context, path string) (KeySet, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return KeySet{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat ledger: %w", err)
	}
	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return (&DuckDB{db: db, path: path}).Load(ctx)
}

// Close closes the database.
func (l *DuckDB) Close() error {
	return l.db.Close()
}

var _ Ledger = (*DuckDB)(nil)
