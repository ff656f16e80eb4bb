package respond

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const corpusSchema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt  TEXT NOT NULL,
	reply   TEXT NOT NULL
);
`

// CorpusStore persists trained stimulus/response pairs in SQLite,
// so a trained corpus survives restarts and the train step can run as
// a separate command.
type CorpusStore struct {
	db *sql.DB
}

// OpenCorpus opens (or creates) the corpus database at path.
func OpenCorpus(path string) (*CorpusStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open corpus db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("corpus pragma: %w", err)
	}
	if _, err := db.Exec(corpusSchema); err != nil {
		return nil, fmt.Errorf("migrate corpus: %w", err)
	}
	return &CorpusStore{db: db}, nil
}

// Close closes the underlying database.
func (c *CorpusStore) Close() error { return c.db.Close() }

// Append stores alternating prompt/reply pairs.
func (c *CorpusStore) Append(ctx context.Context, pairs []string) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("corpus data must alternate prompt and reply, got %d entries", len(pairs))
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin corpus tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO exchanges (prompt, reply) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare corpus insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(pairs); i += 2 {
		if _, err := stmt.ExecContext(ctx, pairs[i], pairs[i+1]); err != nil {
			return fmt.Errorf("insert exchange: %w", err)
		}
	}
	return tx.Commit()
}

// Replace drops the stored corpus and writes the given pairs.
func (c *CorpusStore) Replace(ctx context.Context, pairs []string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM exchanges"); err != nil {
		return fmt.Errorf("drop corpus: %w", err)
	}
	return c.Append(ctx, pairs)
}

// LoadAll returns the stored pairs as alternating prompt/reply
// strings, in insertion order.
func (c *CorpusStore) LoadAll(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT prompt, reply FROM exchanges ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}
	defer rows.Close()

	var pairs []string
	for rows.Next() {
		var prompt, reply string
		if err := rows.Scan(&prompt, &reply); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		pairs = append(pairs, prompt, reply)
	}
	return pairs, rows.Err()
}
