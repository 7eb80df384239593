package history

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	family TEXT NOT NULL,
	text   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_family ON history(family, id DESC);
`

// SQLiteStore persists history to a SQLite database so it survives host
// restarts. It implements Store.
type SQLiteStore struct {
	mu       sync.Mutex
	db       *sql.DB
	maxItems int
}

// OpenSQLite opens (creating if needed) a history database at path,
// keeping at most maxItems entries per family.
func OpenSQLite(path string, maxItems int) (*SQLiteStore, error) {
	if maxItems <= 0 {
		maxItems = 1000
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &SQLiteStore{db: db, maxItems: maxItems}, nil
}

// Append records text in the given family. Empty text is never recorded,
// and an append identical to the newest entry is skipped.
func (s *SQLiteStore) Append(family Family, text string) error {
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var newest string
	err := s.db.QueryRow(
		`SELECT text FROM history WHERE family = ? ORDER BY id DESC LIMIT 1`,
		string(family),
	).Scan(&newest)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading newest history entry: %w", err)
	}
	if err == nil && newest == text {
		return nil
	}

	if _, err := s.db.Exec(
		`INSERT INTO history (family, text) VALUES (?, ?)`,
		string(family), text,
	); err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}

	// Prune oldest entries beyond capacity.
	if _, err := s.db.Exec(
		`DELETE FROM history WHERE family = ? AND id NOT IN
			(SELECT id FROM history WHERE family = ? ORDER BY id DESC LIMIT ?)`,
		string(family), string(family), s.maxItems,
	); err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return nil
}

// List returns the family's entries, newest first.
func (s *SQLiteStore) List(family Family) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT text FROM history WHERE family = ? ORDER BY id DESC`,
		string(family),
	)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		result = append(result, text)
	}
	return result, rows.Err()
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
