package state

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS state (
	ns TEXT NOT NULL,
	k  TEXT NOT NULL,
	v  TEXT NOT NULL,
	PRIMARY KEY (ns, k)
);`

// SQLiteStore is a persistent state bag backend. It keeps cross-request
// state across process restarts; select it with state.backend = "sqlite".
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) the state database at dsn.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("state: open sqlite (%s): %w", dsn, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("state: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ns, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT v FROM state WHERE ns = ? AND k = ?`, ns, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("state: get %s/%s: %w", ns, key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) Set(ns, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO state (ns, k, v) VALUES (?, ?, ?)
		 ON CONFLICT (ns, k) DO UPDATE SET v = excluded.v`,
		ns, key, value,
	)
	if err != nil {
		return fmt.Errorf("state: set %s/%s: %w", ns, key, err)
	}
	return nil
}

func (s *SQLiteStore) Unset(ns, key string) error {
	if _, err := s.db.Exec(`DELETE FROM state WHERE ns = ? AND k = ?`, ns, key); err != nil {
		return fmt.Errorf("state: unset %s/%s: %w", ns, key, err)
	}
	return nil
}

func (s *SQLiteStore) Keys(ns string) ([]string, error) {
	rows, err := s.db.Query(`SELECT k FROM state WHERE ns = ? ORDER BY k`, ns)
	if err != nil {
		return nil, fmt.Errorf("state: keys %s: %w", ns, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("state: keys %s: %w", ns, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("state: keys %s: %w", ns, err)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
