// Package db provides the SQLite-backed stores. The backend keeps two
// independent database files: users.db holds credentials, surveys.db holds
// the survey catalog and the response ledger.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	UsersDBFile   = "users.db"
	SurveysDBFile = "surveys.db"
)

// Open opens (creating if necessary) one SQLite database file inside dir.
// Pragmas ride on the DSN so every pooled connection gets the same settings.
// Foreign keys stay unenforced: the schema declares them, but question and
// response rows may outlive the rows they reference, and survey deletion is
// an application-level cascade.
func Open(dir, file string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	path := filepath.Join(dir, file)
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL",
		filepath.ToSlash(path))
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", file, err)
	}
	return conn, nil
}
