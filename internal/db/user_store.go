package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/usf-app/usf-backend/internal/models"
	"github.com/usf-app/usf-backend/internal/services"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    pw_hash TEXT NOT NULL,
    email TEXT NOT NULL
);
`

// UserStore persists credentials in users.db.
type UserStore struct {
	db *sql.DB
}

// NewUserStore ensures the users schema exists. Safe to call repeatedly.
func NewUserStore(db *sql.DB) (*UserStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if _, err := db.Exec(usersSchema); err != nil {
		return nil, fmt.Errorf("create users schema: %w", err)
	}
	return &UserStore{db: db}, nil
}

func (s *UserStore) FindUser(id string) (*models.User, error) {
	var u models.User
	var hash string
	err := s.db.QueryRow(`SELECT id, pw_hash, email FROM users WHERE id = ?`, id).
		Scan(&u.ID, &hash, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.PassHash = []byte(hash)
	return &u, nil
}

func (s *UserStore) AddUser(u *models.User) error {
	_, err := s.db.Exec(`INSERT INTO users (id, pw_hash, email) VALUES (?, ?, ?)`,
		u.ID, string(u.PassHash), u.Email)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

var _ services.AuthStore = (*UserStore)(nil)
