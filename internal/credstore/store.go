// Package credstore persists the rotating refresh credential in a local
// SQLite database. It is the only durable client-side state: the access
// token never leaves memory, so a restart costs one refresh call, not a
// login.
package credstore

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// refreshTokenKey is the single well-known row the store maintains.
const refreshTokenKey = "refresh_token"

// Store is a sqlite-backed altosdk.CredentialStore.
type Store struct {
	db  *sql.DB
	dsn string
}

// NewStore opens (creating if necessary) the credential database at dsn.
// Callers should ApplyMigrations before first use.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Serialized access keeps SQLITE_BUSY out of a single-user CLI.
	db.SetMaxOpenConns(1)

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Load returns the persisted refresh credential, or the empty string when
// none is stored.
func (s *Store) Load(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE name = ?`, refreshTokenKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Save stores refreshToken, replacing any previous credential.
func (s *Store) Save(ctx context.Context, refreshToken string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (name, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		refreshTokenKey, refreshToken)
	return err
}

// Delete removes the persisted credential. Deleting an absent credential is
// not an error.
func (s *Store) Delete(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE name = ?`, refreshTokenKey)
	return err
}
