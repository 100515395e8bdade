package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ds124wfegd/eventhive/pkg/sqlite"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

type sqliteStorage struct {
	db      *sql.DB
	profile string
}

// NewSQLiteStorage persists the session in a local SQLite file, one row per
// key under the given profile.
func NewSQLiteStorage(ctx context.Context, path, profile string) (Storage, error) {
	db, err := sqlite.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStorage{db: db, profile: profile}, nil
}

func (s *sqliteStorage) Load(ctx context.Context) (Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session WHERE profile = ?`, s.profile)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read session: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Record{}, fmt.Errorf("failed to scan session: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return Record{}, err
	}

	return decodeRecord(values)
}

func (s *sqliteStorage) Save(ctx context.Context, rec Record) error {
	user, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	upsert := `INSERT INTO session (profile, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, upsert, s.profile, keyToken, rec.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, s.profile, keyUser, string(user)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return tx.Commit()
}

func (s *sqliteStorage) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE profile = ?`, s.profile); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func decodeRecord(values map[string]string) (Record, error) {
	token, hasToken := values[keyToken]
	rawUser, hasUser := values[keyUser]
	if !hasToken || !hasUser || token == "" {
		return Record{}, ErrNoSession
	}

	rec := Record{Token: token}
	if err := json.Unmarshal([]byte(rawUser), &rec.User); err != nil {
		return Record{}, errors.Join(ErrNoSession, fmt.Errorf("corrupt user record: %w", err))
	}
	return rec, nil
}
