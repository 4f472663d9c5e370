package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoPreference is returned when nothing has been stored under a key.
var ErrNoPreference = errors.New("storage: preference not set")

// PreferenceStore is a single persisted key-value pair.
type PreferenceStore struct {
	db    *DB
	scope string
	key   string
}

// Preference returns the store for key within scope. A scope groups the
// preferences of one owner, such as a local CLI profile.
func (d *DB) Preference(scope, key string) *PreferenceStore {
	return &PreferenceStore{db: d, scope: scope, key: key}
}

// Load returns the stored value.
func (p *PreferenceStore) Load(ctx context.Context) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE scope = ? AND key = ?`,
		p.scope, p.key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoPreference
	}
	if err != nil {
		return "", fmt.Errorf("loading preference %s/%s: %w", p.scope, p.key, err)
	}
	return value, nil
}

// Save stores value, replacing any earlier one.
func (p *PreferenceStore) Save(ctx context.Context, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO preferences (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, p.scope, p.key, value, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving preference %s/%s: %w", p.scope, p.key, err)
	}
	return nil
}
