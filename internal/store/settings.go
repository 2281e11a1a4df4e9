package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns a per-user override, or ok=false when unset.
func (s *Store) GetSetting(ctx context.Context, user, key string) (string, bool, error) {
	ctx = ensureContext(ctx)
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE user = ? AND key = ?", user, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores or replaces a per-user override.
func (s *Store) SetSetting(ctx context.Context, user, key, value string) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO settings (user, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (user, key) DO UPDATE SET value = excluded.value`,
		user, key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a per-user override, reverting to the config default.
func (s *Store) DeleteSetting(ctx context.Context, user, key string) error {
	_, err := s.execWithRetry(ctx,
		"DELETE FROM settings WHERE user = ? AND key = ?", user, key)
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// ListSettings returns every override stored for a user.
func (s *Store) ListSettings(ctx context.Context, user string) (map[string]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM settings WHERE user = ? ORDER BY key", user)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}
