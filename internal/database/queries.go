package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetSetting returns the value stored under key. The boolean is false when
// the key has never been written.
func (d *Database) GetSetting(ctx context.Context, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, errors.New("setting key is empty")
	}

	query := "select value from settings where key = ?"

	var value string
	err := d.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to execute query: %w", err)
	}

	return value, true, nil
}

func (d *Database) SetSetting(ctx context.Context, key string, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("setting key is empty")
	}

	query := `insert into settings (key, value)
	values (?, ?)
	on conflict (key) do update
	set value = excluded.value, updated_at = current_timestamp`

	_, err := d.db.ExecContext(ctx, query, key, value)

	return err
}
