package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceRepository stores small client-local key/value display
// preferences (default max distance, theme and the like).
type PreferenceRepository interface {
	SetPreference(ctx context.Context, key, value string) error
	Preference(ctx context.Context, key string) (string, error)
	Preferences(ctx context.Context) (map[string]string, error)
	DeletePreference(ctx context.Context, key string) error
}

// PreferenceRepo is a sqlx implementation of PreferenceRepository.
type PreferenceRepo struct {
	db *sqlx.DB
}

// NewPreferenceRepo constructs a PreferenceRepo.
func NewPreferenceRepo(db *sqlx.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// SetPreference inserts or replaces a preference value.
func (r *PreferenceRepo) SetPreference(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
         ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

// Preference returns one preference value.
func (r *PreferenceRepo) Preference(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM preferences WHERE key=?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPreferenceNotFound
	}
	return value, err
}

// Preferences returns every stored preference.
func (r *PreferenceRepo) Preferences(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, rows.Err()
}

// DeletePreference removes a preference if present.
func (r *PreferenceRepo) DeletePreference(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key=?`, key)
	return err
}
