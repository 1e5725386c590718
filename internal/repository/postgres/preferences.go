package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PreferencesRepository реализует repository.PreferencesRepository для PostgreSQL
type PreferencesRepository struct {
	db Queryer
}

// NewPreferencesRepository создает новый экземпляр PreferencesRepository
func NewPreferencesRepository(db Queryer) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Load возвращает сохраненное значение настройки оператора
func (r *PreferencesRepository) Load(ctx context.Context, operatorID, key string) (string, bool, error) {
	query := `SELECT value FROM ui_preferences WHERE operator_id = $1 AND key = $2`

	var value string
	err := queryerFromContext(ctx, r.db).QueryRow(ctx, query, operatorID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load preference %s: %w", key, err)
	}

	return value, true, nil
}

// Save сохраняет значение настройки оператора
func (r *PreferencesRepository) Save(ctx context.Context, operatorID, key, value string) error {
	query := `
		INSERT INTO ui_preferences (operator_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (operator_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := queryerFromContext(ctx, r.db).Exec(ctx, query, operatorID, key, value); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}
