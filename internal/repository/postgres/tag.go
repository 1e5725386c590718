package postgres

import (
	"context"
	"fmt"

	"github.com/aidar/wfm-roster/internal/domain"
)

// TagRepository реализует repository.TagRepository для PostgreSQL
type TagRepository struct {
	db Queryer
}

// NewTagRepository создает новый экземпляр TagRepository
func NewTagRepository(db Queryer) *TagRepository {
	return &TagRepository{db: db}
}

// List возвращает созданные теги в порядке создания
func (r *TagRepository) List(ctx context.Context) ([]domain.TagDefinition, error) {
	query := `SELECT name, color, created_at FROM tag_definitions ORDER BY created_at, name`

	rows, err := queryerFromContext(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.TagDefinition
	for rows.Next() {
		var tag domain.TagDefinition
		if err := rows.Scan(&tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// Create сохраняет новый тег
func (r *TagRepository) Create(ctx context.Context, tag domain.TagDefinition) error {
	query := `INSERT INTO tag_definitions (name, color, created_at) VALUES ($1, $2, $3)`

	_, err := queryerFromContext(ctx, r.db).Exec(ctx, query, tag.Name, tag.Color, tag.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTagExists
		}
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// Delete удаляет определение тега. Отсутствие строки не является ошибкой:
// тег мог существовать только на карточках сотрудников.
func (r *TagRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM tag_definitions WHERE name = $1`

	if _, err := queryerFromContext(ctx, r.db).Exec(ctx, query, name); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
