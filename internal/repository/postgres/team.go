package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aidar/wfm-roster/internal/domain"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db Queryer
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db Queryer) *TeamRepository {
	return &TeamRepository{db: db}
}

// List возвращает все команды, отсортированные по названию
func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	query := `
		SELECT id, name, color, manager_id, member_count, target_utilization::text
		FROM teams
		ORDER BY name, id
	`

	rows, err := queryerFromContext(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var (
			team        domain.Team
			utilization string
		)
		if err := rows.Scan(&team.ID, &team.Name, &team.Color, &team.ManagerID, &team.MemberCount, &utilization); err != nil {
			return nil, err
		}
		team.TargetUtilization, err = decimal.NewFromString(utilization)
		if err != nil {
			return nil, fmt.Errorf("parse target utilization of team %s: %w", team.ID, err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

// Upsert создает команду или обновляет существующую
func (r *TeamRepository) Upsert(ctx context.Context, team domain.Team) error {
	query := `
		INSERT INTO teams (id, name, color, manager_id, member_count, target_utilization)
		VALUES ($1, $2, $3, $4, $5, $6::numeric)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			manager_id = EXCLUDED.manager_id,
			member_count = EXCLUDED.member_count,
			target_utilization = EXCLUDED.target_utilization
	`

	_, err := queryerFromContext(ctx, r.db).Exec(ctx, query,
		team.ID, team.Name, team.Color, team.ManagerID, team.MemberCount, team.TargetUtilization.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert team %s: %w", team.ID, err)
	}
	return nil
}
