package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aidar/wfm-roster/internal/domain"
)

// EmployeeRepository реализует repository.EmployeeRepository для PostgreSQL.
// Запись хранится целиком в jsonb, поля для индексов продублированы в колонках.
type EmployeeRepository struct {
	db Queryer
}

// NewEmployeeRepository создает новый экземпляр EmployeeRepository
func NewEmployeeRepository(db Queryer) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List возвращает всех сотрудников в порядке создания
func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	query := `SELECT data FROM employees ORDER BY created_at, id`

	rows, err := queryerFromContext(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetByID получает сотрудника по ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT data FROM employees WHERE id = $1`

	emp, err := scanEmployee(queryerFromContext(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}

	return emp, nil
}

// Upsert создает или заменяет записи сотрудников
func (r *EmployeeRepository) Upsert(ctx context.Context, employees []*domain.Employee) error {
	query := `
		INSERT INTO employees (id, employee_id, wfm_login, status, team_id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			wfm_login = EXCLUDED.wfm_login,
			status = EXCLUDED.status,
			team_id = EXCLUDED.team_id,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`

	db := queryerFromContext(ctx, r.db)
	for _, emp := range employees {
		data, err := json.Marshal(emp)
		if err != nil {
			return fmt.Errorf("marshal employee %s: %w", emp.ID, err)
		}

		_, err = db.Exec(ctx, query,
			emp.ID,
			emp.EmployeeID,
			emp.Credentials.WFMLogin,
			string(emp.Status),
			emp.WorkInfo.Team.ID,
			data,
			emp.Metadata.CreatedAt,
			emp.Metadata.UpdatedAt,
		)
		if err != nil {
			// Табельный номер уже занят другой записью
			if isUniqueViolation(err) {
				return domain.ErrEmployeeExists
			}
			return fmt.Errorf("upsert employee %s: %w", emp.ID, err)
		}
	}

	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		return nil, err
	}

	var emp domain.Employee
	if err := json.Unmarshal(data, &emp); err != nil {
		return nil, fmt.Errorf("decode employee: %w", err)
	}
	return &emp, nil
}
