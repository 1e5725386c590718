package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/wfm-roster/internal/domain"
)

func testEmployee() *domain.Employee {
	return &domain.Employee{
		ID:         "emp-1",
		EmployeeID: "EMP001",
		Status:     domain.StatusActive,
		PersonalInfo: domain.PersonalInfo{
			FirstName: "Динара",
			LastName:  "Абдуллаева",
		},
		Credentials: domain.Credentials{WFMLogin: "adinara"},
		WorkInfo: domain.WorkInfo{
			Position: "Старший оператор",
			Team:     domain.Team{ID: "t1", Name: "Группа поддержки"},
		},
		Tags: []string{"VIP"},
		Metadata: domain.Metadata{
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestEmployeeRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	data, err := json.Marshal(testEmployee())
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM employees ORDER BY created_at, id`)).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	repo := NewEmployeeRepository(mock)
	employees, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 1)

	assert.Equal(t, "EMP001", employees[0].EmployeeID)
	assert.Equal(t, "Абдуллаева Динара", employees[0].FullName())
	assert.Equal(t, "t1", employees[0].WorkInfo.Team.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM employees WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"data"}))

	repo := NewEmployeeRepository(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	emp := testEmployee()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO employees`)).
		WithArgs("emp-1", "EMP001", "adinara", "active", "t1", pgxmock.AnyArg(), emp.Metadata.CreatedAt, emp.Metadata.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewEmployeeRepository(mock)
	require.NoError(t, repo.Upsert(context.Background(), []*domain.Employee{emp}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Upsert_DuplicateEmployeeID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO employees`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	repo := NewEmployeeRepository(mock)
	err = repo.Upsert(context.Background(), []*domain.Employee{testEmployee()})
	assert.ErrorIs(t, err, domain.ErrEmployeeExists)
}

func TestEmployeeRepository_Upsert_WrapsOtherErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO employees`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)

	repo := NewEmployeeRepository(mock)
	err = repo.Upsert(context.Background(), []*domain.Employee{testEmployee()})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrEmployeeExists)
}
