package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/wfm-roster/internal/domain"
)

func TestTeamRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM teams`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "color", "manager_id", "member_count", "target_utilization"}).
			AddRow("t1", "Группа поддержки", "#2563eb", "m1", 12, "0.8500"))

	teams, err := NewTeamRepository(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Группа поддержки", teams[0].Name)
	assert.True(t, decimal.RequireFromString("0.85").Equal(teams[0].TargetUtilization))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	team := domain.Team{ID: "t1", Name: "Отдел продаж", TargetUtilization: decimal.RequireFromString("0.9")}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO teams`)).
		WithArgs("t1", "Отдел продаж", "", "", 0, "0.9").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewTeamRepository(mock).Upsert(context.Background(), team))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tag_definitions`)).
		WithArgs("VIP", "#2563eb", now).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err = NewTagRepository(mock).Create(context.Background(), domain.TagDefinition{Name: "VIP", Color: "#2563eb", CreatedAt: now})
	assert.ErrorIs(t, err, domain.ErrTagExists)
}

func TestTagRepository_ListAndDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name, color, created_at FROM tag_definitions`)).
		WillReturnRows(pgxmock.NewRows([]string{"name", "color", "created_at"}).AddRow("Наставник", "#16a34a", created))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tag_definitions WHERE name = $1`)).
		WithArgs("Наставник").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewTagRepository(mock)
	tags, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.TagDefinition{{Name: "Наставник", Color: "#16a34a", CreatedAt: created}}, tags)

	require.NoError(t, repo.Delete(context.Background(), "Наставник"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferencesRepository_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM ui_preferences`)).
		WithArgs("op-1", "employee-list:columns").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`{"fio":false}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM ui_preferences`)).
		WithArgs("op-1", "employee-list:filters").
		WillReturnRows(pgxmock.NewRows([]string{"value"}))

	repo := NewPreferencesRepository(mock)

	value, found, err := repo.Load(context.Background(), "op-1", "employee-list:columns")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"fio":false}`, value)

	_, found, err = repo.Load(context.Background(), "op-1", "employee-list:filters")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferencesRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO ui_preferences`)).
		WithArgs("op-1", "employee-list:filters", `{"search":"ива"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewPreferencesRepository(mock).Save(context.Background(), "op-1", "employee-list:filters", `{"search":"ива"}`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_CommitsAndPassesTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tag_definitions`)).
		WithArgs("VIP").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	tm := NewTransactionManager(mock)
	tags := NewTagRepository(mock)

	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		_, inTx := txFromContext(ctx)
		assert.True(t, inTx)
		return tags.Delete(ctx, "VIP")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = NewTransactionManager(mock).WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
