package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/wfm-roster/internal/domain"
)

func TestRosterService_BulkEdit(t *testing.T) {
	ctx := context.Background()
	roster := tenEmployees()
	store := newMemoryStore(roster...)
	clock := newFakeClock(baseTime)
	svc := NewRosterService(store, clock)

	before := map[string]time.Time{}
	for _, emp := range roster {
		before[emp.ID] = emp.Metadata.UpdatedAt
	}

	updated, err := svc.BulkEdit(ctx, "manager1", []string{"e01", "e03", "missing"}, BulkPatch{
		Status:  domain.StatusVacation,
		TeamID:  "t2",
		Comment: "  Проверить график  ",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	snap := store.Snapshot()
	for _, id := range []string{"e01", "e03"} {
		emp, ok := snap.Employee(id)
		require.True(t, ok)
		assert.Equal(t, domain.StatusVacation, emp.Status)
		assert.Equal(t, "t2", emp.WorkInfo.Team.ID)
		assert.Equal(t, "Отдел продаж", emp.WorkInfo.Department)
		assert.Equal(t, []string{"Проверить график"}, emp.Tasks)
		assert.True(t, emp.Metadata.UpdatedAt.After(before[id]))
		assert.Equal(t, "manager1", emp.Metadata.LastModifiedBy)
	}

	untouched, _ := snap.Employee("e02")
	assert.Equal(t, domain.StatusVacation, untouched.Status)
	assert.Equal(t, "t1", untouched.WorkInfo.Team.ID)
}

func TestRosterService_BulkEdit_CommentIsSetUnion(t *testing.T) {
	ctx := context.Background()
	emp := newEmployee("e1", "Абдуллаева", "Динара", domain.StatusActive, teamSupport)
	emp.Tasks = []string{"Обучение"}
	store := newMemoryStore(emp)
	svc := NewRosterService(store, newFakeClock(baseTime))

	_, err := svc.BulkEdit(ctx, "manager1", []string{"e1"}, BulkPatch{Comment: "Обучение"})
	require.NoError(t, err)
	_, err = svc.BulkEdit(ctx, "manager1", []string{"e1"}, BulkPatch{Comment: "Аттестация"})
	require.NoError(t, err)

	got, err := svc.GetEmployee("e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Обучение", "Аттестация"}, got.Tasks)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestRosterService_BulkEdit_UpdatedAtStrictlyIncreases(t *testing.T) {
	ctx := context.Background()
	emp := newEmployee("e1", "Абдуллаева", "Динара", domain.StatusActive, teamSupport)
	// Clock behind the stored timestamp.
	emp.Metadata.UpdatedAt = baseTime.Add(time.Hour)
	store := newMemoryStore(emp)
	svc := NewRosterService(store, newFakeClock(baseTime))

	_, err := svc.BulkEdit(ctx, "manager1", []string{"e1"}, BulkPatch{Status: domain.StatusProbation})
	require.NoError(t, err)
	first, _ := svc.GetEmployee("e1")
	assert.True(t, first.Metadata.UpdatedAt.After(baseTime.Add(time.Hour)))

	_, err = svc.BulkEdit(ctx, "manager1", []string{"e1"}, BulkPatch{Status: domain.StatusActive})
	require.NoError(t, err)
	second, _ := svc.GetEmployee("e1")
	assert.True(t, second.Metadata.UpdatedAt.After(first.Metadata.UpdatedAt))
}

func TestRosterService_BulkEdit_Validation(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(tenEmployees()...)
	svc := NewRosterService(store, newFakeClock(baseTime))
	version := store.Snapshot().Version

	tests := []struct {
		name    string
		ids     []string
		patch   BulkPatch
		wantErr error
	}{
		{"empty selection", nil, BulkPatch{Status: domain.StatusActive}, domain.ErrEmptySelection},
		{"empty patch", []string{"e01"}, BulkPatch{Comment: "   "}, domain.ErrEmptyPatch},
		{"unknown status", []string{"e01"}, BulkPatch{Status: "fired"}, domain.ErrInvalidStatus},
		{"unknown team", []string{"e01"}, BulkPatch{TeamID: "t404"}, domain.ErrTeamNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BulkEdit(ctx, "manager1", tt.ids, tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, version, store.Snapshot().Version)
}

func TestRosterService_SaveEmployee(t *testing.T) {
	ctx := context.Background()
	emp := newEmployee("e1", "Абдуллаева", "Динара", domain.StatusActive, teamSupport)
	store := newMemoryStore(emp)
	svc := NewRosterService(store, newFakeClock(baseTime))

	edit, err := svc.GetEmployee("e1")
	require.NoError(t, err)
	edit.PersonalInfo.Phone = "+996555123456"
	edit.EmployeeID = "HIJACK"
	edit.Metadata.CreatedBy = "someone"

	saved, err := svc.SaveEmployee(ctx, "manager1", edit)
	require.NoError(t, err)

	assert.Equal(t, "+996555123456", saved.PersonalInfo.Phone)
	assert.Equal(t, "EMPe1", saved.EmployeeID)
	assert.Equal(t, "admin_001", saved.Metadata.CreatedBy)
	assert.Equal(t, "manager1", saved.Metadata.LastModifiedBy)
	assert.Equal(t, baseTime, saved.Metadata.UpdatedAt)

	missing := newEmployee("nope", "Иванов", "Иван", domain.StatusActive, teamSupport)
	_, err = svc.SaveEmployee(ctx, "manager1", missing)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)

	edit.Status = "unknown"
	_, err = svc.SaveEmployee(ctx, "manager1", edit)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestRosterService_GetEmployeeReturnsCopy(t *testing.T) {
	store := newMemoryStore(newEmployee("e1", "Абдуллаева", "Динара", domain.StatusActive, teamSupport))
	svc := NewRosterService(store, newFakeClock(baseTime))

	got, err := svc.GetEmployee("e1")
	require.NoError(t, err)
	got.Tags = append(got.Tags, "VIP")

	stored, _ := store.Snapshot().Employee("e1")
	assert.Empty(t, stored.Tags)

	_, err = svc.GetEmployee("missing")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}
