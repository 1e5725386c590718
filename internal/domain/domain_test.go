package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmployee_Clone(t *testing.T) {
	salary := decimal.NewFromInt(45000)
	orig := &Employee{
		ID:           "e1",
		Tags:         []string{"План"},
		Skills:       []Skill{{Name: "CRM система"}},
		PersonalInfo: PersonalInfo{EmergencyContact: &EmergencyContact{Name: "Марат"}},
		WorkInfo:     WorkInfo{Salary: &salary},
		OrgPlacement: OrgPlacement{WorkScheme: &WorkScheme{Name: "Административный график"}},
	}

	c := orig.Clone()
	c.Tags[0] = "VIP"
	c.Skills[0].Name = "Продажи"
	c.PersonalInfo.EmergencyContact.Name = "Иван"
	c.OrgPlacement.WorkScheme.Name = "Сменный"

	assert.Equal(t, []string{"План"}, orig.Tags)
	assert.Equal(t, "CRM система", orig.Skills[0].Name)
	assert.Equal(t, "Марат", orig.PersonalInfo.EmergencyContact.Name)
	assert.Equal(t, "Административный график", orig.OrgPlacement.WorkScheme.Name)
	assert.NotSame(t, orig.WorkInfo.Salary, c.WorkInfo.Salary)
	assert.Nil(t, (*Employee)(nil).Clone())
}

func TestEmployee_TouchIsStrictlyIncreasing(t *testing.T) {
	stored := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	emp := &Employee{Metadata: Metadata{UpdatedAt: stored}}

	emp.Touch(stored.Add(-time.Hour), "manager1")
	assert.Equal(t, stored.Add(time.Microsecond), emp.Metadata.UpdatedAt)
	assert.Equal(t, "manager1", emp.Metadata.LastModifiedBy)

	later := stored.Add(time.Minute)
	emp.Touch(later, "manager2")
	assert.Equal(t, later, emp.Metadata.UpdatedAt)
}

func TestEmployee_FullNameAndSkills(t *testing.T) {
	emp := &Employee{
		PersonalInfo:  PersonalInfo{LastName: "Абдуллаева", FirstName: ""},
		ReserveSkills: []Skill{{Name: "Очередь 3"}},
	}
	assert.Equal(t, "Абдуллаева", emp.FullName())
	assert.True(t, emp.HasSkill("Очередь 3"))
	assert.False(t, emp.HasSkill("CRM система"))
}

func TestEmployeeStatus(t *testing.T) {
	assert.True(t, StatusProbation.IsValid())
	assert.False(t, EmployeeStatus("fired").IsValid())
	assert.Equal(t, "Уволен", StatusTerminated.Label())
}

func TestColumnVisibility_Merge(t *testing.T) {
	merged := DefaultColumnVisibility().Merge(ColumnVisibility{ColumnStatus: false, "salary": true})

	assert.Len(t, merged, len(ColumnOrder))
	assert.False(t, merged[ColumnStatus])

	cols := merged.VisibleColumns()
	assert.Len(t, cols, len(ColumnOrder)-1)
	assert.Equal(t, ColumnFIO, cols[0].Key)
}

func TestFilterCriteria_Normalize(t *testing.T) {
	f := FilterCriteria{SortBy: "salary", SortOrder: "up"}.Normalize()
	assert.Equal(t, SortByName, f.SortBy)
	assert.Equal(t, SortAsc, f.SortOrder)

	f = FilterCriteria{SortBy: SortByHireDate, SortOrder: SortDesc}.Normalize()
	assert.Equal(t, SortByHireDate, f.SortBy)
	assert.Equal(t, SortDesc, f.SortOrder)

	assert.False(t, DefaultFilterCriteria().HasActiveFilters())
	assert.True(t, FilterCriteria{ShowInactive: true}.HasActiveFilters())
}

func TestDepartmentForTeam(t *testing.T) {
	assert.Equal(t, "Клиентская поддержка", DepartmentForTeam("Группа поддержки"))
	assert.Equal(t, "Продажи", DepartmentForTeam("Отдел продаж"))
	assert.Equal(t, "Общий", DepartmentForTeam("Бэк-офис"))
}

func TestMapErrorToCode(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{&ValidationError{Fields: []FieldError{{Field: "email", Message: "x"}}}, CodeValidation},
		{fmt.Errorf("wrap: %w", ErrTagExists), CodeTagExists},
		{ErrEmployeeNotFound, CodeNotFound},
		{ErrTagNotFound, CodeNotFound},
		{ErrWizardClosed, CodeConflict},
		{fmt.Errorf("upsert: %w", ErrEmployeeExists), CodeConflict},
		{ErrEmptySelection, CodeBadRequest},
		{ErrTeamNotFound, CodeBadRequest},
		{fmt.Errorf("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToCode(tt.err))
		})
	}
}
