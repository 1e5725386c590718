package service

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aidar/wfm-roster/internal/domain"
)

func TestVisibleEmployees_StatusActiveSortedByLastName(t *testing.T) {
	roster := tenEmployees()

	criteria := domain.DefaultFilterCriteria()
	criteria.Status = string(domain.StatusActive)

	visible := VisibleEmployees(roster, criteria)

	assert.Len(t, visible, 3)
	if diff := cmp.Diff([]string{"e03", "e07", "e01"}, EmployeeIDs(visible)); diff != "" {
		t.Errorf("visible order mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEmployees_HidesInactiveAndTerminatedByDefault(t *testing.T) {
	roster := tenEmployees()

	visible := FilterEmployees(roster, domain.DefaultFilterCriteria())
	assert.Equal(t, []string{"e01", "e02", "e03", "e04", "e07", "e08", "e09"}, EmployeeIDs(visible))

	criteria := domain.DefaultFilterCriteria()
	criteria.ShowInactive = true
	assert.Len(t, FilterEmployees(roster, criteria), 10)
}

func TestFilterEmployees_Predicates(t *testing.T) {
	roster := tenEmployees()
	roster[3].ReserveSkills = []domain.Skill{{ID: "s3", Name: "Очередь 3"}}
	roster[6].WorkInfo.Position = "Старший оператор"
	roster[8].OrgPlacement.OrgUnit = "Отдел продаж"
	roster[1].Credentials.WFMLogin = "manager1"

	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []string
	}{
		{
			name:     "search is case insensitive over last name",
			criteria: domain.FilterCriteria{Search: "  ЖУК "},
			want:     []string{"e07"},
		},
		{
			name:     "search matches wfm login",
			criteria: domain.FilterCriteria{Search: "manager"},
			want:     []string{"e02"},
		},
		{
			name:     "search does not see hidden employees",
			criteria: domain.FilterCriteria{Search: "лебедева"},
			want:     []string{},
		},
		{
			name:     "team",
			criteria: domain.FilterCriteria{Team: "t2"},
			want:     []string{"e03", "e04", "e08"},
		},
		{
			name:     "team with inactive shown",
			criteria: domain.FilterCriteria{Team: "t2", ShowInactive: true},
			want:     []string{"e03", "e04", "e06", "e08", "e10"},
		},
		{
			name:     "skill includes reserve skills",
			criteria: domain.FilterCriteria{Skill: "Очередь 3"},
			want:     []string{"e04"},
		},
		{
			name:     "position is exact",
			criteria: domain.FilterCriteria{Position: "Старший оператор"},
			want:     []string{"e07"},
		},
		{
			name:     "org unit",
			criteria: domain.FilterCriteria{OrgUnit: "Отдел продаж"},
			want:     []string{"e09"},
		},
		{
			name:     "filters combine",
			criteria: domain.FilterCriteria{Team: "t1", Status: "vacation"},
			want:     []string{"e02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmployeeIDs(FilterEmployees(roster, tt.criteria))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterEmployees_DoesNotModifyInput(t *testing.T) {
	roster := tenEmployees()
	before := EmployeeIDs(roster)

	criteria := domain.DefaultFilterCriteria()
	criteria.SortOrder = domain.SortDesc
	_ = VisibleEmployees(roster, criteria)

	assert.Equal(t, before, EmployeeIDs(roster))
}

func TestSortEmployees(t *testing.T) {
	a := newEmployee("a", "Борисов", "Олег", domain.StatusActive, teamSales)
	b := newEmployee("b", "Андреева", "Вера", domain.StatusActive, teamSupport)
	c := newEmployee("c", "Волков", "Иван", domain.StatusActive, teamSupport)

	a.WorkInfo.HireDate = time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC)
	b.WorkInfo.HireDate = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	c.WorkInfo.HireDate = time.Date(2019, 9, 3, 0, 0, 0, 0, time.UTC)

	a.Performance.QualityScore = decimal.NewFromInt(94)
	b.Performance.QualityScore = decimal.RequireFromString("87.5")
	c.Performance.QualityScore = decimal.NewFromInt(99)

	a.WorkInfo.Position = "Старший оператор"
	b.WorkInfo.Position = "Аналитик"
	c.WorkInfo.Position = "Оператор"

	roster := []*domain.Employee{a, b, c}

	tests := []struct {
		sortBy domain.SortKey
		order  domain.SortOrder
		want   []string
	}{
		{domain.SortByName, domain.SortAsc, []string{"b", "a", "c"}},
		{domain.SortByName, domain.SortDesc, []string{"c", "a", "b"}},
		{domain.SortByPosition, domain.SortAsc, []string{"b", "c", "a"}},
		{domain.SortByTeam, domain.SortAsc, []string{"b", "c", "a"}},
		{domain.SortByHireDate, domain.SortAsc, []string{"c", "a", "b"}},
		{domain.SortByHireDate, domain.SortDesc, []string{"b", "a", "c"}},
		{domain.SortByPerformance, domain.SortDesc, []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sortBy)+"_"+string(tt.order), func(t *testing.T) {
			got := EmployeeIDs(SortEmployees(roster, tt.sortBy, tt.order))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortEmployees_StableForEqualKeys(t *testing.T) {
	roster := tenEmployees()

	asc := SortEmployees(roster, domain.SortByPosition, domain.SortAsc)
	desc := SortEmployees(roster, domain.SortByPosition, domain.SortDesc)

	assert.Equal(t, EmployeeIDs(roster), EmployeeIDs(asc))
	assert.Equal(t, EmployeeIDs(roster), EmployeeIDs(desc))
}

func TestVisibleEmployees_UnknownSortFallsBackToName(t *testing.T) {
	roster := tenEmployees()

	got := VisibleEmployees(roster, domain.FilterCriteria{SortBy: "salary", SortOrder: "sideways"})
	want := VisibleEmployees(roster, domain.DefaultFilterCriteria())

	assert.Equal(t, EmployeeIDs(want), EmployeeIDs(got))
}
