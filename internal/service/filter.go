package service

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aidar/wfm-roster/internal/domain"
)

// FilterEmployees returns the employees matching criteria, preserving input order.
// The input slice and its elements are never modified.
func FilterEmployees(employees []*domain.Employee, criteria domain.FilterCriteria) []*domain.Employee {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	out := make([]*domain.Employee, 0, len(employees))
	for _, emp := range employees {
		if matches(emp, criteria, search) {
			out = append(out, emp)
		}
	}
	return out
}

func matches(emp *domain.Employee, c domain.FilterCriteria, search string) bool {
	if !c.ShowInactive && (emp.Status == domain.StatusInactive || emp.Status == domain.StatusTerminated) {
		return false
	}
	if search != "" && !strings.Contains(searchText(emp), search) {
		return false
	}
	if c.Team != "" && emp.WorkInfo.Team.ID != c.Team {
		return false
	}
	if c.Status != "" && string(emp.Status) != c.Status {
		return false
	}
	if c.Position != "" && emp.WorkInfo.Position != c.Position {
		return false
	}
	if c.OrgUnit != "" && emp.OrgPlacement.OrgUnit != c.OrgUnit {
		return false
	}
	if c.Skill != "" && !emp.HasSkill(c.Skill) {
		return false
	}
	return true
}

func searchText(emp *domain.Employee) string {
	return strings.ToLower(strings.Join([]string{
		emp.PersonalInfo.LastName,
		emp.PersonalInfo.FirstName,
		emp.PersonalInfo.MiddleName,
		emp.Credentials.WFMLogin,
		emp.WorkInfo.Position,
	}, " "))
}

// SortEmployees returns a sorted copy. The sort is stable, so equal keys keep input order.
func SortEmployees(employees []*domain.Employee, sortBy domain.SortKey, order domain.SortOrder) []*domain.Employee {
	out := slices.Clone(employees)
	// Collator keeps internal buffers and must not be shared between goroutines.
	coll := collate.New(language.Russian)

	cmp := func(a, b *domain.Employee) int {
		switch sortBy {
		case domain.SortByPosition:
			return coll.CompareString(a.WorkInfo.Position, b.WorkInfo.Position)
		case domain.SortByTeam:
			return coll.CompareString(a.WorkInfo.Team.Name, b.WorkInfo.Team.Name)
		case domain.SortByHireDate:
			return a.WorkInfo.HireDate.Compare(b.WorkInfo.HireDate)
		case domain.SortByPerformance:
			return a.Performance.QualityScore.Cmp(b.Performance.QualityScore)
		default:
			return coll.CompareString(a.FullName(), b.FullName())
		}
	}

	slices.SortStableFunc(out, func(a, b *domain.Employee) int {
		if order == domain.SortDesc {
			return -cmp(a, b)
		}
		return cmp(a, b)
	})
	return out
}

// VisibleEmployees applies filtering and sorting with normalized criteria.
func VisibleEmployees(employees []*domain.Employee, criteria domain.FilterCriteria) []*domain.Employee {
	c := criteria.Normalize()
	return SortEmployees(FilterEmployees(employees, c), c.SortBy, c.SortOrder)
}

// EmployeeIDs returns ids in list order.
func EmployeeIDs(employees []*domain.Employee) []string {
	ids := make([]string, len(employees))
	for i, emp := range employees {
		ids[i] = emp.ID
	}
	return ids
}
