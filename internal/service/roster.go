package service

import (
	"context"
	"slices"
	"strings"

	"github.com/aidar/wfm-roster/internal/domain"
)

// BulkPatch describes a bulk edit. Empty fields are left unchanged.
type BulkPatch struct {
	Status  domain.EmployeeStatus
	TeamID  string
	Comment string
}

// RosterService handles roster-wide mutations and single record access.
type RosterService struct {
	store *Store
	clock Clock
}

// NewRosterService creates a new RosterService
func NewRosterService(store *Store, clock Clock) *RosterService {
	return &RosterService{store: store, clock: clock}
}

// Snapshot returns the current roster.
func (s *RosterService) Snapshot() *Snapshot {
	return s.store.Snapshot()
}

// GetEmployee returns an employee by id.
func (s *RosterService) GetEmployee(id string) (*domain.Employee, error) {
	emp, ok := s.store.Snapshot().Employee(id)
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return emp.Clone(), nil
}

// SaveEmployee replaces an existing record wholesale. Identity and creation
// metadata are kept from the stored record.
func (s *RosterService) SaveEmployee(ctx context.Context, operator string, emp *domain.Employee) (*domain.Employee, error) {
	if !emp.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	var saved *domain.Employee
	_, err := s.store.Update(ctx, func(snap *Snapshot) (*Change, error) {
		existing, ok := snap.Employee(emp.ID)
		if !ok {
			return nil, domain.ErrEmployeeNotFound
		}

		next := emp.Clone()
		next.EmployeeID = existing.EmployeeID
		next.Metadata.CreatedAt = existing.Metadata.CreatedAt
		next.Metadata.CreatedBy = existing.Metadata.CreatedBy
		next.Metadata.UpdatedAt = existing.Metadata.UpdatedAt
		next.Touch(s.clock.Now(), operator)

		saved = next
		return &Change{Kind: domain.EventSaved, Employees: []*domain.Employee{next}}, nil
	})
	if err != nil {
		return nil, err
	}
	return saved.Clone(), nil
}

// BulkEdit applies patch to every employee in ids as one roster update.
// Validation happens before anything is changed.
func (s *RosterService) BulkEdit(ctx context.Context, operator string, ids []string, patch BulkPatch) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ErrEmptySelection
	}

	comment := strings.TrimSpace(patch.Comment)
	if patch.Status == "" && patch.TeamID == "" && comment == "" {
		return 0, domain.ErrEmptyPatch
	}
	if patch.Status != "" && !patch.Status.IsValid() {
		return 0, domain.ErrInvalidStatus
	}

	var updated int
	_, err := s.store.Update(ctx, func(snap *Snapshot) (*Change, error) {
		var team domain.Team
		if patch.TeamID != "" {
			var err error
			if team, err = resolveTeam(snap, patch.TeamID); err != nil {
				return nil, err
			}
		}

		now := s.clock.Now()
		change := &Change{Kind: domain.EventBulkEdited}
		for _, id := range ids {
			existing, ok := snap.Employee(id)
			if !ok {
				continue
			}

			emp := existing.Clone()
			if patch.Status != "" {
				emp.Status = patch.Status
			}
			if patch.TeamID != "" {
				emp.WorkInfo.Team = team
				emp.WorkInfo.Department = team.Name
			}
			if comment != "" && !slices.Contains(emp.Tasks, comment) {
				emp.Tasks = append(emp.Tasks, comment)
			}
			emp.Touch(now, operator)
			change.Employees = append(change.Employees, emp)
		}

		updated = len(change.Employees)
		return change, nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
