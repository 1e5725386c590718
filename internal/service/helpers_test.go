package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/aidar/wfm-roster/internal/domain"
)

var (
	teamSupport = domain.Team{ID: "t1", Name: "Группа поддержки", Color: "#3b82f6", ManagerID: "mgr_001", MemberCount: 12, TargetUtilization: decimal.RequireFromString("0.85")}
	teamSales   = domain.Team{ID: "t2", Name: "Отдел продаж", Color: "#16a34a", ManagerID: "mgr_002", MemberCount: 8, TargetUtilization: decimal.RequireFromString("0.8")}
	baseTime    = time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC)
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEmployee(id, lastName, firstName string, status domain.EmployeeStatus, team domain.Team) *domain.Employee {
	return &domain.Employee{
		ID:         id,
		EmployeeID: "EMP" + id,
		Status:     status,
		PersonalInfo: domain.PersonalInfo{
			LastName:  lastName,
			FirstName: firstName,
			Email:     id + "@company.com",
		},
		Credentials: domain.Credentials{
			WFMLogin:       "login_" + id,
			ExternalLogins: []string{"1." + id},
		},
		WorkInfo: domain.WorkInfo{
			Position:   "Оператор",
			Team:       team,
			HireDate:   time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC),
			Department: domain.DepartmentForTeam(team.Name),
		},
		OrgPlacement: domain.OrgPlacement{
			OrgUnit:  "Отдел качества",
			Office:   "Офис Бишкек",
			TimeZone: "Europe/Moscow",
			HourNorm: 40,
		},
		Skills:        []domain.Skill{},
		ReserveSkills: []domain.Skill{},
		Tags:          []string{},
		Metadata: domain.Metadata{
			CreatedAt:      baseTime.Add(-24 * time.Hour),
			UpdatedAt:      baseTime.Add(-time.Hour),
			CreatedBy:      "admin_001",
			LastModifiedBy: "admin_001",
		},
	}
}

func newMemoryStore(employees ...*domain.Employee) *Store {
	store := NewStore(StoreDeps{Logger: zerolog.Nop()})
	store.Reset(employees, []domain.Team{teamSupport, teamSales}, nil)
	return store
}

// tenEmployees returns a roster of ten employees with three active ones.
func tenEmployees() []*domain.Employee {
	return []*domain.Employee{
		newEmployee("e01", "Яковлева", "Анна", domain.StatusActive, teamSupport),
		newEmployee("e02", "Борисов", "Олег", domain.StatusVacation, teamSupport),
		newEmployee("e03", "абрамов", "Илья", domain.StatusActive, teamSales),
		newEmployee("e04", "Воронина", "Мария", domain.StatusProbation, teamSales),
		newEmployee("e05", "Гаврилов", "Денис", domain.StatusInactive, teamSupport),
		newEmployee("e06", "Дмитриева", "Ольга", domain.StatusTerminated, teamSales),
		newEmployee("e07", "Жуков", "Павел", domain.StatusActive, teamSupport),
		newEmployee("e08", "Зайцева", "Ирина", domain.StatusVacation, teamSales),
		newEmployee("e09", "Киселев", "Роман", domain.StatusProbation, teamSupport),
		newEmployee("e10", "Лебедева", "Софья", domain.StatusInactive, teamSales),
	}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEmployeeEvents(ctx context.Context, events []domain.EmployeeEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type memoryPreferences struct {
	mu      sync.Mutex
	values  map[string]string
	saveErr error
}

func newMemoryPreferences() *memoryPreferences {
	return &memoryPreferences{values: make(map[string]string)}
}

func (p *memoryPreferences) Load(_ context.Context, operatorID, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[operatorID+"/"+key]
	return v, ok, nil
}

func (p *memoryPreferences) Save(_ context.Context, operatorID, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.values[operatorID+"/"+key] = value
	return nil
}
