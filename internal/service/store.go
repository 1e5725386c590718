package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/repository"
)

// EventPublisher delivers roster change events to downstream consumers.
type EventPublisher interface {
	PublishEmployeeEvents(ctx context.Context, events []domain.EmployeeEvent) error
}

// Snapshot is an immutable view of the roster. Records reachable from a
// snapshot must never be modified; updaters clone before changing anything.
type Snapshot struct {
	Version   uint64
	Employees []*domain.Employee
	Teams     []domain.Team
	Tags      []domain.TagDefinition
}

// Employee looks up an employee by id.
func (s *Snapshot) Employee(id string) (*domain.Employee, bool) {
	for _, emp := range s.Employees {
		if emp.ID == id {
			return emp, true
		}
	}
	return nil, false
}

// TagDefinition looks up a user-created tag by name.
func (s *Snapshot) TagDefinition(name string) (domain.TagDefinition, bool) {
	for _, tag := range s.Tags {
		if tag.Name == name {
			return tag, true
		}
	}
	return domain.TagDefinition{}, false
}

// Change is the result of an updater: full replacement records plus tag
// definition changes. A nil Change means nothing to do.
type Change struct {
	Kind        domain.EventKind
	Employees   []*domain.Employee
	Teams       []domain.Team
	CreatedTags []domain.TagDefinition
	DeletedTags []string

	// Precommit runs after every write and right before the transaction
	// commits. An error rolls the change back.
	Precommit func() error
}

func (c *Change) precommit() error {
	if c.Precommit == nil {
		return nil
	}
	return c.Precommit()
}

func (c *Change) empty() bool {
	return c == nil || (len(c.Employees) == 0 && len(c.Teams) == 0 && len(c.CreatedTags) == 0 && len(c.DeletedTags) == 0)
}

// StoreDeps holds the store collaborators. Repositories are optional: without
// them the store keeps the roster in memory only.
type StoreDeps struct {
	Tx        repository.TransactionManager
	Employees repository.EmployeeRepository
	Teams     repository.TeamRepository
	Tags      repository.TagRepository
	Publisher EventPublisher
	Logger    zerolog.Logger
}

// Store owns the shared roster. All writes go through Update, which runs
// updaters one at a time and publishes a new snapshot on success.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	deps    StoreDeps
	log     zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(deps StoreDeps) *Store {
	s := &Store{
		deps: deps,
		log:  deps.Logger.With().Str("component", "RosterStore").Logger(),
	}
	s.current.Store(&Snapshot{})
	return s
}

// Load replaces the in-memory roster with the persisted one.
func (s *Store) Load(ctx context.Context) error {
	if s.deps.Employees == nil || s.deps.Teams == nil || s.deps.Tags == nil {
		return fmt.Errorf("load roster: repositories are not configured")
	}

	employees, err := s.deps.Employees.List(ctx)
	if err != nil {
		return fmt.Errorf("load employees: %w", err)
	}
	teams, err := s.deps.Teams.List(ctx)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	tags, err := s.deps.Tags.List(ctx)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	s.Reset(employees, teams, tags)
	s.log.Info().
		Int("employees", len(employees)).
		Int("teams", len(teams)).
		Int("tags", len(tags)).
		Msg("roster loaded")
	return nil
}

// Reset replaces the in-memory roster without persisting or publishing.
func (s *Store) Reset(employees []*domain.Employee, teams []domain.Team, tags []domain.TagDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.current.Load().Version + 1
	s.current.Store(&Snapshot{
		Version:   version,
		Employees: slices.Clone(employees),
		Teams:     slices.Clone(teams),
		Tags:      slices.Clone(tags),
	})
}

// Snapshot returns the current roster without blocking writers.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Update runs fn against the current snapshot under the store lock. When fn
// returns a non-empty Change, the change is persisted in one transaction and a
// new snapshot with an incremented version becomes current. Events are
// published after the lock is released; publishing failures are only logged.
func (s *Store) Update(ctx context.Context, fn func(snap *Snapshot) (*Change, error)) (*Snapshot, error) {
	next, change, err := s.apply(ctx, fn)
	if err != nil {
		return nil, err
	}
	if !change.empty() {
		s.publish(ctx, change)
	}
	return next, nil
}

func (s *Store) apply(ctx context.Context, fn func(snap *Snapshot) (*Change, error)) (*Snapshot, *Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	change, err := fn(cur)
	if err != nil {
		return nil, nil, err
	}
	if change.empty() {
		return cur, nil, nil
	}

	if err := s.persist(ctx, change); err != nil {
		return nil, nil, fmt.Errorf("persist roster change: %w", err)
	}

	next := applyChange(cur, change)
	s.current.Store(next)
	return next, change, nil
}

func (s *Store) persist(ctx context.Context, change *Change) error {
	if s.deps.Tx == nil {
		return change.precommit()
	}
	return s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, team := range change.Teams {
			if err := s.deps.Teams.Upsert(ctx, team); err != nil {
				return err
			}
		}
		for _, tag := range change.CreatedTags {
			if err := s.deps.Tags.Create(ctx, tag); err != nil {
				return err
			}
		}
		for _, name := range change.DeletedTags {
			if err := s.deps.Tags.Delete(ctx, name); err != nil {
				return err
			}
		}
		if len(change.Employees) > 0 {
			if err := s.deps.Employees.Upsert(ctx, change.Employees); err != nil {
				return err
			}
		}
		return change.precommit()
	})
}

func applyChange(cur *Snapshot, change *Change) *Snapshot {
	next := &Snapshot{
		Version:   cur.Version + 1,
		Employees: slices.Clone(cur.Employees),
		Teams:     slices.Clone(cur.Teams),
		Tags:      slices.Clone(cur.Tags),
	}

	index := make(map[string]int, len(next.Employees))
	for i, emp := range next.Employees {
		index[emp.ID] = i
	}
	for _, emp := range change.Employees {
		if i, ok := index[emp.ID]; ok {
			next.Employees[i] = emp
			continue
		}
		index[emp.ID] = len(next.Employees)
		next.Employees = append(next.Employees, emp)
	}

	for _, team := range change.Teams {
		i := slices.IndexFunc(next.Teams, func(t domain.Team) bool { return t.ID == team.ID })
		if i >= 0 {
			next.Teams[i] = team
		} else {
			next.Teams = append(next.Teams, team)
		}
	}

	if len(change.DeletedTags) > 0 {
		next.Tags = slices.DeleteFunc(next.Tags, func(t domain.TagDefinition) bool {
			return slices.Contains(change.DeletedTags, t.Name)
		})
	}
	next.Tags = append(next.Tags, change.CreatedTags...)

	return next
}

func (s *Store) publish(ctx context.Context, change *Change) {
	if s.deps.Publisher == nil || len(change.Employees) == 0 {
		return
	}

	events := make([]domain.EmployeeEvent, 0, len(change.Employees))
	for _, emp := range change.Employees {
		events = append(events, domain.EmployeeEvent{
			EventID:    uuid.NewString(),
			Kind:       change.Kind,
			EmployeeID: emp.ID,
			Status:     emp.Status,
			TeamID:     emp.WorkInfo.Team.ID,
			Tags:       slices.Clone(emp.Tags),
			ChangedBy:  emp.Metadata.LastModifiedBy,
			OccurredAt: emp.Metadata.UpdatedAt,
		})
	}

	if err := s.deps.Publisher.PublishEmployeeEvents(ctx, events); err != nil {
		s.log.Warn().
			Err(err).
			Str("kind", string(change.Kind)).
			Int("events", len(events)).
			Msg("failed to publish roster events")
	}
}
