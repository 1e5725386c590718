package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/repository"
)

// Preference keys.
const (
	ColumnsPreferenceKey = "employee-list:columns"
	FiltersPreferenceKey = "employee-list:filters"
)

// Operator identifies the authenticated user of a session.
type Operator struct {
	ID    string
	Login string
}

// SessionDeps holds collaborators shared by every session.
type SessionDeps struct {
	Store  *Store
	Roster *RosterService
	Tags   *TagService
	// Preferences is optional; without it preferences live only in memory.
	Preferences repository.PreferencesRepository
	Clock       Clock
	Location    *time.Location
	WizardDelay time.Duration
	Logger      zerolog.Logger
}

// SessionManager keeps one session per operator.
type SessionManager struct {
	mu       sync.Mutex
	deps     SessionDeps
	log      zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	sessions map[string]*Session
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(deps SessionDeps) *SessionManager {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionManager{
		deps:     deps,
		log:      deps.Logger.With().Str("component", "SessionManager").Logger(),
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// Get returns the operator session, creating it and loading saved preferences on first use.
func (m *SessionManager) Get(ctx context.Context, op Operator) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[op.ID]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	s := m.newSession(ctx, op)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[op.ID]; ok {
		s.wizard.Close()
		return existing
	}
	m.sessions[op.ID] = s
	return s
}

// Close cancels pending wizard creates of every session.
func (m *SessionManager) Close() {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.wizard.Close()
	}
}

func (m *SessionManager) newSession(ctx context.Context, op Operator) *Session {
	log := m.deps.Logger.With().Str("component", "Session").Str("operator", op.Login).Logger()
	s := &Session{
		deps:      m.deps,
		log:       log,
		operator:  op,
		filters:   domain.DefaultFilterCriteria(),
		columns:   domain.DefaultColumnVisibility(),
		selection: NewSelection(),
		wizard: NewWizard(m.ctx, op.Login, WizardDeps{
			Store:       m.deps.Store,
			Clock:       m.deps.Clock,
			Location:    m.deps.Location,
			SubmitDelay: m.deps.WizardDelay,
			Logger:      m.deps.Logger,
		}),
	}
	s.loadPreferences(ctx)
	return s
}

// Session is the per-operator list state: filters, columns, selection and wizard.
type Session struct {
	mu          sync.Mutex
	deps        SessionDeps
	log         zerolog.Logger
	operator    Operator
	filters     domain.FilterCriteria
	columns     domain.ColumnVisibility
	selection   *Selection
	seenVersion uint64
	wizard      *Wizard
}

// ListView is the rendered employee list.
type ListView struct {
	Employees        []*domain.Employee    `json:"employees"`
	Columns          []domain.Column       `json:"columns"`
	Filters          domain.FilterCriteria `json:"filters"`
	Total            int                   `json:"total"`
	Visible          int                   `json:"visible"`
	Selected         []string              `json:"selected"`
	HasActiveFilters bool                  `json:"has_active_filters"`
}

// Operator returns the session owner.
func (s *Session) Operator() Operator {
	return s.operator
}

// Wizard returns the session quick-add wizard.
func (s *Session) Wizard() *Wizard {
	return s.wizard
}

// List returns the visible employees with list metadata.
func (s *Session) List() ListView {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.deps.Store.Snapshot()
	visible := s.syncLocked(snap)
	return ListView{
		Employees:        visible,
		Columns:          s.columns.VisibleColumns(),
		Filters:          s.filters,
		Total:            len(snap.Employees),
		Visible:          len(visible),
		Selected:         s.selection.IDs(),
		HasActiveFilters: s.filters.HasActiveFilters(),
	}
}

// syncLocked recomputes the visible list and drops selected ids that left it.
func (s *Session) syncLocked(snap *Snapshot) []*domain.Employee {
	visible := VisibleEmployees(snap.Employees, s.filters)
	s.selection.Retain(EmployeeIDs(visible))
	s.seenVersion = snap.Version
	return visible
}

// Filters returns the current criteria.
func (s *Session) Filters() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilters replaces the criteria and saves them.
func (s *Session) SetFilters(ctx context.Context, f domain.FilterCriteria) domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = f.Normalize()
	s.syncLocked(s.deps.Store.Snapshot())
	s.savePreference(ctx, FiltersPreferenceKey, s.filters)
	return s.filters
}

// ResetFilters restores default criteria.
func (s *Session) ResetFilters(ctx context.Context) domain.FilterCriteria {
	return s.SetFilters(ctx, domain.DefaultFilterCriteria())
}

// Columns returns a copy of the column visibility map.
func (s *Session) Columns() domain.ColumnVisibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns.Merge(nil)
}

// SetColumns merges patch into the column visibility map and saves it.
func (s *Session) SetColumns(ctx context.Context, patch domain.ColumnVisibility) domain.ColumnVisibility {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.columns = s.columns.Merge(patch)
	s.savePreference(ctx, ColumnsPreferenceKey, s.columns)
	return s.columns.Merge(nil)
}

// Selection returns the selected ids.
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncIfStaleLocked()
	return s.selection.IDs()
}

// Toggle flips selection of a visible employee.
func (s *Session) Toggle(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := s.syncLocked(s.deps.Store.Snapshot())
	found := false
	for _, emp := range visible {
		if emp.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrEmployeeNotFound
	}
	s.selection.Toggle(id)
	return s.selection.IDs(), nil
}

// ToggleAll selects every visible employee or clears a full selection.
func (s *Session) ToggleAll() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := s.syncLocked(s.deps.Store.Snapshot())
	s.selection.ToggleAll(EmployeeIDs(visible))
	return s.selection.IDs()
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// BulkEdit applies patch to the selection and clears it on success.
func (s *Session) BulkEdit(ctx context.Context, patch BulkPatch) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncIfStaleLocked()
	updated, err := s.deps.Roster.BulkEdit(ctx, s.operator.Login, s.selection.IDs(), patch)
	if err != nil {
		return 0, err
	}
	s.selection.Clear()
	s.log.Info().Int("updated", updated).Msg("bulk edit applied")
	return updated, nil
}

// ApplyTags adds and removes tags on the selection.
func (s *Session) ApplyTags(ctx context.Context, add, remove []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncIfStaleLocked()
	return s.deps.Tags.ApplyTags(ctx, s.operator.Login, s.selection.IDs(), add, remove)
}

// CommonTags returns tags shared by every selected employee.
func (s *Session) CommonTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncIfStaleLocked()
	return s.deps.Tags.CommonTags(s.selection.IDs())
}

// Export renders the visible list, or its selected part, as CSV.
func (s *Session) Export(scope ExportScope, contextLabel string) (ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.syncLocked(s.deps.Store.Snapshot())
	if scope == ExportSelected {
		selected := make([]*domain.Employee, 0, s.selection.Len())
		for _, emp := range rows {
			if s.selection.Has(emp.ID) {
				selected = append(selected, emp)
			}
		}
		rows = selected
	}
	if contextLabel == "" {
		contextLabel = DefaultExportContext
	}
	return ExportCSV(rows, s.columns, contextLabel, s.deps.Clock.Now(), s.deps.Location)
}

func (s *Session) syncIfStaleLocked() {
	snap := s.deps.Store.Snapshot()
	if snap.Version != s.seenVersion {
		s.syncLocked(snap)
	}
}

// loadPreferences restores saved filters and columns over the defaults.
// Unreadable values are logged and ignored.
func (s *Session) loadPreferences(ctx context.Context) {
	if s.deps.Preferences == nil {
		return
	}

	filters := domain.DefaultFilterCriteria()
	if s.loadPreference(ctx, FiltersPreferenceKey, &filters) {
		s.filters = filters.Normalize()
	}

	var columns domain.ColumnVisibility
	if s.loadPreference(ctx, ColumnsPreferenceKey, &columns) {
		s.columns = domain.DefaultColumnVisibility().Merge(columns)
	}
}

func (s *Session) loadPreference(ctx context.Context, key string, dst any) bool {
	raw, found, err := s.deps.Preferences.Load(ctx, s.operator.ID, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to load saved preference")
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to parse saved preference")
		return false
	}
	return true
}

func (s *Session) savePreference(ctx context.Context, key string, value any) {
	if s.deps.Preferences == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to encode preference")
		return
	}
	if err := s.deps.Preferences.Save(ctx, s.operator.ID, key, string(raw)); err != nil {
		s.log.Error().Err(fmt.Errorf("save %s: %w", key, err)).Msg("failed to save preference")
	}
}
