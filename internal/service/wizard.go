package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aidar/wfm-roster/internal/domain"
)

// WizardState is the lifecycle state of the quick-add wizard.
type WizardState string

// Wizard states.
const (
	WizardClosed     WizardState = "closed"
	WizardEditing    WizardState = "editing"
	WizardSubmitting WizardState = "submitting"
	WizardSucceeded  WizardState = "success"
)

// CreateFailedMessage is shown on the email field when the create fails.
const CreateFailedMessage = "Ошибка создания сотрудника. Попробуйте еще раз."

var errWizardCancelled = errors.New("wizard create cancelled")

// WizardView is a read-only copy of the wizard state.
type WizardView struct {
	State      WizardState         `json:"state"`
	Step       WizardStep          `json:"step"`
	Form       WizardForm          `json:"form"`
	Errors     []domain.FieldError `json:"errors"`
	EmployeeID string              `json:"employeeId,omitempty"`
}

// WizardDeps holds wizard collaborators.
type WizardDeps struct {
	Store    *Store
	Clock    Clock
	Location *time.Location
	// SubmitDelay simulates the latency of the create call.
	SubmitDelay time.Duration
	Logger      zerolog.Logger
}

// Wizard is the per-session quick-add state machine. The create runs in a
// goroutine bound to the wizard lifetime: Close and Open cancel it, and the
// generation is checked again right before the insert commits. Once the
// commit has started, Close and Open wait for it to finish.
type Wizard struct {
	mu       sync.Mutex
	deps     WizardDeps
	log      zerolog.Logger
	operator string
	parent   context.Context

	state      WizardState
	step       WizardStep
	form       WizardForm
	errors     []domain.FieldError
	createdID  string
	generation uint64
	committing bool
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewWizard creates a closed wizard. parent bounds every pending create.
func NewWizard(parent context.Context, operator string, deps WizardDeps) *Wizard {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	done := make(chan struct{})
	close(done)
	return &Wizard{
		deps:     deps,
		log:      deps.Logger.With().Str("component", "QuickAddWizard").Str("operator", operator).Logger(),
		operator: operator,
		parent:   parent,
		state:    WizardClosed,
		done:     done,
	}
}

// View returns the current state.
func (w *Wizard) View() WizardView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

func (w *Wizard) viewLocked() WizardView {
	errs := make([]domain.FieldError, len(w.errors))
	copy(errs, w.errors)
	return WizardView{
		State:      w.state,
		Step:       w.step,
		Form:       w.form,
		Errors:     errs,
		EmployeeID: w.createdID,
	}
}

// Done is closed when the pending create, if any, has finished.
func (w *Wizard) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// Open resets the wizard to step 1 with a fresh form, cancelling any pending create.
func (w *Wizard) Open() WizardView {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetLocked()
	w.state = WizardEditing
	w.step = StepPersonal
	w.form = NewWizardForm(w.deps.Clock.Now().In(w.deps.Location))
	return w.viewLocked()
}

// Close cancels any pending create and discards the form.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetLocked()
	w.state = WizardClosed
	w.step = 0
	w.form = WizardForm{}
}

func (w *Wizard) resetLocked() {
	for w.committing {
		done := w.done
		w.mu.Unlock()
		<-done
		w.mu.Lock()
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.generation++
	w.errors = nil
	w.createdID = ""
}

// SetStep stores the fields of one step and clears their errors.
func (w *Wizard) SetStep(form StepForm) (WizardView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return WizardView{}, err
	}
	w.form.Set(form)

	fields := stepFields(form.Step())
	kept := w.errors[:0]
	for _, fe := range w.errors {
		if _, ok := fields[fe.Field]; !ok {
			kept = append(kept, fe)
		}
	}
	w.errors = kept
	return w.viewLocked(), nil
}

// Next validates the current step and advances when it is valid.
func (w *Wizard) Next() (WizardView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return WizardView{}, err
	}
	if w.step >= StepExtras {
		return WizardView{}, domain.ErrWizardTransition
	}

	if fields := ValidateStep(w.form.StepForm(w.step)); len(fields) > 0 {
		w.errors = fields
		return w.viewLocked(), &domain.ValidationError{Fields: fields}
	}
	w.errors = nil
	w.step++
	return w.viewLocked(), nil
}

// Back returns to the previous step, never before step 1.
func (w *Wizard) Back() (WizardView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return WizardView{}, err
	}
	if w.step > StepPersonal {
		w.step--
	}
	return w.viewLocked(), nil
}

// Submit validates the whole form and starts the create. It returns
// immediately with state submitting; use Done or View to observe the result.
func (w *Wizard) Submit() (WizardView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return WizardView{}, err
	}
	if w.step != StepExtras {
		return WizardView{}, domain.ErrWizardTransition
	}
	if fields := ValidateForm(w.form); len(fields) > 0 {
		w.errors = fields
		return w.viewLocked(), &domain.ValidationError{Fields: fields}
	}

	ctx, cancel := context.WithCancel(w.parent)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.errors = nil
	w.state = WizardSubmitting

	go w.create(ctx, w.generation, w.form, w.done)

	return w.viewLocked(), nil
}

func (w *Wizard) editableLocked() error {
	switch w.state {
	case WizardEditing:
		return nil
	case WizardClosed:
		return domain.ErrWizardClosed
	default:
		return domain.ErrWizardTransition
	}
}

// alive reports whether the create started at generation gen may still complete.
func (w *Wizard) alive(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation == gen && w.state == WizardSubmitting
}

// beginCommit marks the create of generation gen as committing. After it
// succeeds, Close and Open block until the create goroutine finishes.
func (w *Wizard) beginCommit(ctx context.Context, gen uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ctx.Err() != nil || w.generation != gen || w.state != WizardSubmitting {
		return errWizardCancelled
	}
	w.committing = true
	return nil
}

func (w *Wizard) create(ctx context.Context, gen uint64, form WizardForm, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.deps.SubmitDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	var created *domain.Employee
	_, err := w.deps.Store.Update(ctx, func(snap *Snapshot) (*Change, error) {
		if ctx.Err() != nil || !w.alive(gen) {
			return nil, errWizardCancelled
		}
		team, err := resolveTeam(snap, strings.TrimSpace(form.Placement.TeamID))
		if err != nil {
			return nil, err
		}
		emp, err := buildEmployee(form, team, w.operator, w.deps.Clock.Now(), w.deps.Location)
		if err != nil {
			return nil, err
		}
		created = emp
		return &Change{
			Kind:      domain.EventCreated,
			Employees: []*domain.Employee{emp},
			Precommit: func() error { return w.beginCommit(ctx, gen) },
		}, nil
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	w.committing = false
	if w.generation != gen || w.state != WizardSubmitting {
		return
	}
	w.cancel = nil

	if err != nil {
		if errors.Is(err, errWizardCancelled) || errors.Is(err, context.Canceled) {
			return
		}
		w.log.Error().Err(err).Msg("failed to create employee")
		w.state = WizardEditing
		w.step = StepExtras
		w.errors = []domain.FieldError{{Field: "email", Message: CreateFailedMessage}}
		return
	}

	w.state = WizardSucceeded
	w.createdID = created.ID
	w.log.Info().Str("employee_id", created.ID).Msg("employee created")
}

// buildEmployee turns a validated form into a new probation employee.
func buildEmployee(form WizardForm, team domain.Team, operator string, now time.Time, loc *time.Location) (*domain.Employee, error) {
	p := trimPersonal(form.Personal)
	pl := trimPlacement(form.Placement)

	hireDate, err := time.ParseInLocation(time.DateOnly, pl.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}

	hourNorm := 40
	if n, err := strconv.ParseFloat(pl.HourNorm, 64); err == nil && n > 0 {
		hourNorm = max(1, int(math.Round(n)))
	}

	stamp := now.UTC().Truncate(time.Microsecond)
	millis := now.UnixMilli()

	var passwordUpdated *time.Time
	passwordSet := strings.TrimSpace(form.Credentials.Password) != ""
	if passwordSet {
		passwordUpdated = &stamp
	}

	workLocation := pl.Office
	if workLocation == "" {
		workLocation = "Офис"
	}
	orgUnit := pl.OrgUnit
	if orgUnit == "" {
		orgUnit = team.Name
	}
	timeZone := pl.TimeZone
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}

	var scheme *domain.WorkScheme
	if name := strings.TrimSpace(form.Extras.Scheme); name != "" {
		scheme = &domain.WorkScheme{
			ID:            fmt.Sprintf("scheme_%d", millis),
			Name:          name,
			EffectiveFrom: stamp,
		}
	}

	assessor := pl.Manager
	if assessor == "" {
		assessor = "Менеджер"
	}
	skills := []domain.Skill{}
	for i, name := range splitList(form.Extras.Skills) {
		skills = append(skills, domain.Skill{
			ID:           fmt.Sprintf("quick_skill_%d_%d", millis, i),
			Name:         name,
			Category:     "communication",
			Level:        3,
			LastAssessed: stamp,
			Assessor:     assessor,
			Priority:     i + 1,
		})
	}

	id := uuid.New()
	return &domain.Employee{
		ID:         id.String(),
		EmployeeID: "EMP" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		Status:     domain.StatusProbation,
		PersonalInfo: domain.PersonalInfo{
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			MiddleName: p.MiddleName,
			Email:      p.Email,
			Phone:      p.Phone,
		},
		Credentials: domain.Credentials{
			WFMLogin:            strings.TrimSpace(form.Credentials.WFMLogin),
			ExternalLogins:      splitList(form.Credentials.ExternalLogins),
			PasswordSet:         passwordSet,
			PasswordLastUpdated: passwordUpdated,
		},
		WorkInfo: domain.WorkInfo{
			Position:     pl.Position,
			Team:         team,
			Manager:      pl.Manager,
			HireDate:     hireDate,
			ContractType: "full-time",
			WorkLocation: workLocation,
			Department:   domain.DepartmentForTeam(team.Name),
		},
		OrgPlacement: domain.OrgPlacement{
			OrgUnit:    orgUnit,
			Office:     workLocation,
			TimeZone:   timeZone,
			HourNorm:   hourNorm,
			WorkScheme: scheme,
		},
		Skills:        skills,
		ReserveSkills: []domain.Skill{},
		Tags:          splitList(form.Extras.Tags),
		Preferences: domain.Preferences{
			PreferredShifts: []string{"day"},
			Notifications: domain.Notifications{
				Email:           true,
				SMS:             true,
				Push:            true,
				ScheduleChanges: true,
				Announcements:   true,
				Reminders:       true,
			},
			Language:     "ru",
			WorkingHours: domain.WorkingHours{Start: "09:00", End: "18:00"},
		},
		Performance: domain.Performance{
			AverageHandleTime:    decimal.Zero,
			CallsPerHour:         decimal.Zero,
			QualityScore:         decimal.Zero,
			AdherenceScore:       decimal.Zero,
			CustomerSatisfaction: decimal.Zero,
			LastEvaluation:       stamp,
		},
		Metadata: domain.Metadata{
			CreatedAt:      stamp,
			UpdatedAt:      stamp,
			CreatedBy:      operator,
			LastModifiedBy: operator,
		},
	}, nil
}

func stepFields(step WizardStep) map[string]struct{} {
	var names []string
	switch step {
	case StepPersonal:
		names = []string{"lastName", "firstName", "middleName", "email", "phone"}
	case StepCredentials:
		names = []string{"wfmLogin", "externalLogins", "password"}
	case StepPlacement:
		names = []string{"position", "teamId", "manager", "startDate", "orgUnit", "office", "timeZone", "hourNorm"}
	default:
		names = []string{"scheme", "skills", "tags"}
	}
	fields := make(map[string]struct{}, len(names))
	for _, n := range names {
		fields[n] = struct{}{}
	}
	return fields
}
