package service

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/aidar/wfm-roster/internal/domain"
)

// WizardStep numbers the editable wizard steps.
type WizardStep int

// Wizard steps in order.
const (
	StepPersonal    WizardStep = 1
	StepCredentials WizardStep = 2
	StepPlacement   WizardStep = 3
	StepExtras      WizardStep = 4
)

// Default form values.
const (
	DefaultTimeZone = "Europe/Moscow"
	DefaultHourNorm = "40"
	DefaultScheme   = "Административный график"
)

// StepForm is one of PersonalForm, CredentialsForm, PlacementForm or ExtrasForm.
type StepForm interface {
	Step() WizardStep
}

// PersonalForm holds step 1 fields.
type PersonalForm struct {
	LastName   string `json:"lastName" validate:"required"`
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName" validate:"required"`
	Email      string `json:"email" validate:"required,simple_email"`
	Phone      string `json:"phone" validate:"required"`
}

// CredentialsForm holds step 2 fields.
type CredentialsForm struct {
	WFMLogin string `json:"wfmLogin" validate:"required"`
	// ExternalLogins is a comma separated list.
	ExternalLogins string `json:"externalLogins" validate:"required"`
	Password       string `json:"password" validate:"omitempty,password"`
}

// PlacementForm holds step 3 fields.
type PlacementForm struct {
	Position  string `json:"position" validate:"required"`
	TeamID    string `json:"teamId" validate:"required"`
	Manager   string `json:"manager" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	OrgUnit   string `json:"orgUnit" validate:"required"`
	Office    string `json:"office" validate:"required"`
	TimeZone  string `json:"timeZone" validate:"required"`
	HourNorm  string `json:"hourNorm" validate:"required,positive"`
}

// ExtrasForm holds step 4 fields. All of them are optional comma separated lists
// except Scheme.
type ExtrasForm struct {
	Scheme string `json:"scheme"`
	Skills string `json:"skills"`
	Tags   string `json:"tags"`
}

func (PersonalForm) Step() WizardStep    { return StepPersonal }
func (CredentialsForm) Step() WizardStep { return StepCredentials }
func (PlacementForm) Step() WizardStep   { return StepPlacement }
func (ExtrasForm) Step() WizardStep      { return StepExtras }

// WizardForm is the complete quick-add form.
type WizardForm struct {
	Personal    PersonalForm    `json:"personal"`
	Credentials CredentialsForm `json:"credentials"`
	Placement   PlacementForm   `json:"placement"`
	Extras      ExtrasForm      `json:"extras"`
}

// NewWizardForm returns a fresh form with defaults for the given day.
func NewWizardForm(today time.Time) WizardForm {
	return WizardForm{
		Placement: PlacementForm{
			StartDate: today.Format(time.DateOnly),
			TimeZone:  DefaultTimeZone,
			HourNorm:  DefaultHourNorm,
		},
		Extras: ExtrasForm{Scheme: DefaultScheme},
	}
}

// Set stores a step form.
func (f *WizardForm) Set(form StepForm) {
	switch v := form.(type) {
	case PersonalForm:
		f.Personal = v
	case CredentialsForm:
		f.Credentials = v
	case PlacementForm:
		f.Placement = v
	case ExtrasForm:
		f.Extras = v
	}
}

// StepForm returns the form of the given step.
func (f *WizardForm) StepForm(step WizardStep) StepForm {
	switch step {
	case StepPersonal:
		return f.Personal
	case StepCredentials:
		return f.Credentials
	case StepPlacement:
		return f.Placement
	default:
		return f.Extras
	}
}

var simpleEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return simpleEmailPattern.MatchString(fl.Field().String())
	})
	// Only checked when a password is entered; surrounding spaces do not count.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= 6
	})
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && n > 0
	})
	return v
}

// fieldMessages overrides the generic message for a field and rule.
var fieldMessages = map[string]map[string]string{
	"externalLogins": {"required": "Укажите минимум один логин"},
	"teamId":         {"required": "Выберите команду"},
	"startDate":      {"required": "Укажите дату", "datetime": "Укажите дату"},
	"hourNorm":       {"required": "Укажите норму часов"},
}

var ruleMessages = map[string]string{
	"required":     "Обязательное поле",
	"simple_email": "Неверный формат email",
	"password":     "Минимум 6 символов",
	"positive":     "Значение должно быть больше нуля",
}

// ValidateStep checks one step form and returns one error per invalid field.
// Values are checked after trimming surrounding spaces, passwords excepted.
func ValidateStep(form StepForm) []domain.FieldError {
	var err error
	switch v := form.(type) {
	case PersonalForm:
		err = formValidator.Struct(trimPersonal(v))
	case CredentialsForm:
		v.WFMLogin = strings.TrimSpace(v.WFMLogin)
		v.ExternalLogins = strings.TrimSpace(v.ExternalLogins)
		err = formValidator.Struct(v)
	case PlacementForm:
		err = formValidator.Struct(trimPlacement(v))
	default:
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: messageFor(fe.Field(), fe.Tag())})
	}
	return fields
}

// ValidateForm checks every step of the form.
func ValidateForm(form WizardForm) []domain.FieldError {
	var fields []domain.FieldError
	for step := StepPersonal; step <= StepExtras; step++ {
		fields = append(fields, ValidateStep(form.StepForm(step))...)
	}
	return fields
}

func messageFor(field, rule string) string {
	if msg, ok := fieldMessages[field][rule]; ok {
		return msg
	}
	if msg, ok := ruleMessages[rule]; ok {
		return msg
	}
	return "Некорректное значение"
}

func trimPersonal(f PersonalForm) PersonalForm {
	f.LastName = strings.TrimSpace(f.LastName)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.MiddleName = strings.TrimSpace(f.MiddleName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}

func trimPlacement(f PlacementForm) PlacementForm {
	f.Position = strings.TrimSpace(f.Position)
	f.TeamID = strings.TrimSpace(f.TeamID)
	f.Manager = strings.TrimSpace(f.Manager)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.OrgUnit = strings.TrimSpace(f.OrgUnit)
	f.Office = strings.TrimSpace(f.Office)
	f.TimeZone = strings.TrimSpace(f.TimeZone)
	f.HourNorm = strings.TrimSpace(f.HourNorm)
	return f
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
