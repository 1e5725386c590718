package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeStatus представляет статус жизненного цикла сотрудника
type EmployeeStatus string

// Возможные статусы сотрудника
const (
	StatusActive     EmployeeStatus = "active"
	StatusVacation   EmployeeStatus = "vacation"
	StatusProbation  EmployeeStatus = "probation"
	StatusInactive   EmployeeStatus = "inactive"
	StatusTerminated EmployeeStatus = "terminated"
)

var statusLabels = map[EmployeeStatus]string{
	StatusActive:     "Активен",
	StatusVacation:   "В отпуске",
	StatusProbation:  "Испытательный",
	StatusInactive:   "Неактивен",
	StatusTerminated: "Уволен",
}

// IsValid проверяет, что статус входит в допустимый набор
func (s EmployeeStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label возвращает подпись статуса для отображения и экспорта
func (s EmployeeStatus) Label() string {
	return statusLabels[s]
}

// Employee представляет запись сотрудника в реестре
type Employee struct {
	ID            string         `json:"id" yaml:"id"`
	EmployeeID    string         `json:"employeeId" yaml:"employeeId"`
	Status        EmployeeStatus `json:"status" yaml:"status"`
	PersonalInfo  PersonalInfo   `json:"personalInfo" yaml:"personalInfo"`
	Credentials   Credentials    `json:"credentials" yaml:"credentials"`
	WorkInfo      WorkInfo       `json:"workInfo" yaml:"workInfo"`
	OrgPlacement  OrgPlacement   `json:"orgPlacement" yaml:"orgPlacement"`
	Skills        []Skill        `json:"skills" yaml:"skills"`
	ReserveSkills []Skill        `json:"reserveSkills" yaml:"reserveSkills"`
	Tags          []string       `json:"tags" yaml:"tags"`
	Tasks         []string       `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Preferences   Preferences    `json:"preferences" yaml:"preferences"`
	Performance   Performance    `json:"performance" yaml:"performance"`
	Metadata      Metadata       `json:"metadata" yaml:"metadata"`
}

// PersonalInfo содержит личные данные сотрудника
type PersonalInfo struct {
	FirstName        string            `json:"firstName" yaml:"firstName"`
	LastName         string            `json:"lastName" yaml:"lastName"`
	MiddleName       string            `json:"middleName,omitempty" yaml:"middleName,omitempty"`
	Email            string            `json:"email" yaml:"email"`
	Phone            string            `json:"phone" yaml:"phone"`
	Photo            string            `json:"photo,omitempty" yaml:"photo,omitempty"`
	Address          string            `json:"address,omitempty" yaml:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty" yaml:"emergencyContact,omitempty"`
}

// EmergencyContact содержит контакт для экстренной связи
type EmergencyContact struct {
	Name         string `json:"name" yaml:"name"`
	Phone        string `json:"phone" yaml:"phone"`
	Relationship string `json:"relationship" yaml:"relationship"`
}

// Credentials содержит учетные данные сотрудника в WFM
type Credentials struct {
	WFMLogin            string     `json:"wfmLogin" yaml:"wfmLogin"`
	ExternalLogins      []string   `json:"externalLogins" yaml:"externalLogins"`
	PasswordSet         bool       `json:"passwordSet" yaml:"passwordSet"`
	PasswordLastUpdated *time.Time `json:"passwordLastUpdated,omitempty" yaml:"passwordLastUpdated,omitempty"`
}

// WorkInfo содержит рабочие данные, включая собственную копию команды
type WorkInfo struct {
	Position     string           `json:"position" yaml:"position"`
	Team         Team             `json:"team" yaml:"team"`
	Manager      string           `json:"manager" yaml:"manager"`
	HireDate     time.Time        `json:"hireDate" yaml:"hireDate"`
	ContractType string           `json:"contractType" yaml:"contractType"`
	Salary       *decimal.Decimal `json:"salary,omitempty" yaml:"salary,omitempty"`
	WorkLocation string           `json:"workLocation" yaml:"workLocation"`
	Department   string           `json:"department" yaml:"department"`
}

// OrgPlacement содержит размещение сотрудника в оргструктуре
type OrgPlacement struct {
	OrgUnit    string      `json:"orgUnit" yaml:"orgUnit"`
	Office     string      `json:"office" yaml:"office"`
	TimeZone   string      `json:"timeZone" yaml:"timeZone"`
	HourNorm   int         `json:"hourNorm" yaml:"hourNorm"`
	WorkScheme *WorkScheme `json:"workScheme,omitempty" yaml:"workScheme,omitempty"`
}

// WorkScheme описывает схему работы с датой начала действия
type WorkScheme struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	EffectiveFrom time.Time `json:"effectiveFrom" yaml:"effectiveFrom"`
}

// Skill описывает навык сотрудника
type Skill struct {
	ID                    string    `json:"id" yaml:"id"`
	Name                  string    `json:"name" yaml:"name"`
	Category              string    `json:"category" yaml:"category"`
	Level                 int       `json:"level" yaml:"level"`
	Verified              bool      `json:"verified" yaml:"verified"`
	LastAssessed          time.Time `json:"lastAssessed" yaml:"lastAssessed"`
	Assessor              string    `json:"assessor" yaml:"assessor"`
	CertificationRequired bool      `json:"certificationRequired" yaml:"certificationRequired"`
	Priority              int       `json:"priority" yaml:"priority"`
}

// Preferences содержит предпочтения сотрудника по сменам и уведомлениям
type Preferences struct {
	PreferredShifts []string      `json:"preferredShifts" yaml:"preferredShifts"`
	Notifications   Notifications `json:"notifications" yaml:"notifications"`
	Language        string        `json:"language" yaml:"language"`
	WorkingHours    WorkingHours  `json:"workingHours" yaml:"workingHours"`
}

// Notifications содержит флаги каналов уведомлений
type Notifications struct {
	Email           bool `json:"email" yaml:"email"`
	SMS             bool `json:"sms" yaml:"sms"`
	Push            bool `json:"push" yaml:"push"`
	ScheduleChanges bool `json:"scheduleChanges" yaml:"scheduleChanges"`
	Announcements   bool `json:"announcements" yaml:"announcements"`
	Reminders       bool `json:"reminders" yaml:"reminders"`
}

// WorkingHours задает рабочий интервал в формате HH:MM
type WorkingHours struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Performance содержит показатели эффективности
type Performance struct {
	AverageHandleTime    decimal.Decimal `json:"averageHandleTime" yaml:"averageHandleTime"`
	CallsPerHour         decimal.Decimal `json:"callsPerHour" yaml:"callsPerHour"`
	QualityScore         decimal.Decimal `json:"qualityScore" yaml:"qualityScore"`
	AdherenceScore       decimal.Decimal `json:"adherenceScore" yaml:"adherenceScore"`
	CustomerSatisfaction decimal.Decimal `json:"customerSatisfaction" yaml:"customerSatisfaction"`
	LastEvaluation       time.Time       `json:"lastEvaluation" yaml:"lastEvaluation"`
}

// Metadata содержит аудит изменений записи
type Metadata struct {
	CreatedAt      time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" yaml:"updatedAt"`
	CreatedBy      string     `json:"createdBy" yaml:"createdBy"`
	LastModifiedBy string     `json:"lastModifiedBy" yaml:"lastModifiedBy"`
	LastLogin      *time.Time `json:"lastLogin,omitempty" yaml:"lastLogin,omitempty"`
}

// FullName возвращает "Фамилия Имя" без лишних пробелов
func (e *Employee) FullName() string {
	return trimJoin(e.PersonalInfo.LastName, e.PersonalInfo.FirstName)
}

// HasTag проверяет наличие тега у сотрудника
func (e *Employee) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// HasSkill проверяет навык по названию среди основных и резервных навыков
func (e *Employee) HasSkill(name string) bool {
	for _, s := range e.Skills {
		if s.Name == name {
			return true
		}
	}
	for _, s := range e.ReserveSkills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Clone возвращает глубокую копию записи.
// Снимок реестра неизменяем, поэтому любое изменение начинается с копии.
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	if e.PersonalInfo.EmergencyContact != nil {
		ec := *e.PersonalInfo.EmergencyContact
		c.PersonalInfo.EmergencyContact = &ec
	}
	c.Credentials.ExternalLogins = slices.Clone(e.Credentials.ExternalLogins)
	c.Credentials.PasswordLastUpdated = cloneTime(e.Credentials.PasswordLastUpdated)
	if e.WorkInfo.Salary != nil {
		salary := *e.WorkInfo.Salary
		c.WorkInfo.Salary = &salary
	}
	if e.OrgPlacement.WorkScheme != nil {
		ws := *e.OrgPlacement.WorkScheme
		c.OrgPlacement.WorkScheme = &ws
	}
	c.Skills = slices.Clone(e.Skills)
	c.ReserveSkills = slices.Clone(e.ReserveSkills)
	c.Tags = slices.Clone(e.Tags)
	c.Tasks = slices.Clone(e.Tasks)
	c.Preferences.PreferredShifts = slices.Clone(e.Preferences.PreferredShifts)
	c.Metadata.LastLogin = cloneTime(e.Metadata.LastLogin)
	return &c
}

// Touch проставляет аудит изменения. Новое значение updatedAt всегда строго больше предыдущего.
func (e *Employee) Touch(now time.Time, modifiedBy string) {
	stamp := now.UTC().Truncate(time.Microsecond)
	if !stamp.After(e.Metadata.UpdatedAt) {
		stamp = e.Metadata.UpdatedAt.Add(time.Microsecond)
	}
	e.Metadata.UpdatedAt = stamp
	e.Metadata.LastModifiedBy = modifiedBy
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func trimJoin(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
