package domain

import (
	"errors"
	"strings"
)

// Доменные ошибки реестра сотрудников
var (
	// ErrEmployeeNotFound возвращается когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEmployeeExists возвращается при повторном создании сотрудника с тем же идентификатором
	ErrEmployeeExists = errors.New("employee already exists")

	// ErrTeamNotFound возвращается когда команда не найдена в справочнике
	ErrTeamNotFound = errors.New("team not found")

	// ErrInvalidStatus возвращается при неизвестном статусе сотрудника
	ErrInvalidStatus = errors.New("invalid employee status")

	// ErrEmptySelection возвращается когда операция требует выбранных сотрудников
	ErrEmptySelection = errors.New("no employees selected")

	// ErrEmptyPatch возвращается когда в массовом редактировании не задано ни одного изменения
	ErrEmptyPatch = errors.New("bulk edit patch is empty")

	// ErrTagExists возвращается при попытке создать существующий тег
	ErrTagExists = errors.New("tag already exists")

	// ErrTagNotFound возвращается когда тег отсутствует в каталоге
	ErrTagNotFound = errors.New("tag not found")

	// ErrTagNameRequired возвращается при пустом названии тега
	ErrTagNameRequired = errors.New("tag name is required")

	// ErrInvalidTagColor возвращается при цвете не в формате #rrggbb
	ErrInvalidTagColor = errors.New("invalid tag color")

	// ErrEmptyTagChange возвращается когда не отмечено ни одного тега для добавления или удаления
	ErrEmptyTagChange = errors.New("no tags to add or remove")

	// ErrUnknownImportSection возвращается при неизвестном разделе импорта
	ErrUnknownImportSection = errors.New("unknown import section")

	// ErrWizardClosed возвращается при обращении к закрытому мастеру
	ErrWizardClosed = errors.New("wizard is closed")

	// ErrWizardTransition возвращается при недопустимом переходе между шагами мастера
	ErrWizardTransition = errors.New("wizard transition not allowed")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// FieldError описывает ошибку конкретного поля формы
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError объединяет ошибки полей, обнаруженные до изменения данных
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeTagExists  ErrorCode = "TAG_EXISTS"
	CodeConflict   ErrorCode = "CONFLICT"
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return CodeValidation
	case errors.Is(err, ErrTagExists):
		return CodeTagExists
	case errors.Is(err, ErrEmployeeNotFound), errors.Is(err, ErrTagNotFound):
		return CodeNotFound
	case errors.Is(err, ErrWizardClosed), errors.Is(err, ErrWizardTransition),
		errors.Is(err, ErrEmployeeExists):
		return CodeConflict
	case errors.Is(err, ErrTeamNotFound), errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrEmptySelection), errors.Is(err, ErrEmptyPatch),
		errors.Is(err, ErrTagNameRequired), errors.Is(err, ErrInvalidTagColor),
		errors.Is(err, ErrEmptyTagChange), errors.Is(err, ErrUnknownImportSection):
		return CodeBadRequest
	default:
		return CodeInternal
	}
}
