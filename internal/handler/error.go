package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/aidar/wfm-roster/internal/domain"
)

// CodeUnauthorized код ошибки для запросов без валидного токена
const CodeUnauthorized = "UNAUTHORIZED"

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки, для ошибок валидации также список полей
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// RespondWithValidationError отправляет ответ с ошибками полей формы
func RespondWithValidationError(w http.ResponseWriter, r *http.Request, fields []domain.FieldError) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    string(domain.CodeValidation),
			Message: "validation failed",
			Fields:  fields,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidToken) {
		RespondWithError(w, r, http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
		return
	}

	code := domain.MapErrorToCode(err)
	switch code {
	case domain.CodeValidation:
		var vErr *domain.ValidationError
		errors.As(err, &vErr)
		RespondWithValidationError(w, r, vErr.Fields)
	case domain.CodeNotFound:
		RespondWithError(w, r, http.StatusNotFound, string(code), err.Error())
	case domain.CodeTagExists, domain.CodeConflict:
		RespondWithError(w, r, http.StatusConflict, string(code), err.Error())
	case domain.CodeBadRequest:
		RespondWithError(w, r, http.StatusBadRequest, string(code), err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternal), "internal server error")
	}
}
