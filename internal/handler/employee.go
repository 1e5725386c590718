package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/service"
)

// EmployeeHandler обрабатывает эндпоинты списка и карточки сотрудника
type EmployeeHandler struct {
	sessions *service.SessionManager
	roster   *service.RosterService
}

// NewEmployeeHandler создает новый EmployeeHandler
func NewEmployeeHandler(sessions *service.SessionManager, roster *service.RosterService) *EmployeeHandler {
	return &EmployeeHandler{
		sessions: sessions,
		roster:   roster,
	}
}

// EmployeeResponse представляет ответ с карточкой сотрудника
type EmployeeResponse struct {
	Employee *domain.Employee `json:"employee"`
}

// BulkEditRequest представляет тело запроса массового редактирования
type BulkEditRequest struct {
	Status  domain.EmployeeStatus `json:"status"`
	TeamID  string                `json:"team_id"`
	Comment string                `json:"comment"`
}

// BulkEditResponse представляет результат массового редактирования
type BulkEditResponse struct {
	Updated int `json:"updated"`
}

// List обрабатывает GET /employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	RespondWithJSON(w, r, http.StatusOK, s.List())
}

// Get обрабатывает GET /employees/{id}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.roster.GetEmployee(chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, EmployeeResponse{Employee: emp})
}

// Save обрабатывает PUT /employees/{id}: полная замена записи из карточки
func (h *EmployeeHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	var emp domain.Employee
	if !decodeJSON(w, r, &emp) {
		return
	}
	emp.ID = chi.URLParam(r, "id")

	saved, err := h.roster.SaveEmployee(r.Context(), s.Operator().Login, &emp)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, EmployeeResponse{Employee: saved})
}

// BulkEdit обрабатывает POST /employees/bulk-edit для выбранных сотрудников
func (h *EmployeeHandler) BulkEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req BulkEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.BulkEdit(r.Context(), service.BulkPatch{
		Status:  req.Status,
		TeamID:  req.TeamID,
		Comment: req.Comment,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, BulkEditResponse{Updated: updated})
}
