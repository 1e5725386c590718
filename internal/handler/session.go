package handler

import (
	"net/http"
	"strings"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/middleware"
	"github.com/aidar/wfm-roster/internal/service"
)

// currentSession возвращает сессию оператора запроса.
// Если оператора в контексте нет, отвечает 401 и возвращает false.
func currentSession(w http.ResponseWriter, r *http.Request, sessions *service.SessionManager) (*service.Session, bool) {
	op, ok := middleware.OperatorFromContext(r.Context())
	if !ok {
		HandleError(w, r, domain.ErrUnauthorized)
		return nil, false
	}
	return sessions.Get(r.Context(), op), true
}

// SessionHandler обрабатывает фильтры, колонки и выбор сотрудников
type SessionHandler struct {
	sessions *service.SessionManager
}

// NewSessionHandler создает новый SessionHandler
func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// FiltersResponse представляет текущие фильтры списка
type FiltersResponse struct {
	Filters          domain.FilterCriteria `json:"filters"`
	HasActiveFilters bool                  `json:"has_active_filters"`
}

// ColumnsResponse представляет настройку колонок
type ColumnsResponse struct {
	Columns domain.ColumnVisibility `json:"columns"`
	Visible []domain.Column         `json:"visible"`
}

// SelectionResponse представляет выбранных сотрудников
type SelectionResponse struct {
	Selected   []string `json:"selected"`
	CommonTags []string `json:"common_tags"`
}

// ToggleRequest представляет тело запроса на переключение выбора
type ToggleRequest struct {
	ID string `json:"id"`
}

// GetFilters обрабатывает GET /session/filters
func (h *SessionHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondFilters(w, r, s.Filters())
}

// SetFilters обрабатывает PUT /session/filters
func (h *SessionHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req domain.FilterCriteria
	if !decodeJSON(w, r, &req) {
		return
	}
	respondFilters(w, r, s.SetFilters(r.Context(), req))
}

// ResetFilters обрабатывает POST /session/filters/reset
func (h *SessionHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondFilters(w, r, s.ResetFilters(r.Context()))
}

func respondFilters(w http.ResponseWriter, r *http.Request, f domain.FilterCriteria) {
	RespondWithJSON(w, r, http.StatusOK, FiltersResponse{Filters: f, HasActiveFilters: f.HasActiveFilters()})
}

// GetColumns обрабатывает GET /session/columns
func (h *SessionHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondColumns(w, r, s.Columns())
}

// SetColumns обрабатывает PUT /session/columns. Неизвестные колонки игнорируются.
func (h *SessionHandler) SetColumns(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req domain.ColumnVisibility
	if !decodeJSON(w, r, &req) {
		return
	}
	respondColumns(w, r, s.SetColumns(r.Context(), req))
}

func respondColumns(w http.ResponseWriter, r *http.Request, cols domain.ColumnVisibility) {
	RespondWithJSON(w, r, http.StatusOK, ColumnsResponse{Columns: cols, Visible: cols.VisibleColumns()})
}

// GetSelection обрабатывает GET /selection
func (h *SessionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondSelection(w, r, s, s.Selection())
}

// Toggle обрабатывает POST /selection/toggle
func (h *SessionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req ToggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "id is required")
		return
	}

	selected, err := s.Toggle(req.ID)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	respondSelection(w, r, s, selected)
}

// ToggleAll обрабатывает POST /selection/all
func (h *SessionHandler) ToggleAll(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondSelection(w, r, s, s.ToggleAll())
}

// ClearSelection обрабатывает DELETE /selection
func (h *SessionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}
	s.ClearSelection()
	respondSelection(w, r, s, []string{})
}

func respondSelection(w http.ResponseWriter, r *http.Request, s *service.Session, selected []string) {
	RespondWithJSON(w, r, http.StatusOK, SelectionResponse{Selected: selected, CommonTags: s.CommonTags()})
}
