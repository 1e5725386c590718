package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// TeamsResponse представляет список команд
type TeamsResponse struct {
	Teams []domain.Team `json:"teams"`
}

// ListTeams обрабатывает GET /teams
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, TeamsResponse{Teams: h.teamService.ListTeams()})
}

// GetTeam обрабатывает GET /teams/{id}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetTeam(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusNotFound, string(domain.CodeNotFound), err.Error())
		return
	}
	RespondWithJSON(w, r, http.StatusOK, team)
}
