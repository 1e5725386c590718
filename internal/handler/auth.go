package handler

import (
	"net/http"
	"strings"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/service"
)

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest представляет тело запроса на логин
type LoginRequest struct {
	WFMLogin string `json:"wfm_login"`
}

// LoginResponse представляет тело ответа на логин
type LoginResponse struct {
	Token string `json:"token"`
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.WFMLogin) == "" {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "wfm_login is required")
		return
	}

	token, err := h.authService.Login(r.Context(), req.WFMLogin)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, LoginResponse{Token: token})
}
