package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/service"
)

// WizardHandler обрабатывает эндпоинты мастера быстрого добавления сотрудника
type WizardHandler struct {
	sessions *service.SessionManager
}

// NewWizardHandler создает новый WizardHandler
func NewWizardHandler(sessions *service.SessionManager) *WizardHandler {
	return &WizardHandler{sessions: sessions}
}

// WizardFormRequest представляет поля одного шага мастера
type WizardFormRequest struct {
	Step   service.WizardStep `json:"step"`
	Fields json.RawMessage    `json:"fields"`
}

func (h *WizardHandler) wizard(w http.ResponseWriter, r *http.Request) (*service.Wizard, bool) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return nil, false
	}
	return s.Wizard(), true
}

// Get обрабатывает GET /wizard
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, r, http.StatusOK, wz.View())
}

// Open обрабатывает POST /wizard/open
func (h *WizardHandler) Open(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, r, http.StatusOK, wz.Open())
}

// SetForm обрабатывает PUT /wizard/form
func (h *WizardHandler) SetForm(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	var req WizardFormRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	form, err := decodeStepForm(req)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), err.Error())
		return
	}

	view, err := wz.SetStep(form)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, view)
}

// Next обрабатывает POST /wizard/next
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, http.StatusOK, (*service.Wizard).Next)
}

// Back обрабатывает POST /wizard/back
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, http.StatusOK, (*service.Wizard).Back)
}

// Submit обрабатывает POST /wizard/submit. Создание выполняется асинхронно,
// результат доступен через GET /wizard.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, http.StatusAccepted, (*service.Wizard).Submit)
}

// Close обрабатывает POST /wizard/close
func (h *WizardHandler) Close(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}
	wz.Close()
	RespondWithJSON(w, r, http.StatusOK, wz.View())
}

func (h *WizardHandler) transition(w http.ResponseWriter, r *http.Request, status int, step func(*service.Wizard) (service.WizardView, error)) {
	wz, ok := h.wizard(w, r)
	if !ok {
		return
	}

	view, err := step(wz)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, status, view)
}

func decodeStepForm(req WizardFormRequest) (service.StepForm, error) {
	if len(req.Fields) == 0 {
		return nil, errors.New("fields are required")
	}

	var (
		form service.StepForm
		err  error
	)
	switch req.Step {
	case service.StepPersonal:
		var f service.PersonalForm
		err = json.Unmarshal(req.Fields, &f)
		form = f
	case service.StepCredentials:
		var f service.CredentialsForm
		err = json.Unmarshal(req.Fields, &f)
		form = f
	case service.StepPlacement:
		var f service.PlacementForm
		err = json.Unmarshal(req.Fields, &f)
		form = f
	case service.StepExtras:
		var f service.ExtrasForm
		err = json.Unmarshal(req.Fields, &f)
		form = f
	default:
		return nil, errors.New("step must be between 1 and 4")
	}
	if err != nil {
		return nil, errors.New("invalid fields for step")
	}
	return form, nil
}
