package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/service"
)

// maxImportSize ограничивает размер загружаемого файла
const maxImportSize = 10 << 20

// TransferHandler обрабатывает экспорт и импорт CSV
type TransferHandler struct {
	sessions *service.SessionManager
	imports  *service.ImportService
}

// NewTransferHandler создает новый TransferHandler
func NewTransferHandler(sessions *service.SessionManager, imports *service.ImportService) *TransferHandler {
	return &TransferHandler{
		sessions: sessions,
		imports:  imports,
	}
}

// ImportSectionsResponse представляет список разделов импорта
type ImportSectionsResponse struct {
	Sections []service.ImportSection `json:"sections"`
}

// Export обрабатывает GET /export?context=...&scope=visible|selected
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	scope := service.ExportScope(r.URL.Query().Get("scope"))
	switch scope {
	case "":
		scope = service.ExportVisible
	case service.ExportVisible, service.ExportSelected:
	default:
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "scope must be visible or selected")
		return
	}

	res, err := s.Export(scope, r.URL.Query().Get("context"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := RespondWithFile(w, res.FileName, "text/csv; charset=utf-8", res.Content); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write export")
	}
}

// ImportSections обрабатывает GET /import/sections
func (h *TransferHandler) ImportSections(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, ImportSectionsResponse{Sections: service.ImportSections})
}

// Import обрабатывает POST /import?section=... с multipart полем file.
// Файл не разбирается, возвращается только подтверждение получения.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "file is required")
		return
	}
	defer file.Close()

	ack, err := h.imports.Acknowledge(r.URL.Query().Get("section"), header.Filename, header.Size)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("section", ack.Section).
		Str("file", ack.FileName).
		Int64("size", ack.Size).
		Msg("import file received")
	RespondWithJSON(w, r, http.StatusAccepted, ack)
}
