package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/service"
)

// TagHandler обрабатывает эндпоинты каталога тегов
type TagHandler struct {
	tags     *service.TagService
	sessions *service.SessionManager
}

// NewTagHandler создает новый TagHandler
func NewTagHandler(tags *service.TagService, sessions *service.SessionManager) *TagHandler {
	return &TagHandler{
		tags:     tags,
		sessions: sessions,
	}
}

// CatalogResponse представляет каталог тегов
type CatalogResponse struct {
	Tags []service.TagEntry `json:"tags"`
}

// CreateTagRequest представляет тело запроса на создание тега
type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateTagResponse представляет созданный тег
type CreateTagResponse struct {
	Tag domain.TagDefinition `json:"tag"`
}

// DeleteTagResponse представляет результат удаления тега
type DeleteTagResponse struct {
	Name    string `json:"name"`
	Updated int    `json:"updated"`
}

// ApplyTagsRequest представляет изменения тегов для выбранных сотрудников
type ApplyTagsRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// ApplyTagsResponse представляет результат применения тегов
type ApplyTagsResponse struct {
	Updated    int      `json:"updated"`
	CommonTags []string `json:"common_tags"`
}

// List обрабатывает GET /tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, CatalogResponse{Tags: h.tags.Catalog()})
}

// Create обрабатывает POST /tags
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.tags.CreateTag(r.Context(), req.Name, req.Color)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusCreated, CreateTagResponse{Tag: tag})
}

// Delete обрабатывает DELETE /tags/{name}: тег снимается со всех сотрудников
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	name, err := tagNameParam(r)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid tag name")
		return
	}
	updated, err := h.tags.DeleteTag(r.Context(), s.Operator().Login, name)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, DeleteTagResponse{Name: name, Updated: updated})
}

// tagNameParam возвращает имя тега из пути. Если путь содержит экранированные
// символы (например %2F), chi сопоставляет маршрут по RawPath и отдает сегмент
// без декодирования.
func tagNameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// Apply обрабатывает POST /tags/apply для выбранных сотрудников
func (h *TagHandler) Apply(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req ApplyTagsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.ApplyTags(r.Context(), req.Add, req.Remove)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, ApplyTagsResponse{Updated: updated, CommonTags: s.CommonTags()})
}
