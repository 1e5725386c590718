package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/render"

	"github.com/aidar/wfm-roster/internal/domain"
)

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// RespondWithFile отправляет содержимое как вложение для скачивания
func RespondWithFile(w http.ResponseWriter, fileName, contentType string, content []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(fileName)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(content)
	return err
}

// decodeJSON читает тело запроса, при ошибке отвечает BAD_REQUEST и возвращает false
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return false
	}
	return true
}
