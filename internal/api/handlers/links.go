// links.go — обработчики /api/v1/categories/{category}/links endpoints.
// Пакетное добавление внешних ссылок, редактирование и удаление по id.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/mkorolev/emostore/internal/api/errors"
	"github.com/mkorolev/emostore/internal/service"
)

// addLinksRequest — тело запроса POST .../links.
type addLinksRequest struct {
	URLs []string `json:"urls"`
}

// editLinkRequest — тело запроса PUT .../links/{id}.
type editLinkRequest struct {
	URL string `json:"url"`
}

// AddLinks — POST /api/v1/categories/{category}/links.
// Добавляет пакет URL; каждый валидируется и проверяется на дубликат
// независимо, ответ содержит per-item результаты.
func (h *APIHandler) AddLinks(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	var req addLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if len(req.URLs) == 0 {
		apierrors.ValidationError(w, "Список URL пуст")
		return
	}
	if !h.categories.Exists(category) {
		apierrors.NotFound(w, "Категория не найдена")
		return
	}

	outcomes := h.links.AddBatch(category, req.URLs)
	writeJSON(w, http.StatusOK, map[string]any{"results": outcomes})
}

// EditLink — PUT /api/v1/categories/{category}/links/{id}.
// Заменяет URL существующей ссылки.
func (h *APIHandler) EditLink(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	linkID := chi.URLParam(r, "id")

	var req editLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if err := h.links.Edit(category, linkID, req.URL); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			apierrors.ValidationError(w, "Некорректный URL")
		case errors.Is(err, service.ErrDuplicateURL):
			apierrors.Conflict(w, "URL уже присутствует в категории")
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Ссылка не найдена")
		case errors.Is(err, service.ErrCategoryNotFound):
			apierrors.NotFound(w, "Категория не найдена")
		default:
			h.logger.Error("Ошибка редактирования ссылки",
				slog.String("category", category),
				slog.String("link_id", linkID),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка редактирования ссылки")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": linkID, "url": req.URL})
}

// DeleteLink — DELETE /api/v1/categories/{category}/links/{id}.
// Удаляет одну внешнюю ссылку по идентификатору.
func (h *APIHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	linkID := chi.URLParam(r, "id")

	if err := h.links.Delete(category, linkID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Ссылка не найдена")
		case errors.Is(err, service.ErrCategoryNotFound):
			apierrors.NotFound(w, "Категория не найдена")
		default:
			h.logger.Error("Ошибка удаления ссылки",
				slog.String("category", category),
				slog.String("link_id", linkID),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка удаления ссылки")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
