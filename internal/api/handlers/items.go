// items.go — обработчики /api/v1/categories/{category}/items endpoints.
// Объединённый список элементов, переименование и удаление локальных файлов,
// пакетное удаление смешанного списка.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/mkorolev/emostore/internal/api/errors"
	"github.com/mkorolev/emostore/internal/domain/model"
	"github.com/mkorolev/emostore/internal/service"
)

// itemListResponse — ответ GET /api/v1/categories/{category}/items.
type itemListResponse struct {
	Items   []model.CatalogItem `json:"items"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

// renameItemRequest — тело запроса переименования.
type renameItemRequest struct {
	NewName string `json:"new_name"`
}

// batchItemsRequest — тело запроса POST .../items/batch-delete.
type batchItemsRequest struct {
	Items []service.ItemRef `json:"items"`
}

// ListItems — GET /api/v1/categories/{category}/items.
// Возвращает объединённый список локальных файлов и внешних ссылок,
// упорядоченный по времени добавления (новые первыми), с пагинацией.
func (h *APIHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	page := queryInt(r, "page", 1)
	perPage := service.NormalizeItemPageSize(queryInt(r, "per_page", 0))

	items, total, err := h.catalog.List(category, page, perPage)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apierrors.NotFound(w, "Категория не найдена")
			return
		}
		h.logger.Error("Ошибка получения списка элементов",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка получения списка элементов")
		return
	}

	writeJSON(w, http.StatusOK, itemListResponse{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// RenameItem — POST /api/v1/categories/{category}/items/{filename}/rename.
// Переименовывает локальный файл; расширение сохраняется.
func (h *APIHandler) RenameItem(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	filename := chi.URLParam(r, "filename")

	var req renameItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if req.NewName == "" {
		apierrors.ValidationError(w, "Новое имя обязательно")
		return
	}

	stored, err := h.items.Rename(category, filename, req.NewName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, "Недопустимое имя файла")
		case errors.Is(err, service.ErrCategoryNotFound):
			apierrors.NotFound(w, "Категория не найдена")
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Файл не найден")
		case errors.Is(err, service.ErrAlreadyExists):
			apierrors.Conflict(w, "Файл с таким именем уже существует")
		default:
			h.logger.Error("Ошибка переименования файла",
				slog.String("category", category),
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка переименования файла")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"filename": stored})
}

// DeleteItem — DELETE /api/v1/categories/{category}/items/{filename}.
// Удаляет локальный файл. Исчезнувший конкурентно файл — обычный not found.
func (h *APIHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	filename := chi.URLParam(r, "filename")

	if err := h.items.DeleteLocal(category, filename); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, "Недопустимое имя файла")
		case errors.Is(err, service.ErrCategoryNotFound):
			apierrors.NotFound(w, "Категория не найдена")
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Файл не найден")
		default:
			h.logger.Error("Ошибка удаления файла",
				slog.String("category", category),
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка удаления файла")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BatchDeleteItems — POST /api/v1/categories/{category}/items/batch-delete.
// Удаляет смешанный список {id, type}; каждый элемент обрабатывается
// независимо, ответ содержит per-item результаты.
func (h *APIHandler) BatchDeleteItems(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	var req batchItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		apierrors.ValidationError(w, "Список элементов пуст")
		return
	}

	outcomes := h.items.DeleteBatch(category, req.Items)
	writeJSON(w, http.StatusOK, map[string]any{"results": outcomes})
}
