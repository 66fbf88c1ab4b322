// categories.go — обработчики /api/v1/categories endpoints.
// Список, создание, удаление и пакетное удаление категорий.
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

// categoryListResponse — ответ GET /api/v1/categories.
type categoryListResponse struct {
	Categories []string `json:"categories"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
}

// createCategoryRequest — тело запроса POST /api/v1/categories.
type createCategoryRequest struct {
	Name string `json:"name"`
}

// batchCategoriesRequest — тело запроса POST /api/v1/categories/batch-delete.
type batchCategoriesRequest struct {
	Names []string `json:"names"`
}

// ListCategories — GET /api/v1/categories.
// Возвращает отсортированный список категорий с пагинацией.
func (h *APIHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := service.NormalizeCategoryPageSize(queryInt(r, "per_page", 0))

	names, total, err := h.categories.List(page, perPage)
	if err != nil {
		h.logger.Error("Ошибка получения списка категорий", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка получения списка категорий")
		return
	}

	writeJSON(w, http.StatusOK, categoryListResponse{
		Categories: names,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
	})
}

// CreateCategory — POST /api/v1/categories.
// Создаёт каталог категории. Имя валидируется: непустое, без разделителей пути.
func (h *APIHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if err := h.categories.Create(req.Name); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, "Недопустимое имя категории")
		case errors.Is(err, service.ErrAlreadyExists):
			apierrors.Conflict(w, "Категория уже существует")
		default:
			h.logger.Error("Ошибка создания категории",
				slog.String("category", req.Name),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка создания категории")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// DeleteCategory — DELETE /api/v1/categories/{category}.
// Удаляет категорию рекурсивно вместе с локальными файлами и ссылками.
func (h *APIHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")

	if err := h.categories.Delete(name); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, "Недопустимое имя категории")
		case errors.Is(err, service.ErrCategoryNotFound):
			apierrors.NotFound(w, "Категория не найдена")
		default:
			h.logger.Error("Ошибка удаления категории",
				slog.String("category", name),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Ошибка удаления категории")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BatchDeleteCategories — POST /api/v1/categories/batch-delete.
// Удаляет несколько категорий, возвращая результат по каждой.
func (h *APIHandler) BatchDeleteCategories(w http.ResponseWriter, r *http.Request) {
	var req batchCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if len(req.Names) == 0 {
		apierrors.ValidationError(w, "Список категорий пуст")
		return
	}

	outcomes := h.categories.DeleteBatch(req.Names)
	writeJSON(w, http.StatusOK, map[string]any{"results": outcomes})
}
