// upload.go — обработчик POST /api/v1/categories/{category}/upload.
// Multipart-загрузка локальных файлов с allow-list расширений.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/mkorolev/emostore/internal/api/errors"
	"github.com/mkorolev/emostore/internal/service"
)

// maxUploadMemory — порог буферизации multipart-формы в памяти,
// остальное уходит во временные файлы.
const maxUploadMemory = 10 << 20 // 10 MiB

// UploadItems — POST /api/v1/categories/{category}/upload.
// Принимает multipart-форму с полем "files" (одно или несколько).
// Каждый файл обрабатывается независимо, ответ содержит per-item результаты.
func (h *APIHandler) UploadItems(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		apierrors.ValidationError(w, "Некорректная multipart-форма: "+err.Error())
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		apierrors.ValidationError(w, "Форма не содержит файлов (поле files)")
		return
	}
	if !h.categories.Exists(category) {
		apierrors.NotFound(w, "Категория не найдена")
		return
	}

	type uploadOutcome struct {
		Original string `json:"original"`
		Filename string `json:"filename,omitempty"`
		Status   string `json:"status"`
		Message  string `json:"message,omitempty"`
	}

	outcomes := make([]uploadOutcome, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			outcomes = append(outcomes, uploadOutcome{
				Original: fh.Filename,
				Status:   service.OutcomeError,
				Message:  "чтение части формы: " + err.Error(),
			})
			continue
		}

		stored, err := h.items.SaveUpload(category, fh.Filename, src)
		_ = src.Close()
		if err != nil {
			if !errors.Is(err, service.ErrValidation) {
				h.logger.Error("Ошибка сохранения загруженного файла",
					slog.String("category", category),
					slog.String("filename", fh.Filename),
					slog.String("error", err.Error()),
				)
			}
			outcomes = append(outcomes, uploadOutcome{
				Original: fh.Filename,
				Status:   service.OutcomeError,
				Message:  err.Error(),
			})
			continue
		}

		outcomes = append(outcomes, uploadOutcome{
			Original: fh.Filename,
			Filename: stored,
			Status:   service.OutcomeSuccess,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": outcomes})
}
