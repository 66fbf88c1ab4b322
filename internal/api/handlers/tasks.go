// tasks.go — обработчики /api/v1/download-tasks endpoints.
// Инициация задачи пакетной загрузки и SSE-стрим её прогресса.
// Каждый SSE-клиент обслуживается горутиной своего запроса; события
// приходят по каналу от оркестратора и кодируются в wire-формат здесь.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/mkorolev/emostore/internal/api/errors"
	"github.com/mkorolev/emostore/internal/service"
)

// createTaskRequest — тело запроса POST /api/v1/download-tasks.
type createTaskRequest struct {
	Category string   `json:"category"`
	URLs     []string `json:"urls"`
}

// CreateDownloadTask — POST /api/v1/download-tasks.
// Валидирует вход, регистрирует задачу и возвращает её идентификатор.
// Загрузка начинается только после подключения стрима к задаче.
func (h *APIHandler) CreateDownloadTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if len(req.URLs) == 0 {
		apierrors.ValidationError(w, "Список URL пуст")
		return
	}
	if !h.categories.Exists(req.Category) {
		apierrors.NotFound(w, "Категория не найдена")
		return
	}

	// Синхронная валидация всех URL до каких-либо побочных эффектов.
	for _, raw := range req.URLs {
		if err := service.ValidateURL(raw); err != nil {
			apierrors.ValidationError(w, fmt.Sprintf("Некорректный URL %q", raw))
			return
		}
	}

	task := h.registry.Create(req.Category, req.URLs)

	h.logger.Info("Задача загрузки создана",
		slog.String("task_id", task.ID),
		slog.String("category", task.Category),
		slog.Int("urls", len(task.URLs)),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"task_id": task.ID,
		"total":   len(task.URLs),
	})
}

// StreamTaskEvents — GET /api/v1/download-tasks/{task_id}/events.
// SSE-стрим прогресса задачи: info → progress* → end, либо единственный
// error для неизвестной или уже захваченной задачи.
// Формат: event: <kind>\ndata: {json}\n\n.
// Отключение клиента отменяет контекст запроса и обрывает загрузку.
func (h *APIHandler) StreamTaskEvents(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")

	// Настраиваем заголовки SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Отключаем буферизацию Nginx

	// Используем http.ResponseController для корректной работы Flush()
	// через обёрнутый ResponseWriter (logging middleware и др.).
	// ResponseController вызывает Unwrap() и находит оригинальный http.Flusher.
	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		http.Error(w, "SSE не поддерживается", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	h.logger.Debug("SSE клиент подключён",
		slog.String("task_id", taskID),
		slog.String("remote_addr", r.RemoteAddr),
	)

	for ev := range h.orchestrator.Run(ctx, taskID) {
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			h.logger.Error("Ошибка сериализации события",
				slog.String("task_id", taskID),
				slog.String("kind", string(ev.Kind)),
				slog.String("error", err.Error()),
			)
			continue
		}

		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
		_ = rc.Flush()
	}

	h.logger.Debug("SSE стрим завершён",
		slog.String("task_id", taskID),
	)
}
