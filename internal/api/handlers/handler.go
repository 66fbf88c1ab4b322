// handler.go — основной обработчик API Emostore.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkorolev/emostore/internal/auth"
	"github.com/mkorolev/emostore/internal/service"
)

// APIHandler — основной обработчик API Emostore.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health       *HealthHandler
	sessions     *auth.Manager
	categories   *service.CategoryService
	catalog      *service.CatalogService
	links        *service.LinkService
	items        *service.ItemService
	registry     *service.TaskRegistry
	orchestrator *service.StreamOrchestrator
	lastShown    *service.LastShownStore
	logger       *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	sessions *auth.Manager,
	categories *service.CategoryService,
	catalog *service.CatalogService,
	links *service.LinkService,
	items *service.ItemService,
	registry *service.TaskRegistry,
	orchestrator *service.StreamOrchestrator,
	lastShown *service.LastShownStore,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:       health,
		sessions:     sessions,
		categories:   categories,
		catalog:      catalog,
		links:        links,
		items:        items,
		registry:     registry,
		orchestrator: orchestrator,
		lastShown:    lastShown,
		logger:       logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt читает целочисленный query-параметр.
// Отсутствие, мусор или значение < 1 — значение по умолчанию.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
