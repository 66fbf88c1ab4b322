// health.go — обработчики health endpoints Emostore.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (каталог хранения доступен)
// /metrics — Prometheus метрики
package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkorolev/emostore/internal/config"
)

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	storageChecker ReadinessChecker
	promHandler    http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// storageChecker — проверка каталога хранения (может быть nil,
// readiness тогда вернёт "fail").
func NewHealthHandler(storageChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		storageChecker: storageChecker,
		promHandler:    promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		Storage healthCheckResult `json:"storage"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "emostore",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. Проверяет доступность каталога хранения.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "emostore",
	}

	if h.storageChecker != nil {
		status, msg := h.storageChecker.CheckReady()
		resp.Checks.Storage = healthCheckResult{Status: status, Message: msg}
	} else {
		resp.Checks.Storage = healthCheckResult{Status: "fail", Message: "не инициализирован"}
	}

	resp.Status = resp.Checks.Storage.Status

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "fail" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// StorageReadinessChecker — проверка доступности каталога хранения.
// Каталог должен существовать и быть доступным на запись.
type StorageReadinessChecker struct {
	baseDir string
}

// NewStorageReadinessChecker создаёт checker каталога хранения.
func NewStorageReadinessChecker(baseDir string) *StorageReadinessChecker {
	return &StorageReadinessChecker{baseDir: baseDir}
}

// CheckReady проверяет существование и доступность каталога на запись.
// Пробная запись создаёт и сразу удаляет временный файл.
func (c *StorageReadinessChecker) CheckReady() (string, string) {
	info, err := os.Stat(c.baseDir)
	if err != nil {
		return "fail", "каталог хранения недоступен: " + err.Error()
	}
	if !info.IsDir() {
		return "fail", "путь хранения не является каталогом: " + c.baseDir
	}

	probe, err := os.CreateTemp(c.baseDir, ".readiness-*")
	if err != nil {
		return "degraded", "каталог хранения не доступен на запись: " + err.Error()
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return "ok", "каталог хранения доступен: " + filepath.Clean(c.baseDir)
}
