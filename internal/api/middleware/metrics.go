// metrics.go — Prometheus HTTP метрики Emostore.
// Регистрирует метрики: es_http_requests_total, es_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "es_http_requests_total",
			Help: "Общее количество HTTP-запросов к Emostore",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "es_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Emostore в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик: имена категорий,
			// файлов и идентификаторы задач заменяются плейсхолдерами,
			// иначе кардинальность лейблов растёт с каждой категорией.
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет динамические сегменты пути на плейсхолдеры.
// /api/v1/categories/cats/items → /api/v1/categories/{category}/items
// /files/cats/a.png/download → /files/{category}/{filename}/download
// /cats → /{category}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/auth/login", "/api/v1/auth/logout",
		"/api/v1/categories", "/api/v1/categories/batch-delete",
		"/api/v1/download-tasks":
		return path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case len(segments) >= 3 && segments[0] == "api" && segments[1] == "v1":
		return normalizeAPIPath(segments[2:])
	case segments[0] == "files" && len(segments) >= 3:
		// /files/{category}/{filename}[/download]
		if len(segments) == 4 && segments[3] == "download" {
			return "/files/{category}/{filename}/download"
		}
		return "/files/{category}/{filename}"
	case len(segments) == 1 && segments[0] != "":
		// Публичная случайная выдача
		return "/{category}"
	}

	return path
}

// normalizeAPIPath нормализует хвост пути после /api/v1/.
func normalizeAPIPath(rest []string) string {
	const prefix = "/api/v1"

	switch rest[0] {
	case "categories":
		switch {
		case len(rest) == 2:
			return prefix + "/categories/{category}"
		case len(rest) >= 3 && rest[2] == "items":
			switch {
			case len(rest) == 3:
				return prefix + "/categories/{category}/items"
			case rest[3] == "batch-delete":
				return prefix + "/categories/{category}/items/batch-delete"
			case len(rest) == 5 && rest[4] == "rename":
				return prefix + "/categories/{category}/items/{filename}/rename"
			default:
				return prefix + "/categories/{category}/items/{filename}"
			}
		case len(rest) >= 3 && rest[2] == "links":
			if len(rest) == 3 {
				return prefix + "/categories/{category}/links"
			}
			return prefix + "/categories/{category}/links/{id}"
		case len(rest) == 3 && rest[2] == "upload":
			return prefix + "/categories/{category}/upload"
		}
	case "download-tasks":
		if len(rest) == 3 && rest[2] == "events" {
			return prefix + "/download-tasks/{task_id}/events"
		}
		if len(rest) == 2 {
			return prefix + "/download-tasks/{task_id}"
		}
	}

	return prefix + "/" + strings.Join(rest, "/")
}
