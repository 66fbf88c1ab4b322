// Пакет server — HTTP-сервер Emostore с graceful shutdown.
// Без TLS — сервис предполагается за reverse proxy.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkorolev/emostore/internal/api/handlers"
	"github.com/mkorolev/emostore/internal/api/middleware"
	"github.com/mkorolev/emostore/internal/config"
)

// Server — HTTP-сервер Emostore.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// sessionAuth может быть nil — тогда административные маршруты открыты
// (используется в тестах).
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, sessionAuth *middleware.SessionAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Служебные endpoints — без аутентификации
	router.Get("/health/live", handler.HealthLive)
	router.Get("/health/ready", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)

	// Аутентификация — публичные endpoints
	router.Post("/api/v1/auth/login", handler.Login)
	router.Post("/api/v1/auth/logout", handler.Logout)

	// Административный API — за сессионной аутентификацией
	router.Group(func(r chi.Router) {
		if sessionAuth != nil {
			r.Use(sessionAuth.Middleware())
		}

		r.Route("/api/v1/categories", func(r chi.Router) {
			r.Get("/", handler.ListCategories)
			r.Post("/", handler.CreateCategory)
			r.Post("/batch-delete", handler.BatchDeleteCategories)

			r.Route("/{category}", func(r chi.Router) {
				r.Delete("/", handler.DeleteCategory)

				r.Get("/items", handler.ListItems)
				r.Post("/items/batch-delete", handler.BatchDeleteItems)
				r.Post("/items/{filename}/rename", handler.RenameItem)
				r.Delete("/items/{filename}", handler.DeleteItem)

				r.Post("/links", handler.AddLinks)
				r.Put("/links/{id}", handler.EditLink)
				r.Delete("/links/{id}", handler.DeleteLink)

				r.Post("/upload", handler.UploadItems)
			})
		})

		r.Post("/api/v1/download-tasks", handler.CreateDownloadTask)
		r.Get("/api/v1/download-tasks/{task_id}/events", handler.StreamTaskEvents)

		r.Get("/files/{category}/{filename}", handler.ViewFile)
		r.Get("/files/{category}/{filename}/download", handler.DownloadFile)
	})

	// Публичная случайная выдача — последним, чтобы не перехватывать
	// служебные префиксы.
	router.Get("/{category}", handler.ServeRandom)

	// WriteTimeout не выставляется: он оборвал бы длинные SSE-стримы
	// и медленные загрузки.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		ReadTimeout: cfg.HTTPReadTimeout,
		IdleTimeout: 120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Handler возвращает корневой обработчик сервера (для тестов).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
