// Точка входа Emostore — self-hosted менеджер коллекции эмотиконов.
// Загружает конфигурацию, готовит каталог хранения, создаёт сервисный слой
// (ссылки, каталог, загрузчик, реестр задач, оркестратор стримов),
// HTTP-сервер с сессионной аутентификацией и graceful shutdown.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/mkorolev/emostore/internal/api/handlers"
	"github.com/mkorolev/emostore/internal/api/middleware"
	"github.com/mkorolev/emostore/internal/auth"
	"github.com/mkorolev/emostore/internal/config"
	"github.com/mkorolev/emostore/internal/repository"
	"github.com/mkorolev/emostore/internal/server"
	"github.com/mkorolev/emostore/internal/service"
)

// lastShownMaxEntries — ёмкость хранилища анти-повтора (пар сессия+категория).
const lastShownMaxEntries = 4096

// lastShownTTL — срок жизни записи анти-повтора.
const lastShownTTL = 24 * time.Hour

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Emostore запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("emoticons_dir", cfg.EmoticonsDir),
	)

	// 3. Каталог хранения
	if err := os.MkdirAll(cfg.EmoticonsDir, 0o755); err != nil {
		logger.Error("Ошибка создания каталога хранения",
			slog.String("dir", cfg.EmoticonsDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// 4. Repositories
	localFiles := repository.NewLocalFiles(cfg.EmoticonsDir)
	linkStore := repository.NewLinkStore(cfg.EmoticonsDir)

	// 5. Сессии администратора
	sessions, err := auth.NewManager(cfg.SessionSecret, cfg.AdminPassword, cfg.SessionTTL, cfg.SessionSecure)
	if err != nil {
		logger.Error("Ошибка создания менеджера сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("ES_SESSION_SECRET не задан, сессии не переживут рестарт процесса")
	}

	// 6. Services
	lastShown := service.NewLastShownStore(lastShownMaxEntries, lastShownTTL)
	linksSvc := service.NewLinkService(linkStore, localFiles, logger)
	catalogSvc := service.NewCatalogService(localFiles, linkStore, logger)
	categoriesSvc := service.NewCategoryService(localFiles, lastShown, logger)
	itemsSvc := service.NewItemService(localFiles, linksSvc, logger)

	fetcher := service.NewFetcher(cfg.FetchConnectTimeout, cfg.FetchReadTimeout, cfg.FetchRetryPause, logger)
	registry := service.NewTaskRegistry()
	orchestrator := service.NewStreamOrchestrator(registry, fetcher, localFiles, logger)

	// 7. Health handler
	storageChecker := handlers.NewStorageReadinessChecker(cfg.EmoticonsDir)
	healthHandler := handlers.NewHealthHandler(storageChecker)

	// 8. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		sessions,
		categoriesSvc,
		catalogSvc,
		linksSvc,
		itemsSvc,
		registry,
		orchestrator,
		lastShown,
		logger,
	)

	// 9. Сессионная аутентификация административных маршрутов
	sessionAuth := middleware.NewSessionAuth(sessions, logger)

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, sessionAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Emostore остановлен")
}
