// Пакет config — загрузка и валидация конфигурации Emostore
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Emostore.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймаут чтения HTTP-запроса
	HTTPReadTimeout time.Duration
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration

	// --- Хранилище ---

	// Корневой каталог хранения (подкаталог на категорию)
	EmoticonsDir string

	// --- Сессия администратора ---

	// Пароль администратора
	AdminPassword string
	// Секрет подписи сессионных JWT; пустой — случайный на процесс
	// (все сессии инвалидируются рестартом)
	SessionSecret string
	// Срок жизни сессии
	SessionTTL time.Duration
	// Выставлять Secure на сессионной cookie (за TLS-терминирующим proxy)
	SessionSecure bool

	// --- Загрузчик ---

	// Таймаут установки TCP-соединения
	FetchConnectTimeout time.Duration
	// Таймаут одной операции чтения тела ответа
	FetchReadTimeout time.Duration
	// Пауза между повторными попытками
	FetchRetryPause time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// ES_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("ES_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("ES_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("ES_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// ES_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("ES_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("ES_LOG_LEVEL: %w", err)
	}

	// ES_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("ES_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("ES_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// ES_HTTP_READ_TIMEOUT — таймаут чтения запроса (по умолчанию 30s)
	cfg.HTTPReadTimeout, err = getEnvDuration("ES_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("ES_HTTP_READ_TIMEOUT: %w", err)
	}

	// ES_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("ES_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("ES_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Хранилище ---

	// ES_EMOTICONS_DIR — корневой каталог хранения (по умолчанию emoticons)
	cfg.EmoticonsDir = getEnvDefault("ES_EMOTICONS_DIR", "emoticons")

	// --- Сессия администратора ---

	// ES_ADMIN_PASSWORD — обязательный
	cfg.AdminPassword, err = getEnvRequired("ES_ADMIN_PASSWORD")
	if err != nil {
		return nil, err
	}

	// ES_SESSION_SECRET — секрет подписи сессий (опционально)
	cfg.SessionSecret = getEnvDefault("ES_SESSION_SECRET", "")

	// ES_SESSION_TTL — срок жизни сессии (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvDuration("ES_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("ES_SESSION_TTL: %w", err)
	}

	// ES_SESSION_SECURE — Secure-флаг сессионной cookie (по умолчанию false)
	cfg.SessionSecure, err = getEnvBool("ES_SESSION_SECURE", false)
	if err != nil {
		return nil, fmt.Errorf("ES_SESSION_SECURE: %w", err)
	}

	// --- Загрузчик ---

	// ES_FETCH_CONNECT_TIMEOUT — таймаут соединения (по умолчанию 5s)
	cfg.FetchConnectTimeout, err = getEnvDuration("ES_FETCH_CONNECT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("ES_FETCH_CONNECT_TIMEOUT: %w", err)
	}

	// ES_FETCH_READ_TIMEOUT — таймаут чтения (по умолчанию 15s)
	cfg.FetchReadTimeout, err = getEnvDuration("ES_FETCH_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("ES_FETCH_READ_TIMEOUT: %w", err)
	}

	// ES_FETCH_RETRY_PAUSE — пауза между попытками (по умолчанию 1s)
	cfg.FetchRetryPause, err = getEnvDuration("ES_FETCH_RETRY_PAUSE", time.Second)
	if err != nil {
		return nil, fmt.Errorf("ES_FETCH_RETRY_PAUSE: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
