// fetcher.go — retry-aware загрузчик одного URL с прогресс-коллбэками.
// Машина состояний на URL: валидация -> запрос -> гейт content-type ->
// выбор расширения -> потоковая запись на диск. До MaxRetries попыток;
// ошибки валидации, неподдерживаемый content-type, неопределимое расширение
// и локальный I/O — неповторяемые, рвут цикл немедленно.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mkorolev/emostore/internal/repository"
	"github.com/mkorolev/emostore/internal/sanitize"
)

// Параметры загрузчика.
const (
	// MaxRetries — максимум попыток на один URL.
	MaxRetries = 3
	// fetchChunkSize — размер блока чтения тела ответа.
	fetchChunkSize = 8192
	// progressInterval — минимальный интервал между прогресс-коллбэками.
	progressInterval = 150 * time.Millisecond
	// fetchUserAgent — User-Agent запросов загрузчика.
	fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
)

// Prometheus-метрики загрузчика.
var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "es_fetch_downloads_total",
		Help: "Общее количество загрузок по URL (по исходу).",
	}, []string{"status"})

	fetchBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "es_fetch_download_bytes_total",
		Help: "Общее количество скачанных байт.",
	})

	fetchRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "es_fetch_retries_total",
		Help: "Количество повторных попыток загрузки.",
	})
)

// Соответствие принимаемых content-type расширениям файлов.
var contentTypeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// FetchProgress — снимок прогресса загрузки одного URL.
type FetchProgress struct {
	// Status — метка состояния: downloading, retrying, done.
	Status string
	// Percent — 0-100, либо -1 когда общий размер неизвестен.
	Percent int
	// Downloaded — скачано байт.
	Downloaded int64
	// Total — общий размер (−1 если Content-Length отсутствует/некорректен).
	Total int64
	// Message — пояснение (для retrying).
	Message string
}

// ProgressFunc — коллбэк прогресса. Вызывается не чаще progressInterval,
// плюс гарантированно в начале и при завершении загрузки.
type ProgressFunc func(FetchProgress)

// permanentError помечает ошибку как неповторяемую: повторная попытка
// не может её исправить.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// permanent оборачивает ошибку как неповторяемую.
func permanent(err error) error { return &permanentError{err: err} }

// isPermanent сообщает, помечена ли ошибка как неповторяемая.
func isPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Fetcher — retry-aware загрузчик изображений по URL.
type Fetcher struct {
	client      *http.Client
	readTimeout time.Duration
	retryPause  time.Duration
	maxRetries  int
	logger      *slog.Logger
}

// NewFetcher создаёт загрузчик.
// connectTimeout ограничивает установку TCP-соединения и получение заголовков,
// readTimeout взводится заново на каждую операцию чтения тела ответа.
func NewFetcher(connectTimeout, readTimeout, retryPause time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   connectTimeout,
				ResponseHeaderTimeout: readTimeout,
			},
		},
		readTimeout: readTimeout,
		retryPause:  retryPause,
		maxRetries:  MaxRetries,
		logger:      logger.With(slog.String("component", "fetcher")),
	}
}

// Fetch скачивает один URL в destDir и возвращает имя сохранённого файла.
// Имя назначения {sanitized-base}_{stamp}{ext} фиксируется один раз на вызов,
// поэтому повторные попытки перезаписывают один и тот же путь, не накапливая
// частично скачанные файлы.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destDir string, onProgress ProgressFunc) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fetchTotal.WithLabelValues("invalid_url").Inc()
		return "", permanent(ErrInvalidURL)
	}
	// Фрагмент не участвует в запросе
	u.Fragment = ""

	stamp := filenameStamp(time.Now())

	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		filename, attemptErr := f.attempt(ctx, u, destDir, stamp, onProgress)
		if attemptErr == nil {
			fetchTotal.WithLabelValues("success").Inc()
			return filename, nil
		}
		lastErr = attemptErr

		if isPermanent(attemptErr) {
			fetchTotal.WithLabelValues("permanent_error").Inc()
			f.logger.Warn("Неповторяемая ошибка загрузки",
				slog.String("url", u.String()),
				slog.String("error", attemptErr.Error()),
			)
			return "", attemptErr
		}

		if ctx.Err() != nil {
			fetchTotal.WithLabelValues("cancelled").Inc()
			return "", ctx.Err()
		}

		if attempt < f.maxRetries {
			fetchRetriesTotal.Inc()
			f.logger.Warn("Ошибка загрузки, повторная попытка",
				slog.String("url", u.String()),
				slog.Int("attempt", attempt),
				slog.String("error", attemptErr.Error()),
			)
			onProgress(FetchProgress{
				Status:  "retrying",
				Percent: 0,
				Message: fmt.Sprintf("попытка %d из %d не удалась: %s", attempt, f.maxRetries, attemptErr),
			})

			select {
			case <-ctx.Done():
				fetchTotal.WithLabelValues("cancelled").Inc()
				return "", ctx.Err()
			case <-time.After(f.retryPause):
			}
		}
	}

	fetchTotal.WithLabelValues("failed").Inc()
	return "", fmt.Errorf("загрузка не удалась после %d попыток: %w", f.maxRetries, lastErr)
}

// attempt выполняет одну попытку: запрос, гейты, потоковая запись.
func (f *Fetcher) attempt(ctx context.Context, u *url.URL, destDir, stamp string, onProgress ProgressFunc) (string, error) {
	// Отдельный контекст попытки: таймер read-timeout отменяет запрос,
	// если очередное чтение тела длится слишком долго.
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", permanent(fmt.Errorf("построение запроса: %w", err))
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("сервер вернул статус %d", resp.StatusCode)
	}

	// Гейт content-type: отсекаем параметры после ';', сравнение без регистра
	contentType := resp.Header.Get("Content-Type")
	mainType, _, _ := strings.Cut(contentType, ";")
	mainType = strings.ToLower(strings.TrimSpace(mainType))

	ext, ok := contentTypeExtensions[mainType]
	if !ok {
		if mainType == "" {
			mainType = "неизвестен"
		}
		return "", permanent(fmt.Errorf("неподдерживаемый content-type: %s", mainType))
	}

	// Расширение: из content-type, иначе из пути URL, иначе отказ
	if !repository.AllowedExtension(ext) {
		urlExt := strings.ToLower(path.Ext(u.Path))
		if !repository.AllowedExtension(urlExt) {
			return "", permanent(errors.New("не удалось определить допустимое расширение"))
		}
		ext = urlExt
	}

	base := sanitize.Base(strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path)))
	filename := fmt.Sprintf("%s_%s%s", base, stamp, ext)
	destPath := filepath.Join(destDir, filename)

	out, err := os.Create(destPath)
	if err != nil {
		return "", permanent(fmt.Errorf("создание файла %q: %w", filename, err))
	}

	total := resp.ContentLength // -1 когда заголовок отсутствует или некорректен
	onProgress(FetchProgress{Status: "downloading", Percent: 0, Total: total})

	written, err := f.copyBody(cancel, resp.Body, out, total, onProgress)
	if err != nil {
		out.Close()
		os.Remove(destPath)
		return "", err
	}

	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return "", permanent(fmt.Errorf("закрытие файла %q: %w", filename, err))
	}

	// Финальный прогресс-коллбэк — всегда, независимо от троттлинга.
	// Терминальную метку done/error ставит вызывающая сторона.
	fetchBytesTotal.Add(float64(written))
	onProgress(FetchProgress{
		Status:     "downloading",
		Percent:    percentOf(written, total),
		Downloaded: written,
		Total:      total,
	})

	f.logger.Debug("Загрузка завершена",
		slog.String("url", u.String()),
		slog.String("filename", filename),
		slog.Int64("bytes", written),
	)
	return filename, nil
}

// copyBody копирует тело ответа блоками по 8KB, взводя таймер read-timeout
// перед каждым чтением и троттля прогресс-коллбэки.
func (f *Fetcher) copyBody(cancel context.CancelFunc, body io.Reader, out *os.File, total int64, onProgress ProgressFunc) (int64, error) {
	buf := make([]byte, fetchChunkSize)
	var written int64
	lastEmit := time.Now()

	readTimer := time.AfterFunc(f.readTimeout, cancel)
	defer readTimer.Stop()

	for {
		readTimer.Reset(f.readTimeout)
		n, readErr := body.Read(buf)

		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return written, permanent(fmt.Errorf("запись на диск: %w", writeErr))
			}
			written += int64(n)

			if time.Since(lastEmit) >= progressInterval {
				downloaded := written
				onProgress(FetchProgress{
					Status:     "downloading",
					Percent:    percentOf(downloaded, total),
					Downloaded: downloaded,
					Total:      total,
				})
				lastEmit = time.Now()
			}
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("чтение тела ответа: %w", readErr)
		}
	}
}

// percentOf возвращает процент загрузки либо -1 при неизвестном размере.
func percentOf(downloaded, total int64) int {
	if total <= 0 {
		return -1
	}
	p := int(downloaded * 100 / total)
	if p > 100 {
		p = 100
	}
	return p
}

// filenameStamp — таймстамп для имени файла (секунды + микросекунды),
// уникальный в пределах процесса с точностью до микросекунды.
func filenameStamp(t time.Time) string {
	return t.Format("20060102150405") + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}
