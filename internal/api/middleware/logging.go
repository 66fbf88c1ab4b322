// logging.go — middleware логирования HTTP-запросов через slog.
// Для SSE-стримов продолжительность покрывает всё время жизни соединения,
// поэтому долгие записи для /tasks/{task_id}/events — норма.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// logWriter фиксирует статус-код и объём отданного тела.
type logWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (lw *logWriter) WriteHeader(code int) {
	lw.status = code
	lw.ResponseWriter.WriteHeader(code)
}

func (lw *logWriter) Write(b []byte) (int, error) {
	n, err := lw.ResponseWriter.Write(b)
	lw.bytes += int64(n)
	return n, err
}

// Unwrap открывает http.ResponseController доступ к исходному ResponseWriter,
// иначе Flush в SSE-обработчике перестанет работать.
func (lw *logWriter) Unwrap() http.ResponseWriter {
	return lw.ResponseWriter
}

// RequestLogger пишет запись о каждом запросе после его обработки.
// Ответы 4xx поднимаются до WARN, 5xx — до ERROR.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With(slog.String("component", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := &logWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(lw, r)

			level := slog.LevelInfo
			switch {
			case lw.status >= 500:
				level = slog.LevelError
			case lw.status >= 400:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", lw.status),
				slog.Int64("bytes", lw.bytes),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if q := r.URL.RawQuery; q != "" {
				attrs = append(attrs, slog.String("query", q))
			}

			log.LogAttrs(r.Context(), level, "Запрос обработан", attrs...)
		})
	}
}
