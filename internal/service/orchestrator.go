// orchestrator.go — оркестратор progress-стрима задачи загрузки.
// Захватывает задачу из реестра, прогоняет её URL через Fetcher строго
// последовательно и отдаёт типизированные события по каналу; транспортный
// слой кодирует их в SSE. События URL с индексом i полностью предшествуют
// событиям URL i+1. По завершении стрима запись задачи удаляется.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mkorolev/emostore/internal/domain/model"
	"github.com/mkorolev/emostore/internal/repository"
)

// Метрика активных progress-стримов.
var activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "es_active_streams",
	Help: "Количество активных progress-стримов задач загрузки.",
})

// StreamOrchestrator — драйвер задач загрузки.
type StreamOrchestrator struct {
	registry *TaskRegistry
	fetcher  *Fetcher
	files    *repository.LocalFiles
	logger   *slog.Logger
}

// NewStreamOrchestrator создаёт оркестратор.
func NewStreamOrchestrator(registry *TaskRegistry, fetcher *Fetcher, files *repository.LocalFiles, logger *slog.Logger) *StreamOrchestrator {
	return &StreamOrchestrator{
		registry: registry,
		fetcher:  fetcher,
		files:    files,
		logger:   logger.With(slog.String("component", "stream_orchestrator")),
	}
}

// Run запускает обработку задачи и возвращает канал событий.
// Канал закрывается после терминального события (end либо error).
// Неизвестный или уже захваченный taskID — единственное событие error.
// Отмена ctx (клиент закрыл соединение) прерывает цикл досрочно.
func (o *StreamOrchestrator) Run(ctx context.Context, taskID string) <-chan model.Event {
	events := make(chan model.Event)

	go func() {
		defer close(events)

		task, err := o.registry.Claim(taskID)
		if err != nil {
			o.emit(ctx, events, model.Event{
				Kind:    model.EventError,
				Payload: model.ErrorPayload{Message: "неизвестная или уже обрабатываемая задача"},
			})
			return
		}

		activeStreams.Inc()
		defer activeStreams.Dec()
		// Запись реестра живёт ровно до конца стрима
		defer o.registry.Remove(task.ID)

		o.logger.Info("Стрим задачи запущен",
			slog.String("task_id", task.ID),
			slog.String("category", task.Category),
			slog.Int("urls", len(task.URLs)),
		)

		o.emit(ctx, events, model.Event{
			Kind:    model.EventInfo,
			Payload: model.InfoPayload{Message: fmt.Sprintf("обработка списка из %d URL", len(task.URLs))},
		})

		destDir := o.files.CategoryDir(task.Category)
		processed := 0

		for index, rawURL := range task.URLs {
			if ctx.Err() != nil {
				o.logger.Info("Клиент отключился, стрим прерван",
					slog.String("task_id", task.ID),
					slog.Int("index", index),
				)
				return
			}

			urlID := fmt.Sprintf("url-%d-%d", index, time.Now().UnixMicro())

			o.emit(ctx, events, progressEvent(urlID, rawURL, model.ProgressPayload{
				Status:   "preparing",
				Progress: 0,
			}))

			onProgress := func(p FetchProgress) {
				payload := model.ProgressPayload{
					Status:   p.Status,
					Progress: p.Percent,
					Message:  p.Message,
				}
				if p.Status == "downloading" {
					downloaded := p.Downloaded
					payload.Downloaded = &downloaded
					if p.Total >= 0 {
						total := p.Total
						payload.Total = &total
					}
				}
				o.emit(ctx, events, progressEvent(urlID, rawURL, payload))
			}

			filename, fetchErr := o.fetcher.Fetch(ctx, rawURL, destDir, onProgress)
			if fetchErr != nil {
				o.emit(ctx, events, progressEvent(urlID, rawURL, model.ProgressPayload{
					Status:   "error",
					Progress: 0,
					Message:  fetchErr.Error(),
				}))
				continue
			}

			processed++
			o.emit(ctx, events, progressEvent(urlID, rawURL, model.ProgressPayload{
				Status:      "done",
				Progress:    100,
				NewFilename: filename,
				Message:     "загрузка завершена",
			}))
		}

		o.registry.MarkDone(task.ID)

		o.logger.Info("Стрим задачи завершён",
			slog.String("task_id", task.ID),
			slog.Int("processed", processed),
			slog.Int("total", len(task.URLs)),
		)

		o.emit(ctx, events, model.Event{
			Kind: model.EventEnd,
			Payload: model.EndPayload{
				Processed: processed,
				Total:     len(task.URLs),
				Message:   "все URL обработаны",
			},
		})
	}()

	return events
}

// emit отправляет событие подписчику либо молча выходит при отмене контекста.
func (o *StreamOrchestrator) emit(ctx context.Context, events chan<- model.Event, ev model.Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// progressEvent собирает progress-событие для одного URL.
func progressEvent(id, url string, payload model.ProgressPayload) model.Event {
	payload.ID = id
	payload.URL = url
	return model.Event{Kind: model.EventProgress, Payload: payload}
}
