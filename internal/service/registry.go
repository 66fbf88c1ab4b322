// registry.go — process-wide реестр задач пакетной загрузки.
// Внедряемый компонент с явным жизненным циклом; доступ защищён мьютексом
// в пределах реестра. Запись живёт от создания до завершения единственного
// стрима-потребителя; по времени записи не вытесняются.
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mkorolev/emostore/internal/domain/model"
)

// Метрика количества живых задач в реестре.
var registryTasks = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "es_task_registry_size",
	Help: "Количество задач загрузки, находящихся в реестре.",
})

// TaskRegistry — реестр задач загрузки.
type TaskRegistry struct {
	mu    sync.Mutex
	tasks map[string]*model.DownloadTask
}

// NewTaskRegistry создаёт пустой реестр.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		tasks: make(map[string]*model.DownloadTask),
	}
}

// Create регистрирует новую задачу со статусом pending и возвращает её.
// Идентификатор — свежий UUID, ранее не выдававшийся.
func (r *TaskRegistry) Create(category string, urls []string) *model.DownloadTask {
	task := &model.DownloadTask{
		ID:        uuid.NewString(),
		Category:  category,
		URLs:      urls,
		Status:    model.TaskStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()

	registryTasks.Inc()
	return task
}

// Claim атомарно захватывает задачу для стрима: pending -> in-progress.
// Неизвестный id либо уже захваченная задача — ErrTaskNotFound; из двух
// одновременных претендентов побеждает первый, второй получает ошибку.
func (r *TaskRegistry) Claim(taskID string) (*model.DownloadTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok || task.Status != model.TaskStatusPending {
		return nil, ErrTaskNotFound
	}

	task.Status = model.TaskStatusInProgress
	return task, nil
}

// MarkDone переводит задачу в статус done. Статус читается в Claim под
// тем же мьютексом, поэтому переход выполняется только здесь.
// Неизвестный id — no-op.
func (r *TaskRegistry) MarkDone(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task, ok := r.tasks[taskID]; ok {
		task.Status = model.TaskStatusDone
	}
}

// Remove удаляет задачу из реестра. Повторное удаление — no-op.
func (r *TaskRegistry) Remove(taskID string) {
	r.mu.Lock()
	_, ok := r.tasks[taskID]
	delete(r.tasks, taskID)
	r.mu.Unlock()

	if ok {
		registryTasks.Dec()
	}
}

// Len возвращает текущее количество задач в реестре.
func (r *TaskRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
