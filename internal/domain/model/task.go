// task.go — задача пакетной загрузки по URL.
// Задача живёт в Task Registry от создания до завершения единственного
// потребляющего её progress-стрима.
package model

import "time"

// TaskStatus — статус жизненного цикла задачи загрузки.
type TaskStatus string

// Статусы задачи.
const (
	// TaskStatusPending — задача создана, стрим ещё не подключился.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress — задача захвачена стримом и выполняется.
	TaskStatusInProgress TaskStatus = "in-progress"
	// TaskStatusDone — все URL обработаны.
	TaskStatusDone TaskStatus = "done"
)

// DownloadTask — дескриптор задачи пакетной загрузки.
type DownloadTask struct {
	// ID — уникальный идентификатор задачи (UUID).
	ID string
	// Category — целевая категория.
	Category string
	// URLs — упорядоченный список URL для загрузки.
	URLs []string
	// Status — текущий статус задачи.
	Status TaskStatus
	// CreatedAt — время создания задачи.
	CreatedAt time.Time
}
