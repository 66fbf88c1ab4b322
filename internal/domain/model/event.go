// event.go — типизированные события progress-стрима задачи загрузки.
// Оркестратор отдаёт события по каналу, транспортный слой кодирует их в SSE.
package model

// EventKind — вид события стрима.
type EventKind string

// Виды событий.
const (
	// EventInfo — свободный текстовый milestone.
	EventInfo EventKind = "info"
	// EventProgress — прогресс обработки одного URL.
	EventProgress EventKind = "progress"
	// EventError — ошибка уровня стрима (например, неизвестная задача).
	EventError EventKind = "error"
	// EventEnd — итог: стрим завершён.
	EventEnd EventKind = "end"
)

// Event — одно событие стрима. Payload — одна из структур *Payload ниже,
// сериализуемая в data: SSE-сообщения.
type Event struct {
	Kind    EventKind
	Payload any
}

// InfoPayload — данные события info.
type InfoPayload struct {
	Message string `json:"message"`
}

// ProgressPayload — данные события progress для одного URL.
// Progress: 0-100, либо -1 когда общий размер неизвестен.
type ProgressPayload struct {
	// ID — идентификатор элемента внутри стрима (url-{index}-{stamp}).
	ID string `json:"id"`
	// URL — исходный URL.
	URL string `json:"url"`
	// Status — метка состояния: preparing, downloading, retrying, done, error.
	Status string `json:"status"`
	// Progress — процент загрузки (0-100) или -1.
	Progress int `json:"progress"`
	// Downloaded — скачано байт (опционально).
	Downloaded *int64 `json:"downloaded,omitempty"`
	// Total — общий размер в байтах (опционально, nil если неизвестен).
	Total *int64 `json:"total,omitempty"`
	// NewFilename — имя сохранённого файла (только при status=done).
	NewFilename string `json:"new_filename,omitempty"`
	// Message — человекочитаемое сообщение (успех/ошибка).
	Message string `json:"message,omitempty"`
}

// ErrorPayload — данные события error.
type ErrorPayload struct {
	Message string `json:"message"`
}

// EndPayload — данные события end.
type EndPayload struct {
	// Processed — количество успешно обработанных URL.
	Processed int `json:"processed"`
	// Total — общее количество URL в задаче.
	Total int `json:"total"`
	// Message — итоговое сообщение.
	Message string `json:"message"`
}
