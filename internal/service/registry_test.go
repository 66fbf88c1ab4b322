package service

import (
	"errors"
	"testing"

	"github.com/mkorolev/emostore/internal/domain/model"
)

func TestTaskRegistry_Create(t *testing.T) {
	registry := NewTaskRegistry()

	task := registry.Create("cats", []string{"https://example.com/a.png"})
	if task.ID == "" {
		t.Error("Create вернул задачу с пустым ID")
	}
	if task.Status != model.TaskStatusPending {
		t.Errorf("Status = %q, ожидается pending", task.Status)
	}
	if task.CreatedAt.IsZero() {
		t.Error("CreatedAt не установлено")
	}
	if registry.Len() != 1 {
		t.Errorf("Len = %d, ожидается 1", registry.Len())
	}

	other := registry.Create("cats", nil)
	if other.ID == task.ID {
		t.Error("две задачи получили один идентификатор")
	}
}

func TestTaskRegistry_Claim(t *testing.T) {
	registry := NewTaskRegistry()
	task := registry.Create("cats", []string{"https://example.com/a.png"})

	claimed, err := registry.Claim(task.ID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if claimed.Status != model.TaskStatusInProgress {
		t.Errorf("Status после Claim = %q, ожидается in-progress", claimed.Status)
	}

	// Из двух претендентов побеждает первый, второй получает ошибку
	if _, err := registry.Claim(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("повторный Claim = %v, ожидается ErrTaskNotFound", err)
	}

	if _, err := registry.Claim("нет-такой-задачи"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Claim неизвестного id = %v, ожидается ErrTaskNotFound", err)
	}
}

func TestTaskRegistry_MarkDone(t *testing.T) {
	registry := NewTaskRegistry()
	task := registry.Create("cats", nil)

	if _, err := registry.Claim(task.ID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	registry.MarkDone(task.ID)
	if task.Status != model.TaskStatusDone {
		t.Errorf("Status после MarkDone = %q, ожидается done", task.Status)
	}
	if _, err := registry.Claim(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Claim завершённой задачи = %v, ожидается ErrTaskNotFound", err)
	}

	// Неизвестный id — no-op
	registry.MarkDone("нет-такой-задачи")
}

// Переход статуса и проверка в Claim должны быть под одним мьютексом:
// второй претендент, гоняющийся с завершением, не видит гонку данных.
func TestTaskRegistry_ClaimMarkDoneConcurrent(t *testing.T) {
	registry := NewTaskRegistry()

	for i := 0; i < 50; i++ {
		task := registry.Create("cats", nil)
		if _, err := registry.Claim(task.ID); err != nil {
			t.Fatalf("Claim: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 100; j++ {
				if _, err := registry.Claim(task.ID); err == nil {
					t.Error("повторный Claim захватил уже обрабатываемую задачу")
					return
				}
			}
		}()

		registry.MarkDone(task.ID)
		<-done
		registry.Remove(task.ID)
	}
}

func TestTaskRegistry_Remove(t *testing.T) {
	registry := NewTaskRegistry()
	task := registry.Create("cats", nil)

	registry.Remove(task.ID)
	if registry.Len() != 0 {
		t.Errorf("Len после Remove = %d, ожидается 0", registry.Len())
	}
	if _, err := registry.Claim(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Claim удалённой задачи = %v, ожидается ErrTaskNotFound", err)
	}

	// Повторное удаление — no-op
	registry.Remove(task.ID)
	if registry.Len() != 0 {
		t.Errorf("Len после повторного Remove = %d", registry.Len())
	}
}
