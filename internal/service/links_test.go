package service

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mkorolev/emostore/internal/repository"
)

// testLogger — логгер для тестов, вывод отбрасывается.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStorage создаёт файловое хранилище и хранилище ссылок
// во временной директории с одной готовой категорией.
func newTestStorage(t *testing.T, categories ...string) (*repository.LocalFiles, *repository.LinkStore) {
	t.Helper()
	base := t.TempDir()
	files := repository.NewLocalFiles(base)
	for _, c := range categories {
		if err := files.CreateCategory(c); err != nil {
			t.Fatalf("CreateCategory(%q): %v", c, err)
		}
	}
	return files, repository.NewLinkStore(base)
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"http://example.com/a.png",
		"https://example.com",
	}
	for _, raw := range valid {
		if err := ValidateURL(raw); err != nil {
			t.Errorf("ValidateURL(%q) = %v, ожидается nil", raw, err)
		}
	}

	invalid := []string{
		"",
		"ftp://example.com/a.png",
		"example.com/a.png",
		"http://",
		"://нет-схемы",
	}
	for _, raw := range invalid {
		if err := ValidateURL(raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) = %v, ожидается ErrInvalidURL", raw, err)
		}
	}
}

func TestLinkService_Add(t *testing.T) {
	files, store := newTestStorage(t, "cats")
	svc := NewLinkService(store, files, testLogger())

	link, err := svc.Add("cats", "https://example.com/a.png")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if link.ID == "" {
		t.Error("Add вернул ссылку с пустым ID")
	}
	if link.Type != "external" {
		t.Errorf("Type = %q, ожидается external", link.Type)
	}
	if link.AddedAt.IsZero() {
		t.Error("AddedAt не установлено")
	}

	// Ссылка должна быть видна при повторном чтении
	links, err := store.Load("cats")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://example.com/a.png" {
		t.Errorf("Load = %+v, ожидается одна ссылка", links)
	}
}

func TestLinkService_AddDuplicate(t *testing.T) {
	files, store := newTestStorage(t, "cats")
	svc := NewLinkService(store, files, testLogger())

	if _, err := svc.Add("cats", "https://example.com/a.png"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add("cats", "https://example.com/a.png"); !errors.Is(err, ErrDuplicateURL) {
		t.Errorf("повторный Add = %v, ожидается ErrDuplicateURL", err)
	}
	// Дубликат — точное совпадение строки, другой путь проходит
	if _, err := svc.Add("cats", "https://example.com/b.png"); err != nil {
		t.Errorf("Add другого URL: %v", err)
	}
}

func TestLinkService_AddErrors(t *testing.T) {
	files, store := newTestStorage(t, "cats")
	svc := NewLinkService(store, files, testLogger())

	if _, err := svc.Add("nope", "https://example.com/a.png"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("Add в несуществующую категорию = %v, ожидается ErrCategoryNotFound", err)
	}
	if _, err := svc.Add("cats", "ftp://example.com/a.png"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("Add некорректного URL = %v, ожидается ErrInvalidURL", err)
	}
}

func TestLinkService_AddBatch(t *testing.T) {
	files, store := newTestStorage(t, "cats")
	svc := NewLinkService(store, files, testLogger())

	if _, err := svc.Add("cats", "https://example.com/dup.png"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	outcomes := svc.AddBatch("cats", []string{
		"https://example.com/a.png",
		"https://example.com/dup.png",
		"не-url",
	})
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, ожидается 3", len(outcomes))
	}
	if outcomes[0].Status != OutcomeSuccess || outcomes[0].ID == "" {
		t.Errorf("outcomes[0] = %+v, ожидается success с ID", outcomes[0])
	}
	if outcomes[1].Status != OutcomeDuplicate {
		t.Errorf("outcomes[1].Status = %q, ожидается %q", outcomes[1].Status, OutcomeDuplicate)
	}
	if outcomes[2].Status != OutcomeError || outcomes[2].Message == "" {
		t.Errorf("outcomes[2] = %+v, ожидается error с сообщением", outcomes[2])
	}

	// Ошибочные элементы не должны мешать записи успешных
	links, _ := store.Load("cats")
	if len(links) != 2 {
		t.Errorf("после AddBatch в категории %d ссылок, ожидается 2", len(links))
	}
}

func TestLinkService_Edit(t *testing.T) {
	files, store := newTestStorage(t, "cats")
	svc := NewLinkService(store, files, testLogger())

	link, err := svc.Add("cats", "https://example.com/a.png")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	other, err := svc.Add("cats", "https://example.com/b.png")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Edit("cats", link.ID, "https://example.com/new.png"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	links, _ := store.Load("cats")
	if links[0].URL != "https://example.com/new.png" {
		t.Errorf("URL после Edit = %q, ожидается новый", links[0].URL)
	}

	// Совпадение с URL другой ссылки категории — дубликат
	if err := svc.Edit("cats", link.ID, other.URL); !errors.Is(err, ErrDuplicateURL) {
		t.Errorf("Edit на чужой URL = %v, ожидается ErrDuplicateURL", err)
	}
	// Замена URL на самого себя дубликатом не считается
	if err := svc.Edit("cats", link.ID, "https://example.com/new.png"); err != nil {
		t.Errorf("Edit без изменения URL: %v", err)
	}

	if err := svc.Edit("cats", "нет-такого-id", "https://example.com/x.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Edit неизвестного id = %v, ожидается ErrNotFound", err)
	}
	if err := svc.Edit("nope", link.ID, "https://example.com/x.png"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("Edit в несуществующей категории = %v, ожидается ErrCategoryNotFound", err)
	}
}

func TestLinkService_Delete(t *testing.T) {
	files, store := newTestStorage(t, "cats")
	svc := NewLinkService(store, files, testLogger())

	link, err := svc.Add("cats", "https://example.com/a.png")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Delete("cats", link.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	links, _ := store.Load("cats")
	if len(links) != 0 {
		t.Errorf("после Delete осталось %d ссылок, ожидается 0", len(links))
	}

	if err := svc.Delete("cats", link.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Delete = %v, ожидается ErrNotFound", err)
	}
}

func TestLinkService_DeleteBatch(t *testing.T) {
	files, store := newTestStorage(t, "cats")
	svc := NewLinkService(store, files, testLogger())

	link, err := svc.Add("cats", "https://example.com/a.png")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	outcomes := svc.DeleteBatch("cats", []string{link.ID, "нет-такого-id"})
	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d, ожидается 2", len(outcomes))
	}
	if outcomes[0].Status != OutcomeSuccess {
		t.Errorf("outcomes[0].Status = %q, ожидается %q", outcomes[0].Status, OutcomeSuccess)
	}
	if outcomes[1].Status != OutcomeError {
		t.Errorf("outcomes[1].Status = %q, ожидается %q", outcomes[1].Status, OutcomeError)
	}
}
