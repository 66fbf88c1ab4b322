package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkorolev/emostore/internal/domain/model"
)

func TestNormalizeCategoryPageSize(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{10, 10},
		{50, 50},
		{0, DefaultCategoryPageSize},
		{15, DefaultCategoryPageSize},
		{100, DefaultCategoryPageSize},
	}
	for _, c := range cases {
		if got := NormalizeCategoryPageSize(c.in); got != c.want {
			t.Errorf("NormalizeCategoryPageSize(%d) = %d, ожидается %d", c.in, got, c.want)
		}
	}
}

func TestCategoryService_List(t *testing.T) {
	files, _ := newTestStorage(t)
	svc := NewCategoryService(files, NewLastShownStore(16, time.Minute), testLogger())

	for i := 0; i < 25; i++ {
		if err := svc.Create(fmt.Sprintf("cat-%02d", i)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, total, err := svc.List(1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, ожидается 25", total)
	}
	if len(page) != 10 || page[0] != "cat-00" {
		t.Errorf("страница 1 = %v, ожидается cat-00..cat-09", page)
	}

	// Последняя страница — остаток
	page, _, err = svc.List(3, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 5 || page[0] != "cat-20" {
		t.Errorf("страница 3 = %v, ожидается cat-20..cat-24", page)
	}

	// Номер за пределами списка прижимается к последней странице
	page, _, err = svc.List(42, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 5 {
		t.Errorf("страница 42 = %v, ожидается последняя страница", page)
	}
}

func TestCategoryService_Create(t *testing.T) {
	files, _ := newTestStorage(t)
	svc := NewCategoryService(files, NewLastShownStore(16, time.Minute), testLogger())

	if err := svc.Create("cats"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !svc.Exists("cats") {
		t.Error("созданная категория не существует")
	}

	if err := svc.Create("cats"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("повторный Create = %v, ожидается ErrAlreadyExists", err)
	}

	for _, name := range []string{"", ".", "..", "a/b", "a\\b"} {
		if err := svc.Create(name); !errors.Is(err, ErrValidation) {
			t.Errorf("Create(%q) = %v, ожидается ErrValidation", name, err)
		}
	}
}

func TestCategoryService_Delete(t *testing.T) {
	files, _ := newTestStorage(t, "cats")
	lastShown := NewLastShownStore(16, time.Minute)
	svc := NewCategoryService(files, lastShown, testLogger())

	// Удаление категории чистит last-shown состояние всех сессий
	lastShown.Set("session-1", "cats", ShownItem{ID: "a.png", Type: model.ItemTypeLocal})
	lastShown.Set("session-2", "cats", ShownItem{ID: "b.png", Type: model.ItemTypeLocal})

	if err := svc.Delete("cats"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if svc.Exists("cats") {
		t.Error("удалённая категория всё ещё существует")
	}
	if _, ok := lastShown.Get("session-1", "cats"); ok {
		t.Error("last-shown запись session-1 пережила удаление категории")
	}
	if _, ok := lastShown.Get("session-2", "cats"); ok {
		t.Error("last-shown запись session-2 пережила удаление категории")
	}

	if err := svc.Delete("cats"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("повторный Delete = %v, ожидается ErrCategoryNotFound", err)
	}
	if err := svc.Delete("../cats"); !errors.Is(err, ErrValidation) {
		t.Errorf("Delete с опасным именем = %v, ожидается ErrValidation", err)
	}
}

func TestCategoryService_DeleteBatch(t *testing.T) {
	files, _ := newTestStorage(t, "a", "b")
	svc := NewCategoryService(files, NewLastShownStore(16, time.Minute), testLogger())

	outcomes := svc.DeleteBatch([]string{"a", "nope", "b"})
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, ожидается 3", len(outcomes))
	}
	if outcomes[0].Status != OutcomeSuccess || outcomes[2].Status != OutcomeSuccess {
		t.Errorf("outcomes = %+v, ожидается success для a и b", outcomes)
	}
	if outcomes[1].Status != OutcomeError || outcomes[1].Name != "nope" {
		t.Errorf("outcomes[1] = %+v, ожидается error для nope", outcomes[1])
	}
}

func TestCategoryService_Exists(t *testing.T) {
	files, _ := newTestStorage(t, "cats")
	svc := NewCategoryService(files, NewLastShownStore(16, time.Minute), testLogger())

	if !svc.Exists("cats") {
		t.Error("Exists(cats) = false")
	}
	if svc.Exists("nope") {
		t.Error("Exists(nope) = true")
	}
	// Опасное имя отклоняется до обращения к диску
	if svc.Exists("../cats") {
		t.Error("Exists(../cats) = true")
	}
}
