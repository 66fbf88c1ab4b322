package service

import (
	"testing"
	"time"

	"github.com/mkorolev/emostore/internal/domain/model"
)

func TestLastShownStore_GetSet(t *testing.T) {
	store := NewLastShownStore(16, time.Minute)

	if _, ok := store.Get("s1", "cats"); ok {
		t.Error("Get пустого хранилища вернул запись")
	}

	store.Set("s1", "cats", ShownItem{ID: "a.png", Type: model.ItemTypeLocal})
	item, ok := store.Get("s1", "cats")
	if !ok {
		t.Fatal("Get не нашёл записанный элемент")
	}
	if item.ID != "a.png" || item.Type != model.ItemTypeLocal {
		t.Errorf("Get = %+v", item)
	}

	// Записи разделены по паре (сессия, категория)
	if _, ok := store.Get("s2", "cats"); ok {
		t.Error("запись утекла в чужую сессию")
	}
	if _, ok := store.Get("s1", "dogs"); ok {
		t.Error("запись утекла в чужую категорию")
	}
}

func TestLastShownStore_ClearSession(t *testing.T) {
	store := NewLastShownStore(16, time.Minute)
	store.Set("s1", "cats", ShownItem{ID: "a", Type: model.ItemTypeLocal})
	store.Set("s1", "dogs", ShownItem{ID: "b", Type: model.ItemTypeLocal})
	store.Set("s2", "cats", ShownItem{ID: "c", Type: model.ItemTypeLocal})

	store.ClearSession("s1")

	if _, ok := store.Get("s1", "cats"); ok {
		t.Error("запись s1/cats пережила ClearSession")
	}
	if _, ok := store.Get("s1", "dogs"); ok {
		t.Error("запись s1/dogs пережила ClearSession")
	}
	if _, ok := store.Get("s2", "cats"); !ok {
		t.Error("ClearSession задел чужую сессию")
	}
}

func TestLastShownStore_ClearCategory(t *testing.T) {
	store := NewLastShownStore(16, time.Minute)
	store.Set("s1", "cats", ShownItem{ID: "a", Type: model.ItemTypeLocal})
	store.Set("s2", "cats", ShownItem{ID: "b", Type: model.ItemTypeLocal})
	store.Set("s1", "dogs", ShownItem{ID: "c", Type: model.ItemTypeLocal})

	store.ClearCategory("cats")

	if _, ok := store.Get("s1", "cats"); ok {
		t.Error("запись s1/cats пережила ClearCategory")
	}
	if _, ok := store.Get("s2", "cats"); ok {
		t.Error("запись s2/cats пережила ClearCategory")
	}
	if _, ok := store.Get("s1", "dogs"); !ok {
		t.Error("ClearCategory задел чужую категорию")
	}
}

func TestLastShownStore_TTL(t *testing.T) {
	store := NewLastShownStore(16, 50*time.Millisecond)
	store.Set("s1", "cats", ShownItem{ID: "a", Type: model.ItemTypeLocal})

	time.Sleep(120 * time.Millisecond)

	if _, ok := store.Get("s1", "cats"); ok {
		t.Error("запись пережила TTL")
	}
}

func TestSelectRandom(t *testing.T) {
	items := []model.CatalogItem{
		{ID: "a", Type: model.ItemTypeLocal},
		{ID: "b", Type: model.ItemTypeLocal},
		{ID: "c", Type: model.ItemTypeExternal},
	}

	// Пустой список — nil
	if got := SelectRandom(nil, nil, func(int) int { return 0 }); got != nil {
		t.Errorf("SelectRandom(nil) = %+v, ожидается nil", got)
	}

	// Без предыдущего выбора участвуют все кандидаты
	got := SelectRandom(items, nil, func(n int) int {
		if n != 3 {
			t.Errorf("intn(%d), ожидается intn(3)", n)
		}
		return 1
	})
	if got == nil || got.ID != "b" {
		t.Errorf("SelectRandom = %+v, ожидается b", got)
	}

	// Предыдущий выбор исключается, когда кандидатов больше одного
	previous := &ShownItem{ID: "b", Type: model.ItemTypeLocal}
	got = SelectRandom(items, previous, func(n int) int {
		if n != 2 {
			t.Errorf("intn(%d), ожидается intn(2) без предыдущего", n)
		}
		return 0
	})
	if got == nil || got.ID == "b" {
		t.Errorf("SelectRandom вернул предыдущий элемент: %+v", got)
	}
}

func TestSelectRandom_SingleCandidate(t *testing.T) {
	single := []model.CatalogItem{{ID: "a", Type: model.ItemTypeLocal}}
	previous := &ShownItem{ID: "a", Type: model.ItemTypeLocal}

	// Единственный кандидат возвращается даже если он был показан только что
	got := SelectRandom(single, previous, func(int) int { return 0 })
	if got == nil || got.ID != "a" {
		t.Errorf("SelectRandom = %+v, ожидается единственный кандидат", got)
	}
}

func TestSelectRandom_TypeDisambiguation(t *testing.T) {
	// Совпадение ID между вариантами разрешается по полю Type:
	// исключается только элемент с тем же тегом
	items := []model.CatalogItem{
		{ID: "x", Type: model.ItemTypeLocal},
		{ID: "x", Type: model.ItemTypeExternal},
	}
	previous := &ShownItem{ID: "x", Type: model.ItemTypeLocal}

	got := SelectRandom(items, previous, func(n int) int {
		if n != 1 {
			t.Errorf("intn(%d), ожидается intn(1)", n)
		}
		return 0
	})
	if got == nil || got.Type != model.ItemTypeExternal {
		t.Errorf("SelectRandom = %+v, ожидается external вариант", got)
	}
}
