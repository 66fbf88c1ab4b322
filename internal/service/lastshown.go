// lastshown.go — состояние анти-повтора случайной выдачи.
// Для каждой пары (сессия, категория) запоминается последний показанный
// элемент; хранение — expirable LRU, per-instance. Запись вытесняется по TTL,
// по ёмкости, при logout сессии и при удалении категории.
package service

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mkorolev/emostore/internal/domain/model"
)

// ShownItem — последний показанный элемент категории.
type ShownItem struct {
	// ID — идентификатор элемента в пределах варианта.
	ID string
	// Type — тег варианта.
	Type model.ItemType
}

// LastShownStore — память последних показанных элементов.
type LastShownStore struct {
	cache *expirable.LRU[string, ShownItem]
}

// NewLastShownStore создаёт хранилище ёмкостью maxSize записей с TTL.
func NewLastShownStore(maxSize int, ttl time.Duration) *LastShownStore {
	return &LastShownStore{
		cache: expirable.NewLRU[string, ShownItem](maxSize, nil, ttl),
	}
}

// key строит ключ записи. Имя сессии — UUID без "/", коллизии исключены.
func (s *LastShownStore) key(sessionID, category string) string {
	return sessionID + "/" + category
}

// Get возвращает последний показанный элемент пары (сессия, категория).
func (s *LastShownStore) Get(sessionID, category string) (ShownItem, bool) {
	return s.cache.Get(s.key(sessionID, category))
}

// Set запоминает показанный элемент.
func (s *LastShownStore) Set(sessionID, category string, item ShownItem) {
	s.cache.Add(s.key(sessionID, category), item)
}

// ClearSession удаляет все записи сессии (logout).
func (s *LastShownStore) ClearSession(sessionID string) {
	prefix := sessionID + "/"
	for _, k := range s.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Remove(k)
		}
	}
}

// ClearCategory удаляет записи всех сессий для категории (удаление категории).
func (s *LastShownStore) ClearCategory(category string) {
	suffix := "/" + category
	for _, k := range s.cache.Keys() {
		if strings.HasSuffix(k, suffix) {
			s.cache.Remove(k)
		}
	}
}

// SelectRandom выбирает случайный элемент списка, исключая предыдущий выбор,
// когда кандидатов больше одного. previous — nil, если предыдущего выбора нет.
// Возвращает nil при пустом списке. Вызывающая сторона сама персистит выбор
// через Set — выбор отделён от хранения состояния сессии.
func SelectRandom(items []model.CatalogItem, previous *ShownItem, intn func(int) int) *model.CatalogItem {
	if len(items) == 0 {
		return nil
	}

	eligible := items
	if previous != nil && len(items) > 1 {
		filtered := make([]model.CatalogItem, 0, len(items))
		for _, it := range items {
			if it.ID == previous.ID && it.Type == previous.Type {
				continue
			}
			filtered = append(filtered, it)
		}
		if len(filtered) > 0 {
			eligible = filtered
		}
	}

	chosen := eligible[intn(len(eligible))]
	return &chosen
}
