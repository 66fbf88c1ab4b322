// Пакет service — бизнес-логика Emostore.
// Файл links.go — операции над External Link Store: добавление (с проверкой
// дубликатов), редактирование, удаление, пакетные варианты с per-item
// результатами (частичный отказ не прерывает обработку остальных).
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mkorolev/emostore/internal/domain/model"
	"github.com/mkorolev/emostore/internal/repository"
)

// Статусы per-item результатов пакетных операций.
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "skipped-duplicate"
	OutcomeError     = "error"
)

// LinkOutcome — результат обработки одного элемента пакетной операции.
type LinkOutcome struct {
	// URL — исходный URL (для add) либо ID ссылки (для delete).
	URL string `json:"url,omitempty"`
	// ID — идентификатор ссылки (присутствует при успехе add и в delete).
	ID string `json:"id,omitempty"`
	// Status — success, skipped-duplicate или error.
	Status string `json:"status"`
	// Message — пояснение при Status != success.
	Message string `json:"message,omitempty"`
}

// LinkService — операции над внешними ссылками категорий.
type LinkService struct {
	store  *repository.LinkStore
	files  *repository.LocalFiles
	logger *slog.Logger
}

// NewLinkService создаёт LinkService.
func NewLinkService(store *repository.LinkStore, files *repository.LocalFiles, logger *slog.Logger) *LinkService {
	return &LinkService{
		store:  store,
		files:  files,
		logger: logger.With(slog.String("component", "link_service")),
	}
}

// ValidateURL проверяет, что строка — корректный http/https URL с хостом.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// Add валидирует URL, проверяет дубликат (точное совпадение строки в пределах
// категории) и добавляет ссылку с новым UUID и текущим временем UTC.
func (s *LinkService) Add(category, rawURL string) (*model.ExternalLink, error) {
	if !s.files.CategoryExists(category) {
		return nil, ErrCategoryNotFound
	}
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	links, err := s.store.Load(category)
	if err != nil {
		return nil, err
	}

	for _, l := range links {
		if l.URL == rawURL {
			return nil, ErrDuplicateURL
		}
	}

	link := model.ExternalLink{
		ID:      uuid.NewString(),
		URL:     rawURL,
		AddedAt: time.Now().UTC(),
		Type:    model.LinkType,
	}
	links = append(links, link)

	if err := s.store.Save(category, links); err != nil {
		return nil, err
	}

	s.logger.Info("Внешняя ссылка добавлена",
		slog.String("category", category),
		slog.String("link_id", link.ID),
	)
	return &link, nil
}

// AddBatch добавляет набор URL, каждый независимо.
// Ошибка одного элемента не прерывает обработку остальных.
func (s *LinkService) AddBatch(category string, urls []string) []LinkOutcome {
	outcomes := make([]LinkOutcome, 0, len(urls))
	for _, raw := range urls {
		link, err := s.Add(category, raw)
		switch {
		case err == nil:
			outcomes = append(outcomes, LinkOutcome{URL: raw, ID: link.ID, Status: OutcomeSuccess})
		case errors.Is(err, ErrDuplicateURL):
			outcomes = append(outcomes, LinkOutcome{URL: raw, Status: OutcomeDuplicate, Message: err.Error()})
		default:
			outcomes = append(outcomes, LinkOutcome{URL: raw, Status: OutcomeError, Message: err.Error()})
		}
	}
	return outcomes
}

// Edit заменяет URL существующей ссылки. Новый URL валидируется так же,
// как при добавлении; совпадение с URL другой ссылки категории — ErrDuplicateURL.
func (s *LinkService) Edit(category, linkID, newURL string) error {
	if !s.files.CategoryExists(category) {
		return ErrCategoryNotFound
	}
	if err := ValidateURL(newURL); err != nil {
		return err
	}

	links, err := s.store.Load(category)
	if err != nil {
		return err
	}

	idx := -1
	for i, l := range links {
		if l.ID == linkID {
			idx = i
			continue
		}
		if l.URL == newURL {
			return ErrDuplicateURL
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	links[idx].URL = newURL

	if err := s.store.Save(category, links); err != nil {
		return fmt.Errorf("сохранение после редактирования ссылки: %w", err)
	}

	s.logger.Info("Внешняя ссылка изменена",
		slog.String("category", category),
		slog.String("link_id", linkID),
	)
	return nil
}

// Delete удаляет ссылку по id.
func (s *LinkService) Delete(category, linkID string) error {
	links, err := s.store.Load(category)
	if err != nil {
		return err
	}

	idx := -1
	for i, l := range links {
		if l.ID == linkID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	links = append(links[:idx], links[idx+1:]...)

	if err := s.store.Save(category, links); err != nil {
		return fmt.Errorf("сохранение после удаления ссылки: %w", err)
	}

	s.logger.Info("Внешняя ссылка удалена",
		slog.String("category", category),
		slog.String("link_id", linkID),
	)
	return nil
}

// DeleteBatch удаляет набор ссылок по id, каждый независимо.
func (s *LinkService) DeleteBatch(category string, linkIDs []string) []LinkOutcome {
	outcomes := make([]LinkOutcome, 0, len(linkIDs))
	for _, id := range linkIDs {
		if err := s.Delete(category, id); err != nil {
			outcomes = append(outcomes, LinkOutcome{ID: id, Status: OutcomeError, Message: err.Error()})
			continue
		}
		outcomes = append(outcomes, LinkOutcome{ID: id, Status: OutcomeSuccess})
	}
	return outcomes
}

// Load отдаёт список ссылок категории (проксирует хранилище).
func (s *LinkService) Load(category string) ([]model.ExternalLink, error) {
	return s.store.Load(category)
}
