// categories.go — управление категориями: список с пагинацией, создание,
// удаление (с очисткой last-shown состояния), пакетное удаление.
package service

import (
	"errors"
	"log/slog"

	"github.com/mkorolev/emostore/internal/repository"
)

// Допустимые размеры страницы списка категорий и значение по умолчанию.
var categoryPageSizes = map[int]bool{10: true, 20: true, 30: true, 40: true, 50: true}

// DefaultCategoryPageSize — размер страницы категорий по умолчанию.
const DefaultCategoryPageSize = 10

// NormalizeCategoryPageSize приводит размер страницы к allow-list.
func NormalizeCategoryPageSize(perPage int) int {
	if categoryPageSizes[perPage] {
		return perPage
	}
	return DefaultCategoryPageSize
}

// CategoryOutcome — результат обработки одной категории в пакетной операции.
type CategoryOutcome struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CategoryService — операции над категориями.
type CategoryService struct {
	files     *repository.LocalFiles
	lastShown *LastShownStore
	logger    *slog.Logger
}

// NewCategoryService создаёт CategoryService.
func NewCategoryService(files *repository.LocalFiles, lastShown *LastShownStore, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		files:     files,
		lastShown: lastShown,
		logger:    logger.With(slog.String("component", "category_service")),
	}
}

// List возвращает страницу отсортированного списка категорий и общее количество.
func (s *CategoryService) List(page, perPage int) ([]string, int, error) {
	all, err := s.files.ListCategories()
	if err != nil {
		return nil, 0, err
	}

	perPage = NormalizeCategoryPageSize(perPage)
	if page < 1 {
		page = 1
	}

	total := len(all)
	totalPages := (total + perPage - 1) / perPage
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	if start >= total {
		return []string{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return all[start:end], total, nil
}

// Create создаёт категорию. Имя валидируется; существующая — ErrAlreadyExists.
func (s *CategoryService) Create(name string) error {
	if !repository.ValidCategoryName(name) {
		return ErrValidation
	}

	if err := s.files.CreateCategory(name); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return ErrAlreadyExists
		}
		return err
	}

	s.logger.Info("Категория создана", slog.String("category", name))
	return nil
}

// Delete рекурсивно удаляет категорию вместе с её backing-документом ссылок
// и чистит last-shown состояние всех сессий для этой категории.
func (s *CategoryService) Delete(name string) error {
	if !repository.ValidCategoryName(name) {
		return ErrValidation
	}

	if err := s.files.RemoveCategory(name); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	s.lastShown.ClearCategory(name)
	s.logger.Info("Категория удалена", slog.String("category", name))
	return nil
}

// DeleteBatch удаляет набор категорий, каждую независимо.
// Отсутствующая категория пропускается как not found, не прерывая остальных.
func (s *CategoryService) DeleteBatch(names []string) []CategoryOutcome {
	outcomes := make([]CategoryOutcome, 0, len(names))
	for _, name := range names {
		if err := s.Delete(name); err != nil {
			outcomes = append(outcomes, CategoryOutcome{Name: name, Status: OutcomeError, Message: err.Error()})
			continue
		}
		outcomes = append(outcomes, CategoryOutcome{Name: name, Status: OutcomeSuccess})
	}
	return outcomes
}

// Exists проверяет существование категории (с валидацией имени).
func (s *CategoryService) Exists(name string) bool {
	return repository.ValidCategoryName(name) && s.files.CategoryExists(name)
}
