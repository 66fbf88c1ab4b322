// catalog.go — Item Catalog Merger: объединение локальных файлов и внешних
// ссылок категории в единый список, упорядоченный по времени добавления.
// Список никогда не персистится — пересчитывается на каждое чтение.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mkorolev/emostore/internal/domain/model"
	"github.com/mkorolev/emostore/internal/repository"
)

// Допустимые размеры страницы списка элементов и значение по умолчанию.
var itemPageSizes = map[int]bool{50: true, 100: true, 150: true, 200: true, 250: true, 300: true}

// DefaultItemPageSize — размер страницы элементов по умолчанию.
const DefaultItemPageSize = 100

// NormalizeItemPageSize приводит размер страницы к allow-list.
// Значение вне списка молча заменяется значением по умолчанию.
func NormalizeItemPageSize(perPage int) int {
	if itemPageSizes[perPage] {
		return perPage
	}
	return DefaultItemPageSize
}

// CatalogService — объединённый каталог элементов категорий.
type CatalogService struct {
	files  *repository.LocalFiles
	links  *repository.LinkStore
	logger *slog.Logger
}

// NewCatalogService создаёт CatalogService.
func NewCatalogService(files *repository.LocalFiles, links *repository.LinkStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		files:  files,
		links:  links,
		logger: logger.With(slog.String("component", "catalog_service")),
	}
}

// All возвращает полный объединённый список элементов категории,
// отсортированный по added_at по убыванию. Порядок детерминирован:
// при равных временах сохраняется порядок id (локальные файлы
// предварительно отсортированы по имени, ссылки — в порядке хранения).
func (s *CatalogService) All(category string) ([]model.CatalogItem, error) {
	local, err := s.files.ListImages(category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	links, err := s.links.Load(category)
	if err != nil {
		return nil, err
	}

	items := make([]model.CatalogItem, 0, len(local)+len(links))
	for _, f := range local {
		items = append(items, model.CatalogItem{
			ID:           f.Name,
			Type:         model.ItemTypeLocal,
			Name:         f.Name,
			ViewPath:     fmt.Sprintf("/files/%s/%s", category, f.Name),
			DownloadPath: fmt.Sprintf("/files/%s/%s/download", category, f.Name),
			AddedAt:      f.ModTime,
		})
	}
	for _, l := range links {
		items = append(items, model.CatalogItem{
			ID:       l.ID,
			Type:     model.ItemTypeExternal,
			Name:     l.URL,
			ViewPath: l.URL,
			AddedAt:  l.AddedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})

	return items, nil
}

// FilePath возвращает путь к локальному файлу категории для отдачи.
// Отсутствующий файл — ErrNotFound.
func (s *CatalogService) FilePath(category, filename string) (string, error) {
	path, err := s.files.FilePath(category, filename)
	if err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// List возвращает страницу объединённого списка и общее количество элементов.
// Номер страницы за пределами списка прижимается к последней странице;
// perPage нормализуется по allow-list.
func (s *CatalogService) List(category string, page, perPage int) ([]model.CatalogItem, int, error) {
	items, err := s.All(category)
	if err != nil {
		return nil, 0, err
	}

	perPage = NormalizeItemPageSize(perPage)
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	if start >= total {
		return []model.CatalogItem{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return items[start:end], total, nil
}
