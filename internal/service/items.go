// items.go — операции над элементами каталога: локальная загрузка файла,
// переименование, удаление, пакетное удаление смешанного списка
// локальных файлов и внешних ссылок с per-item результатами.
package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkorolev/emostore/internal/domain/model"
	"github.com/mkorolev/emostore/internal/repository"
	"github.com/mkorolev/emostore/internal/sanitize"
)

// ItemRef — ссылка на элемент каталога в пакетных операциях.
type ItemRef struct {
	// ID — имя файла (local) либо UUID ссылки (external).
	ID string `json:"id"`
	// Type — тег варианта.
	Type model.ItemType `json:"type"`
}

// ItemOutcome — результат обработки одного элемента пакетной операции.
type ItemOutcome struct {
	ID      string         `json:"id"`
	Type    model.ItemType `json:"type"`
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
}

// ItemService — операции над элементами каталога.
type ItemService struct {
	files  *repository.LocalFiles
	links  *LinkService
	logger *slog.Logger
}

// NewItemService создаёт ItemService.
func NewItemService(files *repository.LocalFiles, links *LinkService, logger *slog.Logger) *ItemService {
	return &ItemService{
		files:  files,
		links:  links,
		logger: logger.With(slog.String("component", "item_service")),
	}
}

// SaveUpload сохраняет загруженный файл в категорию.
// Имя назначения — {sanitized-base}_{stamp}{ext}; расширение берётся из
// исходного имени и проверяется по allow-list. Возвращает имя сохранённого файла.
func (s *ItemService) SaveUpload(category, originalFilename string, src io.Reader) (string, error) {
	if !s.files.CategoryExists(category) {
		return "", ErrCategoryNotFound
	}

	ext := repository.Ext(originalFilename)
	if !repository.AllowedExtension(ext) {
		return "", fmt.Errorf("%w: недопустимое расширение %q", ErrValidation, ext)
	}

	base := sanitize.Base(originalFilename[:len(originalFilename)-len(filepath.Ext(originalFilename))])
	filename := fmt.Sprintf("%s_%s%s", base, filenameStamp(time.Now()), ext)
	destPath := filepath.Join(s.files.CategoryDir(category), filename)

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("создание файла %q: %w", filename, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("запись файла %q: %w", filename, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("закрытие файла %q: %w", filename, err)
	}

	s.logger.Info("Файл загружен",
		slog.String("category", category),
		slog.String("filename", filename),
	)
	return filename, nil
}

// Rename переименовывает локальный файл. Базовая часть нового имени
// санитизируется, расширение сохраняется от старого имени.
// Совпадающее имя — no-op, занятое целевое имя — ErrAlreadyExists.
func (s *ItemService) Rename(category, oldName, newNameRaw string) (string, error) {
	if !sanitize.IsClean(oldName) {
		return "", ErrValidation
	}
	if newNameRaw == "" {
		return "", ErrValidation
	}

	base := strings.TrimSuffix(newNameRaw, filepath.Ext(newNameRaw))
	safeBase := strings.Trim(strings.ReplaceAll(sanitize.Filename(base), ".", "_"), "_")
	if safeBase == "" {
		return "", ErrValidation
	}

	newName := safeBase + repository.Ext(oldName)
	if newName == oldName {
		return oldName, nil
	}

	if err := s.files.RenameFile(category, oldName, newName); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return "", ErrNotFound
		case errors.Is(err, repository.ErrAlreadyExists):
			return "", ErrAlreadyExists
		default:
			return "", err
		}
	}

	s.logger.Info("Файл переименован",
		slog.String("category", category),
		slog.String("old", oldName),
		slog.String("new", newName),
	)
	return newName, nil
}

// DeleteLocal удаляет локальный файл категории.
// Санитизация имени обязательна: изменённое имя — признак опасных символов.
func (s *ItemService) DeleteLocal(category, filename string) error {
	if !sanitize.IsClean(filename) {
		return ErrValidation
	}

	if err := s.files.RemoveFile(category, filename); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.Info("Файл удалён",
		slog.String("category", category),
		slog.String("filename", filename),
	)
	return nil
}

// DeleteBatch удаляет смешанный список элементов, каждый независимо.
// Сопоставление по тегу типа исчерпывающее: неизвестный тег — ошибка
// элемента, а не тихий пропуск.
func (s *ItemService) DeleteBatch(category string, refs []ItemRef) []ItemOutcome {
	outcomes := make([]ItemOutcome, 0, len(refs))

	for _, ref := range refs {
		var err error
		switch ref.Type {
		case model.ItemTypeLocal:
			err = s.DeleteLocal(category, ref.ID)
		case model.ItemTypeExternal:
			err = s.links.Delete(category, ref.ID)
		default:
			err = fmt.Errorf("%w: неизвестный тип элемента %q", ErrValidation, ref.Type)
		}

		if err != nil {
			outcomes = append(outcomes, ItemOutcome{ID: ref.ID, Type: ref.Type, Status: OutcomeError, Message: err.Error()})
			continue
		}
		outcomes = append(outcomes, ItemOutcome{ID: ref.ID, Type: ref.Type, Status: OutcomeSuccess})
	}

	return outcomes
}
