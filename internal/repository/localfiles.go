// localfiles.go — перечисление и операции над локальными файлами категорий.
// Все ошибки I/O поднимаются типизированно, конкурентное исчезновение файла —
// нормальный исход NotFound, не сбой процесса.
package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileEntry — локальный файл изображения в категории.
type FileEntry struct {
	// Name — имя файла (идентификатор элемента в пределах варианта local).
	Name string
	// ModTime — время модификации файла; нулевое при сбое stat.
	ModTime time.Time
}

// LocalFiles — доступ к файлам изображений в директориях категорий.
type LocalFiles struct {
	baseDir string
}

// NewLocalFiles создаёт LocalFiles поверх директории категорий.
func NewLocalFiles(baseDir string) *LocalFiles {
	return &LocalFiles{baseDir: baseDir}
}

// BaseDir возвращает корневую директорию категорий.
func (r *LocalFiles) BaseDir() string {
	return r.baseDir
}

// CategoryDir возвращает путь к директории категории.
func (r *LocalFiles) CategoryDir(category string) string {
	return filepath.Join(r.baseDir, category)
}

// CategoryExists проверяет, существует ли директория категории.
func (r *LocalFiles) CategoryExists(category string) bool {
	info, err := os.Stat(r.CategoryDir(category))
	return err == nil && info.IsDir()
}

// ListCategories возвращает отсортированный список имён категорий.
func (r *LocalFiles) ListCategories() ([]string, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("чтение директории категорий: %w", err)
	}

	var categories []string
	for _, e := range entries {
		if e.IsDir() {
			categories = append(categories, e.Name())
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// CreateCategory создаёт директорию категории.
// Существующая категория — ErrAlreadyExists.
func (r *LocalFiles) CreateCategory(category string) error {
	dir := r.CategoryDir(category)
	if _, err := os.Stat(dir); err == nil {
		return ErrAlreadyExists
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание категории %q: %w", category, err)
	}
	return nil
}

// RemoveCategory рекурсивно удаляет директорию категории вместе с
// backing-документом ссылок. Отсутствующая категория — ErrCategoryNotFound.
func (r *LocalFiles) RemoveCategory(category string) error {
	dir := r.CategoryDir(category)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ErrCategoryNotFound
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("удаление категории %q: %w", category, err)
	}
	return nil
}

// ListImages перечисляет файлы изображений категории (по allowed-extension
// предикату) с временем модификации. Сбой stat отдельного файла не исключает
// файл из списка — ModTime остаётся нулевым (минимальным).
func (r *LocalFiles) ListImages(category string) ([]FileEntry, error) {
	dir := r.CategoryDir(category)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("чтение категории %q: %w", category, err)
	}

	var files []FileEntry
	for _, e := range entries {
		if e.IsDir() || !AllowedExtension(filepath.Ext(e.Name())) {
			continue
		}
		fe := FileEntry{Name: e.Name()}
		if info, statErr := e.Info(); statErr == nil {
			fe.ModTime = info.ModTime()
		}
		files = append(files, fe)
	}

	// Детерминированный порядок до сортировки по времени
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FilePath возвращает путь к файлу категории, проверяя существование.
// Отсутствующий файл — ErrNotFound.
func (r *LocalFiles) FilePath(category, filename string) (string, error) {
	path := filepath.Join(r.CategoryDir(category), filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// RemoveFile удаляет файл категории.
// Уже исчезнувший файл — ErrNotFound.
func (r *LocalFiles) RemoveFile(category, filename string) error {
	path := filepath.Join(r.CategoryDir(category), filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление файла %q: %w", filename, err)
	}
	return nil
}

// RenameFile переименовывает файл внутри категории.
// Отсутствующий исходный файл — ErrNotFound, занятое целевое имя — ErrAlreadyExists.
func (r *LocalFiles) RenameFile(category, oldName, newName string) error {
	dir := r.CategoryDir(category)
	oldPath := filepath.Join(dir, oldName)
	newPath := filepath.Join(dir, newName)

	if _, err := os.Stat(oldPath); err != nil {
		return ErrNotFound
	}
	if _, err := os.Stat(newPath); err == nil {
		return ErrAlreadyExists
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("переименование %q -> %q: %w", oldName, newName, err)
	}
	return nil
}

// Ext возвращает расширение имени файла в нижнем регистре (с точкой).
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
