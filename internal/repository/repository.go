// Пакет repository — слой доступа к данным на файловой системе.
// Backing-хранилище Emostore — директория категорий: каждая категория
// представлена поддиректорией с файлами изображений и документом
// external_links.json.
package repository

import (
	"errors"
	"strings"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись или файл не найдены.
	ErrNotFound = errors.New("запись не найдена")
	// ErrCategoryNotFound — директория категории не существует.
	ErrCategoryNotFound = errors.New("категория не найдена")
	// ErrAlreadyExists — файл или директория уже существуют.
	ErrAlreadyExists = errors.New("уже существует")
)

// Расширения изображений, допустимые в каталоге.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedExtension проверяет расширение файла (с точкой, регистр неважен).
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

// ValidCategoryName проверяет имя категории: непустое, без путевых
// разделителей и относительных компонентов.
func ValidCategoryName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return true
}
