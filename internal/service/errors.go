// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrCategoryNotFound — категория не существует.
	ErrCategoryNotFound = errors.New("категория не найдена")
	// ErrAlreadyExists — ресурс уже существует.
	ErrAlreadyExists = errors.New("ресурс уже существует")
	// ErrInvalidURL — URL не разбирается либо схема не http/https.
	ErrInvalidURL = errors.New("некорректный URL: ожидается http/https с непустым хостом")
	// ErrDuplicateURL — такой URL уже есть в категории (точное совпадение строки).
	ErrDuplicateURL = errors.New("такой URL уже добавлен в категорию")
	// ErrTaskNotFound — задача не существует либо уже захвачена стримом.
	ErrTaskNotFound = errors.New("задача не найдена")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
)
