// Пакет sanitize — санитизация имён файлов.
// Чистые функции без побочных эффектов; политика: только ASCII-буквы,
// цифры, точка, дефис и подчёркивание, без путевых компонентов.
package sanitize

import (
	"path/filepath"
	"strings"
)

// Filename приводит произвольное имя файла к безопасному виду.
// Путевые разделители отбрасываются вместе с директориями, пробелы
// заменяются на подчёркивания, все прочие недопустимые символы удаляются.
// Ведущие точки срезаются, чтобы исключить скрытые файлы и "..".
// Пустой результат означает, что из имени ничего извлечь не удалось.
func Filename(name string) string {
	// Отбрасываем директории (и unix, и windows разделители)
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	result := strings.Trim(b.String(), "._")
	if result == "." || result == ".." {
		return ""
	}
	return result
}

// Base санитизирует базовую часть имени (без расширения).
// При пустом результате возвращает запасное имя "file" — имя сохранённого
// файла не должно начинаться с подчёркивания таймстампа.
func Base(name string) string {
	s := Filename(name)
	// Точки в базовой части склеивают расширения, убираем
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "file"
	}
	return s
}

// IsClean сообщает, прошло бы имя санитизацию без изменений.
// Используется при приёме имён файлов от клиента: изменённое имя —
// признак потенциально опасных символов, такие запросы отклоняются.
func IsClean(name string) bool {
	return name != "" && Filename(name) == name
}
