// Пакет model — доменные модели Emostore.
// Файл link.go — внешняя ссылка (изображение, размещённое на стороннем хостинге).
package model

import "time"

// LinkType — значение поля type для внешних ссылок в backing-документе.
const LinkType = "external"

// ExternalLink — внешняя ссылка категории.
// Хранится в документе external_links.json внутри директории категории.
type ExternalLink struct {
	// ID — уникальный идентификатор ссылки (UUID).
	ID string `json:"id"`
	// URL — адрес изображения (http/https).
	URL string `json:"url"`
	// AddedAt — время добавления (UTC).
	AddedAt time.Time `json:"added_at"`
	// Type — тег типа записи, всегда "external".
	Type string `json:"type"`
}
