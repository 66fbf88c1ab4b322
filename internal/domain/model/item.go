// item.go — объединённый элемент каталога категории.
// Вычисляется при каждом чтении слиянием локальных файлов и внешних ссылок,
// никогда не персистится.
package model

import "time"

// ItemType — тег варианта CatalogItem.
type ItemType string

// Варианты элементов каталога.
const (
	// ItemTypeLocal — локальный файл в директории категории.
	ItemTypeLocal ItemType = "local"
	// ItemTypeExternal — внешняя ссылка из External Link Store.
	ItemTypeExternal ItemType = "external"
)

// Valid проверяет, что тег типа — один из известных вариантов.
func (t ItemType) Valid() bool {
	return t == ItemTypeLocal || t == ItemTypeExternal
}

// CatalogItem — элемент объединённого списка категории.
// Для локального файла ID — имя файла, для внешней ссылки — UUID записи.
// ID уникален в пределах одного тега типа; совпадение ID между вариантами
// разрешается по полю Type.
type CatalogItem struct {
	// ID — идентификатор элемента в пределах варианта.
	ID string `json:"id"`
	// Type — тег варианта: local или external.
	Type ItemType `json:"type"`
	// Name — отображаемое имя (имя файла либо URL).
	Name string `json:"name"`
	// ViewPath — путь просмотра (URL файла либо внешний URL).
	ViewPath string `json:"view_path"`
	// DownloadPath — путь скачивания (только для локальных файлов).
	DownloadPath string `json:"download_path,omitempty"`
	// AddedAt — время добавления: mtime файла либо added_at ссылки.
	AddedAt time.Time `json:"added_at"`
}
