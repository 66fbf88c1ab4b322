// linkstore.go — External Link Store: per-category список внешних ссылок.
// Backing-документ — external_links.json в директории категории, упорядоченный
// JSON-массив записей {id, url, added_at, type}. Запись — whole-document
// replace через временный файл и rename (атомарно с точки зрения читателей).
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkorolev/emostore/internal/domain/model"
)

// LinksDocumentName — имя backing-документа внутри директории категории.
const LinksDocumentName = "external_links.json"

// LinkStore — хранилище внешних ссылок категорий.
type LinkStore struct {
	baseDir string
}

// NewLinkStore создаёт LinkStore поверх директории категорий.
func NewLinkStore(baseDir string) *LinkStore {
	return &LinkStore{baseDir: baseDir}
}

// documentPath возвращает путь к backing-документу категории.
func (s *LinkStore) documentPath(category string) string {
	return filepath.Join(s.baseDir, category, LinksDocumentName)
}

// Load возвращает упорядоченный список ссылок категории.
// Отсутствующий документ — пустой список, не ошибка.
// Записи ремонтируются при чтении: нулевой added_at остаётся минимальным
// представимым временем, пустой type заполняется значением "external".
func (s *LinkStore) Load(category string) ([]model.ExternalLink, error) {
	data, err := os.ReadFile(s.documentPath(category))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("чтение документа ссылок категории %q: %w", category, err)
	}

	var links []model.ExternalLink
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("разбор документа ссылок категории %q: %w", category, err)
	}

	for i := range links {
		if links[i].Type == "" {
			links[i].Type = model.LinkType
		}
	}

	return links, nil
}

// Save перезаписывает документ ссылок категории целиком.
// Директория категории создаётся при отсутствии (в норме уже существует).
// Атомарность: запись во временный файл + os.Rename.
func (s *LinkStore) Save(category string, links []model.ExternalLink) error {
	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание директории категории %q: %w", category, err)
	}

	// Пустой список сериализуем как [], а не null
	if links == nil {
		links = []model.ExternalLink{}
	}

	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация ссылок категории %q: %w", category, err)
	}

	tmp, err := os.CreateTemp(dir, LinksDocumentName+".tmp-*")
	if err != nil {
		return fmt.Errorf("создание временного файла ссылок: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("запись временного файла ссылок: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("закрытие временного файла ссылок: %w", err)
	}

	if err := os.Rename(tmpName, s.documentPath(category)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("замена документа ссылок категории %q: %w", category, err)
	}

	return nil
}
