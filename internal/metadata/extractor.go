// Package metadata предоставляет функционал для извлечения тегов из аудио файлов
package metadata

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/hazadus/go-playlist/internal/source"
)

// Tags хранит теги трека
type Tags struct {
	Artist  string
	Title   string
	Album   string
	Picture []byte // Встроенная обложка, если есть
}

// HasPicture сообщает, есть ли в тегах встроенная обложка
func (t Tags) HasPicture() bool {
	return len(t.Picture) > 0
}

// Extractor извлекает теги из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromReader извлекает теги из reader и возвращает его в начало.
// Если тегов нет, исполнитель и название берутся из имени файла.
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, locator string) Tags {
	defer func() {
		_, _ = reader.Seek(0, io.SeekStart)
	}()

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return e.getDefaultTags(locator)
	}

	metadata, err := tag.ReadFrom(reader)
	if err != nil {
		return e.getDefaultTags(locator)
	}

	tags := Tags{
		Artist: strings.TrimSpace(metadata.Artist()),
		Title:  strings.TrimSpace(metadata.Title()),
		Album:  strings.TrimSpace(metadata.Album()),
	}
	if picture := metadata.Picture(); picture != nil {
		tags.Picture = picture.Data
	}

	// Недостающие поля дополняем из имени файла
	if tags.Artist == "" || tags.Title == "" {
		defaults := e.getDefaultTags(locator)
		if tags.Artist == "" {
			tags.Artist = defaults.Artist
		}
		if tags.Title == "" {
			tags.Title = defaults.Title
		}
	}

	return tags
}

// getDefaultTags возвращает теги по умолчанию на основе имени файла
func (e *Extractor) getDefaultTags(locator string) Tags {
	fileName := source.Name(locator)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	// Пытаемся разобрать имя файла в формате "Artist - Title"
	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return Tags{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	return Tags{
		Artist: "Unknown Artist",
		Title:  nameWithoutExt,
	}
}
