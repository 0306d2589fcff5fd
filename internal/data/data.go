// Package data содержит описание треков и загрузку плейлиста
package data

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyPlaylist возвращается, если в плейлисте нет ни одного трека
var ErrEmptyPlaylist = errors.New("плейлист пуст")

// Track описывает один трек плейлиста. Значение не изменяется после загрузки.
type Track struct {
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
	Src    string `yaml:"src"`   // Адрес аудиофайла: путь, http(s):// или s3://
	Cover  string `yaml:"cover"` // Адрес обложки
}

// Playlist фиксированный упорядоченный список треков
type Playlist struct {
	Tracks []Track `yaml:"tracks"`
}

// DefaultPlaylist возвращает встроенный демонстрационный плейлист
func DefaultPlaylist() *Playlist {
	return &Playlist{
		Tracks: []Track{
			{
				Title:  "Summer Vibes",
				Artist: "Ocean Waves",
				Src:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
				Cover:  "https://picsum.photos/seed/music1/300/300.jpg",
			},
			{
				Title:  "Mountain High",
				Artist: "Forest Echo",
				Src:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
				Cover:  "https://picsum.photos/seed/music2/300/300.jpg",
			},
			{
				Title:  "Urban Dreams",
				Artist: "City Lights",
				Src:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
				Cover:  "https://picsum.photos/seed/music3/300/300.jpg",
			},
			{
				Title:  "Desert Wind",
				Artist: "Sand Dunes",
				Src:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3",
				Cover:  "https://picsum.photos/seed/music4/300/300.jpg",
			},
			{
				Title:  "Night Sky",
				Artist: "Star Gazer",
				Src:    "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-5.mp3",
				Cover:  "https://picsum.photos/seed/music5/300/300.jpg",
			},
		},
	}
}

// LoadPlaylist загружает плейлист из YAML файла
func LoadPlaylist(filePath string) (*Playlist, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла плейлиста: %w", err)
	}

	playlist := &Playlist{}
	if err := yaml.Unmarshal(raw, playlist); err != nil {
		return nil, fmt.Errorf("ошибка разбора плейлиста: %w", err)
	}
	if err := playlist.Validate(); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Validate проверяет, что плейлист не пуст и у каждого трека есть источник
func (p *Playlist) Validate() error {
	if len(p.Tracks) == 0 {
		return ErrEmptyPlaylist
	}
	for i, t := range p.Tracks {
		if strings.TrimSpace(t.Src) == "" {
			return fmt.Errorf("у трека #%d (%q) отсутствует src", i+1, t.Title)
		}
	}
	return nil
}

// Len возвращает количество треков
func (p *Playlist) Len() int {
	return len(p.Tracks)
}

// TrackByIndex возвращает трек по позиции в плейлисте
func (p *Playlist) TrackByIndex(index int) (*Track, error) {
	if index < 0 || index >= len(p.Tracks) {
		return nil, fmt.Errorf("трека с индексом %d не найдено", index)
	}
	return &p.Tracks[index], nil
}
