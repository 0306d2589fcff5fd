// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-playlist/internal/data"
	"github.com/hazadus/go-playlist/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	tracks []data.Track
	media  app.MediaPlayer
	covers app.CoverLoader
	volume int
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(tracks []data.Track, media app.MediaPlayer, covers app.CoverLoader, volume int) *App {
	return &App{
		tracks: tracks,
		media:  media,
		covers: covers,
		volume: volume,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	model, err := app.NewMainModel(tuiApp.tracks, tuiApp.media, tuiApp.covers, tuiApp.volume)
	if err != nil {
		return err
	}

	// Мышь нужна для перемотки и громкости
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err = p.Run()

	// Закрываем плеер после завершения программы
	model.Close()

	return err
}
