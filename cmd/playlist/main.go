package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-playlist/internal/config"
	"github.com/hazadus/go-playlist/internal/data"
)

const (
	defaultConfigPath = "~/.go-playlist.yaml"
)

// Application хранит конфигурацию и плейлист, общие для всех команд
type Application struct {
	Config   *config.Config
	Playlist *data.Playlist

	logFile *os.File
}

// options значения флагов командной строки
type options struct {
	configPath   string
	playlistPath string
	volume       int
}

// prepare загружает конфигурацию и плейлист с учетом флагов
func (app *Application) prepare(opts options, volumeSet bool) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Флаги важнее файла конфигурации
	if opts.playlistPath != "" {
		cfg.PlaylistFile = opts.playlistPath
	}
	if volumeSet {
		cfg.InitialVolume = max(0, min(100, opts.volume))
	}
	app.Config = cfg

	if cfg.PlaylistFile == "" {
		app.Playlist = data.DefaultPlaylist()
	} else {
		playlist, err := data.LoadPlaylist(cfg.PlaylistFile)
		if err != nil {
			return err
		}
		app.Playlist = playlist
	}

	return nil
}

// setupLogging направляет логи в файл: терминал занят интерфейсом
func (app *Application) setupLogging() error {
	level, err := logrus.ParseLevel(app.Config.LogLevel)
	if err != nil {
		return fmt.Errorf("неверный уровень логирования %q: %w", app.Config.LogLevel, err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	file, err := os.OpenFile(app.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла логов: %w", err)
	}
	logrus.SetOutput(file)
	app.logFile = file

	return nil
}

// Close закрывает файл логов
func (app *Application) Close() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

func main() {
	ctx := context.Background()

	app := &Application{}
	defer app.Close()

	rootCmd := app.createRootCommand(ctx)
	if err := rootCmd.Execute(); err != nil {
		app.Close()
		os.Exit(1)
	}
}
