package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-playlist/internal/cover"
	"github.com/hazadus/go-playlist/internal/player"
	"github.com/hazadus/go-playlist/internal/s3"
	"github.com/hazadus/go-playlist/internal/source"
	"github.com/hazadus/go-playlist/internal/tui"
)

// newOpener создает источник файлов; S3 подключается, только если настроен
func (app *Application) newOpener() (*source.Opener, error) {
	if !app.Config.HasS3() {
		return source.NewOpener(nil), nil
	}

	downloader, err := s3.NewDownloader(&s3.Config{
		Region:    app.Config.AwsRegion,
		AccessKey: app.Config.AwsAccessKey,
		SecretKey: app.Config.AwsSecretKey,
		Endpoint:  app.Config.AwsEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка настройки S3: %w", err)
	}
	return source.NewOpener(downloader), nil
}

func (app *Application) launchTUI(_ context.Context) error {
	opener, err := app.newOpener()
	if err != nil {
		return err
	}

	mediaPlayer := player.NewPlayer(
		player.WithOpener(opener),
		player.WithSampleRate(app.Config.SampleRate),
	)
	covers := cover.NewRenderer(opener, cover.DefaultWidth, cover.DefaultHeight)

	logrus.WithFields(logrus.Fields{
		"tracks": app.Playlist.Len(),
		"volume": app.Config.InitialVolume,
	}).Info("Запуск плеера")

	tuiApp := tui.NewApp(app.Playlist.Tracks, mediaPlayer, covers, app.Config.InitialVolume)
	return tuiApp.Run()
}
