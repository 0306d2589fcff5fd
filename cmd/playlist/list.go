package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-playlist/internal/source"
	"github.com/hazadus/go-playlist/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tracks of the playlist",
		Long:  `Display the tracks of the playlist in playback order.`,
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			app.listTracks()
		},
	}
}

func (app *Application) listTracks() {
	if app.Playlist == nil || app.Playlist.Len() == 0 {
		fmt.Println("🎵 Плейлист пуст.")
		return
	}

	fmt.Printf("🎵 Треков в плейлисте: %d\n\n", app.Playlist.Len())

	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-30s %-30s %-6s %s\n",
		"#", "Исполнитель", "Название", "Тип", "Источник")
	fmt.Println(strings.Repeat("-", 110))

	for i := 0; i < app.Playlist.Len(); i++ {
		track, err := app.Playlist.TrackByIndex(i)
		if err != nil {
			break
		}
		fmt.Printf("%-4d %-30s %-30s %-6s %s\n",
			i+1,
			utils.TruncateString(track.Artist, 28),
			utils.TruncateString(track.Title, 28),
			kindName(source.Classify(track.Src)),
			track.Src)
	}

	fmt.Println()
	fmt.Println("💡 Запустите 'go-playlist' без аргументов для воспроизведения")
}

func kindName(kind source.Kind) string {
	switch kind {
	case source.KindHTTP:
		return "http"
	case source.KindS3:
		return "s3"
	default:
		return "file"
	}
}
