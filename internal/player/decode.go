package player

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/go-playlist/internal/source"
)

// codec формат аудиофайла
type codec string

const (
	codecMP3    codec = "mp3"
	codecWAV    codec = "wav"
	codecVorbis codec = "vorbis"
)

// codecFor определяет формат по расширению; по умолчанию mp3
func codecFor(locator string) codec {
	switch source.Ext(locator) {
	case ".wav", ".wave":
		return codecWAV
	case ".ogg", ".oga":
		return codecVorbis
	default:
		return codecMP3
	}
}

// decode декодирует источник. Закрытие стримера закрывает и источник.
func decode(rsc io.ReadSeekCloser, locator string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	c := codecFor(locator)
	switch c {
	case codecWAV:
		streamer, format, err = wav.Decode(rsc)
	case codecVorbis:
		streamer, format, err = vorbis.Decode(rsc)
	default:
		streamer, format, err = mp3.Decode(rsc)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("ошибка декодирования %s: %w", c, err)
	}
	return streamer, format, nil
}
