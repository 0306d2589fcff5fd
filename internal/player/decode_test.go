package player

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// writeWAV записывает тишину заданной длины в WAV файл
func writeWAV(t *testing.T, format beep.Format, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "silence.wav")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Ошибка создания файла: %v", err)
	}
	defer file.Close()

	if err := wav.Encode(file, beep.Silence(samples), format); err != nil {
		t.Fatalf("Ошибка кодирования WAV: %v", err)
	}
	return path
}

func TestDecodeWAV(t *testing.T) {
	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	path := writeWAV(t, format, 12000)

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Ошибка открытия файла: %v", err)
	}

	streamer, decoded, err := decode(file, path)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	defer streamer.Close()

	if decoded.SampleRate != format.SampleRate || decoded.NumChannels != format.NumChannels {
		t.Errorf("Ожидался формат %+v, получено %+v", format, decoded)
	}
	if streamer.Len() != 12000 {
		t.Errorf("Ожидалось 12000 сэмплов, получено %d", streamer.Len())
	}
	if d := decoded.SampleRate.D(streamer.Len()); d != 1500*time.Millisecond {
		t.Errorf("Ожидалась длительность 1.5с, получено %v", d)
	}

	// Перемотка в пределах трека
	if err := streamer.Seek(clampSample(decoded.SampleRate.N(10*time.Second), streamer.Len())); err != nil {
		t.Errorf("Ошибка перемотки: %v", err)
	}
	if streamer.Position() != 11999 {
		t.Errorf("Ожидалась позиция 11999, получено %d", streamer.Position())
	}
}

func TestDecodeWrongCodec(t *testing.T) {
	path := writeWAV(t, beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}, 800)

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Ошибка открытия файла: %v", err)
	}
	defer file.Close()

	// WAV с расширением ogg не декодируется как vorbis
	if _, _, err := decode(file, "https://example.com/track.ogg"); err == nil {
		t.Error("Ожидалась ошибка декодирования")
	}
}

func TestClampSample(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		length   int
		expected int
	}{
		{"внутри трека", 500, 1000, 500},
		{"начало", 0, 1000, 0},
		{"отрицательная позиция", -20, 1000, 0},
		{"последний сэмпл", 999, 1000, 999},
		{"за концом трека", 5000, 1000, 999},
		{"пустой трек", 10, 0, 0},
		{"пустой трек, отрицательная позиция", -1, 0, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := clampSample(test.n, test.length); got != test.expected {
				t.Errorf("clampSample(%d, %d) = %d, ожидалось %d", test.n, test.length, got, test.expected)
			}
		})
	}
}
