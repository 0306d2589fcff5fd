package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockS3Fetcher мок для S3
type mockS3Fetcher struct {
	downloadFunc func(bucket, key string) ([]byte, error)
}

func (m *mockS3Fetcher) Download(_ context.Context, bucket, key string) ([]byte, error) {
	return m.downloadFunc(bucket, key)
}

func readAll(t *testing.T, rsc io.ReadSeekCloser) string {
	t.Helper()
	defer rsc.Close()

	data, err := io.ReadAll(rsc)
	if err != nil {
		t.Fatalf("Ошибка чтения: %v", err)
	}
	return string(data)
}

func TestOpenFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(filePath, []byte("local content"), 0644); err != nil {
		t.Fatalf("Ошибка создания файла: %v", err)
	}

	opener := NewOpener(nil)

	rsc, err := opener.Open(context.Background(), filePath)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if got := readAll(t, rsc); got != "local content" {
		t.Errorf("Неожиданное содержимое: %s", got)
	}

	rsc, err = opener.Open(context.Background(), "file://"+filePath)
	if err != nil {
		t.Fatalf("Неожиданная ошибка для file://: %v", err)
	}
	if got := readAll(t, rsc); got != "local content" {
		t.Errorf("Неожиданное содержимое: %s", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	opener := NewOpener(nil)

	_, err := opener.Open(context.Background(), "/non/existent/track.mp3")
	if err == nil {
		t.Fatal("Ожидалась ошибка")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Ожидалась ошибка os.ErrNotExist, получено: %v", err)
	}
}

func TestOpenHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "go-playlist/1.0" {
			t.Errorf("Неожиданный User-Agent: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("remote content"))
	}))
	defer server.Close()

	opener := NewOpener(nil)

	rsc, err := opener.Open(context.Background(), server.URL+"/track.mp3")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	// Источник должен поддерживать перемотку
	if _, err := rsc.Seek(7, io.SeekStart); err != nil {
		t.Fatalf("Ошибка Seek: %v", err)
	}
	if got := readAll(t, rsc); got != "content" {
		t.Errorf("Неожиданное содержимое после Seek: %s", got)
	}
}

func TestOpenHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	opener := NewOpener(nil)

	_, err := opener.Open(context.Background(), server.URL+"/missing.mp3")
	if err == nil {
		t.Fatal("Ожидалась ошибка")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Сообщение об ошибке должно содержать статус: %v", err)
	}
}

func TestOpenHTTPTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	opener := NewOpener(nil)
	opener.maxSize = 5

	_, err := opener.Open(context.Background(), server.URL+"/big.mp3")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Ожидалась ErrTooLarge, получено: %v", err)
	}
}

func TestOpenS3(t *testing.T) {
	fetcher := &mockS3Fetcher{
		downloadFunc: func(bucket, key string) ([]byte, error) {
			if bucket != "music" || key != "a/track.mp3" {
				t.Errorf("Неожиданный объект: %s/%s", bucket, key)
			}
			return []byte("s3 content"), nil
		},
	}

	opener := NewOpener(fetcher)

	rsc, err := opener.Open(context.Background(), "s3://music/a/track.mp3")
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if got := readAll(t, rsc); got != "s3 content" {
		t.Errorf("Неожиданное содержимое: %s", got)
	}
}

func TestOpenS3NotConfigured(t *testing.T) {
	opener := NewOpener(nil)

	_, err := opener.Open(context.Background(), "s3://music/track.mp3")
	if !errors.Is(err, ErrS3NotConfigured) {
		t.Errorf("Ожидалась ErrS3NotConfigured, получено: %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		locator string
		kind    Kind
	}{
		{"/music/track.mp3", KindFile},
		{"file:///music/track.mp3", KindFile},
		{"https://example.com/track.mp3", KindHTTP},
		{"HTTP://example.com/track.mp3", KindHTTP},
		{"s3://bucket/track.mp3", KindS3},
	}

	for _, test := range tests {
		if got := Classify(test.locator); got != test.kind {
			t.Errorf("Classify(%s) = %d; ожидалось %d", test.locator, got, test.kind)
		}
	}
}

func TestExtAndName(t *testing.T) {
	tests := []struct {
		locator string
		ext     string
		name    string
	}{
		{"/music/Artist - Title.MP3", ".mp3", "Artist - Title.MP3"},
		{"https://example.com/a/track.ogg?token=abc", ".ogg", "track.ogg"},
		{"s3://bucket/dir/song.wav", ".wav", "song.wav"},
		{"https://picsum.photos/seed/music1/300/300.jpg", ".jpg", "300.jpg"},
	}

	for _, test := range tests {
		if got := Ext(test.locator); got != test.ext {
			t.Errorf("Ext(%s) = %s; ожидалось %s", test.locator, got, test.ext)
		}
		if got := Name(test.locator); got != test.name {
			t.Errorf("Name(%s) = %s; ожидалось %s", test.locator, got, test.name)
		}
	}
}
