// Package source открывает аудиофайлы и обложки по их адресу
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/hazadus/go-playlist/internal/s3"
)

// DefaultMaxSize ограничение размера файла, загружаемого в память
const DefaultMaxSize = 256 * 1024 * 1024

var (
	// ErrTooLarge возвращается, если удаленный файл превышает допустимый размер
	ErrTooLarge = errors.New("файл слишком большой")
	// ErrS3NotConfigured возвращается для адресов s3:// без настроек хранилища
	ErrS3NotConfigured = errors.New("хранилище S3 не настроено")
)

// Kind тип адреса источника
type Kind int

// Поддерживаемые типы адресов
const (
	KindFile Kind = iota
	KindHTTP
	KindS3
)

// S3Fetcher скачивает объекты из S3
type S3Fetcher interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// Opener открывает источники по адресу
type Opener struct {
	client  *http.Client
	s3      S3Fetcher
	maxSize int64
}

// NewOpener создает новый Opener. s3Fetcher может быть nil.
func NewOpener(s3Fetcher S3Fetcher) *Opener {
	// HTTP клиент без общего таймаута: большие файлы скачиваются долго
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       300 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return &Opener{
		client:  client,
		s3:      s3Fetcher,
		maxSize: DefaultMaxSize,
	}
}

// Open открывает источник. Результат всегда поддерживает Seek:
// удаленные файлы целиком загружаются в память.
func (o *Opener) Open(ctx context.Context, locator string) (io.ReadSeekCloser, error) {
	switch Classify(locator) {
	case KindHTTP:
		return o.openHTTP(ctx, locator)
	case KindS3:
		return o.openS3(ctx, locator)
	default:
		return o.openFile(locator)
	}
}

func (o *Opener) openFile(locator string) (io.ReadSeekCloser, error) {
	filePath := locator
	if strings.HasPrefix(strings.ToLower(locator), "file://") {
		u, err := url.Parse(locator)
		if err != nil {
			return nil, fmt.Errorf("некорректный адрес файла: %w", err)
		}
		filePath = u.Path
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return file, nil
}

func (o *Opener) openHTTP(ctx context.Context, locator string) (io.ReadSeekCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("User-Agent", "go-playlist/1.0")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, o.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if int64(len(data)) > o.maxSize {
		return nil, ErrTooLarge
	}

	return NewBuffer(data), nil
}

func (o *Opener) openS3(ctx context.Context, locator string) (io.ReadSeekCloser, error) {
	if o.s3 == nil {
		return nil, ErrS3NotConfigured
	}

	bucket, key, err := s3.ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	data, err := o.s3.Download(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > o.maxSize {
		return nil, ErrTooLarge
	}

	return NewBuffer(data), nil
}

// Buffer источник в памяти
type Buffer struct {
	*bytes.Reader
}

// NewBuffer создает источник из среза байт
func NewBuffer(data []byte) *Buffer {
	return &Buffer{Reader: bytes.NewReader(data)}
}

// Close ничего не делает: буфер освобождается сборщиком мусора
func (b *Buffer) Close() error {
	return nil
}

// Classify определяет тип адреса
func Classify(locator string) Kind {
	lower := strings.ToLower(locator)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindHTTP
	case strings.HasPrefix(lower, "s3://"):
		return KindS3
	default:
		return KindFile
	}
}

// Ext возвращает расширение файла в нижнем регистре без учета параметров запроса
func Ext(locator string) string {
	p := locator
	if Classify(locator) != KindFile || strings.HasPrefix(strings.ToLower(locator), "file://") {
		if u, err := url.Parse(locator); err == nil {
			p = u.Path
		}
	}
	return strings.ToLower(path.Ext(p))
}

// Name возвращает имя файла из адреса
func Name(locator string) string {
	p := locator
	if Classify(locator) != KindFile {
		if u, err := url.Parse(locator); err == nil {
			p = u.Path
		}
	}
	return path.Base(strings.ReplaceAll(p, "\\", "/"))
}
