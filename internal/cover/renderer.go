// Package cover превращает обложки треков в текст для терминала
package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP обложки
	_ "golang.org/x/image/webp" // WebP обложки
)

// Размер обложки по умолчанию в символах
const (
	DefaultWidth  = 24
	DefaultHeight = 12
)

// ErrNoCover возвращается, если у трека нет обложки
var ErrNoCover = errors.New("обложка не задана")

// Opener открывает обложку по адресу
type Opener interface {
	Open(ctx context.Context, locator string) (io.ReadSeekCloser, error)
}

// Renderer загружает и рисует обложки полублоками: каждый символ
// показывает два пикселя по вертикали.
type Renderer struct {
	opener Opener
	width  int
	height int

	mutex sync.Mutex
	cache map[string]string
}

// NewRenderer создает новый Renderer
func NewRenderer(opener Opener, width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{
		opener: opener,
		width:  width,
		height: height,
		cache:  make(map[string]string),
	}
}

// Size возвращает размер обложки в символах
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Load загружает обложку по адресу и возвращает ее текстовое представление.
// Результат кэшируется по адресу.
func (r *Renderer) Load(ctx context.Context, locator string) (string, error) {
	if locator == "" {
		return "", ErrNoCover
	}

	r.mutex.Lock()
	cached, ok := r.cache[locator]
	r.mutex.Unlock()
	if ok {
		return cached, nil
	}

	reader, err := r.opener.Open(ctx, locator)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки обложки: %w", err)
	}
	defer reader.Close()

	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("ошибка декодирования обложки: %w", err)
	}

	rendered := r.Render(img)

	r.mutex.Lock()
	r.cache[locator] = rendered
	r.mutex.Unlock()

	return rendered, nil
}

// RenderBytes рисует обложку из байтов изображения, например встроенной в теги
func (r *Renderer) RenderBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoCover
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("ошибка декодирования обложки: %w", err)
	}
	return r.Render(img), nil
}

// Render масштабирует изображение до размера обложки и рисует его
func (r *Renderer) Render(img image.Image) string {
	fitted := imaging.Fill(img, r.width, r.height*2, imaging.Center, imaging.Lanczos)

	var sb strings.Builder
	for y := 0; y < r.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < r.width; x++ {
			upper := fitted.NRGBAAt(x, y*2)
			lower := fitted.NRGBAAt(x, y*2+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(upper.R, upper.G, upper.B))).
				Background(lipgloss.Color(hexColor(lower.R, lower.G, lower.B)))
			sb.WriteString(cell.Render("▀"))
		}
	}
	return sb.String()
}

// Placeholder возвращает пустую рамку размера обложки
func (r *Renderer) Placeholder() string {
	row := strings.Repeat("░", r.width)
	rows := make([]string, r.height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

func hexColor(red, green, blue uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", red, green, blue)
}
