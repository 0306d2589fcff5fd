// Package player содержит панель «сейчас играет» для TUI
package player

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-playlist/internal/controller"
	"github.com/hazadus/go-playlist/internal/utils"
)

const (
	// Отступ панели слева в символах
	paddingLeft = 2
	// Строки до обложки: заголовок и пустая строка
	coverTop = 2

	defaultBarWidth    = 40
	defaultVolumeWidth = 20
	maxBarWidth        = 60

	volumeLabel = "Громкость "
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff"))

	trackTitleStyle = lipgloss.NewStyle().Bold(true)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().Bold(true)

	volumeFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	volumeEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// Model панель текущего трека. Состояние приходит из контроллера
// через SetDisplay, сама панель ничего не меняет.
type Model struct {
	display     controller.Display
	cover       string
	coverHeight int
	status      string

	progressBar progress.Model
	volumeWidth int

	help help.Model
	keys help.KeyMap
}

// NewModel создает панель. coverHeight задает высоту обложки в строках.
func NewModel(keys help.KeyMap, coverHeight int) *Model {
	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = defaultBarWidth

	h := help.New()
	h.ShortSeparator = " • "

	if coverHeight < 0 {
		coverHeight = 0
	}

	return &Model{
		display: controller.Display{
			Elapsed:  utils.FormatTime(0),
			Duration: utils.FormatTime(0),
		},
		coverHeight: coverHeight,
		progressBar: prog,
		volumeWidth: defaultVolumeWidth,
		help:        h,
		keys:        keys,
	}
}

// SetDisplay обновляет отображаемое состояние
func (m *Model) SetDisplay(display controller.Display) {
	m.display = display
}

// SetCover задает отрисованную обложку
func (m *Model) SetCover(cover string) {
	m.cover = cover
}

// SetStatus задает строку состояния, например текст ошибки
func (m *Model) SetStatus(status string) {
	m.status = status
}

// Status возвращает строку состояния
func (m *Model) Status() string {
	return m.status
}

// SetWidth подгоняет ширину индикатора прогресса под окно
func (m *Model) SetWidth(width int) {
	m.progressBar.Width = max(10, min(maxBarWidth, width-paddingLeft*2))
	m.help.Width = width
}

// BarWidth возвращает ширину индикатора прогресса
func (m *Model) BarWidth() int {
	return m.progressBar.Width
}

// Height возвращает высоту панели в строках
func (m *Model) Height() int {
	return m.helpRow() + 1
}

// Строки панели после обложки
func (m *Model) titleRow() int    { return coverTop + m.coverHeight + 1 }
func (m *Model) artistRow() int   { return m.titleRow() + 1 }
func (m *Model) progressRow() int { return m.artistRow() + 2 }
func (m *Model) timeRow() int     { return m.progressRow() + 1 }
func (m *Model) stateRow() int    { return m.timeRow() + 2 }
func (m *Model) volumeRow() int   { return m.stateRow() + 1 }
func (m *Model) statusRow() int   { return m.volumeRow() + 1 }
func (m *Model) helpRow() int     { return m.statusRow() + 2 }

// ProgressFractionAt переводит щелчок в долю трека. ok=false, если щелчок
// пришелся мимо индикатора прогресса.
func (m *Model) ProgressFractionAt(x, y int) (float64, bool) {
	if y != m.progressRow() {
		return 0, false
	}
	return cellFraction(x-paddingLeft, m.progressBar.Width)
}

// VolumeAt переводит щелчок в значение громкости 0..100
func (m *Model) VolumeAt(x, y int) (int, bool) {
	if y != m.volumeRow() {
		return 0, false
	}
	fraction, ok := cellFraction(x-paddingLeft-lipgloss.Width(volumeLabel), m.volumeWidth)
	if !ok {
		return 0, false
	}
	return int(math.Round(fraction * 100)), true
}

// cellFraction переводит номер ячейки полосы в долю: первая ячейка 0, последняя 1
func cellFraction(cell, width int) (float64, bool) {
	if cell < 0 || cell >= width || width <= 0 {
		return 0, false
	}
	if width == 1 {
		return 0, true
	}
	return float64(cell) / float64(width-1), true
}

// View отображает панель
func (m *Model) View() string {
	lines := make([]string, m.Height())

	lines[0] = titleStyle.Render("🎵 Плейлист")

	cover := m.cover
	coverLines := strings.Split(cover, "\n")
	for i := 0; i < m.coverHeight; i++ {
		if cover != "" && i < len(coverLines) {
			lines[coverTop+i] = coverLines[i]
		}
	}

	lines[m.titleRow()] = trackTitleStyle.Render(m.display.Title)
	lines[m.artistRow()] = trackInfoStyle.Render(m.display.Artist)
	lines[m.progressRow()] = m.progressBar.ViewAs(m.display.Progress)
	lines[m.timeRow()] = fmt.Sprintf("%s / %s", m.display.Elapsed, m.display.Duration)
	lines[m.stateRow()] = statusStyle.Render(formatState(m.display.Button))
	lines[m.volumeRow()] = volumeLabel + m.volumeBar() + fmt.Sprintf(" %d%%", m.display.Volume)
	if m.status != "" {
		lines[m.statusRow()] = errorStyle.Render(m.status)
	}
	if m.keys != nil {
		lines[m.helpRow()] = m.help.View(m.keys)
	}

	pad := strings.Repeat(" ", paddingLeft)
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

func (m *Model) volumeBar() string {
	filled := int(math.Round(float64(m.display.Volume) / 100 * float64(m.volumeWidth)))
	filled = max(0, min(m.volumeWidth, filled))
	return volumeFilledStyle.Render(strings.Repeat("█", filled)) +
		volumeEmptyStyle.Render(strings.Repeat("░", m.volumeWidth-filled))
}

// formatState описывает состояние: кнопка «пауза» видна во время воспроизведения
func formatState(button controller.Affordance) string {
	if button == controller.ShowPause {
		return "▶ Воспроизведение"
	}
	return "⏸ Пауза"
}
