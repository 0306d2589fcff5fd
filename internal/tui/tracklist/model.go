// Package tracklist содержит список треков плейлиста для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-playlist/internal/controller"
	"github.com/hazadus/go-playlist/internal/utils"
)

// Маркер текущего трека
const activeMarker = "♪"

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	activeItemStyle   = lipgloss.NewStyle().Bold(true)
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
)

// EntryActivatedMsg отправляется при выборе элемента списка
type EntryActivatedMsg struct {
	Index int
}

// entryItem реализует интерфейс list.Item для элемента плейлиста
type entryItem struct {
	entry controller.Entry
}

func (i entryItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.entry.Artist, i.entry.Title)
}

// entryDelegate реализует отображение элементов списка
type entryDelegate struct{}

func (d entryDelegate) Height() int                             { return 1 }
func (d entryDelegate) Spacing() int                            { return 0 }
func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(entryItem)
	if !ok {
		return
	}

	fmt.Fprint(w, renderEntry(i.entry, index == m.Index()))
}

func renderEntry(entry controller.Entry, selected bool) string {
	marker := " "
	if entry.Active {
		marker = activeMarker
	}

	// Форматируем строку: маркер | номер | название | исполнитель
	str := fmt.Sprintf("%s %-3d %-40s %s",
		marker,
		entry.Index+1,
		utils.TruncateString(entry.Title, 40),
		utils.TruncateString(entry.Artist, 30))

	if entry.Active {
		str = activeItemStyle.Render(str)
	}
	if selected {
		return selectedItemStyle.Render("> " + str)
	}
	return itemStyle.Render(str)
}

// Model представляет модель списка треков
type Model struct {
	list list.Model
}

// NewModel создает новую модель списка треков
func NewModel(entries []controller.Entry) *Model {
	l := list.New(toItems(entries), entryDelegate{}, 60, 10)
	l.Title = "Треки"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	// q обрабатывает главная модель
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	return &Model{list: l}
}

func toItems(entries []controller.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}

// SetEntries обновляет элементы, сохраняя позицию курсора
func (m *Model) SetEntries(entries []controller.Entry) {
	m.list.SetItems(toItems(entries))
}

// SetSize задает размер списка
func (m *Model) SetSize(width, height int) {
	m.list.SetWidth(width)
	m.list.SetHeight(max(3, height))
}

// Cursor возвращает индекс элемента под курсором
func (m *Model) Cursor() int {
	return m.list.Index()
}

// Select перемещает курсор на элемент
func (m *Model) Select(index int) {
	m.list.Select(index)
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			index := item.entry.Index
			return m, func() tea.Msg {
				return EntryActivatedMsg{Index: index}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	return strings.TrimRight(m.list.View(), "\n")
}
