package tracklist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-playlist/internal/controller"
)

func testEntries(active int) []controller.Entry {
	entries := []controller.Entry{
		{Index: 0, Title: "Summer Vibes", Artist: "Ocean Waves"},
		{Index: 1, Title: "Mountain High", Artist: "Peak Performers"},
		{Index: 2, Title: "City Lights", Artist: "Urban Echo"},
	}
	entries[active].Active = true
	return entries
}

func TestNewModel(t *testing.T) {
	model := NewModel(testEntries(0))

	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if len(model.list.Items()) != 3 {
		t.Fatalf("Ожидалось 3 элемента, получено %d", len(model.list.Items()))
	}
	if model.Cursor() != 0 {
		t.Errorf("Курсор должен быть на первом элементе, получено %d", model.Cursor())
	}
}

func TestEnterActivatesEntry(t *testing.T) {
	model := NewModel(testEntries(0))
	model.Select(2)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Ожидалась команда после Enter")
	}

	msg, ok := cmd().(EntryActivatedMsg)
	if !ok {
		t.Fatalf("Ожидалось EntryActivatedMsg, получено %T", cmd())
	}
	if msg.Index != 2 {
		t.Errorf("Ожидался индекс 2, получено %d", msg.Index)
	}
}

func TestNavigation(t *testing.T) {
	model := NewModel(testEntries(0))

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	if model.Cursor() != 1 {
		t.Errorf("Ожидался курсор 1, получено %d", model.Cursor())
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	if model.Cursor() != 0 {
		t.Errorf("Ожидался курсор 0, получено %d", model.Cursor())
	}
}

func TestQuitKeyIsNotHandled(t *testing.T) {
	model := NewModel(testEntries(0))

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("Список не должен завершать программу")
		}
	}
}

func TestSetEntriesKeepsCursor(t *testing.T) {
	model := NewModel(testEntries(0))
	model.Select(1)

	model.SetEntries(testEntries(2))

	if model.Cursor() != 1 {
		t.Errorf("Курсор должен остаться на 1, получено %d", model.Cursor())
	}
	item := model.list.Items()[2].(entryItem)
	if !item.entry.Active {
		t.Error("Третий элемент должен стать активным")
	}
}

func TestRenderEntry(t *testing.T) {
	active := renderEntry(controller.Entry{Index: 0, Title: "Summer Vibes", Artist: "Ocean Waves", Active: true}, false)
	if !strings.Contains(active, activeMarker) {
		t.Error("Активный элемент должен содержать маркер")
	}
	if !strings.Contains(active, "1 ") || !strings.Contains(active, "Summer Vibes") {
		t.Errorf("Неожиданная строка: %q", active)
	}

	inactive := renderEntry(controller.Entry{Index: 1, Title: "City Lights"}, true)
	if strings.Contains(inactive, activeMarker) {
		t.Error("Неактивный элемент не должен содержать маркер")
	}
	if !strings.Contains(inactive, "> ") {
		t.Error("Элемент под курсором должен начинаться с '> '")
	}
}

func TestViewShowsEntries(t *testing.T) {
	model := NewModel(testEntries(1))
	model.SetSize(80, 10)

	view := model.View()
	for _, want := range []string{"Треки", "Summer Vibes", "Mountain High", activeMarker} {
		if !strings.Contains(view, want) {
			t.Errorf("Ожидалось %q в отображении", want)
		}
	}
}
