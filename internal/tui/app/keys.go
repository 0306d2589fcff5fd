package app

import "github.com/charmbracelet/bubbles/key"

// Шаг изменения громкости с клавиатуры
const volumeStep = 5

type keyMap struct {
	Toggle     key.Binding
	Next       key.Binding
	Previous   key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Focus      key.Binding
	Activate   key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("пробел", "пауза"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "следующий"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "предыдущий"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "громче"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "тише"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "панель/список"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "выбрать"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "выход"),
		),
	}
}

// ShortHelp реализует help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Previous, k.Next, k.VolumeDown, k.VolumeUp, k.Focus, k.Activate, k.Quit}
}

// FullHelp реализует help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Previous, k.Next},
		{k.VolumeDown, k.VolumeUp},
		{k.Focus, k.Activate, k.Quit},
	}
}
