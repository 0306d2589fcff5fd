package controller

import "github.com/hazadus/go-playlist/internal/utils"

// Affordance что показывает кнопка воспроизведения
type Affordance int

const (
	// ShowPlay кнопка предлагает начать воспроизведение
	ShowPlay Affordance = iota
	// ShowPause кнопка предлагает поставить на паузу
	ShowPause
)

// Entry элемент отображаемого плейлиста
type Entry struct {
	Index  int
	Title  string
	Artist string
	Active bool
}

// Display состояние элементов интерфейса
type Display struct {
	Title    string
	Artist   string
	Cover    string
	Entries  []Entry
	Progress float64 // Доля прослушанного, 0..1
	Elapsed  string
	Duration string
	Button   Affordance
	Volume   int // Положение ползунка громкости, 0..100
}

// ActiveIndex возвращает индекс активного элемента или -1
func (d Display) ActiveIndex() int {
	for _, e := range d.Entries {
		if e.Active {
			return e.Index
		}
	}
	return -1
}

func newDisplay() Display {
	return Display{
		Elapsed:  utils.FormatTime(0),
		Duration: utils.FormatTime(0),
		Button:   ShowPlay,
	}
}
