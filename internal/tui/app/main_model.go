// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-playlist/internal/controller"
	"github.com/hazadus/go-playlist/internal/data"
	"github.com/hazadus/go-playlist/internal/player"
	tuiPlayer "github.com/hazadus/go-playlist/internal/tui/player"
	"github.com/hazadus/go-playlist/internal/tui/tracklist"
)

// Таймаут загрузки обложки
const coverTimeout = 30 * time.Second

// FocusType определяет, какая часть экрана получает Enter
type FocusType int

// Константы фокуса
const (
	// PanelFocus - панель текущего трека
	PanelFocus FocusType = iota
	// ListFocus - список треков
	ListFocus
)

// MediaPlayer плеер, которым управляет контроллер, с каналом событий.
// Generation возвращает номер последней загрузки.
type MediaPlayer interface {
	controller.Media
	Events() <-chan player.Event
	Generation() uint64
	Close() error
}

// CoverLoader загружает и рисует обложки
type CoverLoader interface {
	Load(ctx context.Context, locator string) (string, error)
	RenderBytes(data []byte) (string, error)
	Placeholder() string
	Size() (width, height int)
}

// mediaEventMsg событие плеера, переданное в цикл обработки
type mediaEventMsg struct {
	event player.Event
}

// mediaClosedMsg отправляется, когда канал событий закрыт
type mediaClosedMsg struct{}

// coverLoadedMsg результат загрузки обложки
type coverLoadedMsg struct {
	locator  string
	rendered string
	err      error
}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctrl   *controller.Controller
	media  MediaPlayer
	covers CoverLoader
	keys   keyMap
	focus  FocusType

	playerModel    *tuiPlayer.Model
	tracklistModel *tracklist.Model

	// Текущая обложка и встроенная картинка текущего трека
	coverLocator string
	coverReady   bool
	fromPicture  bool // Показана картинка из тегов, а не обложка по адресу
	trackSrc     string
	picture      []byte

	width  int
	height int
}

// NewMainModel создает главную модель, загружает первый трек и применяет громкость
func NewMainModel(tracks []data.Track, media MediaPlayer, covers CoverLoader, volume int) (*MainModel, error) {
	ctrl, err := controller.New(tracks, media)
	if err != nil {
		return nil, err
	}
	if covers == nil {
		return nil, errors.New("не задан загрузчик обложек")
	}
	ctrl.Start(volume)

	keys := newKeyMap()
	_, coverHeight := covers.Size()

	m := &MainModel{
		ctrl:           ctrl,
		media:          media,
		covers:         covers,
		keys:           keys,
		focus:          ListFocus,
		playerModel:    tuiPlayer.NewModel(keys, coverHeight),
		tracklistModel: tracklist.NewModel(ctrl.Display().Entries),
	}
	m.tracklistModel.Select(ctrl.Display().ActiveIndex())
	m.playerModel.SetCover(covers.Placeholder())
	m.trackSrc = ctrl.CurrentTrack().Src
	m.coverLocator = ctrl.Display().Cover
	m.playerModel.SetDisplay(ctrl.Display())

	return m, nil
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.listenForEvents(),
		m.loadCover(m.coverLocator),
	)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.handle(msg)}
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

func (m *MainModel) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playerModel.SetWidth(msg.Width)
		m.tracklistModel.SetSize(msg.Width, msg.Height-m.playerModel.Height()-1)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return nil

	case tracklist.EntryActivatedMsg:
		if err := m.ctrl.ActivateEntry(msg.Index); err != nil {
			logrus.WithError(err).Warn("Не удалось выбрать трек")
		}
		return nil

	case mediaEventMsg:
		m.handleEvent(msg.event)
		return m.listenForEvents()

	case mediaClosedMsg:
		return nil

	case coverLoadedMsg:
		m.handleCover(msg)
		return nil
	}

	var cmd tea.Cmd
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return cmd
}

func (m *MainModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Pause()
		return tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.TogglePlayPause()
		return nil

	case key.Matches(msg, m.keys.Next):
		m.ctrl.Next()
		return nil

	case key.Matches(msg, m.keys.Previous):
		m.ctrl.Previous()
		return nil

	case key.Matches(msg, m.keys.VolumeUp):
		m.ctrl.SetVolume(m.ctrl.Display().Volume + volumeStep)
		return nil

	case key.Matches(msg, m.keys.VolumeDown):
		m.ctrl.SetVolume(m.ctrl.Display().Volume - volumeStep)
		return nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == PanelFocus {
			m.focus = ListFocus
		} else {
			m.focus = PanelFocus
		}
		return nil

	case key.Matches(msg, m.keys.Activate) && m.focus == PanelFocus:
		m.ctrl.TogglePlayPause()
		return nil
	}

	// Остальные клавиши управляют списком
	var cmd tea.Cmd
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return cmd
}

func (m *MainModel) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	if fraction, ok := m.playerModel.ProgressFractionAt(msg.X, msg.Y); ok {
		m.ctrl.OnProgressBarActivate(fraction)
		return
	}
	if volume, ok := m.playerModel.VolumeAt(msg.X, msg.Y); ok {
		m.ctrl.SetVolume(volume)
	}
}

func (m *MainModel) handleEvent(ev player.Event) {
	// События предыдущих загрузок не относятся к текущему состоянию,
	// даже если это тот же трек, запущенный заново
	if ev.Gen != m.media.Generation() || ev.Source != m.ctrl.CurrentTrack().Src {
		logrus.WithFields(logrus.Fields{
			"event":  ev.Type.String(),
			"source": ev.Source,
			"gen":    ev.Gen,
		}).Debug("Пропущено событие устаревшей загрузки")
		return
	}

	switch ev.Type {
	case player.EventMetadataLoaded:
		m.ctrl.OnMetadataLoaded(ev.Source, ev.Duration, ev.Tags)
		if ev.Tags.HasPicture() {
			m.picture = ev.Tags.Picture
			m.applyPicture()
		}

	case player.EventTimeUpdate:
		m.ctrl.OnTimeUpdate()

	case player.EventEnded:
		m.ctrl.OnEnded()

	case player.EventLoadFailed:
		logrus.WithError(ev.Err).WithField("source", ev.Source).Error("Ошибка загрузки трека")
		m.playerModel.SetStatus(fmt.Sprintf("Ошибка: %v", ev.Err))
	}
}

func (m *MainModel) handleCover(msg coverLoadedMsg) {
	// Обложка уже сменилась, пока шла загрузка
	if msg.locator != m.coverLocator {
		return
	}
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			logrus.WithError(msg.err).WithField("cover", msg.locator).Warn("Обложка не загружена")
		}
		m.applyPicture()
		return
	}
	m.playerModel.SetCover(msg.rendered)
	m.coverReady = true
	m.fromPicture = false
}

// applyPicture рисует встроенную в теги картинку, если обложки нет
func (m *MainModel) applyPicture() {
	if m.coverReady || len(m.picture) == 0 {
		return
	}
	rendered, err := m.covers.RenderBytes(m.picture)
	if err != nil {
		logrus.WithError(err).Debug("Встроенная обложка не декодирована")
		return
	}
	m.playerModel.SetCover(rendered)
	m.coverReady = true
	m.fromPicture = true
}

// sync переносит состояние контроллера в модели отображения
func (m *MainModel) sync() tea.Cmd {
	display := m.ctrl.Display()
	m.playerModel.SetDisplay(display)
	m.tracklistModel.SetEntries(display.Entries)

	if src := m.ctrl.CurrentTrack().Src; src != m.trackSrc {
		m.trackSrc = src
		m.picture = nil
		m.playerModel.SetStatus("")
		m.tracklistModel.Select(display.ActiveIndex())

		// Картинка из тегов принадлежит предыдущему треку
		if m.fromPicture {
			m.resetCover()
		}
	}

	if display.Cover == m.coverLocator {
		return nil
	}
	m.coverLocator = display.Cover
	m.resetCover()
	return m.loadCover(display.Cover)
}

func (m *MainModel) resetCover() {
	m.coverReady = false
	m.fromPicture = false
	m.playerModel.SetCover(m.covers.Placeholder())
}

// listenForEvents ждет следующее событие плеера
func (m *MainModel) listenForEvents() tea.Cmd {
	events := m.media.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return mediaClosedMsg{}
		}
		return mediaEventMsg{event: ev}
	}
}

// loadCover загружает обложку в фоне
func (m *MainModel) loadCover(locator string) tea.Cmd {
	if locator == "" {
		return nil
	}
	covers := m.covers
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), coverTimeout)
		defer cancel()

		rendered, err := covers.Load(ctx, locator)
		return coverLoadedMsg{locator: locator, rendered: rendered, err: err}
	}
}

// View отображает интерфейс
func (m *MainModel) View() string {
	return m.playerModel.View() + "\n\n" + m.tracklistModel.View()
}

// Controller возвращает контроллер плейлиста
func (m *MainModel) Controller() *controller.Controller {
	return m.ctrl
}

// Focus возвращает текущий фокус
func (m *MainModel) Focus() FocusType {
	return m.focus
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	if m.media != nil {
		if err := m.media.Close(); err != nil {
			logrus.WithError(err).Warn("Ошибка закрытия плеера")
		}
	}
}
