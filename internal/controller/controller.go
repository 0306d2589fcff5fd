// Package controller содержит контроллер плейлиста: связывает события
// интерфейса и плеера с командами плеера и состоянием отображения.
//
// Контроллер не потокобезопасен: все методы вызываются из одного цикла
// обработки событий (Update программы bubbletea).
package controller

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-playlist/internal/data"
	"github.com/hazadus/go-playlist/internal/metadata"
	"github.com/hazadus/go-playlist/internal/utils"
)

var (
	// ErrEmptyPlaylist возвращается при создании контроллера с пустым плейлистом
	ErrEmptyPlaylist = errors.New("плейлист пуст")
	// ErrNilMedia возвращается при создании контроллера без плеера
	ErrNilMedia = errors.New("не задан плеер")
	// ErrIndexOutOfRange возвращается при выборе несуществующего трека
	ErrIndexOutOfRange = errors.New("индекс трека вне плейлиста")
)

// Media примитив воспроизведения, которым управляет контроллер.
// Duration возвращает 0, пока длительность нового трека неизвестна.
type Media interface {
	Load(src string)
	Play()
	Pause()
	CurrentPosition() time.Duration
	SetPosition(position time.Duration)
	Duration() time.Duration
	SetVolume(volume float64)
}

// Controller владеет плейлистом и состоянием воспроизведения
type Controller struct {
	tracks []data.Track
	media  Media

	currentIndex int
	isPlaying    bool

	display Display
}

// New создает контроллер. Состояние: первый трек, пауза.
func New(tracks []data.Track, media Media) (*Controller, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}
	if media == nil {
		return nil, ErrNilMedia
	}

	// Копия защищает плейлист от изменений снаружи
	owned := make([]data.Track, len(tracks))
	copy(owned, tracks)

	return &Controller{
		tracks:  owned,
		media:   media,
		display: newDisplay(),
	}, nil
}

// Start выполняет начальную настройку: отрисовывает плейлист,
// загружает первый трек без воспроизведения и применяет громкость.
func (c *Controller) Start(volume int) {
	c.RenderPlaylist()
	// Индекс 0 всегда существует в непустом плейлисте
	_ = c.SelectTrack(0)
	c.SetVolume(volume)
}

// RenderPlaylist заново строит список треков, отмечая текущий
func (c *Controller) RenderPlaylist() {
	entries := make([]Entry, len(c.tracks))
	for i, t := range c.tracks {
		entries[i] = Entry{
			Index:  i,
			Title:  t.Title,
			Artist: t.Artist,
			Active: i == c.currentIndex,
		}
	}
	c.display.Entries = entries
}

// ActivateEntry обработчик выбора элемента списка: выбирает трек и запускает его
func (c *Controller) ActivateEntry(index int) error {
	if err := c.SelectTrack(index); err != nil {
		return err
	}
	c.Play()
	return nil
}

// SelectTrack делает трек текущим и загружает его, не запуская воспроизведение
func (c *Controller) SelectTrack(index int) error {
	if index < 0 || index >= len(c.tracks) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	c.currentIndex = index
	track := c.tracks[index]

	c.display.Title = track.Title
	c.display.Artist = track.Artist
	c.display.Cover = track.Cover
	c.markActive()

	c.display.Progress = 0
	c.display.Elapsed = utils.FormatTime(0)
	c.display.Duration = utils.FormatTime(math.NaN())

	logrus.WithFields(logrus.Fields{
		"index": index,
		"title": track.Title,
	}).Debug("Выбран трек")

	c.media.Load(track.Src)
	return nil
}

// Play запускает или возобновляет воспроизведение текущего трека
func (c *Controller) Play() {
	c.media.Play()
	c.isPlaying = true
	c.display.Button = ShowPause
}

// Pause приостанавливает воспроизведение
func (c *Controller) Pause() {
	c.media.Pause()
	c.isPlaying = false
	c.display.Button = ShowPlay
}

// TogglePlayPause переключает воспроизведение и паузу
func (c *Controller) TogglePlayPause() {
	if c.isPlaying {
		c.Pause()
	} else {
		c.Play()
	}
}

// Previous переходит к предыдущему треку, с конца плейлиста после первого
func (c *Controller) Previous() {
	c.step(-1)
}

// Next переходит к следующему треку, к первому после последнего
func (c *Controller) Next() {
	c.step(1)
}

func (c *Controller) step(delta int) {
	n := len(c.tracks)
	wasPlaying := c.isPlaying
	index := ((c.currentIndex+delta)%n + n) % n

	_ = c.SelectTrack(index)
	if wasPlaying {
		c.Play()
	}
}

// OnMetadataLoaded обрабатывает появление длительности трека.
// События для другого источника игнорируются.
func (c *Controller) OnMetadataLoaded(src string, duration time.Duration, tags metadata.Tags) {
	if src != c.tracks[c.currentIndex].Src {
		return
	}

	c.display.Duration = utils.FormatDuration(duration)

	// Пустые поля плейлиста дополняем тегами
	if c.display.Title == "" {
		c.display.Title = tags.Title
	}
	if c.display.Artist == "" {
		c.display.Artist = tags.Artist
	}
}

// OnTimeUpdate обновляет индикатор прогресса и прошедшее время
func (c *Controller) OnTimeUpdate() {
	position := c.media.CurrentPosition()
	duration := c.media.Duration()

	var fraction float64
	if duration > 0 {
		fraction = utils.Clamp(float64(position)/float64(duration), 0, 1)
	}

	c.display.Progress = fraction
	c.display.Elapsed = utils.FormatDuration(position)
}

// OnEnded обрабатывает окончание трека: переход к следующему
func (c *Controller) OnEnded() {
	c.Next()
}

// OnProgressBarActivate перематывает трек на долю fraction его длительности.
// Доля ограничивается отрезком [0, 1]; пока длительность неизвестна, щелчок игнорируется.
func (c *Controller) OnProgressBarActivate(fraction float64) {
	if math.IsNaN(fraction) {
		return
	}
	duration := c.media.Duration()
	if duration <= 0 {
		return
	}

	fraction = utils.Clamp(fraction, 0, 1)
	c.media.SetPosition(time.Duration(fraction * float64(duration)))
}

// SetVolume задает громкость по значению ползунка 0..100
func (c *Controller) SetVolume(sliderValue int) {
	if sliderValue < 0 {
		sliderValue = 0
	}
	if sliderValue > 100 {
		sliderValue = 100
	}
	c.display.Volume = sliderValue
	c.media.SetVolume(float64(sliderValue) / 100)
}

// CurrentIndex возвращает индекс текущего трека
func (c *Controller) CurrentIndex() int {
	return c.currentIndex
}

// IsPlaying сообщает, идет ли воспроизведение
func (c *Controller) IsPlaying() bool {
	return c.isPlaying
}

// Len возвращает количество треков
func (c *Controller) Len() int {
	return len(c.tracks)
}

// CurrentTrack возвращает текущий трек
func (c *Controller) CurrentTrack() data.Track {
	return c.tracks[c.currentIndex]
}

// Display возвращает копию состояния отображения
func (c *Controller) Display() Display {
	d := c.display
	d.Entries = make([]Entry, len(c.display.Entries))
	copy(d.Entries, c.display.Entries)
	return d
}

func (c *Controller) markActive() {
	for i := range c.display.Entries {
		c.display.Entries[i].Active = c.display.Entries[i].Index == c.currentIndex
	}
}
