// Package player содержит компоненты для управления воспроизведением аудио
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/sirupsen/logrus"

	"github.com/hazadus/go-playlist/internal/metadata"
	"github.com/hazadus/go-playlist/internal/source"
)

// Значения по умолчанию
const (
	DefaultSampleRate   = beep.SampleRate(44100)
	DefaultTickInterval = 250 * time.Millisecond
	resampleQuality     = 4
)

// ErrNotLoaded возвращается при перемотке до окончания загрузки
var ErrNotLoaded = errors.New("трек еще не загружен")

// EventType тип события плеера
type EventType int

// Типы событий
const (
	// EventMetadataLoaded длительность трека стала известна
	EventMetadataLoaded EventType = iota
	// EventTimeUpdate позиция воспроизведения продвинулась
	EventTimeUpdate
	// EventEnded трек доигран до конца
	EventEnded
	// EventLoadFailed трек не удалось загрузить
	EventLoadFailed
)

func (t EventType) String() string {
	switch t {
	case EventMetadataLoaded:
		return "metadata-loaded"
	case EventTimeUpdate:
		return "time-update"
	case EventEnded:
		return "ended"
	case EventLoadFailed:
		return "load-failed"
	default:
		return "unknown"
	}
}

// Event событие плеера. Source - адрес трека, к которому относится событие,
// Gen - номер загрузки, породившей событие.
type Event struct {
	Type     EventType
	Source   string
	Gen      uint64
	Duration time.Duration
	Position time.Duration
	Tags     metadata.Tags
	Err      error
}

// Opener открывает источник по адресу
type Opener interface {
	Open(ctx context.Context, locator string) (io.ReadSeekCloser, error)
}

// Option настраивает плеер
type Option func(*Player)

// WithOpener задает способ открытия источников
func WithOpener(opener Opener) Option {
	return func(p *Player) {
		p.opener = opener
	}
}

// WithSampleRate задает частоту дискретизации динамиков
func WithSampleRate(sampleRate int) Option {
	return func(p *Player) {
		if sampleRate > 0 {
			p.sampleRate = beep.SampleRate(sampleRate)
		}
	}
}

// WithTickInterval задает период событий EventTimeUpdate
func WithTickInterval(interval time.Duration) Option {
	return func(p *Player) {
		if interval > 0 {
			p.tickInterval = interval
		}
	}
}

// Player управляет воспроизведением треков.
// Load запускает асинхронную загрузку; Play, вызванный до ее окончания,
// выполняется сразу после загрузки.
type Player struct {
	events chan Event

	// Внутреннее состояние
	ctx           context.Context
	cancel        context.CancelFunc
	mutex         sync.RWMutex
	opener        Opener
	extractor     *metadata.Extractor
	sampleRate    beep.SampleRate
	tickInterval  time.Duration
	isInitialized bool

	gen        uint64
	source     string
	loadCancel context.CancelFunc
	isPaused   bool
	isEnded    bool
	volume     float64

	// Компоненты для воспроизведения
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	gain     *effects.Gain
}

// NewPlayer создает новый экземпляр плеера
func NewPlayer(opts ...Option) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		events:       make(chan Event, 16),
		ctx:          ctx,
		cancel:       cancel,
		extractor:    metadata.NewExtractor(),
		sampleRate:   DefaultSampleRate,
		tickInterval: DefaultTickInterval,
		isPaused:     true,
		volume:       1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.opener == nil {
		p.opener = source.NewOpener(nil)
	}
	return p
}

// Events возвращает канал событий плеера
func (p *Player) Events() <-chan Event {
	return p.events
}

// Load начинает загрузку трека. Предыдущий трек останавливается,
// плеер переходит в состояние паузы.
func (p *Player) Load(src string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopInternal()

	p.gen++
	p.source = src
	p.isPaused = true

	ctx, cancel := context.WithCancel(p.ctx)
	p.loadCancel = cancel

	logrus.WithField("source", src).Debug("Загрузка трека")
	go p.load(ctx, p.gen, src)
}

// load загружает и декодирует трек в отдельной горутине
func (p *Player) load(ctx context.Context, gen uint64, src string) {
	rsc, err := p.opener.Open(ctx, src)
	if err != nil {
		p.fail(gen, src, fmt.Errorf("ошибка открытия источника: %w", err))
		return
	}

	tags := p.extractor.ExtractFromReader(rsc, src)

	streamer, format, err := decode(rsc, src)
	if err != nil {
		rsc.Close()
		p.fail(gen, src, err)
		return
	}

	p.mutex.Lock()
	if gen != p.gen {
		p.mutex.Unlock()
		streamer.Close()
		return
	}

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		err = speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10))
		if err != nil {
			p.mutex.Unlock()
			streamer.Close()
			p.fail(gen, src, fmt.Errorf("ошибка инициализации динамиков: %w", err))
			return
		}
		p.isInitialized = true
	}

	p.streamer = streamer
	p.format = format

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, p.sampleRate, streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: s, Paused: p.isPaused}
	p.gain = &effects.Gain{Streamer: p.ctrl, Gain: p.volume - 1}
	p.isEnded = false

	duration := format.SampleRate.D(streamer.Len())

	// Callback вызывается под блокировкой speaker, поэтому уходим в горутину
	speaker.Play(beep.Seq(p.gain, beep.Callback(func() {
		go p.finish(gen, src)
	})))
	p.mutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"source":   src,
		"duration": duration,
	}).Info("Трек загружен")

	p.emit(Event{Type: EventMetadataLoaded, Source: src, Gen: gen, Duration: duration, Tags: tags})

	go p.monitorProgress(ctx, gen, src)
}

// fail сообщает об ошибке загрузки, если загрузка еще актуальна
func (p *Player) fail(gen uint64, src string, err error) {
	p.mutex.RLock()
	current := gen == p.gen
	p.mutex.RUnlock()
	if !current {
		return
	}

	logrus.WithField("source", src).WithError(err).Warn("Не удалось загрузить трек")
	p.emit(Event{Type: EventLoadFailed, Source: src, Gen: gen, Err: err})
}

// finish обрабатывает окончание трека
func (p *Player) finish(gen uint64, src string) {
	p.mutex.Lock()
	if gen != p.gen {
		p.mutex.Unlock()
		return
	}
	p.isEnded = true
	p.isPaused = true
	p.mutex.Unlock()

	logrus.WithField("source", src).Debug("Трек доигран")
	p.emit(Event{Type: EventEnded, Source: src, Gen: gen})
}

// emit доставляет событие, ожидая читателя до закрытия плеера
func (p *Player) emit(ev Event) {
	select {
	case p.events <- ev:
	case <-p.ctx.Done():
	}
}

// Play начинает или возобновляет воспроизведение текущего трека
func (p *Player) Play() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.isPaused = false
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
	}
}

// Pause приостанавливает воспроизведение
func (p *Player) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.isPaused = true
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
}

// Stop останавливает воспроизведение и забывает текущий трек
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.gen++
	p.stopInternal()
	p.source = ""
	p.isPaused = true
}

// stopInternal внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopInternal() {
	if p.loadCancel != nil {
		p.loadCancel()
		p.loadCancel = nil
	}

	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
		p.gain = nil
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}

	p.isEnded = false
}

// Close закрывает плеер и освобождает ресурсы
func (p *Player) Close() error {
	p.Stop()
	p.cancel()
	return nil
}

// IsPlaying возвращает true, если трек загружен и воспроизводится
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused && !p.isEnded
}

// Generation возвращает номер последней загрузки. События с другим
// номером относятся к уже замененному треку.
func (p *Player) Generation() uint64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.gen
}

// CurrentPosition возвращает текущую позицию воспроизведения
func (p *Player) CurrentPosition() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration возвращает длительность трека; 0 - пока неизвестна
func (p *Player) Duration() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Len())
}

// SetPosition перематывает трек. Позиция ограничивается длиной трека.
func (p *Player) SetPosition(position time.Duration) {
	if err := p.seek(position); err != nil {
		logrus.WithError(err).Warn("Не удалось перемотать трек")
	}
}

func (p *Player) seek(position time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.streamer == nil {
		return ErrNotLoaded
	}

	speaker.Lock()
	defer speaker.Unlock()

	n := clampSample(p.format.SampleRate.N(position), p.streamer.Len())
	if err := p.streamer.Seek(n); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

// clampSample ограничивает номер сэмпла отрезком [0, length-1]
func clampSample(n, length int) int {
	if n > length-1 {
		n = length - 1
	}
	if n < 0 {
		n = 0
	}
	return n
}

// SetVolume задает громкость в диапазоне [0, 1]
func (p *Player) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.volume = volume
	if p.gain != nil {
		speaker.Lock()
		p.gain.Gain = volume - 1
		speaker.Unlock()
	}
}

// monitorProgress отправляет события EventTimeUpdate, пока трек играет
func (p *Player) monitorProgress(ctx context.Context, gen uint64, src string) {
	ticker := time.NewTicker(p.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()

			if gen != p.gen || p.streamer == nil || p.ctrl == nil {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			currentPos := p.format.SampleRate.D(p.streamer.Position())
			paused := p.ctrl.Paused
			speaker.Unlock()

			p.mutex.RUnlock()

			if paused {
				continue
			}

			select {
			case p.events <- Event{Type: EventTimeUpdate, Source: src, Gen: gen, Position: currentPos}:
			default:
				// Если канал заблокирован, пропускаем обновление
			}
		}
	}
}
