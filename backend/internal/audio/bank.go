package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"
)

// Bank - локальное воспроизведение через beep. Сам Bank является beep.Streamer,
// его нужно передать в speaker.Play.
type Bank struct {
	mu     sync.Mutex
	format beep.Format
	mixer  *beep.Mixer
	voices [channelCount]*bankVoice

	brickBuffers []*beep.Buffer
	listener     mgl64.Vec3

	logger zerolog.Logger
}

var _ beep.Streamer = (*Bank)(nil)

// NewBank создает пустой банк в заданной частоте дискретизации
func NewBank(sampleRate int, logger zerolog.Logger) *Bank {
	b := &Bank{
		format: beep.Format{SampleRate: beep.SampleRate(sampleRate), NumChannels: 2, Precision: 2},
		mixer:  &beep.Mixer{},
		logger: logger,
	}
	return b
}

// LoadBank загружает все каналы из каталога. Ошибки отдельных файлов не мешают
// созданию банка: отсутствующие каналы просто не связываются.
func LoadBank(dir string, sampleRate int, logger zerolog.Logger) (*Bank, error) {
	b := NewBank(sampleRate, logger)

	var errs []error
	for _, c := range NamedChannels() {
		path := filepath.Join(dir, schemas[c].File)
		buf, err := b.decode(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("channel %s: %w", c, err))
			continue
		}
		b.Bind(c, buf)
	}

	for _, name := range BrickFiles() {
		buf, err := b.decode(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.AddBrickBuffer(buf)
	}
	if len(b.brickBuffers) == 0 {
		errs = append(errs, ErrNoBuffers)
	}

	return b, errors.Join(errs...)
}

func (b *Bank) decode(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != b.format.SampleRate {
		s = beep.Resample(4, format.SampleRate, b.format.SampleRate, streamer)
	}

	buf := beep.NewBuffer(b.format)
	buf.Append(s)
	return buf, nil
}

// Format возвращает формат выходного потока
func (b *Bank) Format() beep.Format { return b.format }

// Bind связывает канал с декодированным буфером
func (b *Bank) Bind(c Channel, buf *beep.Buffer) {
	if !c.Valid() || c == ChannelBrickImpact {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.voices[c] = &bankVoice{bank: b, schema: schemas[c], buffer: buf, gain: schemas[c].Volume}
}

// AddBrickBuffer добавляет вариант удара кирпича
func (b *Bank) AddBrickBuffer(buf *beep.Buffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.brickBuffers = append(b.brickBuffers, buf)
	if b.voices[ChannelBrickImpact] == nil {
		b.voices[ChannelBrickImpact] = &bankVoice{bank: b, schema: schemas[ChannelBrickImpact], gain: BrickVolume, brick: true}
	}
}

// Set возвращает набор загруженных каналов
func (b *Bank) Set() *Set {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := NewSet()
	for _, c := range NamedChannels() {
		if v := b.voices[c]; v != nil {
			set.Bind(c, v)
		}
	}
	return set
}

// Brick возвращает общий источник кирпичей или nil, если вариантов нет
func (b *Bank) Brick() BrickEmitter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if v := b.voices[ChannelBrickImpact]; v != nil {
		return v
	}
	return nil
}

// SetListener задает позицию слушателя для затухания голоса кирпичей
func (b *Bank) SetListener(p mgl64.Vec3) {
	b.mu.Lock()
	b.listener = p
	b.mu.Unlock()
}

// Stream смешивает все активные голоса
func (b *Bank) Stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(samples)
	b.mixer.Stream(samples)
	return len(samples), true
}

func (b *Bank) Err() error { return nil }

// Close останавливает все голоса
func (b *Bank) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, v := range b.voices {
		if v != nil {
			v.stopLocked()
		}
	}
	b.mixer.Clear()
}

type bankVoice struct {
	bank   *Bank
	schema Schema
	buffer *beep.Buffer

	ctrl   *beep.Ctrl
	volume *effects.Volume
	gain   float64

	playing    atomic.Bool
	generation atomic.Uint64

	brick      bool
	brickIndex int
	position   mgl64.Vec3
}

func applyGain(v *effects.Volume, gain float64) {
	if gain <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(gain)
}

func (v *bankVoice) source() *beep.Buffer {
	if v.buffer != nil {
		return v.buffer
	}
	if v.brickIndex >= 0 && v.brickIndex < len(v.bank.brickBuffers) {
		return v.bank.brickBuffers[v.brickIndex]
	}
	return nil
}

func (v *bankVoice) effectiveGain() float64 {
	if !v.brick {
		return v.gain
	}
	dist := v.position.Sub(v.bank.listener).Len()
	if dist <= BrickRefDistance {
		return v.gain
	}
	return v.gain * BrickRefDistance / dist
}

func (v *bankVoice) Play() {
	b := v.bank
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := v.source()
	if buf == nil {
		return
	}
	v.stopLocked()

	gen := v.generation.Add(1)
	var s beep.Streamer
	if v.schema.Loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	} else {
		s = beep.Seq(buf.Streamer(0, buf.Len()), beep.Callback(func() {
			if v.generation.Load() == gen {
				v.playing.Store(false)
			}
		}))
	}

	v.ctrl = &beep.Ctrl{Streamer: s}
	v.volume = &effects.Volume{Streamer: v.ctrl, Base: 2}
	applyGain(v.volume, v.effectiveGain())
	v.playing.Store(true)
	b.mixer.Add(v.volume)
}

func (v *bankVoice) Stop() {
	v.bank.mu.Lock()
	defer v.bank.mu.Unlock()
	v.stopLocked()
}

func (v *bankVoice) stopLocked() {
	if v.ctrl != nil {
		v.ctrl.Streamer = nil
		v.ctrl = nil
	}
	v.volume = nil
	v.generation.Add(1)
	v.playing.Store(false)
}

func (v *bankVoice) SetVolume(gain float64) {
	v.bank.mu.Lock()
	defer v.bank.mu.Unlock()

	v.gain = gain
	if v.volume != nil {
		applyGain(v.volume, v.effectiveGain())
	}
}

func (v *bankVoice) IsPlaying() bool { return v.playing.Load() }

func (v *bankVoice) Buffers() int {
	v.bank.mu.Lock()
	defer v.bank.mu.Unlock()
	return len(v.bank.brickBuffers)
}

func (v *bankVoice) SetBuffer(i int) {
	v.bank.mu.Lock()
	v.brickIndex = i
	v.bank.mu.Unlock()
}

func (v *bankVoice) SetPosition(p mgl64.Vec3) {
	v.bank.mu.Lock()
	v.position = p
	v.bank.mu.Unlock()
}
