package audio

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Действия удаленного звукового события
const (
	ActionPlay   = "play"
	ActionStop   = "stop"
	ActionVolume = "volume"
)

// Event - команда браузеру проиграть, остановить или изменить громкость канала
type Event struct {
	Channel  string      `json:"channel"`
	Action   string      `json:"action"`
	Volume   float64     `json:"volume"`
	Loop     bool        `json:"loop,omitempty"`
	Buffer   int         `json:"buffer,omitempty"`
	Position *[3]float64 `json:"position,omitempty"`
}

// Remote записывает звуковые команды для браузерной сессии. Состояние "звучит"
// вычисляется по часам симуляции и номинальной длительности канала.
type Remote struct {
	mu     sync.Mutex
	now    func() float64
	events []Event
	voices [channelCount]*remoteVoice

	brickBuffers int
}

// NewRemote создает набор удаленных каналов. now возвращает время симуляции в секундах.
func NewRemote(now func() float64, brickBuffers int) *Remote {
	r := &Remote{now: now, brickBuffers: brickBuffers}
	for c := Channel(0); c < channelCount; c++ {
		s := schemas[c]
		r.voices[c] = &remoteVoice{remote: r, channel: c, schema: s, volume: s.Volume}
	}
	return r
}

// Set возвращает набор каналов, связанных с удаленными голосами
func (r *Remote) Set() *Set {
	set := NewSet()
	for _, c := range NamedChannels() {
		set.Bind(c, r.voices[c])
	}
	return set
}

// Brick возвращает общий источник кирпичей
func (r *Remote) Brick() BrickEmitter {
	return r.voices[ChannelBrickImpact]
}

// Drain забирает накопленные события
func (r *Remote) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.events
	r.events = nil
	return out
}

func (r *Remote) emit(e Event) {
	r.events = append(r.events, e)
}

type remoteVoice struct {
	remote  *Remote
	channel Channel
	schema  Schema

	playing   bool
	startedAt float64
	volume    float64

	buffer   int
	position mgl64.Vec3
}

func (v *remoteVoice) Play() {
	r := v.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	v.playing = true
	v.startedAt = r.now()

	e := Event{
		Channel: v.schema.Name,
		Action:  ActionPlay,
		Volume:  v.volume,
		Loop:    v.schema.Loop,
	}
	if v.channel == ChannelBrickImpact {
		p := [3]float64(v.position)
		e.Buffer = v.buffer
		e.Position = &p
	}
	r.emit(e)
}

func (v *remoteVoice) Stop() {
	r := v.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	v.playing = false
	r.emit(Event{Channel: v.schema.Name, Action: ActionStop})
}

func (v *remoteVoice) SetVolume(volume float64) {
	r := v.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	if volume == v.volume {
		return
	}
	v.volume = volume
	r.emit(Event{Channel: v.schema.Name, Action: ActionVolume, Volume: volume})
}

func (v *remoteVoice) IsPlaying() bool {
	r := v.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	if !v.playing {
		return false
	}
	if v.schema.Loop {
		return true
	}
	if r.now()-v.startedAt >= v.schema.Length.Seconds() {
		v.playing = false
	}
	return v.playing
}

func (v *remoteVoice) Buffers() int { return v.remote.brickBuffers }

func (v *remoteVoice) SetBuffer(i int) {
	v.remote.mu.Lock()
	v.buffer = i
	v.remote.mu.Unlock()
}

func (v *remoteVoice) SetPosition(p mgl64.Vec3) {
	v.remote.mu.Lock()
	v.position = p
	v.remote.mu.Unlock()
}
