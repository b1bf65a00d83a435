package audio

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoBuffers возвращается, если не загружен ни один вариант удара кирпича
var ErrNoBuffers = errors.New("no brick impact buffers loaded")

// BrickEmitter - единственный общий источник звука кирпичей
type BrickEmitter interface {
	Handle

	// Buffers возвращает количество загруженных вариантов
	Buffers() int
	SetBuffer(i int)
	SetPosition(p mgl64.Vec3)
}

// Selector выбирает индекс буфера из n вариантов
type Selector func(n int) int

// RandomSelector возвращает равномерный выбор. seed == 0 берет зерно из текущего времени.
func RandomSelector(seed int64) Selector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	return func(n int) int {
		return rng.IntN(n)
	}
}

// FixedSelector всегда выбирает один и тот же индекс (по модулю n)
func FixedSelector(i int) Selector {
	return func(n int) int {
		if i < 0 {
			return 0
		}
		return i % n
	}
}

// BrickVoice переносит общий источник к ударившемуся кирпичу и проигрывает случайный вариант
type BrickVoice struct {
	emitter BrickEmitter
	pick    Selector
}

// NewBrickVoice создает голос. nil-эмиттер допустим: голос ничего не делает.
func NewBrickVoice(emitter BrickEmitter, pick Selector) *BrickVoice {
	if pick == nil {
		pick = RandomSelector(0)
	}
	return &BrickVoice{emitter: emitter, pick: pick}
}

// Available - источник загружен и молчит
func (v *BrickVoice) Available() bool {
	return v != nil && v.emitter != nil && !v.emitter.IsPlaying()
}

// Trigger проигрывает вариант в точке pos. Возвращает выбранный индекс или false,
// если источник занят или буферов нет.
func (v *BrickVoice) Trigger(pos mgl64.Vec3) (int, bool) {
	if !v.Available() {
		return 0, false
	}
	n := v.emitter.Buffers()
	if n == 0 {
		return 0, false
	}

	idx := v.pick(n)
	if idx < 0 || idx >= n {
		idx = 0
	}
	v.emitter.SetBuffer(idx)
	v.emitter.SetPosition(pos)
	v.emitter.Play()
	return idx, true
}
