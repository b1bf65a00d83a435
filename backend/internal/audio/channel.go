package audio

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownChannel возвращается для неизвестного имени канала
var ErrUnknownChannel = errors.New("unknown audio channel")

// Channel - типизированный идентификатор звукового канала
type Channel int

const (
	ChannelEngine Channel = iota
	ChannelSkid
	ChannelImpact
	ChannelAccelStart
	ChannelAccelStartTwo
	ChannelAccelStartThree
	ChannelDrift
	ChannelBrickImpact

	channelCount
)

// Schema фиксирует свойства канала на момент загрузки
type Schema struct {
	Name   string
	Loop   bool
	Volume float64
	File   string

	// Length - номинальная длительность одноразового звука, нужна клиентам без
	// доступа к декодированному буферу
	Length time.Duration
}

// BrickBufferCount - количество вариантов звука удара кирпича
const BrickBufferCount = 8

// Громкость и опорная дистанция общего голоса кирпичей
const (
	BrickVolume      = 0.2
	BrickRefDistance = 8.0
)

var schemas = [channelCount]Schema{
	ChannelEngine:          {Name: "engine", Loop: true, Volume: 0.3, File: "mustang_idle.wav"},
	ChannelImpact:          {Name: "impact", Volume: 0.8, File: "static_sounds_car-hits_car-hit-1.wav", Length: 1200 * time.Millisecond},
	ChannelSkid:            {Name: "skid", Volume: 0.7, File: "static_sounds_screeches_screech-1.wav", Length: 1500 * time.Millisecond},
	ChannelAccelStart:      {Name: "accelStart", Volume: 0.8, File: "mustang_moving.wav", Length: 2500 * time.Millisecond},
	ChannelAccelStartTwo:   {Name: "accelStartTwo", Volume: 0.8, File: "mustang_moving_2.wav", Length: 2000 * time.Millisecond},
	ChannelAccelStartThree: {Name: "accelStartThree", Loop: true, Volume: 0.8, File: "mustang_moving-3.wav"},
	ChannelDrift:           {Name: "drift", Loop: true, Volume: 0.8, File: "mustang_drift.wav"},
	ChannelBrickImpact:     {Name: "brickImpact", Volume: BrickVolume, Length: 600 * time.Millisecond},
}

func (c Channel) String() string {
	if c < 0 || c >= channelCount {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return schemas[c].Name
}

// Valid сообщает, что канал входит в перечисление
func (c Channel) Valid() bool { return c >= 0 && c < channelCount }

// SchemaOf возвращает схему канала
func SchemaOf(c Channel) Schema {
	if !c.Valid() {
		return Schema{}
	}
	return schemas[c]
}

// ParseChannel находит канал по имени
func ParseChannel(name string) (Channel, error) {
	for c := Channel(0); c < channelCount; c++ {
		if schemas[c].Name == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// NamedChannels возвращает каналы с собственным файлом (без общего голоса кирпичей)
func NamedChannels() []Channel {
	out := make([]Channel, 0, channelCount)
	for c := Channel(0); c < channelCount; c++ {
		if c != ChannelBrickImpact {
			out = append(out, c)
		}
	}
	return out
}

// BrickFiles возвращает имена файлов вариантов удара кирпича
func BrickFiles() []string {
	files := make([]string, BrickBufferCount)
	for i := range files {
		files[i] = fmt.Sprintf("static_sounds_bricks_brick-%d.wav", i+1)
	}
	return files
}
