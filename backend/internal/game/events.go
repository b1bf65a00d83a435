package game

import "github.com/go-gl/mathgl/mgl64"

// Виды событий поездки
const (
	EventImpact      = "impact"
	EventWallReset   = "wall_reset"
	EventRecovery    = "recovery"
	EventSkid        = "skid"
	EventDriftStart  = "drift_start"
	EventBurnout     = "burnout"
	EventLaunch      = "launch"
	EventBrickImpact = "brick_impact"
	EventZoneEnter   = "zone_enter"
	EventZoneLeave   = "zone_leave"
	EventOpenLink    = "open_link"
)

// Event - дискретная реакция ядра за тик
type Event struct {
	Kind     string     `json:"kind"`
	Subject  string     `json:"subject,omitempty"` // тело, зона или канал
	URL      string     `json:"url,omitempty"`
	Position mgl64.Vec3 `json:"position"`
	Speed    float64    `json:"speed,omitempty"`
}

// Recorder копит события текущего тика. nil-приемник молча отбрасывает события.
type Recorder struct {
	events []Event
}

func (r *Recorder) Emit(e Event) {
	if r == nil {
		return
	}
	r.events = append(r.events, e)
}

// Drain забирает накопленные события
func (r *Recorder) Drain() []Event {
	if r == nil {
		return nil
	}
	out := r.events
	r.events = nil
	return out
}
