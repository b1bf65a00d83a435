package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/world"
)

// ParkingTracker следит, в какой парковочной зоне стоит машина
type ParkingTracker struct {
	zones   []world.Zone
	current int // индекс зоны или -1
	rec     *Recorder
}

func NewParkingTracker(zones []world.Zone, rec *Recorder) *ParkingTracker {
	return &ParkingTracker{zones: zones, current: -1, rec: rec}
}

// Update определяет зону по XZ-позиции кузова. Первая подходящая зона побеждает.
func (p *ParkingTracker) Update(pos mgl64.Vec3) {
	next := -1
	for i, z := range p.zones {
		if z.ContainsXZ(pos) {
			next = i
			break
		}
	}
	if next == p.current {
		return
	}

	if p.current >= 0 {
		z := p.zones[p.current]
		p.rec.Emit(Event{Kind: EventZoneLeave, Subject: z.Name, Position: z.Center()})
	}
	if next >= 0 {
		z := p.zones[next]
		p.rec.Emit(Event{Kind: EventZoneEnter, Subject: z.Name, URL: z.URL, Position: z.Center()})
	}
	p.current = next
}

// Current возвращает текущую зону
func (p *ParkingTracker) Current() (world.Zone, bool) {
	if p.current < 0 {
		return world.Zone{}, false
	}
	return p.zones[p.current], true
}

// Confirm открывает ссылку текущей зоны. Вне зоны ничего не происходит.
func (p *ParkingTracker) Confirm() (world.Zone, bool) {
	z, ok := p.Current()
	if !ok {
		return world.Zone{}, false
	}
	p.rec.Emit(Event{Kind: EventOpenLink, Subject: z.Name, URL: z.URL, Position: z.Center()})
	return z, true
}
