package world

import (
	"sort"

	port "x-drive/backend/internal/core/port/out/physics"
)

type bodySet map[port.BodyID]struct{}

func (s bodySet) has(id port.BodyID) bool {
	_, ok := s[id]
	return ok
}

// Manager хранит классификацию тел сцены. После построения не изменяется.
type Manager struct {
	groundID port.BodyID

	walls     bodySet
	hittables bodySet
	bricks    bodySet
	ramps     bodySet

	brickOrder []port.BodyID
	zones      []Zone
	objects    map[string]Object
	kinds      map[port.BodyID]Kind

	car Object
}

func newManager() *Manager {
	return &Manager{
		walls:     make(bodySet),
		hittables: make(bodySet),
		bricks:    make(bodySet),
		ramps:     make(bodySet),
		objects:   make(map[string]Object),
		kinds:     make(map[port.BodyID]Kind),
	}
}

// IsWall - тело является стеной-границей
func (m *Manager) IsWall(id port.BodyID) bool { return m.walls.has(id) }

// IsHittable - удар о тело озвучивается
func (m *Manager) IsHittable(id port.BodyID) bool { return m.hittables.has(id) }

// IsBrick - тело является подвижным кирпичом или буквой
func (m *Manager) IsBrick(id port.BodyID) bool { return m.bricks.has(id) }

// Bricks возвращает идентификаторы кирпичей в порядке раскладки
func (m *Manager) Bricks() []port.BodyID {
	out := make([]port.BodyID, len(m.brickOrder))
	copy(out, m.brickOrder)
	return out
}

// Walls возвращает отсортированные идентификаторы стен
func (m *Manager) Walls() []port.BodyID { return sortedIDs(m.walls) }

// Hittables возвращает отсортированные идентификаторы озвучиваемых тел
func (m *Manager) Hittables() []port.BodyID { return sortedIDs(m.hittables) }

// Zones возвращает парковочные зоны
func (m *Manager) Zones() []Zone {
	out := make([]Zone, len(m.zones))
	copy(out, m.zones)
	return out
}

// GroundID возвращает тело земли
func (m *Manager) GroundID() port.BodyID { return m.groundID }

// Car возвращает объект машины из раскладки
func (m *Manager) Car() Object { return m.car }

// Object возвращает объект раскладки по имени
func (m *Manager) Object(name string) (Object, bool) {
	obj, ok := m.objects[name]
	return obj, ok
}

// KindOf возвращает класс тела
func (m *Manager) KindOf(id port.BodyID) Kind {
	if k, ok := m.kinds[id]; ok {
		return k
	}
	return KindUnknown
}

// Stats возвращает размеры наборов классификации
func (m *Manager) Stats() map[string]int {
	return map[string]int{
		"walls":     len(m.walls),
		"hittables": len(m.hittables),
		"bricks":    len(m.bricks),
		"ramps":     len(m.ramps),
		"zones":     len(m.zones),
	}
}

func sortedIDs(s bodySet) []port.BodyID {
	out := make([]port.BodyID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
