package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	port "x-drive/backend/internal/core/port/out/physics"
)

// ErrDuplicateBody возвращается при повторной регистрации идентификатора
var ErrDuplicateBody = errors.New("body already registered")

// minBounceSpeed - скорость отскока, ниже которой тело просто ложится на опору
const minBounceSpeed = 0.2

type staticBox struct {
	body     *RigidBody
	drivable bool // наклонная поверхность вдоль локальной +Z, видна лучам колёс
}

type pairKey struct {
	a, b BodyID
}

// World - физический мир с плоской землёй, статичными коробками и динамическими телами
type World struct {
	cfg     *Config
	gravity mgl64.Vec3

	ground   *RigidBody
	bodies   map[BodyID]*RigidBody
	dynamics []*RigidBody
	statics  []staticBox
	vehicles []*Vehicle
	chassis  map[BodyID]bool

	accumulator float64
	time        float64
	steps       uint64

	contacts []port.Contact
	seen     map[pairKey]int
}

var _ port.World = (*World)(nil)

// NewWorld создает мир с землёй под указанным идентификатором
func NewWorld(cfg *Config, groundID BodyID) *World {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ground := NewRigidBody(groundID, mgl64.Vec3{0, cfg.GroundHeight, 0}, mgl64.QuatIdent(), BodyOptions{
		Restitution: cfg.GroundRestitution,
	})

	return &World{
		cfg:     cfg,
		gravity: mgl64.Vec3{0, cfg.GravityY, 0},
		ground:  ground,
		bodies:  map[BodyID]*RigidBody{groundID: ground},
		chassis: make(map[BodyID]bool),
		seen:    make(map[pairKey]int),
	}
}

func (w *World) register(b *RigidBody) error {
	if _, exists := w.bodies[b.id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, b.id)
	}
	w.bodies[b.id] = b
	return nil
}

// AddStatic добавляет неподвижную коробку
func (w *World) AddStatic(b *RigidBody) error {
	if err := w.register(b); err != nil {
		return err
	}
	w.statics = append(w.statics, staticBox{body: b})
	return nil
}

// AddRamp добавляет неподвижный наклонный въезд: колёса едут по его поверхности
func (w *World) AddRamp(b *RigidBody) error {
	if err := w.register(b); err != nil {
		return err
	}
	w.statics = append(w.statics, staticBox{body: b, drivable: true})
	return nil
}

// AddDynamic добавляет подвижное тело
func (w *World) AddDynamic(b *RigidBody) error {
	if b.IsStatic() {
		return w.AddStatic(b)
	}
	if err := w.register(b); err != nil {
		return err
	}
	w.dynamics = append(w.dynamics, b)
	return nil
}

// AddVehicle добавляет машину вместе с кузовом
func (w *World) AddVehicle(v *Vehicle) error {
	if err := w.AddDynamic(v.chassis); err != nil {
		return err
	}
	w.vehicles = append(w.vehicles, v)
	w.chassis[v.chassis.id] = true
	return nil
}

func (w *World) Body(id BodyID) (port.Body, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return nil, false
	}
	return b, true
}

// Config возвращает настройки мира
func (w *World) Config() *Config { return w.cfg }

// GroundID возвращает идентификатор земли
func (w *World) GroundID() BodyID { return w.ground.id }

// Time возвращает накопленное время симуляции
func (w *World) Time() float64 { return w.time }

// Steps возвращает число выполненных внутренних шагов
func (w *World) Steps() uint64 { return w.steps }

// Step продвигает мир фиксированными шагами. При elapsed == 0 выполняется ровно
// один шаг, иначе время копится и расходуется не более чем maxSubSteps шагами.
func (w *World) Step(fixedStep, elapsed float64, maxSubSteps int) []port.Contact {
	w.contacts = nil
	clear(w.seen)

	if fixedStep <= 0 {
		return nil
	}

	if elapsed == 0 {
		w.internalStep(fixedStep)
		return w.contacts
	}

	w.accumulator += elapsed
	substeps := 0
	for w.accumulator >= fixedStep && substeps < maxSubSteps {
		w.internalStep(fixedStep)
		w.accumulator -= fixedStep
		substeps++
	}
	w.accumulator = math.Mod(w.accumulator, fixedStep)

	return w.contacts
}

func (w *World) internalStep(dt float64) {
	for _, v := range w.vehicles {
		v.update(dt, w.SurfaceHeight)
	}

	for _, b := range w.dynamics {
		b.integrate(dt, w.gravity)
	}

	for i, a := range w.dynamics {
		w.collideGround(a, dt)

		for _, s := range w.statics {
			if s.drivable && w.chassis[a.id] {
				continue
			}
			w.collideStatic(a, s.body)
		}

		for _, b := range w.dynamics[i+1:] {
			w.collideDynamic(a, b)
		}
	}

	for _, b := range w.dynamics {
		b.updateSleep(dt)
	}

	w.time += dt
	w.steps++
}

// SurfaceHeight возвращает высоту опоры под (x, z): землю или въезд, лежащий не выше top
func (w *World) SurfaceHeight(x, z, top float64) float64 {
	best := w.cfg.GroundHeight
	for _, s := range w.statics {
		if !s.drivable {
			continue
		}
		b := s.body
		h := b.halfExtents
		local := b.orientation.Conjugate().Rotate(mgl64.Vec3{x, 0, z}.Sub(mgl64.Vec3{b.position.X(), 0, b.position.Z()}))
		if math.Abs(local.X()) > h.X() || math.Abs(local.Z()) > h.Z() || h.Z() == 0 {
			continue
		}
		height := b.position.Y() - h.Y() + (local.Z()+h.Z())/(2*h.Z())*2*h.Y()
		if height <= top && height > best {
			best = height
		}
	}
	return best
}

func (w *World) record(a, b BodyID, impact float64) {
	key := pairKey{a, b}
	if b < a {
		key = pairKey{b, a}
	}
	if idx, ok := w.seen[key]; ok {
		if math.Abs(impact) > math.Abs(w.contacts[idx].ImpactVelocity) {
			w.contacts[idx].ImpactVelocity = impact
		}
		return
	}
	w.seen[key] = len(w.contacts)
	w.contacts = append(w.contacts, port.Contact{A: a, B: b, ImpactVelocity: impact})
}

func (w *World) collideGround(b *RigidBody, dt float64) {
	if b.sleeping {
		return
	}
	center, ext := b.aabb()
	penetration := w.cfg.GroundHeight - (center.Y() - ext.Y())
	if penetration < -w.cfg.ContactSlop {
		return
	}

	vn := b.velocity.Y()
	w.record(b.id, w.ground.id, vn)

	if penetration > 0 {
		b.position = b.position.Add(mgl64.Vec3{0, penetration, 0})
	}

	vy := vn
	if vn < 0 {
		vy = -vn * w.cfg.GroundRestitution
		if vy < minBounceSpeed {
			vy = 0
		}
	}

	horizontal := mgl64.Vec3{b.velocity.X(), 0, b.velocity.Z()}
	if speed := horizontal.Len(); speed > 0 && !w.chassis[b.id] {
		slow := w.cfg.GroundFriction * dt
		if slow >= speed {
			horizontal = mgl64.Vec3{}
		} else {
			horizontal = horizontal.Mul((speed - slow) / speed)
		}
		b.angularVelocity = b.angularVelocity.Mul(0.9)
	}
	b.velocity = mgl64.Vec3{horizontal.X(), vy, horizontal.Z()}
}

// overlap возвращает нормаль от b к a по оси наименьшего проникновения и глубину
func overlap(a, b *RigidBody) (mgl64.Vec3, float64, bool) {
	ca, ea := a.aabb()
	cb, eb := b.aabb()
	d := ca.Sub(cb)

	best := math.Inf(1)
	var normal mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		pen := ea[axis] + eb[axis] - math.Abs(d[axis])
		if pen <= 0 {
			return mgl64.Vec3{}, 0, false
		}
		if pen < best {
			best = pen
			normal = mgl64.Vec3{}
			if d[axis] >= 0 {
				normal[axis] = 1
			} else {
				normal[axis] = -1
			}
		}
	}
	return normal, best, true
}

func (w *World) collideStatic(a, s *RigidBody) {
	if a.sleeping {
		return
	}
	n, pen, ok := overlap(a, s)
	if !ok {
		return
	}

	vn := a.velocity.Dot(n)
	w.record(a.id, s.id, vn)

	a.position = a.position.Add(n.Mul(pen))
	if vn < 0 {
		e := math.Max(a.restitution, s.restitution)
		a.velocity = a.velocity.Sub(n.Mul((1 + e) * vn))
	}
}

func (w *World) collideDynamic(a, b *RigidBody) {
	if a.sleeping && b.sleeping {
		return
	}
	n, pen, ok := overlap(a, b)
	if !ok {
		return
	}

	vn := a.velocity.Sub(b.velocity).Dot(n)
	w.record(a.id, b.id, vn)

	a.WakeUp()
	b.WakeUp()

	total := a.invMass + b.invMass
	if total == 0 {
		return
	}
	a.position = a.position.Add(n.Mul(pen * a.invMass / total))
	b.position = b.position.Sub(n.Mul(pen * b.invMass / total))

	if vn < 0 {
		e := math.Max(a.restitution, b.restitution)
		j := -(1 + e) * vn / total
		a.velocity = a.velocity.Add(n.Mul(j * a.invMass))
		b.velocity = b.velocity.Sub(n.Mul(j * b.invMass))
	}
}
