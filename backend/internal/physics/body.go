package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	port "x-drive/backend/internal/core/port/out/physics"
)

// BodyOptions описывает параметры твёрдого тела-коробки
type BodyOptions struct {
	Mass            float64    // 0 - статичное тело
	HalfExtents     mgl64.Vec3 // полуразмеры коробки
	LinearDamping   float64
	AngularDamping  float64
	Restitution     float64
	SleepSpeedLimit float64
	SleepTimeLimit  float64
}

// RigidBody - тело-коробка движка, реализует port.Body
type RigidBody struct {
	id BodyID

	mass    float64
	invMass float64
	invI    float64 // скалярный обратный момент инерции

	halfExtents mgl64.Vec3

	position        mgl64.Vec3
	orientation     mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3

	force  mgl64.Vec3
	torque mgl64.Vec3

	linearDamping  float64
	angularDamping float64
	restitution    float64

	sleepSpeedLimit float64
	sleepTimeLimit  float64
	sleeping        bool
	idleTime        float64
}

// BodyID - псевдоним идентификатора порта для краткости
type BodyID = port.BodyID

var _ port.Body = (*RigidBody)(nil)

// NewRigidBody создает тело в заданной позе
func NewRigidBody(id BodyID, position mgl64.Vec3, orientation mgl64.Quat, opts BodyOptions) *RigidBody {
	b := &RigidBody{
		id:              id,
		mass:            opts.Mass,
		halfExtents:     opts.HalfExtents,
		position:        position,
		orientation:     orientation.Normalize(),
		linearDamping:   opts.LinearDamping,
		angularDamping:  opts.AngularDamping,
		restitution:     opts.Restitution,
		sleepSpeedLimit: opts.SleepSpeedLimit,
		sleepTimeLimit:  opts.SleepTimeLimit,
	}

	if opts.Mass > 0 {
		b.invMass = 1 / opts.Mass
		h := opts.HalfExtents
		inertia := opts.Mass * (h.Dot(h)) / 3
		if inertia > 0 {
			b.invI = 1 / inertia
		}
	}

	return b
}

func (b *RigidBody) ID() BodyID { return b.id }

func (b *RigidBody) Position() mgl64.Vec3     { return b.position }
func (b *RigidBody) SetPosition(p mgl64.Vec3) { b.position = p }

func (b *RigidBody) Orientation() mgl64.Quat     { return b.orientation }
func (b *RigidBody) SetOrientation(q mgl64.Quat) { b.orientation = q.Normalize() }

func (b *RigidBody) Velocity() mgl64.Vec3     { return b.velocity }
func (b *RigidBody) SetVelocity(v mgl64.Vec3) { b.velocity = v }

func (b *RigidBody) AngularVelocity() mgl64.Vec3     { return b.angularVelocity }
func (b *RigidBody) SetAngularVelocity(v mgl64.Vec3) { b.angularVelocity = v }

// Mass возвращает массу тела (0 для статичных)
func (b *RigidBody) Mass() float64 { return b.mass }

// HalfExtents возвращает полуразмеры коробки
func (b *RigidBody) HalfExtents() mgl64.Vec3 { return b.halfExtents }

// IsStatic сообщает, что тело не двигается симуляцией
func (b *RigidBody) IsStatic() bool { return b.invMass == 0 }

// WakeUp снимает тело со сна и сбрасывает счётчик простоя
func (b *RigidBody) WakeUp() {
	b.sleeping = false
	b.idleTime = 0
}

func (b *RigidBody) IsSleeping() bool { return b.sleeping }

// ApplyLocalForce переводит силу в мировые координаты и копит её до следующего шага
func (b *RigidBody) ApplyLocalForce(force, localPoint mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	worldForce := b.orientation.Rotate(force)
	b.force = b.force.Add(worldForce)

	if localPoint.Len() > 0 {
		r := b.orientation.Rotate(localPoint)
		b.torque = b.torque.Add(r.Cross(worldForce))
	}
}

// applyForce копит силу в мировых координатах в центре масс
func (b *RigidBody) applyForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// integrate выполняет полунеявный шаг Эйлера
func (b *RigidBody) integrate(dt float64, gravity mgl64.Vec3) {
	if b.IsStatic() || b.sleeping {
		b.force = mgl64.Vec3{}
		b.torque = mgl64.Vec3{}
		return
	}

	acc := gravity.Add(b.force.Mul(b.invMass))
	b.velocity = b.velocity.Add(acc.Mul(dt))
	b.angularVelocity = b.angularVelocity.Add(b.torque.Mul(b.invI * dt))

	b.velocity = b.velocity.Mul(math.Pow(1-b.linearDamping, dt))
	b.angularVelocity = b.angularVelocity.Mul(math.Pow(1-b.angularDamping, dt))

	b.position = b.position.Add(b.velocity.Mul(dt))

	w := mgl64.Quat{W: 0, V: b.angularVelocity}
	spin := w.Mul(b.orientation).Scale(0.5 * dt)
	b.orientation = b.orientation.Add(spin).Normalize()

	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// updateSleep усыпляет тело после простоя дольше sleepTimeLimit
func (b *RigidBody) updateSleep(dt float64) {
	if b.IsStatic() || b.sleeping || b.sleepSpeedLimit <= 0 {
		return
	}

	speedSq := b.velocity.Dot(b.velocity) + b.angularVelocity.Dot(b.angularVelocity)
	if speedSq < b.sleepSpeedLimit*b.sleepSpeedLimit {
		b.idleTime += dt
		if b.idleTime > b.sleepTimeLimit {
			b.sleeping = true
			b.velocity = mgl64.Vec3{}
			b.angularVelocity = mgl64.Vec3{}
		}
		return
	}
	b.idleTime = 0
}

// aabb возвращает центр и полуразмеры ограничивающего параллелепипеда с учетом поворота
func (b *RigidBody) aabb() (mgl64.Vec3, mgl64.Vec3) {
	h := b.halfExtents
	ex := b.orientation.Rotate(mgl64.Vec3{h.X(), 0, 0})
	ey := b.orientation.Rotate(mgl64.Vec3{0, h.Y(), 0})
	ez := b.orientation.Rotate(mgl64.Vec3{0, 0, h.Z()})

	extents := mgl64.Vec3{
		math.Abs(ex.X()) + math.Abs(ey.X()) + math.Abs(ez.X()),
		math.Abs(ex.Y()) + math.Abs(ey.Y()) + math.Abs(ez.Y()),
		math.Abs(ex.Z()) + math.Abs(ey.Z()) + math.Abs(ez.Z()),
	}
	return b.position, extents
}
