package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	port "x-drive/backend/internal/core/port/out/physics"
)

// WheelInfo хранит состояние одного колеса
type WheelInfo struct {
	ConnectionPoint mgl64.Vec3 // точка крепления в локальных координатах кузова
	Options         WheelOptions

	EngineForce  float64
	Steering     float64
	Brake        float64
	FrictionSlip float64

	// Результат луча подвески, кэшируется между шагами
	InContact        bool
	SuspensionLength float64
	RaycastValid     bool

	rotation float64 // накопленный угол вращения для визуализации
}

// Vehicle - упрощённая рейкаст-машина на плоской земле
type Vehicle struct {
	chassis *RigidBody
	wheels  []WheelInfo
	cfg     *Config
}

var _ port.RaycastVehicle = (*Vehicle)(nil)

// NewVehicle создает машину с колесами в указанных точках крепления
func NewVehicle(chassis *RigidBody, cfg *Config, opts WheelOptions, connectionPoints []mgl64.Vec3) *Vehicle {
	v := &Vehicle{
		chassis: chassis,
		wheels:  make([]WheelInfo, len(connectionPoints)),
		cfg:     cfg,
	}
	for i, p := range connectionPoints {
		v.wheels[i] = WheelInfo{
			ConnectionPoint:  p,
			Options:          opts,
			SuspensionLength: opts.SuspensionRestLength,
		}
	}
	return v
}

func (v *Vehicle) Chassis() port.Body { return v.chassis }

func (v *Vehicle) NumWheels() int { return len(v.wheels) }

func (v *Vehicle) valid(wheel int) bool {
	return wheel >= 0 && wheel < len(v.wheels)
}

func (v *Vehicle) ApplyEngineForce(force float64, wheel int) {
	if v.valid(wheel) {
		v.wheels[wheel].EngineForce = force
	}
}

func (v *Vehicle) SetSteeringValue(value float64, wheel int) {
	if v.valid(wheel) {
		v.wheels[wheel].Steering = value
	}
}

func (v *Vehicle) SetBrake(force float64, wheel int) {
	if v.valid(wheel) {
		v.wheels[wheel].Brake = force
	}
}

func (v *Vehicle) SetFrictionSlip(wheel int, slip float64) {
	if v.valid(wheel) {
		v.wheels[wheel].FrictionSlip = slip
	}
}

func (v *Vehicle) FrictionSlip(wheel int) float64 {
	if !v.valid(wheel) {
		return 0
	}
	return v.wheels[wheel].FrictionSlip
}

// Wheel возвращает копию состояния колеса
func (v *Vehicle) Wheel(wheel int) (WheelInfo, bool) {
	if !v.valid(wheel) {
		return WheelInfo{}, false
	}
	return v.wheels[wheel], true
}

// ResetRaycasts очищает кэш лучей подвески всех колес
func (v *Vehicle) ResetRaycasts() {
	for i := range v.wheels {
		w := &v.wheels[i]
		w.InContact = false
		w.RaycastValid = false
		w.SuspensionLength = w.Options.SuspensionRestLength
	}
}

// WheelTransform возвращает мировую позу колеса с учётом подвески и руления
func (v *Vehicle) WheelTransform(wheel int) port.Transform {
	if !v.valid(wheel) {
		return port.Transform{Orientation: mgl64.QuatIdent()}
	}
	w := v.wheels[wheel]
	q := v.chassis.orientation

	local := w.ConnectionPoint.Add(mgl64.Vec3{0, -w.SuspensionLength, 0})
	pos := v.chassis.position.Add(q.Rotate(local))

	steer := mgl64.QuatRotate(w.Steering, mgl64.Vec3{0, 1, 0})
	spin := mgl64.QuatRotate(w.rotation, mgl64.Vec3{1, 0, 0})

	return port.Transform{
		Position:    pos,
		Orientation: q.Mul(steer).Mul(spin).Normalize(),
	}
}

// forwardAxes возвращает горизонтальные оси "вперёд" и "влево" кузова
func (v *Vehicle) forwardAxes() (mgl64.Vec3, mgl64.Vec3) {
	fwd := v.chassis.orientation.Rotate(mgl64.Vec3{0, 0, 1})
	fwd = mgl64.Vec3{fwd.X(), 0, fwd.Z()}
	if fwd.Len() < 1e-9 {
		fwd = mgl64.Vec3{0, 0, 1}
	}
	fwd = fwd.Normalize()
	left := mgl64.Vec3{0, 1, 0}.Cross(fwd)
	return fwd, left
}

// SurfaceFunc возвращает высоту опорной поверхности под точкой (x, z), не выше top
type SurfaceFunc func(x, z, top float64) float64

// raycast обновляет контакт колес с опорной поверхностью
func (v *Vehicle) raycast(surface SurfaceFunc) int {
	contacts := 0
	q := v.chassis.orientation
	for i := range v.wheels {
		w := &v.wheels[i]
		o := w.Options
		conn := v.chassis.position.Add(q.Rotate(w.ConnectionPoint))
		dist := conn.Y() - surface(conn.X(), conn.Z(), conn.Y())
		maxLen := o.SuspensionRestLength + o.MaxSuspensionTravel + o.Radius

		w.RaycastValid = true
		if dist > maxLen || dist < 0 {
			w.InContact = false
			w.SuspensionLength = o.SuspensionRestLength + o.MaxSuspensionTravel
			continue
		}

		length := dist - o.Radius
		minLen := o.SuspensionRestLength - o.MaxSuspensionTravel
		if length < minLen {
			length = minLen
		}
		w.InContact = true
		w.SuspensionLength = length
		contacts++
	}
	return contacts
}

// update применяет подвеску, тягу, тормоз и сцепление перед интегрированием кузова
func (v *Vehicle) update(dt float64, surface SurfaceFunc) {
	c := v.chassis
	if c.sleeping {
		return
	}

	contacts := v.raycast(surface)
	if contacts == 0 {
		return
	}

	// Подвеска: сила пружины и демпфера на каждое колесо в контакте
	var lift float64
	for i := range v.wheels {
		w := &v.wheels[i]
		if !w.InContact {
			continue
		}
		o := w.Options
		compression := o.SuspensionRestLength - w.SuspensionLength
		force := o.SuspensionStiffness * compression

		projVel := c.velocity.Y()
		if projVel < 0 {
			force -= o.DampingCompression * projVel
		} else {
			force -= o.DampingRelaxation * projVel
		}
		force *= c.mass
		if force < 0 {
			force = 0
		}
		if force > o.MaxSuspensionForce {
			force = o.MaxSuspensionForce
		}
		lift += force
	}
	c.applyForce(mgl64.Vec3{0, lift, 0})

	fwd, left := v.forwardAxes()
	vel := c.velocity
	vF := vel.Dot(fwd)
	vL := vel.Dot(left)

	var drive, brake, frontSlip, rearSlip, steer float64
	var front, rear int
	for i := range v.wheels {
		w := v.wheels[i]
		if !w.InContact {
			continue
		}
		drive += w.EngineForce
		brake += w.Brake
		if i < 2 {
			frontSlip += w.FrictionSlip
			steer += w.Steering
			front++
		} else {
			rearSlip += w.FrictionSlip
			rear++
		}
	}

	// Отрицательная сила двигателя толкает кузов вдоль локальной +Z
	vF += -drive * c.invMass * dt

	decel := (brake*v.cfg.BrakeDeceleration + v.cfg.RollingResistance) * dt
	switch {
	case vF > decel:
		vF -= decel
	case vF < -decel:
		vF += decel
	default:
		vF = 0
	}

	if front > 0 {
		frontSlip /= float64(front)
		steer /= float64(front)
	}
	if rear > 0 {
		rearSlip /= float64(rear)
	}

	grip := (frontSlip + rearSlip) / 2
	keep := 1 - v.cfg.LateralGrip*grip*dt
	if keep < 0 {
		keep = 0
	}
	vL *= keep

	c.velocity = fwd.Mul(vF).Add(left.Mul(vL)).Add(mgl64.Vec3{0, vel.Y(), 0})

	// Рыскание по велосипедной модели, занос усиливает поворот при слабом заднем сцеплении
	wheelBase := math.Abs(v.wheels[0].ConnectionPoint.Z()-v.wheels[len(v.wheels)-1].ConnectionPoint.Z())
	if wheelBase < 1e-6 {
		wheelBase = 1
	}
	yawRate := vF * math.Tan(steer) / wheelBase
	if rearSlip > 0 && frontSlip > rearSlip {
		yawRate *= math.Sqrt(frontSlip / rearSlip)
	}

	// Выравнивание кузова: на земле сохраняется только рыскание
	yaw := YawFromQuat(c.orientation)
	upright := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
	level := v.cfg.LevelingRate * dt * float64(contacts) / float64(len(v.wheels))
	if level > 1 {
		level = 1
	}
	c.orientation = mgl64.QuatSlerp(c.orientation, upright, level).Normalize()
	c.angularVelocity = mgl64.Vec3{
		c.angularVelocity.X() * (1 - level),
		yawRate,
		c.angularVelocity.Z() * (1 - level),
	}

	for i := range v.wheels {
		w := &v.wheels[i]
		if w.Options.Radius > 0 {
			w.rotation += vF / w.Options.Radius * dt
		}
	}
}

// YawFromQuat извлекает рыскание (угол вокруг Y) в порядке YZX
func YawFromQuat(q mgl64.Quat) float64 {
	x, y, z, w := q.X(), q.Y(), q.Z(), q.W
	test := x*y + z*w
	if test > 0.499 {
		return 2 * math.Atan2(x, w)
	}
	if test < -0.499 {
		return -2 * math.Atan2(x, w)
	}
	return math.Atan2(2*y*w-2*x*z, 1-2*y*y-2*z*z)
}
