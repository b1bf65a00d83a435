package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Индексы колёс рейкаст-машины в порядке точек крепления
const (
	WheelFrontLeft  = 0
	WheelFrontRight = 1
	WheelRearLeft   = 2
	WheelRearRight  = 3

	WheelCount = 4
)

// BodyID идентифицирует тело в физическом мире
type BodyID string

// Transform описывает позу в мировых координатах
type Transform struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Body определяет интерфейс твёрдого тела физического движка
type Body interface {
	ID() BodyID

	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)

	Orientation() mgl64.Quat
	SetOrientation(q mgl64.Quat)

	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)

	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(v mgl64.Vec3)

	// WakeUp снимает тело со сна
	WakeUp()
	IsSleeping() bool

	// ApplyLocalForce прикладывает силу в локальных координатах тела до следующего шага
	ApplyLocalForce(force, localPoint mgl64.Vec3)
}

// RaycastVehicle определяет интерфейс машины на лучевых колёсах
type RaycastVehicle interface {
	Chassis() Body
	NumWheels() int

	ApplyEngineForce(force float64, wheel int)
	SetSteeringValue(value float64, wheel int)
	SetBrake(force float64, wheel int)

	SetFrictionSlip(wheel int, slip float64)
	FrictionSlip(wheel int) float64

	// ResetRaycasts очищает закэшированные результаты лучей подвески
	ResetRaycasts()

	// WheelTransform возвращает мировую позу колеса
	WheelTransform(wheel int) Transform
}

// Contact представляет контакт двух тел, возникший за шаг симуляции
type Contact struct {
	A BodyID
	B BodyID

	// ImpactVelocity - относительная скорость вдоль нормали контакта
	ImpactVelocity float64
}

// Other возвращает тело, с которым столкнулось self, и признак участия self в контакте
func (c Contact) Other(self BodyID) (BodyID, bool) {
	switch self {
	case c.A:
		return c.B, true
	case c.B:
		return c.A, true
	}
	return "", false
}

// World определяет интерфейс физического мира
type World interface {
	// Step продвигает симуляцию фиксированными шагами и возвращает контакты,
	// возникшие за этот вызов
	Step(fixedStep, elapsed float64, maxSubSteps int) []Contact

	Body(id BodyID) (Body, bool)
}
