package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	port "x-drive/backend/internal/core/port/out/physics"
	"x-drive/backend/internal/physics"
	"x-drive/backend/internal/world"
)

// ChassisID - идентификатор кузова в физическом мире
const ChassisID port.BodyID = "chassis"

// Геометрия кузова и точки крепления колес
var (
	chassisHalfExtents = mgl64.Vec3{0.5, 0.23, 1.3}
	wheelConnection    = mgl64.Vec3{0.5, -0.3, 0.8}
)

// wheelConnectionPoints возвращает точки крепления в порядке индексов колес
func wheelConnectionPoints() []mgl64.Vec3 {
	x, y, z := wheelConnection.X(), wheelConnection.Y(), wheelConnection.Z()
	return []mgl64.Vec3{
		{x, y, z},
		{-x, y, z},
		{x, y, -z},
		{-x, y, -z},
	}
}

// SpawnPose вычисляет позу появления по объекту машины из раскладки
func SpawnPose(car world.Object, t Tuning) port.Transform {
	up := mgl64.Vec3{0, 1, 0}
	return port.Transform{
		Position:    car.Position.Add(mgl64.Vec3{0, t.SpawnLift, 0}),
		Orientation: mgl64.QuatRotate(car.Yaw, up).Mul(mgl64.QuatRotate(t.SpawnYaw, up)).Normalize(),
	}
}

// NewCar создает кузов с четырьмя колесами в позе появления и добавляет его в мир сцены
func NewCar(scene *world.Scene, t Tuning) (*physics.Vehicle, port.Transform, error) {
	if scene == nil || scene.World == nil || scene.Manager == nil {
		return nil, port.Transform{}, fmt.Errorf("building car: %w", world.ErrSceneEmpty)
	}
	spawn := SpawnPose(scene.Manager.Car(), t)

	chassis := physics.NewRigidBody(ChassisID, spawn.Position, spawn.Orientation, physics.BodyOptions{
		Mass:            t.Mass,
		HalfExtents:     chassisHalfExtents,
		LinearDamping:   0.15,
		AngularDamping:  0.25,
		SleepSpeedLimit: 0.1,
		SleepTimeLimit:  0.5,
	})

	vehicle := physics.NewVehicle(chassis, scene.World.Config(), physics.DefaultWheelOptions(), wheelConnectionPoints())
	vehicle.SetFrictionSlip(port.WheelFrontLeft, t.FrontFriction)
	vehicle.SetFrictionSlip(port.WheelFrontRight, t.FrontFriction)
	vehicle.SetFrictionSlip(port.WheelRearLeft, t.RearFriction)
	vehicle.SetFrictionSlip(port.WheelRearRight, t.RearFriction)

	if err := scene.World.AddVehicle(vehicle); err != nil {
		return nil, port.Transform{}, fmt.Errorf("building car: %w", err)
	}
	return vehicle, spawn, nil
}
