package game

import (
	"github.com/go-gl/mathgl/mgl64"

	port "x-drive/backend/internal/core/port/out/physics"
	"x-drive/backend/internal/physics"
)

// ResetController возвращает машину в точку появления или ставит ее на колеса
type ResetController struct {
	vehicle port.RaycastVehicle
	spawn   port.Transform
	lift    float64
}

// NewResetController запоминает позу появления, она не меняется до конца сессии
func NewResetController(vehicle port.RaycastVehicle, spawn port.Transform, lift float64) *ResetController {
	return &ResetController{vehicle: vehicle, spawn: spawn, lift: lift}
}

// Spawn возвращает позу появления
func (r *ResetController) Spawn() port.Transform { return r.spawn }

func (r *ResetController) chassis() port.Body {
	if r == nil || r.vehicle == nil {
		return nil
	}
	return r.vehicle.Chassis()
}

// FullReset переносит кузов в позу появления и обнуляет скорости
func (r *ResetController) FullReset() bool {
	c := r.chassis()
	if c == nil {
		return false
	}
	c.SetPosition(r.spawn.Position)
	c.SetOrientation(r.spawn.Orientation)
	r.settle(c)
	return true
}

// Recover ставит кузов ровно с текущим курсом и поднимает на lift
func (r *ResetController) Recover() bool {
	c := r.chassis()
	if c == nil {
		return false
	}
	yaw := physics.YawFromQuat(c.Orientation())
	c.SetPosition(c.Position().Add(mgl64.Vec3{0, r.lift, 0}))
	c.SetOrientation(mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}))
	r.settle(c)
	return true
}

func (r *ResetController) settle(c port.Body) {
	c.SetVelocity(mgl64.Vec3{})
	c.SetAngularVelocity(mgl64.Vec3{})
	r.vehicle.ResetRaycasts()
	c.WakeUp()
}
