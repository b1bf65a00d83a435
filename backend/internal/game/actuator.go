package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/audio"
	port "x-drive/backend/internal/core/port/out/physics"
)

// Actuator передает управление рейкаст-машине перед шагом физики
type Actuator struct {
	vehicle  port.RaycastVehicle
	tuning   Tuning
	sounds   *audio.Set
	feedback *AudioFeedback
	skid     *Cooldown
	rec      *Recorder
}

func NewActuator(vehicle port.RaycastVehicle, t Tuning, sounds *audio.Set, feedback *AudioFeedback, rec *Recorder) *Actuator {
	return &Actuator{
		vehicle:  vehicle,
		tuning:   t,
		sounds:   sounds,
		feedback: feedback,
		skid:     NewCooldown(SkidCooldown),
		rec:      rec,
	}
}

// Apply применяет управление c в момент now. Без машины ничего не делает.
func (a *Actuator) Apply(c Control, now float64) {
	if a == nil || a.vehicle == nil {
		return
	}
	chassis := a.vehicle.Chassis()
	if chassis == nil {
		return
	}
	v := a.vehicle
	t := a.tuning

	chassis.WakeUp()

	v.ApplyEngineForce(c.EngineForce, port.WheelRearLeft)
	v.ApplyEngineForce(c.EngineForce, port.WheelRearRight)
	v.SetSteeringValue(c.Steer, port.WheelFrontLeft)
	v.SetSteeringValue(c.Steer, port.WheelFrontRight)

	speed := chassis.Velocity().Len()

	if c.Steer != 0 && speed > TurnSkidMinSpeed && a.skid.Ready(now) && a.sounds.Idle(audio.ChannelSkid) {
		a.sounds.Play(audio.ChannelSkid)
		a.skid.Stamp(now)
		a.rec.Emit(Event{Kind: EventSkid, Position: chassis.Position(), Speed: speed})
	}

	if c.Brake {
		v.SetBrake(t.BrakeForce, port.WheelFrontLeft)
		v.SetBrake(t.BrakeForce, port.WheelFrontRight)
		v.SetFrictionSlip(port.WheelRearLeft, t.DriftFriction)
		v.SetFrictionSlip(port.WheelRearRight, t.DriftFriction)
		if a.sounds.Idle(audio.ChannelDrift) {
			a.sounds.Play(audio.ChannelDrift)
			a.rec.Emit(Event{Kind: EventDriftStart, Position: chassis.Position(), Speed: speed})
		}
	} else {
		for wheel := 0; wheel < port.WheelCount; wheel++ {
			v.SetBrake(0, wheel)
		}
		v.SetFrictionSlip(port.WheelRearLeft, t.RearFriction)
		v.SetFrictionSlip(port.WheelRearRight, t.RearFriction)
		if a.sounds.IsPlaying(audio.ChannelDrift) {
			a.sounds.Stop(audio.ChannelDrift)
		}
	}

	// Дополнительная прижимная сила в центре кузова
	chassis.ApplyLocalForce(mgl64.Vec3{0, -t.DownForce, 0}, mgl64.Vec3{})

	a.feedback.Update(c.EngineForce, speed, c.Boost)
}
