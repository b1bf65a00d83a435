package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/audio"
	port "x-drive/backend/internal/core/port/out/physics"
)

type fakeBody struct {
	id              port.BodyID
	position        mgl64.Vec3
	orientation     mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
	sleeping        bool
	wakes           int
	forces          []mgl64.Vec3
}

func newFakeBody(id port.BodyID) *fakeBody {
	return &fakeBody{id: id, orientation: mgl64.QuatIdent()}
}

func (b *fakeBody) ID() port.BodyID                 { return b.id }
func (b *fakeBody) Position() mgl64.Vec3            { return b.position }
func (b *fakeBody) SetPosition(p mgl64.Vec3)        { b.position = p }
func (b *fakeBody) Orientation() mgl64.Quat         { return b.orientation }
func (b *fakeBody) SetOrientation(q mgl64.Quat)     { b.orientation = q }
func (b *fakeBody) Velocity() mgl64.Vec3            { return b.velocity }
func (b *fakeBody) SetVelocity(v mgl64.Vec3)        { b.velocity = v }
func (b *fakeBody) AngularVelocity() mgl64.Vec3     { return b.angularVelocity }
func (b *fakeBody) SetAngularVelocity(v mgl64.Vec3) { b.angularVelocity = v }
func (b *fakeBody) IsSleeping() bool                { return b.sleeping }
func (b *fakeBody) ApplyLocalForce(f, _ mgl64.Vec3) { b.forces = append(b.forces, f) }
func (b *fakeBody) WakeUp() {
	b.sleeping = false
	b.wakes++
}

type fakeVehicle struct {
	chassis *fakeBody
	engine  [port.WheelCount]float64
	steer   [port.WheelCount]float64
	brake   [port.WheelCount]float64
	slip    [port.WheelCount]float64
	resets  int
}

func newFakeVehicle() *fakeVehicle {
	v := &fakeVehicle{chassis: newFakeBody(ChassisID)}
	v.slip = [port.WheelCount]float64{6, 6, 4, 4}
	return v
}

func (v *fakeVehicle) Chassis() port.Body                        { return v.chassis }
func (v *fakeVehicle) NumWheels() int                            { return port.WheelCount }
func (v *fakeVehicle) ApplyEngineForce(force float64, wheel int) { v.engine[wheel] = force }
func (v *fakeVehicle) SetSteeringValue(value float64, wheel int) { v.steer[wheel] = value }
func (v *fakeVehicle) SetBrake(force float64, wheel int)         { v.brake[wheel] = force }
func (v *fakeVehicle) SetFrictionSlip(wheel int, slip float64)   { v.slip[wheel] = slip }
func (v *fakeVehicle) FrictionSlip(wheel int) float64            { return v.slip[wheel] }
func (v *fakeVehicle) ResetRaycasts()                            { v.resets++ }
func (v *fakeVehicle) WheelTransform(int) port.Transform {
	return port.Transform{Orientation: mgl64.QuatIdent()}
}

// fakeHandle звучит после Play, пока тест не вызовет finish или Stop
type fakeHandle struct {
	playing bool
	plays   int
	stops   int
	volume  float64
	volumes int
}

func (h *fakeHandle) Play() {
	h.playing = true
	h.plays++
}

func (h *fakeHandle) Stop() {
	h.playing = false
	h.stops++
}

func (h *fakeHandle) SetVolume(v float64) {
	h.volume = v
	h.volumes++
}

func (h *fakeHandle) IsPlaying() bool { return h.playing }
func (h *fakeHandle) finish()         { h.playing = false }

type fakeEmitter struct {
	fakeHandle
	buffers  int
	buffer   int
	position mgl64.Vec3
}

func (e *fakeEmitter) Buffers() int             { return e.buffers }
func (e *fakeEmitter) SetBuffer(i int)          { e.buffer = i }
func (e *fakeEmitter) SetPosition(p mgl64.Vec3) { e.position = p }

// fakeSounds связывает все именованные каналы с fakeHandle
func fakeSounds() (*audio.Set, map[audio.Channel]*fakeHandle) {
	set := audio.NewSet()
	handles := make(map[audio.Channel]*fakeHandle)
	for _, c := range audio.NamedChannels() {
		h := &fakeHandle{volume: audio.SchemaOf(c).Volume}
		handles[c] = h
		set.Bind(c, h)
	}
	return set, handles
}

type fakeSets struct {
	walls, hittables, bricks map[port.BodyID]bool
}

func (s fakeSets) IsWall(id port.BodyID) bool     { return s.walls[id] }
func (s fakeSets) IsHittable(id port.BodyID) bool { return s.hittables[id] }
func (s fakeSets) IsBrick(id port.BodyID) bool    { return s.bricks[id] }

type fakeBodies map[port.BodyID]*fakeBody

func (b fakeBodies) Body(id port.BodyID) (port.Body, bool) {
	body, ok := b[id]
	if !ok {
		return nil, false
	}
	return body, true
}
