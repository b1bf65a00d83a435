package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	port "x-drive/backend/internal/core/port/out/physics"
	"x-drive/backend/internal/physics"
)

func TestResetController_FullReset(t *testing.T) {
	spawn := port.Transform{
		Position:    mgl64.Vec3{0, 1.6, -20},
		Orientation: mgl64.QuatRotate(0.785, mgl64.Vec3{0, 1, 0}),
	}

	states := []struct {
		pos, vel, ang mgl64.Vec3
		orient        mgl64.Quat
	}{
		{mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.QuatIdent()},
		{mgl64.Vec3{40, 3, 7}, mgl64.Vec3{20, -4, 1}, mgl64.Vec3{0, 5, 0}, mgl64.QuatRotate(3, mgl64.Vec3{0, 0, 1})},
		{mgl64.Vec3{-12, -1, 55}, mgl64.Vec3{0, 0, -30}, mgl64.Vec3{2, 2, 2}, mgl64.QuatRotate(1, mgl64.Vec3{1, 1, 0}.Normalize())},
	}

	for _, st := range states {
		v := newFakeVehicle()
		c := v.chassis
		c.position, c.velocity, c.angularVelocity, c.orientation = st.pos, st.vel, st.ang, st.orient
		c.sleeping = true

		r := NewResetController(v, spawn, 1.5)
		assert.True(t, r.FullReset())

		assert.Equal(t, spawn.Position, c.position)
		assert.Equal(t, spawn.Orientation, c.orientation)
		assert.Equal(t, mgl64.Vec3{}, c.velocity)
		assert.Equal(t, mgl64.Vec3{}, c.angularVelocity)
		assert.Equal(t, 1, v.resets)
		assert.False(t, c.sleeping)
	}
}

func TestResetController_Recover(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}
	for _, yaw := range []float64{0, 0.7, -2.1, 3} {
		v := newFakeVehicle()
		c := v.chassis
		c.position = mgl64.Vec3{3, 0.4, -7}
		c.orientation = mgl64.QuatRotate(yaw, up).
			Mul(mgl64.QuatRotate(0.2, mgl64.Vec3{0, 0, 1})).
			Mul(mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0}))
		c.velocity = mgl64.Vec3{1, 2, 3}
		c.angularVelocity = mgl64.Vec3{4, 5, 6}

		r := NewResetController(v, port.Transform{Orientation: mgl64.QuatIdent()}, 1.5)
		assert.True(t, r.Recover())

		assert.Equal(t, 3.0, c.position.X())
		assert.Equal(t, -7.0, c.position.Z())
		assert.InDelta(t, 1.9, c.position.Y(), 1e-12)
		assert.InDelta(t, yaw, physics.YawFromQuat(c.orientation), 1e-9, "yaw %v", yaw)
		assert.True(t, c.orientation.ApproxEqualThreshold(mgl64.QuatRotate(yaw, up), 1e-9), "roll and pitch are cleared")
		assert.Equal(t, mgl64.Vec3{}, c.velocity)
		assert.Equal(t, mgl64.Vec3{}, c.angularVelocity)
		assert.Equal(t, 1, v.resets)
		assert.Equal(t, 1, c.wakes)
	}
}

func TestResetController_NoVehicle(t *testing.T) {
	r := NewResetController(nil, port.Transform{}, 1.5)
	assert.False(t, r.FullReset())
	assert.False(t, r.Recover())

	var nilReset *ResetController
	assert.False(t, nilReset.FullReset())
}
