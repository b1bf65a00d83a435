package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(held ...Key) InputState {
	var st InputState
	for _, k := range held {
		st.Keys[k] = true
	}
	return st
}

func TestResolve_Keys(t *testing.T) {
	tn := DefaultTuning()
	r := NewResolver(tn)

	tests := []struct {
		name   string
		input  InputState
		engine float64
		steer  float64
		boost  bool
	}{
		{"no input", keys(), 0, 0, false},
		{"forward", keys(KeyForward), -600, 0, false},
		{"back", keys(KeyBack), 600, 0, false},
		{"forward wins over back", keys(KeyForward, KeyBack), -600, 0, false},
		{"boosted forward", keys(KeyForward, KeyShift), -900, 0, true},
		{"shift does not boost reverse", keys(KeyBack, KeyShift), 600, 0, true},
		{"forward and back with shift", keys(KeyForward, KeyBack, KeyShift), -900, 0, true},
		{"left", keys(KeyLeft), 0, tn.MaxSteer, false},
		{"right", keys(KeyRight), 0, -tn.MaxSteer, false},
		{"left wins over right", keys(KeyLeft, KeyRight), 0, tn.MaxSteer, false},
		{"shift alone", keys(KeyShift), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := r.Resolve(tt.input, nil)
			assert.InDelta(t, tt.engine, c.EngineForce, 1e-9)
			assert.InDelta(t, tt.steer, c.Steer, 1e-9)
			assert.Equal(t, tt.boost, c.Boost)
		})
	}
}

func TestResolve_BrakeKey(t *testing.T) {
	r := NewResolver(DefaultTuning())
	assert.True(t, r.Resolve(keys(KeyBrake), nil).Brake)
	assert.False(t, r.Resolve(keys(KeyForward), nil).Brake)
}

func pointerAt(target mgl64.Vec3, held ...Key) InputState {
	st := keys(held...)
	st.Pointer = Pointer{Active: true, Target: target}
	return st
}

func TestResolve_PointerArrival(t *testing.T) {
	r := NewResolver(DefaultTuning())
	chassis := newFakeBody(ChassisID)
	chassis.position = mgl64.Vec3{3, 0.6, -4}

	for _, yaw := range []float64{0, 0.7, math.Pi / 2, -2.5, math.Pi} {
		chassis.orientation = mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
		for _, offset := range []mgl64.Vec3{{0, 0, 0}, {1.5, 0, 0}, {0, 5, -1.2}, {-1, -3, 1}, {1.06, 0, 1.06}} {
			c := r.Resolve(pointerAt(chassis.position.Add(offset), KeyForward), chassis)
			assert.Zero(t, c.EngineForce, "yaw %v offset %v", yaw, offset)
			assert.Zero(t, c.Steer, "yaw %v offset %v", yaw, offset)
		}
	}
}

func TestResolve_PointerNavigation(t *testing.T) {
	tn := DefaultTuning()
	r := NewResolver(tn)
	chassis := newFakeBody(ChassisID)

	tests := []struct {
		name   string
		target mgl64.Vec3
		engine float64
		steer  float64
	}{
		{"straight ahead", mgl64.Vec3{0, 0, 10}, -tn.MaxForce, 0},
		{"ahead inside dead zone", mgl64.Vec3{0.5, 0, 10}, -tn.MaxForce, 0},
		{"ahead to the left", mgl64.Vec3{10, 0, 10}, -tn.MaxForce, tn.MaxSteer},
		{"ahead to the right", mgl64.Vec3{-10, 0, 10}, -tn.MaxForce, -tn.MaxSteer},
		{"small correction", mgl64.Vec3{1.5, 0, 10}, -tn.MaxForce, math.Atan2(1.5, 10)},
		{"abeam coasts", mgl64.Vec3{10, 0, 0}, 0, tn.MaxSteer},
		{"slightly behind coasts with inverted steer", mgl64.Vec3{10, 0, -2}, 0, -tn.MaxSteer},
		{"behind reverses at half force", mgl64.Vec3{0, 0, -10}, tn.MaxForce * 0.5, tn.MaxSteer},
		{"behind to the left", mgl64.Vec3{5, 0, -10}, tn.MaxForce * 0.5, -tn.MaxSteer},
		{"height is ignored", mgl64.Vec3{0, 20, 10}, -tn.MaxForce, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := r.Resolve(pointerAt(tt.target), chassis)
			assert.InDelta(t, tt.engine, c.EngineForce, 1e-9)
			assert.InDelta(t, tt.steer, c.Steer, 1e-9)
		})
	}
}

func TestResolve_PointerOverridesKeys(t *testing.T) {
	r := NewResolver(DefaultTuning())
	chassis := newFakeBody(ChassisID)

	c := r.Resolve(pointerAt(mgl64.Vec3{0, 0, 10}, KeyBack, KeyShift, KeyRight, KeyBrake), chassis)
	assert.InDelta(t, -600, c.EngineForce, 1e-9)
	assert.Zero(t, c.Steer)
	assert.False(t, c.Boost, "boost is forced off while navigating by pointer")
	assert.True(t, c.Brake)
}

func TestResolve_PointerWithoutChassis(t *testing.T) {
	r := NewResolver(DefaultTuning())
	c := r.Resolve(pointerAt(mgl64.Vec3{0, 0, 10}, KeyForward), nil)
	assert.Equal(t, Control{}, c)
}

func TestResolve_PointerFollowsHeading(t *testing.T) {
	r := NewResolver(DefaultTuning())
	chassis := newFakeBody(ChassisID)
	chassis.orientation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})

	// Курс π/2 смотрит вдоль +X
	c := r.Resolve(pointerAt(mgl64.Vec3{10, 0, 0}), chassis)
	assert.InDelta(t, -600, c.EngineForce, 1e-9)
	assert.InDelta(t, 0, c.Steer, 1e-9)
}

func TestInputStore_KeyAliases(t *testing.T) {
	s := NewInputStore()

	assert.True(t, s.SetKey("W", true))
	assert.True(t, s.SetKey("ArrowUp", true))
	assert.True(t, s.Snapshot().Held(KeyForward))

	s.SetKey("w", false)
	assert.True(t, s.Snapshot().Held(KeyForward), "arrow key still held")

	s.SetKey("arrowup", false)
	assert.False(t, s.Snapshot().Held(KeyForward))

	assert.False(t, s.SetKey("q", true))
	assert.Equal(t, InputState{}, s.Snapshot())
}

func TestInputStore_Requests(t *testing.T) {
	s := NewInputStore()

	s.SetKey("r", true)
	s.SetKey("enter", true)
	s.SetKey("enter", true) // автоповтор не подтверждает повторно
	s.RequestStart()

	req := s.takeRequests()
	assert.True(t, req.recovery)
	assert.True(t, req.confirm)
	assert.True(t, req.start)
	assert.Equal(t, requests{}, s.takeRequests())

	s.SetKey("enter", false)
	s.SetKey("enter", true)
	assert.True(t, s.takeRequests().confirm)
}

func TestInputStore_ReleaseAll(t *testing.T) {
	s := NewInputStore()
	s.SetKey("a", true)
	s.SetPointer(true, mgl64.Vec3{1, 2, 3})

	st := s.Snapshot()
	require.True(t, st.Held(KeyLeft))
	require.True(t, st.Pointer.Active)

	s.ReleaseAll()
	assert.Equal(t, InputState{}, s.Snapshot())
}

func TestParseKey(t *testing.T) {
	k, ok := ParseKey("Space")
	require.True(t, ok)
	assert.Equal(t, KeyBrake, k)

	_, ok = ParseKey("x")
	assert.False(t, ok)
}
