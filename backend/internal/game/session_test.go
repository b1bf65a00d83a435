package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x-drive/backend/internal/audio"
	"x-drive/backend/internal/world"
)

type recordedEvent struct {
	session, kind, subject string
}

type fakeTelemetry struct {
	events []recordedEvent
}

func (f *fakeTelemetry) Record(sessionID, kind, subject string, _ mgl64.Vec3, _ float64) {
	f.events = append(f.events, recordedEvent{sessionID, kind, subject})
}

type sessionFixture struct {
	session   *Session
	remote    *audio.Remote
	telemetry *fakeTelemetry
}

func newTestSession(t *testing.T) *sessionFixture {
	t.Helper()

	scene, err := world.NewFactory(nil, world.DefaultBuildConfig(), zerolog.Nop()).Build(world.DefaultLayout())
	require.NoError(t, err)

	clock := &Clock{}
	remote := audio.NewRemote(clock.Now, audio.BrickBufferCount)
	tel := &fakeTelemetry{}

	s, err := NewSession(scene, Options{
		ID:        "test",
		Clock:     clock,
		Sounds:    remote.Set(),
		Bricks:    audio.NewBrickVoice(remote.Brick(), audio.FixedSelector(0)),
		Telemetry: tel,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return &sessionFixture{session: s, remote: remote, telemetry: tel}
}

func (f *sessionFixture) run(seconds float64) Frame {
	var frame Frame
	for i := 0; i < int(math.Round(seconds*60)); i++ {
		frame = f.session.Tick(1.0 / 60)
	}
	return frame
}

func hasEvent(events []Event, kind string) (Event, bool) {
	for _, e := range events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func TestSession_SpawnPose(t *testing.T) {
	f := newTestSession(t)
	spawn := f.session.Spawn()

	assert.InDelta(t, 1.6, spawn.Position.Y(), 1e-9)
	assert.Equal(t, -20.0, spawn.Position.Z())
	assert.Equal(t, spawn.Position, f.session.Vehicle().Chassis().Position())
}

func TestSession_SettlesAndReportsFrame(t *testing.T) {
	f := newTestSession(t)

	frame := f.run(3)

	assert.InDelta(t, 3.0, frame.Time, 1e-6)
	assert.Greater(t, frame.Chassis.Position.Y(), 0.4)
	assert.Less(t, frame.Chassis.Position.Y(), 1.0)
	assert.Less(t, frame.Speed, StandstillSpeed)
	assert.Len(t, frame.Bricks, 10)
	assert.Empty(t, frame.Zone)
	for _, w := range frame.Wheels {
		assert.Less(t, w.Position.Y(), frame.Chassis.Position.Y())
	}
}

func TestSession_ElapsedIsClamped(t *testing.T) {
	f := newTestSession(t)

	frame := f.session.Tick(1)
	assert.InDelta(t, 1.0/30, frame.Time, 1e-12)
	assert.Equal(t, uint64(2), frame.Steps)

	frame = f.session.Tick(-1)
	assert.InDelta(t, 1.0/30, frame.Time, 1e-12, "negative elapsed does not move the clock")
}

func TestSession_StartEngine(t *testing.T) {
	f := newTestSession(t)

	f.session.Input().RequestStart()
	f.session.Tick(1.0 / 60)
	f.session.Tick(1.0 / 60)

	var started []string
	for _, e := range f.remote.Drain() {
		if e.Action == audio.ActionPlay {
			started = append(started, e.Channel)
		}
	}
	assert.Equal(t, []string{"engine", "accelStartThree"}, started, "engine starts once")
	assert.True(t, f.session.Started())
}

func TestSession_LaunchAndDrive(t *testing.T) {
	f := newTestSession(t)
	f.run(3)
	start := f.session.Vehicle().Chassis().Position()

	f.session.Input().SetKey("w", true)
	frame := f.session.Tick(1.0 / 60)
	_, launched := hasEvent(frame.Events, EventLaunch)
	assert.True(t, launched)
	assert.Equal(t, -600.0, frame.Control.EngineForce)

	frame = f.run(1.5)
	assert.Greater(t, frame.Speed, 2.0)

	// Курс появления π/4: машина уходит в +X и +Z
	moved := frame.Chassis.Position.Sub(start)
	assert.Greater(t, moved.X(), 1.0)
	assert.Greater(t, moved.Z(), 1.0)
}

func TestSession_WallCollisionResets(t *testing.T) {
	f := newTestSession(t)
	f.run(1)

	chassis := f.session.Vehicle().Chassis()
	chassis.SetPosition(mgl64.Vec3{39.3, 0.7, 0})
	chassis.SetVelocity(mgl64.Vec3{8, 0, 0})

	frame := f.session.Tick(1.0 / 60)

	e, ok := hasEvent(frame.Events, EventWallReset)
	require.True(t, ok)
	assert.Equal(t, "wall_east", e.Subject)
	assert.Equal(t, f.session.Spawn().Position, chassis.Position())
	assert.Equal(t, f.session.Spawn().Orientation, chassis.Orientation())
	assert.Equal(t, mgl64.Vec3{}, chassis.Velocity())
	assert.Contains(t, f.telemetry.events, recordedEvent{"test", EventWallReset, "wall_east"})
}

func TestSession_Recovery(t *testing.T) {
	f := newTestSession(t)
	f.run(2)

	f.session.Input().SetKey("r", true)
	frame := f.session.Tick(1.0 / 60)

	e, ok := hasEvent(frame.Events, EventRecovery)
	require.True(t, ok)
	assert.Greater(t, e.Position.Y(), 1.8)
	assert.Greater(t, frame.Chassis.Position.Y(), 1.8)
}

func TestSession_ParkingZone(t *testing.T) {
	f := newTestSession(t)
	f.run(1)

	chassis := f.session.Vehicle().Chassis()
	chassis.SetPosition(mgl64.Vec3{-20, 0.7, -10})
	frame := f.session.Tick(1.0 / 60)

	assert.Equal(t, "parking_gmail", frame.Zone)
	_, entered := hasEvent(frame.Events, EventZoneEnter)
	assert.True(t, entered)

	f.session.Input().SetKey("enter", true)
	frame = f.session.Tick(1.0 / 60)
	e, ok := hasEvent(frame.Events, EventOpenLink)
	require.True(t, ok)
	assert.Equal(t, "mailto:hello@example.com", e.URL)
}

func TestNewSession_RequiresScene(t *testing.T) {
	_, err := NewSession(nil, Options{})
	assert.ErrorIs(t, err, world.ErrSceneEmpty)
}
