package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"x-drive/backend/internal/audio"
	"x-drive/backend/internal/config"
	port "x-drive/backend/internal/core/port/out/physics"
	"x-drive/backend/internal/physics"
	"x-drive/backend/internal/world"
)

// SimSettings - параметры шага физики
type SimSettings struct {
	FixedStep   float64
	MaxElapsed  float64
	MaxSubSteps int
}

func DefaultSimSettings() SimSettings {
	return SimSettings{FixedStep: 1.0 / 60.0, MaxElapsed: 1.0 / 30.0, MaxSubSteps: 10}
}

// SimSettingsFrom переносит параметры шага из конфигурации
func SimSettingsFrom(c config.SimConfig) SimSettings {
	return SimSettings{FixedStep: c.FixedStep, MaxElapsed: c.MaxElapsed, MaxSubSteps: c.MaxSubSteps}
}

// TelemetrySink принимает события поездки
type TelemetrySink interface {
	Record(sessionID, kind, subject string, position mgl64.Vec3, speed float64)
}

// Options - зависимости сессии. Пустые поля заменяются значениями по умолчанию.
type Options struct {
	ID        string
	Tuning    Tuning
	Sim       SimSettings
	Clock     *Clock
	Sounds    *audio.Set
	Bricks    *audio.BrickVoice
	Telemetry TelemetrySink
	Logger    zerolog.Logger
}

// Pose - поза для кадра, поворот в порядке x, y, z, w
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
}

// PoseOf переводит трансформацию в позу кадра
func PoseOf(t port.Transform) Pose {
	q := t.Orientation
	return Pose{Position: t.Position, Rotation: [4]float64{q.X(), q.Y(), q.Z(), q.W}}
}

// BodyPose - поза именованного тела
type BodyPose struct {
	ID string `json:"id"`
	Pose
	Sleeping bool `json:"sleeping,omitempty"`
}

// Frame - результат одного тика
type Frame struct {
	Time    float64               `json:"time"`
	Steps   uint64                `json:"steps"`
	Chassis Pose                  `json:"chassis"`
	Wheels  [port.WheelCount]Pose `json:"wheels"`
	Bricks  []BodyPose            `json:"bricks"`
	Control Control               `json:"control"`
	Speed   float64               `json:"speed"`
	Zone    string                `json:"zone,omitempty"`
	Events  []Event               `json:"events,omitempty"`
}

// Session - одна поездка: мир, машина, звук и состояние ядра управления
type Session struct {
	id      string
	scene   *world.Scene
	vehicle *physics.Vehicle
	sim     SimSettings
	clock   *Clock
	input   *InputStore
	sounds  *audio.Set

	resolver   Resolver
	actuator   *Actuator
	classifier *Classifier
	reset      *ResetController
	parking    *ParkingTracker
	rec        *Recorder

	telemetry TelemetrySink
	logger    zerolog.Logger
	started   bool
}

// NewSession создает машину в сцене и связывает компоненты ядра
func NewSession(scene *world.Scene, opts Options) (*Session, error) {
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	if opts.Sim.FixedStep <= 0 {
		opts.Sim = DefaultSimSettings()
	}
	if opts.Clock == nil {
		opts.Clock = &Clock{}
	}

	vehicle, spawn, err := NewCar(scene, opts.Tuning)
	if err != nil {
		return nil, err
	}

	rec := &Recorder{}
	reset := NewResetController(vehicle, spawn, opts.Tuning.RecoveryLift)
	feedback := NewAudioFeedback(opts.Sounds, rec)

	s := &Session{
		id:         opts.ID,
		scene:      scene,
		vehicle:    vehicle,
		sim:        opts.Sim,
		clock:      opts.Clock,
		input:      NewInputStore(),
		sounds:     opts.Sounds,
		resolver:   NewResolver(opts.Tuning),
		actuator:   NewActuator(vehicle, opts.Tuning, opts.Sounds, feedback, rec),
		classifier: NewClassifier(ChassisID, scene.Manager, scene.World, opts.Sounds, opts.Bricks, reset, rec),
		reset:      reset,
		parking:    NewParkingTracker(scene.Manager.Zones(), rec),
		rec:        rec,
		telemetry:  opts.Telemetry,
		logger:     opts.Logger.With().Str("session", opts.ID).Logger(),
	}

	s.logger.Debug().
		Floats64("spawn", spawn.Position[:]).
		Int("zones", len(scene.Manager.Zones())).
		Msg("Сессия создана")

	return s, nil
}

func (s *Session) ID() string                { return s.id }
func (s *Session) Input() *InputStore        { return s.input }
func (s *Session) Now() float64              { return s.clock.Now() }
func (s *Session) Vehicle() *physics.Vehicle { return s.vehicle }
func (s *Session) Scene() *world.Scene       { return s.scene }
func (s *Session) Spawn() port.Transform     { return s.reset.Spawn() }
func (s *Session) Started() bool             { return s.started }

// StartEngine запускает холостой ход и петлю разгона с нулевой громкостью.
// Из других горутин используйте Input().RequestStart().
func (s *Session) StartEngine() {
	if s.started {
		return
	}
	s.started = true
	s.sounds.Play(audio.ChannelEngine)
	s.sounds.Play(audio.ChannelAccelStartThree)
	s.sounds.SetVolume(audio.ChannelAccelStartThree, 0)

	s.logger.Debug().Msg("Двигатель запущен")
}

// Tick продвигает сессию на elapsed секунд реального времени
func (s *Session) Tick(elapsed float64) Frame {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > s.sim.MaxElapsed {
		elapsed = s.sim.MaxElapsed
	}
	s.clock.Advance(elapsed)
	now := s.clock.Now()
	chassis := s.vehicle.Chassis()

	req := s.input.takeRequests()
	if req.start {
		s.StartEngine()
	}
	if req.recovery && s.reset.Recover() {
		s.rec.Emit(Event{Kind: EventRecovery, Position: chassis.Position()})
	}

	control := s.resolver.Resolve(s.input.Snapshot(), chassis)
	s.actuator.Apply(control, now)

	contacts := s.scene.World.Step(s.sim.FixedStep, elapsed, s.sim.MaxSubSteps)
	s.classifier.Process(contacts, now)

	s.parking.Update(chassis.Position())
	if req.confirm {
		s.parking.Confirm()
	}

	events := s.rec.Drain()
	s.report(events)
	return s.frame(control, events)
}

func (s *Session) report(events []Event) {
	for _, e := range events {
		switch e.Kind {
		case EventWallReset, EventRecovery, EventZoneEnter, EventZoneLeave, EventOpenLink:
			s.logger.Debug().Str("event", e.Kind).Str("subject", e.Subject).Msg("Событие поездки")
		}
		if s.telemetry != nil {
			s.telemetry.Record(s.id, e.Kind, e.Subject, e.Position, e.Speed)
		}
	}
}

func (s *Session) frame(control Control, events []Event) Frame {
	chassis := s.vehicle.Chassis()
	f := Frame{
		Time:    s.clock.Now(),
		Steps:   s.scene.World.Steps(),
		Chassis: PoseOf(port.Transform{Position: chassis.Position(), Orientation: chassis.Orientation()}),
		Control: control,
		Speed:   chassis.Velocity().Len(),
		Events:  events,
	}
	for i := range f.Wheels {
		f.Wheels[i] = PoseOf(s.vehicle.WheelTransform(i))
	}
	for _, id := range s.scene.Manager.Bricks() {
		b, ok := s.scene.World.Body(id)
		if !ok {
			continue
		}
		f.Bricks = append(f.Bricks, BodyPose{
			ID:       string(id),
			Pose:     PoseOf(port.Transform{Position: b.Position(), Orientation: b.Orientation()}),
			Sleeping: b.IsSleeping(),
		})
	}
	if z, ok := s.parking.Current(); ok {
		f.Zone = z.Name
	}
	return f
}
