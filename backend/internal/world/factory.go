package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"x-drive/backend/internal/physics"
)

var (
	// ErrSceneEmpty возвращается для раскладки без объектов
	ErrSceneEmpty = errors.New("scene layout is empty")
	// ErrMissingObject возвращается, если в раскладке нет карты или машины
	ErrMissingObject = errors.New("scene layout is missing a required object")
)

// Scene - построенный физический мир вместе с классификацией тел
type Scene struct {
	World   *physics.World
	Manager *Manager
}

// Factory строит сцену из раскладки
type Factory struct {
	physicsConfig *physics.Config
	buildConfig   BuildConfig
	logger        zerolog.Logger
}

// NewFactory создает фабрику сцен
func NewFactory(physicsConfig *physics.Config, buildConfig BuildConfig, logger zerolog.Logger) *Factory {
	if physicsConfig == nil {
		physicsConfig = physics.DefaultConfig()
	}
	return &Factory{
		physicsConfig: physicsConfig,
		buildConfig:   buildConfig,
		logger:        logger,
	}
}

// LoadLayout читает раскладку из JSON-файла
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}

	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("decoding layout %s: %w", path, err)
	}
	if len(layout.Objects) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrSceneEmpty)
	}
	return &layout, nil
}

// Build создает физический мир и классифицирует тела раскладки
func (f *Factory) Build(layout *Layout) (*Scene, error) {
	if layout == nil || len(layout.Objects) == 0 {
		return nil, ErrSceneEmpty
	}

	mapObj, ok := findKind(layout, KindMap)
	if !ok {
		return nil, fmt.Errorf("%w: map", ErrMissingObject)
	}
	car, ok := findKind(layout, KindCar)
	if !ok {
		return nil, fmt.Errorf("%w: car", ErrMissingObject)
	}

	cfg := *f.physicsConfig
	cfg.GroundHeight = mapObj.Position.Y() + mapObj.Size.Y()*0.5

	w := physics.NewWorld(&cfg, physics.BodyID(mapObj.Name))
	m := newManager()
	m.groundID = w.GroundID()
	m.car = car
	m.hittables[m.groundID] = struct{}{}
	m.kinds[m.groundID] = KindMap

	walls, err := mapBoundary(mapObj, f.buildConfig)
	if err != nil {
		return nil, err
	}
	for _, wall := range walls {
		body := physics.NewRigidBody(wall.id, wall.position, yawQuat(wall.yaw), physics.BodyOptions{
			HalfExtents: wall.halfExtents,
		})
		if err := w.AddStatic(body); err != nil {
			return nil, fmt.Errorf("adding boundary: %w", err)
		}
		m.walls[wall.id] = struct{}{}
	}

	for _, obj := range layout.Objects {
		m.objects[obj.Name] = obj
		kind := Classify(obj.Name)

		switch kind {
		case KindMap, KindCar:
			continue
		case KindParking:
			lo, hi := horizontalBounds(obj)
			m.zones = append(m.zones, Zone{Name: obj.Name, URL: obj.URL, Min: lo, Max: hi})
			continue
		case KindUnknown:
			f.logger.Debug().Str("object", obj.Name).Msg("Объект без физики пропущен")
			continue
		}

		preset, ok := f.buildConfig.Presets[kind]
		if !ok {
			continue
		}

		id := physics.BodyID(obj.Name)
		body := f.newBody(id, obj, preset)
		m.kinds[id] = kind

		switch kind {
		case KindBrick, KindLetter:
			err = w.AddDynamic(body)
			m.bricks[id] = struct{}{}
			m.brickOrder = append(m.brickOrder, id)
		case KindRamp:
			err = w.AddRamp(body)
			m.ramps[id] = struct{}{}
		default:
			err = w.AddStatic(body)
			m.hittables[id] = struct{}{}
		}
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", obj.Name, err)
		}
	}

	f.logger.Debug().
		Int("walls", len(m.walls)).
		Int("hittables", len(m.hittables)).
		Int("bricks", len(m.bricks)).
		Int("zones", len(m.zones)).
		Msg("Сцена построена")

	return &Scene{World: w, Manager: m}, nil
}

func (f *Factory) newBody(id physics.BodyID, obj Object, preset BodyPreset) *physics.RigidBody {
	half := mgl64.Vec3{
		obj.Size.X() * preset.Footprint.X() * 0.5,
		obj.Size.Y() * preset.Footprint.Y() * 0.5,
		obj.Size.Z() * preset.Footprint.Z() * 0.5,
	}
	return physics.NewRigidBody(id, obj.Position, yawQuat(obj.Yaw), physics.BodyOptions{
		Mass:            preset.Mass,
		HalfExtents:     half,
		LinearDamping:   preset.LinearDamping,
		AngularDamping:  preset.AngularDamping,
		Restitution:     preset.Restitution,
		SleepSpeedLimit: preset.SleepSpeedLimit,
		SleepTimeLimit:  preset.SleepTimeLimit,
	})
}

func findKind(layout *Layout, kind Kind) (Object, bool) {
	for _, obj := range layout.Objects {
		if Classify(obj.Name) == kind {
			return obj, true
		}
	}
	return Object{}, false
}

func yawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
}
