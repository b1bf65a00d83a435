package world

import "github.com/go-gl/mathgl/mgl64"

// BodyPreset описывает тело, которое строится для объекта данного класса
type BodyPreset struct {
	// Footprint масштабирует размеры объекта: стволы деревьев и столбы уже своей модели
	Footprint mgl64.Vec3

	Mass            float64
	LinearDamping   float64
	AngularDamping  float64
	Restitution     float64
	SleepSpeedLimit float64
	SleepTimeLimit  float64
}

// BuildConfig содержит параметры построения сцены
type BuildConfig struct {
	// Границы карты
	WallHeight    float64
	WallThickness float64
	WallOffset    float64 // смещение стен от края карты внутрь (отрицательное) или наружу

	Presets map[Kind]BodyPreset
}

func staticPreset(x, y, z float64) BodyPreset {
	return BodyPreset{Footprint: mgl64.Vec3{x, y, z}}
}

// DefaultBuildConfig возвращает параметры сцены по умолчанию
func DefaultBuildConfig() BuildConfig {
	brick := BodyPreset{
		Footprint:       mgl64.Vec3{1, 1, 1},
		Mass:            1,
		LinearDamping:   0.01,
		AngularDamping:  0.25,
		Restitution:     0.1,
		SleepSpeedLimit: 0.1,
		SleepTimeLimit:  0.5,
	}

	return BuildConfig{
		WallHeight:    3,
		WallThickness: 0.5,
		WallOffset:    -60,
		Presets: map[Kind]BodyPreset{
			KindRock:    staticPreset(0.7, 1, 0.7),
			KindPost:    staticPreset(0.3, 1, 0.3),
			KindBoard:   staticPreset(0.2, 1, 1),
			KindTree:    staticPreset(0.7, 1, 0.7),
			KindSign:    staticPreset(0.1, 1, 0.1),
			KindContact: staticPreset(0.7, 1, 0.7),
			KindRamp:    staticPreset(1, 1, 1),
			KindBrick:   brick,
			KindLetter:  brick,
		},
	}
}
