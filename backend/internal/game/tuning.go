package game

import (
	"math"

	"x-drive/backend/internal/config"
)

// Пороговые значения поведения машины и звука
const (
	StopDistance      = 1.5  // радиус прибытия при навигации указателем
	ReverseThreshold  = -0.3 // dot ниже порога - цель позади, едем задним ходом
	SteerDeadZone     = 0.1  // угол до цели, ниже которого руль не поворачивается
	TurnSkidMinSpeed  = 5.0
	StandstillSpeed   = 0.3
	ImpactThreshold   = 1.5
	BrickImpactSpeed  = 2.0
	ImpactCooldown    = 0.5 // секунды симуляции
	SkidCooldown      = 3.0
	MovingVolume      = 0.5
	BoostMovingVolume = 0.7
	EngineDriveVolume = 0.1
	EngineIdleVolume  = 0.3
)

// Tuning - параметры управления и точки появления машины
type Tuning struct {
	MaxForce        float64
	MaxSteer        float64
	BoostMultiplier float64
	ReverseFactor   float64
	BrakeForce      float64
	DriftFriction   float64
	FrontFriction   float64
	RearFriction    float64
	DownForce       float64
	Mass            float64
	SpawnLift       float64
	SpawnYaw        float64
	RecoveryLift    float64
}

// DefaultTuning возвращает значения исходной демо-сцены
func DefaultTuning() Tuning {
	return Tuning{
		MaxForce:        600,
		MaxSteer:        math.Pi / 16,
		BoostMultiplier: 1.5,
		ReverseFactor:   0.5,
		BrakeForce:      8,
		DriftFriction:   1.3,
		FrontFriction:   6,
		RearFriction:    4,
		DownForce:       1000,
		Mass:            250,
		SpawnLift:       1,
		SpawnYaw:        math.Pi / 4,
		RecoveryLift:    1.5,
	}
}

// TuningFrom переносит настройки машины из конфигурации
func TuningFrom(v config.VehicleConfig) Tuning {
	return Tuning{
		MaxForce:        v.MaxForce,
		MaxSteer:        v.MaxSteer,
		BoostMultiplier: v.BoostMultiplier,
		ReverseFactor:   v.ReverseFactor,
		BrakeForce:      v.BrakeForce,
		DriftFriction:   v.DriftFriction,
		FrontFriction:   v.FrontFriction,
		RearFriction:    v.RearFriction,
		DownForce:       v.DownForce,
		Mass:            v.Mass,
		SpawnLift:       v.SpawnLift,
		SpawnYaw:        v.SpawnYaw,
		RecoveryLift:    v.RecoveryLift,
	}
}
