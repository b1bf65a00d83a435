package physics

// Config содержит настройки физического движка
type Config struct {
	// Гравитация по оси Y
	GravityY float64

	// GroundHeight - высота плоскости земли
	GroundHeight float64

	// GroundRestitution - упругость контакта с землёй
	GroundRestitution float64

	// GroundFriction - горизонтальное замедление тел на земле, м/с²
	GroundFriction float64

	// Порог и время засыпания тел по умолчанию
	SleepSpeedLimit float64
	SleepTimeLimit  float64

	// LateralGrip - сколько боковой скорости гасит единица friction slip за секунду
	LateralGrip float64

	// BrakeDeceleration - замедление на единицу тормозной силы колеса
	BrakeDeceleration float64

	// RollingResistance - замедление качения на земле, м/с²
	RollingResistance float64

	// LevelingRate - скорость выравнивания кузова по горизонту на земле
	LevelingRate float64

	// ContactSlop - допустимое проникновение без реакции
	ContactSlop float64
}

// WheelOptions описывает параметры колеса рейкаст-машины
type WheelOptions struct {
	Radius               float64
	SuspensionStiffness  float64
	SuspensionRestLength float64
	DampingRelaxation    float64
	DampingCompression   float64
	MaxSuspensionForce   float64
	MaxSuspensionTravel  float64
	RollInfluence        float64
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		GravityY:          -9.82,
		GroundHeight:      0,
		GroundRestitution: 0.3,
		GroundFriction:    3.0,
		SleepSpeedLimit:   0.1,
		SleepTimeLimit:    0.5,
		LateralGrip:       2.0,
		BrakeDeceleration: 1.0,
		RollingResistance: 0.4,
		LevelingRate:      6.0,
		ContactSlop:       0.001,
	}
}

// DefaultWheelOptions возвращает параметры колеса, подобранные под кузов массой 250
func DefaultWheelOptions() WheelOptions {
	return WheelOptions{
		Radius:               0.19,
		SuspensionStiffness:  45,
		SuspensionRestLength: 0.2,
		DampingRelaxation:    4,
		DampingCompression:   4.5,
		MaxSuspensionForce:   250000,
		MaxSuspensionTravel:  0.2,
		RollInfluence:        0.05,
	}
}
