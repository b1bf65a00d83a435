package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения, переопределяющих конфигурацию
const EnvPrefix = "XDRIVE"

// ServerConfig настройки HTTP/WebSocket сервера
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	StaticDir     string        `mapstructure:"staticDir"`
	StateInterval time.Duration `mapstructure:"stateInterval"`
}

// LogConfig настройки логирования
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SimConfig параметры шага симуляции
type SimConfig struct {
	FixedStep   float64 `mapstructure:"fixedStep"`
	MaxElapsed  float64 `mapstructure:"maxElapsed"`
	MaxSubSteps int     `mapstructure:"maxSubSteps"`
	TickRate    int     `mapstructure:"tickRate"`
}

// VehicleConfig настройки управления машиной
type VehicleConfig struct {
	MaxForce        float64 `mapstructure:"maxForce"`
	MaxSteer        float64 `mapstructure:"maxSteer"`
	BoostMultiplier float64 `mapstructure:"boostMultiplier"`
	ReverseFactor   float64 `mapstructure:"reverseFactor"`
	BrakeForce      float64 `mapstructure:"brakeForce"`
	DriftFriction   float64 `mapstructure:"driftFriction"`
	FrontFriction   float64 `mapstructure:"frontFriction"`
	RearFriction    float64 `mapstructure:"rearFriction"`
	DownForce       float64 `mapstructure:"downForce"`
	Mass            float64 `mapstructure:"mass"`
	SpawnLift       float64 `mapstructure:"spawnLift"`
	SpawnYaw        float64 `mapstructure:"spawnYaw"`
	RecoveryLift    float64 `mapstructure:"recoveryLift"`
}

// AudioConfig настройки локального звука
type AudioConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	AssetDir   string `mapstructure:"assetDir"`
	SampleRate int    `mapstructure:"sampleRate"`
	Seed       int64  `mapstructure:"seed"`
}

// SceneConfig источник раскладки сцены
type SceneConfig struct {
	File string `mapstructure:"file"`
}

// Config полная конфигурация приложения
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Sim     SimConfig     `mapstructure:"sim"`
	Vehicle VehicleConfig `mapstructure:"vehicle"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Scene   SceneConfig   `mapstructure:"scene"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.staticDir", "./static")
	v.SetDefault("server.stateInterval", "50ms")

	v.SetDefault("log.level", "info")

	v.SetDefault("sim.fixedStep", 1.0/60.0)
	v.SetDefault("sim.maxElapsed", 1.0/30.0)
	v.SetDefault("sim.maxSubSteps", 10)
	v.SetDefault("sim.tickRate", 60)

	v.SetDefault("vehicle.maxForce", 600.0)
	v.SetDefault("vehicle.maxSteer", math.Pi/16)
	v.SetDefault("vehicle.boostMultiplier", 1.5)
	v.SetDefault("vehicle.reverseFactor", 0.5)
	v.SetDefault("vehicle.brakeForce", 8.0)
	v.SetDefault("vehicle.driftFriction", 1.3)
	v.SetDefault("vehicle.frontFriction", 6.0)
	v.SetDefault("vehicle.rearFriction", 4.0)
	v.SetDefault("vehicle.downForce", 1000.0)
	v.SetDefault("vehicle.mass", 250.0)
	v.SetDefault("vehicle.spawnLift", 1.0)
	v.SetDefault("vehicle.spawnYaw", math.Pi/4)
	v.SetDefault("vehicle.recoveryLift", 1.5)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.assetDir", "./sounds")
	v.SetDefault("audio.sampleRate", 48000)
	v.SetDefault("audio.seed", 0)

	v.SetDefault("scene.file", "")
}

// Default возвращает конфигурацию без файла и переменных окружения
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

// Load читает конфигурацию из файла (если путь задан) и переменных окружения XDRIVE_*
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет параметры, без которых симуляция не работает
func (c *Config) Validate() error {
	if c.Sim.FixedStep <= 0 {
		return fmt.Errorf("sim.fixedStep must be positive, got %v", c.Sim.FixedStep)
	}
	if c.Sim.MaxElapsed < c.Sim.FixedStep {
		return fmt.Errorf("sim.maxElapsed (%v) must not be less than sim.fixedStep (%v)", c.Sim.MaxElapsed, c.Sim.FixedStep)
	}
	if c.Sim.MaxSubSteps <= 0 {
		return fmt.Errorf("sim.maxSubSteps must be positive, got %d", c.Sim.MaxSubSteps)
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tickRate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Vehicle.Mass <= 0 {
		return fmt.Errorf("vehicle.mass must be positive, got %v", c.Vehicle.Mass)
	}
	if c.Server.StateInterval <= 0 {
		return fmt.Errorf("server.stateInterval must be positive, got %v", c.Server.StateInterval)
	}
	return nil
}
