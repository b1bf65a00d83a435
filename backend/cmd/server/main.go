package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"x-drive/backend/internal/config"
	"x-drive/backend/internal/game"
	"x-drive/backend/internal/logging"
	"x-drive/backend/internal/physics"
	"x-drive/backend/internal/telemetry"
	"x-drive/backend/internal/transport/ws"
	"x-drive/backend/internal/world"
)

func loadLayout(cfg *config.Config, logger zerolog.Logger) (*world.Layout, error) {
	if cfg.Scene.File == "" {
		logger.Info().Msg("Используется встроенная раскладка сцены")
		return world.DefaultLayout(), nil
	}
	layout, err := world.LoadLayout(cfg.Scene.File)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("file", cfg.Scene.File).Int("objects", len(layout.Objects)).Msg("Раскладка сцены загружена")
	return layout, nil
}

func main() {
	configPath := flag.String("config", "", "путь к файлу конфигурации (json, yaml, toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := logging.New("server", "info")
		boot.Fatal().Err(err).Msg("Ошибка загрузки конфигурации")
	}

	logger := logging.New("server", cfg.Log.Level)

	layout, err := loadLayout(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Ошибка загрузки сцены")
	}

	factory := world.NewFactory(physics.DefaultConfig(), world.DefaultBuildConfig(), logging.New("world", cfg.Log.Level))

	// Пробная сборка: ошибки раскладки видны до первого подключения
	probe, err := factory.Build(layout)
	if err != nil {
		logger.Fatal().Err(err).Msg("Ошибка построения сцены")
	}
	logger.Info().Interface("classified", probe.Manager.Stats()).Msg("Сцена построена")

	tm := telemetry.NewTelemetryManager(logging.New("telemetry", cfg.Log.Level))

	server := ws.NewWSServer(factory, layout, ws.Options{
		Tuning:        game.TuningFrom(cfg.Vehicle),
		Sim:           game.SimSettingsFrom(cfg.Sim),
		TickRate:      cfg.Sim.TickRate,
		StateInterval: cfg.Server.StateInterval,
		StaticDir:     cfg.Server.StaticDir,
		BrickSeed:     cfg.Audio.Seed,
		Telemetry:     tm,
		Logger:        logging.New("ws", cfg.Log.Level),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Сводка телеметрии раз в секунду, сам менеджер печатает не чаще своего интервала
	summary := game.NewGameTicker(1, logging.New("ticker", cfg.Log.Level))
	summary.RegisterSystem(game.NewTelemetrySystem(tm))
	go func() { _ = summary.Run(ctx) }()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Ошибка остановки HTTP сервера")
		}
	}()

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("static", cfg.Server.StaticDir).
		Int("tps", cfg.Sim.TickRate).
		Msg("Сервер запущен")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Ошибка HTTP сервера")
	}

	logger.Info().Interface("events", tm.Totals()).Int("sessions", server.ActiveDrivers()).Msg("Сервер остановлен")
}
