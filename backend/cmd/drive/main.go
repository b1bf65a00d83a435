package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"x-drive/backend/internal/audio"
	"x-drive/backend/internal/config"
	"x-drive/backend/internal/game"
	"x-drive/backend/internal/logging"
	"x-drive/backend/internal/physics"
	"x-drive/backend/internal/telemetry"
	"x-drive/backend/internal/world"
)

const (
	renderInterval = 33 * time.Millisecond
	eventLogSize   = 4
)

// sound - выбранный звуковой бэкенд
type sound struct {
	set    *audio.Set
	bricks *audio.BrickVoice
	bank   *audio.Bank
}

func (s sound) close() {
	if s.bank != nil {
		speaker.Close()
		s.bank.Close()
	}
}

// setupAudio загружает банк и запускает динамик. Без файлов или устройства
// клиент едет молча.
func setupAudio(cfg config.AudioConfig, logger zerolog.Logger) sound {
	silent := sound{set: audio.NewSet(), bricks: audio.NewBrickVoice(nil, nil)}
	if !cfg.Enabled {
		return silent
	}

	bank, err := audio.LoadBank(cfg.AssetDir, cfg.SampleRate, logger)
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.AssetDir).Msg("Часть звуков не загружена")
	}

	format := bank.Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		logger.Warn().Err(err).Msg("Звуковое устройство недоступно")
		return silent
	}
	speaker.Play(bank)

	return sound{
		set:    bank.Set(),
		bricks: audio.NewBrickVoice(bank.Brick(), audio.RandomSelector(cfg.Seed)),
		bank:   bank,
	}
}

func newLogger(path, level string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("error opening log file: %w", err)
	}
	return logging.NewWithWriter(f, "drive", level), func() { f.Close() }, nil
}

// client связывает сессию, ввод терминала и отрисовку
type client struct {
	screen  tcell.Screen
	session *game.Session
	tracker *keyTracker
	sprites []sprite
	sound   sound

	mu       sync.Mutex
	frame    game.Frame
	hasFrame bool
	log      []string
}

// publish вызывается циклом сессии на каждом тике
func (c *client) publish(frame game.Frame) error {
	if c.sound.bank != nil {
		c.sound.bank.SetListener(frame.Chassis.Position)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.frame = frame
	c.hasFrame = true
	for _, e := range frame.Events {
		line := fmt.Sprintf("%6.1fs %s %s", frame.Time, e.Kind, e.Subject)
		if e.URL != "" {
			line += " -> " + e.URL
		}
		c.log = append(c.log, line)
	}
	if len(c.log) > eventLogSize {
		c.log = c.log[len(c.log)-eventLogSize:]
	}
	return nil
}

func (c *client) draw() {
	c.mu.Lock()
	frame, ok := c.frame, c.hasFrame
	log := append([]string(nil), c.log...)
	c.mu.Unlock()

	if ok {
		render(c.screen, c.sprites, frame, log)
	}
}

// handleKey возвращает false, если пользователь вышел
func (c *client) handleKey(ev *tcell.EventKey) bool {
	if isQuit(ev) {
		return false
	}
	names := keyNames(ev)
	if len(names) == 0 {
		return true
	}

	// Первое нажатие заводит двигатель, как первый жест в браузере
	c.session.Input().RequestStart()

	now := time.Now()
	for _, name := range names {
		c.tracker.Press(name, now)
	}
	return true
}

func (c *client) run(ctx context.Context) {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go c.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !c.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				c.screen.Sync()
			}
		case <-ticker.C:
			c.draw()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "путь к файлу конфигурации (json, yaml, toml)")
	logPath := flag.String("log", "", "файл журнала (по умолчанию журнал выключен)")
	mute := flag.Bool("mute", false, "без звука")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mute {
		cfg.Audio.Enabled = false
	}

	logger, closeLog, err := newLogger(*logPath, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	layout := world.DefaultLayout()
	if cfg.Scene.File != "" {
		if layout, err = world.LoadLayout(cfg.Scene.File); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	scene, err := world.NewFactory(physics.DefaultConfig(), world.DefaultBuildConfig(), logger).Build(layout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	snd := setupAudio(cfg.Audio, logger)
	defer snd.close()

	tm := telemetry.NewTelemetryManager(logger)
	session, err := game.NewSession(scene, game.Options{
		ID:        "terminal",
		Tuning:    game.TuningFrom(cfg.Vehicle),
		Sim:       game.SimSettingsFrom(cfg.Sim),
		Sounds:    snd.set,
		Bricks:    snd.bricks,
		Telemetry: tm,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()

	c := &client{
		screen:  screen,
		session: session,
		tracker: newKeyTracker(session.Input(), holdTimeout),
		sprites: staticSprites(scene),
		sound:   snd,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := game.NewGameTicker(cfg.Sim.TickRate, logger)
	ticker.RegisterSystem(&keyReleaseSystem{tracker: c.tracker, now: time.Now})
	ticker.RegisterSystem(game.NewSessionSystem(session, c.publish))
	ticker.RegisterSystem(game.NewTelemetrySystem(tm))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ticker.Run(ctx)
	}()

	c.run(ctx)
	stop()
	<-done

	logger.Info().Interface("events", tm.Totals()).Uint64("ticks", ticker.TickCount()).Msg("Поездка завершена")
}
