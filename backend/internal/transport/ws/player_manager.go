package ws

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"x-drive/backend/internal/audio"
	"x-drive/backend/internal/game"
)

// Driver - подключенный браузер со своей сессией поездки
type Driver struct {
	ID       string
	Conn     *SafeWriter
	Session  *game.Session
	JoinTime time.Time

	remote *audio.Remote
	ticker *game.GameTicker
	cancel context.CancelFunc
	done   chan struct{}

	stream frameStream
}

// generateDriverID генерирует уникальный ID сессии
func (s *WSServer) generateDriverID() string {
	return fmt.Sprintf("drive_%d_%d", time.Now().UnixNano(), rand.IntN(10000))
}

// addDriver строит отдельную сцену и сессию для нового соединения
func (s *WSServer) addDriver(conn *SafeWriter) (*Driver, error) {
	scene, err := s.factory.Build(s.layout)
	if err != nil {
		return nil, fmt.Errorf("error building scene: %w", err)
	}

	id := s.generateDriverID()
	clock := &game.Clock{}
	remote := audio.NewRemote(clock.Now, audio.BrickBufferCount)

	opts := game.Options{
		ID:     id,
		Tuning: s.opts.Tuning,
		Sim:    s.opts.Sim,
		Clock:  clock,
		Sounds: remote.Set(),
		Bricks: audio.NewBrickVoice(remote.Brick(), audio.RandomSelector(s.opts.BrickSeed)),
		Logger: s.logger,
	}
	if s.opts.Telemetry != nil {
		opts.Telemetry = s.opts.Telemetry
	}

	session, err := game.NewSession(scene, opts)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	d := &Driver{
		ID:       id,
		Conn:     conn,
		Session:  session,
		JoinTime: time.Now(),
		remote:   remote,
		done:     make(chan struct{}),
		stream:   newFrameStream(s.opts.StateInterval),
	}

	s.driversMu.Lock()
	s.drivers[id] = d
	s.driversMu.Unlock()

	s.logger.Info().Str("session", id).Str("remote", conn.RemoteAddr()).Msg("Создана сессия")
	return d, nil
}

// startDriver запускает цикл сессии в отдельной горутине
func (s *WSServer) startDriver(d *Driver) {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.ticker = game.NewGameTicker(s.opts.TickRate, s.logger.With().Str("session", d.ID).Logger())
	d.ticker.RegisterSystem(game.NewSessionSystem(d.Session, func(frame game.Frame) error {
		return d.publish(frame)
	}))

	go func() {
		defer close(d.done)
		_ = d.ticker.Run(ctx)
	}()
}

// removeDriver останавливает цикл и удаляет сессию
func (s *WSServer) removeDriver(d *Driver) {
	if d.cancel != nil {
		d.cancel()
		<-d.done
	}
	d.Session.Input().ReleaseAll()

	s.driversMu.Lock()
	delete(s.drivers, d.ID)
	s.driversMu.Unlock()

	ev := s.logger.Info().
		Str("session", d.ID).
		Dur("duration", time.Since(d.JoinTime))
	if d.ticker != nil {
		stats := d.ticker.Stats()
		ev = ev.Uint64("ticks", stats.Ticks).Uint64("late_ticks", stats.LateTicks).Dur("max_tick", stats.MaxTick)
	}
	ev.Msg("Сессия удалена")
}

// Driver возвращает сессию по ID
func (s *WSServer) Driver(id string) (*Driver, bool) {
	s.driversMu.RLock()
	defer s.driversMu.RUnlock()

	d, ok := s.drivers[id]
	return d, ok
}

// ActiveDrivers возвращает число подключенных сессий
func (s *WSServer) ActiveDrivers() int {
	s.driversMu.RLock()
	defer s.driversMu.RUnlock()
	return len(s.drivers)
}
