package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TickSystem - участник цикла. Системы с меньшим приоритетом выполняются раньше.
type TickSystem interface {
	Update(deltaTime time.Duration) error
	GetName() string
	GetPriority() int
}

// SystemStats - время выполнения одной системы
type SystemStats struct {
	Last       time.Duration `json:"last"`
	Average    time.Duration `json:"average"`
	Max        time.Duration `json:"max"`
	Executions uint64        `json:"executions"`
	Errors     uint64        `json:"errors"`
}

// TickerStats - снимок состояния цикла
type TickerStats struct {
	TargetTPS   int                    `json:"target_tps"`
	ActualTPS   float64                `json:"actual_tps"`
	Ticks       uint64                 `json:"ticks"`
	LateTicks   uint64                 `json:"late_ticks"`
	AverageTick time.Duration          `json:"average_tick"`
	MaxTick     time.Duration          `json:"max_tick"`
	Running     bool                   `json:"running"`
	Systems     map[string]SystemStats `json:"systems"`
}

// durationWindow - скользящее среднее по последним n замерам
type durationWindow struct {
	samples []time.Duration
	next    int
	full    bool
}

func newDurationWindow(n int) *durationWindow {
	return &durationWindow{samples: make([]time.Duration, n)}
}

func (w *durationWindow) add(d time.Duration) time.Duration {
	w.samples[w.next] = d
	w.next = (w.next + 1) % len(w.samples)
	if w.next == 0 {
		w.full = true
	}

	n := w.next
	if w.full {
		n = len(w.samples)
	}
	var total time.Duration
	for _, s := range w.samples[:n] {
		total += s
	}
	return total / time.Duration(n)
}

type systemEntry struct {
	system TickSystem
	window *durationWindow
	stats  SystemStats
}

// GameTicker - цикл с фиксированной частотой тиков. Каждая сессия водителя
// крутит свой цикл, сервер держит еще один для сводок телеметрии.
type GameTicker struct {
	targetTPS    int
	tickDuration time.Duration

	mu      sync.Mutex
	systems []*systemEntry
	running bool
	started time.Time
	last    time.Time
	ticks   uint64
	late    uint64
	avgTick time.Duration
	maxTick time.Duration

	logger zerolog.Logger
}

const statsWindow = 50

// NewGameTicker создает цикл. targetTPS <= 0 означает 60 тиков в секунду.
func NewGameTicker(targetTPS int, logger zerolog.Logger) *GameTicker {
	if targetTPS <= 0 {
		targetTPS = 60
	}
	return &GameTicker{
		targetTPS:    targetTPS,
		tickDuration: time.Second / time.Duration(targetTPS),
		logger:       logger,
	}
}

// RegisterSystem добавляет систему, сохраняя порядок приоритетов.
// Системы с равным приоритетом выполняются в порядке регистрации.
func (gt *GameTicker) RegisterSystem(system TickSystem) {
	gt.mu.Lock()
	defer gt.mu.Unlock()

	entry := &systemEntry{system: system, window: newDurationWindow(statsWindow)}
	at := len(gt.systems)
	for at > 0 && gt.systems[at-1].system.GetPriority() > system.GetPriority() {
		at--
	}
	gt.systems = append(gt.systems, nil)
	copy(gt.systems[at+1:], gt.systems[at:])
	gt.systems[at] = entry

	gt.logger.Debug().
		Str("system", system.GetName()).
		Int("priority", system.GetPriority()).
		Msg("Зарегистрирована система")
}

// Run выполняет тики до отмены контекста
func (gt *GameTicker) Run(ctx context.Context) error {
	ticker := time.NewTicker(gt.tickDuration)
	defer ticker.Stop()

	gt.mu.Lock()
	gt.running = true
	gt.started = time.Now()
	gt.last = gt.started
	gt.mu.Unlock()

	gt.logger.Debug().Int("tps", gt.targetTPS).Msg("Запуск цикла")

	defer func() {
		gt.mu.Lock()
		gt.running = false
		gt.mu.Unlock()
		gt.logger.Debug().Uint64("ticks", gt.TickCount()).Msg("Остановка цикла")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			gt.executeTick(now)
		}
	}
}

// executeTick выполняет все системы с интервалом от предыдущего тика
func (gt *GameTicker) executeTick(now time.Time) {
	started := time.Now()

	gt.mu.Lock()
	delta := now.Sub(gt.last)
	if gt.last.IsZero() {
		delta = gt.tickDuration
	}
	if delta > gt.tickDuration*2 {
		gt.late++
		gt.logger.Warn().Dur("delta", delta).Dur("expected", gt.tickDuration).Msg("Большая задержка между тиками")
	}
	gt.ticks++
	gt.last = now
	systems := append([]*systemEntry(nil), gt.systems...)
	gt.mu.Unlock()

	for _, entry := range systems {
		gt.executeSystem(entry, delta)
	}

	elapsed := time.Since(started)

	gt.mu.Lock()
	if elapsed > gt.maxTick {
		gt.maxTick = elapsed
	}
	if gt.avgTick == 0 {
		gt.avgTick = elapsed
	} else {
		gt.avgTick = (gt.avgTick*9 + elapsed) / 10
	}
	gt.mu.Unlock()

	switch {
	case elapsed > gt.tickDuration*2:
		gt.logger.Warn().Dur("tick", elapsed).Dur("target", gt.tickDuration).Msg("Тик превысил максимальное время")
	case elapsed > gt.tickDuration/2:
		gt.logger.Debug().Dur("tick", elapsed).Dur("target", gt.tickDuration).Msg("Медленный тик")
	}
}

// executeSystem выполняет одну систему. Паника системы не останавливает цикл.
func (gt *GameTicker) executeSystem(entry *systemEntry, delta time.Duration) {
	name := entry.system.GetName()
	started := time.Now()

	failed := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				gt.logger.Error().Str("system", name).Interface("panic", r).Msg("Паника в системе")
				failed = true
			}
		}()
		if err := entry.system.Update(delta); err != nil {
			gt.logger.Warn().Err(err).Str("system", name).Msg("Ошибка в системе")
			failed = true
		}
	}()

	took := time.Since(started)

	gt.mu.Lock()
	defer gt.mu.Unlock()
	s := &entry.stats
	s.Last = took
	s.Executions++
	if took > s.Max {
		s.Max = took
	}
	s.Average = entry.window.add(took)
	if failed {
		s.Errors++
	}
}

// TickCount возвращает количество выполненных тиков
func (gt *GameTicker) TickCount() uint64 {
	gt.mu.Lock()
	defer gt.mu.Unlock()
	return gt.ticks
}

// Stats возвращает снимок статистики цикла и его систем
func (gt *GameTicker) Stats() TickerStats {
	gt.mu.Lock()
	defer gt.mu.Unlock()

	stats := TickerStats{
		TargetTPS:   gt.targetTPS,
		Ticks:       gt.ticks,
		LateTicks:   gt.late,
		AverageTick: gt.avgTick,
		MaxTick:     gt.maxTick,
		Running:     gt.running,
		Systems:     make(map[string]SystemStats, len(gt.systems)),
	}
	if uptime := time.Since(gt.started); gt.running && uptime > 0 {
		stats.ActualTPS = float64(gt.ticks) / uptime.Seconds()
	}
	for _, entry := range gt.systems {
		stats.Systems[entry.system.GetName()] = entry.stats
	}
	return stats
}
