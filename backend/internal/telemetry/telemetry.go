package telemetry

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "x-drive/backend/internal/telemetry"

// Entry - запись о событии поездки
type Entry struct {
	Timestamp int64      `json:"timestamp"` // Время в миллисекундах
	SessionID string     `json:"session_id"`
	Kind      string     `json:"kind"`
	Subject   string     `json:"subject,omitempty"` // тело, зона или канал
	Position  mgl64.Vec3 `json:"position"`
	Speed     float64    `json:"speed"`
}

// TelemetryManager хранит последние события, счетчики и otel-метрики
type TelemetryManager struct {
	enabled    bool
	data       []Entry
	mutex      sync.RWMutex
	maxEntries int

	// Счетчики с момента последней сводки
	counters      map[string]int
	totals        map[string]int
	lastPrint     time.Time
	printInterval time.Duration

	events metric.Int64Counter
	logger zerolog.Logger
	now    func() time.Time
}

// NewTelemetryManager создает менеджер телеметрии на глобальном otel-провайдере
func NewTelemetryManager(logger zerolog.Logger) *TelemetryManager {
	tm := &TelemetryManager{
		enabled:       true,
		data:          make([]Entry, 0),
		maxEntries:    200,
		counters:      make(map[string]int),
		totals:        make(map[string]int),
		lastPrint:     time.Now(),
		printInterval: 10 * time.Second,
		logger:        logger,
		now:           time.Now,
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"drive.events",
		metric.WithDescription("Drive feedback events by kind"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("otel counter unavailable")
	} else {
		tm.events = counter
	}

	return tm
}

// Record записывает событие
func (tm *TelemetryManager) Record(sessionID, kind, subject string, position mgl64.Vec3, speed float64) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if !tm.enabled {
		return
	}

	tm.data = append(tm.data, Entry{
		Timestamp: tm.now().UnixMilli(),
		SessionID: sessionID,
		Kind:      kind,
		Subject:   subject,
		Position:  position,
		Speed:     speed,
	})

	// Ограничиваем размер буфера
	if len(tm.data) > tm.maxEntries {
		tm.data = tm.data[len(tm.data)-tm.maxEntries:]
	}

	tm.counters[kind]++
	tm.totals[kind]++

	if tm.events != nil {
		tm.events.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

// PrintSummary выводит сводку не чаще printInterval
func (tm *TelemetryManager) PrintSummary() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	now := tm.now()
	if !tm.enabled || now.Sub(tm.lastPrint) < tm.printInterval {
		return
	}

	kinds := make([]string, 0, len(tm.counters))
	for k := range tm.counters {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	ev := tm.logger.Debug().Int("entries", len(tm.data))
	for _, k := range kinds {
		ev = ev.Int(k, tm.counters[k])
	}
	ev.Msg("Сводка телеметрии")

	tm.counters = make(map[string]int)
	tm.lastPrint = now
}

// Totals возвращает счетчики событий за все время
func (tm *TelemetryManager) Totals() map[string]int {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	out := make(map[string]int, len(tm.totals))
	for k, v := range tm.totals {
		out[k] = v
	}
	return out
}

// Recent возвращает копию буфера последних событий
func (tm *TelemetryManager) Recent() []Entry {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	out := make([]Entry, len(tm.data))
	copy(out, tm.data)
	return out
}

// GetTelemetryJSON возвращает последние события в JSON
func (tm *TelemetryManager) GetTelemetryJSON() ([]byte, error) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	return json.MarshalIndent(tm.data, "", "  ")
}

// SetEnabled включает или выключает запись
func (tm *TelemetryManager) SetEnabled(enabled bool) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.enabled = enabled
	tm.logger.Debug().Bool("enabled", enabled).Msg("Телеметрия переключена")
}

// Clear очищает буфер и счетчики
func (tm *TelemetryManager) Clear() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tm.data = make([]Entry, 0)
	tm.counters = make(map[string]int)
	tm.totals = make(map[string]int)
}
