package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"x-drive/backend/internal/logging"
	"x-drive/backend/internal/transport/ws"
)

// Bot подключается к серверу и ездит по заданному паттерну
type Bot struct {
	ID          string
	ServerURL   string
	Pattern     string
	Duration    time.Duration
	CommandRate time.Duration

	conn    *websocket.Conn
	writeMu sync.Mutex
	running atomic.Bool
	held    map[string]bool
	step    int

	sessionID atomic.Value // string
	stats     BotStats
	logger    zerolog.Logger
}

// BotStats содержит статистику работы бота
type BotStats struct {
	CommandsSent   atomic.Int64
	FramesReceived atomic.Int64
	EventsReceived atomic.Int64
	Pongs          atomic.Int64
	Errors         atomic.Int64
	MaxSpeed       atomic.Uint64 // math.Float64bits
	StartTime      time.Time
}

// NewBot создает нового бота
func NewBot(id, serverURL, pattern string, duration, commandRate time.Duration, logger zerolog.Logger) *Bot {
	return &Bot{
		ID:          id,
		ServerURL:   serverURL,
		Pattern:     pattern,
		Duration:    duration,
		CommandRate: commandRate,
		held:        make(map[string]bool),
		stats:       BotStats{StartTime: time.Now()},
		logger:      logger.With().Str("bot", id).Logger(),
	}
}

// Connect подключается к серверу
func (b *Bot) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}

	conn, _, err := dialer.Dial(b.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("error connecting to %s: %w", b.ServerURL, err)
	}

	b.conn = conn
	b.running.Store(true)
	b.logger.Info().Str("url", b.ServerURL).Msg("Подключен")
	return nil
}

// Disconnect отключается от сервера
func (b *Bot) Disconnect() {
	if !b.running.Swap(false) {
		return
	}
	b.writeMu.Lock()
	_ = b.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	b.writeMu.Unlock()
	b.conn.Close()
	b.logger.Info().Msg("Отключен")
}

func (b *Bot) send(v interface{}) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.conn.WriteJSON(v)
}

func (b *Bot) setKey(key string, down bool) error {
	if b.held[key] == down {
		return nil
	}
	b.held[key] = down
	b.stats.CommandsSent.Add(1)
	return b.send(ws.KeyMessage{Type: ws.MessageTypeKey, Key: key, Down: down})
}

// drive отправляет следующую команду паттерна
func (b *Bot) drive() error {
	b.step++

	switch b.Pattern {
	case "circle":
		if err := b.setKey("w", true); err != nil {
			return err
		}
		return b.setKey("a", true)

	case "pointer":
		// Цель обходит круг радиусом 20 вокруг центра карты
		angle := float64(b.step) * 0.05
		b.stats.CommandsSent.Add(1)
		return b.send(ws.PointerMessage{
			Type:   ws.MessageTypePointer,
			Active: true,
			X:      20 * math.Cos(angle),
			Z:      20 * math.Sin(angle),
		})

	default:
		// Случайный водитель: газ почти всегда, руль и тормоз изредка
		keys := map[string]float64{"w": 0.85, "a": 0.25, "d": 0.25, "shift": 0.2, " ": 0.05}
		for key, p := range keys {
			if err := b.setKey(key, rand.Float64() < p); err != nil {
				return err
			}
		}
		if rand.Float64() < 0.01 {
			b.stats.CommandsSent.Add(1)
			return b.send(ws.RequestMessage{Type: ws.MessageTypeRecover})
		}
		return nil
	}
}

func (b *Bot) sendPing() error {
	return b.send(ws.PingMessage{Type: ws.MessageTypePing, ClientTime: time.Now().UnixMilli()})
}

// handleMessage обрабатывает входящие сообщения
func (b *Bot) handleMessage(data []byte) {
	messageType, err := ws.GetMessageType(data)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Ошибка разбора сообщения")
		return
	}

	switch messageType {
	case ws.MessageTypeInfo:
		var msg ws.InfoMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			b.sessionID.Store(msg.SessionID)
			b.logger.Info().Str("session", msg.SessionID).Msg(msg.Message)
		}

	case ws.MessageTypeScene:
		var msg ws.SceneMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			b.logger.Info().Int("objects", len(msg.Objects)).Int("zones", len(msg.Zones)).Msg("Получена сцена")
		}

	case ws.MessageTypeFrame:
		var msg ws.FrameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		b.stats.FramesReceived.Add(1)
		for {
			old := b.stats.MaxSpeed.Load()
			if msg.Frame.Speed <= math.Float64frombits(old) ||
				b.stats.MaxSpeed.CompareAndSwap(old, math.Float64bits(msg.Frame.Speed)) {
				break
			}
		}

	case ws.MessageTypeEvent:
		var msg ws.EventMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		b.stats.EventsReceived.Add(int64(len(msg.Events)))
		for _, e := range msg.Events {
			b.logger.Debug().Str("kind", e.Kind).Str("subject", e.Subject).Msg("Событие")
		}

	case ws.MessageTypePong:
		b.stats.Pongs.Add(1)

	case ws.MessageTypePing:
		_ = b.send(ws.RequestMessage{Type: ws.MessageTypePong})

	default:
		b.logger.Debug().Str("type", messageType).Msg("Неизвестный тип сообщения")
	}
}

// Run запускает бота
func (b *Bot) Run() error {
	if err := b.Connect(); err != nil {
		return err
	}
	defer b.Disconnect()

	// Запускаем горутину для чтения сообщений
	go func() {
		for b.running.Load() {
			_, data, err := b.conn.ReadMessage()
			if err != nil {
				if b.running.Load() {
					b.logger.Warn().Err(err).Msg("Ошибка чтения сообщения")
					b.stats.Errors.Add(1)
					b.running.Store(false)
				}
				return
			}
			b.handleMessage(data)
		}
	}()

	if err := b.send(ws.RequestMessage{Type: ws.MessageTypeStart}); err != nil {
		return fmt.Errorf("error starting engine: %w", err)
	}

	commandTicker := time.NewTicker(b.CommandRate)
	defer commandTicker.Stop()
	pingTicker := time.NewTicker(5 * time.Second)
	defer pingTicker.Stop()

	endTime := time.Now().Add(b.Duration)
	for b.running.Load() && time.Now().Before(endTime) {
		select {
		case <-commandTicker.C:
			if err := b.drive(); err != nil {
				b.logger.Warn().Err(err).Msg("Ошибка отправки команды")
				b.stats.Errors.Add(1)
			}
		case <-pingTicker.C:
			if err := b.sendPing(); err != nil {
				b.logger.Warn().Err(err).Msg("Ошибка отправки ping")
			}
		}
	}

	b.logger.Info().Msg("Завершение работы")
	return nil
}

// PrintStats выводит статистику бота
func (b *Bot) PrintStats() {
	duration := time.Since(b.stats.StartTime)
	session, _ := b.sessionID.Load().(string)
	ev := b.logger.Info().
		Str("session", session).
		Dur("uptime", duration).
		Int64("commands", b.stats.CommandsSent.Load()).
		Int64("frames", b.stats.FramesReceived.Load()).
		Int64("events", b.stats.EventsReceived.Load()).
		Int64("pongs", b.stats.Pongs.Load()).
		Int64("errors", b.stats.Errors.Load()).
		Float64("max_speed", math.Float64frombits(b.stats.MaxSpeed.Load()))
	if secs := duration.Seconds(); secs > 0 {
		ev = ev.Float64("frames_per_sec", float64(b.stats.FramesReceived.Load())/secs)
	}
	ev.Msg("Статистика")
}

func main() {
	var (
		serverURL   = flag.String("url", "ws://localhost:8080/ws", "URL WebSocket сервера")
		botID       = flag.String("id", "bot1", "ID бота")
		pattern     = flag.String("pattern", "random", "Паттерн вождения (random, circle, pointer)")
		duration    = flag.Duration("duration", 30*time.Second, "Длительность работы бота")
		commandRate = flag.Duration("rate", 100*time.Millisecond, "Частота отправки команд")
		level       = flag.String("log", "info", "Уровень логирования")
	)
	flag.Parse()

	bot := NewBot(*botID, *serverURL, *pattern, *duration, *commandRate, logging.New("bot", *level))

	// Обработка сигналов для корректного завершения
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		bot.logger.Info().Msg("Получен сигнал прерывания, завершение работы")
		bot.Disconnect()
		bot.PrintStats()
		os.Exit(0)
	}()

	if err := bot.Run(); err != nil {
		bot.logger.Error().Err(err).Msg("Ошибка")
		os.Exit(1)
	}

	bot.PrintStats()
}
