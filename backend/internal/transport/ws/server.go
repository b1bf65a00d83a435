package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"x-drive/backend/internal/game"
	"x-drive/backend/internal/telemetry"
	"x-drive/backend/internal/world"
)

const DefaultPingInterval = 2 * time.Second // Интервал отправки пингов

// MessageHandler - тип функции обработчика сообщений
type MessageHandler func(d *Driver, message interface{}) error

// Options - параметры сервера и создаваемых им сессий
type Options struct {
	Tuning        game.Tuning
	Sim           game.SimSettings
	TickRate      int
	StateInterval time.Duration
	PingInterval  time.Duration
	StaticDir     string
	BrickSeed     int64
	Telemetry     *telemetry.TelemetryManager
	Logger        zerolog.Logger
}

// WSServer раздает клиент и ведет по одной сессии поездки на каждое соединение
type WSServer struct {
	upgrader websocket.Upgrader
	handlers map[string]MessageHandler
	factory  *world.Factory
	layout   *world.Layout
	opts     Options
	logger   zerolog.Logger

	drivers   map[string]*Driver
	driversMu sync.RWMutex
}

// NewWSServer создает сервер. Сцена каждой сессии строится фабрикой из layout.
func NewWSServer(factory *world.Factory, layout *world.Layout, opts Options) *WSServer {
	if opts.PingInterval == 0 {
		opts.PingInterval = DefaultPingInterval
	}
	if opts.StateInterval <= 0 {
		opts.StateInterval = DefaultStateInterval
	}

	server := &WSServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handlers: make(map[string]MessageHandler),
		factory:  factory,
		layout:   layout,
		opts:     opts,
		logger:   opts.Logger,
		drivers:  make(map[string]*Driver),
	}

	// Регистрируем стандартные обработчики
	server.RegisterHandler(MessageTypeKey, server.handleKey)
	server.RegisterHandler(MessageTypePointer, server.handlePointer)
	server.RegisterHandler(MessageTypeRecover, server.handleRecover)
	server.RegisterHandler(MessageTypeStart, server.handleStart)
	server.RegisterHandler(MessageTypePing, server.handlePing)
	server.RegisterHandler(MessageTypePong, server.handlePong)

	return server
}

// RegisterHandler регистрирует обработчик для конкретного типа сообщений
func (s *WSServer) RegisterHandler(messageType string, handler MessageHandler) {
	s.handlers[messageType] = handler
}

// Handler возвращает маршруты сервера: /ws, /telemetry и статику на /
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	if s.opts.Telemetry != nil {
		mux.HandleFunc("/telemetry", s.handleTelemetry)
	}
	if s.opts.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.opts.StaticDir)))
	}
	return mux
}

func (s *WSServer) handleTelemetry(w http.ResponseWriter, _ *http.Request) {
	data, err := s.opts.Telemetry.GetTelemetryJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// HandleWS обрабатывает входящие WebSocket соединения
func (s *WSServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Ошибка апгрейда WebSocket")
		return
	}

	// Создаем потокобезопасную обертку для WebSocket соединения
	safeConn := NewSafeWriter(conn)
	defer safeConn.Close()

	d, err := s.addDriver(safeConn)
	if err != nil {
		s.logger.Error().Err(err).Msg("Ошибка создания сессии")
		_ = safeConn.WriteJSON(NewInfoMessage("session unavailable", ""))
		return
	}
	defer s.removeDriver(d)

	// Приветствие и раскладка уходят до первого кадра
	if err := safeConn.WriteJSON(NewInfoMessage("Connected to X-Drive server", d.ID)); err != nil {
		s.logger.Warn().Err(err).Str("session", d.ID).Msg("Ошибка отправки приветствия")
		return
	}
	scene := NewSceneMessage(s.layout, d.Session.Scene().Manager.Zones(), game.PoseOf(d.Session.Spawn()))
	if err := safeConn.WriteJSON(scene); err != nil {
		s.logger.Warn().Err(err).Str("session", d.ID).Msg("Ошибка отправки сцены")
		return
	}

	s.startDriver(d)

	stopPing := make(chan struct{})
	defer close(stopPing)
	if s.opts.PingInterval > 0 {
		go s.startPing(d, stopPing)
	}

	// Основной цикл обработки сообщений
	for {
		_, data, err := safeConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Str("session", d.ID).Msg("Ошибка WebSocket")
			}
			break
		}
		s.dispatch(d, data)
	}

	s.logger.Debug().Str("session", d.ID).Msg("Соединение закрыто")
}

// dispatch разбирает сообщение и вызывает обработчик его типа
func (s *WSServer) dispatch(d *Driver, data []byte) {
	message, err := ParseMessage(data)
	if err != nil {
		s.logger.Debug().Err(err).Str("session", d.ID).Msg("Сообщение отклонено")
		return
	}

	messageType, _ := GetMessageType(data)
	handler, ok := s.handlers[messageType]
	if !ok {
		s.logger.Debug().Str("type", messageType).Msg("Нет обработчика для типа сообщения")
		return
	}

	if err := handler(d, message); err != nil {
		lvl := s.logger.Warn()
		if errors.Is(err, ErrInvalidMessage) {
			lvl = s.logger.Debug()
		}
		lvl.Err(err).Str("session", d.ID).Str("type", messageType).Msg("Ошибка обработки сообщения")
	}
}
