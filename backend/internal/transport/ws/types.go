package ws

import (
	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/audio"
	"x-drive/backend/internal/game"
)

// Константы для WebSocket сообщений
const (
	// От клиента
	MessageTypeKey     = "key"     // Нажатие или отпускание клавиши
	MessageTypePointer = "pointer" // Цель указателя на земле
	MessageTypeRecover = "recover" // Ручное восстановление машины
	MessageTypeStart   = "start"   // Запуск двигателя после первого жеста
	MessageTypePing    = "ping"    // Пинг для измерения задержки

	// От сервера
	MessageTypeInfo  = "info"  // Информационное сообщение
	MessageTypeScene = "scene" // Статичная раскладка сцены
	MessageTypeFrame = "frame" // Позы машины и кирпичей
	MessageTypeEvent = "event" // Звуковые команды и события поездки
	MessageTypePong  = "pong"  // Ответ на пинг
)

// KeyMessage - состояние клавиши по ее имени в браузере
type KeyMessage struct {
	Type string `json:"type"`
	Key  string `json:"key"`
	Down bool   `json:"down"`
}

// PointerMessage - точка на земле под курсором или касанием
type PointerMessage struct {
	Type   string  `json:"type"`
	Active bool    `json:"active"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

// Target возвращает цель указателя
func (m *PointerMessage) Target() mgl64.Vec3 { return mgl64.Vec3{m.X, m.Y, m.Z} }

// RequestMessage - запрос без данных (recover, start)
type RequestMessage struct {
	Type string `json:"type"`
}

// PingMessage представляет пинг от клиента или сервера
type PingMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time,omitempty"`
	ServerTime int64  `json:"server_time,omitempty"`
}

// PongMessage представляет ответ на пинг от сервера
type PongMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
	ServerTime int64  `json:"server_time"`
}

// InfoMessage представляет информационное сообщение от сервера
type InfoMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// SceneObject - объект раскладки вместе с его классом
type SceneObject struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Position mgl64.Vec3 `json:"position"`
	Size     mgl64.Vec3 `json:"size"`
	Yaw      float64    `json:"yaw,omitempty"`
	URL      string     `json:"url,omitempty"`
}

// SceneZone - парковочная зона для подсветки на клиенте
type SceneZone struct {
	Name string     `json:"name"`
	URL  string     `json:"url"`
	Min  mgl64.Vec3 `json:"min"`
	Max  mgl64.Vec3 `json:"max"`
}

// SceneMessage отправляется один раз после подключения
type SceneMessage struct {
	Type    string        `json:"type"`
	Objects []SceneObject `json:"objects"`
	Zones   []SceneZone   `json:"zones"`
	Spawn   game.Pose     `json:"spawn"`
}

// FrameMessage - кадр симуляции без событий
type FrameMessage struct {
	Type       string     `json:"type"`
	Frame      game.Frame `json:"frame"`
	ServerTime int64      `json:"server_time"`
}

// EventMessage - накопленные с прошлой отправки звуковые команды и события
type EventMessage struct {
	Type   string        `json:"type"`
	Sounds []audio.Event `json:"sounds,omitempty"`
	Events []game.Event  `json:"events,omitempty"`
}
