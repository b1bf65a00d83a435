package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"x-drive/backend/internal/audio"
	"x-drive/backend/internal/game"
)

// ErrInvalidMessage возвращается для нераспознанных или некорректных сообщений
var ErrInvalidMessage = errors.New("invalid message")

// GetCurrentServerTime возвращает текущее время в миллисекундах
func GetCurrentServerTime() int64 {
	return time.Now().UnixMilli()
}

// ParseMessage разбирает входящее сообщение клиента в соответствующий тип
func ParseMessage(data []byte) (interface{}, error) {
	messageType, err := GetMessageType(data)
	if err != nil {
		return nil, err
	}

	var msg interface{}
	switch messageType {
	case MessageTypeKey:
		msg = &KeyMessage{}
	case MessageTypePointer:
		msg = &PointerMessage{}
	case MessageTypeRecover, MessageTypeStart, MessageTypePong:
		msg = &RequestMessage{}
	case MessageTypePing:
		msg = &PingMessage{}
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrInvalidMessage, messageType)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: error parsing %s message: %v", ErrInvalidMessage, messageType, err)
	}

	switch m := msg.(type) {
	case *KeyMessage:
		if m.Key == "" {
			return nil, fmt.Errorf("%w: key message without key", ErrInvalidMessage)
		}
	case *PointerMessage:
		if !finite(m.X) || !finite(m.Y) || !finite(m.Z) {
			return nil, fmt.Errorf("%w: pointer target is not finite", ErrInvalidMessage)
		}
	}
	return msg, nil
}

// GetMessageType возвращает тип сообщения на основе входных данных
func GetMessageType(data []byte) (string, error) {
	var baseMessage struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &baseMessage); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if baseMessage.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	return baseMessage.Type, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NewInfoMessage создает новое информационное сообщение
func NewInfoMessage(message, sessionID string) *InfoMessage {
	return &InfoMessage{
		Type:      MessageTypeInfo,
		Message:   message,
		SessionID: sessionID,
	}
}

// NewPingMessage создает пинг сервера
func NewPingMessage() *PingMessage {
	return &PingMessage{
		Type:       MessageTypePing,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewPongMessage создает ответ на пинг клиента
func NewPongMessage(clientTime int64) *PongMessage {
	return &PongMessage{
		Type:       MessageTypePong,
		ClientTime: clientTime,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewFrameMessage создает сообщение кадра. События кадра уходят отдельным event-сообщением.
func NewFrameMessage(frame game.Frame) *FrameMessage {
	frame.Events = nil
	return &FrameMessage{
		Type:       MessageTypeFrame,
		Frame:      frame,
		ServerTime: GetCurrentServerTime(),
	}
}

// NewEventMessage создает сообщение событий или nil, если отправлять нечего
func NewEventMessage(sounds []audio.Event, events []game.Event) *EventMessage {
	if len(sounds) == 0 && len(events) == 0 {
		return nil
	}
	return &EventMessage{
		Type:   MessageTypeEvent,
		Sounds: sounds,
		Events: events,
	}
}
