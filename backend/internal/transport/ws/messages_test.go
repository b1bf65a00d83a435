package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x-drive/backend/internal/audio"
	"x-drive/backend/internal/game"
)

func TestGetCurrentServerTime(t *testing.T) {
	// Проверяем, что функция возвращает текущее время в миллисекундах
	now := time.Now().UnixMilli()
	serverTime := GetCurrentServerTime()

	assert.InDelta(t, now, serverTime, 100)
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected interface{}
	}{
		{
			name:     "KeyMessage",
			json:     `{"type":"key","key":"w","down":true}`,
			expected: &KeyMessage{Type: MessageTypeKey, Key: "w", Down: true},
		},
		{
			name:     "PointerMessage",
			json:     `{"type":"pointer","active":true,"x":1.5,"y":0,"z":-3}`,
			expected: &PointerMessage{Type: MessageTypePointer, Active: true, X: 1.5, Z: -3},
		},
		{
			name:     "Recover",
			json:     `{"type":"recover"}`,
			expected: &RequestMessage{Type: MessageTypeRecover},
		},
		{
			name:     "Start",
			json:     `{"type":"start"}`,
			expected: &RequestMessage{Type: MessageTypeStart},
		},
		{
			name:     "PingMessage",
			json:     `{"type":"ping","client_time":123456}`,
			expected: &PingMessage{Type: MessageTypePing, ClientTime: 123456},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseMessage([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseMessage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{"type":`},
		{"missing type", `{"key":"w"}`},
		{"unknown type", `{"type":"unknown"}`},
		{"server-only type", `{"type":"frame"}`},
		{"key without key", `{"type":"key","down":true}`},
		{"wrong field type", `{"type":"key","key":"w","down":"yes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage([]byte(tt.json))
			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
}

func TestNewFrameMessage_DropsEvents(t *testing.T) {
	frame := game.Frame{Time: 1.5, Events: []game.Event{{Kind: game.EventImpact}}}

	msg := NewFrameMessage(frame)

	assert.Equal(t, MessageTypeFrame, msg.Type)
	assert.Equal(t, 1.5, msg.Frame.Time)
	assert.Nil(t, msg.Frame.Events)
	assert.Len(t, frame.Events, 1, "caller's frame is untouched")
	assert.NotZero(t, msg.ServerTime)
}

func TestNewEventMessage(t *testing.T) {
	assert.Nil(t, NewEventMessage(nil, nil))

	msg := NewEventMessage(
		[]audio.Event{{Channel: "engine", Action: audio.ActionPlay, Volume: 0.3, Loop: true}},
		[]game.Event{{Kind: game.EventZoneEnter, Subject: "parking_gmail"}},
	)
	require.NotNil(t, msg)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MessageTypeEvent, decoded["type"])
	assert.Len(t, decoded["sounds"], 1)
	assert.Len(t, decoded["events"], 1)
}
