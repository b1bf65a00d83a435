package ws

import (
	"fmt"
	"time"

	"x-drive/backend/internal/game"
)

// DefaultStateInterval - интервал отправки кадров клиенту
const DefaultStateInterval = 50 * time.Millisecond

// frameStream прореживает кадры до интервала отправки и копит события между отправками.
// Используется только из горутины цикла сессии.
type frameStream struct {
	interval time.Duration
	lastSent time.Time
	pending  []game.Event
	now      func() time.Time
}

func newFrameStream(interval time.Duration) frameStream {
	if interval <= 0 {
		interval = DefaultStateInterval
	}
	return frameStream{interval: interval, now: time.Now}
}

// due добавляет события кадра и сообщает, пора ли отправлять
func (fs *frameStream) due(frame game.Frame) bool {
	fs.pending = append(fs.pending, frame.Events...)
	now := fs.now()
	if !fs.lastSent.IsZero() && now.Sub(fs.lastSent) < fs.interval {
		return false
	}
	fs.lastSent = now
	return true
}

func (fs *frameStream) take() []game.Event {
	out := fs.pending
	fs.pending = nil
	return out
}

// publish отправляет клиенту кадр и накопленные звуковые команды и события
func (d *Driver) publish(frame game.Frame) error {
	if !d.stream.due(frame) {
		return nil
	}

	if err := d.Conn.WriteJSON(NewFrameMessage(frame)); err != nil {
		return fmt.Errorf("error sending frame: %w", err)
	}

	if msg := NewEventMessage(d.remote.Drain(), d.stream.take()); msg != nil {
		if err := d.Conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("error sending events: %w", err)
		}
	}
	return nil
}
