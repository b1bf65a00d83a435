package game

import (
	"time"
)

// FramePublisher получает кадр каждого тика
type FramePublisher func(Frame) error

// SessionSystem продвигает сессию и публикует кадр
type SessionSystem struct {
	name     string
	priority int
	session  *Session
	publish  FramePublisher
}

func NewSessionSystem(session *Session, publish FramePublisher) *SessionSystem {
	return &SessionSystem{
		name:     "SessionSystem",
		priority: 10,
		session:  session,
		publish:  publish,
	}
}

// Update выполняет тик сессии с реальным временем deltaTime
func (ss *SessionSystem) Update(deltaTime time.Duration) error {
	frame := ss.session.Tick(deltaTime.Seconds())
	if ss.publish == nil {
		return nil
	}
	return ss.publish(frame)
}

func (ss *SessionSystem) GetName() string  { return ss.name }
func (ss *SessionSystem) GetPriority() int { return ss.priority }

// Summarizer печатает накопленную сводку
type Summarizer interface {
	PrintSummary()
}

// TelemetrySystem периодически печатает сводку телеметрии
type TelemetrySystem struct {
	name     string
	priority int
	target   Summarizer
}

func NewTelemetrySystem(target Summarizer) *TelemetrySystem {
	return &TelemetrySystem{
		name:     "TelemetrySystem",
		priority: 100, // После всех систем
		target:   target,
	}
}

func (ts *TelemetrySystem) Update(time.Duration) error {
	if ts.target != nil {
		ts.target.PrintSummary()
	}
	return nil
}

func (ts *TelemetrySystem) GetName() string  { return ts.name }
func (ts *TelemetrySystem) GetPriority() int { return ts.priority }
