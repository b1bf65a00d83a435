package ws

import (
	"fmt"
	"time"
)

// handleKey передает состояние клавиши в хранилище ввода сессии
func (s *WSServer) handleKey(d *Driver, message interface{}) error {
	msg, ok := message.(*KeyMessage)
	if !ok {
		return ErrInvalidMessage
	}
	if !d.Session.Input().SetKey(msg.Key, msg.Down) {
		return fmt.Errorf("%w: unbound key %q", ErrInvalidMessage, msg.Key)
	}
	return nil
}

// handlePointer обновляет цель указателя
func (s *WSServer) handlePointer(d *Driver, message interface{}) error {
	msg, ok := message.(*PointerMessage)
	if !ok {
		return ErrInvalidMessage
	}
	d.Session.Input().SetPointer(msg.Active, msg.Target())
	return nil
}

// handleRecover ставит ручное восстановление на ближайший тик
func (s *WSServer) handleRecover(d *Driver, message interface{}) error {
	if _, ok := message.(*RequestMessage); !ok {
		return ErrInvalidMessage
	}
	d.Session.Input().RequestRecovery()
	return nil
}

// handleStart запускает двигатель на ближайшем тике
func (s *WSServer) handleStart(d *Driver, message interface{}) error {
	if _, ok := message.(*RequestMessage); !ok {
		return ErrInvalidMessage
	}
	d.Session.Input().RequestStart()
	return nil
}

// handlePing обрабатывает ping-сообщения
func (s *WSServer) handlePing(d *Driver, message interface{}) error {
	pingMsg, ok := message.(*PingMessage)
	if !ok {
		return ErrInvalidMessage
	}
	return d.Conn.WriteJSON(NewPongMessage(pingMsg.ClientTime))
}

// handlePong принимает ответ клиента на пинг сервера
func (s *WSServer) handlePong(*Driver, interface{}) error {
	return nil
}

// startPing запускает периодическую отправку пингов для проверки соединения
func (s *WSServer) startPing(d *Driver, stop <-chan struct{}) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := d.Conn.WriteJSON(NewPingMessage()); err != nil {
				s.logger.Debug().Err(err).Str("session", d.ID).Msg("Ошибка отправки пинга")
				return
			}
		}
	}
}
