package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultWriteWait - предельное время записи одного сообщения
const DefaultWriteWait = 5 * time.Second

// SafeWriter обеспечивает потокобезопасную запись в WebSocket соединение.
// Кадры пишет цикл сессии, pong и ping - горутина чтения и пингер.
type SafeWriter struct {
	conn      *websocket.Conn
	mutex     sync.Mutex
	writeWait time.Duration
	closed    bool
}

// NewSafeWriter создает новый экземпляр SafeWriter
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{
		conn:      conn,
		writeWait: DefaultWriteWait,
	}
}

func (w *SafeWriter) deadline() {
	if w.writeWait > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeWait))
	}
}

// WriteJSON потокобезопасно записывает JSON данные в WebSocket соединение
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return websocket.ErrCloseSent
	}
	w.deadline()
	return w.conn.WriteJSON(v)
}

// WriteMessage потокобезопасно записывает сообщение в WebSocket соединение
func (w *SafeWriter) WriteMessage(messageType int, data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return websocket.ErrCloseSent
	}
	w.deadline()
	return w.conn.WriteMessage(messageType, data)
}

// Close отправляет кадр закрытия и закрывает соединение. Повторный вызов ничего не делает.
func (w *SafeWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return w.conn.Close()
}

// ReadMessage читает сообщение из WebSocket соединения (небезопасно для параллельного чтения)
func (w *SafeWriter) ReadMessage() (int, []byte, error) {
	return w.conn.ReadMessage()
}

// RemoteAddr возвращает адрес клиента
func (w *SafeWriter) RemoteAddr() string {
	return w.conn.RemoteAddr().String()
}
