package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer принимает соединение и передает прочитанные сообщения в канал
func echoServer(t *testing.T, received chan<- string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(received)
				return
			}
			received <- string(msg)
		}
	}))
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Failed to connect to WebSocket server")
	return conn
}

func TestSafeWriter_WriteJSON_Concurrency(t *testing.T) {
	received := make(chan string, 20)
	server := echoServer(t, received)
	defer server.Close()

	writer := NewSafeWriter(dial(t, server))
	defer writer.Close()

	// Запускаем 10 горутин, каждая отправляет свое сообщение
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			time.Sleep(time.Duration(id) * time.Millisecond)

			msg := struct {
				ID  int    `json:"id"`
				Msg string `json:"msg"`
			}{
				ID:  id,
				Msg: "Test message",
			}
			assert.NoError(t, writer.WriteJSON(msg))
		}(i)
	}
	wg.Wait()

	// Все сообщения должны дойти целыми и быть разными
	uniq := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		select {
		case msg := <-received:
			assert.True(t, strings.HasPrefix(msg, `{"id":`), "message %q", msg)
			uniq[msg] = struct{}{}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d messages", i)
		}
	}
	assert.Len(t, uniq, 10)
}

func TestSafeWriter_Close(t *testing.T) {
	received := make(chan string, 1)
	server := echoServer(t, received)
	defer server.Close()

	writer := NewSafeWriter(dial(t, server))
	require.NoError(t, writer.Close())
	assert.NoError(t, writer.Close(), "second close is a no-op")

	// Попытка записи в закрытое соединение должна вернуть ошибку
	assert.ErrorIs(t, writer.WriteJSON("test"), websocket.ErrCloseSent)
	assert.Error(t, writer.WriteMessage(websocket.TextMessage, []byte("test")))

	select {
	case _, ok := <-received:
		assert.False(t, ok, "server sees the close frame")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not observe close")
	}
}
