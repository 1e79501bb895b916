package ws_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/pkg/ws"
)

func dial(t *testing.T, hub *ws.Hub, topic string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, topic)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers(topic) > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestPublishReachesOnlyTopicSubscribers(t *testing.T) {
	hub := ws.NewHub(nil)
	defer hub.Close()
	mine := dial(t, hub, "user:a")
	other := dial(t, hub, "user:b")

	require.NoError(t, hub.Publish("user:a", "order.status_changed", map[string]string{"orderStatus": "shipped"}))

	var msg ws.Message
	require.NoError(t, mine.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, mine.ReadJSON(&msg))
	assert.Equal(t, "order.status_changed", msg.Type)
	assert.Equal(t, map[string]any{"orderStatus": "shipped"}, msg.Data)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestDisconnectUnsubscribes(t *testing.T) {
	hub := ws.NewHub(nil)
	conn := dial(t, hub, "admin")

	conn.Close()

	assert.Eventually(t, func() bool { return hub.Subscribers("admin") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishAfterCloseFails(t *testing.T) {
	hub := ws.NewHub(nil)
	require.NoError(t, hub.Publish("admin", "order.placed", nil))

	hub.Close()

	assert.ErrorIs(t, hub.Publish("admin", "order.placed", nil), ws.ErrClosed)
}
