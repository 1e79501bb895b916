// Package ws pushes JSON messages to websocket subscribers grouped by
// topic. A connection subscribes to its topics at upgrade time and only
// receives; anything the client sends is discarded.
//
//	hub := ws.NewHub(nil)
//	api.Get("/orders/stream", "orders.stream", func(w http.ResponseWriter, r *http.Request) {
//	    hub.Serve(w, r, "user:"+userID)
//	})
//	hub.Publish("user:"+userID, "order.status_changed", order)
package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/unistore/pkg/logger"
	"github.com/shashiranjanraj/unistore/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

// ErrClosed is returned by Publish and Serve once the hub is closed.
var ErrClosed = errors.New("ws: hub closed")

// Message is the frame written to subscribers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	topics []string
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks subscribers per topic.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	topics map[string]map[*client]struct{}
	closed bool
}

// NewHub returns a hub. checkOrigin may be nil to allow any origin.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		topics: map[string]map[*client]struct{}{},
	}
}

// Serve upgrades the request and subscribes the connection to topics until
// the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, topics ...string) error {
	if h.isClosed() {
		return ErrClosed
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), topics: topics}
	h.register(c)
	logger.WithCtx(r.Context()).Debug("ws: subscribed", "topics", topics)

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range c.topics {
		if h.topics[t] == nil {
			h.topics[t] = map[*client]struct{}{}
		}
		h.topics[t][c] = struct{}{}
	}
	metrics.WSConnections.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	removed := false
	for _, t := range c.topics {
		if subs, ok := h.topics[t]; ok {
			if _, ok := subs[c]; ok {
				removed = true
				delete(subs, c)
			}
			if len(subs) == 0 {
				delete(h.topics, t)
			}
		}
	}
	h.mu.Unlock()
	if removed {
		metrics.WSConnections.Dec()
	}
	c.close()
}

// Publish sends a message to every subscriber of topic. Subscribers whose
// buffer is full are disconnected.
func (h *Hub) Publish(topic, typ string, data any) error {
	payload, err := json.Marshal(Message{Type: typ, Data: data})
	if err != nil {
		return err
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrClosed
	}
	var slow []*client
	for c := range h.topics[topic] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.unregister(c)
	}
	return nil
}

// Subscribers counts the connections on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Close disconnects every subscriber. Later publishes fail with ErrClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	h.mu.RLock()
	all := map[*client]struct{}{}
	for _, subs := range h.topics {
		for c := range subs {
			all[c] = struct{}{}
		}
	}
	h.mu.RUnlock()
	for c := range all {
		h.unregister(c)
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws: unexpected close", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
