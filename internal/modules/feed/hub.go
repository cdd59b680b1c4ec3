package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"taxibooking/internal/events"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// client is one admin dashboard connection.
type client struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans booking events out to every connected admin.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	loggerf func(format string, args ...interface{})
}

func NewHub(loggerf func(format string, args ...interface{})) *Hub {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		loggerf: loggerf,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues e for every client. Slow clients miss events rather than
// block the publisher.
func (h *Hub) Broadcast(e events.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.loggerf("level=warn msg=feed client too slow, event dropped user_id=%d event=%s", c.userID, e.ID)
		}
	}
}

// Handler adapts the hub to an event bus subscriber.
func (h *Hub) Handler() events.Handler {
	return func(_ context.Context, e events.Event) error {
		h.Broadcast(e)
		return nil
	}
}

// Serve registers conn and blocks until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn, userID int64) {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(c)
	h.loggerf("level=info msg=feed client connected user_id=%d", userID)

	go h.writePump(c)
	h.readPump(c)
}

// readPump only services control frames; the feed is one-way.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.loggerf("level=info msg=feed client disconnected user_id=%d", c.userID)
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.loggerf("level=warn msg=feed read failed user_id=%d err=%v", c.userID, err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
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

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
