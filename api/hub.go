package api

import (
	"sync"

	"github.com/gorilla/websocket"

	"forum/core"
	"forum/logger"
	"forum/models"
)

type client struct {
	conn *websocket.Conn
	// gorilla allows one concurrent writer per connection.
	wmu sync.Mutex
}

func (c *client) write(v interface{}) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks the websocket connections of each student and pushes their
// notifications to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[core.ID]map[*websocket.Conn]*client
}

func NewHub() *Hub { return &Hub{clients: make(map[core.ID]map[*websocket.Conn]*client)} }

func (h *Hub) Add(studentID core.ID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.clients[studentID]
	if conns == nil {
		conns = make(map[*websocket.Conn]*client)
		h.clients[studentID] = conns
	}
	conns[conn] = &client{conn: conn}
	logger.Info("websocket client connected",
		logger.FieldKV("student_id", studentID.String()),
		logger.FieldKV("remote_addr", conn.RemoteAddr().String()))
}

func (h *Hub) Remove(studentID core.ID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.clients[studentID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, studentID)
		}
	}
	_ = conn.Close()
	logger.Info("websocket client disconnected",
		logger.FieldKV("student_id", studentID.String()),
		logger.FieldKV("remote_addr", conn.RemoteAddr().String()))
}

// Send pushes n to every connection of its recipient and reports how many
// writes succeeded.
func (h *Hub) Send(n models.Notification) int {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[n.RecipientID]))
	for _, c := range h.clients[n.RecipientID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if err := c.write(notificationEvent(n)); err != nil {
			logger.Error("websocket write error", err, logger.FieldKV("remote_addr", c.conn.RemoteAddr().String()))
			continue
		}
		delivered++
	}
	return delivered
}

// Connections returns the number of open connections of a student.
func (h *Hub) Connections(studentID core.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[studentID])
}
