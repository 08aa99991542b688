package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"socialapi/metrics"
	"socialapi/middleware"
	"socialapi/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

// delivery targets every connection of userID, or only client when set.
type delivery struct {
	userID  string
	client  *Client
	message []byte
}

// Hub tracks websocket clients per user and delivers events addressed to them.
// A user may hold several connections; each receives every event.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}

	mu    sync.RWMutex
	count int
}

type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
	hub    *Hub
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Run owns the client map until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.setCount(0)
			return

		case client := <-h.register:
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.setCount(h.count + 1)
			log.WithField("userId", client.userID).WithField("clients", h.Connected()).Debug("[Hub] client registered")

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliver:
			if d.client != nil {
				if h.clients[d.userID][d.client] {
					h.send(d.client, d.message)
				}
				continue
			}
			for client := range h.clients[d.userID] {
				h.send(client, d.message)
			}
		}
	}
}

func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		// slow consumer
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	h.setCount(h.count - 1)
	log.WithField("userId", client.userID).WithField("clients", h.Connected()).Debug("[Hub] client unregistered")
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
	metrics.SetConnectedClients(n)
}

// Connected returns the number of open connections.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Notify queues event for every connection of userID. It never blocks the
// caller; events are dropped when the queue is full.
func (h *Hub) Notify(userID string, event models.Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("type", event.Type).Error("[Hub] marshal event")
		return
	}

	select {
	case h.deliver <- delivery{userID: userID, message: msg}:
	default:
		log.WithField("userId", userID).WithField("type", event.Type).Warn("[Hub] delivery queue full, event dropped")
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades an authenticated request. The caller's id must already be
// on the context under middleware.UserIDKey.
func (h *Hub) ServeWS(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required", "success": false})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("[ServeWS] upgrade failed")
		return
	}

	client := &Client{
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBuffer),
		hub:    h,
	}

	welcome, _ := json.Marshal(models.Event{
		Type: models.EventConnected,
		Payload: map[string]interface{}{
			"userId": userID,
			"time":   time.Now().Unix(),
		},
	})
	client.send <- welcome

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only services control frames and application pings; clients do
// not send anything else.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).WithField("userId", c.userID).Warn("[readPump] read error")
			}
			return
		}

		var in struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &in); err != nil {
			continue
		}
		if in.Type == "ping" {
			pong, _ := json.Marshal(models.Event{Type: "pong", Payload: map[string]interface{}{"time": time.Now().Unix()}})
			select {
			case c.hub.deliver <- delivery{userID: c.userID, client: c, message: pong}:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
