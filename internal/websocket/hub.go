package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeResultsUpdated   MessageType = "results_updated"
	MessageTypeCheckoutComplete MessageType = "checkout_completed"
	MessageTypeCheckoutFailed   MessageType = "checkout_failed"
)

// Message is pushed to every connection of one session
type Message struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"-"`
	HTML      string      `json:"html,omitempty"`
	Message   string      `json:"message,omitempty"`
	Redirect  string      `json:"redirect,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Client is one browser tab's connection
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub manages WebSocket connections per session
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
	log        logger.Logger
}

// NewHub creates a new Hub
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run is the hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.sessionID] == nil {
				h.clients[client.sessionID] = make(map[*Client]bool)
			}
			h.clients[client.sessionID][client] = true
			n := len(h.clients[client.sessionID])
			h.mu.Unlock()
			h.log.Debug("websocket client registered", "session_id", client.sessionID, "connections", n)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.log.Error("failed to marshal websocket message", "error", err)
				continue
			}

			h.mu.RLock()
			var stuck []*Client
			for client := range h.clients[message.SessionID] {
				select {
				case client.send <- data:
				default:
					stuck = append(stuck, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range stuck {
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}
	h.log.Debug("websocket client unregistered", "session_id", client.sessionID, "remaining", len(clients))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, id)
	}
}

// Send queues msg for every connection of msg.SessionID
func (h *Hub) Send(msg *Message) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("websocket broadcast queue full, message dropped", "session_id", msg.SessionID, "type", msg.Type)
	}
}

// PushResults replaces the result list of a session's open pages
func (h *Hub) PushResults(sessionID, html string) {
	h.Send(&Message{Type: MessageTypeResultsUpdated, SessionID: sessionID, HTML: html})
}

// PushCheckoutCompleted tells a session its booking went through
func (h *Hub) PushCheckoutCompleted(sessionID, message, redirect string) {
	h.Send(&Message{Type: MessageTypeCheckoutComplete, SessionID: sessionID, Message: message, Redirect: redirect})
}

// PushCheckoutFailed sends the re-rendered wizard after a failed booking
func (h *Hub) PushCheckoutFailed(sessionID, html string) {
	h.Send(&Message{Type: MessageTypeCheckoutFailed, SessionID: sessionID, HTML: html})
}

// ClientCount returns the number of connections open for a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Attach registers conn for sessionID and starts its pumps
func (h *Hub) Attach(conn *websocket.Conn, sessionID string) {
	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sessionID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only drains control frames; the page never sends data
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
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read failed", "session_id", c.sessionID, "error", err)
			}
			return
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
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
