package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// DisplayClient is one connected live-screen display.
type DisplayClient struct {
	service *WebSocketService
	conn    *websocket.Conn
	send    chan []byte
	classID string
}

// WebSocketService fans session events out to every display watching a
// class. It implements Notifier.
type WebSocketService struct {
	mu      sync.RWMutex
	clients map[string]map[*DisplayClient]bool

	register   chan *DisplayClient
	unregister chan *DisplayClient
}

// NewWebSocketService creates the hub. Call Run in a goroutine before
// registering clients.
func NewWebSocketService() *WebSocketService {
	return &WebSocketService{
		clients:    make(map[string]map[*DisplayClient]bool),
		register:   make(chan *DisplayClient),
		unregister: make(chan *DisplayClient),
	}
}

// Run processes client registration until the process exits.
func (ws *WebSocketService) Run() {
	for {
		select {
		case client := <-ws.register:
			ws.mu.Lock()
			if ws.clients[client.classID] == nil {
				ws.clients[client.classID] = make(map[*DisplayClient]bool)
			}
			ws.clients[client.classID][client] = true
			ws.mu.Unlock()
			log.Printf("Display connected for class %s", client.classID)

		case client := <-ws.unregister:
			ws.mu.Lock()
			if room, ok := ws.clients[client.classID]; ok && room[client] {
				delete(room, client)
				close(client.send)
				if len(room) == 0 {
					delete(ws.clients, client.classID)
				}
			}
			ws.mu.Unlock()
			log.Printf("Display disconnected for class %s", client.classID)
		}
	}
}

// Broadcast sends an event to every display watching classID. Slow
// clients get dropped rather than blocking the session.
func (ws *WebSocketService) Broadcast(classID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event %q: %v", event.Type, err)
		return
	}

	ws.mu.RLock()
	defer ws.mu.RUnlock()

	for client := range ws.clients[classID] {
		select {
		case client.send <- payload:
		default:
			// Buffer full: the writer is stuck, let its pump close it.
		}
	}
}

// Register attaches a new display connection and starts its pumps.
func (ws *WebSocketService) Register(conn *websocket.Conn, classID string) {
	client := &DisplayClient{
		service: ws,
		conn:    conn,
		send:    make(chan []byte, 64),
		classID: classID,
	}
	ws.register <- client

	go client.writePump()
	go client.readPump()
}

// ClientCount returns how many displays are watching a class.
func (ws *WebSocketService) ClientCount(classID string) int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.clients[classID])
}

// readPump drains (and discards) inbound messages so control frames
// are processed, and unregisters on disconnect.
func (c *DisplayClient) readPump() {
	defer func() {
		c.service.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Display read error: %v", err)
			}
			return
		}
	}
}

// writePump forwards queued events and keeps the connection alive with
// pings.
func (c *DisplayClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
