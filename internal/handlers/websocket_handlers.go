package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"classroom-live/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Displays connect from classroom devices on the local network.
		return true
	},
}

// WebSocketHandler upgrades display connections into the event hub.
type WebSocketHandler struct {
	service *services.WebSocketService
	manager *services.SessionManager
}

// NewWebSocketHandler creates a websocket handler.
func NewWebSocketHandler(service *services.WebSocketService, manager *services.SessionManager) *WebSocketHandler {
	return &WebSocketHandler{service: service, manager: manager}
}

// Connect attaches a display to a class's event stream
// GET /ws/{classID}
func (h *WebSocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["classID"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket for class %s: %v", classID, err)
		return
	}

	// Ensure the session exists so the display has state to render.
	h.manager.Get(classID)
	h.service.Register(conn, classID)
}
