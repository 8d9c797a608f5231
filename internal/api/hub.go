/*
Package api
File: hub.go
Description:
    The WebSocket hub: the real-time window into the simulation.

    It maintains a registry of all connected observers (dashboards, the game
    client) and fans each post-tick snapshot out to every socket. Large
    snapshot frames are zstd-compressed and sent as binary messages with a
    "VFZ1" prefix; small ones go out as plain JSON text frames.

    Architecture:
    - Hub: the singleton manager.
    - Client: one connected observer.
    - ServeWs: upgrades a GET request to a WebSocket.
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"github.com/everforgeworks/vendfleet/internal/game"
)

// compressThreshold is the frame size (bytes) above which snapshots are
// zstd-compressed before broadcast.
const compressThreshold = 8 * 1024

// frameMagic prefixes every compressed binary frame.
var frameMagic = []byte("VFZ1")

// Message is the JSON envelope for non-snapshot traffic (chat, notices).
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Sender  string      `json:"sender"`
}

// frame is one outbound websocket message.
type frame struct {
	binary bool
	data   []byte
}

// Client represents a single connected observer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan frame // Buffered channel of outbound frames
}

// Hub maintains the set of active clients and broadcasts snapshots to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan frame
	register   chan *Client
	unregister chan *Client

	enc *zstd.Encoder
}

// NewHub creates a new Hub instance. Call Run in a goroutine afterwards.
func NewHub() *Hub {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		// Only reachable with invalid encoder options.
		log.Fatalf("HUB: zstd init: %v", err)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan frame, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		enc:        enc,
	}
}

// BroadcastSnapshot encodes a state snapshot and queues it for every client.
func (h *Hub) BroadcastSnapshot(st game.State) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":    "tick",
		"payload": st,
	})
	if err != nil {
		log.Printf("HUB: marshal snapshot: %v", err)
		return
	}

	f := frame{data: payload}
	if len(payload) > compressThreshold {
		compressed := h.enc.EncodeAll(payload, append([]byte(nil), frameMagic...))
		f = frame{binary: true, data: compressed}
	}

	select {
	case h.broadcast <- f:
	default:
		// Broadcast queue is full; the next tick will carry fresher state anyway.
	}
}

// BroadcastNotice queues a small JSON notice (market pulse style) for all clients.
func (h *Hub) BroadcastNotice(msgType string, payload interface{}) {
	b, err := json.Marshal(Message{Type: msgType, Payload: payload, Sender: "system"})
	if err != nil {
		log.Printf("HUB: marshal notice: %v", err)
		return
	}
	select {
	case h.broadcast <- frame{data: b}:
	default:
	}
}

// Run is the hub's event loop. It blocks; run it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Println("WS: New Connection Registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case f := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- f:
				default:
					// Send buffer full: assume the client hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// upgrader configures the WebSocket handshake. CheckOrigin is permissive so
// the desktop client can connect cross-origin.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a persistent WebSocket connection.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan frame, 64)}
	client.hub.register <- client

	// One goroutine per direction so a slow reader can't block the writer.
	go client.writePump()
	go client.readPump()
}

// readPump drains inbound messages. Observers are read-only; anything they
// send is logged and dropped.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Error: %v", err)
			}
			break
		}
		log.Printf("WS: ignoring inbound message: %s", string(message))
	}
}

// writePump pumps frames from the hub to the socket.
func (c *Client) writePump() {
	defer c.conn.Close()

	for f := range c.send {
		msgType := websocket.TextMessage
		if f.binary {
			msgType = websocket.BinaryMessage
		}
		if err := c.conn.WriteMessage(msgType, f.data); err != nil {
			return
		}
	}
}
