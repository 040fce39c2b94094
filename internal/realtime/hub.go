package realtime

import (
	"encoding/json"
	"log"
)

// Event is the envelope every websocket frame carries
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// message is a marshaled event addressed to one room
type message struct {
	roomCode string
	data     []byte
}

// Hub owns every websocket client, grouped by room code. All state is
// confined to the Run goroutine; other goroutines talk to it through
// channels only.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

// NewHub creates a hub; callers must start Run in its own goroutine
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
	}
}

// Run processes registration and broadcast events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			clients := h.rooms[client.roomCode]
			if clients == nil {
				clients = make(map[*Client]bool)
				h.rooms[client.roomCode] = clients
			}
			clients[client] = true
			h.broadcastPresence(client.roomCode)

		case client := <-h.unregister:
			if clients, ok := h.rooms[client.roomCode]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.roomCode)
					}
					h.broadcastPresence(client.roomCode)
				}
			}

		case msg := <-h.broadcast:
			h.deliver(msg.roomCode, msg.data)
		}
	}
}

// Broadcast fans an event out to every client watching a room. It is safe
// to call from any goroutine.
func (h *Hub) Broadcast(roomCode, event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}
	h.broadcast <- message{roomCode: roomCode, data: data}
}

// deliver writes data to every client in a room, dropping clients whose
// send buffer is full rather than blocking the hub on a slow reader
func (h *Hub) deliver(roomCode string, data []byte) {
	for client := range h.rooms[roomCode] {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.rooms[roomCode], client)
		}
	}
	if len(h.rooms[roomCode]) == 0 {
		delete(h.rooms, roomCode)
	}
}

// broadcastPresence pushes the deduplicated list of online participant IDs
// to everyone in the room. A participant counts as online while at least
// one of their sockets is connected.
func (h *Hub) broadcastPresence(roomCode string) {
	clients := h.rooms[roomCode]

	seen := make(map[string]bool)
	online := []string{}
	for client := range clients {
		if client.participantID == "" || seen[client.participantID] {
			continue
		}
		seen[client.participantID] = true
		online = append(online, client.participantID)
	}

	data, err := json.Marshal(Event{Type: "online-participants", Payload: online})
	if err != nil {
		log.Printf("failed to marshal presence event: %v", err)
		return
	}
	h.deliver(roomCode, data)
}
