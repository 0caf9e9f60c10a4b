package ws_room

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/humanbelnik/matchmovie/internal/model"
)

type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func NewClient(id string, conn *websocket.Conn, buffer int) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, buffer),
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub tracks the connections of this instance and the room groups they belong to.
type Hub struct {
	mu sync.Mutex

	clients map[string]*Client
	// Keep track of sets of Clients within each room
	rooms map[string]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info("client registered", "conn_id", client.ID)
}

// Unregister drops the client from every group and stops its writer.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.drop(client)
	h.logger.Info("client unregistered", "conn_id", client.ID)
}

func (h *Hub) Send(connID string, event model.Event) {
	message, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[connID]; ok {
		h.deliver(client, message)
	}
}

func (h *Hub) Broadcast(code string, event model.Event) {
	message, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[code] {
		h.deliver(client, message)
	}
}

func (h *Hub) Join(connID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[*Client]bool)
	}
	h.rooms[code][client] = true
}

func (h *Hub) Leave(connID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	h.leave(client, code)
}

// Close dissolves the group. Members stay connected.
func (h *Hub) Close(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.rooms, code)
}

func (h *Hub) Members(code string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.rooms[code])
}

func (h *Hub) encode(event model.Event) ([]byte, bool) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event", "type", event.Type, "error", err)
		return nil, false
	}
	return message, true
}

// deliver never blocks: a client that cannot keep up is disconnected.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		h.logger.Warn("dropping slow client", "conn_id", client.ID)
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	if current, ok := h.clients[client.ID]; ok && current == client {
		delete(h.clients, client.ID)
	}
	for code := range h.rooms {
		h.leave(client, code)
	}
	client.closeSend()
}

func (h *Hub) leave(client *Client, code string) {
	if room, ok := h.rooms[code]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, code)
		}
	}
}
