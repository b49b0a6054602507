package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const sendBuffer = 64

// Hub fans messages out to every connection watching a candidate.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	log     zerolog.Logger
}

// Client is one WebSocket connection. All writes go through Send and the
// client's WritePump so the connection has a single writer.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	CandidateID uuid.UUID
	closeOnce   sync.Once
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection for a candidate.
func (h *Hub) Register(conn *websocket.Conn, candidateID uuid.UUID) *Client {
	c := &Client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		CandidateID: candidateID,
	}

	h.mu.Lock()
	set, ok := h.clients[candidateID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[candidateID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	h.log.Debug().Str("candidate_id", candidateID.String()).Msg("Client registered")
	return c
}

// Unregister removes a connection and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.clients[c.CandidateID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.CandidateID)
	}
	c.closeOnce.Do(func() { close(c.send) })
	h.log.Debug().Str("candidate_id", c.CandidateID.String()).Msg("Client unregistered")
}

// Count returns the number of connections watching a candidate.
func (h *Hub) Count(candidateID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[candidateID])
}

// Total returns the number of open connections across all candidates.
func (h *Hub) Total() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Broadcast sends v to every connection of a candidate. Clients whose queue
// is full are dropped.
func (h *Hub) Broadcast(candidateID uuid.UUID, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("Marshal error")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[candidateID] {
		select {
		case c.send <- data:
		default:
			h.log.Warn().Str("candidate_id", candidateID.String()).Msg("Slow client dropped")
			h.removeLocked(c)
		}
	}
}

// Send queues v for this client only. It reports false if the client is gone
// or its queue is full.
func (c *Client) Send(v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c.CandidateID][c]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// WritePump drains the send queue to the connection and keeps it alive with
// pings. It returns once the client is unregistered or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// PrepareRead applies the read limit and the pong-driven read deadline.
func (c *Client) PrepareRead() {
	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

// ReadMessage reads the next text frame and extends the read deadline.
func (c *Client) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err == nil {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	return data, err
}
