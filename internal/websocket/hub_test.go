package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, candidateID uuid.UUID) (*websocket.Conn, chan *Client) {
	t.Helper()
	registered := make(chan *Client, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := hub.Register(conn, candidateID)
		registered <- c
		c.WritePump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, registered
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	id := uuid.New()
	conn, registered := dialHub(t, hub, id)
	client := <-registered

	assert.Equal(t, 1, hub.Count(id))

	hub.Broadcast(id, StreamEvent{Event: "tick", Data: map[string]int{"remaining": 9}})
	hub.Broadcast(uuid.New(), StreamEvent{Event: "tick"})
	require.True(t, client.Send(PongResponse{Event: EventPong}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev StreamEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, Event("tick"), ev.Event)
	data, _ := json.Marshal(ev.Data)
	assert.JSONEq(t, `{"remaining":9}`, string(data))

	var pong PongResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, EventPong, pong.Event)

	hub.Unregister(client)
	hub.Unregister(client)
	assert.Equal(t, 0, hub.Count(id))
	assert.False(t, client.Send(PongResponse{Event: EventPong}))
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	id := uuid.New()
	c := &Client{hub: hub, send: make(chan []byte, 1), CandidateID: id}
	hub.mu.Lock()
	hub.clients[id] = map[*Client]struct{}{c: {}}
	hub.mu.Unlock()

	hub.Broadcast(id, PongResponse{Event: EventPong})
	assert.Equal(t, 1, hub.Count(id))
	hub.Broadcast(id, PongResponse{Event: EventPong})
	assert.Equal(t, 0, hub.Count(id))
}
