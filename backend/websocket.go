// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Message types for WebSocket communication
const (
	MsgTypeJoin       = "JOIN"
	MsgTypeAck        = "ACK"
	MsgTypePlayResult = "PLAY_RESULT"
	MsgTypeGameStatus = "GAME_STATUS"
	MsgTypeGameOver   = "GAME_OVER"
	MsgTypeError      = "ERROR"
)

// Message represents a WebSocket message
type Message struct {
	Type     string       `json:"type"`
	GameId   string       `json:"gameId,omitempty"`
	Sequence int          `json:"sequence,omitempty"`
	Status   string       `json:"status,omitempty"`
	Play     *PlayUpdate  `json:"play,omitempty"`
	Summary  *GameSummary `json:"summary,omitempty"`
	Error    string       `json:"error,omitempty"`

	// terminal marks the last frame of a game, completed or aborted, so
	// the hub knows it can be reaped once the spectators leave.
	terminal bool
}

// PlaybackHub fans one game's play-by-play out to its spectators. The game
// goroutine feeds events in; spectators who join mid-game get the history
// replayed before live events. The hub goroutine owns all hub state.
type PlaybackHub struct {
	gameId string

	// Registered clients.
	clients map[*wsClient]bool

	// Inbound game events from the simulation goroutine.
	events chan Message

	// Register requests from the clients.
	register chan *wsClient

	// Unregister requests from clients.
	unregister chan *wsClient

	// Every event broadcast so far, replayed to late joiners.
	history []Message

	finished bool

	// idleInterval is how often an empty, finished hub checks whether it
	// can remove itself.
	idleInterval time.Duration

	hm *PlaybackManager
}

func newPlaybackHub(gameId string, hm *PlaybackManager) *PlaybackHub {
	return &PlaybackHub{
		gameId: gameId,
		// Buffered so the game goroutine never stalls on a slow hub.
		events:       make(chan Message, 64),
		register:     make(chan *wsClient),
		unregister:   make(chan *wsClient),
		clients:      make(map[*wsClient]bool),
		idleInterval: 5 * time.Minute,
		hm:           hm,
	}
}

func (h *PlaybackHub) run() {
	idleTimer := time.NewTicker(h.idleInterval)
	defer idleTimer.Stop()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			for _, msg := range h.history {
				client.sendJSON(msg)
			}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.events:
			h.history = append(h.history, msg)
			h.broadcast(msg)
			if msg.terminal {
				h.finished = true
			}
		case <-idleTimer.C:
			if len(h.clients) == 0 && h.finished {
				h.hm.RemoveHub(h.gameId)
				return
			}
		}
	}
}

func (h *PlaybackHub) broadcast(msg Message) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// deliver queues a game event without ever blocking the game goroutine.
func (h *PlaybackHub) deliver(msg Message) {
	select {
	case h.events <- msg:
	default:
		log.Printf("Warning: hub channel full, dropping %s for game %s", msg.Type, h.gameId)
	}
}

// PlayResult implements PlaySink.
func (h *PlaybackHub) PlayResult(update *PlayUpdate) {
	h.deliver(Message{
		Type:     MsgTypePlayResult,
		GameId:   h.gameId,
		Sequence: update.Sequence,
		Play:     update,
	})
}

// GameOver implements PlaySink.
func (h *PlaybackHub) GameOver(summary *GameSummary) {
	h.deliver(Message{
		Type:     MsgTypeGameOver,
		GameId:   h.gameId,
		Summary:  summary,
		terminal: true,
	})
}

// Status pushes a lifecycle note (building rosters, first pitch).
func (h *PlaybackHub) Status(status string) {
	h.deliver(Message{
		Type:   MsgTypeGameStatus,
		GameId: h.gameId,
		Status: status,
	})
}

// Abort ends a game that never produced a summary. The hub is reapable
// afterwards, just as after a GameOver.
func (h *PlaybackHub) Abort(reason string) {
	h.deliver(Message{
		Type:     MsgTypeGameStatus,
		GameId:   h.gameId,
		Status:   "aborted: " + reason,
		terminal: true,
	})
}

// PlaybackManager tracks the hub for each live or recently finished game.
type PlaybackManager struct {
	hubs map[string]*PlaybackHub
	mu   sync.Mutex
}

func NewPlaybackManager() *PlaybackManager {
	return &PlaybackManager{
		hubs: make(map[string]*PlaybackHub),
	}
}

// GetHub creates the hub for a game, starting its goroutine on first use.
func (hm *PlaybackManager) GetHub(gameId string) *PlaybackHub {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hub, ok := hm.hubs[gameId]; ok {
		return hub
	}

	hub := newPlaybackHub(gameId, hm)
	hm.hubs[gameId] = hub
	go hub.run()
	return hub
}

// Hub returns the hub for a game, or nil if the game is unknown.
func (hm *PlaybackManager) Hub(gameId string) *PlaybackHub {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	return hm.hubs[gameId]
}

func (hm *PlaybackManager) RemoveHub(gameId string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	delete(hm.hubs, gameId)
}

func (hm *PlaybackManager) Clear() {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.hubs = make(map[string]*PlaybackHub)
}

// wsClient is a middleman between the websocket connection and the hub.
type wsClient struct {
	hub *PlaybackHub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan Message
}

// readPump pumps messages from the websocket connection to the hub.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypeJoin:
			c.sendJSON(Message{Type: MsgTypeAck, GameId: c.hub.gameId})
		case "PING":
			c.sendJSON(Message{Type: "PONG"})
		default:
			log.Printf("Unknown message type: %s", msg.Type)
			c.sendJSON(Message{Type: MsgTypeError, Error: "Unknown message type"})
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *wsClient) writePump() {
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
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

func (c *wsClient) sendJSON(msg Message) {
	select {
	case c.send <- msg:
	default:
		// Channel full, drop connection?
	}
}

// ServeWS handles websocket requests from the peer. A spectator can only
// attach to a game that has actually been started.
func ServeWS(hm *PlaybackManager, w http.ResponseWriter, r *http.Request) {
	gameId := r.URL.Query().Get("gameId")
	if gameId == "" || !isValidUUID(gameId) {
		http.Error(w, "Invalid gameId", http.StatusBadRequest)
		return
	}

	hub := hm.Hub(gameId)
	if hub == nil {
		http.Error(w, "Unknown game", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &wsClient{hub: hub, conn: conn, send: make(chan Message, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
