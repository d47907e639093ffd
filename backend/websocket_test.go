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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// newPlaybackServer starts an httptest server exposing /api/ws backed by
// the given PlaybackManager.
func newPlaybackServer(t *testing.T, hm *PlaybackManager) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hm, w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dialPlayback(t *testing.T, server *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws?gameId=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	return msg
}

func TestWebSocketJoinAndPlayStream(t *testing.T) {
	hm := NewPlaybackManager()
	gameID := uuid.New().String()
	hub := hm.GetHub(gameID)

	server := newPlaybackServer(t, hm)
	conn := dialPlayback(t, server, gameID)

	// Test 1: JOIN is acknowledged.
	if err := conn.WriteJSON(Message{Type: MsgTypeJoin, GameId: gameID}); err != nil {
		t.Fatalf("Failed to send JOIN: %v", err)
	}
	ack := readMessage(t, conn)
	if ack.Type != MsgTypeAck {
		t.Fatalf("Expected %s, got %s", MsgTypeAck, ack.Type)
	}
	if ack.GameId != gameID {
		t.Errorf("ACK gameId = %s, want %s", ack.GameId, gameID)
	}

	// Test 2: play results reach the spectator with their sequence numbers.
	hub.PlayResult(&PlayUpdate{GameID: gameID, Sequence: 1, Inning: 1, Half: "top"})
	play := readMessage(t, conn)
	if play.Type != MsgTypePlayResult {
		t.Fatalf("Expected %s, got %s", MsgTypePlayResult, play.Type)
	}
	if play.Sequence != 1 || play.Play == nil || play.Play.Inning != 1 {
		t.Errorf("Unexpected play message: %+v", play)
	}

	// Test 3: game over carries the summary.
	hub.GameOver(&GameSummary{GameID: gameID, Winner: "Home Team", Innings: 2})
	over := readMessage(t, conn)
	if over.Type != MsgTypeGameOver {
		t.Fatalf("Expected %s, got %s", MsgTypeGameOver, over.Type)
	}
	if over.Summary == nil || over.Summary.Winner != "Home Team" {
		t.Errorf("Unexpected summary: %+v", over.Summary)
	}
}

func TestWebSocketReplaysHistoryToLateJoiner(t *testing.T) {
	hm := NewPlaybackManager()
	gameID := uuid.New().String()
	hub := hm.GetHub(gameID)

	hub.Status("first pitch")
	for i := 1; i <= 3; i++ {
		hub.PlayResult(&PlayUpdate{GameID: gameID, Sequence: i})
	}

	// Give the hub goroutine a moment to drain its event channel so the
	// spectator joins after the fact. Even if it hasn't, the hub delivers
	// history and live events in posting order.
	time.Sleep(50 * time.Millisecond)

	server := newPlaybackServer(t, hm)
	conn := dialPlayback(t, server, gameID)

	// The late joiner gets the status plus all three plays, in order.
	status := readMessage(t, conn)
	if status.Type != MsgTypeGameStatus || status.Status != "first pitch" {
		t.Fatalf("Expected status replay, got %+v", status)
	}
	for i := 1; i <= 3; i++ {
		msg := readMessage(t, conn)
		if msg.Type != MsgTypePlayResult {
			t.Fatalf("Replay %d: expected %s, got %s", i, MsgTypePlayResult, msg.Type)
		}
		if msg.Sequence != i {
			t.Errorf("Replay %d: sequence = %d", i, msg.Sequence)
		}
	}
}

func TestWebSocketRejectsBadGameIDs(t *testing.T) {
	hm := NewPlaybackManager()
	server := newPlaybackServer(t, hm)

	for _, tc := range []struct {
		query string
		want  int
	}{
		{"", http.StatusBadRequest},
		{"?gameId=not-a-uuid", http.StatusBadRequest},
		{"?gameId=" + uuid.New().String(), http.StatusNotFound},
	} {
		resp, err := http.Get(server.URL + "/api/ws" + tc.query)
		if err != nil {
			t.Fatalf("GET %q: %v", tc.query, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Errorf("GET %q: status = %d, want %d", tc.query, resp.StatusCode, tc.want)
		}
	}
}

func TestWebSocketUnknownMessageType(t *testing.T) {
	hm := NewPlaybackManager()
	gameID := uuid.New().String()
	hm.GetHub(gameID)

	server := newPlaybackServer(t, hm)
	conn := dialPlayback(t, server, gameID)

	if err := conn.WriteJSON(Message{Type: "SELF_DESTRUCT"}); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}
	reply := readMessage(t, conn)
	if reply.Type != MsgTypeError {
		t.Errorf("Expected %s, got %s", MsgTypeError, reply.Type)
	}
}

func TestWebSocketBroadcastReachesAllSpectators(t *testing.T) {
	hm := NewPlaybackManager()
	gameID := uuid.New().String()
	hub := hm.GetHub(gameID)

	server := newPlaybackServer(t, hm)

	const numSpectators = 5
	conns := make([]*websocket.Conn, numSpectators)
	for i := range conns {
		conns[i] = dialPlayback(t, server, gameID)
	}

	hub.PlayResult(&PlayUpdate{GameID: gameID, Sequence: 1})

	for i, conn := range conns {
		msg := readMessage(t, conn)
		if msg.Type != MsgTypePlayResult || msg.Sequence != 1 {
			t.Errorf("Spectator %d: unexpected message %+v", i, msg)
		}
	}
}

// startIdleHub registers a hub whose idle check fires fast enough to test.
func startIdleHub(t *testing.T, hm *PlaybackManager, gameID string) *PlaybackHub {
	t.Helper()
	hub := newPlaybackHub(gameID, hm)
	hub.idleInterval = 10 * time.Millisecond
	hm.mu.Lock()
	hm.hubs[gameID] = hub
	hm.mu.Unlock()
	go hub.run()
	return hub
}

func waitForReap(t *testing.T, hm *PlaybackManager, gameID, what string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hm.Hub(gameID) != nil {
		if time.Now().After(deadline) {
			t.Fatalf("%s hub was never removed", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTerminalHubsAreReaped(t *testing.T) {
	hm := NewPlaybackManager()

	// Test 1: a completed game frees its hub once no spectators remain.
	doneID := uuid.New().String()
	done := startIdleHub(t, hm, doneID)
	done.GameOver(&GameSummary{GameID: doneID})
	waitForReap(t, hm, doneID, "Completed")

	// Test 2: an aborted game does too, even though it never produced a
	// summary.
	abortedID := uuid.New().String()
	aborted := startIdleHub(t, hm, abortedID)
	aborted.Status("building rosters")
	aborted.Abort("away roster unavailable")
	waitForReap(t, hm, abortedID, "Aborted")
}

func TestPlaybackManagerHubLifecycle(t *testing.T) {
	hm := NewPlaybackManager()
	gameID := uuid.New().String()

	if hub := hm.Hub(gameID); hub != nil {
		t.Error("Hub should be nil before GetHub")
	}
	hub := hm.GetHub(gameID)
	if hub == nil {
		t.Fatal("GetHub returned nil")
	}
	if again := hm.GetHub(gameID); again != hub {
		t.Error("GetHub should return the same hub for the same game")
	}
	if got := hm.Hub(gameID); got != hub {
		t.Error("Hub should return the registered hub")
	}

	hm.RemoveHub(gameID)
	if hub := hm.Hub(gameID); hub != nil {
		t.Error("Hub should be nil after RemoveHub")
	}

	// Clear drops every hub.
	for i := 0; i < 3; i++ {
		hm.GetHub(uuid.New().String())
	}
	hm.Clear()
	hm.mu.Lock()
	n := len(hm.hubs)
	hm.mu.Unlock()
	if n != 0 {
		t.Errorf("After Clear, %d hubs remain", n)
	}
}
