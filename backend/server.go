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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/google/uuid"
)

// Options represent server options.
type Options struct {
	Addr     string
	DataDir  string
	Config   SimConfig
	Storage  *storage.Storage
	Oracle   Oracle
	Provider *StatsProvider
	Listener net.Listener
	Debug    bool
}

// Server represents the running server instance.
type Server struct {
	httpServer *http.Server
	cancel     context.CancelFunc
}

// Shutdown gracefully shuts down the server and stops running games.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	return nil
}

// StartServer starts the web server and registers the API handlers.
func StartServer(opts Options) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())
	handler := NewServerHandler(ctx, &opts)

	httpServer := &http.Server{
		Addr:    opts.Addr,
		Handler: handler,
	}

	go func() {
		var err error
		if opts.Listener != nil {
			log.Printf("Starting HTTP server on provided listener %s...", opts.Listener.Addr())
			err = httpServer.Serve(opts.Listener)
		} else {
			log.Printf("Server starting on %s...", opts.Addr)
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, net.ErrClosed) && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return &Server{
		httpServer: httpServer,
		cancel:     cancel,
	}, nil
}

// NewServerHandler creates and configures the HTTP handler for the server.
// baseCtx bounds the lifetime of every game goroutine the handler spawns.
func NewServerHandler(baseCtx context.Context, opts *Options) http.Handler {
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.Storage == nil {
		opts.Storage = storage.New(opts.DataDir, nil)
	}
	if opts.Provider == nil {
		opts.Provider = NewStatsProvider(opts.Config.StatsBaseURL, opts.Storage)
	}
	if opts.Oracle == nil {
		if opts.Config.OracleURL != "" {
			opts.Oracle = NewHTTPOracle(opts.Config.OracleURL)
		} else {
			// Every at-bat resolves through the statistical fallback.
			opts.Oracle = OracleFunc(func(context.Context, PlayContext) (string, error) {
				return "", nil
			})
		}
	}

	debugf := func(string, ...any) {}
	if opts.Debug {
		debugf = func(f string, a ...any) {
			log.Printf("[DEBUG BACKEND] "+f, a...)
		}
	}

	hm := NewPlaybackManager()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	// List of selectable franchises.
	mux.HandleFunc("/api/teams", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		type teamEntry struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		teams := make([]teamEntry, 0, len(Teams))
		for id, name := range Teams {
			teams = append(teams, teamEntry{ID: id, Name: name})
		}
		sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(teams)
	})

	// Raw team details for a season (name, venue, first year of play).
	mux.HandleFunc("/api/team-details", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		teamID, err := strconv.Atoi(r.URL.Query().Get("teamId"))
		if err != nil {
			http.Error(w, "Bad Request: teamId is missing or invalid", http.StatusBadRequest)
			return
		}
		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Bad Request: year is missing or invalid", http.StatusBadRequest)
			return
		}
		if err := validateTeamID(teamID, "requested"); err != nil {
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := validateSeasonYear(year, "requested"); err != nil {
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}

		details, err := opts.Provider.TeamDetails(r.Context(), teamID, year)
		if err != nil {
			log.Printf("team details for %d (%d): %v", teamID, year, err)
			http.Error(w, "Bad Gateway: stats service unavailable", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(details)
	})

	// Start a matchup. The response carries the game ID; the game itself
	// runs on its own goroutine and streams over /api/ws.
	mux.HandleFunc("/api/matchup", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
			return
		}

		var req MatchupRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1048576)).Decode(&req); err != nil {
			http.Error(w, "Bad Request: Malformed JSON", http.StatusBadRequest)
			return
		}
		if err := ValidateMatchupRequest(&req); err != nil {
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}

		gameID := uuid.New().String()
		hub := hm.GetHub(gameID)
		go runMatchup(baseCtx, gameID, req, opts, hub, debugf)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"gameId": gameID})
	})

	mux.HandleFunc("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hm, w, r)
	})

	handler := http.Handler(mux)
	handler = loggingMiddleware(handler)
	handler = securityMiddleware(handler)
	return handler
}

// runMatchup builds both rosters and plays the game, feeding the hub. It
// owns the game state for the whole run.
func runMatchup(ctx context.Context, gameID string, req MatchupRequest, opts *Options, hub *PlaybackHub, debugf func(string, ...any)) {
	hub.Status("building rosters")

	away, err := opts.Provider.BuildTeamRoster(ctx, req.AwayTeamID, req.AwayYear)
	if err != nil {
		log.Printf("Game %s aborted: %v", gameID, err)
		hub.Abort("away roster unavailable")
		return
	}
	home, err := opts.Provider.BuildTeamRoster(ctx, req.HomeTeamID, req.HomeYear)
	if err != nil {
		log.Printf("Game %s aborted: %v", gameID, err)
		hub.Abort("home roster unavailable")
		return
	}
	debugf("rosters ready: %s (%d batters), %s (%d batters)",
		away.Name, len(away.Lineup), home.Name, len(home.Lineup))

	seed := opts.Config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ms, err := NewMatchupSimulator(away, home, opts.Oracle, hub, MatchupOptions{
		RegulationInnings: opts.Config.RegulationInnings,
		ExtraInnings:      opts.Config.ExtraInnings,
		PlayDelay:         time.Duration(opts.Config.PlayDelaySeconds) * time.Second,
		Rand:              rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		log.Printf("Game %s aborted: %v", gameID, err)
		hub.Abort("invalid rosters")
		return
	}
	ms.GameID = gameID

	hub.Status("first pitch")
	if _, err := ms.Run(ctx); err != nil {
		log.Printf("Game %s stopped: %v", gameID, err)
		hub.Abort("game stopped")
	}
}

// securityMiddleware adds HTTP security headers to responses.
func securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs the method and URL path of every incoming HTTP request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("Received request: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
