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

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/msamylea/mlbhackathon/backend"
)

var (
	addr       = flag.String("addr", "", "The TCP address to listen to (overrides config)")
	configFile = flag.String("config", "", "Path to YAML config file")
	dataDir    = flag.String("data-dir", "", "Directory for cached stats and game data (overrides config)")
	oracleURL  = flag.String("oracle-url", "", "URL of the play-decision service (overrides config)")
	seed       = flag.Int64("seed", 0, "Fixed random seed for reproducible games (overrides config)")
	debugMode  = flag.Bool("debug", false, "Enable debug mode")
)

// main starts the web server and registers the API handlers.
func main() {
	flag.Parse()

	cfg, err := backend.LoadSimConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *oracleURL != "" {
		cfg.OracleURL = *oracleURL
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	store := storage.New(cfg.DataDir, nil)
	store.EnableCompression(true)

	server, err := backend.StartServer(backend.Options{
		Addr:    cfg.Addr,
		DataDir: cfg.DataDir,
		Config:  cfg,
		Storage: store,
		Debug:   *debugMode,
	})
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	} else {
		log.Println("Gracefully stopped.")
	}
}
