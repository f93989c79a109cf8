/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the union dues reconciliation server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (file + DUES_* env)
  3. Initialize SQLite store
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config     Path to a TOML config file (optional)
  -port       HTTP server port (overrides config)
  -db         SQLite database path (overrides config)
              Use ":memory:" for in-memory database
  -scenarios  Expose the demo scenario endpoints (wipes data on load;
              never enable in production)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/union.db"

  # Run a throwaway demo instance
  ./server -db=":memory:" -scenarios

  # Config file plus env override
  DUES_HTTP_PORT=3000 ./server -config=./union.toml

SEE ALSO:
  - config/config.go: File/env configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unionhall/dues-engine/api"
	"github.com/unionhall/dues-engine/config"
	"github.com/unionhall/dues-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "path to TOML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	scenarios := flag.Bool("scenarios", false, "expose demo scenario endpoints (destructive)")
	flag.Parse()

	// Configuration: file and env first, flags win
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Create router
	router := api.NewRouter(store, api.Options{
		AllowedOrigins:  cfg.HTTP.CORSOrigins,
		EnableScenarios: *scenarios,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Dues server starting on http://localhost:%d", cfg.HTTP.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.HTTP.Port)
		if *scenarios {
			log.Printf("Demo scenarios ENABLED - loading one wipes the database")
		}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
