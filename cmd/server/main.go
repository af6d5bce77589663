/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the goal engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load layered configuration (defaults, file, env)
  2. Apply command-line flag overrides
  3. Initialize SQLite store
  4. Create API handler and router
  5. Start the progress snapshot sweep
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    HTTP listen address (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for an in-memory database
  -seed    Load the starter demo family on startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the snapshot sweep
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/goals.db"

  # Run in-memory with the demo family
  ./server -db=":memory:" -seed

ENVIRONMENT:
  GOALS_CONFIG points at a YAML file; GOALS_ADDR, GOALS_DB_PATH,
  GOALS_SNAPSHOT_INTERVAL and friends override it. Flags win over all.

SEE ALSO:
  - config/config.go: Layered configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sprouthq/goal-engine/api"
	"github.com/sprouthq/goal-engine/config"
	"github.com/sprouthq/goal-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override the layered config.
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	seed := flag.Bool("seed", cfg.SeedDemo, "load the starter demo family on startup")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store)

	if *seed {
		if err := handler.SeedStarterFamily(context.Background()); err != nil {
			log.Printf("Warning: failed to seed demo family: %v", err)
		} else {
			log.Println("Seeded the starter demo family")
		}
	}

	router := api.NewRouter(handler, cfg.CORSOrigins)

	sweep := api.NewProgressScheduler(store, handler.Metrics, cfg.SnapshotInterval)
	sweep.Start()
	defer sweep.Stop()

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("API available under %s/api", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

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
