/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the storefront inventory engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Initialize the chosen store backend
  3. Create API handler with dependencies
  4. Optionally load the demo catalog
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS (env var fallback in parentheses):
  -port      HTTP server port (PORT, default: 8080)
  -store     Store backend: sqlite, memory (STORE, default: sqlite)
  -db        SQLite database path (DB_PATH, default: storefront.db)
             Use ":memory:" for an in-memory database
  -seed      Load the demo catalog at startup (default: false)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/storefront.db"

  # Run fully in memory with demo data
  ./server -store=memory -seed

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
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
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/storefront/inventory-engine/api"
	"github.com/storefront/inventory-engine/ledger"
	"github.com/storefront/inventory-engine/ledger/store"
	"github.com/storefront/inventory-engine/session"
	"github.com/storefront/inventory-engine/store/sqlite"
)

func main() {
	// .env is optional; flags override it.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	backend := flag.String("store", envStr("STORE", "sqlite"), "Store backend: sqlite, memory")
	dbPath := flag.String("db", envStr("DB_PATH", "storefront.db"), "SQLite database path")
	seed := flag.Bool("seed", false, "Load demo catalog at startup")
	flag.Parse()

	// Initialize store
	var (
		st      ledger.Store
		closeFn func() error
	)
	switch *backend {
	case "memory":
		st = store.NewMemory()
		closeFn = func() error { return nil }
	case "sqlite":
		s, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		st = s
		closeFn = s.Close
	default:
		log.Fatalf("Unknown store backend: %q", *backend)
	}
	defer closeFn()

	// Initialize handler
	handler := api.NewHandler(st)

	if *seed {
		ctx := session.NewContext(context.Background(), session.Session{Token: "seed"})
		if err := handler.LoadDemoData(ctx); err != nil {
			log.Printf("Warning: Failed to load demo catalog: %v", err)
		}
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
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

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
