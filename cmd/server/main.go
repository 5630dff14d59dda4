/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the booking engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load the listing catalog
  3. Open the ledger store (flat CSV file or SQLite)
  4. Load or initialize the availability ledger from the catalog's ids
  5. Wire the engine, handler and router
  6. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -port          HTTP server port (default: 8080)
  -listings      Listings catalog CSV path
  -store         Ledger backend: "csv" or "sqlite" (default: csv)
  -ledger        Ledger CSV path when -store=csv (default: booking.csv)
  -db            SQLite path when -store=sqlite (default: bookings.db)
  -audit         Audit log path when -store=csv (default: log.txt);
                 with -store=sqlite the audit trail lives in the database
  -horizon       Reference date YYYY-MM-DD, the day before the first
                 bookable day (default: 2020-12-17)
  -days          Number of tracked days after the reference (default: 90)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Flat-file persistence, the upstream data layout
  ./server -listings=./data/listings.csv -ledger=./booking.csv -audit=./log.txt

  # SQLite persistence
  ./server -listings=./data/listings.csv -store=sqlite -db=./bookings.db

SEE ALSO:
  - api/server.go: Router configuration
  - booking/ledger.go: LoadOrInitialize contract
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearth/booking-engine/api"
	"github.com/hearth/booking-engine/booking"
	"github.com/hearth/booking-engine/catalog"
	csvstore "github.com/hearth/booking-engine/store/csv"
	"github.com/hearth/booking-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	listingsPath := flag.String("listings", "listings.csv", "listings catalog CSV path")
	storeKind := flag.String("store", "csv", `ledger backend: "csv" or "sqlite"`)
	ledgerPath := flag.String("ledger", "booking.csv", "ledger CSV path (csv backend)")
	dbPath := flag.String("db", "bookings.db", "SQLite database path (sqlite backend)")
	auditPath := flag.String("audit", "log.txt", "audit log path (csv backend)")
	horizonRef := flag.String("horizon", "2020-12-17", "horizon reference date (YYYY-MM-DD)")
	horizonDays := flag.Int("days", 90, "number of tracked days after the reference date")
	flag.Parse()

	reference, err := time.Parse("2006-01-02", *horizonRef)
	if err != nil {
		log.Fatalf("Invalid -horizon date: %v", err)
	}
	if *horizonDays <= 0 {
		log.Fatalf("-days must be positive, got %d", *horizonDays)
	}
	horizon := booking.NewHorizon(reference, *horizonDays)

	cat, err := catalog.Load(*listingsPath)
	if err != nil {
		log.Fatalf("Failed to load listings: %v", err)
	}
	log.Printf("Loaded %d listings from %s", cat.Len(), *listingsPath)

	var (
		ledgerStore booking.LedgerStore
		auditLog    booking.AuditLog
		closer      io.Closer
	)
	switch *storeKind {
	case "csv":
		ledgerStore = csvstore.New(*ledgerPath, horizon.LengthDays)
		auditLog = booking.NewFileAuditLog(*auditPath)
	case "sqlite":
		store, err := sqlite.New(*dbPath, horizon.LengthDays)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		ledgerStore = store
		auditLog = store
		closer = store
	default:
		log.Fatalf("Unknown -store backend %q", *storeKind)
	}
	if closer != nil {
		defer closer.Close()
	}

	ledger, err := booking.LoadOrInitialize(context.Background(), ledgerStore, horizon, cat.IDs())
	if err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	log.Printf("Ledger ready: %d listings x %d days from %s",
		len(ledger.Listings()), horizon.LengthDays, horizon.Reference.Format("2006-01-02"))

	engine := booking.NewEngine(ledger, auditLog)
	handler := api.NewHandler(cat, engine)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
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
