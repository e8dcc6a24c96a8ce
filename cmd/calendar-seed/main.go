// Package main seeds a local calendar database with demo users, calendars,
// helpers, targets, and events.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/calshare/calshare/internal/tools/seed"
)

func main() {
	dbPath := os.Getenv("CALSHARE_DB_PATH")
	if strings.TrimSpace(dbPath) == "" {
		dbPath = filepath.Join("data", "calendar.db")
	}
	flag.StringVar(&dbPath, "db", dbPath, "path to the calendar SQLite database")
	flag.Parse()

	log.SetPrefix("[SEED] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seed.Run(ctx, seed.Config{DBPath: dbPath}, os.Stdout); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
