package main

import (
	"log"
	"net/http"
	"os"

	"gartic-show/internal/config"
	"gartic-show/internal/db"
	"gartic-show/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		// The server runs fine without Postgres: lobbies live in memory and
		// profiles/events are simply not recorded.
		log.Printf("running without database: %v", err)
		conn = nil
	} else {
		if err := db.Tune(conn, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeSec, cfg.DBConnMaxIdleTimeSec); err != nil {
			log.Printf("failed to tune db pool: %v", err)
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(conn, cfg)
	log.Printf("gartic-show server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
