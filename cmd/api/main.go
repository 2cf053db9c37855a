package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/chi157/Exchange-Platform-sub000/internal/config"
	"github.com/chi157/Exchange-Platform-sub000/internal/db"
	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/server"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.Listing{},
		&model.Proposal{},
		&model.ProposalItem{},
		&model.Swap{},
		&model.Shipment{},
		&model.ShipmentEvent{},
		&model.NotificationEvent{},
	); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	srv := server.New(conn, cfg, gitSHA, buildTime)

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
