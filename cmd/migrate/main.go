package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/geofence/internal/adapters/postgres"
	"github.com/samirrijal/geofence/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status>")
	}

	cfg, err := config.Load("geofence-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		applied, err := db.Migrate(ctx)
		for _, name := range applied {
			fmt.Printf("OK  %s\n", name)
		}
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Printf("%d migration(s) applied", len(applied))
	case "status":
		names, err := postgres.Migrations()
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
