package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/samirrijal/geofence/internal/adapters/filestore"
	"github.com/samirrijal/geofence/internal/adapters/postgres"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/core/usecases"
	"github.com/samirrijal/geofence/internal/pkg/config"
	"github.com/samirrijal/geofence/internal/pkg/logging"
)

func main() {
	manifestPath := flag.String("manifest", "zones.yaml", "zone manifest (YAML or JSON)")
	dryRun := flag.Bool("dry-run", false, "validate the manifest and KML files without writing")
	flag.Parse()

	cfg, err := config.Load("geofence-zoneimport")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text")

	m, err := loadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("manifest: %v", err)
	}

	store, err := filestore.New(cfg.Files.Directory)
	if err != nil {
		log.Fatalf("files: %v", err)
	}

	ctx := context.Background()
	var repo ports.ZoneRepository = dryRunRepo{}
	if !*dryRun {
		db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewZoneRepo(db)
	}

	svc := usecases.NewZoneService(repo, store, nil, nil)
	sum, err := importZones(ctx, svc, m)
	fmt.Println(sum)
	if err != nil {
		slog.Error("import finished with errors", "error", err)
		log.Fatal("zone import failed")
	}
}
