package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/geofence/internal/adapters/filestore"
	"github.com/samirrijal/geofence/internal/adapters/postgres"
	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/usecases"
	"github.com/samirrijal/geofence/internal/pkg/config"
	"github.com/samirrijal/geofence/internal/pkg/logging"
	"github.com/samirrijal/geofence/internal/workflows"
)

func main() {
	submit := flag.String("submit", "", "JSON file of placements to revalidate instead of running the worker")
	reason := flag.String("reason", "manual", "reason recorded with a submitted revalidation")
	flag.Parse()

	cfg, err := config.Load("geofence-validator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	if *submit != "" {
		if err := runSubmit(c, cfg.Temporal.TaskQueue, *submit, *reason); err != nil {
			log.Fatalf("submit: %v", err)
		}
		return
	}

	ctx := context.Background()
	store, err := filestore.New(cfg.Files.Directory)
	if err != nil {
		log.Fatalf("files: %v", err)
	}
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	checker := usecases.NewCoordInfoService(store, postgres.NewZoneRepo(db), postgres.NewSettingsRepo(db), nil)

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.RevalidateWorkflow)
	w.RegisterActivity(&workflows.Activities{Checker: checker})

	slog.Info("validator worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func runSubmit(c client.Client, taskQueue, path, reason string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var placements []domain.Placement
	if err := json.Unmarshal(data, &placements); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	ctx := context.Background()
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("revalidate-%d", time.Now().UnixNano()),
		TaskQueue: taskQueue,
	}, workflows.RevalidateWorkflow, workflows.RevalidateInput{Reason: reason, Placements: placements})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	slog.Info("revalidation started", "workflow_id", run.GetID(), "placements", len(placements))

	var res workflows.RevalidateResult
	if err := run.Get(ctx, &res); err != nil {
		return fmt.Errorf("workflow %s: %w", run.GetID(), err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
