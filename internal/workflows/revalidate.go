package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// RevalidateInput is the input for the revalidation workflow.
type RevalidateInput struct {
	Reason     string
	Placements []domain.Placement
	// BatchSize bounds the number of concurrent checks. Zero means 20.
	BatchSize int
}

// RevalidateResult summarises a revalidation run.
type RevalidateResult struct {
	Results []domain.PlacementResult
	Checked int
	InField int
	Invalid int
	Points  int
}

const defaultBatchSize = 20

// RevalidateWorkflow re-checks submitted placements after the playing
// field or the bonus zones change. Placements are checked in batches and
// results keep the input order.
func RevalidateWorkflow(ctx workflow.Context, input RevalidateInput) (RevalidateResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting revalidation", "reason", input.Reason, "placements", len(input.Placements))

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	batch := input.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	out := RevalidateResult{Results: make([]domain.PlacementResult, 0, len(input.Placements))}
	for start := 0; start < len(input.Placements); start += batch {
		end := min(start+batch, len(input.Placements))

		futures := make([]workflow.Future, 0, end-start)
		for _, p := range input.Placements[start:end] {
			futures = append(futures, workflow.ExecuteActivity(ctx, "CheckPlacement", p))
		}
		for _, f := range futures {
			var res domain.PlacementResult
			if err := f.Get(ctx, &res); err != nil {
				return out, err
			}
			out.add(res)
		}
	}

	logger.Info("Revalidation finished", "checked", out.Checked, "in_field", out.InField, "points", out.Points)
	return out, nil
}

func (r *RevalidateResult) add(res domain.PlacementResult) {
	r.Results = append(r.Results, res)
	r.Checked++
	switch {
	case res.Error != "":
		r.Invalid++
	case res.Info != nil && res.Info.InPlayingField:
		r.InField++
		r.Points += res.Points
	}
}
