package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
)

// Activities holds the activity implementations for the revalidation workflow.
type Activities struct {
	Checker ports.CoordChecker
}

// CheckPlacement runs a coordinate check for one placement. Invalid
// coordinates are reported in the result; missing settings fail without
// retry and every other error is retried by the workflow's policy.
func (a *Activities) CheckPlacement(ctx context.Context, p domain.Placement) (domain.PlacementResult, error) {
	logger := activity.GetLogger(ctx)

	info, err := a.Checker.Check(ctx, p.Lat, p.Lon)
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinates):
		return domain.PlacementResult{ID: p.ID, Error: err.Error()}, nil
	case errors.Is(err, domain.ErrPlayingFieldUnset), errors.Is(err, domain.ErrRoadsUnset):
		return domain.PlacementResult{}, temporal.NewNonRetryableApplicationError(err.Error(), "NotConfigured", err)
	case err != nil:
		return domain.PlacementResult{}, fmt.Errorf("check placement %s: %w", p.ID, err)
	}

	res := domain.PlacementResult{ID: p.ID, Info: info}
	if info.InPlayingField {
		res.Points = info.Points()
	}
	logger.Debug("placement checked", "id", p.ID, "in_field", info.InPlayingField, "points", res.Points)
	return res, nil
}
