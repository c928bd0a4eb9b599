package workflows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// gridChecker places the playing field at lat/lon 0..10 and a 10 point
// zone at 0..5.
type gridChecker struct {
	err error
}

func (g gridChecker) Check(ctx context.Context, lat, lon float64) (*domain.CoordInfo, error) {
	if g.err != nil {
		return nil, g.err
	}
	if !(domain.GeoPoint{Lat: lat, Lon: lon}).Valid() {
		return nil, domain.ErrInvalidCoordinates
	}
	info := &domain.CoordInfo{Lat: lat, Lon: lon, BonusZones: []domain.BonusZoneHit{}}
	info.InPlayingField = lat >= 0 && lat <= 10 && lon >= 0 && lon <= 10
	if info.InPlayingField && lat <= 5 && lon <= 5 {
		info.BonusZones = append(info.BonusZones, domain.BonusZoneHit{Name: "Corner", Points: 10})
	}
	return info, nil
}

func TestRevalidateWorkflow(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{Checker: gridChecker{}})

	input := RevalidateInput{
		Reason:    "zone lake.kml updated",
		BatchSize: 2,
		Placements: []domain.Placement{
			{ID: "a", Lat: 1, Lon: 1},
			{ID: "b", Lat: 8, Lon: 8},
			{ID: "c", Lat: 20, Lon: 20},
			{ID: "d", Lat: 95, Lon: 0},
			{ID: "e", Lat: 2, Lon: 3},
		},
	}
	env.ExecuteWorkflow(RevalidateWorkflow, input)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res RevalidateResult
	require.NoError(t, env.GetWorkflowResult(&res))

	assert.Equal(t, 5, res.Checked)
	assert.Equal(t, 3, res.InField)
	assert.Equal(t, 1, res.Invalid)
	assert.Equal(t, 20, res.Points)

	ids := make([]string, 0, len(res.Results))
	for _, r := range res.Results {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, domain.ErrInvalidCoordinates.Error(), res.Results[3].Error)
}

func TestRevalidateWorkflowNotConfigured(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{Checker: gridChecker{err: domain.ErrPlayingFieldUnset}})

	env.ExecuteWorkflow(RevalidateWorkflow, RevalidateInput{
		Placements: []domain.Placement{{ID: "a", Lat: 1, Lon: 1}},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrPlayingFieldUnset.Error())
}

func TestRevalidateWorkflowEmpty(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{Checker: gridChecker{}})

	env.ExecuteWorkflow(RevalidateWorkflow, RevalidateInput{})

	require.NoError(t, env.GetWorkflowError())
	var res RevalidateResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Zero(t, res.Checked)
}

func TestCheckPlacementActivity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivity(&Activities{Checker: gridChecker{}})

	val, err := env.ExecuteActivity((&Activities{}).CheckPlacement, domain.Placement{ID: "x", Lat: 3, Lon: 3})
	require.NoError(t, err)

	var res domain.PlacementResult
	require.NoError(t, val.Get(&res))
	assert.Equal(t, "x", res.ID)
	assert.Equal(t, 10, res.Points)
	require.NotNil(t, res.Info)
	assert.True(t, res.Info.InPlayingField)
}
