package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/geofence/internal/kml"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kmlcheck",
		Short: "Inspect KML layers and query points against them",
		Long: `kmlcheck loads a KML file the same way the geofence service does and
answers point-in-polygon and distance queries against it.

$ kmlcheck contains field.kml --lat -34.9 --lon 138.6
inside`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newInspectCmd(), newContainsCmd(), newDistanceCmd(), newBatchCmd())
	return root
}

// openLayer loads a file, reporting the parse error with its path.
func openLayer(path string) (*kml.Document, error) {
	doc, err := kml.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// pointFlags binds the --lat/--lon pair shared by point queries.
func pointFlags(cmd *cobra.Command, lat, lon *float64) {
	cmd.Flags().Float64Var(lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(lon, "lon", 0, "longitude in degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}
