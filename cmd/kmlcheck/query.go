package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/samirrijal/geofence/internal/core/usecases"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.kml>",
		Short: "Print the name, placemarks, bounds and warnings of a layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openLayer(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(usecases.Describe(args[0], doc))
		},
	}
}

func newContainsCmd() *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "contains <file.kml>",
		Short: "Print inside, outside or on_boundary for a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openLayer(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Contains(lat, lon))
			return err
		},
	}
	pointFlags(cmd, &lat, &lon)
	return cmd
}

func newDistanceCmd() *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "distance <file.kml>",
		Short: "Print the distance in meters from a point to the nearest line or ring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openLayer(args[0])
			if err != nil {
				return err
			}
			meters, ok := doc.DistanceFromPoint(lat, lon)
			if !ok {
				return fmt.Errorf("%s has no lines or rings", args[0])
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.0f\n", math.Round(meters))
			return err
		},
	}
	pointFlags(cmd, &lat, &lon)
	return cmd
}
