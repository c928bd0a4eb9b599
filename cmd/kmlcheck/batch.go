package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/samirrijal/geofence/internal/kml"
)

// point is one row of a batch input file.
type point struct {
	ID       string
	Lat, Lon float64
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.kml> <points.csv>",
		Short: "Check every id,lat,lon row of a CSV file",
		Long: `Reads id,lat,lon rows (a header row is skipped) and writes
id,lat,lon,containment,distance_m rows to stdout. distance_m is empty when the
layer has no lines or rings. A progress bar is drawn when stderr is a terminal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openLayer(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			points, err := readPoints(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			var bar *progressbar.ProgressBar
			if isatty.IsTerminal(os.Stderr.Fd()) {
				bar = progressbar.NewOptions(len(points),
					progressbar.OptionSetDescription("Checking "+args[1]),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}

			return writeResults(cmd.OutOrStdout(), doc, points, func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			})
		},
	}
}

func readPoints(r io.Reader) ([]point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var points []point
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return points, nil
		}
		if err != nil {
			return nil, err
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if errLat != nil || errLon != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: invalid coordinates %q,%q", line, rec[1], rec[2])
		}
		points = append(points, point{ID: rec[0], Lat: lat, Lon: lon})
	}
}

func writeResults(w io.Writer, doc *kml.Document, points []point, progress func()) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "lat", "lon", "containment", "distance_m"}); err != nil {
		return err
	}
	for _, p := range points {
		dist := ""
		if meters, ok := doc.DistanceFromPoint(p.Lat, p.Lon); ok {
			dist = strconv.FormatFloat(meters, 'f', 0, 64)
		}
		rec := []string{
			p.ID,
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			doc.Contains(p.Lat, p.Lon).String(),
			dist,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
		progress()
	}
	cw.Flush()
	return cw.Error()
}
