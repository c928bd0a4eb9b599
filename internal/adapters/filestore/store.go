package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/kml"
	"github.com/samirrijal/geofence/internal/pkg/metrics"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
)

// Store implements ports.LayerStore over a directory of uploaded KML files.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory must exist.
func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("files directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("files directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("files directory: %s is not a directory", abs)
	}
	return &Store{dir: abs}, nil
}

// Dir returns the absolute root directory.
func (s *Store) Dir() string { return s.dir }

// Open loads file from the directory. Names must be plain file names.
func (s *Store) Open(ctx context.Context, file string) (*kml.Document, error) {
	_, span := telemetry.Tracer().Start(ctx, telemetry.SpanLayerOpen)
	defer span.End()
	span.SetAttributes(attribute.String("geofence.layer", file))

	if file == "" || filepath.Base(file) != file || strings.HasPrefix(file, ".") {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLayer, file)
	}

	start := time.Now()
	doc := &kml.Document{}
	err := doc.LoadFile(filepath.Join(s.dir, file))
	metrics.LayerLoadDuration.WithLabelValues(file).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LayerLoadErrors.WithLabelValues(file).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, doc.ParseError())
		// report the name callers asked for, not the server path
		return nil, &kml.LoadError{Path: file, Err: unwrapLoad(err)}
	}

	span.SetAttributes(attribute.Int("geofence.placemarks", doc.PlacemarkCount()))
	if w := doc.Warnings(); len(w) > 0 {
		slog.WarnContext(ctx, "kml layer has malformed coordinates", "file", file, "warnings", w)
	}
	return doc, nil
}

func unwrapLoad(err error) error {
	if le, ok := err.(*kml.LoadError); ok {
		if pe, ok := le.Err.(*os.PathError); ok {
			return pe.Err
		}
		return le.Err
	}
	return err
}

// List returns the .kml files in the directory, sorted by name.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read files directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(name), ".kml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
