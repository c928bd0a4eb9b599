package kml

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// LoadError is returned when a document cannot be read or is not well-formed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Document is the flattened set of placemarks from one KML file. It is
// populated by a single Load and is safe for concurrent queries afterwards.
type Document struct {
	name       string
	placemarks []Placemark
	parseError string
	warnings   []string
}

// Open loads the KML file at path.
func Open(path string) (*Document, error) {
	d := &Document{}
	if err := d.LoadFile(path); err != nil {
		return d, err
	}
	return d, nil
}

// Decode loads a KML document from r.
func Decode(r io.Reader) (*Document, error) {
	d := &Document{}
	if err := d.Load(r); err != nil {
		return d, err
	}
	return d, nil
}

// LoadFile replaces the document's contents with the KML file at path.
func (d *Document) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		d.fail(err)
		return &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	if err := d.load(f); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}

// Load replaces the document's contents with the KML read from r. A document
// that is not well-formed leaves no placemarks behind; a well-formed document
// without placemarks loads successfully.
func (d *Document) Load(r io.Reader) error {
	if err := d.load(r); err != nil {
		return &LoadError{Err: err}
	}
	return nil
}

func (d *Document) load(r io.Reader) error {
	root, err := parseTree(r)
	if err != nil {
		d.fail(err)
		return err
	}

	*d = Document{}
	var doc *Node
	if root.Tag == "kml" {
		doc = root.Child("Document")
	}
	d.name = trimName(doc.ChildText("name"))
	d.walk(doc)
	return nil
}

func (d *Document) fail(err error) {
	*d = Document{parseError: err.Error()}
}

// walk flattens placemarks first, then nested folders.
func (d *Document) walk(n *Node) {
	for _, pn := range n.ChildrenNamed("Placemark") {
		p := readPlacemark(pn)
		if p.malformed > 0 {
			d.warnings = append(d.warnings, fmt.Sprintf("placemark %q: %d malformed coordinate(s)", p.Name, p.malformed))
		}
		d.placemarks = append(d.placemarks, p)
	}
	for _, f := range n.ChildrenNamed("Folder") {
		d.walk(f)
	}
}

func trimName(s string) string {
	return strings.TrimSpace(s)
}

// Name is the Document's <name>.
func (d *Document) Name() string { return d.name }

// ParseError describes the last failed load, or is empty.
func (d *Document) ParseError() string { return d.parseError }

// Warnings lists placemarks whose coordinates had to be skipped or zero-filled.
func (d *Document) Warnings() []string {
	return append([]string(nil), d.warnings...)
}

// PlacemarkCount returns the number of placemarks.
func (d *Document) PlacemarkCount() int { return len(d.placemarks) }

// Placemark returns the i-th placemark in walk order. It panics when i is
// not in [0, PlacemarkCount()).
func (d *Document) Placemark(i int) *Placemark {
	return &d.placemarks[i]
}

// Placemarks returns every placemark in walk order.
func (d *Document) Placemarks() []Placemark {
	return append([]Placemark(nil), d.placemarks...)
}

// BoundingBox is the union of all placemark boxes.
func (d *Document) BoundingBox() BoundingBox {
	b := EmptyBoundingBox()
	for i := range d.placemarks {
		b = b.Union(d.placemarks[i].BoundingBox())
	}
	return b
}

// Contains returns the first non-outside result across placemarks.
func (d *Document) Contains(lat, lon float64) Containment {
	for i := range d.placemarks {
		if c := d.placemarks[i].Contains(lat, lon); c.Inside() {
			return c
		}
	}
	return Outside
}

// PointInPolygon reports whether any placemark contains the point.
func (d *Document) PointInPolygon(lat, lon float64) bool {
	return d.Contains(lat, lon).Inside()
}

// DistanceFromPoint returns the distance in meters to the nearest segment of
// any placemark. ok is false when the document has no segment at all.
func (d *Document) DistanceFromPoint(lat, lon float64) (meters float64, ok bool) {
	meters = math.Inf(1)
	for i := range d.placemarks {
		if m, has := d.placemarks[i].DistanceFrom(lat, lon); has && m < meters {
			meters, ok = m, true
		}
	}
	if !ok {
		return 0, false
	}
	return meters, true
}
