package usecases_test

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/kml"
)

// --- Mock LayerStore ---

type mockLayers struct {
	mu     sync.Mutex
	files  map[string]string
	opened []string
}

func newMockLayers(files map[string]string) *mockLayers {
	return &mockLayers{files: files}
}

func (m *mockLayers) Open(ctx context.Context, file string) (*kml.Document, error) {
	m.mu.Lock()
	m.opened = append(m.opened, file)
	m.mu.Unlock()

	src, ok := m.files[file]
	if !ok {
		return nil, &kml.LoadError{Path: file, Err: os.ErrNotExist}
	}
	doc, err := kml.Decode(strings.NewReader(src))
	if err != nil {
		le := err.(*kml.LoadError)
		le.Path = file
		return nil, le
	}
	return doc, nil
}

func (m *mockLayers) List(ctx context.Context) ([]string, error) {
	var names []string
	for name := range m.files {
		names = append(names, name)
	}
	return names, nil
}

func (m *mockLayers) openedFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// --- Mock ZoneRepository ---

type mockZoneRepo struct {
	listEnabledFn func(ctx context.Context) ([]domain.Zone, error)
	listFn        func(ctx context.Context) ([]domain.Zone, error)
	setFn         func(ctx context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error)
	listCalls     int
}

func (m *mockZoneRepo) ListEnabled(ctx context.Context) ([]domain.Zone, error) {
	if m.listEnabledFn != nil {
		return m.listEnabledFn(ctx)
	}
	return nil, nil
}

func (m *mockZoneRepo) List(ctx context.Context) ([]domain.Zone, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockZoneRepo) Set(ctx context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error) {
	if m.setFn != nil {
		return m.setFn(ctx, u)
	}
	return domain.ZoneNotFound, nil
}

// --- Mock SettingsRepository ---

type mockSettings map[string]string

func (m mockSettings) Get(ctx context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m mockSettings) Set(ctx context.Context, key, value string) error {
	m[key] = value
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	checks []*domain.CheckEvent
	zones  []*domain.ZoneEvent
}

func (m *mockPublisher) PublishCheck(ctx context.Context, e *domain.CheckEvent) error {
	m.checks = append(m.checks, e)
	return nil
}

func (m *mockPublisher) PublishZoneChange(ctx context.Context, e *domain.ZoneEvent) error {
	m.zones = append(m.zones, e)
	return nil
}

// --- KML fixtures ---

func polygonKML(name, coords string) string {
	return `<kml xmlns="http://www.opengis.net/kml/2.2"><Document><name>` + name + `</name>
<Placemark><name>` + name + `</name><Polygon><outerBoundaryIs><LinearRing>
<coordinates>` + coords + `</coordinates>
</LinearRing></outerBoundaryIs></Polygon></Placemark></Document></kml>`
}

func lineKML(name, coords string) string {
	return `<kml><Document><name>` + name + `</name><Folder>
<Placemark><name>` + name + `</name><LineString><coordinates>` + coords + `</coordinates></LineString></Placemark>
</Folder></Document></kml>`
}

const brokenKML = `<kml><Document><Placemark>`

var (
	fieldKML     = polygonKML("Field", "0,0 10,0 10,10 0,10 0,0")
	westHalfKML  = polygonKML("West half", "0,0 5,0 5,10 0,10 0,0")
	southHalfKML = polygonKML("South half", "0,0 10,0 10,5 0,5 0,0")
	farAwayKML   = polygonKML("Far away", "50,50 51,50 51,51 50,51 50,50")
	roadsKML     = lineKML("Roads", "0,0 0,10")
)
