package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geofence/internal/adapters/filestore"
	handler "github.com/samirrijal/geofence/internal/adapters/http"
	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/usecases"
)

// ---- Mock repositories ----

type memZoneRepo struct {
	mu    sync.Mutex
	zones map[string]domain.Zone
	err   error
}

func newMemZoneRepo(zones ...domain.Zone) *memZoneRepo {
	r := &memZoneRepo{zones: make(map[string]domain.Zone)}
	for _, z := range zones {
		r.zones[z.KMLFile] = z
	}
	return r
}

func (r *memZoneRepo) ListEnabled(ctx context.Context) ([]domain.Zone, error) {
	all, err := r.List(ctx)
	var enabled []domain.Zone
	for _, z := range all {
		if z.Enabled {
			enabled = append(enabled, z)
		}
	}
	return enabled, err
}

func (r *memZoneRepo) List(ctx context.Context) ([]domain.Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.Zone{}
	for _, z := range r.zones {
		out = append(out, z)
	}
	return out, nil
}

func (r *memZoneRepo) Set(ctx context.Context, u domain.ZoneUpdate) (domain.ZoneChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.zones[u.KMLFile]
	if u.Delete {
		if !exists {
			return domain.ZoneNotFound, nil
		}
		delete(r.zones, u.KMLFile)
		return domain.ZoneDeleted, nil
	}
	enabled := true
	if u.Enabled != nil {
		enabled = *u.Enabled
	}
	r.zones[u.KMLFile] = domain.Zone{KMLFile: u.KMLFile, Name: u.Name, Points: u.Points, Group: u.Group, Enabled: enabled}
	if exists {
		return domain.ZoneUpdated, nil
	}
	return domain.ZoneCreated, nil
}

type memSettings struct {
	mu   sync.Mutex
	vals map[string]string
}

func (m *memSettings) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.vals[key]
	if v == "" {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *memSettings) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

// ---- Fixtures ----

func polygonKML(name, coords string) string {
	return `<kml xmlns="http://www.opengis.net/kml/2.2"><Document><name>` + name + `</name>
<Placemark><name>` + name + `</name><Polygon><outerBoundaryIs><LinearRing>
<coordinates>` + coords + `</coordinates>
</LinearRing></outerBoundaryIs></Polygon></Placemark></Document></kml>`
}

var kmlFiles = map[string]string{
	"field.kml": polygonKML("Field", "0,0 10,0 10,10 0,10 0,0"),
	"lake.kml":  polygonKML("Lake", "1,1 3,1 3,3 1,3 1,1"),
	"roads.kml": `<kml><Document><name>Roads</name><Placemark><name>Main road</name>
<LineString><coordinates>0,0 0,10</coordinates></LineString></Placemark></Document></kml>`,
	"broken.kml": `<kml><Document><Placemark>`,
}

// ---- Test helpers ----

type testEnv struct {
	app      *fiber.App
	zones    *memZoneRepo
	settings *memSettings
}

func setupApp(t *testing.T, opts ...func(*handler.Dependencies)) *testEnv {
	t.Helper()

	dir := t.TempDir()
	for name, src := range kmlFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	store, err := filestore.New(dir)
	if err != nil {
		t.Fatalf("filestore: %v", err)
	}

	zones := newMemZoneRepo(domain.Zone{KMLFile: "lake.kml", Name: "Lake", Points: 20, Group: "water", Enabled: true})
	settings := &memSettings{vals: map[string]string{
		domain.SettingPlayingFieldKML: "field.kml",
		domain.SettingOSMRoadsKML:     "roads.kml",
	}}

	deps := &handler.Dependencies{
		CoordInfo: usecases.NewCoordInfoService(store, zones, settings, nil),
		Zones:     usecases.NewZoneService(zones, store, nil, nil),
		Layers:    usecases.NewLayerService(store, settings),
		DB:        stubPinger{},
	}
	for _, o := range opts {
		o(deps)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return &testEnv{app: app, zones: zones, settings: settings}
}

func (e *testEnv) do(t *testing.T, method, target, body string) (int, []byte, map[string]string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return resp.StatusCode, b, headers
}

func decodeError(t *testing.T, body []byte) handler.APIError {
	t.Helper()
	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return apiErr
}

// ---- Coordinate info ----

func TestCoordInfo_InsideZone(t *testing.T) {
	env := setupApp(t)

	status, body, headers := env.do(t, "GET", "/v1/coord-info?lat=2&lon=2", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if headers["Cache-Control"] != "no-store" {
		t.Errorf("expected no-store, got %q", headers["Cache-Control"])
	}

	var info domain.CoordInfo
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatal(err)
	}
	if !info.InPlayingField {
		t.Error("expected point inside the playing field")
	}
	if len(info.BonusZones) != 1 || info.BonusZones[0].Name != "Lake" || info.BonusZones[0].Points != 20 {
		t.Errorf("unexpected bonus zones: %+v", info.BonusZones)
	}
	if info.FromOSMRoad == nil {
		t.Fatal("expected a road distance")
	}
	if d := *info.FromOSMRoad; d < 222_000 || d > 222_500 {
		t.Errorf("road distance %d out of range", d)
	}
}

func TestCoordInfo_OutsideField(t *testing.T) {
	env := setupApp(t)

	status, body, _ := env.do(t, "GET", "/v1/coord-info?lat=20&lon=20", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["in_playing_field"] != false {
		t.Errorf("expected in_playing_field false, got %v", raw["in_playing_field"])
	}
	zones, ok := raw["bonus_zones"].([]any)
	if !ok || len(zones) != 0 {
		t.Errorf("expected empty bonus_zones array, got %v", raw["bonus_zones"])
	}
}

func TestCoordInfo_BadCoordinates(t *testing.T) {
	env := setupApp(t)

	for _, target := range []string{
		"/v1/coord-info",
		"/v1/coord-info?lat=abc&lon=2",
		"/v1/coord-info?lat=91&lon=2",
		"/v1/coord-info?lat=2&lon=-181",
	} {
		status, body, _ := env.do(t, "GET", target, "")
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", target, status)
			continue
		}
		if apiErr := decodeError(t, body); apiErr.Message != domain.ErrInvalidCoordinates.Error() {
			t.Errorf("%s: unexpected message %q", target, apiErr.Message)
		}
	}
}

func TestCoordInfo_FieldUnset(t *testing.T) {
	env := setupApp(t)
	env.settings.vals[domain.SettingPlayingFieldKML] = ""

	status, body, _ := env.do(t, "GET", "/v1/coord-info?lat=2&lon=2", "")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	if apiErr := decodeError(t, body); apiErr.Code != "not_configured" {
		t.Errorf("expected not_configured, got %q", apiErr.Code)
	}
}

func TestCoordInfo_BrokenField(t *testing.T) {
	env := setupApp(t)
	env.settings.vals[domain.SettingPlayingFieldKML] = "broken.kml"

	status, body, _ := env.do(t, "GET", "/v1/coord-info?lat=2&lon=2", "")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
	apiErr := decodeError(t, body)
	if !strings.HasPrefix(apiErr.Message, "Error loading KML file") {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

// ---- Zones ----

func TestZones_CRUD(t *testing.T) {
	env := setupApp(t)

	status, body, _ := env.do(t, "PUT", "/v1/zones/field.kml", `{"zone_name":"Whole field","points":5}`)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), "Zone created") {
		t.Errorf("unexpected body %s", body)
	}

	status, _, _ = env.do(t, "PUT", "/v1/zones/field.kml", `{"zone_name":"Whole field","points":7}`)
	if status != 200 {
		t.Fatalf("expected 200 on update, got %d", status)
	}
	if got := env.zones.zones["field.kml"].Points; got != 7 {
		t.Errorf("expected 7 points, got %d", got)
	}

	status, body, _ = env.do(t, "GET", "/v1/zones", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var zones []domain.Zone
	if err := json.Unmarshal(body, &zones); err != nil {
		t.Fatal(err)
	}
	if len(zones) != 2 {
		t.Errorf("expected 2 zones, got %d", len(zones))
	}

	status, _, _ = env.do(t, "DELETE", "/v1/zones/field.kml", "")
	if status != 200 {
		t.Fatalf("expected 200 on delete, got %d", status)
	}

	status, body, _ = env.do(t, "DELETE", "/v1/zones/field.kml", "")
	if status != 404 {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
	if apiErr := decodeError(t, body); apiErr.Message != "Zone not found" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestZones_Validation(t *testing.T) {
	env := setupApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"points too high", "PUT", "/v1/zones/lake.kml", `{"points":101}`, 400},
		{"not a kml file", "PUT", "/v1/zones/lake.txt", `{"points":1}`, 400},
		{"missing file", "PUT", "/v1/zones/missing.kml", `{"points":1}`, 422},
		{"broken file", "PUT", "/v1/zones/broken.kml", `{"points":1}`, 422},
		{"bad body", "PUT", "/v1/zones/lake.kml", `{`, 400},
		{"legacy without kml_name", "POST", "/v1/zones", `{"points":1}`, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := env.do(t, tt.method, tt.target, tt.body)
			if status != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, status, body)
			}
		})
	}
}

func TestZones_LegacyPost(t *testing.T) {
	env := setupApp(t)

	status, body, headers := env.do(t, "POST", "/v1/zones", `{"kml_name":"lake.kml","delete":true}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if headers["Deprecation"] != "true" {
		t.Error("expected Deprecation header")
	}
	if !strings.Contains(headers["Link"], "successor-version") {
		t.Errorf("unexpected Link header %q", headers["Link"])
	}
	if _, ok := env.zones.zones["lake.kml"]; ok {
		t.Error("expected lake.kml to be deleted")
	}
}

func TestZones_ETag(t *testing.T) {
	env := setupApp(t)

	_, _, headers := env.do(t, "GET", "/v1/zones", "")
	etag := headers["Etag"]
	if etag == "" {
		t.Fatal("expected an ETag")
	}

	req := httptest.NewRequest("GET", "/v1/zones", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

// ---- Layers and settings ----

func TestLayers(t *testing.T) {
	env := setupApp(t)

	status, body, _ := env.do(t, "GET", "/v1/layers", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var files []string
	if err := json.Unmarshal(body, &files); err != nil {
		t.Fatal(err)
	}
	if len(files) != 4 || files[0] != "broken.kml" {
		t.Errorf("unexpected files %v", files)
	}

	status, body, _ = env.do(t, "GET", "/v1/layers/field.kml", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var layer domain.Layer
	if err := json.Unmarshal(body, &layer); err != nil {
		t.Fatal(err)
	}
	if layer.Name != "Field" || layer.PlacemarkCount != 1 || layer.Bounds == nil {
		t.Errorf("unexpected layer %+v", layer)
	}
	if layer.Bounds.MaxLat != 10 || layer.Bounds.MaxLon != 10 {
		t.Errorf("unexpected bounds %+v", layer.Bounds)
	}

	status, _, _ = env.do(t, "GET", "/v1/layers/missing.kml", "")
	if status != 422 {
		t.Errorf("expected 422 for a missing file, got %d", status)
	}
}

func TestSettings(t *testing.T) {
	env := setupApp(t)

	status, body, _ := env.do(t, "PUT", "/v1/settings/osm_roads_kml", `{"file":"lake.kml"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if env.settings.vals[domain.SettingOSMRoadsKML] != "lake.kml" {
		t.Error("expected the roads layer to change")
	}

	status, body, _ = env.do(t, "GET", "/v1/settings", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var settings domain.Settings
	if err := json.Unmarshal(body, &settings); err != nil {
		t.Fatal(err)
	}
	if settings.PlayingFieldKML != "field.kml" || settings.OSMRoadsKML != "lake.kml" {
		t.Errorf("unexpected settings %+v", settings)
	}

	status, _, _ = env.do(t, "PUT", "/v1/settings/unknown", `{"file":"lake.kml"}`)
	if status != 404 {
		t.Errorf("expected 404 for an unknown key, got %d", status)
	}

	status, _, _ = env.do(t, "PUT", "/v1/settings/playing_field_kml", `{"file":"broken.kml"}`)
	if status != 422 {
		t.Errorf("expected 422 for a broken file, got %d", status)
	}
	if env.settings.vals[domain.SettingPlayingFieldKML] != "field.kml" {
		t.Error("a broken file must not replace the playing field")
	}
}

// ---- GraphQL ----

func TestGraphQL_CoordInfo(t *testing.T) {
	env := setupApp(t)

	status, body, _ := env.do(t, "POST", "/graphql",
		`{"query":"{ coordInfo(lat: 2, lon: 2) { in_playing_field points bonus_zones { name points } } }"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data struct {
			CoordInfo struct {
				InPlayingField bool `json:"in_playing_field"`
				Points         int  `json:"points"`
				BonusZones     []struct {
					Name string `json:"name"`
				} `json:"bonus_zones"`
			} `json:"coordInfo"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !result.Data.CoordInfo.InPlayingField || result.Data.CoordInfo.Points != 20 {
		t.Errorf("unexpected result %+v", result.Data.CoordInfo)
	}
}

func TestGraphQL_SetZone(t *testing.T) {
	env := setupApp(t)

	status, body, _ := env.do(t, "POST", "/graphql",
		`{"query":"mutation { setZone(kml_name: \"field.kml\", points: 3) }"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"setZone":"created"`) {
		t.Errorf("unexpected body %s", body)
	}
	if env.zones.zones["field.kml"].Name != "field.kml" {
		t.Errorf("expected the file name as default zone name, got %q", env.zones.zones["field.kml"].Name)
	}
}

// ---- Health ----

func TestHealth(t *testing.T) {
	env := setupApp(t)

	status, _, _ := env.do(t, "GET", "/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestReady(t *testing.T) {
	env := setupApp(t)
	status, _, _ := env.do(t, "GET", "/ready", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	env = setupApp(t, func(d *handler.Dependencies) {
		d.Cache = stubPinger{err: context.DeadlineExceeded}
	})
	status, body, _ := env.do(t, "GET", "/ready", "")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	if !strings.Contains(string(body), `"cache":"error`) {
		t.Errorf("unexpected body %s", body)
	}
}
