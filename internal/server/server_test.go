package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/graph"
	"github.com/matzehuels/folio/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Graph.Nodes == nil {
		cfg.Graph = graph.Portfolio()
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = -1
	}
	cfg.Logger = log.New(&bytes.Buffer{})
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.Bytes()
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
	if resp.Header.Get(HeaderVersion) == "" {
		t.Error("missing version header")
	}
}

func TestExports(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/graph.svg?width=400&height=300", "image/svg+xml", "<?xml"},
		{"/graph.png?width=200&height=150", "image/png", "\x89PNG"},
		{"/graph.json?compact=true", "application/json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if resp.Header.Get(HeaderSceneID) == "" {
				t.Error("missing scene id header")
			}
			if !bytes.HasPrefix(body, []byte(tt.prefix)) {
				t.Errorf("body starts with %q, want %q", body[:min(len(body), 8)], tt.prefix)
			}
		})
	}
}

func TestJSONExportHonoursQuery(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, body := get(t, ts.URL+"/graph.json?width=500&height=400&compact=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var f diagram.Frame
	if err := json.Unmarshal(body, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if f.Width != 500 || f.Height != 400 {
		t.Errorf("frame size = %vx%v, want 500x400", f.Width, f.Height)
	}
	if f.IconSize != diagram.CompactIconSize {
		t.Errorf("icon size = %v, want compact %v", f.IconSize, diagram.CompactIconSize)
	}
	if f.SceneID != resp.Header.Get(HeaderSceneID) {
		t.Errorf("scene id header %q does not match body %q", resp.Header.Get(HeaderSceneID), f.SceneID)
	}
}

func TestBadQuery(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name  string
		path  string
		query string
		want  string
	}{
		{"non numeric width", "/graph.svg", "width=wide", "width must be a number"},
		{"zero height", "/graph.svg", "height=-5", "viewport"},
		{"oversized", "/graph.svg", "width=100000", "viewport"},
		{"bad compact", "/graph.svg", "compact=maybe", "compact"},
		{"oversized raster", "/graph.png", "width=8192&height=8192", "raster too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path+"?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var er ErrorResponse
			if err := json.Unmarshal(body, &er); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if !strings.Contains(er.Error, tt.want) {
				t.Errorf("error = %q, want it to mention %q", er.Error, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, Config{RateLimit: 0.001, Burst: 1})

	resp, _ := get(t, ts.URL+"/graph.json?width=100&height=100")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d", resp.StatusCode)
	}
	resp, _ = get(t, ts.URL+"/graph.json?width=100&height=100")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}

	// Health checks are never throttled.
	resp, _ = get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz throttled: %d", resp.StatusCode)
	}
}

func TestCachedResponses(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:"), nil)
	ts := newTestServer(t, Config{Runner: runner})

	first, body1 := get(t, ts.URL+"/graph.svg?width=300&height=300")
	second, body2 := get(t, ts.URL+"/graph.svg?width=300&height=300")

	if first.Header.Get(HeaderCache) != "miss" || second.Header.Get(HeaderCache) != "hit" {
		t.Errorf("cache headers = %q, %q; want miss, hit",
			first.Header.Get(HeaderCache), second.Header.Get(HeaderCache))
	}
	if first.Header.Get(HeaderSceneID) != second.Header.Get(HeaderSceneID) {
		t.Error("cached response carries a different scene id")
	}
	if !bytes.Equal(body1, body2) {
		t.Error("cached body differs")
	}
}

func TestSetGraph(t *testing.T) {
	s, err := New(Config{Graph: graph.Portfolio(), RateLimit: -1, Logger: log.New(&bytes.Buffer{})})
	if err != nil {
		t.Fatal(err)
	}

	bad := graph.Graph{Nodes: []graph.Node{{ID: 1}}, Edges: []graph.Edge{{Source: 1, Target: 2}}}
	if err := s.SetGraph(bad, diagram.DefaultOptions()); err == nil {
		t.Fatal("SetGraph accepted an edge to a missing node")
	}

	small := graph.Graph{Nodes: []graph.Node{{ID: 1, Name: "Go"}, {ID: 2, Name: "Rust"}}, Edges: []graph.Edge{{Source: 1, Target: 2}}}
	if err := s.SetGraph(small, diagram.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graph.json", nil))
	var f diagram.Frame
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}
	if len(f.Nodes) != 2 || len(f.Segments) != 1 {
		t.Errorf("frame has %d nodes and %d segments, want 2 and 1", len(f.Nodes), len(f.Segments))
	}
}
