package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/errors"
)

const tomlConfig = `
[profile]
name = ["ADA", "LOVELACE"]
status = "BUSY"

[diagram]
link_distance = 120
hover_delay = "250ms"
compact = true

[anchors.lang]
x = 0.5
y = 0.5

[[buckets]]
category = "lang"
nodes = [
  { id = 1, name = "Go" },
  { id = 2, name = "Rust" },
  { id = 3, name = "Zig" },
]

[[nodes]]
id = 10
name = "Git"

[[edges]]
source = 10
target = 1
`

const yamlConfig = `
profile:
  name: [ADA]
diagram:
  charge: -50
  no_group: true
nodes:
  - {id: 1, name: Go, category: lang}
  - {id: 2, name: Rust, category: lang}
edges:
  - {source: 1, target: 2}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileTOML(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "folio.toml", tomlConfig))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if len(cfg.Profile.Name) != 2 || cfg.Profile.Name[1] != "LOVELACE" || cfg.Profile.Status != "BUSY" {
		t.Errorf("profile = %+v", cfg.Profile)
	}

	g := cfg.Graph()
	if len(g.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(g.Nodes))
	}
	// one explicit edge plus C(3,2) bucket edges
	if len(g.Edges) != 4 {
		t.Errorf("edges = %d, want 4", len(g.Edges))
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.LinkDistance != 120 || opts.HoverDelay != 250*time.Millisecond || !opts.Compact {
		t.Errorf("options = %+v", opts)
	}
	if opts.Charge != diagram.DefaultCharge {
		t.Errorf("charge = %v, want default", opts.Charge)
	}
	if a, ok := opts.Anchors["lang"]; !ok || a.X != 0.5 {
		t.Errorf("anchors = %v", opts.Anchors)
	}
	if cfg.Server.Addr == "" {
		t.Error("server defaults lost while decoding")
	}
}

func TestLoadFileYAML(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "folio.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Charge != -50 || opts.GroupPull != 0 {
		t.Errorf("charge %v group pull %v, want -50 and 0", opts.Charge, opts.GroupPull)
	}
	if len(opts.Anchors) != 4 {
		t.Errorf("default anchors not kept: %v", opts.Anchors)
	}
	if g := cfg.Graph(); len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("graph = %+v", g)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode errors.Code
	}{
		{
			name:     "unknown edge endpoint",
			file:     "bad.toml",
			content:  "[[nodes]]\nid = 1\n[[edges]]\nsource = 1\ntarget = 5\n",
			wantCode: errors.ErrCodeUnknownNode,
		},
		{
			name:     "duplicate node",
			file:     "dup.yaml",
			content:  "nodes:\n  - {id: 1}\n  - {id: 1}\n",
			wantCode: errors.ErrCodeDuplicateNode,
		},
		{
			name:     "bad toml",
			file:     "broken.toml",
			content:  "[diagram\n",
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "bad hover delay",
			file:     "delay.toml",
			content:  "[diagram]\nhover_delay = \"soon\"\n",
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "anchor out of range",
			file:     "anchor.toml",
			content:  "[anchors.lang]\nx = 1.5\ny = 0\n",
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "unsupported extension",
			file:     "folio.json",
			content:  "{}",
			wantCode: errors.ErrCodeUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("LoadFile() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvCompact, "true")
	t.Setenv(EnvRedisAddr, "localhost:6379")

	cfg, path, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("path = %q, want defaults", path)
	}
	if g := cfg.Graph(); len(g.Nodes) != 17 || len(g.Edges) != 32 {
		t.Errorf("default graph has %d nodes and %d edges", len(g.Nodes), len(g.Edges))
	}
	if !cfg.Diagram.Compact || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("environment overrides not applied: %+v", cfg)
	}
}

func TestFindPathOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(EnvConfig, "")

	if p := FindPath(""); p != "" {
		t.Errorf("FindPath() = %q with no files", p)
	}

	if err := os.MkdirAll(filepath.Join(xdg, "folio"), 0o755); err != nil {
		t.Fatal(err)
	}
	user := filepath.Join(xdg, "folio", "config.toml")
	if err := os.WriteFile(user, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if p := FindPath(""); p != user {
		t.Errorf("FindPath() = %q, want %q", p, user)
	}

	if err := os.WriteFile(LocalFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if p := FindPath(""); p != LocalFile {
		t.Errorf("FindPath() = %q, want %q", p, LocalFile)
	}

	t.Setenv(EnvConfig, "/etc/folio.yaml")
	if p := FindPath(""); p != "/etc/folio.yaml" {
		t.Errorf("FindPath() = %q, want env path", p)
	}
	if p := FindPath("explicit.toml"); p != "explicit.toml" {
		t.Errorf("FindPath() = %q, want explicit path", p)
	}
}

func TestInvalidCompactEnv(t *testing.T) {
	t.Setenv(EnvCompact, "maybe")
	_, err := LoadFile(writeFile(t, "folio.toml", ""))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("LoadFile() error = %v, want INVALID_CONFIG", err)
	}
}
