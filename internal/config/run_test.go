package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hfcfd/meshbench/internal/bench"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	names := cfg.GroupNames()
	if len(names) != 2 || names[0] != "UM" || names[1] != "AFRL" {
		t.Errorf("Expected default groups [UM AFRL], got %v", names)
	}
	colors := cfg.Colors()
	if colors["UM"] != "#bfbf00" || colors["AFRL"] != "#0000ff" {
		t.Errorf("Expected workshop colors, got %v", colors)
	}
	dashes := cfg.Dashes()
	if !dashes["UM"] || !dashes["AFRL"] {
		t.Errorf("Expected dashed defaults, got %v", dashes)
	}
	if cfg.CommonReference() != nil {
		t.Error("Expected no common reference by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config must validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.json")

	testJSON := `{
  "groups": [
    {"name": "UM", "color": "#bfbf00"},
    {"name": "UCB", "dashed": false},
    {"name": "AFRL", "color": "#0000ff"}
  ],
  "reference_groups": {"M1": "UM", "M2": "AFRL"}
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	names := cfg.GroupNames()
	if len(names) != 3 || names[1] != "UCB" {
		t.Errorf("Expected three groups with UCB second, got %v", names)
	}

	colors := cfg.Colors()
	if colors["UCB"] != fallbackPalette[0] {
		t.Errorf("Expected UCB to take the first palette color, got %s", colors["UCB"])
	}
	if colors["UM"] != "#bfbf00" {
		t.Errorf("Expected UM to keep its declared color, got %s", colors["UM"])
	}

	dashes := cfg.Dashes()
	if dashes["UCB"] {
		t.Error("Expected UCB to draw solid")
	}
	if !dashes["UM"] {
		t.Error("Expected UM to stay dashed by default")
	}

	ref := cfg.CommonReference()
	if ref[bench.M1] != "UM" || ref[bench.M2] != "AFRL" {
		t.Errorf("Expected reference designations, got %v", ref)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/run.json"); err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadWrongExtension(t *testing.T) {
	if _, err := Load("run.yaml"); err == nil {
		t.Error("Expected error for a non-json extension, got nil")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(configPath, []byte(`{"groups": [`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *RunConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Default(),
			wantErr: false,
		},
		{
			name:    "empty config is valid",
			cfg:     &RunConfig{},
			wantErr: false,
		},
		{
			name: "unnamed group",
			cfg: &RunConfig{
				Groups: []GroupStyle{{Color: "#112233"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate group",
			cfg: &RunConfig{
				Groups: []GroupStyle{{Name: "UM"}, {Name: "UM"}},
			},
			wantErr: true,
		},
		{
			name: "bad color",
			cfg: &RunConfig{
				Groups: []GroupStyle{{Name: "UM", Color: "blue"}},
			},
			wantErr: true,
		},
		{
			name: "short hex color is fine",
			cfg: &RunConfig{
				Groups: []GroupStyle{{Name: "UM", Color: "#fa0"}},
			},
			wantErr: false,
		},
		{
			name: "empty reference group",
			cfg: &RunConfig{
				ReferenceGroups: map[bench.Motion]string{bench.M1: ""},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
