package tiffconvert

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StyleMDE.Palette = cfg.StyleMDE.Palette[:5]
	if err := cfg.Validate(); err == nil {
		t.Fatal("short palette should not validate")
	}

	cfg = DefaultConfig()
	cfg.StyleMDE.MinPercentile = 98
	cfg.StyleMDE.MaxPercentile = 2
	if err := cfg.Validate(); err == nil {
		t.Fatal("inverted percentiles should not validate")
	}

	cfg = DefaultConfig()
	cfg.Geoserver.Epsg = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing epsg should not validate")
	}

	cfg = DefaultConfig()
	cfg.FilenamePrefix = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty prefix should not validate")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	doc := `
input_folder: /data/in
geoserver:
  epsg: 32722
  gsd: 10
style_mde:
  disregard_values_less_than_0: true
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputFolder != "/data/in" || cfg.Geoserver.Epsg != 32722 || cfg.Geoserver.GSD != 10 {
		t.Fatalf("overrides not applied: %+v", cfg.Geoserver)
	}
	if !cfg.StyleMDE.DisregardBelowZero {
		t.Fatal("disregard_values_less_than_0 not applied")
	}
	// untouched keys keep their defaults
	if cfg.FilenamePrefix != "_ortho_" || len(cfg.StyleMDE.Palette) != RAMP_STOPS {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}
