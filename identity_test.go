package tiffconvert

import (
	"regexp"
	"testing"
)

var hex12 = regexp.MustCompile(`^[0-9a-f]{12}$`)

func TestResolveIdentityWellFormed(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name       string
		file       string
		bands      int
		kind       Kind
		registroId string
		mapId      string
		output     string
	}{
		{"orthomosaic", "REG42_ortho_mapA.tif", 4, KindOrthomosaic, "REG42", "mapA", "REG42_ortho_mapA"},
		{"orthomosaic 3 bands", "REG7_ortho_zoneB.tiff", 3, KindOrthomosaic, "REG7", "zoneB", "REG7_ortho_zoneB"},
		{"elevation", "REG42_ortho_dem_mde.tif", 1, KindElevation, "REG42", "dem", "REG42_ortho_dem_mde"},
		{"elevation with mask", "REG9_ortho_valley_mde.tif", 2, KindElevation, "REG9", "valley", "REG9_ortho_valley_mde"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ResolveIdentity(tt.file, tt.bands, cfg)
			if id.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", id.Kind, tt.kind)
			}
			if id.RegistroId != tt.registroId || id.MapId != tt.mapId {
				t.Fatalf("ids = %q/%q, want %q/%q", id.RegistroId, id.MapId, tt.registroId, tt.mapId)
			}
			if id.OutputBase != tt.output {
				t.Fatalf("output = %q, want %q", id.OutputBase, tt.output)
			}
		})
	}
}

func TestResolveIdentityDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a := ResolveIdentity("REG42_ortho_mapA.tif", 4, cfg)
	b := ResolveIdentity("REG42_ortho_mapA.tif", 4, cfg)
	if a != b {
		t.Fatalf("well-formed identity not deterministic: %+v vs %+v", a, b)
	}
}

func TestResolveIdentityFallback(t *testing.T) {
	cfg := DefaultConfig()

	id := ResolveIdentity("terrainXYZ.tif", 1, cfg)
	if id.Kind != KindElevation {
		t.Fatalf("kind = %v, want elevation", id.Kind)
	}
	if !hex12.MatchString(id.MapId) {
		t.Fatalf("fallback mapId %q is not a 12-hex token", id.MapId)
	}
	if id.RegistroId != "terrainXYZ" {
		t.Fatalf("registroId = %q, want terrainXYZ", id.RegistroId)
	}
	if want := "terrainXYZ" + cfg.FilenamePrefix + id.MapId + cfg.FilenameSuffix; id.OutputBase != want {
		t.Fatalf("output = %q, want %q", id.OutputBase, want)
	}

	// A dashed version suffix marks several maps in one registro.
	id = ResolveIdentity("survey-2.tif", 4, cfg)
	if id.RegistroId != "survey" {
		t.Fatalf("registroId = %q, want survey", id.RegistroId)
	}
	if !hex12.MatchString(id.MapId) {
		t.Fatalf("fallback mapId %q is not a 12-hex token", id.MapId)
	}
}

func TestResolveIdentityFallbackUnique(t *testing.T) {
	cfg := DefaultConfig()
	a := ResolveIdentity("terrainXYZ.tif", 1, cfg)
	b := ResolveIdentity("terrainXYZ.tif", 1, cfg)
	if a.MapId == b.MapId {
		t.Fatalf("fallback mapIds collided: %q", a.MapId)
	}
}
