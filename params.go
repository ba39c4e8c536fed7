package tiffconvert

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GeoserverConfig drives the tile-server raster export.
type GeoserverConfig struct {
	OutputFolder    string   `yaml:"output_folder"`
	GSD             float64  `yaml:"gsd"` // cm
	Epsg            int      `yaml:"epsg"`
	CreationOptions []string `yaml:"creation_options"`
	Overviews       bool     `yaml:"overviews"`
}

// GeoserverMDEConfig overrides the tile-server export for elevation models.
type GeoserverMDEConfig struct {
	OutputFolder    string   `yaml:"output_folder"`
	GSD             float64  `yaml:"gsd"`
	CreationOptions []string `yaml:"creation_options"`
}

// StorageConfig drives the archive raster export.
type StorageConfig struct {
	OutputFolder     string   `yaml:"output_folder"`
	OutputFolderJSON string   `yaml:"output_folder_json"`
	GSD              float64  `yaml:"gsd"` // cm; 0 keeps the source pixel size
	CreationOptions  []string `yaml:"creation_options"`
	Overviews        bool     `yaml:"overviews"`
	ExportJSON       bool     `yaml:"export_json"`
	Previews         bool     `yaml:"previews"`
}

type StorageMDEConfig struct {
	GSD             float64  `yaml:"gsd"`
	CreationOptions []string `yaml:"creation_options"`
}

// PreviewConfig drives the downsampled archive preview.
type PreviewConfig struct {
	OutputFolder    string   `yaml:"output_folder"`
	Format          string   `yaml:"format"`
	Width           int      `yaml:"width"` // px
	CreationOptions []string `yaml:"creation_options"`
}

// OutlineConfig drives the vector footprint export.
type OutlineConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OutputFolder string  `yaml:"output_folder"`
	MinimumArea  float64 `yaml:"minimum_area"` // strictly-greater filter
	Buffer       float64 `yaml:"buffer"`
	Simplify     float64 `yaml:"simplify"`
}

// StyleMDEConfig drives the elevation color ramp and hillshade styling.
type StyleMDEConfig struct {
	Palette            []string `yaml:"palette"` // exactly 7 colors, low to high
	MinPercentile      float64  `yaml:"min_percentile"`
	MaxPercentile      float64  `yaml:"max_percentile"`
	DisregardBelowZero bool     `yaml:"disregard_values_less_than_0"`
	ExportSLD          bool     `yaml:"export_sld"`
	LayerName          string   `yaml:"layer_name"`
}

type Config struct {
	InputFolder       string   `yaml:"input_folder"`
	OutputFolder      string   `yaml:"output_folder"`
	CleanOutputFolder bool     `yaml:"clean_output_folder"`
	TmpFolder         string   `yaml:"tmp_folder"`
	FilenamePrefix    string   `yaml:"filename_prefix"`
	FilenameSuffix    string   `yaml:"filename_suffix"`
	Metadata          []string `yaml:"metadata"` // key=value tags stamped on every raster

	Geoserver      GeoserverConfig    `yaml:"geoserver"`
	GeoserverMDE   GeoserverMDEConfig `yaml:"geoserver_mde"`
	Storage        StorageConfig      `yaml:"storage"`
	StorageMDE     StorageMDEConfig   `yaml:"storage_mde"`
	StoragePreview PreviewConfig      `yaml:"storage_preview"`
	Outlines       OutlineConfig      `yaml:"outlines"`
	StyleMDE       StyleMDEConfig     `yaml:"style_mde"`
}

func DefaultConfig() *Config {
	return &Config{
		InputFolder:    "./input",
		OutputFolder:   "./output",
		FilenamePrefix: "_ortho_",
		FilenameSuffix: "_mde",
		Geoserver: GeoserverConfig{
			OutputFolder:    "./output/geoserver",
			GSD:             20,
			Epsg:            3857,
			CreationOptions: []string{"COMPRESS=JPEG", "JPEG_QUALITY=80", "TILED=YES"},
			Overviews:       true,
		},
		GeoserverMDE: GeoserverMDEConfig{
			OutputFolder:    "./output/geoserver_mde",
			GSD:             50,
			CreationOptions: []string{"COMPRESS=DEFLATE", "TILED=YES"},
		},
		Storage: StorageConfig{
			OutputFolder:     "./output/storage",
			OutputFolderJSON: "./output/storage_json",
			GSD:              0,
			CreationOptions:  []string{"COMPRESS=JPEG", "JPEG_QUALITY=90", "TILED=YES"},
			Overviews:        true,
			ExportJSON:       true,
			Previews:         true,
		},
		StorageMDE: StorageMDEConfig{
			GSD:             10,
			CreationOptions: []string{"COMPRESS=DEFLATE", "TILED=YES"},
		},
		StoragePreview: PreviewConfig{
			OutputFolder: "./output/previews",
			Format:       "JPEG",
			Width:        1080,
		},
		Outlines: OutlineConfig{
			Enabled:      true,
			OutputFolder: "./output/outlines",
			MinimumArea:  10,
			Buffer:       0.5,
			Simplify:     1.5,
		},
		StyleMDE: StyleMDEConfig{
			Palette: []string{
				"#2c7bb6", "#64a5c2", "#9cd3a7", "#ffffbf",
				"#fdae61", "#d7191c", "#a50026",
			},
			MinPercentile: 2,
			MaxPercentile: 98,
			ExportSLD:     true,
			LayerName:     "dipsoh:ortomosaicos_mde",
		},
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (cfg *Config, err error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read config: %w", err)
		return
	}
	cfg = DefaultConfig()
	if err = yaml.Unmarshal(buf, cfg); err != nil {
		err = fmt.Errorf("parse config: %w", err)
		return
	}
	err = cfg.Validate()
	return
}

func (c *Config) Validate() error {
	if c.InputFolder == "" {
		return fmt.Errorf("input_folder is required")
	}
	if len(c.StyleMDE.Palette) != RAMP_STOPS {
		return fmt.Errorf("style_mde.palette must have exactly %d colors, got %d", RAMP_STOPS, len(c.StyleMDE.Palette))
	}
	if c.StyleMDE.MinPercentile < 0 || c.StyleMDE.MaxPercentile > 100 ||
		c.StyleMDE.MinPercentile >= c.StyleMDE.MaxPercentile {
		return fmt.Errorf("style_mde percentiles out of order: [%v, %v]", c.StyleMDE.MinPercentile, c.StyleMDE.MaxPercentile)
	}
	if c.Geoserver.Epsg <= 0 {
		return fmt.Errorf("geoserver.epsg is required")
	}
	if c.FilenamePrefix == "" {
		return fmt.Errorf("filename_prefix is required")
	}
	if c.StoragePreview.Width <= 0 {
		return fmt.Errorf("storage_preview.width must be positive")
	}
	return nil
}
