package tiffconvert

import "time"

// Kind classifies a source raster by its band count.
type Kind int

const (
	KindOrthomosaic Kind = iota
	KindElevation
)

func (k Kind) String() string {
	if k == KindElevation {
		return "elevation"
	}
	return "orthomosaic"
}

// Identity carries the stable identifiers derived once per source file and
// shared read-only by every export target of that file.
type Identity struct {
	Kind       Kind
	RegistroId string // batch/flight identifier
	MapId      string // parsed from the filename, or a random 12-hex token
	OutputBase string // output filename stem common to all artifacts
}

// RasterSource is the per-file raster descriptor, read once from the opened
// dataset and immutable afterwards.
type RasterSource struct {
	Path       string
	Bands      int
	HasAlpha   bool    // last band carries an alpha color interpretation
	NoData     float64 // normalized: nan becomes 0
	PixelSizeX float64 // map units per pixel
	PixelSizeY float64
	GSD        float64   // ground sample distance, cm
	Srid       int       // EPSG authority code of the projection
	Date       time.Time // acquisition date, zero when unknown
}

// ColorStop pairs one ramp breakpoint with its palette color.
type ColorStop struct {
	Value float64
	Color string // #RRGGBB
}

// ColorRamp is the ordered 7-stop elevation ramp, values non-decreasing.
type ColorRamp [RAMP_STOPS]ColorStop
