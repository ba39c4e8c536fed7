package tiffconvert

import (
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
)

func TestRampBreakpoints(t *testing.T) {
	vals := rampBreakpoints(0, 14) // step = 1
	want := [RAMP_STOPS]float64{0, 1, 3, 4, 8, 11, 14}
	if vals != want {
		t.Fatalf("breakpoints = %v, want %v", vals, want)
	}
}

func TestRampBreakpointsSpacing(t *testing.T) {
	min, max := 12.5, 871.25
	vals := rampBreakpoints(min, max)
	step := (max - min) / 14
	offsets := [RAMP_STOPS]float64{0, 1, 3, 4, 8, 11, 14}
	for i, v := range vals {
		if want := min + offsets[i]*step; math.Abs(v-want) > 1e-9 {
			t.Fatalf("breakpoint %d = %v, want %v", i, v, want)
		}
		if i > 0 && v < vals[i-1] {
			t.Fatalf("breakpoints not non-decreasing: %v", vals)
		}
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := percentile(sorted, 0); got != 1 {
		t.Fatalf("p0 = %v, want 1", got)
	}
	if got := percentile(sorted, 100); got != 4 {
		t.Fatalf("p100 = %v, want 4", got)
	}
	if got := percentile(sorted, 50); got != 2.5 {
		t.Fatalf("p50 = %v, want 2.5", got)
	}
	if got := percentile(nil, 50); !math.IsNaN(got) {
		t.Fatalf("empty set percentile = %v, want nan", got)
	}
}

func TestFilterSamples(t *testing.T) {
	got := filterSamples([]float64{0, 5, math.NaN(), -3}, false, 0)
	if want := []float64{5, 0, -3}; !equalFloats(got, want) {
		t.Fatalf("nodata filter = %v, want %v", got, want)
	}
	got = filterSamples([]float64{-1, 2, math.NaN(), 0}, true, -9999)
	if want := []float64{2, 0, 0}; !equalFloats(got, want) {
		t.Fatalf("below-zero filter = %v, want %v", got, want)
	}
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGammaAdjust(t *testing.T) {
	if got := gammaAdjust(0); got != 0 {
		t.Fatalf("gamma(0) = %d, want 0", got)
	}
	if got := gammaAdjust(255); got != 128 {
		t.Fatalf("gamma(255) = %d, want 128", got)
	}
	if got := gammaAdjust(100); got != 50 {
		t.Fatalf("gamma(100) = %d, want 50", got)
	}
}

func TestSoftLight(t *testing.T) {
	if got := softLight(0, 200); got != 0 {
		t.Fatalf("softLight(0,200) = %d, want 0", got)
	}
	if got := softLight(255, 200); got != 255 {
		t.Fatalf("softLight(255,200) = %d, want 255", got)
	}
	// branch boundary: 127 multiplies, 128 screens
	if got := softLight(127, 255); got != 254 {
		t.Fatalf("softLight(127,255) = %d, want 254", got)
	}
	if got := softLight(128, 0); got != 1 {
		t.Fatalf("softLight(128,0) = %d, want 1", got)
	}
}

func TestAdjustContrastUniform(t *testing.T) {
	// A uniform image equals its own mean, so contrast must not change it.
	img := imaging.New(4, 4, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	out := adjustContrast(img, CONTRAST_FACTOR)
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 100 || out.Pix[i+1] != 100 || out.Pix[i+2] != 100 {
			t.Fatalf("uniform image changed at %d: %v", i, out.Pix[i:i+4])
		}
	}
}

func TestAdjustContrastSpread(t *testing.T) {
	img := imaging.New(2, 1, color.NRGBA{A: 255})
	// one dark and one bright pixel around a mid mean
	img.Pix[0], img.Pix[1], img.Pix[2] = 50, 50, 50
	img.Pix[4], img.Pix[5], img.Pix[6] = 200, 200, 200
	out := adjustContrast(img, CONTRAST_FACTOR)
	if out.Pix[0] >= 50 {
		t.Fatalf("dark pixel should darken: %d", out.Pix[0])
	}
	if out.Pix[4] <= 200 {
		t.Fatalf("bright pixel should brighten: %d", out.Pix[4])
	}
}
