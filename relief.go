package tiffconvert

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dipsoh/tiffconvert/log"
	"github.com/dipsoh/tiffconvert/utils"

	gdal "github.com/airbusgeo/godal"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// rampBreakpoints derives the 7 ascending breakpoints between the trimmed
// extremes. The spacing is deliberately non-uniform (cumulative offsets
// 0,1,3,4,8,11,14 in step units): it compresses the low end of the ramp and
// stretches the high end, tuned empirically for terrain contrast. Do not
// regularize it.
func rampBreakpoints(trimmedMin, trimmedMax float64) (vals [RAMP_STOPS]float64) {
	step := (trimmedMax/2 - trimmedMin/2) / RAMP_STOPS
	v := trimmedMin
	for i := 0; i < RAMP_STOPS; i++ {
		vals[i] = v
		v += step
		switch i {
		case 1:
			v += step
		case 3:
			v += step * 3
		case 4, 5:
			v += step * 2
		}
	}
	return
}

// percentile returns the p-th percentile of an ascending-sorted sample set,
// with linear interpolation between ranks. Empty input yields nan.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// filterSamples drops the invalid elevation samples: everything below zero
// when so configured, otherwise the declared nodata value. Remaining nan
// samples are coerced to 0. Filters in place.
func filterSamples(samples []float64, disregardBelowZero bool, nodata float64) []float64 {
	kept := samples[:0]
	if disregardBelowZero {
		for _, v := range samples {
			if !(v < 0) { // nan compares false, kept and zeroed below
				kept = append(kept, v)
			}
		}
	} else {
		for _, v := range samples {
			if v != nodata {
				kept = append(kept, v)
			}
		}
	}
	for i, v := range kept {
		if math.IsNaN(v) {
			kept[i] = 0
		}
	}
	return kept
}

// sampleRamp flattens band 1 of the elevation raster, trims it to the
// configured percentiles and pairs the derived breakpoints with the palette.
// A nan percentile means a degenerate sample set and aborts the batch.
func (c *Converter) sampleRamp(ds *gdal.Dataset, src RasterSource) (ramp ColorRamp, err error) {
	band := ds.Bands()[0]
	st := band.Structure()
	samples := make([]float64, st.SizeX*st.SizeY)
	if err = band.IO(gdal.IORead, 0, 0, samples, st.SizeX, st.SizeY); err != nil {
		log.Error(c.logTag+"read elevation band failed", zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	kept := filterSamples(samples, c.cfg.StyleMDE.DisregardBelowZero, src.NoData)
	sort.Float64s(kept)
	trimmedMin := percentile(kept, c.cfg.StyleMDE.MinPercentile)
	trimmedMax := percentile(kept, c.cfg.StyleMDE.MaxPercentile)
	log.Info(c.logTag+"elevation domain trimmed",
		zap.Float64("min", trimmedMin), zap.Float64("max", trimmedMax), zap.Int("samples", len(kept)))
	if math.IsNaN(trimmedMin) || math.IsNaN(trimmedMax) {
		err = ErrNanPercentile
		return
	}
	vals := rampBreakpoints(trimmedMin, trimmedMax)
	for i := range ramp {
		ramp[i] = ColorStop{Value: vals[i], Color: c.cfg.StyleMDE.Palette[i]}
	}
	return
}

// ColoredHillshade renders the styled elevation preview: a color-relief and
// a hillshade composited with a soft-light blend plus contrast. Returns the
// path of the final image; every intermediate is scratch and removed here.
func (c *Converter) ColoredHillshade(ds *gdal.Dataset, jb *job) (out string, err error) {
	tag := uuid.NewString()
	var (
		tmpMde     = filepath.Join(c.tmpDir, fmt.Sprintf(TMP_MDE, tag))
		tmpPalette = filepath.Join(c.tmpDir, fmt.Sprintf(TMP_PALETTE, tag))
		tmpRelief  = filepath.Join(c.tmpDir, fmt.Sprintf(TMP_COLOR_RELIEF, tag))
		tmpShade   = filepath.Join(c.tmpDir, fmt.Sprintf(TMP_HILLSHADE, tag))
	)
	// Styling does not need the full GSD; work on a coarse copy.
	res := utils.FormatFloat(HILLSHADE_WORK_RES)
	work, err := gdal.Warp(tmpMde, []*gdal.Dataset{ds}, []string{"-of", GTIFF_DRIVER, "-tr", res, res})
	if err != nil {
		log.Error(c.logTag+"warp elevation copy failed", zap.Error(err))
		err = ErrWarpFailed
		return
	}
	defer func() {
		work.Close()
		os.Remove(tmpMde)
	}()
	ramp, err := c.sampleRamp(work, jb.src)
	if err != nil {
		return
	}
	if c.cfg.StyleMDE.ExportSLD {
		if err = c.exportSLD(ramp, jb); err != nil {
			return
		}
	}
	if err = writePaletteFile(tmpPalette, ramp); err != nil {
		return
	}
	defer os.Remove(tmpPalette)
	relief, err := work.Dem(tmpRelief, "color-relief", tmpPalette, []string{"-of", "PNG"})
	if err != nil {
		log.Error(c.logTag+"color-relief failed", zap.Error(err))
		err = ErrDemFailed
		return
	}
	relief.Close()
	defer os.Remove(tmpRelief)
	shade, err := work.Dem(tmpShade, "hillshade", "", []string{
		"-of", "PNG", "-az", HILLSHADE_AZIMUTH, "-z", HILLSHADE_Z_FACTOR,
	})
	if err != nil {
		log.Error(c.logTag+"hillshade failed", zap.Error(err))
		err = ErrDemFailed
		return
	}
	shade.Close()
	defer os.Remove(tmpShade)
	out = filepath.Join(c.tmpDir, fmt.Sprintf(TMP_COMPOSITE, tag))
	if err = compositeHillshade(tmpShade, tmpRelief, out); err != nil {
		log.Error(c.logTag+"composite failed", zap.Error(err))
	}
	return
}

// writePaletteFile emits the "value R G B" lines gdaldem color-relief reads.
func writePaletteFile(path string, ramp ColorRamp) (err error) {
	var sb strings.Builder
	for _, stop := range ramp {
		r, g, b, e := utils.HexColorToRGB(stop.Color)
		if e != nil {
			return e
		}
		fmt.Fprintf(&sb, "%s %d %d %d\n", utils.FormatFloat(stop.Value), r, g, b)
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// compositeHillshade blends the gamma-flattened hillshade (A) into the
// color-relief (B), channel by channel:
//
//	A < 128:  2*(A/255)*(B/255)
//	A >= 128: 1 - 2*(1-A/255)*(1-B/255)
//
// then applies the fixed contrast factor and writes the result.
func compositeHillshade(shadePath, reliefPath, out string) (err error) {
	shadeImg, err := imaging.Open(shadePath)
	if err != nil {
		return
	}
	reliefImg, err := imaging.Open(reliefPath)
	if err != nil {
		return
	}
	var (
		shade  = imaging.Clone(shadeImg)
		relief = imaging.Clone(reliefImg)
		bounds = relief.Bounds()
	)
	if shade.Bounds() != bounds {
		return fmt.Errorf("hillshade %v and color-relief %v sizes differ", shade.Bounds(), bounds)
	}
	blended := imaging.New(bounds.Dx(), bounds.Dy(), color.NRGBA{A: 255})
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			i := blended.PixOffset(x, y)
			a := gammaAdjust(shade.Pix[i]) // hillshade is grayscale
			for ch := 0; ch < 3; ch++ {
				blended.Pix[i+ch] = softLight(a, relief.Pix[i+ch])
			}
			blended.Pix[i+3] = 255
		}
	}
	return imaging.Save(adjustContrast(blended, CONTRAST_FACTOR), out)
}

// gammaAdjust darkens and flattens the hillshade before blending.
func gammaAdjust(v uint8) uint8 {
	return uint8(math.Round(float64(v) / 255 * HILLSHADE_GAMMA * 255))
}

func softLight(a, b uint8) uint8 {
	af := float64(a) / 255
	bf := float64(b) / 255
	var r float64
	if a < 128 {
		r = 2 * af * bf
	} else {
		r = 1 - 2*(1-af)*(1-bf)
	}
	return uint8(math.Round(r * 255))
}

// adjustContrast follows the PIL enhancer semantics: every channel is
// interpolated against the rounded mean luminance of the whole image.
func adjustContrast(img *image.NRGBA, factor float64) *image.NRGBA {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return img
	}
	var sum float64
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			i := img.PixOffset(x, y)
			sum += 0.299*float64(img.Pix[i]) + 0.587*float64(img.Pix[i+1]) + 0.114*float64(img.Pix[i+2])
		}
	}
	mean := math.Round(sum / float64(n))
	out := imaging.Clone(img)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			i := out.PixOffset(x, y)
			for ch := 0; ch < 3; ch++ {
				out.Pix[i+ch] = clampU8(mean + (float64(out.Pix[i+ch])-mean)*factor)
			}
		}
	}
	return out
}

func clampU8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
