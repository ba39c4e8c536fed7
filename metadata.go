package tiffconvert

import (
	"math"
	"time"

	"github.com/dipsoh/tiffconvert/log"
	"github.com/dipsoh/tiffconvert/utils"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// ReadSource extracts the per-file raster descriptor from an opened dataset.
// An unresolvable projection code is fatal for the batch.
func (g *GdalToolbox) ReadSource(ds *gdal.Dataset, path string) (src RasterSource, err error) {
	src.Path = path
	bands := ds.Bands()
	if len(bands) == 0 {
		log.Error(g.logTag+"tif has no bands", zap.String("file", path))
		err = ErrWrongTif
		return
	}
	src.Bands = len(bands)
	last := bands[src.Bands-1]
	src.HasAlpha = last.ColorInterp() == gdal.CIAlpha
	nd, ok := last.NoData()
	src.NoData = normalizeNoData(nd, ok)
	gt, err := ds.GeoTransform()
	if err != nil {
		log.Error(g.logTag+"tif has no geotransform", zap.String("file", path), zap.Error(err))
		err = ErrWrongTif
		return
	}
	src.PixelSizeX = gt[1]
	src.PixelSizeY = -gt[5] // vertical scale is conventionally negative
	src.GSD = gsdFromPixelSize(src.PixelSizeX, src.PixelSizeY)
	if src.Srid, err = g.SridOfProjection(ds.Projection()); err != nil {
		return
	}
	src.Date = readAcquisitionDate(ds)
	log.Info(g.logTag+"source parsed",
		zap.String("file", path),
		zap.Int("bands", src.Bands),
		zap.Bool("alpha", src.HasAlpha),
		zap.Float64("gsd", src.GSD),
		zap.Int("srid", src.Srid))
	return
}

// normalizeNoData coerces absent or nan nodata markers to 0. Pix4DMatic
// writes nan as the nodata value.
func normalizeNoData(v float64, ok bool) float64 {
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

// gsdFromPixelSize averages both pixel scales into a cm ground sample
// distance, rounded to 2 decimals.
func gsdFromPixelSize(px, py float64) float64 {
	return utils.Round((py+px)/2*100, 2)
}

func readAcquisitionDate(ds *gdal.Dataset) time.Time {
	return acquisitionDate(ds.Metadata("acquisitionStartDate"), ds.Metadata("TIFFTAG_DATETIME"))
}

// acquisitionDate parses whichever producer tag is present. DroneDeploy
// carries a 6-char zone offset that is stripped before parsing; Pix4DMatic
// uses the TIFF datetime convention. Missing or malformed tags yield a zero
// time, never an error.
func acquisitionDate(droneDeploy, pix4d string) (d time.Time) {
	if len(droneDeploy) > 6 {
		if t, e := time.Parse(DATE_LAYOUT_DRONEDEPLOY, droneDeploy[:len(droneDeploy)-6]); e == nil {
			return t
		}
	}
	if pix4d != "" {
		if t, e := time.Parse(DATE_LAYOUT_PIX4DMATIC, pix4d); e == nil {
			return t
		}
	}
	return
}
