package tiffconvert

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dipsoh/tiffconvert/log"
	"github.com/dipsoh/tiffconvert/utils"

	gdal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// warpToTarget reprojects and resamples a source raster to the tile-server
// spatial reference, writing a scratch GTiff. The caller owns both the
// returned dataset and the scratch file. Only called when the source
// projection differs from the target.
func (c *Converter) warpToTarget(ds *gdal.Dataset, jb *job) (out *gdal.Dataset, tmp string, err error) {
	gsd := c.cfg.Geoserver.GSD
	if jb.id.Kind == KindElevation {
		gsd = c.cfg.GeoserverMDE.GSD
	}
	res := utils.FormatFloat(gsd / 100)
	tmp = filepath.Join(c.tmpDir, fmt.Sprintf(TMP_WARP, uuid.NewString()))
	log.Info(c.logTag+"reprojecting",
		zap.String("file", jb.file),
		zap.Int("srcEpsg", jb.src.Srid),
		zap.Int("dstEpsg", c.cfg.Geoserver.Epsg),
		zap.String("res", res))
	out, err = gdal.Warp(tmp, []*gdal.Dataset{ds}, []string{
		"-of", GTIFF_DRIVER,
		"-tr", res, res,
		"-s_srs", "EPSG:" + strconv.Itoa(jb.src.Srid),
		"-t_srs", "EPSG:" + strconv.Itoa(c.cfg.Geoserver.Epsg),
		"-multi",
		"-srcnodata", nodataPolicy(jb.src),
	})
	if err != nil {
		log.Error(c.logTag+"warp failed", zap.String("file", jb.file), zap.Error(err))
		err = ErrWarpFailed
	}
	return
}

// nodataPolicy resolves the nodata declaration for raster exports: with an
// alpha band transparency lives there and nodata is declared none, otherwise
// the source value passes through explicitly. Old DroneDeploy exports corrupt
// nodata handling unless it is stated either way.
func nodataPolicy(src RasterSource) string {
	if src.HasAlpha {
		return "none"
	}
	return utils.FormatFloat(src.NoData)
}
