package tiffconvert

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dipsoh/tiffconvert/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// RasterInfo is the structure/metadata report written next to archive
// rasters, covering the fields the downstream asset store consumes.
type RasterInfo struct {
	File         string            `json:"file"`
	Driver       string            `json:"driver"`
	Size         [2]int            `json:"size"` // width, height
	GeoTransform [6]float64        `json:"geoTransform"`
	Projection   string            `json:"coordinateSystem"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Bands        []RasterBandInfo  `json:"bands"`
}

type RasterBandInfo struct {
	Band        int      `json:"band"`
	DataType    string   `json:"type"`
	ColorInterp string   `json:"colorInterpretation"`
	NoData      *float64 `json:"noDataValue,omitempty"`
}

func buildRasterInfo(ds *gdal.Dataset, file string) (info RasterInfo) {
	st := ds.Structure()
	info.File = file
	info.Driver = GTIFF_DRIVER
	info.Size = [2]int{st.SizeX, st.SizeY}
	if gt, err := ds.GeoTransform(); err == nil {
		info.GeoTransform = gt
	}
	info.Projection = ds.Projection()
	info.Metadata = ds.Metadatas()
	bands := ds.Bands()
	info.Bands = make([]RasterBandInfo, len(bands))
	for i, band := range bands {
		bi := RasterBandInfo{
			Band:        i + 1,
			DataType:    band.Structure().DataType.String(),
			ColorInterp: band.ColorInterp().Name(),
		}
		if nd, ok := band.NoData(); ok {
			bi.NoData = &nd
		}
		info.Bands[i] = bi
	}
	return
}

// exportInfoJSON dumps the archive raster's structure report as JSON.
func (c *Converter) exportInfoJSON(ds *gdal.Dataset, jb *job) (err error) {
	out := filepath.Join(c.cfg.Storage.OutputFolderJSON, jb.id.OutputBase+FILE_EXT_JSON)
	log.Info(c.logTag+"exporting raster info", zap.String("out", out))
	buf, err := json.Marshal(buildRasterInfo(ds, jb.id.OutputBase+FILE_EXT_TIF))
	if err != nil {
		return
	}
	return os.WriteFile(out, buf, 0644)
}
