package tiffconvert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dipsoh/tiffconvert/log"

	godal "github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// ExportOutline traces the valid-data footprint of an orthomosaic from its
// mask band and writes it as a single-feature GeoJSON. Geometry failures are
// skip-class: the file keeps its other exports.
func (c *Converter) ExportOutline(ds *godal.Dataset, jb *job) (err error) {
	tmpVec := filepath.Join(c.tmpDir, fmt.Sprintf(TMP_POLYGONS, uuid.NewString()))
	if err = c.polygonizeMask(ds, tmpVec); err != nil {
		return
	}
	defer os.Remove(tmpVec)
	out := filepath.Join(c.cfg.Outlines.OutputFolder, jb.id.OutputBase+FILE_EXT_GEOJSON)
	log.Info(c.logTag+"exporting outline", zap.String("out", out))
	return c.writeOutline(tmpVec, out, jb)
}

// polygonizeMask converts the alpha/mask band into candidate polygons on a
// scratch GeoJSON layer, masking the band with itself so only opaque pixels
// are traced.
func (c *Converter) polygonizeMask(ds *godal.Dataset, tmpVec string) (err error) {
	bands := ds.Bands()
	if len(bands) < OUTLINE_MASK_BAND {
		log.Error(c.logTag+"no mask band to polygonize", zap.Int("bands", len(bands)))
		return ErrWrongTif
	}
	mask := bands[OUTLINE_MASK_BAND-1]
	sr, err := godal.NewSpatialRefFromEPSG(c.cfg.Geoserver.Epsg)
	if err != nil {
		log.Error(c.logTag+"outline srid not found", zap.Int("epsg", c.cfg.Geoserver.Epsg), zap.Error(err))
		return ErrVoidSrid
	}
	defer sr.Close()
	vds, err := godal.CreateVector(godal.GeoJSON, tmpVec)
	if err != nil {
		log.Error(c.logTag+"create scratch vector failed", zap.Error(err))
		return ErrGdalDriverCreate
	}
	defer vds.Close()
	layer, err := vds.CreateLayer("outline", sr, godal.GTPolygon)
	if err != nil {
		log.Error(c.logTag+"create scratch layer failed", zap.Error(err))
		return ErrGdalDriverCreate
	}
	if err = mask.Polygonize(layer, godal.Mask(mask)); err != nil {
		log.Error(c.logTag+"polygonize failed", zap.Error(err))
	}
	return
}

// writeOutline filters the candidate polygons, merges them into one
// multipolygon, buffers, repairs, simplifies, and writes the final feature.
func (c *Converter) writeOutline(tmpVec, out string, jb *job) (err error) {
	driver := gdal.OGRDriverByName(GEOJSON_DRIVER_NAME)
	sds, ok := driver.Open(tmpVec, 0)
	if !ok {
		return ErrGdalDriverOpen
	}
	defer sds.Destroy()
	var (
		layer       = sds.LayerByIndex(0)
		minArea     = c.cfg.Outlines.MinimumArea
		merged      = gdal.Create(gdal.GT_MultiPolygon)
		feature     *gdal.Feature
		kept, total int
		gc          = []destroyable{merged}
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		total++
		geo := feature.Geometry()
		// Strictly greater: polygons at exactly the threshold are dropped.
		if geo.Area() > minArea {
			if e := merged.AddGeometry(geo); e != nil {
				log.Error(c.logTag+"err in merge of outline polygon", zap.Error(e))
				continue
			}
			kept++
		}
	}
	log.Info(c.logTag+"outline polygons filtered",
		zap.String("file", jb.file), zap.Int("total", total), zap.Int("kept", kept))
	// The buffer closes the small gaps and self-touches polygonize leaves.
	buffed := merged.Buffer(c.cfg.Outlines.Buffer, OutlineBufferSegs)
	gc = append(gc, buffed)
	if !buffed.IsValid() {
		buffed = buffed.Buffer(0, ValidateBufferSegs)
		gc = append(gc, buffed)
		if !buffed.IsValid() {
			return ErrOutlineInvalidGeo
		}
	}
	simplified := buffed.Simplify(c.cfg.Outlines.Simplify)
	gc = append(gc, simplified)
	if simplified.IsEmpty() {
		return ErrOutlineEmptyGeo
	}
	return c.writeOutlineFeature(out, simplified, jb)
}

func (c *Converter) writeOutlineFeature(out string, geo gdal.Geometry, jb *job) (err error) {
	ref, err := c.tb.getSridRef(c.cfg.Geoserver.Epsg)
	if err != nil {
		return
	}
	driver := gdal.OGRDriverByName(GEOJSON_DRIVER_NAME)
	if _, e := os.Stat(out); e == nil {
		driver.DeleteDataSource(out)
	}
	ds, ok := driver.Create(out, nil)
	if !ok {
		return ErrGdalDriverCreate
	}
	defer ds.Destroy() // writes the file and releases the handles
	layer := ds.CreateLayer("outline", ref, gdal.GT_Polygon, nil)
	for _, fd := range []struct {
		name string
		ft   gdal.FieldType
	}{
		{OUTLINE_FIELD_GSD, gdal.FT_Real},
		{OUTLINE_FIELD_REGISTRO, gdal.FT_String},
		{OUTLINE_FIELD_MAP, gdal.FT_String},
	} {
		if err = layer.CreateField(gdal.CreateFieldDefinition(fd.name, fd.ft), false); err != nil {
			return
		}
	}
	hasDate := !jb.src.Date.IsZero()
	if hasDate {
		if err = layer.CreateField(gdal.CreateFieldDefinition(OUTLINE_FIELD_DATE, gdal.FT_String), false); err != nil {
			return
		}
	}
	def := layer.Definition()
	feature := def.Create()
	defer feature.Destroy()
	if err = feature.SetFID(0); err != nil {
		log.Error(c.logTag+"err in set feature fid", zap.Error(err))
		return
	}
	feature.SetFieldFloat64(def.FieldIndex(OUTLINE_FIELD_GSD), jb.src.GSD)
	feature.SetFieldString(def.FieldIndex(OUTLINE_FIELD_REGISTRO), jb.id.RegistroId)
	feature.SetFieldString(def.FieldIndex(OUTLINE_FIELD_MAP), jb.id.MapId)
	if hasDate {
		feature.SetFieldString(def.FieldIndex(OUTLINE_FIELD_DATE), jb.src.Date.Format(DATE_LAYOUT_FIELD))
	}
	if err = feature.SetGeometry(geo); err != nil {
		log.Error(c.logTag+"err in set geom of feature", zap.Error(err))
		return
	}
	if err = layer.Create(feature); err != nil {
		log.Error(c.logTag+"err in create feature of layer", zap.Error(err))
		return
	}
	log.Info(c.logTag+"outline feature written", zap.String("out", out))
	return
}
