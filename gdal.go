package tiffconvert

import (
	"strconv"
	"sync"

	"github.com/dipsoh/tiffconvert/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// GdalToolbox caches OGR spatial references and decodes projection codes.
type GdalToolbox struct {
	refMap map[int]gdal.SpatialReference
	rLock  sync.Mutex
	logTag string
}

// Memory objects created by the GDAL C library must be reclaimed by hand.
type destroyable interface {
	Destroy()
}

func NewGdalToolbox() *GdalToolbox {
	return &GdalToolbox{
		refMap: map[int]gdal.SpatialReference{},
		logTag: "GdalToolbox:",
	}
}

// getSridRef returns the cached spatial reference for srid (reused, so it
// must not be destroyed by callers).
func (g *GdalToolbox) getSridRef(srid int) (ref gdal.SpatialReference, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		ref.Destroy()
		err = ErrVoidSrid
		return
	}
	// Fixed (lon,lat) data axis order, not the CRS-defined one. Otherwise
	// GeoJSON output can come out with the axes swapped.
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	g.refMap[srid] = ref
	return
}

// SridOfProjection decodes the integer EPSG authority code from a raster's
// projection WKT.
func (g *GdalToolbox) SridOfProjection(wkt string) (srid int, err error) {
	sp := gdal.CreateSpatialReference(wkt)
	defer sp.Destroy()
	rawId, ok := sp.AttrValue("AUTHORITY", 1)
	if !ok {
		log.Error(g.logTag+"projection carries no authority code", zap.String("wkt", wkt))
		err = ErrVoidSrid
		return
	}
	srid, err = strconv.Atoi(rawId)
	if err != nil {
		err = ErrVoidSrid
		return
	}
	log.Info(g.logTag+"got srid from projection", zap.Int("srid", srid))
	return
}
