package tiffconvert

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dipsoh/tiffconvert/log"
	"github.com/dipsoh/tiffconvert/utils"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// Converter sequences the per-file export pipeline: identity, metadata,
// reprojection and the five target artifacts.
type Converter struct {
	cfg    *Config
	tb     *GdalToolbox
	tmpDir string
	logTag string
}

// job carries everything derived for one source file through the stages.
// Built fresh per file; nothing survives to the next one.
type job struct {
	file string // base filename
	path string
	src  RasterSource
	id   Identity
	meta []string // key=value tags stamped onto every output raster
}

func NewConverter(cfg *Config) *Converter {
	registerOnce.Do(gdal.RegisterAll)
	tmpDir := cfg.TmpFolder
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Converter{
		cfg:    cfg,
		tb:     NewGdalToolbox(),
		tmpDir: tmpDir,
		logTag: "Converter:",
	}
}

// Run processes every tif under the input folder, strictly one file at a
// time. The first fatal error aborts the whole batch.
func (c *Converter) Run() (err error) {
	if err = c.setupFolders(); err != nil {
		return
	}
	return filepath.WalkDir(c.cfg.InputFolder, func(path string, d fs.DirEntry, e error) error {
		if e != nil {
			return e
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != FILE_EXT_TIF && ext != FILE_EXT_TIFF {
			return nil
		}
		return c.processFile(path)
	})
}

func (c *Converter) setupFolders() (err error) {
	if c.cfg.CleanOutputFolder && c.cfg.OutputFolder != "" {
		if err = os.RemoveAll(c.cfg.OutputFolder); err != nil {
			return
		}
	}
	for _, dir := range []string{
		c.cfg.Geoserver.OutputFolder,
		c.cfg.GeoserverMDE.OutputFolder,
		c.cfg.Storage.OutputFolder,
		c.cfg.Storage.OutputFolderJSON,
		c.cfg.StoragePreview.OutputFolder,
		c.cfg.Outlines.OutputFolder,
		c.tmpDir,
	} {
		if err = utils.EnsureDir(dir); err != nil {
			return
		}
	}
	return
}

func (c *Converter) processFile(path string) (err error) {
	file := filepath.Base(path)
	log.Info(c.logTag+"converting", zap.String("file", file))
	ds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		log.Error(c.logTag+"open tif failed", zap.String("file", path), zap.Error(err))
		return ErrInvalidTif
	}
	defer ds.Close()
	src, err := c.tb.ReadSource(ds, path)
	if err != nil {
		return
	}
	id := ResolveIdentity(file, src.Bands, c.cfg)
	log.Info(c.logTag+"identity resolved",
		zap.String("kind", id.Kind.String()),
		zap.String("registroId", id.RegistroId),
		zap.String("mapId", id.MapId),
		zap.String("output", id.OutputBase))
	jb := &job{
		file: file,
		path: path,
		src:  src,
		id:   id,
	}
	jb.meta = append(append([]string{}, c.cfg.Metadata...),
		META_REGISTRO_ID+"="+id.RegistroId,
		META_MAP_ID+"="+id.MapId,
	)
	if err = c.exportStorageFiles(ds, jb); err != nil {
		return
	}
	if err = c.exportGeoserverFiles(ds, jb); err != nil {
		return
	}
	log.Info(c.logTag+"operation finished", zap.String("file", file))
	return
}

// exportGeoserverFiles writes the tile-server raster, reprojecting first when
// the source projection differs, and traces the footprint outline off the
// same working dataset.
func (c *Converter) exportGeoserverFiles(ds *gdal.Dataset, jb *job) (err error) {
	work := ds
	if jb.src.Srid != c.cfg.Geoserver.Epsg {
		var tmp string
		if work, tmp, err = c.warpToTarget(ds, jb); err != nil {
			return
		}
		defer func() {
			work.Close()
			os.Remove(tmp)
		}()
	}
	if c.cfg.Outlines.Enabled && jb.id.Kind != KindElevation {
		if e := c.ExportOutline(work, jb); e != nil {
			if errors.Is(e, ErrOutlineInvalidGeo) || errors.Is(e, ErrOutlineEmptyGeo) {
				log.Warn(c.logTag+"outline skipped", zap.String("file", jb.file), zap.Error(e))
			} else {
				return e
			}
		}
	}
	var (
		folder = c.cfg.Geoserver.OutputFolder
		gsd    = c.cfg.Geoserver.GSD
		co     = c.cfg.Geoserver.CreationOptions
	)
	if jb.id.Kind == KindElevation {
		folder = c.cfg.GeoserverMDE.OutputFolder
		gsd = c.cfg.GeoserverMDE.GSD
		co = c.cfg.GeoserverMDE.CreationOptions
	}
	out := filepath.Join(folder, jb.id.OutputBase+FILE_EXT_TIF)
	log.Info(c.logTag+"exporting geoserver raster", zap.String("out", out))
	ods, err := work.Translate(out, c.translateSwitches(jb, gsd, co))
	if err != nil {
		log.Error(c.logTag+"translate failed", zap.String("out", out), zap.Error(err))
		return ErrTranslateFailed
	}
	defer ods.Close()
	if c.cfg.Geoserver.Overviews {
		err = c.buildOverviews(ods, out)
	}
	return
}

// exportStorageFiles writes the archive raster from the original dataset,
// then its dependent artifacts: info JSON and preview.
func (c *Converter) exportStorageFiles(ds *gdal.Dataset, jb *job) (err error) {
	var (
		gsd = c.cfg.Storage.GSD
		co  = c.cfg.Storage.CreationOptions
	)
	if jb.id.Kind == KindElevation {
		gsd = c.cfg.StorageMDE.GSD
		co = c.cfg.StorageMDE.CreationOptions
	}
	out := filepath.Join(c.cfg.Storage.OutputFolder, jb.id.OutputBase+FILE_EXT_TIF)
	log.Info(c.logTag+"exporting storage raster", zap.String("out", out))
	ods, err := ds.Translate(out, c.translateSwitches(jb, gsd, co))
	if err != nil {
		log.Error(c.logTag+"translate failed", zap.String("out", out), zap.Error(err))
		return ErrTranslateFailed
	}
	defer ods.Close()
	if c.cfg.Storage.Overviews {
		if err = c.buildOverviews(ods, out); err != nil {
			return
		}
	}
	if c.cfg.Storage.ExportJSON && jb.id.Kind != KindElevation {
		if err = c.exportInfoJSON(ods, jb); err != nil {
			return
		}
	}
	if c.cfg.Storage.Previews {
		err = c.exportPreview(ods, jb)
	}
	return
}

// translateSwitches assembles the shared gdal_translate arguments: band
// selection per classification, target resolution, creation options,
// metadata tags and the nodata policy. gsd 0 keeps the source pixel size.
func (c *Converter) translateSwitches(jb *job, gsd float64, co []string) (sw []string) {
	sw = []string{"-of", GTIFF_DRIVER}
	if jb.id.Kind == KindElevation {
		sw = append(sw, "-b", "1")
	} else {
		sw = append(sw, "-b", "1", "-b", "2", "-b", "3", "-mask", strconv.Itoa(OUTLINE_MASK_BAND))
	}
	if gsd > 0 {
		res := utils.FormatFloat(gsd / 100)
		sw = append(sw, "-tr", res, res)
	} else {
		sw = append(sw, "-tr", utils.FormatFloat(jb.src.PixelSizeX), utils.FormatFloat(jb.src.PixelSizeY))
	}
	for _, opt := range co {
		sw = append(sw, "-co", opt)
	}
	for _, m := range jb.meta {
		sw = append(sw, "-mo", m)
	}
	sw = append(sw, "-a_nodata", nodataPolicy(jb.src))
	return
}

// buildOverviews precomputes the reduced-resolution pyramid so viewers open
// the files fast at low zoom.
func (c *Converter) buildOverviews(ds *gdal.Dataset, out string) (err error) {
	err = ds.BuildOverviews(gdal.Resampling(gdal.Average), gdal.Levels(overviewLevels...))
	if err != nil {
		log.Error(c.logTag+"build overviews failed", zap.String("out", out), zap.Error(err))
	}
	return
}

// exportPreview writes the downsampled archive preview. Elevation rasters
// are rendered through the styled hillshade compositor first.
func (c *Converter) exportPreview(ds *gdal.Dataset, jb *job) (err error) {
	work := ds
	if jb.id.Kind == KindElevation {
		var composite string
		if composite, err = c.ColoredHillshade(ds, jb); err != nil {
			return
		}
		defer os.Remove(composite)
		if work, err = gdal.Open(composite, gdal.RasterOnly()); err != nil {
			log.Error(c.logTag+"open composite failed", zap.Error(err))
			return ErrInvalidTif
		}
		defer work.Close()
	}
	out := filepath.Join(c.cfg.StoragePreview.OutputFolder, jb.id.OutputBase+previewExt(c.cfg.StoragePreview.Format))
	log.Info(c.logTag+"exporting preview", zap.String("out", out))
	sw := []string{
		"-of", c.cfg.StoragePreview.Format,
		"-outsize", strconv.Itoa(c.cfg.StoragePreview.Width), "0",
	}
	for _, opt := range c.cfg.StoragePreview.CreationOptions {
		sw = append(sw, "-co", opt)
	}
	// PAM sidecar files (.aux.xml) are useless next to previews.
	ods, err := work.Translate(out, sw, gdal.ConfigOption("GDAL_PAM_ENABLED=NO"))
	if err != nil {
		log.Error(c.logTag+"preview translate failed", zap.String("out", out), zap.Error(err))
		return ErrTranslateFailed
	}
	ods.Close()
	return
}

func previewExt(format string) string {
	switch strings.ToUpper(format) {
	case "PNG":
		return ".png"
	default:
		return ".jpg"
	}
}
