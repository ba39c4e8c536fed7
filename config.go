package tiffconvert

const (
	FILE_EXT_TIF     = ".tif"
	FILE_EXT_TIFF    = ".tiff"
	FILE_EXT_JSON    = ".json"
	FILE_EXT_GEOJSON = ".geojson"
	FILE_EXT_SLD     = ".sld"

	GTIFF_DRIVER        = "GTiff"
	GEOJSON_DRIVER_NAME = "GeoJSON"

	// Band count at or below which a raster is an elevation model.
	ELEVATION_MAX_BANDS = 2
	// Alpha/mask band of an orthomosaic.
	OUTLINE_MASK_BAND = 4

	// Random map ids carry 6 bytes of entropy, rendered as 12 hex chars.
	MAP_ID_RANDOM_BYTES = 6

	RAMP_STOPS = 7

	// Styling works on a coarse copy of the elevation raster.
	HILLSHADE_WORK_RES = 0.3 // meters per pixel
	HILLSHADE_AZIMUTH  = "90"
	HILLSHADE_Z_FACTOR = "5"
	HILLSHADE_GAMMA    = 0.5
	CONTRAST_FACTOR    = 1.12

	OutlineBufferSegs  = 24
	ValidateBufferSegs = 30

	META_REGISTRO_ID = "registroId"
	META_MAP_ID      = "mapId"

	OUTLINE_FIELD_GSD      = "gsd"
	OUTLINE_FIELD_REGISTRO = "registro_id"
	OUTLINE_FIELD_MAP      = "map_id"
	OUTLINE_FIELD_DATE     = "date"

	// DroneDeploy stamps an ISO date with a trailing offset; Pix4DMatic
	// uses the TIFF tag convention.
	DATE_LAYOUT_DRONEDEPLOY = "2006-01-02T15:04:05"
	DATE_LAYOUT_PIX4DMATIC  = "2006:01:02 15:04:05"
	DATE_LAYOUT_FIELD       = "2006-01-02"

	TMP_WARP         = "warp_%s.tif"
	TMP_POLYGONS     = "polygons_%s.geojson"
	TMP_MDE          = "mde_%s.tif"
	TMP_COLOR_RELIEF = "color_relief_%s.png"
	TMP_HILLSHADE    = "hillshade_%s.png"
	TMP_COMPOSITE    = "composite_%s.png"
	TMP_PALETTE      = "palette_%s.txt"
)

// Overview pyramid levels, averaged resampling.
var overviewLevels = []int{2, 4, 8, 16, 32, 64, 128, 256}
