package tiffconvert

import "errors"

var (
	ErrInvalidTif       = errors.New("gdal tif open err")
	ErrWrongTif         = errors.New("gdal tif is malformed")
	ErrTifReadFailed    = errors.New("gdal tif read failed")
	ErrVoidSrid         = errors.New("raster with void srid")
	ErrGdalDriverCreate = errors.New("gdal driver create err")
	ErrGdalDriverOpen   = errors.New("gdal driver open err")
	ErrWarpFailed       = errors.New("gdal warp failed")
	ErrTranslateFailed  = errors.New("gdal translate failed")
	ErrDemFailed        = errors.New("gdaldem rendering failed")

	// Degenerate elevation sample sets abort the batch.
	ErrNanPercentile = errors.New("percentile of elevation samples is nan")

	// Skip-class outline failures: the file keeps its other exports.
	ErrOutlineInvalidGeo = errors.New("outline geometry is invalid")
	ErrOutlineEmptyGeo   = errors.New("outline geometry is empty")
)
