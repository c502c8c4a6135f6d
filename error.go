package orthofoot

import "errors"

var (
	ErrMalformedRaster     = errors.New("malformed raster")
	ErrGeometryExtraction  = errors.New("geometry extraction failed")
	ErrNoMatchingLayers    = errors.New("no matching layers")
	ErrEmptyFootprint      = errors.New("empty footprint")
	ErrContainerUnreadable = errors.New("container unreadable")
	ErrEmptyIdentifier     = errors.New("empty layer identifier")
	ErrNoContainers        = errors.New("no input containers")
	ErrNoKeyword           = errors.New("no layer keyword")
	ErrNoOutput            = errors.New("output destination not writable")
	ErrInvalidWKT          = errors.New("invalid WKT")
	ErrTifReadFailed       = errors.New("raster band read failed")
	ErrInvalidManifest     = errors.New("invalid manifest")
)
