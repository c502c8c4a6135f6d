package orthofoot

const (
	MinTileBands = 4 // RGBA

	NodataWhite = 255
	NodataAlpha = 0

	Connectivity4 = 4
	Connectivity8 = 8

	DefaultConnectivity = Connectivity8
	DefaultWorkers      = 1

	SUBDATASETS_DOMAIN = "SUBDATASETS"
	SUBDATASET_PREFIX  = "SUBDATASET_"
	SUBDATASET_NAME    = "_NAME"

	FILE_EXT_GPKG = ".gpkg"

	COLUMN_IDENTIFIER = "identifier"
	COLUMN_FOOTPRINT  = "footprint"

	CONTENT_TYPE_CSV = "text/csv"
	CONTENT_TYPE_LOG = "text/plain"

	ErrNoLayersTemplate     = `No layers containing '%s' found in container: %s`
	ErrLayerTemplate        = `Could not get footprint from layer %s: %v`
	ErrContainerTemplate    = `Error processing container %s: %v`
	ErrEmptyFootprintDetail = "no valid pixel region"
)
