package orthofoot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLayers(t *testing.T) {
	names := []string{
		"GPKG:/data/a.gpkg:ORTO_01",
		"GPKG:/data/a.gpkg:dsm_01",
		"GPKG:/data/a.gpkg:orto_02",
		"GPKG:/data/a.gpkg:ORTO_03",
	}
	assert.Equal(t, []string{names[0], names[3]}, MatchLayers(names, "ORTO"))
	assert.Equal(t, []string{names[2]}, MatchLayers(names, "orto"))
	assert.Equal(t, names, MatchLayers(names, ""))

	none := MatchLayers(names, "NDVI")
	assert.NotNil(t, none)
	assert.Empty(t, none)
	assert.Empty(t, MatchLayers(nil, "ORTO"))
}

func TestLayerIdentifier(t *testing.T) {
	cases := map[string]string{
		"GPKG:/data/a.gpkg:ORTO_01":          "ORTO_01",
		`GPKG:C:\data\b.gpkg:ORTO_02`:        "ORTO_02",
		"GPKG:/data/a.gpkg: ORTO_03 ":        "ORTO_03",
		"ORTO_04":                            "ORTO_04",
		"/data/tiles/ortho_05.tif":           "ortho_05.tif",
		"GPKG:/data/a.gpkg:":                 "",
		"GPKG:/data/dir.with:colon/x.gpkg:Z": "Z",
	}
	for in, want := range cases {
		assert.Equal(t, want, LayerIdentifier(in), in)
	}
}

func TestParseSubdatasets(t *testing.T) {
	md := []string{
		"SUBDATASET_2_NAME=GPKG:/d/a.gpkg:B",
		"SUBDATASET_2_DESC=B - tile",
		"SUBDATASET_10_NAME=GPKG:/d/a.gpkg:J",
		"SUBDATASET_1_NAME=GPKG:/d/a.gpkg:A",
		"SUBDATASET_X_NAME=GPKG:/d/a.gpkg:bad",
		"garbage",
	}
	assert.Equal(t, []string{
		"GPKG:/d/a.gpkg:A",
		"GPKG:/d/a.gpkg:B",
		"GPKG:/d/a.gpkg:J",
	}, parseSubdatasets(md))
	assert.Empty(t, parseSubdatasets(nil))
}
