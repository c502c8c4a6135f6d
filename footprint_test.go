package orthofoot

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pixelTransform = AffineTransform{0, 1, 0, 0, 0, 1}
	northUp        = AffineTransform{100, 2, 0, 50, 0, -2}
)

func parsePolygon(t *testing.T, s string) orb.Polygon {
	t.Helper()
	g, err := wkt.Unmarshal(s)
	require.NoError(t, err)
	p, ok := g.(orb.Polygon)
	require.True(t, ok, "not a polygon: %s", s)
	return p
}

func TestExtractAllNodata(t *testing.T) {
	e := NewFootprintExtractor()
	fp, err := e.Extract(maskOf("...", "...", "..."), northUp)
	require.NoError(t, err)
	assert.Nil(t, fp)
}

func TestExtractRectangle(t *testing.T) {
	e := NewFootprintExtractor()
	mask := maskOf("####", "####", "####")
	fp, err := e.Extract(mask, northUp)
	require.NoError(t, err)
	require.NotNil(t, fp)

	// 12像素，每像素4平方单位
	assert.InDelta(t, 48, fp.Area, 1e-9)
	require.Len(t, fp.Polygon, 1)
	ring := fp.Polygon[0]
	assert.Len(t, ring, 5)
	assert.True(t, ring.Closed())
	assert.Equal(t, orb.CCW, ring.Orientation())
	assert.Equal(t, orb.Bound{Min: orb.Point{100, 44}, Max: orb.Point{108, 50}}, ring.Bound())

	tile := &RasterTile{Width: 4, Height: 3, Transform: northUp}
	assert.Equal(t, tile.Extent(), ring.Bound())

	p := parsePolygon(t, fp.WKT)
	assert.True(t, orb.Equal(fp.Polygon, p))
}

func TestExtractLargestRegion(t *testing.T) {
	e := NewFootprintExtractor()
	mask := maskOf(
		"##...",
		"##.##",
		"...##",
		"...##",
	)
	fp, err := e.Extract(mask, pixelTransform)
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.InDelta(t, 6, fp.Area, 1e-9)
	assert.Equal(t, orb.Bound{Min: orb.Point{3, 1}, Max: orb.Point{5, 4}}, fp.Polygon.Bound())
}

func TestExtractTieKeepsFirst(t *testing.T) {
	e := NewFootprintExtractor()
	mask := maskOf(
		"...##",
		"...##",
		".....",
		"##...",
		"##...",
	)
	fp, err := e.Extract(mask, pixelTransform)
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Equal(t, orb.Bound{Min: orb.Point{3, 0}, Max: orb.Point{5, 2}}, fp.Polygon.Bound())
}

func TestExtractIdempotent(t *testing.T) {
	e := NewFootprintExtractor()
	mask := maskOf(
		".##..",
		"####.",
		".###.",
		"..#..",
	)
	before := append([]bool(nil), mask.Valid...)
	a, err := e.Extract(mask, northUp)
	require.NoError(t, err)
	b, err := e.Extract(mask, northUp)
	require.NoError(t, err)
	assert.Equal(t, a.WKT, b.WKT)
	assert.Equal(t, before, mask.Valid)
	assert.InDelta(t, 4*10, a.Area, 1e-9)
}

func TestExtractConnectivity(t *testing.T) {
	mask := maskOf(
		"##..",
		"##..",
		"..##",
		"..##",
	)

	fp, err := NewFootprintExtractor().Extract(mask, pixelTransform)
	require.NoError(t, err)
	require.NotNil(t, fp)
	// 对角相接的两块在8连通下为同一区域
	assert.InDelta(t, 8, fp.Area, 1e-9)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 4}}, fp.Polygon.Bound())
	assert.Len(t, fp.Polygon[0], 9)

	e4 := NewFootprintExtractor(WithConnectivity(Connectivity4))
	assert.Equal(t, Connectivity4, e4.Connectivity())
	fp, err = e4.Extract(mask, pixelTransform)
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.InDelta(t, 4, fp.Area, 1e-9)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 2}}, fp.Polygon.Bound())

	cands, err := e4.Candidates(mask, pixelTransform)
	require.NoError(t, err)
	assert.Len(t, cands, 4)
}

func TestWithConnectivityFallback(t *testing.T) {
	assert.Equal(t, Connectivity8, NewFootprintExtractor(WithConnectivity(6)).Connectivity())
	assert.Equal(t, DefaultConnectivity, NewFootprintExtractor().Connectivity())
}

func TestExtractDropsHoles(t *testing.T) {
	mask := maskOf(
		"#####",
		"#####",
		"##.##",
		"#####",
		"#####",
	)
	e := NewFootprintExtractor()
	cands, err := e.Candidates(mask, northUp)
	require.NoError(t, err)
	require.Len(t, cands, 2)

	valid := cands[0]
	assert.Equal(t, uint8(1), valid.Value)
	require.Len(t, valid.Polygon, 2)
	assert.Equal(t, orb.CCW, valid.Polygon[0].Orientation())
	assert.Equal(t, orb.CW, valid.Polygon[1].Orientation())
	assert.InDelta(t, 24*4, valid.Area, 1e-9)

	hole := cands[1]
	assert.Equal(t, uint8(0), hole.Value)
	assert.InDelta(t, 4, hole.Area, 1e-9)

	fp, err := e.Extract(mask, northUp)
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.Len(t, fp.Polygon, 1)
	assert.InDelta(t, 25*4, fp.Area, 1e-9)
	p := parsePolygon(t, fp.WKT)
	assert.Len(t, p, 1)
}

func TestExtractDegenerateTransform(t *testing.T) {
	e := NewFootprintExtractor()
	mask := maskOf("##", "##")
	for _, tr := range []AffineTransform{
		{},
		{0, 1, 2, 0, 2, 4},
		{0, math.NaN(), 0, 0, 0, 1},
		{math.Inf(1), 1, 0, 0, 0, 1},
	} {
		_, err := e.Extract(mask, tr)
		assert.ErrorIs(t, err, ErrGeometryExtraction, "%v", tr)
	}
}

func TestExtractMalformedMask(t *testing.T) {
	e := NewFootprintExtractor()
	_, err := e.Extract(nil, pixelTransform)
	assert.ErrorIs(t, err, ErrGeometryExtraction)
	_, err = e.Extract(&ValidityMask{Width: 2, Height: 2, Valid: []bool{true}}, pixelTransform)
	assert.ErrorIs(t, err, ErrGeometryExtraction)
}

func TestExtractRotatedTransform(t *testing.T) {
	// 旋转/剪切的仿射变换，面积按行列式缩放
	tr := AffineTransform{10, 3, 1, 20, 1, -2}
	fp, err := NewFootprintExtractor().Extract(maskOf("###", "###"), tr)
	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.InDelta(t, 6*math.Abs(tr.Det()), fp.Area, 1e-9)
	assert.Equal(t, orb.CCW, fp.Polygon[0].Orientation())
}
