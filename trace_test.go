package orthofoot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelRegionsOrder(t *testing.T) {
	mask := maskOf(
		"#.#",
		"#.#",
		"...",
	)
	labels, values := labelRegions(mask, Connectivity8)
	want := []int32{
		0, 1, 2,
		0, 1, 2,
		1, 1, 1,
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uint8{1, 0, 1}, values)
}

func TestLabelRegionsDiagonal(t *testing.T) {
	mask := maskOf(
		"#.",
		".#",
	)
	l8, _ := labelRegions(mask, Connectivity8)
	assert.Equal(t, []int32{0, 1, 1, 0}, l8)
	l4, v4 := labelRegions(mask, Connectivity4)
	assert.Equal(t, []int32{0, 1, 2, 3}, l4)
	assert.Equal(t, []uint8{1, 0, 0, 1}, v4)
}

func TestTraceCollapsesCollinear(t *testing.T) {
	regions, ok := traceRegions(maskOf("###", "###"), Connectivity8)
	require.True(t, ok)
	require.Len(t, regions, 1)
	require.Len(t, regions[0].rings, 1)
	want := []vertex{{0, 0}, {3, 0}, {3, 2}, {0, 2}}
	if diff := cmp.Diff(want, regions[0].rings[0], cmp.AllowUnexported(vertex{})); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 12, ringPixelArea(regions[0].rings[0]))
}

func TestTraceHoleRing(t *testing.T) {
	regions, ok := traceRegions(maskOf("###", "#.#", "###"), Connectivity4)
	require.True(t, ok)
	require.Len(t, regions, 2)
	outer := regions[0]
	assert.Equal(t, uint8(1), outer.value)
	require.Len(t, outer.rings, 2)
	assert.Equal(t, 18, ringPixelArea(outer.rings[0]))
	// 洞与外环方向相反
	assert.Equal(t, -2, ringPixelArea(outer.rings[1]))
	assert.Equal(t, uint8(0), regions[1].value)
}

func TestTraceSinglePixel(t *testing.T) {
	regions, ok := traceRegions(maskOf("."), Connectivity8)
	require.True(t, ok)
	require.Len(t, regions, 1)
	assert.Equal(t, uint8(0), regions[0].value)
	assert.Len(t, regions[0].rings[0], 4)
}
