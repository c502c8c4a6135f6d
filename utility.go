package orthofoot

import (
	"fmt"

	"github.com/paulmach/orb"
)

func PointsToWkt(x1, x2, y1, y2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", x1, x2, y1, y2)
}

func BoundToWkt(b orb.Bound) string {
	return PointsToWkt(b.Min[0], b.Max[0], b.Min[1], b.Max[1])
}

// 瓦片四角经仿射变换后的外包矩形
func (t AffineTransform) Extent(width, height int) orb.Bound {
	w, h := float64(width), float64(height)
	corners := make(orb.MultiPoint, 0, 4)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		x, y := t.Apply(c[0], c[1])
		corners = append(corners, orb.Point{x, y})
	}
	return corners.Bound()
}

// 瓦片外包矩形
func (t *RasterTile) Extent() orb.Bound {
	return t.Transform.Extent(t.Width, t.Height)
}
