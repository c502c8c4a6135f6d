package orthofoot

import (
	"github.com/paulmach/orb"
)

// 仿射变换，GDAL geotransform 次序：
// X = t[0] + col*t[1] + row*t[2], Y = t[3] + col*t[4] + row*t[5]
type AffineTransform [6]float64

// 解码后的影像瓦片（只读）
type RasterTile struct {
	Name       string    // 子图层名
	Width      int       // 列数
	Height     int       // 行数
	Bands      [][]uint8 // 各波段像素，行优先
	Transform  AffineTransform
	Projection string // 坐标系WKT
}

// 有效像素掩码
type ValidityMask struct {
	Width  int
	Height int
	Valid  []bool
}

// 候选多边形
type PolygonCandidate struct {
	Value   uint8       // 掩码值，1为有效像素区
	Polygon orb.Polygon // 第一个环为外环，其余为洞
	Area    float64     // 投影坐标系下的面积（外环减洞）
}

// 瓦片有效范围
type Footprint struct {
	Polygon orb.Polygon // 仅外环
	Area    float64
	WKT     string
}

type BatchRecord struct {
	Identifier string
	Container  string
	Layer      string
	Footprint  string // WKT
}

type ErrorEntry struct {
	Container string
	Layer     string
	Message   string
	Err       error
}

func (e ErrorEntry) String() string {
	return e.Message
}

type BatchResult struct {
	RunID   string
	Records []BatchRecord
	Errors  []ErrorEntry
}

// 影像容器数据源
type RasterSource interface {
	Open(path string) (Container, error)
}

// 已打开的多图层容器，使用后必须Close
type Container interface {
	Layers(keyword string) ([]string, error)
	ReadTile(layer string) (*RasterTile, error)
	Close()
}

// 可选：校验输出WKT
type GeometryValidator interface {
	CheckWkt(wkt string) error
}

func (m *ValidityMask) At(row, col int) bool {
	return m.Valid[row*m.Width+col]
}

func (m *ValidityMask) value(idx int) uint8 {
	if m.Valid[idx] {
		return 1
	}
	return 0
}

// 有效像素数
func (m *ValidityMask) CountValid() (n int) {
	for _, v := range m.Valid {
		if v {
			n++
		}
	}
	return
}
