package orthofoot

import (
	"fmt"
	"math"

	"github.com/wgdzlh/orthofoot/log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"
)

type FootprintExtractor struct {
	conn   int
	logTag string
}

type ExtractorOption func(*FootprintExtractor)

// 连通性，4或8，其他值按8处理
func WithConnectivity(conn int) ExtractorOption {
	return func(e *FootprintExtractor) {
		if conn == Connectivity4 {
			e.conn = Connectivity4
		} else {
			e.conn = Connectivity8
		}
	}
}

func NewFootprintExtractor(opts ...ExtractorOption) *FootprintExtractor {
	e := &FootprintExtractor{
		conn:   DefaultConnectivity,
		logTag: "FootprintExtractor:",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *FootprintExtractor) Connectivity() int {
	return e.conn
}

// 像素角点坐标转投影坐标
func (t AffineTransform) Apply(col, row float64) (x, y float64) {
	x = t[0] + col*t[1] + row*t[2]
	y = t[3] + col*t[4] + row*t[5]
	return
}

func (t AffineTransform) Det() float64 {
	return t[1]*t[5] - t[2]*t[4]
}

// 检查仿射变换是否可逆
func (t AffineTransform) Check() error {
	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite transform coefficient %d", ErrGeometryExtraction, i)
		}
	}
	det := t.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return fmt.Errorf("%w: degenerate transform %v", ErrGeometryExtraction, [6]float64(t))
	}
	return nil
}

func (t AffineTransform) ring(vs []vertex) orb.Ring {
	r := make(orb.Ring, 0, len(vs)+1)
	for _, v := range vs {
		x, y := t.Apply(float64(v.x), float64(v.y))
		r = append(r, orb.Point{x, y})
	}
	return append(r, r[0])
}

// 所有连通区的候选多边形（含掩码值为0的区域），按光栅扫描发现顺序
func (e *FootprintExtractor) Candidates(mask *ValidityMask, transform AffineTransform) (cands []PolygonCandidate, err error) {
	if err = transform.Check(); err != nil {
		return
	}
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 || len(mask.Valid) != mask.Width*mask.Height {
		err = fmt.Errorf("%w: malformed mask", ErrGeometryExtraction)
		return
	}
	regions, ok := traceRegions(mask, e.conn)
	if !ok || len(regions) == 0 {
		err = fmt.Errorf("%w: boundary tracing produced no ring", ErrGeometryExtraction)
		return
	}
	cands = make([]PolygonCandidate, 0, len(regions))
	for _, rg := range regions {
		outer := 0
		maxArea := 0
		for i, ring := range rg.rings {
			if a := abs(ringPixelArea(ring)); a > maxArea {
				outer, maxArea = i, a
			}
		}
		if maxArea == 0 {
			err = fmt.Errorf("%w: zero-area region %d", ErrGeometryExtraction, rg.label)
			return
		}
		poly := orb.Polygon{transform.ring(rg.rings[outer])}
		for i, ring := range rg.rings {
			if i != outer {
				poly = append(poly, transform.ring(ring))
			}
		}
		orient(poly)
		cands = append(cands, PolygonCandidate{
			Value:   rg.value,
			Polygon: poly,
			Area:    math.Abs(planar.Area(poly)),
		})
	}
	return
}

// 提取瓦片有效范围：取掩码值为1的最大面积区域的外环；无有效区域时返回nil
func (e *FootprintExtractor) Extract(mask *ValidityMask, transform AffineTransform) (fp *Footprint, err error) {
	cands, err := e.Candidates(mask, transform)
	if err != nil {
		log.Error(e.logTag+"trace candidates failed", zap.Error(err))
		return
	}
	var (
		best  *PolygonCandidate
		valid int
	)
	for i := range cands {
		c := &cands[i]
		if c.Value != 1 {
			continue
		}
		valid++
		if best == nil || c.Area > best.Area {
			best = c
		}
	}
	if best == nil {
		log.Debug(e.logTag+"no valid region", zap.Int("candidates", len(cands)))
		return
	}
	// 洞被丢弃，仅保留外环
	outer := orb.Polygon{best.Polygon[0]}
	fp = &Footprint{
		Polygon: outer,
		Area:    math.Abs(planar.Area(outer)),
		WKT:     wkt.MarshalString(outer),
	}
	log.Debug(e.logTag+"footprint selected", zap.Int("validRegions", valid), zap.Int("holes", len(best.Polygon)-1),
		zap.Float64("area", fp.Area))
	return
}

// 外环逆时针，洞顺时针
func orient(poly orb.Polygon) {
	for i, r := range poly {
		o := r.Orientation()
		if (i == 0 && o == orb.CW) || (i > 0 && o == orb.CCW) {
			r.Reverse()
		}
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
