package orthofoot

// 沿像素边追踪掩码连通区的边界环。
// 顶点坐标为像素角点 (x=列, y=行)；有向边的右侧像素即其所属像素。

const (
	dirE = iota
	dirS
	dirW
	dirN
)

var (
	dirDx = [4]int{1, 0, -1, 0}
	dirDy = [4]int{0, 1, 0, -1}
)

type vertex struct {
	x, y int
}

// 单个连通区
type region struct {
	label int32
	value uint8
	rings [][]vertex // 环按追踪顺序，未闭合（首点不重复）
}

type tracer struct {
	mask   *ValidityMask
	conn   int
	labels []int32
	out    []uint8 // 每个顶点尚未走过的出边（按方向位）
	vw     int     // 每行顶点数
}

// 连通区标记，标号按光栅扫描中首次出现的顺序
func labelRegions(mask *ValidityMask, conn int) (labels []int32, values []uint8) {
	w, h := mask.Width, mask.Height
	labels = make([]int32, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var (
		stack []int
		next  int32
	)
	for i := range labels {
		if labels[i] >= 0 {
			continue
		}
		val := mask.Valid[i]
		labels[i] = next
		values = append(values, mask.value(i))
		stack = append(stack[:0], i)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			r, c := p/w, p%w
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					if conn == Connectivity4 && dr != 0 && dc != 0 {
						continue
					}
					nr, nc := r+dr, c+dc
					if nr < 0 || nr >= h || nc < 0 || nc >= w {
						continue
					}
					q := nr*w + nc
					if labels[q] < 0 && mask.Valid[q] == val {
						labels[q] = next
						stack = append(stack, q)
					}
				}
			}
		}
		next++
	}
	return
}

func newTracer(mask *ValidityMask, conn int) *tracer {
	t := &tracer{
		mask: mask,
		conn: conn,
		vw:   mask.Width + 1,
	}
	t.labels, _ = labelRegions(mask, conn)
	t.out = make([]uint8, (mask.Width+1)*(mask.Height+1))
	w, h := mask.Width, mask.Height
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			l := t.labels[r*w+c]
			if r == 0 || t.labels[(r-1)*w+c] != l {
				t.out[r*t.vw+c] |= 1 << dirE
			}
			if c == w-1 || t.labels[r*w+c+1] != l {
				t.out[r*t.vw+c+1] |= 1 << dirS
			}
			if r == h-1 || t.labels[(r+1)*w+c] != l {
				t.out[(r+1)*t.vw+c+1] |= 1 << dirW
			}
			if c == 0 || t.labels[r*w+c-1] != l {
				t.out[(r+1)*t.vw+c] |= 1 << dirN
			}
		}
	}
	return t
}

// 有向边 (x,y,d) 右侧像素的标号
func (t *tracer) owner(x, y, d int) int32 {
	var r, c int
	switch d {
	case dirE:
		r, c = y, x
	case dirS:
		r, c = y, x-1
	case dirW:
		r, c = y-1, x-1
	default:
		r, c = y-1, x
	}
	return t.labels[r*t.mask.Width+c]
}

// 转向优先级：8连通优先左转（对角像素连为一体），4连通优先右转
func (t *tracer) turns(d int) [3]int {
	if t.conn == Connectivity4 {
		return [3]int{(d + 1) % 4, d, (d + 3) % 4}
	}
	return [3]int{(d + 3) % 4, d, (d + 1) % 4}
}

func (t *tracer) traceRing(x0, y0, d0 int, label int32) (ring []vertex, ok bool) {
	var (
		x, y = x0, y0
		d    = d0
		dirs []int
	)
	for {
		t.out[y*t.vw+x] &^= 1 << d
		ring = append(ring, vertex{x, y})
		dirs = append(dirs, d)
		x, y = x+dirDx[d], y+dirDy[d]
		next := -1
		for _, nd := range t.turns(d) {
			if x == x0 && y == y0 && nd == d0 {
				next = nd
				break
			}
			if t.out[y*t.vw+x]&(1<<nd) != 0 && t.owner(x, y, nd) == label {
				next = nd
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		if x == x0 && y == y0 && next == d0 {
			break
		}
		d = next
	}
	// 去掉共线的中间点
	n := len(ring)
	corners := make([]vertex, 0, n)
	for i := 0; i < n; i++ {
		if dirs[i] != dirs[(i+n-1)%n] {
			corners = append(corners, ring[i])
		}
	}
	return corners, true
}

// 追踪全部连通区，返回按标号排序的区域
func traceRegions(mask *ValidityMask, conn int) (regions []region, ok bool) {
	t := newTracer(mask, conn)
	w := mask.Width
	index := map[int32]int{}
	for r := 0; r < mask.Height; r++ {
		for c := 0; c < w; c++ {
			l := t.labels[r*w+c]
			starts := [4]struct{ x, y, d int }{
				{c, r, dirE},
				{c + 1, r, dirS},
				{c + 1, r + 1, dirW},
				{c, r + 1, dirN},
			}
			for _, s := range starts {
				if t.out[s.y*t.vw+s.x]&(1<<s.d) == 0 || t.owner(s.x, s.y, s.d) != l {
					continue
				}
				ring, good := t.traceRing(s.x, s.y, s.d, l)
				if !good {
					return nil, false
				}
				i, seen := index[l]
				if !seen {
					i = len(regions)
					index[l] = i
					regions = append(regions, region{label: l, value: mask.value(r*w + c)})
				}
				regions[i].rings = append(regions[i].rings, ring)
			}
		}
	}
	return regions, true
}

// 像素坐标下的有向面积（鞋带公式）
func ringPixelArea(ring []vertex) (a int) {
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += ring[i].x*ring[j].y - ring[j].x*ring[i].y
	}
	return
}
