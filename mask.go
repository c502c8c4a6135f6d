package orthofoot

import (
	"fmt"
)

// 无数据像素判定
type NodataPredicate interface {
	IsNodata(px []uint8) bool
	MinBands() int
}

// 按波段取值判定无数据：Bands[i]波段值均等于Values[i]时为无数据
type BandValuePredicate struct {
	Bands  []int
	Values []uint8
}

// 白色RGB且alpha为0
var DefaultNodata = BandValuePredicate{
	Bands:  []int{0, 1, 2, 3},
	Values: []uint8{NodataWhite, NodataWhite, NodataWhite, NodataAlpha},
}

func NewBandValuePredicate(bands []int, values []uint8) (p BandValuePredicate, err error) {
	if len(bands) == 0 || len(bands) != len(values) {
		err = fmt.Errorf("%w: %d bands vs %d nodata values", ErrMalformedRaster, len(bands), len(values))
		return
	}
	for _, b := range bands {
		if b < 0 {
			err = fmt.Errorf("%w: negative band index %d", ErrMalformedRaster, b)
			return
		}
	}
	p.Bands = append([]int(nil), bands...)
	p.Values = append([]uint8(nil), values...)
	return
}

func (p BandValuePredicate) IsNodata(px []uint8) bool {
	for i, b := range p.Bands {
		if px[b] != p.Values[i] {
			return false
		}
	}
	return true
}

func (p BandValuePredicate) MinBands() (n int) {
	for _, b := range p.Bands {
		if b+1 > n {
			n = b + 1
		}
	}
	return
}

// 由波段数据生成有效像素掩码
func Evaluate(bands [][]uint8, width, height int, pred NodataPredicate) (mask *ValidityMask, err error) {
	if pred == nil {
		pred = DefaultNodata
	}
	need := MinTileBands
	if n := pred.MinBands(); n > need {
		need = n
	}
	if len(bands) < need {
		err = fmt.Errorf("%w: %d bands, need at least %d", ErrMalformedRaster, len(bands), need)
		return
	}
	if width <= 0 || height <= 0 {
		err = fmt.Errorf("%w: size %dx%d", ErrMalformedRaster, width, height)
		return
	}
	size := width * height
	for i, b := range bands {
		if len(b) != size {
			err = fmt.Errorf("%w: band %d has %d samples, want %d", ErrMalformedRaster, i, len(b), size)
			return
		}
	}
	mask = &ValidityMask{
		Width:  width,
		Height: height,
		Valid:  make([]bool, size),
	}
	px := make([]uint8, len(bands))
	for i := 0; i < size; i++ {
		for j, b := range bands {
			px[j] = b[i]
		}
		mask.Valid[i] = !pred.IsNodata(px)
	}
	return
}

// 瓦片掩码
func (t *RasterTile) Mask(pred NodataPredicate) (*ValidityMask, error) {
	return Evaluate(t.Bands, t.Width, t.Height, pred)
}
