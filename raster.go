package orthofoot

import (
	"fmt"

	"github.com/wgdzlh/orthofoot/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 读取数据集全部波段为uint8网格
func (g *GdalToolbox) readTile(ds gdal.Dataset, name string) (tile *RasterTile, err error) {
	bc := ds.RasterCount()
	if bc < MinTileBands {
		log.Error(g.logTag+"raster bands not enough", zap.String("layer", name), zap.Int("bands", bc))
		err = fmt.Errorf("%w: %d bands, need at least %d", ErrMalformedRaster, bc, MinTileBands)
		return
	}
	x := ds.RasterXSize()
	y := ds.RasterYSize()
	log.Debug(g.logTag+"start read raster", zap.String("layer", name), zap.Int("bands", bc),
		zap.Int("width", x), zap.Int("height", y))
	tile = &RasterTile{
		Name:       name,
		Width:      x,
		Height:     y,
		Bands:      make([][]uint8, bc),
		Transform:  AffineTransform(ds.GeoTransform()),
		Projection: ds.Projection(),
	}
	for i := 0; i < bc; i++ {
		band := ds.RasterBand(i + 1)
		dt := band.RasterDataType()
		if dt != gdal.Byte || band.XSize() != x || band.YSize() != y {
			log.Error(g.logTag+"raster band is malformed", zap.String("layer", name), zap.Int("band", i),
				zap.String("dataType", dt.Name()))
			tile = nil
			err = fmt.Errorf("%w: band %d is %s %dx%d", ErrMalformedRaster, i, dt.Name(), band.XSize(), band.YSize())
			return
		}
		tile.Bands[i] = make([]uint8, x*y)
		if err = band.IO(gdal.Read, 0, 0, x, y, tile.Bands[i], x, y, 0, 0); err != nil {
			log.Error(g.logTag+"read raster band failed", zap.String("layer", name), zap.Int("band", i), zap.Error(err))
			tile = nil
			err = fmt.Errorf("%w: band %d: %v", ErrTifReadFailed, i, err)
			return
		}
	}
	return
}
