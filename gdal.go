package orthofoot

import (
	"fmt"

	"github.com/wgdzlh/orthofoot/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 基于GDAL的影像容器数据源
type GdalToolbox struct {
	logTag string
}

// 已打开的GDAL容器（如GeoPackage）
type gdalContainer struct {
	g    *GdalToolbox
	path string
	ds   gdal.Dataset
}

var (
	_ RasterSource      = (*GdalToolbox)(nil)
	_ GeometryValidator = (*GdalToolbox)(nil)
	_ Container         = (*gdalContainer)(nil)
)

func NewGdalToolbox() *GdalToolbox {
	return &GdalToolbox{
		logTag: "GdalToolbox:",
	}
}

// 打开容器文件，使用后需Close
func (g *GdalToolbox) Open(path string) (c Container, err error) {
	ds, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		log.Error(g.logTag+"open container failed", zap.String("path", path), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrContainerUnreadable, err)
		return
	}
	c = &gdalContainer{g: g, path: path, ds: ds}
	return
}

// 列出容器中名称含关键字的子图层
func (g *GdalToolbox) ListLayers(path, keyword string) (layers []string, err error) {
	c, err := g.Open(path)
	if err != nil {
		return
	}
	defer c.Close()
	return c.Layers(keyword)
}

func (g *GdalToolbox) parseWKT(wkt string) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKT(wkt, gdal.SpatialReference{})
	if err != nil {
		log.Error(g.logTag+"parse wkt failed", zap.Error(err))
		err = ErrInvalidWKT
	}
	return
}

// 检查WKT能被GDAL解析且非空
func (g *GdalToolbox) CheckWkt(wkt string) (err error) {
	geo, err := g.parseWKT(wkt)
	if err != nil {
		return
	}
	defer geo.Destroy()
	if geo.IsEmpty() || geo.Area() <= 0 {
		err = fmt.Errorf("%w: empty polygon", ErrInvalidWKT)
	}
	return
}

func (c *gdalContainer) Layers(keyword string) (layers []string, err error) {
	names := parseSubdatasets(c.ds.Metadata(SUBDATASETS_DOMAIN))
	if len(names) == 0 && c.ds.RasterCount() > 0 {
		// 无子数据集时，容器本身即唯一的影像图层
		names = []string{c.path}
	}
	layers = MatchLayers(names, keyword)
	log.Info(c.g.logTag+"list layers", zap.String("path", c.path), zap.Int("total", len(names)),
		zap.Int("matched", len(layers)))
	return
}

func (c *gdalContainer) ReadTile(layer string) (tile *RasterTile, err error) {
	if layer == c.path {
		return c.g.readTile(c.ds, layer)
	}
	ds, err := gdal.Open(layer, gdal.ReadOnly)
	if err != nil {
		log.Error(c.g.logTag+"open layer failed", zap.String("layer", layer), zap.Error(err))
		err = fmt.Errorf("%w: open layer: %v", ErrMalformedRaster, err)
		return
	}
	defer ds.Close()
	return c.g.readTile(ds, layer)
}

func (c *gdalContainer) Close() {
	c.ds.Close()
}
