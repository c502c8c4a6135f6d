package orthofoot

import (
	"context"
	"errors"
	"fmt"

	"github.com/wgdzlh/orthofoot/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BatchRunner struct {
	source    RasterSource
	predicate NodataPredicate
	extractor *FootprintExtractor
	workers   int
	logTag    string
}

type BatchOption func(*BatchRunner)

func WithPredicate(p NodataPredicate) BatchOption {
	return func(b *BatchRunner) {
		if p != nil {
			b.predicate = p
		}
	}
}

func WithExtractor(e *FootprintExtractor) BatchOption {
	return func(b *BatchRunner) {
		if e != nil {
			b.extractor = e
		}
	}
}

// 并行处理的容器数，<=1时顺序处理
func WithWorkers(n int) BatchOption {
	return func(b *BatchRunner) {
		if n < 1 {
			n = 1
		}
		b.workers = n
	}
}

func NewBatchRunner(src RasterSource, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{
		source:    src,
		predicate: DefaultNodata,
		extractor: NewFootprintExtractor(),
		workers:   DefaultWorkers,
		logTag:    "BatchRunner:",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// 单个容器的处理结果
type unitResult struct {
	records []BatchRecord
	errors  []ErrorEntry
}

func (u *unitResult) fail(container, layer, msg string, err error) {
	log.Warn("BatchRunner:unit failed", zap.String("container", container), zap.String("layer", layer),
		zap.String("reason", msg))
	u.errors = append(u.errors, ErrorEntry{
		Container: container,
		Layer:     layer,
		Message:   msg,
		Err:       err,
	})
}

// 批量提取各容器中匹配子图层的有效范围。
// 单个容器或子图层的失败只记录为ErrorEntry，不会中断批处理；
// 结果与错误按容器输入顺序及子图层枚举顺序排列。
func (b *BatchRunner) Run(ctx context.Context, containers []string, keyword string) (ret *BatchResult, err error) {
	if len(containers) == 0 {
		err = ErrNoContainers
		return
	}
	if keyword == "" {
		err = ErrNoKeyword
		return
	}
	ret = &BatchResult{RunID: uuid.NewString()}
	log.Info(b.logTag+"start batch", zap.String("run", ret.RunID), zap.Int("containers", len(containers)),
		zap.String("keyword", keyword), zap.Int("workers", b.workers))

	units := make([]unitResult, len(containers))
	if b.workers <= 1 {
		for i, c := range containers {
			if ctx.Err() != nil {
				units[i].fail(c, "", fmt.Sprintf(ErrContainerTemplate, c, ctx.Err()), ctx.Err())
				continue
			}
			b.processContainer(c, keyword, &units[i])
		}
	} else {
		eg := new(errgroup.Group)
		eg.SetLimit(b.workers)
		for i, c := range containers {
			if ctx.Err() != nil {
				units[i].fail(c, "", fmt.Sprintf(ErrContainerTemplate, c, ctx.Err()), ctx.Err())
				continue
			}
			eg.Go(func() error {
				b.processContainer(c, keyword, &units[i])
				return nil
			})
		}
		_ = eg.Wait()
	}

	seen := map[string]int{}
	for _, u := range units {
		for _, r := range u.records {
			if n := seen[r.Identifier]; n > 0 {
				log.Warn(b.logTag+"duplicate identifier", zap.String("identifier", r.Identifier),
					zap.String("layer", r.Layer), zap.Int("previous", n))
			}
			seen[r.Identifier]++
		}
		ret.Records = append(ret.Records, u.records...)
		ret.Errors = append(ret.Errors, u.errors...)
	}
	log.Info(b.logTag+"end batch", zap.String("run", ret.RunID), zap.Int("records", len(ret.Records)),
		zap.Int("errors", len(ret.Errors)))
	return
}

func (b *BatchRunner) processContainer(path, keyword string, u *unitResult) {
	log.Info(b.logTag+"processing container", zap.String("container", path))
	c, err := b.source.Open(path)
	if err != nil {
		if !errors.Is(err, ErrContainerUnreadable) {
			err = fmt.Errorf("%w: %v", ErrContainerUnreadable, err)
		}
		u.fail(path, "", fmt.Sprintf(ErrContainerTemplate, path, err), err)
		return
	}
	defer c.Close()

	layers, err := c.Layers(keyword)
	if err != nil {
		if !errors.Is(err, ErrContainerUnreadable) {
			err = fmt.Errorf("%w: %v", ErrContainerUnreadable, err)
		}
		u.fail(path, "", fmt.Sprintf(ErrContainerTemplate, path, err), err)
		return
	}
	if len(layers) == 0 {
		u.fail(path, "", fmt.Sprintf(ErrNoLayersTemplate, keyword, path), ErrNoMatchingLayers)
		return
	}
	for _, layer := range layers {
		rec, err := b.processLayer(c, layer)
		if err != nil {
			u.fail(path, layer, fmt.Sprintf(ErrLayerTemplate, layer, err), err)
			continue
		}
		rec.Container = path
		u.records = append(u.records, rec)
	}
}

// 单个子图层：解码、掩码、提取有效范围，瓦片数据在返回后即释放
func (b *BatchRunner) processLayer(c Container, layer string) (rec BatchRecord, err error) {
	id := LayerIdentifier(layer)
	if id == "" {
		err = ErrEmptyIdentifier
		return
	}
	tile, err := c.ReadTile(layer)
	if err != nil {
		return
	}
	mask, err := tile.Mask(b.predicate)
	if err != nil {
		return
	}
	fp, err := b.extractor.Extract(mask, tile.Transform)
	if err != nil {
		return
	}
	if fp == nil {
		err = fmt.Errorf("%w: %s", ErrEmptyFootprint, ErrEmptyFootprintDetail)
		return
	}
	if v, ok := b.source.(GeometryValidator); ok {
		if e := v.CheckWkt(fp.WKT); e != nil {
			err = fmt.Errorf("%w: %v", ErrGeometryExtraction, e)
			return
		}
	}
	log.Info(b.logTag+"footprint extracted", zap.String("layer", layer), zap.String("identifier", id),
		zap.Float64("area", fp.Area), zap.Int("vertices", len(fp.Polygon[0])))
	log.Debug(b.logTag+"tile extent", zap.String("layer", layer), zap.String("extent", BoundToWkt(tile.Extent())))
	rec = BatchRecord{
		Identifier: id,
		Layer:      layer,
		Footprint:  fp.WKT,
	}
	return
}

// 批处理结果摘要
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("run %s: %d footprints, %d errors", r.RunID, len(r.Records), len(r.Errors))
}
