package orthofoot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/wgdzlh/orthofoot/log"
	"github.com/wgdzlh/orthofoot/utils"

	"go.uber.org/zap"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"golang.org/x/text/encoding"
)

// 输出目标：bucket中的一个key
type Destination struct {
	Bucket *blob.Bucket
	Key    string
	uri    string
}

// 打开输出目标，target为本地路径或bucket URL（如 file:///data/out/footprints.csv）
func OpenDestination(ctx context.Context, target string) (d *Destination, err error) {
	target = strings.TrimSpace(target)
	if target == "" {
		err = fmt.Errorf("%w: empty path", ErrNoOutput)
		return
	}
	if !strings.Contains(target, "://") {
		return openLocalDestination(target)
	}
	u, err := url.Parse(target)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoOutput, err)
		return
	}
	if u.Scheme == "file" {
		return openLocalDestination(filepath.FromSlash(u.Path))
	}
	key := path.Base(u.Path)
	if key == "." || key == "/" {
		err = fmt.Errorf("%w: no object key in %s", ErrNoOutput, target)
		return
	}
	u.Path = path.Dir(u.Path)
	bucket, err := blob.OpenBucket(ctx, u.String())
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoOutput, err)
		return
	}
	d = &Destination{Bucket: bucket, Key: key, uri: target}
	return
}

func openLocalDestination(p string) (d *Destination, err error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoOutput, err)
		return
	}
	dir, key := filepath.Split(abs)
	if key == "" {
		err = fmt.Errorf("%w: %s is a directory", ErrNoOutput, p)
		return
	}
	if err = utils.CheckWritableDir(dir); err != nil {
		err = fmt.Errorf("%w: %v", ErrNoOutput, err)
		return
	}
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		NoTempDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoOutput, err)
		return
	}
	d = &Destination{Bucket: bucket, Key: key, uri: abs}
	return
}

func (d *Destination) String() string {
	if d.uri != "" {
		return d.uri
	}
	return d.Key
}

func (d *Destination) Close() error {
	return d.Bucket.Close()
}

type ResultSink struct {
	records *Destination
	errors  *Destination
	enc     encoding.Encoding
	encName string
	logTag  string
}

type SinkOption func(*ResultSink) error

// 输出文本编码（UTF-8、GBK、WINDOWS-1252、ISO-8859-1）
func WithEncoding(name string) SinkOption {
	return func(s *ResultSink) (err error) {
		if s.enc, err = utils.NewEncoding(name); err != nil {
			return fmt.Errorf("%w: %s", err, name)
		}
		s.encName = name
		return
	}
}

func NewResultSink(records, errors *Destination, opts ...SinkOption) (s *ResultSink, err error) {
	s = &ResultSink{
		records: records,
		errors:  errors,
		encName: utils.UTF_8,
		logTag:  "ResultSink:",
	}
	for _, opt := range opts {
		if err = opt(s); err != nil {
			s = nil
			return
		}
	}
	return
}

// 写出有效范围表（identifier, footprint）；无记录时不生成文件
func (s *ResultSink) WriteRecords(ctx context.Context, records []BatchRecord) (written bool, err error) {
	if len(records) == 0 {
		log.Info(s.logTag + "no valid data found to export")
		return
	}
	err = s.write(ctx, s.records, CONTENT_TYPE_CSV, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if e := cw.Write([]string{COLUMN_IDENTIFIER, COLUMN_FOOTPRINT}); e != nil {
			return e
		}
		for _, r := range records {
			if e := cw.Write([]string{r.Identifier, r.Footprint}); e != nil {
				return e
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return
	}
	written = true
	log.Info(s.logTag+"footprints exported", zap.String("out", s.records.String()), zap.Int("rows", len(records)))
	return
}

// 写出错误日志，每行一条；无错误时不生成文件
func (s *ResultSink) WriteErrors(ctx context.Context, entries []ErrorEntry) (written bool, err error) {
	if len(entries) == 0 {
		log.Info(s.logTag + "no errors to export")
		return
	}
	err = s.write(ctx, s.errors, CONTENT_TYPE_LOG, func(w io.Writer) error {
		for _, e := range entries {
			if _, err := io.WriteString(w, utils.SingleLine(e.Message)+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	written = true
	log.Info(s.logTag+"error log exported", zap.String("out", s.errors.String()), zap.Int("lines", len(entries)))
	return
}

// 整体覆盖写入；任一步失败则放弃本次写入，不留下部分文件
func (s *ResultSink) write(ctx context.Context, d *Destination, contentType string, fill func(io.Writer) error) (err error) {
	if d == nil {
		return fmt.Errorf("%w: destination not configured", ErrNoOutput)
	}
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w, err := d.Bucket.NewWriter(wctx, d.Key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		log.Error(s.logTag+"open writer failed", zap.String("out", d.String()), zap.Error(err))
		return
	}
	ew := utils.EncodeWriter(w, s.enc)
	if err = fill(ew); err == nil {
		err = ew.Close()
	}
	if err != nil {
		log.Error(s.logTag+"write failed", zap.String("out", d.String()), zap.String("encoding", s.encName),
			zap.Error(err))
		cancel()
		_ = w.Close()
		return
	}
	if err = w.Close(); err != nil {
		log.Error(s.logTag+"commit failed", zap.String("out", d.String()), zap.Error(err))
	}
	return
}

func (s *ResultSink) Close() {
	for _, d := range []*Destination{s.records, s.errors} {
		if d != nil {
			_ = d.Close()
		}
	}
}
