package utils

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const (
	UTF8   = "UTF8"
	UTF_8  = "UTF-8"
	GBK    = "GBK"
	CP1252 = "WINDOWS-1252"
	LATIN1 = "ISO-8859-1"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")

	lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// 按名称获取文本编码，UTF-8返回nil
func NewEncoding(name string) (enc encoding.Encoding, err error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", UTF8, UTF_8:
	case GBK, "CP936":
		enc = simplifiedchinese.GBK
	case CP1252, "CP1252":
		enc = charmap.Windows1252
	case LATIN1, "LATIN1":
		enc = charmap.ISO8859_1
	default:
		err = ErrUnsupportedEncoding
	}
	return
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// 按编码包装写入流；Close只冲刷编码缓冲，不关闭w
func EncodeWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	if enc == nil {
		return nopWriteCloser{w}
	}
	return transform.NewWriter(w, enc.NewEncoder())
}

// 将编码文本转为UTF-8
func Decode(s []byte, name string) (d []byte, err error) {
	enc, err := NewEncoding(name)
	if err != nil || enc == nil {
		d = s
		return
	}
	reader := transform.NewReader(bytes.NewReader(s), enc.NewDecoder())
	d, err = io.ReadAll(reader)
	return
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}

// 转为单行文本
func SingleLine(s string) string {
	return lineBreaks.Replace(PurifyForUtf8(s))
}
