package orthofoot

import (
	"fmt"
	"os"

	"github.com/wgdzlh/orthofoot/log"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	manifestContainers = "containers"
	manifestKeyword    = "keyword"
)

// 批处理清单
type Manifest struct {
	Containers []string
	Keyword    string
}

// 读取JSON清单文件，支持 {"containers":[...],"keyword":"..."} 或顶层字符串数组
func LoadManifest(path string) (m *Manifest, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Manifest:read failed", zap.String("path", path), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		return
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (m *Manifest, err error) {
	if !gjson.ValidBytes(data) {
		err = fmt.Errorf("%w: not valid json", ErrInvalidManifest)
		return
	}
	root := gjson.ParseBytes(data)
	list := root
	m = &Manifest{}
	switch {
	case root.IsArray():
	case root.IsObject():
		list = root.Get(manifestContainers)
		if kw := root.Get(manifestKeyword); kw.Exists() {
			if kw.Type != gjson.String {
				m, err = nil, fmt.Errorf("%w: keyword must be a string", ErrInvalidManifest)
				return
			}
			m.Keyword = kw.String()
		}
		if !list.IsArray() {
			m, err = nil, fmt.Errorf("%w: missing %s array", ErrInvalidManifest, manifestContainers)
			return
		}
	default:
		m, err = nil, fmt.Errorf("%w: expect object or array", ErrInvalidManifest)
		return
	}
	list.ForEach(func(_, v gjson.Result) bool {
		if v.Type != gjson.String {
			err = fmt.Errorf("%w: container entry %s is not a string", ErrInvalidManifest, v.Raw)
			return false
		}
		m.Containers = append(m.Containers, v.String())
		return true
	})
	if err != nil {
		m = nil
	}
	return
}
