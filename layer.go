package orthofoot

import (
	"sort"
	"strconv"
	"strings"
)

// 筛选名称包含关键字的子图层（区分大小写，保持原顺序）
func MatchLayers(names []string, keyword string) (ret []string) {
	ret = []string{}
	for _, n := range names {
		if strings.Contains(n, keyword) {
			ret = append(ret, n)
		}
	}
	return
}

// 子图层标识：取路径最后一段中最后一个冒号之后的部分
// 例如 GPKG:/data/a.gpkg:ORTO_01 -> ORTO_01
func LayerIdentifier(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

// 解析GDAL SUBDATASETS元数据（SUBDATASET_n_NAME=...），按n排序
func parseSubdatasets(md []string) (names []string) {
	type entry struct {
		idx  int
		name string
	}
	var entries []entry
	for _, item := range md {
		key, val, ok := strings.Cut(item, "=")
		if !ok || !strings.HasPrefix(key, SUBDATASET_PREFIX) || !strings.HasSuffix(key, SUBDATASET_NAME) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(key, SUBDATASET_PREFIX), SUBDATASET_NAME))
		if err != nil {
			continue
		}
		entries = append(entries, entry{idx, val})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].idx < entries[j].idx
	})
	names = make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return
}
