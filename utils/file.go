package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FILE_EXT_TXT = ".txt"

	probePrefix = ".probe-"
)

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 将目录展开为其中（递归）扩展名为ext的文件，普通文件保持原样与原顺序
func ExpandContainers(paths []string, ext string) (files []string, err error) {
	ext = strings.ToLower(ext)
	for _, p := range paths {
		var fi os.FileInfo
		if fi, err = os.Stat(p); err != nil || !fi.IsDir() {
			// 不存在的文件交由后续打开时报错
			err = nil
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, e error) error {
			if e != nil {
				return e
			}
			if !d.IsDir() && strings.ToLower(filepath.Ext(path)) == ext {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return
		}
	}
	return
}

// 检查目录可写（必要时创建）
func CheckWritableDir(dir string) (err error) {
	if dir == "" {
		dir = "."
	}
	if err = os.MkdirAll(dir, os.ModePerm); err != nil {
		return
	}
	probe := filepath.Join(dir, probePrefix+uuid.NewString())
	f, err := os.Create(probe)
	if err != nil {
		return
	}
	f.Close()
	return os.Remove(probe)
}
