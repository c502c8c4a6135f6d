package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/wgdzlh/orthofoot"
	"github.com/wgdzlh/orthofoot/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix    = "ORTHOFOOT"
	errLogSuffix = "_errors"
)

type Config struct {
	Keyword      string       `mapstructure:"keyword"`
	Output       string       `mapstructure:"output"`
	Log          string       `mapstructure:"log"`
	Manifest     string       `mapstructure:"manifest"`
	Workers      int          `mapstructure:"workers"`
	Connectivity int          `mapstructure:"connectivity"`
	Encoding     string       `mapstructure:"encoding"`
	Extension    string       `mapstructure:"extension"`
	Verbose      bool         `mapstructure:"verbose"`
	JsonLog      bool         `mapstructure:"json_log"`
	Nodata       NodataConfig `mapstructure:"nodata"`
}

// 自定义无数据规则，为空时使用白色RGB+透明alpha
type NodataConfig struct {
	Bands  []int `mapstructure:"bands"`
	Values []int `mapstructure:"values"`
}

// 配置键与命令行参数名
var flagKeys = map[string]string{
	"keyword":      "keyword",
	"output":       "output",
	"log":          "log",
	"manifest":     "manifest",
	"workers":      "workers",
	"connectivity": "connectivity",
	"encoding":     "encoding",
	"extension":    "extension",
	"verbose":      "verbose",
	"json_log":     "json-log",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workers", orthofoot.DefaultWorkers)
	v.SetDefault("connectivity", orthofoot.DefaultConnectivity)
	v.SetDefault("encoding", utils.UTF_8)
	v.SetDefault("extension", orthofoot.FILE_EXT_GPKG)
	v.SetDefault("verbose", false)
	v.SetDefault("json_log", false)
	v.SetDefault("nodata.bands", []int{})
	v.SetDefault("nodata.values", []int{})
}

// 合并默认值、配置文件、环境变量（ORTHOFOOT_*）与命令行参数，后者优先
func loadConfig(v *viper.Viper, cfgFile string, cmd *cobra.Command) (cfg *Config, err error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("failed to read config file: %w", err)
			return
		}
	}
	if cmd != nil {
		for key, name := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err = v.BindPFlag(key, f); err != nil {
					return
				}
			}
		}
	}
	cfg = &Config{}
	if err = v.Unmarshal(cfg); err != nil {
		cfg = nil
		err = fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return
}

// 校验并补全派生项
func (c *Config) Normalize() (err error) {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Connectivity != orthofoot.Connectivity4 && c.Connectivity != orthofoot.Connectivity8 {
		return fmt.Errorf("connectivity must be %d or %d, got %d", orthofoot.Connectivity4,
			orthofoot.Connectivity8, c.Connectivity)
	}
	if c.Extension == "" {
		c.Extension = orthofoot.FILE_EXT_GPKG
	} else if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.Output == "" {
		return fmt.Errorf("%w: --output is required", orthofoot.ErrNoOutput)
	}
	if c.Log == "" {
		c.Log = DefaultLogPath(c.Output)
	}
	if c.Encoding == "" {
		c.Encoding = utils.UTF_8
	}
	_, err = utils.NewEncoding(c.Encoding)
	return
}

// 错误日志默认与结果表同目录：out.csv -> out_errors.txt
func DefaultLogPath(output string) string {
	dir, file := path.Split(output)
	return dir + utils.GetFilenameWithoutExt(file) + errLogSuffix + utils.FILE_EXT_TXT
}

// 自定义无数据规则；未配置时返回nil（使用默认规则）
func (c *Config) Predicate() (p orthofoot.NodataPredicate, err error) {
	if len(c.Nodata.Bands) == 0 && len(c.Nodata.Values) == 0 {
		return
	}
	values := make([]uint8, len(c.Nodata.Values))
	for i, v := range c.Nodata.Values {
		if v < 0 || v > 255 {
			err = fmt.Errorf("nodata value %d out of byte range", v)
			return
		}
		values[i] = uint8(v)
	}
	bp, err := orthofoot.NewBandValuePredicate(c.Nodata.Bands, values)
	if err != nil {
		return
	}
	p = bp
	return
}
