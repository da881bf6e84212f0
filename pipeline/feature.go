package pipeline

import (
	"os"
	"slices"
	"strings"

	"github.com/donutnomad/icongen/internal/utils"
	"github.com/spf13/cast"
	"golang.org/x/exp/maps"
)

const (
	// DefaultFeaturePrefix feature 环境变量的默认前缀
	DefaultFeaturePrefix = "ICONGEN_FEATURE_"
	// AllFeature 启用全部图标的保留 feature 名
	AllFeature = "all"
)

// FeatureSet 一次运行内的 feature 快照，解析后只读
type FeatureSet struct {
	prefix  string
	all     bool
	enabled map[string]bool // key: 环境变量名
}

// ResolveFeatures 从环境变量列表（KEY=VALUE 形式）解析 feature 快照
func ResolveFeatures(prefix string, environ []string) *FeatureSet {
	if prefix == "" {
		prefix = DefaultFeaturePrefix
	}
	fs := &FeatureSet{
		prefix:  prefix,
		enabled: make(map[string]bool),
	}
	allName := utils.FeatureEnvName(prefix, AllFeature)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) || key == prefix {
			continue
		}
		if !flagSet(value) {
			continue
		}
		if key == allName {
			fs.all = true
			continue
		}
		fs.enabled[key] = true
	}
	return fs
}

// ResolveFeaturesFromEnv 从当前进程环境解析 feature 快照
func ResolveFeaturesFromEnv(prefix string) *FeatureSet {
	return ResolveFeatures(prefix, os.Environ())
}

// flagSet 变量存在即视为开启，除非值明确为 false/0
func flagSet(value string) bool {
	if value == "" {
		return true
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return true
	}
	return b
}

// Prefix 返回环境变量前缀
func (f *FeatureSet) Prefix() string {
	return f.prefix
}

// All 是否设置了 all 标志
func (f *FeatureSet) All() bool {
	return f.all
}

// Any 是否有任何 feature 开启
func (f *FeatureSet) Any() bool {
	return f.all || len(f.enabled) > 0
}

// EnvName 返回图标对应的 feature 环境变量名
func (f *FeatureSet) EnvName(asset *Asset) string {
	return utils.FeatureEnvName(f.prefix, utils.FeatureName(asset.Stem))
}

// Includes 图标是否包含在本次构建中
func (f *FeatureSet) Includes(asset *Asset) bool {
	return f.all || f.enabled[f.EnvName(asset)]
}

// Enabled 返回已开启的 feature 环境变量名，按字母排序
func (f *FeatureSet) Enabled() []string {
	keys := maps.Keys(f.enabled)
	slices.Sort(keys)
	return keys
}
