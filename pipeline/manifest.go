package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// Manifest 一次生成的清单，记录每个图标的去向
type Manifest struct {
	Target string          `json:"target"`
	Output string          `json:"output"`
	Icons  []ManifestEntry `json:"icons"`
}

// ManifestEntry 单个图标的清单条目
type ManifestEntry struct {
	Stem       string `json:"stem"`
	Identifier string `json:"identifier"`
	Path       string `json:"path"`
	Feature    string `json:"feature,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// NewManifest 根据运行结果构造清单
func NewManifest(target, output string, result *Result, features *FeatureSet) *Manifest {
	m := &Manifest{
		Target: target,
		Output: output,
		Icons:  make([]ManifestEntry, 0, len(result.Assets)),
	}
	for _, r := range result.Assets {
		entry := ManifestEntry{
			Stem:       r.Asset.Stem,
			Identifier: r.Asset.Identifier,
			Path:       filepath.ToSlash(r.Asset.Path),
			Status:     r.Status.String(),
		}
		if features != nil {
			entry.Feature = features.EnvName(r.Asset)
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		m.Icons = append(m.Icons, entry)
	}
	return m
}

// WriteManifest 以 JSON 写入清单
func WriteManifest(path string, m *Manifest) error {
	data, err := sonic.ConfigStd.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化清单失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadManifest 读取清单
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := sonic.ConfigStd.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("解析清单 %s 失败: %w", path, err)
	}
	return &m, nil
}
