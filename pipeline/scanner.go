package pipeline

import (
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/donutnomad/icongen/internal/utils"
)

// AssetExt 识别的图标扩展名
const AssetExt = ".svg"

// Asset 扫描得到的单个图标文件
type Asset struct {
	Path       string // 文件路径
	Stem       string // 不含扩展名的文件名，如 arrow-up
	Identifier string // 生成的组件名，如 ArrowUp
}

// NewAsset 根据路径创建 Asset，路径必须带有 .svg 扩展名
func NewAsset(path string) (*Asset, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" || stem == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoExtension, path)
	}
	if !strings.EqualFold(ext, AssetExt) {
		return nil, fmt.Errorf("不支持的扩展名 %q: %s", ext, path)
	}
	ident := utils.ToIdentifier(stem)
	if ident == "" {
		return nil, fmt.Errorf("无法从 %q 生成组件名: %s", stem, path)
	}
	return &Asset{Path: path, Stem: stem, Identifier: ident}, nil
}

// Scanner 图标扫描器
type Scanner struct {
	strict bool
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

// WithStrict 严格模式：缺少扩展名的文件视为错误，而不是跳过
func WithStrict(strict bool) ScannerOption {
	return func(s *Scanner) {
		s.strict = strict
	}
}

// NewScanner 创建扫描器
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan 递归遍历 root，惰性地产出 .svg 图标
// 顺序为 WalkDir 的遍历顺序；子目录不影响命名
// 出错时产出 (nil, err) 并结束遍历
func (s *Scanner) Scan(root string) iter.Seq2[*Asset, error] {
	return func(yield func(*Asset, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// 根目录不可读在任何模式下都是错误
				if path == root || s.strict {
					return err
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			base := d.Name()
			ext := filepath.Ext(base)
			if ext == "" || ext == base {
				if s.strict {
					return fmt.Errorf("%w: %s", ErrNoExtension, path)
				}
				return nil
			}
			if !strings.EqualFold(ext, AssetExt) {
				return nil
			}

			asset, err := NewAsset(path)
			if err != nil {
				if s.strict {
					return err
				}
				return nil
			}
			if !yield(asset, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield(nil, fmt.Errorf("扫描 %s 失败: %w", root, err))
		}
	}
}

// Collect 收集扫描结果，遇到第一个错误时返回
func Collect(seq iter.Seq2[*Asset, error]) ([]*Asset, error) {
	var assets []*Asset
	for asset, err := range seq {
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
