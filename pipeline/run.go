package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/donutnomad/icongen/plugin"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// OnFailure 单个图标处理失败时的策略
type OnFailure int

const (
	// Drop 尽力而为：跳过失败的图标，不影响其他图标
	Drop OnFailure = iota
	// Abort 严格：任何失败都中止整个生成，返回扫描顺序中第一个失败图标的错误
	Abort
)

func (p OnFailure) String() string {
	switch p {
	case Drop:
		return "drop"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Status 单个图标的最终状态
type Status int

const (
	StatusPending Status = iota
	StatusEmitted        // 已输出
	StatusDropped        // 处理失败被丢弃
	StatusSkipped        // 被 feature 门控排除
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusEmitted:
		return "emitted"
	case StatusDropped:
		return "dropped"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Options 运行选项
type Options struct {
	Target    plugin.Target
	IconDir   string      // 图标根目录
	Package   string      // 生成文件的包名
	OnFailure OnFailure   // 失败策略
	Strict    bool        // 扫描时缺少扩展名视为错误
	Workers   int         // 并发数，<= 0 时使用 GOMAXPROCS，1 为顺序执行
	Features  *FeatureSet // nil 表示不启用 feature 门控
	Formatter Formatter   // nil 表示只做第一阶段格式化
	Logger    *slog.Logger
}

// AssetResult 单个图标的处理结果
type AssetResult struct {
	Asset    *Asset
	Status   Status
	Fragment []byte // 格式化后的定义，仅 StatusEmitted 时有值
	Err      error  // 仅 StatusDropped 时有值
}

// RunStats 运行统计信息
type RunStats struct {
	ScanDuration     time.Duration // 扫描耗时
	GenerateDuration time.Duration // 生成耗时
	TotalDuration    time.Duration // 总耗时
	AssetCount       int           // 扫描到的图标数量
	EmittedCount     int           // 输出的定义数量
	DroppedCount     int           // 丢弃数量
	SkippedCount     int           // 被门控排除的数量
}

// Result 一次生成的结果，Assets 保持扫描顺序
type Result struct {
	Prelude []byte
	Assets  []*AssetResult
	Stats   *RunStats
}

// Fragments 按扫描顺序返回所有输出的定义
func (r *Result) Fragments() [][]byte {
	emitted := lo.Filter(r.Assets, func(item *AssetResult, _ int) bool {
		return item.Status == StatusEmitted
	})
	return lo.Map(emitted, func(item *AssetResult, _ int) []byte {
		return item.Fragment
	})
}

// Bytes 返回完整的输出文件内容
func (r *Result) Bytes() []byte {
	return Render(r.Prelude, r.Fragments())
}

// Run 生成并写入输出文件
func Run(ctx context.Context, opts *Options, outPath string) (*Result, error) {
	result, err := Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := WriteOutputFile(outPath, result.Prelude, result.Fragments()); err != nil {
		return nil, err
	}
	return result, nil
}

// Generate 执行生成流程，不写文件
// 1. 预检外部格式化器
// 2. 扫描图标
// 3. feature 门控
// 4. 并发提取、生成、格式化
// 5. 按扫描顺序收集结果
func Generate(ctx context.Context, opts *Options) (*Result, error) {
	totalStart := time.Now()
	if opts.Target == nil {
		return nil, fmt.Errorf("未指定 target")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = plugin.DefaultPackage
	}

	result := &Result{
		Prelude: opts.Target.Prelude(pkg),
		Stats:   &RunStats{},
	}

	// 预检放在任何生成工作之前
	if checker, ok := opts.Formatter.(Checker); ok {
		if err := checker.Check(ctx); err != nil {
			return nil, err
		}
	}

	// 没有任何 feature 开启时只输出开头部分
	if opts.Features != nil && !opts.Features.Any() {
		logger.Info("没有开启任何 feature，跳过生成", "prefix", opts.Features.Prefix())
		result.Stats.TotalDuration = time.Since(totalStart)
		return result, nil
	}

	// 扫描
	scanStart := time.Now()
	scanner := NewScanner(WithStrict(opts.Strict))
	assets, err := Collect(scanner.Scan(opts.IconDir))
	if err != nil {
		return nil, err
	}
	result.Stats.ScanDuration = time.Since(scanStart)
	result.Stats.AssetCount = len(assets)
	logger.Debug("扫描完成", "dir", opts.IconDir, "count", len(assets), "duration", result.Stats.ScanDuration)

	generateStart := time.Now()
	result.Assets = make([]*AssetResult, len(assets))
	for i, asset := range assets {
		result.Assets[i] = &AssetResult{Asset: asset}
		if opts.Features != nil && !opts.Features.Includes(asset) {
			result.Assets[i].Status = StatusSkipped
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// 每个任务只写自己的 AssetResult，按下标收集即可保证顺序
	// Abort 模式下 firstFailed 记录已知失败的最小下标，只跳过其后的任务，
	// 报告的总是扫描顺序中第一个失败的图标，与并发数无关
	var firstFailed atomic.Int64
	firstFailed.Store(math.MaxInt64)
	var g errgroup.Group
	g.SetLimit(workers)
	for i, item := range result.Assets {
		if item.Status == StatusSkipped {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil || int64(i) > firstFailed.Load() {
				return nil
			}
			frag, err := processAsset(ctx, opts, pkg, item.Asset)
			if err != nil {
				item.Status = StatusDropped
				item.Err = err
				if opts.OnFailure == Abort {
					lowerFirstFailed(&firstFailed, int64(i))
					return nil
				}
				logger.Debug("丢弃图标", "path", item.Asset.Path, "error", err)
				return nil
			}
			item.Fragment = frag
			item.Status = StatusEmitted
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx := firstFailed.Load(); idx != math.MaxInt64 {
		return nil, result.Assets[idx].Err
	}

	emitted := lo.Filter(result.Assets, func(item *AssetResult, _ int) bool {
		return item.Status == StatusEmitted
	})
	for _, dup := range lo.FindDuplicatesBy(emitted, func(item *AssetResult) string {
		return item.Asset.Identifier
	}) {
		logger.Warn("组件名冲突", "identifier", dup.Asset.Identifier, "path", dup.Asset.Path)
	}

	result.Stats.EmittedCount = len(emitted)
	result.Stats.DroppedCount = lo.CountBy(result.Assets, func(item *AssetResult) bool {
		return item.Status == StatusDropped
	})
	result.Stats.SkippedCount = lo.CountBy(result.Assets, func(item *AssetResult) bool {
		return item.Status == StatusSkipped
	})
	result.Stats.GenerateDuration = time.Since(generateStart)
	result.Stats.TotalDuration = time.Since(totalStart)
	return result, nil
}

// lowerFirstFailed 把 v 更新为 min(v, idx)
func lowerFirstFailed(v *atomic.Int64, idx int64) {
	for {
		cur := v.Load()
		if idx >= cur || v.CompareAndSwap(cur, idx) {
			return
		}
	}
}

// processAsset 处理单个图标：读取 -> 提取 -> 生成 -> 两阶段格式化 -> 截取定义
func processAsset(ctx context.Context, opts *Options, pkg string, asset *Asset) ([]byte, error) {
	raw, err := os.ReadFile(asset.Path)
	if err != nil {
		return nil, assetError(asset.Path, StageRead, err)
	}

	markup, err := ExtractMarkup(string(raw))
	if err != nil {
		return nil, assetError(asset.Path, StageExtract, err)
	}

	def := &plugin.Definition{
		Package:    pkg,
		Identifier: asset.Identifier,
		Stem:       asset.Stem,
		Markup:     markup,
	}
	src, err := opts.Target.Synthesize(def)
	if err != nil {
		return nil, assetError(asset.Path, StageSynthesize, err)
	}

	src, err = opts.Target.Pretty(src)
	if err != nil {
		return nil, assetError(asset.Path, StageParse, err)
	}

	if opts.Formatter != nil {
		src, err = opts.Formatter.Format(ctx, src)
		if err != nil {
			return nil, assetError(asset.Path, StageFormat, err)
		}
	}

	frag, err := opts.Target.Fragment(src)
	if err != nil {
		return nil, assetError(asset.Path, StageFragment, err)
	}
	frag = bytes.TrimSpace(frag)
	if len(frag) == 0 {
		return nil, assetError(asset.Path, StageFragment, fmt.Errorf("格式化结果为空"))
	}
	return append(frag, '\n'), nil
}
