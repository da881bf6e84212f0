// icongen-build 供构建步骤（go:generate）调用的精简入口
// 只读取环境变量，固定使用严格模式：顺序执行、feature 门控、任何失败都中止，
// 只做第一阶段格式化，不依赖外部格式化器
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/donutnomad/icongen/gomponentsgen"
	"github.com/donutnomad/icongen/internal/config"
	"github.com/donutnomad/icongen/pipeline"
	"github.com/donutnomad/icongen/plugin"
	"github.com/donutnomad/icongen/templgen"
)

func init() {
	plugin.MustRegister(templgen.NewTemplTarget())
	plugin.MustRegister(gomponentsgen.NewGomponentsTarget())
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// strictConfig 读取环境变量并套用严格预设
func strictConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := config.ParseEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Mode = config.ModeStrict
	cfg.NoFormat = true
	if err := cfg.Validate(plugin.Global()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context) error {
	cfg, err := strictConfig()
	if err != nil {
		return err
	}
	target, err := plugin.Global().Lookup(cfg.Target)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	opts, err := cfg.PipelineOptions(target, logger)
	if err != nil {
		return err
	}

	outPath := cfg.OutputPath(target)
	result, err := pipeline.Run(ctx, opts, outPath)
	if err != nil {
		return err
	}
	if cfg.Manifest != "" {
		return pipeline.WriteManifest(cfg.Manifest, pipeline.NewManifest(target.Name(), outPath, result, opts.Features))
	}
	return nil
}
