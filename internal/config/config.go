package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/donutnomad/icongen/pipeline"
	"github.com/donutnomad/icongen/plugin"
	"gopkg.in/yaml.v3"
)

// Mode 生成模式
type Mode string

const (
	// ModeBestEffort 尽力而为：失败的图标被丢弃，其余照常输出
	ModeBestEffort Mode = "best-effort"
	// ModeStrict 严格：顺序执行，feature 门控，任何失败都中止
	ModeStrict Mode = "strict"
)

// DefaultFiles 未指定配置文件时依次查找的文件名
var DefaultFiles = []string{"icongen.yaml", "icongen.yml", "icongen.toml"}

// Config icongen 配置
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
type Config struct {
	Target        string `yaml:"target" toml:"target" env:"ICONGEN_TARGET"`
	IconDir       string `yaml:"icon_dir" toml:"icon_dir" env:"ICONGEN_ICON_DIR"`
	OutDir        string `yaml:"out_dir" toml:"out_dir" env:"ICONGEN_OUT_DIR"`
	OutFile       string `yaml:"out_file" toml:"out_file" env:"ICONGEN_OUT_FILE"` // 为空时使用 target 的默认文件名
	Package       string `yaml:"package" toml:"package" env:"ICONGEN_PACKAGE"`
	Mode          Mode   `yaml:"mode" toml:"mode" env:"ICONGEN_MODE"`
	Formatter     string `yaml:"formatter" toml:"formatter" env:"ICONGEN_FORMATTER"` // 为空时使用 target 的默认格式化器
	NoFormat      bool   `yaml:"no_format" toml:"no_format" env:"ICONGEN_NO_FORMAT"`
	Features      bool   `yaml:"features" toml:"features" env:"ICONGEN_FEATURES"` // 尽力而为模式下也启用 feature 门控
	FeaturePrefix string `yaml:"feature_prefix" toml:"feature_prefix" env:"ICONGEN_FEATURE_PREFIX"`
	Workers       int    `yaml:"workers" toml:"workers" env:"ICONGEN_WORKERS"`
	Manifest      string `yaml:"manifest" toml:"manifest" env:"ICONGEN_MANIFEST"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Target:        "templ",
		IconDir:       "icons",
		OutDir:        ".",
		Package:       plugin.DefaultPackage,
		Mode:          ModeBestEffort,
		FeaturePrefix: pipeline.DefaultFeaturePrefix,
	}
}

// Load 依次应用默认值、配置文件和环境变量
// path 为空时在当前目录查找 DefaultFiles，找不到不算错误
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findDefaultFile(".")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 读取配置文件并覆盖对应字段，按扩展名选择格式
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("不支持的配置文件格式 %q: %s", ext, path)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ParseEnv 从环境变量加载配置，未设置的变量保持原值
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func findDefaultFile(dir string) string {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Validate 检查配置是否完整有效
func (c *Config) Validate(registry *plugin.Registry) error {
	var errs []error
	if _, err := registry.Lookup(c.Target); err != nil {
		errs = append(errs, err)
	}
	switch c.Mode {
	case ModeBestEffort, ModeStrict:
	default:
		errs = append(errs, fmt.Errorf("未知的模式 %q (可选: %s, %s)", c.Mode, ModeBestEffort, ModeStrict))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers 不能为负数: %d", c.Workers))
	}
	if c.IconDir == "" {
		errs = append(errs, errors.New("未指定图标目录"))
	}
	if c.OutDir == "" {
		errs = append(errs, errors.New("未指定输出目录"))
	}
	if c.Package == "" {
		errs = append(errs, errors.New("未指定包名"))
	}
	return errors.Join(errs...)
}

// Strict 是否为严格模式
func (c *Config) Strict() bool {
	return c.Mode == ModeStrict
}

// Gated 是否启用 feature 门控，严格模式总是启用
func (c *Config) Gated() bool {
	return c.Strict() || c.Features
}

// OnFailure 返回对应的失败策略
func (c *Config) OnFailure() pipeline.OnFailure {
	if c.Strict() {
		return pipeline.Abort
	}
	return pipeline.Drop
}

// EffectiveWorkers 严格模式顺序执行
func (c *Config) EffectiveWorkers() int {
	if c.Strict() {
		return 1
	}
	return c.Workers
}

// OutputPath 返回输出文件路径
func (c *Config) OutputPath(target plugin.Target) string {
	name := c.OutFile
	if name == "" {
		name = target.OutputFile()
	}
	return filepath.Join(c.OutDir, name)
}

// FormatterSpec 返回第二阶段格式化器，覆盖命令时沿用 target 的预检参数
func (c *Config) FormatterSpec(target plugin.Target) plugin.FormatterSpec {
	spec := target.Formatter()
	if c.Formatter != "" {
		spec.Command = c.Formatter
	}
	return spec
}

// PipelineOptions 根据配置组装一次运行的选项
// 门控开启时在此刻对环境变量做一次快照
func (c *Config) PipelineOptions(target plugin.Target, logger *slog.Logger) (*pipeline.Options, error) {
	opts := &pipeline.Options{
		Target:    target,
		IconDir:   c.IconDir,
		Package:   c.Package,
		OnFailure: c.OnFailure(),
		Strict:    c.Strict(),
		Workers:   c.EffectiveWorkers(),
		Logger:    logger,
	}
	if c.Gated() {
		opts.Features = pipeline.ResolveFeaturesFromEnv(c.FeaturePrefix)
	}
	if !c.NoFormat {
		spec := c.FormatterSpec(target)
		if spec.Command != "" {
			formatter, err := pipeline.NewExecFormatter(spec)
			if err != nil {
				return nil, err
			}
			opts.Formatter = formatter
		}
	}
	return opts, nil
}
