package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/icongen/gomponentsgen"
	"github.com/donutnomad/icongen/internal/config"
	"github.com/donutnomad/icongen/pipeline"
	"github.com/donutnomad/icongen/plugin"
	"github.com/donutnomad/icongen/templgen"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
)

func init() {
	// 集中注册所有 target
	plugin.MustRegister(templgen.NewTemplTarget())
	plugin.MustRegister(gomponentsgen.NewGomponentsTarget())
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// app 各子命令共享的状态，在 PersistentPreRunE 中填充
type app struct {
	configPath string
	verbose    bool
	flags      configFlags

	cfg    *config.Config
	logger *slog.Logger
}

// configFlags 可覆盖配置项的命令行参数，只有显式指定的才生效
type configFlags struct {
	target        string
	iconDir       string
	outDir        string
	outFile       string
	pkg           string
	mode          string
	formatter     string
	noFormat      bool
	features      bool
	featurePrefix string
	workers       int
	manifest      string
}

func (f *configFlags) register(fs *pflag.FlagSet) {
	def := config.Default()
	fs.StringVarP(&f.target, "target", "t", def.Target, "宿主框架 target")
	fs.StringVar(&f.iconDir, "icons", def.IconDir, "图标根目录")
	fs.StringVarP(&f.outDir, "out-dir", "o", def.OutDir, "输出目录")
	fs.StringVar(&f.outFile, "out-file", "", "输出文件名（默认由 target 决定）")
	fs.StringVarP(&f.pkg, "package", "p", def.Package, "生成文件的包名")
	fs.StringVar(&f.mode, "mode", string(def.Mode), "生成模式: best-effort 或 strict")
	fs.StringVar(&f.formatter, "formatter", "", "外部格式化命令（默认由 target 决定）")
	fs.BoolVar(&f.noFormat, "no-format", false, "跳过外部格式化器及其预检")
	fs.BoolVar(&f.features, "features", false, "尽力而为模式下也按 feature 环境变量筛选图标")
	fs.StringVar(&f.featurePrefix, "feature-prefix", def.FeaturePrefix, "feature 环境变量前缀")
	fs.IntVarP(&f.workers, "workers", "j", def.Workers, "并发数，0 表示使用 GOMAXPROCS")
	fs.StringVar(&f.manifest, "manifest", "", "写入 JSON 清单的路径")
}

func (f *configFlags) apply(cfg *config.Config, fs *pflag.FlagSet) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("target", func() { cfg.Target = f.target })
	set("icons", func() { cfg.IconDir = f.iconDir })
	set("out-dir", func() { cfg.OutDir = f.outDir })
	set("out-file", func() { cfg.OutFile = f.outFile })
	set("package", func() { cfg.Package = f.pkg })
	set("mode", func() { cfg.Mode = config.Mode(f.mode) })
	set("formatter", func() { cfg.Formatter = f.formatter })
	set("no-format", func() { cfg.NoFormat = f.noFormat })
	set("features", func() { cfg.Features = f.features })
	set("feature-prefix", func() { cfg.FeaturePrefix = f.featurePrefix })
	set("workers", func() { cfg.Workers = f.workers })
	set("manifest", func() { cfg.Manifest = f.manifest })
}

// load 解析配置：命令行参数 > 环境变量 > 配置文件 > 默认值
func (a *app) load(fs *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.flags.apply(cfg, fs)
	if err := cfg.Validate(plugin.Global()); err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if a.verbose {
		fmt.Fprintln(os.Stderr, "当前配置:")
		spew.Fdump(os.Stderr, cfg)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "icongen",
		Short: "SVG 图标组件生成工具",
		Long: "icongen 扫描目录中的 .svg 图标，为每个图标生成一个宿主 UI 框架的组件定义，\n" +
			"写入单个源文件。\n\n支持的 target:\n" + plugin.FormatHelpText(plugin.Global()),
		Example: `  icongen                                    使用默认配置生成
  icongen gen -t gomponents --icons assets   生成 gomponents 组件
  icongen gen --mode strict                  严格模式，按 feature 环境变量筛选
  icongen gen --check                        检查输出文件是否最新
  icongen list                               列出图标及其 feature 变量
  icongen dev                                监听图标目录，变动后自动生成`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Flags())
		},
		// 默认命令是 gen
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGen(cmd.Context(), false)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "配置文件路径（默认查找 icongen.yaml/.yml/.toml）")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "详细输出")
	a.flags.register(pf)

	root.AddCommand(newGenCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newDevCmd(a))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd())
	return root
}

func newGenCmd(a *app) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "扫描图标并生成组件文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGen(cmd.Context(), check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "只比较输出文件是否最新，不写入")
	return cmd
}

// runGen 执行一次完整生成
func (a *app) runGen(ctx context.Context, check bool) error {
	target, err := plugin.Global().Lookup(a.cfg.Target)
	if err != nil {
		return err
	}
	opts, err := a.cfg.PipelineOptions(target, a.logger)
	if err != nil {
		return err
	}
	outPath := a.cfg.OutputPath(target)

	result, err := pipeline.Generate(ctx, opts)
	if err != nil {
		return err
	}

	if check {
		diff, err := pipeline.Diff(outPath, result.Bytes())
		if err != nil {
			return err
		}
		if diff != "" {
			fmt.Print(diff)
			return fmt.Errorf("%s 不是最新的，请运行 icongen gen", outPath)
		}
		fmt.Printf("%s 已是最新\n", outPath)
		return nil
	}

	if err := pipeline.WriteOutputFile(outPath, result.Prelude, result.Fragments()); err != nil {
		return err
	}
	if a.cfg.Manifest != "" {
		manifest := pipeline.NewManifest(target.Name(), outPath, result, opts.Features)
		if err := pipeline.WriteManifest(a.cfg.Manifest, manifest); err != nil {
			return err
		}
	}

	a.printStats(result, outPath)
	return nil
}

func (a *app) printStats(result *pipeline.Result, outPath string) {
	stats := result.Stats
	if stats.EmittedCount == 0 && !a.verbose {
		return
	}
	if a.verbose {
		for _, item := range result.Assets {
			if item.Status == pipeline.StatusDropped {
				fmt.Printf("  丢弃 %s: %v\n", item.Asset.Path, item.Err)
			}
		}
	}
	fmt.Printf("\n统计: 扫描 %d 个图标, 生成 %d 个, 丢弃 %d 个, 跳过 %d 个 -> %s\n",
		stats.AssetCount, stats.EmittedCount, stats.DroppedCount, stats.SkippedCount, outPath)
	fmt.Printf("耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		// 不需要加载配置
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "icongen %s (commit: %s)\n", version, commit)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "completion [bash|zsh|fish|powershell]",
		Short:             "生成 shell 补全脚本",
		Args:              cobra.ExactArgs(1),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("不支持的 shell: %s", args[0])
			}
		},
	}
}
