package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/donutnomad/icongen/pipeline"
	"github.com/donutnomad/icongen/plugin"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/tools/imports"
)

// defaultDebounce dev 模式默认防抖时间
const defaultDebounce = 500 * time.Millisecond

func newDevCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "开发模式：监听图标目录，变动后自动重新生成",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.dev(cmd.Context(), debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "防抖动时间")
	return cmd
}

// devRunner 处理文件变动的核心逻辑
type devRunner struct {
	app      *app
	watcher  *fsnotify.Watcher
	debounce time.Duration
	ctx      context.Context // 用于响应退出信号

	// 防抖动相关：任何图标变动都触发整体重新生成，只需要一个 timer
	mu      sync.Mutex
	pending *time.Timer
	watched map[string]bool

	genMu sync.Mutex // 同一时间只有一次生成
}

// dev 启动开发模式，ctx 取消时退出
func (a *app) dev(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer watcher.Close()

	runner := &devRunner{
		app:      a,
		watcher:  watcher,
		debounce: debounce,
		ctx:      ctx,
		watched:  make(map[string]bool),
	}

	// 清理函数：退出时停止待处理的定时器
	defer func() {
		runner.mu.Lock()
		if runner.pending != nil {
			runner.pending.Stop()
		}
		runner.mu.Unlock()
	}()

	dirs, err := collectWatchDirs(a.cfg.IconDir)
	if err != nil {
		return fmt.Errorf("收集监听目录失败: %w", err)
	}
	for _, dir := range dirs {
		if err := runner.watch(dir); err != nil {
			return err
		}
	}

	fmt.Printf("开发模式已启动，监听 %d 个目录\n", len(dirs))
	fmt.Println("按 Ctrl+C 退出")
	fmt.Println()

	// 启动时先生成一次
	runner.runGenerate()

	return runner.watchLoop()
}

func (r *devRunner) watch(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watched[dir] {
		return nil
	}
	if err := r.watcher.Add(dir); err != nil {
		return fmt.Errorf("添加监听目录失败 %s: %w", dir, err)
	}
	r.watched[dir] = true
	r.app.logger.Debug("监听目录", "dir", dir)
	return nil
}

// watchLoop 事件处理循环
func (r *devRunner) watchLoop() error {
	for {
		select {
		case <-r.ctx.Done():
			fmt.Println("\n正在退出...")
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.app.logger.Warn("监听错误", "error", err)
		}
	}
}

// handleEvent 处理文件事件
func (r *devRunner) handleEvent(event fsnotify.Event) {
	// 新建的子目录也要监听，其中的图标会在后续事件中出现
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			dirs, err := collectWatchDirs(event.Name)
			if err != nil {
				r.app.logger.Warn("收集监听目录失败", "dir", event.Name, "error", err)
				return
			}
			for _, dir := range dirs {
				if err := r.watch(dir); err != nil {
					r.app.logger.Warn("添加监听目录失败", "dir", dir, "error", err)
				}
			}
			r.scheduleGenerate()
			return
		}
	}

	if !isIconFile(event.Name) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	r.app.logger.Debug("检测到图标变化", "path", event.Name, "op", event.Op.String())
	r.scheduleGenerate()
}

// scheduleGenerate 防抖动调度生成
func (r *devRunner) scheduleGenerate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != nil {
		r.pending.Stop()
	}
	r.pending = time.AfterFunc(r.debounce, func() {
		select {
		case <-r.ctx.Done():
			return
		default:
		}
		r.runGenerate()
	})
}

// runGenerate 执行一次完整生成（没有增量构建）
func (r *devRunner) runGenerate() {
	r.genMu.Lock()
	defer r.genMu.Unlock()

	cfg := r.app.cfg
	target, err := plugin.Global().Lookup(cfg.Target)
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		return
	}
	opts, err := cfg.PipelineOptions(target, r.app.logger)
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		return
	}
	outPath := cfg.OutputPath(target)

	result, err := pipeline.Run(r.ctx, opts, outPath)
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		return
	}

	if strings.HasSuffix(outPath, ".go") {
		if err := checkSyntax(outPath); err != nil {
			fmt.Printf("语法错误 %s: %v\n", outPath, err)
			return
		}
	}

	fmt.Printf("生成完成: %d 个图标, 丢弃 %d 个 -> %s (耗时: %v)\n",
		result.Stats.EmittedCount, result.Stats.DroppedCount, outPath, result.Stats.TotalDuration)
}

// checkSyntax 检查生成的 Go 文件语法
func checkSyntax(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	_, err = imports.Process(filePath, content, &imports.Options{
		AllErrors:  true,
		Comments:   true,
		FormatOnly: true, // 只检查语法，不修改 imports
	})
	return err
}

// collectWatchDirs 递归收集 root 下所有需要监听的目录
func collectWatchDirs(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s 不是目录", root)
	}

	var dirs []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// 跳过隐藏目录
		if path != absRoot && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// isIconFile 是否是图标文件
func isIconFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), pipeline.AssetExt)
}
