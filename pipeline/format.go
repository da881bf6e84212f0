package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/donutnomad/icongen/plugin"
	shellquote "github.com/kballard/go-shellquote"
)

// Formatter 第二阶段格式化：文本输入，格式化后的文本输出
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Checker 可在生成开始前做可用性预检的格式化器
type Checker interface {
	Check(ctx context.Context) error
}

// FormatterFunc 函数适配器
type FormatterFunc func(ctx context.Context, src []byte) ([]byte, error)

func (f FormatterFunc) Format(ctx context.Context, src []byte) ([]byte, error) {
	return f(ctx, src)
}

// ExecFormatter 通过子进程调用外部格式化器
// 源码写入 stdin，从 stdout 读取结果；没有超时
type ExecFormatter struct {
	Command     []string
	VersionArgs []string
}

// NewExecFormatter 从命令行字符串创建格式化器，按 shell 规则切分参数
func NewExecFormatter(spec plugin.FormatterSpec) (*ExecFormatter, error) {
	command, err := shellquote.Split(spec.Command)
	if err != nil {
		return nil, fmt.Errorf("解析格式化命令 %q 失败: %w", spec.Command, err)
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("格式化命令为空")
	}
	versionArgs, err := shellquote.Split(spec.VersionArgs)
	if err != nil {
		return nil, fmt.Errorf("解析预检参数 %q 失败: %w", spec.VersionArgs, err)
	}
	return &ExecFormatter{Command: command, VersionArgs: versionArgs}, nil
}

// String 返回命令行
func (f *ExecFormatter) String() string {
	return shellquote.Join(f.Command...)
}

// Check 以版本参数运行一次格式化器，确认其可用
func (f *ExecFormatter) Check(ctx context.Context) error {
	name := f.Command[0]
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s 不在 PATH 中，请先安装", ErrFormatterNotFound, name)
	}
	if err := exec.CommandContext(ctx, name, f.VersionArgs...).Run(); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrFormatterNotFound, name, strings.Join(f.VersionArgs, " "), err)
	}
	return nil
}

// Format 将 src 通过管道交给外部格式化器
func (f *ExecFormatter) Format(ctx context.Context, src []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Command[0], f.Command[1:]...)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%w: %s: %v", ErrFormatterFailed, f, err)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrFormatterFailed, f, err, msg)
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return nil, fmt.Errorf("%w: %s 输出不是合法的 UTF-8", ErrFormatterFailed, f)
	}
	return out, nil
}
