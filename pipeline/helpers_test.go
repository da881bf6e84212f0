package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/donutnomad/icongen/plugin"
	"github.com/stretchr/testify/require"
)

// fakeTarget 输出形如 "def ArrowUp {<markup>}" 的定义，便于断言
type fakeTarget struct {
	plugin.BaseTarget
	failSynth  string // 该组件名生成失败
	synthCalls atomic.Int32
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		BaseTarget: *plugin.NewBaseTarget("fake", "fake target", "icons.fake", plugin.FormatterSpec{}),
	}
}

func (t *fakeTarget) Prelude(pkg string) []byte {
	return []byte("package " + pkg + "\n")
}

func (t *fakeTarget) Synthesize(def *plugin.Definition) ([]byte, error) {
	t.synthCalls.Add(1)
	if def.Identifier == t.failSynth {
		return nil, fmt.Errorf("synthesize %s failed", def.Identifier)
	}
	return fmt.Appendf(nil, "package %s\n\ndef %s {%s}\n", def.Package, def.Identifier, def.Markup), nil
}

func (t *fakeTarget) Pretty(src []byte) ([]byte, error) {
	return src, nil
}

func (t *fakeTarget) Fragment(src []byte) ([]byte, error) {
	_, rest, ok := bytes.Cut(src, []byte("\n\n"))
	if !ok {
		return nil, fmt.Errorf("no definition")
	}
	return rest, nil
}

// svgIcon 构造一个 lucide 风格的图标文件内容
func svgIcon(body string) string {
	return `<svg
  xmlns="http://www.w3.org/2000/svg"
  width="24"
  height="24"
  viewBox="0 0 24 24"
  fill="none"
  stroke="currentColor"
  stroke-width="2"
  stroke-linecap="round"
  stroke-linejoin="round"
>
` + body + `
</svg>
`
}

// writeFile 在 dir 下写入文件，自动创建子目录
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
