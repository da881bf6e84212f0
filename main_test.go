package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/donutnomad/icongen/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIcons(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	icons := map[string]string{
		"arrow-up.svg":     `<svg xmlns="http://www.w3.org/2000/svg"><path d="m5 12 7-7 7 7" /></svg>`,
		"circle.svg":       `<svg><circle cx="12" cy="12" r="10" /></svg>`,
		"nested/plus.svg":  `<svg><path d="M5 12h14" /><path d="M12 5v14" /></svg>`,
		"nested/notes.txt": `ignored`,
	}
	for name, content := range icons {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestGenCommand(t *testing.T) {
	icons := setupIcons(t)
	out := t.TempDir()
	manifest := filepath.Join(out, "icons.json")

	code := execute([]string{"gen", "-t", "gomponents", "--icons", icons, "--out-dir", out, "--no-format", "--manifest", manifest})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(out, "icons_gen.go"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "package icons")
	assert.Contains(t, content, "func ArrowUp(class ...string) g.Node")
	assert.Contains(t, content, "func Circle(class ...string) g.Node")
	assert.Contains(t, content, "func Plus(class ...string) g.Node")
	require.NoError(t, checkSyntax(filepath.Join(out, "icons_gen.go")))

	m, err := pipeline.ReadManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, "gomponents", m.Target)
	assert.Len(t, m.Icons, 3)

	// 输出是最新的
	assert.Equal(t, 0, execute([]string{"gen", "--check", "-t", "gomponents", "--icons", icons, "--out-dir", out, "--no-format"}))

	// 新增图标后不再是最新的
	require.NoError(t, os.WriteFile(filepath.Join(icons, "x.svg"), []byte(`<svg><path d="M18 6 6 18" /></svg>`), 0644))
	assert.Equal(t, 1, execute([]string{"gen", "--check", "-t", "gomponents", "--icons", icons, "--out-dir", out, "--no-format"}))
}

func TestGenCommandStrict(t *testing.T) {
	icons := setupIcons(t)
	out := t.TempDir()
	t.Setenv("ICONGEN_FEATURE_CIRCLE", "1")

	code := execute([]string{"gen", "--mode", "strict", "-t", "gomponents", "--icons", icons, "--out-dir", out, "--no-format", "--package", "ui"})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(out, "icons_gen.go"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "package ui")
	assert.Contains(t, content, "func Circle(")
	assert.NotContains(t, content, "func ArrowUp(")

	// 严格模式下任何失败都中止，且不写输出
	broken := filepath.Join(out, "broken")
	require.NoError(t, os.MkdirAll(broken, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(icons, "circle.svg"), []byte("no container"), 0644))
	code = execute([]string{"gen", "--mode", "strict", "-t", "gomponents", "--icons", icons, "--out-dir", broken, "--no-format"})
	assert.Equal(t, 1, code)
	_, err = os.Stat(filepath.Join(broken, "icons_gen.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenCommandInvalidConfig(t *testing.T) {
	assert.Equal(t, 1, execute([]string{"gen", "-t", "react", "--icons", t.TempDir()}))
	assert.Equal(t, 1, execute([]string{"gen", "--mode", "fast", "--icons", t.TempDir()}))
	assert.Equal(t, 1, execute([]string{"gen", "--icons", filepath.Join(t.TempDir(), "missing"), "--no-format"}))
}

func TestGenCommandConfigFile(t *testing.T) {
	icons := setupIcons(t)
	out := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "icongen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Join([]string{
		"target: templ",
		"icon_dir: " + icons,
		"out_dir: " + out,
		"out_file: generated.templ",
		"no_format: true",
	}, "\n")), 0644))

	require.Equal(t, 0, execute([]string{"gen", "--config", cfgPath}))

	data, err := os.ReadFile(filepath.Join(out, "generated.templ"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "templ ArrowUp(class ...string)")
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, 0, execute([]string{"version"}))
}

func TestWriteAssetTable(t *testing.T) {
	assets := []*pipeline.Asset{
		{Path: "icons/arrow-up.svg", Stem: "arrow-up", Identifier: "ArrowUp"},
		{Path: "icons/x.svg", Stem: "x", Identifier: "X"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeAssetTable(&buf, assets, nil, pipeline.DefaultFeaturePrefix))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "STEM      IDENTIFIER  FEATURE                   BUILD", lines[0])
	assert.Equal(t, "arrow-up  ArrowUp     ICONGEN_FEATURE_ARROW_UP  -", lines[1])
	assert.Equal(t, "x         X           ICONGEN_FEATURE_X         -", lines[2])
	assert.Contains(t, buf.String(), "共 2 个图标")

	buf.Reset()
	features := pipeline.ResolveFeatures("", []string{"ICONGEN_FEATURE_X=1"})
	require.NoError(t, writeAssetTable(&buf, assets, features, pipeline.DefaultFeaturePrefix))
	lines = strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasSuffix(lines[1], "no"))
	assert.True(t, strings.HasSuffix(lines[2], "yes"))
}

func TestCollectWatchDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	dirs, err := collectWatchDirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "a"), filepath.Join(root, "a", "b")}, dirs)

	_, err = collectWatchDirs(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestIsIconFile(t *testing.T) {
	assert.True(t, isIconFile("icons/a.svg"))
	assert.True(t, isIconFile("icons/A.SVG"))
	assert.False(t, isIconFile("icons/a.svg.swp"))
	assert.False(t, isIconFile("icons/README"))
}
