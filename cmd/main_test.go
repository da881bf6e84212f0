package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/donutnomad/icongen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) (icons, out string) {
	t.Helper()
	icons = t.TempDir()
	out = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(icons, "arrow-up.svg"), []byte(`<svg><path d="m5 12 7-7 7 7" /></svg>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(icons, "circle.svg"), []byte(`<svg><circle r="10" /></svg>`), 0644))

	t.Setenv("ICONGEN_ICON_DIR", icons)
	t.Setenv("ICONGEN_OUT_DIR", out)
	t.Setenv("ICONGEN_TARGET", "gomponents")
	return icons, out
}

func TestStrictConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("ICONGEN_MODE", "best-effort")
	t.Setenv("ICONGEN_WORKERS", "8")

	cfg, err := strictConfig()
	require.NoError(t, err)
	assert.Equal(t, config.ModeStrict, cfg.Mode)
	assert.True(t, cfg.NoFormat)
	assert.Equal(t, 1, cfg.EffectiveWorkers())
	assert.Equal(t, "gomponents", cfg.Target)
}

func TestRunGated(t *testing.T) {
	_, out := setupEnv(t)
	t.Setenv("ICONGEN_FEATURE_ARROW_UP", "")

	require.NoError(t, run(context.Background()))

	data, err := os.ReadFile(filepath.Join(out, "icons_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func ArrowUp(")
	assert.NotContains(t, string(data), "func Circle(")
}

func TestRunNoFeatures(t *testing.T) {
	_, out := setupEnv(t)
	t.Setenv("ICONGEN_OUT_FILE", "empty_gen.go")

	require.NoError(t, run(context.Background()))

	data, err := os.ReadFile(filepath.Join(out, "empty_gen.go"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "func ")
	assert.Contains(t, string(data), "package icons")
}

func TestRunAbortsOnFailure(t *testing.T) {
	icons, out := setupEnv(t)
	t.Setenv("ICONGEN_FEATURE_ALL", "1")
	require.NoError(t, os.WriteFile(filepath.Join(icons, "broken.svg"), []byte(`<svg><g></svg>`), 0644))

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.svg")

	_, statErr := os.Stat(filepath.Join(out, "icons_gen.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCargoFeaturePrefix(t *testing.T) {
	icons, out := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(icons, "arrow-down.svg"), []byte(`<svg><path d="m19 12-7 7-7-7" /></svg>`), 0644))
	t.Setenv("ICONGEN_FEATURE_PREFIX", "CARGO_FEATURE_")
	t.Setenv("CARGO_FEATURE_ARROW_UP", "")

	require.NoError(t, run(context.Background()))

	data, err := os.ReadFile(filepath.Join(out, "icons_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func ArrowUp(")
	assert.NotContains(t, string(data), "func ArrowDown(")
	assert.NotContains(t, string(data), "func Circle(")
}
