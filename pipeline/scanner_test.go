package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScanDir(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, dir, "arrow-up.svg", svgIcon(`<path d="m5 12 7-7 7 7" />`))
	writeFile(t, dir, "nested/deeper/arrow_down.svg", svgIcon(`<path d="M12 5v14" />`))
	writeFile(t, dir, "UPPER.SVG", svgIcon(`<circle cx="12" cy="12" r="10" />`))
	writeFile(t, dir, "notes.txt", "not an icon")
	return dir
}

func TestScan(t *testing.T) {
	dir := setupScanDir(t)

	assets, err := Collect(NewScanner().Scan(dir))
	require.NoError(t, err)
	require.Len(t, assets, 3)

	byStem := make(map[string]*Asset)
	for _, a := range assets {
		byStem[a.Stem] = a
	}

	require.Contains(t, byStem, "arrow-up")
	assert.Equal(t, "ArrowUp", byStem["arrow-up"].Identifier)
	assert.Equal(t, filepath.Join(dir, "arrow-up.svg"), byStem["arrow-up"].Path)

	// 子目录不影响命名
	require.Contains(t, byStem, "arrow_down")
	assert.Equal(t, "ArrowDown", byStem["arrow_down"].Identifier)

	// 扩展名不区分大小写
	require.Contains(t, byStem, "UPPER")
	assert.Equal(t, "Upper", byStem["UPPER"].Identifier)
}

func TestScanOrderIsStable(t *testing.T) {
	dir := setupScanDir(t)

	first, err := Collect(NewScanner().Scan(dir))
	require.NoError(t, err)
	second, err := Collect(NewScanner().Scan(dir))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanMissingExtension(t *testing.T) {
	dir := setupScanDir(t)
	writeFile(t, dir, "LICENSE", "ISC")

	// 尽力而为：跳过
	assets, err := Collect(NewScanner().Scan(dir))
	require.NoError(t, err)
	assert.Len(t, assets, 3)

	// 严格：报错并带上路径
	_, err = Collect(NewScanner(WithStrict(true)).Scan(dir))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoExtension))
	assert.Contains(t, err.Error(), "LICENSE")
}

func TestScanEmptyStem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".svg", svgIcon(""))

	assets, err := Collect(NewScanner().Scan(dir))
	require.NoError(t, err)
	assert.Empty(t, assets)

	_, err = Collect(NewScanner(WithStrict(true)).Scan(dir))
	assert.ErrorIs(t, err, ErrNoExtension)
}

func TestScanMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	for _, strict := range []bool{false, true} {
		_, err := Collect(NewScanner(WithStrict(strict)).Scan(root))
		assert.Error(t, err, "strict=%v", strict)
	}
}

func TestScanEmptyDir(t *testing.T) {
	assets, err := Collect(NewScanner(WithStrict(true)).Scan(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestScanStopsEarly(t *testing.T) {
	dir := setupScanDir(t)

	count := 0
	for asset, err := range NewScanner().Scan(dir) {
		require.NoError(t, err)
		require.NotNil(t, asset)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestNewAsset(t *testing.T) {
	asset, err := NewAsset("icons/3d-box.svg")
	require.NoError(t, err)
	assert.Equal(t, "3d-box", asset.Stem)
	assert.Equal(t, "Icon3dBox", asset.Identifier)

	_, err = NewAsset("icons/readme")
	assert.ErrorIs(t, err, ErrNoExtension)

	_, err = NewAsset("icons/logo.png")
	assert.Error(t, err)

	_, err = NewAsset("icons/---.svg")
	assert.Error(t, err)
}
