package trend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slocguard/internal/model"
)

// TestAppendAndLoad 验证追加后能读回同样的点。
func TestAppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	point := NewPoint(model.Summary{TotalFiles: 4, Passed: 3, Failed: 1})

	require.NoError(t, Append(dir, point, 10))

	points, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 4, points[0].TotalFiles)
	assert.Equal(t, 1, points[0].Failed)
	assert.NotEmpty(t, points[0].Timestamp)
}

// TestAppendRollsOverLimit 验证超过上限时丢弃最旧的点。
func TestAppendRollsOverLimit(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 5; i++ {
		point := NewPoint(model.Summary{TotalFiles: i})
		require.NoError(t, Append(dir, point, 3))
	}

	points, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 2, points[0].TotalFiles)
	assert.Equal(t, 4, points[2].TotalFiles)
}

// TestAppendToleratesGarbage 验证损坏的历史文件按空历史处理。
func TestAppendToleratesGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trend.json"), []byte("not json"), 0o644))

	require.NoError(t, Append(dir, NewPoint(model.Summary{TotalFiles: 1}), 10))

	points, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, points, 1)
}

// TestLoadMissingFile 验证文件不存在返回空历史。
func TestLoadMissingFile(t *testing.T) {
	points, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, points)
}
