package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Init(dir))
	defer Close()

	assert.Equal(t, filepath.Join(dir, "debug.log"), GetLogPath())

	LogInfo("hello %s", "table")
	LogWarn("careful")
	LogError("boom %d", 1)
	LogPanic("oops")

	data, err := os.ReadFile(GetLogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello table")
	assert.Contains(t, string(data), "[WARN] careful")
	assert.Contains(t, string(data), "[ERROR] boom 1")
	assert.Contains(t, string(data), "[PANIC] oops")
}
