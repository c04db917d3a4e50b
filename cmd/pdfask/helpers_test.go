package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDFASK_TEST_KEY=sk-from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("PDFASK_TEST_KEY") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "sk-from-file", os.Getenv("PDFASK_TEST_KEY"))
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "what does this mean?", joinArgs([]string{"what", "does", "this", "mean?"}))
	assert.Empty(t, joinArgs(nil))
}

func TestNewLogger_Level(t *testing.T) {
	var sb bytes.Buffer
	newLogger(&sb, false).Debug("hidden")
	assert.Empty(t, sb.String())

	newLogger(&sb, true).Debug("shown")
	assert.Contains(t, sb.String(), "msg=shown")
}
