package appdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PathAccessors(t *testing.T) {
	d := New("/home/u/.config/pdfask")

	assert.Equal(t, "/home/u/.config/pdfask", d.Root())
	assert.Equal(t, "/home/u/.config/pdfask/config.json", d.ConfigPath())
	assert.Equal(t, "/home/u/.config/pdfask/.env", d.EnvPath())
	assert.Equal(t, "/home/u/.config/pdfask/exports", d.ExportsDir())
	assert.Equal(t, "/home/u/.config/pdfask/pdfask.log", d.LogPath())
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	d, err := Default()
	require.NoError(t, err)
	assert.Equal(t, Name, filepath.Base(d.Root()))
}

func TestDir_EnsureStructure(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "app"))
	assert.False(t, d.Exists())

	require.NoError(t, d.EnsureStructure())
	require.NoError(t, d.EnsureStructure())

	assert.True(t, d.Exists())
	info, err := os.Stat(d.ExportsDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDir_ExportFiles(t *testing.T) {
	d := New(t.TempDir())
	require.NoError(t, d.EnsureStructure())

	require.NoError(t, os.WriteFile(filepath.Join(d.ExportsDir(), "pdfask-chat-2024-05-02.md"), []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(d.ExportsDir(), "pdfask-chat-2024-05-01.md"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(d.ExportsDir(), "notes.txt"), []byte("x"), 0o600))

	files := d.ExportFiles()
	require.Len(t, files, 2)
	assert.Equal(t, "pdfask-chat-2024-05-01.md", filepath.Base(files[0]))
}

func TestDir_ExportFiles_NonExistent(t *testing.T) {
	assert.Nil(t, New("/nonexistent/pdfask").ExportFiles())
}
