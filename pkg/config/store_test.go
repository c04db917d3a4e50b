package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/pdfask/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func TestLoad_MissingFile(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.Equal(t, config.Defaults(), s.Get())
}

func TestLoad_InvalidFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), s.Get())
}

func TestLoad_Merge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"aiProvider":{"name":"deepseek","apiKey":"ds"}}`), 0o600))

	s, err := config.Load(path)
	require.NoError(t, err)

	cfg := s.Get()
	assert.Equal(t, "deepseek", cfg.AIProvider.Name)
	assert.Equal(t, "ds", cfg.AIProvider.APIKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.AIProvider.Model)
	assert.Equal(t, config.ThemeSystem, cfg.Theme)
}

func TestStore_UpdateWritesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	s, err := config.Load(path)
	require.NoError(t, err)

	require.NoError(t, s.Update(func(c *config.AppConfig) {
		c.AIProvider.APIKey = "sk-new"
		c.Language = config.LanguageChinese
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	onDisk, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s.Get(), onDisk)
	assert.Contains(t, string(data), `"systemPrompt"`)

	reloaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-new", reloaded.Get().AIProvider.APIKey)
	assert.Equal(t, config.LanguageChinese, reloaded.Get().Language)
}

func TestStore_UpdateFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	s, err := config.Load(filepath.Join(dir, "sub", "config.json"))
	require.NoError(t, err)

	// A file where the parent directory should be makes the write fail.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub"), nil, 0o600))

	err = s.Update(func(c *config.AppConfig) { c.Theme = config.ThemeDark })
	require.Error(t, err)
	assert.Equal(t, config.ThemeSystem, s.Get().Theme)
}

func TestStore_ToggleTheme(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, s.ToggleTheme(false))
	assert.Equal(t, config.ThemeDark, s.Get().Theme)

	require.NoError(t, s.ToggleTheme(false))
	assert.Equal(t, config.ThemeLight, s.Get().Theme)
}

func TestStore_ToggleTheme_FromSystemDark(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, s.ToggleTheme(true))
	assert.Equal(t, config.ThemeLight, s.Get().Theme)
}

func TestStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s, err := config.Load(path)
	require.NoError(t, err)

	var seen []config.AppConfig
	s.OnChange(func(c config.AppConfig) { seen = append(seen, c) })

	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))
	require.NoError(t, s.Reload())
	assert.Equal(t, config.ThemeDark, s.Get().Theme)
	require.Len(t, seen, 1)

	// Same content: no notification.
	require.NoError(t, s.Reload())
	assert.Len(t, seen, 1)

	// Half-written file: keep current state.
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":`), 0o600))
	require.NoError(t, s.Reload())
	assert.Equal(t, config.ThemeDark, s.Get().Theme)
	assert.Len(t, seen, 1)
}

func TestStore_OnChangeFiresOnUpdate(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	calls := 0
	s.OnChange(func(config.AppConfig) { calls++ })

	require.NoError(t, s.Update(func(c *config.AppConfig) { c.Theme = config.ThemeLight }))
	require.NoError(t, s.Update(func(c *config.AppConfig) { c.Theme = config.ThemeLight }))

	assert.Equal(t, 1, calls)
}

func TestStore_EnvKeyIsNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	env := map[string]string{"OPENAI_API_KEY": "sk-env"}

	s, err := config.Load(path, config.WithEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	require.NoError(t, err)

	assert.Equal(t, "sk-env", s.Get().AIProvider.APIKey)
	assert.Empty(t, s.Raw().AIProvider.APIKey)

	require.NoError(t, s.Update(func(c *config.AppConfig) { c.Theme = config.ThemeDark }))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-env")
}

func TestStore_ListenerMayRegisterListener(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	outer, inner := 0, 0
	s.OnChange(func(config.AppConfig) {
		outer++
		s.OnChange(func(config.AppConfig) { inner++ })
	})

	require.NoError(t, s.Update(func(c *config.AppConfig) { c.Theme = config.ThemeDark }))
	assert.Equal(t, 1, outer)
	assert.Equal(t, 0, inner)

	require.NoError(t, s.Update(func(c *config.AppConfig) { c.Theme = config.ThemeLight }))
	assert.Equal(t, 2, outer)
	assert.Equal(t, 1, inner)
}
