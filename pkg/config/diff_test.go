package config_test

import (
	"testing"

	"github.com/germanamz/pdfask/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	old := config.Defaults()
	updated := old
	updated.Theme = config.ThemeDark
	updated.AIProvider.APIKey = "sk-secret-1234"

	out, err := config.Diff(old, updated)
	require.NoError(t, err)

	assert.Contains(t, out, "--- current")
	assert.Contains(t, out, "+++ new")
	assert.Contains(t, out, `-  "theme": "system",`)
	assert.Contains(t, out, `+  "theme": "dark",`)
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "sk-secret")
}

func TestDiff_Identical(t *testing.T) {
	out, err := config.Diff(config.Defaults(), config.Defaults())
	require.NoError(t, err)
	assert.Empty(t, out)
}
