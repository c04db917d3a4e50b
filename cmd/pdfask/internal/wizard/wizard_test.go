package wizard

import (
	"testing"

	"github.com/germanamz/pdfask/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestDraft_RoundTrip(t *testing.T) {
	cfg := config.Defaults()
	cfg.AIProvider.APIKey = "sk-test"
	cfg.AIProvider.BaseURL = "https://proxy.example/v1/chat/completions"

	var got config.AppConfig
	fromConfig(cfg).apply(&got)

	assert.Equal(t, cfg, got)
}

func TestDraft_ApplyCustomModel(t *testing.T) {
	d := fromConfig(config.Defaults())
	d.Model = customModel
	d.CustomModel = "  gpt-4o-mini "
	d.APIKey = " sk-x "

	cfg := config.Defaults()
	d.apply(&cfg)

	assert.Equal(t, "gpt-4o-mini", cfg.AIProvider.Model)
	assert.Equal(t, "sk-x", cfg.AIProvider.APIKey)
}

func TestProviderOptions(t *testing.T) {
	opts := providerOptions([]string{"deepseek", "openai"}, "openai")
	assert.Len(t, opts, 2)

	opts = providerOptions([]string{"deepseek", "openai"}, "claude")
	assert.Len(t, opts, 3)
	assert.Equal(t, "claude", opts[0].Value)
}

func TestModelOptions(t *testing.T) {
	opts := modelOptions([]string{"deepseek-chat", "deepseek-coder"})

	assert.Len(t, opts, 3)
	assert.Equal(t, "deepseek-chat", opts[0].Value)
	assert.Equal(t, customModel, opts[2].Value)
}

func TestValidateEndpoint(t *testing.T) {
	assert.NoError(t, validateEndpoint(""))
	assert.NoError(t, validateEndpoint("https://api.example.com/v1/chat/completions"))
	assert.NoError(t, validateEndpoint("http://localhost:8080/chat"))
	assert.Error(t, validateEndpoint("ftp://example.com"))
	assert.Error(t, validateEndpoint("not a url"))
}

func TestValidateModelAndPrompt(t *testing.T) {
	assert.Error(t, validateModel("  "))
	assert.NoError(t, validateModel("gpt-4"))
	assert.Error(t, validatePrompt(""))
	assert.NoError(t, validatePrompt("You are helpful."))
}
