package config_test

import (
	"testing"

	"github.com/germanamz/pdfask/pkg/config"
	"github.com/stretchr/testify/assert"
)

func mapEnv(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		key      string
		env      map[string]string
		want     string
	}{
		{name: "configured key wins", provider: "openai", key: "sk-cfg", env: map[string]string{"OPENAI_API_KEY": "sk-env"}, want: "sk-cfg"},
		{name: "generic variable first", provider: "openai", env: map[string]string{"PDFASK_API_KEY": "sk-generic", "OPENAI_API_KEY": "sk-env"}, want: "sk-generic"},
		{name: "provider variable", provider: "deepseek", env: map[string]string{"DEEPSEEK_API_KEY": "ds-env", "OPENAI_API_KEY": "sk-env"}, want: "ds-env"},
		{name: "blank key filled", provider: "openai", key: "  ", env: map[string]string{"OPENAI_API_KEY": "sk-env"}, want: "sk-env"},
		{name: "expanded reference", provider: "openai", key: "${MY_KEY}", env: map[string]string{"MY_KEY": "sk-ref"}, want: "sk-ref"},
		{name: "unset reference falls back", provider: "openai", key: "$MISSING", env: map[string]string{"OPENAI_API_KEY": "sk-env"}, want: "sk-env"},
		{name: "nothing available", provider: "claude", key: "", env: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.AIProvider.Name = tt.provider
			cfg.AIProvider.APIKey = tt.key

			got := config.APIKeyFromEnv(cfg, mapEnv(tt.env))
			assert.Equal(t, tt.want, got.AIProvider.APIKey)
		})
	}
}
