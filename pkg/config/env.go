package config

import (
	"os"
	"strings"
)

// EnvAPIKey is checked first for every provider.
const EnvAPIKey = "PDFASK_API_KEY"

// providerEnv maps provider names to their conventional key variable.
var providerEnv = map[string]string{
	ProviderOpenAI:   "OPENAI_API_KEY",
	ProviderDeepSeek: "DEEPSEEK_API_KEY",
}

// APIKeyFromEnv resolves the API key against the environment. A key written
// as ${VAR} or $VAR is expanded. An empty key is filled from EnvAPIKey or
// the provider's own variable. A nil lookup uses os.LookupEnv.
func APIKeyFromEnv(cfg AppConfig, lookup func(string) (string, bool)) AppConfig {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	key := cfg.AIProvider.APIKey
	if strings.Contains(key, "$") {
		key = os.Expand(key, func(name string) string {
			v, _ := lookup(name)
			return v
		})
	}

	if strings.TrimSpace(key) == "" {
		for _, name := range []string{EnvAPIKey, providerEnv[cfg.AIProvider.Name]} {
			if name == "" {
				continue
			}
			if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
				key = v
				break
			}
		}
	}

	cfg.AIProvider.APIKey = key

	return cfg
}
