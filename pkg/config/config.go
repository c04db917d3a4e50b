// Package config holds the reader's persisted settings: provider credentials,
// model, theme, language and system prompt.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Provider names.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Theme values.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Language values.
const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"
	LanguageAuto    = "auto"
)

// DefaultSystemPrompt tells the model how to treat PDF selections.
const DefaultSystemPrompt = `你是一个专业的AI助手，专门帮助用户理解和分析PDF文档内容。当用户选中PDF中的文本时，请根据以下指导原则回答：

1. 如果是技术文档：提供技术解释、相关概念、最佳实践
2. 如果是学术论文：解释关键概念、理论背景、研究意义
3. 如果是商业文档：分析要点、潜在影响、建议行动
4. 如果是法律文档：解释条款含义、潜在风险、注意事项

请用简洁明了的语言回答，必要时提供示例。回答应该准确、有用，并且与选中的文本内容高度相关。`

// ProviderConfig describes the chat-completion backend.
type ProviderConfig struct {
	Name    string `json:"name"`
	APIKey  string `json:"apiKey"` //nolint:gosec // configuration field, not a hardcoded secret
	Model   string `json:"model"`
	BaseURL string `json:"baseURL,omitempty"`
}

// HasAPIKey reports whether a non-blank key is configured.
func (p ProviderConfig) HasAPIKey() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// AppConfig is the whole persisted document.
type AppConfig struct {
	AIProvider   ProviderConfig `json:"aiProvider"`
	Theme        string         `json:"theme"`
	Language     string         `json:"language"`
	SystemPrompt string         `json:"systemPrompt"`
}

// Defaults returns the configuration used before anything is saved.
func Defaults() AppConfig {
	return AppConfig{
		AIProvider: ProviderConfig{
			Name:  ProviderOpenAI,
			Model: "gpt-3.5-turbo",
		},
		Theme:        ThemeSystem,
		Language:     LanguageAuto,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// Parse decodes data over Defaults, so fields absent from data keep their
// default value. Nested provider fields merge the same way.
func Parse(data []byte) (AppConfig, error) {
	cfg := Defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Marshal encodes cfg as indented JSON with a trailing newline.
func Marshal(cfg AppConfig) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}

	return append(data, '\n'), nil
}

// Normalize replaces unknown theme and language values with their defaults,
// logging a warning for each replacement. Provider names are left alone;
// an unsupported provider is reported when a request is attempted.
func Normalize(cfg AppConfig, log *slog.Logger) AppConfig {
	def := Defaults()

	switch cfg.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		log.Warn("unknown theme, using default", "theme", cfg.Theme, "default", def.Theme)
		cfg.Theme = def.Theme
	}

	switch cfg.Language {
	case LanguageEnglish, LanguageChinese, LanguageAuto:
	default:
		log.Warn("unknown language, using default", "language", cfg.Language, "default", def.Language)
		cfg.Language = def.Language
	}

	return cfg
}

// Redacted returns a copy of cfg with the API key masked, safe for logs and
// diffs.
func (c AppConfig) Redacted() AppConfig {
	c.AIProvider.APIKey = MaskKey(c.AIProvider.APIKey)
	return c
}

// MaskKey keeps the last four characters of a key and hides the rest.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}

	r := []rune(key)
	if len(r) <= 4 {
		return "****"
	}

	return "****" + string(r[len(r)-4:])
}

// EffectiveTheme resolves ThemeSystem using the host's preference.
func (c AppConfig) EffectiveTheme(systemDark bool) string {
	switch c.Theme {
	case ThemeLight, ThemeDark:
		return c.Theme
	}
	if systemDark {
		return ThemeDark
	}
	return ThemeLight
}
