package i18n_test

import (
	"errors"
	"testing"

	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		locales []string
		want    i18n.Lang
	}{
		{name: "none", locales: nil, want: i18n.English},
		{name: "simplified chinese", locales: []string{"zh_CN.UTF-8"}, want: i18n.Chinese},
		{name: "traditional chinese", locales: []string{"zh_TW.UTF-8"}, want: i18n.Chinese},
		{name: "bare zh", locales: []string{"zh"}, want: i18n.Chinese},
		{name: "english", locales: []string{"en_US.UTF-8"}, want: i18n.English},
		{name: "french falls back", locales: []string{"fr_FR.UTF-8"}, want: i18n.English},
		{name: "posix locale skipped", locales: []string{"C", "zh_CN.UTF-8"}, want: i18n.Chinese},
		{name: "first recognizable wins", locales: []string{"en_GB", "zh_CN"}, want: i18n.English},
		{name: "modifier stripped", locales: []string{"zh_CN.UTF-8@pinyin"}, want: i18n.Chinese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.Detect(tt.locales...))
		})
	}
}

func TestResolve_Explicit(t *testing.T) {
	t.Setenv("LC_ALL", "zh_CN.UTF-8")

	assert.Equal(t, i18n.English, i18n.Resolve("en"))
	assert.Equal(t, i18n.Chinese, i18n.Resolve("zh"))
}

func TestResolve_Auto(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_CN.UTF-8")

	assert.Equal(t, i18n.Chinese, i18n.Resolve(i18n.Auto))
	assert.Equal(t, i18n.Chinese, i18n.Resolve("klingon"))

	t.Setenv("LANG", "en_US.UTF-8")
	assert.Equal(t, i18n.English, i18n.Resolve(i18n.Auto))
}

func TestFor_UnknownFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "PDF Reader Chat History", i18n.For("de").ChatExportTitle)
}

func TestLabels_ExportStrings(t *testing.T) {
	en := i18n.For(i18n.English)
	zh := i18n.For(i18n.Chinese)

	assert.Equal(t, "AI Assistant", en.Assistant)
	assert.Equal(t, "AI助手", zh.Assistant)
	assert.Equal(t, "Selected Text", en.SelectedTextPrefix)
	assert.Equal(t, "选中文本", zh.SelectedTextPrefix)
}

func TestLabels_SelectionClause(t *testing.T) {
	assert.Equal(t,
		`Based on the selected text from the PDF: "gradient descent", explain`,
		i18n.For(i18n.English).SelectionClause("gradient descent", "explain"))
	assert.Equal(t,
		`基于PDF中选中的文本："梯度下降"，请解释`,
		i18n.For(i18n.Chinese).SelectionClause("梯度下降", "请解释"))
}

func TestLabels_Errors(t *testing.T) {
	en := i18n.For(i18n.English)
	zh := i18n.For(i18n.Chinese)

	assert.Equal(t, "Unsupported AI provider: claude", en.UnsupportedProvider("claude"))
	assert.Equal(t, "AI API request failed: 401 - bad key", en.RequestFailed(401, "bad key"))
	assert.Equal(t, "AI API request failed: 500 - unknown error", en.RequestFailed(500, ""))
	assert.Equal(t, "AI API请求失败: 500 - 未知错误", zh.RequestFailed(500, ""))
	assert.Equal(t, "Network request failed: boom", en.Network(errors.New("boom")))
}
