package desktop

import (
	"context"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/germanamz/pdfask/pkg/config"
)

const connectionTestTimeout = 30 * time.Second

var (
	themeOptions    = []string{config.ThemeSystem, config.ThemeLight, config.ThemeDark}
	languageOptions = []string{config.LanguageAuto, config.LanguageEnglish, config.LanguageChinese}
)

// onSettings edits the persisted configuration. Keys that only come from the
// environment are never shown or written.
func (mw *MainWindow) onSettings() {
	l := mw.labels()
	cfg := mw.deps.Config.Raw()
	a := mw.deps.Assistant

	model := widget.NewSelectEntry(a.Models(cfg.AIProvider.Name))
	model.SetText(cfg.AIProvider.Model)

	provider := widget.NewSelect(a.Names(), func(name string) {
		models := a.Models(name)
		model.SetOptions(models)
		if len(models) > 0 && name != cfg.AIProvider.Name {
			model.SetText(models[0])
		}
	})
	provider.SetSelected(cfg.AIProvider.Name)

	key := widget.NewPasswordEntry()
	key.SetText(cfg.AIProvider.APIKey)

	endpoint := widget.NewEntry()
	endpoint.SetPlaceHolder("https://api.openai.com/v1/chat/completions")
	endpoint.SetText(cfg.AIProvider.BaseURL)

	themeSel := widget.NewSelect(themeOptions, nil)
	themeSel.SetSelected(cfg.Theme)

	langSel := widget.NewSelect(languageOptions, nil)
	langSel.SetSelected(cfg.Language)

	prompt := widget.NewMultiLineEntry()
	prompt.Wrapping = fyne.TextWrapWord
	prompt.SetMinRowsVisible(6)
	prompt.SetText(cfg.SystemPrompt)

	current := func() config.ProviderConfig {
		return config.ProviderConfig{
			Name:    provider.Selected,
			APIKey:  strings.TrimSpace(key.Text),
			Model:   model.Text,
			BaseURL: strings.TrimSpace(endpoint.Text),
		}
	}

	testBtn := widget.NewButton("Test connection", nil)
	testBtn.OnTapped = func() {
		testBtn.Disable()
		go func() {
			defer testBtn.Enable()

			ctx, cancel := context.WithTimeout(mw.ctx, connectionTestTimeout)
			defer cancel()

			if err := a.TestConnection(ctx, current()); err != nil {
				dialog.ShowInformation(l.ConnectionFail, a.Describe(err), mw.Window)
				return
			}
			dialog.ShowInformation(l.Settings, l.ConnectionOK, mw.Window)
		}()
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Provider", provider),
		widget.NewFormItem("API key", key),
		widget.NewFormItem("Model", model),
		widget.NewFormItem("Endpoint", endpoint),
		widget.NewFormItem("", testBtn),
		widget.NewFormItem("Theme", themeSel),
		widget.NewFormItem("Language", langSel),
		widget.NewFormItem("System prompt", prompt),
	}

	d := dialog.NewForm(l.Settings, "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}

		err := mw.deps.Config.Update(func(c *config.AppConfig) {
			c.AIProvider = current()
			c.Theme = themeSel.Selected
			c.Language = langSel.Selected
			c.SystemPrompt = prompt.Text
		})
		if err != nil {
			mw.log.Error("save settings", "error", err)
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Settings saved")
	}, mw.Window)
	d.Resize(fyne.NewSize(640, 560))
	d.Show()
}
