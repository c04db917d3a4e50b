// Package wizard is the interactive settings editor: provider, key, model,
// endpoint, theme, language and system prompt, saved after a reviewed diff.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/styles"
	"github.com/germanamz/pdfask/pkg/config"
	"github.com/germanamz/pdfask/pkg/i18n"
)

// customModel is the select value that switches to a free-form model input.
const customModel = "__custom__"

// Catalog lists providers and their models. *assistant.Registry satisfies it.
type Catalog interface {
	Names() []string
	Models(name string) []string
}

// Tester checks provider credentials. *assistant.Assistant satisfies it.
type Tester interface {
	TestConnection(ctx context.Context, p config.ProviderConfig) error
	Describe(err error) string
}

// draft is the editable copy of the settings.
type draft struct {
	Provider     string
	APIKey       string //nolint:gosec // user-entered value, not a hardcoded secret
	Model        string
	CustomModel  string
	BaseURL      string
	Theme        string
	Language     string
	SystemPrompt string
}

func fromConfig(cfg config.AppConfig) draft {
	return draft{
		Provider:     cfg.AIProvider.Name,
		APIKey:       cfg.AIProvider.APIKey,
		Model:        cfg.AIProvider.Model,
		BaseURL:      cfg.AIProvider.BaseURL,
		Theme:        cfg.Theme,
		Language:     cfg.Language,
		SystemPrompt: cfg.SystemPrompt,
	}
}

func (d draft) apply(cfg *config.AppConfig) {
	model := d.Model
	if model == customModel {
		model = strings.TrimSpace(d.CustomModel)
	}

	cfg.AIProvider = config.ProviderConfig{
		Name:    d.Provider,
		APIKey:  strings.TrimSpace(d.APIKey),
		Model:   model,
		BaseURL: strings.TrimSpace(d.BaseURL),
	}
	cfg.Theme = d.Theme
	cfg.Language = d.Language
	cfg.SystemPrompt = d.SystemPrompt
}

// Run walks through the settings, shows the change as a diff and saves it on
// confirmation. When tester is non-nil the saved provider can be tried.
func Run(ctx context.Context, store *config.Store, catalog Catalog, tester Tester, out io.Writer) error {
	current := store.Raw()
	d := fromConfig(current)

	if err := providerForm(&d, catalog).Run(); err != nil {
		return err
	}
	if err := detailsForm(&d, catalog).Run(); err != nil {
		return err
	}
	if err := appearanceForm(&d).Run(); err != nil {
		return err
	}

	next := current
	d.apply(&next)

	diff, err := config.Diff(current, next)
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(out, styles.DimStyle.Render("No changes."))
		return nil
	}
	fmt.Fprintln(out, diff)

	save := true
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Save these changes?").Value(&save),
	)).Run(); err != nil {
		return err
	}
	if !save {
		fmt.Fprintln(out, styles.DimStyle.Render("Discarded."))
		return nil
	}

	if err := store.Update(d.apply); err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", store.Path())

	if tester == nil {
		return nil
	}

	return testConnection(ctx, store, tester, out)
}

func testConnection(ctx context.Context, store *config.Store, tester Tester, out io.Writer) error {
	try := true
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Test the connection now?").Value(&try),
	)).Run(); err != nil {
		return err
	}
	if !try {
		return nil
	}

	cfg := store.Get()
	l := i18n.For(i18n.Resolve(cfg.Language))

	if err := tester.TestConnection(ctx, cfg.AIProvider); err != nil {
		fmt.Fprintf(out, "%s: %s\n", l.ConnectionFail, tester.Describe(err))
		return nil
	}
	fmt.Fprintln(out, styles.SuccessStyle.Render(l.ConnectionOK))

	return nil
}

func providerForm(d *draft, catalog Catalog) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("AI provider").
			Options(providerOptions(catalog.Names(), d.Provider)...).
			Value(&d.Provider),
	))
}

func detailsForm(d *draft, catalog Catalog) *huh.Form {
	models := catalog.Models(d.Provider)
	if !slices.Contains(models, d.Model) {
		d.CustomModel = d.Model
		d.Model = customModel
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API key").
				Description("Leave empty to use the environment.").
				EchoMode(huh.EchoModePassword).
				Value(&d.APIKey),
			huh.NewSelect[string]().
				Title("Model").
				Options(modelOptions(models)...).
				Value(&d.Model),
			huh.NewInput().
				Title("Endpoint (optional)").
				Description("Replaces the provider's chat completions URL.").
				Value(&d.BaseURL).
				Validate(validateEndpoint),
		),
		huh.NewGroup(
			huh.NewInput().Title("Model name").Value(&d.CustomModel).Validate(validateModel),
		).WithHideFunc(func() bool { return d.Model != customModel }),
	)
}

func appearanceForm(d *draft) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("System", config.ThemeSystem),
					huh.NewOption("Light", config.ThemeLight),
					huh.NewOption("Dark", config.ThemeDark),
				).
				Value(&d.Theme),
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("Auto", config.LanguageAuto),
					huh.NewOption("English", config.LanguageEnglish),
					huh.NewOption("中文", config.LanguageChinese),
				).
				Value(&d.Language),
			huh.NewText().
				Title("System prompt").
				Value(&d.SystemPrompt).
				Validate(validatePrompt),
		),
	)
}

// providerOptions lists the registered providers, keeping an unknown current
// value selectable so that opening the editor does not change it silently.
func providerOptions(names []string, current string) []huh.Option[string] {
	if current != "" && !slices.Contains(names, current) {
		names = append([]string{current}, names...)
	}

	opts := make([]huh.Option[string], len(names))
	for i, n := range names {
		opts[i] = huh.NewOption(n, n)
	}

	return opts
}

func modelOptions(models []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(models)+1)
	for _, m := range models {
		opts = append(opts, huh.NewOption(m, m))
	}

	return append(opts, huh.NewOption("Other...", customModel))
}

func validateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must be an http or https URL")
	}

	return nil
}

func validateModel(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("model name is required")
	}
	return nil
}

func validatePrompt(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("system prompt is required")
	}
	return nil
}
