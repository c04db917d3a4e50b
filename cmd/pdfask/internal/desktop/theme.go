package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/germanamz/pdfask/pkg/config"
)

// readerTheme pins the light or dark variant of the default theme, or follows
// the system for config.ThemeSystem.
type readerTheme struct {
	mode string
}

var _ fyne.Theme = (*readerTheme)(nil)

func newTheme(mode string) *readerTheme {
	return &readerTheme{mode: mode}
}

func (t *readerTheme) variant(v fyne.ThemeVariant) fyne.ThemeVariant {
	switch t.mode {
	case config.ThemeLight:
		return theme.VariantLight
	case config.ThemeDark:
		return theme.VariantDark
	default:
		return v
	}
}

func (t *readerTheme) Color(name fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	v = t.variant(v)

	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x25, G: 0x63, B: 0xEB, A: 0xFF} // blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0x40}
	default:
		return theme.DefaultTheme().Color(name, v)
	}
}

func (t *readerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *readerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *readerTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
