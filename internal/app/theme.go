package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// SweepViewTheme provides a custom theme for the viewer windows.
type SweepViewTheme struct{}

var _ fyne.Theme = (*SweepViewTheme)(nil)

func (t *SweepViewTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1F, G: 0x77, B: 0xB4, A: 0xFF} // Matches the column profile line
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0xFF, G: 0x7F, B: 0x0E, A: 0x80} // Matches the row profile line
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *SweepViewTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *SweepViewTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *SweepViewTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 2 // Keep profile panels flush with the heatmap
	case theme.SizeNameText:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
