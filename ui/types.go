// Package ui draws the tank's screen-space interface: the HUD, the control panel,
// the inspector for the selected fish and the event ticker. Inspector rows come from
// component field descriptors rather than hard-coded field names.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	BarFillLow    rl.Color
	BarFillMedium rl.Color
	BarFillHigh   rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 12, G: 28, B: 40, A: 225},
		PanelBorder:    rl.Color{R: 70, G: 110, B: 130, A: 255},
		SectionHeader:  rl.Color{R: 255, G: 215, B: 120, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 30, G: 40, B: 48, A: 255},
		BarFill:        rl.Color{R: 100, G: 170, B: 220, A: 255},
		BarFillLow:     rl.Color{R: 210, G: 95, B: 90, A: 255},
		BarFillMedium:  rl.Color{R: 215, G: 185, B: 95, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 120, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     72,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
