// Package theme holds the per-category colour palettes of the result card.
package theme

import (
	"fmt"

	"quantumconnections/internal/model"

	"github.com/lucasb-eyer/go-colorful"
)

var palettes = map[model.Category]model.Palette{
	model.CategoryAffection: {
		Colors:      []string{"#E11D48", "#F59E0B", "#FFF1F2"},
		Accent:      "#E11D48",
		CardBg:      "#2A0A10",
		GlowRGB:     "225, 29, 72",
		ButtonStart: "#E11D48",
		ButtonEnd:   "#D97706",
	},
	model.CategoryFriendship: {
		Colors:      []string{"#06B6D4", "#84CC16", "#F0F9FF"},
		Accent:      "#06B6D4",
		CardBg:      "#082f36",
		GlowRGB:     "6, 182, 212",
		ButtonStart: "#0891B2",
		ButtonEnd:   "#65A30D",
	},
	model.CategoryRivalry: {
		Colors:      []string{"#F97316", "#94A3B8", "#1c1917"},
		Accent:      "#F97316",
		CardBg:      "#2a1305",
		GlowRGB:     "249, 115, 22",
		ButtonStart: "#EA580C",
		ButtonEnd:   "#57534E",
	},
	model.CategoryKinship: {
		Colors:      []string{"#10B981", "#D97706", "#ECFDF5"},
		Accent:      "#10B981",
		CardBg:      "#022c1e",
		GlowRGB:     "16, 185, 129",
		ButtonStart: "#059669",
		ButtonEnd:   "#0D9488",
	},
}

// For returns the palette of the category. Unknown categories use Affection.
func For(cat model.Category) model.Palette {
	p, ok := palettes[cat]
	if !ok {
		p = palettes[model.CategoryAffection]
	}
	p.Colors = append([]string(nil), p.Colors...)
	return p
}

// Particles returns the primary and secondary particle colours. A palette
// without a secondary colour blends towards white.
func Particles(p model.Palette) (primary, secondary colorful.Color, err error) {
	if len(p.Colors) == 0 {
		return colorful.Color{}, colorful.Color{}, fmt.Errorf("palette has no colours")
	}
	primary, err = colorful.Hex(p.Colors[0])
	if err != nil {
		return colorful.Color{}, colorful.Color{}, fmt.Errorf("primary colour %q: %w", p.Colors[0], err)
	}
	secondary = colorful.Color{R: 1, G: 1, B: 1}
	if len(p.Colors) > 1 {
		secondary, err = colorful.Hex(p.Colors[1])
		if err != nil {
			return colorful.Color{}, colorful.Color{}, fmt.Errorf("secondary colour %q: %w", p.Colors[1], err)
		}
	}
	return primary, secondary, nil
}

// Background returns the card background colour.
func Background(p model.Palette) colorful.Color {
	c, err := colorful.Hex(p.CardBg)
	if err != nil {
		return colorful.Color{}
	}
	return c
}
