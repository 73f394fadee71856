package contentcal

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a colour with 0-255 components.
type RGB struct {
	R, G, B int
}

// Hex parses "#rrggbb" (the leading '#' is optional).
func Hex(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("hex colour %q: want 6 digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("hex colour %q: %w", s, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func mustHex(s string) RGB {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Style is the colour palette used by the Renderer.
type Style struct {
	Primary   RGB // title, post header, section headings
	Secondary RGB // schedule table header
	Accent    RGB // pillar table header, hashtags
	KPIHeader RGB
	Text      RGB
	Muted     RGB
	Light     RGB // stripes and neutral fills
	Platforms map[Platform]RGB
}

// DefaultStyle returns the stock palette.
func DefaultStyle() Style {
	return Style{
		Primary:   mustHex("#667eea"),
		Secondary: mustHex("#764ba2"),
		Accent:    mustHex("#11998e"),
		KPIHeader: mustHex("#38ef7d"),
		Text:      mustHex("#2d3748"),
		Muted:     mustHex("#718096"),
		Light:     mustHex("#f7fafc"),
		Platforms: map[Platform]RGB{
			LinkedIn:  mustHex("#0077b5"),
			Twitter:   mustHex("#1da1f2"),
			Instagram: mustHex("#e4405f"),
			Facebook:  mustHex("#1877f2"),
			TikTok:    mustHex("#000000"),
		},
	}
}

// PlatformColor returns the badge colour for p, or Primary when p has none.
func (s Style) PlatformColor(p Platform) RGB {
	if c, ok := s.Platforms[p]; ok {
		return c
	}
	return s.Primary
}
