package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/vg"
)

// ParseHexColor converts "#rrggbb" or "#rgb" to an NRGBA color.
func ParseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		// Double the nibbles so #fa0 means #ffaa00.
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		return c, fmt.Errorf("invalid color %q", s)
	}
	if err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// groupColor parses a group's configured color, falling back to black so a
// bad color degrades the drawing instead of failing the report.
func groupColor(hex string) color.NRGBA {
	if hex == "" {
		return color.NRGBA{A: 255}
	}
	c, err := ParseHexColor(hex)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return c
}

// fade scales the color's opacity by a presentation weight in (0, 1].
func fade(c color.NRGBA, weight float64) color.NRGBA {
	if weight >= 1 {
		return c
	}
	if weight < 0 {
		weight = 0
	}
	c.A = uint8(float64(c.A) * weight)
	return c
}

// dashPattern returns the stroke pattern for a group, dashed or solid.
func dashPattern(dashed bool) []vg.Length {
	if !dashed {
		return nil
	}
	return []vg.Length{vg.Points(5), vg.Points(2)}
}
