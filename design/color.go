package design

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for color strings that are neither hex nor
// rgb()/rgba() syntax.
var ErrInvalidColor = errors.New("invalid color")

// Color is an opaque RGB triple. Alpha components in the source syntax are
// accepted and discarded.
type Color struct {
	R, G, B uint8
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b) and
// rgba(r, g, b, a).
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:], s)
	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		return parseFunc(v[5:len(v)-1], 4, s)
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseFunc(v[4:len(v)-1], 3, s)
	}
	return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// MustColor is ParseColor for package-level literals.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(h, orig string) (Color, error) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	case 8:
		h = h[:6]
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

func parseFunc(args string, want int, orig string) (Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != want {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
		rgb[i] = uint8(n)
	}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// Hex renders the color as #rrggbb. Both renderers use this form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the components scaled to 0..1 for PDF color operators.
func (c Color) RGB() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

func (c Color) String() string { return c.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
