package colorspace

import (
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nijaru/autocaption/errors"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// HSL is a color with hue in degrees [0,360) and saturation and
// lightness as percentages [0,100].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// IsHex reports whether s is exactly '#' followed by six hex digits.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// Normalize upper-cases a valid hex color.
func Normalize(hex string) string {
	return strings.ToUpper(hex)
}

// HexToHSL decomposes a #RRGGBB color. Achromatic colors have h=0, s=0.
func HexToHSL(hex string) (HSL, error) {
	if !IsHex(hex) {
		return HSL{}, errors.InvalidInput("HexToHSL", nil, "color must be # followed by 6 hex digits")
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return HSL{}, errors.InvalidInput("HexToHSL", err, "invalid hex color")
	}
	h, s, l := c.Hsl()
	if h >= 360 {
		h -= 360
	}
	return HSL{H: h, S: s * 100, L: l * 100}, nil
}

// HSLToHex reconstructs the lower-case #rrggbb form, each channel rounded
// to the nearest 8-bit value. Out-of-range components are clamped.
func HSLToHex(c HSL) string {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	s := clamp(c.S, 0, 100) / 100
	l := clamp(c.L, 0, 100) / 100
	return colorful.Hsl(h, s, l).Clamped().Hex()
}

// FromSatLightPointer maps a pointer position inside the saturation and
// lightness field to a color of the given hue. x grows to the right, y
// grows downwards; the top edge is light.
func FromSatLightPointer(hue, x, y float64) HSL {
	x = clamp(x, 0, 1)
	y = clamp(y, 0, 1)
	return HSL{H: hue, S: x * 100, L: 100 - y*100}
}

// HueFromPointer maps a horizontal position on the hue track to degrees.
func HueFromPointer(x float64) float64 {
	return clamp(x, 0, 1) * 360
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
