package galaxy

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	apperrors "galaxy-gen/internal/errors"
)

// Color is a linear RGB triple with channels in [0, 1].
type Color struct {
	R, G, B float64
}

// MustParseColor is ParseColor for package-level literals.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor accepts "#rrggbb", "#rgb" (leading # optional) or three
// comma-separated channels in [0, 1] such as "1,0.37,0.19".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		return parseTriple(s)
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, apperrors.Validationf("color %q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, apperrors.WrapValidation(fmt.Sprintf("color %q", s), err)
	}
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, nil
}

func parseTriple(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, apperrors.Validationf("color %q: expected three channels", s)
	}
	var ch [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, apperrors.WrapValidation(fmt.Sprintf("color %q", s), err)
		}
		ch[i] = v
	}
	c := Color{R: ch[0], G: ch[1], B: ch[2]}
	if !c.Valid() {
		return Color{}, apperrors.Validationf("color %q: channels must lie in [0,1]", s)
	}
	return c, nil
}

// FromColor converts any image/color value, dropping alpha.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}
}

// Valid reports whether every channel is a finite value in [0, 1].
func (c Color) Valid() bool {
	for _, v := range [3]float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Lerp blends from c towards to. t=0 yields c and t=1 yields to exactly.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: lerpChannel(c.R, to.R, t),
		G: lerpChannel(c.G, to.G, t),
		B: lerpChannel(c.B, to.B, t),
	}
}

func lerpChannel(a, b, t float64) float64 {
	return clamp01(a*(1-t) + b*t)
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// RGBA converts to an opaque 8-bit color.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: channel8(c.R), G: channel8(c.G), B: channel8(c.B), A: 255}
}

func (c Color) String() string { return c.Hex() }

// MarshalText encodes the color as #rrggbb.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts any form understood by ParseColor.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func channel8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
