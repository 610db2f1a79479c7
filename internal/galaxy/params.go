package galaxy

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"galaxy-gen/internal/core"
	apperrors "galaxy-gen/internal/errors"
)

// Parameter keys accepted by Set, FromMap and the editor.
const (
	KeyCount               = "count"
	KeySize                = "size"
	KeyRadius              = "radius"
	KeyArms                = "arms"
	KeySpin                = "spin"
	KeyRandomness          = "randomness"
	KeyArmConcentration    = "arm_concentration"
	KeyGalaxyConcentration = "galaxy_concentration"
	KeyInsideColor         = "inside_color"
	KeyOutsideColor        = "outside_color"
	KeyRotationSpeed       = "rotation_speed"
)

// MaxCount is the largest point count a parameter set may request.
const MaxCount = 1_000_000

// Params holds every tunable of the galaxy. Size and RotationSpeed are only
// consumed by renderers; the generator ignores them.
type Params struct {
	Count               int     `json:"count"`
	Size                float64 `json:"size"`
	Radius              float64 `json:"radius"`
	Arms                int     `json:"arms"`
	Spin                float64 `json:"spin"`
	Randomness          float64 `json:"randomness"`
	ArmConcentration    float64 `json:"armConcentration"`
	GalaxyConcentration float64 `json:"galaxyConcentration"`
	InsideColor         Color   `json:"insideColor"`
	OutsideColor        Color   `json:"outsideColor"`
	RotationSpeed       float64 `json:"rotationSpeed"`
}

// DefaultParams returns the stock galaxy.
func DefaultParams() Params {
	return Params{
		Count:               100000,
		Size:                0.01,
		Radius:              3,
		Arms:                3,
		Spin:                1,
		Randomness:          0.2,
		ArmConcentration:    3,
		GalaxyConcentration: 1,
		InsideColor:         MustParseColor("#ff6030"),
		OutsideColor:        MustParseColor("#1b3984"),
		RotationSpeed:       0.02,
	}
}

type fieldSpec struct {
	key         string
	label       string
	typ         core.ParamType
	min, max    float64
	step        float64
	regenerates bool
	get         func(p *Params) float64
	set         func(p *Params, v float64)
}

// fieldSpecs lists the numeric fields with their domains, in display order.
var fieldSpecs = []fieldSpec{
	{KeyCount, "Count", core.ParamTypeInt, 100, MaxCount, 100, true,
		func(p *Params) float64 { return float64(p.Count) },
		func(p *Params, v float64) { p.Count = int(math.Round(v)) }},
	{KeySize, "Size", core.ParamTypeFloat, 0.001, 0.1, 0.001, true,
		func(p *Params) float64 { return p.Size },
		func(p *Params, v float64) { p.Size = v }},
	{KeyRadius, "Radius", core.ParamTypeFloat, 0.01, 20, 0.01, true,
		func(p *Params) float64 { return p.Radius },
		func(p *Params, v float64) { p.Radius = v }},
	{KeyArms, "Arms", core.ParamTypeInt, 2, 20, 1, true,
		func(p *Params) float64 { return float64(p.Arms) },
		func(p *Params, v float64) { p.Arms = int(math.Round(v)) }},
	{KeySpin, "Spin", core.ParamTypeFloat, 0, 2, 0.001, true,
		func(p *Params) float64 { return p.Spin },
		func(p *Params, v float64) { p.Spin = v }},
	{KeyRandomness, "Randomness", core.ParamTypeFloat, 0, 5, 0.001, true,
		func(p *Params) float64 { return p.Randomness },
		func(p *Params, v float64) { p.Randomness = v }},
	{KeyArmConcentration, "Arm concentration", core.ParamTypeFloat, 0, 20, 0.001, true,
		func(p *Params) float64 { return p.ArmConcentration },
		func(p *Params, v float64) { p.ArmConcentration = v }},
	{KeyGalaxyConcentration, "Galaxy concentration", core.ParamTypeFloat, 1, 2, 0.001, true,
		func(p *Params) float64 { return p.GalaxyConcentration },
		func(p *Params, v float64) { p.GalaxyConcentration = v }},
	{KeyRotationSpeed, "Rotation speed", core.ParamTypeFloat, 0.001, 4, 0.05, false,
		func(p *Params) float64 { return p.RotationSpeed },
		func(p *Params, v float64) { p.RotationSpeed = v }},
}

var colorKeys = []string{KeyInsideColor, KeyOutsideColor}

var keyAliases = map[string]string{
	"armconcentration":    KeyArmConcentration,
	"randompower":         KeyArmConcentration,
	"random_power":        KeyArmConcentration,
	"galaxyconcentration": KeyGalaxyConcentration,
	"radiuspower":         KeyGalaxyConcentration,
	"radius_power":        KeyGalaxyConcentration,
	"insidecolor":         KeyInsideColor,
	"outsidecolor":        KeyOutsideColor,
	"rotationspeed":       KeyRotationSpeed,
}

// NormalizeKey maps camelCase and legacy names onto the canonical snake_case
// parameter keys.
func NormalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, "-", "_")
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

func lookupField(key string) (fieldSpec, bool) {
	for _, f := range fieldSpecs {
		if f.key == key {
			return f, true
		}
	}
	return fieldSpec{}, false
}

// Regenerates reports whether changing key requires a new point cloud.
func Regenerates(key string) bool {
	key = NormalizeKey(key)
	if f, ok := lookupField(key); ok {
		return f.regenerates
	}
	return key == KeyInsideColor || key == KeyOutsideColor
}

// Set parses value and stores it under key. It checks syntax only; domains are
// enforced by Validate.
func (p *Params) Set(key, value string) error {
	key = NormalizeKey(key)
	value = strings.TrimSpace(value)
	switch key {
	case KeyInsideColor, KeyOutsideColor:
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		if key == KeyInsideColor {
			p.InsideColor = c
		} else {
			p.OutsideColor = c
		}
		return nil
	}
	f, ok := lookupField(key)
	if !ok {
		return apperrors.Validationf("unknown parameter %q", key)
	}
	if f.typ == core.ParamTypeInt {
		v, err := strconv.Atoi(value)
		if err != nil {
			return apperrors.WrapValidation(fmt.Sprintf("%s: expected an integer", key), err)
		}
		f.set(p, float64(v))
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return apperrors.WrapValidation(fmt.Sprintf("%s: expected a number", key), err)
	}
	f.set(p, v)
	return nil
}

// Get formats the value stored under key.
func (p Params) Get(key string) (string, error) {
	key = NormalizeKey(key)
	switch key {
	case KeyInsideColor:
		return p.InsideColor.Hex(), nil
	case KeyOutsideColor:
		return p.OutsideColor.Hex(), nil
	}
	f, ok := lookupField(key)
	if !ok {
		return "", apperrors.Validationf("unknown parameter %q", key)
	}
	v := f.get(&p)
	if f.typ == core.ParamTypeInt {
		return strconv.Itoa(int(v)), nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// Validate rejects values outside the documented domains. The returned error
// is a validation error naming every offending field.
func (p Params) Validate() error {
	var errs []error
	for _, f := range fieldSpecs {
		v := f.get(&p)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < f.min || v > f.max {
			errs = append(errs, fmt.Errorf("%s=%s outside [%s, %s]", f.key,
				strconv.FormatFloat(v, 'g', -1, 64),
				strconv.FormatFloat(f.min, 'g', -1, 64),
				strconv.FormatFloat(f.max, 'g', -1, 64)))
		}
	}
	if !p.InsideColor.Valid() {
		errs = append(errs, fmt.Errorf("%s channels must lie in [0,1]", KeyInsideColor))
	}
	if !p.OutsideColor.Valid() {
		errs = append(errs, fmt.Errorf("%s channels must lie in [0,1]", KeyOutsideColor))
	}
	if len(errs) == 0 {
		return nil
	}
	return apperrors.WrapValidation("invalid galaxy parameters", errors.Join(errs...))
}

// Clamp returns a copy with every numeric field forced into its domain. NaN
// values fall back to the defaults.
func (p Params) Clamp() Params {
	def := DefaultParams()
	for _, f := range fieldSpecs {
		v := f.get(&p)
		if math.IsNaN(v) {
			v = f.get(&def)
		}
		f.set(&p, math.Min(math.Max(v, f.min), f.max))
	}
	p.InsideColor = Color{R: clamp01(p.InsideColor.R), G: clamp01(p.InsideColor.G), B: clamp01(p.InsideColor.B)}
	p.OutsideColor = Color{R: clamp01(p.OutsideColor.R), G: clamp01(p.OutsideColor.G), B: clamp01(p.OutsideColor.B)}
	return p
}

// FromMap starts from the defaults and applies key/value overrides. A "preset"
// entry selects the base parameters before the remaining keys are applied.
func FromMap(cfg map[string]string) (Params, error) {
	p := DefaultParams()
	if cfg == nil {
		return p, nil
	}
	if name, ok := cfg["preset"]; ok && name != "" {
		preset, err := Preset(name)
		if err != nil {
			return p, err
		}
		p = preset
	}
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		if k != "preset" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.Set(k, cfg[k]); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Keys lists every parameter key in display order.
func Keys() []string {
	keys := make([]string, 0, len(fieldSpecs)+len(colorKeys))
	for _, f := range fieldSpecs {
		keys = append(keys, f.key)
	}
	return append(keys, colorKeys...)
}
