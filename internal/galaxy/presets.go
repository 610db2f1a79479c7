package galaxy

import (
	"sort"
	"sync"

	apperrors "galaxy-gen/internal/errors"
)

var (
	presetsMu sync.RWMutex
	presets   = map[string]Params{}
)

// RegisterPreset adds a named parameter set. Empty names are ignored.
func RegisterPreset(name string, p Params) {
	if name == "" {
		return
	}
	presetsMu.Lock()
	defer presetsMu.Unlock()
	presets[name] = p
}

// Preset returns the parameters registered under name.
func Preset(name string) (Params, error) {
	presetsMu.RLock()
	defer presetsMu.RUnlock()
	p, ok := presets[name]
	if !ok {
		return Params{}, apperrors.NotFoundf("unknown preset %q", name)
	}
	return p, nil
}

// Presets lists the registered preset names in sorted order.
func Presets() []string {
	presetsMu.RLock()
	defer presetsMu.RUnlock()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterPreset("default", DefaultParams())

	tight := DefaultParams()
	tight.Arms = 2
	tight.Spin = 1.6
	tight.Randomness = 0.12
	tight.ArmConcentration = 5
	tight.GalaxyConcentration = 1.5
	RegisterPreset("tight", tight)

	pinwheel := DefaultParams()
	pinwheel.Arms = 5
	pinwheel.Radius = 5
	pinwheel.Spin = 0.7
	pinwheel.Randomness = 0.35
	pinwheel.InsideColor = MustParseColor("#ffd27a")
	pinwheel.OutsideColor = MustParseColor("#3a5fcd")
	RegisterPreset("pinwheel", pinwheel)

	flocculent := DefaultParams()
	flocculent.Arms = 9
	flocculent.Spin = 0.45
	flocculent.Randomness = 0.6
	flocculent.ArmConcentration = 1.5
	flocculent.GalaxyConcentration = 1.2
	RegisterPreset("flocculent", flocculent)
}
