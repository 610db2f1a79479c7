package galaxy

import (
	"galaxy-gen/internal/core"
)

var snapshotGroups = []struct {
	name string
	keys []string
}{
	{"Shape", []string{KeyCount, KeyRadius, KeyArms, KeySpin}},
	{"Scatter", []string{KeyRandomness, KeyArmConcentration, KeyGalaxyConcentration}},
	{"Appearance", []string{KeySize, KeyInsideColor, KeyOutsideColor, KeyRotationSpeed}},
}

// Snapshot renders the parameters as grouped key/value strings.
func (p Params) Snapshot() core.ParameterSnapshot {
	groups := make([]core.ParameterGroup, 0, len(snapshotGroups))
	for _, g := range snapshotGroups {
		group := core.ParameterGroup{Name: g.name}
		for _, key := range g.keys {
			value, err := p.Get(key)
			if err != nil {
				continue
			}
			group.Params = append(group.Params, core.Parameter{
				Key:   key,
				Label: labelFor(key),
				Type:  typeFor(key),
				Value: value,
			})
		}
		groups = append(groups, group)
	}
	return core.ParameterSnapshot{Groups: groups}
}

// Controls describes every adjustable parameter with its domain and step.
func Controls() []core.ParameterControl {
	controls := make([]core.ParameterControl, 0, len(fieldSpecs)+len(colorKeys))
	for _, f := range fieldSpecs {
		controls = append(controls, core.ParameterControl{
			Key:         f.key,
			Label:       f.label,
			Type:        f.typ,
			Step:        f.step,
			Min:         f.min,
			Max:         f.max,
			HasMin:      true,
			HasMax:      true,
			Regenerates: f.regenerates,
		})
	}
	for _, key := range colorKeys {
		controls = append(controls, core.ParameterControl{
			Key:         key,
			Label:       labelFor(key),
			Type:        core.ParamTypeColor,
			Regenerates: true,
		})
	}
	return controls
}

func labelFor(key string) string {
	switch key {
	case KeyInsideColor:
		return "Inside color"
	case KeyOutsideColor:
		return "Outside color"
	}
	if f, ok := lookupField(key); ok {
		return f.label
	}
	return key
}

func typeFor(key string) core.ParamType {
	if f, ok := lookupField(key); ok {
		return f.typ
	}
	return core.ParamTypeColor
}
