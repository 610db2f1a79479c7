package ui

import (
	"image"
	"testing"

	"galaxy-gen/internal/core"
	"galaxy-gen/internal/galaxy"
)

func controlFor(t *testing.T, key string) core.ParameterControl {
	t.Helper()
	for _, c := range galaxy.Controls() {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("no control %q", key)
	return core.ParameterControl{}
}

func TestReadControl(t *testing.T) {
	snap := galaxy.DefaultParams().Snapshot()

	arms := readControl(controlFor(t, galaxy.KeyArms), snap)
	if !arms.ok || arms.num != 3 || arms.text != "3" {
		t.Fatalf("arms = %+v", arms)
	}
	spin := readControl(controlFor(t, galaxy.KeySpin), snap)
	if !spin.ok || spin.num != 1 || spin.text != "1.000" {
		t.Fatalf("spin = %+v", spin)
	}
	inside := readControl(controlFor(t, galaxy.KeyInsideColor), snap)
	if !inside.ok || inside.text != "#ff6030" || inside.rgb.R != 0xff || inside.rgb.B != 0x30 {
		t.Fatalf("inside color = %+v", inside)
	}
	missing := readControl(core.ParameterControl{Key: "nope", Type: core.ParamTypeInt}, snap)
	if missing.ok || missing.text != "--" {
		t.Fatalf("missing = %+v", missing)
	}
}

func TestStepControlClamps(t *testing.T) {
	ints := core.ParameterControl{Type: core.ParamTypeInt, Step: 1, Min: 2, Max: 20, HasMin: true, HasMax: true}
	if v, ok := stepControl(ints, 3, 1); !ok || v != 4 {
		t.Fatalf("3+1 = %v %v", v, ok)
	}
	if _, ok := stepControl(ints, 2, -1); ok {
		t.Fatal("stepping below the minimum should be refused")
	}
	if v, ok := stepControl(ints, 20, 1); ok || v != 20 {
		t.Fatalf("at max: %v %v", v, ok)
	}

	floats := core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.05, Max: 4, HasMax: true}
	if v, ok := stepControl(floats, 3.98, 1); !ok || v != 4 {
		t.Fatalf("clamped step = %v %v", v, ok)
	}
	if v, _ := stepControl(core.ParameterControl{Type: core.ParamTypeFloat}, 1, -1); v != 0.95 {
		t.Fatalf("default step gave %v", v)
	}
}

func TestFormatValueDecimals(t *testing.T) {
	cases := []struct {
		step float64
		typ  core.ParamType
		in   float64
		want string
	}{
		{1, core.ParamTypeInt, 7, "7"},
		{0.001, core.ParamTypeFloat, 0.25, "0.250"},
		{0.01, core.ParamTypeFloat, 3, "3.00"},
		{0.05, core.ParamTypeFloat, 0.02, "0.02"},
		{0.5, core.ParamTypeFloat, 2, "2.0"},
		{0, core.ParamTypeFloat, 2, "2.0"},
	}
	for _, c := range cases {
		got := formatValue(core.ParameterControl{Type: c.typ, Step: c.step}, c.in)
		if got != c.want {
			t.Errorf("step %v value %v: got %q want %q", c.step, c.in, got, c.want)
		}
	}
}

func TestLayoutRows(t *testing.T) {
	rows := layoutRows(3, 200)
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	for i, r := range rows {
		if r.plus.Max.X != 200-panelPadding {
			t.Fatalf("row %d plus button not right aligned: %v", i, r.plus)
		}
		if r.plus.Min.X-r.minus.Max.X != buttonGap {
			t.Fatalf("row %d gap %d", i, r.plus.Min.X-r.minus.Max.X)
		}
		if r.minus.Dx() != buttonSize || r.minus.Dy() != buttonSize {
			t.Fatalf("row %d minus size %v", i, r.minus.Size())
		}
		if r.swatch() != image.Rect(r.minus.Min.X, r.minus.Min.Y, r.plus.Max.X, r.plus.Max.Y) {
			t.Fatalf("row %d swatch %v", i, r.swatch())
		}
		if i > 0 && r.top-rows[i-1].top != lineHeight {
			t.Fatalf("row spacing %d", r.top-rows[i-1].top)
		}
	}
	if layoutRows(0, 200) != nil || layoutRows(2, 0) != nil {
		t.Fatal("degenerate layouts should be empty")
	}
}
