package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"galaxy-gen/internal/core"
	"galaxy-gen/internal/galaxy"
)

// controlValue is the parsed current value of one control.
type controlValue struct {
	text string
	num  float64
	rgb  color.RGBA
	ok   bool
}

func readControl(ctrl core.ParameterControl, snap core.ParameterSnapshot) controlValue {
	missing := controlValue{text: "--"}
	param, found := snap.Lookup(ctrl.Key)
	if !found {
		return missing
	}
	switch ctrl.Type {
	case core.ParamTypeInt, core.ParamTypeFloat:
		v, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			return missing
		}
		return controlValue{text: formatValue(ctrl, v), num: v, ok: true}
	case core.ParamTypeColor:
		c, err := galaxy.ParseColor(param.Value)
		if err != nil {
			return missing
		}
		return controlValue{text: c.Hex(), rgb: c.RGBA(), ok: true}
	}
	return missing
}

// stepControl moves cur one step in direction, clamped to the control's
// bounds. ok is false when the value would not change.
func stepControl(ctrl core.ParameterControl, cur float64, direction int) (next float64, ok bool) {
	step := ctrl.Step
	if ctrl.Type == core.ParamTypeInt {
		step = math.Max(math.Round(step), 1)
	} else if step <= 0 {
		step = 0.05
	}
	next = cur + float64(direction)*step
	if ctrl.HasMin {
		next = math.Max(next, ctrl.Min)
	}
	if ctrl.HasMax {
		next = math.Min(next, ctrl.Max)
	}
	if ctrl.Type == core.ParamTypeInt {
		next = math.Round(next)
	}
	return next, math.Abs(next-cur) >= 1e-9
}

// formatValue prints v with as many decimals as the control's step needs.
func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	decimals := 1
	if ctrl.Step > 0 {
		decimals = min(max(int(math.Ceil(-math.Log10(ctrl.Step)-1e-9)), 1), 4)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// rowLayout holds the hit areas of one control row in panel coordinates.
type rowLayout struct {
	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// swatch spans both button slots; color rows use it as a single target.
func (r rowLayout) swatch() image.Rectangle { return r.minus.Union(r.plus) }

func layoutRows(n, width int) []rowLayout {
	if n <= 0 || width <= 0 {
		return nil
	}
	rows := make([]rowLayout, n)
	right := width - panelPadding
	for i := range rows {
		top := controlsTop + i*lineHeight
		y := top + (lineHeight-buttonSize)/2
		plus := image.Rect(right-buttonSize, y, right, y+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		rows[i] = rowLayout{top: top, minus: minus, plus: plus}
	}
	return rows
}

const (
	panelPadding   = 12
	lineHeight     = 32
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 21
	controlsTop    = panelPadding + headerBaseline + 14
)
