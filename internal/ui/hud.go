//go:build ebiten

package ui

import (
	"errors"
	"image"
	"image/color"
	"log/slog"

	"galaxy-gen/internal/core"
	"galaxy-gen/internal/ui/dialogs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	colPanel      = color.RGBA{R: 14, G: 15, B: 22, A: 255}
	colTitle      = color.RGBA{R: 190, G: 200, B: 225, A: 255}
	colText       = color.RGBA{R: 215, G: 218, B: 232, A: 255}
	colMuted      = color.RGBA{R: 120, G: 124, B: 140, A: 255}
	colButton     = color.RGBA{R: 48, G: 52, B: 70, A: 255}
	colButtonIdle = color.RGBA{R: 28, G: 30, B: 40, A: 255}
	colError      = color.RGBA{R: 235, G: 120, B: 95, A: 255}
)

// HUD renders the parameter panel to the right of the galaxy view. Numeric
// rows get -/+ buttons; color rows show a swatch that opens a native picker.
type HUD struct {
	target core.ParameterControlsProvider
	title  string
	width  int
	offset int

	panel  *ebiten.Image
	panelH int

	controls []core.ParameterControl
	values   []controlValue
	rows     []rowLayout

	ints   core.IntParameterSetter
	floats core.FloatParameterSetter
	colors core.ColorParameterSetter

	status  string
	picks   chan colorPick
	picking bool
	logger  *slog.Logger
}

type colorPick struct {
	key   string
	color color.Color
	err   error
}

// NewHUD builds a panel of the given width for target. Setter interfaces
// implemented by target enable the matching rows.
func NewHUD(target core.ParameterControlsProvider, title string, width int) *HUD {
	h := &HUD{
		target: target,
		title:  title,
		width:  max(width, 0),
		picks:  make(chan colorPick, 1),
		logger: slog.With("component", "hud"),
	}
	if h.title == "" {
		h.title = "Controls"
	}
	if target == nil {
		return h
	}
	h.controls = target.ParameterControls()
	h.values = make([]controlValue, len(h.controls))
	h.rows = layoutRows(len(h.controls), h.width)
	h.ints, _ = target.(core.IntParameterSetter)
	h.floats, _ = target.(core.FloatParameterSetter)
	h.colors, _ = target.(core.ColorParameterSetter)
	return h
}

// Width reports the panel width.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update reads the current values and applies clicks. offset is the panel's
// left edge in screen coordinates.
func (h *HUD) Update(offset int) {
	if h == nil {
		return
	}
	h.offset = offset
	h.drainPicks()
	provider, ok := h.target.(core.ParameterProvider)
	if !ok {
		return
	}
	snap := provider.Parameters()
	for i, ctrl := range h.controls {
		h.values[i] = readControl(ctrl, snap)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		h.click(image.Pt(mx-h.offset, my))
	}
}

func (h *HUD) click(pt image.Point) {
	if pt.X < 0 {
		return
	}
	for i, row := range h.rows {
		if !h.values[i].ok {
			continue
		}
		ctrl := h.controls[i]
		if ctrl.Type == core.ParamTypeColor {
			if pt.In(row.swatch()) {
				h.pickColor(ctrl, h.values[i].rgb)
				return
			}
			continue
		}
		switch {
		case pt.In(row.minus):
			h.nudge(i, -1)
			return
		case pt.In(row.plus):
			h.nudge(i, 1)
			return
		}
	}
}

func (h *HUD) nudge(i, direction int) {
	ctrl := h.controls[i]
	next, ok := stepControl(ctrl, h.values[i].num, direction)
	if !ok {
		return
	}
	var accepted bool
	switch {
	case ctrl.Type == core.ParamTypeInt && h.ints != nil:
		accepted = h.ints.SetIntParameter(ctrl.Key, int(next))
	case ctrl.Type == core.ParamTypeFloat && h.floats != nil:
		accepted = h.floats.SetFloatParameter(ctrl.Key, next)
	default:
		return
	}
	if !accepted {
		h.status = "rejected " + ctrl.Key
		return
	}
	h.status = ""
	h.values[i] = controlValue{text: formatValue(ctrl, next), num: next, ok: true}
}

// pickColor runs the blocking dialog off the game loop; drainPicks applies
// the answer on a later tick.
func (h *HUD) pickColor(ctrl core.ParameterControl, initial color.RGBA) {
	if h.colors == nil || h.picking {
		return
	}
	h.picking = true
	go func() {
		c, err := dialogs.PickColor(ctrl.Label, initial)
		h.picks <- colorPick{key: ctrl.Key, color: c, err: err}
	}()
}

func (h *HUD) drainPicks() {
	var pick colorPick
	select {
	case pick = <-h.picks:
	default:
		return
	}
	h.picking = false
	switch {
	case errors.Is(pick.err, dialogs.ErrCanceled):
	case pick.err != nil:
		h.logger.Warn("Color dialog failed", "key", pick.key, "error", pick.err)
		h.status = "color dialog unavailable"
	case !h.colors.SetColorParameter(pick.key, pick.color):
		h.status = "rejected " + pick.key
	default:
		h.status = ""
	}
}

// Draw paints the panel at offsetX, height pixels tall.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panelH != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.panelH = height
	}
	h.panel.Fill(colPanel)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, colTitle)
	if len(h.controls) == 0 {
		text.Draw(h.panel, "nothing to adjust", face, panelPadding, controlsTop+labelBaseline, colMuted)
	}
	for i, row := range h.rows {
		ctrl, val := h.controls[i], h.values[i]
		baseline := row.top + labelBaseline
		text.Draw(h.panel, ctrl.Label, face, panelPadding, baseline, colText)

		valueCol := colText
		if !val.ok {
			valueCol = colMuted
		}
		w := text.BoundString(face, val.text).Dx()
		text.Draw(h.panel, val.text, face, row.minus.Min.X-buttonGap-w, baseline, valueCol)

		if ctrl.Type == core.ParamTypeColor {
			h.drawSwatch(row.swatch(), val)
			continue
		}
		_, canDown := stepControl(ctrl, val.num, -1)
		_, canUp := stepControl(ctrl, val.num, 1)
		settable := val.ok && h.settable(ctrl.Type)
		h.drawButton(row.minus, "-", settable && canDown)
		h.drawButton(row.plus, "+", settable && canUp)
	}
	if h.status != "" {
		text.Draw(h.panel, h.status, face, panelPadding, height-panelPadding, colError)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) settable(t core.ParamType) bool {
	switch t {
	case core.ParamTypeInt:
		return h.ints != nil
	case core.ParamTypeFloat:
		return h.floats != nil
	case core.ParamTypeColor:
		return h.colors != nil
	}
	return false
}

func (h *HUD) drawSwatch(r image.Rectangle, val controlValue) {
	frame := colButton
	if h.picking || !h.settable(core.ParamTypeColor) {
		frame = colButtonIdle
	}
	fillRect(h.panel, r, frame)
	if val.ok {
		fillRect(h.panel, r.Inset(2), val.rgb)
	}
}

func (h *HUD) drawButton(r image.Rectangle, label string, enabled bool) {
	bg, fg := colButton, colText
	if !enabled {
		bg, fg = colButtonIdle, colMuted
	}
	fillRect(h.panel, r, bg)
	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	text.Draw(h.panel, label, face, r.Min.X+(r.Dx()-b.Dx())/2, r.Min.Y+(r.Dy()+b.Dy())/2, fg)
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}
