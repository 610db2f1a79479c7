//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"galaxy-gen/internal/galaxy"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws the statistics block and key help on top of the galaxy view.
type Overlay struct {
	show   bool
	stats  galaxy.Stats
	preset string
	params galaxy.Params
	pixel  *ebiten.Image
}

// NewOverlay constructs a new overlay instance, visible by default.
func NewOverlay() *Overlay {
	o := &Overlay{show: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// SetCloud recomputes the cached statistics. It is called once per new
// cloud rather than every frame.
func (o *Overlay) SetCloud(cloud *galaxy.PointCloud) {
	o.stats = cloud.Stats()
	if cloud != nil {
		o.params = cloud.Params
	}
}

// SetPreset records the name of the preset last applied.
func (o *Overlay) SetPreset(name string) { o.preset = name }

// Update toggles visibility.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.show = !o.show
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show {
		return
	}
	face := basicfont.Face7x13
	lines := StatsLines(o.stats, o.preset, ebiten.ActualFPS(), ebiten.ActualTPS())

	const (
		pad    = 8
		lineH  = 16
		histH  = 40
		panelW = 240
	)
	panelH := pad*2 + lineH*len(lines) + histH + pad
	o.drawRect(screen, 0, 0, panelW, panelH, color.RGBA{A: 150})
	for i, line := range lines {
		text.Draw(screen, line, face, pad, pad+lineH*(i+1)-4, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}

	area := image.Rect(pad, panelH-pad-histH, panelW-pad, panelH-pad)
	inside, outside := o.params.InsideColor, o.params.OutsideColor
	bars := ArmBars(o.stats.ArmCounts, area)
	for i, bar := range bars {
		t := 0.0
		if len(bars) > 1 {
			t = float64(i) / float64(len(bars)-1)
		}
		col := inside.Lerp(outside, t).RGBA()
		vector.DrawFilledRect(screen, float32(bar.Min.X), float32(bar.Min.Y), float32(bar.Dx()), float32(bar.Dy()), col, false)
	}

	h := screen.Bounds().Dy()
	helpTop := h - pad - lineH*len(KeyHelp)
	o.drawRect(screen, 0, helpTop-pad, 150, h-helpTop+pad, color.RGBA{A: 120})
	for i, line := range KeyHelp {
		text.Draw(screen, line, face, pad, helpTop+lineH*(i+1)-4, color.RGBA{R: 170, G: 170, B: 180, A: 255})
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h int, col color.RGBA) {
	if o.pixel == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
