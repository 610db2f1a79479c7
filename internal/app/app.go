//go:build ebiten

package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"sync"

	"galaxy-gen/internal/core"
	"galaxy-gen/internal/export"
	"galaxy-gen/internal/galaxy"
	"galaxy-gen/internal/render"
	"galaxy-gen/internal/ui"
	"galaxy-gen/internal/ui/dialogs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	hudWidth = 260

	// radians of orbit per pixel of mouse drag
	dragSensitivity = 0.005
	zoomStep        = 0.9
)

// Game adapts a galaxy editor to the ebiten.Game interface.
type Game struct {
	editor    *galaxy.Editor
	painter   *render.CloudPainter
	camera    *render.Camera
	turntable *core.Turntable
	hud       *ui.HUD
	overlay   *ui.Overlay

	mu      sync.Mutex
	pending *galaxy.PointCloud
	retired []*galaxy.PointCloud
	cloud   *galaxy.PointCloud

	presets   []string
	presetIdx int

	exports   chan error
	exporting bool

	dragging     bool
	lastX, lastY int
	width        int
	height       int
	logger       *slog.Logger
}

// New builds a Game around p, generates the first cloud and returns it ready
// to run. seed 0 draws a fresh seed per regeneration.
func New(p galaxy.Params, seed uint64, workers int, preset string) (*Game, error) {
	g := &Game{
		painter:   render.NewCloudPainter(),
		camera:    render.DefaultCamera(),
		turntable: core.NewTurntable(p.RotationSpeed),
		overlay:   ui.NewOverlay(),
		presets:   galaxy.Presets(),
		exports:   make(chan error, 1),
		logger:    slog.With("component", "viewer"),
	}
	opts := []galaxy.EditorOption{
		galaxy.WithReplacer(g),
		galaxy.WithWorkers(workers),
		galaxy.WithLogger(slog.Default()),
	}
	if seed != 0 {
		opts = append(opts, galaxy.WithSeed(seed))
	}
	editor, err := galaxy.NewEditor(p, opts...)
	if err != nil {
		return nil, err
	}
	g.editor = editor
	g.hud = ui.NewHUD(editor, "Galaxy", hudWidth)
	for i, name := range g.presets {
		if name == preset {
			g.presetIdx = i
		}
	}
	g.overlay.SetPreset(preset)
	if err := editor.Regenerate(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

// Replace implements galaxy.Replacer. The new cloud is swapped in by the next
// Update; superseded clouds are released once nothing can draw them.
func (g *Game) Replace(prev, next *galaxy.PointCloud) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = next
	if prev != nil {
		g.retired = append(g.retired, prev)
	}
}

func (g *Game) swapCloud() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		g.cloud = g.pending
		g.pending = nil
		g.overlay.SetCloud(g.cloud)
	}
	if g.exporting {
		return
	}
	for _, c := range g.retired {
		if c != g.cloud {
			c.Release()
		}
	}
	g.retired = g.retired[:0]
}

// Update handles per-frame logic.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	ctx := context.Background()
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.editor.Reseed(ctx, core.AutoSeed()); err != nil {
			g.logger.Error("Reseed failed", "error", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) && len(g.presets) > 0 {
		g.presetIdx = (g.presetIdx + 1) % len(g.presets)
		name := g.presets[g.presetIdx]
		if err := g.editor.ApplyPreset(ctx, name); err != nil {
			g.logger.Error("Preset failed", "preset", name, "error", err)
		} else {
			g.overlay.SetPreset(name)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.startExport()
	}
	g.collectExport()

	viewW := g.viewWidth()
	g.hud.Update(viewW)
	g.overlay.Update()
	g.handleCamera(viewW)

	g.swapCloud()
	g.turntable.SetSpeed(g.editor.Params().RotationSpeed)
	g.turntable.Tick()
	return nil
}

func (g *Game) handleCamera(viewW int) {
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && mx < viewW {
		g.dragging = true
		g.lastX, g.lastY = mx, my
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging {
		dx, dy := mx-g.lastX, my-g.lastY
		if dx != 0 || dy != 0 {
			g.camera.Orbit(float64(dx)*dragSensitivity, float64(dy)*dragSensitivity)
		}
		g.lastX, g.lastY = mx, my
	}
	if _, wy := ebiten.Wheel(); wy != 0 && mx < viewW {
		g.camera.Zoom(math.Pow(zoomStep, wy))
	}
	g.camera.Update()
}

// startExport asks for a destination and writes the current cloud without
// blocking the render loop.
func (g *Game) startExport() {
	g.mu.Lock()
	cloud := g.cloud
	if g.exporting || cloud == nil {
		g.mu.Unlock()
		return
	}
	g.exporting = true
	g.mu.Unlock()

	exts := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		exts = append(exts, f.Extension())
	}
	name := fmt.Sprintf("galaxy-%d%s", cloud.Seed, exts[0])
	go func() {
		g.exports <- exportTo(cloud, name, exts)
	}()
}

func exportTo(cloud *galaxy.PointCloud, name string, exts []string) error {
	path, err := dialogs.SaveFile("Export galaxy", name, exts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(f, export.FormatForPath(path), cloud); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("Galaxy exported", "path", path, "count", cloud.Len(), "seed", cloud.Seed)
	return nil
}

func (g *Game) collectExport() {
	select {
	case err := <-g.exports:
		g.mu.Lock()
		g.exporting = false
		g.mu.Unlock()
		if err == nil || errors.Is(err, dialogs.ErrCanceled) {
			return
		}
		g.logger.Error("Export failed", "error", err)
		go func() {
			if nerr := dialogs.NotifyError("Export failed", err); nerr != nil {
				g.logger.Warn("Could not show export error", "error", nerr)
			}
		}()
	default:
	}
}

func (g *Game) viewWidth() int {
	return max(g.width-g.hud.Width(), 0)
}

// Draw renders the galaxy, the HUD panel and the overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	viewW := g.viewWidth()
	view := screen.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+viewW, b.Max.Y)).(*ebiten.Image)
	g.painter.Draw(view, g.cloud, g.camera, g.turntable.Angle())
	g.overlay.Draw(view)
	g.hud.Draw(screen, viewW, b.Dy())
}

// Layout follows the window size; the HUD takes a fixed strip on the right.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
