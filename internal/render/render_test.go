package render

import (
	"math"
	"testing"

	"galaxy-gen/internal/galaxy"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultCameraStartsAtThreeThreeThree(t *testing.T) {
	cam := DefaultCamera()
	eye := cam.Eye()
	if !eye.ApproxEqualThreshold(mgl32.Vec3{3, 3, 3}, 1e-4) {
		t.Fatalf("eye = %v", eye)
	}
	if cam.FOV != 75 || cam.Near != 0.1 || cam.Far != 100 {
		t.Fatalf("unexpected lens %+v", cam)
	}
}

func TestCameraEasesTowardsGoal(t *testing.T) {
	cam := DefaultCamera()
	start := cam.Eye()
	cam.Orbit(math.Pi/2, 0)
	cam.Update()
	mid := cam.Eye()
	if mid.ApproxEqualThreshold(start, 1e-5) {
		t.Fatal("camera did not move after an orbit")
	}
	for i := 0; i < 200 && !cam.Settled(); i++ {
		cam.Update()
	}
	if !cam.Settled() {
		t.Fatal("camera never settled")
	}
	if d := cam.Eye().Len(); math.Abs(float64(d)-math.Sqrt(27)) > 1e-3 {
		t.Fatalf("orbit changed the distance to %f", d)
	}
}

func TestCameraZoomAndElevationLimits(t *testing.T) {
	cam := DefaultCamera()
	cam.Smoothing = 1
	cam.Zoom(1e-6)
	cam.Orbit(0, 10)
	cam.Update()
	if d := cam.Eye().Len(); math.Abs(float64(d)-minDistance) > 1e-4 {
		t.Fatalf("distance %f, want %f", d, minDistance)
	}
	if cam.elevation > maxElevation {
		t.Fatalf("elevation %f exceeds limit", cam.elevation)
	}
}

func TestProjectorCentresTarget(t *testing.T) {
	p := NewProjector(DefaultCamera(), 800, 600, 0)
	sx, sy, depth, ok := p.Project(0, 0, 0)
	if !ok {
		t.Fatal("origin should be visible")
	}
	if math.Abs(float64(sx-400)) > 0.01 || math.Abs(float64(sy-300)) > 0.01 {
		t.Fatalf("origin projected to (%f, %f)", sx, sy)
	}
	if math.Abs(float64(depth)-math.Sqrt(27)) > 1e-3 {
		t.Fatalf("depth %f", depth)
	}
	if _, _, _, ok := p.Project(6, 6, 6); ok {
		t.Fatal("point behind the camera should be culled")
	}
}

func TestPointSizeAttenuates(t *testing.T) {
	p := NewProjector(DefaultCamera(), 800, 600, 0)
	near := p.PointSize(0.01, 1)
	far := p.PointSize(0.01, 2)
	if math.Abs(float64(near-3)) > 1e-5 || math.Abs(float64(far-1.5)) > 1e-5 {
		t.Fatalf("sizes near=%f far=%f", near, far)
	}
	if p.PointSize(1, 0) != 0 {
		t.Fatal("zero depth must not produce a size")
	}
}

func TestSpinRotatesAboutY(t *testing.T) {
	cam := DefaultCamera()
	still := NewProjector(cam, 800, 600, 0)
	turned := NewProjector(cam, 800, 600, math.Pi/2)
	// Rotating (1,0,0) by 90° about Y lands on (0,0,-1).
	ax, ay, _, _ := turned.Project(1, 0, 0)
	bx, by, _, _ := still.Project(0, 0, -1)
	if math.Abs(float64(ax-bx)) > 0.01 || math.Abs(float64(ay-by)) > 0.01 {
		t.Fatalf("got (%f,%f), want (%f,%f)", ax, ay, bx, by)
	}
}

func TestSplatIsAdditive(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Clear()
	c.Splat(1.5, 1.5, 1, 0.3, 0.2, 0.1)
	c.Splat(1.5, 1.5, 1, 0.3, 0.2, 0.1)
	got := c.At(1, 1)
	if got.R != 153 || got.G != 102 || got.B != 51 {
		t.Fatalf("pixel = %v", got)
	}
	for i := 0; i < 10; i++ {
		c.Splat(1.5, 1.5, 1, 0.3, 0.2, 0.1)
	}
	if got := c.At(1, 1); got.R != 255 {
		t.Fatalf("pixel should saturate, got %v", got)
	}
	if got := c.At(0, 0); got.R != 0 || got.A != 255 {
		t.Fatalf("untouched pixel = %v", got)
	}
}

func TestSplatCoverageAndClipping(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Clear()
	c.Splat(4, 4, 2, 1, 1, 1)
	lit := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if c.At(x, y).R > 0 {
				lit++
			}
		}
	}
	if lit != 4 {
		t.Fatalf("2px splat lit %d pixels", lit)
	}
	c.Splat(-3, -3, 4, 1, 1, 1)
	c.Splat(100, 2, 0.5, 1, 1, 1)
	c.Splat(7.5, 7.5, 3, 1, 1, 1)
	c.Splat(2, 2, 0.5, 1, 0, 0)
	if got := c.At(2, 2); got.R != 64 {
		t.Fatalf("sub-pixel splat = %v", got)
	}
}

func TestDrawCloudLightsCentre(t *testing.T) {
	p := galaxy.DefaultParams()
	p.Count = 2000
	cloud := galaxy.GenerateSeeded(p, 1)
	c := NewCanvas(64, 48)
	c.Clear()
	c.DrawCloud(cloud, NewProjector(DefaultCamera(), 64, 48, 0), 0.05)
	block := func(x0, y0 int) int {
		sum := 0
		for y := y0; y < y0+8; y++ {
			for x := x0; x < x0+8; x++ {
				px := c.At(x, y)
				sum += int(px.R) + int(px.G) + int(px.B)
			}
		}
		return sum
	}
	if block(28, 20) <= block(0, 0) {
		t.Fatal("galactic centre should be brighter than the corner")
	}
	pix := c.Pixels()
	if len(pix) != 64*48*4 {
		t.Fatalf("pixel buffer length %d", len(pix))
	}
}

func TestResizeReallocates(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Resize(3, 5)
	if w, h := c.Size(); w != 3 || h != 5 || len(c.Pixels()) != 60 {
		t.Fatalf("resize gave %dx%d", w, h)
	}
	c.Resize(-1, 4)
	if w, _ := c.Size(); w != 0 {
		t.Fatalf("negative width kept: %d", w)
	}
}

func TestLengthMatchesProjection(t *testing.T) {
	cam := DefaultCamera()
	p := NewProjector(cam, 800, 600, 0)
	// A unit offset along the camera's right vector at the target.
	right := cam.Target.Sub(cam.Eye()).Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	cx, cy, depth, _ := p.Project(0, 0, 0)
	rx, ry, _, _ := p.Project(right.X()*0.1, right.Y()*0.1, right.Z()*0.1)
	got := math.Hypot(float64(rx-cx), float64(ry-cy))
	want := float64(p.Length(0.1, depth))
	if math.Abs(got-want) > 0.05 {
		t.Fatalf("projected length %f, want %f", got, want)
	}
}
