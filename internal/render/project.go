package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Projector maps world coordinates to screen pixels for one frame.
type Projector struct {
	mvp    mgl32.Mat4
	width  float32
	height float32
	scale  float32
	focal  float32
}

// NewProjector combines the camera with a turntable rotation of spin radians
// about the Y axis.
func NewProjector(cam *Camera, width, height int, spin float64) Projector {
	w, h := float32(width), float32(height)
	aspect := float32(1)
	if h > 0 {
		aspect = w / h
	}
	model := mgl32.HomogRotate3DY(float32(spin))
	halfFOV := float64(mgl32.DegToRad(cam.FOV)) / 2
	return Projector{
		mvp:    cam.Projection(aspect).Mul4(cam.View()).Mul4(model),
		width:  w,
		height: h,
		scale:  h / 2,
		focal:  h / 2 / float32(math.Tan(halfFOV)),
	}
}

// Project returns the pixel position and view depth of a world point. ok is
// false when the point lies outside the view frustum.
func (p Projector) Project(x, y, z float32) (sx, sy, depth float32, ok bool) {
	clip := p.mvp.Mul4x1(mgl32.Vec4{x, y, z, 1})
	w := clip.W()
	if w <= 0 {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip.X()/w, clip.Y()/w, clip.Z()/w
	if nz < -1 || nz > 1 {
		return 0, 0, 0, false
	}
	sx = (nx + 1) * 0.5 * p.width
	sy = (1 - ny) * 0.5 * p.height
	return sx, sy, w, true
}

// PointSize converts a world-space size at the given depth into pixels, so
// nearer points draw larger.
func (p Projector) PointSize(size, depth float32) float32 {
	if depth <= 0 {
		return 0
	}
	return size * p.scale / depth
}

// Length converts a world-space length at the given depth into pixels using
// the true perspective scale.
func (p Projector) Length(length, depth float32) float32 {
	if depth <= 0 {
		return 0
	}
	return length * p.focal / depth
}
