package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Default viewing parameters for the galaxy viewer.
const (
	DefaultFOV       = 75
	DefaultNear      = 0.1
	DefaultFar       = 100
	DefaultSmoothing = 0.15

	minDistance  = 0.5
	maxDistance  = 40
	maxElevation = 1.5
)

// Camera orbits a target point. Input moves the goal angles; Update eases the
// current angles towards them so motion continues briefly after a drag ends.
type Camera struct {
	Target    mgl32.Vec3
	FOV       float32 // vertical, degrees
	Near, Far float32
	Smoothing float32 // fraction of the remaining distance covered per update

	azimuth, elevation, distance float64
	goalAz, goalEl, goalDist     float64
}

// NewCamera places the camera at eye looking at the origin.
func NewCamera(eye mgl32.Vec3) *Camera {
	c := &Camera{
		FOV:       DefaultFOV,
		Near:      DefaultNear,
		Far:       DefaultFar,
		Smoothing: DefaultSmoothing,
	}
	c.LookFrom(eye)
	return c
}

// DefaultCamera starts at (3, 3, 3).
func DefaultCamera() *Camera {
	return NewCamera(mgl32.Vec3{3, 3, 3})
}

// LookFrom jumps to eye without easing.
func (c *Camera) LookFrom(eye mgl32.Vec3) {
	rel := eye.Sub(c.Target)
	dist := float64(rel.Len())
	if dist == 0 {
		dist = minDistance
	}
	c.distance = dist
	c.azimuth = math.Atan2(float64(rel.Z()), float64(rel.X()))
	c.elevation = math.Asin(clampFloat(float64(rel.Y())/dist, -1, 1))
	c.goalAz, c.goalEl, c.goalDist = c.azimuth, c.elevation, c.distance
}

// Orbit rotates the goal by the given angles in radians.
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	c.goalAz += dAzimuth
	c.goalEl = clampFloat(c.goalEl+dElevation, -maxElevation, maxElevation)
}

// Zoom scales the goal distance. Factors below one move closer.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.goalDist = clampFloat(c.goalDist*factor, minDistance, maxDistance)
}

// Update advances the eased angles by one step.
func (c *Camera) Update() {
	k := float64(c.Smoothing)
	if k <= 0 || k > 1 {
		k = 1
	}
	c.azimuth += (c.goalAz - c.azimuth) * k
	c.elevation += (c.goalEl - c.elevation) * k
	c.distance += (c.goalDist - c.distance) * k
}

// Settled reports whether the eased state has reached the goal.
func (c *Camera) Settled() bool {
	const eps = 1e-4
	return math.Abs(c.goalAz-c.azimuth) < eps &&
		math.Abs(c.goalEl-c.elevation) < eps &&
		math.Abs(c.goalDist-c.distance) < eps
}

// Eye returns the current camera position.
func (c *Camera) Eye() mgl32.Vec3 {
	x := c.distance * math.Cos(c.azimuth) * math.Cos(c.elevation)
	y := c.distance * math.Sin(c.elevation)
	z := c.distance * math.Sin(c.azimuth) * math.Cos(c.elevation)
	return c.Target.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
