package galaxy

import (
	"math"

	"galaxy-gen/internal/core"
)

// SunRadius is the fixed radius of the galactic-centre marker. It does not
// follow the point size parameter.
const SunRadius = 0.08

// Sun marks the galactic centre.
type Sun struct {
	Position [3]float32 `json:"position"`
	Color    Color      `json:"color"`
	Radius   float64    `json:"radius"`
}

func newSun(p Params) Sun {
	return Sun{Color: p.InsideColor, Radius: SunRadius}
}

// PointCloud is the result of one generation. Buffers are owned by whoever
// holds the cloud and must not be modified after generation.
type PointCloud struct {
	Positions core.Vec3Buffer
	Colors    core.Vec3Buffer
	Sun       Sun
	Seed      uint64
	Params    Params
}

// Len reports the number of points.
func (c *PointCloud) Len() int {
	if c == nil {
		return 0
	}
	return c.Positions.Len()
}

// Position returns the coordinates of point i.
func (c *PointCloud) Position(i int) (x, y, z float32) {
	return c.Positions.At(i)
}

// Color returns the RGB channels of point i.
func (c *PointCloud) Color(i int) (r, g, b float32) {
	return c.Colors.At(i)
}

// Release drops the buffers so the memory can be reclaimed once the cloud has
// been superseded. It is safe to call on a nil cloud.
func (c *PointCloud) Release() {
	if c == nil {
		return
	}
	c.Positions = nil
	c.Colors = nil
}

// Bounds returns the axis-aligned box enclosing every point. An empty cloud
// reports a zero box.
func (c *PointCloud) Bounds() (lo, hi [3]float32) {
	s := c.Stats()
	return s.Min, s.Max
}

// Stats summarises a generated cloud.
type Stats struct {
	Count      int        `json:"count"`
	Seed       uint64     `json:"seed"`
	ArmCounts  []int      `json:"armCounts"`
	MaxRadius  float64    `json:"maxRadius"`
	MeanRadius float64    `json:"meanRadius"`
	Min        [3]float32 `json:"min"`
	Max        [3]float32 `json:"max"`
}

// Stats computes the per-arm membership and the extent of the cloud. Radii are
// measured in the XZ plane of the disk.
func (c *PointCloud) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	s := Stats{Count: c.Len(), Seed: c.Seed}
	if arms := c.Params.Arms; arms > 0 {
		s.ArmCounts = make([]int, arms)
	}
	n := c.Len()
	if n == 0 {
		return s
	}
	s.Min = [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	s.Max = [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	var sum float64
	for i := 0; i < n; i++ {
		x, y, z := c.Positions.At(i)
		for axis, v := range [3]float32{x, y, z} {
			s.Min[axis] = min(s.Min[axis], v)
			s.Max[axis] = max(s.Max[axis], v)
		}
		r := math.Hypot(float64(x), float64(z))
		sum += r
		s.MaxRadius = math.Max(s.MaxRadius, r)
		if s.ArmCounts != nil {
			s.ArmCounts[i%len(s.ArmCounts)]++
		}
	}
	s.MeanRadius = sum / float64(n)
	return s
}
