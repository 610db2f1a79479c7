package render

import (
	"image/color"
	"math"

	"galaxy-gen/internal/galaxy"
)

// Canvas accumulates additive light per pixel and resolves it into an RGBA
// byte buffer. Overlapping points brighten each other and saturate at white.
type Canvas struct {
	width, height int
	accum         []float32
	pix           []byte
	background    color.RGBA
}

// NewCanvas allocates a canvas cleared to black.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{background: color.RGBA{A: 255}}
	c.Resize(width, height)
	return c
}

// Resize reallocates the buffers when the dimensions change.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == c.width && height == c.height && c.accum != nil {
		return
	}
	c.width, c.height = width, height
	c.accum = make([]float32, 3*width*height)
	c.pix = make([]byte, 4*width*height)
}

// Size reports the canvas dimensions.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Clear resets the accumulated light to the background.
func (c *Canvas) Clear() {
	r := float32(c.background.R) / 255
	g := float32(c.background.G) / 255
	b := float32(c.background.B) / 255
	for i := 0; i < len(c.accum); i += 3 {
		c.accum[i] = r
		c.accum[i+1] = g
		c.accum[i+2] = b
	}
}

// Splat adds a square point of the given pixel size centred on (sx, sy).
// Points smaller than a pixel contribute in proportion to their area.
func (c *Canvas) Splat(sx, sy, size, r, g, b float32) {
	if size <= 0 {
		return
	}
	if size < 1 {
		x, y := int(sx), int(sy)
		if sx < 0 || sy < 0 || x >= c.width || y >= c.height {
			return
		}
		c.add(y*c.width+x, r, g, b, size*size)
		return
	}
	half := size / 2
	x0 := int(math.Floor(float64(sx - half + 0.5)))
	y0 := int(math.Floor(float64(sy - half + 0.5)))
	n := int(math.Round(float64(size)))
	for y := max(y0, 0); y < min(y0+n, c.height); y++ {
		row := y * c.width
		for x := max(x0, 0); x < min(x0+n, c.width); x++ {
			c.add(row+x, r, g, b, 1)
		}
	}
}

func (c *Canvas) add(idx int, r, g, b, weight float32) {
	o := 3 * idx
	c.accum[o] += r * weight
	c.accum[o+1] += g * weight
	c.accum[o+2] += b * weight
}

// DrawCloud projects and splats every point of cloud. size is the world-space
// point size; the on-screen size shrinks with distance from the camera.
func (c *Canvas) DrawCloud(cloud *galaxy.PointCloud, proj Projector, size float64) {
	n := cloud.Len()
	for i := 0; i < n; i++ {
		x, y, z := cloud.Position(i)
		sx, sy, depth, ok := proj.Project(x, y, z)
		if !ok {
			continue
		}
		r, g, b := cloud.Color(i)
		c.Splat(sx, sy, proj.PointSize(float32(size), depth), r, g, b)
	}
}

// Pixels resolves the accumulated light into RGBA bytes. The returned slice is
// reused by the next call.
func (c *Canvas) Pixels() []byte {
	for i, j := 0, 0; i < len(c.accum); i, j = i+3, j+4 {
		c.pix[j+0] = toByte(c.accum[i])
		c.pix[j+1] = toByte(c.accum[i+1])
		c.pix[j+2] = toByte(c.accum[i+2])
		c.pix[j+3] = 255
	}
	return c.pix
}

// At returns the resolved color of one pixel.
func (c *Canvas) At(x, y int) color.RGBA {
	o := 3 * (y*c.width + x)
	return color.RGBA{
		R: toByte(c.accum[o]),
		G: toByte(c.accum[o+1]),
		B: toByte(c.accum[o+2]),
		A: 255,
	}
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
