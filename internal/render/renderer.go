//go:build ebiten

package render

import (
	"galaxy-gen/internal/galaxy"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CloudPainter blits a splatted point cloud and the central sun onto an ebiten
// image.
type CloudPainter struct {
	canvas *Canvas
	img    *ebiten.Image
}

// NewCloudPainter constructs a painter; buffers follow the screen size.
func NewCloudPainter() *CloudPainter {
	return &CloudPainter{canvas: NewCanvas(0, 0)}
}

// Draw renders cloud as seen from cam, rotated by spin radians about Y.
func (p *CloudPainter) Draw(screen *ebiten.Image, cloud *galaxy.PointCloud, cam *Camera, spin float64) {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if p.img == nil || p.img.Bounds().Dx() != w || p.img.Bounds().Dy() != h {
		p.img = ebiten.NewImage(w, h)
	}
	p.canvas.Resize(w, h)
	p.canvas.Clear()

	proj := NewProjector(cam, w, h, spin)
	if cloud != nil {
		p.canvas.DrawCloud(cloud, proj, cloud.Params.Size)
	}
	p.img.WritePixels(p.canvas.Pixels())
	screen.DrawImage(p.img, nil)

	if cloud == nil {
		return
	}
	sx, sy, depth, ok := proj.Project(cloud.Sun.Position[0], cloud.Sun.Position[1], cloud.Sun.Position[2])
	if !ok {
		return
	}
	radius := proj.Length(float32(cloud.Sun.Radius), depth)
	vector.DrawFilledCircle(screen, sx, sy, radius, cloud.Sun.Color.RGBA(), true)
}
