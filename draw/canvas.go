package draw

import (
	"image"
	"iter"

	"github.com/BeatGlow/braindisplay/pixel"
)

// Canvas is an offscreen Target backed by an image.
type Canvas struct {
	*pixel.RGB888Image
}

// NewCanvas returns a black canvas of w by h pixels.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{pixel.NewRGB888Image(w, h)}
}

func (c *Canvas) DrawIter(pixels iter.Seq[Pixel]) {
	for p := range pixels {
		c.SetRGB888(p.Point.X, p.Point.Y, p.Color)
	}
}

func (c *Canvas) FillContiguous(r image.Rectangle, colors iter.Seq[pixel.RGB888]) {
	if r.Empty() {
		return
	}
	x, y := r.Min.X, r.Min.Y
	for v := range colors {
		c.SetRGB888(x, y, v)
		if x++; x == r.Max.X {
			x = r.Min.X
			if y++; y == r.Max.Y {
				return
			}
		}
	}
}

func (c *Canvas) FillSolid(r image.Rectangle, v pixel.RGB888) {
	c.FillRect(r, v.Storage())
}

var _ Target = (*Canvas)(nil)
