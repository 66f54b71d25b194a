package demo

import (
	"fmt"
	"image"
	"iter"
	"time"

	"github.com/BeatGlow/braindisplay/draw"
	"github.com/BeatGlow/braindisplay/pixel"
)

// Pattern is a scrolling gradient inside a box around the edge of the display.
type Pattern struct {
	bounds image.Rectangle
	logo   image.Image
}

// NewPattern fills bounds.
func NewPattern(bounds image.Rectangle) (Scene, error) {
	if bounds.Dx() < 3 || bounds.Dy() < 3 {
		return nil, fmt.Errorf("demo: display %s is too small for a pattern", bounds.Size())
	}
	return &Pattern{
		bounds: bounds,
		logo:   logoImage(bounds.Size()),
	}, nil
}

func (p *Pattern) Draw(dst draw.Target, t time.Duration) {
	offset := int(t / (50 * time.Millisecond))

	// Box around edge
	draw.Rectangle(dst, p.bounds, pixel.White)

	// Gradient inside box
	inner := p.bounds.Inset(1)
	dst.FillContiguous(inner, gradient(inner, offset))

	// Logo in the middle.
	size := p.logo.Bounds().Size()
	pos := image.Rectangle{
		Min: image.Pt(
			p.bounds.Min.X+p.bounds.Dx()/2-size.X/2,
			p.bounds.Min.Y+p.bounds.Dy()/2-size.Y/2,
		),
	}
	pos.Max = pos.Min.Add(size)
	draw.Image(dst, pos, p.logo, image.Point{})
}

func gradient(r image.Rectangle, offset int) iter.Seq[pixel.RGB888] {
	return func(yield func(pixel.RGB888) bool) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if !yield(pixel.RGB(uint8(x+y+offset), uint8(x-y+offset), uint8(x+y-offset))) {
					return
				}
			}
		}
	}
}

// logoImage is a rounded badge scaled to a third of the display.
func logoImage(size image.Point) image.Image {
	var (
		w      = max(size.X/3, 8)
		h      = max(size.Y/3, 8)
		canvas = draw.NewCanvas(w, h)
		r      = canvas.Bounds()
	)
	draw.RoundedBox(canvas, r, min(w, h)/4, pixel.RGB(0x00, 0xad, 0xd8))
	draw.RoundedRectangle(canvas, r, min(w, h)/4, pixel.White)
	draw.FilledCircle(canvas, image.Pt(w/3, h/2), min(w, h)/3, pixel.White)
	draw.FilledCircle(canvas, image.Pt(w*2/3, h/2), min(w, h)/3, pixel.White)
	draw.FilledCircle(canvas, image.Pt(w/3, h/2), min(w, h)/8, pixel.Black)
	draw.FilledCircle(canvas, image.Pt(w*2/3, h/2), min(w, h)/8, pixel.Black)
	return canvas.RGB888Image
}
