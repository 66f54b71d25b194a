// Package draw is the drawing side of the display adapter: the [Target] capability contract
// and primitives that render onto any Target.
//
// Primitives produce pixel streams ([iter.Seq] of [Pixel]) or fill requests, never
// touch hardware directly, and never fail. Pixels outside the target are the target's
// problem: implementations drop them silently.
package draw

import (
	"image"
	"image/color"
	"iter"

	"github.com/BeatGlow/braindisplay/pixel"
)

// Pixel is a single colored point.
type Pixel struct {
	Point image.Point
	Color pixel.RGB888
}

// Target is a canvas primitives can be drawn on.
type Target interface {
	// Bounds is the origin anchored target size.
	Bounds() image.Rectangle

	// DrawIter draws pixels in order; a later pixel at the same position wins.
	DrawIter(pixels iter.Seq[Pixel])

	// FillContiguous fills r with colors in row-major order, starting at r.Min.
	FillContiguous(r image.Rectangle, colors iter.Seq[pixel.RGB888])

	// FillSolid fills r with a single color.
	FillSolid(r image.Rectangle, c pixel.RGB888)
}

// Pixels turns a slice into a pixel stream.
func Pixels(pixels ...Pixel) iter.Seq[Pixel] {
	return func(yield func(Pixel) bool) {
		for _, p := range pixels {
			if !yield(p) {
				return
			}
		}
	}
}

// Colors turns a slice into a color stream.
func Colors(colors ...pixel.RGB888) iter.Seq[pixel.RGB888] {
	return func(yield func(pixel.RGB888) bool) {
		for _, c := range colors {
			if !yield(c) {
				return
			}
		}
	}
}

// Clear fills the whole target with c.
//
// There is no clear operation on the hardware that accepts a color, so this is a
// solid fill over the target bounds.
func Clear(dst Target, c color.Color) {
	dst.FillSolid(dst.Bounds(), pixel.ToRGB888(c))
}

// Image blits the part of src starting at sp onto r in dst, using a single contiguous fill.
func Image(dst Target, r image.Rectangle, src image.Image, sp image.Point) {
	if r.Empty() {
		return
	}
	dst.FillContiguous(r, func(yield func(pixel.RGB888) bool) {
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				var c pixel.RGB888
				if rgb, ok := src.(*pixel.RGB888Image); ok {
					c = rgb.RGB888At(sp.X+x, sp.Y+y)
				} else {
					c = pixel.ToRGB888(src.At(sp.X+x, sp.Y+y))
				}
				if !yield(c) {
					return
				}
			}
		}
	})
}
