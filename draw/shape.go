package draw

import (
	"image"
	"image/color"
	"iter"

	"github.com/BeatGlow/braindisplay/pixel"
)

// Line draws a line between two points.
func Line(dst Target, a, b image.Point, c color.Color) {
	dst.DrawIter(LinePixels(a, b, pixel.ToRGB888(c)))
}

// LinePixels returns the pixels on the line between a and b, both ends included.
func LinePixels(a, b image.Point, c pixel.RGB888) iter.Seq[Pixel] {
	return func(yield func(Pixel) bool) {
		bresenham(a.X, a.Y, b.X, b.Y, plotter(c, yield))
	}
}

// HorizontalLine draws a line between (x,y) and (x+w,y).
func HorizontalLine(dst Target, x, y, w int, c color.Color) {
	dst.FillSolid(image.Rect(x, y, x+w, y+1), pixel.ToRGB888(c))
}

// VerticalLine draws a line between (x,y) and (x,y+h).
func VerticalLine(dst Target, x, y, h int, c color.Color) {
	dst.FillSolid(image.Rect(x, y, x+1, y+h), pixel.ToRGB888(c))
}

// Rectangle draws a rectangle outline.
func Rectangle(dst Target, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	var (
		x = rect.Min.X
		y = rect.Min.Y
		w = rect.Dx()
		h = rect.Dy()
	)
	HorizontalLine(dst, x, y, w, c)
	HorizontalLine(dst, x, y+h-1, w, c)
	VerticalLine(dst, x, y, h, c)
	VerticalLine(dst, x+w-1, y, h, c)
}

// RoundedRectangle draws a rectangle with radius pixels rounded corners.
func RoundedRectangle(dst Target, rect image.Rectangle, radius int, c color.Color) {
	rect = rect.Canon()
	var (
		r = clampRadius(rect, radius)
		x = rect.Min.X
		y = rect.Min.Y
		w = rect.Dx()
		h = rect.Dy()
	)
	if rect.Empty() {
		return
	}
	if r == 0 {
		Rectangle(dst, rect, c)
		return
	}
	HorizontalLine(dst, x+r, y, w-2*r, c)
	HorizontalLine(dst, x+r, y+h-1, w-2*r, c)
	VerticalLine(dst, x, y+r, h-2*r, c)
	VerticalLine(dst, x+w-1, y+r, h-2*r, c)

	rgb := pixel.ToRGB888(c)
	dst.DrawIter(func(yield func(Pixel) bool) {
		plot := plotter(rgb, yield)
		_ = roundedCorner(x+0+r+0, y+0+r+0, r, 1, plot) &&
			roundedCorner(x+w-r-1, y+0+r+0, r, 2, plot) &&
			roundedCorner(x+w-r-1, y+h-r-1, r, 4, plot) &&
			roundedCorner(x+0+r+0, y+h-r-1, r, 8, plot)
	})
}

// Box draws a filled rectangle.
func Box(dst Target, rect image.Rectangle, c color.Color) {
	dst.FillSolid(rect.Canon(), pixel.ToRGB888(c))
}

// RoundedBox draws a filled rectangle with radius pixels rounded corners.
func RoundedBox(dst Target, rect image.Rectangle, radius int, c color.Color) {
	rect = rect.Canon()
	var (
		r = clampRadius(rect, radius)
		x = rect.Min.X
		y = rect.Min.Y
		w = rect.Dx()
		h = rect.Dy()
	)
	if rect.Empty() {
		return
	}
	// Center band, then the rounded left and right ends.
	Box(dst, image.Rect(x+r, y, x+w-r, y+h), c)
	Box(dst, image.Rect(x, y+r, x+r, y+h-r), c)
	Box(dst, image.Rect(x+w-r, y+r, x+w, y+h-r), c)

	rgb := pixel.ToRGB888(c)
	filledRoundedCorner(dst, x+w-r-1, y+r, r, 1, h-2*r-1, rgb)
	filledRoundedCorner(dst, x+r, y+r, r, 2, h-2*r-1, rgb)
}

// Circle draws a circle outline with the given diameter, centered on center.
func Circle(dst Target, center image.Point, diameter int, c color.Color) {
	if diameter <= 0 {
		return
	}
	rgb := pixel.ToRGB888(c)
	radius := diameter / 2
	dst.DrawIter(func(yield func(Pixel) bool) {
		plot := plotter(rgb, yield)
		if radius == 0 {
			plot(center.X, center.Y)
			return
		}
		_ = plot(center.X, center.Y+radius) &&
			plot(center.X, center.Y-radius) &&
			plot(center.X+radius, center.Y) &&
			plot(center.X-radius, center.Y) &&
			roundedCorner(center.X, center.Y, radius, 1|2|4|8, plot)
	})
}

// FilledCircle draws a filled circle with the given diameter, centered on center.
//
// Each scan line is a single solid fill.
func FilledCircle(dst Target, center image.Point, diameter int, c color.Color) {
	if diameter <= 0 {
		return
	}
	var (
		rgb    = pixel.ToRGB888(c)
		radius = diameter / 2
		f      = 1 - radius
		ddFx   = 1
		ddFy   = -2 * radius
		x      = 0
		y      = radius
	)
	span := func(y, half int) {
		dst.FillSolid(image.Rect(center.X-half, y, center.X+half+1, y+1), rgb)
	}
	span(center.Y, radius)
	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		span(center.Y+x, y)
		span(center.Y-x, y)
		span(center.Y+y, x)
		span(center.Y-y, x)
	}
}

// clampRadius limits radius to half the shortest side of rect.
func clampRadius(rect image.Rectangle, radius int) int {
	if radius < 0 {
		return 0
	}
	if m := rect.Dx() / 2; radius > m {
		radius = m
	}
	if m := rect.Dy() / 2; radius > m {
		radius = m
	}
	return radius
}

// plotter adapts a pixel yield function to coordinates.
func plotter(c pixel.RGB888, yield func(Pixel) bool) func(x, y int) bool {
	return func(x, y int) bool {
		return yield(Pixel{Point: image.Point{X: x, Y: y}, Color: c})
	}
}

func roundedCorner(x0, y0, radius, quadrant int, plot func(x, y int) bool) bool {
	var (
		f    = 1 - radius
		ddFx = 1
		ddFy = -2 * radius
		x    = 0
		y    = radius
	)
	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}

		x++
		ddFx += 2
		f += ddFx

		if quadrant&4 != 0 {
			if !plot(x0+x, y0+y) || !plot(x0+y, y0+x) {
				return false
			}
		}
		if quadrant&2 != 0 {
			if !plot(x0+x, y0-y) || !plot(x0+y, y0-x) {
				return false
			}
		}
		if quadrant&8 != 0 {
			if !plot(x0-y, y0+x) || !plot(x0-x, y0+y) {
				return false
			}
		}
		if quadrant&1 != 0 {
			if !plot(x0-y, y0-x) || !plot(x0-x, y0-y) {
				return false
			}
		}
	}
	return true
}

func filledRoundedCorner(dst Target, x0, y0, radius, quadrant, delta int, c pixel.RGB888) {
	var (
		f    = 1 - radius
		ddFx = 1
		ddFy = -2 * radius
		x    = 0
		y    = radius
	)
	column := func(x, y, h int) {
		dst.FillSolid(image.Rect(x, y, x+1, y+h), c)
	}
	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}

		x++
		ddFx += 2
		f += ddFx

		if quadrant&1 != 0 {
			column(x0+x, y0-y, 2*y+1+delta)
			column(x0+y, y0-x, 2*x+1+delta)
		}

		if quadrant&2 != 0 {
			column(x0-x, y0-y, 2*y+1+delta)
			column(x0-y, y0-x, 2*x+1+delta)
		}
	}
}

// Generalized with integer
func bresenham(x1, y1, x2, y2 int, plot func(x, y int) bool) {
	var dx, dy, e, slope int

	// Because drawing p1 -> p2 is equivalent to draw p2 -> p1,
	// I sort points in x-axis order to handle only half of possible cases.
	if x1 > x2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx, dy = x2-x1, y2-y1
	// Because point is x-axis ordered, dx cannot be negative
	if dy < 0 {
		dy = -dy
	}

	switch {

	// Is line a point ?
	case x1 == x2 && y1 == y2:
		plot(x1, y1)

	// Is line an horizontal ?
	case y1 == y2:
		for ; dx != 0; dx-- {
			if !plot(x1, y1) {
				return
			}
			x1++
		}
		plot(x1, y1)

	// Is line a vertical ?
	case x1 == x2:
		if y1 > y2 {
			y1 = y2
		}
		for ; dy != 0; dy-- {
			if !plot(x1, y1) {
				return
			}
			y1++
		}
		plot(x1, y1)

	// Is line a diagonal ?
	case dx == dy:
		step := 1
		if y1 > y2 {
			step = -1
		}
		for ; dx != 0; dx-- {
			if !plot(x1, y1) {
				return
			}
			x1++
			y1 += step
		}
		plot(x1, y1)

	// wider than high ?
	case dx > dy:
		step := 1
		if y1 > y2 {
			step = -1
		}
		dy, e, slope = 2*dy, dx, 2*dx
		for ; dx != 0; dx-- {
			if !plot(x1, y1) {
				return
			}
			x1++
			e -= dy
			if e < 0 {
				y1 += step
				e += slope
			}
		}
		plot(x2, y2)

	// higher than wide.
	default:
		step := 1
		if y1 > y2 {
			step = -1
		}
		dx, e, slope = 2*dx, dy, 2*dy
		for ; dy != 0; dy-- {
			if !plot(x1, y1) {
				return
			}
			y1 += step
			e -= dx
			if e < 0 {
				x1++
				e += slope
			}
		}
		plot(x2, y2)
	}
}
