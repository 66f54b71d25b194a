package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// RGB888Image is a 24-bits per pixel image, stored as one packed 0x00RRGGBB word per pixel.
//
// The layout matches what the display hardware copies from: pixel (x, y) lives at
// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)].
type RGB888Image struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the packed pixels.
	Pix []uint32

	// Stride is the Pix stride (in pixels) between vertically adjacent pixels.
	Stride int
}

func NewRGB888Image(w, h int) *RGB888Image {
	return &RGB888Image{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]uint32, w*h),
		Stride: w,
	}
}

func (p *RGB888Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *RGB888Image) ColorModel() color.Model {
	return RGB888Model
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *RGB888Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

func (p *RGB888Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return RGB888{p.Pix[p.PixOffset(x, y)]}
}

func (p *RGB888Image) RGB888At(x, y int) RGB888 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return RGB888{}
	}
	return RGB888{p.Pix[p.PixOffset(x, y)]}
}

func (p *RGB888Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = ToRGB888(c).Storage()
}

func (p *RGB888Image) SetRGB888(x, y int, c RGB888) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = c.Storage()
}

// FillRect sets all pixels in r (clipped to the image) to the packed value v.
func (p *RGB888Image) FillRect(r image.Rectangle, v uint32) {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := p.PixOffset(r.Min.X, y)
		row := p.Pix[i : i+w]
		for j := range row {
			row[j] = v
		}
	}
}

// SubImage returns an image sharing pixels with p, limited to r.
func (p *RGB888Image) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &RGB888Image{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &RGB888Image{
		Rect:   r,
		Pix:    p.Pix[i:],
		Stride: p.Stride,
	}
}

func (p *RGB888Image) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0
	}
}

func (p *RGB888Image) Fill(c color.Color) {
	p.FillRect(p.Rect, ToRGB888(c).Storage())
}

// Interface checks.
var (
	_ Image = (*RGB888Image)(nil)
)
