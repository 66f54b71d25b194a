package draw

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/braindisplay/pixel"
)

// DefaultFace is a small fixed width bitmap font.
var DefaultFace font.Face = basicfont.Face7x13

var (
	goRegular     *truetype.Font
	goRegularErr  error
	goRegularOnce sync.Once
)

// NewFace returns the Go Regular TrueType font at the given point size (72 DPI, so points are pixels).
func NewFace(size float64) (font.Face, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = truetype.Parse(goregular.TTF)
	})
	if goRegularErr != nil {
		return nil, goRegularErr
	}
	return truetype.NewFace(goRegular, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// TextBounds returns the box covered by s when drawn with its baseline origin at dot.
func TextBounds(face font.Face, dot image.Point, s string) image.Rectangle {
	b, _ := font.BoundString(face, s)
	return image.Rect(
		b.Min.X.Floor(), b.Min.Y.Floor(),
		b.Max.X.Ceil(), b.Max.Y.Ceil(),
	).Add(dot)
}

// Text draws s with its baseline origin at dot and returns the covered box.
//
// With a nil background only the glyph coverage is drawn, as one pixel stream. With a
// background the whole text box is sent as one contiguous fill, blending fg over bg.
func Text(dst Target, face font.Face, dot image.Point, s string, fg, bg color.Color) image.Rectangle {
	r := TextBounds(face, dot, s)
	if r.Empty() {
		return r
	}

	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(dot.X-r.Min.X, dot.Y-r.Min.Y),
	}
	d.DrawString(s)

	fgc := pixel.ToRGB888(fg)
	if bg == nil {
		dst.DrawIter(func(yield func(Pixel) bool) {
			for y := 0; y < r.Dy(); y++ {
				for x := 0; x < r.Dx(); x++ {
					if mask.AlphaAt(x, y).A < 0x80 {
						continue
					}
					if !yield(Pixel{Point: image.Pt(r.Min.X+x, r.Min.Y+y), Color: fgc}) {
						return
					}
				}
			}
		})
		return r
	}

	bgc := pixel.ToRGB888(bg)
	dst.FillContiguous(r, func(yield func(pixel.RGB888) bool) {
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				if !yield(blend(fgc, bgc, mask.AlphaAt(x, y).A)) {
					return
				}
			}
		}
	})
	return r
}

// blend mixes fg over bg with coverage a.
func blend(fg, bg pixel.RGB888, a uint8) pixel.RGB888 {
	switch a {
	case 0x00:
		return bg
	case 0xff:
		return fg
	}
	var (
		fr, fgg, fb = fg.Channels()
		br, bgg, bb = bg.Channels()
		alpha       = uint32(a)
		mix         = func(f, b uint8) uint8 {
			return uint8((uint32(f)*alpha + uint32(b)*(0xff-alpha) + 0x7f) / 0xff)
		}
	)
	return pixel.RGB(mix(fr, br), mix(fgg, bgg), mix(fb, bb))
}
