package demo

import (
	"image"
	"time"

	"golang.org/x/image/font"

	"github.com/BeatGlow/braindisplay/draw"
	"github.com/BeatGlow/braindisplay/pixel"
)

// Hello greets in green bitmap text, with a larger TrueType line below.
type Hello struct {
	origin image.Point
	large  font.Face
}

// NewHello starts the text near the top left of bounds.
func NewHello(bounds image.Rectangle) (Scene, error) {
	large, err := draw.NewFace(32)
	if err != nil {
		return nil, err
	}
	return &Hello{
		origin: bounds.Min.Add(image.Pt(2, 28)),
		large:  large,
	}, nil
}

func (h *Hello) Draw(dst draw.Target, _ time.Duration) {
	lineHeight := draw.DefaultFace.Metrics().Height.Ceil()
	draw.Text(dst, draw.DefaultFace, h.origin, "Hello,", pixel.Green, nil)
	draw.Text(dst, draw.DefaultFace, h.origin.Add(image.Pt(0, lineHeight)), "Go!", pixel.Green, nil)
	draw.Text(dst, h.large, h.origin.Add(image.Pt(0, lineHeight+40)), "braindisplay", pixel.White, nil)
}
