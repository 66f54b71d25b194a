package demo

import (
	"fmt"
	"image"
	"math"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/BeatGlow/braindisplay/draw"
	"github.com/BeatGlow/braindisplay/pixel"
)

// Clock colors.
var (
	clockBackground = pixel.RGB(0xf0, 0x80, 0x80) // light coral
	clockFace       = pixel.RGB(0x00, 0x00, 0xff)
	clockGraduation = pixel.RGB(0xf0, 0xff, 0xff) // azure
	clockHand       = pixel.RGB(0xff, 0x00, 0x00)
	clockDecoration = pixel.RGB(0xff, 0xff, 0x00)
)

// clockMargin is the space between the clock face and the display border.
const clockMargin = 10

// Clock is an analog clock with a digital readout, showing the time elapsed.
type Clock struct {
	center   image.Point
	diameter int
	face     font.Face
}

// NewClock centers a clock face on bounds.
func NewClock(bounds image.Rectangle) (Scene, error) {
	diameter := min(bounds.Dx(), bounds.Dy()) - 2*clockMargin
	if diameter < 40 {
		return nil, fmt.Errorf("demo: display %s is too small for a clock", bounds.Size())
	}
	return &Clock{
		center: image.Pt(
			bounds.Min.X+bounds.Dx()/2,
			bounds.Min.Y+bounds.Dy()/2,
		),
		diameter: diameter,
		face:     basicfont.Face7x13,
	}, nil
}

// polar converts an angle relative to 12 o'clock and a distance relative to the edge
// of the clock face to a point.
func (c *Clock) polar(angle float64, delta int) image.Point {
	radius := float64(c.diameter)/2 + float64(delta)
	return c.center.Add(image.Pt(
		int(math.Sin(angle)*radius),
		-int(math.Cos(angle)*radius),
	))
}

func hourToAngle(hour int) float64 {
	return float64(hour%12) / 12 * 2 * math.Pi
}

func sexagesimalToAngle(value int) float64 {
	return float64(value) / 60 * 2 * math.Pi
}

func (c *Clock) Draw(dst draw.Target, t time.Duration) {
	var (
		secs    = int(t / time.Second)
		hours   = hourToAngle(secs / 3600 % 12)
		minutes = sexagesimalToAngle(secs % 3600 / 60)
		seconds = sexagesimalToAngle(secs % 60)
	)

	draw.Clear(dst, clockBackground)

	// Face with 12 graduations.
	draw.Circle(dst, c.center, c.diameter, clockFace)
	draw.Circle(dst, c.center, c.diameter-2, clockFace)
	for hour := 0; hour < 12; hour++ {
		angle := hourToAngle(hour)
		draw.Line(dst, c.polar(angle, 0), c.polar(angle, -10), clockGraduation)
	}

	// Hands.
	draw.Line(dst, c.center, c.polar(hours, -60), clockHand)
	draw.Line(dst, c.center, c.polar(minutes, -30), clockHand)
	draw.Line(dst, c.center, c.polar(seconds, 0), clockHand)
	decoration := c.polar(seconds, -20)
	draw.FilledCircle(dst, decoration, 11, clockDecoration)
	draw.Circle(dst, decoration, 11, clockHand)

	// Digital clock between 12 o'clock and the center.
	text := fmt.Sprintf("%02d:%02d:%02d.%03d",
		secs/3600%12,
		secs%3600/60,
		secs%60,
		t.Milliseconds()%1000)
	var (
		bounds = draw.TextBounds(c.face, image.Point{}, text)
		mid    = image.Pt(bounds.Min.X+bounds.Dx()/2, bounds.Min.Y+bounds.Dy()/2)
		dot    = c.center.Sub(mid).Sub(image.Pt(0, c.diameter/4))
		box    = bounds.Add(dot)
	)
	draw.Box(dst, image.Rect(box.Min.X-3, box.Min.Y-3, box.Max.X+1, box.Max.Y+1), pixel.White)
	draw.Text(dst, c.face, dot, text, pixel.Black, pixel.White)

	// Center cap over the hands.
	draw.FilledCircle(dst, c.center, 9, clockHand)
}
