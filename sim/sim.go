// Package sim is an in-memory brain display peripheral.
//
// It behaves like the real screen as far as the adapter can tell: a 480x272 panel with a
// 32 pixel status bar at the top, a foreground color register, and an immediate and a
// double buffered render mode. Use it to run drawing code without the hardware, and
// Snapshot or WritePNG to see the result.
package sim

import (
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/pixel"
)

// Screen geometry.
const (
	Width           = 480
	Height          = 272
	StatusBarHeight = display.StatusBarHeight
)

// StatusBarColor is the color the status bar is painted with.
var StatusBarColor = pixel.RGB(0x00, 0x99, 0xcc)

// Display is a simulated brain display.
//
// Hardware calls must come from one goroutine; Snapshot and the touch methods may be
// called from any goroutine.
type Display struct {
	mu     sync.Mutex
	screen image.Rectangle

	// back receives all writes; front is what is visible.
	front, back *pixel.RGB888Image

	mode    display.RenderMode
	fg      uint32
	touch   display.TouchEvent
	renders int
}

// New returns a blank display in Immediate render mode, with the status bar painted.
func New() *Display {
	d := &Display{
		screen: image.Rect(0, 0, Width, Height),
		front:  pixel.NewRGB888Image(Width, Height),
		back:   pixel.NewRGB888Image(Width, Height),
	}
	bar := image.Rect(0, 0, Width, StatusBarHeight)
	d.front.FillRect(bar, StatusBarColor.V)
	d.back.FillRect(bar, StatusBarColor.V)
	return d
}

func (d *Display) String() string {
	return "simulated brain display"
}

func (d *Display) StatusBarHeight() int {
	return StatusBarHeight
}

// Resolution of the area below the status bar.
func (d *Display) Resolution() image.Point {
	return image.Pt(Width, Height-StatusBarHeight)
}

func (d *Display) RenderMode() display.RenderMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

func (d *Display) SetRenderMode(mode display.RenderMode) {
	d.mu.Lock()
	d.mode = mode
	d.mu.Unlock()
}

// Render shows the back buffer. It does nothing in Immediate mode.
func (d *Display) Render() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renders++
	if d.mode == display.DoubleBuffered {
		copy(d.front.Pix, d.back.Pix)
	}
}

// Renders returns the number of render requests.
func (d *Display) Renders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renders
}

func (d *Display) TouchStatus() display.TouchEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touch
}

// Press simulates a finger at p. A press on an already pressed screen is held.
func (d *Display) Press(p image.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.touch.State == display.Released {
		d.touch.State = display.Pressed
		d.touch.Presses++
	} else {
		d.touch.State = display.Held
	}
	d.touch.Point = p
}

// Lift simulates the finger leaving the screen.
func (d *Display) Lift() {
	d.mu.Lock()
	d.touch.State = display.Released
	d.mu.Unlock()
}

func (d *Display) SetForeground(rgb uint32) {
	d.fg = rgb & 0xffffff
}

// Foreground returns the foreground register value.
func (d *Display) Foreground() uint32 {
	return d.fg
}

func (d *Display) SetPixel(x, y int) {
	if !(image.Point{X: x, Y: y}).In(d.screen) {
		return
	}
	d.back.Pix[d.back.PixOffset(x, y)] = d.fg
	d.commit(image.Rect(x, y, x+1, y+1))
}

func (d *Display) CopyRect(x0, y0, x1, y1 int, buf []uint32, stride int) {
	src := image.Rect(x0, y0, x1+1, y1+1)
	r := src.Intersect(d.screen)
	if r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := (y-y0)*stride + (r.Min.X - x0)
		if i >= len(buf) {
			break
		}
		j := d.back.PixOffset(r.Min.X, y)
		copy(d.back.Pix[j:j+w], buf[i:min(i+w, len(buf))])
	}
	d.commit(r)
}

func (d *Display) FillRect(x0, y0, x1, y1 int) {
	r := image.Rect(x0, y0, x1+1, y1+1)
	d.back.FillRect(r, d.fg)
	d.commit(r.Intersect(d.screen))
}

// commit makes r visible in Immediate mode.
func (d *Display) commit(r image.Rectangle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != display.Immediate || r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := d.back.PixOffset(r.Min.X, y)
		copy(d.front.Pix[i:i+w], d.back.Pix[i:i+w])
	}
}

// Snapshot returns a copy of the visible screen, status bar included.
func (d *Display) Snapshot() *pixel.RGB888Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	img := pixel.NewRGB888Image(Width, Height)
	copy(img.Pix, d.front.Pix)
	return img
}

// WritePNG encodes the visible screen as PNG.
func (d *Display) WritePNG(w io.Writer) error {
	return png.Encode(w, d.Snapshot())
}

var _ display.Peripheral = (*Display)(nil)
