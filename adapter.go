package display

import (
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"iter"
	"log"

	"tinygo.org/x/drivers"

	"github.com/BeatGlow/braindisplay/draw"
	"github.com/BeatGlow/braindisplay/pixel"
)

// StatusBarHeight is the height of the reserved status bar at the top of the brain screen.
const StatusBarHeight = 0x20

// BufferMode selects how staged pixels reach the hardware.
type BufferMode uint8

// Buffer modes.
const (
	// AutoFlush copies the pixels of every DrawIter batch to the hardware in one bulk
	// copy and requests a render when the batch is done.
	AutoFlush BufferMode = iota

	// ManualFlush stages DrawIter and Set pixels until Render is called, so several
	// draw operations end up in a single visible frame.
	ManualFlush

	// Direct writes every pixel with a single pixel hardware call and never renders
	// on its own. Uses the least hardware bandwidth for sparse drawing.
	Direct
)

func (m BufferMode) String() string {
	switch m {
	case AutoFlush:
		return "auto flush"
	case ManualFlush:
		return "manual flush"
	case Direct:
		return "direct"
	default:
		return fmt.Sprintf("BufferMode(%d)", uint8(m))
	}
}

// Config is the adapter configuration.
type Config struct {
	// Mode is the buffering strategy.
	Mode BufferMode

	// RowOffset is added to every hardware Y coordinate, to skip the status bar. It
	// can't exceed the status bar height of a peripheral implementing StatusBar.
	RowOffset int

	// DirectThreshold enables single pixel writes for AutoFlush batches of fewer
	// pixels than this, avoiding the fixed cost of a bulk copy for trivial draws.
	// Zero disables it.
	DirectThreshold int

	// Logger receives debug output. If nil, output goes to the standard logger
	// when DISPLAY_DEBUG is set.
	Logger *log.Logger
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Mode:      AutoFlush,
	RowOffset: StatusBarHeight,
}

// Adapter is a drawing target over a display peripheral.
//
// The adapter owns its peripheral until Release; no second adapter can be created over
// the same peripheral in the meantime. Drawing operations never fail: pixels outside
// the display are dropped silently. An Adapter is not safe for concurrent use.
type Adapter struct {
	p         Peripheral
	buf       *pixel.RGB888Image
	bounds    image.Rectangle
	width     int
	mode      BufferMode
	rowOffset int
	threshold int
	logger    *log.Logger

	// dirty holds staged pixels not yet copied to the hardware.
	dirty image.Rectangle

	// fg mirrors the hardware foreground register.
	fg      uint32
	fgValid bool

	// small holds the buffer indices of a batch below the direct threshold.
	small []int

	released bool
}

// DefaultRowOffset is the status bar height reported by p, or StatusBarHeight if p
// doesn't implement StatusBar.
func DefaultRowOffset(p Peripheral) int {
	if bar, ok := p.(StatusBar); ok {
		return bar.StatusBarHeight()
	}
	return StatusBarHeight
}

// New takes ownership of p and returns an adapter drawing onto it. A nil config selects
// DefaultConfig with the row offset from DefaultRowOffset.
//
// In AutoFlush and ManualFlush mode the render mode of p is switched to DoubleBuffered,
// as flushing relies on it; Direct mode leaves the render mode alone. It fails with
// ErrInUse if another adapter owns p.
func New(p Peripheral, config *Config) (*Adapter, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
		config.RowOffset = DefaultRowOffset(p)
	}
	if config.Mode > Direct {
		return nil, ErrMode
	}
	if config.RowOffset < 0 {
		return nil, ErrRowOffset
	}
	if bar, ok := p.(StatusBar); ok && config.RowOffset > bar.StatusBarHeight() {
		return nil, fmt.Errorf("%w: %d rows, status bar has %d", ErrRowOffset, config.RowOffset, bar.StatusBarHeight())
	}
	if err := claim(p); err != nil {
		return nil, err
	}

	size := p.Resolution()
	a := &Adapter{
		p:         p,
		buf:       pixel.NewRGB888Image(size.X, size.Y),
		bounds:    image.Rectangle{Max: size},
		width:     size.X,
		mode:      config.Mode,
		rowOffset: config.RowOffset,
		threshold: config.DirectThreshold,
		logger:    config.Logger,
	}
	if a.threshold > 0 {
		a.small = make([]int, 0, a.threshold)
	}
	if a.mode != Direct {
		p.SetRenderMode(DoubleBuffered)
	}

	debugf(a.logger, "display: %s", a)
	return a, nil
}

func (a *Adapter) String() string {
	return fmt.Sprintf("%dx%d %s adapter over %T", a.bounds.Dx(), a.bounds.Dy(), a.mode, a.p)
}

// Mode is the buffering strategy.
func (a *Adapter) Mode() BufferMode {
	return a.mode
}

// Release flushes staged pixels, gives up ownership and returns the peripheral.
// The adapter can't be used afterwards.
func (a *Adapter) Release() Peripheral {
	if a.released {
		return nil
	}
	a.flush()
	a.released = true
	release(a.p)
	p := a.p
	a.p = nil
	return p
}

// Err returns the first hardware error latched by the peripheral, if it reports any.
func (a *Adapter) Err() error {
	if a.released {
		return ErrReleased
	}
	if e, ok := a.p.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

// TouchStatus returns the current touch status of the display.
func (a *Adapter) TouchStatus() TouchEvent {
	a.mustOwn()
	return a.p.TouchStatus()
}

// RenderMode returns the current rendering mode of the display.
func (a *Adapter) RenderMode() RenderMode {
	a.mustOwn()
	return a.p.RenderMode()
}

// SetRenderMode changes the rendering mode of the display. Only Direct mode adapters
// may leave DoubleBuffered; the other modes return ErrRenderModeLocked.
func (a *Adapter) SetRenderMode(mode RenderMode) error {
	a.mustOwn()
	if a.mode != Direct && mode != DoubleBuffered {
		return ErrRenderModeLocked
	}
	a.p.SetRenderMode(mode)
	return nil
}

// Flush copies staged pixels to the hardware, without requesting a render.
func (a *Adapter) Flush() {
	a.mustOwn()
	a.flush()
}

// Render copies staged pixels to the hardware and requests a render, which makes
// everything drawn so far visible in DoubleBuffered mode.
func (a *Adapter) Render() {
	a.mustOwn()
	a.flush()
	a.p.Render()
}

// Bounds is the display bounding box (dimensions), anchored at the origin.
func (a *Adapter) Bounds() image.Rectangle {
	return a.bounds
}

// DrawIter draws a stream of pixels. Positions outside the display are dropped.
func (a *Adapter) DrawIter(pixels iter.Seq[draw.Pixel]) {
	a.mustOwn()

	var (
		count = 0
		clean = a.dirty.Empty()
		small = a.small[:0]
	)
	for px := range pixels {
		x, y := px.Point.X, px.Point.Y
		if x < 0 || y < 0 || x >= a.bounds.Max.X || y >= a.bounds.Max.Y {
			continue
		}
		i := y*a.width + x
		v := px.Color.Storage()
		a.buf.Pix[i] = v

		if a.mode == Direct {
			a.setPixel(x, y, v)
			continue
		}
		a.stage(x, y)
		if count < a.threshold {
			small = append(small, i)
		}
		count++
	}
	a.small = small[:0]

	if a.mode != AutoFlush {
		return
	}
	if clean && count > 0 && count < a.threshold {
		for _, i := range small {
			a.setPixel(i%a.width, i/a.width, a.buf.Pix[i])
		}
		a.dirty = image.Rectangle{}
	} else {
		a.flush()
	}
	a.p.Render()
}

// FillContiguous fills r with colors in row-major order. Colors for positions outside the
// display are skipped; the in-bounds part of r is sent with a single bulk copy.
func (a *Adapter) FillContiguous(r image.Rectangle, colors iter.Seq[pixel.RGB888]) {
	a.mustOwn()
	if r.Empty() {
		return
	}

	clip := r.Intersect(a.bounds)
	x, y := r.Min.X, r.Min.Y
	for c := range colors {
		if (image.Point{X: x, Y: y}).In(clip) {
			a.buf.Pix[y*a.width+x] = c.Storage()
		}
		if x++; x == r.Max.X {
			x = r.Min.X
			if y++; y == r.Max.Y {
				break
			}
		}
	}
	if clip.Empty() {
		return
	}
	a.copyRect(clip)
}

// FillSolid fills r with a single color using one hardware fill. The foreground
// register write is skipped when it already holds the color.
func (a *Adapter) FillSolid(r image.Rectangle, c pixel.RGB888) {
	a.mustOwn()
	clip := r.Intersect(a.bounds)
	if clip.Empty() {
		return
	}

	v := c.Storage()
	a.buf.FillRect(clip, v)
	a.setForeground(v)
	a.p.FillRect(
		clip.Min.X, clip.Min.Y+a.rowOffset,
		clip.Max.X-1, clip.Max.Y-1+a.rowOffset,
	)
}

// ColorModel used by the display.
func (a *Adapter) ColorModel() color.Model {
	return pixel.RGB888Model
}

// At returns the color of the pixel at (x, y), as last drawn through this adapter.
func (a *Adapter) At(x, y int) color.Color {
	return a.buf.At(x, y)
}

// Set the pixel color at (x, y). The pixel is staged until the next flush, except in
// Direct mode where it is written immediately.
func (a *Adapter) Set(x, y int, c color.Color) {
	a.mustOwn()
	if !(image.Point{X: x, Y: y}).In(a.bounds) {
		return
	}
	v := pixel.ToRGB888(c).Storage()
	a.buf.Pix[y*a.width+x] = v
	if a.mode == Direct {
		a.setPixel(x, y, v)
		return
	}
	a.stage(x, y)
}

// Size of the display in pixels.
func (a *Adapter) Size() (x, y int16) {
	return int16(a.bounds.Dx()), int16(a.bounds.Dy())
}

// SetPixel sets the pixel color at (x, y), see Set.
func (a *Adapter) SetPixel(x, y int16, c color.RGBA) {
	a.Set(int(x), int(y), c)
}

// Display renders the staged pixels and returns the peripheral error, if any.
func (a *Adapter) Display() error {
	a.Render()
	return a.Err()
}

func (a *Adapter) mustOwn() {
	if a.released {
		panic(ErrReleased)
	}
}

// stage grows the dirty rectangle to include (x, y).
func (a *Adapter) stage(x, y int) {
	if a.dirty.Empty() {
		a.dirty = image.Rect(x, y, x+1, y+1)
		return
	}
	if x < a.dirty.Min.X {
		a.dirty.Min.X = x
	} else if x >= a.dirty.Max.X {
		a.dirty.Max.X = x + 1
	}
	if y < a.dirty.Min.Y {
		a.dirty.Min.Y = y
	} else if y >= a.dirty.Max.Y {
		a.dirty.Max.Y = y + 1
	}
}

func (a *Adapter) flush() {
	if a.dirty.Empty() {
		return
	}
	r := a.dirty
	a.dirty = image.Rectangle{}
	debugf(a.logger, "display: flush %s", r)
	a.copyRect(r)
}

func (a *Adapter) copyRect(r image.Rectangle) {
	a.p.CopyRect(
		r.Min.X, r.Min.Y+a.rowOffset,
		r.Max.X-1, r.Max.Y-1+a.rowOffset,
		a.buf.Pix[a.buf.PixOffset(r.Min.X, r.Min.Y):],
		a.width,
	)
}

func (a *Adapter) setForeground(v uint32) {
	if a.fgValid && a.fg == v {
		return
	}
	a.p.SetForeground(v)
	a.fg, a.fgValid = v, true
}

func (a *Adapter) setPixel(x, y int, v uint32) {
	a.setForeground(v)
	a.p.SetPixel(x, y+a.rowOffset)
}

// Interface checks.
var (
	_ draw.Target       = (*Adapter)(nil)
	_ imagedraw.Image   = (*Adapter)(nil)
	_ drivers.Displayer = (*Adapter)(nil)
)
