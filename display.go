// Package display adapts a fixed resolution color display peripheral to a generic 2D drawing target.
//
// The [Adapter] owns the [Peripheral] exclusively, stages pixels in an intermediate
// buffer mirroring the screen and moves them to the hardware with bulk copies, solid
// fills or single pixel writes depending on its [BufferMode]. All hardware coordinates
// are shifted down by a fixed row offset, so drawing never touches the status bar at the
// top of the physical screen.
package display

import (
	"errors"
	"image"
	"log"
	"os"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// Errors
var (
	ErrInUse            = errors.New("display: peripheral is already owned by another adapter")
	ErrReleased         = errors.New("display: adapter has been released")
	ErrMode             = errors.New("display: unknown buffer mode")
	ErrRenderModeLocked = errors.New("display: render mode is forced by the buffer mode")
	ErrRowOffset        = errors.New("display: row offset is outside the status bar")
)

// RenderMode determines when hardware writes become visible.
type RenderMode uint8

// Render modes.
const (
	// Immediate mode: writes are visible as soon as they are issued.
	Immediate RenderMode = iota

	// DoubleBuffered mode: writes go to a back buffer and are made visible by Render.
	DoubleBuffered
)

func (m RenderMode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case DoubleBuffered:
		return "double buffered"
	default:
		return "unknown"
	}
}

// TouchState of the screen.
type TouchState uint8

// Touch states.
const (
	Released TouchState = iota
	Pressed
	Held
)

func (s TouchState) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Held:
		return "held"
	default:
		return "released"
	}
}

// TouchEvent is the last touch reported by the screen.
type TouchEvent struct {
	State TouchState
	Point image.Point

	// Presses is the number of times the screen was pressed, if the hardware counts them.
	Presses int
}

// Peripheral is the hardware capability the adapter drives.
//
// Coordinates are absolute screen coordinates with inclusive corners; the adapter
// adds the status bar offset before calling. Hardware calls are blocking but return
// once the command is issued. Failures are not recoverable at this level; peripherals
// that can fail latch the first error and report it from an Err() error method.
type Peripheral interface {
	// Resolution of the drawable area, excluding the status bar.
	Resolution() image.Point

	// RenderMode returns the current render mode.
	RenderMode() RenderMode

	// SetRenderMode changes the render mode.
	SetRenderMode(RenderMode)

	// Render makes the back buffer visible in DoubleBuffered mode.
	Render()

	// TouchStatus returns the current touch state.
	TouchStatus() TouchEvent

	// SetForeground sets the foreground color register to a packed 0x00RRGGBB value.
	SetForeground(rgb uint32)

	// SetPixel writes the foreground color at (x, y).
	SetPixel(x, y int)

	// CopyRect copies the (x0,y0)-(x1,y1) region from buf, which holds rows of stride pixels.
	CopyRect(x0, y0, x1, y1 int, buf []uint32, stride int)

	// FillRect fills the (x0,y0)-(x1,y1) region with the foreground color.
	FillRect(x0, y0, x1, y1 int)
}

// StatusBar is implemented by peripherals that know how many rows their status bar
// takes at the top of the screen.
type StatusBar interface {
	StatusBarHeight() int
}

// debugf logs to logger if set, or to the standard logger when DISPLAY_DEBUG is set.
func debugf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	} else if debug {
		log.Printf(format, args...)
	}
}
