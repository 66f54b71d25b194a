// Package touch implements capacitive touch controllers that give display peripherals a touch status.
package touch

import (
	"errors"
	"fmt"
	"image"

	"tinygo.org/x/drivers"

	display "github.com/BeatGlow/braindisplay"
)

// DefaultAddress is the I²C address of FT6x06 controllers.
const DefaultAddress = 0x38

// Registers.
const (
	ft6x06DEVMODE  = 0x00
	ft6x06TDSTATUS = 0x02 // Number of touch points
	ft6x06THGROUP  = 0x80 // Touch threshold
	ft6x06CHIPID   = 0xA3
)

// Event flags of a touch point.
const (
	ft6x06PressDown = 0
	ft6x06LiftUp    = 1
	ft6x06Contact   = 2
	ft6x06NoEvent   = 3
)

// Errors
var (
	ErrChipID = errors.New("touch: unknown FT6x06 chip ID")
)

// Known chip IDs.
var ft6x06ChipIDs = map[byte]string{
	0x06: "FT6206",
	0x36: "FT6236U",
	0x64: "FT6236",
	0xcd: "FT6336U",
}

// Config is the touch panel configuration.
type Config struct {
	// Addr is the I²C address.
	Addr uint8

	// Threshold is the touch detection threshold, zero keeps the controller default.
	Threshold uint8

	// Width and Height of the panel, used for the transformations.
	Width, Height int

	// SwapXY, InvertX and InvertY map panel coordinates to screen coordinates.
	// Axes are swapped before inverting.
	SwapXY, InvertX, InvertY bool
}

// DefaultConfig are the default configuration values for a landscape 320x240 panel.
var DefaultConfig = Config{
	Addr:    DefaultAddress,
	Width:   320,
	Height:  240,
	SwapXY:  true,
	InvertX: true,
}

// FT6x06 is a FocalTech FT6x06 capacitive touch controller.
//
// Touches are polled: every TouchStatus call reads the controller.
type FT6x06 struct {
	bus    drivers.I2C
	config Config
	chip   string
	last   display.TouchEvent
	buf    [5]byte
	err    error
}

// NewFT6x06 probes and configures the controller. A nil config selects DefaultConfig.
func NewFT6x06(bus drivers.I2C, config *Config) (*FT6x06, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	if config.Addr == 0 {
		config.Addr = DefaultAddress
	}

	t := &FT6x06{
		bus:    bus,
		config: *config,
	}

	var id [1]byte
	if err := t.read(ft6x06CHIPID, id[:]); err != nil {
		return nil, fmt.Errorf("touch: %w", err)
	}
	var ok bool
	if t.chip, ok = ft6x06ChipIDs[id[0]]; !ok {
		return nil, fmt.Errorf("%w %#02x", ErrChipID, id[0])
	}

	if err := t.write(ft6x06DEVMODE, 0x00); err != nil {
		return nil, fmt.Errorf("touch: %w", err)
	}
	if config.Threshold > 0 {
		if err := t.write(ft6x06THGROUP, config.Threshold); err != nil {
			return nil, fmt.Errorf("touch: %w", err)
		}
	}
	return t, nil
}

func (t *FT6x06) String() string {
	return fmt.Sprintf("%s touch controller at %#02x", t.chip, t.config.Addr)
}

// Err is the first bus error encountered while polling.
func (t *FT6x06) Err() error {
	return t.err
}

func (t *FT6x06) read(reg uint8, buf []byte) error {
	return t.bus.Tx(uint16(t.config.Addr), []byte{reg}, buf)
}

func (t *FT6x06) write(reg uint8, value byte) error {
	return t.bus.Tx(uint16(t.config.Addr), []byte{reg, value}, nil)
}

// TouchStatus polls the controller for the first touch point.
//
// A new touch reports Pressed and increments Presses, a continued touch reports Held,
// and no touch reports Released at the last known position. Bus errors are latched
// in Err and report the last state.
func (t *FT6x06) TouchStatus() display.TouchEvent {
	if t.err != nil {
		return t.last
	}
	if err := t.read(ft6x06TDSTATUS, t.buf[:]); err != nil {
		t.err = err
		return t.last
	}

	var (
		points = t.buf[0] & 0x0f
		event  = t.buf[1] >> 6
	)
	touching := points > 0 && points <= 2
	switch event {
	case ft6x06PressDown, ft6x06Contact:
	case ft6x06LiftUp, ft6x06NoEvent:
		touching = false
	}
	if !touching {
		t.last.State = display.Released
		return t.last
	}

	if t.last.State == display.Released {
		t.last.State = display.Pressed
		t.last.Presses++
	} else {
		t.last.State = display.Held
	}
	t.last.Point = t.transform(
		int(t.buf[1]&0x0f)<<8|int(t.buf[2]),
		int(t.buf[3]&0x0f)<<8|int(t.buf[4]),
	)
	return t.last
}

func (t *FT6x06) transform(x, y int) image.Point {
	if t.config.SwapXY {
		x, y = y, x
	}
	if t.config.InvertX && t.config.Width > 0 {
		x = t.config.Width - 1 - x
	}
	if t.config.InvertY && t.config.Height > 0 {
		y = t.config.Height - 1 - y
	}
	return image.Pt(x, y)
}

var _ display.TouchSource = (*FT6x06)(nil)
