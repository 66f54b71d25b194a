package touch

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	display "github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/conn"
)

// fakeBus answers register reads from a map and records register writes.
type fakeBus struct {
	regs   map[uint8][]byte
	writes [][]byte
	err    error
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	if addr != DefaultAddress {
		return errors.New("nack")
	}
	if len(r) == 0 {
		b.writes = append(b.writes, append([]byte(nil), w...))
		return nil
	}
	copy(r, b.regs[w[0]])
	return nil
}

func (b *fakeBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *fakeBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}

func (b *fakeBus) touch(x, y int, event byte) {
	b.regs[ft6x06TDSTATUS] = []byte{
		1,
		event<<6 | byte(x>>8), byte(x),
		byte(y >> 8), byte(y),
	}
}

func (b *fakeBus) lift() {
	b.regs[ft6x06TDSTATUS] = []byte{0, 0xff, 0xff, 0xff, 0xff}
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: map[uint8][]byte{
		ft6x06CHIPID: {0x64},
	}}
}

func TestNewFT6x06(t *testing.T) {
	bus := newFakeBus()
	ts, err := NewFT6x06(bus, &Config{Threshold: 0x16})
	require.NoError(t, err)
	assert.Equal(t, "FT6236 touch controller at 0x38", ts.String())
	assert.Equal(t, [][]byte{{ft6x06DEVMODE, 0x00}, {ft6x06THGROUP, 0x16}}, bus.writes)

	t.Run("unknown chip", func(t *testing.T) {
		bus := newFakeBus()
		bus.regs[ft6x06CHIPID] = []byte{0x42}
		_, err := NewFT6x06(bus, nil)
		assert.ErrorIs(t, err, ErrChipID)
	})
	t.Run("no device", func(t *testing.T) {
		_, err := NewFT6x06(newFakeBus(), &Config{Addr: 0x39})
		assert.ErrorContains(t, err, "nack")
	})
}

func TestTouchStatus(t *testing.T) {
	bus := newFakeBus()
	ts, err := NewFT6x06(bus, &Config{})
	require.NoError(t, err)

	bus.lift()
	assert.Equal(t, display.TouchEvent{}, ts.TouchStatus())

	bus.touch(100, 200, ft6x06PressDown)
	assert.Equal(t, display.TouchEvent{State: display.Pressed, Point: image.Pt(100, 200), Presses: 1}, ts.TouchStatus())

	bus.touch(101, 200, ft6x06Contact)
	assert.Equal(t, display.TouchEvent{State: display.Held, Point: image.Pt(101, 200), Presses: 1}, ts.TouchStatus())

	bus.lift()
	assert.Equal(t, display.TouchEvent{State: display.Released, Point: image.Pt(101, 200), Presses: 1}, ts.TouchStatus())

	bus.touch(300, 10, ft6x06PressDown)
	assert.Equal(t, 2, ts.TouchStatus().Presses)

	bus.touch(300, 10, ft6x06LiftUp)
	assert.Equal(t, display.Released, ts.TouchStatus().State)

	bus.touch(50, 60, ft6x06Contact)
	assert.Equal(t, display.TouchEvent{State: display.Pressed, Point: image.Pt(50, 60), Presses: 3}, ts.TouchStatus())

	bus.touch(50, 60, ft6x06NoEvent)
	assert.Equal(t, display.Released, ts.TouchStatus().State)

	t.Run("error", func(t *testing.T) {
		bus.err = errors.New("bus on fire")
		assert.Equal(t, display.Released, ts.TouchStatus().State)
		assert.EqualError(t, ts.Err(), "bus on fire")
	})
}

func TestTransform(t *testing.T) {
	tests := []struct {
		Name   string
		Config Config
		Want   image.Point
	}{
		{"none", Config{}, image.Pt(10, 20)},
		{"swap", Config{SwapXY: true}, image.Pt(20, 10)},
		{"invert x", Config{Width: 320, InvertX: true}, image.Pt(309, 20)},
		{"invert y", Config{Height: 240, InvertY: true}, image.Pt(10, 219)},
		{"default", DefaultConfig, image.Pt(299, 10)},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			ts := &FT6x06{config: test.Config}
			assert.Equal(t, test.Want, ts.transform(10, 20))
		})
	}
}

func TestOnI2C(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddress, W: []byte{ft6x06CHIPID}, R: []byte{0x06}},
			{Addr: DefaultAddress, W: []byte{ft6x06DEVMODE, 0x00}},
			{Addr: DefaultAddress, W: []byte{ft6x06TDSTATUS}, R: []byte{1, 0x00, 0x20, 0x00, 0x40}},
		},
		DontPanic: true,
	}
	ts, err := NewFT6x06(conn.NewI2C(bus, DefaultAddress), &Config{})
	require.NoError(t, err)

	e := ts.TouchStatus()
	assert.Equal(t, display.Pressed, e.State)
	assert.Equal(t, image.Pt(0x20, 0x40), e.Point)
	assert.NoError(t, bus.Close())
}
