package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/braindisplay/pixel"
)

func TestNewST7735(t *testing.T) {
	b := new(busRecorder)
	d, err := NewST7735(b, nil)
	require.NoError(t, err)

	assert.Equal(t, "st7735 128x160 at 0° rotation", d.String())
	assert.Equal(t, image.Pt(128, 160), d.Resolution())
	assert.Equal(t, []string{"reset High", "reset Low", "reset High", "cmd 01 ", "cmd 11 "}, b.ops[:5])
	assert.Contains(t, b.ops, "cmd 36 00")

	n := len(b.ops)
	assert.Equal(t, []string{
		"cmd 29 ",
		"cmd 2a 00 00 00 7f",
		"cmd 2b 00 00 00 9f",
		"cmd 2c ",
		"data 40960",
	}, b.ops[n-5:])

	t.Run("landscape", func(t *testing.T) {
		b := new(busRecorder)
		_, err := NewST7735(b, &PanelConfig{Width: 160, Height: 128, Rotation: Rotate90})
		require.NoError(t, err)
		assert.Contains(t, b.ops, "cmd 36 60")
	})
	t.Run("invalid size", func(t *testing.T) {
		_, err := NewST7735(new(busRecorder), &PanelConfig{Width: 160, Height: 128})
		assert.ErrorContains(t, err, "st7735: invalid size 160x128")
	})
}

func TestPanelBacklight(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO18"}
	d, err := NewST7735(new(busRecorder), &PanelConfig{Backlight: pin})
	require.NoError(t, err)
	assert.Equal(t, 0xff*(gpio.DutyMax/0xff), pin.D)
	assert.Equal(t, 2*physic.KiloHertz, pin.F)

	require.NoError(t, d.SetBrightness(0))
	assert.Equal(t, gpio.Duty(0), pin.D)

	t.Run("no backlight", func(t *testing.T) {
		d, _ := testST7789(t, nil)
		assert.NoError(t, d.SetBrightness(0x80))
	})
}

func TestST7735Adapter(t *testing.T) {
	b := new(busRecorder)
	d, err := NewST7735(b, nil)
	require.NoError(t, err)

	a, err := New(d, nil)
	require.NoError(t, err)
	defer a.Release()
	assert.Equal(t, image.Rect(0, 0, 128, 160), a.Bounds())

	b.reset()
	a.FillSolid(a.Bounds(), pixel.White)
	a.Render()
	require.NoError(t, a.Err())
	assert.Equal(t, []string{
		"cmd 2a 00 00 00 7f",
		"cmd 2b 00 00 00 9f",
		"cmd 2c ",
		"data 40960",
	}, b.ops)
	assert.Equal(t, pixel.White.Storage(), d.back.Pix[d.back.PixOffset(0, 0)])
	assert.Equal(t, pixel.White.Storage(), d.back.Pix[d.back.PixOffset(127, 159)])
}

func TestPanelSpeed(t *testing.T) {
	c, bus, _ := testSPIConn(4096)
	_, err := NewST7735(c, &PanelConfig{SpeedHz: 8_000_000})
	require.NoError(t, err)
	assert.Equal(t, 8_000_000, bus.speed)
}
