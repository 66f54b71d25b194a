package display

import (
	"errors"
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/braindisplay/pixel"
)

func init() {
	sleep = func(time.Duration) {}
}

// busRecorder is a Conn that records commands and data.
type busRecorder struct {
	ops    []string
	data   [][]byte
	fail   error
	closed bool
}

func (b *busRecorder) String() string { return "recorder" }

func (b *busRecorder) Close() error {
	b.closed = true
	return nil
}

func (b *busRecorder) Reset(level gpio.Level) error {
	b.ops = append(b.ops, "reset "+level.String())
	return nil
}

func (b *busRecorder) Command(cmnd byte, args ...byte) error {
	if b.fail != nil {
		return b.fail
	}
	b.ops = append(b.ops, fmt.Sprintf("cmd %02x % x", cmnd, args))
	return nil
}

func (b *busRecorder) Data(data ...byte) error {
	if b.fail != nil {
		return b.fail
	}
	b.ops = append(b.ops, fmt.Sprintf("data %d", len(data)))
	b.data = append(b.data, append([]byte(nil), data...))
	return nil
}

func (b *busRecorder) reset() {
	b.ops = nil
	b.data = nil
}

type touchStub TouchEvent

func (t touchStub) TouchStatus() TouchEvent { return TouchEvent(t) }

func testST7789(t *testing.T, config *PanelConfig) (*Panel, *busRecorder) {
	t.Helper()
	b := new(busRecorder)
	d, err := NewST7789(b, config)
	require.NoError(t, err)
	b.reset()
	return d, b
}

func TestNewST7789(t *testing.T) {
	b := new(busRecorder)
	d, err := NewST7789(b, nil)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(320, 240-StatusBarHeight), d.Resolution())
	assert.Equal(t, []string{"reset High", "reset Low", "reset High", "cmd 11 "}, b.ops[:4])
	assert.Contains(t, b.ops, "cmd 36 60")
	assert.Contains(t, b.ops, "cmd 3a 05")

	// The screen is cleared after the display is turned on.
	n := len(b.ops)
	assert.Equal(t, []string{
		"cmd 29 ",
		"cmd 2a 00 00 01 3f",
		"cmd 2b 00 00 00 ef",
		"cmd 2c ",
		"data 153600",
	}, b.ops[n-5:])

	t.Run("invalid size", func(t *testing.T) {
		_, err := NewST7789(new(busRecorder), &PanelConfig{Width: 320, Height: 240, Rotation: NoRotation})
		assert.Error(t, err)
	})
	t.Run("invalid status bar", func(t *testing.T) {
		_, err := NewST7789(new(busRecorder), &PanelConfig{Width: 240, Height: 240, StatusBarHeight: 240})
		assert.Error(t, err)
	})
	t.Run("bus error", func(t *testing.T) {
		_, err := NewST7789(&busRecorder{fail: errors.New("no ack")}, nil)
		assert.ErrorContains(t, err, "st7789: no ack")
	})
}

func TestST7789Immediate(t *testing.T) {
	d, b := testST7789(t, &PanelConfig{Width: 240, Height: 240, RowOffset: 80, Rotation: Rotate180})

	d.SetForeground(pixel.Red.V)
	d.SetPixel(1, 2)
	assert.Equal(t, []string{
		"cmd 2a 00 01 00 01",
		"cmd 2b 00 52 00 52",
		"cmd 2c ",
		"data 2",
	}, b.ops)
	assert.Equal(t, []byte{0xf8, 0x00}, b.data[0])

	b.reset()
	d.SetPixel(240, 0)
	assert.Empty(t, b.ops)
}

func TestST7789DoubleBuffered(t *testing.T) {
	d, b := testST7789(t, nil)
	d.SetRenderMode(DoubleBuffered)

	d.SetForeground(pixel.Blue.V)
	d.FillRect(0, 0, 1, 0)
	d.CopyRect(4, 1, 4, 1, []uint32{pixel.Green.V}, 1)
	assert.Empty(t, b.ops)

	d.Render()
	assert.Equal(t, []string{
		"cmd 2a 00 00 00 04",
		"cmd 2b 00 00 00 01",
		"cmd 2c ",
		"data 20",
	}, b.ops)
	assert.Equal(t, []byte{0x00, 0x1f, 0x00, 0x1f}, b.data[0][:4])
	assert.Equal(t, []byte{0x07, 0xe0}, b.data[0][18:])

	b.reset()
	d.Render()
	assert.Empty(t, b.ops)
}

func TestST7789Error(t *testing.T) {
	d, b := testST7789(t, nil)
	b.fail = errors.New("bus on fire")

	d.FillRect(0, 0, 9, 9)
	assert.EqualError(t, d.Err(), "bus on fire")

	b.fail = nil
	d.FillRect(0, 0, 9, 9)
	assert.Empty(t, b.ops)
}

func TestST7789Adapter(t *testing.T) {
	d, b := testST7789(t, &PanelConfig{
		Width:           320,
		Height:          240,
		Rotation:        Rotate90,
		StatusBarHeight: StatusBarHeight,
		Touch:           touchStub{State: Pressed, Point: image.Pt(5, 6), Presses: 1},
	})

	a, err := New(d, nil)
	require.NoError(t, err)
	defer a.Release()

	assert.Equal(t, DoubleBuffered, d.RenderMode())
	assert.Equal(t, image.Rect(0, 0, 320, 208), a.Bounds())
	assert.Equal(t, Pressed, a.TouchStatus().State)

	a.FillSolid(image.Rect(10, 10, 30, 30), pixel.Green)
	assert.Empty(t, b.ops)

	a.Render()
	assert.Equal(t, []string{
		"cmd 2a 00 0a 00 1d",
		"cmd 2b 00 2a 00 3d",
		"cmd 2c ",
		"data 800",
	}, b.ops)
	assert.NoError(t, a.Err())
}

func TestST7789Close(t *testing.T) {
	d, b := testST7789(t, nil)
	require.NoError(t, d.Close())
	assert.Equal(t, []string{"cmd 28 "}, b.ops)
	assert.True(t, b.closed)
}
