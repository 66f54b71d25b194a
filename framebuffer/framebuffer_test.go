package framebuffer

import (
	"encoding/binary"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	display "github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/draw"
	"github.com/BeatGlow/braindisplay/pixel"
)

func testDevice(t *testing.T, w, h int, format Format, statusBar int) (*Device, []byte) {
	t.Helper()
	lineLen := w*format.BytesPerPixel() + 8 // padded lines
	mem := make([]byte, lineLen*h)
	fb, err := newDevice("test", mem, w, h, lineLen, format, &Config{StatusBarHeight: statusBar})
	require.NoError(t, err)
	return fb, mem
}

func TestNewDevice(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		fb, err := newDevice("test", make([]byte, 64*4*64), 64, 64, 64*4, XRGB8888, nil)
		require.NoError(t, err)
		assert.Equal(t, image.Pt(64, 64-display.StatusBarHeight), fb.Resolution())
		assert.NoError(t, fb.Close())
	})
	t.Run("status bar too high", func(t *testing.T) {
		_, err := newDevice("test", make([]byte, 16*4*16), 16, 16, 16*4, XRGB8888, &Config{StatusBarHeight: 16})
		assert.Error(t, err)
	})
	t.Run("short memory", func(t *testing.T) {
		_, err := newDevice("test", make([]byte, 10), 16, 16, 16*4, XRGB8888, &Config{})
		assert.Error(t, err)
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		Name                        string
		BPP, RO, RL, GO, GL, BO, BL uint32
		Want                        Format
		Fail                        bool
	}{
		{"xrgb", 32, 16, 8, 8, 8, 0, 8, XRGB8888, false},
		{"xbgr", 32, 0, 8, 8, 8, 16, 8, XBGR8888, false},
		{"rgb24", 24, 16, 8, 8, 8, 0, 8, RGB888, false},
		{"rgb565", 16, 11, 5, 5, 6, 0, 5, RGB565, false},
		{"gray", 8, 0, 8, 0, 8, 0, 8, 0, true},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			f, err := parseFormat(test.BPP, test.RO, test.RL, test.GO, test.GL, test.BO, test.BL)
			if test.Fail {
				assert.ErrorIs(t, err, ErrColorModel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.Want, f)
		})
	}
}

func TestFormatPut(t *testing.T) {
	v := pixel.Pack(0x12, 0x34, 0x56)
	tests := []struct {
		Format Format
		Want   []byte
	}{
		{XRGB8888, []byte{0x56, 0x34, 0x12, 0xff}},
		{XBGR8888, []byte{0x12, 0x34, 0x56, 0xff}},
		{RGB888, []byte{0x56, 0x34, 0x12}},
	}
	for _, test := range tests {
		t.Run(test.Format.String(), func(t *testing.T) {
			b := make([]byte, test.Format.BytesPerPixel())
			test.Format.put(b, v)
			assert.Equal(t, test.Want, b)
		})
	}

	t.Run("RGB565", func(t *testing.T) {
		b := make([]byte, 2)
		RGB565.put(b, pixel.Red.V)
		assert.Equal(t, uint16(0xf800), binary.LittleEndian.Uint16(b))
	})
}

func TestImmediate(t *testing.T) {
	fb, mem := testDevice(t, 8, 8, XRGB8888, 2)
	lineLen := 8*4 + 8

	fb.SetForeground(pixel.Green.V)
	fb.SetPixel(3, 4)
	assert.Equal(t, pixel.Green.V|0xff000000, binary.LittleEndian.Uint32(mem[4*lineLen+3*4:]))

	// Out of bounds writes are ignored.
	fb.SetPixel(8, 0)
	fb.SetPixel(-1, 0)
}

func TestDoubleBuffered(t *testing.T) {
	fb, mem := testDevice(t, 8, 8, XRGB8888, 0)
	lineLen := 8*4 + 8
	at := func(x, y int) uint32 {
		return binary.LittleEndian.Uint32(mem[y*lineLen+x*4:])
	}

	fb.SetRenderMode(display.DoubleBuffered)
	fb.SetForeground(pixel.Blue.V)
	fb.FillRect(1, 1, 2, 2)
	assert.Zero(t, at(1, 1))

	fb.Render()
	assert.Equal(t, pixel.Blue.V|0xff000000, at(1, 1))
	assert.Equal(t, pixel.Blue.V|0xff000000, at(2, 2))
	assert.Zero(t, at(3, 3))

	// Pending writes are shown when switching back.
	fb.CopyRect(5, 5, 6, 5, []uint32{pixel.Red.V, pixel.White.V}, 2)
	assert.Zero(t, at(5, 5))
	fb.SetRenderMode(display.Immediate)
	assert.Equal(t, pixel.Red.V|0xff000000, at(5, 5))
	assert.Equal(t, pixel.White.V|0xff000000, at(6, 5))
}

func TestCopyRectClipped(t *testing.T) {
	fb, mem := testDevice(t, 4, 4, RGB888, 0)
	lineLen := 4*3 + 8

	fb.CopyRect(2, 3, 4, 4, []uint32{
		pixel.Pack(1, 2, 3), pixel.Pack(4, 5, 6), pixel.Pack(7, 8, 9),
		pixel.Pack(9, 9, 9), pixel.Pack(9, 9, 9), pixel.Pack(9, 9, 9),
	}, 3)
	assert.Equal(t, []byte{3, 2, 1, 6, 5, 4}, mem[3*lineLen+2*3:3*lineLen+4*3])
}

func TestTouchStatus(t *testing.T) {
	fb, _ := testDevice(t, 4, 4, XRGB8888, 0)
	assert.Equal(t, display.Released, fb.TouchStatus().State)
}

func TestDraw(t *testing.T) {
	fb, mem := testDevice(t, 32, 40, RGB565, 8)
	lineLen := 32*2 + 8

	config := display.DefaultConfig
	config.RowOffset = 8
	a, err := display.New(fb, &config)
	require.NoError(t, err)
	defer a.Release()

	draw.HorizontalLine(a, 0, 0, 32, pixel.White)
	a.Render()
	for x := 0; x < 32; x++ {
		require.Equal(t, uint16(0xffff), binary.LittleEndian.Uint16(mem[8*lineLen+x*2:]))
	}
	assert.Zero(t, binary.LittleEndian.Uint16(mem[7*lineLen:]))
}

func TestVisiblePage(t *testing.T) {
	mem := make([]byte, 16)
	page, err := visiblePage(mem, 8)
	require.NoError(t, err)
	assert.Len(t, page, 8)

	page, err = visiblePage(mem, 16)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = visiblePage(mem, 17)
	assert.ErrorContains(t, err, "outside 16 bytes")
	_, err = visiblePage(mem, -1)
	assert.Error(t, err)
}

func TestStatusBarHeight(t *testing.T) {
	fb, _ := testDevice(t, 8, 8, XRGB8888, 2)
	assert.Equal(t, 2, fb.StatusBarHeight())
	assert.Equal(t, 2, display.DefaultRowOffset(fb))
}
