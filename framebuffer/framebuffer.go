// Package framebuffer provides a display peripheral on the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system. The framebuffer
// can be opened with the [Open] call, and the returned [Device] can be handed to
// display.New like any other peripheral.
//
// The top rows of the framebuffer can be reserved as a status bar, matching the layout
// of the brain screen. Double buffering is done in memory: in DoubleBuffered mode writes
// are kept back until Render. Framebuffers have no touch input, so the touch status is
// always released.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	display "github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/pixel"
)

// Errors
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrColorModel   = errors.New("framebuffer: unsupported color model")
)

// Format is a framebuffer pixel layout.
type Format uint8

// Supported formats, named by component order from most to least significant bit.
const (
	XRGB8888 Format = iota
	XBGR8888
	RGB888
	RGB565
)

func (f Format) String() string {
	switch f {
	case XRGB8888:
		return "XRGB8888"
	case XBGR8888:
		return "XBGR8888"
	case RGB888:
		return "RGB888"
	case RGB565:
		return "RGB565"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// BytesPerPixel is the size of one pixel in memory.
func (f Format) BytesPerPixel() int {
	switch f {
	case RGB888:
		return 3
	case RGB565:
		return 2
	default:
		return 4
	}
}

// Config is the framebuffer configuration.
type Config struct {
	// StatusBarHeight is the number of rows reserved at the top of the screen.
	StatusBarHeight int
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	StatusBarHeight: display.StatusBarHeight,
}

// Device is a framebuffer peripheral.
type Device struct {
	name      string
	mem       []byte
	lineLen   int
	format    Format
	screen    image.Rectangle
	statusBar int

	// back holds the full screen; mem receives it on render.
	back  *pixel.RGB888Image
	dirty image.Rectangle
	mode  display.RenderMode
	fg    uint32

	close func() error
}

// visiblePage returns mem from the start of the visible page at offset.
func visiblePage(mem []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(mem) {
		return nil, fmt.Errorf("framebuffer: visible page at %d is outside %d bytes of memory", offset, len(mem))
	}
	return mem[offset:], nil
}

func newDevice(name string, mem []byte, width, height, lineLen int, format Format, config *Config) (*Device, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	if config.StatusBarHeight < 0 || config.StatusBarHeight >= height {
		return nil, fmt.Errorf("framebuffer: invalid status bar height %d for %d rows", config.StatusBarHeight, height)
	}
	if need := (height-1)*lineLen + width*format.BytesPerPixel(); len(mem) < need {
		return nil, fmt.Errorf("framebuffer: %d bytes of memory is too small for %dx%d %s", len(mem), width, height, format)
	}
	return &Device{
		name:      name,
		mem:       mem,
		lineLen:   lineLen,
		format:    format,
		screen:    image.Rect(0, 0, width, height),
		statusBar: config.StatusBarHeight,
		back:      pixel.NewRGB888Image(width, height),
	}, nil
}

func (fb *Device) String() string {
	return fmt.Sprintf("framebuffer %s %dx%d %s", fb.name, fb.screen.Dx(), fb.screen.Dy(), fb.format)
}

// Close the framebuffer device.
func (fb *Device) Close() error {
	if fb.close == nil {
		return nil
	}
	err := fb.close()
	fb.close = nil
	return err
}

// Format of the framebuffer memory.
func (fb *Device) Format() Format {
	return fb.format
}

// StatusBarHeight is the number of rows reserved at the top.
func (fb *Device) StatusBarHeight() int {
	return fb.statusBar
}

// Resolution of the area below the status bar.
func (fb *Device) Resolution() image.Point {
	return image.Pt(fb.screen.Dx(), fb.screen.Dy()-fb.statusBar)
}

func (fb *Device) RenderMode() display.RenderMode {
	return fb.mode
}

// SetRenderMode changes the render mode; pending writes are shown when switching to Immediate.
func (fb *Device) SetRenderMode(mode display.RenderMode) {
	fb.mode = mode
	if mode == display.Immediate {
		fb.Render()
	}
}

// Render copies the pending writes to the framebuffer.
func (fb *Device) Render() {
	if fb.dirty.Empty() {
		return
	}
	fb.blit(fb.dirty)
	fb.dirty = image.Rectangle{}
}

// TouchStatus always reports a released screen.
func (fb *Device) TouchStatus() display.TouchEvent {
	return display.TouchEvent{}
}

func (fb *Device) SetForeground(rgb uint32) {
	fb.fg = rgb & 0xffffff
}

func (fb *Device) SetPixel(x, y int) {
	if !(image.Point{X: x, Y: y}).In(fb.screen) {
		return
	}
	fb.back.Pix[fb.back.PixOffset(x, y)] = fb.fg
	fb.write(image.Rect(x, y, x+1, y+1))
}

func (fb *Device) CopyRect(x0, y0, x1, y1 int, buf []uint32, stride int) {
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(fb.screen)
	if r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := (y-y0)*stride + (r.Min.X - x0)
		if i >= len(buf) {
			break
		}
		j := fb.back.PixOffset(r.Min.X, y)
		copy(fb.back.Pix[j:j+w], buf[i:min(i+w, len(buf))])
	}
	fb.write(r)
}

func (fb *Device) FillRect(x0, y0, x1, y1 int) {
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(fb.screen)
	fb.back.FillRect(r, fb.fg)
	fb.write(r)
}

func (fb *Device) write(r image.Rectangle) {
	if r.Empty() {
		return
	}
	if fb.mode == display.Immediate {
		fb.blit(r)
		return
	}
	fb.dirty = fb.dirty.Union(r)
}

// blit encodes r from the back buffer into framebuffer memory.
func (fb *Device) blit(r image.Rectangle) {
	bpp := fb.format.BytesPerPixel()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		var (
			src = fb.back.Pix[fb.back.PixOffset(r.Min.X, y):]
			dst = fb.mem[y*fb.lineLen+r.Min.X*bpp:]
		)
		for x := 0; x < r.Dx(); x++ {
			fb.format.put(dst[x*bpp:], src[x])
		}
	}
}

// put encodes the packed value v at the start of b, in little endian memory order.
func (f Format) put(b []byte, v uint32) {
	switch f {
	case XRGB8888:
		binary.LittleEndian.PutUint32(b, v|0xff000000)
	case XBGR8888:
		r, g, bl := pixel.Unpack(v)
		binary.LittleEndian.PutUint32(b, 0xff000000|uint32(bl)<<16|uint32(g)<<8|uint32(r))
	case RGB888:
		r, g, bl := pixel.Unpack(v)
		b[0], b[1], b[2] = bl, g, r
	case RGB565:
		binary.LittleEndian.PutUint16(b, pixel.PackCRGB16(v))
	}
}

// parseFormat maps a bitfield layout to a Format.
func parseFormat(bitsPerPixel, redOffset, redLength, greenOffset, greenLength, blueOffset, blueLength uint32) (Format, error) {
	switch {
	case bitsPerPixel == 32 && redOffset == 16 && greenOffset == 8 && blueOffset == 0 &&
		redLength == 8 && greenLength == 8 && blueLength == 8:
		return XRGB8888, nil
	case bitsPerPixel == 32 && redOffset == 0 && greenOffset == 8 && blueOffset == 16 &&
		redLength == 8 && greenLength == 8 && blueLength == 8:
		return XBGR8888, nil
	case bitsPerPixel == 24 && redOffset == 16 && greenOffset == 8 && blueOffset == 0:
		return RGB888, nil
	case bitsPerPixel == 16 && redOffset == 11 && redLength == 5 &&
		greenOffset == 5 && greenLength == 6 &&
		blueOffset == 0 && blueLength == 5:
		return RGB565, nil
	}
	return 0, ErrColorModel
}

var _ display.Peripheral = (*Device)(nil)
