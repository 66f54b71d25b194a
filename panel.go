package display

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/braindisplay/conn"
	"github.com/BeatGlow/braindisplay/pixel"
)

// MIPI Display Command Set registers, shared by the Sitronix controllers.
const (
	dcsSWRESET = 0x01 // Software Reset
	dcsSLPOUT  = 0x11 // Sleep Out
	dcsNORON   = 0x13 // Normal Display Mode On
	dcsINVOFF  = 0x20 // Display Inversion Off
	dcsINVON   = 0x21 // Display Inversion On
	dcsDISPOFF = 0x28 // Display Off
	dcsDISPON  = 0x29 // Display On
	dcsCASET   = 0x2A // Column Address Set
	dcsRASET   = 0x2B // Row Address Set
	dcsRAMWR   = 0x2C // Memory Write
	dcsMADCTL  = 0x36 // Memory Data Access Control
	dcsCOLMOD  = 0x3A // Interface Pixel Format
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                        byte = 1 << iota // D0: reserved
	_                                         // D1: reserved
	madctlDisplayDataLatch                    // D2: MH
	madctlBGR                                 // D3: RGB
	madctlLineAddressOrder                    // D4: ML
	madctlPageColumnOrder                     // D5: MV
	madctlColumnAddressOrder                  // D6: MX
	madctlPageAddressOrder                    // D7: MY
)

// Rotation of a panel.
type Rotation uint8

// Rotations, clockwise.
const (
	NoRotation Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r & 3 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// swapsAxes is true for rotations that exchange the width and height.
func (r Rotation) swapsAxes() bool {
	return r&1 == 1
}

// TouchSource reports touches for a peripheral without its own touch input.
type TouchSource interface {
	TouchStatus() TouchEvent
}

// PanelConfig is the TFT panel configuration.
type PanelConfig struct {
	// Width and Height of the panel after rotation.
	Width, Height int

	// Rotation of the panel.
	Rotation Rotation

	// ColOffset and RowOffset locate the panel in the controller memory, for panels
	// smaller than the controller supports.
	ColOffset, RowOffset int

	// StatusBarHeight is the number of rows reserved at the top of the panel.
	StatusBarHeight int

	// Touch is an optional touch controller.
	Touch TouchSource

	// Backlight is an optional PWM capable backlight pin.
	Backlight gpio.PinOut

	// SpeedHz is the SPI bus speed, zero selects DefaultPanelSpeedHz.
	SpeedHz uint32
}

// DefaultPanelSpeedHz is the SPI bus speed the panels are driven at by default.
const DefaultPanelSpeedHz = 40_000_000

var sleep = time.Sleep

// Panel is a peripheral on a window addressed RGB565 TFT controller.
//
// The controllers have no usable double buffering, so DoubleBuffered mode is done in
// memory and Render writes the changed region. Bus errors are latched and returned
// by Err; after the first error no further data is sent.
type Panel struct {
	c         Conn
	name      string
	width     int
	height    int
	rotation  Rotation
	colOffset int
	rowOffset int
	statusBar int
	touch     TouchSource
	backlight gpio.PinOut

	back    *pixel.RGB888Image
	dirty   image.Rectangle
	mode    RenderMode
	fg      uint32
	scratch []byte
	err     error
}

// panelInit sends the controller specific initialization after the hardware reset.
type panelInit func(*Panel) error

// newPanel validates config against the controller memory size, resets the controller and
// runs init. The screen is cleared to black afterwards.
func newPanel(name string, c Conn, config *PanelConfig, defaults PanelConfig, memory image.Point, init panelInit) (*Panel, error) {
	if config == nil {
		config = new(PanelConfig)
		*config = defaults
	}
	if config.Width == 0 {
		config.Width = defaults.Width
	}
	if config.Height == 0 {
		config.Height = defaults.Height
	}

	rotation := config.Rotation & 3
	if rotation.swapsAxes() {
		memory.X, memory.Y = memory.Y, memory.X
	}
	if config.Width > memory.X || config.Height > memory.Y {
		return nil, fmt.Errorf("%s: invalid size %dx%d, maximum size is %dx%d at %s rotation",
			name, config.Width, config.Height, memory.X, memory.Y, rotation)
	}
	if config.StatusBarHeight < 0 || config.StatusBarHeight >= config.Height {
		return nil, fmt.Errorf("%s: invalid status bar height %d for %d rows", name, config.StatusBarHeight, config.Height)
	}

	// Update mode and speed
	if spi, ok := c.(SPI); ok {
		speed := config.SpeedHz
		if speed == 0 {
			speed = DefaultPanelSpeedHz
		}
		spi.SetDataLow(false)
		if err := spi.SetMode(conn.SPIMode3); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := spi.SetMaxSpeed(int(speed)); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	d := &Panel{
		c:         c,
		name:      name,
		width:     config.Width,
		height:    config.Height,
		rotation:  rotation,
		colOffset: config.ColOffset,
		rowOffset: config.RowOffset,
		statusBar: config.StatusBarHeight,
		touch:     config.Touch,
		backlight: config.Backlight,
		back:      pixel.NewRGB888Image(config.Width, config.Height),
	}
	if err := d.reset(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := init(d); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	sleep(100 * time.Millisecond)
	if err := d.SetBrightness(0xff); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	// Start from a black screen, the controller memory is undefined after reset.
	d.blit(d.back.Bounds())
	if d.err != nil {
		return nil, fmt.Errorf("%s: %w", name, d.err)
	}

	debugf(nil, "display: %s on %s", d, c)
	return d, nil
}

func (d *Panel) String() string {
	return fmt.Sprintf("%s %dx%d at %s rotation", d.name, d.width, d.height, d.rotation)
}

// Close turns the display off and closes the connection.
func (d *Panel) Close() error {
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// Err is the first bus error encountered while drawing.
func (d *Panel) Err() error {
	return d.err
}

func (d *Panel) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.c.Command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

// reset toggles the reset pin.
func (d *Panel) reset() (err error) {
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	sleep(10 * time.Millisecond)
	return
}

func (d *Panel) madctl() byte {
	switch d.rotation {
	case Rotate90:
		return madctlColumnAddressOrder | madctlPageColumnOrder
	case Rotate180:
		return madctlColumnAddressOrder | madctlPageAddressOrder
	case Rotate270:
		return madctlPageAddressOrder | madctlPageColumnOrder
	default:
		return 0
	}
}

// Show turns the display on or off.
func (d *Panel) Show(show bool) error {
	var command = byte(dcsDISPOFF)
	if show {
		command = byte(dcsDISPON)
	}
	return d.c.Command(command)
}

// SetBrightness sets the backlight duty cycle, if there is a backlight pin.
func (d *Panel) SetBrightness(level uint8) error {
	if d.backlight == nil {
		return nil
	}
	const (
		step = gpio.DutyMax / 0xFF
		rate = 2 * physic.KiloHertz
	)
	debugf(nil, "%s: backlight duty cycle to %s at %s", d.name, step*gpio.Duty(level), rate)
	return d.backlight.PWM(step*gpio.Duty(level), rate)
}

// StatusBarHeight is the number of rows reserved at the top.
func (d *Panel) StatusBarHeight() int {
	return d.statusBar
}

// Resolution of the area below the status bar.
func (d *Panel) Resolution() image.Point {
	return image.Pt(d.width, d.height-d.statusBar)
}

func (d *Panel) RenderMode() RenderMode {
	return d.mode
}

// SetRenderMode changes the render mode; pending writes are shown when switching to Immediate.
func (d *Panel) SetRenderMode(mode RenderMode) {
	d.mode = mode
	if mode == Immediate {
		d.Render()
	}
}

// Render writes the pending region to the controller.
func (d *Panel) Render() {
	if d.dirty.Empty() {
		return
	}
	d.blit(d.dirty)
	d.dirty = image.Rectangle{}
}

// TouchStatus is the status of the touch controller, if any.
func (d *Panel) TouchStatus() TouchEvent {
	if d.touch == nil {
		return TouchEvent{}
	}
	return d.touch.TouchStatus()
}

func (d *Panel) SetForeground(rgb uint32) {
	d.fg = rgb & 0xffffff
}

func (d *Panel) SetPixel(x, y int) {
	if !(image.Point{X: x, Y: y}).In(d.back.Rect) {
		return
	}
	d.back.Pix[d.back.PixOffset(x, y)] = d.fg
	d.write(image.Rect(x, y, x+1, y+1))
}

func (d *Panel) CopyRect(x0, y0, x1, y1 int, buf []uint32, stride int) {
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(d.back.Rect)
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
	d.write(r)
}

func (d *Panel) FillRect(x0, y0, x1, y1 int) {
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(d.back.Rect)
	d.back.FillRect(r, d.fg)
	d.write(r)
}

func (d *Panel) write(r image.Rectangle) {
	if r.Empty() {
		return
	}
	if d.mode == Immediate {
		d.blit(r)
		return
	}
	d.dirty = d.dirty.Union(r)
}

// setWindow selects the controller memory region for the next RAMWR.
func (d *Panel) setWindow(r image.Rectangle) error {
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	if d.rotation.swapsAxes() {
		x0 += d.rowOffset
		y0 += d.colOffset
		x1 += d.rowOffset
		y1 += d.colOffset
	} else {
		x0 += d.colOffset
		y0 += d.rowOffset
		x1 += d.colOffset
		y1 += d.rowOffset
	}
	return d.commands([][]byte{
		{dcsCASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{dcsRASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Row address
		{dcsRAMWR}, // Write to RAM
	})
}

// blit sends r from the back buffer as big endian RGB565.
func (d *Panel) blit(r image.Rectangle) {
	if d.err != nil {
		return
	}
	if err := d.setWindow(r); err != nil {
		d.err = err
		return
	}

	n := r.Dx() * r.Dy() * 2
	if cap(d.scratch) < n {
		d.scratch = make([]byte, n)
	}
	data := d.scratch[:n]
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := d.back.Pix[d.back.PixOffset(r.Min.X, y):]
		for _, v := range row[:r.Dx()] {
			c := pixel.PackCRGB16(v)
			data[i], data[i+1] = byte(c>>8), byte(c)
			i += 2
		}
	}
	if err := d.c.Data(data...); err != nil {
		d.err = err
	}
}

var _ Peripheral = (*Panel)(nil)
