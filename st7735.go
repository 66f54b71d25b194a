package display

import (
	"image"
	"time"
)

// Registers (from st7735.pdf).
const (
	st7735FRMCTR1 = 0xB1
	st7735FRMCTR2 = 0xB2
	st7735FRMCTR3 = 0xB3
	st7735INVCTR  = 0xB4
	st7735PWCTR1  = 0xC0
	st7735PWCTR2  = 0xC1
	st7735PWCTR3  = 0xC2
	st7735PWCTR4  = 0xC3
	st7735PWCTR5  = 0xC4
	st7735VMCTR1  = 0xC5
	st7735GMCTRP1 = 0xE0
	st7735GMCTRN1 = 0xE1
)

// DefaultST7735Config is a portrait 128x160 panel without a status bar.
var DefaultST7735Config = PanelConfig{
	Width:  128,
	Height: 160,
}

// NewST7735 resets and initializes a Sitronix ST7735 controller on c. A nil config
// selects DefaultST7735Config.
func NewST7735(c Conn, config *PanelConfig) (*Panel, error) {
	return newPanel("st7735", c, config, DefaultST7735Config, image.Pt(132, 162), st7735Init)
}

func st7735Init(d *Panel) (err error) {
	if err = d.c.Command(dcsSWRESET); err != nil {
		return
	}
	sleep(150 * time.Millisecond)
	if err = d.c.Command(dcsSLPOUT); err != nil { // Sleep Out
		return
	}
	sleep(150 * time.Millisecond)

	return d.commands([][]byte{
		{st7735FRMCTR1, 0x01, 0x2C, 0x2D},
		{st7735FRMCTR2, 0x01, 0x2C, 0x2D},
		{st7735FRMCTR3, 0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D},
		{st7735INVCTR, 0x07},
		{st7735PWCTR1, 0xA2, 0x02, 0x84},
		{st7735PWCTR2, 0xC5},
		{st7735PWCTR3, 0x0A, 0x00},
		{st7735PWCTR4, 0x8A, 0x2A},
		{st7735PWCTR5, 0x8A, 0xEE},
		{st7735VMCTR1, 0x0E},
		{dcsINVOFF},
		{dcsMADCTL, d.madctl()},
		{dcsCOLMOD, 0x05}, // 16-bits per pixel
		{st7735GMCTRP1, 0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10},
		{st7735GMCTRN1, 0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10},
		{dcsNORON},
		{dcsDISPON},
	})
}
