package pixel

import "image/color"

// Models for the standard color types.
var (
	RGB888Model color.Model = color.ModelFunc(rgb888Model)
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
)

// Common colors.
var (
	Black = RGB888{}
	White = RGB(0xff, 0xff, 0xff)
	Red   = RGB(0xff, 0x00, 0x00)
	Green = RGB(0x00, 0xff, 0x00)
	Blue  = RGB(0x00, 0x00, 0xff)
)

// Pack a 24-bit RGB triple into the 0x00RRGGBB storage format used by the display hardware.
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack the red, green and blue channels from a packed 0x00RRGGBB value. The top byte is ignored.
func Unpack(v uint32) (r, g, b uint8) {
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// RGB888 represents a 24-bit 8-8-8 RGB color.
type RGB888 struct {
	// CIgnore, 8, CRed, 8, CGreen, 8, CBlue, 8
	V uint32
}

// RGB returns the RGB888 color for the channel values.
func RGB(r, g, b uint8) RGB888 {
	return RGB888{Pack(r, g, b)}
}

// Storage is the packed hardware value.
func (c RGB888) Storage() uint32 {
	return c.V & 0xffffff
}

// Channels returns the red, green and blue components.
func (c RGB888) Channels() (r, g, b uint8) {
	return Unpack(c.V)
}

func (c RGB888) RGBA() (r, g, b, a uint32) {
	red, grn, blu := Unpack(c.V)
	r = uint32(red)
	r |= r << 8
	g = uint32(grn)
	g |= g << 8
	b = uint32(blu)
	b |= b << 8
	return r, g, b, 0xffff
}

func rgb888Model(c color.Color) color.Color {
	return ToRGB888(c)
}

// ToRGB888 converts any color to RGB888. Alpha premultiplied colors are
// composited over black, which is what the display shows for them.
func ToRGB888(c color.Color) RGB888 {
	switch c := c.(type) {
	case RGB888:
		return RGB888{c.Storage()}
	case CRGB16:
		r, g, b, _ := c.RGBA()
		return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	case color.RGBA:
		return RGB(c.R, c.G, c.B)
	case nil:
		return RGB888{}
	default:
		r, g, b, _ := c.RGBA()
		return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
//
// This is the wire format of most SPI TFT panels and 16 bpp framebuffers.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

// PackCRGB16 converts a packed 0x00RRGGBB value to 5-6-5.
func PackCRGB16(v uint32) uint16 {
	r, g, b := Unpack(v)
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CRGB16:
		return c
	case RGB888:
		return CRGB16{PackCRGB16(c.V)}
	default:
		r, g, b, _ := c.RGBA()
		r = (r & 0xF800)
		g = (g & 0xFC00) >> 5
		b = (b & 0xF800) >> 11
		return CRGB16{uint16(r | g | b)}
	}
}
