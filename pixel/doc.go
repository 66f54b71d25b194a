// Package pixel implements the color packing and image buffers used by the display adapter.
//
// The display hardware stores 24-bit colors as one 0x00RRGGBB word per pixel. This module
// provides that color model, compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces, plus the 5-6-5 wire format used by SPI panels.
package pixel
