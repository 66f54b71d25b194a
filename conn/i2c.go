package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a device on an I²C bus.
//
// Besides the io.ReadWriter on the device address, it can address any device on
// the bus through Tx, ReadRegister and WriteRegister, which makes it usable as a
// tinygo.org/x/drivers I2C bus.
type I2C struct {
	bus  i2c.Bus
	conn conn.Conn
	addr uint16
}

// OpenI2C opens the numbered I²C bus, use -1 to open the first available bus.
func OpenI2C(device int, addr uint8) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.FormatInt(int64(device), 10))
	}
	if err != nil {
		return nil, err
	}
	return NewI2C(bus, addr), nil
}

// NewI2C uses an already opened bus.
func NewI2C(bus i2c.Bus, addr uint8) *I2C {
	return &I2C{
		bus:  bus,
		conn: &i2c.Dev{Bus: bus, Addr: uint16(addr)},
		addr: uint16(addr),
	}
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", c.bus, c.addr)
}

// Addr is the device address.
func (c *I2C) Addr() uint8 {
	return uint8(c.addr)
}

// Close the bus, if it can be closed.
func (c *I2C) Close() error {
	if closer, ok := c.bus.(i2c.BusCloser); ok {
		return closer.Close()
	}
	return nil
}

// Reset does nothing (for now?).
func (c *I2C) Reset() error {
	return nil
}

func (c *I2C) Read(p []byte) (int, error) {
	return len(p), c.conn.Tx(nil, p)
}

func (c *I2C) Write(p []byte) (int, error) {
	return len(p), c.conn.Tx(p, nil)
}

// Tx does a write then read transaction with the device at addr.
func (c *I2C) Tx(addr uint16, w, r []byte) error {
	return c.bus.Tx(addr, w, r)
}

// ReadRegister reads len(buf) bytes starting at register reg of the device at addr.
func (c *I2C) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return c.bus.Tx(uint16(addr), []byte{reg}, buf)
}

// WriteRegister writes buf starting at register reg of the device at addr.
func (c *I2C) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return c.bus.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}
