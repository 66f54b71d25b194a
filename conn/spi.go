package conn

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPIMode is the clock polarity and phase.
type SPIMode = spi.Mode

// SPI modes.
const (
	SPIMode0 = spi.Mode0
	SPIMode1 = spi.Mode1
	SPIMode2 = spi.Mode2
	SPIMode3 = spi.Mode3
)

// ErrConnected is returned when changing the bus parameters after the first transfer.
var ErrConnected = errors.New("conn: SPI port is already connected")

// SPI is a device on a SPI port.
//
// The mode, word size and speed can be changed until the first transfer, which
// connects to the port with the requested parameters.
type SPI struct {
	port        spi.Port
	conn        spi.Conn
	mode        SPIMode
	bitsPerWord int
	maxSpeed    physic.Frequency
	maxTxSize   int
}

// OpenSPI opens the numbered spi bus with the numbered device. The device often corresponds to the CS pin for that bus.
func OpenSPI(bus, device int) (*SPI, error) {
	port, err := spireg.Open(fmt.Sprintf("SPI%d.%d", bus, device))
	if err != nil {
		return nil, err
	}
	return NewSPI(port), nil
}

// NewSPI uses an already opened port.
func NewSPI(port spi.Port) *SPI {
	return &SPI{
		port:        port,
		mode:        SPIMode0,
		bitsPerWord: 8,
		maxSpeed:    physic.MegaHertz,
	}
}

func (c *SPI) Close() error {
	if closer, ok := c.port.(spi.PortCloser); ok {
		return closer.Close()
	}
	return nil
}

func (c *SPI) String() string {
	return fmt.Sprintf("SPI %s mode=%d bits per word=%d max speed=%s", c.port, c.mode&3, c.bitsPerWord, c.maxSpeed)
}

func (c *SPI) Mode() SPIMode {
	return c.mode
}

func (c *SPI) SetMode(mode SPIMode) error {
	if c.conn != nil {
		if mode == c.mode {
			return nil
		}
		return ErrConnected
	}
	c.mode = mode
	return nil
}

func (c *SPI) BitsPerWord() uint8 {
	return uint8(c.bitsPerWord)
}

func (c *SPI) SetBitsPerWord(bits uint8) error {
	if bits < 8 || bits > 32 {
		return fmt.Errorf("conn: SPI bits per word need to be 8 or more and 32 or less, got %d", bits)
	}
	if c.conn != nil {
		if int(bits) == c.bitsPerWord {
			return nil
		}
		return ErrConnected
	}
	c.bitsPerWord = int(bits)
	return nil
}

// MaxSpeed in Hz.
func (c *SPI) MaxSpeed() int {
	return int(c.maxSpeed / physic.Hertz)
}

func (c *SPI) SetMaxSpeed(v int) error {
	if v < 0 {
		return nil
	}
	f := physic.Frequency(v) * physic.Hertz
	if c.conn != nil {
		if f == c.maxSpeed {
			return nil
		}
		return ErrConnected
	}
	c.maxSpeed = f
	return nil
}

func (c *SPI) connect() (err error) {
	if c.conn != nil {
		return nil
	}
	if c.conn, err = c.port.Connect(c.maxSpeed, c.mode, c.bitsPerWord); err != nil {
		return
	}
	if limits, ok := c.conn.(conn.Limits); ok {
		c.maxTxSize = limits.MaxTxSize()
	}
	return
}

// Read clocks out zeros while reading len(b) bytes.
func (c *SPI) Read(b []byte) (n int, err error) {
	if err = c.connect(); err != nil {
		return
	}
	if err = c.conn.Tx(make([]byte, len(b)), b); err != nil {
		return
	}
	return len(b), nil
}

// Write b, split in transfers the port can handle.
func (c *SPI) Write(b []byte) (n int, err error) {
	if err = c.connect(); err != nil {
		return
	}
	for len(b) > 0 {
		chunk := b
		if c.maxTxSize > 0 && len(chunk) > c.maxTxSize {
			chunk = chunk[:c.maxTxSize]
		}
		if err = c.conn.Tx(chunk, nil); err != nil {
			return
		}
		n += len(chunk)
		b = b[len(chunk):]
	}
	return
}
