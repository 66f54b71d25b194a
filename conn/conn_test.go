package conn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestI2C(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x38, W: []byte{0x00, 0xae}},
			{Addr: 0x38, W: []byte{0xa8}, R: []byte{0x11}},
			{Addr: 0x38, W: []byte{0x80, 0x16}},
			{Addr: 0x3c, W: []byte{0x01}, R: []byte{0x02, 0x03}},
		},
		DontPanic: true,
	}
	c := NewI2C(bus, 0x38)
	assert.Equal(t, uint8(0x38), c.Addr())

	n, err := c.Write([]byte{0x00, 0xae})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	id := make([]byte, 1)
	require.NoError(t, c.ReadRegister(0x38, 0xa8, id))
	assert.Equal(t, []byte{0x11}, id)

	require.NoError(t, c.WriteRegister(0x38, 0x80, []byte{0x16}))

	r := make([]byte, 2)
	require.NoError(t, c.Tx(0x3c, []byte{0x01}, r))
	assert.Equal(t, []byte{0x02, 0x03}, r)

	assert.NoError(t, c.Close())
}

func TestSPI(t *testing.T) {
	port := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				{W: []byte{0x2a, 0x00, 0x01}},
			},
			DontPanic: true,
		},
	}
	c := NewSPI(port)
	require.NoError(t, c.SetMode(SPIMode3))
	require.NoError(t, c.SetMaxSpeed(40_000_000))
	assert.Equal(t, 40_000_000, c.MaxSpeed())
	assert.Equal(t, uint8(8), c.BitsPerWord())
	assert.Error(t, c.SetBitsPerWord(4))

	n, err := c.Write([]byte{0x2a, 0x00, 0x01})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	t.Run("connected", func(t *testing.T) {
		assert.NoError(t, c.SetMode(SPIMode3))
		assert.ErrorIs(t, c.SetMode(SPIMode0), ErrConnected)
		assert.NoError(t, c.SetMaxSpeed(int(40*physic.MegaHertz/physic.Hertz)))
		assert.ErrorIs(t, c.SetMaxSpeed(1_000_000), ErrConnected)
	})

	assert.NoError(t, c.Close())
}
