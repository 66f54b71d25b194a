package main

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	display "github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/conn"
	"github.com/BeatGlow/braindisplay/touch"
)

var (
	spiBusFlag       int
	spiDeviceFlag    int
	spiSpeedFlag     uint32
	resetPinFlag     string
	dcPinFlag        string
	cePinFlag        string
	backlightFlag    string
	driverFlag       string
	widthFlag        int
	heightFlag       int
	rotateFlag       string
	statusBarFlag    int
	touchFlag        bool
	touchI2CDevFlag  int
	touchI2CAddrFlag uint8
)

func init() {
	flags := spiCmd.PersistentFlags()
	flags.IntVar(&spiBusFlag, `spi-bus`, 0, `SPI bus`)
	flags.IntVar(&spiDeviceFlag, `spi-dev`, 0, `SPI device`)
	flags.Uint32Var(&spiSpeedFlag, `spi-speed`, display.DefaultSPIConfig.SpeedHz, `SPI speed in Hz`)

	flags = spiCmd.Flags()
	flags.StringVar(&resetPinFlag, `reset`, `GPIO25`, `Reset GPIO pin`)
	flags.StringVar(&dcPinFlag, `dc`, `GPIO24`, `Data/Command GPIO pin (DC)`)
	flags.StringVar(&cePinFlag, `ce`, ``, `Chip enable GPIO pin`)
	flags.StringVar(&backlightFlag, `backlight`, ``, `PWM backlight GPIO pin`)
	flags.StringVar(&driverFlag, `driver`, `st7789`, `panel driver: st7789 or st7735`)
	flags.IntVar(&widthFlag, `width`, 0, `Display width (default: driver default)`)
	flags.IntVar(&heightFlag, `height`, 0, `Display height (default: driver default)`)
	flags.StringVar(&rotateFlag, `rotate`, ``, `Display rotation (default: driver default)`)
	flags.IntVar(&statusBarFlag, `status-bar`, -1, `rows reserved for the status bar (default: driver default)`)
	flags.BoolVar(&touchFlag, `touch`, false, `use a FT6x06 touch controller`)
	flags.IntVar(&touchI2CDevFlag, `i2c-dev`, -1, `I²C device number of the touch controller (default: use first available)`)
	flags.Uint8Var(&touchI2CAddrFlag, `i2c-addr`, touch.DefaultAddress, `I²C address of the touch controller`)

	// Assigned here rather than in the literal to avoid an initialization
	// cycle: spiFunc reads spiCmd's flags through panelConfig.
	spiCmd.Run = func(cmd *cobra.Command, args []string) {
		run(spiFunc)
	}
	spiCmd.AddCommand(spiProbeCmd)
	rootCmd.AddCommand(spiCmd)
}

var spiCmd = &cobra.Command{
	Use:   "spi",
	Short: `run a scene on a ST7789 or ST7735 panel on the SPI bus`,
	Args:  cobra.NoArgs,
}

var spiProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: `open and close the SPI bus`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(spiProbeFunc)
	},
}

func parseRotation(s string) (display.Rotation, error) {
	switch s {
	case "", "no", "0":
		return display.NoRotation, nil
	case "90", "right", "cw":
		return display.Rotate90, nil
	case "180", "flip":
		return display.Rotate180, nil
	case "270", "left", "ccw":
		return display.Rotate270, nil
	default:
		return 0, errors.Errorf("invalid rotation %q specified", s)
	}
}

type panelDriver struct {
	defaults display.PanelConfig
	open     func(display.Conn, *display.PanelConfig) (*display.Panel, error)
}

var panelDrivers = map[string]panelDriver{
	"st7789": {display.DefaultST7789Config, display.NewST7789},
	"st7735": {display.DefaultST7735Config, display.NewST7735},
}

// panelConfig applies the command line flags over the driver defaults.
func panelConfig(defaults display.PanelConfig) (*display.PanelConfig, error) {
	config := defaults
	if widthFlag > 0 {
		config.Width = widthFlag
	}
	if heightFlag > 0 {
		config.Height = heightFlag
	}
	if rotateFlag != "" {
		rotation, err := parseRotation(rotateFlag)
		if err != nil {
			return nil, err
		}
		config.Rotation = rotation
	}
	if statusBarFlag >= 0 {
		config.StatusBarHeight = statusBarFlag
	}
	if spiCmd.Flags().Changed(`spi-speed`) {
		config.SpeedHz = spiSpeedFlag
	}
	return &config, nil
}

func spiFunc() error {
	driver, ok := panelDrivers[strings.ToLower(driverFlag)]
	if !ok {
		return errors.Errorf("unknown driver %q", driverFlag)
	}
	config, err := panelConfig(driver.defaults)
	if err != nil {
		return err
	}
	fmt.Printf("using rotation: %s\n", config.Rotation)

	if _, err = host.Init(); err != nil {
		return errors.Wrap(err, 0)
	}

	if backlightFlag != "" {
		if config.Backlight = gpioreg.ByName(backlightFlag); config.Backlight == nil {
			return errors.Errorf("unknown backlight pin %q", backlightFlag)
		}
	}
	if touchFlag {
		bus, err := conn.OpenI2C(touchI2CDevFlag, touchI2CAddrFlag)
		if err != nil {
			return errors.Wrap(err, 0)
		}
		defer bus.Close()

		touchConfig := touch.DefaultConfig
		touchConfig.Addr = touchI2CAddrFlag
		touchConfig.Width, touchConfig.Height = config.Width, config.Height
		ts, err := touch.NewFT6x06(bus, &touchConfig)
		if err != nil {
			return errors.Wrap(err, 0)
		}
		fmt.Printf("using touch: %s on %s\n", ts, bus)
		config.Touch = ts
	}

	spiConfig := &display.SPIConfig{
		Bus:     spiBusFlag,
		Device:  spiDeviceFlag,
		SpeedHz: spiSpeedFlag,
		Reset:   gpioreg.ByName(resetPinFlag),
		DC:      gpioreg.ByName(dcPinFlag),
	}
	if cePinFlag != "" {
		spiConfig.CE = gpioreg.ByName(cePinFlag)
	}
	c, err := display.OpenSPI(spiConfig)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	fmt.Printf("using connection: %s\n", c)

	d, err := driver.open(c, config)
	if err != nil {
		_ = c.Close()
		return errors.Wrap(err, 0)
	}
	defer d.Close()

	fmt.Printf("using driver: %s\n", d)
	return show(d)
}

func spiProbeFunc() error {
	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, 0)
	}

	c, err := conn.OpenSPI(spiBusFlag, spiDeviceFlag)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err = c.SetMaxSpeed(int(spiSpeedFlag)); err != nil {
		_ = c.Close()
		return errors.Wrap(err, 0)
	}
	fmt.Println("connected using", c)
	if err = c.Close(); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}
