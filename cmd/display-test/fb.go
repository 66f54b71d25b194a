package main

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/BeatGlow/braindisplay/framebuffer"
)

var (
	fbDeviceFlag    string
	fbStatusBarFlag int
)

func init() {
	fbCmd.Flags().StringVarP(&fbDeviceFlag, `device`, `d`, `/dev/fb0`, `framebuffer device`)
	fbCmd.Flags().IntVar(&fbStatusBarFlag, `status-bar`, framebuffer.DefaultConfig.StatusBarHeight, `rows reserved for the status bar`)
	rootCmd.AddCommand(fbCmd)
}

var fbCmd = &cobra.Command{
	Use:   "fb",
	Short: `run a scene on a Linux framebuffer device`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(fbFunc)
	},
}

func fbFunc() error {
	fb, err := framebuffer.Open(fbDeviceFlag, &framebuffer.Config{
		StatusBarHeight: fbStatusBarFlag,
	})
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer fb.Close()

	fmt.Printf("using display: %s\n", fb)
	return show(fb)
}
