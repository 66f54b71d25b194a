package main

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/BeatGlow/braindisplay/sim"
)

var simOutputFlag string

func init() {
	simCmd.Flags().StringVarP(&simOutputFlag, `output`, `o`, `display.png`, `PNG file receiving the final screen`)
	rootCmd.AddCommand(simCmd)
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: `run a scene on the simulated brain display and save a snapshot`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(simFunc)
	},
}

func simFunc() error {
	if framesFlag == 0 {
		framesFlag = 1
	}

	d := sim.New()
	fmt.Printf("using display: %s\n", d)
	if err := show(d); err != nil {
		return err
	}

	f, err := os.Create(simOutputFlag)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err = d.WritePNG(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, 0)
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, 0)
	}
	fmt.Printf("saved %d renders to %s\n", d.Renders(), simOutputFlag)
	return nil
}
