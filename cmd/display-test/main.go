// Command display-test runs demo scenes on a simulated, framebuffer or SPI display.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	display "github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/internal/demo"
)

var rootCmd = &cobra.Command{
	Use:          "display-test",
	Short:        "display-test runs demo scenes on a display",
	Long:         "display-test runs demo scenes on a display\n\nscenes: " + strings.Join(demo.Names(), ", "),
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	debug           bool
	sceneFlag       string
	modeFlag        string
	thresholdFlag   int
	framesFlag      int
	intervalFlag    time.Duration
	noTouchExitFlag bool
)

func init() {
	cobra.EnablePrefixMatching = true
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debug, `debug`, false, `debug errors and log adapter activity`)
	flags.StringVarP(&sceneFlag, `scene`, `s`, `clock`, `demo scene`)
	flags.StringVarP(&modeFlag, `mode`, `m`, `manual`, `buffer mode: auto, manual or direct`)
	flags.IntVar(&thresholdFlag, `threshold`, 0, `direct write threshold for auto flush batches`)
	flags.IntVarP(&framesFlag, `frames`, `n`, 0, `stop after this many frames (0: run until interrupted)`)
	flags.DurationVar(&intervalFlag, `interval`, 50*time.Millisecond, `time between frames`)
	flags.BoolVar(&noTouchExitFlag, `no-touch-exit`, false, `keep running when the screen is touched`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(fn func() error) {
	var err error
	if fn == nil {
		err = errors.New("no command function")
	} else {
		err = fn()
	}
	if err != nil {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debug && ok {
			fmt.Fprintln(os.Stderr, stackFramer.ErrorStack())
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func bufferMode() (display.BufferMode, error) {
	switch strings.ToLower(modeFlag) {
	case "auto", "autoflush":
		return display.AutoFlush, nil
	case "manual", "manualflush":
		return display.ManualFlush, nil
	case "direct":
		return display.Direct, nil
	default:
		return 0, errors.Errorf("invalid buffer mode %q", modeFlag)
	}
}

// show runs the selected scene on p until interrupted.
func show(p display.Peripheral) error {
	mode, err := bufferMode()
	if err != nil {
		return err
	}
	config := &display.Config{
		Mode:            mode,
		RowOffset:       display.DefaultRowOffset(p),
		DirectThreshold: thresholdFlag,
	}
	if debug {
		config.Logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}

	a, err := display.New(p, config)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer a.Release()
	fmt.Printf("using adapter: %s\n", a)

	scene, err := demo.New(sceneFlag, a.Bounds())
	if err != nil {
		return errors.Wrap(err, 0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if framesFlag == 0 {
		fmt.Println("hit control-c to stop...")
	}
	start := time.Now()
	frames, err := demo.Run(ctx, a, scene, &demo.Options{
		Frames:      framesFlag,
		Interval:    intervalFlag,
		ExitOnTouch: !noTouchExitFlag,
	})
	if elapsed := time.Since(start); frames > 0 {
		fmt.Printf("rendered %d frames in %s (%.1f fps)\n", frames, elapsed.Round(time.Millisecond), float64(frames)/elapsed.Seconds())
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, 0)
	}
	return nil
}
