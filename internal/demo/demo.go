// Package demo has animated scenes for trying out displays.
package demo

import (
	"context"
	"fmt"
	"image"
	"sort"
	"time"

	display "github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/draw"
)

// Scene draws one frame at time t since the start of the animation.
type Scene interface {
	Draw(dst draw.Target, t time.Duration)
}

// NewScene makes a scene for a display of the given bounds.
type NewScene func(bounds image.Rectangle) (Scene, error)

var scenes = map[string]NewScene{
	"clock":   NewClock,
	"hello":   NewHello,
	"pattern": NewPattern,
}

// Names of the available scenes.
func Names() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the named scene.
func New(name string, bounds image.Rectangle) (Scene, error) {
	fn, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("demo: unknown scene %q", name)
	}
	return fn(bounds)
}

// Options for Run.
type Options struct {
	// Frames stops after this many frames, zero runs until the context is done.
	Frames int

	// Interval between frames.
	Interval time.Duration

	// ExitOnTouch stops when the screen is pressed.
	ExitOnTouch bool
}

// DefaultOptions renders 20 frames per second until the screen is touched.
var DefaultOptions = Options{
	Interval:    50 * time.Millisecond,
	ExitOnTouch: true,
}

// Run draws and renders frames of s until ctx is done, the frame limit is reached or
// the screen is touched. It returns the number of rendered frames and the first
// hardware error.
func Run(ctx context.Context, a *display.Adapter, s Scene, options *Options) (frames int, err error) {
	if options == nil {
		options = new(Options)
		*options = DefaultOptions
	}

	var tick <-chan time.Time
	if options.Interval > 0 {
		ticker := time.NewTicker(options.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	for options.Frames == 0 || frames < options.Frames {
		s.Draw(a, time.Since(start))

		if options.ExitOnTouch && a.TouchStatus().State == display.Pressed {
			break
		}

		a.Render()
		frames++
		if err = a.Err(); err != nil {
			return
		}

		if tick == nil {
			if err = ctx.Err(); err != nil {
				return
			}
			continue
		}
		select {
		case <-ctx.Done():
			return frames, ctx.Err()
		case <-tick:
		}
	}
	return
}
