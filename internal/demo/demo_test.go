package demo

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	display "github.com/BeatGlow/braindisplay"
	"github.com/BeatGlow/braindisplay/pixel"
	"github.com/BeatGlow/braindisplay/sim"
)

func testAdapter(t *testing.T) (*display.Adapter, *sim.Display) {
	t.Helper()
	d := sim.New()
	config := display.DefaultConfig
	config.Mode = display.ManualFlush
	a, err := display.New(d, &config)
	require.NoError(t, err)
	t.Cleanup(func() { a.Release() })
	return a, d
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"clock", "hello", "pattern"}, Names())

	_, err := New("nope", image.Rect(0, 0, 10, 10))
	assert.Error(t, err)
}

func TestClock(t *testing.T) {
	a, d := testAdapter(t)
	s, err := New("clock", a.Bounds())
	require.NoError(t, err)

	frames, err := Run(context.Background(), a, s, &Options{Frames: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, frames)
	assert.Equal(t, 2, d.Renders())

	var (
		snap   = d.Snapshot()
		center = image.Pt(sim.Width/2, (sim.Height-sim.StatusBarHeight)/2+sim.StatusBarHeight)
	)
	assert.Equal(t, clockHand, snap.RGB888At(center.X, center.Y))
	assert.Equal(t, clockBackground, snap.RGB888At(1, sim.StatusBarHeight+1))
	assert.Equal(t, sim.StatusBarColor, snap.RGB888At(0, 0))

	t.Run("too small", func(t *testing.T) {
		_, err := NewClock(image.Rect(0, 0, 30, 30))
		assert.Error(t, err)
	})
}

func TestClockAngles(t *testing.T) {
	c := &Clock{center: image.Pt(100, 100), diameter: 100}
	assert.Equal(t, image.Pt(100, 50), c.polar(hourToAngle(0), 0))
	assert.Equal(t, image.Pt(150, 100), c.polar(hourToAngle(3), 0))
	assert.Equal(t, image.Pt(100, 140), c.polar(sexagesimalToAngle(30), -10))
	assert.Equal(t, hourToAngle(1), hourToAngle(13))
}

func TestPattern(t *testing.T) {
	a, d := testAdapter(t)
	s, err := New("pattern", a.Bounds())
	require.NoError(t, err)

	_, err = Run(context.Background(), a, s, &Options{Frames: 1})
	require.NoError(t, err)

	snap := d.Snapshot()
	assert.Equal(t, pixel.White, snap.RGB888At(0, sim.StatusBarHeight))
	assert.Equal(t, pixel.White, snap.RGB888At(sim.Width-1, sim.Height-1))
	assert.Equal(t, pixel.RGB(2, 0, 2), snap.RGB888At(1, sim.StatusBarHeight+1))
}

func TestHello(t *testing.T) {
	a, d := testAdapter(t)
	s, err := New("hello", a.Bounds())
	require.NoError(t, err)

	_, err = Run(context.Background(), a, s, &Options{Frames: 1})
	require.NoError(t, err)

	var green int
	snap := d.Snapshot()
	for y := sim.StatusBarHeight; y < sim.StatusBarHeight+40; y++ {
		for x := 0; x < 60; x++ {
			if snap.RGB888At(x, y) == pixel.Green {
				green++
			}
		}
	}
	assert.Positive(t, green)
}

func TestRun(t *testing.T) {
	t.Run("exit on touch", func(t *testing.T) {
		a, d := testAdapter(t)
		d.Press(image.Pt(1, 1))
		s, _ := NewPattern(a.Bounds())
		frames, err := Run(context.Background(), a, s, &Options{Frames: 5, ExitOnTouch: true})
		require.NoError(t, err)
		assert.Zero(t, frames)
		assert.Zero(t, d.Renders())
	})

	t.Run("cancel", func(t *testing.T) {
		a, _ := testAdapter(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s, _ := NewPattern(a.Bounds())
		frames, err := Run(ctx, a, s, &Options{Interval: time.Hour})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, frames)
	})
}
