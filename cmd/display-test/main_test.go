package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	display "github.com/BeatGlow/braindisplay"
)

func TestParseRotation(t *testing.T) {
	tests := []struct {
		In   string
		Want display.Rotation
	}{
		{"", display.NoRotation},
		{"cw", display.Rotate90},
		{"flip", display.Rotate180},
		{"270", display.Rotate270},
	}
	for _, test := range tests {
		got, err := parseRotation(test.In)
		require.NoError(t, err)
		assert.Equal(t, test.Want, got, test.In)
	}
	_, err := parseRotation("45")
	assert.Error(t, err)
}

func TestBufferMode(t *testing.T) {
	defer func(old string) { modeFlag = old }(modeFlag)

	for in, want := range map[string]display.BufferMode{
		"auto":   display.AutoFlush,
		"Manual": display.ManualFlush,
		"direct": display.Direct,
	} {
		modeFlag = in
		got, err := bufferMode()
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	modeFlag = "triple"
	_, err := bufferMode()
	assert.Error(t, err)
}

func TestSim(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clock.png")
	rootCmd.SetArgs([]string{"sim", "--scene", "clock", "--frames", "2", "--interval", "0", "--output", out})
	require.NoError(t, rootCmd.Execute())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPanelConfig(t *testing.T) {
	defer func(w, h int, r string, s int) {
		widthFlag, heightFlag, rotateFlag, statusBarFlag = w, h, r, s
	}(widthFlag, heightFlag, rotateFlag, statusBarFlag)

	widthFlag, heightFlag, rotateFlag, statusBarFlag = 0, 0, "", -1
	config, err := panelConfig(display.DefaultST7789Config)
	require.NoError(t, err)
	assert.Equal(t, display.DefaultST7789Config, *config)

	widthFlag, heightFlag, rotateFlag, statusBarFlag = 160, 128, "cw", 0
	config, err = panelConfig(display.DefaultST7735Config)
	require.NoError(t, err)
	assert.Equal(t, display.PanelConfig{Width: 160, Height: 128, Rotation: display.Rotate90}, *config)

	rotateFlag = "sideways"
	_, err = panelConfig(display.DefaultST7735Config)
	assert.Error(t, err)

	_, ok := panelDrivers["st7735"]
	assert.True(t, ok)
}
