package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalette_AlwaysEmitsANSI(t *testing.T) {
	p := NewPalette(ColorAlways, &bytes.Buffer{})

	assert.Equal(t, "\x1b[36mcheck\x1b[0m", p.Cyan("check"))
	assert.Equal(t, "\x1b[32mOK\x1b[0m", p.Green("OK"))
	assert.Equal(t, "\x1b[31mFAILED\x1b[0m", p.Red("FAILED"))
	assert.Equal(t, "\x1b[1mv64\x1b[0m", p.Bold("v64"))
	assert.Equal(t, "\x1b[4mAll\x1b[0m", p.Underline("All"))
}

func TestPalette_NeverIsPlain(t *testing.T) {
	p := NewPalette(ColorNever, &bytes.Buffer{})

	assert.Equal(t, "check", p.Cyan("check"))
	assert.Equal(t, "All", p.Underline("All"))
	assert.Equal(t, PlainPalette(), p)
}

func TestPalette_AutoOnBufferIsPlain(t *testing.T) {
	// A buffer is never a terminal.
	p := NewPalette(ColorAuto, &bytes.Buffer{})
	assert.Equal(t, "OK", p.Green("OK"))
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in   string
		want ColorMode
	}{
		{"always", ColorAlways},
		{"NEVER", ColorNever},
		{" auto ", ColorAuto},
		{"", ColorAlways},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
