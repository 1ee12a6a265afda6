package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/reachinspect/internal/inspect"
)

func TestPrintError(t *testing.T) {
	fatal := &inspect.FatalError{
		Line:   4,
		Text:   "  at ./index.rsh:x:1",
		Reason: "malformed violation location",
		Err:    errors.New("bad line number"),
	}

	tests := []struct {
		name         string
		userMsg      string
		technicalErr error
		verbose      bool
		expectedOut  string
	}{
		{
			name:        "normal mode without error",
			userMsg:     "User friendly message",
			expectedOut: "User friendly message\n",
		},
		{
			name:         "normal mode with technical error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			expectedOut:  "User friendly message\n",
		},
		{
			name:         "verbose mode with error",
			userMsg:      "User friendly message",
			technicalErr: errors.New("technical details"),
			verbose:      true,
			expectedOut:  "Error: technical details\n",
		},
		{
			name:         "verbose mode with transcript error",
			userMsg:      "User friendly message",
			technicalErr: fatal,
			verbose:      true,
			expectedOut: "Error: transcript line 4: malformed violation location: bad line number\n" +
				"  >   at ./index.rsh:x:1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			var buf bytes.Buffer
			printError(&buf, tt.userMsg, tt.technicalErr)
			assert.Equal(t, tt.expectedOut, buf.String())
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := &inspect.FatalError{Line: 7, Reason: "malformed protected declaration"}
	assert.Equal(t, "Cannot explain transcript: line 7: malformed protected declaration", userMessage(err))
	assert.Equal(t, "Error: boom", userMessage(errors.New("boom")))
}

func TestHandleFatalError(t *testing.T) {
	var code int
	prev := exit
	exit = func(c int) { code = c }
	defer func() { exit = prev }()

	HandleFatalError("fatal", nil)
	assert.Equal(t, 1, code)
}
