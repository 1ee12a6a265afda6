package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/josephgoksu/reachinspect/internal/inspect"
	"github.com/spf13/viper"
)

// exit is swapped in tests.
var exit = os.Exit

// HandleFatalError handles unrecoverable errors that should terminate the application.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	exit(1)
}

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(userMsg string, technicalErr error) {
	printError(os.Stderr, userMsg, technicalErr)
}

func printError(w io.Writer, userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(w, "Error: %v\n", technicalErr)
		var fe *inspect.FatalError
		if errors.As(technicalErr, &fe) && fe.Text != "" {
			fmt.Fprintf(w, "  > %s\n", fe.Text)
		}
		return
	}
	fmt.Fprintln(w, userMsg)
}

// userMessage returns the short message shown for err when not verbose.
func userMessage(err error) string {
	var fe *inspect.FatalError
	if errors.As(err, &fe) {
		return fmt.Sprintf("Cannot explain transcript: line %d: %s", fe.Line, fe.Reason)
	}
	return fmt.Sprintf("Error: %v", err)
}
