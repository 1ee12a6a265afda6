package inspect

import "fmt"

// FatalError reports a transcript line that matched a section marker but
// not the shape that marker promises. It stops the scan; anything already
// written stays written.
type FatalError struct {
	Line   int // 1-based
	Text   string
	Reason string
	Err    error
}

func (e *FatalError) Error() string {
	msg := fmt.Sprintf("transcript line %d: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
