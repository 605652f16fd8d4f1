package sexpr

import (
	"errors"
	"fmt"
)

// Error reports a read failure together with where it happened.
// Incomplete is set when the input ended inside an unfinished form, which a
// REPL takes as a request for another line.
type Error struct {
	Line       int
	Column     int
	Err        error
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsIncomplete reports whether err was caused by input ending mid-form.
func IsIncomplete(err error) bool {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Incomplete
	}
	return false
}
