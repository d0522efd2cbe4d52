package reader

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when the source holds no forms at all. Callers
// treat it as a request for more input rather than a failure.
var ErrNoInput = errors.New("no input")

// SyntaxError reports malformed source. Incomplete is set when the input
// ended inside a list or string, so more lines could complete it.
type SyntaxError struct {
	Msg        string
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

func newSyntaxError(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

func newIncompleteError(format string, args ...interface{}) error {
	return &SyntaxError{
		Msg:        fmt.Sprintf(format, args...),
		Incomplete: true,
	}
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr.Incomplete
	}
	return false
}
