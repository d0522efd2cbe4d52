package lang

import "fmt"

// NotFoundError reports a failed symbol lookup.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("'%s' not found", e.Name)
}

// ThrownError carries a language-level exception payload. It is the only
// error kind that try*/catch* intercepts.
type ThrownError struct {
	Value Value
}

func (e *ThrownError) Error() string {
	return Render(e.Value, true)
}

// Throw wraps v as a language-level exception.
func Throw(v Value) error {
	return &ThrownError{Value: v}
}

// Throwf throws a formatted string payload.
func Throwf(format string, args ...interface{}) error {
	return Throw(StringValue(fmt.Sprintf(format, args...)))
}
