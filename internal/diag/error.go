package diag

import (
	"errors"
	"fmt"

	"ionc/internal/source"
)

// Error carries a fatal diagnostic through ordinary error returns.
type Error struct {
	Diagnostic
	Err error // optional cause
}

// Errorf builds a fatal error diagnostic at pos.
func Errorf(code Code, pos source.Pos, format string, args ...any) *Error {
	return &Error{Diagnostic: NewError(code, pos, fmt.Sprintf(format, args...))}
}

// Wrap attaches cause to a fatal diagnostic.
func Wrap(code Code, pos source.Pos, cause error, format string, args ...any) *Error {
	e := Errorf(code, pos, format, args...)
	e.Err = cause
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Primary.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Primary, e.Code.ID(), msg)
	}
	return fmt.Sprintf("%s: %s", e.Code.ID(), msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsDiagnostic extracts the diagnostic behind err, if any.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var de *Error
	if errors.As(err, &de) && de != nil {
		return de.Diagnostic, true
	}
	return Diagnostic{}, false
}

// CodeOf returns the code behind err or UnknownCode.
func CodeOf(err error) Code {
	if d, ok := AsDiagnostic(err); ok {
		return d.Code
	}
	return UnknownCode
}
