package svg

import (
	"errors"
	"fmt"
)

// ErrParse matches every error returned by Parse and ParseReader.
var ErrParse = errors.New("svg: parse error")

// ParseError reports why document text could not be turned into a tree.
type ParseError struct {
	// Reason is a short human readable description.
	Reason string

	// Line is the 1-based source line, or 0 when unknown.
	Line int

	// Err is the underlying error, if any.
	Err error
}

func (e *ParseError) Error() string {
	msg := "svg: " + e.Reason
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...), Line: line}
}
