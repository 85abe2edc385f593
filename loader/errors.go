package loader

import (
	"errors"
	"fmt"
)

// ErrNetwork matches every *NetworkError.
var ErrNetwork = errors.New("loader: network error")

// NetworkError reports that a document could not be retrieved.
type NetworkError struct {
	// Address is the address that was requested.
	Address string

	// StatusCode is the HTTP status for non-success responses, otherwise 0.
	StatusCode int

	// Err is the underlying transport error, if any.
	Err error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("loader: fetch %s: status %d", e.Address, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("loader: fetch %s: %v", e.Address, e.Err)
	}
	return "loader: fetch " + e.Address + " failed"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
