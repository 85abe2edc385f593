package viewer

import "errors"

var (
	// ErrStale is returned by Load when a newer request was started before
	// the document could be presented.
	ErrStale = errors.New("viewer: request superseded")

	// ErrClosed is returned by Load and Init after Close.
	ErrClosed = errors.New("viewer: closed")
)
