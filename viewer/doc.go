// Package viewer shows one vector document at a time on a render.Backend.
//
// A Viewer owns the render state of a single display. Init creates the
// device, surface and renderer once; Load and SetAddress fetch, parse and
// present documents, fitted and centered in the surface.
//
// # Requests
//
// Every Load is a request with a sequence number. Starting a request
// cancels the previous one, and a request whose number is no longer the
// latest when its document is ready is dropped with ErrStale. The sequence
// check and the presentation happen under the same lock, so an older
// document can never replace a newer one.
//
// Fetching and parsing run without the lock, so a slow download does not
// block newer requests.
//
// # Errors
//
// Nothing in this package terminates the process. Load returns every
// failure to its caller; SetAddress hands failures to the handler set with
// WithErrorHandler and logs them.
package viewer
