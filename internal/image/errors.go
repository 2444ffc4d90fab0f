package image

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrInvalidSource = fmt.Errorf("invalid image source: %w", errdefs.ErrInvalidArgument)
	ErrNoResolver    = fmt.Errorf("no resolver registered: %w", errdefs.ErrNotImplemented)
	ErrEmptyResult   = fmt.Errorf("resolver returned no image: %w", errdefs.ErrUnknown)
)

// Failure to resolve an image, tagged with the source that was requested.
//
// The underlying resolver error is preserved, so classification with
// errdefs (for example [errdefs.IsNotFound]) works on the wrapped value.
type ResolveError struct {
	Source Source // Source that failed to resolve.
	Err    error  // Error reported by the resolver.
}

// Implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Source, e.Err)
}

// Returns the underlying resolver error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}
