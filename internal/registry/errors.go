package registry

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/containerd/errdefs"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
)

// Attaches an errdefs class to a registry error.
//
// Errors that already carry a class are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errdefs.IsNotFound(err) || errdefs.IsInvalidArgument(err) ||
		errdefs.IsCanceled(err) || errdefs.IsDeadlineExceeded(err) ||
		errdefs.IsDataLoss(err) {
		return err
	}

	var terr *transport.Error
	if errors.As(err, &terr) {
		for _, d := range terr.Errors {
			switch d.Code {
			case transport.ManifestUnknownErrorCode, transport.NameUnknownErrorCode, transport.BlobUnknownErrorCode:
				return fmt.Errorf("%w: %w", errdefs.ErrNotFound, err)
			case transport.NameInvalidErrorCode, transport.TagInvalidErrorCode, transport.DigestInvalidErrorCode:
				return fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, err)
			}
		}

		switch terr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", errdefs.ErrNotFound, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", errdefs.ErrUnauthenticated, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", errdefs.ErrPermissionDenied, err)
		}
	}

	return fmt.Errorf("%w: %w", errdefs.ErrUnavailable, err)
}
