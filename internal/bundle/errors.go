package bundle

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrBundle              = errors.New("bundle generation failed")
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrNoLayers            = fmt.Errorf("image has no layers: %w", errdefs.ErrFailedPrecondition)
	ErrReservedLink        = fmt.Errorf("link name is reserved: %w", errdefs.ErrInvalidArgument)
	ErrExecutableMismatch  = fmt.Errorf("published executable does not match its source: %w", errdefs.ErrDataLoss)
)
