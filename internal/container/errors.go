package container

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrInvalidConfig = fmt.Errorf("invalid container config: %w", errdefs.ErrInvalidArgument)
	ErrInvalidName   = fmt.Errorf("invalid name: %w", errdefs.ErrInvalidArgument)
)
