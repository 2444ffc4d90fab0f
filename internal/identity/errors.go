package identity

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrUserNotFound  = fmt.Errorf("user not found: %w", errdefs.ErrNotFound)
	ErrGroupNotFound = fmt.Errorf("group not found: %w", errdefs.ErrNotFound)
	ErrInvalidGroup  = fmt.Errorf("invalid group: %w", errdefs.ErrInvalidArgument)
)
