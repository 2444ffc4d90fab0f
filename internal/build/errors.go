package build

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrBuild               = fmt.Errorf("build failed: %w", errdefs.ErrFailedPrecondition)
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrCopy                = errors.New("copy failed")
)
