package layer

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrUnpack         = errors.New("layer unpack failed")
	ErrDigestMismatch = fmt.Errorf("layer digest mismatch: %w", errdefs.ErrDataLoss)
)
