package registry

import (
	"fmt"

	"github.com/cruciblehq/doe/internal/image"
	"github.com/distribution/reference"
	"github.com/google/go-containerregistry/pkg/name"
)

// Normalises a user-provided reference and parses it for go-containerregistry.
//
// Tagless references get the "latest" tag. Digest references are kept as is.
func parseReference(s string, insecure bool) (name.Reference, error) {
	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", image.ErrInvalidSource, s, err)
	}

	normalized := reference.TagNameOnly(named).String()

	var opts []name.Option
	if insecure {
		opts = append(opts, name.Insecure)
	}

	ref, err := name.ParseReference(normalized, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", image.ErrInvalidSource, s, err)
	}
	return ref, nil
}
