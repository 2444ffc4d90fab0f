package registry

import (
	"github.com/containerd/platforms"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Returns the Linux platform matching the host architecture.
//
// Containers always run Linux images, so the OS is fixed even when the
// resolver runs elsewhere.
func defaultPlatform() v1.Platform {
	p := platforms.DefaultSpec()
	return v1.Platform{
		OS:           "linux",
		Architecture: p.Architecture,
		Variant:      p.Variant,
	}
}

// Converts a go-containerregistry platform into its OCI form.
func toOCIPlatform(p v1.Platform) ocispec.Platform {
	return ocispec.Platform{
		OS:           p.OS,
		Architecture: p.Architecture,
		Variant:      p.Variant,
	}
}
