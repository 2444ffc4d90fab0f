package image

import (
	"maps"
	"slices"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Resolved image, ready to be mounted.
//
// Layers are listed base first, as they appear in the image manifest. Each
// digest identifies an uncompressed layer already unpacked in the layer
// store.
type Image struct {
	Layers []digest.Digest      // Uncompressed layer digests, base layer first.
	Config *ocispec.ImageConfig // Execution defaults, nil if the image declares none.
}

// Returns the declared run-as user, or an empty string.
func (img *Image) User() string {
	if img == nil || img.Config == nil {
		return ""
	}
	return img.Config.User
}

// Returns the default entrypoint, or nil.
func (img *Image) Entrypoint() []string {
	if img == nil || img.Config == nil {
		return nil
	}
	return img.Config.Entrypoint
}

// Returns the default command, or nil.
func (img *Image) Cmd() []string {
	if img == nil || img.Config == nil {
		return nil
	}
	return img.Config.Cmd
}

// Returns the default environment as KEY=VALUE entries, or nil.
func (img *Image) Env() []string {
	if img == nil || img.Config == nil {
		return nil
	}
	return img.Config.Env
}

// Returns a deep copy of the image.
func (img *Image) Clone() *Image {
	if img == nil {
		return nil
	}

	out := &Image{Layers: slices.Clone(img.Layers)}
	if img.Config != nil {
		cfg := *img.Config
		cfg.Entrypoint = slices.Clone(cfg.Entrypoint)
		cfg.Cmd = slices.Clone(cfg.Cmd)
		cfg.Env = slices.Clone(cfg.Env)
		cfg.ExposedPorts = maps.Clone(cfg.ExposedPorts)
		cfg.Volumes = maps.Clone(cfg.Volumes)
		cfg.Labels = maps.Clone(cfg.Labels)
		out.Config = &cfg
	}
	return out
}
