package layer

import (
	"context"
	"fmt"

	"github.com/cruciblehq/doe/internal/image"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Unpacks every layer of img into the store.
//
// Returns the image's diff IDs in manifest order together with its execution
// defaults. Layers already present in the store are not fetched again.
func (s *Store) Import(ctx context.Context, img v1.Image) (*image.Image, error) {
	cf, err := img.ConfigFile()
	if err != nil {
		return nil, fmt.Errorf("read image config: %w", err)
	}

	layers, err := img.Layers()
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}

	diffIDs := make([]digest.Digest, 0, len(layers))
	for i, l := range layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := s.importLayer(ctx, l)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		diffIDs = append(diffIDs, d)
	}

	return &image.Image{
		Layers: diffIDs,
		Config: ImageConfig(cf.Config),
	}, nil
}

// Unpacks one layer unless it is already present.
func (s *Store) importLayer(ctx context.Context, l v1.Layer) (digest.Digest, error) {
	h, err := l.DiffID()
	if err != nil {
		return "", err
	}

	d, err := digest.Parse(h.String())
	if err != nil {
		return "", err
	}

	if s.Exists(d) {
		return d, nil
	}

	rc, err := l.Uncompressed()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	if err := s.Unpack(ctx, d, rc); err != nil {
		return "", err
	}
	return d, nil
}

// Converts a go-containerregistry config into an OCI image config.
func ImageConfig(c v1.Config) *ocispec.ImageConfig {
	return &ocispec.ImageConfig{
		User:         c.User,
		ExposedPorts: c.ExposedPorts,
		Env:          c.Env,
		Entrypoint:   c.Entrypoint,
		Cmd:          c.Cmd,
		Volumes:      c.Volumes,
		WorkingDir:   c.WorkingDir,
		Labels:       c.Labels,
		StopSignal:   c.StopSignal,
	}
}
