package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"
	"github.com/cruciblehq/doe/internal/image"
	"github.com/cruciblehq/doe/internal/layer"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/layout"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Resolves OCI layout directories into images.
type Resolver struct {
	store *layer.Store
}

// Creates a new [Resolver] unpacking into store.
func New(store *layer.Store) *Resolver {
	return &Resolver{store: store}
}

// Returns an [image.Factory] creating a [Resolver] on store.
func Factory(store *layer.Store) image.Factory {
	return func(image.Resolver) (image.Resolver, error) {
		if store == nil {
			return nil, fmt.Errorf("path resolver requires a layer store")
		}
		return New(store), nil
	}
}

// Reads the layout named by src.Path and unpacks the selected image.
func (r *Resolver) Resolve(ctx context.Context, src image.Source) (*image.Image, error) {
	if src.Path == "" {
		return nil, fmt.Errorf("%w: no path", image.ErrInvalidSource)
	}

	dir, ref := splitPath(src.Path)

	p, err := layout.FromPath(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: oci layout %s", errdefs.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("%w: open oci layout %s: %w", errdefs.ErrInvalidArgument, dir, err)
	}

	idx, err := p.ImageIndex()
	if err != nil {
		return nil, fmt.Errorf("%w: read index: %w", errdefs.ErrInvalidArgument, err)
	}

	img, err := selectImage(idx, ref)
	if err != nil {
		return nil, err
	}

	slog.Info("importing image", "path", dir, "ref", ref)

	return r.store.Import(ctx, img)
}

// Splits "dir:ref" into its parts.
//
// The suffix is only treated as a ref when it contains no path separator and
// the whole string does not name an existing directory.
func splitPath(s string) (dir, ref string) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || strings.ContainsRune(s[i+1:], '/') {
		return s, ""
	}
	if info, err := os.Stat(s); err == nil && info.IsDir() {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// Picks the image for ref from an index.
func selectImage(idx v1.ImageIndex, ref string) (v1.Image, error) {
	m, err := idx.IndexManifest()
	if err != nil {
		return nil, fmt.Errorf("%w: read index manifest: %w", errdefs.ErrInvalidArgument, err)
	}

	var candidates []v1.Descriptor
	for _, desc := range m.Manifests {
		if ref == "" || desc.Annotations[ocispec.AnnotationRefName] == ref {
			candidates = append(candidates, desc)
		}
	}

	switch {
	case len(candidates) == 0 && ref != "":
		return nil, fmt.Errorf("%w: no manifest named %q", errdefs.ErrNotFound, ref)
	case len(candidates) == 0:
		return nil, fmt.Errorf("%w: layout contains no manifests", errdefs.ErrNotFound)
	case len(candidates) > 1:
		return nil, fmt.Errorf("%w: %d manifests match, select one with :<ref>", errdefs.ErrInvalidArgument, len(candidates))
	}

	desc := candidates[0]
	if desc.MediaType.IsIndex() {
		child, err := idx.ImageIndex(desc.Digest)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, err)
		}
		return selectPlatform(child)
	}

	img, err := idx.Image(desc.Digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, err)
	}
	return img, nil
}

// Picks the manifest matching the host platform from a nested index.
func selectPlatform(idx v1.ImageIndex) (v1.Image, error) {
	m, err := idx.IndexManifest()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, err)
	}

	want := platforms.DefaultSpec()
	want.OS = "linux"
	matcher := platforms.Only(want)

	for _, desc := range m.Manifests {
		if desc.Platform == nil || !desc.MediaType.IsImage() {
			continue
		}
		p := ocispec.Platform{
			OS:           desc.Platform.OS,
			Architecture: desc.Platform.Architecture,
			Variant:      desc.Platform.Variant,
		}
		if matcher.Match(p) {
			return idx.Image(desc.Digest)
		}
	}

	return nil, fmt.Errorf("%w: no manifest for platform %s", errdefs.ErrNotFound, platforms.Format(want))
}
