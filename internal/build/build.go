package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/doe/internal/image"
	"github.com/cruciblehq/doe/internal/layer"
)

// Resolves build sources into images.
type Resolver struct {
	store  *layer.Store   // Layer store receiving copy layers.
	parent image.Resolver // Resolver for base images.
}

// Creates a new [Resolver].
//
// Base images are resolved through parent, which is usually the
// [image.Manager] that owns this resolver.
func New(store *layer.Store, parent image.Resolver) *Resolver {
	return &Resolver{store: store, parent: parent}
}

// Returns an [image.Factory] creating a [Resolver] on store.
func Factory(store *layer.Store) image.Factory {
	return func(parent image.Resolver) (image.Resolver, error) {
		if store == nil {
			return nil, fmt.Errorf("build resolver requires a layer store")
		}
		return New(store, parent), nil
	}
}

// Builds the image described by src.Build.
//
// The base image is resolved first, then every step is applied. The returned
// image lists the base layers followed by one layer per copy step.
func (r *Resolver) Resolve(ctx context.Context, src image.Source) (*image.Image, error) {
	if src.Build == nil {
		return nil, fmt.Errorf("%w: no build description", image.ErrInvalidSource)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	spec := src.Build

	slog.Info("building image",
		"context", spec.Context,
		"steps", len(spec.Steps),
		"base", baseLabel(spec.From),
	)

	base := &image.Image{}
	if spec.From != nil {
		if r.parent == nil {
			return nil, fmt.Errorf("%w: no resolver for base image", ErrBuild)
		}
		img, err := r.parent.Resolve(ctx, *spec.From)
		if err != nil {
			return nil, fmt.Errorf("%w: base image: %w", ErrBuild, err)
		}
		base = img
	}

	return newRecipe(r.store, spec.Context, base).build(ctx, spec.Steps)
}

// Returns a label for the base image used in logs.
func baseLabel(from *image.Source) string {
	if from == nil {
		return "scratch"
	}
	return from.String()
}
