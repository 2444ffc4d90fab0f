package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/doe/internal/environ"
	"github.com/cruciblehq/doe/internal/image"
	"github.com/cruciblehq/doe/internal/layer"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Holds shared state for building one image.
type recipe struct {
	store   *layer.Store    // Layer store receiving copy layers.
	context string          // Directory copy sources are resolved against.
	base    *image.Image    // Base image, empty for scratch builds.
	layers  []digest.Digest // Layers produced by copy steps, in order.
	state   *stepState      // Accumulated modifiers.
}

// Creates a new [recipe] on top of base.
func newRecipe(store *layer.Store, buildCtx string, base *image.Image) *recipe {
	return &recipe{
		store:   store,
		context: buildCtx,
		base:    base,
		state:   newStepState(),
	}
}

// Applies every step and returns the resulting image.
func (r *recipe) build(ctx context.Context, steps []image.Step) (*image.Image, error) {
	if err := r.executeSteps(ctx, steps); err != nil {
		return nil, err
	}

	img := &image.Image{
		Layers: append(append([]digest.Digest{}, r.base.Layers...), r.layers...),
		Config: r.config(),
	}

	slog.Debug("image built",
		"base_layers", len(r.base.Layers),
		"new_layers", len(r.layers),
	)

	return img, nil
}

// Executes steps in order.
func (r *recipe) executeSteps(ctx context.Context, steps []image.Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.executeStep(ctx, step); err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrBuild, i+1, err)
		}
	}
	return nil
}

// Executes a single step, dispatching to a copy or a state update.
func (r *recipe) executeStep(ctx context.Context, step image.Step) error {
	r.state.applyConfig(step)

	if step.Copy == "" {
		r.state.apply(step)
		return nil
	}

	resolved := r.state.resolve(step)

	d, err := executeCopy(ctx, r.store, step.Copy, resolved.workdir, r.context)
	if err != nil {
		return err
	}

	r.layers = append(r.layers, d)
	return nil
}

// Returns the base config with the accumulated modifiers applied.
func (r *recipe) config() *ocispec.ImageConfig {
	var cfg ocispec.ImageConfig
	if base := r.base.Clone(); base.Config != nil {
		cfg = *base.Config
	}

	s := r.state
	if len(s.env) > 0 {
		cfg.Env = environ.Format(environ.Merge(cfg.Env, s.env))
	}
	if s.workdir != "" {
		cfg.WorkingDir = s.workdir
	}
	if s.user != "" {
		cfg.User = s.user
	}
	if s.entrypoint != nil {
		cfg.Entrypoint = s.entrypoint
	}
	if s.cmd != nil {
		cfg.Cmd = s.cmd
	}

	return &cfg
}
