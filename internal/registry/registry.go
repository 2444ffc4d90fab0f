package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/containerd/platforms"
	"github.com/cruciblehq/doe/internal/image"
	"github.com/cruciblehq/doe/internal/layer"
	"github.com/cruciblehq/doe/internal/paths"
	"github.com/google/go-containerregistry/pkg/authn"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/cache"
	"github.com/google/go-containerregistry/pkg/v1/remote"
)

// Configures a [Resolver].
type Options struct {
	Store     *layer.Store      // Layer store that receives unpacked layers. Required.
	BlobDir   string            // Directory for cached compressed blobs. Empty disables caching.
	Keychain  authn.Keychain    // Credential source. Defaults to [authn.DefaultKeychain].
	Transport http.RoundTripper // HTTP transport. Defaults to the remote package default.
	Insecure  bool              // Allow plain HTTP registries.
	UserAgent string            // User-Agent prefix sent with registry requests.
}

// Resolves registry references into images.
type Resolver struct {
	store    *layer.Store
	blobs    cache.Cache
	platform v1.Platform
	insecure bool
	remote   []remote.Option
}

// Creates a new [Resolver].
func New(opts Options) (*Resolver, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("registry resolver requires a layer store")
	}

	keychain := opts.Keychain
	if keychain == nil {
		keychain = authn.DefaultKeychain
	}

	r := &Resolver{
		store:    opts.Store,
		platform: defaultPlatform(),
		insecure: opts.Insecure,
	}

	r.remote = []remote.Option{
		remote.WithAuthFromKeychain(keychain),
		remote.WithPlatform(r.platform),
	}
	if opts.UserAgent != "" {
		r.remote = append(r.remote, remote.WithUserAgent(opts.UserAgent))
	}
	if opts.Transport != nil {
		r.remote = append(r.remote, remote.WithTransport(opts.Transport))
	}

	if opts.BlobDir != "" {
		if err := os.MkdirAll(opts.BlobDir, paths.DefaultDirMode); err != nil {
			return nil, err
		}
		r.blobs = cache.NewFilesystemCache(opts.BlobDir)
	}

	return r, nil
}

// Returns an [image.Factory] creating a [Resolver] from opts.
func Factory(opts Options) image.Factory {
	return func(image.Resolver) (image.Resolver, error) {
		return New(opts)
	}
}

// Pulls the image named by src.Registry and unpacks its layers.
func (r *Resolver) Resolve(ctx context.Context, src image.Source) (*image.Image, error) {
	if src.Registry == "" {
		return nil, fmt.Errorf("%w: no registry reference", image.ErrInvalidSource)
	}

	ref, err := parseReference(src.Registry, r.insecure)
	if err != nil {
		return nil, err
	}

	slog.Info("pulling image", "reference", ref.Name(), "platform", platforms.Format(toOCIPlatform(r.platform)))

	opts := append([]remote.Option{remote.WithContext(ctx)}, r.remote...)
	img, err := remote.Image(ref, opts...)
	if err != nil {
		return nil, classify(err)
	}

	if r.blobs != nil {
		img = cache.Image(img, r.blobs)
	}

	out, err := r.store.Import(ctx, img)
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}
