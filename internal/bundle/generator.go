package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cruciblehq/doe/internal"
	"github.com/cruciblehq/doe/internal/build"
	"github.com/cruciblehq/doe/internal/container"
	"github.com/cruciblehq/doe/internal/identity"
	"github.com/cruciblehq/doe/internal/image"
	"github.com/cruciblehq/doe/internal/layer"
	"github.com/cruciblehq/doe/internal/local"
	"github.com/cruciblehq/doe/internal/paths"
	"github.com/cruciblehq/doe/internal/registry"
	"github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/metric"
)

const (

	// Mount point of the bundle's bin directory inside the container.
	BinDir = "/usr/bin/doe"

	// File name of the runtime binary inside the bin directory.
	ExecutableName = "doe"
)

// Configures a [Generator].
type Options struct {
	CacheDir   string                       // Cache root. Defaults to [paths.Cache].
	Executable string                       // Binary published into bundles. Defaults to the running executable.
	Users      identity.Database            // User database for run-as users. Defaults to the host files.
	Host       *identity.Identity           // Host identity to map onto. Defaults to [identity.Current].
	Cache      *image.Cache                 // Shared image cache. Nil disables caching.
	Factories  map[image.Kind]image.Factory // Resolver factories replacing the defaults.
	Meter      metric.Meter                 // Meter for metrics. Nil disables metrics.
	Insecure   bool                         // Allow plain HTTP registries.
}

// Generates runtime bundles.
type Generator struct {
	layers       *layer.Store
	blobDir      string
	containerDir string
	executable   string
	users        *identity.Resolver
	host         identity.Identity
	cache        *image.Cache
	factories    map[image.Kind]image.Factory
	insecure     bool
	imageMetrics *image.Metrics
	metrics      *Metrics
}

// Creates a new [Generator].
func New(opts Options) (*Generator, error) {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = paths.Cache()
	}

	executable := opts.Executable
	if executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("%w: locate executable: %w", ErrBundle, err)
		}
		executable = exe
	}

	users := opts.Users
	if users == nil {
		host, err := identity.Host()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBundle, err)
		}
		users = host
	}

	host := identity.Current()
	if opts.Host != nil {
		host = *opts.Host
	}

	g := &Generator{
		layers:       layer.NewStore(paths.Layers(cacheDir)),
		blobDir:      paths.Blobs(cacheDir),
		containerDir: paths.Containers(cacheDir),
		executable:   executable,
		users:        identity.NewResolver(users),
		host:         host,
		cache:        opts.Cache,
		factories:    opts.Factories,
		insecure:     opts.Insecure,
	}

	if opts.Meter != nil {
		var err error
		if g.imageMetrics, err = image.NewMetrics(opts.Meter); err != nil {
			return nil, err
		}
		if g.metrics, err = NewMetrics(opts.Meter); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Returns the layer store used by the generator.
func (g *Generator) Layers() *layer.Store {
	return g.layers
}

// Returns the bundle layout for a container name.
func (g *Generator) Layout(name string) Layout {
	return NewLayout(g.containerDir, name)
}

// Builds the bundle for the named container and returns its directory.
//
// The image is resolved first. The bundle directories are then created, the
// link scripts and the runtime binary are placed in bin/, and config.json is
// written last. extra is appended to the container's argument vector.
func (g *Generator) Build(ctx context.Context, name string, cfg *container.Config, extra []string) (dir string, err error) {
	start := time.Now()
	defer func() {
		g.metrics.RecordBuild(ctx, err, time.Since(start))
	}()

	if err := g.validate(name, cfg); err != nil {
		return "", err
	}

	slog.Info("preparing container", "name", name, "image", cfg.Image.String())

	img, err := g.newManager().Resolve(ctx, cfg.Image)
	if err != nil {
		return "", err
	}
	if len(img.Layers) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoLayers, cfg.Image)
	}

	lowerDirs := lo.Map(img.Layers, func(d digest.Digest, _ int) string {
		return g.layers.Path(d)
	})

	id, err := g.users.Resolve(img.User())
	if err != nil {
		return "", fmt.Errorf("%w: resolve user %q: %w", ErrBundle, img.User(), err)
	}

	layout := g.Layout(name)
	if err := layout.Create(); err != nil {
		return "", err
	}

	if err := writeLinkScripts(layout.Bin, cfg.Links); err != nil {
		return "", err
	}

	if err := publishExecutable(g.executable, filepath.Join(layout.Bin, ExecutableName)); err != nil {
		return "", err
	}

	spec := g.spec(name, img, cfg, extra, layout, lowerDirs, id)
	if err := writeSpec(layout.Config, spec); err != nil {
		return "", err
	}

	slog.Info("bundle ready", "name", name, "path", layout.Root, "layers", len(lowerDirs))

	return layout.Root, nil
}

// Checks the container name and configuration.
func (g *Generator) validate(name string, cfg *container.Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: no container config", container.ErrInvalidConfig)
	}
	if err := container.ValidateName(name); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, ok := cfg.Links[ExecutableName]; ok {
		return fmt.Errorf("%w: %q", ErrReservedLink, ExecutableName)
	}
	return nil
}

// Assembles the runtime specification.
func (g *Generator) spec(name string, img *image.Image, cfg *container.Config, extra []string, layout Layout, lowerDirs []string, id identity.Identity) *specs.Spec {
	uidMappings, gidMappings := identity.Mappings(id, g.host)

	return &specs.Spec{
		Version: specs.Version,
		Root: &specs.Root{
			Path:     "rootfs",
			Readonly: false,
		},
		Hostname: name,
		Mounts:   Mounts(lowerDirs, layout),
		Process:  Process(img, cfg, extra, id),
		Linux:    Linux(uidMappings, gidMappings),
	}
}

// Creates the image manager for one build.
//
// Every build starts with fresh resolvers. Resolutions are only shared
// across builds through the configured cache.
func (g *Generator) newManager() *image.Manager {
	opts := []image.Option{
		image.WithFactory(image.KindRegistry, registry.Factory(registry.Options{
			Store:     g.layers,
			BlobDir:   g.blobDir,
			Insecure:  g.insecure,
			UserAgent: internal.UserAgent(),
		})),
		image.WithFactory(image.KindPath, local.Factory(g.layers)),
		image.WithFactory(image.KindBuild, build.Factory(g.layers)),
		image.WithMetrics(g.imageMetrics),
	}

	for kind, f := range g.factories {
		opts = append(opts, image.WithFactory(kind, f))
	}

	if g.cache != nil {
		opts = append(opts, image.WithCache(g.cache))
	}

	return image.NewManager(opts...)
}
