package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/doe/internal"
	"github.com/cruciblehq/doe/internal/bundle"
	"github.com/cruciblehq/doe/internal/container"
	"github.com/cruciblehq/doe/internal/image"
	"go.opentelemetry.io/otel"
)

// Represents the 'doe prepare' command.
type PrepareCmd struct {
	Name     string   `short:"n" help:"Container name. Defaults to the config file name." placeholder:"NAME"`
	Insecure bool     `help:"Allow plain HTTP registries."`
	Config   string   `arg:"" type:"existingfile" help:"Container configuration file."`
	Args     []string `arg:"" optional:"" passthrough:"" help:"Arguments appended to the container command."`
}

// Executes the prepare command.
//
// Loads the container configuration, generates the bundle and prints its
// directory on standard output.
func (c *PrepareCmd) Run(ctx context.Context) error {
	cfg, err := container.Load(c.Config)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = defaultName(c.Config)
	}

	gen, err := bundle.New(bundle.Options{
		CacheDir: RootCmd.CacheDir,
		Cache:    image.NewCache(),
		Meter:    otel.GetMeterProvider().Meter(internal.Name),
		Insecure: c.Insecure,
	})
	if err != nil {
		return err
	}

	dir, err := gen.Build(ctx, name, cfg, c.Args)
	if err != nil {
		return err
	}

	fmt.Println(dir)
	return nil
}

// Returns the container name implied by a config file path.
func defaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
