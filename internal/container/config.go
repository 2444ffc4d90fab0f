package container

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/cruciblehq/doe/internal/image"
	"github.com/pelletier/go-toml/v2"
)

// Matches container and link names.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Container configuration.
//
// A nil Cmd or Entrypoint means the image default is used. An empty,
// non-nil slice overrides the image default with nothing.
type Config struct {
	Image      image.Source      `toml:"image"`                // Image to run.
	Entrypoint []string          `toml:"entrypoint,omitempty"` // Entrypoint override.
	Cmd        []string          `toml:"cmd,omitempty"`        // Command override.
	Env        map[string]string `toml:"env,omitempty"`        // Environment overrides.
	Links      map[string]string `toml:"links,omitempty"`      // Link name to linked container name.
}

// Reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(f, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decodes and validates a configuration.
//
// Relative paths in the image source are resolved against dir.
func Parse(r io.Reader, dir string) (*Config, error) {
	var cfg Config
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	resolvePaths(&cfg.Image, dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Checks the image source and link names.
func (c *Config) Validate() error {
	if err := c.Image.Validate(); err != nil {
		return fmt.Errorf("%w: image: %w", ErrInvalidConfig, err)
	}

	for link, target := range c.Links {
		if err := ValidateName(link); err != nil {
			return fmt.Errorf("%w: link: %w", ErrInvalidConfig, err)
		}
		if err := ValidateName(target); err != nil {
			return fmt.Errorf("%w: link %q target: %w", ErrInvalidConfig, link, err)
		}
	}
	return nil
}

// Returns an error unless name is a valid container or link name.
//
// Names start with a letter or digit, followed by letters, digits, '_',
// '.', or '-'.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Makes relative paths in src absolute against dir.
func resolvePaths(src *image.Source, dir string) {
	if src.Path != "" && !filepath.IsAbs(src.Path) {
		src.Path = filepath.Join(dir, src.Path)
	}
	if src.Build == nil {
		return
	}
	if src.Build.Context != "" && !filepath.IsAbs(src.Build.Context) {
		src.Build.Context = filepath.Join(dir, src.Build.Context)
	}
	if src.Build.From != nil {
		resolvePaths(src.Build.From, dir)
	}
}
