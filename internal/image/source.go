package image

import (
	"encoding/json"
	"fmt"

	"github.com/opencontainers/go-digest"
)

// Identifies the resolver strategy for a [Source].
type Kind int

const (
	KindRegistry Kind = iota + 1 // Image pulled from an OCI registry.
	KindPath                     // Image read from an OCI layout on disk.
	KindBuild                    // Image built from an inline description.
)

// Returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRegistry:
		return "registry"
	case KindPath:
		return "path"
	case KindBuild:
		return "build"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Describes where an image comes from.
//
// Exactly one of the fields must be set. There is no default: a source with
// no field set, or with more than one, is rejected by [Source.Kind].
type Source struct {
	Registry string     `json:"registry,omitempty" toml:"registry,omitempty"` // Registry reference, e.g. "alpine:3.20".
	Path     string     `json:"path,omitempty" toml:"path,omitempty"`         // OCI layout directory, optionally suffixed ":<ref>".
	Build    *BuildSpec `json:"build,omitempty" toml:"build,omitempty"`       // Inline build description.
}

// Inline description of an image built from a base and a list of steps.
type BuildSpec struct {
	From    *Source `json:"from,omitempty" toml:"from,omitempty"`       // Base image, nil to start from an empty filesystem.
	Context string  `json:"context,omitempty" toml:"context,omitempty"` // Directory that copy sources are resolved against.
	Steps   []Step  `json:"steps,omitempty" toml:"steps,omitempty"`     // Steps applied in order.
}

// Single build step.
//
// A step with Copy set produces a new layer. All other fields are modifiers
// that persist for the remaining steps and end up in the image config.
type Step struct {
	Copy       string            `json:"copy,omitempty" toml:"copy,omitempty"`             // "src dest", src relative to the build context.
	Workdir    string            `json:"workdir,omitempty" toml:"workdir,omitempty"`       // Working directory for relative copy destinations.
	User       string            `json:"user,omitempty" toml:"user,omitempty"`             // Run-as user, "user" or "user:group".
	Env        map[string]string `json:"env,omitempty" toml:"env,omitempty"`               // Environment variables to set.
	Entrypoint []string          `json:"entrypoint,omitempty" toml:"entrypoint,omitempty"` // Default entrypoint.
	Cmd        []string          `json:"cmd,omitempty" toml:"cmd,omitempty"`               // Default command.
}

// Returns the kind of the source.
//
// Returns [ErrInvalidSource] unless exactly one variant is set.
func (s Source) Kind() (Kind, error) {
	var kind Kind
	n := 0

	if s.Registry != "" {
		kind = KindRegistry
		n++
	}
	if s.Path != "" {
		kind = KindPath
		n++
	}
	if s.Build != nil {
		kind = KindBuild
		n++
	}

	if n != 1 {
		return 0, fmt.Errorf("%w: expected exactly one of registry, path or build, got %d", ErrInvalidSource, n)
	}
	return kind, nil
}

// Validates the source and, for builds, every nested base source.
func (s Source) Validate() error {
	kind, err := s.Kind()
	if err != nil {
		return err
	}
	if kind != KindBuild {
		return nil
	}

	for i, step := range s.Build.Steps {
		if step.Copy != "" && s.Build.Context == "" {
			return fmt.Errorf("%w: build step %d copies files but no context is set", ErrInvalidSource, i+1)
		}
	}

	if s.Build.From != nil {
		return s.Build.From.Validate()
	}
	return nil
}

// Returns a human-readable description of the source.
func (s Source) String() string {
	switch {
	case s.Registry != "":
		return "registry:" + s.Registry
	case s.Path != "":
		return "path:" + s.Path
	case s.Build != nil:
		return "build:" + s.Build.Context
	default:
		return "(empty source)"
	}
}

// Returns a content digest identifying the source.
//
// Two sources with identical descriptors share a key. Used as the cache key
// by [Cache].
func (s Source) Key() (digest.Digest, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return digest.FromBytes(b), nil
}
