package bundle

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cruciblehq/doe/internal/paths"
	"github.com/moby/sys/atomicwriter"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Writes the runtime specification to path.
//
// The file is replaced atomically, so readers see either the previous
// specification or the new one.
func writeSpec(path string, spec *specs.Spec) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrBundle, path, err)
	}

	if err := atomicwriter.WriteFile(path, data, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return nil
}

// Reads a runtime specification written by a [Generator].
func LoadSpec(path string) (*specs.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec specs.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &spec, nil
}
