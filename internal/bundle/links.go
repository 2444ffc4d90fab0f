package bundle

import (
	"bufio"
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cruciblehq/doe/internal/paths"
)

// Interpreter line of link scripts. The runtime binary reads the linked
// container name from the second line.
var scriptShebang = fmt.Sprintf("#!%s/%s call", BinDir, ExecutableName)

// Writes one link script per link into binDir.
//
// Scripts are written in sorted link order with mode 0744. Existing scripts
// are overwritten.
func writeLinkScripts(binDir string, links map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(links)) {
		path := filepath.Join(binDir, name)
		if err := writeLinkScript(path, links[name]); err != nil {
			return err
		}
	}
	return nil
}

// Writes a link script invoking target.
func writeLinkScript(path, target string) error {
	script := scriptShebang + "\n" + target + "\n"

	if err := os.WriteFile(path, []byte(script), paths.ScriptMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	// WriteFile leaves the mode of existing files alone and applies the umask
	// to new ones.
	if err := os.Chmod(path, paths.ScriptMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return nil
}

// Returns the container name a link script invokes.
func ReadLinkScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	s := bufio.NewScanner(bytes.NewReader(data))
	if !s.Scan() || s.Text() != scriptShebang {
		return "", fmt.Errorf("%s: not a link script", path)
	}
	if !s.Scan() {
		return "", fmt.Errorf("%s: link script names no container", path)
	}

	target := strings.TrimSpace(s.Text())
	if target == "" {
		return "", fmt.Errorf("%s: link script names no container", path)
	}
	return target, nil
}
