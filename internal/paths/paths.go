package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	appName = "doe"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Permission mode for executable scripts owned by the invoking user.
	ScriptMode os.FileMode = 0744
)

// Path to the root cache directory.
//
//	Linux:   $XDG_CACHE_HOME/doe or ~/.cache/doe
//	macOS:   ~/Library/Caches/doe
func Cache() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// Path to the unpacked layer store under the given cache root.
//
// Layers are stored as <root>/layers/<algorithm>/<encoded>.
func Layers(root string) string {
	return filepath.Join(root, "layers")
}

// Path to the compressed blob cache under the given cache root.
func Blobs(root string) string {
	return filepath.Join(root, "blobs")
}

// Path to the container bundle directory under the given cache root.
func Containers(root string) string {
	return filepath.Join(root, "containers")
}
