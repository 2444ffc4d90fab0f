package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cruciblehq/doe/internal/paths"
)

// Paths of a container bundle.
type Layout struct {
	Root   string // Bundle directory.
	RootFS string // Root filesystem mount point.
	Upper  string // Overlay upper directory.
	Work   string // Overlay work directory.
	Bin    string // Directory mounted at [BinDir].
	Config string // Runtime specification file.
}

// Returns the layout of the bundle for name under containerDir.
func NewLayout(containerDir, name string) Layout {
	root := filepath.Join(containerDir, name)
	return Layout{
		Root:   root,
		RootFS: filepath.Join(root, "rootfs"),
		Upper:  filepath.Join(root, "upper"),
		Work:   filepath.Join(root, "work"),
		Bin:    filepath.Join(root, "bin"),
		Config: filepath.Join(root, "config.json"),
	}
}

// Creates the bundle directories.
//
// Existing directories and their contents are kept. A non-directory in the
// place of one of the directories is an error.
func (l Layout) Create() error {
	for _, dir := range []string{l.RootFS, l.Upper, l.Work, l.Bin} {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
		}
	}
	return nil
}
