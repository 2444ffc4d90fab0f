package bundle

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sys/unix"
)

// Mode of a copied runtime binary.
const executableMode fs.FileMode = 0755

// Publishes the runtime binary at dst.
//
// A previous file at dst is replaced. The binary is hard linked when
// possible. When src is on another file system, or the kernel refuses the
// link, it is copied instead and the copy is verified against the source
// digest.
func publishExecutable(src, dst string) error {
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	err := os.Link(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) && !errors.Is(err, unix.EPERM) {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	slog.Debug("hard link refused, copying executable", "src", src, "dst", dst, "reason", err)

	return copyExecutable(src, dst)
}

// Copies src to dst through a temporary file in the destination directory.
//
// The copy is read back and compared with the digest of the source before
// it is renamed into place.
func copyExecutable(src, dst string) error {
	tmp, want, err := copyToTemp(src, filepath.Dir(dst))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	defer os.Remove(tmp)

	got, err := digestFile(tmp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	if got != want {
		return fmt.Errorf("%w: %s: got %s, want %s", ErrExecutableMismatch, dst, got, want)
	}

	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return nil
}

// Copies src into a new executable file in dir.
//
// Returns the temporary path and the digest of the bytes read from src.
func copyToTemp(src, dir string) (string, digest.Digest, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", "", err
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, ".doe-*")
	if err != nil {
		return "", "", err
	}

	digester := digest.Canonical.Digester()
	_, err = io.Copy(io.MultiWriter(out, digester.Hash()), in)
	if err == nil {
		err = out.Chmod(executableMode)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", "", err
	}

	return out.Name(), digester.Digest(), nil
}

// Returns the canonical digest of a file's contents.
func digestFile(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return digest.Canonical.FromReader(f)
}
