package build

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cruciblehq/doe/internal/layer"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/opencontainers/go-digest"
)

// Executes a copy step, producing a new layer.
//
// The copy string has the format "src dest". The source is resolved inside
// the build context. The archive is staged in a temporary file while its
// digest is computed, then unpacked into the layer store under that digest.
func executeCopy(ctx context.Context, store *layer.Store, copyStr, workdir, buildCtx string) (digest.Digest, error) {
	src, dest, err := parseCopy(copyStr, workdir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}

	hostPath, err := securejoin.SecureJoin(buildCtx, src)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}

	info, err := os.Stat(hostPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}

	slog.Debug("copy", "src", hostPath, "dest", dest, "dir", info.IsDir())

	tmp, err := os.CreateTemp("", "doe-copy-*.tar")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	digester := digest.Canonical.Digester()
	tw := tar.NewWriter(io.MultiWriter(tmp, digester.Hash()))

	name := strings.TrimPrefix(dest, "/")
	if err := writeParentDirs(tw, name); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}

	if info.IsDir() {
		err = writeDirToTar(tw, hostPath, name)
	} else {
		err = writeFileToTar(tw, hostPath, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}
	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	d := digester.Digest()
	if err := store.Unpack(ctx, d, tmp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}

	return d, nil
}

// Parses a copy string into source and destination paths.
//
// The string must contain exactly two whitespace-separated tokens. If dest
// is not absolute, it is joined with workdir.
func parseCopy(s, workdir string) (src, dest string, err error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected source and destination, got %q", s)
	}

	src = parts[0]
	dest = parts[1]

	if !path.IsAbs(dest) {
		if workdir == "" {
			return "", "", fmt.Errorf("relative dest %q requires workdir", dest)
		}
		dest = path.Join(workdir, dest)
	}

	dest = path.Clean(dest)
	if dest == "/" {
		return "", "", fmt.Errorf("cannot copy onto the root directory")
	}

	return src, dest, nil
}

// Writes directory entries for every parent of name.
func writeParentDirs(tw *tar.Writer, name string) error {
	dir := path.Dir(name)
	if dir == "." {
		return nil
	}

	var parents []string
	for ; dir != "."; dir = path.Dir(dir) {
		parents = append(parents, dir)
	}

	for i := len(parents) - 1; i >= 0; i-- {
		header := &tar.Header{
			Name:     parents[i] + "/",
			Typeflag: tar.TypeDir,
			Mode:     0755,
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
	}
	return nil
}

// Writes a single file to a tar writer with the given archive name.
func writeFileToTar(tw *tar.Writer, hostPath, name string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name
	rootOwned(header)

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Writes a directory tree to a tar writer rooted at the given archive prefix.
func writeDirToTar(tw *tar.Writer, hostDir, prefix string) error {
	return filepath.WalkDir(hostDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(hostDir, p)
		if err != nil {
			return err
		}

		archivePath := path.Join(prefix, filepath.ToSlash(relPath))
		return writeTarEntry(tw, p, archivePath, d)
	})
}

// Writes a single file, directory, or symlink entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(hostPath); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = archivePath
	if info.IsDir() {
		header.Name += "/"
	}
	rootOwned(header)

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}

// Resets ownership so the entry belongs to container root.
func rootOwned(h *tar.Header) {
	h.Uid, h.Gid = 0, 0
	h.Uname, h.Gname = "", ""
}
