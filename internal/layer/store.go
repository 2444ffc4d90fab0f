package layer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/doe/internal/identity"
	"github.com/cruciblehq/doe/internal/paths"
	"github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	ocilayer "github.com/opencontainers/umoci/oci/layer"
)

// Content-addressed directory of unpacked layers.
type Store struct {
	root        string                 // Root directory of the store.
	uidMappings []specs.LinuxIDMapping // Ownership mapping applied while unpacking.
	gidMappings []specs.LinuxIDMapping // Group mapping applied while unpacking.
}

// Creates a new [Store] rooted at root.
//
// Container root is mapped onto the calling user and group.
func NewStore(root string) *Store {
	uid, gid := identity.Mappings(identity.Root, identity.Current())
	return &Store{
		root:        root,
		uidMappings: uid,
		gidMappings: gid,
	}
}

// Returns the root directory of the store.
func (s *Store) Root() string {
	return s.root
}

// Returns the directory holding the layer with the given diff ID.
func (s *Store) Path(diffID digest.Digest) string {
	return filepath.Join(s.root, diffID.Algorithm().String(), diffID.Encoded())
}

// Returns true if the layer has already been unpacked.
func (s *Store) Exists(diffID digest.Digest) bool {
	info, err := os.Stat(s.Path(diffID))
	return err == nil && info.IsDir()
}

// Unpacks an uncompressed layer tarball.
//
// The stream is verified against diffID before the layer is published. A
// layer that already exists is left untouched and r is not read.
func (s *Store) Unpack(ctx context.Context, diffID digest.Digest, r io.Reader) error {
	if err := diffID.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnpack, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := s.Path(diffID)
	if s.Exists(diffID) {
		slog.Debug("layer already unpacked", "digest", diffID.String())
		return nil
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrUnpack, err)
	}

	staging, err := os.MkdirTemp(parent, ".unpack-")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnpack, err)
	}
	defer os.RemoveAll(staging)

	verifier := diffID.Verifier()
	tee := io.TeeReader(r, verifier)

	if err := ocilayer.UnpackLayer(staging, tee, s.unpackOptions()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnpack, diffID, err)
	}

	// The tar reader stops at the end-of-archive marker; the digest covers
	// any trailing padding as well.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnpack, diffID, err)
	}
	if !verifier.Verified() {
		return fmt.Errorf("%w: %s", ErrDigestMismatch, diffID)
	}

	if err := os.Chmod(staging, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrUnpack, err)
	}

	if err := os.Rename(staging, dest); err != nil {
		if s.Exists(diffID) {
			return nil // Published concurrently.
		}
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s exists and is not a directory", ErrUnpack, dest)
		}
		return fmt.Errorf("%w: %w", ErrUnpack, err)
	}

	slog.Debug("layer unpacked", "digest", diffID.String(), "path", dest)
	return nil
}

// Returns the umoci options for a rootless directory unpack.
func (s *Store) unpackOptions() *ocilayer.UnpackOptions {
	return &ocilayer.UnpackOptions{
		OnDiskFormat: ocilayer.DirRootfs{
			MapOptions: ocilayer.MapOptions{
				Rootless:    true,
				UIDMappings: s.uidMappings,
				GIDMappings: s.gidMappings,
			},
		},
	}
}
