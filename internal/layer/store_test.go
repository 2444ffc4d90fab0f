package layer

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Builds an uncompressed layer tarball from name/content pairs.
func testTar(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func TestPath(t *testing.T) {
	s := NewStore("/cache/layers")
	d := digest.FromString("layer")

	assert.Equal(t, filepath.Join("/cache/layers", "sha256", d.Encoded()), s.Path(d))
	assert.Equal(t, "/cache/layers", s.Root())
}

func TestUnpack(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testTar(t, map[string]string{"hello.txt": "hello"})
	d := digest.FromBytes(data)

	require.NoError(t, s.Unpack(context.Background(), d, bytes.NewReader(data)))
	assert.True(t, s.Exists(d))

	got, err := os.ReadFile(filepath.Join(s.Path(d), "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestUnpackExistingLayerIsReused(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testTar(t, map[string]string{"a": "a"})
	d := digest.FromBytes(data)

	require.NoError(t, s.Unpack(context.Background(), d, bytes.NewReader(data)))
	marker := filepath.Join(s.Path(d), "marker")
	require.NoError(t, os.WriteFile(marker, nil, 0644))

	// A second unpack must not touch the published directory.
	require.NoError(t, s.Unpack(context.Background(), d, bytes.NewReader(nil)))
	assert.FileExists(t, marker)
}

func TestUnpackDigestMismatch(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testTar(t, map[string]string{"a": "a"})
	wrong := digest.FromString("something else")

	err := s.Unpack(context.Background(), wrong, bytes.NewReader(data))
	require.ErrorIs(t, err, ErrDigestMismatch)
	assert.False(t, s.Exists(wrong))

	entries, err := os.ReadDir(filepath.Dir(s.Path(wrong)))
	require.NoError(t, err)
	assert.Empty(t, entries, "staging directory left behind")
}

func TestUnpackInvalidDigest(t *testing.T) {
	s := NewStore(t.TempDir())
	err := s.Unpack(context.Background(), digest.Digest("nope"), bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnpack)
}

func TestUnpackCancelled(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testTar(t, map[string]string{"a": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Unpack(ctx, digest.FromBytes(data), bytes.NewReader(data))
	assert.ErrorIs(t, err, context.Canceled)
}
