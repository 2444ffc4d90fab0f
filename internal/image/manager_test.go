package image

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Resolver returning a fixed image and recording every source it sees.
type fakeResolver struct {
	mu    sync.Mutex
	img   *Image
	err   error
	calls []Source
}

func (r *fakeResolver) Resolve(_ context.Context, src Source) (*Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, src)
	if r.err != nil {
		return nil, r.err
	}
	return r.img.Clone(), nil
}

// Factory that counts how many resolvers it constructed.
func countingFactory(r Resolver, n *atomic.Int32) Factory {
	return func(Resolver) (Resolver, error) {
		n.Add(1)
		return r, nil
	}
}

func testImage(layers ...string) *Image {
	img := &Image{}
	for _, l := range layers {
		img.Layers = append(img.Layers, digest.FromString(l))
	}
	return img
}

func TestManagerDispatchesByKind(t *testing.T) {
	reg := &fakeResolver{img: testImage("registry")}
	path := &fakeResolver{img: testImage("path")}
	build := &fakeResolver{img: testImage("build")}

	var nReg, nPath, nBuild atomic.Int32
	m := NewManager(
		WithFactory(KindRegistry, countingFactory(reg, &nReg)),
		WithFactory(KindPath, countingFactory(path, &nPath)),
		WithFactory(KindBuild, countingFactory(build, &nBuild)),
	)

	ctx := context.Background()

	img, err := m.Resolve(ctx, Source{Registry: "alpine"})
	require.NoError(t, err)
	assert.Equal(t, testImage("registry").Layers, img.Layers)

	img, err = m.Resolve(ctx, Source{Path: "/images/app"})
	require.NoError(t, err)
	assert.Equal(t, testImage("path").Layers, img.Layers)

	img, err = m.Resolve(ctx, Source{Build: &BuildSpec{}})
	require.NoError(t, err)
	assert.Equal(t, testImage("build").Layers, img.Layers)

	assert.Len(t, reg.calls, 1)
	assert.Len(t, path.calls, 1)
	assert.Len(t, build.calls, 1)
}

func TestManagerReusesResolver(t *testing.T) {
	reg := &fakeResolver{img: testImage("a")}
	var n atomic.Int32
	m := NewManager(WithFactory(KindRegistry, countingFactory(reg, &n)))

	ctx := context.Background()
	for range 3 {
		_, err := m.Resolve(ctx, Source{Registry: "alpine"})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), n.Load())
	assert.Len(t, reg.calls, 3)
}

func TestManagerDoesNotCreateUnusedResolvers(t *testing.T) {
	var nReg, nPath atomic.Int32
	m := NewManager(
		WithFactory(KindRegistry, countingFactory(&fakeResolver{img: testImage("a")}, &nReg)),
		WithFactory(KindPath, countingFactory(&fakeResolver{img: testImage("b")}, &nPath)),
	)

	_, err := m.Resolve(context.Background(), Source{Path: "/x"})
	require.NoError(t, err)

	assert.Equal(t, int32(0), nReg.Load())
	assert.Equal(t, int32(1), nPath.Load())
}

func TestManagerConcurrentFirstUse(t *testing.T) {
	var n atomic.Int32
	m := NewManager(WithFactory(KindRegistry, countingFactory(&fakeResolver{img: testImage("a")}, &n)))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Resolve(context.Background(), Source{Registry: "alpine"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), n.Load())
}

func TestManagerMissingFactory(t *testing.T) {
	m := NewManager()

	_, err := m.Resolve(context.Background(), Source{Registry: "alpine"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResolver)
	assert.True(t, errdefs.IsNotImplemented(err))
}

func TestManagerInvalidSource(t *testing.T) {
	m := NewManager()

	_, err := m.Resolve(context.Background(), Source{Registry: "alpine", Path: "/x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSource)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestManagerTagsErrorWithSource(t *testing.T) {
	cause := errdefs.ErrNotFound
	m := NewManager(WithFactory(KindRegistry, countingFactory(&fakeResolver{err: cause}, new(atomic.Int32))))

	src := Source{Registry: "missing:latest"}
	_, err := m.Resolve(context.Background(), src)
	require.Error(t, err)

	var rerr *ResolveError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, src, rerr.Source)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "registry:missing:latest")
}

func TestManagerFactoryError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(WithFactory(KindPath, func(Resolver) (Resolver, error) {
		return nil, boom
	}))

	_, err := m.Resolve(context.Background(), Source{Path: "/x"})
	assert.ErrorIs(t, err, boom)
}

func TestManagerNilImage(t *testing.T) {
	m := NewManager(WithFactory(KindPath, countingFactory(&fakeResolver{}, new(atomic.Int32))))

	_, err := m.Resolve(context.Background(), Source{Path: "/x"})
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestManagerPassesItselfAsParent(t *testing.T) {
	var parent Resolver
	m := NewManager(WithFactory(KindBuild, func(p Resolver) (Resolver, error) {
		parent = p
		return &fakeResolver{img: testImage("a")}, nil
	}))

	_, err := m.Resolve(context.Background(), Source{Build: &BuildSpec{}})
	require.NoError(t, err)
	assert.Same(t, m, parent)
}

func TestManagerUsesCache(t *testing.T) {
	reg := &fakeResolver{img: testImage("a")}
	cache := NewCache()

	for range 2 {
		m := NewManager(
			WithFactory(KindRegistry, countingFactory(reg, new(atomic.Int32))),
			WithCache(cache),
		)
		_, err := m.Resolve(context.Background(), Source{Registry: "alpine"})
		require.NoError(t, err)
	}

	assert.Len(t, reg.calls, 1)
	assert.Equal(t, 1, cache.Len())
}
