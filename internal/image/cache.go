package image

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/singleflight"
)

// Memoises resolved images by source.
//
// Concurrent lookups of the same source share a single resolution. The
// loader runs detached from the cancellation of any one caller; each caller
// stops waiting when its own context is done. Failed resolutions are not
// stored, so a later call retries. Callers always receive their own copy of
// the image.
type Cache struct {
	group  singleflight.Group
	mu     sync.RWMutex
	images map[digest.Digest]*Image
}

// Creates an empty [Cache].
func NewCache() *Cache {
	return &Cache{images: make(map[digest.Digest]*Image)}
}

// Returns the cached image for src, calling load on a miss.
//
// load receives a context carrying the values of ctx but not its
// cancellation, since other callers may be waiting on the same load.
func (c *Cache) Get(ctx context.Context, src Source, load func(context.Context) (*Image, error)) (*Image, error) {
	key, err := src.Key()
	if err != nil {
		return nil, err
	}

	if img, ok := c.lookup(key); ok {
		return img.Clone(), nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		if img, ok := c.lookup(key); ok {
			return img, nil
		}

		img, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.images[key] = img.Clone()
		c.mu.Unlock()

		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Image).Clone(), nil
	}
}

// Returns the stored image for key.
func (c *Cache) lookup(key digest.Digest) (*Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok
}

// Returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
