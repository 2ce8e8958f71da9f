package texblit

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultPrefetchWorkers bounds concurrent decodes started by Prefetch.
const DefaultPrefetchWorkers = 4

// cacheEntry is one registered texture and the number of live acquires.
type cacheEntry struct {
	tex  *Texture
	refs int
}

// decoded is a CPU-side image ready for upload.
type decoded struct {
	flipped *PixelBuffer // unpadded, rows reversed; source of the mask
	packed  *PixelBuffer // power-of-two canvas uploaded to the device
}

// Cache is a registry of reference-counted textures keyed by source path.
// At most one GPU texture is live per key regardless of how many callers
// acquire it.
//
// Each key is loaded by one flight at a time that decodes, uploads and
// registers the texture before it ends, so a key is decoded once per
// residency. Decoding runs outside the registry lock; uploads, deletions and
// every registry mutation happen under it, so device calls are serialized.
type Cache struct {
	dev     Device
	surface *Surface
	loader  LoaderFunc
	workers int

	mu       sync.Mutex
	entries  map[string]*cacheEntry
	prefetch map[string]*decoded

	loads   singleflight.Group
	decodes atomic.Int64
}

// NewCache creates a cache uploading to dev. The surface's scale factor
// selects texture filtering; loader resolves keys passed to Acquire.
func NewCache(dev Device, surface *Surface, loader LoaderFunc) *Cache {
	return &Cache{
		dev:      dev,
		surface:  surface,
		loader:   loader,
		workers:  DefaultPrefetchWorkers,
		entries:  make(map[string]*cacheEntry),
		prefetch: make(map[string]*decoded),
	}
}

// SetPrefetchWorkers bounds the number of concurrent Prefetch decodes.
func (c *Cache) SetPrefetchWorkers(n int) {
	if n <= 0 {
		n = DefaultPrefetchWorkers
	}
	c.workers = n
}

// Acquire returns the texture for key, loading it with the cache's loader on
// first use. Every successful Acquire must be paired with a Release.
func (c *Cache) Acquire(key string, flags Flags) (*Texture, error) {
	return c.AcquireWith(key, c.loader, flags)
}

// AcquireWith is Acquire with an explicit loader. The loader only runs when
// key has no live entry and no load of key is in flight. A caller that
// arrives while another Acquire or a Prefetch is loading key waits for that
// load instead, so its own loader and flags are not used.
func (c *Cache) AcquireWith(key string, loader LoaderFunc, flags Flags) (*Texture, error) {
	if key == "" {
		return nil, errors.New("texblit: acquire: empty key")
	}
	for {
		if t := c.lookup(key, flags); t != nil {
			return t, nil
		}
		// The flight registers the texture with no references; every caller,
		// the one that started it included, claims it through lookup. The
		// loop repeats only when the flight was a Prefetch (the buffer now
		// waits in c.prefetch) or the entry was freed before we claimed it.
		_, err, _ := c.loads.Do(key, func() (any, error) {
			return nil, c.load(key, loader, flags)
		})
		if err != nil {
			Logger().Error("texblit: texture load failed", "key", key, "err", err)
			return nil, err
		}
	}
}

// load decodes key, or takes its prefetched buffer, and registers the
// uploaded texture with zero references. It runs inside the per-key flight,
// so no other load of key can be decoding at the same time.
func (c *Cache) load(key string, loader LoaderFunc, flags Flags) error {
	c.mu.Lock()
	_, live := c.entries[key]
	d := c.prefetch[key]
	delete(c.prefetch, key)
	c.mu.Unlock()
	if live {
		return nil
	}

	if d == nil {
		var err error
		if d, err = c.decode(key, loader); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.upload(d, flags)
	if err != nil {
		return err
	}
	t.key = key
	c.entries[key] = &cacheEntry{tex: t}
	Logger().Debug("texblit: texture loaded", "key", key,
		"w", t.w, "h", t.h, "rw", t.rw, "rh", t.rh, "mask", t.mask != nil)
	return nil
}

// AcquireSprite acquires key and divides it into a cols x rows sprite grid.
// The grid is shared by every holder of key; see SpriteSplit.
func (c *Cache) AcquireSprite(key string, cols, rows int, flags Flags) (*Texture, error) {
	t, err := c.Acquire(key, flags)
	if err != nil {
		return nil, err
	}
	if err := c.SpriteSplit(t, cols, rows); err != nil {
		_ = c.Release(t)
		return nil, err
	}
	return t, nil
}

// SpriteSplit sets t's sprite grid in place. A cached texture is shared, so
// the last split wins for every holder of the same key: callers must not
// share one key across incompatible sprite layouts.
func (c *Cache) SpriteSplit(t *Texture, cols, rows int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return t.setSpriteGrid(cols, rows)
}

// lookup increments and returns the live entry for key, if any.
func (c *Cache) lookup(key string, flags Flags) *Texture {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if flags.Has(FlagMapTransparency) && e.tex.mask == nil {
		Logger().Warn("texblit: transparency mask requested for texture loaded without one", "key", key)
	}
	e.refs++
	return e.tex
}

// decode runs the loader and prepares the buffers for upload. It touches no
// device state and may run on any goroutine.
func (c *Cache) decode(key string, loader LoaderFunc) (*decoded, error) {
	if loader == nil {
		return nil, fmt.Errorf("texblit: no loader for %q: %w", key, ErrDecode)
	}
	c.decodes.Add(1)
	buf, err := loader(key)
	if err != nil {
		if !errors.Is(err, ErrDecode) && !errors.Is(err, ErrResourceExhausted) {
			err = fmt.Errorf("texblit: load %q: %w: %w", key, ErrDecode, err)
		}
		return nil, err
	}
	if err := buf.validate(); err != nil {
		return nil, fmt.Errorf("texblit: %q: %w: %w", key, ErrDecode, err)
	}
	return prepareBuffer(buf, c.dev.MaxTextureSize())
}

func prepareBuffer(buf *PixelBuffer, maxSize int) (*decoded, error) {
	flipped := FlipVertical(buf)
	packed, err := padPowerOfTwo(flipped, maxSize)
	if err != nil {
		return nil, err
	}
	return &decoded{flipped: flipped, packed: packed}, nil
}

// upload creates the GPU texture. Must be called with c.mu held.
func (c *Cache) upload(d *decoded, flags Flags) (*Texture, error) {
	filter := FilterNearest
	if c.surface != nil {
		filter = c.surface.TextureFilter()
	}
	t, err := newTexture(c.dev, d.packed, d.flipped.Width, d.flipped.Height, filter)
	if err != nil {
		return nil, err
	}
	if flags.Has(FlagMapTransparency) {
		t.mask = NewTransparencyMask(d.flipped)
	}
	return t, nil
}

// NewTexture uploads an in-memory buffer as an untracked texture with no
// cache key. Free it with Release.
func (c *Cache) NewTexture(buf *PixelBuffer, flags Flags) (*Texture, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	d, err := prepareBuffer(buf, c.dev.MaxTextureSize())
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.upload(d, flags)
}

// NewTextureFromImage is NewTexture for any image.Image.
func (c *Cache) NewTextureFromImage(img image.Image, flags Flags) (*Texture, error) {
	return c.NewTexture(PixelBufferFromImage(img), flags)
}

// Release drops one reference to t. When the last reference goes, the GPU
// texture and mask are freed and the entry is removed.
//
// Releasing a texture the cache does not track destroys it anyway and, if
// it has a key, reports ErrNotTracked. Textures from NewTexture have no key
// and are destroyed silently. Releasing a destroyed texture reports
// ErrReleased and does nothing else.
func (c *Cache) Release(t *Texture) error {
	if t == nil {
		err := fmt.Errorf("texblit: attempting to free nil texture: %w", ErrNotTracked)
		Logger().Warn(err.Error())
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t.released {
		Logger().Warn("texblit: attempting to free released texture", "key", t.key)
		return fmt.Errorf("texblit: free %q: %w", t.key, ErrReleased)
	}

	if e, ok := c.entries[t.key]; ok && t.key != "" && e.tex == t {
		e.refs--
		if e.refs > 0 {
			return nil
		}
		delete(c.entries, t.key)
		c.destroy(t)
		Logger().Debug("texblit: texture freed", "key", t.key)
		return nil
	}

	c.destroy(t)
	if t.key != "" {
		Logger().Warn("texblit: attempting to free texture not found in cache", "key", t.key)
		return fmt.Errorf("texblit: free %q: %w", t.key, ErrNotTracked)
	}
	return nil
}

// destroy frees t's GPU resource and mask. Must be called with c.mu held.
func (c *Cache) destroy(t *Texture) {
	c.dev.DeleteTexture(t.id)
	reportGPUError(c.dev, "delete texture")
	t.mask = nil
	t.released = true
}

// Prefetch decodes keys on background goroutines so that a later Acquire
// only has to upload. Keys that are live, already prefetched or repeated
// are skipped, and a key whose load is already in flight is joined rather
// than decoded again. Prefetch does not touch the device.
func (c *Cache) Prefetch(ctx context.Context, keys ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] || c.resident(key) {
			continue
		}
		seen[key] = true
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err, _ := c.loads.Do(key, func() (any, error) {
				return nil, c.prefetchKey(key)
			})
			return err
		})
	}
	return g.Wait()
}

// prefetchKey decodes key into c.prefetch. It runs inside the per-key
// flight and re-checks residency, since an earlier flight may have finished
// between the caller's check and this one.
func (c *Cache) prefetchKey(key string) error {
	if c.resident(key) {
		return nil
	}
	d, err := c.decode(key, c.loader)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.prefetch[key] = d
	}
	return nil
}

// resident reports whether key is live or already prefetched.
func (c *Cache) resident(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return true
	}
	_, ok := c.prefetch[key]
	return ok
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RefCount returns the reference count of key, or 0 if it is not live.
func (c *Cache) RefCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Decodes returns the number of loader invocations so far.
func (c *Cache) Decodes() int {
	return int(c.decodes.Load())
}

// Shutdown reports entries still referenced. Leaks are logged and returned
// as a *LeakError; the entries are left in place since callers still hold
// them.
func (c *Cache) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.prefetch)
	var leaks []Leak
	for key, e := range c.entries {
		// Zero-reference entries belong to a load whose callers have not
		// claimed them yet.
		if e.refs > 0 {
			leaks = append(leaks, Leak{Key: key, Refs: e.refs})
		}
	}
	if len(leaks) == 0 {
		return nil
	}
	sort.Slice(leaks, func(i, j int) bool { return leaks[i].Key < leaks[j].Key })
	Logger().Warn("texblit: texture leak detected", "entries", len(leaks))
	for _, l := range leaks {
		Logger().Warn("texblit: leaked texture", "key", l.Key, "refs", l.Refs)
	}
	return &LeakError{Leaks: leaks}
}
