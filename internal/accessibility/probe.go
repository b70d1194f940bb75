// Package accessibility resolves a screen coordinate to the UI element
// under it (spec §4.3, C3). It must run off the input-tap thread — every
// call here is synchronous and can block on an inter-process query against
// the window server — and applies a hard deadline so a slow probe never
// holds up the normalizer for more than spec's default 50ms.
package accessibility

import (
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
)

// Element is the resolved UI element at a point, or the zero value if the
// probe failed, timed out, or permission was absent (spec §4.3 fails
// silently in that last case).
type Element struct {
	Role  string
	Name  string
	Value string
}

// Config tunes the probe's deadline and coordinate cache.
type Config struct {
	Deadline   time.Duration
	CacheTTL   time.Duration
}

// DefaultConfig matches spec §4.3's defaults: a 50ms deadline and a 100ms
// coordinate cache.
func DefaultConfig() Config {
	return Config{Deadline: 50 * time.Millisecond, CacheTTL: 100 * time.Millisecond}
}

type cacheEntry struct {
	at      time.Time
	elem    Element
	ok      bool
}

// Probe resolves (x, y) to an Element, with a 100ms same-coordinate cache
// and a hard per-call deadline. It is the macOS AX-tree implementation on
// darwin and a permission-absent no-op everywhere else.
type Probe struct {
	cfg Config

	mu    sync.Mutex
	cache map[uint32]cacheEntry
}

// New creates a Probe with the given configuration.
func New(cfg Config) *Probe {
	return &Probe{cfg: cfg, cache: make(map[uint32]cacheEntry)}
}

// coordKey hashes (x, y) into a cache key. murmur3 is a fast non-cryptographic
// hash; this cache only needs to suppress redundant probes within a 100ms
// window on click bursts at the same point, not defend against collisions.
func coordKey(x, y int32) uint32 {
	var buf [8]byte
	buf[0], buf[1], buf[2], buf[3] = byte(x), byte(x>>8), byte(x>>16), byte(x>>24)
	buf[4], buf[5], buf[6], buf[7] = byte(y), byte(y>>8), byte(y>>16), byte(y>>24)
	return murmur3.Sum32(buf[:])
}

// At resolves (x, y), consulting and refreshing the coordinate cache. The
// returned bool is false if no element was found, the probe timed out, or
// accessibility permission is absent — all three are silent per spec §4.3.
func (p *Probe) At(x, y int32) (Element, bool) {
	key := coordKey(x, y)

	p.mu.Lock()
	if entry, ok := p.cache[key]; ok && time.Since(entry.at) < p.cfg.CacheTTL {
		p.mu.Unlock()
		return entry.elem, entry.ok
	}
	p.mu.Unlock()

	elem, ok := p.probeWithDeadline(x, y)

	p.mu.Lock()
	p.cache[key] = cacheEntry{at: time.Now(), elem: elem, ok: ok}
	p.mu.Unlock()

	return elem, ok
}

// probeWithDeadline runs the platform probe in a goroutine and races it
// against cfg.Deadline. A probe that loses the race is abandoned (its
// result, if it ever arrives, is discarded) rather than canceled — the
// underlying AX call has no cancellation primitive.
func (p *Probe) probeWithDeadline(x, y int32) (Element, bool) {
	type result struct {
		elem Element
		ok   bool
	}
	ch := make(chan result, 1)

	go func() {
		elem, ok := probeAtPoint(x, y)
		ch <- result{elem, ok}
	}()

	select {
	case r := <-ch:
		return r.elem, r.ok
	case <-time.After(p.cfg.Deadline):
		return Element{}, false
	}
}
