package pipeline

import "sync"

// Cache is the compilation cache contract §4.7 and §6.5 describe: a
// fingerprint in, a cached Result (or a miss) out. Both the in-memory and
// gorm-backed implementations satisfy it so call sites work with either; the
// CLI opens the gorm-backed one, or none under --no-cache, mirroring the
// teacher's db.Connect/no-op split for MCP staging persistence.
type Cache interface {
	Get(fingerprint string) (Result, bool)
	Put(fingerprint string, r Result)
}

// MemoryCache is a process-lifetime cache guarded by a RWMutex, matching
// the teacher's process-wide matcher cache pattern (core/manipulator.go)
// generalized from compiled matchers to compiled Results.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]Result
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: make(map[string]Result)}
}

// Get returns the cached Result for fingerprint, if present.
func (c *MemoryCache) Get(fingerprint string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.store[fingerprint]
	return r, ok
}

// Put stores r under fingerprint, replacing any existing entry.
func (c *MemoryCache) Put(fingerprint string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[fingerprint] = r
}

// optionsAwarePutter is satisfied by caches (GormCache) that want to persist
// the Options a Result was compiled under alongside the Result itself.
type optionsAwarePutter interface {
	PutWithOptions(fingerprint string, r Result, opts Options)
}

// TranspileCached runs Transpile, consulting cache first and populating it
// on a miss. Results are never cached when Fatal, since a partial/aborted
// compile keyed by source alone would otherwise mask a rerun that could
// pick up a fixed dependency (e.g. a raised MaxNodes).
func TranspileCached(cache Cache, source string, opts Options) Result {
	fp := SourceFingerprint(source, opts)
	if r, ok := cache.Get(fp); ok {
		return r
	}
	r := Transpile(source, opts)
	if !r.Fatal {
		if p, ok := cache.(optionsAwarePutter); ok {
			p.PutWithOptions(fp, r, opts)
		} else {
			cache.Put(fp, r)
		}
	}
	return r
}
