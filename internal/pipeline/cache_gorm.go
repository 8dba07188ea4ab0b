package pipeline

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/models"
)

// GormCache persists compile results in the gorm-backed store db.Connect
// opens, so repeated batch-compile runs over an unchanged tree skip the
// parse/lower/emit pipeline entirely. Grounded on the teacher's mcp/staging.go
// Stage persistence pattern: a gorm.DB handle plus thin Create/First calls,
// generalized from "stage a pending transform" to "persist a pure function's
// result under its input hash."
type GormCache struct {
	db *gorm.DB
}

// NewGormCache wraps an already-migrated *gorm.DB (see db.Connect) as a Cache.
func NewGormCache(db *gorm.DB) *GormCache {
	return &GormCache{db: db}
}

// Get looks up fingerprint and, on a hit, bumps the entry's hit counter.
func (c *GormCache) Get(fingerprint string) (Result, bool) {
	var entry models.CacheEntry
	if err := c.db.Where("fingerprint = ?", fingerprint).First(&entry).Error; err != nil {
		return Result{}, false
	}

	now := time.Now()
	c.db.Model(&models.CacheEntry{}).
		Where("fingerprint = ?", fingerprint).
		Updates(map[string]any{"hit_count": entry.HitCount + 1, "last_hit_at": now})

	var diags []ir.Diagnostic
	_ = json.Unmarshal(entry.Diagnostics, &diags)

	return Result{
		Lua:         entry.Lua,
		Diagnostics: diags,
		Fatal:       entry.Fatal,
		DurationMs:  entry.DurationMs,
		NodeCount:   entry.NodeCount,
	}, true
}

// Put upserts r under fingerprint. Dialect/Strict are not recoverable from a
// Result alone, so the caller that knows the Options used for this compile
// should prefer PutWithOptions; Put fills them with zero values when called
// directly through the Cache interface.
func (c *GormCache) Put(fingerprint string, r Result) {
	c.PutWithOptions(fingerprint, r, Options{})
}

// PutWithOptions upserts r under fingerprint, recording the dialect/strict
// flags the source was compiled with.
func (c *GormCache) PutWithOptions(fingerprint string, r Result, opts Options) {
	raw, err := json.Marshal(r.Diagnostics)
	if err != nil {
		raw = []byte("[]")
	}

	entry := models.CacheEntry{
		Fingerprint: fingerprint,
		Dialect:     string(opts.Dialect),
		Strict:      opts.Strict,
		Lua:         r.Lua,
		Fatal:       r.Fatal,
		Diagnostics: datatypes.JSON(raw),
		NodeCount:   r.NodeCount,
		DurationMs:  r.DurationMs,
	}

	c.db.Save(&entry)
}
