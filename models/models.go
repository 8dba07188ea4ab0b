package models

import (
	"time"

	"gorm.io/datatypes"
)

// CacheEntry is one cached compile result, keyed by the source+options
// fingerprint (internal/pipeline.SourceFingerprint). Mirrors the teacher's
// Stage/Apply split in shape — content plus checksums plus JSON metadata —
// but collapsed to the one record a deterministic pure function needs
// instead of the teacher's pending/committed workflow, since a compile
// result has nothing to stage or revert.
type CacheEntry struct {
	Fingerprint string `gorm:"primaryKey;type:varchar(64)"`

	Dialect string `gorm:"type:varchar(20);not null"`
	Strict  bool   `gorm:"default:false"`

	// Output
	Lua   string `gorm:"type:text"`
	Fatal bool   `gorm:"default:false"`

	// Diagnostics emitted during compilation, as §6.4-shaped JSON.
	Diagnostics datatypes.JSON `gorm:"type:jsonb"`

	// Stats
	NodeCount  int   `gorm:"default:0"`
	DurationMs int64 `gorm:"default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	HitCount  int       `gorm:"default:0"`
	LastHitAt *time.Time
}

func (CacheEntry) TableName() string { return "cache_entries" }
