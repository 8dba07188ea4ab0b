package cmd

import (
	"fmt"

	"github.com/oxhq/luascript/db"
	"github.com/oxhq/luascript/internal/pipeline"
)

// openCache builds the compilation cache the --cache-dsn/--no-cache flags
// describe. The returned closer must be called once the cache is no longer
// needed; when --no-cache is set the returned cache is nil and the closer is a
// no-op.
func openCache() (pipeline.Cache, func(), error) {
	if flagNoCache != "" {
		return nil, func() {}, nil
	}

	gdb, err := db.Connect(flagCacheDSN, flagVerbose)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache %q: %w", flagCacheDSN, err)
	}
	closer := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return pipeline.NewGormCache(gdb), closer, nil
}
