// Package cmd wires the luascript command tree together with cobra,
// grounded on go-dws's cmd/dwscript/cmd package: a rootCmd plus one file
// per subcommand, each registering itself from its own init.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oxhq/luascript/internal/config"
)

// Version is set at build time via -ldflags; left at dev default otherwise.
var Version = "0.1.0-dev"

var (
	flagCacheDSN string
	flagNoCache  string
	flagStrict   bool
	flagMaxNodes int
	flagMaxDepth int
	flagWorkers  int
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:     "luascript",
	Short:   "Compile LUASCRIPT sources to Lua",
	Version: Version,
	Long: `luascript is a source-to-source compiler: it reads LUASCRIPT
programs (a JavaScript-flavored surface syntax) and emits equivalent Lua.

It runs every discovered file through one pipeline - parse, validate,
lower to an intermediate representation, validate again, emit - and
reports every failure as a diagnostic and carries on with the remaining
files, so a batch run reports partial results instead of stopping at the
first broken file; the process exits non-zero if any file failed.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaults := config.LoadConfig()

	rootCmd.PersistentFlags().StringVar(&flagCacheDSN, "cache-dsn", defaults.CacheDSN,
		"compilation cache DSN (sqlite file path, or a libsql:// / https:// URL)")
	rootCmd.PersistentFlags().StringVar(&flagNoCache, "no-cache", "",
		"disable the compilation cache entirely (pass any value)")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", defaults.Strict,
		"treat lowering warnings (unsupported constructs) as fatal")
	rootCmd.PersistentFlags().IntVar(&flagMaxNodes, "max-nodes", defaults.MaxNodes,
		"abort a compile once its IR exceeds this many nodes")
	rootCmd.PersistentFlags().IntVar(&flagMaxDepth, "max-depth", defaults.MaxDepth,
		"abort a compile once AST/IR recursion exceeds this depth")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", defaults.Workers,
		"number of files to compile concurrently")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
}
