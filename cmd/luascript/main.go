// Command luascript compiles LUASCRIPT sources to Lua. It walks a file
// tree (or a single file), runs every match through the compile pipeline,
// and writes the emitted Lua next to the source unless told otherwise.
package main

import (
	"fmt"
	"os"

	"github.com/oxhq/luascript/cmd/luascript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
