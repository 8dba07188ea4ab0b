package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/pipeline"
)

var flagPretty bool

var inspectIRCmd = &cobra.Command{
	Use:   "inspect-ir <file>",
	Short: "Print the canonical IR for a LUASCRIPT source file",
	Long: `inspect-ir runs a source file through parse, AST-validate and
lower (stopping short of emit) and prints the resulting CompilationUnit
as JSON, for inspecting what the lowerer produced without reading Lua.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspectIR,
}

func init() {
	inspectIRCmd.Flags().BoolVar(&flagPretty, "pretty", true, "indent the JSON output")
	rootCmd.AddCommand(inspectIRCmd)
}

func runInspectIR(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	opts := pipeline.DefaultOptions()
	opts.Strict = flagStrict
	opts.MaxNodes = flagMaxNodes
	opts.MaxRecursion = flagMaxDepth

	cu, diags, ok := pipeline.BuildIR(string(content), opts)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", d.Severity, d.Code, d.Message)
	}
	if cu == nil {
		return fmt.Errorf("parsing failed, no IR produced")
	}

	var (
		out  []byte
		err2 error
	)
	if flagPretty {
		out, err2 = json.MarshalIndent(cu, "", "  ")
	} else {
		out, err2 = ir.Marshal(cu)
	}
	if err2 != nil {
		return fmt.Errorf("serializing IR: %w", err2)
	}

	fmt.Println(string(out))
	if !ok {
		return fmt.Errorf("IR validation failed")
	}
	return nil
}
