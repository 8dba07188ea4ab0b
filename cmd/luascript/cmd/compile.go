package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/luascript/core"
	"github.com/oxhq/luascript/internal/pipeline"
	"github.com/oxhq/luascript/internal/writer"
)

var (
	flagOutExt      string
	flagDryRun      bool
	flagInteractive bool
	flagBackup      bool
	flagInclude     []string
	flagExclude     []string
)

var compileCmd = &cobra.Command{
	Use:   "compile [path...]",
	Short: "Compile LUASCRIPT source files to Lua",
	Long: `compile runs every discovered source file through the pipeline
(parse, AST-validate, lower, IR-validate, emit) and writes the resulting
Lua next to its source.

A single file argument is compiled directly through the writer package
(dry-run/interactive/disk, matching --dry-run/--interactive). A directory
argument is walked and compiled in one transaction via the file processor,
so a failure partway through a batch rolls every write in that batch back.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&flagOutExt, "out-ext", ".lua", "output file extension")
	compileCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report what would be written without writing it")
	compileCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "show a diff and confirm each write (single-file mode only)")
	compileCmd.Flags().BoolVar(&flagBackup, "backup", false, "keep a .bak copy of each overwritten file")
	compileCmd.Flags().StringSliceVar(&flagInclude, "include", nil, "glob patterns to include (directory mode)")
	compileCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "glob patterns to exclude (directory mode)")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	exitCode := 0
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
			continue
		}

		if info.IsDir() {
			if err := compileTree(cmd, path); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				exitCode = 1
			}
			continue
		}

		if err := compileSingleFile(cmd, path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// compileSingleFile runs one file through the pipeline directly, then hands
// the emitted Lua to a writer.Writer chosen by --dry-run/--interactive.
func compileSingleFile(cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	opts := pipeline.DefaultOptions()
	opts.Strict = flagStrict
	opts.MaxNodes = flagMaxNodes
	opts.MaxRecursion = flagMaxDepth
	if core.DetectDialect(path) == "module" {
		opts.Dialect = "module"
	}

	cache, closer, err := openCache()
	if err != nil {
		return err
	}
	defer closer()

	var result pipeline.Result
	if cache != nil {
		result = pipeline.TranspileCached(cache, string(content), opts)
	} else {
		result = pipeline.Transpile(string(content), opts)
	}

	for _, d := range result.Diagnostics {
		loc := ""
		if d.Loc != nil {
			loc = fmt.Sprintf(" (%d:%d)", d.Loc.Line, d.Loc.Column)
		}
		fmt.Fprintf(os.Stderr, "[%s] %s: %s%s\n", d.Severity, d.Code, d.Message, loc)
	}
	if result.Fatal {
		return fmt.Errorf("compilation failed")
	}

	var w writer.Writer
	switch {
	case flagInteractive:
		w = writer.NewInteractiveWriter()
	case flagDryRun:
		w = writer.NewDryRunWriter()
	default:
		w = writer.NewDiskWriter()
	}

	outPath := swapExt(path, flagOutExt)
	if flagBackup {
		if _, statErr := os.Stat(outPath); statErr == nil {
			if err := backupFile(outPath, outPath+".bak"); err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
		}
	}
	if err := w.WriteFile(outPath, []byte(result.Lua), 0o644); err != nil {
		return err
	}

	fmt.Print(w.Summary())
	return nil
}

// compileTree walks path and compiles every discovered source file inside
// one transaction via core.FileProcessor, matching the CLI's batch mode.
func compileTree(cmd *cobra.Command, path string) error {
	fp := core.NewFileProcessor()
	fp.SetWorkers(flagWorkers)
	defer fp.Cleanup()

	cache, closer, err := openCache()
	if err != nil {
		return err
	}
	defer closer()
	if cache != nil {
		fp.SetCache(cache)
	}

	op := core.FileTranspileOp{
		Scope: core.FileScope{
			Path:    path,
			Include: flagInclude,
			Exclude: flagExclude,
		},
		Strict:    flagStrict,
		EmitDebug: false,
		OutExt:    flagOutExt,
		DryRun:    flagDryRun,
		Backup:    flagBackup,
	}

	result, err := fp.CompileFiles(context.Background(), op)
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d file(s), wrote %d, %d with errors (scan %dms, compile %dms)\n",
		result.FilesScanned, result.FilesWritten, result.FilesWithErrors,
		result.ScanDurationMs, result.CompileDurationMs)
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "walk error:", e)
	}
	for _, f := range result.Files {
		if f.Error != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f.FilePath, f.Error)
		}
		if flagVerbose {
			for _, d := range f.Diagnostics {
				fmt.Fprintf(os.Stderr, "%s: %s\n", f.FilePath, d)
			}
		}
	}
	if result.FilesWithErrors > 0 {
		return fmt.Errorf("%d file(s) failed to compile", result.FilesWithErrors)
	}
	return nil
}

// swapExt replaces sourcePath's extension with outExt.
func swapExt(sourcePath, outExt string) string {
	ext := filepath.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + outExt
}

func backupFile(originalPath, backupPath string) error {
	content, err := os.ReadFile(originalPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(originalPath)
	if err != nil {
		return err
	}
	return os.WriteFile(backupPath, content, info.Mode().Perm())
}
