// Package pipeline is the façade described by §4.7: it strings together the
// parser adapter, AST validator, lowerer, IR validator and emitter behind one
// call, Transpile, and layers a compilation cache in front of the expensive
// stages. Grounded on the teacher's core/manipulator.go Manipulator, which
// plays the same role for its own query/transform pipeline: one exported
// entry point that owns stage sequencing so callers (the CLI, the file
// processor) never touch the stages directly.
package pipeline

import (
	"fmt"
	"time"

	"github.com/oxhq/luascript/internal/astvalidate"
	"github.com/oxhq/luascript/internal/emitter"
	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/lower"
	"github.com/oxhq/luascript/internal/parser"
	"github.com/oxhq/luascript/internal/util"
)

// Options controls one Transpile call: the surface dialect, strictness and
// the §5 resource bounds.
type Options struct {
	Dialect      parser.Dialect
	Strict       bool
	MaxNodes     int
	MaxRecursion int
	SkipPreamble bool
}

// DefaultOptions returns the zero-configuration defaults: script dialect,
// non-strict, §5's default bounds.
func DefaultOptions() Options {
	return Options{
		Dialect:      parser.DialectScript,
		MaxNodes:     ir.DefaultMaxNodes,
		MaxRecursion: ir.DefaultMaxDepth,
	}
}

// Result is everything one Transpile call produces: the emitted Lua (empty
// on a fatal abort), the ordered diagnostics from every stage, and whether
// any stage reported a fatal error (§6.4 orders Severity error before
// warning before info, and within a severity by source order).
type Result struct {
	Lua         string
	Diagnostics []ir.Diagnostic
	Fatal       bool
	DurationMs  int64
	NodeCount   int
}

// Transpile runs the full surface-text-to-Lua pipeline for one source unit.
// It never returns a Go error: every failure mode (parse errors, validation
// failures, resource-limit aborts) surfaces as a Diagnostic in the Result,
// matching §6.4's "diagnostics are the one channel for compiler failures."
func Transpile(source string, opts Options) Result {
	start := time.Now()
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = ir.DefaultMaxNodes
	}
	if opts.MaxRecursion <= 0 {
		opts.MaxRecursion = ir.DefaultMaxDepth
	}
	if opts.Dialect == "" {
		opts.Dialect = parser.DialectScript
	}

	var diags []ir.Diagnostic

	root, parseErrs := parser.Parse([]byte(source), opts.Dialect)
	for _, e := range parseErrs {
		diags = append(diags, ir.ToDiagnostic(ir.SeverityError, ir.Wrap(ir.CodeParseError, "parse error", e), nil, ""))
	}
	if root == nil {
		return Result{Diagnostics: sortDiagnostics(diags), Fatal: true, DurationMs: elapsedMs(start)}
	}

	astDiags := astvalidate.Validate(root)
	diags = append(diags, astDiags...)
	if hasFatal(astDiags) {
		return Result{Diagnostics: sortDiagnostics(diags), Fatal: true, DurationMs: elapsedMs(start)}
	}

	cu := lower.LowerProgram(root, lower.Options{
		Strict:       opts.Strict,
		MaxNodes:     opts.MaxNodes,
		MaxRecursion: opts.MaxRecursion,
	})
	diags = append(diags, cu.Diagnostics...)
	if opts.Strict && hasFatal(cu.Diagnostics) {
		return Result{Diagnostics: sortDiagnostics(diags), Fatal: true, DurationMs: elapsedMs(start), NodeCount: len(cu.Nodes)}
	}

	preValidateCount := len(cu.Diagnostics)
	ok := ir.Validate(cu)
	diags = append(diags, cu.Diagnostics[preValidateCount:]...)
	if !ok {
		return Result{Diagnostics: sortDiagnostics(diags), Fatal: true, DurationMs: elapsedMs(start), NodeCount: len(cu.Nodes)}
	}

	lua, emitDiags := emitter.Emit(cu, emitter.Options{SkipPreamble: opts.SkipPreamble})
	diags = append(diags, emitDiags...)

	return Result{
		Lua:         lua,
		Diagnostics: sortDiagnostics(diags),
		Fatal:       hasFatal(emitDiags),
		DurationMs:  elapsedMs(start),
		NodeCount:   len(cu.Nodes),
	}
}

// BuildIR runs the pipeline through the IR-validate stage and returns the
// resulting compilation unit without emitting Lua, for tools that want to
// inspect IR directly (the CLI's inspect-ir command).
func BuildIR(source string, opts Options) (*ir.CompilationUnit, []ir.Diagnostic, bool) {
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = ir.DefaultMaxNodes
	}
	if opts.MaxRecursion <= 0 {
		opts.MaxRecursion = ir.DefaultMaxDepth
	}
	if opts.Dialect == "" {
		opts.Dialect = parser.DialectScript
	}

	var diags []ir.Diagnostic

	root, parseErrs := parser.Parse([]byte(source), opts.Dialect)
	for _, e := range parseErrs {
		diags = append(diags, ir.ToDiagnostic(ir.SeverityError, ir.Wrap(ir.CodeParseError, "parse error", e), nil, ""))
	}
	if root == nil {
		return nil, sortDiagnostics(diags), false
	}

	astDiags := astvalidate.Validate(root)
	diags = append(diags, astDiags...)
	if hasFatal(astDiags) {
		return nil, sortDiagnostics(diags), false
	}

	cu := lower.LowerProgram(root, lower.Options{
		Strict:       opts.Strict,
		MaxNodes:     opts.MaxNodes,
		MaxRecursion: opts.MaxRecursion,
	})
	diags = append(diags, cu.Diagnostics...)
	if opts.Strict && hasFatal(cu.Diagnostics) {
		return cu, sortDiagnostics(diags), false
	}

	preValidateCount := len(cu.Diagnostics)
	ok := ir.Validate(cu)
	diags = append(diags, cu.Diagnostics[preValidateCount:]...)
	return cu, sortDiagnostics(diags), ok
}

func elapsedMs(start time.Time) int64 { return time.Since(start).Milliseconds() }

func hasFatal(diags []ir.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == ir.SeverityError {
			return true
		}
	}
	return false
}

// severityRank orders diagnostics error, warning, info per §6.4; within a
// rank, sortDiagnostics orders by line then column, and the stable sort keeps
// stage order for diagnostics at the same position.
func severityRank(s ir.Severity) int {
	switch s {
	case ir.SeverityError:
		return 0
	case ir.SeverityWarning:
		return 1
	default:
		return 2
	}
}

func sortDiagnostics(diags []ir.Diagnostic) []ir.Diagnostic {
	out := make([]ir.Diagnostic, len(diags))
	copy(out, diags)
	// insertion sort: diagnostic lists are small and this keeps the sort
	// stable without pulling in sort.SliceStable. A diagnostic without a
	// location counts as line 0, column 0.
	pos := func(d ir.Diagnostic) (int, int) {
		if d.Loc == nil {
			return 0, 0
		}
		return d.Loc.Line, d.Loc.Column
	}
	less := func(a, b ir.Diagnostic) bool {
		if ra, rb := severityRank(a.Severity), severityRank(b.Severity); ra != rb {
			return ra < rb
		}
		la, ca := pos(a)
		lb, cb := pos(b)
		return la < lb || (la == lb && ca < cb)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// SourceFingerprint exposes the hash Transpile's result would be cached
// under, so callers (the in-memory and gorm caches) can key without
// duplicating the hash algorithm choice.
func SourceFingerprint(source string, opts Options) string {
	key := fmt.Sprintf("%s\x00dialect=%s strict=%t nopreamble=%t nodes=%d depth=%d",
		source, opts.Dialect, opts.Strict, opts.SkipPreamble, opts.MaxNodes, opts.MaxRecursion)
	return util.SourceFingerprint(key)
}
