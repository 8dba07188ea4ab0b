// Package lower implements the AST-to-IR lowering pass (§4.4): the
// centerpiece of the pipeline. It rewrites every surface construct in §6.1
// into a canonical IR subgraph — destructuring into temporary-keyed
// VarDecls, for-of into the __ls.iter protocol, optional chaining into
// OptionalMember/OptionalCall chains whose outermost link is tagged
// Boundary. Generators, async functions and classes stay function and
// class nodes carrying their flags and members; the emitter renders them
// as coroutine.wrap wrappers and metatable tables.
//
// Grounded on core/manipulator.go's Manipulator.Apply: a big dispatch over
// an operation/node kind where each branch builds one result, generalized
// here from "one textual edit" to "one IR subgraph."
package lower

import (
	"fmt"

	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/jsast"
)

// Options mirrors the subset of the pipeline's Options that affects
// lowering: strict mode escalates UnsupportedConstruct from a warning to an
// error (still non-fatal at this layer; the pipeline façade decides to
// abort), and the resource bounds from §5.
type Options struct {
	Strict        bool
	MaxNodes      int
	MaxRecursion  int
}

type frameKind int

const (
	frameNormal frameKind = iota
	frameGenerator
	frameAsync
)

// frame is the per-function lowering state §4.4 calls for: kind, loop/switch
// depth for Break/Continue bookkeeping, and any `var` declarations hoisted
// from nested blocks that must surface at the top of this frame's body.
// Temporaries are named by the unit-wide ir.Builder.Temp, not per frame.
type frame struct {
	kind         frameKind
	loopDepth    int
	switchDepth  int
	pendingHoist []string // identifier names needing a hoisted VarDecl
	hoistedSet   map[string]bool
}

// Lowerer carries the builder, accumulated diagnostics, the frame stack, and
// a scratch "pending" slice of statement IDs that must be spliced in before
// the statement currently being lowered (destructuring, postfix-update,
// nullish and spread temporaries). It has no state that survives one LowerProgram
// call, matching §3.4's "compilation units are short-lived."
type Lowerer struct {
	b       *ir.Builder
	diags   []ir.Diagnostic
	frames  []*frame
	pending []string
	depth   int
	opts    Options
}

// LowerProgram is the package's one entry point: AST root in, a populated
// CompilationUnit (with its own diagnostics already attached) out.
func LowerProgram(root *jsast.Node, opts Options) *ir.CompilationUnit {
	if opts.MaxRecursion <= 0 {
		opts.MaxRecursion = ir.DefaultMaxDepth
	}
	l := &Lowerer{b: ir.NewBuilder(opts.MaxNodes), opts: opts}
	l.pushFrame(frameNormal)

	bodyIDs := l.lowerStatements(root.Statements)
	bodyIDs = l.withHoists(bodyIDs)

	progID, err := l.b.Program(bodyIDs, nil)
	if err != nil {
		l.addErr(err, nil, "")
		return l.finish("")
	}
	l.linkChildren(progID, bodyIDs)
	l.popFrame()
	return l.finish(progID)
}

func (l *Lowerer) finish(rootID string) *ir.CompilationUnit {
	unit := l.b.Unit()
	unit.RootID = rootID
	unit.Diagnostics = append(unit.Diagnostics, l.diags...)
	return unit
}

func (l *Lowerer) currentFrame() *frame {
	return l.frames[len(l.frames)-1]
}

func (l *Lowerer) pushFrame(kind frameKind) {
	l.frames = append(l.frames, &frame{kind: kind, hoistedSet: map[string]bool{}})
}

func (l *Lowerer) popFrame() {
	l.frames = l.frames[:len(l.frames)-1]
}

// hoist records a `var`-declared name for promotion to the top of its
// enclosing function (or Program) body, deduplicated per frame.
func (l *Lowerer) hoist(name string) {
	f := l.currentFrame()
	if f.hoistedSet[name] {
		return
	}
	f.hoistedSet[name] = true
	f.pendingHoist = append(f.pendingHoist, name)
}

// withHoists prepends a `local <name>` VarDecl (VarVar with no initializer)
// for every name the current frame's body hoisted, per §4.4's var-hoisting
// rule, and clears the frame's hoist list since it has now been consumed.
func (l *Lowerer) withHoists(bodyIDs []string) []string {
	f := l.currentFrame()
	if len(f.pendingHoist) == 0 {
		return bodyIDs
	}
	var hoisted []string
	for _, name := range f.pendingHoist {
		id, err := l.b.Identifier(name, nil)
		if err != nil {
			l.addErr(err, nil, "")
			continue
		}
		decl, err := l.b.VarDecl(ir.VarVar, id, "", nil)
		if err != nil {
			l.addErr(err, nil, "")
			continue
		}
		l.linkChildren(decl, []string{id})
		hoisted = append(hoisted, decl)
	}
	f.pendingHoist = nil
	return append(hoisted, bodyIDs...)
}

func (l *Lowerer) addErr(err error, loc *ir.Location, nodeID string) {
	l.diags = append(l.diags, ir.ToDiagnostic(ir.SeverityError, err, loc, nodeID))
}

func (l *Lowerer) astLoc(n *jsast.Node) *ir.Location {
	if n == nil || n.Loc == nil {
		return nil
	}
	return &ir.Location{Line: n.Loc.Line, Column: n.Loc.Column}
}

// linkChildren records n as the ParentID of every non-empty id in ids, the
// bookkeeping the IR validator's context walks (enclosing function/loop/
// switch/class) depend on.
func (l *Lowerer) linkChildren(parentID string, ids []string) {
	for _, id := range ids {
		if id != "" {
			l.b.SetParent(id, parentID)
		}
	}
}

// enterRecursion/exitRecursion enforce §5's lowering recursion depth bound,
// converting pathological input into a MemoryLimit diagnostic instead of a
// host stack overflow.
func (l *Lowerer) enterRecursion() bool {
	l.depth++
	if l.depth > l.opts.MaxRecursion {
		l.diags = append(l.diags, ir.Diagnostic{
			Severity: ir.SeverityError, Code: ir.CodeMemoryLimit,
			Message: fmt.Sprintf("lowering recursion depth exceeds %d", l.opts.MaxRecursion),
		})
		return false
	}
	return true
}

func (l *Lowerer) exitRecursion() { l.depth-- }

// unsupported builds an Unsupported IR node in place of a construct outside
// §6.1 and records the diagnostic at warning severity (error in strict
// mode), per §4.4's failure semantics.
func (l *Lowerer) unsupported(n *jsast.Node) string {
	sev := ir.SeverityWarning
	if l.opts.Strict {
		sev = ir.SeverityError
	}
	kind := "unknown"
	if n != nil {
		kind = n.OriginalType
		if kind == "" {
			kind = string(n.Kind)
		}
	}
	id, err := l.b.Unsupported(kind, l.astLoc(n))
	if err != nil {
		l.addErr(err, l.astLoc(n), "")
		return ""
	}
	l.diags = append(l.diags, ir.Diagnostic{
		Severity: sev, Code: ir.CodeUnsupportedConstruct,
		Message: fmt.Sprintf("unsupported construct: %s", kind), Loc: l.astLoc(n), NodeID: id,
	})
	return id
}

// --- Lua keyword renaming (§4.4 "Scope and naming") ------------------------

var luaKeywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true, "or": true,
	"repeat": true, "return": true, "then": true, "true": true, "until": true,
	"while": true,
}

// luaSafeName appends `_` to any identifier that collides with a Lua
// keyword; every other name passes through unchanged.
func luaSafeName(name string) string {
	if luaKeywords[name] {
		return name + "_"
	}
	return name
}

// helperCall builds a Call to __ls.<name>(args...), the shape every runtime
// helper reference in §6.3 takes.
func (l *Lowerer) helperCall(name string, args []string, loc *ir.Location) (string, error) {
	tbl, err := l.b.Identifier("__ls", loc)
	if err != nil {
		return "", err
	}
	member, err := l.b.Member(tbl, name, false, loc)
	if err != nil {
		return "", err
	}
	l.linkChildren(member, []string{tbl})
	call, err := l.b.Call(member, args, false, loc)
	if err != nil {
		return "", err
	}
	l.linkChildren(call, append([]string{member}, args...))
	return call, nil
}
