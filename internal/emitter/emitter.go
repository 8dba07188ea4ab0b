// Package emitter renders a validated canonical IR CompilationUnit as Lua
// source text (§4.6). It is the last of the three pipeline stages: surface
// text -> AST -> IR -> Lua.
package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oxhq/luascript/internal/ir"
)

// Options controls emission. The zero value is the default: emit the
// preamble, no module name comment.
type Options struct {
	// SkipPreamble omits the §6.3 runtime prologue, for callers that
	// concatenate several emitted units behind one shared preamble.
	SkipPreamble bool
}

// Printer accumulates emitted Lua text for one CompilationUnit. It is not
// safe for concurrent use; the pipeline creates one Printer per Transpile
// call, mirroring the teacher's per-call strings.Builder use in
// internal/writer/writer.go rather than a shared/pooled one.
type Printer struct {
	cu     *ir.CompilationUnit
	opts   Options
	out    strings.Builder
	indent int
	diags  []ir.Diagnostic

	// tempSeq names the result locals optional-chain Boundary nodes and
	// switch discriminants are hoisted into, distinct from the lowerer's
	// own Temp() counter since it runs over the already-built IR.
	tempSeq int
}

// Emit renders cu as a complete Lua program, returning the emitted text and
// any EMIT_ERROR diagnostics raised along the way (unsupported nodes already
// carry their own UNSUPPORTED_CONSTRUCT diagnostic from the lowerer and are
// rendered as a comment plus a `nil` placeholder rather than re-reported
// here).
func Emit(cu *ir.CompilationUnit, opts Options) (string, []ir.Diagnostic) {
	p := &Printer{cu: cu, opts: opts}
	if !opts.SkipPreamble {
		p.out.WriteString(Preamble)
		p.out.WriteString("\n")
	}
	root, ok := cu.Get(cu.RootID)
	if !ok || root.Kind != ir.KindProgram {
		p.errorf(cu.RootID, nil, "root node is not a Program")
		return p.out.String(), p.diags
	}
	p.emitStatements(root.Body)
	return p.out.String(), p.diags
}

func (p *Printer) errorf(nodeID string, loc *ir.Location, format string, args ...any) {
	err := ir.Wrap(ir.CodeEmitError, fmt.Sprintf(format, args...), nil)
	p.diags = append(p.diags, ir.ToDiagnostic(ir.SeverityError, err, loc, nodeID))
}

func (p *Printer) nextTemp(prefix string) string {
	p.tempSeq++
	return fmt.Sprintf("__%s%d", prefix, p.tempSeq)
}

func (p *Printer) writeIndent() {
	p.out.WriteString(strings.Repeat("  ", p.indent))
}

func (p *Printer) line(format string, args ...any) {
	p.writeIndent()
	p.out.WriteString(fmt.Sprintf(format, args...))
	p.out.WriteString("\n")
}

func (p *Printer) get(id string) *ir.Node {
	if id == "" {
		return nil
	}
	n, ok := p.cu.Get(id)
	if !ok {
		return nil
	}
	return n
}

// emitStatements renders a sequence of statement ids in order.
func (p *Printer) emitStatements(ids []string) {
	for _, id := range ids {
		p.emitStatement(id)
	}
}

func (p *Printer) emitStatement(id string) {
	n := p.get(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ir.KindVarDecl:
		p.emitVarDecl(n)
	case ir.KindFunctionDecl:
		p.emitFunctionDecl(n)
	case ir.KindClassDecl:
		p.emitClassDecl(n)
	case ir.KindBlock:
		p.line("do")
		p.indent++
		p.emitStatements(n.Body)
		p.indent--
		p.line("end")
	case ir.KindIf:
		p.emitIf(n)
	case ir.KindWhile:
		p.line("while %s do", p.expr(n.Test, 0))
		p.indent++
		p.emitLoopBody(n.LoopBody)
		p.indent--
		p.line("end")
	case ir.KindDoWhile:
		p.line("repeat")
		p.indent++
		p.emitLoopBody(n.LoopBody)
		p.indent--
		p.line("until not (%s)", p.expr(n.Test, 0))
	case ir.KindFor:
		p.emitFor(n)
	case ir.KindForOf:
		// The lowerer already desugars for-of into a manual While/iter
		// expansion (internal/lower/stmt.go's lowerForOf never calls
		// b.ForOf), so a ForOf node reaching the emitter means a
		// caller built IR by hand; render it as a generic `for` over
		// __ls.iter as a defensive fallback.
		p.line("for __v in __ls.iter(%s) do", p.expr(n.ForOfRight, 0))
		p.indent++
		if left := p.get(n.ForOfLeft); left != nil {
			p.line("local %s = __v", p.identName(left))
		}
		p.emitLoopBody(n.LoopBody)
		p.indent--
		p.line("end")
	case ir.KindReturn:
		if n.Argument == "" {
			p.line("return")
		} else {
			p.line("return %s", p.expr(n.Argument, 0))
		}
	case ir.KindBreak:
		p.line("break")
	case ir.KindContinue:
		// Lua 5.1 has no continue; loop bodies that contain one are
		// wrapped in `repeat <body> until true` by emitLoopBody, and
		// `continue` becomes a `break` out of that inner repeat.
		p.line("break")
	case ir.KindThrow:
		p.line("error(%s)", p.expr(n.Argument, 0))
	case ir.KindTry:
		p.emitTry(n)
	case ir.KindSwitch:
		p.emitSwitch(n)
	case ir.KindExpressionStmt:
		p.line("%s", p.expr(n.Argument, 0))
	case ir.KindEmpty:
		// nothing to emit
	case ir.KindUnsupported:
		p.line("-- unsupported: %s", n.OriginalKind)
		p.line("nil")
	default:
		p.errorf(n.ID, n.Loc, "unhandled statement kind %s", n.Kind)
	}
}

// emitLoopBody renders a loop's body, wrapping it in `repeat ... until true`
// only when it actually contains a Continue, since that idiom is otherwise
// needless noise around a plain loop body (§4.6 "Lua 5.1 has no continue").
func (p *Printer) emitLoopBody(bodyID string) {
	body := p.get(bodyID)
	if body == nil {
		return
	}
	if !containsContinue(p.cu, body) {
		p.emitStatements(body.Body)
		return
	}
	p.line("repeat")
	p.indent++
	p.emitStatements(body.Body)
	p.indent--
	p.line("until true")
}

// containsContinue reports whether a loop's own body (not nested loops,
// whose continues target themselves) contains a Continue statement.
func containsContinue(cu *ir.CompilationUnit, n *ir.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ir.KindContinue:
		return true
	case ir.KindWhile, ir.KindDoWhile, ir.KindFor, ir.KindForOf:
		return false
	case ir.KindBlock:
		for _, id := range n.Body {
			if containsContinue(cu, get(cu, id)) {
				return true
			}
		}
		return false
	case ir.KindIf:
		return containsContinue(cu, get(cu, n.Consequent)) || containsContinue(cu, get(cu, n.Alternate))
	case ir.KindTry:
		return containsContinue(cu, get(cu, n.TryBlock)) || containsContinue(cu, get(cu, n.CatchBody)) || containsContinue(cu, get(cu, n.Finally))
	case ir.KindSwitch:
		for _, id := range n.Cases {
			if containsContinue(cu, get(cu, id)) {
				return true
			}
		}
		return false
	case ir.KindSwitchCase:
		for _, id := range n.Body {
			if containsContinue(cu, get(cu, id)) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func get(cu *ir.CompilationUnit, id string) *ir.Node {
	if id == "" {
		return nil
	}
	n, ok := cu.Get(id)
	if !ok {
		return nil
	}
	return n
}

func (p *Printer) identName(n *ir.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == ir.KindIdentifier {
		return n.Name
	}
	return p.expr(n.ID, 0)
}

func (p *Printer) emitVarDecl(n *ir.Node) {
	nameNode := p.get(n.Binder)
	name := p.identName(nameNode)
	if n.Init == "" {
		p.line("local %s", name)
		return
	}
	p.line("local %s = %s", name, p.expr(n.Init, 0))
}

func (p *Printer) emitFunctionDecl(n *ir.Node) {
	p.emitFunctionLike("function "+n.Name, n, true)
}

func (p *Printer) emitFunctionLike(header string, n *ir.Node, topLevel bool) {
	params := p.paramNames(n.Params)
	if n.IsGenerator {
		p.line("%s(%s)", header, strings.Join(params, ", "))
		p.indent++
		p.line("return coroutine.wrap(function()")
		p.indent++
		p.emitFunctionBody(n)
		p.indent--
		p.line("end)")
		p.indent--
		p.line("end")
		return
	}
	if n.IsAsync {
		p.line("%s(%s)", header, strings.Join(params, ", "))
		p.indent++
		p.line("return coroutine.wrap(function()")
		p.indent++
		p.emitFunctionBody(n)
		p.indent--
		p.line("end)()")
		p.indent--
		p.line("end")
		return
	}
	p.line("%s(%s)", header, strings.Join(params, ", "))
	p.indent++
	p.emitFunctionBody(n)
	p.indent--
	p.line("end")
}

func (p *Printer) emitFunctionBody(n *ir.Node) {
	if n.ExpressionBody {
		p.line("return %s", p.expr(n.FuncBody, 0))
		return
	}
	body := p.get(n.FuncBody)
	if body == nil {
		return
	}
	p.emitStatements(body.Body)
}

func (p *Printer) paramNames(ids []string) []string {
	var names []string
	for _, id := range ids {
		pd := p.get(id)
		if pd == nil {
			continue
		}
		binder := p.get(pd.ParamBinder)
		if binder == nil {
			continue
		}
		switch binder.Kind {
		case ir.KindIdentifier:
			names = append(names, binder.Name)
		case ir.KindRestElement:
			names = append(names, "...")
		default:
			names = append(names, p.identName(binder))
		}
	}
	return names
}

func (p *Printer) emitIf(n *ir.Node) {
	p.line("if %s then", p.expr(n.Test, 0))
	p.indent++
	p.emitBranch(n.Consequent)
	p.indent--
	if n.Alternate != "" {
		alt := p.get(n.Alternate)
		if alt != nil && alt.Kind == ir.KindIf {
			p.writeIndent()
			p.out.WriteString("else")
			p.emitElseIf(alt)
			return
		}
		p.line("else")
		p.indent++
		p.emitBranch(n.Alternate)
		p.indent--
	}
	p.line("end")
}

// emitElseIf collapses a chain of `If` nodes nested in `Alternate` into Lua's
// elseif, instead of nesting an `if` inside every `else` block.
func (p *Printer) emitElseIf(n *ir.Node) {
	p.out.WriteString(fmt.Sprintf("if %s then\n", p.expr(n.Test, 0)))
	p.indent++
	p.emitBranch(n.Consequent)
	p.indent--
	if n.Alternate != "" {
		alt := p.get(n.Alternate)
		if alt != nil && alt.Kind == ir.KindIf {
			p.writeIndent()
			p.out.WriteString("else")
			p.emitElseIf(alt)
			return
		}
		p.line("else")
		p.indent++
		p.emitBranch(n.Alternate)
		p.indent--
	}
	p.line("end")
}

func (p *Printer) emitBranch(id string) {
	n := p.get(id)
	if n == nil {
		return
	}
	if n.Kind == ir.KindBlock {
		p.emitStatements(n.Body)
		return
	}
	p.emitStatement(id)
}

func (p *Printer) emitFor(n *ir.Node) {
	// A C-style for has no direct Lua 5.1 equivalent once the test/update
	// are arbitrary expressions, so it is wrapped in an outer `do` to
	// scope the init, per §4.6.
	p.line("do")
	p.indent++
	if n.ForInit != "" {
		p.emitStatement(n.ForInit)
	}
	test := "true"
	if n.ForTest != "" {
		test = p.expr(n.ForTest, 0)
	}
	p.line("while %s do", test)
	p.indent++
	p.emitLoopBody(n.LoopBody)
	if n.ForUpdate != "" {
		p.line("%s", p.expr(n.ForUpdate, 0))
	}
	p.indent--
	p.line("end")
	p.indent--
	p.line("end")
}

func (p *Printer) emitTry(n *ir.Node) {
	p.line("local __ok, __err = pcall(function()")
	p.indent++
	if tryBlock := p.get(n.TryBlock); tryBlock != nil {
		p.emitStatements(tryBlock.Body)
	}
	p.indent--
	p.line("end)")
	if n.CatchBody != "" {
		p.line("if not __ok then")
		p.indent++
		if n.CatchParam != "" {
			p.line("local %s = __err", n.CatchParam)
		}
		if catchBody := p.get(n.CatchBody); catchBody != nil {
			p.emitStatements(catchBody.Body)
		}
		p.indent--
		p.line("end")
	}
	if n.Finally != "" {
		if finallyBody := p.get(n.Finally); finallyBody != nil {
			p.emitStatements(finallyBody.Body)
		}
	}
}

func (p *Printer) emitSwitch(n *ir.Node) {
	disc := p.nextTemp("switch")
	p.line("local %s = %s", disc, p.expr(n.Discriminant, 0))
	first := true
	var defaultCase *ir.Node
	for _, caseID := range n.Cases {
		c := p.get(caseID)
		if c == nil {
			continue
		}
		if c.IsDefault {
			defaultCase = c
			continue
		}
		kw := "if"
		if !first {
			kw = "elseif"
		}
		first = false
		p.line("%s %s == %s then", kw, disc, p.expr(c.CaseTest, 0))
		p.indent++
		p.emitStatements(c.Body)
		p.indent--
	}
	if defaultCase != nil {
		kw := "else"
		if first {
			// no non-default cases at all: still emit a bare body
			p.emitStatements(defaultCase.Body)
			return
		}
		p.line("%s", kw)
		p.indent++
		p.emitStatements(defaultCase.Body)
		p.indent--
	}
	if !first {
		p.line("end")
	}
}

// expr renders an expression id, parenthesizing it when its own precedence
// is lower than the surrounding context requires (ctxPrec 0 means "no
// parens needed regardless").
func (p *Printer) expr(id string, ctxPrec int) string {
	n := p.get(id)
	if n == nil {
		return "nil"
	}
	switch n.Kind {
	case ir.KindLiteral:
		return p.literal(n)
	case ir.KindTemplateLiteral:
		return p.templateLiteral(n)
	case ir.KindIdentifier:
		return n.Name
	case ir.KindThis:
		return "self"
	case ir.KindSuper:
		return "self.__super"
	case ir.KindBinaryOp:
		return p.binaryOp(n, ctxPrec)
	case ir.KindLogicalOp:
		return p.logicalOp(n, ctxPrec)
	case ir.KindUnaryOp:
		return p.unaryOp(n, ctxPrec)
	case ir.KindAssignment:
		return p.assignment(n)
	case ir.KindConditional:
		return p.conditional(n)
	case ir.KindCall:
		return p.call(n)
	case ir.KindOptionalCall:
		return p.optionalCall(n)
	case ir.KindNew:
		return p.newExpr(n)
	case ir.KindMember:
		return p.member(n)
	case ir.KindOptionalMember:
		return p.optionalMember(n)
	case ir.KindArrayLiteral:
		return p.arrayLiteral(n)
	case ir.KindObjectLiteral:
		return p.objectLiteral(n)
	case ir.KindSpread:
		return p.expr(n.Argument, 0)
	case ir.KindArrow:
		return p.arrowExpr(n)
	case ir.KindFunctionExpr:
		return p.functionExpr(n)
	case ir.KindClassExpr:
		return p.classExprInline(n)
	case ir.KindYieldExpr:
		return p.yieldExpr(n)
	case ir.KindAwaitExpr:
		return fmt.Sprintf("__ls.await(%s)", p.expr(n.Argument, 0))
	case ir.KindSequence:
		return p.sequence(n)
	case ir.KindUnsupported:
		return fmt.Sprintf("(--[[ unsupported: %s ]] nil)", n.OriginalKind)
	default:
		p.errorf(n.ID, n.Loc, "unhandled expression kind %s", n.Kind)
		return "nil"
	}
}

func (p *Printer) literal(n *ir.Node) string {
	switch n.LitType {
	case ir.PrimitiveString:
		s, _ := n.Value.(string)
		return strconv.Quote(s)
	case ir.PrimitiveNumber:
		if n.Raw != "" {
			return n.Raw
		}
		return fmt.Sprintf("%v", n.Value)
	case ir.PrimitiveBoolean:
		if b, ok := n.Value.(bool); ok && b {
			return "true"
		}
		return "false"
	case ir.PrimitiveNull, ir.PrimitiveUndefined:
		return "nil"
	default:
		if n.Raw != "" {
			return n.Raw
		}
		return "nil"
	}
}

func (p *Printer) templateLiteral(n *ir.Node) string {
	var parts []string
	for i, qID := range n.Quasis {
		q := p.get(qID)
		if q != nil {
			parts = append(parts, strconv.Quote(q.Raw))
		}
		if i < len(n.Expressions) {
			parts = append(parts, fmt.Sprintf("tostring(%s)", p.expr(n.Expressions[i], 0)))
		}
	}
	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " .. ")
}

// wrap parenthesizes s when its own precedence is too low for the context
// it's being placed in. Associativity is already folded into ctxPrec by the
// caller (the non-natural operand of a binary op is asked for prec+1), so a
// single comparison here is enough — an extra same-precedence check would
// double-penalize the natural operand of a same-precedence chain.
func (p *Printer) wrap(s string, prec, ctxPrec int) string {
	if prec < ctxPrec {
		return "(" + s + ")"
	}
	return s
}

// isStringValued reports whether an operand's advisory Type marks it as a
// string, the signal `+` uses to decide between numeric addition and Lua's
// `..` (§4.6, §8 worked example S3).
func (p *Printer) isStringValued(id string) bool {
	n := p.get(id)
	if n == nil || n.Type == nil {
		return false
	}
	return n.Type.Kind == ir.TypePrimitive && n.Type.Primitive == ir.PrimitiveString
}

func (p *Printer) binaryOp(n *ir.Node, ctxPrec int) string {
	if n.Operator == "+" && (p.isStringValued(n.Left) || p.isStringValued(n.Right)) {
		l := p.expr(n.Left, concatOp.prec+1)
		r := p.expr(n.Right, concatOp.prec)
		return p.wrap(l+" .. "+r, concatOp.prec, ctxPrec)
	}
	info, ok := binOps[n.Operator]
	if !ok {
		p.errorf(n.ID, n.Loc, "unknown binary operator %q", n.Operator)
		return "nil"
	}
	if info.helper != "" {
		return fmt.Sprintf("__ls.%s(%s, %s)", info.helper, p.expr(n.Left, 0), p.expr(n.Right, 0))
	}
	lPrec, rPrec := info.prec, info.prec+1
	if info.rAssoc {
		lPrec, rPrec = info.prec+1, info.prec
	}
	l := p.expr(n.Left, lPrec)
	r := p.expr(n.Right, rPrec)
	return p.wrap(fmt.Sprintf("%s %s %s", l, info.lua, r), info.prec, ctxPrec)
}

func (p *Printer) logicalOp(n *ir.Node, ctxPrec int) string {
	prec := logicalPrec[n.Operator]
	l := p.expr(n.Left, prec)
	r := p.expr(n.Right, prec+1)
	return p.wrap(fmt.Sprintf("%s %s %s", l, logicalOpLua(n.Operator), r), prec, ctxPrec)
}

func (p *Printer) unaryOp(n *ir.Node, ctxPrec int) string {
	if n.Operator == "void" {
		return fmt.Sprintf("(function() local _ = %s return nil end)()", p.expr(n.Argument, 0))
	}
	info, ok := unaryOps[n.Operator]
	if !ok {
		p.errorf(n.ID, n.Loc, "unknown unary operator %q", n.Operator)
		return "nil"
	}
	if info.helper != "" {
		return fmt.Sprintf("__ls.%s(%s)", info.helper, p.expr(n.Argument, 0))
	}
	if info.lua == "" {
		return p.expr(n.Argument, ctxPrec)
	}
	arg := p.expr(n.Argument, precUnary)
	return p.wrap(info.lua+arg, precUnary, ctxPrec)
}

func (p *Printer) assignment(n *ir.Node) string {
	op := n.Operator
	if op == "" || op == "=" {
		return fmt.Sprintf("%s = %s", p.expr(n.Left, 0), p.expr(n.Right, 0))
	}
	// Compound assignment (+=, -=, ...): desugar to `left = left <op> right`
	// since Lua has no compound-assignment operators.
	base := strings.TrimSuffix(op, "=")
	synthetic := &ir.Node{ID: n.ID, Kind: ir.KindBinaryOp, Operator: base, Left: n.Left, Right: n.Right, Type: n.Type}
	if info, ok := binOps[base]; ok && info.helper == "" {
		l := p.expr(n.Left, info.prec+1)
		r := p.expr(n.Right, info.prec+1)
		return fmt.Sprintf("%s = %s %s %s", p.expr(n.Left, 0), l, info.lua, r)
	}
	return fmt.Sprintf("%s = %s", p.expr(n.Left, 0), p.binaryOpValue(synthetic))
}

// binaryOpValue renders a synthetic BinaryOp node not owned by the
// CompilationUnit (used only by compound-assignment desugaring).
func (p *Printer) binaryOpValue(n *ir.Node) string {
	if n.Operator == "+" && (p.isStringValued(n.Left) || p.isStringValued(n.Right)) {
		return p.expr(n.Left, 0) + " .. " + p.expr(n.Right, 0)
	}
	info, ok := binOps[n.Operator]
	if !ok {
		return "nil"
	}
	if info.helper != "" {
		return fmt.Sprintf("__ls.%s(%s, %s)", info.helper, p.expr(n.Left, 0), p.expr(n.Right, 0))
	}
	return fmt.Sprintf("%s %s %s", p.expr(n.Left, 0), info.lua, p.expr(n.Right, 0))
}

func (p *Printer) conditional(n *ir.Node) string {
	// Lua has no ternary; the plain `test and cons or alt` idiom mishandles
	// a falsy consequent, so the emitter instead binds an IIFE.
	return fmt.Sprintf("(function() if %s then return %s else return %s end end)()",
		p.expr(n.Test, 0), p.expr(n.Consequent, 0), p.expr(n.Alternate, 0))
}

func (p *Printer) call(n *ir.Node) string {
	callee := p.get(n.Callee)

	// `super(...)` — invoke the superclass constructor on the current self.
	if callee != nil && callee.Kind == ir.KindSuper {
		args := "self"
		if rest := p.argList(n.Arguments); rest != "" {
			args += ", " + rest
		}
		return fmt.Sprintf("self.__super.constructor(%s)", args)
	}

	// `super.method(...)` — invoke the superclass's method, still bound to
	// the current self, since methods take self as an explicit first
	// parameter rather than through Lua's `:` sugar (see emitMethod).
	if callee != nil && callee.Kind == ir.KindMember {
		if obj := p.get(callee.Object); obj != nil && obj.Kind == ir.KindSuper {
			args := "self"
			if rest := p.argList(n.Arguments); rest != "" {
				args += ", " + rest
			}
			return fmt.Sprintf("self.__super.%s(%s)", callee.Property, args)
		}
	}

	// `this.method(...)` — use Lua's `:` sugar so `self` (the enclosing
	// method's own `this`) is threaded through as the called method's
	// explicit `self` first parameter (see emitMethod) via metatable
	// dispatch, rather than requiring the call site to know which class
	// actually defines the method.
	if callee != nil && callee.Kind == ir.KindMember && !callee.Computed && !n.HasSpread {
		if obj := p.get(callee.Object); obj != nil && obj.Kind == ir.KindThis {
			return fmt.Sprintf("self:%s(%s)", callee.Property, p.argList(n.Arguments))
		}
	}

	calleeStr := p.expr(n.Callee, precUnary)
	if n.HasSpread {
		return fmt.Sprintf("__ls.apply(%s, %s)", calleeStr, p.argsArray(n.Arguments))
	}
	return fmt.Sprintf("%s(%s)", calleeStr, p.argList(n.Arguments))
}

func (p *Printer) argList(ids []string) string {
	var parts []string
	for _, id := range ids {
		parts = append(parts, p.expr(id, 0))
	}
	return strings.Join(parts, ", ")
}

// argsArray renders a call's argument list as a table literal suitable for
// __ls.apply, expanding each Spread argument to table.unpack(...) so
// f(a, ...b, c) passes b's elements individually rather than b itself as
// one element — mirrors arrayLiteral's Spread handling.
func (p *Printer) argsArray(ids []string) string {
	var parts []string
	for _, id := range ids {
		el := p.get(id)
		if el != nil && el.Kind == ir.KindSpread {
			parts = append(parts, "table.unpack("+p.expr(el.Argument, 0)+")")
			continue
		}
		parts = append(parts, p.expr(id, 0))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// optionalCall renders `a?.()` by binding the boundary result to an
// immediately-invoked local so the optional test runs once (§3.3's
// single-boundary-temporary requirement).
func (p *Printer) optionalCall(n *ir.Node) string {
	calleeStr := p.expr(n.Callee, precUnary)
	call := fmt.Sprintf("%s(%s)", calleeStr, p.argList(n.Arguments))
	if !n.Boundary {
		return call
	}
	return fmt.Sprintf("(function() if %s == nil then return nil else return %s end end)()", calleeStr, call)
}

func (p *Printer) newExpr(n *ir.Node) string {
	callee := p.expr(n.Callee, precUnary)
	if n.HasSpread {
		return fmt.Sprintf("__ls.apply(%s.new, %s)", callee, p.argsArray(n.Arguments))
	}
	return fmt.Sprintf("%s.new(%s)", callee, p.argList(n.Arguments))
}

func (p *Printer) member(n *ir.Node) string {
	obj := p.expr(n.Object, precUnary)
	if n.Computed {
		return fmt.Sprintf("%s[%s]", obj, p.expr(n.Property, 0))
	}
	return fmt.Sprintf("%s.%s", obj, n.Property)
}

// optionalMember mirrors optionalCall: the boundary node binds the object
// once and short-circuits to nil.
func (p *Printer) optionalMember(n *ir.Node) string {
	obj := p.expr(n.Object, precUnary)
	var access string
	if n.Computed {
		access = fmt.Sprintf("%s[%s]", obj, p.expr(n.Property, 0))
	} else {
		access = fmt.Sprintf("%s.%s", obj, n.Property)
	}
	if !n.Boundary {
		return access
	}
	return fmt.Sprintf("(function() if %s == nil then return nil else return %s end end)()", obj, access)
}

func (p *Printer) arrayLiteral(n *ir.Node) string {
	var parts []string
	for _, id := range n.Elements {
		el := p.get(id)
		if el != nil && el.Kind == ir.KindSpread {
			parts = append(parts, "table.unpack("+p.expr(el.Argument, 0)+")")
			continue
		}
		parts = append(parts, p.expr(id, 0))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p *Printer) objectLiteral(n *ir.Node) string {
	var parts []string
	for _, propID := range n.Properties {
		prop := p.get(propID)
		if prop == nil {
			continue
		}
		key := p.get(prop.Key)
		var keyStr string
		if prop.Computed {
			keyStr = "[" + p.expr(prop.Key, 0) + "]"
		} else if key != nil && key.Kind == ir.KindIdentifier {
			keyStr = "[" + strconv.Quote(key.Name) + "]"
		} else {
			keyStr = "[" + p.expr(prop.Key, 0) + "]"
		}
		parts = append(parts, fmt.Sprintf("%s = %s", keyStr, p.expr(prop.PropValue, 0)))
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p *Printer) arrowExpr(n *ir.Node) string {
	var b strings.Builder
	params := p.paramNames(n.Params)
	if n.ExpressionBody {
		fmt.Fprintf(&b, "function(%s) return %s end", strings.Join(params, ", "), p.expr(n.FuncBody, 0))
		return b.String()
	}
	saved := p.out
	p.out = strings.Builder{}
	p.line("function(%s)", strings.Join(params, ", "))
	p.indent++
	p.emitFunctionBody(n)
	p.indent--
	p.line("end")
	rendered := strings.TrimRight(p.out.String(), "\n")
	p.out = saved
	return rendered
}

func (p *Printer) functionExpr(n *ir.Node) string {
	saved := p.out
	p.out = strings.Builder{}
	header := "function"
	if n.Name != "" {
		header = "function " + n.Name
	}
	p.emitFunctionLike(header, n, false)
	rendered := strings.TrimRight(p.out.String(), "\n")
	p.out = saved
	return rendered
}

func (p *Printer) classExprInline(n *ir.Node) string {
	saved := p.out
	p.out = strings.Builder{}
	p.emitClassBody(n)
	name := n.Name
	if name == "" {
		name = p.nextTemp("class")
	}
	rendered := strings.TrimRight(p.out.String(), "\n")
	p.out = saved
	return fmt.Sprintf("(function() %s return %s end)()", rendered, name)
}

func (p *Printer) yieldExpr(n *ir.Node) string {
	if n.Delegate {
		return fmt.Sprintf("(function() for __v in __ls.iter(%s) do coroutine.yield(__v) end end)()", p.expr(n.Argument, 0))
	}
	if n.Argument == "" {
		return "coroutine.yield()"
	}
	return fmt.Sprintf("coroutine.yield(%s)", p.expr(n.Argument, 0))
}

func (p *Printer) sequence(n *ir.Node) string {
	// Lua has no comma operator; an IIFE runs every expression for its
	// side effects and returns the last one's value.
	var b strings.Builder
	b.WriteString("(function() ")
	for i, id := range n.SeqExpressions {
		if i == len(n.SeqExpressions)-1 {
			fmt.Fprintf(&b, "return %s ", p.expr(id, 0))
		} else {
			fmt.Fprintf(&b, "local _ = %s ", p.expr(id, 0))
		}
	}
	b.WriteString("end)()")
	return b.String()
}
