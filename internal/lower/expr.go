package lower

import (
	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/jsast"
)

// lowerExpr lowers one AST expression into exactly one IR expression id.
// Unlike lowerStatement it never drains l.pending itself: callers that sit
// at statement granularity (lowerVariableDeclaration, lowerStmtInner, ...)
// are responsible for splicing l.pending in before the statement that uses
// the returned id, which is what makes destructuring, spread-in-literal,
// and postfix update temporaries work uniformly across the lowerer.
func (l *Lowerer) lowerExpr(n *jsast.Node) string {
	if n == nil {
		return ""
	}
	if !l.enterRecursion() {
		return ""
	}
	defer l.exitRecursion()

	loc := l.astLoc(n)
	switch n.Kind {
	case jsast.KindLiteral:
		return l.lowerLiteral(n)
	case jsast.KindTemplateLiteral:
		return l.lowerTemplateLiteral(n)
	case jsast.KindIdentifier:
		id, err := l.b.Identifier(luaSafeName(n.Name), loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	case jsast.KindThisExpression:
		id, _ := l.b.This(loc)
		return id
	case jsast.KindSuper:
		id, _ := l.b.Super(loc)
		return id
	case jsast.KindBinaryExpression:
		left := l.lowerExpr(n.Left)
		right := l.lowerExpr(n.Right)
		id, err := l.b.BinaryOp(n.Operator, left, right, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{left, right})
		return id
	case jsast.KindLogicalExpression:
		if n.Operator == "??" {
			return l.lowerNullishCoalesce(n)
		}
		left := l.lowerExpr(n.Left)
		right := l.lowerExpr(n.Right)
		id, err := l.b.LogicalOp(n.Operator, left, right, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{left, right})
		return id
	case jsast.KindUnaryExpression:
		arg := l.lowerExpr(n.Argument)
		id, err := l.b.UnaryOp(n.Operator, arg, n.Prefix, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{arg})
		return id
	case jsast.KindUpdateExpression:
		return l.lowerUpdateExpression(n)
	case jsast.KindAssignmentExpr:
		return l.lowerAssignmentExpr(n)
	case jsast.KindConditionalExpr:
		test := l.lowerExpr(n.Test)
		cons := l.lowerExpr(n.Consequent)
		alt := l.lowerExpr(n.Alternate)
		id, err := l.b.Conditional(test, cons, alt, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{test, cons, alt})
		return id
	case jsast.KindCallExpression, jsast.KindMemberExpression:
		return l.buildChainNode(n)
	case jsast.KindNewExpression:
		callee := l.lowerExpr(n.Callee)
		args, hasSpread := l.lowerArguments(n.Arguments)
		id, err := l.b.New(callee, args, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.setHasSpread(id, hasSpread)
		l.linkChildren(id, append([]string{callee}, args...))
		return id
	case jsast.KindArrayExpression:
		return l.lowerArrayExpr(n)
	case jsast.KindObjectExpression:
		return l.lowerObjectExpr(n)
	case jsast.KindSpreadElement:
		// A bare SpreadElement only reaches lowerExpr when a caller asks for
		// its value directly (object/array literal paths call lowerExpr on
		// el.Argument instead); treat it as its argument's value.
		return l.lowerExpr(n.Argument)
	case jsast.KindArrowFunctionExpr:
		return l.lowerArrow(n)
	case jsast.KindFunctionExpression:
		return l.lowerFunction(n, true)
	case jsast.KindClassExpression:
		return l.lowerClass(n, true)
	case jsast.KindYieldExpression:
		arg := ""
		if n.Argument != nil {
			arg = l.lowerExpr(n.Argument)
		}
		id, err := l.b.YieldExpr(arg, n.Delegate, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{arg})
		return id
	case jsast.KindAwaitExpression:
		arg := l.lowerExpr(n.Argument)
		id, err := l.b.AwaitExpr(arg, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{arg})
		return id
	case jsast.KindSequenceExpression:
		var exprs []string
		for _, e := range n.Expressions {
			exprs = append(exprs, l.lowerExpr(e))
		}
		id, err := l.b.Sequence(exprs, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, exprs)
		return id
	default:
		return l.unsupported(n)
	}
}

func (l *Lowerer) lowerLiteral(n *jsast.Node) string {
	loc := l.astLoc(n)
	switch n.LiteralKind {
	case "number":
		id, err := l.b.Literal(n.Value, n.Raw, ir.PrimitiveNumber, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	case "string":
		id, err := l.b.Literal(n.Value, n.Raw, ir.PrimitiveString, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	case "boolean":
		id, err := l.b.Literal(n.Value, n.Raw, ir.PrimitiveBoolean, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	case "undefined":
		id, err := l.b.Literal(nil, "undefined", ir.PrimitiveUndefined, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	default: // "null" and anything unexpected fall back to null
		id, err := l.b.Literal(nil, "null", ir.PrimitiveNull, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	}
}

// lowerTemplateLiteral implements §4.4's rewrite: a left-associative chain
// of BinaryOp(+) over the quasis and interpolated expressions, each
// non-literal-string interpolant wrapped in a `tostring` call. No printf-
// style format string is ever built.
func (l *Lowerer) lowerTemplateLiteral(n *jsast.Node) string {
	loc := l.astLoc(n)
	var chain string
	appendPart := func(part string) {
		if chain == "" {
			chain = part
			return
		}
		sum, err := l.b.BinaryOp("+", chain, part, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		l.linkChildren(sum, []string{chain, part})
		chain = sum
	}

	exprIdx := 0
	for i, q := range n.Quasis {
		raw := unescapeTemplateChunk(q.Raw)
		if raw != "" {
			lit, err := l.b.Literal(raw, q.Raw, ir.PrimitiveString, loc)
			if err == nil {
				appendPart(lit)
			}
		}
		if exprIdx < len(n.TemplateExprs) && i < len(n.Quasis)-1 {
			exprAST := n.TemplateExprs[exprIdx]
			exprIdx++
			val := l.lowerExpr(exprAST)
			appendPart(l.coerceToString(val, loc))
		}
	}
	for ; exprIdx < len(n.TemplateExprs); exprIdx++ {
		val := l.lowerExpr(n.TemplateExprs[exprIdx])
		appendPart(l.coerceToString(val, loc))
	}

	if chain == "" {
		empty, _ := l.b.Literal("", `""`, ir.PrimitiveString, loc)
		return empty
	}
	return chain
}

// coerceToString wraps valueID in a call to the Lua builtin `tostring`
// unless it is already a string literal, matching §4.4's "explicit tostring
// coercion on non-string interpolants."
func (l *Lowerer) coerceToString(valueID string, loc *ir.Location) string {
	if n, ok := l.b.Unit().Get(valueID); ok && n.Kind == ir.KindLiteral && n.LitType == ir.PrimitiveString {
		return valueID
	}
	fn, err := l.b.Identifier("tostring", loc)
	if err != nil {
		return valueID
	}
	call, err := l.b.Call(fn, []string{valueID}, false, loc)
	if err != nil {
		return valueID
	}
	l.linkChildren(call, []string{fn, valueID})
	return call
}

func unescapeTemplateChunk(s string) string {
	return s
}

// lowerArguments lowers a call/new argument list, expanding any
// SpreadElement into a Spread IR node and reporting whether at least one
// argument was a spread (§4.4 "Spread in calls").
func (l *Lowerer) lowerArguments(args []*jsast.Node) ([]string, bool) {
	var out []string
	hasSpread := false
	for _, a := range args {
		if a == nil {
			continue
		}
		if a.Kind == jsast.KindSpreadElement {
			hasSpread = true
			inner := l.lowerExpr(a.Argument)
			id, err := l.b.Spread(inner, l.astLoc(a))
			if err != nil {
				l.addErr(err, l.astLoc(a), "")
				continue
			}
			l.linkChildren(id, []string{inner})
			out = append(out, id)
			continue
		}
		out = append(out, l.lowerExpr(a))
	}
	return out, hasSpread
}

func (l *Lowerer) setHasSpread(id string, val bool) {
	if n, ok := l.b.Unit().Get(id); ok {
		n.HasSpread = val
	}
}

// lowerUpdateExpression lowers `x++`/`x--`/`++x`/`--x` into an assignment
// plus, for postfix forms, a temporary capturing the pre-update value so the
// expression's own value is correct in an expression position, not just as
// a bare statement.
func (l *Lowerer) lowerUpdateExpression(n *jsast.Node) string {
	loc := l.astLoc(n)
	opSign := "+"
	if n.Operator == "--" {
		opSign = "-"
	}
	one, err := l.b.Literal(1.0, "1", ir.PrimitiveNumber, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}

	if n.Prefix {
		readRef := l.lowerExpr(n.Argument)
		sum, err := l.b.BinaryOp(opSign, readRef, one, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(sum, []string{readRef, one})
		writeRef := l.lowerExpr(n.Argument)
		assign, err := l.b.Assignment("=", writeRef, sum, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(assign, []string{writeRef, sum})
		return assign
	}

	oldVal := l.lowerExpr(n.Argument)
	tempName := l.b.Temp("_postfix")
	tempID, err := l.b.Identifier(tempName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	tempDecl, err := l.b.VarDecl(ir.VarLet, tempID, oldVal, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(tempDecl, []string{tempID, oldVal})
	l.pending = append(l.pending, tempDecl)

	tempRead, _ := l.b.Identifier(tempName, loc)
	sum, err := l.b.BinaryOp(opSign, tempRead, one, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(sum, []string{tempRead, one})
	writeRef := l.lowerExpr(n.Argument)
	assign, err := l.b.Assignment("=", writeRef, sum, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(assign, []string{writeRef, sum})
	assignStmt, err := l.b.ExpressionStmt(assign, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(assignStmt, []string{assign})
	l.pending = append(l.pending, assignStmt)

	result, _ := l.b.Identifier(tempName, loc)
	return result
}

// lowerAssignmentExpr handles `=` (including destructuring targets),
// compound arithmetic/logical operators, and the `??=` nullish form.
func (l *Lowerer) lowerAssignmentExpr(n *jsast.Node) string {
	loc := l.astLoc(n)
	if n.Operator == "=" && (n.ID.Kind == jsast.KindArrayPattern || n.ID.Kind == jsast.KindObjectPattern) {
		return l.lowerDestructuringAssignment(n.ID, n.Init, loc)
	}
	if n.Operator == "=" {
		left := l.lowerExpr(n.ID)
		right := l.lowerExpr(n.Init)
		id, err := l.b.Assignment("=", left, right, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{left, right})
		return id
	}
	if n.Operator == "??=" {
		return l.lowerNullishAssign(n)
	}

	// Compound arithmetic/bitwise/logical operators: `x op= y` becomes
	// `x = x op y`, re-reading the left-hand side once for the operand and
	// once more for the assignment target (acceptable for the identifier and
	// simple-member targets the surface grammar allows here).
	baseOp := n.Operator[:len(n.Operator)-1] // strip trailing '='
	readRef := l.lowerExpr(n.ID)
	right := l.lowerExpr(n.Init)
	var combined string
	var err error
	switch baseOp {
	case "&&", "||":
		combined, err = l.b.LogicalOp(baseOp, readRef, right, loc)
	default:
		combined, err = l.b.BinaryOp(baseOp, readRef, right, loc)
	}
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(combined, []string{readRef, right})
	writeRef := l.lowerExpr(n.ID)
	id, err := l.b.Assignment("=", writeRef, combined, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, []string{writeRef, combined})
	return id
}

// lowerNullishAssign implements `a ??= b` as the compound form over the same
// evaluated l-value (§4.4): `a = (a === null || a === undefined) ? b : a`.
func (l *Lowerer) lowerNullishAssign(n *jsast.Node) string {
	loc := l.astLoc(n)
	readRef := l.lowerExpr(n.ID)
	guard := l.nilCheckExpr(readRef, loc)
	value := l.lowerExpr(n.Init)
	elseRef := l.lowerExpr(n.ID)
	cond, err := l.b.Conditional(guard, value, elseRef, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(cond, []string{guard, value, elseRef})
	writeRef := l.lowerExpr(n.ID)
	id, err := l.b.Assignment("=", writeRef, cond, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, []string{writeRef, cond})
	return id
}

// lowerDestructuringAssignment lowers `[a, b] = expr` / `{a, b} = expr` at
// expression (not declaration) position: same decomposition as
// lowerPatternDeclaration, but each leaf produces an Assignment instead of a
// VarDecl since the targets are already-declared bindings.
func (l *Lowerer) lowerDestructuringAssignment(pattern *jsast.Node, initAST *jsast.Node, loc *ir.Location) string {
	initID := l.lowerExpr(initAST)
	tempName := l.b.Temp("_destructure")
	tempID, err := l.b.Identifier(tempName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	decl, err := l.b.VarDecl(ir.VarLet, tempID, initID, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(decl, []string{tempID, initID})
	l.pending = append(l.pending, decl)

	var last string
	l.decomposePattern(pattern, tempName, ir.VarLet, func(name, valueID string) {
		nameID, err := l.b.Identifier(name, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		assign, err := l.b.Assignment("=", nameID, valueID, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		l.linkChildren(assign, []string{nameID, valueID})
		stmt, err := l.b.ExpressionStmt(assign, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		l.linkChildren(stmt, []string{assign})
		l.pending = append(l.pending, stmt)
		last = assign
	})
	if last == "" {
		ref, _ := l.b.Identifier(tempName, loc)
		return ref
	}
	return last
}

// nilCheckExpr builds `valueID === null || valueID === undefined` is
// unnecessary at the IR level since nil represents both; a single `===
// null` check against the shared null literal is what the emitter maps to
// Lua's single `nil`.
func (l *Lowerer) nilCheckExpr(valueID string, loc *ir.Location) string {
	nilLit, err := l.b.Literal(nil, "null", ir.PrimitiveNull, loc)
	if err != nil {
		return ""
	}
	eq, err := l.b.BinaryOp("===", valueID, nilLit, loc)
	if err != nil {
		return ""
	}
	l.linkChildren(eq, []string{valueID, nilLit})
	return eq
}

// lowerNullishCoalesce implements `a ?? b` → `(a === null || a ===
// undefined) ? b : a`; since nil covers both null and undefined at the IR
// level a single nil check suffices, evaluating the left side once via a
// temporary so side effects happen only once.
func (l *Lowerer) lowerNullishCoalesce(n *jsast.Node) string {
	loc := l.astLoc(n)
	leftVal := l.lowerExpr(n.Left)
	tempName := l.b.Temp("_nullish")
	tempID, err := l.b.Identifier(tempName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	decl, err := l.b.VarDecl(ir.VarLet, tempID, leftVal, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(decl, []string{tempID, leftVal})
	l.pending = append(l.pending, decl)

	ref, _ := l.b.Identifier(tempName, loc)
	guard := l.nilCheckExpr(ref, loc)
	right := l.lowerExpr(n.Right)
	elseRef, _ := l.b.Identifier(tempName, loc)
	cond, err := l.b.Conditional(guard, right, elseRef, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(cond, []string{guard, right, elseRef})
	return cond
}

// lowerArrayExpr lowers an array literal. A spread-free literal becomes one
// ArrayLiteral node; a literal containing spreads is lowered into a
// temporary built up with the `__ls.extend` runtime helper, one element or
// spread source at a time, matching the destructuring temporaries'
// prelude-then-reference shape.
func (l *Lowerer) lowerArrayExpr(n *jsast.Node) string {
	loc := l.astLoc(n)
	hasSpread := false
	for _, el := range n.Elements {
		if el != nil && el.Kind == jsast.KindSpreadElement {
			hasSpread = true
		}
	}
	if !hasSpread {
		var elems []string
		for _, el := range n.Elements {
			if el == nil {
				nilLit, err := l.b.Literal(nil, "nil", ir.PrimitiveNull, loc)
				if err != nil {
					continue
				}
				elems = append(elems, nilLit)
				continue
			}
			elems = append(elems, l.lowerExpr(el))
		}
		id, err := l.b.ArrayLiteral(elems, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, elems)
		return id
	}

	tempName := l.b.Temp("_arr")
	tempID, err := l.b.Identifier(tempName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	empty, err := l.b.ArrayLiteral(nil, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	decl, err := l.b.VarDecl(ir.VarLet, tempID, empty, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(decl, []string{tempID, empty})
	l.pending = append(l.pending, decl)

	for _, el := range n.Elements {
		if el == nil {
			continue
		}
		tempRef, _ := l.b.Identifier(tempName, loc)
		var src string
		if el.Kind == jsast.KindSpreadElement {
			src = l.lowerExpr(el.Argument)
		} else {
			single, err := l.b.ArrayLiteral([]string{l.lowerExpr(el)}, loc)
			if err != nil {
				continue
			}
			src = single
		}
		call, err := l.helperCall("extend", []string{tempRef, src}, loc)
		if err != nil {
			continue
		}
		l.linkChildren(call, []string{tempRef, src})
		stmt, err := l.b.ExpressionStmt(call, loc)
		if err != nil {
			continue
		}
		l.linkChildren(stmt, []string{call})
		l.pending = append(l.pending, stmt)
	}
	result, _ := l.b.Identifier(tempName, loc)
	return result
}

// lowerObjectExpr mirrors lowerArrayExpr for object literals: a spread-free
// literal becomes one ObjectLiteral node; spreads route through
// `__ls.assign`. Shorthand methods (an object-literal `m() {}`) lower their
// body like any other function and appear as an ordinary Property.
func (l *Lowerer) lowerObjectExpr(n *jsast.Node) string {
	loc := l.astLoc(n)
	hasSpread := false
	for _, p := range n.Properties {
		if p.Kind == jsast.KindSpreadElement {
			hasSpread = true
		}
	}
	if !hasSpread {
		var props []string
		for _, p := range n.Properties {
			props = append(props, l.lowerObjectProperty(p))
		}
		id, err := l.b.ObjectLiteral(props, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, props)
		return id
	}

	tempName := l.b.Temp("_obj")
	tempID, err := l.b.Identifier(tempName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	empty, err := l.b.ObjectLiteral(nil, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	decl, err := l.b.VarDecl(ir.VarLet, tempID, empty, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(decl, []string{tempID, empty})
	l.pending = append(l.pending, decl)

	for _, p := range n.Properties {
		tempRef, _ := l.b.Identifier(tempName, loc)
		if p.Kind == jsast.KindSpreadElement {
			src := l.lowerExpr(p.Argument)
			call, err := l.helperCall("assign", []string{tempRef, src}, loc)
			if err != nil {
				continue
			}
			l.linkChildren(call, []string{tempRef, src})
			stmt, _ := l.b.ExpressionStmt(call, loc)
			l.linkChildren(stmt, []string{call})
			l.pending = append(l.pending, stmt)
			continue
		}
		propID := l.lowerObjectProperty(p)
		pn, ok := l.b.Unit().Get(propID)
		if !ok {
			continue
		}
		var keyExpr string
		if pn.Computed {
			keyExpr = pn.Key
		} else {
			lit, err := l.b.Literal(pn.Key, `"`+pn.Key+`"`, ir.PrimitiveString, loc)
			if err != nil {
				continue
			}
			keyExpr = lit
		}
		member, err := l.b.Member(tempRef, pn.Key, pn.Computed, loc)
		if err != nil {
			continue
		}
		if pn.Computed {
			member = l.attachComputedIndex(member, keyExpr)
		} else {
			l.linkChildren(member, []string{tempRef})
		}
		assign, err := l.b.Assignment("=", member, pn.PropValue, loc)
		if err != nil {
			continue
		}
		l.linkChildren(assign, []string{member, pn.PropValue})
		stmt, _ := l.b.ExpressionStmt(assign, loc)
		l.linkChildren(stmt, []string{assign})
		l.pending = append(l.pending, stmt)
	}
	result, _ := l.b.Identifier(tempName, loc)
	return result
}

func (l *Lowerer) lowerObjectProperty(p *jsast.Node) string {
	loc := l.astLoc(p)
	if p.Kind == jsast.KindMethodDefinition {
		fn := l.lowerFunctionLike(p.Params, p.Body, p.IsGenerator, p.IsAsync, loc)
		id, err := l.b.Property(p.Name, fn, false, false, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{fn})
		return id
	}
	keyName := identName(p.Key)
	if keyName == "" && p.Key != nil && p.Key.Kind == jsast.KindLiteral {
		if s, ok := p.Key.Value.(string); ok {
			keyName = s
		}
	}
	valueID := l.lowerExpr(p.PropValue)
	id, err := l.b.Property(keyName, valueID, p.Shorthand, p.Computed, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	if p.Computed {
		keyExprID := l.lowerExpr(p.Key)
		n, ok := l.b.Unit().Get(id)
		if ok {
			n.Key = keyExprID
			l.linkChildren(id, []string{keyExprID})
		}
	}
	l.linkChildren(id, []string{valueID})
	return id
}
