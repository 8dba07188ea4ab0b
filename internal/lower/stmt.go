package lower

import (
	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/jsast"
)

// lowerStatements lowers a statement list, flattening each statement's
// prelude (temporaries) and own IR id in source order.
func (l *Lowerer) lowerStatements(stmts []*jsast.Node) []string {
	var out []string
	for _, s := range stmts {
		out = append(out, l.lowerStatement(s)...)
	}
	return out
}

// lowerStatement lowers one AST statement into one or more IR statement IDs
// (destructuring and similar rewrites can expand one statement into several
// VarDecls). l.pending accumulates anything that must precede the
// statement's own node; it is reset at entry and drained into the result.
func (l *Lowerer) lowerStatement(n *jsast.Node) []string {
	if n == nil {
		return nil
	}
	if !l.enterRecursion() {
		return nil
	}
	defer l.exitRecursion()

	l.pending = nil
	id := l.lowerStmtInner(n)
	out := append([]string{}, l.pending...)
	if id != "" {
		out = append(out, id)
	}
	l.pending = nil
	return out
}

func (l *Lowerer) lowerStmtInner(n *jsast.Node) string {
	loc := l.astLoc(n)
	switch n.Kind {
	case jsast.KindVariableDeclaration:
		return l.lowerVariableDeclaration(n)
	case jsast.KindFunctionDeclaration:
		return l.lowerFunction(n, false)
	case jsast.KindClassDeclaration:
		return l.lowerClass(n, false)
	case jsast.KindBlockStatement:
		return l.lowerBlock(n)
	case jsast.KindIfStatement:
		return l.lowerIf(n)
	case jsast.KindWhileStatement:
		return l.lowerWhile(n)
	case jsast.KindDoWhileStatement:
		return l.lowerDoWhile(n)
	case jsast.KindForStatement:
		return l.lowerFor(n)
	case jsast.KindForOfStatement:
		return l.lowerForOf(n)
	case jsast.KindReturnStatement:
		arg := ""
		if n.Argument != nil {
			arg = l.lowerExpr(n.Argument)
		}
		id, err := l.b.Return(arg, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{arg})
		return id
	case jsast.KindBreakStatement:
		id, err := l.b.Break(n.Label, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	case jsast.KindContinueStatement:
		id, err := l.b.Continue(n.Label, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		return id
	case jsast.KindThrowStatement:
		arg := l.lowerExpr(n.Argument)
		id, err := l.b.Throw(arg, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{arg})
		return id
	case jsast.KindTryStatement:
		return l.lowerTry(n)
	case jsast.KindSwitchStatement:
		return l.lowerSwitch(n)
	case jsast.KindExpressionStatement:
		arg := l.lowerExpr(n.Argument)
		id, err := l.b.ExpressionStmt(arg, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{arg})
		return id
	case jsast.KindEmptyStatement:
		id, _ := l.b.Empty(loc)
		return id
	default:
		return l.unsupported(n)
	}
}

func (l *Lowerer) lowerVariableDeclaration(n *jsast.Node) string {
	varKind := ir.VarLet
	switch n.VarKind {
	case "const":
		varKind = ir.VarConst
	case "var":
		varKind = ir.VarVar
	}
	for _, decl := range n.Declarations {
		if decl.ID != nil && (decl.ID.Kind == jsast.KindArrayPattern || decl.ID.Kind == jsast.KindObjectPattern) {
			l.lowerPatternDeclaration(decl.ID, decl.Init, varKind)
			continue
		}
		name := luaSafeName(identName(decl.ID))
		init := ""
		if decl.Init != nil {
			init = l.lowerExpr(decl.Init)
		}
		idID, err := l.b.Identifier(name, l.astLoc(decl.ID))
		if err != nil {
			l.addErr(err, l.astLoc(decl), "")
			continue
		}
		if varKind == ir.VarVar {
			l.hoist(name)
		}
		declID, err := l.b.VarDecl(varKind, idID, init, l.astLoc(decl))
		if err != nil {
			l.addErr(err, l.astLoc(decl), "")
			continue
		}
		l.linkChildren(declID, []string{idID, init})
		l.pending = append(l.pending, declID)
	}
	return ""
}

func identName(n *jsast.Node) string {
	if n == nil || n.Kind != jsast.KindIdentifier {
		return ""
	}
	return n.Name
}

func (l *Lowerer) lowerBlock(n *jsast.Node) string {
	body := l.lowerStatements(n.Statements)
	id, err := l.b.Block(body, l.astLoc(n))
	if err != nil {
		l.addErr(err, l.astLoc(n), "")
		return ""
	}
	l.linkChildren(id, body)
	return id
}

func (l *Lowerer) lowerIf(n *jsast.Node) string {
	test := l.lowerExpr(n.Test)
	cons := l.lowerNestedStatement(n.Consequent)
	alt := ""
	if n.Alternate != nil {
		alt = l.lowerNestedStatement(n.Alternate)
	}
	id, err := l.b.If(test, cons, alt, l.astLoc(n))
	if err != nil {
		l.addErr(err, l.astLoc(n), "")
		return ""
	}
	l.linkChildren(id, []string{test, cons, alt})
	return id
}

// lowerNestedStatement lowers a statement that sits in a single-statement
// position (if/while/for body that isn't already a block) into exactly one
// IR id, wrapping any prelude + the statement itself in a Block so multiple
// generated statements still fit the one-id-per-position shape IR control
// constructs expect.
func (l *Lowerer) lowerNestedStatement(n *jsast.Node) string {
	if n.Kind == jsast.KindBlockStatement {
		return l.lowerBlock(n)
	}
	ids := l.lowerStatement(n)
	if len(ids) == 1 {
		return ids[0]
	}
	id, err := l.b.Block(ids, l.astLoc(n))
	if err != nil {
		l.addErr(err, l.astLoc(n), "")
		return ""
	}
	l.linkChildren(id, ids)
	return id
}

func (l *Lowerer) lowerWhile(n *jsast.Node) string {
	test := l.lowerExpr(n.Test)
	l.currentFrame().loopDepth++
	body := l.lowerNestedStatement(n.Body)
	l.currentFrame().loopDepth--
	id, err := l.b.While(test, body, l.astLoc(n))
	if err != nil {
		l.addErr(err, l.astLoc(n), "")
		return ""
	}
	l.linkChildren(id, []string{test, body})
	return id
}

func (l *Lowerer) lowerDoWhile(n *jsast.Node) string {
	l.currentFrame().loopDepth++
	body := l.lowerNestedStatement(n.Body)
	l.currentFrame().loopDepth--
	test := l.lowerExpr(n.Test)
	id, err := l.b.DoWhile(test, body, l.astLoc(n))
	if err != nil {
		l.addErr(err, l.astLoc(n), "")
		return ""
	}
	l.linkChildren(id, []string{test, body})
	return id
}

func (l *Lowerer) lowerFor(n *jsast.Node) string {
	init := ""
	if n.Left != nil {
		ids := l.lowerStatement(n.Left)
		if len(ids) > 0 {
			init = ids[len(ids)-1]
		}
	}
	test := ""
	if n.Test != nil {
		test = l.lowerExpr(n.Test)
	}
	update := ""
	if n.Update != nil {
		update = l.lowerExpr(n.Update)
	}
	l.currentFrame().loopDepth++
	body := l.lowerNestedStatement(n.Body)
	l.currentFrame().loopDepth--
	id, err := l.b.For(init, test, update, body, l.astLoc(n))
	if err != nil {
		l.addErr(err, l.astLoc(n), "")
		return ""
	}
	l.linkChildren(id, []string{init, test, update, body})
	return id
}

// lowerForOf implements §4.4's iterator-protocol rewrite:
//
//	for (const x of expr) BODY
//
// becomes (conceptually)
//
//	do
//	  local _iter = __ls.iter(expr)
//	  while true do
//	    local x = _iter()
//	    if x == nil then break end
//	    BODY
//	  end
//	end
func (l *Lowerer) lowerForOf(n *jsast.Node) string {
	loc := l.astLoc(n)
	right := l.lowerExpr(n.Right)
	iterCall, err := l.helperCall("iter", []string{right}, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	iterName := l.b.Temp("_iter")
	iterID, err := l.b.Identifier(iterName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	iterDecl, err := l.b.VarDecl(ir.VarLet, iterID, iterCall, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(iterDecl, []string{iterID, iterCall})

	iterRefForCall, _ := l.b.Identifier(iterName, loc)
	callIter, err := l.b.Call(iterRefForCall, nil, false, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(callIter, []string{iterRefForCall})

	bindName := luaSafeName(identName(n.Left))
	bindID, err := l.b.Identifier(bindName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	bindDecl, err := l.b.VarDecl(ir.VarLet, bindID, callIter, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(bindDecl, []string{bindID, callIter})

	bindRef, _ := l.b.Identifier(bindName, loc)
	nilLit, err := l.b.Literal(nil, "nil", ir.PrimitiveNull, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	eqNil, err := l.b.BinaryOp("===", bindRef, nilLit, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(eqNil, []string{bindRef, nilLit})
	brk, err := l.b.Break("", loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	guard, err := l.b.If(eqNil, brk, "", loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(guard, []string{eqNil, brk})

	l.currentFrame().loopDepth++
	bodyID := l.lowerNestedStatement(n.Body)
	l.currentFrame().loopDepth--

	trueLit, err := l.b.Literal(true, "true", ir.PrimitiveBoolean, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	loopBlock, err := l.b.Block([]string{bindDecl, guard, bodyID}, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(loopBlock, []string{bindDecl, guard, bodyID})

	whileID, err := l.b.While(trueLit, loopBlock, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(whileID, []string{trueLit, loopBlock})

	outer, err := l.b.Block([]string{iterDecl, whileID}, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(outer, []string{iterDecl, whileID})
	return outer
}

func (l *Lowerer) lowerTry(n *jsast.Node) string {
	loc := l.astLoc(n)
	blockID := l.lowerBlock(n.Block)
	catchParam, catchBody := "", ""
	if n.Handler != nil {
		if n.Handler.Param != nil {
			catchParam = luaSafeName(identName(n.Handler.Param))
		}
		catchBody = l.lowerBlock(n.Handler.Body)
	}
	finallyID := ""
	if n.Finalizer != nil {
		finallyID = l.lowerBlock(n.Finalizer)
	}
	id, err := l.b.Try(blockID, catchParam, catchBody, finallyID, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, []string{blockID, catchBody, finallyID})
	return id
}

func (l *Lowerer) lowerSwitch(n *jsast.Node) string {
	loc := l.astLoc(n)
	disc := l.lowerExpr(n.Discriminant)
	l.currentFrame().switchDepth++
	var cases []string
	for _, c := range n.Cases {
		test := ""
		isDefault := c.Test == nil
		if c.Test != nil {
			test = l.lowerExpr(c.Test)
		}
		body := l.lowerStatements(c.Statements)
		caseID, err := l.b.SwitchCase(test, isDefault, body, l.astLoc(c))
		if err != nil {
			l.addErr(err, l.astLoc(c), "")
			continue
		}
		l.linkChildren(caseID, append([]string{test}, body...))
		cases = append(cases, caseID)
	}
	l.currentFrame().switchDepth--
	id, err := l.b.Switch(disc, cases, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, append([]string{disc}, cases...))
	return id
}
