package lower

import (
	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/jsast"
)

// lowerFunctionBody pushes a fresh frame, lowers params and body, and
// returns the finished Block id together with the ParamDecl ids, so
// FunctionDeclaration/FunctionExpression/Arrow/MethodDef share one path for
// destructured-parameter preludes and `var` hoisting.
func (l *Lowerer) lowerFunctionBody(kind frameKind, params []*jsast.Node, body *jsast.Node, exprBody bool) ([]string, string) {
	l.pushFrame(kind)
	savedPending := l.pending
	l.pending = nil

	paramIDs := l.lowerParams(params)
	prelude := l.pending
	l.pending = nil

	var bodyStmts []string
	if exprBody {
		loc := l.astLoc(body)
		retArg := l.lowerExpr(body)
		retID, err := l.b.Return(retArg, loc)
		if err != nil {
			l.addErr(err, loc, "")
		} else {
			l.linkChildren(retID, []string{retArg})
			bodyStmts = append(bodyStmts, retID)
		}
	} else {
		bodyStmts = l.lowerStatements(body.Statements)
	}

	full := append(append([]string{}, prelude...), bodyStmts...)
	full = l.withHoists(full)
	blockLoc := l.astLoc(body)
	blockID, err := l.b.Block(full, blockLoc)
	if err != nil {
		l.addErr(err, blockLoc, "")
	}
	l.linkChildren(blockID, full)

	l.popFrame()
	l.pending = savedPending
	return paramIDs, blockID
}

func frameKindFor(isGen, isAsync bool) frameKind {
	switch {
	case isGen:
		return frameGenerator
	case isAsync:
		return frameAsync
	default:
		return frameNormal
	}
}

// lowerParams lowers a parameter list into ParamDecl ids, in order.
// Destructured/defaulted parameters additionally append their decomposition
// prelude to l.pending (drained by the caller into the function's body
// block), exactly like lowerPatternDeclaration does for `let`/`const`.
func (l *Lowerer) lowerParams(params []*jsast.Node) []string {
	var ids []string
	for _, p := range params {
		ids = append(ids, l.lowerParam(p))
	}
	return ids
}

func (l *Lowerer) lowerParam(p *jsast.Node) string {
	loc := l.astLoc(p)
	switch p.Kind {
	case jsast.KindIdentifier:
		nameID, err := l.b.Identifier(luaSafeName(p.Name), loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		id, err := l.b.ParamDecl(nameID, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{nameID})
		return id

	case jsast.KindRestElement:
		argID, err := l.b.Identifier(luaSafeName(identName(p.Argument)), loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		restID, err := l.b.RestElement(argID, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(restID, []string{argID})
		id, err := l.b.ParamDecl(restID, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return ""
		}
		l.linkChildren(id, []string{restID})
		return id

	case jsast.KindAssignmentPattern, jsast.KindArrayPattern, jsast.KindObjectPattern:
		return l.bindDestructuredParam(p, loc)

	default:
		return l.unsupported(p)
	}
}

// bindDestructuredParam binds a defaulted or pattern parameter to a fresh
// "_param_<n>" temporary ParamDecl, then decomposes it into plain VarDecls
// the same way lowerPatternDeclaration does for a `let`/`const` binder —
// reusing decomposePattern/decomposeLeaf/withDefault/bindNestedTemp so
// parameter and statement-position destructuring share one rewrite.
func (l *Lowerer) bindDestructuredParam(p *jsast.Node, loc *ir.Location) string {
	tempName := l.b.Temp("_param")
	tempID, err := l.b.Identifier(tempName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	paramID, err := l.b.ParamDecl(tempID, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(paramID, []string{tempID})

	bind := func(name, valueID string) {
		nameID, err := l.b.Identifier(name, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		d, err := l.b.VarDecl(ir.VarLet, nameID, valueID, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		l.linkChildren(d, []string{nameID, valueID})
		l.pending = append(l.pending, d)
	}

	if p.Kind == jsast.KindAssignmentPattern {
		ref, err := l.b.Identifier(tempName, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return paramID
		}
		defaulted := l.withDefault(ref, p.Init, loc)
		if isNestedPattern(p.ID) {
			nestedName := l.bindNestedTemp(defaulted, ir.VarLet, loc)
			l.decomposePattern(p.ID, nestedName, ir.VarLet, bind)
		} else {
			l.decomposeLeaf(p.ID, defaulted, bind)
		}
		return paramID
	}

	l.decomposePattern(p, tempName, ir.VarLet, bind)
	return paramID
}

// lowerFunction handles FunctionDeclaration and FunctionExpression.
func (l *Lowerer) lowerFunction(n *jsast.Node, isExpr bool) string {
	loc := l.astLoc(n)
	paramIDs, bodyID := l.lowerFunctionBody(frameKindFor(n.IsGenerator, n.IsAsync), n.Params, n.Body, false)
	name := luaSafeName(n.Name)
	var id string
	var err error
	if isExpr {
		id, err = l.b.FunctionExpr(name, paramIDs, bodyID, n.IsGenerator, n.IsAsync, loc)
	} else {
		id, err = l.b.FunctionDecl(name, paramIDs, bodyID, n.IsGenerator, n.IsAsync, loc)
	}
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, append(append([]string{}, paramIDs...), bodyID))
	return id
}

// lowerFunctionLike lowers a bare params/body pair into an anonymous
// FunctionExpr, the shape an object literal's shorthand method takes.
func (l *Lowerer) lowerFunctionLike(params []*jsast.Node, body *jsast.Node, isGen, isAsync bool, loc *ir.Location) string {
	paramIDs, bodyID := l.lowerFunctionBody(frameKindFor(isGen, isAsync), params, body, false)
	id, err := l.b.FunctionExpr("", paramIDs, bodyID, isGen, isAsync, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, append(append([]string{}, paramIDs...), bodyID))
	return id
}

// lowerArrow handles ArrowFunctionExpression, including the bare-expression
// body form (`x => x + 1`), which is wrapped in a synthetic Return inside
// the function's Block.
func (l *Lowerer) lowerArrow(n *jsast.Node) string {
	loc := l.astLoc(n)
	paramIDs, bodyID := l.lowerFunctionBody(frameKindFor(false, n.IsAsync), n.Params, n.Body, n.ExprBody)
	id, err := l.b.Arrow(paramIDs, bodyID, n.ExprBody, n.IsAsync, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, append(append([]string{}, paramIDs...), bodyID))
	return id
}

// lowerClass handles ClassDeclaration and ClassExpression: each method
// member lowers through the same lowerFunctionBody path as a standalone
// function, and each field member becomes a plain VarDecl (per node.go's
// "Members holds MethodDef ids plus field VarDecls" contract). Translating
// the result into a Lua table/metatable/constructor is the emitter's job;
// here the IR only records the class's structural shape.
func (l *Lowerer) lowerClass(n *jsast.Node, isExpr bool) string {
	loc := l.astLoc(n)
	superID := ""
	if n.SuperClass != nil {
		superID = l.lowerExpr(n.SuperClass)
	}

	var members []string
	for _, m := range n.Members {
		switch m.Kind {
		case jsast.KindMethodDefinition:
			mLoc := l.astLoc(m)
			paramIDs, bodyID := l.lowerFunctionBody(frameKindFor(m.IsGenerator, m.IsAsync), m.Params, m.Body, false)
			id, err := l.b.MethodDef(m.Name, m.MethodKind, m.IsStatic, paramIDs, bodyID, m.IsGenerator, m.IsAsync, mLoc)
			if err != nil {
				l.addErr(err, mLoc, "")
				continue
			}
			l.linkChildren(id, append(append([]string{}, paramIDs...), bodyID))
			members = append(members, id)

		case jsast.KindPropertyDefinition:
			mLoc := l.astLoc(m)
			nameID, err := l.b.Identifier(luaSafeName(m.Name), mLoc)
			if err != nil {
				l.addErr(err, mLoc, "")
				continue
			}
			init := ""
			if m.Init != nil {
				init = l.lowerExpr(m.Init)
			}
			id, err := l.b.VarDecl(ir.VarLet, nameID, init, mLoc)
			if err != nil {
				l.addErr(err, mLoc, "")
				continue
			}
			if fieldNode, ok := l.b.Unit().Get(id); ok {
				fieldNode.IsStatic = m.IsStatic
			}
			l.linkChildren(id, []string{nameID, init})
			members = append(members, id)

		default:
			members = append(members, l.unsupported(m))
		}
	}

	name := luaSafeName(n.Name)
	var id string
	var err error
	if isExpr {
		id, err = l.b.ClassExpr(name, superID, members, loc)
	} else {
		id, err = l.b.ClassDecl(name, superID, members, loc)
	}
	if err != nil {
		l.addErr(err, loc, "")
		return ""
	}
	l.linkChildren(id, append(append([]string{}, members...), superID))
	return id
}
