package lower

import (
	"fmt"

	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/jsast"
)

// lowerPatternDeclaration implements §4.4's destructuring rewrite for a
// VarDecl binder: bind the initializer to one fresh temporary, then walk
// the pattern producing a plain VarDecl per leaf binding. Nested patterns
// reuse fresh "_nested_<n>" temporaries at each level, matching the spec's
// own worked example.
func (l *Lowerer) lowerPatternDeclaration(pattern *jsast.Node, initAST *jsast.Node, kind ir.VarKind) {
	loc := l.astLoc(pattern)
	initID := ""
	if initAST != nil {
		initID = l.lowerExpr(initAST)
	}
	tempName := l.b.Temp("_destructure")
	tempID, err := l.b.Identifier(tempName, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return
	}
	decl, err := l.b.VarDecl(kind, tempID, initID, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return
	}
	l.linkChildren(decl, []string{tempID, initID})
	l.pending = append(l.pending, decl)

	l.decomposePattern(pattern, tempName, kind, func(name, valueID string) {
		nameID, err := l.b.Identifier(name, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		d, err := l.b.VarDecl(kind, nameID, valueID, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		l.linkChildren(d, []string{nameID, valueID})
		l.pending = append(l.pending, d)
	})
}

// decomposePattern recursively walks pattern, treating sourceName as the
// Lua-local name currently holding the value to destructure, and calls bind
// once per leaf identifier with the expression ID that computes its value.
func (l *Lowerer) decomposePattern(pattern *jsast.Node, sourceName string, kind ir.VarKind, bind func(name, valueID string)) {
	loc := l.astLoc(pattern)
	switch pattern.Kind {
	case jsast.KindIdentifier:
		ref, err := l.b.Identifier(sourceName, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		bind(luaSafeName(pattern.Name), ref)

	case jsast.KindAssignmentPattern:
		ref, err := l.b.Identifier(sourceName, loc)
		if err != nil {
			l.addErr(err, loc, "")
			return
		}
		defaulted := l.withDefault(ref, pattern.Init, loc)
		if isNestedPattern(pattern.ID) {
			nestedName := l.bindNestedTemp(defaulted, kind, loc)
			l.decomposePattern(pattern.ID, nestedName, kind, bind)
		} else {
			l.decomposeLeaf(pattern.ID, defaulted, bind)
		}

	case jsast.KindArrayPattern:
		for i, el := range pattern.Elements {
			if el == nil {
				continue
			}
			if el.Kind == jsast.KindRestElement {
				fromIdx, err := l.b.Literal(float64(i+1), itoaFloat(i+1), ir.PrimitiveNumber, loc)
				if err != nil {
					l.addErr(err, loc, "")
					continue
				}
				srcRef, err := l.b.Identifier(sourceName, loc)
				if err != nil {
					l.addErr(err, loc, "")
					continue
				}
				restCall, err := l.helperCall("rest_array", []string{srcRef, fromIdx}, loc)
				if err != nil {
					l.addErr(err, loc, "")
					continue
				}
				l.linkChildren(restCall, []string{srcRef, fromIdx})
				target := el.Argument
				if isNestedPattern(target) {
					nestedName := l.bindNestedTemp(restCall, kind, loc)
					l.decomposePattern(target, nestedName, kind, bind)
				} else {
					l.decomposeLeaf(target, restCall, bind)
				}
				continue
			}
			srcRef, err := l.b.Identifier(sourceName, loc)
			if err != nil {
				l.addErr(err, loc, "")
				continue
			}
			idxLit, err := l.b.Literal(float64(i+1), itoaFloat(i+1), ir.PrimitiveNumber, loc)
			if err != nil {
				l.addErr(err, loc, "")
				continue
			}
			access, err := l.b.Member(srcRef, "", true, loc)
			if err != nil {
				l.addErr(err, loc, "")
				continue
			}
			access2 := l.attachComputedIndex(access, idxLit)
			if isNestedPattern(el) || el.Kind == jsast.KindAssignmentPattern {
				nestedName := l.bindNestedTemp(access2, kind, loc)
				l.decomposePattern(el, nestedName, kind, bind)
			} else {
				l.decomposeLeaf(el, access2, bind)
			}
		}

	case jsast.KindObjectPattern:
		var seenKeys []string
		for _, p := range pattern.Properties {
			if p.Kind == jsast.KindRestElement {
				excluded, err := l.stringArrayLiteral(seenKeys, loc)
				if err != nil {
					l.addErr(err, loc, "")
					continue
				}
				srcRef, err := l.b.Identifier(sourceName, loc)
				if err != nil {
					l.addErr(err, loc, "")
					continue
				}
				restCall, err := l.helperCall("rest_object", []string{srcRef, excluded}, loc)
				if err != nil {
					l.addErr(err, loc, "")
					continue
				}
				l.linkChildren(restCall, []string{srcRef, excluded})
				target := p.Argument
				if isNestedPattern(target) {
					nestedName := l.bindNestedTemp(restCall, kind, loc)
					l.decomposePattern(target, nestedName, kind, bind)
				} else {
					l.decomposeLeaf(target, restCall, bind)
				}
				continue
			}
			keyName := identName(p.Key)
			seenKeys = append(seenKeys, keyName)
			srcRef, err := l.b.Identifier(sourceName, loc)
			if err != nil {
				l.addErr(err, loc, "")
				continue
			}
			access, err := l.b.Member(srcRef, keyName, p.Computed, loc)
			if err != nil {
				l.addErr(err, loc, "")
				continue
			}
			l.linkChildren(access, []string{srcRef})
			target := p.PropValue
			if isNestedPattern(target) || target.Kind == jsast.KindAssignmentPattern {
				nestedName := l.bindNestedTemp(access, kind, loc)
				l.decomposePattern(target, nestedName, kind, bind)
			} else {
				l.decomposeLeaf(target, access, bind)
			}
		}

	default:
		l.unsupported(pattern)
	}
}

// decomposeLeaf handles a pattern element that is either a plain identifier
// or an identifier with a default value, binding it directly to valueID
// without an intervening temporary (matching the spec's worked example,
// which emits `let a = _d[1]` directly rather than routing through another
// temp for simple leaves).
func (l *Lowerer) decomposeLeaf(target *jsast.Node, valueID string, bind func(name, valueID string)) {
	loc := l.astLoc(target)
	if target.Kind == jsast.KindAssignmentPattern {
		defaulted := l.withDefault(valueID, target.Init, loc)
		l.decomposeLeaf(target.ID, defaulted, bind)
		return
	}
	bind(luaSafeName(identName(target)), valueID)
}

// withDefault builds the Conditional `(valueID === undefined) ? default : valueID`
// the spec's default-value rewrite calls for. Since nil represents both null
// and undefined at the IR/runtime level, a single nil check covers both.
func (l *Lowerer) withDefault(valueID string, defaultAST *jsast.Node, loc *ir.Location) string {
	nilLit, err := l.b.Literal(nil, "nil", ir.PrimitiveNull, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return valueID
	}
	eqNil, err := l.b.BinaryOp("===", valueID, nilLit, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return valueID
	}
	l.linkChildren(eqNil, []string{valueID, nilLit})
	defaultID := l.lowerExpr(defaultAST)
	cond, err := l.b.Conditional(eqNil, defaultID, valueID, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return valueID
	}
	l.linkChildren(cond, []string{eqNil, defaultID, valueID})
	return cond
}

// bindNestedTemp binds valueID to a fresh "_nested_<n>" temporary so a
// nested pattern can be decomposed against a stable name instead of
// recomputing valueID's expression at every leaf.
func (l *Lowerer) bindNestedTemp(valueID string, kind ir.VarKind, loc *ir.Location) string {
	name := l.b.Temp("_nested")
	nameID, err := l.b.Identifier(name, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return name
	}
	decl, err := l.b.VarDecl(kind, nameID, valueID, loc)
	if err != nil {
		l.addErr(err, loc, "")
		return name
	}
	l.linkChildren(decl, []string{nameID, valueID})
	l.pending = append(l.pending, decl)
	return name
}

func isNestedPattern(n *jsast.Node) bool {
	return n != nil && (n.Kind == jsast.KindArrayPattern || n.Kind == jsast.KindObjectPattern)
}

// attachComputedIndex is a small helper working around the Builder's
// Member constructor taking its Property as a plain identifier name
// string: array-index accesses need the property to be an IR expression
// (a Literal), so this rewires the node after construction.
func (l *Lowerer) attachComputedIndex(memberID string, idxLitID string) string {
	n, ok := l.b.Unit().Get(memberID)
	if !ok {
		return memberID
	}
	n.Property = idxLitID
	l.linkChildren(memberID, []string{idxLitID})
	return memberID
}

func (l *Lowerer) stringArrayLiteral(keys []string, loc *ir.Location) (string, error) {
	var elems []string
	for _, k := range keys {
		lit, err := l.b.Literal(k, `"`+k+`"`, ir.PrimitiveString, loc)
		if err != nil {
			return "", err
		}
		elems = append(elems, lit)
	}
	id, err := l.b.ArrayLiteral(elems, loc)
	if err != nil {
		return "", err
	}
	l.linkChildren(id, elems)
	return id, nil
}

func itoaFloat(i int) string {
	return fmt.Sprintf("%d", i)
}
