package lower

import (
	"github.com/oxhq/luascript/internal/jsast"
)

// buildChainNode lowers a MemberExpression/CallExpression that may be part
// of an optional chain (`a?.b.c()`), mirroring the AST's Member/Call
// structure into Member/Call (or, once any link is optional,
// OptionalMember/OptionalCall) IR nodes. Per real optional-chaining
// semantics, once one link in a chain is optional every link above it
// short-circuits too, even when that particular link has no `?.` of its
// own, so optionality propagates outward from lowerChainLink's recursion.
// The outermost such link is tagged Boundary, the single point the
// validator's checkOptionalChainBoundaries invariant expects closed and the
// emitter binds to one fresh temporary (§3.3, §4.4).
func (l *Lowerer) buildChainNode(n *jsast.Node) string {
	id, optional := l.lowerChainLink(n)
	if optional && id != "" {
		if node, ok := l.b.Unit().Get(id); ok {
			node.Boundary = true
		}
	}
	return id
}

// lowerChainLink lowers one Member/Call link and reports whether it, or any
// link nested inside its operand, is optional.
func (l *Lowerer) lowerChainLink(n *jsast.Node) (string, bool) {
	loc := l.astLoc(n)
	switch n.Kind {
	case jsast.KindMemberExpression:
		objID, objOptional := l.chainOperand(n.Object)
		optional := n.Optional || objOptional
		propName := identName(n.Property)
		var id string
		var err error
		if optional {
			id, err = l.b.OptionalMember(objID, propName, n.Computed, false, loc)
		} else {
			id, err = l.b.Member(objID, propName, n.Computed, loc)
		}
		if err != nil {
			l.addErr(err, loc, "")
			return "", optional
		}
		if n.Computed {
			idxID := l.lowerExpr(n.Property)
			id = l.attachComputedIndex(id, idxID)
			l.linkChildren(id, []string{objID})
		} else {
			l.linkChildren(id, []string{objID})
		}
		return id, optional

	case jsast.KindCallExpression:
		calleeID, calleeOptional := l.chainOperand(n.Callee)
		optional := n.Optional || calleeOptional
		args, hasSpread := l.lowerArguments(n.Arguments)
		var id string
		var err error
		if optional {
			id, err = l.b.OptionalCall(calleeID, args, false, loc)
		} else {
			id, err = l.b.Call(calleeID, args, hasSpread, loc)
		}
		if err != nil {
			l.addErr(err, loc, "")
			return "", optional
		}
		l.setHasSpread(id, hasSpread)
		l.linkChildren(id, append([]string{calleeID}, args...))
		return id, optional

	default:
		return l.lowerExpr(n), false
	}
}

// chainOperand lowers a chain's Object/Callee operand, recursing when the
// operand is itself a further Member/Call link so optionality propagates
// through the whole chain, and falling back to lowerExpr otherwise.
func (l *Lowerer) chainOperand(n *jsast.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case jsast.KindMemberExpression, jsast.KindCallExpression:
		return l.lowerChainLink(n)
	default:
		return l.lowerExpr(n), false
	}
}
