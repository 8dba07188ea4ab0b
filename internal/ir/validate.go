package ir

import "fmt"

// Validate walks the whole unit and checks every §3.3 invariant, appending a
// Diagnostic for each violation instead of stopping at the first one so a
// caller in non-strict mode can see everything wrong in a single pass. It
// returns true if no error-severity diagnostic was added.
func Validate(cu *CompilationUnit) bool {
	v := &validator{cu: cu}
	v.checkDangling()
	v.checkPatternPositions()
	v.checkYieldAwaitContext()
	v.checkLoopControlContext()
	v.checkSuperContext()
	v.checkOptionalChainBoundaries()
	v.checkLiteralTypeTags()
	return !v.failed
}

type validator struct {
	cu     *CompilationUnit
	failed bool
}

func (v *validator) fail(code, msg, nodeID string, loc *Location) {
	v.failed = true
	v.cu.AddDiagnostic(Diagnostic{Severity: SeverityError, Code: code, Message: msg, NodeID: nodeID, Loc: loc})
}

// checkDangling walks every string field that is documented to hold a node
// ID and confirms it resolves, per the "no dangling references" invariant.
func (v *validator) checkDangling() {
	for id, n := range v.cu.Nodes {
		for _, ref := range refsOf(n) {
			if ref == "" {
				continue
			}
			if _, ok := v.cu.Get(ref); !ok {
				v.fail(CodeDanglingRef, fmt.Sprintf("node %s references unknown id %s", id, ref), id, n.Loc)
			}
		}
	}
	if v.cu.RootID != "" {
		if _, ok := v.cu.Get(v.cu.RootID); !ok {
			v.fail(CodeDanglingRef, "root id does not resolve", "", nil)
		}
	}
}

// refsOf returns every node-ID-valued field populated on n, kind-independent,
// so checkDangling doesn't need a case per NodeKind.
func refsOf(n *Node) []string {
	var ids []string
	ids = append(ids, n.Body...)
	ids = append(ids, n.Binder, n.Init)
	ids = append(ids, n.Params...)
	ids = append(ids, n.FuncBody)
	ids = append(ids, n.Members...)
	ids = append(ids, n.ParamBinder)
	ids = append(ids, n.Test, n.Consequent, n.Alternate)
	ids = append(ids, n.LoopBody, n.ForInit, n.ForTest, n.ForUpdate, n.ForOfLeft, n.ForOfRight)
	ids = append(ids, n.Argument)
	ids = append(ids, n.TryBlock, n.CatchBody, n.Finally)
	ids = append(ids, n.Discriminant)
	ids = append(ids, n.Cases...)
	ids = append(ids, n.CaseTest)
	ids = append(ids, n.Quasis...)
	ids = append(ids, n.Expressions...)
	ids = append(ids, n.Left, n.Right)
	ids = append(ids, n.Callee)
	ids = append(ids, n.Arguments...)
	ids = append(ids, n.Object)
	if n.Computed && (n.Kind == KindMember || n.Kind == KindOptionalMember) {
		ids = append(ids, n.Property)
	}
	ids = append(ids, n.Elements...)
	ids = append(ids, n.Properties...)
	if n.Computed && n.Kind == KindProperty {
		ids = append(ids, n.Key)
	}
	ids = append(ids, n.PropValue)
	ids = append(ids, n.PatternLeft, n.PatternRight)
	ids = append(ids, n.SeqExpressions...)
	ids = append(ids, n.SuperClass)
	return ids
}

// checkPatternPositions enforces that ArrayPattern/ObjectPattern/
// RestElement/AssignmentPattern nodes appear only in binding positions
// (VarDecl.Binder, ParamDecl.ParamBinder, or nested inside another pattern),
// never as a free-standing expression.
func (v *validator) checkPatternPositions() {
	allowed := make(map[string]bool)
	for _, n := range v.cu.Nodes {
		switch n.Kind {
		case KindVarDecl:
			markPatternTree(v.cu, n.Binder, allowed)
		case KindParamDecl:
			markPatternTree(v.cu, n.ParamBinder, allowed)
		case KindAssignment:
			if n.Operator == "=" {
				markPatternTree(v.cu, n.Left, allowed)
			}
		}
	}
	for id, n := range v.cu.Nodes {
		if isPatternKind(n.Kind) && !allowed[id] {
			v.fail(CodePatternMisplaced, fmt.Sprintf("pattern node %s used outside a binding position", id), id, n.Loc)
		}
	}
}

func markPatternTree(cu *CompilationUnit, id string, allowed map[string]bool) {
	n, ok := cu.Get(id)
	if !ok || allowed[id] {
		return
	}
	allowed[id] = true
	switch n.Kind {
	case KindArrayPattern:
		for _, el := range n.Elements {
			markPatternTree(cu, el, allowed)
		}
	case KindObjectPattern:
		for _, p := range n.Properties {
			markPatternTree(cu, p, allowed)
		}
	case KindProperty:
		if n.IsPattern {
			markPatternTree(cu, n.PropValue, allowed)
		}
	case KindRestElement:
		markPatternTree(cu, n.Argument, allowed)
	case KindAssignmentPattern:
		markPatternTree(cu, n.PatternLeft, allowed)
	}
}

// checkYieldAwaitContext confirms every YieldExpr is reachable only through
// the body of a generator function, and every AwaitExpr only through the
// body of an async function, without crossing into a nested non-generator
// or non-async function.
func (v *validator) checkYieldAwaitContext() {
	for id, n := range v.cu.Nodes {
		switch n.Kind {
		case KindYieldExpr:
			if !v.enclosingFuncSatisfies(id, func(f *Node) bool { return f.IsGenerator }) {
				v.fail(CodeYieldOutsideGen, fmt.Sprintf("yield %s used outside a generator function", id), id, n.Loc)
			}
		case KindAwaitExpr:
			if !v.enclosingFuncSatisfies(id, func(f *Node) bool { return f.IsAsync }) {
				v.fail(CodeAwaitOutsideAsync, fmt.Sprintf("await %s used outside an async function", id), id, n.Loc)
			}
		}
	}
}

// enclosingFuncSatisfies walks ParentID links up from id until it finds the
// nearest function-like node, then tests it with pred. An arrow function
// ends the walk like any other function-like node, for yield as well as for
// await.
func (v *validator) enclosingFuncSatisfies(id string, pred func(*Node) bool) bool {
	cur := id
	seen := map[string]bool{}
	for {
		n, ok := v.cu.Get(cur)
		if !ok || n.ParentID == "" || seen[cur] {
			return false
		}
		seen[cur] = true
		parent, ok := v.cu.Get(n.ParentID)
		if !ok {
			return false
		}
		switch parent.Kind {
		case KindFunctionDecl, KindFunctionExpr, KindMethodDef, KindArrow:
			return pred(parent)
		}
		cur = n.ParentID
	}
}

// checkLoopControlContext confirms every Break/Continue with no label sits
// inside a loop or (Break only) a switch; labeled break/continue are left to
// the lowerer's own label-resolution bookkeeping since labels are a
// surface-only concept not reified as IR nodes.
func (v *validator) checkLoopControlContext() {
	for id, n := range v.cu.Nodes {
		if n.Kind != KindBreak && n.Kind != KindContinue {
			continue
		}
		if n.Label != "" {
			continue
		}
		if !v.enclosingLoopOrSwitch(id, n.Kind == KindBreak) {
			v.fail(CodeLoopControlMisuse, fmt.Sprintf("%s %s used outside a loop", n.Kind, id), id, n.Loc)
		}
	}
}

func (v *validator) enclosingLoopOrSwitch(id string, allowSwitch bool) bool {
	cur := id
	seen := map[string]bool{}
	for {
		n, ok := v.cu.Get(cur)
		if !ok || n.ParentID == "" || seen[cur] {
			return false
		}
		seen[cur] = true
		parent, ok := v.cu.Get(n.ParentID)
		if !ok {
			return false
		}
		switch parent.Kind {
		case KindWhile, KindDoWhile, KindFor, KindForOf:
			return true
		case KindSwitch:
			if allowSwitch {
				return true
			}
		case KindFunctionDecl, KindFunctionExpr, KindMethodDef, KindArrow:
			return false
		}
		cur = n.ParentID
	}
}

// checkSuperContext confirms every Super node sits inside a ClassDecl or
// ClassExpr with a non-empty SuperClass.
func (v *validator) checkSuperContext() {
	for id, n := range v.cu.Nodes {
		if n.Kind != KindSuper {
			continue
		}
		cur := id
		found := false
		seen := map[string]bool{}
		for {
			cn, ok := v.cu.Get(cur)
			if !ok || cn.ParentID == "" || seen[cur] {
				break
			}
			seen[cur] = true
			parent, ok := v.cu.Get(cn.ParentID)
			if !ok {
				break
			}
			if (parent.Kind == KindClassDecl || parent.Kind == KindClassExpr) && parent.SuperClass != "" {
				found = true
				break
			}
			cur = cn.ParentID
		}
		if !found {
			v.fail(CodeSuperMisuse, fmt.Sprintf("super %s used outside a derived class", id), id, n.Loc)
		}
	}
}

// checkOptionalChainBoundaries confirms every OptionalMember/OptionalCall
// that is the outermost link of its chain is tagged Boundary, the marker the
// emitter uses to know where an optional chain closes (§3.3's "closed
// optional-chain boundary").
func (v *validator) checkOptionalChainBoundaries() {
	consumedAsInner := make(map[string]bool)
	for _, n := range v.cu.Nodes {
		switch n.Kind {
		case KindOptionalMember:
			if isChainLink(v.cu, n.Object) {
				consumedAsInner[n.Object] = true
			}
		case KindOptionalCall:
			if isChainLink(v.cu, n.Callee) {
				consumedAsInner[n.Callee] = true
			}
		case KindMember:
			if isChainLink(v.cu, n.Object) {
				consumedAsInner[n.Object] = true
			}
		case KindCall:
			if isChainLink(v.cu, n.Callee) {
				consumedAsInner[n.Callee] = true
			}
		}
	}
	for id, n := range v.cu.Nodes {
		if (n.Kind != KindOptionalMember && n.Kind != KindOptionalCall) || consumedAsInner[id] {
			continue
		}
		if !n.Boundary {
			v.fail(CodeOpenOptionalChain, fmt.Sprintf("optional chain %s is not closed with a boundary marker", id), id, n.Loc)
		}
	}
}

func isChainLink(cu *CompilationUnit, id string) bool {
	n, ok := cu.Get(id)
	return ok && (n.Kind == KindOptionalMember || n.Kind == KindOptionalCall)
}

// checkLiteralTypeTags confirms every Literal carries a primitive Type, the
// "literal type tagging" invariant the emitter depends on to pick the right
// Lua rendering (numeric, string-quoted, true/false, nil).
func (v *validator) checkLiteralTypeTags() {
	for id, n := range v.cu.Nodes {
		if n.Kind != KindLiteral {
			continue
		}
		if n.Type == nil || n.Type.Kind != TypePrimitive {
			v.fail(CodeUntaggedLiteral, fmt.Sprintf("literal %s missing a primitive type tag", id), id, n.Loc)
		}
	}
}
