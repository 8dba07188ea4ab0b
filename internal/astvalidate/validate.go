// Package astvalidate runs the pre-lowering sanity pass over a jsast.Node
// tree (§4.3): structural checks that would otherwise make lowering
// ambiguous or crash outright. It never touches the IR; its diagnostics are
// semantic-level, distinct from the post-lowering internal/ir invariants.
package astvalidate

import (
	"fmt"

	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/jsast"
)

// Validate walks root and returns every diagnostic found. strict controls
// nothing here directly — the caller (the pipeline façade) decides whether
// an error-severity diagnostic aborts the run; this pass always reports
// every violation it finds so non-strict callers still see them all.
func Validate(root *jsast.Node) []ir.Diagnostic {
	v := &validator{}
	v.walk(root, ctx{})
	return v.diags
}

// ctx carries the structural state needed to judge yield/await placement:
// whether the nearest enclosing function is a generator/async, and whether
// we've crossed into a nested function that resets that context.
type ctx struct {
	inGenerator bool
	inAsync     bool
}

type validator struct {
	diags []ir.Diagnostic
}

func (v *validator) report(sev ir.Severity, code, msg string, loc *jsast.Loc) {
	d := ir.Diagnostic{Severity: sev, Code: code, Message: msg}
	if loc != nil {
		d.Loc = &ir.Location{Line: loc.Line, Column: loc.Column}
	}
	v.diags = append(v.diags, d)
}

func (v *validator) walk(n *jsast.Node, c ctx) {
	if n == nil {
		return
	}
	switch n.Kind {
	case jsast.KindFunctionDeclaration, jsast.KindFunctionExpression, jsast.KindMethodDefinition:
		v.checkFunctionShape(n)
		inner := ctx{inGenerator: n.IsGenerator, inAsync: n.IsAsync}
		for _, p := range n.Params {
			v.walk(p, c)
		}
		v.walk(n.Body, inner)
		return
	case jsast.KindArrowFunctionExpr:
		v.checkArrowShape(n)
		inner := ctx{inGenerator: false, inAsync: n.IsAsync}
		for _, p := range n.Params {
			v.walk(p, c)
		}
		v.walk(n.Body, inner)
		return
	case jsast.KindYieldExpression:
		if !c.inGenerator {
			v.report(ir.SeverityError, ir.CodeAstValidation, "yield used outside a generator function", n.Loc)
		}
	case jsast.KindAwaitExpression:
		if !c.inAsync {
			v.report(ir.SeverityError, ir.CodeAstValidation, "await used outside an async function", n.Loc)
		}
	case jsast.KindUnknown:
		v.report(ir.SeverityWarning, ir.CodeUnsupportedConstruct, fmt.Sprintf("unsupported construct: %s", n.OriginalType), n.Loc)
	}

	for _, child := range childrenOf(n) {
		v.walk(child, c)
	}
}

// checkFunctionShape enforces "has a body and a (possibly empty) parameter
// list" for FunctionDeclaration/FunctionExpression/MethodDefinition.
func (v *validator) checkFunctionShape(n *jsast.Node) {
	if n.Body == nil {
		v.report(ir.SeverityError, ir.CodeAstValidation, fmt.Sprintf("function %q has no body", n.Name), n.Loc)
	}
	if n.Params == nil && n.Body != nil {
		// nil params means zero params; that is legal, nothing to report.
		return
	}
	for _, p := range n.Params {
		if p != nil && p.Kind == jsast.KindUnknown {
			v.report(ir.SeverityError, ir.CodeAstValidation, "malformed parameter", p.Loc)
		}
	}
}

// checkArrowShape enforces "either an expression body or a block body; no
// other shapes."
func (v *validator) checkArrowShape(n *jsast.Node) {
	if n.Body == nil {
		v.report(ir.SeverityError, ir.CodeAstValidation, "arrow function has no body", n.Loc)
		return
	}
	if n.ExprBody && n.Body.Kind == jsast.KindBlockStatement {
		v.report(ir.SeverityError, ir.CodeAstValidation, "arrow function body inconsistent with ExprBody flag", n.Loc)
	}
}

// childrenOf returns every direct child reachable from n, kind-independent,
// mirroring internal/ir/validate.go's refsOf helper for the AST's own shape.
func childrenOf(n *jsast.Node) []*jsast.Node {
	var out []*jsast.Node
	out = append(out, n.Declarations...)
	out = append(out, n.ID, n.Init)
	out = append(out, n.SuperClass)
	out = append(out, n.Members...)
	out = append(out, n.Statements...)
	out = append(out, n.Test, n.Consequent, n.Alternate)
	out = append(out, n.Left, n.Right, n.Update)
	out = append(out, n.Argument)
	out = append(out, n.Block, n.Handler, n.Finalizer, n.Param)
	out = append(out, n.Discriminant)
	out = append(out, n.Cases...)
	out = append(out, n.Quasis...)
	out = append(out, n.TemplateExprs...)
	out = append(out, n.Callee, n.Object, n.Property)
	out = append(out, n.Arguments...)
	out = append(out, n.Elements...)
	out = append(out, n.Properties...)
	out = append(out, n.Key, n.PropValue)
	out = append(out, n.Expressions...)
	return out
}
