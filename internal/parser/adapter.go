// Package parser adapts github.com/smacker/go-tree-sitter's JavaScript
// grammar into the flat ESTree-shaped jsast.Node tree the rest of the
// pipeline consumes, following the same "wrap an external parser, reduce its
// CST into our own shape" pattern the teacher's language providers use for
// tree-sitter queries (internal/lang/javascript/provider.go), generalized
// from "extract one field per query" to "reduce the whole subtree."
package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	javascript "github.com/smacker/go-tree-sitter/javascript"

	"github.com/oxhq/luascript/internal/jsast"
)

// Dialect selects the parse entry point. The grammar itself does not
// distinguish script/module; the flag is carried through for diagnostics and
// reserved for a future import/export restriction.
type Dialect string

const (
	DialectScript Dialect = "script"
	DialectModule Dialect = "module"
)

// Parse parses source and returns the root jsast.Node (always KindProgram).
// It tolerates isolated syntax errors: tree-sitter's own error recovery
// produces ERROR/MISSING nodes in place of the broken region, and this
// adapter converts those into Unknown jsast nodes plus a ParseError
// diagnostic-shaped error collected by the caller, rather than failing the
// whole parse (§4.2).
func Parse(source []byte, dialect Dialect) (*jsast.Node, []error) {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, []error{Wrap("failed to parse source", err)}
	}

	w := &walker{src: source}
	root := w.toProgram(tree.RootNode())
	if len(w.errs) == 0 && tree.RootNode().HasError() {
		w.errorf(tree.RootNode(), "syntax error")
	}
	return root, w.errs
}

type walker struct {
	src  []byte
	errs []error
}

func (w *walker) loc(n *sitter.Node) *jsast.Loc {
	if n == nil {
		return nil
	}
	p := n.StartPoint()
	return &jsast.Loc{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) errorf(n *sitter.Node, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	loc := w.loc(n)
	line, col := 0, 0
	if loc != nil {
		line, col = loc.Line, loc.Column
	}
	w.errs = append(w.errs, Wrap(fmt.Sprintf("%s (line %d, col %d)", msg, line, col), nil))
}

func (w *walker) unknown(n *sitter.Node) *jsast.Node {
	w.errorf(n, "unsupported syntax: %s", n.Type())
	return &jsast.Node{Kind: jsast.KindUnknown, Loc: w.loc(n), OriginalType: n.Type()}
}

func (w *walker) toProgram(n *sitter.Node) *jsast.Node {
	body := w.statementList(n)
	return &jsast.Node{Kind: jsast.KindProgram, Loc: w.loc(n), Statements: body}
}

func (w *walker) statementList(n *sitter.Node) []*jsast.Node {
	var out []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" || child.Type() == "hash_bang_line" {
			continue
		}
		out = append(out, w.statement(child))
	}
	return out
}

// statement dispatches a single statement-position CST node. Unhandled
// shapes degrade to Unknown rather than panicking, matching §4.2's tolerant
// parsing requirement.
func (w *walker) statement(n *sitter.Node) *jsast.Node {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		return w.variableDeclaration(n)
	case "function_declaration", "generator_function_declaration":
		return w.functionDeclaration(n, false)
	case "class_declaration":
		return w.classDeclaration(n)
	case "statement_block":
		return w.block(n)
	case "if_statement":
		return w.ifStatement(n)
	case "while_statement":
		return w.whileStatement(n)
	case "do_statement":
		return w.doWhileStatement(n)
	case "for_statement":
		return w.forStatement(n)
	case "for_in_statement":
		return w.forOfOrInStatement(n)
	case "return_statement":
		return &jsast.Node{Kind: jsast.KindReturnStatement, Loc: w.loc(n), Argument: w.maybeExprChild(n)}
	case "break_statement":
		return &jsast.Node{Kind: jsast.KindBreakStatement, Loc: w.loc(n), Label: w.optionalLabel(n)}
	case "continue_statement":
		return &jsast.Node{Kind: jsast.KindContinueStatement, Loc: w.loc(n), Label: w.optionalLabel(n)}
	case "throw_statement":
		return &jsast.Node{Kind: jsast.KindThrowStatement, Loc: w.loc(n), Argument: w.maybeExprChild(n)}
	case "try_statement":
		return w.tryStatement(n)
	case "switch_statement":
		return w.switchStatement(n)
	case "expression_statement":
		return &jsast.Node{Kind: jsast.KindExpressionStatement, Loc: w.loc(n), Argument: w.expression(n.NamedChild(0))}
	case "empty_statement", ";":
		return &jsast.Node{Kind: jsast.KindEmptyStatement, Loc: w.loc(n)}
	default:
		return w.unknown(n)
	}
}

func (w *walker) optionalLabel(n *sitter.Node) string {
	id := n.ChildByFieldName("label")
	if id == nil {
		return ""
	}
	return w.text(id)
}

func (w *walker) maybeExprChild(n *sitter.Node) *jsast.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	last := n.NamedChild(int(n.NamedChildCount()) - 1)
	return w.expression(last)
}

func (w *walker) block(n *sitter.Node) *jsast.Node {
	return &jsast.Node{Kind: jsast.KindBlockStatement, Loc: w.loc(n), Statements: w.statementList(n)}
}

func (w *walker) variableDeclaration(n *sitter.Node) *jsast.Node {
	kind := "var"
	if n.Type() == "lexical_declaration" {
		kind = w.text(n.Child(0)) // "let" or "const"
	}
	var decls []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() != "variable_declarator" {
			continue
		}
		decls = append(decls, w.variableDeclarator(c))
	}
	return &jsast.Node{Kind: jsast.KindVariableDeclaration, Loc: w.loc(n), VarKind: kind, Declarations: decls}
}

func (w *walker) variableDeclarator(n *sitter.Node) *jsast.Node {
	nameNode := n.ChildByFieldName("name")
	valueNode := n.ChildByFieldName("value")
	d := &jsast.Node{Kind: jsast.KindVariableDeclarator, Loc: w.loc(n), ID: w.bindingTarget(nameNode)}
	if valueNode != nil {
		d.Init = w.expression(valueNode)
	}
	return d
}

// bindingTarget walks a binding-position node (identifier, array pattern,
// object pattern, or a default-valued assignment pattern) into jsast.
func (w *walker) bindingTarget(n *sitter.Node) *jsast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return &jsast.Node{Kind: jsast.KindIdentifier, Loc: w.loc(n), Name: w.text(n)}
	case "array_pattern":
		return w.arrayPattern(n)
	case "object_pattern":
		return w.objectPattern(n)
	case "assignment_pattern":
		left := w.bindingTarget(n.ChildByFieldName("left"))
		right := w.expression(n.ChildByFieldName("right"))
		return &jsast.Node{Kind: jsast.KindAssignmentPattern, Loc: w.loc(n), ID: left, Init: right}
	case "rest_pattern":
		return &jsast.Node{Kind: jsast.KindRestElement, Loc: w.loc(n), Argument: w.bindingTarget(n.NamedChild(0))}
	default:
		return w.unknown(n)
	}
}

func (w *walker) arrayPattern(n *sitter.Node) *jsast.Node {
	var elems []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		elems = append(elems, w.bindingTarget(c))
	}
	return &jsast.Node{Kind: jsast.KindArrayPattern, Loc: w.loc(n), Elements: elems}
}

func (w *walker) objectPattern(n *sitter.Node) *jsast.Node {
	var props []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "rest_pattern":
			props = append(props, &jsast.Node{Kind: jsast.KindRestElement, Loc: w.loc(c), Argument: w.bindingTarget(c.NamedChild(0))})
		case "pair_pattern":
			key := c.ChildByFieldName("key")
			value := c.ChildByFieldName("value")
			props = append(props, &jsast.Node{
				Kind: jsast.KindProperty, Loc: w.loc(c),
				Key: w.propertyKey(key), PropValue: w.bindingTarget(value),
				Computed: key.Type() == "computed_property_name", IsPattern: true,
			})
		case "shorthand_property_identifier_pattern":
			id := &jsast.Node{Kind: jsast.KindIdentifier, Loc: w.loc(c), Name: w.text(c)}
			props = append(props, &jsast.Node{Kind: jsast.KindProperty, Loc: w.loc(c), Key: id, PropValue: id, Shorthand: true, IsPattern: true})
		case "object_assignment_pattern":
			left := c.ChildByFieldName("left")
			right := c.ChildByFieldName("right")
			pattern := &jsast.Node{Kind: jsast.KindAssignmentPattern, Loc: w.loc(c), ID: w.bindingTarget(left), Init: w.expression(right)}
			props = append(props, &jsast.Node{Kind: jsast.KindProperty, Loc: w.loc(c), Key: w.propertyKey(left), PropValue: pattern, Shorthand: true, IsPattern: true})
		default:
			props = append(props, w.unknown(c))
		}
	}
	return &jsast.Node{Kind: jsast.KindObjectPattern, Loc: w.loc(n), Properties: props}
}

func (w *walker) propertyKey(n *sitter.Node) *jsast.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "computed_property_name" {
		return w.expression(n.NamedChild(0))
	}
	if n.Type() == "string" || n.Type() == "number" {
		return w.expression(n)
	}
	return &jsast.Node{Kind: jsast.KindIdentifier, Loc: w.loc(n), Name: w.text(n)}
}

func (w *walker) functionDeclaration(n *sitter.Node, isExpr bool) *jsast.Node {
	name := ""
	if id := n.ChildByFieldName("name"); id != nil {
		name = w.text(id)
	}
	isGen := strings.HasPrefix(n.Type(), "generator")
	isAsync := w.hasAsyncKeyword(n)
	kind := jsast.KindFunctionDeclaration
	if isExpr {
		kind = jsast.KindFunctionExpression
	}
	return &jsast.Node{
		Kind: kind, Loc: w.loc(n), Name: name,
		Params: w.paramList(n.ChildByFieldName("parameters")),
		Body:   w.block(n.ChildByFieldName("body")),
		IsGenerator: isGen, IsAsync: isAsync,
	}
}

func (w *walker) hasAsyncKeyword(n *sitter.Node) bool {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if n.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

func (w *walker) paramList(n *sitter.Node) []*jsast.Node {
	if n == nil {
		return nil
	}
	var params []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		params = append(params, w.bindingTarget(n.NamedChild(i)))
	}
	return params
}

func (w *walker) classDeclaration(n *sitter.Node) *jsast.Node {
	name := ""
	if id := n.ChildByFieldName("name"); id != nil {
		name = w.text(id)
	}
	var super *jsast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if h := n.NamedChild(i); h.Type() == "class_heritage" && h.NamedChildCount() > 0 {
			super = w.expression(h.NamedChild(0))
		}
	}
	body := n.ChildByFieldName("body")
	var members []*jsast.Node
	if body != nil {
		count := int(body.NamedChildCount())
		for i := 0; i < count; i++ {
			c := body.NamedChild(i)
			if c.Type() == "comment" {
				continue
			}
			members = append(members, w.classMember(c))
		}
	}
	return &jsast.Node{Kind: jsast.KindClassDeclaration, Loc: w.loc(n), Name: name, SuperClass: super, Members: members}
}

func (w *walker) classMember(n *sitter.Node) *jsast.Node {
	switch n.Type() {
	case "method_definition":
		nameNode := n.ChildByFieldName("name")
		methodKind := "method"
		if w.text(nameNode) == "constructor" {
			methodKind = "constructor"
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			switch n.Child(i).Type() {
			case "get":
				methodKind = "get"
			case "set":
				methodKind = "set"
			}
		}
		isStatic := false
		for i := 0; i < count; i++ {
			if n.Child(i).Type() == "static" {
				isStatic = true
			}
		}
		return &jsast.Node{
			Kind: jsast.KindMethodDefinition, Loc: w.loc(n), Name: w.text(nameNode),
			Params: w.paramList(n.ChildByFieldName("parameters")), Body: w.block(n.ChildByFieldName("body")),
			MethodKind: methodKind, IsStatic: isStatic,
			IsGenerator: strings.Contains(n.Type(), "generator"), IsAsync: w.hasAsyncKeyword(n),
		}
	case "field_definition", "public_field_definition":
		nameNode := n.ChildByFieldName("property")
		var init *jsast.Node
		if v := n.ChildByFieldName("value"); v != nil {
			init = w.expression(v)
		}
		isStatic := false
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			if n.Child(i).Type() == "static" {
				isStatic = true
			}
		}
		return &jsast.Node{Kind: jsast.KindPropertyDefinition, Loc: w.loc(n), Name: w.text(nameNode), Init: init, IsStatic: isStatic}
	default:
		return w.unknown(n)
	}
}

func (w *walker) ifStatement(n *sitter.Node) *jsast.Node {
	test := w.expression(n.ChildByFieldName("condition").NamedChild(0))
	cons := w.statement(n.ChildByFieldName("consequence"))
	var alt *jsast.Node
	if a := n.ChildByFieldName("alternative"); a != nil {
		alt = w.statement(a)
	}
	return &jsast.Node{Kind: jsast.KindIfStatement, Loc: w.loc(n), Test: test, Consequent: cons, Alternate: alt}
}

func (w *walker) whileStatement(n *sitter.Node) *jsast.Node {
	test := w.expression(n.ChildByFieldName("condition").NamedChild(0))
	body := w.statement(n.ChildByFieldName("body"))
	return &jsast.Node{Kind: jsast.KindWhileStatement, Loc: w.loc(n), Test: test, Body: body}
}

func (w *walker) doWhileStatement(n *sitter.Node) *jsast.Node {
	body := w.statement(n.ChildByFieldName("body"))
	test := w.expression(n.ChildByFieldName("condition").NamedChild(0))
	return &jsast.Node{Kind: jsast.KindDoWhileStatement, Loc: w.loc(n), Body: body, Test: test}
}

func (w *walker) forStatement(n *sitter.Node) *jsast.Node {
	var init, test, update *jsast.Node
	if i := n.ChildByFieldName("initializer"); i != nil && i.NamedChildCount() > 0 {
		if i.Type() == "lexical_declaration" || i.Type() == "variable_declaration" {
			init = w.variableDeclaration(i)
		} else {
			init = w.expression(i.NamedChild(0))
		}
	}
	if t := n.ChildByFieldName("condition"); t != nil && t.NamedChildCount() > 0 {
		test = w.expression(t.NamedChild(0))
	}
	if u := n.ChildByFieldName("increment"); u != nil && u.NamedChildCount() > 0 {
		update = w.expression(u.NamedChild(0))
	}
	body := w.statement(n.ChildByFieldName("body"))
	return &jsast.Node{Kind: jsast.KindForStatement, Loc: w.loc(n), Left: init, Test: test, Update: update, Body: body}
}

// forOfOrInStatement handles the grammar's single for_in_statement
// production, which covers both `for...of` and `for...in`; §6.1 only
// requires for-of, so for-in degrades to Unknown.
func (w *walker) forOfOrInStatement(n *sitter.Node) *jsast.Node {
	isOf := false
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if n.Child(i).Type() == "of" {
			isOf = true
		}
	}
	if !isOf {
		return w.unknown(n)
	}
	left := w.bindingTarget(n.ChildByFieldName("left"))
	right := w.expression(n.ChildByFieldName("right"))
	body := w.statement(n.ChildByFieldName("body"))
	return &jsast.Node{Kind: jsast.KindForOfStatement, Loc: w.loc(n), Left: left, Right: right, Body: body}
}

func (w *walker) tryStatement(n *sitter.Node) *jsast.Node {
	block := w.block(n.ChildByFieldName("body"))
	t := &jsast.Node{Kind: jsast.KindTryStatement, Loc: w.loc(n), Block: block}
	if h := n.ChildByFieldName("handler"); h != nil {
		catch := &jsast.Node{Kind: jsast.KindCatchClause, Loc: w.loc(h)}
		if p := h.ChildByFieldName("parameter"); p != nil {
			catch.Param = w.bindingTarget(p)
		}
		catch.Body = w.block(h.ChildByFieldName("body"))
		t.Handler = catch
	}
	if f := n.ChildByFieldName("finalizer"); f != nil {
		t.Finalizer = w.block(f)
	}
	return t
}

func (w *walker) switchStatement(n *sitter.Node) *jsast.Node {
	disc := w.expression(n.ChildByFieldName("value").NamedChild(0))
	body := n.ChildByFieldName("body")
	var cases []*jsast.Node
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		c := body.NamedChild(i)
		switch c.Type() {
		case "switch_case":
			cases = append(cases, &jsast.Node{
				Kind: jsast.KindSwitchCase, Loc: w.loc(c),
				Test:       w.expression(c.ChildByFieldName("value")),
				Statements: w.caseBody(c),
			})
		case "switch_default":
			cases = append(cases, &jsast.Node{Kind: jsast.KindSwitchCase, Loc: w.loc(c), Statements: w.caseBody(c)})
		}
	}
	return &jsast.Node{Kind: jsast.KindSwitchStatement, Loc: w.loc(n), Discriminant: disc, Cases: cases}
}

func (w *walker) caseBody(n *sitter.Node) []*jsast.Node {
	var out []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() == "value" || c.Type() == "comment" {
			continue
		}
		out = append(out, w.statement(c))
	}
	return out
}

// expression dispatches an expression-position CST node.
func (w *walker) expression(n *sitter.Node) *jsast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "parenthesized_expression":
		return w.expression(n.NamedChild(0))
	case "number":
		return w.numberLiteral(n)
	case "string":
		return &jsast.Node{Kind: jsast.KindLiteral, Loc: w.loc(n), Raw: w.text(n), Value: stringContent(w.text(n)), LiteralKind: "string"}
	case "true", "false":
		return &jsast.Node{Kind: jsast.KindLiteral, Loc: w.loc(n), Raw: w.text(n), Value: n.Type() == "true", LiteralKind: "boolean"}
	case "null":
		return &jsast.Node{Kind: jsast.KindLiteral, Loc: w.loc(n), Raw: "null", LiteralKind: "null"}
	case "undefined":
		return &jsast.Node{Kind: jsast.KindLiteral, Loc: w.loc(n), Raw: "undefined", LiteralKind: "undefined"}
	case "identifier", "property_identifier", "shorthand_property_identifier":
		return &jsast.Node{Kind: jsast.KindIdentifier, Loc: w.loc(n), Name: w.text(n)}
	case "this":
		return &jsast.Node{Kind: jsast.KindThisExpression, Loc: w.loc(n)}
	case "super":
		return &jsast.Node{Kind: jsast.KindSuper, Loc: w.loc(n)}
	case "template_string":
		return w.templateLiteral(n)
	case "binary_expression":
		op := w.text(n.ChildByFieldName("operator"))
		kind := jsast.KindBinaryExpression
		if op == "&&" || op == "||" || op == "??" {
			kind = jsast.KindLogicalExpression
		}
		return &jsast.Node{
			Kind: kind, Loc: w.loc(n), Operator: op,
			Left: w.expression(n.ChildByFieldName("left")), Right: w.expression(n.ChildByFieldName("right")),
		}
	case "logical_expression":
		return &jsast.Node{
			Kind: jsast.KindLogicalExpression, Loc: w.loc(n), Operator: w.text(n.ChildByFieldName("operator")),
			Left: w.expression(n.ChildByFieldName("left")), Right: w.expression(n.ChildByFieldName("right")),
		}
	case "unary_expression":
		return &jsast.Node{
			Kind: jsast.KindUnaryExpression, Loc: w.loc(n), Operator: w.text(n.ChildByFieldName("operator")),
			Argument: w.expression(n.ChildByFieldName("argument")), Prefix: true,
		}
	case "update_expression":
		return w.updateExpression(n)
	case "assignment_expression", "augmented_assignment_expression":
		return &jsast.Node{
			Kind: jsast.KindAssignmentExpr, Loc: w.loc(n), Operator: w.assignmentOperator(n),
			ID: w.assignmentTarget(n.ChildByFieldName("left")), Init: w.expression(n.ChildByFieldName("right")),
		}
	case "call_expression":
		return w.callExpression(n)
	case "new_expression":
		return &jsast.Node{
			Kind: jsast.KindNewExpression, Loc: w.loc(n), Callee: w.expression(n.ChildByFieldName("constructor")),
			Arguments: w.argumentList(n.ChildByFieldName("arguments")),
		}
	case "member_expression":
		return w.memberExpression(n, false)
	case "subscript_expression":
		return w.subscriptExpression(n, false)
	case "optional_chain", "chain_expression":
		return w.optionalChain(n)
	case "ternary_expression":
		return &jsast.Node{
			Kind: jsast.KindConditionalExpr, Loc: w.loc(n),
			Test: w.expression(n.ChildByFieldName("condition")), Consequent: w.expression(n.ChildByFieldName("consequence")),
			Alternate: w.expression(n.ChildByFieldName("alternative")),
		}
	case "array":
		return w.arrayExpression(n)
	case "object":
		return w.objectExpression(n)
	case "spread_element":
		return &jsast.Node{Kind: jsast.KindSpreadElement, Loc: w.loc(n), Argument: w.expression(n.NamedChild(0))}
	case "arrow_function":
		return w.arrowFunction(n)
	case "function", "function_expression", "generator_function":
		return w.functionDeclaration(n, true)
	case "class":
		decl := w.classDeclaration(n)
		decl.Kind = jsast.KindClassExpression
		return decl
	case "yield_expression":
		return w.yieldExpression(n)
	case "await_expression":
		return &jsast.Node{Kind: jsast.KindAwaitExpression, Loc: w.loc(n), Argument: w.expression(n.NamedChild(int(n.NamedChildCount())-1))}
	case "sequence_expression":
		return &jsast.Node{
			Kind: jsast.KindSequenceExpression, Loc: w.loc(n),
			Expressions: []*jsast.Node{w.expression(n.ChildByFieldName("left")), w.expression(n.ChildByFieldName("right"))},
		}
	default:
		return w.unknown(n)
	}
}

func (w *walker) numberLiteral(n *sitter.Node) *jsast.Node {
	raw := w.text(n)
	val, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	if err != nil {
		val = 0
	}
	return &jsast.Node{Kind: jsast.KindLiteral, Loc: w.loc(n), Raw: raw, Value: val, LiteralKind: "number"}
}

func stringContent(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

func (w *walker) templateLiteral(n *sitter.Node) *jsast.Node {
	node := &jsast.Node{Kind: jsast.KindTemplateLiteral, Loc: w.loc(n)}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() == "string_fragment" {
			node.Quasis = append(node.Quasis, &jsast.Node{Kind: jsast.KindTemplateElement, Loc: w.loc(c), Raw: w.text(c)})
		} else {
			node.TemplateExprs = append(node.TemplateExprs, w.expression(c))
		}
	}
	return node
}

func (w *walker) updateExpression(n *sitter.Node) *jsast.Node {
	operand := n.NamedChild(0)
	prefix := n.Child(0).Type() == "++" || n.Child(0).Type() == "--"
	op := "++"
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if t := n.Child(i).Type(); t == "++" || t == "--" {
			op = t
		}
	}
	return &jsast.Node{Kind: jsast.KindUpdateExpression, Loc: w.loc(n), Operator: op, Argument: w.expression(operand), Prefix: prefix}
}

func (w *walker) assignmentOperator(n *sitter.Node) string {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return "="
	}
	return w.text(op)
}

// assignmentTarget walks an assignment's left-hand side, which may be a
// plain expression (member/identifier) or a destructuring pattern.
func (w *walker) assignmentTarget(n *sitter.Node) *jsast.Node {
	switch n.Type() {
	case "array_pattern":
		return w.arrayPattern(n)
	case "object_pattern":
		return w.objectPattern(n)
	default:
		return w.expression(n)
	}
}

func (w *walker) callExpression(n *sitter.Node) *jsast.Node {
	callee := n.ChildByFieldName("function")
	argsNode := n.ChildByFieldName("arguments")
	if n.ChildByFieldName("optional_chain") != nil {
		return w.optionalChain(n)
	}
	return &jsast.Node{Kind: jsast.KindCallExpression, Loc: w.loc(n), Callee: w.expression(callee), Arguments: w.argumentList(argsNode)}
}

func (w *walker) argumentList(n *sitter.Node) []*jsast.Node {
	if n == nil {
		return nil
	}
	var args []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		args = append(args, w.expression(n.NamedChild(i)))
	}
	return args
}

func (w *walker) memberExpression(n *sitter.Node, optional bool) *jsast.Node {
	prop := n.ChildByFieldName("property")
	return &jsast.Node{
		Kind: jsast.KindMemberExpression, Loc: w.loc(n), Object: w.expression(n.ChildByFieldName("object")),
		Property: &jsast.Node{Kind: jsast.KindIdentifier, Loc: w.loc(prop), Name: w.text(prop)},
		Optional: optional || n.ChildByFieldName("optional_chain") != nil,
	}
}

func (w *walker) subscriptExpression(n *sitter.Node, optional bool) *jsast.Node {
	return &jsast.Node{
		Kind: jsast.KindMemberExpression, Loc: w.loc(n), Object: w.expression(n.ChildByFieldName("object")),
		Property: w.expression(n.ChildByFieldName("index")), Computed: true, Optional: optional || n.ChildByFieldName("optional_chain") != nil,
	}
}

// optionalChain handles tree-sitter-javascript's representation of `?.`,
// which marks the operator on the member/call/subscript node itself rather
// than wrapping the chain in a separate node; this adapter normalizes that
// into Optional-tagged MemberExpression/CallExpression nodes so the lowerer
// never has to special-case the grammar's own chain wrapper.
func (w *walker) optionalChain(n *sitter.Node) *jsast.Node {
	inner := n
	if n.Type() == "optional_chain" || n.Type() == "chain_expression" {
		inner = n.NamedChild(0)
	}
	switch inner.Type() {
	case "member_expression":
		return w.memberExpression(inner, true)
	case "subscript_expression":
		return w.subscriptExpression(inner, true)
	case "call_expression":
		return &jsast.Node{
			Kind: jsast.KindCallExpression, Loc: w.loc(inner),
			Callee: w.expression(inner.ChildByFieldName("function")), Arguments: w.argumentList(inner.ChildByFieldName("arguments")),
			Optional: true,
		}
	default:
		return w.expression(inner)
	}
}

func (w *walker) arrayExpression(n *sitter.Node) *jsast.Node {
	var elems []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() == "," {
			elems = append(elems, nil)
			continue
		}
		elems = append(elems, w.expression(c))
	}
	return &jsast.Node{Kind: jsast.KindArrayExpression, Loc: w.loc(n), Elements: elems}
}

func (w *walker) objectExpression(n *sitter.Node) *jsast.Node {
	var props []*jsast.Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "pair":
			key := c.ChildByFieldName("key")
			props = append(props, &jsast.Node{
				Kind: jsast.KindProperty, Loc: w.loc(c), Key: w.propertyKey(key),
				PropValue: w.expression(c.ChildByFieldName("value")), Computed: key.Type() == "computed_property_name",
			})
		case "shorthand_property_identifier":
			id := &jsast.Node{Kind: jsast.KindIdentifier, Loc: w.loc(c), Name: w.text(c)}
			props = append(props, &jsast.Node{Kind: jsast.KindProperty, Loc: w.loc(c), Key: id, PropValue: id, Shorthand: true})
		case "spread_element":
			props = append(props, &jsast.Node{Kind: jsast.KindSpreadElement, Loc: w.loc(c), Argument: w.expression(c.NamedChild(0))})
		case "method_definition":
			props = append(props, w.classMember(c))
		default:
			props = append(props, w.unknown(c))
		}
	}
	return &jsast.Node{Kind: jsast.KindObjectExpression, Loc: w.loc(n), Properties: props}
}

func (w *walker) arrowFunction(n *sitter.Node) *jsast.Node {
	params := n.ChildByFieldName("parameters")
	var ps []*jsast.Node
	if params == nil {
		if p := n.ChildByFieldName("parameter"); p != nil {
			ps = []*jsast.Node{w.bindingTarget(p)}
		}
	} else {
		ps = w.paramList(params)
	}
	bodyNode := n.ChildByFieldName("body")
	node := &jsast.Node{Kind: jsast.KindArrowFunctionExpr, Loc: w.loc(n), Params: ps, IsAsync: w.hasAsyncKeyword(n)}
	if bodyNode.Type() == "statement_block" {
		node.Body = w.block(bodyNode)
	} else {
		node.Body = w.expression(bodyNode)
		node.ExprBody = true
	}
	return node
}

func (w *walker) yieldExpression(n *sitter.Node) *jsast.Node {
	delegate := false
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if n.Child(i).Type() == "*" {
			delegate = true
		}
	}
	var arg *jsast.Node
	if n.NamedChildCount() > 0 {
		arg = w.expression(n.NamedChild(0))
	}
	return &jsast.Node{Kind: jsast.KindYieldExpression, Loc: w.loc(n), Argument: arg, Delegate: delegate}
}
