// Package jsast defines a flat, ESTree-shaped abstract syntax tree: the
// output of the parser adapter and the input to the AST validator and
// lowerer. Like internal/ir, it favors one struct per family of shapes over
// a type hierarchy, matching the surrounding module's style.
package jsast

// Loc is a 1-based line/column source position.
type Loc struct {
	Line   int
	Column int
}

// Kind is the closed set of ESTree node types this front end recognizes.
// Anything tree-sitter emits that isn't listed here becomes KindUnknown and
// is rejected by the AST validator (§4.3) rather than silently dropped.
type Kind string

const (
	KindProgram Kind = "Program"

	KindVariableDeclaration Kind = "VariableDeclaration"
	KindVariableDeclarator  Kind = "VariableDeclarator"
	KindFunctionDeclaration Kind = "FunctionDeclaration"
	KindClassDeclaration    Kind = "ClassDeclaration"
	KindMethodDefinition    Kind = "MethodDefinition"
	KindPropertyDefinition  Kind = "PropertyDefinition"

	KindBlockStatement      Kind = "BlockStatement"
	KindIfStatement         Kind = "IfStatement"
	KindWhileStatement      Kind = "WhileStatement"
	KindDoWhileStatement    Kind = "DoWhileStatement"
	KindForStatement        Kind = "ForStatement"
	KindForOfStatement      Kind = "ForOfStatement"
	KindForInStatement      Kind = "ForInStatement"
	KindReturnStatement     Kind = "ReturnStatement"
	KindBreakStatement      Kind = "BreakStatement"
	KindContinueStatement   Kind = "ContinueStatement"
	KindThrowStatement      Kind = "ThrowStatement"
	KindTryStatement        Kind = "TryStatement"
	KindCatchClause         Kind = "CatchClause"
	KindSwitchStatement     Kind = "SwitchStatement"
	KindSwitchCase          Kind = "SwitchCase"
	KindExpressionStatement Kind = "ExpressionStatement"
	KindEmptyStatement      Kind = "EmptyStatement"
	KindLabeledStatement    Kind = "LabeledStatement"

	KindLiteral            Kind = "Literal"
	KindTemplateLiteral    Kind = "TemplateLiteral"
	KindTemplateElement    Kind = "TemplateElement"
	KindIdentifier         Kind = "Identifier"
	KindBinaryExpression   Kind = "BinaryExpression"
	KindLogicalExpression  Kind = "LogicalExpression"
	KindUnaryExpression    Kind = "UnaryExpression"
	KindUpdateExpression   Kind = "UpdateExpression"
	KindAssignmentExpr     Kind = "AssignmentExpression"
	KindCallExpression     Kind = "CallExpression"
	KindNewExpression      Kind = "NewExpression"
	KindMemberExpression   Kind = "MemberExpression"
	KindConditionalExpr    Kind = "ConditionalExpression"
	KindArrayExpression    Kind = "ArrayExpression"
	KindObjectExpression   Kind = "ObjectExpression"
	KindProperty           Kind = "Property"
	KindSpreadElement      Kind = "SpreadElement"
	KindArrowFunctionExpr  Kind = "ArrowFunctionExpression"
	KindFunctionExpression Kind = "FunctionExpression"
	KindClassExpression    Kind = "ClassExpression"
	KindThisExpression     Kind = "ThisExpression"
	KindSuper              Kind = "Super"
	KindSequenceExpression Kind = "SequenceExpression"
	KindYieldExpression    Kind = "YieldExpression"
	KindAwaitExpression    Kind = "AwaitExpression"
	KindChainExpression    Kind = "ChainExpression"

	KindArrayPattern      Kind = "ArrayPattern"
	KindObjectPattern     Kind = "ObjectPattern"
	KindRestElement       Kind = "RestElement"
	KindAssignmentPattern Kind = "AssignmentPattern"

	KindUnknown Kind = "Unknown"
)

// Node is the single concrete AST node type. As in internal/ir, Kind
// discriminates which field groups are meaningful; this keeps the parser
// adapter a set of small "fill in these fields" cases instead of 40 Go
// types mirroring 40 ESTree productions.
type Node struct {
	Kind Kind
	Loc  *Loc

	// VariableDeclaration
	VarKind      string // "var" | "let" | "const"
	Declarations []*Node

	// VariableDeclarator / AssignmentPattern
	ID   *Node
	Init *Node

	// FunctionDeclaration / FunctionExpression / ArrowFunctionExpression / MethodDefinition
	Name        string
	Params      []*Node
	Body        *Node // BlockStatement, or an expression for arrow expr-bodies
	ExprBody    bool
	IsGenerator bool
	IsAsync     bool
	IsStatic    bool
	MethodKind  string // "method" | "constructor" | "get" | "set"

	// ClassDeclaration / ClassExpression
	SuperClass *Node
	Members    []*Node

	// BlockStatement / Program / SwitchCase consequent
	Statements []*Node

	// IfStatement / ConditionalExpression
	Test       *Node
	Consequent *Node
	Alternate  *Node

	// WhileStatement / DoWhileStatement / ForStatement / ForOfStatement / ForInStatement
	Left   *Node
	Right  *Node
	Update *Node

	// ReturnStatement / ThrowStatement / ExpressionStatement / SpreadElement /
	// UnaryExpression / UpdateExpression / RestElement / YieldExpression /
	// AwaitExpression
	Argument *Node
	Prefix   bool
	Delegate bool

	// BreakStatement / ContinueStatement / LabeledStatement
	Label string

	// TryStatement
	Block     *Node
	Handler   *Node // CatchClause
	Finalizer *Node
	Param     *Node // CatchClause binding, may be nil

	// SwitchStatement / SwitchCase
	Discriminant *Node
	Cases        []*Node

	// Literal
	Value any
	Raw   string
	// LiteralKind disambiguates a Literal's JS runtime type ("number",
	// "string", "boolean", "null") since Value alone collapses 0/""/false.
	LiteralKind string

	// TemplateLiteral
	Quasis        []*Node // TemplateElement
	TemplateExprs []*Node

	// BinaryExpression / LogicalExpression / AssignmentExpression
	Operator string

	// CallExpression / NewExpression / MemberExpression
	Callee   *Node
	Object   *Node
	Property *Node
	Computed bool
	Optional bool
	Arguments []*Node

	// ArrayExpression / ArrayPattern
	Elements []*Node

	// ObjectExpression / ObjectPattern
	Properties []*Node

	// Property
	Key       *Node
	PropValue *Node
	Shorthand bool
	IsPattern bool

	// SequenceExpression
	Expressions []*Node

	// Unknown
	OriginalType string
}
