// Package ir defines the canonical intermediate representation that sits
// between the AST lowerer and the Lua emitter: a flat node map addressed by
// stable string IDs, a closed set of node kinds, and an advisory type system.
package ir

// NodeKind is the closed set of IR node kinds. No other kind may appear in a
// CompilationUnit once lowering has completed.
type NodeKind string

const (
	// Module
	KindProgram NodeKind = "Program"

	// Declarations
	KindVarDecl      NodeKind = "VarDecl"
	KindFunctionDecl NodeKind = "FunctionDecl"
	KindClassDecl    NodeKind = "ClassDecl"
	KindMethodDef    NodeKind = "MethodDef"
	KindParamDecl    NodeKind = "ParamDecl"

	// Statements
	KindBlock          NodeKind = "Block"
	KindIf             NodeKind = "If"
	KindWhile          NodeKind = "While"
	KindDoWhile        NodeKind = "DoWhile"
	KindFor            NodeKind = "For"
	KindForOf          NodeKind = "ForOf"
	KindReturn         NodeKind = "Return"
	KindBreak          NodeKind = "Break"
	KindContinue       NodeKind = "Continue"
	KindThrow          NodeKind = "Throw"
	KindTry            NodeKind = "Try"
	KindSwitch         NodeKind = "Switch"
	KindSwitchCase     NodeKind = "SwitchCase"
	KindExpressionStmt NodeKind = "ExpressionStmt"
	KindEmpty          NodeKind = "Empty"

	// Expressions
	KindLiteral         NodeKind = "Literal"
	KindTemplateLiteral NodeKind = "TemplateLiteral"
	KindIdentifier      NodeKind = "Identifier"
	KindBinaryOp        NodeKind = "BinaryOp"
	KindUnaryOp         NodeKind = "UnaryOp"
	KindLogicalOp       NodeKind = "LogicalOp"
	KindAssignment      NodeKind = "Assignment"
	KindCall            NodeKind = "Call"
	KindNew             NodeKind = "New"
	KindMember          NodeKind = "Member"
	KindOptionalMember  NodeKind = "OptionalMember"
	KindOptionalCall    NodeKind = "OptionalCall"
	KindConditional     NodeKind = "Conditional"
	KindArrayLiteral    NodeKind = "ArrayLiteral"
	KindObjectLiteral   NodeKind = "ObjectLiteral"
	KindProperty        NodeKind = "Property"
	KindSpread          NodeKind = "Spread"
	KindArrow           NodeKind = "Arrow"
	KindFunctionExpr    NodeKind = "FunctionExpr"
	KindClassExpr       NodeKind = "ClassExpr"
	KindThis            NodeKind = "This"
	KindSuper           NodeKind = "Super"
	KindSequence        NodeKind = "Sequence"

	// Generators
	KindYieldExpr      NodeKind = "YieldExpr"
	KindGeneratorMark  NodeKind = "GeneratorMarker"

	// Async
	KindAwaitExpr NodeKind = "AwaitExpr"
	KindAsyncMark NodeKind = "AsyncMarker"

	// Patterns
	KindArrayPattern      NodeKind = "ArrayPattern"
	KindObjectPattern     NodeKind = "ObjectPattern"
	KindRestElement       NodeKind = "RestElement"
	KindAssignmentPattern NodeKind = "AssignmentPattern"

	// Escape hatch for constructs outside §6.1 (§4.4 failure semantics).
	KindUnsupported NodeKind = "Unsupported"
)

// VarKind enumerates the three JavaScript declaration flavors a VarDecl may
// carry; "var" declarations are hoisted by the lowerer, "let"/"const" are not.
type VarKind string

const (
	VarLet   VarKind = "let"
	VarConst VarKind = "const"
	VarVar   VarKind = "var"
)

// isPatternKind reports whether kind is one of the four pattern kinds, which
// §3.3 restricts to binding positions only.
func isPatternKind(kind NodeKind) bool {
	switch kind {
	case KindArrayPattern, KindObjectPattern, KindRestElement, KindAssignmentPattern:
		return true
	default:
		return false
	}
}
