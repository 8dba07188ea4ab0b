package ir

import (
	"fmt"
	"sync/atomic"
)

// DefaultMaxNodes and DefaultMaxDepth are the resource bounds §5 names.
const (
	DefaultMaxNodes = 100_000
	DefaultMaxDepth = 256
)

// Builder is the only way to create IR nodes (§4.1): a monotonic ID
// counter, the node map it populates, and a symbol counter used to mint
// lowering temporaries. One Builder belongs to exactly one CompilationUnit
// and is never shared across calls to Transpile, so its counters need no
// locking — unlike the teacher's process-wide matcher cache in
// core/manipulator.go, which genuinely is shared and uses sync.RWMutex.
type Builder struct {
	unit      *CompilationUnit
	nextID    int64
	nextSym   int64
	maxNodes  int
	nodeCount int
}

// NewBuilder creates a Builder backed by a fresh, empty CompilationUnit.
// maxNodes <= 0 falls back to DefaultMaxNodes.
func NewBuilder(maxNodes int) *Builder {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &Builder{
		unit:     &CompilationUnit{Nodes: make(map[string]*Node)},
		maxNodes: maxNodes,
	}
}

// Unit returns the CompilationUnit the builder has been populating.
func (b *Builder) Unit() *CompilationUnit { return b.unit }

// SetRoot records the root node ID, normally the Program node.
func (b *Builder) SetRoot(id string) { b.unit.RootID = id }

// ErrMemoryLimit is returned by the node constructors once maxNodes has been exceeded so that
// callers can turn it into a MemoryLimit diagnostic and abort (§5, §7)
// instead of growing the node map without bound.
var ErrMemoryLimit = CLIError{Code: CodeMemoryLimit, Message: "IR node count exceeds configured limit"}

// newID allocates a fresh node ID and registers the node, enforcing the
// node-count bound. Returns ErrMemoryLimit once the bound is hit; the node
// is then not registered and the returned ID is empty.
func (b *Builder) newID(n *Node) (string, error) {
	b.nodeCount++
	if b.nodeCount > b.maxNodes {
		return "", ErrMemoryLimit
	}
	id := fmt.Sprintf("node_%d", atomic.AddInt64(&b.nextID, 1))
	n.ID = id
	b.unit.Nodes[id] = n
	return id, nil
}

// NodeCount returns the number of nodes created so far.
func (b *Builder) NodeCount() int { return b.nodeCount }

// Temp mints a fresh destructuring temporary, e.g. "_destructure_3".
func (b *Builder) Temp(prefix string) string {
	n := atomic.AddInt64(&b.nextSym, 1)
	return fmt.Sprintf("%s_%d", prefix, n)
}

// SetParent records a parent link after the fact (used once a statement's
// enclosing block is known).
func (b *Builder) SetParent(childID, parentID string) {
	if n, ok := b.unit.Nodes[childID]; ok {
		n.ParentID = parentID
	}
}

// --- per-kind constructors -------------------------------------------------
//
// Each constructor accepts already-built child IDs (never raw AST
// fragments, per §4.1) and returns the new node's ID.

func (b *Builder) Program(body []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindProgram, Body: body, Loc: loc})
}

func (b *Builder) VarDecl(kind VarKind, binder, init string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindVarDecl, VarKind: kind, Binder: binder, Init: init, Loc: loc})
}

func (b *Builder) FunctionDecl(name string, params []string, body string, isGen, isAsync bool, loc *Location) (string, error) {
	return b.newID(&Node{
		Kind: KindFunctionDecl, Name: name, Params: params, FuncBody: body,
		IsGenerator: isGen, IsAsync: isAsync, Loc: loc,
	})
}

func (b *Builder) FunctionExpr(name string, params []string, body string, isGen, isAsync bool, loc *Location) (string, error) {
	return b.newID(&Node{
		Kind: KindFunctionExpr, Name: name, Params: params, FuncBody: body,
		IsGenerator: isGen, IsAsync: isAsync, Loc: loc,
	})
}

func (b *Builder) Arrow(params []string, body string, exprBody, isAsync bool, loc *Location) (string, error) {
	return b.newID(&Node{
		Kind: KindArrow, Params: params, FuncBody: body,
		ExpressionBody: exprBody, IsAsync: isAsync, Loc: loc,
	})
}

func (b *Builder) ClassDecl(name, superClass string, members []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindClassDecl, Name: name, SuperClass: superClass, Members: members, Loc: loc})
}

func (b *Builder) ClassExpr(name, superClass string, members []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindClassExpr, Name: name, SuperClass: superClass, Members: members, Loc: loc})
}

func (b *Builder) MethodDef(name, methodKind string, isStatic bool, params []string, body string, isGen, isAsync bool, loc *Location) (string, error) {
	return b.newID(&Node{
		Kind: KindMethodDef, Name: name, MethodKind: methodKind, IsStatic: isStatic,
		Params: params, FuncBody: body, IsGenerator: isGen, IsAsync: isAsync, Loc: loc,
	})
}

func (b *Builder) ParamDecl(binder string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindParamDecl, ParamBinder: binder, Loc: loc})
}

func (b *Builder) Block(body []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindBlock, Body: body, Loc: loc})
}

func (b *Builder) If(test, consequent, alternate string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindIf, Test: test, Consequent: consequent, Alternate: alternate, Loc: loc})
}

func (b *Builder) While(test, body string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindWhile, Test: test, LoopBody: body, Loc: loc})
}

func (b *Builder) DoWhile(test, body string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindDoWhile, Test: test, LoopBody: body, Loc: loc})
}

func (b *Builder) For(init, test, update, body string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindFor, ForInit: init, ForTest: test, ForUpdate: update, LoopBody: body, Loc: loc})
}

func (b *Builder) ForOf(left, right, body string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindForOf, ForOfLeft: left, ForOfRight: right, LoopBody: body, Loc: loc})
}

func (b *Builder) Return(argument string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindReturn, Argument: argument, Loc: loc})
}

func (b *Builder) Break(label string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindBreak, Label: label, Loc: loc})
}

func (b *Builder) Continue(label string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindContinue, Label: label, Loc: loc})
}

func (b *Builder) Throw(argument string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindThrow, Argument: argument, Loc: loc})
}

func (b *Builder) Try(block, catchParam, catchBody, finallyBody string, loc *Location) (string, error) {
	return b.newID(&Node{
		Kind: KindTry, TryBlock: block, CatchParam: catchParam,
		CatchBody: catchBody, Finally: finallyBody, Loc: loc,
	})
}

func (b *Builder) Switch(discriminant string, cases []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindSwitch, Discriminant: discriminant, Cases: cases, Loc: loc})
}

func (b *Builder) SwitchCase(test string, isDefault bool, body []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindSwitchCase, CaseTest: test, IsDefault: isDefault, Body: body, Loc: loc})
}

func (b *Builder) ExpressionStmt(expr string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindExpressionStmt, Argument: expr, Loc: loc})
}

func (b *Builder) Empty(loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindEmpty, Loc: loc})
}

func (b *Builder) Literal(value any, raw string, litType Primitive, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindLiteral, Value: value, Raw: raw, LitType: litType, Type: &Type{Kind: TypePrimitive, Primitive: litType}, Loc: loc})
}

func (b *Builder) TemplateLiteral(quasis, expressions []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindTemplateLiteral, Quasis: quasis, Expressions: expressions, Type: StringType, Loc: loc})
}

func (b *Builder) Identifier(name string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindIdentifier, Name: name, Loc: loc})
}

func (b *Builder) BinaryOp(operator, left, right string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindBinaryOp, Operator: operator, Left: left, Right: right, Loc: loc})
}

func (b *Builder) UnaryOp(operator, argument string, prefix bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindUnaryOp, Operator: operator, Argument: argument, Prefix: prefix, Loc: loc})
}

func (b *Builder) LogicalOp(operator, left, right string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindLogicalOp, Operator: operator, Left: left, Right: right, Loc: loc, Type: BooleanType})
}

func (b *Builder) Assignment(operator, left, right string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindAssignment, Operator: operator, Left: left, Right: right, Loc: loc})
}

func (b *Builder) Call(callee string, args []string, hasSpread bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindCall, Callee: callee, Arguments: args, HasSpread: hasSpread, Loc: loc})
}

func (b *Builder) New(callee string, args []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindNew, Callee: callee, Arguments: args, Loc: loc})
}

func (b *Builder) Member(object, property string, computed bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindMember, Object: object, Property: property, Computed: computed, Loc: loc})
}

func (b *Builder) OptionalMember(object, property string, computed, boundary bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindOptionalMember, Object: object, Property: property, Computed: computed, Boundary: boundary, Loc: loc})
}

func (b *Builder) OptionalCall(callee string, args []string, boundary bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindOptionalCall, Callee: callee, Arguments: args, Boundary: boundary, Loc: loc})
}

func (b *Builder) Conditional(test, consequent, alternate string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindConditional, Test: test, Consequent: consequent, Alternate: alternate, Loc: loc})
}

func (b *Builder) ArrayLiteral(elements []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindArrayLiteral, Elements: elements, Loc: loc})
}

func (b *Builder) ObjectLiteral(properties []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindObjectLiteral, Properties: properties, Loc: loc})
}

func (b *Builder) Property(key, value string, shorthand, computed bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindProperty, Key: key, PropValue: value, Shorthand: shorthand, Computed: computed, Loc: loc})
}

// PropertyPattern builds a Property node tagged IsPattern, the discriminant
// the Design Notes (§9) call for instead of duck-typing value-vs-pattern.
func (b *Builder) PropertyPattern(key, pattern string, computed bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindProperty, Key: key, PropValue: pattern, Computed: computed, IsPattern: true, Loc: loc})
}

func (b *Builder) Spread(argument string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindSpread, Argument: argument, Loc: loc})
}

func (b *Builder) This(loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindThis, Loc: loc})
}

func (b *Builder) Super(loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindSuper, Loc: loc})
}

func (b *Builder) Sequence(expressions []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindSequence, SeqExpressions: expressions, Loc: loc})
}

func (b *Builder) YieldExpr(argument string, delegate bool, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindYieldExpr, Argument: argument, Delegate: delegate, Loc: loc})
}

func (b *Builder) AwaitExpr(argument string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindAwaitExpr, Argument: argument, Loc: loc})
}

func (b *Builder) ArrayPattern(elements []string, indexBias int, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindArrayPattern, Elements: elements, IndexBias: indexBias, Loc: loc})
}

func (b *Builder) ObjectPattern(properties []string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindObjectPattern, Properties: properties, Loc: loc})
}

func (b *Builder) RestElement(argument string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindRestElement, Argument: argument, Loc: loc})
}

func (b *Builder) AssignmentPattern(left, right string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindAssignmentPattern, PatternLeft: left, PatternRight: right, Loc: loc})
}

// Unsupported builds the placeholder node §4.4 substitutes for any surface
// construct outside §6.1, so downstream stages can continue and the
// pipeline can surface multiple UnsupportedConstruct diagnostics at once.
func (b *Builder) Unsupported(originalKind string, loc *Location) (string, error) {
	return b.newID(&Node{Kind: KindUnsupported, OriginalKind: originalKind, Loc: loc})
}
