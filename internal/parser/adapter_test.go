package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/luascript/internal/jsast"
)

func TestParse_SimpleFunction(t *testing.T) {
	root, errs := Parse([]byte("function add(a, b) { return a + b; }"), DialectScript)
	require.Empty(t, errs)
	require.NotNil(t, root)
	assert.Equal(t, jsast.KindProgram, root.Kind)
	require.Len(t, root.Statements, 1)

	fn := root.Statements[0]
	assert.Equal(t, jsast.KindFunctionDeclaration, fn.Kind)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.False(t, fn.IsGenerator)
	assert.False(t, fn.IsAsync)

	require.Len(t, fn.Body.Statements, 1)
	ret := fn.Body.Statements[0]
	assert.Equal(t, jsast.KindReturnStatement, ret.Kind)
	assert.Equal(t, jsast.KindBinaryExpression, ret.Argument.Kind)
	assert.Equal(t, "+", ret.Argument.Operator)
}

func TestParse_VariableDeclarationWithDestructuring(t *testing.T) {
	root, errs := Parse([]byte("const { x: a = 10, y } = pt;"), DialectScript)
	require.Empty(t, errs)
	require.Len(t, root.Statements, 1)

	decl := root.Statements[0]
	require.Equal(t, jsast.KindVariableDeclaration, decl.Kind)
	assert.Equal(t, "const", decl.VarKind)
	require.Len(t, decl.Declarations, 1)

	pattern := decl.Declarations[0].ID
	require.Equal(t, jsast.KindObjectPattern, pattern.Kind)
	require.Len(t, pattern.Properties, 2)
	assert.Equal(t, jsast.KindAssignmentPattern, pattern.Properties[0].PropValue.Kind)
	assert.True(t, pattern.Properties[1].Shorthand)
}

func TestParse_GeneratorFunction(t *testing.T) {
	root, errs := Parse([]byte("function* g() { yield 1; yield 2; }"), DialectScript)
	require.Empty(t, errs)
	fn := root.Statements[0]
	assert.True(t, fn.IsGenerator)
	require.Len(t, fn.Body.Statements, 2)
	assert.Equal(t, jsast.KindYieldExpression, fn.Body.Statements[0].Argument.Kind)
}

func TestParse_ForOfLoop(t *testing.T) {
	root, errs := Parse([]byte("for (const x of [1,2,3]) console.log(x);"), DialectScript)
	require.Empty(t, errs)
	stmt := root.Statements[0]
	require.Equal(t, jsast.KindForOfStatement, stmt.Kind)
	assert.Equal(t, jsast.KindArrayExpression, stmt.Right.Kind)
	assert.Len(t, stmt.Right.Elements, 3)
}

func TestParse_OptionalChainAndNullish(t *testing.T) {
	root, errs := Parse([]byte("const v = obj?.inner?.value ?? 0;"), DialectScript)
	require.Empty(t, errs)
	decl := root.Statements[0]
	init := decl.Declarations[0].Init
	require.Equal(t, jsast.KindLogicalExpression, init.Kind)
	assert.Equal(t, "??", init.Operator)
	assert.True(t, init.Left.Optional)
}

func TestParse_ClassWithInheritance(t *testing.T) {
	src := "class B extends A { constructor(x) { super(x); this.x = x; } }"
	root, errs := Parse([]byte(src), DialectScript)
	require.Empty(t, errs)
	cls := root.Statements[0]
	require.Equal(t, jsast.KindClassDeclaration, cls.Kind)
	assert.Equal(t, "B", cls.Name)
	require.NotNil(t, cls.SuperClass)
	assert.Equal(t, "A", cls.SuperClass.Name)
	require.Len(t, cls.Members, 1)
	assert.Equal(t, "constructor", cls.Members[0].MethodKind)
}

func TestParse_UnsupportedConstructDegradesToUnknown(t *testing.T) {
	root, errs := Parse([]byte("label: while (true) { break label; }"), DialectScript)
	assert.NotEmpty(t, errs)
	require.Len(t, root.Statements, 1)
	assert.Equal(t, jsast.KindUnknown, root.Statements[0].Kind)
}
