package astvalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/luascript/internal/ir"
	"github.com/oxhq/luascript/internal/jsast"
)

func program(stmts ...*jsast.Node) *jsast.Node {
	return &jsast.Node{Kind: jsast.KindProgram, Statements: stmts}
}

func TestValidate_CleanFunctionHasNoDiagnostics(t *testing.T) {
	fn := &jsast.Node{
		Kind: jsast.KindFunctionDeclaration, Name: "add",
		Params: []*jsast.Node{{Kind: jsast.KindIdentifier, Name: "a"}, {Kind: jsast.KindIdentifier, Name: "b"}},
		Body: &jsast.Node{Kind: jsast.KindBlockStatement, Statements: []*jsast.Node{
			{Kind: jsast.KindReturnStatement, Argument: &jsast.Node{Kind: jsast.KindIdentifier, Name: "a"}},
		}},
	}
	diags := Validate(program(fn))
	assert.Empty(t, diags)
}

func TestValidate_FunctionWithoutBodyFails(t *testing.T) {
	fn := &jsast.Node{Kind: jsast.KindFunctionDeclaration, Name: "f"}
	diags := Validate(program(fn))
	assert.NotEmpty(t, diags)
	assert.Equal(t, ir.CodeAstValidation, diags[0].Code)
}

func TestValidate_YieldOutsideGeneratorReportsError(t *testing.T) {
	fn := &jsast.Node{
		Kind: jsast.KindFunctionDeclaration, Name: "f", IsGenerator: false,
		Body: &jsast.Node{Kind: jsast.KindBlockStatement, Statements: []*jsast.Node{
			{Kind: jsast.KindExpressionStatement, Argument: &jsast.Node{Kind: jsast.KindYieldExpression}},
		}},
	}
	diags := Validate(program(fn))
	require := assert.New(t)
	require.NotEmpty(diags)
	require.Equal(ir.SeverityError, diags[0].Severity)
}

func TestValidate_YieldInsideGeneratorPasses(t *testing.T) {
	fn := &jsast.Node{
		Kind: jsast.KindFunctionDeclaration, Name: "g", IsGenerator: true,
		Body: &jsast.Node{Kind: jsast.KindBlockStatement, Statements: []*jsast.Node{
			{Kind: jsast.KindExpressionStatement, Argument: &jsast.Node{Kind: jsast.KindYieldExpression}},
		}},
	}
	diags := Validate(program(fn))
	assert.Empty(t, diags)
}

func TestValidate_AwaitOutsideAsyncReportsError(t *testing.T) {
	fn := &jsast.Node{
		Kind: jsast.KindArrowFunctionExpr, IsAsync: false,
		Body: &jsast.Node{Kind: jsast.KindAwaitExpression, Argument: &jsast.Node{Kind: jsast.KindIdentifier, Name: "p"}},
		ExprBody: true,
	}
	diags := Validate(program(fn))
	assert.NotEmpty(t, diags)
}

func TestValidate_UnknownNodeReportsWarning(t *testing.T) {
	stmt := &jsast.Node{Kind: jsast.KindUnknown, OriginalType: "labeled_statement"}
	diags := Validate(program(stmt))
	assert.NotEmpty(t, diags)
	assert.Equal(t, ir.SeverityWarning, diags[0].Severity)
	assert.Equal(t, ir.CodeUnsupportedConstruct, diags[0].Code)
}

func TestValidate_ArrowWithInconsistentBodyFlagFails(t *testing.T) {
	fn := &jsast.Node{
		Kind: jsast.KindArrowFunctionExpr, ExprBody: true,
		Body: &jsast.Node{Kind: jsast.KindBlockStatement},
	}
	diags := Validate(program(fn))
	assert.NotEmpty(t, diags)
}
