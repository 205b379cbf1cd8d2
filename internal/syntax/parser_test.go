package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/ast"
	"github.com/pie-lang/pie/internal/syntax"
)

func TestParse_FunctionWithParamsAndReturnType(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn add(a: int, b: int) : int { return a + b }`)
	require.NoError(t, err)

	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "int", fn.Params[0].Type.Name)
	assert.Equal(t, "int", fn.ReturnType.Name)
}

func TestParse_StructDefAndLiteral(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `struct Point { x: int, y: int }
		fn main() : int { let p: Point = Point { x: 1, y: 2 }; return p.x }`)
	require.NoError(t, err)

	require.Len(t, mod.Structs, 1)
	assert.Equal(t, "Point", mod.Structs[0].Name)
	assert.Equal(t, []ast.Field{
		{Name: "x", Type: ast.NewTypeAnnotation("int", false)},
		{Name: "y", Type: ast.NewTypeAnnotation("int", false)},
	}, mod.Structs[0].Fields)
}

func TestParse_IfElseChain(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn main() : int {
		if (1 < 2) { return 1 } else if (2 < 3) { return 2 } else { return 3 }
	}`)
	require.NoError(t, err)

	fn := mod.Functions[0]
	require.Len(t, fn.Body, 1)
	ifNode, ok := fn.Body[0].(*ast.If)
	require.True(t, ok)
	_, elseIsIf := ifNode.Else.(*ast.If)
	assert.True(t, elseIsIf)
}

func TestParse_CompoundAssignAndUnary(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn main() : int { let a: int = 1; a += 2; a -= 1; return -a }`)
	require.NoError(t, err)

	fn := mod.Functions[0]
	require.Len(t, fn.Body, 4)
	add, ok := fn.Body[1].(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.AddAssign, add.Op)
}

func TestParse_PublicImportAndFunction(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `public import other
		public fn main() : int { return 0 }`)
	require.NoError(t, err)

	require.Len(t, mod.Imports, 1)
	assert.Equal(t, ast.Public, mod.Imports[0].Visibility)
	assert.Equal(t, ast.Public, mod.Functions[0].Visibility)
}

func TestParse_PlainFieldAccessIsFieldAccessNode(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `struct Point { x: int, y: int }
		fn main() : int { let p: Point = Point { x: 1, y: 2 }; return p.x + p.y }`)
	require.NoError(t, err)

	fn := mod.Functions[0]
	ret, ok := fn.Body[1].(*ast.Return)
	require.True(t, ok)
	sum, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok)

	left, ok := sum.LHS.(*ast.FieldAccess)
	require.True(t, ok, "expected FieldAccess, got %T", sum.LHS)
	assert.Equal(t, "x", left.Field)
	obj, ok := left.Object.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "p", obj.Name)

	right, ok := sum.RHS.(*ast.FieldAccess)
	require.True(t, ok, "expected FieldAccess, got %T", sum.RHS)
	assert.Equal(t, "y", right.Field)
}

func TestParse_NamespacedCallStillMerges(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn main() : int { io.print("hi"); return 0 }`)
	require.NoError(t, err)

	fn := mod.Functions[0]
	call, ok := fn.Body[0].(*ast.FunctionCall)
	require.True(t, ok, "expected FunctionCall, got %T", fn.Body[0])
	assert.Equal(t, "io.print", call.Callee)
}

func TestParse_BareIdentifierStatementFollowedByBlockIsNotAStructLiteral(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn f() : int { let x: int = 1; x { let y: int = 2; return y } return x }`)
	require.NoError(t, err)

	fn := mod.Functions[0]
	require.Len(t, fn.Body, 3)
	_, ok := fn.Body[1].(*ast.Identifier)
	require.True(t, ok, "expected bare Identifier statement, got %T", fn.Body[1])
	block, ok := fn.Body[2].(*ast.Block)
	require.True(t, ok, "expected Block statement, got %T", fn.Body[2])
	assert.Len(t, block.Statements, 2)
}

func TestParse_ParenthesizedStructLiteralStillParsesInsideAssign(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `struct Point { x: int }
		fn f() : int { let p: Point = (Point { x: 1 }); return p.x }`)
	require.NoError(t, err)

	let, ok := mod.Functions[0].Body[0].(*ast.Let)
	require.True(t, ok)
	_, ok = let.Init.(*ast.StructLiteral)
	assert.True(t, ok, "expected StructLiteral, got %T", let.Init)
}

func TestParse_StructLiteralSuppressionDoesNotLeakAcrossStatements(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `struct Point { x: int, y: int }
		fn f() : int { 5; let p: Point = Point { x: 1, y: 2 }; return p.x }`)
	require.NoError(t, err)

	let, ok := mod.Functions[0].Body[1].(*ast.Let)
	require.True(t, ok, "expected Let, got %T", mod.Functions[0].Body[1])
	_, ok = let.Init.(*ast.StructLiteral)
	assert.True(t, ok, "expected StructLiteral, got %T", let.Init)
}

func TestParse_ModuleHeaderReassemblesSlashedFilePath(t *testing.T) {
	mod, err := syntax.Parse("examples/foo.pie", "module examples/foo.pie\nfn main() : int { return 0 }")
	require.NoError(t, err)
	assert.Equal(t, "examples/foo.pie", mod.Name)
	assert.Equal(t, "main", mod.Functions[0].Name)
}

func TestParse_UnexpectedTokenIsError(t *testing.T) {
	_, err := syntax.Parse("t.pie", `fn main() : int { return + }`)
	assert.Error(t, err)
}
