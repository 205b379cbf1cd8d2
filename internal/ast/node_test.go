package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/ast"
)

func TestModule_AddFunctionRegistersSymbolAndChild(t *testing.T) {
	mod := ast.NewModule("m")
	fn := ast.NewFunction("main", ast.Private, nil, nil, nil)

	mod.AddFunction(fn)

	assert.Same(t, fn, mod.Symbols["main"])
	assert.Contains(t, mod.Children(), ast.Node(fn))
}

func TestModule_ChildrenOrderedStructsBeforeFunctions(t *testing.T) {
	mod := ast.NewModule("m")
	fn := ast.NewFunction("main", ast.Private, nil, nil, nil)
	sd := ast.NewStructDef("Point", []ast.Field{{Name: "x", Type: ast.NewTypeAnnotation("int", false)}})
	imp := ast.NewImport("other", ast.Private, false)

	mod.AddImport(imp)
	mod.AddFunction(fn)
	mod.AddStruct(sd)

	children := mod.Children()
	require.Len(t, children, 3)
	assert.Equal(t, ast.Node(imp), children[0])
	assert.Equal(t, ast.Node(sd), children[1])
	assert.Equal(t, ast.Node(fn), children[2])
}

func TestStructDef_FieldByName(t *testing.T) {
	sd := ast.NewStructDef("Point", []ast.Field{
		{Name: "x", Type: ast.NewTypeAnnotation("int", false)},
		{Name: "y", Type: ast.NewTypeAnnotation("int", false)},
	})

	f, ok := sd.FieldByName("y")
	assert.True(t, ok)
	assert.Equal(t, "int", f.Type.Name)

	_, ok = sd.FieldByName("z")
	assert.False(t, ok)
}

func TestBlock_PushAppendsInOrder(t *testing.T) {
	blk := ast.NewBlock()
	a := ast.NewReturn(nil)
	b := ast.NewReturn(ast.NewInt(1))

	blk.Push(a)
	blk.Push(b)

	assert.Equal(t, []ast.Node{a, b}, blk.Statements)
	assert.Equal(t, []ast.Node{a, b}, blk.Children())
}

func TestKind_StringNamesEveryVariant(t *testing.T) {
	assert.Equal(t, "Module", ast.KindModule.String())
	assert.Equal(t, "FieldAccess", ast.KindFieldAccess.String())
	assert.Equal(t, "Unknown", ast.Kind(999).String())
}

func TestBinaryOpTag_String(t *testing.T) {
	assert.Equal(t, "+", ast.Add.String())
	assert.Equal(t, ".", ast.Dot.String())
}
