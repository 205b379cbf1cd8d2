package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/checker"
	"github.com/pie-lang/pie/internal/syntax"
)

func TestCheck_ValidModulePasses(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn main() : int { let a: int = 1; a += 2; return a }`)
	require.NoError(t, err)

	errs, ok := checker.Check(mod)
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestCheck_TypeMismatchOnLetInit(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn main() : int { let a: int = "nope"; return a }`)
	require.NoError(t, err)

	errs, ok := checker.Check(mod)
	assert.False(t, ok)
	require.NotEmpty(t, errs)
}

func TestCheck_ArgumentCountMismatch(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn add(a: int, b: int) : int { return a + b } fn main() : int { return add(1) }`)
	require.NoError(t, err)

	errs, ok := checker.Check(mod)
	assert.False(t, ok)
	found := false
	for _, e := range errs {
		if e.Message == `function "add" expects 2 argument(s), got 1` {
			found = true
		}
	}
	assert.True(t, found, "expected arity-mismatch message, got %v", errs)
}

func TestCheck_StructLiteralMissingAndUnexpectedFields(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `struct Point { x: int, y: int } fn main() : int { let p: Point = Point { x: 1, z: 2 }; return 0 }`)
	require.NoError(t, err)

	errs, ok := checker.Check(mod)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, len(errs), 2, "expected distinct missing-field and unexpected-field errors")
}

func TestCheck_IfConditionMustBeBool(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn main() : int { if (1) { return 1 } return 0 }`)
	require.NoError(t, err)

	_, ok := checker.Check(mod)
	assert.False(t, ok)
}

func TestCheck_ForwardReferencedFunctionsAreAllowed(t *testing.T) {
	mod, err := syntax.Parse("t.pie", `fn main() : int { return helper() } fn helper() : int { return 1 }`)
	require.NoError(t, err)

	_, ok := checker.Check(mod)
	assert.True(t, ok)
}
