package printer_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/printer"
	"github.com/pie-lang/pie/internal/syntax"
)

// Printer idempotence (spec.md §8): print(parse(s)) is structurally
// equivalent to print(parse(print(parse(s)))) — printing its own
// output a second time changes nothing.
func TestPrint_Idempotent(t *testing.T) {
	sources := []string{
		`fn main() : int { let a: int = 1; a += 2; return a }`,
		`fn main() : int { if (1 < 2) { return 7 } else { return 9 } }`,
		`struct Point { x: int, y: int } fn main() : int { let p: Point = Point { x: 3, y: 4 }; return p.x + p.y }`,
	}

	for _, src := range sources {
		mod, err := syntax.Parse("test.pie", src)
		require.NoError(t, err)
		once := printer.Print(mod)

		reparsed, err := syntax.Parse("test.pie", once)
		require.NoError(t, err)
		twice := printer.Print(reparsed)

		if once != twice {
			diff := difflib.UnifiedDiff{
				A:        difflib.SplitLines(once),
				B:        difflib.SplitLines(twice),
				FromFile: "first print",
				ToFile:   "second print",
				Context:  3,
			}
			text, _ := difflib.GetUnifiedDiffString(diff)
			t.Fatalf("printer is not idempotent:\n%s", text)
		}
	}
}

func TestPrint_StructAndFunctionLayout(t *testing.T) {
	mod, err := syntax.Parse("test.pie", `struct Point { x: int, y: int } fn main() : int { return 0 }`)
	require.NoError(t, err)

	out := printer.Print(mod)
	assert.Contains(t, out, "struct Point {")
	assert.Contains(t, out, "x: int")
	assert.Contains(t, out, "fn main() : int {")
}

func TestDescribe_SpecialCasesModuleAndFunction(t *testing.T) {
	mod, err := syntax.Parse("test.pie", `fn add(a: int, b: int) : int { return a + b }`)
	require.NoError(t, err)

	assert.Equal(t, "module test.pie", printer.Describe(mod))
	assert.Equal(t, "fn add/2", printer.Describe(mod.Functions[0]))
}
