package syntax

import (
	"fmt"
	"strings"

	"github.com/pie-lang/pie/internal/ast"
)

// parser drives ast's builder operations (spec.md §6.3) from the token
// stream, the way original_source/compiler/parser.cpp's bison actions
// drive Parser::makeX. There is no grammar file in this pack to ground
// a yacc-equivalent on, so the grammar below is inferred directly from
// spec.md's end-to-end scenarios and §6.4's operator set.
type parser struct {
	sc   *scanner
	tok  token
	mod  *ast.Module
	name string

	// suppressStructLiteral disarms struct-literal parsing for exactly
	// the next identifier primary, then clears itself. Set before a
	// bare expression-or-assign statement's leading parseExpr so
	// `x { ... }` parses as the identifier statement x followed by a
	// separate block statement, not a struct literal swallowing the
	// block's contents as fields.
	suppressStructLiteral bool
}

// Parse turns Pie source text into an *ast.Module. It is the one place
// in this repository that is not grounded on spec.md's core packages —
// per spec.md §1 the parser is an external collaborator, implemented
// here only so cmd/pie has something to hand the checker and
// evaluator.
func Parse(name, src string) (*ast.Module, error) {
	p := &parser{sc: newScanner(src), name: name}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p.parseModule()
}

func (p *parser) next() error {
	t, err := p.sc.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.tok.line, fmt.Sprintf(format, args...))
}

func (p *parser) atSymbol(s string) bool  { return p.tok.kind == tokSymbol && p.tok.text == s }
func (p *parser) atKeyword(s string) bool { return p.tok.kind == tokKeyword && p.tok.text == s }

func (p *parser) expectSymbol(s string) error {
	if !p.atSymbol(s) {
		return p.errf("expected %q, got %q", s, p.tok.text)
	}
	return p.next()
}

func (p *parser) expectKeyword(s string) error {
	if !p.atKeyword(s) {
		return p.errf("expected %q, got %q", s, p.tok.text)
	}
	return p.next()
}

func (p *parser) expectIdent() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.errf("expected identifier, got %q", p.tok.text)
	}
	name := p.tok.text
	return name, p.next()
}

func (p *parser) parseModule() (*ast.Module, error) {
	p.mod = ast.NewModule(p.name)

	// printer.Print emits a leading "module NAME" header (spec.md §4.1);
	// accept and apply it here so printed output round-trips through
	// Parse, per spec.md §7's print(parse(print(parse(s)))) idempotence.
	// NAME is driver.Load's on-disk file path, e.g. "examples/foo.pie",
	// not a bare identifier, so the whole rest of the header's source
	// line is reassembled token-by-token rather than parsed as a name
	// grammar.
	if p.tok.kind == tokIdent && p.tok.text == "module" {
		headerLine := p.tok.line
		if err := p.next(); err != nil {
			return nil, err
		}
		var name strings.Builder
		for p.tok.line == headerLine && p.tok.kind != tokEOF {
			name.WriteString(p.tok.text)
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		p.mod.Name = name.String()
	}

	for p.tok.kind != tokEOF {
		vis := ast.Private
		if p.tok.kind == tokPublic {
			vis = ast.Public
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		switch {
		case p.atKeyword("import"):
			imp, err := p.parseImport(vis)
			if err != nil {
				return nil, err
			}
			p.mod.AddImport(imp)
		case p.atKeyword("struct"):
			sd, err := p.parseStructDef()
			if err != nil {
				return nil, err
			}
			p.mod.AddStruct(sd)
		case p.atKeyword("fn"):
			fn, err := p.parseFunction(vis)
			if err != nil {
				return nil, err
			}
			p.mod.AddFunction(fn)
		default:
			return nil, p.errf("expected import, struct or fn declaration, got %q", p.tok.text)
		}
	}
	return p.mod, nil
}

func (p *parser) parseImport(vis ast.Visibility) (*ast.Import, error) {
	if err := p.expectKeyword("import"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	importAll := false
	if p.atSymbol(".") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.expectSymbol("*"); err != nil {
			return nil, err
		}
		importAll = true
	}
	if p.atSymbol(";") {
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	return ast.NewImport(name, vis, importAll), nil
}

func (p *parser) parseStructDef() (*ast.StructDef, error) {
	if err := p.expectKeyword("struct"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	var fields []ast.Field
	for !p.atSymbol("}") {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Field{Name: fname, Type: typ})
		if p.atSymbol(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return ast.NewStructDef(name, fields), nil
}

func (p *parser) parseType() (*ast.TypeAnnotation, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	isArray := false
	if p.atSymbol("[") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		isArray = true
	}
	return ast.NewTypeAnnotation(name, isArray), nil
}

func (p *parser) parseFunction(vis ast.Visibility) (*ast.Function, error) {
	if err := p.expectKeyword("fn"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.atSymbol(")") {
		pname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		ptyp, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname, Type: ptyp})
		if p.atSymbol(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	var ret *ast.TypeAnnotation
	if p.atSymbol(":") {
		if err := p.next(); err != nil {
			return nil, err
		}
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}
	return ast.NewFunction(name, vis, params, ret, body), nil
}

// parseBlockStatements parses "{ stmt* }" and returns the statement
// slice (used for Function/Closure bodies, which store statements
// directly rather than as a *Block per ast.NewFunction's signature).
func (p *parser) parseBlockStatements() ([]ast.Node, error) {
	blk, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return blk.Statements, nil
}

func (p *parser) parseBlock() (*ast.Block, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	blk := ast.NewBlock()
	for !p.atSymbol("}") {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		blk.Push(stmt)
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *parser) parseStatement() (ast.Node, error) {
	var stmt ast.Node
	var err error
	switch {
	case p.atKeyword("let"):
		stmt, err = p.parseLet()
	case p.atKeyword("return"):
		stmt, err = p.parseReturn()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atSymbol("{"):
		return p.parseBlock()
	default:
		stmt, err = p.parseExprOrAssignStatement()
	}
	if err != nil {
		return nil, err
	}
	if p.atSymbol(";") {
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *parser) parseLet() (ast.Node, error) {
	if err := p.expectKeyword("let"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var typ *ast.TypeAnnotation
	if p.atSymbol(":") {
		if err := p.next(); err != nil {
			return nil, err
		}
		typ, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	var init ast.Node
	if p.atSymbol("=") {
		if err := p.next(); err != nil {
			return nil, err
		}
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewLet(name, typ, init), nil
}

func (p *parser) parseReturn() (ast.Node, error) {
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	if p.atSymbol(";") || p.atSymbol("}") {
		return ast.NewReturn(nil), nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(expr), nil
}

func (p *parser) parseIf() (ast.Node, error) {
	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.atKeyword("else") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.atKeyword("if") {
			els, err = p.parseIf()
		} else {
			els, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(cond, then, els), nil
}

// parseExprOrAssignStatement handles both "target = expr" / "target
// += expr" / "target -= expr" (ast.NewAssign) and bare expression
// statements (e.g. a function call for its side effects).
func (p *parser) parseExprOrAssignStatement() (ast.Node, error) {
	p.suppressStructLiteral = true
	expr, err := p.parseExpr()
	// The ambiguity window is only the leading token of this statement;
	// unconditionally close it here so a statement with no identifier
	// or "(" to consume the flag (e.g. a bare literal) can't leak
	// suppression into the next statement's struct literal.
	p.suppressStructLiteral = false
	if err != nil {
		return nil, err
	}
	if id, ok := expr.(*ast.Identifier); ok {
		switch {
		case p.atSymbol("="):
			if err := p.next(); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return ast.NewAssign(id.Name, val), nil
		case p.atSymbol("+="):
			if err := p.next(); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return ast.NewBinaryOp(ast.AddAssign, id, val), nil
		case p.atSymbol("-="):
			if err := p.next(); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return ast.NewBinaryOp(ast.SubAssign, id, val), nil
		}
	}
	return expr, nil
}

// Expression grammar, lowest to highest precedence: or, and, equality,
// relational, additive, multiplicative, unary, postfix, primary.

func (p *parser) parseExpr() (ast.Node, error) { return p.parseOr() }

func (p *parser) parseOr() (ast.Node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("||") {
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOp(ast.Or, lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseAnd() (ast.Node, error) {
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("&&") {
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOp(ast.And, lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseEquality() (ast.Node, error) {
	lhs, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("==") || p.atSymbol("!=") {
		op := ast.Eq
		if p.tok.text == "!=" {
			op = ast.Ne
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOp(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseRelational() (ast.Node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("<") || p.atSymbol(">") || p.atSymbol("<=") || p.atSymbol(">=") {
		var op ast.BinaryOpTag
		switch p.tok.text {
		case "<":
			op = ast.Lt
		case ">":
			op = ast.Gt
		case "<=":
			op = ast.Le
		case ">=":
			op = ast.Ge
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOp(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseAdditive() (ast.Node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("+") || p.atSymbol("-") {
		op := ast.Add
		if p.tok.text == "-" {
			op = ast.Sub
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOp(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseMultiplicative() (ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("*") || p.atSymbol("/") || p.atSymbol("%") {
		var op ast.BinaryOpTag
		switch p.tok.text {
		case "*":
			op = ast.Mul
		case "/":
			op = ast.Div
		case "%":
			op = ast.Mod
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryOp(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseUnary() (ast.Node, error) {
	switch {
	case p.atSymbol("-"):
		if err := p.next(); err != nil {
			return nil, err
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.Neg, expr), nil
	case p.atSymbol("!"):
		if err := p.next(); err != nil {
			return nil, err
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.Not, expr), nil
	case p.atSymbol("++"):
		if err := p.next(); err != nil {
			return nil, err
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.Inc, expr), nil
	case p.atSymbol("--"):
		if err := p.next(); err != nil {
			return nil, err
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.Dec, expr), nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atSymbol("."):
			if err := p.next(); err != nil {
				return nil, err
			}
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = ast.NewFieldAccess(expr, field)
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (ast.Node, error) {
	switch {
	case p.tok.kind == tokInt:
		v := p.tok.ival
		if err := p.next(); err != nil {
			return nil, err
		}
		return ast.NewInt(v), nil
	case p.tok.kind == tokDouble:
		v := p.tok.dval
		if err := p.next(); err != nil {
			return nil, err
		}
		return ast.NewDouble(v), nil
	case p.tok.kind == tokString:
		v := p.tok.text
		if err := p.next(); err != nil {
			return nil, err
		}
		return ast.NewString(v), nil
	case p.atSymbol("("):
		if err := p.next(); err != nil {
			return nil, err
		}
		// Parens disambiguate: once inside one, an identifier
		// immediately followed by "{" is unambiguously a struct
		// literal, not a statement boundary.
		p.suppressStructLiteral = false
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return expr, nil
	case p.tok.kind == tokIdent:
		return p.parseIdentOrCallOrStructLiteral()
	}
	return nil, p.errf("unexpected token %q", p.tok.text)
}

func (p *parser) parseIdentOrCallOrStructLiteral() (ast.Node, error) {
	suppressStruct := p.suppressStructLiteral
	p.suppressStructLiteral = false

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	// A dotted chain is only a single qualified name (e.g. io.print)
	// when it leads to a call. Otherwise the dot is field access and
	// must be left for parsePostfix to turn into ast.FieldAccess, so
	// speculatively merge the chain and back out if it isn't a call.
	if p.atSymbol(".") {
		savedSc := *p.sc
		savedTok := p.tok
		qualified := name
		for p.atSymbol(".") {
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokIdent {
				break
			}
			qualified = qualified + "." + p.tok.text
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		if p.atSymbol("(") {
			name = qualified
		} else {
			*p.sc = savedSc
			p.tok = savedTok
		}
	}

	switch {
	case p.atSymbol("("):
		if err := p.next(); err != nil {
			return nil, err
		}
		var args []ast.Node
		for !p.atSymbol(")") {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.atSymbol(",") {
				if err := p.next(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return ast.NewFunctionCall(name, args), nil
	case p.atSymbol("{") && !suppressStruct:
		fields, err := p.parseStructLiteralFields()
		if err != nil {
			return nil, err
		}
		return ast.NewStructLiteral(name, fields), nil
	}
	return ast.NewIdentifier(name), nil
}

func (p *parser) parseStructLiteralFields() ([]ast.Field, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	var fields []ast.Field
	for !p.atSymbol("}") {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Field{Name: fname, Value: val})
		if p.atSymbol(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return fields, nil
}
