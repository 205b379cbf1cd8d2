// Package syntax is the scanner/parser collaborator spec.md §1 and §6.2
// explicitly place outside the core language (ast, checker, printer,
// eval, debugger): "the lexical scanner ... the concrete parser /
// grammar driver ... we specify only what these collaborators must
// supply to, or accept from, the core." cmd/pie needs something to
// turn a .pie source file into the ast.Module the core operates on, so
// this package supplies a minimal, literal implementation of that
// collaborator contract (§6.2 token categories, §6.3 builder calls) —
// it is not part of the certified core and carries no invariants of
// its own beyond "produce the tokens/nodes the core expects".
package syntax

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokDouble
	tokString
	tokPublic
	tokSymbol
	tokKeyword
)

type token struct {
	kind tokenKind
	text string
	ival int64
	dval float64
	line int
}

var keywords = map[string]bool{
	"fn": true, "let": true, "return": true, "if": true, "else": true,
	"struct": true, "import": true, "public": true,
}

// scanner produces the token stream described in spec.md §6.2: an
// identifier (with literal text), integer/double literals (text
// parsed to i64/f64), string literals (accumulated, unescaped), a
// visibility marker, and punctuation.
type scanner struct {
	src  string
	pos  int
	line int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1}
}

func (s *scanner) peekByte() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
	}
	return c
}

func (s *scanner) skipTrivia() {
	for s.pos < len(s.src) {
		c := s.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
		case c == '/' && s.peekAt(1) == '/':
			for s.pos < len(s.src) && s.peekByte() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

// next returns the next token, following spec.md §6.2's categories.
func (s *scanner) next() (token, error) {
	s.skipTrivia()
	line := s.line
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, line: line}, nil
	}

	c := s.peekByte()

	if isAlpha(c) {
		start := s.pos
		for s.pos < len(s.src) && isAlnum(s.peekByte()) {
			s.advance()
		}
		text := s.src[start:s.pos]
		if text == "public" {
			return token{kind: tokPublic, text: text, line: line}, nil
		}
		if keywords[text] {
			return token{kind: tokKeyword, text: text, line: line}, nil
		}
		return token{kind: tokIdent, text: text, line: line}, nil
	}

	if isDigit(c) {
		start := s.pos
		isDouble := false
		for s.pos < len(s.src) && isDigit(s.peekByte()) {
			s.advance()
		}
		if s.peekByte() == '.' && isDigit(s.peekAt(1)) {
			isDouble = true
			s.advance()
			for s.pos < len(s.src) && isDigit(s.peekByte()) {
				s.advance()
			}
		}
		text := s.src[start:s.pos]
		if isDouble {
			var d float64
			fmt.Sscanf(text, "%g", &d)
			return token{kind: tokDouble, text: text, dval: d, line: line}, nil
		}
		var i int64
		fmt.Sscanf(text, "%d", &i)
		return token{kind: tokInt, text: text, ival: i, line: line}, nil
	}

	if c == '"' {
		s.advance()
		var b strings.Builder
		for {
			if s.pos >= len(s.src) {
				return token{}, fmt.Errorf("line %d: unterminated string literal", line)
			}
			ch := s.advance()
			if ch == '"' {
				break
			}
			if ch == '\\' && s.pos < len(s.src) {
				esc := s.advance()
				switch esc {
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				case '"':
					b.WriteByte('"')
				case '\\':
					b.WriteByte('\\')
				default:
					b.WriteByte(esc)
				}
				continue
			}
			b.WriteByte(ch)
		}
		return token{kind: tokString, text: b.String(), line: line}, nil
	}

	for _, sym := range []string{
		"+=", "-=", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
		"+", "-", "*", "/", "%", "<", ">", "=", "(", ")", "{", "}",
		"[", "]", ":", ",", ";", ".", "!",
	} {
		if strings.HasPrefix(s.src[s.pos:], sym) {
			s.pos += len(sym)
			return token{kind: tokSymbol, text: sym, line: line}, nil
		}
	}

	return token{}, fmt.Errorf("line %d: unexpected character %q", line, c)
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
