package ast

// BinaryOpTag enumerates the closed set of binary operators (spec.md §6.4).
type BinaryOpTag int

const (
	Add BinaryOpTag = iota
	Sub
	Mul
	Div
	Mod
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	And
	Or
	AssignOp
	AddAssign
	SubAssign
	Dot
)

var binaryOpNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Lt: "<", Gt: ">", Le: "<=", Ge: ">=", Eq: "==", Ne: "!=",
	And: "&&", Or: "||", AssignOp: "=", AddAssign: "+=", SubAssign: "-=",
	Dot: ".",
}

func (o BinaryOpTag) String() string {
	if int(o) < 0 || int(o) >= len(binaryOpNames) {
		return "?"
	}
	return binaryOpNames[o]
}

// UnaryOpTag enumerates the closed set of unary operators (spec.md §6.4).
type UnaryOpTag int

const (
	Neg UnaryOpTag = iota
	Not
	Inc
	Dec
)

var unaryOpNames = [...]string{
	Neg: "-", Not: "!", Inc: "++", Dec: "--",
}

func (o UnaryOpTag) String() string {
	if int(o) < 0 || int(o) >= len(unaryOpNames) {
		return "?"
	}
	return unaryOpNames[o]
}
