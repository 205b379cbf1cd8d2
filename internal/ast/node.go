package ast

// Node is implemented by every AST variant. Children returns the
// generic child list for traversals that don't care about variant
// identity. The printer, checker and evaluator do not use it: they
// switch on the concrete type instead, mirroring the
// source's double-dispatch visitor with a single type switch.
type Node interface {
	Kind() Kind
	Children() []Node
}

type base struct {
	children []Node
}

func (b *base) Children() []Node { return b.children }

// Param is a function/closure parameter: a name and its declared type.
type Param struct {
	Name string
	Type *TypeAnnotation
}

// Field is an ordered (name, type) pair in a struct definition, or an
// ordered (name, value) pair in a struct literal. Declaration order is
// preserved per original_source/compiler/ast/struct.h.
type Field struct {
	Name  string
	Type  *TypeAnnotation // set on StructDef fields
	Value Node            // set on StructLiteral fields
}

// Module is the root of a parsed Pie program.
type Module struct {
	base
	Name      string
	Imports   []*Import
	Functions []*Function
	Structs   []*StructDef
	Symbols   map[string]Node // name -> top-level declaration
}

func NewModule(name string) *Module {
	return &Module{Name: name, Symbols: map[string]Node{}}
}

func (m *Module) Kind() Kind { return KindModule }

// AddImport appends an import and rebuilds the generic child list.
func (m *Module) AddImport(i *Import) {
	m.Imports = append(m.Imports, i)
	m.rebuildChildren()
}

// AddFunction appends a function, registers it in the symbol table,
// and rebuilds the generic child list.
func (m *Module) AddFunction(f *Function) {
	m.Functions = append(m.Functions, f)
	m.Symbols[f.Name] = f
	m.rebuildChildren()
}

// AddStruct appends a struct definition, registers it in the symbol
// table, and rebuilds the generic child list.
func (m *Module) AddStruct(s *StructDef) {
	m.Structs = append(m.Structs, s)
	m.Symbols[s.Name] = s
	m.rebuildChildren()
}

func (m *Module) rebuildChildren() {
	children := make([]Node, 0, len(m.Imports)+len(m.Functions)+len(m.Structs))
	for _, i := range m.Imports {
		children = append(children, i)
	}
	for _, s := range m.Structs {
		children = append(children, s)
	}
	for _, f := range m.Functions {
		children = append(children, f)
	}
	m.children = children
}

// Import names another module brought into scope.
type Import struct {
	base
	ModuleName string
	Visibility Visibility
	ImportAll  bool
}

func NewImport(moduleName string, vis Visibility, importAll bool) *Import {
	return &Import{ModuleName: moduleName, Visibility: vis, ImportAll: importAll}
}

func (n *Import) Kind() Kind { return KindImport }

// Function is a top-level function definition.
type Function struct {
	base
	Name       string
	Visibility Visibility
	Params     []Param
	ReturnType *TypeAnnotation // nil when unannotated (implicit Void)
	Body       []Node          // statements
}

func NewFunction(name string, vis Visibility, params []Param, ret *TypeAnnotation, body []Node) *Function {
	n := &Function{Name: name, Visibility: vis, Params: params, ReturnType: ret, Body: body}
	n.children = body
	return n
}

func (n *Function) Kind() Kind { return KindFunction }

// Closure is a parsed closure literal. The evaluator does not capture
// an environment for it (spec.md §9 open question); it evaluates to Nil.
type Closure struct {
	base
	Params     []Param
	ReturnType *TypeAnnotation
	Body       []Node
}

func NewClosure(params []Param, ret *TypeAnnotation, body []Node) *Closure {
	n := &Closure{Params: params, ReturnType: ret, Body: body}
	n.children = body
	return n
}

func (n *Closure) Kind() Kind { return KindClosure }

// FunctionCall invokes a named function or builtin with arguments.
type FunctionCall struct {
	base
	Callee string
	Args   []Node
}

func NewFunctionCall(callee string, args []Node) *FunctionCall {
	n := &FunctionCall{Callee: callee, Args: args}
	n.children = args
	return n
}

func (n *FunctionCall) Kind() Kind { return KindFunctionCall }

// Let declares a new binding, optionally annotated, optionally initialised.
type Let struct {
	base
	Name string
	Type *TypeAnnotation // optional
	Init Node            // optional expression
}

func NewLet(name string, typ *TypeAnnotation, init Node) *Let {
	n := &Let{Name: name, Type: typ, Init: init}
	if init != nil {
		n.children = []Node{init}
	}
	return n
}

func (n *Let) Kind() Kind { return KindLet }

// Assign rebinds an existing identifier.
type Assign struct {
	base
	Target string
	Value  Node
}

func NewAssign(target string, value Node) *Assign {
	n := &Assign{Target: target, Value: value}
	n.children = []Node{value}
	return n
}

func (n *Assign) Kind() Kind { return KindAssign }

// Return exits the enclosing function with an optional value.
type Return struct {
	base
	Value Node // optional
}

func NewReturn(value Node) *Return {
	n := &Return{Value: value}
	if value != nil {
		n.children = []Node{value}
	}
	return n
}

func (n *Return) Kind() Kind { return KindReturn }

// If is a conditional with an optional else branch, which is itself
// either a Block or another If (an "else if" chain).
type If struct {
	base
	Cond Node
	Then *Block
	Else Node // *Block, *If, or nil
}

func NewIf(cond Node, then *Block, els Node) *If {
	n := &If{Cond: cond, Then: then, Else: els}
	if els != nil {
		n.children = []Node{cond, then, els}
	} else {
		n.children = []Node{cond, then}
	}
	return n
}

func (n *If) Kind() Kind { return KindIf }

// Block is an ordered sequence of statements forming one lexical scope.
type Block struct {
	base
	Statements []Node
}

func NewBlock() *Block {
	return &Block{}
}

// Push appends a statement to the block, preserving order.
func (n *Block) Push(stmt Node) {
	n.Statements = append(n.Statements, stmt)
	n.children = n.Statements
}

func (n *Block) Kind() Kind { return KindBlock }

// BinaryOp applies a binary operator to two expressions.
type BinaryOp struct {
	base
	Op  BinaryOpTag
	LHS Node
	RHS Node
}

func NewBinaryOp(op BinaryOpTag, lhs, rhs Node) *BinaryOp {
	n := &BinaryOp{Op: op, LHS: lhs, RHS: rhs}
	n.children = []Node{lhs, rhs}
	return n
}

func (n *BinaryOp) Kind() Kind { return KindBinaryOp }

// UnaryOp applies a unary operator to one expression.
type UnaryOp struct {
	base
	Op   UnaryOpTag
	Expr Node
}

func NewUnaryOp(op UnaryOpTag, expr Node) *UnaryOp {
	n := &UnaryOp{Op: op, Expr: expr}
	n.children = []Node{expr}
	return n
}

func (n *UnaryOp) Kind() Kind { return KindUnaryOp }

// Int is a 64-bit signed integer literal.
type Int struct {
	base
	Value int64
}

func NewInt(v int64) *Int { return &Int{Value: v} }

func (n *Int) Kind() Kind { return KindInt }

// Double is a 64-bit IEEE-754 literal.
type Double struct {
	base
	Value float64
}

func NewDouble(v float64) *Double { return &Double{Value: v} }

func (n *Double) Kind() Kind { return KindDouble }

// String is a UTF-8 literal, already unescaped by the scanner.
type String struct {
	base
	Value string
}

func NewString(v string) *String { return &String{Value: v} }

func (n *String) Kind() Kind { return KindString }

// Identifier references a bound name.
type Identifier struct {
	base
	Name string
}

func NewIdentifier(name string) *Identifier { return &Identifier{Name: name} }

func (n *Identifier) Kind() Kind { return KindIdentifier }

// TypeAnnotation names a type, optionally as an array of that type.
// Array element-type parsing is supported; no array operations are
// (spec.md Non-goals).
type TypeAnnotation struct {
	base
	Name    string
	IsArray bool
}

func NewTypeAnnotation(name string, isArray bool) *TypeAnnotation {
	return &TypeAnnotation{Name: name, IsArray: isArray}
}

func (n *TypeAnnotation) Kind() Kind { return KindTypeAnnotation }

// StructDef declares a named struct type with ordered fields.
type StructDef struct {
	base
	Name   string
	Fields []Field
}

func NewStructDef(name string, fields []Field) *StructDef {
	return &StructDef{Name: name, Fields: fields}
}

func (n *StructDef) Kind() Kind { return KindStructDef }

// FieldByName returns the declared field with the given name, if any.
func (n *StructDef) FieldByName(name string) (Field, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// StructLiteral constructs a struct value from named field initialisers.
type StructLiteral struct {
	base
	StructName string
	Fields     []Field
}

func NewStructLiteral(structName string, fields []Field) *StructLiteral {
	n := &StructLiteral{StructName: structName, Fields: fields}
	children := make([]Node, 0, len(fields))
	for _, f := range fields {
		children = append(children, f.Value)
	}
	n.children = children
	return n
}

func (n *StructLiteral) Kind() Kind { return KindStructLiteral }

// FieldAccess reads a named field off a struct-valued expression.
type FieldAccess struct {
	base
	Object Node
	Field  string
}

func NewFieldAccess(object Node, field string) *FieldAccess {
	n := &FieldAccess{Object: object, Field: field}
	n.children = []Node{object}
	return n
}

func (n *FieldAccess) Kind() Kind { return KindFieldAccess }
