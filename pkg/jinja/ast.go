package jinja

// BinOp enumerates the binary operators of the expression language.
type BinOp int

const (
	OpEq     BinOp = iota // ==
	OpConcat              // + (string concatenation only)
	OpAnd
	OpOr
)

func (op BinOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpConcat:
		return "+"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	}
	return "?"
}

// Expr is any expression node. Expressions are immutable after parsing and
// each node exclusively owns its children.
type Expr interface {
	expr()
}

// StringLit is a quoted string literal.
type StringLit struct {
	Val string
}

func (*StringLit) expr() {}

// BoolLit is a true/false literal.
type BoolLit struct {
	Val bool
}

func (*BoolLit) expr() {}

// VarRef reads a name from the scope stack.
type VarRef struct {
	Name string
}

func (*VarRef) expr() {}

// AttrExpr is dotted access: base.name.
type AttrExpr struct {
	Base Expr
	Name string
}

func (*AttrExpr) expr() {}

// IndexExpr is bracket access: base[index].
type IndexExpr struct {
	Base  Expr
	Index Expr
}

func (*IndexExpr) expr() {}

// BinaryExpr applies Op to both operands.
type BinaryExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) expr() {}

// Node is any statement node in a parsed template.
type Node interface {
	node()
}

// Document is the root node produced by Parse.
type Document struct {
	Nodes []Node
}

func (*Document) node() {}

// TextNode is literal text between tags, emitted verbatim.
type TextNode struct {
	Text string
}

func (*TextNode) node() {}

// OutputNode is an interpolation: {{ expr }}
type OutputNode struct {
	Expr Expr
}

func (*OutputNode) node() {}

// ForNode iterates a named variable: {% for target in iterable %}. The
// iterable is a bare variable name, not a general expression.
type ForNode struct {
	Target   string
	Iterable string
	Body     []Node
}

func (*ForNode) node() {}

// IfNode holds the if branch and all elif branches as ordered cases, plus
// an optional else body.
type IfNode struct {
	Cases []IfCase
	Else  []Node
}

func (*IfNode) node() {}

// IfCase is one (condition, body) pair of an if/elif chain.
type IfCase struct {
	Cond Expr
	Body []Node
}
