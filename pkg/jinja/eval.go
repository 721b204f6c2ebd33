package jinja

import (
	"bytes"
	"strconv"
)

// Evaluator walks a parsed Document against a stack of variable scopes and
// produces the rendered output. The base scope holds the caller's context;
// each for-loop iteration pushes one scope with the loop target and the
// synthetic `loop` dict, popped when the iteration ends, so loop bindings
// never leak outward. Conditionals share the enclosing scope.
type Evaluator struct {
	scopes []Context
}

func NewEvaluator(base Context) *Evaluator {
	if base == nil {
		base = Context{}
	}
	return &Evaluator{scopes: []Context{base}}
}

// Render evaluates the document and returns the rendered text.
func (e *Evaluator) Render(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := e.renderNodes(&buf, doc.Nodes); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *Evaluator) pushScope(scope Context) {
	e.scopes = append(e.scopes, scope)
}

func (e *Evaluator) popScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// lookup walks the scope stack innermost-first. Unbound names resolve to
// none rather than failing.
func (e *Evaluator) lookup(name string) Value {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v
		}
	}
	return NoneValue{}
}

func (e *Evaluator) renderNodes(buf *bytes.Buffer, nodes []Node) error {
	for _, n := range nodes {
		switch t := n.(type) {
		case *TextNode:
			buf.WriteString(t.Text)
		case *OutputNode:
			v, err := e.evalExpr(t.Expr)
			if err != nil {
				return err
			}
			switch v.(type) {
			case StringValue, BoolValue, NoneValue:
				buf.WriteString(v.String())
			default:
				return evalErrorf("cannot render a %s value directly", kindOf(v))
			}
		case *ForNode:
			if err := e.renderFor(buf, t); err != nil {
				return err
			}
		case *IfNode:
			if err := e.renderIf(buf, t); err != nil {
				return err
			}
		default:
			return evalErrorf("unhandled node type %T", n)
		}
	}
	return nil
}

func (e *Evaluator) renderFor(buf *bytes.Buffer, n *ForNode) error {
	switch items := e.lookup(n.Iterable).(type) {
	case NoneValue:
		// A missing collection renders nothing.
		return nil
	case ListValue:
		last := len(items) - 1
		for i, item := range items {
			e.pushScope(Context{
				n.Target: item,
				"loop": DictValue{
					"first":  BoolValue(i == 0),
					"last":   BoolValue(i == last),
					"index0": StringValue(strconv.Itoa(i)),
				},
			})
			err := e.renderNodes(buf, n.Body)
			e.popScope()
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return evalErrorf("cannot iterate over %s value %q", kindOf(items), n.Iterable)
	}
}

func (e *Evaluator) renderIf(buf *bytes.Buffer, n *IfNode) error {
	for _, c := range n.Cases {
		v, err := e.evalExpr(c.Cond)
		if err != nil {
			return err
		}
		if v.Truth() {
			return e.renderNodes(buf, c.Body)
		}
	}
	if len(n.Else) > 0 {
		return e.renderNodes(buf, n.Else)
	}
	return nil
}

func (e *Evaluator) evalExpr(expr Expr) (Value, error) {
	switch t := expr.(type) {
	case *StringLit:
		return StringValue(t.Val), nil
	case *BoolLit:
		return BoolValue(t.Val), nil
	case *VarRef:
		return e.lookup(t.Name), nil
	case *AttrExpr:
		base, err := e.evalExpr(t.Base)
		if err != nil {
			return nil, err
		}
		dict, ok := base.(DictValue)
		if !ok {
			return nil, evalErrorf("cannot get attribute %q of %s value", t.Name, kindOf(base))
		}
		v, ok := dict[t.Name]
		if !ok {
			return nil, evalErrorf("attribute %q not found", t.Name)
		}
		return v, nil
	case *IndexExpr:
		base, err := e.evalExpr(t.Base)
		if err != nil {
			return nil, err
		}
		idx, err := e.evalExpr(t.Index)
		if err != nil {
			return nil, err
		}
		return indexValue(base, idx)
	case *BinaryExpr:
		// Both operands evaluate unconditionally: and/or do not
		// short-circuit, so a failure on either side always surfaces.
		left, err := e.evalExpr(t.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalExpr(t.Right)
		if err != nil {
			return nil, err
		}
		switch t.Op {
		case OpEq:
			return BoolValue(valueEqual(left, right)), nil
		case OpConcat:
			ls, lok := left.(StringValue)
			rs, rok := right.(StringValue)
			if !lok || !rok {
				return nil, evalErrorf("'+' requires string operands, got %s and %s", kindOf(left), kindOf(right))
			}
			return ls + rs, nil
		case OpAnd:
			return BoolValue(left.Truth() && right.Truth()), nil
		case OpOr:
			return BoolValue(left.Truth() || right.Truth()), nil
		}
		return nil, evalErrorf("unknown binary operator %v", t.Op)
	}
	return nil, evalErrorf("unhandled expression type %T", expr)
}

func indexValue(base, idx Value) (Value, error) {
	switch b := base.(type) {
	case DictValue:
		key, ok := idx.(StringValue)
		if !ok {
			return nil, evalErrorf("dict index must be a string, got %s", kindOf(idx))
		}
		v, ok := b[string(key)]
		if !ok {
			return nil, evalErrorf("key %q not found", string(key))
		}
		return v, nil
	case ListValue:
		key, ok := idx.(StringValue)
		if !ok {
			return nil, evalErrorf("list index must be a string, got %s", kindOf(idx))
		}
		// The language has no numeric literals; list positions are
		// string indices that must parse as non-negative integers.
		i, err := strconv.Atoi(string(key))
		if err != nil || i < 0 {
			return nil, evalErrorf("list index must be a non-negative integer, got %q", string(key))
		}
		if i >= len(b) {
			return nil, evalErrorf("list index %d out of range (len %d)", i, len(b))
		}
		return b[i], nil
	default:
		return nil, evalErrorf("cannot index into %s value", kindOf(base))
	}
}
