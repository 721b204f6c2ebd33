package jinja

import (
	"bytes"
	"fmt"
	"strings"
)

type Visitor interface {
	Visit(n Node) error
}

// Walk calls v.Visit on n and every statement node below it, depth-first.
func Walk(v Visitor, n Node) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	switch t := n.(type) {
	case *Document:
		for _, c := range t.Nodes {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	case *IfNode:
		for _, cs := range t.Cases {
			for _, c := range cs.Body {
				if err := Walk(v, c); err != nil {
					return err
				}
			}
		}
		for _, c := range t.Else {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	case *ForNode:
		for _, c := range t.Body {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pretty returns a line-oriented string representation of the AST.
func Pretty(doc *Document) string {
	var buf bytes.Buffer
	ppNode(&buf, 0, doc)
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, n Node) {
	ind := strings.Repeat(" ", indent)
	switch t := n.(type) {
	case *Document:
		buf.WriteString(ind + "Document\n")
		for _, c := range t.Nodes {
			ppNode(buf, indent+2, c)
		}
	case *TextNode:
		fmt.Fprintf(buf, "%sText(%q)\n", ind, t.Text)
	case *OutputNode:
		fmt.Fprintf(buf, "%sOutput(%s)\n", ind, ExprString(t.Expr))
	case *ForNode:
		fmt.Fprintf(buf, "%sFor(%s in %s)\n", ind, t.Target, t.Iterable)
		for _, c := range t.Body {
			ppNode(buf, indent+2, c)
		}
	case *IfNode:
		for i, cs := range t.Cases {
			name := "If"
			if i > 0 {
				name = "Elif"
			}
			fmt.Fprintf(buf, "%s%s(%s)\n", ind, name, ExprString(cs.Cond))
			for _, c := range cs.Body {
				ppNode(buf, indent+2, c)
			}
		}
		if len(t.Else) > 0 {
			buf.WriteString(ind + "Else\n")
			for _, c := range t.Else {
				ppNode(buf, indent+2, c)
			}
		}
	}
}

// ExprString renders an expression back to compact source-like form.
func ExprString(e Expr) string {
	switch t := e.(type) {
	case *StringLit:
		return fmt.Sprintf("%q", t.Val)
	case *BoolLit:
		if t.Val {
			return "true"
		}
		return "false"
	case *VarRef:
		return t.Name
	case *AttrExpr:
		return ExprString(t.Base) + "." + t.Name
	case *IndexExpr:
		return ExprString(t.Base) + "[" + ExprString(t.Index) + "]"
	case *BinaryExpr:
		return "(" + ExprString(t.Left) + " " + t.Op.String() + " " + ExprString(t.Right) + ")"
	}
	return "?"
}
