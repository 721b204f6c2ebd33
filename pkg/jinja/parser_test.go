package jinja

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTextAndOutput(t *testing.T) {
	doc, err := Parse("Hello {{ name }}!")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("want 3 nodes, got %d", len(doc.Nodes))
	}
	if tn, ok := doc.Nodes[0].(*TextNode); !ok || tn.Text != "Hello " {
		t.Fatalf("node0 not Text('Hello '): %#v", doc.Nodes[0])
	}
	on, ok := doc.Nodes[1].(*OutputNode)
	if !ok {
		t.Fatalf("node1 not Output: %#v", doc.Nodes[1])
	}
	if vr, ok := on.Expr.(*VarRef); !ok || vr.Name != "name" {
		t.Fatalf("node1 expr not VarRef(name): %#v", on.Expr)
	}
	if tn, ok := doc.Nodes[2].(*TextNode); !ok || tn.Text != "!" {
		t.Fatalf("node2 not Text('!'): %#v", doc.Nodes[2])
	}
}

func TestParseForLoop(t *testing.T) {
	doc, err := Parse("{% for m in messages %}{{ m.role }}{% endfor %}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(doc.Nodes) != 1 {
		t.Fatalf("want 1 node, got %d", len(doc.Nodes))
	}
	fn, ok := doc.Nodes[0].(*ForNode)
	if !ok {
		t.Fatalf("not a ForNode: %#v", doc.Nodes[0])
	}
	if fn.Target != "m" || fn.Iterable != "messages" {
		t.Fatalf("got for %s in %s", fn.Target, fn.Iterable)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("want 1 body node, got %d", len(fn.Body))
	}
}

func TestParseIfElifElse(t *testing.T) {
	doc, err := Parse("{% if a %}A{% elif b %}B{% elif c %}C{% else %}D{% endif %}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	in, ok := doc.Nodes[0].(*IfNode)
	if !ok {
		t.Fatalf("not an IfNode: %#v", doc.Nodes[0])
	}
	if len(in.Cases) != 3 {
		t.Fatalf("want 3 cases, got %d", len(in.Cases))
	}
	if len(in.Else) != 1 {
		t.Fatalf("want else body, got %#v", in.Else)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	doc, err := Parse("{% for m in messages %}{% if m.role == 'user' %}U{% endif %}{% endfor %}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	fn := doc.Nodes[0].(*ForNode)
	if _, ok := fn.Body[0].(*IfNode); !ok {
		t.Fatalf("loop body not an IfNode: %#v", fn.Body[0])
	}
}

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"{{ a == 'x' or b == 'y' and c }}", `((a == "x") or ((b == "y") and c))`},
		{"{{ 'A' + 'B' + 'C' }}", `(("A" + "B") + "C")`},
		{"{{ a + b == c }}", `((a + b) == c)`},
		{"{{ (a or b) and c }}", `((a or b) and c)`},
		{"{{ a.b['c'].d }}", `a.b["c"].d`},
		{"{{ loop.last and add_generation_prompt }}", `(loop.last and add_generation_prompt)`},
	}
	for _, tc := range cases {
		doc, err := Parse(tc.src)
		if err != nil {
			t.Fatalf("%s: parse error: %v", tc.src, err)
		}
		on := doc.Nodes[0].(*OutputNode)
		if got := ExprString(on.Expr); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src     string
		wantSub string
	}{
		{"{% for m in messages %}broken", "end of input"},
		{"{% endfor %}", "outside of a block"},
		{"{% x %}", "expected 'for' or 'if'"},
		{"{% if a %}A", "expected 'elif', 'else', or 'endif'"},
		{"{% if a %}A{% endfor %}", "expected 'elif', 'else', or 'endif'"},
		{"{% for m in 'messages' %}{% endfor %}", "identifier for loop iterable"},
		{"{% for m of messages %}{% endfor %}", "expected 'in'"},
		{"{{ name", "expected '}}', got end of input"},
		{"{{ }}", "expected expression"},
		{"{{ a.'b' }}", "identifier for attribute"},
		{"{{ a['b' }}", "expected ']'"},
		{"{{ (a }}", "expected ')'"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.src)
		if err == nil {
			t.Fatalf("%s: expected parse error, got none", tc.src)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: error is not a ParseError: %v", tc.src, err)
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Fatalf("%s: error %q does not mention %q", tc.src, err, tc.wantSub)
		}
	}
}

type countingVisitor struct {
	texts   int
	outputs int
}

func (v *countingVisitor) Visit(n Node) error {
	switch n.(type) {
	case *TextNode:
		v.texts++
	case *OutputNode:
		v.outputs++
	}
	return nil
}

func TestWalkVisitsNestedNodes(t *testing.T) {
	doc, err := Parse("A{% for m in xs %}{% if m %}{{ m }}{% else %}B{% endif %}{% endfor %}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var v countingVisitor
	if err := Walk(&v, doc); err != nil {
		t.Fatalf("walk error: %v", err)
	}
	if v.texts != 2 || v.outputs != 1 {
		t.Fatalf("visited %d texts and %d outputs", v.texts, v.outputs)
	}
}

func TestPretty(t *testing.T) {
	doc, err := Parse("{% for m in messages %}{{ m.role }}{% endfor %}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := "Document\n" +
		"  For(m in messages)\n" +
		"    Output(m.role)\n"
	if got := Pretty(doc); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
