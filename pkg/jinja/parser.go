package jinja

// Parse parses template source into a Document. It recognizes literal text,
// {{ expr }} interpolations, and {% for %} / {% if %} blocks with their
// elif/else/endif/endfor terminators.
func Parse(src string) (*Document, error) {
	p := &parser{l: newLexer(src)}
	nodes, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	// parseNodes stops at a block terminator without consuming it; at the
	// top level that terminator has no open block.
	if _, ok := p.peek(0); ok {
		kw, _ := p.peek(1)
		return nil, parseErrorf("unexpected %s outside of a block", describe(kw))
	}
	return &Document{Nodes: nodes}, nil
}

// parser consumes the token stream with a two-token lookahead buffer,
// needed to tell block terminators apart from nested blocks.
type parser struct {
	l   *lexer
	buf []token
}

// peek returns the n-th upcoming token (n is 0 or 1) without consuming it.
func (p *parser) peek(n int) (token, bool) {
	for len(p.buf) <= n {
		tok, ok := p.l.next()
		if !ok {
			return token{}, false
		}
		p.buf = append(p.buf, tok)
	}
	return p.buf[n], true
}

func (p *parser) next() (token, bool) {
	tok, ok := p.peek(0)
	if !ok {
		return token{}, false
	}
	p.buf = p.buf[1:]
	return tok, true
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok, ok := p.next()
	if !ok {
		return token{}, parseErrorf("expected %s, got end of input", kind)
	}
	if tok.kind != kind {
		return token{}, parseErrorf("expected %s, got %s", kind, describe(tok))
	}
	return tok, nil
}

func (p *parser) expectIdent(what string) (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", parseErrorf("expected identifier for %s, got end of input", what)
	}
	if tok.kind != tokIdent {
		return "", parseErrorf("expected identifier for %s, got %s", what, describe(tok))
	}
	return tok.val, nil
}

func isBlockTerminator(kind tokenKind) bool {
	switch kind {
	case tokElif, tokElse, tokEndif, tokEndfor:
		return true
	}
	return false
}

// parseNodes parses statements until a block terminator or end of input.
// The terminator is left unconsumed for the enclosing construct.
func (p *parser) parseNodes() ([]Node, error) {
	var nodes []Node
	for {
		tok, ok := p.peek(0)
		if !ok {
			return nodes, nil
		}
		if tok.kind == tokBlockStart {
			if kw, ok := p.peek(1); ok && isBlockTerminator(kw.kind) {
				return nodes, nil
			}
		}
		switch tok.kind {
		case tokText:
			p.next()
			nodes = append(nodes, &TextNode{Text: tok.val})
		case tokVarStart:
			p.next()
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokVarEnd); err != nil {
				return nil, err
			}
			nodes = append(nodes, &OutputNode{Expr: expr})
		case tokBlockStart:
			p.next()
			kw, ok := p.peek(0)
			if !ok {
				return nil, parseErrorf("expected 'for' or 'if' at start of block, got end of input")
			}
			var n Node
			var err error
			switch kw.kind {
			case tokFor:
				n, err = p.parseFor()
			case tokIf:
				n, err = p.parseIf()
			default:
				err = parseErrorf("expected 'for' or 'if' at start of block, got %s", describe(kw))
			}
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			return nil, parseErrorf("unexpected %s", describe(tok))
		}
	}
}

func (p *parser) parseFor() (Node, error) {
	if _, err := p.expect(tokFor); err != nil {
		return nil, err
	}
	target, err := p.expectIdent("loop target")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokIn); err != nil {
		return nil, err
	}
	iterable, err := p.expectIdent("loop iterable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokBlockStart); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEndfor); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokBlockEnd); err != nil {
		return nil, err
	}
	return &ForNode{Target: target, Iterable: iterable, Body: body}, nil
}

func (p *parser) parseIf() (Node, error) {
	if _, err := p.expect(tokIf); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokBlockEnd); err != nil {
		return nil, err
	}
	body, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	n := &IfNode{Cases: []IfCase{{Cond: cond, Body: body}}}

	for {
		tok, ok := p.peek(0)
		if !ok {
			return nil, parseErrorf("expected 'elif', 'else', or 'endif', got end of input")
		}
		if tok.kind != tokBlockStart {
			return nil, parseErrorf("expected block start for 'elif', 'else', or 'endif', got %s", describe(tok))
		}
		kw, ok := p.peek(1)
		if !ok {
			return nil, parseErrorf("expected 'elif', 'else', or 'endif', got end of input")
		}
		switch kw.kind {
		case tokElif:
			p.next()
			p.next()
			cond, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokBlockEnd); err != nil {
				return nil, err
			}
			body, err := p.parseNodes()
			if err != nil {
				return nil, err
			}
			n.Cases = append(n.Cases, IfCase{Cond: cond, Body: body})
		case tokElse:
			p.next()
			p.next()
			if _, err := p.expect(tokBlockEnd); err != nil {
				return nil, err
			}
			elseBody, err := p.parseNodes()
			if err != nil {
				return nil, err
			}
			n.Else = elseBody
			if _, err := p.expect(tokBlockStart); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokEndif); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokBlockEnd); err != nil {
				return nil, err
			}
			return n, nil
		case tokEndif:
			p.next()
			p.next()
			if _, err := p.expect(tokBlockEnd); err != nil {
				return nil, err
			}
			return n, nil
		default:
			return nil, parseErrorf("expected 'elif', 'else', or 'endif', got %s", describe(kw))
		}
	}
}

// Expression parsing by precedence climbing, weakest binding first:
// or < and < == < + < primary with .attr/[index] suffixes.

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek(0)
		if !ok || tok.kind != tokOr {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: OpOr, Left: lhs, Right: rhs}
	}
}

func (p *parser) parseAnd() (Expr, error) {
	lhs, err := p.parseEq()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek(0)
		if !ok || tok.kind != tokAnd {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseEq()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: OpAnd, Left: lhs, Right: rhs}
	}
}

func (p *parser) parseEq() (Expr, error) {
	lhs, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek(0)
		if !ok || tok.kind != tokEqEq {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: OpEq, Left: lhs, Right: rhs}
	}
}

func (p *parser) parseConcat() (Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek(0)
		if !ok || tok.kind != tokPlus {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: OpConcat, Left: lhs, Right: rhs}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok, ok := p.next()
	if !ok {
		return nil, parseErrorf("expected expression, got end of input")
	}
	var expr Expr
	switch tok.kind {
	case tokString:
		expr = &StringLit{Val: tok.val}
	case tokTrue:
		expr = &BoolLit{Val: true}
	case tokFalse:
		expr = &BoolLit{Val: false}
	case tokIdent:
		expr = &VarRef{Name: tok.val}
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		expr = inner
	default:
		return nil, parseErrorf("expected expression, got %s", describe(tok))
	}
	return p.parseSuffixes(expr)
}

// parseSuffixes left-associates zero or more .attr and [index] accesses
// onto expr, producing chains like a.b['c'].d.
func (p *parser) parseSuffixes(expr Expr) (Expr, error) {
	for {
		tok, ok := p.peek(0)
		if !ok {
			return expr, nil
		}
		switch tok.kind {
		case tokDot:
			p.next()
			name, err := p.expectIdent("attribute")
			if err != nil {
				return nil, err
			}
			expr = &AttrExpr{Base: expr, Name: name}
		case tokLBracket:
			p.next()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBracket); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Base: expr, Index: idx}
		default:
			return expr, nil
		}
	}
}
