package jinja

// The lexer scans template source one token at a time, switching between a
// text mode (literal output between tags) and a tag mode (inside {% %} or
// {{ }}). It is a pure function of (src, pos, inTag); a fresh lexer is
// needed to re-scan the same input.

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src   string
	pos   int
	inTag bool
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// next returns the next token, or ok=false when input is exhausted. An
// unterminated string literal also ends the stream; the parser reports the
// resulting early end of input.
func (l *lexer) next() (token, bool) {
	if l.pos >= len(l.src) {
		return token{}, false
	}
	if l.inTag {
		return l.nextTag()
	}
	return l.nextText()
}

func (l *lexer) nextText() (token, bool) {
	rest := l.src[l.pos:]

	idx := strings.Index(rest, "{%")
	if varIdx := strings.Index(rest, "{{"); idx < 0 || (varIdx >= 0 && varIdx < idx) {
		idx = varIdx
	}

	switch {
	case idx < 0:
		// No more tags: the remainder is one text token.
		l.pos = len(l.src)
		return token{kind: tokText, val: rest}, true
	case idx == 0:
		l.pos += 2
		l.inTag = true
		if rest[1] == '%' {
			return token{kind: tokBlockStart}, true
		}
		return token{kind: tokVarStart}, true
	default:
		l.pos += idx
		return token{kind: tokText, val: rest[:idx]}, true
	}
}

func (l *lexer) nextTag() (token, bool) {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]

		switch {
		case strings.HasPrefix(rest, "%}"):
			l.pos += 2
			l.inTag = false
			l.trimBlockNewline()
			return token{kind: tokBlockEnd}, true
		case strings.HasPrefix(rest, "}}"):
			l.pos += 2
			l.inTag = false
			return token{kind: tokVarEnd}, true
		case strings.HasPrefix(rest, "=="):
			l.pos += 2
			return token{kind: tokEqEq}, true
		}

		switch rest[0] {
		case '+':
			l.pos++
			return token{kind: tokPlus}, true
		case '.':
			l.pos++
			return token{kind: tokDot}, true
		case '[':
			l.pos++
			return token{kind: tokLBracket}, true
		case ']':
			l.pos++
			return token{kind: tokRBracket}, true
		case '(':
			l.pos++
			return token{kind: tokLParen}, true
		case ')':
			l.pos++
			return token{kind: tokRParen}, true
		case '\'', '"':
			return l.scanString(rest[0])
		}

		r, size := utf8.DecodeRuneInString(rest)
		if r == '_' || unicode.IsLetter(r) {
			return l.scanIdent(), true
		}

		// Whitespace and anything else unrecognized is skipped and
		// scanning resumes at the next character.
		l.pos += size
	}
	return token{}, false
}

// trimBlockNewline consumes one line terminator directly after '%}'
// (trim-blocks). '}}' gets no such treatment, and at most one newline is
// ever consumed.
func (l *lexer) trimBlockNewline() {
	rest := l.src[l.pos:]
	if strings.HasPrefix(rest, "\r\n") {
		l.pos += 2
	} else if strings.HasPrefix(rest, "\n") {
		l.pos++
	}
}

// scanString scans a quoted string literal. \n and \t decode to their
// control characters; any other escaped character is kept as-is. A missing
// closing quote is a hard scan failure: the stream ends.
func (l *lexer) scanString(quote byte) (token, bool) {
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		switch {
		case r == rune(quote):
			return token{kind: tokString, val: b.String()}, true
		case r == '\\':
			if l.pos >= len(l.src) {
				return token{}, false
			}
			esc, escSize := utf8.DecodeRuneInString(l.src[l.pos:])
			l.pos += escSize
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
	return token{}, false
}

func (l *lexer) scanIdent() token {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
	}
	word := l.src[start:l.pos]
	if kind, ok := keywords[word]; ok {
		return token{kind: kind}
	}
	return token{kind: tokIdent, val: word}
}
