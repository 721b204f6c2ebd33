package jinja

import "fmt"

type tokenKind int

const (
	tokText tokenKind = iota
	tokBlockStart // {%
	tokBlockEnd   // %}
	tokVarStart   // {{
	tokVarEnd     // }}

	// keywords
	tokIf
	tokElif
	tokElse
	tokEndif
	tokFor
	tokIn
	tokEndfor
	tokAnd
	tokOr
	tokTrue
	tokFalse

	// symbols
	tokEqEq     // ==
	tokPlus     // +
	tokDot      // .
	tokLBracket // [
	tokRBracket // ]
	tokLParen   // (
	tokRParen   // )

	tokIdent
	tokString
)

var keywords = map[string]tokenKind{
	"if":     tokIf,
	"elif":   tokElif,
	"else":   tokElse,
	"endif":  tokEndif,
	"for":    tokFor,
	"in":     tokIn,
	"endfor": tokEndfor,
	"and":    tokAnd,
	"or":     tokOr,
	"true":   tokTrue,
	"false":  tokFalse,
}

var tokenNames = map[tokenKind]string{
	tokText:       "literal text",
	tokBlockStart: "'{%'",
	tokBlockEnd:   "'%}'",
	tokVarStart:   "'{{'",
	tokVarEnd:     "'}}'",
	tokIf:         "'if'",
	tokElif:       "'elif'",
	tokElse:       "'else'",
	tokEndif:      "'endif'",
	tokFor:        "'for'",
	tokIn:         "'in'",
	tokEndfor:     "'endfor'",
	tokAnd:        "'and'",
	tokOr:         "'or'",
	tokTrue:       "'true'",
	tokFalse:      "'false'",
	tokEqEq:       "'=='",
	tokPlus:       "'+'",
	tokDot:        "'.'",
	tokLBracket:   "'['",
	tokRBracket:   "']'",
	tokLParen:     "'('",
	tokRParen:     "')'",
	tokIdent:      "identifier",
	tokString:     "string literal",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// token is one lexical unit. val is set for text, identifier, and string
// literal tokens; the kind alone identifies everything else.
type token struct {
	kind tokenKind
	val  string
}

// describe names a token for an error message, quoting its value where the
// kind alone is not specific enough.
func describe(tok token) string {
	switch tok.kind {
	case tokIdent:
		return fmt.Sprintf("identifier %q", tok.val)
	case tokString:
		return fmt.Sprintf("string literal %q", tok.val)
	case tokText:
		return fmt.Sprintf("literal text %q", tok.val)
	default:
		return tok.kind.String()
	}
}
