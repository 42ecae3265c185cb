// Package token turns a source-code byte stream into a flat sequence of
// lexical tokens, tolerating constructs it doesn't fully understand rather
// than failing the whole file.
package token

import "fmt"

// Token is a single lexeme with the 1-based source line it started on.
type Token struct {
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%q@%d", t.Lexeme, t.Line)
}

// multiCharPunctuators is tried longest-first so "::" isn't split into two
// ":" tokens, etc. Order matters: 3-char before 2-char before 1-char.
var multiCharPunctuators = []string{
	"<<=", ">>=", "...",
	"::", "->", "<<", ">>", "==", "!=", "<=", ">=", "&&", "||",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r byte) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r byte) bool {
	return r >= '0' && r <= '9'
}
