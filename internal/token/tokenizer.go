package token

import (
	"bufio"
	"io"
	"os"

	"github.com/adrisola/typedep/internal/errcode"
)

// Tokenizer produces a stream of Tokens from an open source file, tracking
// the line count as lines are fully consumed. Malformed literals yield a
// best-effort token instead of failing — parser robustness over strict
// lexing, per the analyzer's error-handling design.
type Tokenizer struct {
	r    *bufio.Reader
	f    io.Closer
	line int
	peek []Token
}

// Open attaches a Tokenizer to the file at path. Returns a wrapped IoError
// (see internal/errcode) if the file cannot be opened.
func Open(path string) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errcode.Wrap(errcode.IoError, path, err)
	}
	return &Tokenizer{r: bufio.NewReader(f), f: f, line: 1}, nil
}

// Close releases the underlying file handle.
func (t *Tokenizer) Close() error {
	if t.f == nil {
		return nil
	}
	return t.f.Close()
}

// CurrentLineCount returns the number of lines fully consumed so far —
// used as the file's SLOC count once the whole stream has been drained.
func (t *Tokenizer) CurrentLineCount() int {
	return t.line
}

// Next returns the next token, or io.EOF when the stream is exhausted.
func (t *Tokenizer) Next() (Token, error) {
	if len(t.peek) > 0 {
		tok := t.peek[0]
		t.peek = t.peek[1:]
		return tok, nil
	}
	return t.scan()
}

func (t *Tokenizer) readByte() (byte, error) {
	b, err := t.r.ReadByte()
	if err == nil && b == '\n' {
		t.line++
	}
	return b, err
}

func (t *Tokenizer) unreadByte() {
	if t.r.UnreadByte() != nil {
		return
	}
	// readByte counted the newline being pushed back; it is counted again
	// when re-read.
	if b, err := t.r.Peek(1); err == nil && b[0] == '\n' {
		t.line--
	}
}

func (t *Tokenizer) scan() (Token, error) {
	for {
		b, err := t.readByte()
		if err != nil {
			return Token{}, err
		}

		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			continue

		case b == '/' :
			next, _ := t.r.Peek(1)
			if len(next) == 1 && next[0] == '/' {
				t.skipLineComment()
				continue
			}
			if len(next) == 1 && next[0] == '*' {
				t.skipBlockComment()
				continue
			}
			return t.scanPunct(b)

		case b == '#':
			return t.scanPreprocessorDirective()

		case b == '"':
			return t.scanStringLiteral()

		case b == '\'':
			return t.scanCharLiteral()

		case isIdentStart(b):
			return t.scanIdentifier(b)

		case isDigit(b):
			return t.scanNumber(b)

		default:
			return t.scanPunct(b)
		}
	}
}

func (t *Tokenizer) skipLineComment() {
	_, _ = t.readByte() // consume the second '/'
	for {
		b, err := t.readByte()
		if err != nil || b == '\n' {
			return
		}
	}
}

func (t *Tokenizer) skipBlockComment() {
	_, _ = t.readByte() // consume '*'
	prevStar := false
	for {
		b, err := t.readByte()
		if err != nil {
			return
		}
		if prevStar && b == '/' {
			return
		}
		prevStar = b == '*'
	}
}

// scanPreprocessorDirective consumes the rest of the physical line (honoring
// trailing backslash-continuation) and returns it as one opaque token, per
// the spec's "tolerates macros as opaque tokens" policy.
func (t *Tokenizer) scanPreprocessorDirective() (Token, error) {
	startLine := t.line
	buf := []byte{'#'}
	for {
		b, err := t.readByte()
		if err != nil {
			break
		}
		if b == '\\' {
			next, perr := t.r.Peek(1)
			if perr == nil && len(next) == 1 && next[0] == '\n' {
				_, _ = t.readByte()
				buf = append(buf, ' ')
				continue
			}
		}
		if b == '\n' {
			break
		}
		buf = append(buf, b)
	}
	return Token{Lexeme: string(buf), Line: startLine}, nil
}

func (t *Tokenizer) scanStringLiteral() (Token, error) {
	startLine := t.line
	buf := []byte{'"'}
	for {
		b, err := t.readByte()
		if err != nil {
			// Unterminated literal: best-effort token, don't fail the file.
			break
		}
		buf = append(buf, b)
		if b == '\\' {
			esc, eerr := t.readByte()
			if eerr != nil {
				break
			}
			buf = append(buf, esc)
			continue
		}
		if b == '"' {
			break
		}
	}
	return Token{Lexeme: string(buf), Line: startLine}, nil
}

func (t *Tokenizer) scanCharLiteral() (Token, error) {
	startLine := t.line
	buf := []byte{'\''}
	for {
		b, err := t.readByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
		if b == '\\' {
			esc, eerr := t.readByte()
			if eerr != nil {
				break
			}
			buf = append(buf, esc)
			continue
		}
		if b == '\'' {
			break
		}
	}
	return Token{Lexeme: string(buf), Line: startLine}, nil
}

func (t *Tokenizer) scanIdentifier(first byte) (Token, error) {
	startLine := t.line
	buf := []byte{first}
	for {
		b, err := t.readByte()
		if err != nil {
			break
		}
		if !isIdentCont(b) {
			t.unreadByte()
			break
		}
		buf = append(buf, b)
	}
	return Token{Lexeme: string(buf), Line: startLine}, nil
}

func (t *Tokenizer) scanNumber(first byte) (Token, error) {
	startLine := t.line
	buf := []byte{first}
	for {
		b, err := t.readByte()
		if err != nil {
			break
		}
		if isDigit(b) || b == '.' || b == 'x' || b == 'X' || b == 'e' || b == 'E' ||
			(b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') ||
			b == 'u' || b == 'U' || b == 'l' || b == 'L' || b == 'f' || b == 'F' ||
			b == '\'' /* C++14 digit separator */ {
			buf = append(buf, b)
			continue
		}
		t.unreadByte()
		break
	}
	return Token{Lexeme: string(buf), Line: startLine}, nil
}

func (t *Tokenizer) scanPunct(first byte) (Token, error) {
	startLine := t.line
	lookahead := make([]byte, 0, 3)
	lookahead = append(lookahead, first)
	peeked, _ := t.r.Peek(2)
	lookahead = append(lookahead, peeked...)

	for _, mc := range multiCharPunctuators {
		if len(lookahead) >= len(mc) && string(lookahead[:len(mc)]) == mc {
			for i := 0; i < len(mc)-1; i++ {
				_, _ = t.readByte()
			}
			return Token{Lexeme: mc, Line: startLine}, nil
		}
	}
	return Token{Lexeme: string(first), Line: startLine}, nil
}
