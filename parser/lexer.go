package parser

import (
	"fmt"
	"strings"
)

// ParseError reports a syntax or reference error with its source line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI            // <...>, value is the raw IRI
	tokPName          // prefixed name or the keyword "a"
	tokLiteral        // quoted literal, datatype IRI in token.datatype if given
	tokNumber         // bare integer
	tokDot
	tokSemicolon
	tokComma
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokPrefix // @prefix directive
)

type token struct {
	kind     tokenKind
	value    string
	datatype string
	line     int
}

// lexer splits Turtle input into tokens, tracking line numbers for error
// reporting. Comments run from '#' to end of line.
type lexer struct {
	input string
	pos   int
	line  int

	peeked *token
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1}
}

func (l *lexer) peek() (token, error) {
	if l.peeked == nil {
		t, err := l.scan()
		if err != nil {
			return token{}, err
		}
		l.peeked = &t
	}
	return *l.peeked, nil
}

func (l *lexer) next() (token, error) {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t, nil
	}
	return l.scan()
}

func (l *lexer) errf(format string, args ...any) *ParseError {
	return &ParseError{Line: l.line, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) scan() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	c := l.input[l.pos]
	switch c {
	case '.':
		l.pos++
		return token{kind: tokDot, line: l.line}, nil
	case ';':
		l.pos++
		return token{kind: tokSemicolon, line: l.line}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, line: l.line}, nil
	case '[':
		l.pos++
		return token{kind: tokLBracket, line: l.line}, nil
	case ']':
		l.pos++
		return token{kind: tokRBracket, line: l.line}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, line: l.line}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, line: l.line}, nil
	case '<':
		return l.scanIRI()
	case '"':
		return l.scanLiteral()
	case '@':
		return l.scanDirective()
	}
	if c >= '0' && c <= '9' {
		return l.scanNumber()
	}
	return l.scanPName()
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\n':
			l.line++
			l.pos++
		case ' ', '\t', '\r':
			l.pos++
		case '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) scanIRI() (token, error) {
	start := l.pos + 1
	end := strings.IndexByte(l.input[start:], '>')
	if end < 0 {
		return token{}, l.errf("unterminated IRI")
	}
	iri := l.input[start : start+end]
	if strings.ContainsAny(iri, " \n") {
		return token{}, l.errf("malformed IRI: %q", iri)
	}
	l.pos = start + end + 1
	return token{kind: tokIRI, value: iri, line: l.line}, nil
}

func (l *lexer) scanLiteral() (token, error) {
	line := l.line
	var sb strings.Builder
	i := l.pos + 1
	for {
		if i >= len(l.input) {
			return token{}, &ParseError{Line: line, Msg: "unterminated string literal"}
		}
		c := l.input[i]
		if c == '\\' && i+1 < len(l.input) {
			switch l.input[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteByte(l.input[i+1])
			default:
				return token{}, &ParseError{Line: line, Msg: fmt.Sprintf("unsupported escape \\%c", l.input[i+1])}
			}
			i += 2
			continue
		}
		if c == '"' {
			break
		}
		if c == '\n' {
			l.line++
		}
		sb.WriteByte(c)
		i++
	}
	l.pos = i + 1

	t := token{kind: tokLiteral, value: sb.String(), line: line}

	// Optional datatype or language tag.
	if strings.HasPrefix(l.input[l.pos:], "^^") {
		l.pos += 2
		dt, err := l.scan()
		if err != nil {
			return token{}, err
		}
		if dt.kind != tokIRI && dt.kind != tokPName {
			return token{}, &ParseError{Line: line, Msg: "expected datatype after ^^"}
		}
		t.datatype = dt.value
		if dt.kind == tokPName {
			t.datatype = "pname:" + dt.value
		}
	} else if l.pos < len(l.input) && l.input[l.pos] == '@' {
		l.pos++
		for l.pos < len(l.input) && isPNameChar(l.input[l.pos]) {
			l.pos++
		}
	}
	return t, nil
}

func (l *lexer) scanDirective() (token, error) {
	start := l.pos + 1
	end := start
	for end < len(l.input) && isPNameChar(l.input[end]) {
		end++
	}
	word := l.input[start:end]
	if word != "prefix" {
		return token{}, l.errf("unsupported directive @%s", word)
	}
	l.pos = end
	return token{kind: tokPrefix, line: l.line}, nil
}

func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
		l.pos++
	}
	return token{kind: tokNumber, value: l.input[start:l.pos], line: l.line}, nil
}

func (l *lexer) scanPName() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && isPNameChar(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return token{}, l.errf("unexpected character %q", l.input[l.pos])
	}
	return token{kind: tokPName, value: l.input[start:l.pos], line: l.line}, nil
}

// isPNameChar covers the prefixed-name alphabet this parser supports:
// letters, digits, underscore, hyphen, and colon.
func isPNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == ':':
		return true
	}
	return false
}
