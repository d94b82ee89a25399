// Package lexer turns Java source into tokens. It does not parse: callers
// that need structure scan the token stream themselves.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case ch == '/' && l.peekN(1) == '/':
		for l.peek() != 0 && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenLineComment, start)
	case ch == '/' && l.peekN(1) == '*':
		l.scanBlockComment()
		return l.token(TokenComment, start)
	case isSpace(ch):
		for isSpace(l.peek()) {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	case isJavaLetter(l.input[l.pos:]):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	case ch == '\'':
		l.scanQuoted('\'')
		return l.token(TokenCharLiteral, start)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.scanTextBlock()
			return l.token(TokenTextBlock, start)
		}
		l.scanQuoted('"')
		return l.token(TokenStringLiteral, start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanBlockComment() {
	l.advanceN(2)
	for l.peek() != 0 {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < len(l.input) && isJavaLetterOrDigit(l.input[l.pos:]) {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.advanceN(size)
	}
	tok := l.token(TokenIdent, start)

	// non-sealed is the only hyphenated keyword.
	if tok.Literal == "non" && strings.HasPrefix(string(l.input[l.pos:]), "-sealed") {
		rest := l.input[l.pos+len("-sealed"):]
		if len(rest) == 0 || !isJavaLetterOrDigit(rest) {
			l.advanceN(len("-sealed"))
			tok = l.token(TokenIdent, start)
		}
	}
	if IsKeyword(tok.Literal) {
		tok.Kind = TokenKeyword
	}
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X' || l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		hex := l.peekN(1) == 'x' || l.peekN(1) == 'X'
		l.advanceN(2)
		isFloat := false
		for isHexDigit(l.peek()) || l.peek() == '_' || (hex && l.peek() == '.') {
			if l.peek() == '.' {
				isFloat = true
			}
			l.advance()
		}
		if hex && (l.peek() == 'p' || l.peek() == 'P') {
			isFloat = true
			l.scanExponent()
		}
		return l.numberSuffix(start, isFloat)
	}

	isFloat := false
	l.scanDigits()
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		l.scanDigits()
	} else if l.peek() == '.' && !isJavaLetter(l.input[min(l.pos+1, len(l.input)):]) && l.peekN(1) != '.' {
		// "1." is a complete floating-point literal.
		isFloat = true
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.scanExponent()
	}
	return l.numberSuffix(start, isFloat)
}

func (l *Lexer) scanDigits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) scanExponent() {
	l.advance()
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	l.scanDigits()
}

func (l *Lexer) numberSuffix(start Position, isFloat bool) Token {
	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'l', 'L':
		l.advance()
	}
	if isFloat {
		return l.token(TokenFloatLiteral, start)
	}
	return l.token(TokenIntLiteral, start)
}

func (l *Lexer) scanQuoted(quote byte) {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
}

func (l *Lexer) scanTextBlock() {
	l.advanceN(3)
	for l.peek() != 0 {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
}

func (l *Lexer) scanOperator(start Position) Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			l.advanceN(len(op))
			return l.token(TokenOperator, start)
		}
	}
	_, size := utf8.DecodeRune(rest)
	l.advanceN(size)
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	ch := b[0]
	if ch >= utf8.RuneSelf {
		r, _ := utf8.DecodeRune(b)
		return unicode.IsLetter(r)
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isJavaLetterOrDigit(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] >= utf8.RuneSelf {
		r, _ := utf8.DecodeRune(b)
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return isJavaLetter(b) || isDigit(b[0])
}
