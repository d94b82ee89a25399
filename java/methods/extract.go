// Package methods finds method declarations in Java source and measures them.
package methods

import (
	"github.com/dhamidi/codegram/java/lexer"
)

type Method struct {
	Name       string
	Signature  string
	StartLine  int
	EndLine    int
	Source     string
	DocComment string
	Tokens     []lexer.Token
}

type scope int

const (
	scopeType scope = iota
	scopeBlock
)

// Extract returns the methods with a body declared directly in a class,
// interface, enum or record body of src. Constructors, abstract methods and
// methods of anonymous or local classes are not reported.
func Extract(src []byte, file string) []Method {
	toks := lexer.Tokenize(src, lexer.WithFile(file), lexer.WithComments())
	x := &extractor{src: src, toks: toks, memberStart: -1}
	x.run()
	return x.methods
}

type extractor struct {
	src     []byte
	toks    []lexer.Token
	methods []Method

	stack       []scope
	memberStart int
	pendingDoc  string
	memberDoc   string
}

// declarationLevel is true at file scope and directly inside a type body,
// where member declarations start.
func (x *extractor) declarationLevel() bool {
	return len(x.stack) == 0 || x.stack[len(x.stack)-1] == scopeType
}

func (x *extractor) run() {
	for i := 0; i < len(x.toks); i++ {
		tok := x.toks[i]

		if !x.declarationLevel() {
			switch {
			case tok.Is("{"):
				x.stack = append(x.stack, scopeBlock)
			case tok.Is("}"):
				x.pop()
			}
			continue
		}

		if tok.Kind == lexer.TokenComment || tok.Kind == lexer.TokenLineComment {
			if tok.IsDocComment() && x.memberStart < 0 {
				x.pendingDoc = tok.Literal
			}
			continue
		}
		if x.memberStart < 0 {
			x.memberStart = i
			x.memberDoc = x.pendingDoc
			x.pendingDoc = ""
		}

		switch {
		case tok.Is(";"):
			x.memberStart = -1
		case tok.Is("("):
			if end, ok := x.method(i); ok {
				i = end
				x.memberStart = -1
			}
		case tok.Is("{"):
			if x.declaresType(i) {
				x.stack = append(x.stack, scopeType)
				x.memberStart = -1
			} else {
				x.stack = append(x.stack, scopeBlock)
			}
		case tok.Is("}"):
			x.pop()
			x.memberStart = -1
		}
	}
}

// pop closes the innermost scope. Returning to declaration level ends an
// initializer block, but not a field whose initializer continues to a ';'.
func (x *extractor) pop() {
	if len(x.stack) == 0 {
		return
	}
	x.stack = x.stack[:len(x.stack)-1]
	if x.declarationLevel() && x.memberStart >= 0 && !x.memberHasAssignment() {
		x.memberStart = -1
	}
}

func (x *extractor) memberHasAssignment() bool {
	for _, tok := range x.toks[x.memberStart:] {
		if tok.Is("=") {
			return true
		}
		if tok.Is("{") {
			return false
		}
	}
	return false
}

func (x *extractor) declaresType(brace int) bool {
	for j := x.memberStart; j >= 0 && j < brace; j++ {
		tok := x.toks[j]
		if tok.Is("class") || tok.Is("interface") || tok.Is("enum") {
			// Foo.class inside an initializer is a literal, not a declaration.
			if prev, ok := x.prevSignificant(j); ok && x.toks[prev].Is(".") {
				continue
			}
			return true
		}
		if tok.Kind == lexer.TokenIdent && tok.Literal == "record" {
			if next, ok := x.nextSignificant(j); ok && x.toks[next].Kind == lexer.TokenIdent {
				return true
			}
		}
		if tok.Is("=") {
			return false
		}
	}
	return false
}

// method checks whether the '(' at paren opens the parameter list of a
// method with a body and, if so, records it and returns the index of the
// closing brace.
func (x *extractor) method(paren int) (int, bool) {
	if len(x.stack) == 0 {
		return 0, false
	}
	nameIdx, ok := x.prevSignificant(paren)
	if !ok || x.toks[nameIdx].Kind != lexer.TokenIdent {
		return 0, false
	}
	typeIdx, ok := x.prevSignificant(nameIdx)
	if !ok || !x.endsType(typeIdx) {
		return 0, false
	}

	closeParen := x.match(paren, "(", ")")
	if closeParen < 0 {
		return 0, false
	}
	body, ok := x.nextSignificant(closeParen)
	if ok && x.toks[body].Is("throws") {
		for ok && !x.toks[body].Is("{") && !x.toks[body].Is(";") {
			body, ok = x.nextSignificant(body)
		}
	}
	if !ok || !x.toks[body].Is("{") {
		return 0, false
	}
	closeBrace := x.match(body, "{", "}")
	if closeBrace < 0 {
		return 0, false
	}

	first := x.toks[x.memberStart]
	last := x.toks[closeBrace]
	m := Method{
		Name:       x.toks[nameIdx].Literal,
		Signature:  x.toks[nameIdx].Literal + string(x.src[x.toks[paren].Span.Start.Offset:x.toks[closeParen].Span.End.Offset]),
		StartLine:  first.Span.Start.Line,
		EndLine:    last.Span.End.Line,
		Source:     string(x.src[first.Span.Start.Offset:last.Span.End.Offset]),
		DocComment: x.memberDoc,
	}
	for _, tok := range x.toks[x.memberStart : closeBrace+1] {
		if !tok.IsTrivia() {
			m.Tokens = append(m.Tokens, tok)
		}
	}
	x.methods = append(x.methods, m)
	return closeBrace, true
}

// endsType reports whether the token can be the last token of a return type.
func (x *extractor) endsType(i int) bool {
	tok := x.toks[i]
	switch {
	case tok.Kind == lexer.TokenIdent:
		return tok.Literal != "record"
	case tok.Kind == lexer.TokenKeyword:
		return tok.Literal == "void" || lexer.IsPrimitiveType(tok.Literal)
	}
	return tok.Is(">") || tok.Is(">>") || tok.Is(">>>") || tok.Is("]")
}

func (x *extractor) match(open int, openLit, closeLit string) int {
	depth := 0
	for j := open; j < len(x.toks); j++ {
		switch {
		case x.toks[j].Is(openLit):
			depth++
		case x.toks[j].Is(closeLit):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func (x *extractor) prevSignificant(i int) (int, bool) {
	for j := i - 1; j >= 0; j-- {
		if !x.toks[j].IsTrivia() {
			return j, true
		}
	}
	return 0, false
}

func (x *extractor) nextSignificant(i int) (int, bool) {
	for j := i + 1; j < len(x.toks); j++ {
		if !x.toks[j].IsTrivia() {
			return j, true
		}
	}
	return 0, false
}
