package lexer

import (
	"strings"
	"unicode"
)

const (
	StringPlaceholder = "<STRING>"
	NumberPlaceholder = "<NUM>"
)

type options struct {
	file            string
	comments        bool
	preserveStrings bool
	preserveNumbers bool
	subtokenize     bool
}

type Option func(*options)

func WithFile(file string) Option {
	return func(o *options) { o.file = file }
}

// WithComments keeps block and line comments in the output of Tokenize.
func WithComments() Option {
	return func(o *options) { o.comments = true }
}

// PreserveStrings keeps string, char and text block literals verbatim
// instead of replacing them with StringPlaceholder.
func PreserveStrings() Option {
	return func(o *options) { o.preserveStrings = true }
}

// PreserveNumbers keeps numeric literals verbatim instead of replacing them
// with NumberPlaceholder.
func PreserveNumbers() Option {
	return func(o *options) { o.preserveNumbers = true }
}

// SubtokenizeIdentifiers splits identifiers on camelCase, snake_case and
// digit boundaries and lower-cases the parts.
func SubtokenizeIdentifiers() Option {
	return func(o *options) { o.subtokenize = true }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Tokenize returns every token of src except whitespace. Comments are
// dropped unless WithComments is given.
func Tokenize(src []byte, opts ...Option) []Token {
	o := buildOptions(opts)
	lex := NewLexer(src, o.file)
	var tokens []Token
	for {
		tok := lex.NextToken()
		if tok.Kind == TokenEOF {
			return tokens
		}
		if tok.Kind == TokenWhitespace {
			continue
		}
		if !o.comments && (tok.Kind == TokenComment || tok.Kind == TokenLineComment) {
			continue
		}
		tokens = append(tokens, tok)
	}
}

// CodeTokens returns the token strings of src in source order, the form the
// language model is trained on.
func CodeTokens(src []byte, opts ...Option) []string {
	return Strings(Tokenize(src, opts...), opts...)
}

// Strings converts already lexed tokens the same way CodeTokens does.
// Trivia tokens are skipped.
func Strings(tokens []Token, opts ...Option) []string {
	o := buildOptions(opts)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		case TokenStringLiteral, TokenCharLiteral, TokenTextBlock:
			if !o.preserveStrings {
				out = append(out, StringPlaceholder)
				continue
			}
		case TokenIntLiteral, TokenFloatLiteral:
			if !o.preserveNumbers {
				out = append(out, NumberPlaceholder)
				continue
			}
		case TokenIdent:
			if o.subtokenize {
				out = append(out, Subtokenize(tok.Literal)...)
				continue
			}
		}
		out = append(out, tok.Literal)
	}
	return out
}

// Subtokenize splits an identifier such as parseHTTPResponse2 into
// parse, http, response, 2.
func Subtokenize(ident string) []string {
	var parts []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			parts = append(parts, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(ident)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
			continue
		case len(current) == 0:
		case unicode.IsDigit(r) != unicode.IsDigit(current[len(current)-1]):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(current[len(current)-1]):
			flush()
		case unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(current[len(current)-1]):
			// The last capital of an acronym starts the next word.
			flush()
		}
		current = append(current, r)
	}
	flush()

	if len(parts) == 0 {
		return []string{strings.ToLower(ident)}
	}
	return parts
}
