package lexer

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	TokenIdent
	TokenKeyword
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock

	// TokenOperator covers both operators and separators; Literal tells them apart.
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenIdent:         "Identifier",
	TokenKeyword:       "Keyword",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenOperator:      "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// Is reports whether the token is an operator, separator, or keyword spelled s.
func (t Token) Is(s string) bool {
	return (t.Kind == TokenOperator || t.Kind == TokenKeyword) && t.Literal == s
}

func (t Token) IsTrivia() bool {
	return t.Kind == TokenWhitespace || t.Kind == TokenComment || t.Kind == TokenLineComment
}

func (t Token) IsDocComment() bool {
	return t.Kind == TokenComment && len(t.Literal) >= 5 && t.Literal[:3] == "/**"
}

// Keywords are the reserved words of Java plus the boolean and null literals.
// Contextual keywords such as var, record and yield lex as identifiers.
var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true,
	"extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true,
	"long": true, "native": true, "new": true, "package": true,
	"private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true,
	"throws": true, "transient": true, "try": true, "void": true,
	"volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

func IsKeyword(ident string) bool {
	return keywords[ident]
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

func IsPrimitiveType(s string) bool {
	return primitiveTypes[s]
}

// operators is ordered longest first so the scanner is greedy.
var operators = []string{
	">>>=",
	"<<=", ">>=", ">>>", "...",
	"::", "->", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"<<", ">>", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "@",
	"=", "<", ">", "!", "~", "?", ":", "&", "|", "^",
	"+", "-", "*", "/", "%",
}
