package methods

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/dhamidi/codegram/java/lexer"
)

type Metrics struct {
	CyclomaticComplexity int `json:"cyclomatic_complexity"`
	NestingDepth         int `json:"nesting_depth"`
	Identifiers          int `json:"n_identifiers"`
	VocabSize            int `json:"vocab_size"`
	Whitespaces          int `json:"n_whitespaces"`
	Words                int `json:"n_words"`
	NLOC                 int `json:"nloc"`
	TokenCount           int `json:"token_counts"`
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

var decisionKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "catch": true, "case": true,
}

func Measure(m Method) Metrics {
	metrics := Metrics{
		CyclomaticComplexity: 1,
		TokenCount:           len(m.Tokens),
		Words:                len(wordPattern.FindAllStringIndex(m.Source, -1)),
	}

	identifiers := map[string]bool{}
	vocab := map[string]bool{}
	depth := 0
	for i, tok := range m.Tokens {
		vocab[tok.Literal] = true
		next := ""
		if i+1 < len(m.Tokens) {
			next = m.Tokens[i+1].Literal
		}

		switch tok.Kind {
		case lexer.TokenIdent:
			identifiers[tok.Literal] = true
		case lexer.TokenKeyword:
			if decisionKeywords[tok.Literal] {
				metrics.CyclomaticComplexity++
			}
			if tok.Literal == "default" && (next == ":" || next == "->") {
				metrics.CyclomaticComplexity++
			}
		case lexer.TokenOperator:
			switch tok.Literal {
			case "&&", "||":
				metrics.CyclomaticComplexity++
			case "?":
				if !isWildcard(next) {
					metrics.CyclomaticComplexity++
				}
			case "{":
				depth++
				metrics.NestingDepth = max(metrics.NestingDepth, depth)
			case "}":
				depth--
			}
		}
	}
	metrics.Identifiers = len(identifiers)
	metrics.VocabSize = len(vocab)

	for _, r := range m.Source {
		if unicode.IsSpace(r) {
			metrics.Whitespaces++
		}
	}
	for _, line := range strings.Split(m.Source, "\n") {
		if strings.TrimSpace(line) != "" {
			metrics.NLOC++
		}
	}
	return metrics
}

// isWildcard reports whether a '?' followed by next is a generic wildcard
// such as List<?> or Map<? extends K, V>.
func isWildcard(next string) bool {
	switch next {
	case ">", ">>", ">>>", ",", "extends", "super":
		return true
	}
	return false
}

// IsGenerated reports whether the method source carries a @Generated
// annotation or a "generated by" marker.
func IsGenerated(m Method) bool {
	return strings.Contains(m.Source, "@Generated") ||
		strings.Contains(strings.ToLower(m.Source), "generated by")
}

// IsTestPath reports whether path looks like test code.
func IsTestPath(path string) bool {
	return strings.Contains(strings.ToLower(filepath.ToSlash(path)), "test")
}
