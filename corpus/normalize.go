// Package corpus turns mined token sequences into training corpora: it
// normalizes literals, builds the vocabulary and reports corpus statistics.
package corpus

import (
	"strings"

	"github.com/dhamidi/codegram/java/lexer"
)

const (
	BOS = "<BOS>"
	EOS = "<EOS>"
	UNK = "<UNK>"
	PAD = "<PAD>"
)

// Normalizer rewrites literal tokens of already tokenized sequences.
type Normalizer struct {
	PreserveStrings bool
	PreserveNumbers bool
}

// Process drops empty tokens and replaces string and char literals with
// lexer.StringPlaceholder and numbers with lexer.NumberPlaceholder.
func (n Normalizer) Process(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case strings.TrimSpace(tok) == "":
			continue
		case !n.PreserveStrings && isStringLiteral(tok):
			out = append(out, lexer.StringPlaceholder)
		case !n.PreserveNumbers && isNumber(tok):
			out = append(out, lexer.NumberPlaceholder)
		default:
			out = append(out, tok)
		}
	}
	return out
}

func isStringLiteral(tok string) bool {
	return strings.HasPrefix(tok, `"`) || strings.HasPrefix(tok, "'")
}

// isNumber accepts digits with optional '.' and '-' such as 3.14 or -1.
func isNumber(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}

// AddMarkers wraps tokens in the bos and eos markers. Empty markers are
// not added.
func AddMarkers(tokens []string, bos, eos string) []string {
	out := make([]string, 0, len(tokens)+2)
	if bos != "" {
		out = append(out, bos)
	}
	out = append(out, tokens...)
	if eos != "" {
		out = append(out, eos)
	}
	return out
}
