package corpus

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dhamidi/codegram/java/lexer"
)

// Token classes reported in Statistics.TokenTypes.
const (
	TypeKeywords    = "keywords"
	TypeIdentifiers = "identifiers"
	TypeOperators   = "operators"
	TypeLiterals    = "literals"
	TypeSpecial     = "special"
)

var statOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "=": true,
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "!": true, "&": true, "|": true, "^": true,
	"~": true, "<<": true, ">>": true, "++": true, "--": true,
}

var statSpecials = map[string]bool{
	lexer.StringPlaceholder: true, lexer.NumberPlaceholder: true,
	BOS: true, EOS: true, UNK: true,
}

type Statistics struct {
	TotalSequences int                `json:"total_sequences"`
	TotalTokens    int                `json:"total_tokens"`
	UniqueTokens   int                `json:"unique_tokens"`
	VocabularySize int                `json:"vocabulary_size"`
	MeanLength     float64            `json:"avg_sequence_length"`
	MedianLength   float64            `json:"median_sequence_length"`
	MinLength      int                `json:"min_sequence_length"`
	MaxLength      int                `json:"max_sequence_length"`
	StdDevLength   float64            `json:"std_sequence_length"`
	TokenTypes     map[string]float64 `json:"token_type_distribution"`
	MostCommon     []TokenCount       `json:"most_common_tokens"`
}

// Statistics describes seqs. VocabularySize is that of the last vocabulary
// built by b, if any.
func (b *Builder) Statistics(seqs [][]string) Statistics {
	counter := NewBuilder()
	counter.count(seqs)

	s := Statistics{
		TotalSequences: len(seqs),
		UniqueTokens:   len(counter.order),
		TokenTypes: map[string]float64{
			TypeKeywords: 0, TypeIdentifiers: 0, TypeOperators: 0, TypeLiterals: 0, TypeSpecial: 0,
		},
		MostCommon: counter.MostCommon(20),
	}
	if b.vocabulary != nil {
		s.VocabularySize = b.vocabulary.Size()
	}
	if len(seqs) == 0 {
		return s
	}

	lengths := make([]float64, len(seqs))
	for i, seq := range seqs {
		lengths[i] = float64(len(seq))
	}
	s.TotalTokens = int(floats.Sum(lengths))
	s.MinLength = int(floats.Min(lengths))
	s.MaxLength = int(floats.Max(lengths))
	s.MeanLength, s.StdDevLength = stat.PopMeanStdDev(lengths, nil)
	s.MedianLength = median(lengths)

	if s.TotalTokens > 0 {
		for tok, n := range counter.counts {
			s.TokenTypes[classify(tok)] += float64(n)
		}
		for k, v := range s.TokenTypes {
			s.TokenTypes[k] = v / float64(s.TotalTokens) * 100
		}
	}
	return s
}

// median averages the two middle values for even lengths.
func median(x []float64) float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func classify(tok string) string {
	switch {
	case lexer.IsKeyword(tok):
		return TypeKeywords
	case statOperators[tok]:
		return TypeOperators
	case statSpecials[tok]:
		return TypeSpecial
	case isStringLiteral(tok) || isDigits(tok):
		return TypeLiterals
	default:
		return TypeIdentifiers
	}
}

func isDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
