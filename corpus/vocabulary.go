package corpus

import (
	"sort"

	"github.com/dhamidi/codegram/java/lexer"
)

// SpecialTokens always occupy the first vocabulary ids, in this order.
var SpecialTokens = []string{BOS, EOS, UNK, PAD, lexer.StringPlaceholder, lexer.NumberPlaceholder}

type Vocabulary struct {
	ids    map[string]int
	tokens []string
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int)}
}

func (v *Vocabulary) add(tok string) {
	if _, ok := v.ids[tok]; ok {
		return
	}
	v.ids[tok] = len(v.tokens)
	v.tokens = append(v.tokens, tok)
}

// ID returns the id of tok, or the id of UNK for tokens outside the
// vocabulary.
func (v *Vocabulary) ID(tok string) int {
	if id, ok := v.ids[tok]; ok {
		return id
	}
	return v.ids[UNK]
}

func (v *Vocabulary) Contains(tok string) bool {
	_, ok := v.ids[tok]
	return ok
}

func (v *Vocabulary) TokensToIDs(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = v.ID(tok)
	}
	return ids
}

// IDsToTokens maps ids back to tokens; unknown ids become UNK.
func (v *Vocabulary) IDsToTokens(ids []int) []string {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		if id >= 0 && id < len(v.tokens) {
			tokens[i] = v.tokens[id]
		} else {
			tokens[i] = UNK
		}
	}
	return tokens
}

func (v *Vocabulary) Size() int { return len(v.tokens) }

// Tokens returns the vocabulary in id order.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.tokens...)
}

// TokenCount is a token with its corpus frequency.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Builder accumulates token frequencies and derives a vocabulary from them.
type Builder struct {
	counts     map[string]int
	order      []string
	vocabulary *Vocabulary
}

func NewBuilder() *Builder {
	return &Builder{counts: make(map[string]int)}
}

func (b *Builder) count(seqs [][]string) {
	for _, seq := range seqs {
		for _, tok := range seq {
			if _, ok := b.counts[tok]; !ok {
				b.order = append(b.order, tok)
			}
			b.counts[tok]++
		}
	}
}

// MostCommon returns the counted tokens by descending frequency, ties in
// first-seen order. limit <= 0 returns all of them.
func (b *Builder) MostCommon(limit int) []TokenCount {
	out := make([]TokenCount, len(b.order))
	for i, tok := range b.order {
		out[i] = TokenCount{Token: tok, Count: b.counts[tok]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BuildVocabulary counts seqs and returns a vocabulary of the special tokens
// followed by every token seen at least minFrequency times, most frequent
// first, until maxVocabSize entries. maxVocabSize <= 0 means unlimited.
func (b *Builder) BuildVocabulary(seqs [][]string, minFrequency, maxVocabSize int) *Vocabulary {
	b.count(seqs)
	v := newVocabulary()
	for _, tok := range SpecialTokens {
		v.add(tok)
	}
	for _, tc := range b.MostCommon(0) {
		if maxVocabSize > 0 && v.Size() >= maxVocabSize {
			break
		}
		if tc.Count < minFrequency {
			break
		}
		v.add(tc.Token)
	}
	b.vocabulary = v
	log.Infof("vocabulary: %d tokens (%d unique in corpus)", v.Size(), len(b.order))
	return v
}
