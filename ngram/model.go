// Package ngram implements a count-based n-gram language model over token
// sequences with additive smoothing, backoff completion and evaluation.
package ngram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	StartToken = "<START>"
	EndToken   = "<END>"
)

var (
	ErrInvalidConfiguration = errors.New("invalid model configuration")
	ErrContextLength        = errors.New("context has wrong length")
)

type Smoothing int

const (
	SmoothingNone Smoothing = iota
	SmoothingLaplace
	SmoothingAddK
)

var smoothingNames = map[Smoothing]string{
	SmoothingNone:    "none",
	SmoothingLaplace: "laplace",
	SmoothingAddK:    "add-k",
}

func (s Smoothing) String() string {
	if name, ok := smoothingNames[s]; ok {
		return name
	}
	return "unknown"
}

func ParseSmoothing(name string) (Smoothing, error) {
	for s, n := range smoothingNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown smoothing %q (expected none, laplace, or add-k)", ErrInvalidConfiguration, name)
}

// continuations holds the next-token counts recorded under one context.
// tokens keeps first-seen order; total always equals the sum of counts.
type continuations struct {
	context []string
	tokens  []string
	counts  map[string]int
	total   int
}

func (c *continuations) add(token string) {
	if _, ok := c.counts[token]; !ok {
		c.tokens = append(c.tokens, token)
	}
	c.counts[token]++
	c.total++
}

// Model is an n-gram count table plus the vocabulary seen during training.
// It is not safe for concurrent training.
type Model struct {
	n         int
	smoothing Smoothing
	k         float64

	table      map[string]*continuations
	order      []string
	vocabulary map[string]struct{}
	vocabSize  int
}

func New(n int, smoothing Smoothing, k float64) (*Model, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be >= 1, got %d", ErrInvalidConfiguration, n)
	}
	switch smoothing {
	case SmoothingNone:
	case SmoothingLaplace:
		k = 1
	case SmoothingAddK:
		if k <= 0 {
			return nil, fmt.Errorf("%w: add-k requires k > 0, got %g", ErrInvalidConfiguration, k)
		}
	default:
		return nil, fmt.Errorf("%w: unknown smoothing %d", ErrInvalidConfiguration, int(smoothing))
	}
	return &Model{
		n:          n,
		smoothing:  smoothing,
		k:          k,
		table:      make(map[string]*continuations),
		vocabulary: make(map[string]struct{}),
	}, nil
}

func (m *Model) N() int               { return m.n }
func (m *Model) Smoothing() Smoothing { return m.smoothing }
func (m *Model) K() float64           { return m.k }

// VocabSize is the number of distinct tokens, markers included, seen by the
// last training pass.
func (m *Model) VocabSize() int { return m.vocabSize }

func (m *Model) HasToken(token string) bool {
	_, ok := m.vocabulary[token]
	return ok
}

// Pad surrounds tokens with n-1 start markers and a single end marker.
func (m *Model) Pad(tokens []string) []string {
	padded := make([]string, 0, len(tokens)+m.n)
	for i := 0; i < m.n-1; i++ {
		padded = append(padded, StartToken)
	}
	padded = append(padded, tokens...)
	return append(padded, EndToken)
}

// Train counts every sequence of corpus. Calling it again on the same model
// adds to the existing counts.
func (m *Model) Train(corpus [][]string) {
	for _, seq := range corpus {
		m.TrainSequence(seq)
	}
	log.Debugf("trained %d-gram model: %d contexts, vocabulary size %d", m.n, len(m.order), m.vocabSize)
}

// TrainSequence counts the n-grams of a single sequence. Empty sequences are
// ignored.
func (m *Model) TrainSequence(tokens []string) {
	if len(tokens) == 0 {
		return
	}
	padded := m.Pad(tokens)
	for _, tok := range padded {
		m.vocabulary[tok] = struct{}{}
	}
	for i := 0; i+m.n <= len(padded); i++ {
		m.record(padded[i:i+m.n-1], padded[i+m.n-1])
	}
	m.vocabSize = len(m.vocabulary)
}

func (m *Model) record(context []string, next string) {
	key := ContextKey(context)
	c, ok := m.table[key]
	if !ok {
		c = &continuations{
			context: append([]string(nil), context...),
			counts:  make(map[string]int),
		}
		m.table[key] = c
		m.order = append(m.order, key)
	}
	c.add(next)
}

// ContextKey encodes context as a string that differs for every distinct
// token sequence. Each token is written as its byte length, a colon and the
// token itself.
func ContextKey(context []string) string {
	var b strings.Builder
	for _, tok := range context {
		b.WriteString(strconv.Itoa(len(tok)))
		b.WriteByte(':')
		b.WriteString(tok)
	}
	return b.String()
}

// Count returns how often token followed context in training.
func (m *Model) Count(context []string, token string) int {
	if c, ok := m.table[ContextKey(context)]; ok {
		return c.counts[token]
	}
	return 0
}

// ContextTotal returns how often context was observed.
func (m *Model) ContextTotal(context []string) int {
	if c, ok := m.table[ContextKey(context)]; ok {
		return c.total
	}
	return 0
}

// Contexts returns every observed context in first-seen order.
func (m *Model) Contexts() [][]string {
	out := make([][]string, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, append([]string(nil), m.table[key].context...))
	}
	return out
}

// Continuations returns the tokens seen after context in first-seen order.
func (m *Model) Continuations(context []string) []string {
	c, ok := m.table[ContextKey(context)]
	if !ok {
		return nil
	}
	return append([]string(nil), c.tokens...)
}

// Probability returns the smoothed probability of token following context.
// The context must hold exactly n-1 tokens.
func (m *Model) Probability(context []string, token string) (float64, error) {
	if len(context) != m.n-1 {
		return 0, fmt.Errorf("%w: got %d tokens, want %d", ErrContextLength, len(context), m.n-1)
	}
	return m.probability(ContextKey(context), token)
}

func (m *Model) probability(key string, token string) (float64, error) {
	var count, total int
	if c, ok := m.table[key]; ok {
		count = c.counts[token]
		total = c.total
	}

	switch m.smoothing {
	case SmoothingNone:
		if total == 0 {
			return 0, nil
		}
		return float64(count) / float64(total), nil
	case SmoothingLaplace:
		if total+m.vocabSize == 0 {
			return 0, nil
		}
		return float64(count+1) / float64(total+m.vocabSize), nil
	case SmoothingAddK:
		denom := float64(total) + m.k*float64(m.vocabSize)
		if denom == 0 {
			return 0, nil
		}
		return (float64(count) + m.k) / denom, nil
	}
	return 0, fmt.Errorf("%w: unknown smoothing %d", ErrInvalidConfiguration, int(m.smoothing))
}

// MapUnknown replaces tokens the model never saw with unk, provided unk
// itself was seen in training. Otherwise tokens are returned unchanged.
func (m *Model) MapUnknown(tokens []string, unk string) []string {
	if !m.HasToken(unk) {
		return tokens
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		if m.HasToken(tok) {
			out[i] = tok
		} else {
			out[i] = unk
		}
	}
	return out
}
