package ngram

import (
	"math/rand/v2"
	"sort"
)

// DefaultTopK is the number of candidates considered per sampling step and
// by the accuracy evaluation.
const DefaultTopK = 5

// closingTokens end a completion once drawn. They are kept in the output.
var closingTokens = map[string]bool{
	"}": true,
	";": true,
}

type Prediction struct {
	Token       string  `json:"token"`
	Probability float64 `json:"probability"`
}

// Completion is a sampled continuation together with the prediction set each
// sampling step drew from.
type Completion struct {
	Tokens []string       `json:"tokens"`
	Trace  [][]Prediction `json:"trace"`
}

// Normalize left-pads context with start markers or keeps its last n-1
// tokens so it can be used as a lookup key.
func (m *Model) Normalize(context []string) []string {
	size := m.n - 1
	if len(context) < size {
		out := make([]string, 0, size)
		for i := len(context); i < size; i++ {
			out = append(out, StartToken)
		}
		return append(out, context...)
	}
	return append([]string(nil), context[len(context)-size:]...)
}

// PredictNext ranks the tokens observed after context by probability. Ties
// keep the order in which the continuations were first seen. An unseen
// context yields no predictions. topK <= 0 returns every candidate.
func (m *Model) PredictNext(context []string, topK int) []Prediction {
	key := ContextKey(m.Normalize(context))
	c, ok := m.table[key]
	if !ok {
		return nil
	}

	predictions := make([]Prediction, 0, len(c.tokens))
	for _, tok := range c.tokens {
		p, err := m.probability(key, tok)
		if err != nil {
			return nil
		}
		predictions = append(predictions, Prediction{Token: tok, Probability: p})
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability > predictions[j].Probability
	})

	if topK > 0 && len(predictions) > topK {
		predictions = predictions[:topK]
	}
	return predictions
}

// SampleCompletion extends context by at most maxLength tokens. When the
// current context has no continuations the search backs off by dropping its
// leftmost token; the backoff never changes the context carried to the next
// step. Generation stops on the end marker (not emitted), on a closing token
// (emitted), or when no prediction can be made.
func (m *Model) SampleCompletion(context []string, maxLength int, rng *rand.Rand) Completion {
	var completion Completion
	running := append([]string(nil), context...)

	for i := 0; i < maxLength; i++ {
		predictions := m.backoff(running)
		if len(predictions) == 0 {
			break
		}
		completion.Trace = append(completion.Trace, predictions)

		chosen, ok := sample(predictions, rng)
		if !ok {
			break
		}
		if chosen == EndToken {
			break
		}
		completion.Tokens = append(completion.Tokens, chosen)
		if closingTokens[chosen] {
			break
		}

		running = append(running, chosen)
		if size := m.n - 1; size > 0 && len(running) > size {
			running = append([]string(nil), running[len(running)-size:]...)
		}
	}
	return completion
}

func (m *Model) backoff(context []string) []Prediction {
	search := context
	for len(search) > 0 {
		if predictions := m.PredictNext(search, DefaultTopK); len(predictions) > 0 {
			return predictions
		}
		search = search[1:]
	}
	return nil
}

// sample draws a token with probability proportional to its weight by
// inverting the cumulative distribution.
func sample(predictions []Prediction, rng *rand.Rand) (string, bool) {
	var sum float64
	for _, p := range predictions {
		sum += p.Probability
	}
	if sum <= 0 {
		return "", false
	}

	u := rng.Float64()
	var cumulative float64
	for _, p := range predictions {
		cumulative += p.Probability / sum
		if u < cumulative {
			return p.Token, true
		}
	}
	return predictions[len(predictions)-1].Token, true
}

// NewRand returns a deterministic random source for SampleCompletion.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
