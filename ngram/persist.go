package ngram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

var ErrCorruptModel = errors.New("corrupt model file")

type jsonModel struct {
	N          int           `json:"n"`
	Smoothing  string        `json:"smoothing"`
	K          float64       `json:"k"`
	VocabSize  int           `json:"vocab_size"`
	Vocabulary []string      `json:"vocabulary"`
	Contexts   []jsonContext `json:"contexts"`
}

type jsonContext struct {
	Context []string    `json:"context"`
	Total   int         `json:"total"`
	Next    []jsonCount `json:"next"`
}

type jsonCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Save writes the model as JSON. Contexts and their continuations keep their
// first-seen order so a loaded model ranks ties identically.
func (m *Model) Save(w io.Writer) error {
	data := jsonModel{
		N:          m.n,
		Smoothing:  m.smoothing.String(),
		K:          m.k,
		VocabSize:  m.vocabSize,
		Vocabulary: make([]string, 0, len(m.vocabulary)),
		Contexts:   make([]jsonContext, 0, len(m.order)),
	}
	for tok := range m.vocabulary {
		data.Vocabulary = append(data.Vocabulary, tok)
	}
	sort.Strings(data.Vocabulary)

	for _, key := range m.order {
		c := m.table[key]
		jc := jsonContext{Context: c.context, Total: c.total, Next: make([]jsonCount, 0, len(c.tokens))}
		for _, tok := range c.tokens {
			jc.Next = append(jc.Next, jsonCount{Token: tok, Count: c.counts[tok]})
		}
		data.Contexts = append(data.Contexts, jc)
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// Load reads a model written by Save and checks that every stored context
// total matches the sum of its counts.
func Load(r io.Reader) (*Model, error) {
	var data jsonModel
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	smoothing, err := ParseSmoothing(data.Smoothing)
	if err != nil {
		return nil, err
	}
	m, err := New(data.N, smoothing, data.K)
	if err != nil {
		return nil, err
	}

	for _, tok := range data.Vocabulary {
		m.vocabulary[tok] = struct{}{}
	}
	m.vocabSize = data.VocabSize
	if m.vocabSize != len(m.vocabulary) {
		return nil, fmt.Errorf("%w: vocab_size %d but %d vocabulary entries", ErrCorruptModel, m.vocabSize, len(m.vocabulary))
	}

	for _, jc := range data.Contexts {
		if len(jc.Context) != m.n-1 {
			return nil, fmt.Errorf("%w: context %v has %d tokens, want %d", ErrCorruptModel, jc.Context, len(jc.Context), m.n-1)
		}
		key := ContextKey(jc.Context)
		if _, dup := m.table[key]; dup {
			return nil, fmt.Errorf("%w: duplicate context %v", ErrCorruptModel, jc.Context)
		}
		c := &continuations{context: jc.Context, counts: make(map[string]int, len(jc.Next))}
		for _, next := range jc.Next {
			if next.Count <= 0 {
				return nil, fmt.Errorf("%w: non-positive count for %q after %v", ErrCorruptModel, next.Token, jc.Context)
			}
			if _, dup := c.counts[next.Token]; dup {
				return nil, fmt.Errorf("%w: duplicate token %q after %v", ErrCorruptModel, next.Token, jc.Context)
			}
			c.tokens = append(c.tokens, next.Token)
			c.counts[next.Token] = next.Count
			c.total += next.Count
		}
		if c.total != jc.Total {
			return nil, fmt.Errorf("%w: context %v total %d, counts sum to %d", ErrCorruptModel, jc.Context, jc.Total, c.total)
		}
		m.table[key] = c
		m.order = append(m.order, key)
	}
	return m, nil
}

func (m *Model) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := m.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}
