package lsp

import (
	"bytes"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/java/lexer"
	"github.com/dhamidi/codegram/ngram"
)

// Completer answers completion requests from the current model. Results are
// cached per context until the model changes.
type Completer struct {
	mu    sync.RWMutex
	model *ngram.Model
	gen   uint64
	cache *lru.Cache
	topK  int
	norm  corpus.Normalizer
	opts  []lexer.Option
}

// NewCompleter tokenizes documents with opts and rewrites their literals
// with norm, the same way training sequences are prepared.
func NewCompleter(model *ngram.Model, cacheSize, topK int, norm corpus.Normalizer, opts ...lexer.Option) (*Completer, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Completer{model: model, cache: cache, topK: topK, norm: norm, opts: opts}, nil
}

func (c *Completer) Model() *ngram.Model {
	model, _ := c.current()
	return model
}

func (c *Completer) current() (*ngram.Model, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model, c.gen
}

// SetModel swaps in a new model and drops cached results.
func (c *Completer) SetModel(m *ngram.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = m
	c.gen++
	c.cache.Purge()
}

// store caches preds unless the model changed since generation gen.
func (c *Completer) store(key string, gen uint64, preds []ngram.Prediction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.cache.Add(key, preds)
	}
}

// Complete predicts the token following the cursor. line and character are
// zero based as in LSP.
func (c *Completer) Complete(src []byte, line, character int) []ngram.Prediction {
	model, gen := c.current()
	if model == nil {
		return nil
	}
	context := model.MapUnknown(c.contextBefore(src, line, character, model.N()), corpus.UNK)
	key := ngram.ContextKey(context)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]ngram.Prediction)
	}
	preds := model.PredictNext(context, c.topK)
	c.store(key, gen, preds)
	return preds
}

// contextBefore returns the last n-1 normalized code tokens of src before
// the given zero based position.
func (c *Completer) contextBefore(src []byte, line, character, n int) []string {
	if n <= 1 {
		return []string{}
	}
	tokens := c.norm.Process(lexer.CodeTokens(src[:offsetOf(src, line, character)], c.opts...))
	if len(tokens) > n-1 {
		tokens = tokens[len(tokens)-(n-1):]
	}
	return tokens
}

// offsetOf converts a line and character position into a byte offset,
// counting characters as runes and clamping to the end of the line.
func offsetOf(src []byte, line, character int) int {
	offset := 0
	for i := 0; i < line; i++ {
		nl := bytes.IndexByte(src[offset:], '\n')
		if nl < 0 {
			return len(src)
		}
		offset += nl + 1
	}
	for i := 0; i < character && offset < len(src) && src[offset] != '\n'; i++ {
		_, size := utf8.DecodeRune(src[offset:])
		offset += size
	}
	return offset
}
