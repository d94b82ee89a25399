package lsp

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/java/lexer"
	"github.com/dhamidi/codegram/ngram"
)

func TestContextBefore(t *testing.T) {
	src := []byte("int x = 1;\nreturn x")
	tests := []struct {
		name            string
		line, character int
		n               int
		want            []string
	}{
		{"after return", 1, 6, 3, []string{";", "return"}},
		{"line start", 1, 0, 3, []string{"<NUM>", ";"}},
		{"bigram", 1, 8, 2, []string{"x"}},
		{"unigram", 1, 8, 1, []string{}},
		{"short prefix", 0, 3, 4, []string{"int"}},
		{"past end", 9, 0, 2, []string{"x"}},
		{"past line end", 0, 99, 2, []string{";"}},
	}
	c, err := NewCompleter(nil, 4, 5, corpus.Normalizer{})
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.contextBefore(src, tt.line, tt.character, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("contextBefore = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextBeforeNormalizesSubtokens(t *testing.T) {
	c, err := NewCompleter(nil, 4, 5, corpus.Normalizer{}, lexer.SubtokenizeIdentifiers())
	if err != nil {
		t.Fatal(err)
	}
	got := c.contextBefore([]byte("sha2 = "), 0, 7, 4)
	want := []string{"sha", "<NUM>", "="}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("contextBefore = %q, want %q", got, want)
	}

	c.norm = corpus.Normalizer{PreserveNumbers: true}
	got = c.contextBefore([]byte("sha2 = "), 0, 7, 4)
	want = []string{"sha", "2", "="}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("contextBefore with numbers preserved = %q, want %q", got, want)
	}
}

func TestOffsetOfMultibyte(t *testing.T) {
	if got := offsetOf([]byte("größe = 1"), 0, 5); got != 7 {
		t.Errorf("offsetOf = %d, want 7", got)
	}
}

func javaModel(t *testing.T) *ngram.Model {
	t.Helper()
	m, err := ngram.New(2, ngram.SmoothingLaplace, 1)
	if err != nil {
		t.Fatal(err)
	}
	m.Train([][]string{{"int", "x", ";"}, {"int", "y", ";"}, {"int", "x", "=", "<NUM>", ";"}})
	return m
}

func TestCompleter(t *testing.T) {
	c, err := NewCompleter(javaModel(t), 16, 3, corpus.Normalizer{})
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("int ")
	preds := c.Complete(src, 0, 4)
	if len(preds) != 2 || preds[0].Token != "x" {
		t.Fatalf("Complete = %v, want x first of 2", preds)
	}
	again := c.Complete(src, 0, 4)
	if !reflect.DeepEqual(preds, again) {
		t.Errorf("cached Complete = %v, want %v", again, preds)
	}
	if c.cache.Len() != 1 {
		t.Errorf("cache.Len = %d, want 1", c.cache.Len())
	}

	c.SetModel(javaModel(t))
	if c.cache.Len() != 0 {
		t.Errorf("cache.Len after SetModel = %d, want 0", c.cache.Len())
	}

	c.SetModel(nil)
	if got := c.Complete(src, 0, 4); got != nil {
		t.Errorf("Complete without model = %v, want nil", got)
	}
}

func TestCompleterDropsResultsOfReplacedModel(t *testing.T) {
	c, err := NewCompleter(javaModel(t), 16, 3, corpus.Normalizer{})
	if err != nil {
		t.Fatal(err)
	}
	_, gen := c.current()
	preds := c.model.PredictNext([]string{"int"}, 3)

	c.SetModel(javaModel(t))
	c.store(ngram.ContextKey([]string{"int"}), gen, preds)
	if c.cache.Len() != 0 {
		t.Errorf("cache.Len after storing stale results = %d, want 0", c.cache.Len())
	}

	_, gen = c.current()
	c.store(ngram.ContextKey([]string{"int"}), gen, preds)
	if c.cache.Len() != 1 {
		t.Errorf("cache.Len after storing current results = %d, want 1", c.cache.Len())
	}
}

func TestNewCompleterInvalidCache(t *testing.T) {
	if _, err := NewCompleter(nil, 0, 5, corpus.Normalizer{}); err == nil {
		t.Error("NewCompleter(cacheSize 0) error = nil, want error")
	}
}

func TestModelWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := javaModel(t).SaveFile(path); err != nil {
		t.Fatal(err)
	}

	var reloaded *ngram.Model
	w := NewModelWatcher(path, time.Hour, func(m *ngram.Model) { reloaded = m })
	if w.scan() {
		t.Error("scan() on unchanged file = true, want false")
	}

	m, _ := ngram.New(3, ngram.SmoothingNone, 0)
	m.Train([][]string{{"a", "b"}})
	if err := m.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if !w.scan() {
		t.Fatal("scan() after change = false, want true")
	}
	if reloaded == nil || reloaded.N() != 3 {
		t.Errorf("reloaded model = %v, want n=3", reloaded)
	}

	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := future.Add(time.Minute)
	os.Chtimes(path, later, later)
	if w.scan() {
		t.Error("scan() of corrupt model = true, want false")
	}
}

func TestWorkspace(t *testing.T) {
	ws := NewWorkspace()
	ws.UpdateFile("/a/Foo.java", []byte("class Foo {}"))
	if doc := ws.GetFile("/a/Foo.java"); doc == nil || string(doc.Content) != "class Foo {}" {
		t.Errorf("GetFile = %v", doc)
	}
	ws.RemoveFile("/a/Foo.java")
	if ws.GetFile("/a/Foo.java") != nil || ws.Len() != 0 {
		t.Error("document still present after RemoveFile")
	}
}

func TestCompletionItems(t *testing.T) {
	items := completionItems([]ngram.Prediction{
		{Token: "return", Probability: 0.5},
		{Token: "foo", Probability: 0.25},
		{Token: "<NUM>", Probability: 0.125},
		{Token: ";", Probability: 0.125},
	})
	wantKinds := []protocol.CompletionItemKind{
		protocol.CompletionItemKindKeyword,
		protocol.CompletionItemKindVariable,
		protocol.CompletionItemKindValue,
		protocol.CompletionItemKindOperator,
	}
	for i, item := range items {
		if *item.Kind != wantKinds[i] {
			t.Errorf("item %d kind = %v, want %v", i, *item.Kind, wantKinds[i])
		}
	}
	if *items[1].SortText != "0001" || *items[0].Detail != "p=0.5000" {
		t.Errorf("SortText = %q Detail = %q", *items[1].SortText, *items[0].Detail)
	}
}

func TestURIToPath(t *testing.T) {
	got, err := uriToPath("file:///home/me/My%20Project/Foo.java")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/home/me/My Project/Foo.java" {
		t.Errorf("uriToPath = %q", got)
	}
	if got, _ := uriToPath("untitled:1"); got != "untitled:1" {
		t.Errorf("uriToPath(untitled) = %q", got)
	}
}
