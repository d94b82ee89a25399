package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/codegram/config"
	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/dataset"
)

const counterJava = `package demo;

public class Counter {
    private int count;

    public int increment() {
        count = count + 1;
        return count;
    }

    public int decrement() {
        count = count - 1;
        return count;
    }

    public int reset() {
        count = 0;
        return count;
    }
}
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--env-file", ""}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("codegram %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "repo", "src", "main", "java", "demo")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "Counter.java"), []byte(counterJava), 0o644); err != nil {
		t.Fatal(err)
	}

	data := filepath.Join(dir, "data")
	db := filepath.Join(dir, "methods.db")
	out := run(t, "mine", filepath.Join(dir, "repo"), "--out", data, "--db", db, "--repo", "google/guava")
	if !strings.Contains(out, "methods=3") {
		t.Fatalf("mine output = %q, want 3 methods", out)
	}

	out = run(t, "prepare", data, "--out", filepath.Join(dir, "processed"))
	if !strings.Contains(out, "sequences\t3\n") {
		t.Errorf("prepare output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "processed", "vocabulary.json")); err != nil {
		t.Error(err)
	}

	model := filepath.Join(dir, "model.json")
	run(t, "train", db, "-o", model, "-n", "2")

	out = run(t, "predict", model, "return")
	if !strings.Contains(out, "1\tcount\t") {
		t.Errorf("predict output = %q, want count ranked first", out)
	}

	first := run(t, "complete", model, "count =", "--seed", "7")
	second := run(t, "complete", model, "count =", "--seed", "7")
	if first != second {
		t.Errorf("complete not deterministic:\n%s\n%s", first, second)
	}

	out = run(t, "evaluate", model, data, "--split", "train", "-f", "json")
	if !strings.Contains(out, `"perplexity"`) || !strings.Contains(out, `"sequences": 3`) {
		t.Errorf("evaluate output = %q", out)
	}
}

func TestEvaluateWithoutHeldOutData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.jsonl")
	os.WriteFile(path, []byte(`{"id":"1","dataset_split":"train","code_tokens":["int","x","=","<NUM>",";"]}`+"\n"), 0o644)
	model := filepath.Join(dir, "model.json")
	run(t, "train", path, "-o", model)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", "", "evaluate", model, path})
	if err := cmd.Execute(); err == nil {
		t.Error("evaluate on empty test split succeeded, want error")
	}
}

func TestRestrict(t *testing.T) {
	vocab := corpus.NewBuilder().BuildVocabulary([][]string{{"a", "a", "b"}}, 2, 0)
	got := restrict(vocab, []string{"a", "b", "<NUM>"})
	want := []string{"a", corpus.UNK, "<NUM>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("restrict = %v, want %v", got, want)
	}
}

func TestShow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "methods.db")
	store, err := dataset.OpenStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	rec := dataset.Record{
		Split:      dataset.SplitTrain,
		ID:         "7",
		Repo:       dataset.Repo{Name: "demo"},
		File:       dataset.File{Path: "Counter.java", Language: "java"},
		Method:     dataset.Method{Name: "reset", QualifiedName: "demo.Counter.reset"},
		CodeTokens: []string{"count", "=", "<NUM>", ";"},
	}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatal(err)
	}
	store.Close()

	out := run(t, "show", path, "7")
	if !strings.Contains(out, `"qualified_name": "demo.Counter.reset"`) {
		t.Errorf("show output = %q", out)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", "", "show", path, "8"})
	if err := cmd.Execute(); err == nil {
		t.Error("show of unknown id succeeded, want error")
	}
}

func TestSnippetTokensMatchTrainingNormalization(t *testing.T) {
	a := &app{cfg: config.Default()}
	a.cfg.Tokenization.Subtokenize = true

	got := a.snippetTokens([]string{"int sha2 =", `"x";`})
	want := []string{"int", "sha", "<NUM>", "=", "<STRING>", ";"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("snippetTokens = %q, want %q", got, want)
	}

	a.cfg.Tokenization.PreserveNumbers = true
	got = a.snippetTokens([]string{"sha2"})
	want = []string{"sha", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("snippetTokens with numbers preserved = %q, want %q", got, want)
	}
}
