package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAssignSplit(t *testing.T) {
	tests := []struct {
		repo string
		want string
	}{
		{"a", SplitTest},
		{"b", SplitVal},
		{"google/guava", SplitTrain},
		{"apache/commons-lang", SplitTrain},
	}
	for _, tt := range tests {
		if got := AssignSplit(tt.repo); got != tt.want {
			t.Errorf("AssignSplit(%q) = %q, want %q", tt.repo, got, tt.want)
		}
	}
}

func TestDedupHash(t *testing.T) {
	got := DedupHash("repo", "Foo.java", 3, "int f(){}")
	if got != "0abc312cf4cea204da698b2183ab056651a2af6f" {
		t.Errorf("DedupHash = %q", got)
	}
	seen := Seen{}
	if !seen.Add(got) {
		t.Error("first Add = false, want true")
	}
	if seen.Add(got) {
		t.Error("second Add = true, want false")
	}
}

func TestFilterByLength(t *testing.T) {
	seqs := [][]string{{"a"}, {"a", "b", "c"}, {"a", "b", "c", "d", "e"}}
	if got := FilterByLength(seqs, 2, 4); len(got) != 1 || len(got[0]) != 3 {
		t.Errorf("FilterByLength(2, 4) = %v", got)
	}
	if got := FilterByLength(seqs, 3, 0); len(got) != 2 {
		t.Errorf("FilterByLength(3, 0) = %v", got)
	}
}

func records() []Record {
	return []Record{
		{ID: "1", Split: SplitTrain, Repo: Repo{Name: "r"}, Method: Method{Name: "f"}, CodeTokens: []string{"int", "f", "(", ")"}},
		{ID: "2", Split: SplitTest, Repo: Repo{Name: "r"}, Method: Method{Name: "g"}, CodeTokens: []string{"void", "g"}},
		{ID: "3", Split: SplitTrain, Repo: Repo{Name: "r"}, Method: Method{Name: "h"}, CodeTokens: []string{"return", ";"}},
	}
}

func TestChunkWriterAndReadDir(t *testing.T) {
	dir := t.TempDir()
	w, err := NewChunkWriter(dir, "methods", 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records() {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	want := []string{filepath.Join(dir, "methods_0.jsonl"), filepath.Join(dir, "methods_1.jsonl")}
	if !reflect.DeepEqual(w.Paths(), want) {
		t.Errorf("Paths = %v, want %v", w.Paths(), want)
	}

	res, err := ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Records, records()) {
		t.Errorf("ReadDir records = %+v", res.Records)
	}
	if got := Sequences(res.Records, SplitTrain); len(got) != 2 {
		t.Errorf("train sequences = %v", got)
	}
}

func TestNewChunkWriterInvalidSize(t *testing.T) {
	if _, err := NewChunkWriter(t.TempDir(), "x", 0); err == nil {
		t.Error("NewChunkWriter(0) error = nil, want error")
	}
}

func TestReadJSONLSkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	content := `{"id":"1","dataset_split":"train","code_tokens":["a","b"]}
not json

{"id":"2","dataset_split":"test","code_tokens":["c"]}
{"id":
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ReadJSONL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 || res.Skipped != 2 {
		t.Errorf("records = %d skipped = %d, want 2 and 2", len(res.Records), res.Skipped)
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "methods.db")
	store, err := OpenStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Insert(ctx, records()...); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, records()[0]); err != nil {
		t.Fatal(err)
	}

	n, err := store.Count(ctx, "")
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v, want 3", n, err)
	}
	n, err = store.Count(ctx, SplitTest)
	if err != nil || n != 1 {
		t.Errorf("Count(test) = %d, %v, want 1", n, err)
	}

	seqs, err := store.Sequences(ctx, SplitTrain)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"int", "f", "(", ")"}, {"return", ";"}}
	if !reflect.DeepEqual(seqs, want) {
		t.Errorf("Sequences = %v, want %v", seqs, want)
	}

	rec, err := store.Record(ctx, "2")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Method.Name != "g" {
		t.Errorf("Record(2).Method.Name = %q, want g", rec.Method.Name)
	}
	if _, err := store.Record(ctx, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Record(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestChunkWriterCloseAfterFailedFlush(t *testing.T) {
	w, err := NewChunkWriter(t.TempDir(), "methods", 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(records()[0]); err != nil {
		t.Fatal(err)
	}
	w.file.Close()

	if err := w.Close(); err == nil {
		t.Error("Close with buffered data on a closed file = nil, want error")
	}
	if w.file != nil {
		t.Error("file still set after failed Close")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestLoadSequences(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	w, err := NewChunkWriter(dir, "m", 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records() {
		w.Write(rec)
	}
	w.Close()

	fromDir, err := LoadSequences(ctx, dir, SplitTrain)
	if err != nil {
		t.Fatal(err)
	}
	fromFile, err := LoadSequences(ctx, filepath.Join(dir, "m_0.jsonl"), SplitTrain)
	if err != nil {
		t.Fatal(err)
	}
	if len(fromDir) != 2 || !reflect.DeepEqual(fromDir, fromFile) {
		t.Errorf("dir = %v, file = %v", fromDir, fromFile)
	}

	dbPath := filepath.Join(dir, "m.sqlite")
	store, err := OpenStore(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	store.Insert(ctx, records()...)
	store.Close()
	fromStore, err := LoadSequences(ctx, dbPath, SplitTrain)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fromStore, fromDir) {
		t.Errorf("store = %v, want %v", fromStore, fromDir)
	}

	if _, err := LoadSequences(ctx, filepath.Join(dir, "missing.jsonl"), ""); err == nil {
		t.Error("LoadSequences(missing) error = nil, want error")
	}
}
