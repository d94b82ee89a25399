package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ChunkWriter writes records as JSON lines to <dir>/<prefix>_<n>.jsonl,
// starting a new file every chunkSize records.
type ChunkWriter struct {
	dir       string
	prefix    string
	chunkSize int

	index   int
	written int
	file    *os.File
	buf     *bufio.Writer
	enc     *json.Encoder
	paths   []string
}

func NewChunkWriter(dir, prefix string, chunkSize int) (*ChunkWriter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &ChunkWriter{dir: dir, prefix: prefix, chunkSize: chunkSize}, nil
}

func (w *ChunkWriter) Write(rec Record) error {
	if w.file == nil || w.written == w.chunkSize {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	w.written++
	return nil
}

func (w *ChunkWriter) rotate() error {
	if err := w.closeFile(); err != nil {
		return err
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s_%d.jsonl", w.prefix, w.index))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunk: %w", err)
	}
	log.Infof("writing chunk %s", path)
	w.index++
	w.written = 0
	w.file = f
	w.buf = bufio.NewWriter(f)
	w.enc = json.NewEncoder(w.buf)
	w.paths = append(w.paths, path)
	return nil
}

func (w *ChunkWriter) closeFile() error {
	if w.file == nil {
		return nil
	}
	f := w.file
	w.file = nil
	if err := w.buf.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", f.Name(), err)
	}
	return f.Close()
}

// Paths lists the chunk files created so far.
func (w *ChunkWriter) Paths() []string {
	return w.paths
}

func (w *ChunkWriter) Close() error {
	return w.closeFile()
}

// ReadResult holds the records read from JSONL input and the number of
// malformed lines that were skipped.
type ReadResult struct {
	Records []Record
	Skipped int
}

// ReadJSONL reads one record per line. Blank lines are ignored and lines
// that do not decode are counted in Skipped.
func ReadJSONL(path string) (ReadResult, error) {
	var res ReadResult
	f, err := os.Open(path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			log.Warningf("%s:%d: skipping malformed record: %v", path, line, err)
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

// ReadDir reads every *.jsonl file in dir in name order.
func ReadDir(dir string) (ReadResult, error) {
	var res ReadResult
	paths, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return res, err
	}
	sort.Strings(paths)
	for _, path := range paths {
		part, err := ReadJSONL(path)
		if err != nil {
			return res, err
		}
		res.Records = append(res.Records, part.Records...)
		res.Skipped += part.Skipped
	}
	return res, nil
}

// Sequences returns the code tokens of the records in split, or of all
// records when split is empty.
func Sequences(recs []Record, split string) [][]string {
	var out [][]string
	for _, rec := range recs {
		if split == "" || rec.Split == split {
			out = append(out, rec.CodeTokens)
		}
	}
	return out
}
