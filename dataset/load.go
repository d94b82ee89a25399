package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsStorePath reports whether path names a SQLite store rather than JSONL.
func IsStorePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// LoadSequences reads the code tokens of split from path, which is a JSONL
// file, a directory of JSONL files or a SQLite store. An empty split loads
// every record.
func LoadSequences(ctx context.Context, path, split string) ([][]string, error) {
	if IsStorePath(path) {
		store, err := OpenStore(ctx, path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Sequences(ctx, split)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	var res ReadResult
	if info.IsDir() {
		res, err = ReadDir(path)
	} else {
		res, err = ReadJSONL(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if res.Skipped > 0 {
		log.Warningf("%s: skipped %d malformed records", path, res.Skipped)
	}
	return Sequences(res.Records, split), nil
}
