// Package dataset stores mined Java methods as JSONL chunks or in SQLite and
// reads token sequences back for training and evaluation.
package dataset

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/dhamidi/codegram/java/methods"
)

const (
	SplitTrain = "train"
	SplitVal   = "val"
	SplitTest  = "test"
)

type Repo struct {
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	CommitSHA string `json:"commit_sha,omitempty"`
	License   string `json:"license,omitempty"`
}

type File struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

type Method struct {
	Name          string `json:"name"`
	QualifiedName string `json:"qualified_name"`
	StartLine     int    `json:"start_line"`
	EndLine       int    `json:"end_line"`
	Signature     string `json:"signature"`
	OriginalCode  string `json:"original_code"`
	DocComment    string `json:"doc_comment,omitempty"`
}

// Record is one mined method.
type Record struct {
	Split       string          `json:"dataset_split"`
	ID          string          `json:"id"`
	Repo        Repo            `json:"repo"`
	File        File            `json:"file"`
	Method      Method          `json:"method"`
	CodeTokens  []string        `json:"code_tokens"`
	Metrics     methods.Metrics `json:"metrics"`
	IsTest      bool            `json:"is_test"`
	IsGenerated bool            `json:"is_generated"`
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// AssignSplit places a whole repository into one split from the hash of its
// name: 8 is val, 9 is test, everything else train.
func AssignSplit(repoName string) string {
	n, _ := strconv.ParseUint(sha1Hex(repoName)[:8], 16, 64)
	switch n % 10 {
	case 8:
		return SplitVal
	case 9:
		return SplitTest
	default:
		return SplitTrain
	}
}

// DedupHash identifies a method by location and normalized source.
func DedupHash(repo, path string, line int, normalizedSource string) string {
	return sha1Hex(fmt.Sprintf("%s:%s:%d:%s", repo, path, line, normalizedSource))
}

// Seen is a set of dedup hashes.
type Seen map[string]struct{}

// Add records hash and reports whether it was new.
func (s Seen) Add(hash string) bool {
	if _, ok := s[hash]; ok {
		return false
	}
	s[hash] = struct{}{}
	return true
}

// FilterByLength keeps sequences with min <= len <= max. max <= 0 disables
// the upper bound.
func FilterByLength(seqs [][]string, min, max int) [][]string {
	var out [][]string
	for _, seq := range seqs {
		if len(seq) < min || (max > 0 && len(seq) > max) {
			continue
		}
		out = append(out, seq)
	}
	return out
}
