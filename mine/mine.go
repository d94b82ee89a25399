// Package mine walks a Java source tree and turns every method it finds into
// a dataset record.
package mine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/codegram/dataset"
	"github.com/dhamidi/codegram/java/lexer"
	"github.com/dhamidi/codegram/java/methods"
)

var log = commonlog.GetLogger("codegram.mine")

var errLimit = errors.New("method limit reached")

type Options struct {
	// MinTokens and MaxTokens bound the code token count of kept methods.
	// MaxTokens <= 0 disables the upper bound.
	MinTokens int
	MaxTokens int
	// MaxMethods stops mining after that many records. <= 0 means no limit.
	MaxMethods int

	PreserveStrings bool
	PreserveNumbers bool
	Subtokenize     bool

	// RepoName overrides the repository name derived from the git remote
	// or the directory name.
	RepoName string
}

func DefaultOptions() Options {
	return Options{MinTokens: 3, MaxTokens: 2000, MaxMethods: 500000}
}

type Summary struct {
	Files      int
	Methods    int
	Filtered   int
	Duplicates int
	Failed     int
	Truncated  bool
}

type Miner struct {
	Options Options
	// Progress, if set, is called after each file with the number of files
	// done and the total.
	Progress func(done, total int)

	seen dataset.Seen
}

func NewMiner(opts Options) *Miner {
	return &Miner{Options: opts, seen: dataset.Seen{}}
}

func (m *Miner) tokenOptions() []lexer.Option {
	var opts []lexer.Option
	if m.Options.PreserveStrings {
		opts = append(opts, lexer.PreserveStrings())
	}
	if m.Options.PreserveNumbers {
		opts = append(opts, lexer.PreserveNumbers())
	}
	if m.Options.Subtokenize {
		opts = append(opts, lexer.SubtokenizeIdentifiers())
	}
	return opts
}

// MineDir extracts methods from every .java file under root and passes the
// resulting records to sink. Duplicates are dropped across calls on the
// same Miner.
func (m *Miner) MineDir(ctx context.Context, root string, sink func(dataset.Record) error) (Summary, error) {
	var summary Summary
	if m.seen == nil {
		m.seen = dataset.Seen{}
	}

	repo := ReadProvenance(root)
	if m.Options.RepoName != "" {
		repo.Name = m.Options.RepoName
	}
	split := dataset.AssignSplit(repo.Name)
	log.Infof("mining %s as %s (%s split)", root, repo.Name, split)

	files, err := javaFiles(root)
	if err != nil {
		return summary, err
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		err := m.mineFile(root, path, repo, split, sink, &summary)
		if errors.Is(err, errLimit) {
			summary.Truncated = true
			break
		}
		if err != nil {
			return summary, err
		}
		if m.Progress != nil {
			m.Progress(i+1, len(files))
		}
	}
	return summary, nil
}

func (m *Miner) mineFile(root, path string, repo dataset.Repo, split string, sink func(dataset.Record) error, summary *Summary) error {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Warningf("read %s: %v", path, err)
		summary.Failed++
		return nil
	}
	summary.Files++

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, method := range methods.Extract(src, rel) {
		tokens := lexer.Strings(method.Tokens, m.tokenOptions()...)
		if len(tokens) < m.Options.MinTokens || (m.Options.MaxTokens > 0 && len(tokens) > m.Options.MaxTokens) {
			summary.Filtered++
			continue
		}

		id := dataset.DedupHash(repo.Name, rel, method.StartLine, strings.Join(lexer.Strings(method.Tokens), " "))
		if !m.seen.Add(id) {
			summary.Duplicates++
			continue
		}

		rec := dataset.Record{
			Split: split,
			ID:    id,
			Repo:  repo,
			File:  dataset.File{Path: rel, Language: "java"},
			Method: dataset.Method{
				Name:          method.Name,
				QualifiedName: QualifiedName(rel, method.Name),
				StartLine:     method.StartLine,
				EndLine:       method.EndLine,
				Signature:     method.Signature,
				OriginalCode:  method.Source,
				DocComment:    method.DocComment,
			},
			CodeTokens:  tokens,
			Metrics:     methods.Measure(method),
			IsTest:      methods.IsTestPath(rel),
			IsGenerated: methods.IsGenerated(method),
		}
		if err := sink(rec); err != nil {
			return err
		}
		summary.Methods++
		if m.Options.MaxMethods > 0 && summary.Methods >= m.Options.MaxMethods {
			return errLimit
		}
	}
	return nil
}

// javaFiles lists the .java files under root in walk order, skipping hidden
// directories.
func javaFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("walk %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".java") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

var sourceRoots = []string{"src/main/java/", "src/java/", "src/"}

// QualifiedName derives package.Class.method from a slash separated path
// relative to the repository root.
func QualifiedName(relPath, method string) string {
	p := strings.TrimSuffix(relPath, ".java")
	for _, root := range sourceRoots {
		if i := strings.Index(p, root); i >= 0 && (i == 0 || p[i-1] == '/') {
			p = p[i+len(root):]
			break
		}
	}
	return strings.ReplaceAll(p, "/", ".") + "." + method
}
