package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/ngram"
)

// LineEncoder writes one tab separated record per line.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) EncodePredictions(context []string, preds []ngram.Prediction) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "context\t%s\n", strings.Join(context, " "))
	for i, p := range preds {
		fmt.Fprintf(&sb, "%d\t%s\t%.6f\n", i+1, p.Token, p.Probability)
	}
	return e.write(sb.String())
}

func (e *LineEncoder) EncodeCompletion(context []string, c ngram.Completion) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "context\t%s\n", strings.Join(context, " "))
	fmt.Fprintf(&sb, "completion\t%s\n", strings.Join(c.Tokens, " "))
	for i, step := range c.Trace {
		candidates := make([]string, len(step))
		for j, p := range step {
			candidates[j] = fmt.Sprintf("%s:%.4f", p.Token, p.Probability)
		}
		fmt.Fprintf(&sb, "step %d\t%s\n", i+1, strings.Join(candidates, " "))
	}
	return e.write(sb.String())
}

func (e *LineEncoder) EncodeReport(r ngram.Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sequences\t%d\n", r.Sequences)
	fmt.Fprintf(&sb, "perplexity\t%.4f\n", r.Perplexity)
	fmt.Fprintf(&sb, "top1\t%.4f\n", r.Accuracy.Top1)
	fmt.Fprintf(&sb, "top3\t%.4f\n", r.Accuracy.Top3)
	fmt.Fprintf(&sb, "top5\t%.4f\n", r.Accuracy.Top5)
	fmt.Fprintf(&sb, "predictions\t%d\n", r.Accuracy.Total)
	return e.write(sb.String())
}

func (e *LineEncoder) EncodeStatistics(s corpus.Statistics) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sequences\t%d\n", s.TotalSequences)
	fmt.Fprintf(&sb, "tokens\t%d\n", s.TotalTokens)
	fmt.Fprintf(&sb, "unique\t%d\n", s.UniqueTokens)
	fmt.Fprintf(&sb, "vocabulary\t%d\n", s.VocabularySize)
	fmt.Fprintf(&sb, "length\tmean=%.2f median=%.1f min=%d max=%d std=%.2f\n",
		s.MeanLength, s.MedianLength, s.MinLength, s.MaxLength, s.StdDevLength)

	types := make([]string, 0, len(s.TokenTypes))
	for k := range s.TokenTypes {
		types = append(types, k)
	}
	sort.Strings(types)
	for _, k := range types {
		fmt.Fprintf(&sb, "type\t%s\t%.2f%%\n", k, s.TokenTypes[k])
	}
	for _, tc := range s.MostCommon {
		fmt.Fprintf(&sb, "common\t%s\t%d\n", tc.Token, tc.Count)
	}
	return e.write(sb.String())
}

func (e *LineEncoder) write(s string) error {
	_, err := io.WriteString(e.w, s)
	return err
}
