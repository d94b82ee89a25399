// Package format renders predictions, completions, evaluation reports and
// corpus statistics for the command line.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/ngram"
)

type Encoder interface {
	EncodePredictions(context []string, preds []ngram.Prediction) error
	EncodeCompletion(context []string, c ngram.Completion) error
	EncodeReport(r ngram.Report) error
	EncodeStatistics(s corpus.Statistics) error
}

// New returns the encoder registered under name: "line" or "json".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (expected line or json)", name)
}
