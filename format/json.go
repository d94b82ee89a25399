package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/ngram"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

type jsonPredictions struct {
	Context     []string           `json:"context"`
	Predictions []ngram.Prediction `json:"predictions"`
}

type jsonCompletion struct {
	Context []string `json:"context"`
	ngram.Completion
}

func (e *JSONEncoder) EncodePredictions(context []string, preds []ngram.Prediction) error {
	if preds == nil {
		preds = []ngram.Prediction{}
	}
	return e.encode(jsonPredictions{Context: context, Predictions: preds})
}

func (e *JSONEncoder) EncodeCompletion(context []string, c ngram.Completion) error {
	if c.Tokens == nil {
		c.Tokens = []string{}
	}
	if c.Trace == nil {
		c.Trace = [][]ngram.Prediction{}
	}
	return e.encode(jsonCompletion{Context: context, Completion: c})
}

func (e *JSONEncoder) EncodeReport(r ngram.Report) error {
	return e.encode(r)
}

func (e *JSONEncoder) EncodeStatistics(s corpus.Statistics) error {
	return e.encode(s)
}

func (e *JSONEncoder) encode(v any) error {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}
