package main

import (
	"context"

	"github.com/dhamidi/codegram/dataset"
	"github.com/dhamidi/codegram/ngram"
)

// loadCorpus reads the sequences of split from path, keeps those within the
// configured length bounds and normalizes their literals.
func loadCorpus(ctx context.Context, a *app, path, split string) ([][]string, error) {
	seqs, err := dataset.LoadSequences(ctx, path, split)
	if err != nil {
		return nil, err
	}
	loaded := len(seqs)
	seqs = dataset.FilterByLength(seqs, a.cfg.Data.MinSequenceLength, a.cfg.Data.MaxSequenceLength)

	norm := a.normalizer()
	for i, seq := range seqs {
		seqs[i] = norm.Process(seq)
	}
	log.Infof("%s: %d of %d %q sequences within length bounds", path, len(seqs), loaded, split)
	return seqs, nil
}

func loadModel(path string) (*ngram.Model, error) {
	m, err := ngram.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %d-gram %s model from %s", m.N(), m.Smoothing(), path)
	return m, nil
}
