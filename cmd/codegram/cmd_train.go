package main

import (
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/dataset"
	"github.com/dhamidi/codegram/ngram"
)

func newTrainCmd(a *app) *cobra.Command {
	var output, split, smoothing string
	var n int
	var k float64
	var unk bool

	cmd := &cobra.Command{
		Use:   "train <dataset>",
		Short: "Train an n-gram model on a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("n") {
				a.cfg.Model.N = n
			}
			if flags.Changed("smoothing") {
				a.cfg.Model.Smoothing = smoothing
			}
			if flags.Changed("k") {
				a.cfg.Model.K = k
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			s, err := a.cfg.Smoothing()
			if err != nil {
				return err
			}
			model, err := ngram.New(a.cfg.Model.N, s, a.cfg.Model.K)
			if err != nil {
				return err
			}

			seqs, err := loadCorpus(cmd.Context(), a, args[0], split)
			if err != nil {
				return err
			}
			if len(seqs) == 0 {
				return fmt.Errorf("no %q sequences in %s", split, args[0])
			}
			var vocab *corpus.Vocabulary
			if unk {
				vocab = corpus.NewBuilder().BuildVocabulary(seqs, a.cfg.Model.MinTokenFrequency, a.cfg.Model.VocabSizeLimit)
			}

			bar := pb.StartNew(len(seqs))
			for _, seq := range seqs {
				if vocab != nil {
					seq = restrict(vocab, seq)
				}
				model.TrainSequence(seq)
				bar.Increment()
			}
			bar.Finish()

			if err := model.SaveFile(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "trained %d-gram %s model on %d sequences: %d contexts, vocabulary %d -> %s\n",
				model.N(), model.Smoothing(), len(seqs), len(model.Contexts()), model.VocabSize(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "model.json", "model file to write")
	cmd.Flags().StringVar(&split, "split", dataset.SplitTrain, "dataset split to train on (empty for all)")
	cmd.Flags().IntVarP(&n, "n", "n", 3, "n-gram order")
	cmd.Flags().StringVar(&smoothing, "smoothing", "laplace", "smoothing method (none, laplace, add-k)")
	cmd.Flags().Float64VarP(&k, "k", "k", 1.0, "pseudo-count for add-k smoothing")
	cmd.Flags().BoolVar(&unk, "unk", false, "map tokens outside the frequency-bounded vocabulary to <UNK>")

	return cmd
}

// restrict replaces tokens outside the vocabulary with corpus.UNK.
func restrict(vocab *corpus.Vocabulary, seq []string) []string {
	out := make([]string, len(seq))
	for i, tok := range seq {
		if vocab.Contains(tok) {
			out[i] = tok
		} else {
			out[i] = corpus.UNK
		}
	}
	return out
}
