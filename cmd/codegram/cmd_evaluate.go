package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/dataset"
	"github.com/dhamidi/codegram/format"
	"github.com/dhamidi/codegram/ngram"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var split string
	var limit, maxSamples int

	cmd := &cobra.Command{
		Use:   "evaluate <model> <dataset>",
		Short: "Report perplexity and top-k accuracy on held-out data",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Evaluation.TopKLimit
			}
			if !cmd.Flags().Changed("max-samples") {
				maxSamples = a.cfg.Evaluation.MaxSamples
			}

			seqs, err := loadCorpus(cmd.Context(), a, args[1], split)
			if err != nil {
				return err
			}
			if maxSamples > 0 && len(seqs) > maxSamples {
				seqs = seqs[:maxSamples]
			}
			for i, seq := range seqs {
				seqs[i] = model.MapUnknown(seq, corpus.UNK)
			}

			report, err := ngram.Evaluate(model, seqs, limit)
			if err != nil {
				return fmt.Errorf("evaluate on %q split of %s: %w", split, args[1], err)
			}

			enc, err := format.New(a.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return enc.EncodeReport(report)
		},
	}

	cmd.Flags().StringVar(&split, "split", dataset.SplitTest, "dataset split to evaluate on (empty for all)")
	cmd.Flags().IntVar(&limit, "limit", 50, "scored positions per sequence for top-k accuracy")
	cmd.Flags().IntVar(&maxSamples, "max-samples", 0, "evaluate at most this many sequences (0 for all)")

	return cmd
}
