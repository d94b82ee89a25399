package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/dataset"
	"github.com/dhamidi/codegram/format"
)

func newPrepareCmd(a *app) *cobra.Command {
	var outDir, split string

	cmd := &cobra.Command{
		Use:   "prepare <dataset>",
		Short: "Build the vocabulary and corpus statistics of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqs, err := loadCorpus(cmd.Context(), a, args[0], split)
			if err != nil {
				return err
			}

			builder := corpus.NewBuilder()
			vocab := builder.BuildVocabulary(seqs, a.cfg.Model.MinTokenFrequency, a.cfg.Model.VocabSizeLimit)
			stats := builder.Statistics(seqs)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", outDir, err)
			}
			if err := writeJSON(filepath.Join(outDir, "vocabulary.json"), vocab.Tokens()); err != nil {
				return err
			}
			if err := writeJSON(filepath.Join(outDir, "statistics.json"), stats); err != nil {
				return err
			}

			enc, err := format.New(a.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return enc.EncodeStatistics(stats)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "data/processed", "output directory")
	cmd.Flags().StringVar(&split, "split", dataset.SplitTrain, "dataset split to describe (empty for all)")

	return cmd
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
