package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/format"
)

func newPredictCmd(a *app) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "predict <model> <java code>...",
		Short: "Rank the tokens most likely to follow a snippet",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top-k") {
				topK = a.cfg.Generation.TopK
			}

			context := a.snippetTokens(args[1:])
			preds := model.PredictNext(model.MapUnknown(context, corpus.UNK), topK)

			enc, err := format.New(a.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return enc.EncodePredictions(model.Normalize(context), preds)
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 5, "number of predictions")

	return cmd
}
