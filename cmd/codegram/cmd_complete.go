package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/format"
	"github.com/dhamidi/codegram/ngram"
)

func newCompleteCmd(a *app) *cobra.Command {
	var maxLength int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "complete <model> <java code>...",
		Short: "Sample a continuation of a snippet",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-length") {
				maxLength = a.cfg.Generation.MaxLength
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Generation.Seed
			}

			context := a.snippetTokens(args[1:])
			completion := model.SampleCompletion(model.MapUnknown(context, corpus.UNK), maxLength, ngram.NewRand(seed))

			enc, err := format.New(a.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return enc.EncodeCompletion(context, completion)
		},
	}

	cmd.Flags().IntVar(&maxLength, "max-length", 20, "maximum number of generated tokens")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")

	return cmd
}
