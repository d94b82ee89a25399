package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/lsp"
	"github.com/dhamidi/codegram/ngram"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp <model>",
		Short: "Start the Language Server Protocol server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel(args[0])
			if err != nil {
				return err
			}
			completer, err := lsp.NewCompleter(model, a.cfg.LSP.CacheSize, a.cfg.Generation.TopK, a.normalizer(), a.lexerOptions()...)
			if err != nil {
				return err
			}

			watcher := lsp.NewModelWatcher(args[0], a.cfg.LSP.PollInterval, func(m *ngram.Model) {
				completer.SetModel(m)
			})
			watcher.Start()
			defer watcher.Stop()

			server := lsp.NewServer(completer, version)
			return server.RunStdio()
		},
	}
}
