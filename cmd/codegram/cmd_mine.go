package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/dataset"
	"github.com/dhamidi/codegram/mine"
)

const storeBatchSize = 500

func newMineCmd(a *app) *cobra.Command {
	var outDir, prefix, dbPath, repoName string

	cmd := &cobra.Command{
		Use:   "mine <dir>...",
		Short: "Extract Java methods from source trees into a dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMine(cmd.Context(), cmd.OutOrStdout(), a, args, outDir, prefix, dbPath, repoName)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "data/raw", "directory for JSONL chunks")
	cmd.Flags().StringVar(&prefix, "prefix", "methods", "chunk file name prefix")
	cmd.Flags().StringVar(&dbPath, "db", "", "also store records in this SQLite database")
	cmd.Flags().StringVar(&repoName, "repo", "", "repository name (default: from git remote or directory)")

	return cmd
}

func runMine(ctx context.Context, w io.Writer, a *app, dirs []string, outDir, prefix, dbPath, repoName string) error {
	writer, err := dataset.NewChunkWriter(outDir, prefix, a.cfg.Mining.ChunkSize)
	if err != nil {
		return err
	}
	defer writer.Close()

	var store *dataset.Store
	var batch []dataset.Record
	if dbPath != "" {
		store, err = dataset.OpenStore(ctx, dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	flush := func() error {
		if store == nil || len(batch) == 0 {
			return nil
		}
		err := store.Insert(ctx, batch...)
		batch = batch[:0]
		return err
	}

	miner := mine.NewMiner(mine.Options{
		MinTokens:       a.cfg.Mining.MinTokens,
		MaxTokens:       a.cfg.Mining.MaxTokens,
		MaxMethods:      a.cfg.Mining.MaxMethods,
		PreserveStrings: a.cfg.Tokenization.PreserveStrings,
		PreserveNumbers: a.cfg.Tokenization.PreserveNumbers,
		Subtokenize:     a.cfg.Tokenization.Subtokenize,
		RepoName:        repoName,
	})

	total := 0
	for _, dir := range dirs {
		var bar *pb.ProgressBar
		miner.Progress = func(done, files int) {
			if bar == nil {
				bar = pb.StartNew(files)
			}
			bar.SetCurrent(int64(done))
		}
		if a.cfg.Mining.MaxMethods > 0 {
			miner.Options.MaxMethods = a.cfg.Mining.MaxMethods - total
		}

		summary, err := miner.MineDir(ctx, dir, func(rec dataset.Record) error {
			if err := writer.Write(rec); err != nil {
				return err
			}
			if store != nil {
				batch = append(batch, rec)
				if len(batch) >= storeBatchSize {
					return flush()
				}
			}
			return nil
		})
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return fmt.Errorf("mine %s: %w", dir, err)
		}
		total += summary.Methods
		fmt.Fprintf(w, "%s\tfiles=%d methods=%d filtered=%d duplicates=%d failed=%d\n",
			dir, summary.Files, summary.Methods, summary.Filtered, summary.Duplicates, summary.Failed)
		if summary.Truncated {
			break
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "total\t%d methods in %d chunks\n", total, len(writer.Paths()))
	return nil
}
