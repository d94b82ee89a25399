package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/codegram/config"
	"github.com/dhamidi/codegram/corpus"
	"github.com/dhamidi/codegram/java/lexer"
)

const version = "0.1.0"

// app holds the global flags and the configuration they resolve to.
type app struct {
	configPath string
	envFile    string
	verbosity  int
	logFile    string
	format     string

	cfg config.Config
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Logging.Verbosity = a.verbosity
	}
	if a.logFile != "" {
		cfg.Logging.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	var logPath *string
	if cfg.Logging.File != "" {
		logPath = &cfg.Logging.File
	}
	commonlog.Configure(cfg.Logging.Verbosity, logPath)
	return nil
}

// normalizer rewrites literals of training sequences and of snippets alike.
func (a *app) normalizer() corpus.Normalizer {
	return corpus.Normalizer{
		PreserveStrings: a.cfg.Tokenization.PreserveStrings,
		PreserveNumbers: a.cfg.Tokenization.PreserveNumbers,
	}
}

// snippetTokens tokenizes code given on the command line the way training
// sequences are tokenized and normalized.
func (a *app) snippetTokens(args []string) []string {
	return a.normalizer().Process(lexer.CodeTokens([]byte(strings.Join(args, " ")), a.lexerOptions()...))
}

func (a *app) lexerOptions() []lexer.Option {
	var opts []lexer.Option
	if a.cfg.Tokenization.PreserveStrings {
		opts = append(opts, lexer.PreserveStrings())
	}
	if a.cfg.Tokenization.PreserveNumbers {
		opts = append(opts, lexer.PreserveNumbers())
	}
	if a.cfg.Tokenization.Subtokenize {
		opts = append(opts, lexer.SubtokenizeIdentifiers())
	}
	return opts
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "codegram",
		Short:             "N-gram code completion for Java methods",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "codegram.yaml", "configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "environment file")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file")
	flags.StringVarP(&a.format, "format", "f", "line", "output format (line, json)")

	rootCmd.AddCommand(newMineCmd(a))
	rootCmd.AddCommand(newPrepareCmd(a))
	rootCmd.AddCommand(newTrainCmd(a))
	rootCmd.AddCommand(newPredictCmd(a))
	rootCmd.AddCommand(newCompleteCmd(a))
	rootCmd.AddCommand(newEvaluateCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
