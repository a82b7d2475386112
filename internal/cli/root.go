// Package cli provides the command-line interface for the evaluator.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lilggamegenuis/apeval"
	"github.com/lilggamegenuis/apeval/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	var cfg *config.Config
	var logger *slog.Logger
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "apeval [expression ...]",
		Short: "Arbitrary-precision expression evaluator",
		Long: `apeval evaluates arithmetic expressions at arbitrary precision.

Each argument is evaluated as an expression and its result printed on its
own line. With no arguments, apeval starts an interactive session.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, cleanup, err = newLogger(cfg)
			if err != nil {
				return err
			}
			if used := config.FileUsed(); used != "" {
				logger.Debug("loaded config file", "path", used)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cleanup != nil {
				cleanup()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := newSession(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if len(args) == 0 {
				return sess.repl()
			}
			return sess.evalAll(args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}} (` + GitCommit + `)
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./apeval.yaml)")
	rootCmd.PersistentFlags().IntP("precision", "p", 0, "significant digits of computation")
	rootCmd.PersistentFlags().StringP("style", "s", "", "precedence style (standard|spreadsheet)")
	rootCmd.PersistentFlags().IntP("digits", "d", 0, "significant digits of display (0 = all)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-file", "", "write a JSON log copy to this file")

	_ = rootCmd.RegisterFlagCompletionFunc("style", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"standard", "spreadsheet"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// style maps a config style name to a catalog style.
func style(name string) apeval.Style {
	if name == "spreadsheet" {
		return apeval.Spreadsheet
	}
	return apeval.Standard
}
