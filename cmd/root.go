// Package cmd implements the flowrank CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/flowrank/internal/cli"
	"github.com/theirongolddev/flowrank/internal/config"
	"github.com/theirongolddev/flowrank/internal/logger"
	"github.com/theirongolddev/flowrank/internal/metrics"
	"github.com/theirongolddev/flowrank/internal/pipeline"
	"github.com/theirongolddev/flowrank/internal/report"
	"github.com/theirongolddev/flowrank/internal/scoring"
	"github.com/theirongolddev/flowrank/internal/selftest"
	"github.com/theirongolddev/flowrank/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagFile          string
	flagJSON          bool
	flagTest          bool
	flagOrderProvider string
	flagPromFile      string
	flagConfig        string
	flagInputFormat   string
	flagQuiet         bool
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "flowrank [snapshot-file]",
	Short: "Rank LLM provider accounts by urgency",
	Long: "Score provider accounts from a usage snapshot and recommend where to route the next request.\n" +
		"The snapshot is read from the file argument, --file, or stdin.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.LoadEnv()
		logger.SetVerbose(flagVerbose)
	},
	RunE: runRank,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit the structured JSON result")
	rootCmd.Flags().BoolVar(&flagTest, "test", false, "Run the built-in scoring checks and exit")
	rootCmd.Flags().StringVar(&flagPromFile, "prom-file", "", "Also write Prometheus gauges to this textfile")

	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Snapshot file (default: stdin)")
	rootCmd.PersistentFlags().StringVar(&flagOrderProvider, "order-provider", "", "Provider listed in recommended_order (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagInputFormat, "input-format", "", "Snapshot format: json, yaml or auto")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/flowrank/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log diagnostics to stderr")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tuning := cfg.Tuning()

	if flagTest {
		return selftest.Run(cmd.OutOrStdout(), tuning)
	}

	res, src, err := rankSnapshot(cmd, args, cfg)
	if err != nil {
		return err
	}

	if flagPromFile != "" {
		if err := metrics.WriteTextfile(flagPromFile, res); err != nil {
			return err
		}
		logger.Debug("wrote metrics textfile", "path", flagPromFile)
	}

	if flagJSON || cfg.General.Output == "json" {
		return report.WriteJSON(cmd.OutOrStdout(), res)
	}

	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Scored %d accounts from %s\n\n", len(res.Ranked), src)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderRanking(res))
	return err
}

// loadConfig resolves the config path from --config or FLOWRANK_CONFIG.
// An unreadable default config falls back to defaults; an explicit one is
// an error.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config unusable, using defaults", "path", config.Path(), "err", err)
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

// rankSnapshot is the shared load-score-report path used by all commands.
func rankSnapshot(cmd *cobra.Command, args []string, cfg config.Config) (report.Result, string, error) {
	snap, src, err := loadSnapshot(cmd.InOrStdin(), args, cfg)
	if err != nil {
		return report.Result{}, src, err
	}

	ranked := pipeline.ScoreAll(snap, cfg.Tuning())
	logger.Debug("ranked snapshot", "source", src, "entries", len(snap.Entries), "accounts", len(ranked))

	provider := flagOrderProvider
	if provider == "" {
		provider = cfg.General.OrderProvider
	}
	return report.Build(ranked, report.Options{OrderProvider: provider}), src, nil
}

func loadSnapshot(stdin io.Reader, args []string, cfg config.Config) (scoring.Snapshot, string, error) {
	path := flagFile
	if len(args) == 1 {
		if path != "" && path != args[0] {
			return scoring.Snapshot{}, "", errors.New("snapshot given both as argument and --file")
		}
		path = args[0]
	}

	formatName := flagInputFormat
	if formatName == "" {
		formatName = cfg.General.InputFormat
	}
	format, err := source.ParseFormat(formatName)
	if err != nil {
		return scoring.Snapshot{}, "", err
	}

	if path == "" || path == "-" {
		snap, err := source.Parse(stdin, format)
		return snap, "stdin", err
	}
	snap, err := source.ParseFile(path, format)
	return snap, path, err
}
