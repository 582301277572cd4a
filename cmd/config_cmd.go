package cmd

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/flowrank/internal/cli"
	"github.com/theirongolddev/flowrank/internal/config"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration and effective scoring tuning",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	fmt.Fprintf(out, "  Config file: %s\n", path)
	if config.Exists(path) {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [General]")
	fmt.Fprintf(out, "    Output:         %s\n", cfg.General.Output)
	fmt.Fprintf(out, "    Order provider: %s\n", cfg.General.OrderProvider)
	if cfg.General.InputFormat != "" {
		fmt.Fprintf(out, "    Input format:   %s\n", cfg.General.InputFormat)
	}
	fmt.Fprintln(out)

	tn := cfg.Tuning()
	fmt.Fprintln(out, "  [Scoring]")
	fmt.Fprintf(out, "    Weights:  urgency %s  availability %s  proximity %s  tier %s\n",
		cli.FormatWeight(tn.Weights.Urgency),
		cli.FormatWeight(tn.Weights.Availability),
		cli.FormatWeight(tn.Weights.Proximity),
		cli.FormatWeight(tn.Weights.Tier))
	fmt.Fprintf(out, "    Windows:  session %gh  weekly %gh  bundle %gh\n",
		tn.SessionWindowHours, tn.WeeklyWindowHours, tn.BundleWindowHours)
	fmt.Fprintf(out, "    Overflow penalty: %s x %s\n",
		cli.FormatWeight(tn.ExtraPenalty), cli.FormatWeight(tn.ExtraPenaltyScale))
	fmt.Fprintln(out)

	providers := lo.Keys(tn.TierBonus)
	slices.Sort(providers)
	rows := lo.Map(providers, func(p string, _ int) []string {
		return []string{p, cli.FormatWeight(tn.TierBonus[p])}
	})
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   "Tier bonuses",
		Headers: []string{"Provider", "Bonus"},
		Rows:    rows,
	}))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Appearance]")
	fmt.Fprintf(out, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Run `flowrank setup` to reconfigure.")
	return nil
}
