package cmd

import (
	"fmt"

	"github.com/theirongolddev/flowrank/internal/cli"

	"github.com/spf13/cobra"
)

var familiesCmd = &cobra.Command{
	Use:   "families [snapshot-file]",
	Short: "Show the best available account per model family",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFamilies,
}

func init() {
	rootCmd.AddCommand(familiesCmd)
}

func runFamilies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	res, _, err := rankSnapshot(cmd, args, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderTitle("flowrank families"))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderFamilies(res))
	return nil
}
