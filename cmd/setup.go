package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/flowrank/internal/config"
	"github.com/theirongolddev/flowrank/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive scoring setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	path := flagConfig
	if path == "" {
		path = config.Path()
	}

	// Load existing config or defaults
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Existing config unusable (%v), starting from defaults\n", err)
		cfg = config.DefaultConfig()
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := vals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Saved to %s\n", path)
	fmt.Fprintln(out, "  Run `flowrank setup` anytime to reconfigure.")
	fmt.Fprintln(out)
	return nil
}
