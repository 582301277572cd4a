package cmd

import (
	"fmt"

	"github.com/theirongolddev/flowrank/internal/tui"
	"github.com/theirongolddev/flowrank/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [snapshot-file]",
	Short: "Browse the ranking interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 && (flagFile == "" || flagFile == "-") {
		// Bubble Tea needs the terminal on stdin.
		return fmt.Errorf("tui needs a snapshot file argument")
	}

	res, src, err := rankSnapshot(cmd, args, cfg)
	if err != nil {
		return err
	}

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	p := tea.NewProgram(tui.NewApp(res, src), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
