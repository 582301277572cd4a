package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/flowrank/internal/config"
	"github.com/theirongolddev/flowrank/internal/scoring"
	"github.com/theirongolddev/flowrank/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the setup form's field values. Numbers are kept as
// text because huh inputs edit strings.
type SetupValues struct {
	Output        string
	OrderProvider string
	Theme         string

	Urgency      string
	Availability string
	Proximity    string
	Tier         string

	TierGoogle      string
	TierAntigravity string
	TierAnthropic   string
	TierOpenAI      string
	TierOllama      string
}

// tierFields pairs provider tags with their SetupValues field.
func (v *SetupValues) tierFields() map[string]*string {
	return map[string]*string{
		scoring.ProviderGoogle:      &v.TierGoogle,
		scoring.ProviderAntigravity: &v.TierAntigravity,
		scoring.ProviderAnthropic:   &v.TierAnthropic,
		scoring.ProviderOpenAI:      &v.TierOpenAI,
		scoring.ProviderOllama:      &v.TierOllama,
	}
}

// SetupValuesFrom pre-fills the form from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	tn := cfg.Tuning()
	v := SetupValues{
		Output:        cfg.General.Output,
		OrderProvider: cfg.General.OrderProvider,
		Theme:         cfg.Appearance.Theme,
		Urgency:       formatFloat(tn.Weights.Urgency),
		Availability:  formatFloat(tn.Weights.Availability),
		Proximity:     formatFloat(tn.Weights.Proximity),
		Tier:          formatFloat(tn.Weights.Tier),
	}
	if v.Output == "" {
		v.Output = "text"
	}
	for provider, field := range v.tierFields() {
		*field = formatFloat(tn.Tier(provider))
	}
	return v
}

// Apply writes the form values into cfg. Values equal to the built-in
// defaults are stored as overrides too, so the saved file is explicit.
func (v SetupValues) Apply(cfg *config.Config) error {
	cfg.General.Output = v.Output
	cfg.General.OrderProvider = v.OrderProvider
	cfg.Appearance.Theme = v.Theme

	weights := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"urgency", v.Urgency, &cfg.Scoring.Weights.Urgency},
		{"availability", v.Availability, &cfg.Scoring.Weights.Availability},
		{"proximity", v.Proximity, &cfg.Scoring.Weights.Proximity},
		{"tier", v.Tier, &cfg.Scoring.Weights.Tier},
	}
	for _, w := range weights {
		f, err := parseWeight(w.raw)
		if err != nil {
			return fmt.Errorf("%s weight: %w", w.name, err)
		}
		*w.dst = &f
	}

	if cfg.Scoring.Tiers == nil {
		cfg.Scoring.Tiers = make(map[string]float64)
	}
	for provider, field := range v.tierFields() {
		f, err := parseTier(*field)
		if err != nil {
			return fmt.Errorf("%s tier: %w", provider, err)
		}
		cfg.Scoring.Tiers[provider] = f
	}

	return cfg.Validate()
}

// NewSetupForm builds the setup wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	weightInput := func(title, desc string, val *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Description(desc).
			Value(val).
			Validate(func(s string) error {
				_, err := parseWeight(s)
				return err
			})
	}

	tierInput := func(provider string, val *string) *huh.Input {
		return huh.NewInput().
			Title(provider).
			Value(val).
			Validate(func(s string) error {
				_, err := parseTier(s)
				return err
			})
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("flowrank setup").
				Description("Tune how accounts are ranked.\nValues are saved to "+config.Path()),
			huh.NewSelect[string]().
				Title("Default output").
				Options(
					huh.NewOption("Text ranking", "text"),
					huh.NewOption("JSON result", "json"),
				).
				Value(&vals.Output),
			huh.NewSelect[string]().
				Title("Routing order provider").
				Description("Whose profile ids go into recommended_order").
				Options(
					huh.NewOption("Anthropic", scoring.ProviderAnthropic),
					huh.NewOption("Google", scoring.ProviderGoogle),
					huh.NewOption("Antigravity", scoring.ProviderAntigravity),
					huh.NewOption("OpenAI", scoring.ProviderOpenAI),
					huh.NewOption("Ollama", scoring.ProviderOllama),
				).
				Value(&vals.OrderProvider),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
		huh.NewGroup(
			weightInput("Urgency weight", "Unused capacity per hour until reset", &vals.Urgency),
			weightInput("Availability weight", "Square root of unused capacity", &vals.Availability),
			weightInput("Proximity weight", "Closeness of the reset within its window", &vals.Proximity),
			weightInput("Tier weight", "Per-provider preference", &vals.Tier),
		).Title("Score weights"),
		huh.NewGroup(
			tierInput(scoring.ProviderGoogle, &vals.TierGoogle),
			tierInput(scoring.ProviderAntigravity, &vals.TierAntigravity),
			tierInput(scoring.ProviderAnthropic, &vals.TierAnthropic),
			tierInput(scoring.ProviderOpenAI, &vals.TierOpenAI),
			tierInput(scoring.ProviderOllama, &vals.TierOllama),
		).Title("Tier bonuses").Description("Positive favors a provider, negative penalizes it"),
	).WithTheme(huh.ThemeCharm())
}

func parseWeight(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return f, nil
}

func parseTier(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
