// Package report builds the machine-readable ranking result.
package report

import (
	"encoding/json"
	"io"

	"github.com/samber/lo"

	"github.com/theirongolddev/flowrank/internal/model"
	"github.com/theirongolddev/flowrank/internal/pipeline"
	"github.com/theirongolddev/flowrank/internal/scoring"
)

// Options controls which provider's routing order is listed.
type Options struct {
	// OrderProvider names the provider whose profile ids make up
	// RecommendedOrder. Empty means anthropic.
	OrderProvider string
}

// Entry is one ranked account as emitted.
type Entry struct {
	Rank        int     `json:"rank"`
	Provider    string  `json:"provider"`
	Account     string  `json:"account"`
	Email       string  `json:"email"`
	ProfileID   string  `json:"profile_id"`
	Model       string  `json:"model"`
	Family      string  `json:"family"`
	Score       float64 `json:"score"`
	Available   bool    `json:"available"`
	Reason      string  `json:"reason"`
	Utilization float64 `json:"utilization"`
	ResetsIn    string  `json:"resets_in"`
}

// Result is the full structured output.
type Result struct {
	Ranked               []Entry           `json:"ranked"`
	RecommendedPrimary   *string           `json:"recommended_primary"`
	RecommendedPerFamily map[string]string `json:"recommended_per_family"`
	OrderProvider        string            `json:"order_provider"`
	RecommendedOrder     []string          `json:"recommended_order"`

	// RecommendedAnthropicOrder is kept for routers that predate
	// OrderProvider. It always lists anthropic profiles.
	RecommendedAnthropicOrder []string `json:"recommended_anthropic_order"`
}

// Build turns an already ranked list into a Result.
func Build(ranked []model.Account, opts Options) Result {
	provider := opts.OrderProvider
	if provider == "" {
		provider = scoring.ProviderAnthropic
	}

	res := Result{
		Ranked: lo.Map(ranked, func(a model.Account, i int) Entry {
			return Entry{
				Rank:        i + 1,
				Provider:    a.Provider,
				Account:     a.Account,
				Email:       a.Email,
				ProfileID:   a.ProfileID,
				Model:       a.Model,
				Family:      a.Family(),
				Score:       a.Score,
				Available:   a.Available,
				Reason:      a.Reason,
				Utilization: a.Utilization,
				ResetsIn:    a.ResetsIn,
			}
		}),
		RecommendedPerFamily: lo.MapValues(pipeline.BestPerFamily(ranked), func(a model.Account, _ string) string {
			return a.Model
		}),
		OrderProvider:             provider,
		RecommendedOrder:          pipeline.ProfileOrder(ranked, provider),
		RecommendedAnthropicOrder: pipeline.ProfileOrder(ranked, scoring.ProviderAnthropic),
	}

	if best, ok := pipeline.Primary(ranked); ok {
		res.RecommendedPrimary = lo.ToPtr(best.Model)
	}
	return res
}

// Families returns the family winners, in ranked order.
func (r Result) Families() []Entry {
	seen := make(map[string]struct{}, len(r.RecommendedPerFamily))
	return lo.Filter(r.Ranked, func(e Entry, _ int) bool {
		if !e.Available {
			return false
		}
		if _, ok := seen[e.Family]; ok {
			return false
		}
		seen[e.Family] = struct{}{}
		return true
	})
}

// WriteJSON writes r as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
