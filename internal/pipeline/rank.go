// Package pipeline ranks scored accounts and reduces rankings to
// per-family recommendations.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/flowrank/internal/model"
	"github.com/theirongolddev/flowrank/internal/scoring"
)

// ScoreAll scores every entry of the snapshot and returns the accounts
// sorted by score, highest first. Equal scores keep snapshot order.
// Entries with unknown provider tags contribute nothing.
func ScoreAll(snap scoring.Snapshot, t scoring.Tuning) []model.Account {
	var ranked []model.Account
	for _, u := range snap.Entries {
		ranked = append(ranked, u.Score(t)...)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// BestPerFamily returns, for each family, the first available account of
// an already ranked list. Unavailable accounts never fill a slot.
func BestPerFamily(ranked []model.Account) map[string]model.Account {
	best := make(map[string]model.Account)
	for _, a := range ranked {
		if !a.Available {
			continue
		}
		fam := a.Family()
		if _, ok := best[fam]; !ok {
			best[fam] = a
		}
	}
	return best
}

// FamilyOrder returns the families of best in the order their winners
// appear in ranked.
func FamilyOrder(ranked []model.Account, best map[string]model.Account) []string {
	order := make([]string, 0, len(best))
	seen := make(map[string]struct{}, len(best))
	for _, a := range ranked {
		fam := a.Family()
		if _, ok := seen[fam]; ok {
			continue
		}
		if w, ok := best[fam]; ok && w == a {
			order = append(order, fam)
			seen[fam] = struct{}{}
		}
	}
	return order
}

// Primary returns the top available account, if any.
func Primary(ranked []model.Account) (model.Account, bool) {
	for _, a := range ranked {
		if a.Available {
			return a, true
		}
	}
	return model.Account{}, false
}

// ProfileOrder returns the profile ids of one provider in ranked order.
func ProfileOrder(ranked []model.Account, provider string) []string {
	ids := make([]string, 0)
	for _, a := range ranked {
		if a.Provider == provider {
			ids = append(ids, a.ProfileID)
		}
	}
	return ids
}
