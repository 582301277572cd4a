package model

import "strings"

// Capability families.
const (
	FamilyOpus        = "opus"
	FamilySonnet      = "sonnet"
	FamilyHaiku       = "haiku"
	FamilyGPT5Mini    = "gpt5-mini"
	FamilyGPT5        = "gpt5"
	FamilyGeminiPro   = "gemini-pro"
	FamilyGeminiFlash = "gemini-flash"
	FamilyLocal       = "local"
	FamilyOther       = "other"
)

type familyRule struct {
	family string
	match  func(m string) bool
}

func containsAny(subs ...string) func(string) bool {
	return func(m string) bool {
		for _, s := range subs {
			if strings.Contains(m, s) {
				return true
			}
		}
		return false
	}
}

// familyRules is checked top to bottom. Mini variants come before the full
// size family because their names contain the base family string.
var familyRules = []familyRule{
	{FamilyOpus, containsAny("opus")},
	{FamilySonnet, containsAny("sonnet")},
	{FamilyHaiku, containsAny("haiku")},
	{FamilyGPT5Mini, func(m string) bool {
		return strings.Contains(m, "gpt-4o") ||
			(strings.Contains(m, "gpt-5") && strings.Contains(m, "mini"))
	}},
	{FamilyGPT5, containsAny("gpt-5")},
	{FamilyGeminiPro, containsAny("gemini-3-pro", "gemini-2.5-pro", "gemini-pro")},
	{FamilyGeminiFlash, containsAny("gemini-3-flash", "gemini-2.5-flash", "gemini-flash")},
	{FamilyLocal, containsAny("ollama")},
}

// Classify maps a model identifier to its capability family.
// Matching is case-insensitive; unmatched models fall into FamilyOther.
func Classify(modelName string) string {
	m := strings.ToLower(modelName)
	for _, r := range familyRules {
		if r.match(m) {
			return r.family
		}
	}
	return FamilyOther
}
