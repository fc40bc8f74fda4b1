package core

import (
	"sort"
	"strings"
)

// MatchRule finds the category rule for a merchant name, or nil when no
// rule applies. Fragments are matched as case-insensitive substrings of
// the merchant name, longest fragment first, so "UBER EATS" outranks
// "UBER" when both occur. Equal-length fragments keep their table order.
// The input slice is never reordered; scanning happens on a local copy.
func MatchRule(merchant string, rules []CategoryRule) *CategoryRule {
	if len(rules) == 0 {
		return nil
	}
	name := strings.ToUpper(merchant)

	scan := append([]CategoryRule(nil), rules...)
	sort.SliceStable(scan, func(i, j int) bool {
		return len(scan[i].Fragment) > len(scan[j].Fragment)
	})

	for i := range scan {
		frag := strings.ToUpper(strings.TrimSpace(scan[i].Fragment))
		if frag == "" {
			continue
		}
		if strings.Contains(name, frag) {
			r := scan[i]
			return &r
		}
	}
	return nil
}
