package core

import "testing"

func TestMatchRuleLongestFragmentWins(t *testing.T) {
	rules := []CategoryRule{
		{Fragment: "UBER", Category: "Transport & Fuel", Sentiment: SentimentEssential},
		{Fragment: "UBER EATS", Category: "Eating Out", Sentiment: SentimentDiscretionary},
	}

	got := MatchRule("UBER EATS JHB", rules)
	if got == nil || got.Category != "Eating Out" {
		t.Fatalf("expected Eating Out, got %+v", got)
	}

	got = MatchRule("UBER TRIP CPT", rules)
	if got == nil || got.Category != "Transport & Fuel" {
		t.Fatalf("expected Transport & Fuel, got %+v", got)
	}
}

func TestMatchRuleCaseInsensitive(t *testing.T) {
	rules := []CategoryRule{{Fragment: "woolworths", Category: "Groceries", Sentiment: SentimentEssential}}
	if got := MatchRule("WOOLWORTHS SANDTON", rules); got == nil || got.Category != "Groceries" {
		t.Fatalf("expected match, got %+v", got)
	}
}

func TestMatchRuleNoMatch(t *testing.T) {
	rules := []CategoryRule{{Fragment: "UBER", Category: "Transport & Fuel"}}
	if got := MatchRule("CHECKERS HYPER", rules); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := MatchRule("ANYTHING", nil); got != nil {
		t.Fatalf("expected nil for empty table, got %+v", got)
	}
}

func TestMatchRuleEqualLengthKeepsTableOrder(t *testing.T) {
	rules := []CategoryRule{
		{Fragment: "ABCD", Category: "Entertainment"},
		{Fragment: "BCDE", Category: "Travel"},
	}
	// Merchant contains both four-char fragments; the first-listed wins.
	if got := MatchRule("XABCDEX", rules); got == nil || got.Category != "Entertainment" {
		t.Fatalf("expected first-listed rule, got %+v", got)
	}
}

func TestMatchRuleDoesNotReorderInput(t *testing.T) {
	rules := []CategoryRule{
		{Fragment: "A", Category: "Travel"},
		{Fragment: "LONGFRAGMENT", Category: "Entertainment"},
	}
	MatchRule("LONGFRAGMENT", rules)
	if rules[0].Fragment != "A" || rules[1].Fragment != "LONGFRAGMENT" {
		t.Fatalf("input slice was reordered: %+v", rules)
	}
}

func TestMatchRuleSkipsEmptyFragments(t *testing.T) {
	rules := []CategoryRule{
		{Fragment: "", Category: "Travel"},
		{Fragment: "   ", Category: "Travel"},
		{Fragment: "KFC", Category: "Eating Out"},
	}
	if got := MatchRule("KFC BRAAMFONTEIN", rules); got == nil || got.Category != "Eating Out" {
		t.Fatalf("expected Eating Out, got %+v", got)
	}
}
