package classify

import (
	"context"
	"strings"
	"testing"

	"budgetbuddy/internal/core"
)

func TestParseModelResponse(t *testing.T) {
	got, err := ParseModelResponse(`{"category": "Eating Out", "sentiment": "Discretionary", "confidence": 0.85}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := core.Classification{Category: "Eating Out", Sentiment: core.SentimentDiscretionary, Confidence: 0.85, Source: core.SourceLLM}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseModelResponseStripsFences(t *testing.T) {
	raw := "```json\n{\"category\": \"groceries\", \"sentiment\": \"essential\", \"confidence\": 0.9}\n```"
	got, err := ParseModelResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Category != "Groceries" || got.Sentiment != core.SentimentEssential {
		t.Fatalf("unexpected classification: %+v", got)
	}
}

func TestParseModelResponseCoercesUnknownCategory(t *testing.T) {
	got, err := ParseModelResponse(`{"category": "Fast Food", "sentiment": "Nope", "confidence": 7}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Category != core.CategoryUncategorized {
		t.Fatalf("expected Uncategorized, got %q", got.Category)
	}
	if got.Sentiment != core.SentimentDiscretionary {
		t.Fatalf("expected Discretionary, got %q", got.Sentiment)
	}
	if got.Confidence != 1 {
		t.Fatalf("confidence should clamp to 1, got %v", got.Confidence)
	}
}

func TestParseModelResponseRejectsGarbage(t *testing.T) {
	if _, err := ParseModelResponse("the category is probably groceries"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuildPromptMentionsTaxonomyAndMerchant(t *testing.T) {
	p := buildPrompt(Request{Merchant: "UBER EATS JHB", MerchantHint: "Restaurants", Amount: core.Money{Cents: 12550}})
	for _, want := range []string{"UBER EATS JHB", "Restaurants", "125.50", "Uncategorized", "confidence"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestNewGeminiFailsFastWithoutKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	if !core.IsKind(err, core.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}
