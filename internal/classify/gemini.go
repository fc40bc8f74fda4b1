package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"budgetbuddy/internal/core"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-lite"

type GeminiConfig struct {
	APIKey string
	Model  string // defaults to DefaultModel
}

// Gemini classifies transactions with a generative model constrained to
// strict JSON output over the fixed taxonomy.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Classifier = (*Gemini)(nil)

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, core.E(core.KindConfig, "gemini_client", "classifier", errors.New("missing API key"))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, core.E(core.KindClassifier, "gemini_client", "classifier", fmt.Errorf("create genai client: %w", err))
	}
	return &Gemini{client: client, model: model}, nil
}

// modelResponse is the only shape the model is allowed to return.
type modelResponse struct {
	Category   string  `json:"category"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

func (g *Gemini) Classify(ctx context.Context, req Request) (core.Classification, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(req)}},
		},
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return core.Classification{}, core.E(core.KindClassifier, "classify", "classifier", fmt.Errorf("generate content: %w", err))
	}

	raw := resp.Text()
	if raw == "" {
		return core.Classification{}, core.E(core.KindClassifier, "classify", "classifier", errors.New("empty model response"))
	}

	parsed, err := ParseModelResponse(raw)
	if err != nil {
		return core.Classification{}, core.E(core.KindClassifier, "classify", "classifier", err)
	}
	return parsed, nil
}

func buildPrompt(req Request) string {
	cats, _ := json.Marshal(core.Categories())
	var b strings.Builder
	b.WriteString("You are a strict financial classifier for a personal budget.\n\n")
	b.WriteString("Transaction Details:\n")
	fmt.Fprintf(&b, "- Merchant: %q\n", req.Merchant)
	fmt.Fprintf(&b, "- Merchant Classification: %q\n", req.MerchantHint)
	fmt.Fprintf(&b, "- Amount: R%s\n\n", req.Amount.String())
	fmt.Fprintf(&b, "Allowed Categories: %s\n\n", cats)
	b.WriteString("Task:\n")
	b.WriteString("1. Analyze the Merchant and Merchant Classification.\n")
	b.WriteString("2. Assign the most accurate Category from the allowed list.\n")
	b.WriteString("3. Determine sentiment (Essential vs Discretionary).\n")
	b.WriteString("4. Return JSON: {\"category\": \"String\", \"sentiment\": \"String\", \"confidence\": Number}\n")
	return b.String()
}

// ParseModelResponse decodes the model's JSON, tolerating markdown fences
// the model sometimes adds despite instructions. The returned category and
// sentiment are already coerced onto the taxonomy.
func ParseModelResponse(raw string) (core.Classification, error) {
	clean := stripCodeFences(raw)

	var mr modelResponse
	if err := json.Unmarshal([]byte(clean), &mr); err != nil {
		return core.Classification{}, fmt.Errorf("unmarshal model response: %w", err)
	}
	confidence := mr.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return core.Classification{
		Category:   core.CoerceCategory(mr.Category),
		Sentiment:  core.CoerceSentiment(mr.Sentiment),
		Confidence: confidence,
		Source:     core.SourceLLM,
	}, nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
