// Package advisor answers free-form budget questions by letting a
// generative model call the budget and search services as tools.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/services"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey string
	Model  string // defaults to DefaultModel
}

type Advisor struct {
	client *genai.Client
	model  string
	budget *services.BudgetService
	search *services.SearchService
}

func New(ctx context.Context, cfg Config, budget *services.BudgetService, search *services.SearchService) (*Advisor, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, core.E(core.KindConfig, "advisor", "classifier", errors.New("missing API key"))
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
		return nil, core.E(core.KindClassifier, "advisor", "classifier", fmt.Errorf("create genai client: %w", err))
	}
	return &Advisor{client: client, model: model, budget: budget, search: search}, nil
}

// Ask runs one question through the model, executing at most one tool
// call before the final answer.
func (a *Advisor) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", core.E(core.KindValidation, "ask", "", errors.New("question is required"))
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: question}}},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction()}}},
		Tools:             []*genai.Tool{{FunctionDeclarations: toolDeclarations()}},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return "", core.E(core.KindClassifier, "ask", "classifier", fmt.Errorf("generate content: %w", err))
	}

	calls := resp.FunctionCalls()
	if len(calls) == 0 {
		return resp.Text(), nil
	}

	// One tool call per question for now; chained calls would need a loop
	// with a depth bound.
	call := calls[0]
	slog.InfoContext(ctx, "Model requested tool", "component", "advisor", "tool", call.Name)

	result, err := a.dispatchTool(ctx, call.Name, call.Args)
	if err != nil {
		return "", err
	}

	followUp := append(contents,
		resp.Candidates[0].Content,
		&genai.Content{Role: "user", Parts: []*genai.Part{{
			FunctionResponse: &genai.FunctionResponse{Name: call.Name, Response: result},
		}}},
	)
	answerConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{
			Text: "You are Budget Buddy. Answer based on the tool result. Currency: ZAR (R) - all values should be quoted in South African Rands.",
		}}},
	}
	answer, err := a.client.Models.GenerateContent(ctx, a.model, followUp, answerConfig)
	if err != nil {
		return "", core.E(core.KindClassifier, "ask", "classifier", fmt.Errorf("generate answer: %w", err))
	}
	return answer.Text(), nil
}

// dispatchTool executes one declared tool and shapes its output for the
// model.
func (a *Advisor) dispatchTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "getBudgetStatus":
		month, _ := args["month"].(string)
		overview, err := a.budget.ComputeStatus(ctx, month)
		if err != nil {
			return nil, err
		}
		return toToolResult(budgetView(overview))
	case "searchTransactions":
		result, err := a.search.Search(ctx, criteriaFromArgs(args))
		if err != nil {
			return nil, err
		}
		return toToolResult(searchView(result))
	default:
		return nil, core.E(core.KindValidation, "ask", "", fmt.Errorf("unknown tool %q", name))
	}
}

func criteriaFromArgs(args map[string]any) core.SearchCriteria {
	c := core.SearchCriteria{}
	if v, ok := args["merchant"].(string); ok {
		c.Merchant = v
	}
	if v, ok := args["category"].(string); ok {
		c.Category = v
	}
	if v, ok := args["month"].(string); ok {
		c.Month = v
	}
	if v, ok := args["date"].(string); ok {
		c.Date = v
	}
	if v, ok := args["min_amount"].(float64); ok && v > 0 {
		c.MinAmount = core.Money{Cents: int64(v*100.0 + 0.5)}
	}
	if v, ok := args["limit"].(float64); ok {
		c.Limit = int(v)
	}
	return c
}

func systemInstruction() string {
	today := time.Now().UTC().Format("2006-01-02")
	return "You are Budget Buddy, a helpful financial advisor. You have access to tools that can " +
		"provide real data about the user's spending and budgets. Always use the tools when relevant " +
		"to get accurate information before answering. Current Date: " + today + " - use this as the " +
		"default if no date is specified. Currency: ZAR (R) - all values should be quoted in South " +
		"African Rands. Always use tools to find facts. Never guess."
}

// toToolResult flattens any view struct into the map the function
// response part requires.
func toToolResult(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal tool result: %w", err)
	}
	return out, nil
}
