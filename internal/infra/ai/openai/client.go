package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
	"github.com/bryanwahyu/growthaudit/internal/infra/ai/prompt"
)

const (
	maxTokens    = 1024
	defaultModel = "gpt-4.1-mini"
	providerName = "openai"
)

type Client struct {
	*openai.Client
	Model string
}

// NewClient builds a client; baseURL is optional (proxies, tests).
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// Analyze implements audit.Analyzer. One call, no retry.
func (c *Client) Analyze(ctx context.Context, input string, platform audit.Platform, lang audit.Language) (audit.AnalysisResult, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "growth_audit",
				Schema: responseSchema(),
				Strict: true,
			},
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(input, platform, lang)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return audit.AnalysisResult{}, audit.NewAnalysisError(providerName, classify(err))
	}
	if len(resp.Choices) == 0 {
		return audit.AnalysisResult{}, audit.NewAnalysisError(providerName, errors.New("no choices in completion"))
	}

	res, err := prompt.Parse(resp.Choices[0].Message.Content)
	if err != nil {
		return audit.AnalysisResult{}, audit.NewAnalysisError(providerName, err)
	}
	return res, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", audit.ErrQuotaExceeded, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", audit.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}

func responseSchema() *jsonschema.Definition {
	list := jsonschema.Definition{
		Type:  jsonschema.Array,
		Items: &jsonschema.Definition{Type: jsonschema.String},
	}
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			prompt.FieldGrowthScore: {Type: jsonschema.Number, Description: "0-100"},
			prompt.FieldProblems:    list,
			prompt.FieldSolutions:   list,
			prompt.FieldVerdict:     {Type: jsonschema.String},
		},
		Required:             prompt.Required,
		AdditionalProperties: false,
	}
}
