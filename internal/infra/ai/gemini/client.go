package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
	"github.com/bryanwahyu/growthaudit/internal/infra/ai/prompt"
)

const (
	defaultModel = "gemini-2.5-flash"
	providerName = "gemini"
)

// generateFunc matches genai's Models.GenerateContent.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client runs audits through the Gemini API with a constrained response schema.
type Client struct {
	model    string
	generate generateFunc
}

// NewClient creates a Gemini-backed analyzer.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newClient(model, client.Models.GenerateContent), nil
}

func newClient(model string, gen generateFunc) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{model: model, generate: gen}
}

// Analyze implements audit.Analyzer. One call, no retry.
func (c *Client) Analyze(ctx context.Context, input string, platform audit.Platform, lang audit.Language) (audit.AnalysisResult, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.GetSystemPrompt(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt.GetUserPrompt(input, platform, lang), genai.RoleUser),
	}

	resp, err := c.generate(ctx, c.model, contents, cfg)
	if err != nil {
		return audit.AnalysisResult{}, audit.NewAnalysisError(providerName, classify(err))
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return audit.AnalysisResult{}, audit.NewAnalysisError(providerName, errors.New("no candidates returned"))
	}

	res, err := prompt.Parse(resp.Text())
	if err != nil {
		return audit.AnalysisResult{}, audit.NewAnalysisError(providerName, err)
	}
	return res, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", audit.ErrQuotaExceeded, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", audit.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("GenAI generate failed: %w", err)
}

func responseSchema() *genai.Schema {
	list := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			prompt.FieldGrowthScore: {Type: genai.TypeNumber},
			prompt.FieldProblems:    list,
			prompt.FieldSolutions:   list,
			prompt.FieldVerdict:     {Type: genai.TypeString},
		},
		Required: prompt.Required,
	}
}
