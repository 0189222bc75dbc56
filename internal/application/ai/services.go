package ai

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
	"github.com/bryanwahyu/growthaudit/internal/infra/ai/gemini"
	"github.com/bryanwahyu/growthaudit/internal/infra/ai/local"
	"github.com/bryanwahyu/growthaudit/internal/infra/ai/openai"
)

const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Options selects and configures an analyzer.
type Options struct {
	Provider string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey   string
	GeminiModel string
}

// NewAnalyzer returns the analyzer named by opts.Provider. Remote
// providers need an API key; there is no silent fallback to local.
func NewAnalyzer(ctx context.Context, opts Options) (audit.Analyzer, error) {
	switch opts.Provider {
	case ProviderLocal, "":
		return local.NewAnalyzer(), nil
	case ProviderOpenAI:
		if opts.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key (set analyzer.openai.apiKey or OPENAI_API_KEY)")
		}
		return openai.NewClient(opts.OpenAIKey, opts.OpenAIModel, opts.OpenAIBaseURL), nil
	case ProviderGemini:
		if opts.GeminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key (set analyzer.gemini.apiKey or GEMINI_API_KEY)")
		}
		c, err := gemini.NewClient(ctx, opts.GeminiKey, opts.GeminiModel)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", opts.Provider)
	}
}
