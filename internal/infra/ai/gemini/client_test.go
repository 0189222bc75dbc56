package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

func reply(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotModel string
	var gotCfg *genai.GenerateContentConfig
	c := newClient("", func(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel, gotCfg = model, cfg
		require.Len(t, contents, 1)
		assert.Contains(t, contents[0].Parts[0].Text, "Arabic")
		return reply(`{"growthScore": 88, "problems": ["a","b","c"], "solutions": ["d","e","f"], "verdict": "v"}`), nil
	})

	res, err := c.Analyze(context.Background(), "@brand", audit.PlatformInstagram, audit.LangArabic)
	require.NoError(t, err)
	assert.Equal(t, 88, res.GrowthScore)
	assert.Equal(t, defaultModel, gotModel)
	assert.Equal(t, "application/json", gotCfg.ResponseMIMEType)
	assert.Equal(t, genai.TypeObject, gotCfg.ResponseSchema.Type)
	assert.ElementsMatch(t, []string{"growthScore", "problems", "solutions", "verdict"}, gotCfg.ResponseSchema.Required)
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name  string
		resp  *genai.GenerateContentResponse
		err   error
		quota bool
	}{
		{name: "malformed json", resp: reply(`{"growthScore": `)},
		{name: "schema violation", resp: reply(`{"growthScore": 50}`)},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "transport error", err: errors.New("dial tcp: connection refused")},
		{name: "quota", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}, quota: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient("gemini-test", func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return tc.resp, tc.err
			})
			_, err := c.Analyze(context.Background(), "@brand", audit.PlatformTikTok, audit.LangEnglish)
			var ae *audit.AnalysisError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "gemini", ae.Provider)
			assert.Equal(t, tc.quota, errors.Is(err, audit.ErrQuotaExceeded))
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "")
	assert.Error(t, err)
}
