package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

func completionServer(t *testing.T, status int, content string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "slow down", "type": "rate_limit"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4.1-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestAnalyzeSuccess(t *testing.T) {
	srv, captured := completionServer(t, http.StatusOK,
		`{"growthScore": 61, "problems": ["a","b","c"], "solutions": ["d","e","f"], "verdict": "ok"}`)

	c := NewClient("test-key", "", srv.URL+"/v1")
	res, err := c.Analyze(context.Background(), "@brand", audit.PlatformTikTok, audit.LangHebrew)
	require.NoError(t, err)
	assert.Equal(t, 61, res.GrowthScore)
	assert.Equal(t, "ok", res.Verdict)

	req := *captured
	assert.Equal(t, defaultModel, req["model"])
	format, _ := req["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	msgs, _ := req["messages"].([]any)
	require.Len(t, msgs, 2)
	user, _ := msgs[1].(map[string]any)
	assert.Contains(t, user["content"], "Hebrew")
	assert.Contains(t, user["content"], "TikTok")
}

func TestAnalyzeMalformedReply(t *testing.T) {
	srv, _ := completionServer(t, http.StatusOK, `{"growthScore": 61, "problems": [`)

	c := NewClient("test-key", "gpt-4.1-mini", srv.URL+"/v1")
	_, err := c.Analyze(context.Background(), "@brand", audit.PlatformInstagram, audit.LangEnglish)
	var ae *audit.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "openai", ae.Provider)
}

func TestAnalyzeQuota(t *testing.T) {
	srv, _ := completionServer(t, http.StatusTooManyRequests, "")

	c := NewClient("test-key", "o3-mini", srv.URL+"/v1")
	_, err := c.Analyze(context.Background(), "@brand", audit.PlatformInstagram, audit.LangEnglish)
	var ae *audit.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.True(t, errors.Is(err, audit.ErrQuotaExceeded))
}

func TestAnalyzeServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient("test-key", "", srv.URL+"/v1")
	_, err := c.Analyze(context.Background(), "@brand", audit.PlatformInstagram, audit.LangEnglish)
	var ae *audit.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.False(t, errors.Is(err, audit.ErrQuotaExceeded))
}
