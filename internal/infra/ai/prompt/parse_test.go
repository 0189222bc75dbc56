package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

const validReply = `{
  "growthScore": 72,
  "problems": ["Weak hooks", "Irregular posting", "No niche"],
  "solutions": ["Rewrite first lines", "Post daily", "Pick a niche"],
  "verdict": "Solid base, inconsistent execution."
}`

func TestParseValid(t *testing.T) {
	res, err := Parse(validReply)
	require.NoError(t, err)
	assert.Equal(t, 72, res.GrowthScore)
	assert.Equal(t, []string{"Weak hooks", "Irregular posting", "No niche"}, res.Problems)
	assert.Equal(t, "Solid base, inconsistent execution.", res.Verdict)
}

func TestParseNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		score int
		probs []string
	}{
		{
			name:  "score above range is clamped",
			reply: `{"growthScore": 180, "problems": ["a","b","c"], "solutions": ["d","e","f"], "verdict": "v"}`,
			score: 100,
			probs: []string{"a", "b", "c"},
		},
		{
			name:  "negative score is clamped",
			reply: `{"growthScore": -4, "problems": ["a","b","c"], "solutions": ["d","e","f"], "verdict": "v"}`,
			score: 0,
			probs: []string{"a", "b", "c"},
		},
		{
			name:  "fractional score is rounded",
			reply: `{"growthScore": 66.6, "problems": ["a","b","c"], "solutions": ["d","e","f"], "verdict": "v"}`,
			score: 67,
			probs: []string{"a", "b", "c"},
		},
		{
			name:  "extra entries are truncated, blanks skipped",
			reply: `{"growthScore": 40, "problems": [" ", "a","b","c","d"], "solutions": ["d","e","f","g"], "verdict": "v"}`,
			score: 40,
			probs: []string{"a", "b", "c"},
		},
		{
			name:  "code fences are stripped",
			reply: "```json\n{\"growthScore\": 10, \"problems\": [\"a\",\"b\",\"c\"], \"solutions\": [\"d\",\"e\",\"f\"], \"verdict\": \"v\"}\n```",
			score: 10,
			probs: []string{"a", "b", "c"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(tc.reply)
			require.NoError(t, err)
			assert.Equal(t, tc.score, res.GrowthScore)
			assert.Equal(t, tc.probs, res.Problems)
			assert.Len(t, res.Solutions, 3)
		})
	}
}

func TestParseFailures(t *testing.T) {
	replies := map[string]string{
		"empty":             "",
		"malformed json":    `{"growthScore": 50, "problems": [`,
		"not an object":     `[1,2,3]`,
		"missing verdict":   `{"growthScore": 50, "problems": ["a","b","c"], "solutions": ["d","e","f"]}`,
		"score as string":   `{"growthScore": "50", "problems": ["a","b","c"], "solutions": ["d","e","f"], "verdict": "v"}`,
		"problems not list": `{"growthScore": 50, "problems": "a", "solutions": ["d","e","f"], "verdict": "v"}`,
		"non-string entry":  `{"growthScore": 50, "problems": ["a", 2, "c"], "solutions": ["d","e","f"], "verdict": "v"}`,
		"too few entries":   `{"growthScore": 50, "problems": ["a","b"], "solutions": ["d","e","f"], "verdict": "v"}`,
		"blank verdict":     `{"growthScore": 50, "problems": ["a","b","c"], "solutions": ["d","e","f"], "verdict": "  "}`,
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(reply)
			require.Error(t, err)
			var ae *audit.AnalysisError
			assert.ErrorAs(t, err, &ae)
			assert.Equal(t, "analysis failed", err.Error())
		})
	}
}

func TestUserPrompt(t *testing.T) {
	p := GetUserPrompt("@brand\x00\n", audit.PlatformInstagramReels, audit.LangArabic)
	assert.Contains(t, p, "Instagram Reels")
	assert.Contains(t, p, `"@brand"`)
	assert.Contains(t, p, "Arabic")
	assert.NotContains(t, p, "\x00")

	assert.Contains(t, GetUserPrompt("x", "", audit.LangEnglish), "social media")
	assert.Contains(t, GetSystemPrompt(), `"growthScore"`)
}
