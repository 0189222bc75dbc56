package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

var errEmptyReply = errors.New("empty model reply")

// Parse turns a model reply into an AnalysisResult. Any failure is returned
// as *audit.AnalysisError; provider is filled in by the caller.
//
// The reply is normalized: growthScore is rounded and clamped into [0,100],
// blank list entries are dropped, and lists longer than 3 are truncated.
// Fewer than 3 entries, or an empty verdict, is a schema violation.
func Parse(text string) (audit.AnalysisResult, error) {
	raw := stripFences(text)
	if raw == "" {
		return audit.AnalysisResult{}, audit.NewAnalysisError("", errEmptyReply)
	}
	if !gjson.Valid(raw) {
		return audit.AnalysisResult{}, audit.NewAnalysisError("", fmt.Errorf("malformed JSON reply"))
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return audit.AnalysisResult{}, audit.NewAnalysisError("", &audit.ValidationError{Field: "reply", Reason: "not a JSON object"})
	}
	if err := checkShape(doc); err != nil {
		return audit.AnalysisResult{}, audit.NewAnalysisError("", err)
	}

	var body struct {
		GrowthScore float64  `json:"growthScore"`
		Problems    []string `json:"problems"`
		Solutions   []string `json:"solutions"`
		Verdict     string   `json:"verdict"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return audit.AnalysisResult{}, audit.NewAnalysisError("", fmt.Errorf("decode reply: %w", err))
	}

	res := audit.AnalysisResult{
		GrowthScore: clampScore(body.GrowthScore),
		Problems:    firstN(body.Problems, audit.ItemsPerList),
		Solutions:   firstN(body.Solutions, audit.ItemsPerList),
		Verdict:     strings.TrimSpace(body.Verdict),
	}
	if err := res.Validate(); err != nil {
		return audit.AnalysisResult{}, audit.NewAnalysisError("", err)
	}
	return res, nil
}

func checkShape(doc gjson.Result) error {
	for _, f := range Required {
		if !doc.Get(f).Exists() {
			return &audit.ValidationError{Field: f, Reason: "missing"}
		}
	}
	if doc.Get(FieldGrowthScore).Type != gjson.Number {
		return &audit.ValidationError{Field: FieldGrowthScore, Reason: "not a number"}
	}
	for _, f := range []string{FieldProblems, FieldSolutions} {
		v := doc.Get(f)
		if !v.IsArray() {
			return &audit.ValidationError{Field: f, Reason: "not an array"}
		}
		for _, it := range v.Array() {
			if it.Type != gjson.String {
				return &audit.ValidationError{Field: f, Reason: "non-string entry"}
			}
		}
	}
	if doc.Get(FieldVerdict).Type != gjson.String {
		return &audit.ValidationError{Field: FieldVerdict, Reason: "not a string"}
	}
	return nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func firstN(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == n {
			break
		}
	}
	return out
}

// stripFences removes a ```json ... ``` wrapper some models add anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
