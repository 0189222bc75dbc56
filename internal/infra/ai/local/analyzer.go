package local

import (
	"context"
	"unicode/utf16"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

const (
	minScore   = 25
	scoreRange = 70 // scores land in [25, 94]
)

// Analyzer is the deterministic, offline audit. Same input, platform and
// language always produce the same result.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze implements audit.Analyzer. It never returns an error.
func (a *Analyzer) Analyze(_ context.Context, input string, platform audit.Platform, lang audit.Language) (audit.AnalysisResult, error) {
	return Score(input, platform, lang), nil
}

// Hash is the 32-bit rolling hash (h*31 + c) over the UTF-16 code units of s.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

// Seed is |Hash(s)|, widened so that MinInt32 stays positive.
func Seed(s string) int64 {
	h := int64(Hash(s))
	if h < 0 {
		h = -h
	}
	return h
}

// Score derives the full result from input.
func Score(input string, platform audit.Platform, lang audit.Language) audit.AnalysisResult {
	seed := Seed(input)
	b := bankFor(lang)
	data := b.Categories[audit.CategoryOf(platform)]
	generic := b.Categories[audit.CategoryGeneric]

	i, j := int(seed%3), int((seed+1)%3)
	return audit.AnalysisResult{
		GrowthScore: minScore + int(seed%scoreRange),
		Problems:    []string{data.Problems[i], data.Problems[j], generic.Problems[i]},
		Solutions:   []string{data.Solutions[i], data.Solutions[j], generic.Solutions[i]},
		Verdict:     b.Verdicts[int(seed%int64(len(b.Verdicts)))],
	}
}
