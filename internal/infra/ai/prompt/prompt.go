package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/growthaudit/internal/domain/audit"
)

// Field names of the JSON object the model must return.
const (
	FieldGrowthScore = "growthScore"
	FieldProblems    = "problems"
	FieldSolutions   = "solutions"
	FieldVerdict     = "verdict"
)

// Required lists every field the response schema marks as required.
var Required = []string{FieldGrowthScore, FieldProblems, FieldSolutions, FieldVerdict}

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior social media growth strategist. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- growthScore is a number between 0 and 100.
- problems and solutions each contain exactly 3 short, concrete strings.
- verdict is a one-sentence summary.

Schema (example with empty values):
{
  "growthScore": 0,
  "problems": ["<string>", "<string>", "<string>"],
  "solutions": ["<string>", "<string>", "<string>"],
  "verdict": "<string>"
}`
}

// GetUserPrompt embeds the platform, the handle and the target language.
func GetUserPrompt(input string, platform audit.Platform, lang audit.Language) string {
	return fmt.Sprintf(`Analyze the following %s account: %q.
The user wants to know why their account is not growing and getting more engagement.
Based on typical patterns for this platform and input, generate a professional, realistic audit.
Provide the response in %s.`,
		platformName(platform), cleanInput(input), lang.DisplayName())
}

func platformName(p audit.Platform) string {
	switch p {
	case audit.PlatformInstagramReels:
		return "Instagram Reels"
	case audit.PlatformInstagram:
		return "Instagram"
	case audit.PlatformTikTok:
		return "TikTok"
	case audit.PlatformFacebook:
		return "Facebook"
	}
	if p == "" {
		return "social media"
	}
	return string(p)
}

// cleanInput drops control characters so the handle cannot break out of
// its quoted slot in the prompt.
func cleanInput(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
