package audit

import (
	"strings"
	"time"
)

// Platform is the social network an audit is scoped to.
type Platform string

const (
	PlatformInstagram      Platform = "instagram"
	PlatformInstagramReels Platform = "instagram_reels"
	PlatformTikTok         Platform = "tiktok"
	PlatformFacebook       Platform = "facebook"
)

// Category selects a content bank.
type Category string

const (
	CategoryInstagram Category = "instagram"
	CategoryTikTok    Category = "tiktok"
	CategoryGeneric   Category = "generic"
)

// CategoryOf maps a platform onto its content bank. Every instagram variant
// shares the instagram bank, anything unknown degrades to generic.
func CategoryOf(p Platform) Category {
	switch {
	case strings.Contains(string(p), "instagram"):
		return CategoryInstagram
	case p == PlatformTikTok:
		return CategoryTikTok
	default:
		return CategoryGeneric
	}
}

// ParsePlatform normalizes external input (query params, CLI flags).
func ParsePlatform(raw string) Platform {
	p := strings.ToLower(strings.TrimSpace(raw))
	p = strings.ReplaceAll(p, "-", "_")
	if p == "" {
		return PlatformInstagram
	}
	return Platform(p)
}

// AnalysisResult is the outcome of one audit.
type AnalysisResult struct {
	GrowthScore int      `json:"growthScore"`
	Problems    []string `json:"problems"`
	Solutions   []string `json:"solutions"`
	Verdict     string   `json:"verdict"`
}

// ItemsPerList is the fixed length of Problems and Solutions.
const ItemsPerList = 3

// Validate checks the shape every analyzer must hand back.
func (r AnalysisResult) Validate() error {
	if r.GrowthScore < 0 || r.GrowthScore > 100 {
		return &ValidationError{Field: "growthScore", Reason: "out of range"}
	}
	if err := validateList("problems", r.Problems); err != nil {
		return err
	}
	if err := validateList("solutions", r.Solutions); err != nil {
		return err
	}
	if strings.TrimSpace(r.Verdict) == "" {
		return &ValidationError{Field: "verdict", Reason: "empty"}
	}
	return nil
}

func validateList(field string, items []string) error {
	if len(items) != ItemsPerList {
		return &ValidationError{Field: field, Reason: "must have exactly 3 entries"}
	}
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			return &ValidationError{Field: field, Reason: "empty entry"}
		}
	}
	return nil
}

// HistoryItem is one stored audit, replayable without re-analysis.
type HistoryItem struct {
	ID        string         `json:"id"`
	Input     string         `json:"input"`
	Platform  Platform       `json:"platform"`
	Lang      Language       `json:"lang,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Result    AnalysisResult `json:"result"`
}
