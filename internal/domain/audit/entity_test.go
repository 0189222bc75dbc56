package audit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	cases := map[Platform]Category{
		PlatformInstagram:      CategoryInstagram,
		PlatformInstagramReels: CategoryInstagram,
		"reels_instagram_v2":   CategoryInstagram,
		PlatformTikTok:         CategoryTikTok,
		PlatformFacebook:       CategoryGeneric,
		"linkedin":             CategoryGeneric,
		"":                     CategoryGeneric,
		"tiktok_live":          CategoryGeneric,
	}
	for p, want := range cases {
		assert.Equal(t, want, CategoryOf(p), "platform %q", p)
	}
}

func TestParsePlatform(t *testing.T) {
	assert.Equal(t, PlatformInstagramReels, ParsePlatform(" Instagram-Reels "))
	assert.Equal(t, PlatformTikTok, ParsePlatform("TikTok"))
	assert.Equal(t, PlatformInstagram, ParsePlatform(""))
}

func TestResolveLanguage(t *testing.T) {
	cases := map[string]Language{
		"en":    LangEnglish,
		"en-US": LangEnglish,
		"ar":    LangArabic,
		"ar-EG": LangArabic,
		"he":    LangHebrew,
		"he-IL": LangHebrew,
		"fr":    LangEnglish,
		"":      LangEnglish,
		"!!":    LangEnglish,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ResolveLanguage(raw), "raw %q", raw)
	}
}

func TestResolveAcceptLanguage(t *testing.T) {
	assert.Equal(t, LangArabic, ResolveAcceptLanguage("ar-EG,ar;q=0.9,en;q=0.8"))
	assert.Equal(t, LangHebrew, ResolveAcceptLanguage("he-IL"))
	assert.Equal(t, LangEnglish, ResolveAcceptLanguage(""))
	assert.Equal(t, LangEnglish, ResolveAcceptLanguage("fr-FR"))
}

func TestLanguageHelpers(t *testing.T) {
	assert.True(t, LangArabic.RTL())
	assert.True(t, LangHebrew.RTL())
	assert.False(t, LangEnglish.RTL())
	assert.Equal(t, "Hebrew", LangHebrew.DisplayName())
	assert.Equal(t, "English", Language("fr").DisplayName())
	assert.False(t, Language("fr").IsSupported())
}

func TestAnalysisResultValidate(t *testing.T) {
	ok := AnalysisResult{
		GrowthScore: 50,
		Problems:    []string{"a", "b", "c"},
		Solutions:   []string{"d", "e", "f"},
		Verdict:     "v",
	}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.GrowthScore = 101
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Problems = []string{"a", "b"}
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Solutions = []string{"a", " ", "c"}
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Verdict = ""
	var ve *ValidationError
	require.ErrorAs(t, bad.Validate(), &ve)
	assert.Equal(t, "verdict", ve.Field)
}

func TestNewAnalysisError(t *testing.T) {
	cause := fmt.Errorf("wrapped: %w", ErrQuotaExceeded)
	err := NewAnalysisError("openai", cause)

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "analysis failed (openai)", err.Error())
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	// already an AnalysisError: not double wrapped
	again := NewAnalysisError("gemini", err)
	assert.Same(t, ae, again)
}
