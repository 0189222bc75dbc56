package audit

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported UI/content language.
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
	LangHebrew  Language = "he"
)

// DefaultLanguage is what every unsupported language falls back to.
const DefaultLanguage = LangEnglish

// Supported lists the languages with content banks, fallback first.
var Supported = []Language{LangEnglish, LangArabic, LangHebrew}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Arabic,
	language.Hebrew,
})

// ResolveLanguage maps a BCP 47 tag ("en-US", "ar-EG", "he-IL") onto a
// supported language. Unknown or malformed input resolves to English.
func ResolveLanguage(raw string) Language {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return Supported[idx]
}

// ResolveAcceptLanguage is ResolveLanguage for an Accept-Language header.
func ResolveAcceptLanguage(header string) Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return Supported[idx]
}

// IsSupported reports whether l has its own content bank.
func (l Language) IsSupported() bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}
	return false
}

// DisplayName is the English name used in model prompts.
func (l Language) DisplayName() string {
	switch l {
	case LangArabic:
		return "Arabic"
	case LangHebrew:
		return "Hebrew"
	default:
		return "English"
	}
}

// RTL reports whether the language is written right-to-left.
func (l Language) RTL() bool {
	return l == LangArabic || l == LangHebrew
}
