// Package i18n holds the localized strings the API hands back to clients.
package i18n

import "github.com/bryanwahyu/growthaudit/internal/domain/audit"

// Key identifies a localized message.
type Key string

const (
	ErrorMsg   Key = "errorMsg"
	EmptyInput Key = "emptyInput"
	Locked     Key = "locked"
	Busy       Key = "busy"
	NotFound   Key = "notFound"
)

var messages = map[audit.Language]map[Key]string{
	audit.LangEnglish: {
		ErrorMsg:   "Analysis failed. Please try again.",
		EmptyInput: "Enter an account handle or link first.",
		Locked:     "Follow to unlock the analyzer.",
		Busy:       "A newer analysis replaced this one.",
		NotFound:   "This analysis is no longer in your history.",
	},
	audit.LangArabic: {
		ErrorMsg:   "حدث خطأ أثناء التحليل. حاول مرة أخرى.",
		EmptyInput: "أدخل اسم الحساب أو الرابط أولاً.",
		Locked:     "تابعنا لفتح أداة التحليل.",
		Busy:       "تم استبدال هذا التحليل بتحليل أحدث.",
		NotFound:   "هذا التحليل لم يعد موجوداً في السجل.",
	},
	audit.LangHebrew: {
		ErrorMsg:   "הניתוח נכשל. נסה שוב.",
		EmptyInput: "הזן קודם שם משתמש או קישור.",
		Locked:     "עקוב כדי לפתוח את הכלי.",
		Busy:       "ניתוח חדש יותר החליף את זה.",
		NotFound:   "הניתוח הזה כבר לא נמצא בהיסטוריה.",
	},
}

// progress steps shown while an analysis runs
var steps = map[audit.Language][]string{
	audit.LangArabic:  {"الاتصال بقواعد بيانات المنصة...", "فحص معدلات التفاعل الحيوية...", "تحليل الـ SEO والكلمات المفتاحية...", "توليد الخطة الاستراتيجية..."},
	audit.LangEnglish: {"Connecting to platform API...", "Scanning engagement rates...", "Analyzing SEO & Keywords...", "Generating strategic roadmap..."},
	audit.LangHebrew:  {"מתחבר לנתוני הפלטפורמה...", "סורק שיעורי מעורבות...", "מנתח SEO ומילות מפתח...", "מייצר תוכנית אסטרטגית..."},
}

// Message returns the localized text for key, English when lang has none.
func Message(lang audit.Language, key Key) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return messages[audit.DefaultLanguage][key]
}

// Steps returns the progress labels for lang, English when lang has none.
func Steps(lang audit.Language) []string {
	s, ok := steps[lang]
	if !ok {
		s = steps[audit.DefaultLanguage]
	}
	return append([]string(nil), s...)
}
