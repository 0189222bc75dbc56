package local

import "github.com/bryanwahyu/growthaudit/internal/domain/audit"

// advice holds the candidate lines for one platform category.
type advice struct {
	Problems  []string
	Solutions []string
}

// bank is the immutable content set for one language. Every advice list
// must carry at least 3 entries; selection never checks at runtime.
type bank struct {
	Categories map[audit.Category]advice
	Verdicts   []string
}

var banks = map[audit.Language]bank{
	audit.LangArabic: {
		Categories: map[audit.Category]advice{
			audit.CategoryInstagram: {
				Problems: []string{
					"ضعف في 'الكلمات الافتتاحية' (Keywords) في البايو، مما يجعل الحساب غير مرئي لمحركات بحث انستقرام.",
					"تنسيق الألوان (Color Palette) في الـ Grid غير متناسق، مما يقلل من نسبة تحويل المشاهدين إلى متابعين.",
					"استخدام هاشتاقات عامة جداً (Generic Hashtags) تؤدي لتصنيف المحتوى كـ Spam من قبل الخوارزمية.",
				},
				Solutions: []string{
					"تحويل الحساب إلى 'Professional Account' وتفعيل خيار 'Digital Creator' لزيادة الوصول.",
					"استخدام قاعدة الـ 9 مربعات لتنظيم الصور بشكل بصري مريح للعين.",
					"كتابة أول سطرين في المنشور بطريقة تثير الفضول (Hook Lines).",
				},
			},
			audit.CategoryTikTok: {
				Problems: []string{
					"إهمال الـ 'Trend Sounds' في أول 48 ساعة من صدورها، مما يفقدك زخم الانتشار السريع.",
					"جودة الإضاءة في فيديوهاتك تعطي إشارة للخوارزمية بأن المحتوى ذو جودة منخفضة (Low Quality).",
					"تجاوز مدة الفيديو لـ 15 ثانية دون وجود 'صدمة بصرية' في البداية.",
				},
				Solutions: []string{
					"التفاعل مع أول 10 تعليقات فور النشر لرفع تقييم الفيديو (Engagement Velocity).",
					"استخدم نصوصاً كبيرة وواضحة (Overlays) تشرح الفائدة من الفيديو في أول ثانية.",
					"النشر في أوقات الذروة المحلية لبلدك لضمان الدخول في الـ FYP.",
				},
			},
			audit.CategoryGeneric: {
				Problems: []string{
					"ضعف عام في هوية العلامة التجارية الشخصية.",
					"غياب التفاعل مع المنافسين في نفس المجال.",
					"عدم وضوح القيمة المضافة للمتابع.",
				},
				Solutions: []string{
					"تثبيت 3 منشورات توضح من أنت وماذا تقدم.",
					"استخدام ستوري تفاعلي يومي (استطلاعات رأي).",
					"تحسين جودة الصوت كأولوية أولى.",
				},
			},
		},
		Verdicts: []string{
			"حسابك يحتاج إلى إعادة ضبط مصنع (Brand Reset). المحتوى جيد لكن التغليف سيء.",
			"أنت قريب جداً من الانفجار، فقط تحتاج لتعديل الـ SEO الخاص بالحساب.",
			"الخوارزمية حالياً تتجاهل محتواك بسبب تكرار الأخطاء التقنية في النشر.",
		},
	},
	audit.LangEnglish: {
		Categories: map[audit.Category]advice{
			audit.CategoryInstagram: {
				Problems:  []string{"Bio keywords missing for Instagram SEO.", "Inconsistent Grid aesthetic.", "Over-use of saturated hashtags."},
				Solutions: []string{"Switch to Professional/Creator mode.", "Apply a 9-grid visual strategy.", "Optimize caption hooks."},
			},
			audit.CategoryTikTok: {
				Problems:  []string{"Ignoring trending audio peaks.", "Poor lighting flagging content as Low Quality.", "Lack of high-retention editing."},
				Solutions: []string{"Engage within 1-hour of posting.", "Use bold on-screen text overlays.", "Post during local peak traffic hours."},
			},
			audit.CategoryGeneric: {
				Problems:  []string{"Weak personal branding.", "Lack of competitor networking.", "Undefined value proposition."},
				Solutions: []string{"Pin 3 high-value introduction posts.", "Run daily interactive stories.", "Invest in better audio gear."},
			},
		},
		Verdicts: []string{"High potential, but technically invisible.", "Algorithmic plateau reached.", "Content is great, packaging needs work."},
	},
	audit.LangHebrew: {
		Categories: map[audit.Category]advice{
			audit.CategoryInstagram: {
				Problems: []string{
					"חסרים מילות מפתח (Keywords) בביו לקידום SEO באינסטגרם.",
					"אסתטיקה לא עקבית של ה-Grid.",
					"שימוש יתר בהאשטאגים רווים מדי שפוגעים בחשיפה.",
				},
				Solutions: []string{
					"העבר למצב Professional/Creator והפעל Digital Creator.",
					"החל אסטרטגיה ויזואלית של 9 משבצות לארגון הפיד.",
					"אופטימיזציה של ה-'Hook' בשורות הראשונות של הכיתוב.",
				},
			},
			audit.CategoryTikTok: {
				Problems: []string{
					"התעלמות משיאי טרנדים של אודיו ב-48 השעות הראשונות.",
					"תאורה גרועה המסמנת את התוכן כאיכות נמוכה לאלגוריתם.",
					"חוסר בעריכה מהירה ושומרת עניין בתחילת הסרטון.",
				},
				Solutions: []string{
					"צור אינטראקציה עם התגובות הראשונות להעלאת הדירוג.",
					"השתמש בטקסט בולט על המסך שמסביר את הערך מיידית.",
					"פרסם בשעות שיא התנועה המקומיות לכניסה ל-FYP.",
				},
			},
			audit.CategoryGeneric: {
				Problems:  []string{"מיתוג אישי חלש.", "חוסר באינטראקציה עם מתחרים בתחום.", "הצעת ערך לא ברורה לעוקבים."},
				Solutions: []string{"נעץ 3 פוסטים של הקדמה וערך בראש הפרופיל.", "נהל סטוריז אינטראקטיביים יומיים.", "השקע בשיפור איכות הסאונד כעדיפות עליונה."},
			},
		},
		Verdicts: []string{"פוטנציאל גבוה, אך בלתי נראה טכנית כרגע.", "הגעת למישור אלגוריתמי עקב חזרתיות.", "התוכן נהדר, אך האריזה והקידום זקוקים לשיפור."},
	},
}

// bankFor returns the bank for lang, English when lang has none.
func bankFor(lang audit.Language) bank {
	if b, ok := banks[lang]; ok {
		return b
	}
	return banks[audit.DefaultLanguage]
}
