package utils

// Minimal server-side i18n for fixed keys.
// Survey content is stored bilingually and returned whole; these strings
// cover only status copy the server emits itself.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":          "ok",
		"survey.no_data":     "No rating data available",
		"error.internal":     "internal server error",
		"error.unauthorized": "unauthorized",
	},
	"ar": {
		"health.ok":          "تمام",
		"survey.no_data":     "لا توجد بيانات تقييم",
		"error.internal":     "خطأ داخلي في الخادم",
		"error.unauthorized": "غير مصرح",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
