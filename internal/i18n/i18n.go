// Package i18n holds the small translation table used by the templates.
// Turkish is the primary language of the console; English is the fallback.
package i18n

var messages = map[string]map[string]string{
	"tr": {
		"app.title":          "Haserol Doküman Paneli",
		"nav.customers":      "Müşteriler",
		"nav.documents":      "Dokümanlar",
		"nav.visits":         "Ziyaretler",
		"nav.calendar":       "Takvim",
		"nav.logout":         "Çıkış",
		"login.title":        "Giriş",
		"login.email":        "E-posta",
		"login.password":     "Şifre",
		"login.submit":       "Giriş Yap",
		"login.failed":       "E-posta veya şifre hatalı",
		"visit.planned":      "Planlandı",
		"visit.completed":    "Tamamlandı",
		"visit.cancelled":    "İptal Edildi",
		"visit.in_progress":  "Devam Ediyor",
		"visit.unknown":      "Bilinmiyor",
		"doc.footer":         "Bu doküman Haserol İlaçlama hizmet kayıtlarının bir parçasıdır; izinsiz çoğaltılamaz.",
		"error.no_scope":     "Önce bir müşteri veya şube seçin",
		"error.save_failed":  "Kaydetme başarısız oldu, önceki veriler korundu",
	},
	"en": {
		"app.title":          "Haserol Document Panel",
		"nav.customers":      "Customers",
		"nav.documents":      "Documents",
		"nav.visits":         "Visits",
		"nav.calendar":       "Calendar",
		"nav.logout":         "Sign out",
		"login.title":        "Sign in",
		"login.email":        "Email",
		"login.password":     "Password",
		"login.submit":       "Sign in",
		"login.failed":       "Wrong email or password",
		"visit.planned":      "Planned",
		"visit.completed":    "Completed",
		"visit.cancelled":    "Cancelled",
		"visit.in_progress":  "In progress",
		"visit.unknown":      "Unknown",
		"doc.footer":         "This document is part of the Haserol service records; reproduction without permission is prohibited.",
		"error.no_scope":     "Select a customer or branch first",
		"error.save_failed":  "Save failed; previous data kept",
	},
}

// T translates a message code for the given language, falling back to
// English and finally to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages["en"][code]; ok {
		return s
	}
	return code
}
