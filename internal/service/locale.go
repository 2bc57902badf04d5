package service

import (
	"strings"

	"rpg_tracker/internal/domain"

	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{language.English, language.Russian}

var localeMatcher = language.NewMatcher(supportedLocales)

// NormalizeLocale maps raw (e.g. "ru-RU") to a supported base locale.
func NormalizeLocale(raw string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, t := range supportedLocales {
		if b, _ := t.Base(); b == base {
			return b.String(), true
		}
	}
	return "", false
}

// PreferredLocale picks a supported locale from an Accept-Language header,
// falling back to the default locale.
func PreferredLocale(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return domain.DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return domain.DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return domain.DefaultLocale
	}
	base, _ := supportedLocales[idx].Base()
	return base.String()
}
