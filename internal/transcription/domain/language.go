package domain

import (
	"sort"
	"strings"
)

var supportedLanguages = map[string]string{
	"fr": "Français",
	"en": "English",
	"es": "Español",
	"de": "Deutsch",
	"it": "Italiano",
	"pt": "Português",
	"nl": "Nederlands",
	"pl": "Polski",
	"ru": "Русский",
	"ja": "日本語",
	"ko": "한국어",
	"zh": "中文",
	"ar": "العربية",
	"hi": "हिन्दी",
	"tr": "Türkçe",
	"sv": "Svenska",
	"da": "Dansk",
	"no": "Norsk",
	"fi": "Suomi",
}

// Languages with non-Latin scripts that weigh heavier in pricing and
// processing.
var complexLanguages = map[string]struct{}{
	"zh": {}, "ja": {}, "ar": {}, "ko": {}, "hi": {},
}

// Language is a validated ISO 639-1 code from the supported set.
type Language struct {
	code string
}

func NewLanguage(code string) (Language, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if _, ok := supportedLanguages[normalized]; !ok {
		return Language{}, &ValidationError{Field: "language code", Value: code, Expected: supportedLanguageList()}
	}
	return Language{code: normalized}, nil
}

func French() Language  { return Language{code: "fr"} }
func English() Language { return Language{code: "en"} }
func Spanish() Language { return Language{code: "es"} }

func (l Language) Code() string   { return l.code }
func (l Language) Name() string   { return supportedLanguages[l.code] }
func (l Language) String() string { return l.code }
func (l Language) IsZero() bool   { return l.code == "" }

func (l Language) IsComplex() bool {
	_, ok := complexLanguages[l.code]
	return ok
}

func (l Language) Equals(other Language) bool { return l.code == other.code }

func supportedLanguageList() string {
	codes := make([]string, 0, len(supportedLanguages))
	for code := range supportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}
