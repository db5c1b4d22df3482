package drivers

import (
	"strings"

	"github.com/reglet-dev/retrohost/abi"
)

// StaticUser answers GET_USERNAME and GET_LANGUAGE from fixed values.
type StaticUser struct {
	name string
	lang abi.Language
	set  bool
}

// NewStaticUser creates a StaticUser. lang is a BCP 47 style tag such as
// "en", "pt-BR" or "zh_Hant"; unrecognized tags leave the language unset.
func NewStaticUser(name, lang string) *StaticUser {
	l, ok := ParseLanguage(lang)
	return &StaticUser{name: name, lang: l, set: ok}
}

func (u *StaticUser) Username() (string, bool) { return u.name, u.name != "" }

func (u *StaticUser) Language() (abi.Language, bool) { return u.lang, u.set }

var languageTags = map[string]abi.Language{
	"en":          abi.LanguageEnglish,
	"en-us":       abi.LanguageEnglish,
	"en-gb":       abi.LanguageBritishEnglish,
	"ja":          abi.LanguageJapanese,
	"fr":          abi.LanguageFrench,
	"es":          abi.LanguageSpanish,
	"de":          abi.LanguageGerman,
	"it":          abi.LanguageItalian,
	"nl":          abi.LanguageDutch,
	"pt-br":       abi.LanguagePortugueseBrazil,
	"pt":          abi.LanguagePortuguesePortugal,
	"pt-pt":       abi.LanguagePortuguesePortugal,
	"ru":          abi.LanguageRussian,
	"ko":          abi.LanguageKorean,
	"zh-tw":       abi.LanguageChineseTraditional,
	"zh-hant":     abi.LanguageChineseTraditional,
	"zh":          abi.LanguageChineseSimplified,
	"zh-cn":       abi.LanguageChineseSimplified,
	"zh-hans":     abi.LanguageChineseSimplified,
	"eo":          abi.LanguageEsperanto,
	"pl":          abi.LanguagePolish,
	"vi":          abi.LanguageVietnamese,
	"ar":          abi.LanguageArabic,
	"el":          abi.LanguageGreek,
	"tr":          abi.LanguageTurkish,
	"sk":          abi.LanguageSlovak,
	"fa":          abi.LanguagePersian,
	"he":          abi.LanguageHebrew,
	"ast":         abi.LanguageAsturian,
	"fi":          abi.LanguageFinnish,
	"id":          abi.LanguageIndonesian,
	"sv":          abi.LanguageSwedish,
	"uk":          abi.LanguageUkrainian,
	"cs":          abi.LanguageCzech,
	"ca-valencia": abi.LanguageCatalanValencia,
	"ca":          abi.LanguageCatalan,
	"hu":          abi.LanguageHungarian,
	"be":          abi.LanguageBelarusian,
	"gl":          abi.LanguageGalician,
	"no":          abi.LanguageNorwegian,
	"nb":          abi.LanguageNorwegian,
}

// ParseLanguage maps a language tag onto a RETRO_LANGUAGE value. Region
// suffixes that have no entry of their own fall back to the base language.
func ParseLanguage(tag string) (abi.Language, bool) {
	tag = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	if tag == "" {
		return 0, false
	}
	if l, ok := languageTags[tag]; ok {
		return l, true
	}
	base, _, _ := strings.Cut(tag, "-")
	l, ok := languageTags[base]
	return l, ok
}
