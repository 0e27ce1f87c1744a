package orchestration

import (
	"strings"

	"github.com/koscakluka/ema-translate/core/messages"
	"golang.org/x/text/language"
)

// speechLanguage picks the language hint for a reply: target language
// replies are spoken in the target language, everything else in the user's.
func speechLanguage(session Session, kind messages.Kind) string {
	if kind == messages.KindTarget {
		return composeLanguageTag(session.TargetLanguage, session.Country)
	}
	return composeLanguageTag(session.UserLanguage, session.Country)
}

// composeLanguageTag joins a language code and a country into a BCP 47 tag.
// Values that don't parse are passed through so the receiver can decide.
func composeLanguageTag(lang, country string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}

	country = strings.TrimSpace(country)
	if country == "" {
		return tag.String()
	}

	region, err := language.ParseRegion(country)
	if err != nil {
		return tag.String()
	}

	composed, err := language.Compose(tag, region)
	if err != nil {
		return tag.String()
	}
	return composed.String()
}
