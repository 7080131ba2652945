// Package locale holds the zodiac sign vocabularies and picks one for a request.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// SignCount is the number of zodiac signs.
const SignCount = 12

// Glyphs are the Unicode zodiac symbols, Aries first.
var Glyphs = [SignCount]string{
	"♈", "♉", "♊", "♋", "♌", "♍",
	"♎", "♏", "♐", "♑", "♒", "♓",
}

// Abbreviations are ASCII two-letter sign codes for glyph-less renderers.
var Abbreviations = [SignCount]string{
	"Ar", "Ta", "Ge", "Cn", "Le", "Vi", "Li", "Sc", "Sg", "Cp", "Aq", "Pi",
}

var signNames = map[language.Tag][SignCount]string{
	language.Spanish: {
		"Aries", "Tauro", "Géminis", "Cáncer", "Leo", "Virgo",
		"Libra", "Escorpio", "Sagitario", "Capricornio", "Acuario", "Piscis",
	},
	language.English: {
		"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
		"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
	},
}

var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

// Parse resolves a configured locale name such as "es" or "en-GB" to a
// supported tag.
func Parse(name string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(name))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", name, err)
	}
	_, index, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, fmt.Errorf("unsupported locale %q", name)
	}
	return supported[index], nil
}

// Negotiate picks the best supported tag for an Accept-Language header,
// falling back when nothing matches.
func Negotiate(acceptLanguage string, fallback language.Tag) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[index]
}

// SignNames returns the ordered sign names for tag, Spanish when unsupported.
func SignNames(tag language.Tag) [SignCount]string {
	if names, ok := signNames[tag]; ok {
		return names
	}
	return signNames[language.Spanish]
}
