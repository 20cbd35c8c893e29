// Package i18n provides the message dictionaries injected into text formatting.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language codes with a bundled dictionary.
const (
	English = "en"
	Telugu  = "te"
)

// Dictionary maps message keys to text. Unknown keys render as the key itself.
type Dictionary map[string]string

// T returns the text for key
func (d Dictionary) T(key string) string {
	if v, ok := d[key]; ok {
		return v
	}
	return key
}

var dictionaries = map[string]Dictionary{
	English: {
		"year":              "year",
		"years":             "years",
		"month":             "month",
		"months":            "months",
		"day":               "day",
		"days":              "days",
		"perYear":           "per year",
		"hundred":           "100",
		"fillAllFields":     "Please fill in all fields",
		"endDateError":      "End date must be after start date",
		"invalidNumbers":    "Please enter valid positive numbers",
		"principalTooLarge": "Principal amount is too large",
		"rateTooLarge":      "Interest rate is too large",
		"invalidDate":       "Please enter a valid date",
	},
	Telugu: {
		"year":              "సంవత్సరం",
		"years":             "సంవత్సరాలు",
		"month":             "నెల",
		"months":            "నెలలు",
		"day":               "రోజు",
		"days":              "రోజులు",
		"perYear":           "సంవత్సరానికి",
		"hundred":           "100",
		"fillAllFields":     "దయచేసి అన్ని ఫీల్డ్‌లను పూరించండి",
		"endDateError":      "ముగింపు తేదీ ప్రారంభ తేదీ తర్వాత ఉండాలి",
		"invalidNumbers":    "దయచేసి సరైన ధన సంఖ్యలను నమోదు చేయండి",
		"principalTooLarge": "అసలు మొత్తం చాలా ఎక్కువగా ఉంది",
		"rateTooLarge":      "వడ్డీ రేటు చాలా ఎక్కువగా ఉంది",
		"invalidDate":       "దయచేసి సరైన తేదీని నమోదు చేయండి",
	},
}

// Supported reports whether lang has a dictionary
func Supported(lang string) bool {
	_, ok := dictionaries[lang]
	return ok
}

// Lookup returns the dictionary for lang, or the fallback language's
// dictionary, or English.
func Lookup(lang, fallback string) Dictionary {
	if d, ok := dictionaries[normalize(lang)]; ok {
		return d
	}
	if d, ok := dictionaries[normalize(fallback)]; ok {
		return d
	}
	return dictionaries[English]
}

// matchOrder lists the dictionaries in matcher index order; the first is the
// matcher's fallback.
var matchOrder = []string{English, Telugu}

var matcher = language.NewMatcher([]language.Tag{
	language.MustParse(English),
	language.MustParse(Telugu),
})

// FromAcceptLanguage returns the supported language the Accept-Language
// header prefers most, honouring quality weights, or "" when none matches.
func FromAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return matchOrder[index]
}

// normalize reduces "te-IN" or " EN " to the primary subtag.
func normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	primary, _, _ := strings.Cut(tag, "-")
	return primary
}
