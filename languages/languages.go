package languages

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Fallback is the language used when a preview language is unknown.
const Fallback = "en"

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var namer = display.English.Languages()

// Supported returns the recognised vocabulary sorted by code.
func Supported() []Language {
	codes := make([]string, 0, len(samples))
	for code := range samples {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]Language, 0, len(codes))
	for _, code := range codes {
		out = append(out, Language{Code: code, Name: Name(code)})
	}
	return out
}

// Normalize trims and lower-cases a language code.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsSupported reports whether code belongs to the recognised vocabulary.
func IsSupported(code string) bool {
	_, ok := samples[Normalize(code)]
	return ok
}

// Name returns the English display name of code, or the code itself when
// no name is known.
func Name(code string) string {
	code = Normalize(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := namer.Name(tag); name != "" {
		return name
	}
	return code
}

// Sample returns the preview sentence for code, falling back to English.
func Sample(code string) string {
	if text, ok := samples[Normalize(code)]; ok {
		return text
	}
	return samples[Fallback]
}
