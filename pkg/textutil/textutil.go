// Package textutil provides the text normalization shared by detection,
// classification and scoring, plus XML escaping for prompt construction.
package textutil

import (
	"encoding/xml"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases, trims and strips diacritics so "Dîner" matches "diner".
// Invalid UTF-8 yields the empty string.
func Normalize(s string) string {
	if !utf8.ValidString(s) {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Canonical normalizes s and collapses every run of punctuation or space
// into a single space, so "Wi-Fi, svp" becomes "wi fi svp".
func Canonical(s string) string {
	return strings.Join(splitWords(Normalize(s)), " ")
}

// Pad surrounds s with single spaces so keywords written with edge spaces
// (" spa ") match at the start and end of a message.
func Pad(s string) string {
	return " " + s + " "
}

// NormalizeKeyword canonicalizes a keyword but keeps a leading or trailing
// space, which marks a word boundary.
func NormalizeKeyword(w string) string {
	lead := strings.HasPrefix(w, " ")
	trail := strings.HasSuffix(w, " ")
	n := Canonical(w)
	if n == "" {
		return ""
	}
	if lead {
		n = " " + n
	}
	if trail {
		n += " "
	}
	return n
}

// NormalizeAll applies NormalizeKeyword to every element and drops empty results.
func NormalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := NormalizeKeyword(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsAny reports the keywords that occur as substrings of text.
// Both sides are expected to be normalized already.
func ContainsAny(text string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// AnyContains reports the first keyword found inside any of the values.
// Values are canonicalized and padded; keywords go through NormalizeKeyword.
func AnyContains(values []string, keywords []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	padded := make([]string, 0, len(values))
	for _, v := range values {
		if c := Canonical(v); c != "" {
			padded = append(padded, Pad(c))
		}
	}
	for _, kw := range keywords {
		k := NormalizeKeyword(kw)
		if k == "" {
			continue
		}
		for _, v := range padded {
			if strings.Contains(v, k) {
				return kw, true
			}
		}
	}
	return "", false
}

// NameTokens splits a name into normalized tokens longer than minLen runes.
func NameTokens(name string, minLen int) []string {
	var out []string
	for _, f := range splitWords(Normalize(name)) {
		if utf8.RuneCountInString(f) > minLen {
			out = append(out, f)
		}
	}
	return out
}

// EscapeXML replaces characters with special meaning in XML so user text can
// be embedded in XML-delimited prompt templates.
func EscapeXML(s string) string {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
