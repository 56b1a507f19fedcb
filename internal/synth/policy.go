package synth

import (
	"regexp"
	"strings"

	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

var (
	phonePattern = regexp.MustCompile(`\+?\(?\d[\d\s().-]{5,}\d`)
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	// timeRangePattern matches opening hours such as 10.00-23.00 or 9h30 – 18h.
	timeRangePattern = regexp.MustCompile(`(?:[01]?\d|2[0-4])[.:h][0-5]\d\s*[-–]\s*(?:[01]?\d|2[0-4])[.:h][0-5]\d`)
	digitRunPattern  = regexp.MustCompile(`\d[\d\s().-]*\d`)
	// sentencePattern splits on terminal punctuation followed by a space or end,
	// so decimals like 4.8 stay inside their sentence.
	sentencePattern = regexp.MustCompile(`(?s).*?(?:[.!?]+(?:\s+|$)|\n+|$)`)
	spacePattern    = regexp.MustCompile(`[ \t]{2,}`)
)

// directContactPhrases flag sentences that send the user to the venue itself.
var directContactPhrases = textutil.NormalizeAll([]string{
	"contactez", "appelez", "telephonez", "contacter directement", "joindre directement", "directement aupres",
	"call them", "call the venue", "call the restaurant", "contact the", "contact them", "reach out to", "get in touch with", "phone them",
	"llame", "llamen", "contacte", "contacten", "pongase en contacto",
	"chiamate", "chiami", "contattate", "contatti direttamente",
	"whatsapp", "direct contact", "contact direct",
})

// contactVerbs drop a sentence only when it also carries a digit run.
var contactVerbs = textutil.NormalizeAll([]string{
	" call ", " calling ", " phone ", " ring ", " dial ", " sms ", " tel ",
	"appel", "telephon", " joindre ", " composez ",
	"llam", "telefon", " marque ",
	"chiam", "contatt",
	"contact",
})

// minContactDigits is the shortest digit run that turns a contact verb into a
// contact instruction.
const minContactDigits = 3

// Sanitize enforces the response policy on any text sent to a user: phone
// numbers and e-mail addresses are removed, sentences telling the user to
// contact a venue directly are dropped, and the text always ends with cta.
// Opening-hour ranges are never treated as phone numbers.
func Sanitize(text, cta string) string {
	var b strings.Builder
	for _, sentence := range sentencePattern.FindAllString(text, -1) {
		if sentence == "" || isContactSentence(sentence) {
			continue
		}
		sentence = outsideTimeRanges(sentence, func(seg string) string {
			return phonePattern.ReplaceAllStringFunc(seg, func(m string) string {
				if isPhoneNumber(m) {
					return ""
				}
				return m
			})
		})
		b.WriteString(emailPattern.ReplaceAllString(sentence, ""))
	}

	out := strings.TrimSpace(spacePattern.ReplaceAllString(b.String(), " "))
	if cta == "" || strings.HasSuffix(out, cta) {
		return out
	}
	if out == "" {
		return cta
	}
	return out + "\n\n" + cta
}

// ContainsPhoneNumber reports whether text holds a phone-number-shaped
// substring outside any opening-hour range.
func ContainsPhoneNumber(text string) bool {
	found := false
	outsideTimeRanges(text, func(seg string) string {
		for _, m := range phonePattern.FindAllString(seg, -1) {
			if isPhoneNumber(m) {
				found = true
			}
		}
		return seg
	})
	return found
}

func isContactSentence(sentence string) bool {
	norm := textutil.Pad(textutil.Canonical(sentence))
	if len(textutil.ContainsAny(norm, directContactPhrases)) > 0 {
		return true
	}
	if len(textutil.ContainsAny(norm, contactVerbs)) == 0 {
		return false
	}
	stripped := timeRangePattern.ReplaceAllString(sentence, " ")
	for _, run := range digitRunPattern.FindAllString(stripped, -1) {
		if countDigits(run) >= minContactDigits {
			return true
		}
	}
	return false
}

// outsideTimeRanges applies fn to every segment of text that is not an
// opening-hour range and reassembles the result.
func outsideTimeRanges(text string, fn func(string) string) string {
	var b strings.Builder
	last := 0
	for _, loc := range timeRangePattern.FindAllStringIndex(text, -1) {
		b.WriteString(fn(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(fn(text[last:]))
	return b.String()
}

// minPhoneDigits keeps review counts and prices out of the phone filter while
// still catching local seven-digit numbers.
const minPhoneDigits = 7

func isPhoneNumber(candidate string) bool {
	return countDigits(candidate) >= minPhoneDigits
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
