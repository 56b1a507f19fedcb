// Package synth turns a classified intent and ranked candidates into the
// concierge's reply text.
package synth

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// MaxListed is the most candidates a reply ever presents.
const MaxListed = 3

// Synthesizer renders replies from a phrasebook table.
type Synthesizer struct {
	phrasebooks map[models.Language]Phrasebook
	defaultLang models.Language
	limit       int
	logger      *slog.Logger
}

// NewSynthesizer creates a synthesizer over DefaultPhrasebooks. limit is
// clamped to [1, MaxListed].
func NewSynthesizer(defaultLang models.Language, limit int, logger *slog.Logger) *Synthesizer {
	return NewSynthesizerWithPhrasebooks(DefaultPhrasebooks, defaultLang, limit, logger)
}

// NewSynthesizerWithPhrasebooks creates a synthesizer over a custom table.
// The default language must be present in the table; otherwise French is used.
func NewSynthesizerWithPhrasebooks(books map[models.Language]Phrasebook, defaultLang models.Language, limit int, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	if _, ok := books[defaultLang]; !ok {
		defaultLang = models.LangFrench
	}
	if limit <= 0 || limit > MaxListed {
		limit = MaxListed
	}
	return &Synthesizer{phrasebooks: books, defaultLang: defaultLang, limit: limit, logger: logger}
}

// Phrasebook returns the wording for lang, falling back to the default language.
func (s *Synthesizer) Phrasebook(lang models.Language) Phrasebook {
	if pb, ok := s.phrasebooks[lang]; ok {
		return pb
	}
	return s.phrasebooks[s.defaultLang]
}

// Greeting returns the opening message for lang.
func (s *Synthesizer) Greeting(lang models.Language) string {
	pb := s.Phrasebook(lang)
	return Sanitize(pb.Greeting, pb.CTA)
}

// Apology returns the repeated-failure message for lang.
func (s *Synthesizer) Apology(lang models.Language) string {
	pb := s.Phrasebook(lang)
	return Sanitize(pb.Apology, pb.CTA)
}

// Respond renders the reply. The label only adjusts wording; it never changes
// which case is rendered.
func (s *Synthesizer) Respond(intent models.Intent, ranked []models.ScoredCandidate, lang models.Language, label models.ClientProfile) string {
	pb := s.Phrasebook(lang)

	var body string
	switch {
	case intent.Category == models.IntentGreeting:
		body = pb.Greeting
	case len(ranked) == 0:
		body = s.clarify(pb, intent)
	case intent.Category == models.IntentSpecificEntity && len(ranked) == 1:
		body = describe(pb, ranked[0].Item)
	case intent.Category == models.IntentSpecificEntity:
		body = s.list(pb, intent.Category, pinPrimary(intent, ranked), label)
	default:
		body = s.list(pb, intent.Category, ranked, label)
	}

	s.logger.Debug("synthesized response", "category", intent.Category, "candidates", len(ranked), "language", lang)
	return Sanitize(body, pb.CTA)
}

// clarify asks for the missing details. Keyword and entity intents restate
// what the user asked for; only a general intent asks for a category.
func (s *Synthesizer) clarify(pb Phrasebook, intent models.Intent) string {
	if noun, ok := pb.Categories[intent.Category]; ok {
		return fmt.Sprintf(pb.Clarify, noun)
	}
	if intent.Category == models.IntentGeneral || pb.ClarifyKeyword == "" {
		return pb.AskCategory
	}
	if term := requestedTerm(intent); term != "" {
		return fmt.Sprintf(pb.ClarifyKeyword, term)
	}
	return pb.AskCategory
}

// requestedTerm returns what the user asked for: the referenced venue name,
// else the keyword found in the message, else the matched bucket name.
func requestedTerm(intent models.Intent) string {
	if primary, ok := intent.Primary(); ok && intent.Category == models.IntentSpecificEntity {
		return primary.Name
	}
	text := textutil.Pad(textutil.Canonical(intent.SourceText))
	for _, e := range intent.Entities {
		if e.Kind == models.EntityKeyword && e.Keyword != "" && strings.Contains(text, e.Keyword) {
			return strings.TrimSpace(e.Keyword)
		}
	}
	for _, e := range intent.Entities {
		if e.Kind != models.EntityKeyword {
			continue
		}
		if e.Bucket != "" {
			return e.Bucket
		}
		if kw := strings.TrimSpace(e.Keyword); kw != "" {
			return kw
		}
	}
	return ""
}

// pinPrimary moves the intent's primary item to the top of the list, keeping
// the relative order of the others.
func pinPrimary(intent models.Intent, ranked []models.ScoredCandidate) []models.ScoredCandidate {
	primary, ok := intent.Primary()
	if !ok {
		return ranked
	}
	for i, c := range ranked {
		if c.Item.ID != primary.ID {
			continue
		}
		if i == 0 {
			return ranked
		}
		out := make([]models.ScoredCandidate, 0, len(ranked))
		out = append(out, c)
		out = append(out, ranked[:i]...)
		return append(out, ranked[i+1:]...)
	}
	return ranked
}

// describe renders a single item from the fields it actually carries.
func describe(pb Phrasebook, item models.CatalogItem) string {
	var b strings.Builder
	b.WriteString(displayName(pb, item))

	var details []string
	if item.Rating != nil {
		details = append(details, ratingText(pb, item))
	}
	if item.PriceTier != nil && *item.PriceTier > 0 {
		details = append(details, fmt.Sprintf(pb.Price, priceText(*item.PriceTier)))
	}
	if item.Zone != "" {
		details = append(details, fmt.Sprintf(pb.Zone, item.Zone))
	}
	if len(details) > 0 {
		b.WriteString(", ")
		b.WriteString(strings.Join(details, ", "))
	}
	b.WriteString(".")

	if d := strings.TrimSpace(item.Description); d != "" {
		b.WriteString(" ")
		b.WriteString(d)
		if !strings.HasSuffix(d, ".") && !strings.HasSuffix(d, "!") {
			b.WriteString(".")
		}
	}
	if len(item.Specialties) > 0 {
		b.WriteString(" ")
		b.WriteString(capitalize(fmt.Sprintf(pb.Specialties, strings.Join(item.Specialties, ", "))))
		b.WriteString(".")
	}
	if len(item.Features) > 0 {
		b.WriteString(" ")
		b.WriteString(capitalize(fmt.Sprintf(pb.Features, strings.Join(item.Features, ", "))))
		b.WriteString(".")
	}
	return b.String()
}

func (s *Synthesizer) list(pb Phrasebook, category models.IntentCategory, ranked []models.ScoredCandidate, label models.ClientProfile) string {
	var b strings.Builder
	if noun, ok := pb.Categories[category]; ok {
		b.WriteString(fmt.Sprintf(pb.ListIntro, noun))
	} else {
		b.WriteString(pb.ListIntroGeneric)
	}
	if hint, ok := pb.ProfileHints[label]; ok {
		b.WriteString(" ")
		b.WriteString(hint)
	}

	n := len(ranked)
	if n > s.limit {
		n = s.limit
	}
	for i := 0; i < n; i++ {
		item := ranked[i].Item
		fmt.Fprintf(&b, "\n%d) %s", i+1, displayName(pb, item))
		if d := differentiator(pb, item); d != "" {
			b.WriteString(" · ")
			b.WriteString(d)
		}
	}
	return b.String()
}

// differentiator picks one distinguishing detail: rating, else price tier,
// else the first feature.
func differentiator(pb Phrasebook, item models.CatalogItem) string {
	switch {
	case item.Rating != nil:
		return ratingText(pb, item)
	case item.PriceTier != nil && *item.PriceTier > 0:
		return fmt.Sprintf(pb.Price, priceText(*item.PriceTier))
	case len(item.Features) > 0:
		return item.Features[0]
	default:
		return ""
	}
}

func displayName(pb Phrasebook, item models.CatalogItem) string {
	if item.Sponsored {
		return SponsorMarker + " " + item.Name + " " + pb.Sponsored
	}
	return item.Name
}

func ratingText(pb Phrasebook, item models.CatalogItem) string {
	if item.ReviewCount != nil {
		return fmt.Sprintf(pb.RatingReviews, *item.Rating, *item.ReviewCount)
	}
	return fmt.Sprintf(pb.Rating, *item.Rating)
}

func priceText(tier int) string {
	return strings.Repeat("€", tier)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
