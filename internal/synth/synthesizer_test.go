package synth_test

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/synth"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newSynth() *synth.Synthesizer {
	return synth.NewSynthesizer(models.LangFrench, 3, newTestLogger())
}

func candidates(items ...models.CatalogItem) []models.ScoredCandidate {
	out := make([]models.ScoredCandidate, 0, len(items))
	for _, it := range items {
		out = append(out, models.ScoredCandidate{Item: it})
	}
	return out
}

func TestRespond_Greeting(t *testing.T) {
	s := newSynth()
	out := s.Respond(models.Intent{Category: models.IntentGreeting}, nil, models.LangEnglish, models.ProfileGeneralPremium)
	pb := synth.DefaultPhrasebooks[models.LangEnglish]
	assert.True(t, strings.HasPrefix(out, "Hello"))
	assert.True(t, strings.HasSuffix(out, pb.CTA))
}

func TestRespond_NoCandidatesClarifies(t *testing.T) {
	s := newSynth()
	pb := synth.DefaultPhrasebooks[models.LangFrench]

	out := s.Respond(models.Intent{Category: models.IntentBeach}, nil, models.LangFrench, models.ProfileGeneralPremium)
	assert.Contains(t, out, "une plage")
	assert.Contains(t, out, "?")
	assert.True(t, strings.HasSuffix(out, pb.CTA))

	out = s.Respond(models.Intent{Category: models.IntentGeneral}, []models.ScoredCandidate{}, models.LangFrench, models.ProfileGeneralPremium)
	assert.Contains(t, out, pb.AskCategory)
}

func TestRespond_NoCandidatesRestatesRequest(t *testing.T) {
	s := newSynth()
	nobu := models.CatalogItem{ID: "nobu", Name: "Nobu Marbella"}

	tests := []struct {
		name     string
		intent   models.Intent
		lang     models.Language
		expected string
	}{
		{
			name: "dish keyword from message",
			intent: models.Intent{
				Category:   models.IntentDishKeyword,
				SourceText: "je veux du sashimi",
				Entities: []models.Entity{
					{Kind: models.EntityKeyword, Keyword: "sushi", Bucket: "sushi"},
					{Kind: models.EntityKeyword, Keyword: "sashimi", Bucket: "sushi"},
				},
			},
			lang:     models.LangFrench,
			expected: "« sashimi »",
		},
		{
			name: "service keyword falls back to bucket",
			intent: models.Intent{
				Category: models.IntentServiceKeyword,
				Entities: []models.Entity{{Kind: models.EntityKeyword, Keyword: "piscina", Bucket: "pool"}},
			},
			lang:     models.LangEnglish,
			expected: `"pool"`,
		},
		{
			name: "specific entity names the venue",
			intent: models.Intent{
				Category: models.IntentSpecificEntity,
				Entities: []models.Entity{{Kind: models.EntityItem, Item: &nobu}},
			},
			lang:     models.LangSpanish,
			expected: "«Nobu Marbella»",
		},
		{
			name: "italian keyword",
			intent: models.Intent{
				Category:   models.IntentDishKeyword,
				SourceText: "una pizza stasera",
				Entities:   []models.Entity{{Kind: models.EntityKeyword, Keyword: "pizza", Bucket: "pizza"}},
			},
			lang:     models.LangItalian,
			expected: "«pizza»",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := synth.DefaultPhrasebooks[tt.lang]
			out := s.Respond(tt.intent, nil, tt.lang, "")
			assert.Contains(t, out, tt.expected)
			assert.Contains(t, out, "?")
			assert.NotContains(t, out, pb.AskCategory)
			assert.True(t, strings.HasSuffix(out, pb.CTA))
		})
	}
}

func TestRespond_NoCandidatesGeneralAsksCategory(t *testing.T) {
	s := newSynth()
	pb := synth.DefaultPhrasebooks[models.LangEnglish]
	out := s.Respond(models.Intent{Category: models.IntentGeneral, SourceText: "hmm"}, nil, models.LangEnglish, "")
	assert.Contains(t, out, pb.AskCategory)

	out = s.Respond(models.Intent{Category: models.IntentDishKeyword}, nil, models.LangEnglish, "")
	assert.Contains(t, out, pb.AskCategory, "no keyword to restate")
}

func TestRespond_SpecificEntityListPinsPrimary(t *testing.T) {
	s := newSynth()
	primary := models.CatalogItem{ID: "sala", Name: "La Sala", Rating: models.Float64(4.1)}
	other := models.CatalogItem{ID: "sala-beach", Name: "La Sala Beach", Rating: models.Float64(4.9)}
	intent := models.Intent{
		Category: models.IntentSpecificEntity,
		Entities: []models.Entity{
			{Kind: models.EntityItem, Item: &primary},
			{Kind: models.EntityItem, Item: &other},
		},
	}
	ranked := []models.ScoredCandidate{{Item: other, Score: 90}, {Item: primary, Score: 40}}

	out := s.Respond(intent, ranked, models.LangEnglish, "")
	assert.Contains(t, out, "\n1) La Sala · ")
	assert.Contains(t, out, "\n2) La Sala Beach · ")
	assert.Equal(t, "sala-beach", ranked[0].Item.ID, "input order untouched")
}

func TestRespond_SingleEntityUsesPresentFieldsOnly(t *testing.T) {
	s := newSynth()
	item := models.CatalogItem{ID: "nobu", Name: "Nobu Marbella"}
	intent := models.Intent{Category: models.IntentSpecificEntity}

	out := s.Respond(intent, candidates(item), models.LangFrench, models.ProfileGeneralPremium)
	assert.True(t, strings.HasPrefix(out, "Nobu Marbella."))
	assert.NotContains(t, out, "noté")
	assert.NotContains(t, out, "€")
	assert.NotContains(t, out, "spécialités")
}

func TestRespond_SingleEntityFullDescription(t *testing.T) {
	s := newSynth()
	item := models.CatalogItem{
		ID:          "nobu",
		Name:        "Nobu Marbella",
		Description: "Cuisine japonaise-péruvienne. Réservations au +34 952 77 88 99",
		Rating:      models.Float64(4.8),
		ReviewCount: models.Int(1200),
		PriceTier:   models.Int(4),
		Zone:        "Puente Romano",
		Specialties: []string{"sushi", "black cod"},
		Sponsored:   true,
	}
	out := s.Respond(models.Intent{Category: models.IntentSpecificEntity}, candidates(item), models.LangFrench, "")

	assert.Contains(t, out, synth.SponsorMarker+" Nobu Marbella")
	assert.Contains(t, out, "noté 4.8/5 (1200 avis)")
	assert.Contains(t, out, "€€€€")
	assert.Contains(t, out, "à Puente Romano")
	assert.Contains(t, out, "Spécialités : sushi, black cod")
	assert.False(t, synth.ContainsPhoneNumber(out), out)
}

func TestRespond_ListAtMostThree(t *testing.T) {
	s := newSynth()
	ranked := candidates(
		models.CatalogItem{ID: "a", Name: "Alpha", Rating: models.Float64(4.9)},
		models.CatalogItem{ID: "b", Name: "Bravo", PriceTier: models.Int(2)},
		models.CatalogItem{ID: "c", Name: "Charlie", Features: []string{"sea view"}, Sponsored: true},
		models.CatalogItem{ID: "d", Name: "Delta"},
	)
	out := s.Respond(models.Intent{Category: models.IntentRestaurant}, ranked, models.LangEnglish, models.ProfileRomantic)

	assert.Contains(t, out, "Here is my selection for a restaurant:")
	assert.Contains(t, out, synth.DefaultPhrasebooks[models.LangEnglish].ProfileHints[models.ProfileRomantic])
	assert.Contains(t, out, "1) Alpha · rated 4.9/5")
	assert.Contains(t, out, "2) Bravo · price range €€")
	assert.Contains(t, out, "3) "+synth.SponsorMarker+" Charlie (partner) · sea view")
	assert.NotContains(t, out, "Delta")
	assert.Less(t, strings.Index(out, "Alpha"), strings.Index(out, "Bravo"))
}

func TestRespond_ListLimitHonored(t *testing.T) {
	s := synth.NewSynthesizer(models.LangFrench, 1, newTestLogger())
	ranked := candidates(
		models.CatalogItem{ID: "a", Name: "Alpha"},
		models.CatalogItem{ID: "b", Name: "Bravo"},
	)
	out := s.Respond(models.Intent{Category: models.IntentClub}, ranked, models.LangFrench, "")
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Bravo")
}

func TestRespond_UnsupportedLanguageFallsBack(t *testing.T) {
	s := newSynth()
	out := s.Respond(models.Intent{Category: models.IntentGreeting}, nil, models.Language("de"), "")
	assert.Equal(t, synth.Sanitize(synth.DefaultPhrasebooks[models.LangFrench].Greeting, synth.DefaultPhrasebooks[models.LangFrench].CTA), out)
}

func TestRespond_SushiScenario(t *testing.T) {
	s := newSynth()
	nobu := models.CatalogItem{
		ID: "nobu", Name: "Nobu Marbella", Kind: models.KindEstablishment, Category: "restaurant",
		Rating: models.Float64(4.8), Specialties: []string{"sushi", "sashimi"},
	}
	out := s.Respond(models.Intent{Category: models.IntentDishKeyword}, candidates(nobu), models.LangFrench, "")
	assert.Contains(t, out, "Nobu Marbella")
	assert.False(t, synth.ContainsPhoneNumber(out))
}

func TestSanitize(t *testing.T) {
	cta := "Shall I book?"

	tests := []struct {
		name     string
		in       string
		contains []string
		absent   []string
	}{
		{
			name:     "phone removed",
			in:       "Nobu is lovely. Their number is +34 952 77 88 99 for info.",
			contains: []string{"Nobu is lovely."},
			absent:   []string{"952"},
		},
		{
			name:     "contact sentence dropped",
			in:       "Great sushi here. You can call the restaurant for a table! Enjoy.",
			contains: []string{"Great sushi here.", "Enjoy."},
			absent:   []string{"call the restaurant"},
		},
		{
			name:     "french contact sentence dropped",
			in:       "Très belle adresse. Contactez-les directement pour réserver.",
			contains: []string{"Très belle adresse."},
			absent:   []string{"Contactez"},
		},
		{
			name:     "email removed",
			in:       "Write to booking@venue.com today.",
			absent:   []string{"@"},
			contains: []string{"today."},
		},
		{
			name:     "decimals and review counts survive",
			in:       "Rated 4.8/5 (1200 reviews).",
			contains: []string{"Rated 4.8/5 (1200 reviews)."},
		},
		{
			name:     "opening hours survive",
			in:       "Open 10.00-23.00 every day. Call 555-1234 for info.",
			contains: []string{"Open 10.00-23.00 every day."},
			absent:   []string{"555", "Call"},
		},
		{
			name:     "opening hours with h separator survive",
			in:       "Ouvert de 9h30 – 18h00 en semaine.",
			contains: []string{"9h30 – 18h00"},
		},
		{
			name:     "seven digit local number removed",
			in:       "Great views. The number is 555 1234 if needed.",
			contains: []string{"Great views."},
			absent:   []string{"1234"},
		},
		{
			name:     "contact verb with short digits dropped",
			in:       "Lovely terrace. Appelez au 952 77 88. See you soon.",
			contains: []string{"Lovely terrace.", "See you soon."},
			absent:   []string{"952", "Appelez"},
		},
		{
			name:     "spanish contact verb with digits dropped",
			in:       "Muy buen sitio. Llámenos al 600 123 para reservar.",
			contains: []string{"Muy buen sitio."},
			absent:   []string{"600"},
		},
		{
			name:     "contact verb next to opening hours only is kept",
			in:       "Call ahead if you arrive after 23.00-01.00 hours.",
			contains: []string{"23.00-01.00"},
		},
		{
			name:     "french rating line survives",
			in:       "1) Nobu Marbella · noté 4.8/5 (1240 avis)",
			contains: []string{"noté 4.8/5 (1240 avis)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := synth.Sanitize(tt.in, cta)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
			assert.True(t, strings.HasSuffix(out, cta))
		})
	}
}

func TestContainsPhoneNumber(t *testing.T) {
	tests := []struct {
		in       string
		expected bool
	}{
		{in: "tel 555-1234", expected: true},
		{in: "+34 952 77 88 99", expected: true},
		{in: "(952) 778-899", expected: true},
		{in: "Open 10.00-23.00 every day", expected: false},
		{in: "from 9:30 - 18:45", expected: false},
		{in: "rated 4.8/5 (1200 reviews)", expected: false},
		{in: "open 10.00-23.00, tel 555-1234", expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, synth.ContainsPhoneNumber(tt.in))
		})
	}
}

func TestSanitize_EmptyYieldsCTA(t *testing.T) {
	assert.Equal(t, "Book?", synth.Sanitize("", "Book?"))
	assert.Equal(t, "Book?", synth.Sanitize("Call them now.", "Book?"))
}

func TestSanitize_CTANotDuplicated(t *testing.T) {
	out := synth.Sanitize("Here you go. Book?", "Book?")
	require.Equal(t, 1, strings.Count(out, "Book?"))
}

func TestApology(t *testing.T) {
	s := newSynth()
	pb := synth.DefaultPhrasebooks[models.LangSpanish]
	out := s.Apology(models.LangSpanish)
	assert.Contains(t, out, pb.Apology)
	assert.True(t, strings.HasSuffix(out, pb.CTA))
}
