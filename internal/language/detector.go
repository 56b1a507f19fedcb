// Package language scores free text against per-language keyword tables.
package language

import (
	"log/slog"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// Confidence tier thresholds on the winning score.
const (
	HighThreshold   = 0.7
	MediumThreshold = 0.5
)

// Buckets holds the four keyword groups of one language. Entries may carry
// surrounding spaces; the input is padded so they also match at the edges.
type Buckets struct {
	Greetings []string
	Questions []string
	Function  []string
	Domain    []string
}

func (b Buckets) all() []string {
	out := make([]string, 0, len(b.Greetings)+len(b.Questions)+len(b.Function)+len(b.Domain))
	out = append(out, b.Greetings...)
	out = append(out, b.Questions...)
	out = append(out, b.Function...)
	return append(out, b.Domain...)
}

// DefaultTables are the built-in keyword tables.
var DefaultTables = map[models.Language]Buckets{
	models.LangFrench: {
		Greetings: []string{"bonjour", "bonsoir", "salut", "coucou", "bonne journée"},
		Questions: []string{"pourquoi", "comment", "quand", "quel", "quelle", "combien", "est-ce que", "où "},
		Function:  []string{" je ", " vous ", " nous ", " le ", " la ", " les ", " des ", " du ", " une ", " et ", " pour ", " avec ", " dans ", " pas "},
		Domain:    []string{"réserver", "plage", "soirée", "dîner", "déjeuner", "voudrais", "veux", "cherche", "ce soir", "demain"},
	},
	models.LangEnglish: {
		Greetings: []string{"hello", "good morning", "good evening", "good afternoon", "hi there"},
		Questions: []string{"what", "where", "when", "which", "how ", "can you", "could you", "who "},
		Function:  []string{" the ", " and ", " for ", " with ", " you ", " i ", " is ", " are ", " to ", " of ", " my "},
		Domain:    []string{"book", "tonight", "tomorrow", "looking for", "would like", "want", "beach", "dinner", "table for"},
	},
	models.LangSpanish: {
		Greetings: []string{"hola", "buenos días", "buenas noches", "buenas tardes"},
		Questions: []string{"dónde", "cuándo", "cuál", "cómo", "cuánto", "por qué", "qué "},
		Function:  []string{" el ", " los ", " las ", " una ", " y ", " para ", " con ", " en ", " es ", " mi ", " yo "},
		Domain:    []string{"reservar", "playa", "cena", "quiero", "busco", "esta noche", "mañana", "restaurante"},
	},
	models.LangItalian: {
		Greetings: []string{"ciao", "buongiorno", "buonasera", "salve"},
		Questions: []string{"dove", "quando", "quale", "come ", "perché", "quanto"},
		Function:  []string{" il ", " gli ", " sono ", " di ", " che ", " per ", " con "},
		Domain:    []string{"prenotare", "prenotazione", "spiaggia", "vorrei", "cerco", "stasera", "domani", "ristorante"},
	},
}

// Detector picks the best-scoring language for a message.
type Detector struct {
	defaultLang models.Language
	order       []models.Language
	tables      map[models.Language][]string
	logger      *slog.Logger
}

// NewDetector creates a detector over DefaultTables. defaultLang is returned for
// empty input and wins every tie; unsupported values fall back to French.
func NewDetector(defaultLang models.Language, logger *slog.Logger) *Detector {
	return NewDetectorWithTables(defaultLang, DefaultTables, logger)
}

// NewDetectorWithTables creates a detector over custom keyword tables.
func NewDetectorWithTables(defaultLang models.Language, tables map[models.Language]Buckets, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if _, ok := tables[defaultLang]; !ok {
		defaultLang = models.LangFrench
	}

	// Tie-break order: default first, then the fixed supported order.
	order := []models.Language{defaultLang}
	for _, l := range models.SupportedLanguages {
		if _, ok := tables[l]; ok && l != defaultLang {
			order = append(order, l)
		}
	}

	normalized := make(map[models.Language][]string, len(tables))
	for lang, b := range tables {
		words := b.all()
		normalized[lang] = textutil.NormalizeAll(words)
	}

	return &Detector{
		defaultLang: defaultLang,
		order:       order,
		tables:      normalized,
		logger:      logger,
	}
}

// Default returns the configured default language.
func (d *Detector) Default() models.Language { return d.defaultLang }

// Detect returns the best language and its confidence tier. Empty or invalid
// input yields the default language with low confidence.
func (d *Detector) Detect(text string) models.Detection {
	normalized := textutil.Canonical(text)
	if normalized == "" {
		return models.Detection{Language: d.defaultLang, Confidence: models.ConfidenceLow}
	}
	padded := textutil.Pad(normalized)

	best := d.defaultLang
	bestScore := 0.0
	for _, lang := range d.order {
		kws := d.tables[lang]
		if len(kws) == 0 {
			continue
		}
		found := len(textutil.ContainsAny(padded, kws))
		score := float64(found) / float64(len(kws))
		if score > bestScore {
			best = lang
			bestScore = score
		}
	}

	det := models.Detection{Language: best, Confidence: Tier(bestScore), Score: bestScore}
	d.logger.Debug("detected language", "language", det.Language, "score", det.Score, "tier", det.Confidence)
	return det
}

// Tier maps a numeric score to a confidence tier.
func Tier(score float64) models.ConfidenceTier {
	switch {
	case score >= HighThreshold:
		return models.ConfidenceHigh
	case score >= MediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
