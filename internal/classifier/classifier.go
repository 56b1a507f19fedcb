// Package classifier maps a message to an intent category using catalog
// entity lookup and ordered keyword rules.
package classifier

import (
	"log/slog"
	"math"
	"strings"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

const (
	// minNameTokenLen is the rune length a name token must exceed to count as a match.
	minNameTokenLen = 3

	// keywordConfidenceBoost is added to the keyword match ratio.
	keywordConfidenceBoost = 0.3

	// generalConfidence is returned when nothing matched.
	generalConfidence = 0.5
)

// Classifier determines the intent of a message against a catalog snapshot.
type Classifier interface {
	Classify(text string, catalog []models.CatalogItem) models.Intent
}

// CategoryRule binds one intent category to its keyword set. Rules are
// evaluated in slice order and the first rule with any hit wins.
type CategoryRule struct {
	Category models.IntentCategory
	Keywords []string
}

// KeywordBucket is a named group of service or dish keywords.
type KeywordBucket struct {
	Name     string
	Keywords []string
}

// Rules is the complete keyword configuration of a classifier.
type Rules struct {
	Categories []CategoryRule
	Services   []KeywordBucket
	Dishes     []KeywordBucket
}

// HeuristicClassifier uses entity lookup followed by ordered keyword rules.
type HeuristicClassifier struct {
	rules  Rules
	logger *slog.Logger
}

// NewClassifier creates a classifier over DefaultRules.
func NewClassifier(logger *slog.Logger) *HeuristicClassifier {
	return NewClassifierWithRules(DefaultRules(), logger)
}

// NewClassifierWithRules creates a classifier over custom rules. Keywords are
// normalized once here.
func NewClassifierWithRules(rules Rules, logger *slog.Logger) *HeuristicClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	norm := Rules{
		Categories: make([]CategoryRule, 0, len(rules.Categories)),
		Services:   normalizeBuckets(rules.Services),
		Dishes:     normalizeBuckets(rules.Dishes),
	}
	for _, r := range rules.Categories {
		norm.Categories = append(norm.Categories, CategoryRule{
			Category: r.Category,
			Keywords: textutil.NormalizeAll(r.Keywords),
		})
	}
	return &HeuristicClassifier{rules: norm, logger: logger}
}

// Rules returns the normalized rules in evaluation order.
func (c *HeuristicClassifier) Rules() Rules { return c.rules }

// Classify determines the intent of text. The order of checks is fixed:
// catalog entity, category keywords, service keywords, dish keywords, general.
func (c *HeuristicClassifier) Classify(text string, catalog []models.CatalogItem) models.Intent {
	canonical := textutil.Canonical(text)
	if canonical == "" {
		return models.Intent{Category: models.IntentGeneral, Confidence: generalConfidence, SourceText: text}
	}
	normalized := textutil.Pad(canonical)

	if intent, ok := c.matchEntities(normalized, catalog); ok {
		intent.SourceText = text
		c.log(intent)
		return intent
	}

	for _, rule := range c.rules.Categories {
		hits := textutil.ContainsAny(normalized, rule.Keywords)
		if len(hits) == 0 {
			continue
		}
		intent := models.Intent{
			Category:   rule.Category,
			Confidence: keywordConfidence(len(hits), len(rule.Keywords)),
			SourceText: text,
		}
		for _, h := range hits {
			intent.Entities = append(intent.Entities, models.Entity{Kind: models.EntityKeyword, Keyword: h, Bucket: string(rule.Category)})
		}
		c.log(intent)
		return intent
	}

	if intent, ok := matchBuckets(normalized, c.rules.Services, models.IntentServiceKeyword, catalog, models.CatalogItem.ServiceTerms); ok {
		intent.SourceText = text
		c.log(intent)
		return intent
	}
	if intent, ok := matchBuckets(normalized, c.rules.Dishes, models.IntentDishKeyword, catalog, models.CatalogItem.DishTerms); ok {
		intent.SourceText = text
		c.log(intent)
		return intent
	}

	intent := models.Intent{Category: models.IntentGeneral, Confidence: generalConfidence, SourceText: text}
	c.log(intent)
	return intent
}

// matchEntities collects every catalog item whose full name or a name token
// appears in text. Full-name matches are listed before token-only matches;
// within each group catalog order is preserved.
func (c *HeuristicClassifier) matchEntities(text string, catalog []models.CatalogItem) (models.Intent, bool) {
	var full, partial []models.Entity
	for i := range catalog {
		item := catalog[i]
		name := textutil.Canonical(item.Name)
		if name == "" {
			continue
		}
		if strings.Contains(text, name) {
			full = append(full, models.Entity{Kind: models.EntityItem, Item: &item})
			continue
		}
		for _, tok := range textutil.NameTokens(item.Name, minNameTokenLen) {
			if strings.Contains(text, tok) {
				partial = append(partial, models.Entity{Kind: models.EntityItem, Item: &item})
				break
			}
		}
	}
	if len(full)+len(partial) == 0 {
		return models.Intent{}, false
	}
	return models.Intent{
		Category:   models.IntentSpecificEntity,
		Confidence: 1.0,
		Entities:   append(full, partial...),
	}, true
}

// itemFields selects the catalog fields a bucket family is checked against.
type itemFields func(models.CatalogItem) []string

// matchBuckets tests every bucket of a family against text. A text hit is
// enough to select the category; catalog items carrying any keyword of a
// matched bucket become item entities after the keyword entities.
func matchBuckets(text string, buckets []KeywordBucket, category models.IntentCategory, catalog []models.CatalogItem, fields itemFields) (models.Intent, bool) {
	var (
		keywords []models.Entity
		bucketKW []string
		matched  int
		total    int
	)
	for _, b := range buckets {
		hits := textutil.ContainsAny(text, b.Keywords)
		if len(hits) == 0 {
			continue
		}
		matched += len(hits)
		total += len(b.Keywords)
		for _, kw := range b.Keywords {
			keywords = append(keywords, models.Entity{Kind: models.EntityKeyword, Keyword: kw, Bucket: b.Name})
		}
		bucketKW = append(bucketKW, b.Keywords...)
	}
	if matched == 0 {
		return models.Intent{}, false
	}

	entities := keywords
	for i := range catalog {
		item := catalog[i]
		if _, ok := textutil.AnyContains(fields(item), bucketKW); ok {
			entities = append(entities, models.Entity{Kind: models.EntityItem, Item: &item})
		}
	}

	return models.Intent{
		Category:   category,
		Confidence: keywordConfidence(matched, total),
		Entities:   entities,
	}, true
}

func keywordConfidence(matched, total int) float64 {
	if total <= 0 {
		return generalConfidence
	}
	return math.Min(float64(matched)/float64(total)+keywordConfidenceBoost, 1.0)
}

func normalizeBuckets(in []KeywordBucket) []KeywordBucket {
	out := make([]KeywordBucket, 0, len(in))
	for _, b := range in {
		out = append(out, KeywordBucket{Name: b.Name, Keywords: textutil.NormalizeAll(b.Keywords)})
	}
	return out
}

func (c *HeuristicClassifier) log(intent models.Intent) {
	c.logger.Debug("classified request",
		"category", intent.Category,
		"confidence", intent.Confidence,
		"entities", len(intent.Entities),
		"text_prefix", truncate(intent.SourceText, 60),
	)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
