// Package retrieval selects catalog candidates for a classified intent.
package retrieval

import (
	"log/slog"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// Expectation describes which catalog items satisfy a category intent.
// An item matches when its category is one of Categories, or when Kinds is
// non-empty and its kind is listed there.
type Expectation struct {
	Categories []string
	Kinds      []models.ItemKind
}

// DefaultExpectations maps each category intent to the catalog types it accepts.
var DefaultExpectations = map[models.IntentCategory]Expectation{
	models.IntentRestaurant: {Categories: []string{"restaurant", "bistro", "brasserie", "dining"}},
	models.IntentBeach:      {Categories: []string{"beach", "beach-club", "beach club", "plage"}},
	models.IntentClub:       {Categories: []string{"club", "nightclub", "night-club", "discotheque"}},
	models.IntentVilla:      {Categories: []string{"villa", "accommodation", "rental"}},
	models.IntentYacht:      {Categories: []string{"yacht", "boat", "charter"}},
	models.IntentSpa:        {Categories: []string{"spa", "wellness"}},
	models.IntentActivity:   {Categories: []string{"activity", "excursion", "sport"}, Kinds: []models.ItemKind{models.KindEvent}},
}

// Retriever turns an intent into candidate items.
type Retriever struct {
	expectations map[models.IntentCategory]Expectation
	logger       *slog.Logger
}

// NewRetriever creates a retriever over DefaultExpectations.
func NewRetriever(logger *slog.Logger) *Retriever {
	return NewRetrieverWithExpectations(DefaultExpectations, logger)
}

// NewRetrieverWithExpectations creates a retriever over a custom category table.
func NewRetrieverWithExpectations(exp map[models.IntentCategory]Expectation, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	norm := make(map[models.IntentCategory]Expectation, len(exp))
	for cat, e := range exp {
		norm[cat] = Expectation{Categories: textutil.NormalizeAll(e.Categories), Kinds: e.Kinds}
	}
	return &Retriever{expectations: norm, logger: logger}
}

// Retrieve returns the candidates for intent, deduplicated by id in order of
// first occurrence. An empty result is valid and means "no candidates".
func (r *Retriever) Retrieve(intent models.Intent, catalog []models.CatalogItem) []models.CatalogItem {
	var out []models.CatalogItem
	switch intent.Category {
	case models.IntentSpecificEntity:
		out = intent.Items()
	case models.IntentServiceKeyword:
		out = keywordCandidates(intent, catalog, models.CatalogItem.ServiceTerms)
	case models.IntentDishKeyword:
		out = keywordCandidates(intent, catalog, models.CatalogItem.DishTerms)
	default:
		if exp, ok := r.expectations[intent.Category]; ok {
			out = byExpectation(exp, catalog)
		}
	}
	out = dedupe(out)
	r.logger.Debug("retrieved candidates", "category", intent.Category, "count", len(out))
	return out
}

// keywordCandidates returns the items the classifier already matched, else
// the catalog items whose terms carry any of the intent's keywords.
func keywordCandidates(intent models.Intent, catalog []models.CatalogItem, terms func(models.CatalogItem) []string) []models.CatalogItem {
	if items := intent.Items(); len(items) > 0 {
		return items
	}
	return byKeywords(intent.Keywords(), catalog, terms)
}

func byKeywords(keywords []string, catalog []models.CatalogItem, terms func(models.CatalogItem) []string) []models.CatalogItem {
	if len(keywords) == 0 {
		return nil
	}
	var out []models.CatalogItem
	for _, item := range catalog {
		if _, ok := textutil.AnyContains(terms(item), keywords); ok {
			out = append(out, item)
		}
	}
	return out
}

func byExpectation(exp Expectation, catalog []models.CatalogItem) []models.CatalogItem {
	var out []models.CatalogItem
	for _, item := range catalog {
		if matchesExpectation(exp, item) {
			out = append(out, item)
		}
	}
	return out
}

func matchesExpectation(exp Expectation, item models.CatalogItem) bool {
	for _, k := range exp.Kinds {
		if item.Kind == k {
			return true
		}
	}
	cat := textutil.Canonical(item.Category)
	if cat == "" {
		return false
	}
	for _, c := range exp.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

func dedupe(items []models.CatalogItem) []models.CatalogItem {
	if len(items) == 0 {
		return []models.CatalogItem{}
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
