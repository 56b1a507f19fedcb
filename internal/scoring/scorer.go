// Package scoring computes compatibility scores between catalog items and a
// user preference profile, and ranks candidates by them.
package scoring

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// Weights controls the multiplier applied to each scoring term.
type Weights struct {
	Base        float64 `json:"base" mapstructure:"base"`
	Taste       float64 `json:"taste" mapstructure:"taste"`
	Restriction float64 `json:"restriction" mapstructure:"restriction"`
	Fear        float64 `json:"fear" mapstructure:"fear"`
	Dietary     float64 `json:"dietary" mapstructure:"dietary"`
	Service     float64 `json:"service" mapstructure:"service"`
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		Base:        0.30,
		Taste:       0.25,
		Restriction: 0.20,
		Fear:        0.15,
		Dietary:     0.20,
		Service:     0.10,
	}
}

// Validate checks that every weight lies in [0, 1].
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"base":        w.Base,
		"taste":       w.Taste,
		"restriction": w.Restriction,
		"fear":        w.Fear,
		"dietary":     w.Dietary,
		"service":     w.Service,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("scoring weight %s must be in [0,1], got %v", name, v)
		}
	}
	return nil
}

// Raw points per term, before weighting.
const (
	pointsCuisine  = 15
	pointsAmbiance = 12
	pointsActivity = 10
	pointsMusic    = 8

	penaltyFood        = 25
	penaltyEnvironment = 20
	penaltyActivity    = 15

	pointsAllergenSafe  = 20
	pointsIntolerances  = 15
	pointsDietaryOption = 12

	pointsBudget   = 10
	pointsCapacity = 8
	pointsOpening  = 5
)

// Scorer computes ScoredCandidates.
type Scorer struct {
	weights Weights
	fears   []FearRule
	logger  *slog.Logger
}

// NewScorer creates a scorer with the given weights and DefaultFearRules.
func NewScorer(weights Weights, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{weights: weights, fears: DefaultFearRules(), logger: logger}
}

// Weights returns the configured weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Score computes the compatibility of item with profile. A nil profile yields
// the base popularity term only. The result is never negative.
func (s *Scorer) Score(item models.CatalogItem, profile *models.UserPreferenceProfile) models.ScoredCandidate {
	var b breakdown

	rating, reviews := 0.0, 0
	if item.Rating != nil {
		rating = *item.Rating
	}
	if item.ReviewCount != nil {
		reviews = *item.ReviewCount
	}
	raw := rating*10 + float64(reviews)*0.1
	base := raw * s.weights.Base
	if item.Rating != nil || item.ReviewCount != nil {
		b.add(fmt.Sprintf("base: rating %.1f, reviews %d -> %.1f x %.2f", rating, reviews, raw, s.weights.Base))
	}

	total := base
	if profile != nil {
		attrs := item.Attributes()
		total += s.weights.Taste * float64(tastePoints(&b, item, attrs, profile))
		total -= s.weights.Restriction * float64(restrictionPoints(&b, item, attrs, profile))
		total -= s.weights.Fear * float64(s.fearPoints(&b, item, profile))
		total += s.weights.Dietary * float64(dietaryPoints(&b, attrs, profile))
		total += s.weights.Service * float64(servicePoints(&b, item, attrs, profile))
	}

	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	return models.ScoredCandidate{Item: item, Score: score, Factors: b.factors}
}

// Rank scores every item and sorts the result: score descending, then
// sponsored first, then rating descending (absent ratings last), then
// catalog insertion order.
func (s *Scorer) Rank(items []models.CatalogItem, profile *models.UserPreferenceProfile) []models.ScoredCandidate {
	ranked := make([]models.ScoredCandidate, 0, len(items))
	for _, item := range items {
		ranked = append(ranked, s.Score(item, profile))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Item.Sponsored != b.Item.Sponsored {
			return a.Item.Sponsored
		}
		return ratingOrLowest(a.Item) > ratingOrLowest(b.Item)
	})

	s.logger.Debug("ranked candidates", "count", len(ranked), "with_profile", profile != nil)
	return ranked
}

func ratingOrLowest(item models.CatalogItem) float64 {
	if item.Rating == nil {
		return -1
	}
	return *item.Rating
}

type breakdown struct {
	factors []string
}

func (b *breakdown) add(f string) { b.factors = append(b.factors, f) }

func tastePoints(b *breakdown, item models.CatalogItem, attrs models.ItemProfile, p *models.UserPreferenceProfile) int {
	pts := 0
	check := func(key string, points int, values []string) {
		if kw, ok := textutil.AnyContains(values, p.Tastes[key]); ok {
			pts += points
			b.add(fmt.Sprintf("taste %s +%d (%s)", key, points, kw))
		}
	}
	check(models.TasteCuisine, pointsCuisine, concat(attrs.Cuisine, item.Tags, item.Specialties))
	check(models.TasteAmbiance, pointsAmbiance, concat(attrs.Ambiance, item.Tags))
	check(models.TasteActivity, pointsActivity, concat(attrs.Activities, item.Tags))
	check(models.TasteMusic, pointsMusic, concat(attrs.Music, item.Tags))
	return pts
}

func restrictionPoints(b *breakdown, item models.CatalogItem, attrs models.ItemProfile, p *models.UserPreferenceProfile) int {
	pts := 0
	check := func(key string, points int, values []string) {
		if kw, ok := textutil.AnyContains(values, p.Restrictions[key]); ok {
			pts += points
			b.add(fmt.Sprintf("restriction %s -%d (%s)", key, points, kw))
		}
	}
	check(models.RestrictFood, penaltyFood, item.Menu())
	check(models.RestrictEnv, penaltyEnvironment, concat(attrs.Environment, item.Features, item.Tags))
	check(models.RestrictActivity, penaltyActivity, concat(attrs.Activities, item.Tags))
	return pts
}

func dietaryPoints(b *breakdown, attrs models.ItemProfile, p *models.UserPreferenceProfile) int {
	d := p.Dietary
	if d == nil {
		return 0
	}
	pts := 0
	if len(d.Allergies) > 0 && attrs.Allergens != nil {
		if _, hit := textutil.AnyContains(attrs.Allergens, d.Allergies); !hit {
			pts += pointsAllergenSafe
			b.add(fmt.Sprintf("dietary allergens +%d", pointsAllergenSafe))
		}
	}
	if len(d.Intolerances) > 0 && allCovered(d.Intolerances, attrs.IntoleranceFree) {
		pts += pointsIntolerances
		b.add(fmt.Sprintf("dietary intolerances +%d", pointsIntolerances))
	}
	if kw, ok := textutil.AnyContains(attrs.DietaryOptions, d.Preferences); ok {
		pts += pointsDietaryOption
		b.add(fmt.Sprintf("dietary option +%d (%s)", pointsDietaryOption, kw))
	}
	return pts
}

func servicePoints(b *breakdown, item models.CatalogItem, attrs models.ItemProfile, p *models.UserPreferenceProfile) int {
	svc := p.Service
	if svc == nil {
		return 0
	}
	pts := 0
	if svc.BudgetTier != nil && item.PriceTier != nil && *item.PriceTier <= *svc.BudgetTier {
		pts += pointsBudget
		b.add(fmt.Sprintf("service budget +%d", pointsBudget))
	}
	if seats, ok := svc.GroupSize.Headcount(); ok && item.Capacity != nil && *item.Capacity >= seats {
		pts += pointsCapacity
		b.add(fmt.Sprintf("service capacity +%d", pointsCapacity))
	}
	if svc.TimeOfDay != "" {
		if _, ok := textutil.AnyContains(attrs.OpeningSlots, []string{svc.TimeOfDay}); ok {
			pts += pointsOpening
			b.add(fmt.Sprintf("service opening +%d", pointsOpening))
		}
	}
	return pts
}

// allCovered reports whether every wanted entry appears in have.
func allCovered(wanted, have []string) bool {
	if len(have) == 0 {
		return false
	}
	for _, w := range wanted {
		if _, ok := textutil.AnyContains(have, []string{w}); !ok {
			return false
		}
	}
	return true
}

func concat(parts ...[]string) []string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
