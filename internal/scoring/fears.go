package scoring

import (
	"fmt"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// Fear thresholds.
const (
	maxSafeFloor     = 5
	maxCalmCapacity  = 100
	maxSafePoolDepth = 2.0
)

// FearRule maps free-text fear keywords to a category and the item condition
// that triggers its penalty. Applies returns false when the relevant item
// field is absent.
type FearRule struct {
	Category string
	Keywords []string
	Penalty  int
	Applies  func(models.CatalogItem) bool
}

// DefaultFearRules returns the recognized fear categories. A fear string that
// matches none of them contributes nothing.
func DefaultFearRules() []FearRule {
	return []FearRule{
		{
			Category: "height",
			Keywords: []string{"height", "heights", "vertige", "vertigo", "hauteur", "acrophob", "altura", "altezza"},
			Penalty:  20,
			Applies: func(item models.CatalogItem) bool {
				a := item.Attributes()
				return a.FloorLevel != nil && *a.FloorLevel > maxSafeFloor
			},
		},
		{
			Category: "crowd",
			Keywords: []string{"crowd", "foule", "agoraphob", "multitud", "folla"},
			Penalty:  15,
			Applies: func(item models.CatalogItem) bool {
				return item.Capacity != nil && *item.Capacity > maxCalmCapacity
			},
		},
		{
			Category: "deep-water",
			Keywords: []string{"deep water", "eau profonde", "noyade", "drowning", "aquaphob", "thalassophob", "agua profunda", "acqua profonda"},
			Penalty:  18,
			Applies: func(item models.CatalogItem) bool {
				a := item.Attributes()
				return a.PoolDepthMeters != nil && *a.PoolDepthMeters > maxSafePoolDepth
			},
		},
		{
			Category: "animals",
			Keywords: []string{"animal", "dog", "chien", "cat ", "chat ", "zoophob", "cynophob", "perro", "cane "},
			Penalty:  12,
			Applies: func(item models.CatalogItem) bool {
				a := item.Attributes()
				return a.PetsAllowed != nil && *a.PetsAllowed
			},
		},
		{
			Category: "enclosed",
			Keywords: []string{"enclosed", "claustrophob", "confined", "espace clos", "enferme", "encerrado", "chiuso"},
			Penalty:  10,
			Applies: func(item models.CatalogItem) bool {
				a := item.Attributes()
				return a.Indoor != nil && *a.Indoor && a.HasWindows != nil && !*a.HasWindows
			},
		},
	}
}

// fearPoints sums the penalties of the fear categories named in the profile
// whose condition holds for the item. Each category counts once.
func (s *Scorer) fearPoints(b *breakdown, item models.CatalogItem, p *models.UserPreferenceProfile) int {
	if len(p.Fears) == 0 {
		return 0
	}
	pts := 0
	for _, rule := range s.fears {
		kw, ok := textutil.AnyContains(p.Fears, rule.Keywords)
		if !ok || !rule.Applies(item) {
			continue
		}
		pts += rule.Penalty
		b.add(fmt.Sprintf("fear %s -%d (%s)", rule.Category, rule.Penalty, kw))
	}
	return pts
}
