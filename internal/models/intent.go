package models

// IntentCategory is the classified purpose of a user message.
type IntentCategory string

const (
	IntentGreeting       IntentCategory = "greeting"
	IntentRestaurant     IntentCategory = "restaurant"
	IntentBeach          IntentCategory = "beach"
	IntentClub           IntentCategory = "club"
	IntentVilla          IntentCategory = "villa"
	IntentYacht          IntentCategory = "yacht"
	IntentSpa            IntentCategory = "spa"
	IntentActivity       IntentCategory = "activity"
	IntentSpecificEntity IntentCategory = "specific-entity"
	IntentServiceKeyword IntentCategory = "service-keyword"
	IntentDishKeyword    IntentCategory = "dish-keyword"
	IntentGeneral        IntentCategory = "general"
)

// ValidIntentCategories is the set of all valid intent categories.
var ValidIntentCategories = []IntentCategory{
	IntentGreeting,
	IntentRestaurant,
	IntentBeach,
	IntentClub,
	IntentVilla,
	IntentYacht,
	IntentSpa,
	IntentActivity,
	IntentSpecificEntity,
	IntentServiceKeyword,
	IntentDishKeyword,
	IntentGeneral,
}

// IsValid returns true if the category is recognized.
func (c IntentCategory) IsValid() bool {
	for _, v := range ValidIntentCategories {
		if c == v {
			return true
		}
	}
	return false
}

// EntityKind distinguishes catalog references from bare keywords.
type EntityKind string

const (
	EntityItem    EntityKind = "item"
	EntityKeyword EntityKind = "keyword"
)

// Entity is something extracted from a message: a catalog item or a keyword.
type Entity struct {
	Kind    EntityKind   `json:"kind"`
	Item    *CatalogItem `json:"item,omitempty"`
	Keyword string       `json:"keyword,omitempty"`
	// Bucket names the keyword bucket the keyword belongs to (e.g. "pool", "sushi").
	Bucket string `json:"bucket,omitempty"`
}

// Intent is the transient result of classification.
type Intent struct {
	Category   IntentCategory `json:"category"`
	Confidence float64        `json:"confidence"`
	Entities   []Entity       `json:"entities,omitempty"`
	SourceText string         `json:"source_text"`
}

// Items returns the catalog items referenced by the intent, in order.
func (i Intent) Items() []CatalogItem {
	var out []CatalogItem
	for _, e := range i.Entities {
		if e.Kind == EntityItem && e.Item != nil {
			out = append(out, *e.Item)
		}
	}
	return out
}

// Keywords returns the keyword entities, in order.
func (i Intent) Keywords() []string {
	var out []string
	for _, e := range i.Entities {
		if e.Kind == EntityKeyword && e.Keyword != "" {
			out = append(out, e.Keyword)
		}
	}
	return out
}

// Primary returns the first referenced item, if any.
func (i Intent) Primary() (CatalogItem, bool) {
	for _, e := range i.Entities {
		if e.Kind == EntityItem && e.Item != nil {
			return *e.Item, true
		}
	}
	return CatalogItem{}, false
}

// ScoredCandidate is a catalog item with its compatibility score.
type ScoredCandidate struct {
	Item  CatalogItem `json:"item"`
	Score int         `json:"score"`
	// Factors lists every term that fired, in formula order.
	Factors []string `json:"factors,omitempty"`
}
