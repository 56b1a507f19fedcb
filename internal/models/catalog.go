package models

// ItemKind classifies a catalog record.
type ItemKind string

const (
	KindEstablishment ItemKind = "establishment"
	KindEvent         ItemKind = "event"
	KindService       ItemKind = "service"
)

// ValidItemKinds is the set of all valid item kinds.
var ValidItemKinds = []ItemKind{
	KindEstablishment,
	KindEvent,
	KindService,
}

// IsValid returns true if the item kind is recognized.
func (k ItemKind) IsValid() bool {
	for _, v := range ValidItemKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// CatalogItem is an immutable venue, event or service record.
//
// Optional scalars are pointers: nil means "unknown", which is never the same
// as zero or false. Optional sets are nil when the source did not supply them.
type CatalogItem struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Kind        ItemKind `json:"kind" yaml:"kind"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`

	Rating      *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty" yaml:"review_count,omitempty"`
	PriceTier   *int     `json:"price_tier,omitempty" yaml:"price_tier,omitempty"`
	Capacity    *int     `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Sponsored   bool     `json:"sponsored,omitempty" yaml:"sponsored,omitempty"`

	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Features     []string `json:"features,omitempty" yaml:"features,omitempty"`
	Specialties  []string `json:"specialties,omitempty" yaml:"specialties,omitempty"`
	MenuKeywords []string `json:"menu_keywords,omitempty" yaml:"menu_keywords,omitempty"`

	Zone        string       `json:"zone,omitempty" yaml:"zone,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`

	Profile *ItemProfile `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// ItemProfile carries the attributes compatibility scoring looks at.
type ItemProfile struct {
	Cuisine     []string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Ambiance    []string `json:"ambiance,omitempty" yaml:"ambiance,omitempty"`
	Activities  []string `json:"activities,omitempty" yaml:"activities,omitempty"`
	Music       []string `json:"music,omitempty" yaml:"music,omitempty"`
	Environment []string `json:"environment,omitempty" yaml:"environment,omitempty"`

	// Allergens is nil when the venue never declared its allergens.
	Allergens       []string `json:"allergens" yaml:"allergens,omitempty"`
	IntoleranceFree []string `json:"intolerance_free,omitempty" yaml:"intolerance_free,omitempty"`
	DietaryOptions  []string `json:"dietary_options,omitempty" yaml:"dietary_options,omitempty"`

	// OpeningSlots lists the day parts covered: morning, afternoon, evening, night.
	OpeningSlots []string `json:"opening_slots,omitempty" yaml:"opening_slots,omitempty"`

	FloorLevel      *int     `json:"floor_level,omitempty" yaml:"floor_level,omitempty"`
	PoolDepthMeters *float64 `json:"pool_depth_meters,omitempty" yaml:"pool_depth_meters,omitempty"`
	PetsAllowed     *bool    `json:"pets_allowed,omitempty" yaml:"pets_allowed,omitempty"`
	Indoor          *bool    `json:"indoor,omitempty" yaml:"indoor,omitempty"`
	HasWindows      *bool    `json:"has_windows,omitempty" yaml:"has_windows,omitempty"`
}

// Menu returns specialties followed by menu keywords.
func (c CatalogItem) Menu() []string {
	out := make([]string, 0, len(c.Specialties)+len(c.MenuKeywords))
	out = append(out, c.Specialties...)
	return append(out, c.MenuKeywords...)
}

// ServiceTerms returns the fields service keywords are matched against.
func (c CatalogItem) ServiceTerms() []string {
	out := make([]string, 0, len(c.Features)+len(c.Tags))
	out = append(out, c.Features...)
	return append(out, c.Tags...)
}

// DishTerms returns the fields dish keywords are matched against: the menu
// plus the profile cuisines.
func (c CatalogItem) DishTerms() []string {
	return append(c.Menu(), c.Attributes().Cuisine...)
}

// Attributes returns the scoring profile, or the zero profile when absent.
func (c CatalogItem) Attributes() ItemProfile {
	if c.Profile == nil {
		return ItemProfile{}
	}
	return *c.Profile
}

// Float64 returns a pointer to v. Used to build optional fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
