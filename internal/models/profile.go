package models

// Taste and restriction categories used as map keys in UserPreferenceProfile.
const (
	TasteCuisine     = "cuisine"
	TasteAmbiance    = "ambiance"
	TasteActivity    = "activities"
	TasteMusic       = "music"
	RestrictFood     = "food"
	RestrictEnv      = "environment"
	RestrictActivity = "activities"
)

// UserPreferenceProfile is the externally persisted per-user profile.
// Every section is optional; a missing section contributes nothing to scoring.
type UserPreferenceProfile struct {
	UserID       string              `json:"user_id,omitempty"`
	Tastes       map[string][]string `json:"tastes,omitempty"`
	Restrictions map[string][]string `json:"restrictions,omitempty"`
	Fears        []string            `json:"fears,omitempty"`
	Dietary      *DietaryProfile     `json:"dietary,omitempty"`
	Service      *ServiceProfile     `json:"service,omitempty"`
}

// DietaryProfile holds allergy and diet information.
type DietaryProfile struct {
	Allergies    []string `json:"allergies,omitempty"`
	Intolerances []string `json:"intolerances,omitempty"`
	Preferences  []string `json:"preferences,omitempty"`
}

// GroupSize is a coarse party-size class.
type GroupSize string

const (
	GroupSolo   GroupSize = "solo"
	GroupCouple GroupSize = "couple"
	GroupSmall  GroupSize = "small"
	GroupLarge  GroupSize = "large"
)

// groupHeadcount is the number of seats a class needs.
var groupHeadcount = map[GroupSize]int{
	GroupSolo:   1,
	GroupCouple: 2,
	GroupSmall:  6,
	GroupLarge:  20,
}

// Headcount returns the seats required by the class and whether it is known.
func (g GroupSize) Headcount() (int, bool) {
	n, ok := groupHeadcount[g]
	return n, ok
}

// ServiceProfile holds booking logistics preferences.
type ServiceProfile struct {
	BudgetTier *int      `json:"budget_tier,omitempty"`
	GroupSize  GroupSize `json:"group_size,omitempty"`
	// TimeOfDay is one of morning, afternoon, evening, night.
	TimeOfDay string `json:"time_of_day,omitempty"`
}
