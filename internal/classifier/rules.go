package classifier

import "github.com/ajitpratap0/openclaw-concierge/internal/models"

// Keywords with a leading or trailing space only match on a word boundary.

// greetingPatterns open a conversation in any supported language.
var greetingPatterns = []string{
	"bonjour", "bonsoir", "salut", "coucou",
	"hello", "good morning", "good evening", "good afternoon",
	"hola", "buenos dias", "buenas tardes", "buenas noches",
	"ciao", "buongiorno", "buonasera",
}

// restaurantPatterns ask for a meal without naming a dish.
var restaurantPatterns = []string{
	"restaurant", "resto ", "diner", "dejeuner", "manger", "table pour",
	"dinner", "lunch", " to eat", "table for",
	"restaurante", "cenar", "comer", "almorzar",
	"ristorante", "mangiare", "pranzo",
}

var beachPatterns = []string{
	"plage", "transat", "beach", "sunbed", "playa", "tumbona", "spiaggia", " lido ",
}

var clubPatterns = []string{
	"club", "boite de nuit", "discotheque", "nightclub", "party", "clubbing",
	"discoteca", "fiesta", "soiree dansante",
}

var villaPatterns = []string{
	"villa", "maison a louer", "house rental", "holiday home", "casa de vacaciones",
}

var yachtPatterns = []string{
	"yacht", "bateau", "voilier", "catamaran", "boat", "sailing", "barco", "velero", "barca",
}

var spaPatterns = []string{
	" spa ", "massage", " soin", "wellness", "masaje", "massaggio", "benessere",
}

var activityPatterns = []string{
	"activite", "activity", "activities", "excursion", "visite", "golf", "tennis",
	"jet ski", "plongee", "diving", "randonnee", "hiking", " tour ", "concert",
	"spectacle", "show ", "actividad", "attivita",
}

// DefaultRules returns the built-in rule set. Category order matters:
// "beach club" is a beach request because beach is checked before club.
func DefaultRules() Rules {
	return Rules{
		Categories: []CategoryRule{
			{Category: models.IntentGreeting, Keywords: greetingPatterns},
			{Category: models.IntentRestaurant, Keywords: restaurantPatterns},
			{Category: models.IntentBeach, Keywords: beachPatterns},
			{Category: models.IntentClub, Keywords: clubPatterns},
			{Category: models.IntentVilla, Keywords: villaPatterns},
			{Category: models.IntentYacht, Keywords: yachtPatterns},
			{Category: models.IntentSpa, Keywords: spaPatterns},
			{Category: models.IntentActivity, Keywords: activityPatterns},
		},
		Services: []KeywordBucket{
			{Name: "spa", Keywords: []string{"jacuzzi", "sauna", "hammam", "bain a remous"}},
			{Name: "pool", Keywords: []string{"piscine", "pool", "piscina"}},
			{Name: "terrace", Keywords: []string{"terrasse", "terrace", "terraza", "terrazza", "rooftop"}},
			{Name: "sea-view", Keywords: []string{"vue mer", "vue sur la mer", "sea view", "ocean view", "vista al mar", "vista mare"}},
			{Name: "parking", Keywords: []string{"parking", "voiturier", "valet", "aparcamiento", "parcheggio"}},
			{Name: "wifi", Keywords: []string{"wifi", "wi fi", "internet"}},
			{Name: "dj", Keywords: []string{" dj ", "deejay", "platines"}},
			{Name: "bar", Keywords: []string{" bar ", "lounge", "cocktail bar"}},
		},
		Dishes: []KeywordBucket{
			{Name: "sushi", Keywords: []string{"sushi", "sashimi", " maki", "japonais", "japanese", "japones"}},
			{Name: "pizza", Keywords: []string{"pizza", "pizzeria", "italien", "italian"}},
			{Name: "fish", Keywords: []string{"poisson", "fruits de mer", "fish", "seafood", "pescado", "mariscos", "pesce"}},
			{Name: "meat", Keywords: []string{"viande", "entrecote", "steak", "meat", "carne"}},
			{Name: "vegetarian", Keywords: []string{"vegetarien", "vegetarian", "vegan", "vegano", "vegetariano"}},
			{Name: "dessert", Keywords: []string{"dessert", "patisserie", "gateau", "postre", "dolce"}},
			{Name: "cocktail", Keywords: []string{"cocktail", "mojito", "spritz", "margarita"}},
			{Name: "champagne", Keywords: []string{"champagne", "dom perignon", "moet", "cava "}},
		},
	}
}
