package synth

import "github.com/ajitpratap0/openclaw-concierge/internal/models"

// Phrasebook holds every piece of wording the synthesizer uses for one
// language. Format strings take the arguments named in their field comment.
type Phrasebook struct {
	// Greeting opens the conversation.
	Greeting string
	// Categories names each category intent as a noun phrase.
	Categories map[models.IntentCategory]string
	// Clarify takes the category noun phrase.
	Clarify string
	// ClarifyKeyword takes the dish, service or venue the user asked about.
	ClarifyKeyword string
	// AskCategory is used when the category is unknown.
	AskCategory string
	// ListIntro takes the category noun phrase.
	ListIntro string
	// ListIntroGeneric is used for keyword and entity intents.
	ListIntroGeneric string
	// ProfileHints bias the wording for a client profile.
	ProfileHints map[models.ClientProfile]string

	// Rating takes the rating; RatingReviews takes rating and review count.
	Rating        string
	RatingReviews string
	// Price takes the rendered tier.
	Price string
	// Zone takes the zone name.
	Zone string
	// Specialties and Features take a comma-separated list.
	Specialties string
	Features    string
	// Sponsored follows the sponsor marker.
	Sponsored string

	// CTA closes every response.
	CTA string
	// Apology replaces the response after repeated failures.
	Apology string
}

// SponsorMarker distinguishes sponsored items in every language.
const SponsorMarker = "★"

// DefaultPhrasebooks is the language table.
var DefaultPhrasebooks = map[models.Language]Phrasebook{
	models.LangFrench: {
		Greeting: "Bonjour et bienvenue ! Je suis votre concierge : restaurants, plages, clubs, villas, yachts, spas ou activités, je m'occupe de tout.",
		Categories: map[models.IntentCategory]string{
			models.IntentRestaurant: "un restaurant",
			models.IntentBeach:      "une plage",
			models.IntentClub:       "un club",
			models.IntentVilla:      "une villa",
			models.IntentYacht:      "un yacht",
			models.IntentSpa:        "un spa",
			models.IntentActivity:   "une activité",
		},
		Clarify:          "Pour vous trouver %s, pourriez-vous me préciser la date, le nombre de personnes et vos envies ?",
		ClarifyKeyword:   "Pour vous trouver une adresse pour « %s », pourriez-vous me préciser la date, le nombre de personnes et le lieu souhaité ?",
		AskCategory:      "Pour vous aider au mieux, que souhaitez-vous organiser : restaurant, plage, club, villa, yacht, spa ou activité ?",
		ListIntro:        "Voici ma sélection pour %s :",
		ListIntroGeneric: "Voici ma sélection :",
		ProfileHints: map[models.ClientProfile]string{
			models.ProfileBusiness:     "J'ai retenu des adresses adaptées à un rendez-vous professionnel.",
			models.ProfileFamily:       "J'ai pensé à des adresses où toute la famille sera à l'aise.",
			models.ProfileRomantic:     "J'ai privilégié des adresses propices à un moment à deux.",
			models.ProfileLuxurySeeker: "J'ai privilégié les adresses les plus exclusives.",
		},
		Rating:        "noté %.1f/5",
		RatingReviews: "noté %.1f/5 (%d avis)",
		Price:         "gamme %s",
		Zone:          "à %s",
		Specialties:   "spécialités : %s",
		Features:      "atouts : %s",
		Sponsored:     "(partenaire)",
		CTA:           "Souhaitez-vous que je m'occupe de la réservation ?",
		Apology:       "Je suis désolé, je rencontre une difficulté passagère. Un membre de notre équipe va reprendre votre demande.",
	},
	models.LangEnglish: {
		Greeting: "Hello and welcome! I am your concierge: restaurants, beaches, clubs, villas, yachts, spas or activities, I take care of everything.",
		Categories: map[models.IntentCategory]string{
			models.IntentRestaurant: "a restaurant",
			models.IntentBeach:      "a beach",
			models.IntentClub:       "a club",
			models.IntentVilla:      "a villa",
			models.IntentYacht:      "a yacht",
			models.IntentSpa:        "a spa",
			models.IntentActivity:   "an activity",
		},
		Clarify:          "To find you %s, could you tell me the date, the number of guests and what you have in mind?",
		ClarifyKeyword:   "To find you a place for \"%s\", could you tell me the date, the number of guests and the area you prefer?",
		AskCategory:      "To help you best, what would you like to organize: restaurant, beach, club, villa, yacht, spa or activity?",
		ListIntro:        "Here is my selection for %s:",
		ListIntroGeneric: "Here is my selection:",
		ProfileHints: map[models.ClientProfile]string{
			models.ProfileBusiness:     "I picked places suited to a business meeting.",
			models.ProfileFamily:       "I picked places where the whole family will feel at ease.",
			models.ProfileRomantic:     "I favored places perfect for a romantic moment.",
			models.ProfileLuxurySeeker: "I favored the most exclusive places.",
		},
		Rating:        "rated %.1f/5",
		RatingReviews: "rated %.1f/5 (%d reviews)",
		Price:         "price range %s",
		Zone:          "in %s",
		Specialties:   "specialties: %s",
		Features:      "highlights: %s",
		Sponsored:     "(partner)",
		CTA:           "Shall I take care of the booking for you?",
		Apology:       "I am sorry, I am having a temporary difficulty. A member of our team will pick up your request.",
	},
	models.LangSpanish: {
		Greeting: "¡Hola y bienvenido! Soy su concierge: restaurantes, playas, clubs, villas, yates, spas o actividades, yo me encargo de todo.",
		Categories: map[models.IntentCategory]string{
			models.IntentRestaurant: "un restaurante",
			models.IntentBeach:      "una playa",
			models.IntentClub:       "un club",
			models.IntentVilla:      "una villa",
			models.IntentYacht:      "un yate",
			models.IntentSpa:        "un spa",
			models.IntentActivity:   "una actividad",
		},
		Clarify:          "Para encontrarle %s, ¿podría indicarme la fecha, el número de personas y lo que desea?",
		ClarifyKeyword:   "Para encontrarle un lugar para «%s», ¿podría indicarme la fecha, el número de personas y la zona que prefiere?",
		AskCategory:      "Para ayudarle mejor, ¿qué desea organizar: restaurante, playa, club, villa, yate, spa o actividad?",
		ListIntro:        "Esta es mi selección para %s:",
		ListIntroGeneric: "Esta es mi selección:",
		ProfileHints: map[models.ClientProfile]string{
			models.ProfileBusiness:     "He elegido lugares adecuados para una reunión de negocios.",
			models.ProfileFamily:       "He pensado en lugares donde toda la familia estará cómoda.",
			models.ProfileRomantic:     "He priorizado lugares ideales para un momento en pareja.",
			models.ProfileLuxurySeeker: "He priorizado los lugares más exclusivos.",
		},
		Rating:        "valorado %.1f/5",
		RatingReviews: "valorado %.1f/5 (%d opiniones)",
		Price:         "gama %s",
		Zone:          "en %s",
		Specialties:   "especialidades: %s",
		Features:      "puntos fuertes: %s",
		Sponsored:     "(socio)",
		CTA:           "¿Desea que me encargue de la reserva?",
		Apology:       "Lo siento, tengo una dificultad temporal. Un miembro de nuestro equipo retomará su solicitud.",
	},
	models.LangItalian: {
		Greeting: "Buongiorno e benvenuto! Sono il suo concierge: ristoranti, spiagge, club, ville, yacht, spa o attività, penso a tutto io.",
		Categories: map[models.IntentCategory]string{
			models.IntentRestaurant: "un ristorante",
			models.IntentBeach:      "una spiaggia",
			models.IntentClub:       "un club",
			models.IntentVilla:      "una villa",
			models.IntentYacht:      "uno yacht",
			models.IntentSpa:        "una spa",
			models.IntentActivity:   "un'attività",
		},
		Clarify:          "Per trovarle %s, potrebbe indicarmi la data, il numero di persone e i suoi desideri?",
		ClarifyKeyword:   "Per trovarle un indirizzo per «%s», potrebbe indicarmi la data, il numero di persone e la zona preferita?",
		AskCategory:      "Per aiutarla al meglio, cosa desidera organizzare: ristorante, spiaggia, club, villa, yacht, spa o attività?",
		ListIntro:        "Ecco la mia selezione per %s:",
		ListIntroGeneric: "Ecco la mia selezione:",
		ProfileHints: map[models.ClientProfile]string{
			models.ProfileBusiness:     "Ho scelto indirizzi adatti a un incontro di lavoro.",
			models.ProfileFamily:       "Ho pensato a indirizzi dove tutta la famiglia starà bene.",
			models.ProfileRomantic:     "Ho privilegiato indirizzi perfetti per un momento a due.",
			models.ProfileLuxurySeeker: "Ho privilegiato gli indirizzi più esclusivi.",
		},
		Rating:        "valutato %.1f/5",
		RatingReviews: "valutato %.1f/5 (%d recensioni)",
		Price:         "fascia %s",
		Zone:          "a %s",
		Specialties:   "specialità: %s",
		Features:      "punti di forza: %s",
		Sponsored:     "(partner)",
		CTA:           "Desidera che mi occupi io della prenotazione?",
		Apology:       "Mi dispiace, ho una difficoltà temporanea. Un membro del nostro team riprenderà la sua richiesta.",
	},
}
