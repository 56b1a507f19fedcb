package models

// Language is an ISO 639-1 code.
type Language string

const (
	LangFrench  Language = "fr"
	LangEnglish Language = "en"
	LangSpanish Language = "es"
	LangItalian Language = "it"
)

// SupportedLanguages is also the tie-break priority order used by detection.
var SupportedLanguages = []Language{
	LangFrench,
	LangEnglish,
	LangSpanish,
	LangItalian,
}

// IsValid returns true if the language is supported.
func (l Language) IsValid() bool {
	for _, v := range SupportedLanguages {
		if l == v {
			return true
		}
	}
	return false
}

// ConfidenceTier summarizes a numeric detection score.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// Detection is the result of language detection.
type Detection struct {
	Language   Language       `json:"language"`
	Confidence ConfidenceTier `json:"confidence"`
	Score      float64        `json:"score"`
}

// ClientProfile is the coarse client classification kept per conversation.
type ClientProfile string

const (
	ProfileBusiness       ClientProfile = "Business"
	ProfileFamily         ClientProfile = "Family"
	ProfileRomantic       ClientProfile = "Romantic"
	ProfileLuxurySeeker   ClientProfile = "LuxurySeeker"
	ProfileGeneralPremium ClientProfile = "GeneralPremium"
)
