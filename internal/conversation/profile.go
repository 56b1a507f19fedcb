package conversation

import (
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// ProfileBucket ties a client profile to the keywords that reveal it.
type ProfileBucket struct {
	Profile  models.ClientProfile
	Keywords []string
}

// DefaultProfileBuckets are checked in order; the first bucket with a hit wins.
var DefaultProfileBuckets = []ProfileBucket{
	{Profile: models.ProfileBusiness, Keywords: []string{
		"business", "affaires", "professionnel", "client", "seminaire", "meeting", "reunion", "conference",
		"corporate", "negocios", "reunion de trabajo", "lavoro", "riunione",
	}},
	{Profile: models.ProfileFamily, Keywords: []string{
		"famille", "family", "enfant", "enfants", "kids", "children", "bebe", "baby",
		"familia", "ninos", "famiglia", "bambini",
	}},
	{Profile: models.ProfileRomantic, Keywords: []string{
		"romantique", "romantic", "en amoureux", "anniversaire de mariage", "lune de miel", "honeymoon",
		"ma femme", "mon mari", "my wife", "my husband", "girlfriend", "boyfriend", "proposal", "demande en mariage",
		"romantico", "luna de miel", "romantica",
	}},
	{Profile: models.ProfileLuxurySeeker, Keywords: []string{
		"luxe", "luxury", "luxueux", "exclusif", "exclusive", "vip", "prestige", "haut de gamme", "premium",
		"lujo", "exclusivo", "lusso", "esclusivo",
	}},
}

// ProfileClassifier labels messages with a client profile.
type ProfileClassifier struct {
	buckets []ProfileBucket
}

// NewProfileClassifier creates a classifier over buckets, normalized once.
func NewProfileClassifier(buckets []ProfileBucket) *ProfileClassifier {
	norm := make([]ProfileBucket, 0, len(buckets))
	for _, b := range buckets {
		norm = append(norm, ProfileBucket{Profile: b.Profile, Keywords: textutil.NormalizeAll(b.Keywords)})
	}
	return &ProfileClassifier{buckets: norm}
}

// Classify returns the first bucket's profile with a keyword in message, or
// GeneralPremium when none matches.
func (p *ProfileClassifier) Classify(message string) models.ClientProfile {
	text := textutil.Pad(textutil.Canonical(message))
	for _, b := range p.buckets {
		if len(textutil.ContainsAny(text, b.Keywords)) > 0 {
			return b.Profile
		}
	}
	return models.ProfileGeneralPremium
}

var defaultProfileClassifier = NewProfileClassifier(DefaultProfileBuckets)

// ClassifyClientProfile labels message with DefaultProfileBuckets.
func ClassifyClientProfile(message string) models.ClientProfile {
	return defaultProfileClassifier.Classify(message)
}
