// Package scorer classifies leads into qualification tiers from review
// volume and rating.
package scorer

// Tier is a lead qualification tier.
type Tier string

// Qualification tiers, hottest first.
const (
	TierHot  Tier = "Hot"
	TierWarm Tier = "Warm"
	TierCold Tier = "Cold"
)

// Thresholds applied by Score, first match wins.
const (
	hotMinReviews  = 100
	hotMinRating   = 4.0
	warmMinReviews = 50
)

// Score maps review count and rating to a tier. A missing review count is
// zero and a missing rating is zero, so absent signals always fall through
// to Cold.
func Score(reviewCount int, rating float64) Tier {
	switch {
	case reviewCount > hotMinReviews && rating > hotMinRating:
		return TierHot
	case reviewCount > warmMinReviews:
		return TierWarm
	default:
		return TierCold
	}
}
