package leads

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/webgap/leadscout/internal/phone"
	"github.com/webgap/leadscout/internal/scorer"
	"github.com/webgap/leadscout/pkg/places"
)

const (
	// minReviewCount is the minimum review volume for a viable lead.
	minReviewCount = 10

	operationalStatus = "OPERATIONAL"

	// defaultCategory labels records without any category tags.
	defaultCategory = "Business"
)

// categoryPriority orders the tags worth surfacing as a lead's primary
// category. The first tag on a record that appears here wins.
var categoryPriority = []string{
	"restaurant",
	"cafe",
	"bakery",
	"bar",
	"food",
	"hotel",
	"guest_house",
	"lodging",
	"spa",
	"beauty_salon",
	"hair_care",
	"barber_shop",
	"gym",
	"dentist",
	"doctor",
	"physiotherapist",
	"pharmacy",
	"veterinary_care",
	"car_repair",
	"car_dealer",
	"car_wash",
	"clothing_store",
	"shoe_store",
	"jewelry_store",
	"electronics_store",
	"furniture_store",
	"hardware_store",
	"grocery_store",
	"supermarket",
	"florist",
	"real_estate_agency",
	"travel_agency",
}

// Qualify filters raw place records down to contactable leads and ranks
// them. A record survives when it has at least minReviewCount reviews, no
// website, is operating (or its status is unknown), and carries a valid
// mobile number. Survivors get a tier, a canonical phone, and a category
// label, then sort by review count descending. The sort is stable, so ties
// keep their input order.
func Qualify(records []places.Place) []QualifiedLead {
	var qualified []QualifiedLead
	for _, p := range records {
		if p.UserRatingsTotal < minReviewCount {
			continue
		}
		if p.Website != "" {
			continue
		}
		if p.BusinessStatus != "" && p.BusinessStatus != operationalStatus {
			continue
		}
		contact, ok := contactNumber(p)
		if !ok {
			continue
		}

		qualified = append(qualified, QualifiedLead{
			Place:           p,
			Score:           scorer.Score(p.UserRatingsTotal, p.Rating),
			NormalizedPhone: phone.CanonicalDigits(contact),
			PrimaryCategory: PrimaryCategory(p.Types),
		})
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].UserRatingsTotal > qualified[j].UserRatingsTotal
	})
	return qualified
}

// contactNumber picks the first phone field that validates as a mobile
// number, preferring the national form.
func contactNumber(p places.Place) (string, bool) {
	for _, candidate := range []string{p.NationalPhone, p.InternationalPhone} {
		if phone.IsValidMobile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// PrimaryCategory derives a display label from a record's category tags:
// the highest-priority known tag, else the first tag, else a default.
func PrimaryCategory(tags []string) string {
	if len(tags) == 0 {
		return defaultCategory
	}
	for _, wanted := range categoryPriority {
		for _, tag := range tags {
			if tag == wanted {
				return categoryLabel(tag)
			}
		}
	}
	return categoryLabel(tags[0])
}

// categoryLabel converts a machine tag like "beauty_salon" to "Beauty Salon".
// A fresh caser per call: cases.Caser is not safe for concurrent use.
func categoryLabel(tag string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(tag, "_", " "))
}
