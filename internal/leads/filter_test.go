package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webgap/leadscout/internal/scorer"
	"github.com/webgap/leadscout/pkg/places"
)

func place(id string, reviews int, rating float64, website, nationalPhone, status string) places.Place {
	return places.Place{
		PlaceID:          id,
		Name:             id,
		UserRatingsTotal: reviews,
		Rating:           rating,
		Website:          website,
		NationalPhone:    nationalPhone,
		BusinessStatus:   status,
	}
}

func TestQualify_EndToEnd(t *testing.T) {
	records := []places.Place{
		place("hot-lead", 120, 4.2, "", "0771234567", "OPERATIONAL"),
		place("too-few-reviews", 5, 4.9, "", "0779999999", "OPERATIONAL"),
		place("has-website", 80, 3.5, "http://x.com", "0771111111", "OPERATIONAL"),
	}

	got := Qualify(records)

	require.Len(t, got, 1)
	assert.Equal(t, "hot-lead", got[0].PlaceID)
	assert.Equal(t, scorer.TierHot, got[0].Score)
	assert.Equal(t, "94771234567", got[0].NormalizedPhone)
}

func TestQualify_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		record places.Place
		keep   bool
	}{
		{"passes all gates", place("a", 50, 4.0, "", "0771234567", "OPERATIONAL"), true},
		{"status unspecified passes", place("b", 50, 4.0, "", "0771234567", ""), true},
		{"below review floor", place("c", 9, 5.0, "", "0771234567", "OPERATIONAL"), false},
		{"at review floor", place("d", 10, 0, "", "0771234567", ""), true},
		{"website present", place("e", 50, 4.0, "https://site.lk", "0771234567", "OPERATIONAL"), false},
		{"closed permanently", place("f", 50, 4.0, "", "0771234567", "CLOSED_PERMANENTLY"), false},
		{"closed temporarily", place("g", 50, 4.0, "", "0771234567", "CLOSED_TEMPORARILY"), false},
		{"no phone", place("h", 50, 4.0, "", "", "OPERATIONAL"), false},
		{"landline only", place("i", 50, 4.0, "", "0112345678", "OPERATIONAL"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Qualify([]places.Place{tt.record})
			if tt.keep {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestQualify_PrefersNationalPhone(t *testing.T) {
	p := place("a", 20, 4.0, "", "0771234567", "")
	p.InternationalPhone = "+94 77 999 9999"

	got := Qualify([]places.Place{p})

	require.Len(t, got, 1)
	assert.Equal(t, "94771234567", got[0].NormalizedPhone)
}

func TestQualify_FallsBackToInternationalPhone(t *testing.T) {
	p := place("a", 20, 4.0, "", "011-2345678", "")
	p.InternationalPhone = "+94 77 999 9999"

	got := Qualify([]places.Place{p})

	require.Len(t, got, 1)
	assert.Equal(t, "94779999999", got[0].NormalizedPhone)
}

func TestQualify_SortsByReviewsDescendingStable(t *testing.T) {
	records := []places.Place{
		place("mid-first", 50, 4.0, "", "0771111111", ""),
		place("top", 200, 4.8, "", "0772222222", ""),
		place("mid-second", 50, 3.0, "", "0773333333", ""),
		place("low", 12, 4.0, "", "0774444444", ""),
	}

	got := Qualify(records)

	require.Len(t, got, 4)
	assert.Equal(t, "top", got[0].PlaceID)
	assert.Equal(t, "mid-first", got[1].PlaceID)
	assert.Equal(t, "mid-second", got[2].PlaceID)
	assert.Equal(t, "low", got[3].PlaceID)
}

func TestQualify_NeverReturnsWebsiteOrLowReviewLeads(t *testing.T) {
	records := []places.Place{
		place("a", 120, 4.2, "", "0771234567", ""),
		place("b", 9, 4.2, "", "0771234567", ""),
		place("c", 300, 4.9, "http://c.lk", "0771234567", ""),
	}

	for _, lead := range Qualify(records) {
		assert.Empty(t, lead.Website)
		assert.GreaterOrEqual(t, lead.UserRatingsTotal, 10)
		assert.NotEmpty(t, lead.NormalizedPhone)
	}
}

func TestPrimaryCategory(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"priority tag wins over earlier generic", []string{"point_of_interest", "beauty_salon"}, "Beauty Salon"},
		{"higher priority wins", []string{"beauty_salon", "restaurant"}, "Restaurant"},
		{"fallback to first tag", []string{"establishment", "point_of_interest"}, "Establishment"},
		{"no tags", nil, "Business"},
		{"single priority tag", []string{"car_repair"}, "Car Repair"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryCategory(tt.tags))
		})
	}
}
