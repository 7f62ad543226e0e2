package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webgap/leadscout/internal/leads"
	"github.com/webgap/leadscout/internal/scorer"
	"github.com/webgap/leadscout/pkg/places"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testLead(placeID string) leads.QualifiedLead {
	return leads.QualifiedLead{
		Place: places.Place{
			PlaceID:          placeID,
			Name:             "Lotus Beauty Salon",
			Rating:           4.4,
			UserRatingsTotal: 132,
			NationalPhone:    "0771234567",
			Address:          "24 Galle Rd, Colombo 03",
			Types:            []string{"beauty_salon"},
		},
		Score:           scorer.TierHot,
		NormalizedPhone: "94771234567",
		PrimaryCategory: "Beauty Salon",
	}
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, testLead("ChIJ-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, leads.StatusNew, created.Status)

	got, err := s.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ChIJ-1", got.Lead.PlaceID)
	assert.Equal(t, "94771234567", got.Lead.NormalizedPhone)
	assert.Equal(t, scorer.TierHot, got.Lead.Score)
}

func TestSQLiteStore_GetLead_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetLead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_DuplicatePlaceRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateLead(ctx, testLead("ChIJ-dup"))
	require.NoError(t, err)

	_, err = s.CreateLead(ctx, testLead("ChIJ-dup"))
	assert.Error(t, err)
}

func TestSQLiteStore_HasPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	has, err := s.HasPlace(ctx, "ChIJ-1")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.CreateLead(ctx, testLead("ChIJ-1"))
	require.NoError(t, err)

	has, err = s.HasPlace(ctx, "ChIJ-1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSQLiteStore_UpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, testLead("ChIJ-1"))
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(ctx, created.ID, leads.StatusContacted))

	got, err := s.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leads.StatusContacted, got.Status)

	assert.Error(t, s.UpdateStatus(ctx, created.ID, leads.Status("Bogus")))
	assert.ErrorIs(t, s.UpdateStatus(ctx, "missing", leads.StatusClosed), ErrNotFound)
}

func TestSQLiteStore_UpdateNotesAndContact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, testLead("ChIJ-1"))
	require.NoError(t, err)

	require.NoError(t, s.UpdateNotes(ctx, created.ID, "spoke to owner, call back Friday"))
	require.NoError(t, s.UpdateContact(ctx, created.ID, "owner@example.lk", "https://new-site.lk"))

	got, err := s.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "spoke to owner, call back Friday", got.Notes)
	assert.Equal(t, "owner@example.lk", got.Email)
	assert.Equal(t, "https://new-site.lk", got.Website)
}

func TestSQLiteStore_ListLeads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateLead(ctx, testLead("ChIJ-a"))
	require.NoError(t, err)
	_, err = s.CreateLead(ctx, testLead("ChIJ-b"))
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, a.ID, leads.StatusInterested))

	all, err := s.ListLeads(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	interested, err := s.ListLeads(ctx, ListFilter{Status: leads.StatusInterested})
	require.NoError(t, err)
	require.Len(t, interested, 1)
	assert.Equal(t, a.ID, interested[0].ID)

	limited, err := s.ListLeads(ctx, ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_DeleteLead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateLead(ctx, testLead("ChIJ-1"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteLead(ctx, created.ID))
	_, err = s.GetLead(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteLead(ctx, created.ID), ErrNotFound)
}
