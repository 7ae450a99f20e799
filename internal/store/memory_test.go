package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

func testBundle(id int64, url string) *profile.Bundle {
	return &profile.Bundle{
		Profile: profile.Record{ProfileID: id, ProfileURL: url, FullName: "Person"},
		Educations: []profile.Education{
			{ProfileID: id, InstitutionName: "State University"},
		},
		Experiences: []profile.Experience{
			{ProfileID: id, Title: "Engineer", Company: "Acme"},
		},
		ClubExperiences: []profile.ClubExperience{
			{ProfileID: id, ClubName: "Chess Club", Role: "Member"},
		},
		Certifications: []profile.Certification{
			{ProfileID: id, Name: "Cert"},
		},
	}
}

func TestMemoryStore_UpsertAndFetchAll(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testBundle(2, "https://www.linkedin.com/in/b/")))
	require.NoError(t, s.Upsert(ctx, testBundle(1, "https://www.linkedin.com/in/a/")))

	ds, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Profiles, 2)
	// Rows come back ordered by profile id regardless of insertion order.
	require.Equal(t, int64(1), ds.Profiles[0].ProfileID)
	require.Equal(t, int64(2), ds.Profiles[1].ProfileID)
	require.Len(t, ds.Educations, 2)
	require.Len(t, ds.Experiences, 2)
	require.Len(t, ds.ClubExperiences, 2)
	require.Len(t, ds.Certifications, 2)
}

func TestMemoryStore_UpsertReplacesChildren(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testBundle(1, "https://www.linkedin.com/in/a/")))

	replacement := &profile.Bundle{
		Profile: profile.Record{ProfileID: 1, ProfileURL: "https://www.linkedin.com/in/a/", FullName: "Renamed"},
		Experiences: []profile.Experience{
			{ProfileID: 1, Title: "Manager", Company: "NewCo"},
			{ProfileID: 1, Title: "Engineer", Company: "OldCo"},
		},
	}
	require.NoError(t, s.Upsert(ctx, replacement))

	ds, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Profiles, 1)
	require.Equal(t, "Renamed", ds.Profiles[0].FullName)
	// The old child rows are gone, replaced by the new set.
	require.Len(t, ds.Experiences, 2)
	require.Equal(t, "NewCo", ds.Experiences[0].Company)
	require.Empty(t, ds.Educations)
	require.Empty(t, ds.ClubExperiences)
	require.Empty(t, ds.Certifications)
}

func TestMemoryStore_UpsertCopiesInput(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	b := testBundle(1, "https://www.linkedin.com/in/a/")
	require.NoError(t, s.Upsert(ctx, b))

	// Mutating the caller's bundle must not leak into the store.
	b.Experiences[0].Company = "Mutated"
	b.Profile.FullName = "Mutated"

	ds, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "Acme", ds.Experiences[0].Company)
	require.Equal(t, "Person", ds.Profiles[0].FullName)
}

func TestMemoryStore_DeleteCascades(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testBundle(1, "https://www.linkedin.com/in/a/")))
	require.NoError(t, s.Upsert(ctx, testBundle(2, "https://www.linkedin.com/in/b/")))
	require.NoError(t, s.DeleteProfile(ctx, 1))

	ds, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Profiles, 1)
	require.Equal(t, int64(2), ds.Profiles[0].ProfileID)
	require.Len(t, ds.Educations, 1)
	require.Equal(t, int64(2), ds.Educations[0].ProfileID)
	require.Len(t, ds.Experiences, 1)
	require.Len(t, ds.ClubExperiences, 1)
	require.Len(t, ds.Certifications, 1)
}

func TestMemoryStore_ProfileIDByURL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testBundle(7, "https://www.linkedin.com/in/known/")))

	id, ok, err := s.ProfileIDByURL(ctx, "https://www.linkedin.com/in/known/")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(7), id)

	_, ok, err = s.ProfileIDByURL(ctx, "https://www.linkedin.com/in/unknown/")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_MaxProfileID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	max, err := s.MaxProfileID(ctx)
	require.NoError(t, err)
	require.Zero(t, max)

	require.NoError(t, s.Upsert(ctx, testBundle(3, "https://www.linkedin.com/in/a/")))
	require.NoError(t, s.Upsert(ctx, testBundle(11, "https://www.linkedin.com/in/b/")))

	max, err = s.MaxProfileID(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(11), max)
}
