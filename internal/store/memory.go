package store

import (
	"context"
	"sort"
	"sync"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/profile"
)

// MemoryStore is an in-memory Store used as the default provider and by
// tests. Semantics match the Postgres store: upserts replace the whole
// child set, deletes cascade.
type MemoryStore struct {
	mu      sync.RWMutex
	bundles map[int64]*profile.Bundle
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bundles: make(map[int64]*profile.Bundle),
	}
}

func (m *MemoryStore) Upsert(ctx context.Context, bundle *profile.Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := bundle.Profile.ProfileID
	stored := &profile.Bundle{
		Profile:         bundle.Profile,
		Educations:      append([]profile.Education(nil), bundle.Educations...),
		Experiences:     append([]profile.Experience(nil), bundle.Experiences...),
		ClubExperiences: append([]profile.ClubExperience(nil), bundle.ClubExperiences...),
		Certifications:  append([]profile.Certification(nil), bundle.Certifications...),
	}
	m.bundles[id] = stored
	return nil
}

func (m *MemoryStore) FetchAll(ctx context.Context) (*Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.bundles))
	for id := range m.bundles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ds := &Dataset{}
	for _, id := range ids {
		b := m.bundles[id]
		ds.Profiles = append(ds.Profiles, b.Profile)
		ds.Educations = append(ds.Educations, b.Educations...)
		ds.Experiences = append(ds.Experiences, b.Experiences...)
		ds.ClubExperiences = append(ds.ClubExperiences, b.ClubExperiences...)
		ds.Certifications = append(ds.Certifications, b.Certifications...)
	}
	return ds, nil
}

func (m *MemoryStore) DeleteProfile(ctx context.Context, profileID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bundles, profileID)
	return nil
}

func (m *MemoryStore) ProfileIDByURL(ctx context.Context, profileURL string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, b := range m.bundles {
		if b.Profile.ProfileURL == profileURL {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (m *MemoryStore) MaxProfileID(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var max int64
	for id := range m.bundles {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (m *MemoryStore) Close() error { return nil }
