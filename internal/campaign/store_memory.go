package campaign

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"brandreach/pkg/platform/sentinel"
)

// InMemoryStore keeps campaign-domain objects in memory for tests/dev. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu          sync.RWMutex
	campaigns   map[string]*Campaign
	allocations map[string]*Allocation
	messages    map[string]*Message
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		campaigns:   make(map[string]*Campaign),
		allocations: make(map[string]*Allocation),
		messages:    make(map[string]*Message),
	}
}

func (s *InMemoryStore) CreateCampaign(_ context.Context, c *Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[c.ID]; ok {
		return fmt.Errorf("campaign %s: %w", c.ID, sentinel.ErrConflict)
	}
	clone := *c
	s.campaigns[c.ID] = &clone
	return nil
}

func (s *InMemoryStore) GetCampaign(_ context.Context, id string) (*Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.campaigns[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, fmt.Errorf("campaign %s: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) UpdateCampaign(_ context.Context, c *Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[c.ID]; !ok {
		return fmt.Errorf("campaign %s: %w", c.ID, sentinel.ErrNotFound)
	}
	clone := *c
	s.campaigns[c.ID] = &clone
	return nil
}

func (s *InMemoryStore) DeleteCampaign(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[id]; !ok {
		return fmt.Errorf("campaign %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.campaigns, id)
	return nil
}

func (s *InMemoryStore) ListCampaignsByBrand(_ context.Context, brandID string) ([]*Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Campaign
	for _, c := range s.campaigns {
		if c.BrandID == brandID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) CreateAllocation(_ context.Context, a *Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.allocations[a.ID]; ok {
		return fmt.Errorf("allocation %s: %w", a.ID, sentinel.ErrConflict)
	}
	clone := *a
	s.allocations[a.ID] = &clone
	return nil
}

func (s *InMemoryStore) ListAllocationsByCampaign(_ context.Context, campaignID string) ([]*Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Allocation
	for _, a := range s.allocations {
		if a.CampaignID == campaignID {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) DeleteAllocation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.allocations[id]; !ok {
		return fmt.Errorf("allocation %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.allocations, id)
	return nil
}

func (s *InMemoryStore) CreateMessage(_ context.Context, m *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[m.ID]; ok {
		return fmt.Errorf("message %s: %w", m.ID, sentinel.ErrConflict)
	}
	clone := *m
	s.messages[m.ID] = &clone
	return nil
}

func (s *InMemoryStore) ListMessagesByCampaign(_ context.Context, campaignID string) ([]*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Message
	for _, m := range s.messages {
		if m.CampaignID == campaignID {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}
