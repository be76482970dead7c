package campaign

import "context"

// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound (wrapped) when the entity does not exist
// - Return sentinel.ErrConflict (wrapped) when an id is already taken
// - Return wrapped errors with context for infrastructure failures
type Store interface {
	CreateCampaign(ctx context.Context, c *Campaign) error
	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	UpdateCampaign(ctx context.Context, c *Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
	ListCampaignsByBrand(ctx context.Context, brandID string) ([]*Campaign, error)

	CreateAllocation(ctx context.Context, a *Allocation) error
	ListAllocationsByCampaign(ctx context.Context, campaignID string) ([]*Allocation, error)
	DeleteAllocation(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, m *Message) error
	ListMessagesByCampaign(ctx context.Context, campaignID string) ([]*Message, error)
}
