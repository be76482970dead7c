// Package campaign persists the platform's campaign-domain objects. Plain
// key-value storage: the only invariant is id uniqueness. Budget scoring and
// creator matching live in the upstream platform backend, not here.
package campaign

import "time"

// Campaign is a brand's influencer-marketing campaign.
type Campaign struct {
	ID          string    `json:"id"`
	BrandID     string    `json:"brandId"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	BudgetCents int64     `json:"budgetCents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Allocation assigns part of a campaign budget to a creator.
type Allocation struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaignId"`
	CreatorID   string    `json:"creatorId"`
	AmountCents int64     `json:"amountCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Message is one brand/creator message within a campaign thread.
type Message struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaignId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sentAt"`
}
