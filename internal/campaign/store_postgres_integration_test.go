//go:build integration

package campaign_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"brandreach/internal/campaign"
	"brandreach/pkg/platform/sentinel"
	"brandreach/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *campaign.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = campaign.NewPostgresStore(s.postgres.Pool)
	s.Require().NoError(s.store.Schema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "campaigns", "allocations", "messages")
	s.Require().NoError(err)
}

func makeCampaign(brandID string) *campaign.Campaign {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &campaign.Campaign{
		ID:          uuid.NewString(),
		BrandID:     brandID,
		Name:        "Spring Launch",
		Status:      "draft",
		BudgetCents: 500_000,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *PostgresStoreSuite) TestCampaignRoundTrip() {
	ctx := context.Background()
	c := makeCampaign("brand-1")
	s.Require().NoError(s.store.CreateCampaign(ctx, c))

	got, err := s.store.GetCampaign(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Name, got.Name)
	s.Equal(c.BudgetCents, got.BudgetCents)
	s.True(c.CreatedAt.Equal(got.CreatedAt))
}

func (s *PostgresStoreSuite) TestCreateCampaignConflict() {
	ctx := context.Background()
	c := makeCampaign("brand-1")
	s.Require().NoError(s.store.CreateCampaign(ctx, c))
	s.ErrorIs(s.store.CreateCampaign(ctx, c), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestGetCampaignNotFound() {
	_, err := s.store.GetCampaign(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateCampaign() {
	ctx := context.Background()
	c := makeCampaign("brand-1")
	s.Require().NoError(s.store.CreateCampaign(ctx, c))

	c.Name = "Renamed"
	c.Status = "active"
	c.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.UpdateCampaign(ctx, c))

	got, err := s.store.GetCampaign(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
	s.Equal("active", got.Status)

	missing := makeCampaign("brand-1")
	s.ErrorIs(s.store.UpdateCampaign(ctx, missing), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteCampaign() {
	ctx := context.Background()
	c := makeCampaign("brand-1")
	s.Require().NoError(s.store.CreateCampaign(ctx, c))

	s.Require().NoError(s.store.DeleteCampaign(ctx, c.ID))
	s.ErrorIs(s.store.DeleteCampaign(ctx, c.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListCampaignsByBrandOrdered() {
	ctx := context.Background()

	older := makeCampaign("brand-1")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := makeCampaign("brand-1")
	other := makeCampaign("brand-2")

	s.Require().NoError(s.store.CreateCampaign(ctx, newer))
	s.Require().NoError(s.store.CreateCampaign(ctx, older))
	s.Require().NoError(s.store.CreateCampaign(ctx, other))

	out, err := s.store.ListCampaignsByBrand(ctx, "brand-1")
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(older.ID, out[0].ID)
	s.Equal(newer.ID, out[1].ID)
}

func (s *PostgresStoreSuite) TestAllocations() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	a := &campaign.Allocation{
		ID: uuid.NewString(), CampaignID: "c1", CreatorID: "creator-1",
		AmountCents: 25_000, CreatedAt: now,
	}
	s.Require().NoError(s.store.CreateAllocation(ctx, a))
	s.ErrorIs(s.store.CreateAllocation(ctx, a), sentinel.ErrConflict)

	out, err := s.store.ListAllocationsByCampaign(ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(a.CreatorID, out[0].CreatorID)

	s.Require().NoError(s.store.DeleteAllocation(ctx, a.ID))
	s.ErrorIs(s.store.DeleteAllocation(ctx, a.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestMessagesOrderedBySentAt() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	second := &campaign.Message{
		ID: uuid.NewString(), CampaignID: "c1", SenderID: "brand-1",
		RecipientID: "creator-1", Body: "second", SentAt: now.Add(time.Minute),
	}
	first := &campaign.Message{
		ID: uuid.NewString(), CampaignID: "c1", SenderID: "creator-1",
		RecipientID: "brand-1", Body: "first", SentAt: now,
	}
	s.Require().NoError(s.store.CreateMessage(ctx, second))
	s.Require().NoError(s.store.CreateMessage(ctx, first))

	out, err := s.store.ListMessagesByCampaign(ctx, "c1")
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal("first", out[0].Body)
	s.Equal("second", out[1].Body)
}
