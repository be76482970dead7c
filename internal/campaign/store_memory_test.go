package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandreach/pkg/platform/sentinel"
)

func seedCampaign(id, brandID string, createdAt time.Time) *Campaign {
	return &Campaign{
		ID:          id,
		BrandID:     brandID,
		Name:        "Spring Launch",
		Status:      "draft",
		BudgetCents: 500_000,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestInMemoryStore_CampaignLifecycle(t *testing.T) {
	store := NewInMemoryStore()
	ctx := t.Context()
	now := time.Now()

	require.NoError(t, store.CreateCampaign(ctx, seedCampaign("c1", "brand-1", now)))

	got, err := store.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Launch", got.Name)

	got.Name = "Summer Launch"
	require.NoError(t, store.UpdateCampaign(ctx, got))
	updated, err := store.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Summer Launch", updated.Name)

	require.NoError(t, store.DeleteCampaign(ctx, "c1"))
	_, err = store.GetCampaign(ctx, "c1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_CampaignErrors(t *testing.T) {
	store := NewInMemoryStore()
	ctx := t.Context()

	require.NoError(t, store.CreateCampaign(ctx, seedCampaign("c1", "brand-1", time.Now())))
	assert.ErrorIs(t, store.CreateCampaign(ctx, seedCampaign("c1", "brand-1", time.Now())), sentinel.ErrConflict)

	assert.ErrorIs(t, store.UpdateCampaign(ctx, seedCampaign("missing", "brand-1", time.Now())), sentinel.ErrNotFound)
	assert.ErrorIs(t, store.DeleteCampaign(ctx, "missing"), sentinel.ErrNotFound)
}

func TestInMemoryStore_ListCampaignsByBrand(t *testing.T) {
	store := NewInMemoryStore()
	ctx := t.Context()
	now := time.Now()

	require.NoError(t, store.CreateCampaign(ctx, seedCampaign("c2", "brand-1", now.Add(time.Hour))))
	require.NoError(t, store.CreateCampaign(ctx, seedCampaign("c1", "brand-1", now)))
	require.NoError(t, store.CreateCampaign(ctx, seedCampaign("other", "brand-2", now)))

	out, err := store.ListCampaignsByBrand(ctx, "brand-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c1", out[0].ID, "results are ordered by creation time")
	assert.Equal(t, "c2", out[1].ID)

	empty, err := store.ListCampaignsByBrand(ctx, "brand-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryStore_CloneOnReadAndWrite(t *testing.T) {
	store := NewInMemoryStore()
	ctx := t.Context()

	original := seedCampaign("c1", "brand-1", time.Now())
	require.NoError(t, store.CreateCampaign(ctx, original))

	// Mutating the caller's copy or a read result must not leak into the store.
	original.Name = "mutated after create"
	first, err := store.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Launch", first.Name)

	first.Name = "mutated after read"
	second, err := store.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Spring Launch", second.Name)
}

func TestInMemoryStore_Allocations(t *testing.T) {
	store := NewInMemoryStore()
	ctx := t.Context()
	now := time.Now()

	require.NoError(t, store.CreateAllocation(ctx, &Allocation{
		ID: "a1", CampaignID: "c1", CreatorID: "creator-1", AmountCents: 10_000, CreatedAt: now,
	}))
	require.NoError(t, store.CreateAllocation(ctx, &Allocation{
		ID: "a2", CampaignID: "c1", CreatorID: "creator-2", AmountCents: 20_000, CreatedAt: now.Add(time.Minute),
	}))
	assert.ErrorIs(t, store.CreateAllocation(ctx, &Allocation{ID: "a1"}), sentinel.ErrConflict)

	out, err := store.ListAllocationsByCampaign(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a1", out[0].ID)

	require.NoError(t, store.DeleteAllocation(ctx, "a1"))
	assert.ErrorIs(t, store.DeleteAllocation(ctx, "a1"), sentinel.ErrNotFound)
}

func TestInMemoryStore_Messages(t *testing.T) {
	store := NewInMemoryStore()
	ctx := t.Context()
	now := time.Now()

	require.NoError(t, store.CreateMessage(ctx, &Message{
		ID: "m2", CampaignID: "c1", SenderID: "brand-1", Body: "second", SentAt: now.Add(time.Minute),
	}))
	require.NoError(t, store.CreateMessage(ctx, &Message{
		ID: "m1", CampaignID: "c1", SenderID: "creator-1", Body: "first", SentAt: now,
	}))
	assert.ErrorIs(t, store.CreateMessage(ctx, &Message{ID: "m1"}), sentinel.ErrConflict)

	out, err := store.ListMessagesByCampaign(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Body, "messages are ordered by send time")
	assert.Equal(t, "second", out[1].Body)
}
