package partner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	ctx := context.Background()

	cat := &PartnerCategory{Name: "Photography", Slug: "photography", Order: 2}
	require.NoError(t, lookups.CreateCategory(ctx, cat))
	assert.NotEmpty(t, cat.ID)

	got, err := lookups.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Photography", got.Name)

	updated, err := lookups.UpdateCategory(ctx, cat.ID, &PartnerCategory{
		Name: "Photo & Video", Slug: "photo-video", Order: 1, Description: "stills and motion",
	})
	require.NoError(t, err)
	assert.Equal(t, "Photo & Video", updated.Name)
	assert.Equal(t, 1, updated.Order)

	require.NoError(t, lookups.DeleteCategory(ctx, cat.ID))
	got, err = lookups.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCategoryListOrder(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	ctx := context.Background()

	require.NoError(t, lookups.CreateCategory(ctx, &PartnerCategory{Name: "Zed", Slug: "zed", Order: 1}))
	require.NoError(t, lookups.CreateCategory(ctx, &PartnerCategory{Name: "Ark", Slug: "ark", Order: 1}))
	require.NoError(t, lookups.CreateCategory(ctx, &PartnerCategory{Name: "Top", Slug: "top", Order: 0}))

	categories, err := lookups.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Top", categories[0].Name)
	assert.Equal(t, "Ark", categories[1].Name)
	assert.Equal(t, "Zed", categories[2].Name)
}

func TestDeleteCategoryBlockedByPartners(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	partners := NewStore(db)
	ctx := context.Background()

	cat := &PartnerCategory{Name: "Photography", Slug: "photography"}
	require.NoError(t, lookups.CreateCategory(ctx, cat))

	require.NoError(t, partners.Create(ctx, &Partner{Name: "Studio Alpha", CategoryID: &cat.ID}))
	require.NoError(t, partners.Create(ctx, &Partner{Name: "Studio Beta", CategoryID: &cat.ID}))

	err := lookups.DeleteCategory(ctx, cat.ID)
	var refErr *ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, int64(2), refErr.Count)
	assert.Equal(t, "partners", refErr.By)

	// Category survives the blocked delete.
	got, err := lookups.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

// Reassigning the last referencing partner to another category unblocks the
// delete.
func TestDeleteCategoryAfterReassignment(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	partners := NewStore(db)
	ctx := context.Background()

	old := &PartnerCategory{Name: "Photography", Slug: "photography"}
	require.NoError(t, lookups.CreateCategory(ctx, old))
	next := &PartnerCategory{Name: "Videography", Slug: "videography"}
	require.NoError(t, lookups.CreateCategory(ctx, next))

	p := &Partner{Name: "Studio Alpha", CategoryID: &old.ID}
	require.NoError(t, partners.Create(ctx, p))

	err := lookups.DeleteCategory(ctx, old.ID)
	var refErr *ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, int64(1), refErr.Count)

	require.NoError(t, db.Model(&Partner{}).
		Where("id = ?", p.ID).
		Update("category_id", next.ID).Error)

	require.NoError(t, lookups.DeleteCategory(ctx, old.ID))
}

func TestRankCRUD(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	ctx := context.Background()

	r := &PartnerRank{Name: "Gold", Slug: "gold", Weight: 3}
	require.NoError(t, lookups.CreateRank(ctx, r))
	assert.NotEmpty(t, r.ID)

	updated, err := lookups.UpdateRank(ctx, r.ID, &PartnerRank{Name: "Platinum", Slug: "platinum", Weight: 5})
	require.NoError(t, err)
	assert.Equal(t, "Platinum", updated.Name)
	assert.Equal(t, 5.0, updated.Weight)

	require.NoError(t, lookups.DeleteRank(ctx, r.ID))
	got, err := lookups.GetRank(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteRankBlockedByPartners(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	partners := NewStore(db)
	ctx := context.Background()

	r := &PartnerRank{Name: "Gold", Slug: "gold"}
	require.NoError(t, lookups.CreateRank(ctx, r))
	require.NoError(t, partners.Create(ctx, &Partner{Name: "Studio Alpha", RankID: &r.ID}))

	err := lookups.DeleteRank(ctx, r.ID)
	var refErr *ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, int64(1), refErr.Count)
}

func TestLookupDuplicateNames(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	ctx := context.Background()

	require.NoError(t, lookups.CreateCategory(ctx, &PartnerCategory{Name: "Photography", Slug: "photography"}))
	err := lookups.CreateCategory(ctx, &PartnerCategory{Name: "Photography", Slug: "photography-2"})
	require.ErrorIs(t, err, ErrNameTaken)

	require.NoError(t, lookups.CreateRank(ctx, &PartnerRank{Name: "Gold", Slug: "gold"}))
	err = lookups.CreateRank(ctx, &PartnerRank{Name: "Gold", Slug: "gold-2"})
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestDeleteUnknownLookups(t *testing.T) {
	db := newTestDB(t)
	lookups := NewLookupStore(db)
	ctx := context.Background()

	require.ErrorIs(t, lookups.DeleteCategory(ctx, "missing"), ErrNotFound)
	require.ErrorIs(t, lookups.DeleteRank(ctx, "missing"), ErrNotFound)
}
