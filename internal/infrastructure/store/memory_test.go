package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

func TestMemoryStoreQueryOrdering(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	clock := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	older, err := s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryMiniatures, Title: "old", DisplayOrder: 1})
	require.NoError(t, err)
	newer, err := s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryMiniatures, Title: "new", DisplayOrder: 1})
	require.NoError(t, err)
	last, err := s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryMiniatures, Title: "last", DisplayOrder: 2})
	require.NoError(t, err)

	items, err := s.Query(ctx, domain.QueryScope{Category: domain.CategoryMiniatures})
	require.NoError(t, err)
	require.Len(t, items, 3)
	// Same rank: newest first. Higher rank comes after.
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)
	assert.Equal(t, last.ID, items[2].ID)
}

func TestMemoryStoreMaxDisplayOrderPerCategory(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryMiniatures, DisplayOrder: 4})
	require.NoError(t, err)
	_, err = s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryAffiches, DisplayOrder: 9})
	require.NoError(t, err)

	max, err := s.MaxDisplayOrder(ctx, domain.CategoryMiniatures)
	require.NoError(t, err)
	assert.Equal(t, 4, max)

	max, err = s.MaxDisplayOrder(ctx, domain.CategoryEntrainement)
	require.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestMemoryStoreUpdateAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	item, err := s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryAutres, Title: "before"})
	require.NoError(t, err)

	title := "after"
	updated, err := s.Update(ctx, item.ID, domain.ItemPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)

	_, err = s.Update(ctx, "missing", domain.ItemPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Delete(ctx, item.ID))
	assert.ErrorIs(t, s.Delete(ctx, item.ID), domain.ErrNotFound)
}

func TestMemoryStoreSubscriptionScope(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, domain.QueryScope{Category: domain.CategoryAffiches})
	require.NoError(t, err)
	defer sub.Close()

	_, err = s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryAutres})
	require.NoError(t, err)
	poster, err := s.Insert(ctx, domain.ItemDraft{Category: domain.CategoryAffiches})
	require.NoError(t, err)

	select {
	case event := <-sub.Events():
		assert.Equal(t, domain.ChangeInsert, event.Type)
		assert.Equal(t, poster.ID, event.Record.ID)
	case <-time.After(time.Second):
		t.Fatal("expected the scoped insert event")
	}

	require.NoError(t, sub.Close())
	_, open := <-sub.Events()
	assert.False(t, open, "events channel closes with the subscription")
}
