package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

func TestPartitionFiltersAndSorts(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []domain.GalleryItem{
		{ID: "p1", Category: domain.CategoryAffiches, DisplayOrder: 2, CreatedAt: base},
		{ID: "m1", Category: domain.CategoryMiniatures, DisplayOrder: 3, CreatedAt: base},
		{ID: "m2", Category: domain.CategoryMiniatures, DisplayOrder: 1, CreatedAt: base},
		{ID: "m3", Category: domain.CategoryMiniatures, DisplayOrder: 1, CreatedAt: base.Add(time.Hour)},
	}

	got := Partition(items, domain.CategoryMiniatures)
	require.Len(t, got, 3)
	// Equal display orders break ties newest-first.
	assert.Equal(t, "m3", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
	assert.Equal(t, "m1", got[2].ID)
}

func TestPartitionLegacyRule(t *testing.T) {
	items := []domain.GalleryItem{
		{ID: "legacy", Category: "", DisplayOrder: 1},
		{ID: "poster", Category: domain.CategoryAffiches, DisplayOrder: 1},
	}

	minis := Partition(items, domain.CategoryMiniatures)
	require.Len(t, minis, 1)
	assert.Equal(t, "legacy", minis[0].ID)

	// The legacy fallback applies to miniatures only.
	assert.Empty(t, Partition(items[:1], domain.CategoryAutres))
}

func TestPartitionComparisonFieldsAreNotAFilter(t *testing.T) {
	// A half-filled comparison item still belongs to its category; whether
	// it renders as a before/after pair is the UI's concern.
	items := []domain.GalleryItem{
		{ID: "half", Category: domain.CategoryEntrainement, BeforeImageURL: "before.png"},
	}
	got := Partition(items, domain.CategoryEntrainement)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsComparison())
}

func TestPartitionDoesNotMutateInput(t *testing.T) {
	items := []domain.GalleryItem{
		{ID: "b", Category: domain.CategoryMiniatures, DisplayOrder: 2},
		{ID: "a", Category: domain.CategoryMiniatures, DisplayOrder: 1},
	}

	_ = Partition(items, domain.CategoryMiniatures)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
}

func TestPartitionViewMemoizes(t *testing.T) {
	var view PartitionView
	items := []domain.GalleryItem{
		{ID: "a", Category: domain.CategoryMiniatures, DisplayOrder: 1},
		{ID: "b", Category: domain.CategoryMiniatures, DisplayOrder: 2},
	}

	first := view.Partition(items, domain.CategoryMiniatures)
	second := view.Partition(items, domain.CategoryMiniatures)
	require.Len(t, first, 2)
	assert.Same(t, &first[0], &second[0], "unchanged input must return the memoized slice")

	// A different category on the same input recomputes.
	assert.Empty(t, view.Partition(items, domain.CategoryAffiches))

	// A fresh snapshot recomputes.
	refreshed := append([]domain.GalleryItem{}, items...)
	third := view.Partition(refreshed, domain.CategoryMiniatures)
	require.Len(t, third, 2)
	assert.NotSame(t, &first[0], &third[0])
}
