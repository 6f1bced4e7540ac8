package application

import (
	"sort"
	"sync"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// Partition returns the ordered sub-sequence of items belonging to the
// category: exact match, except that category-less legacy rows count as
// miniatures. The input is never mutated. Ordering is display order
// ascending with newest-first tie-break, stable.
func Partition(items []domain.GalleryItem, category domain.Category) []domain.GalleryItem {
	scope := domain.QueryScope{Category: category}
	var out []domain.GalleryItem
	for _, item := range items {
		if scope.Matches(item) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// PartitionView memoizes Partition on (input slice identity, category), so
// the gallery pages and the admin manager can re-render against an
// unchanged cache without re-filtering.
type PartitionView struct {
	mu           sync.Mutex
	lastItems    []domain.GalleryItem
	lastCategory domain.Category
	lastResult   []domain.GalleryItem
	valid        bool
}

func (v *PartitionView) Partition(items []domain.GalleryItem, category domain.Category) []domain.GalleryItem {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.valid && category == v.lastCategory && sameSlice(items, v.lastItems) {
		return v.lastResult
	}

	result := Partition(items, category)
	v.lastItems = items
	v.lastCategory = category
	v.lastResult = result
	v.valid = true
	return result
}

// sameSlice reports whether two slices share the same backing array and
// length, which is the memoization key: the repository hands out a fresh
// snapshot whenever the cache changed.
func sameSlice(a, b []domain.GalleryItem) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
