package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// MemoryStore is an in-process domain.ContentStore with the same ordering
// and notification semantics as the Postgres store. It backs the test
// suites and the -store=memory development mode.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]domain.GalleryItem
	subs  map[*memorySubscription]struct{}

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]domain.GalleryItem),
		subs:  make(map[*memorySubscription]struct{}),
		now:   time.Now,
	}
}

// SetClock overrides the creation timestamp source. Tests use it to force
// created_at tie-break ordering.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryStore) Query(ctx context.Context, scope domain.QueryScope) ([]domain.GalleryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []domain.GalleryItem
	for _, item := range s.items {
		if scope.Matches(item) {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DisplayOrder != items[j].DisplayOrder {
			return items[i].DisplayOrder < items[j].DisplayOrder
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemoryStore) Insert(ctx context.Context, draft domain.ItemDraft) (domain.GalleryItem, error) {
	s.mu.Lock()
	item := domain.GalleryItem{
		ID:             uuid.NewString(),
		Category:       draft.Category,
		Title:          draft.Title,
		ImageURL:       draft.ImageURL,
		BeforeImageURL: draft.BeforeImageURL,
		AfterImageURL:  draft.AfterImageURL,
		DisplayOrder:   draft.DisplayOrder,
		CreatedAt:      s.now(),
	}
	s.items[item.ID] = item
	s.mu.Unlock()

	s.broadcast(domain.ChangeEvent{Type: domain.ChangeInsert, Record: item})
	return item, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.GalleryItem, error) {
	s.mu.Lock()
	item, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return domain.GalleryItem{}, domain.ErrNotFound
	}
	if patch.Category != nil {
		item.Category = *patch.Category
		item.Legacy = false
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.ImageURL != nil {
		item.ImageURL = *patch.ImageURL
	}
	if patch.BeforeImageURL != nil {
		item.BeforeImageURL = *patch.BeforeImageURL
	}
	if patch.AfterImageURL != nil {
		item.AfterImageURL = *patch.AfterImageURL
	}
	if patch.DisplayOrder != nil {
		item.DisplayOrder = *patch.DisplayOrder
	}
	s.items[id] = item
	s.mu.Unlock()

	s.broadcast(domain.ChangeEvent{Type: domain.ChangeUpdate, Record: item})
	return item, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	item, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(s.items, id)
	s.mu.Unlock()

	s.broadcast(domain.ChangeEvent{Type: domain.ChangeDelete, Record: item})
	return nil
}

func (s *MemoryStore) MaxDisplayOrder(ctx context.Context, category domain.Category) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scope := domain.QueryScope{Category: category}
	max := 0
	for _, item := range s.items {
		if scope.Matches(item) && item.DisplayOrder > max {
			max = item.DisplayOrder
		}
	}
	return max, nil
}

type memorySubscription struct {
	store     *MemoryStore
	scope     domain.QueryScope
	events    chan domain.ChangeEvent
	closeOnce sync.Once
}

func (s *MemoryStore) Subscribe(ctx context.Context, scope domain.QueryScope) (domain.Subscription, error) {
	sub := &memorySubscription{
		store:  s,
		scope:  scope,
		events: make(chan domain.ChangeEvent, 16),
	}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()
	return sub, nil
}

func (s *MemoryStore) broadcast(event domain.ChangeEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subs {
		if !sub.scope.Matches(event.Record) {
			continue
		}
		select {
		case sub.events <- event:
		default:
			// Slow consumer; it reconciles through Load.
		}
	}
}

func (s *memorySubscription) Events() <-chan domain.ChangeEvent { return s.events }

func (s *memorySubscription) Err() error { return nil }

func (s *memorySubscription) Close() error {
	s.closeOnce.Do(func() {
		s.store.mu.Lock()
		delete(s.store.subs, s)
		s.store.mu.Unlock()
		close(s.events)
	})
	return nil
}
