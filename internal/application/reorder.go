package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// RankUpdate assigns one item its new display order.
type RankUpdate struct {
	ID           string `json:"id"`
	DisplayOrder int    `json:"display_order"`
}

// ReorderCoordinator turns a drag-and-drop move inside one category into a
// persisted contiguous rank assignment. It never touches the repository
// cache directly; it writes to the store and asks the repository to reload.
type ReorderCoordinator struct {
	store  domain.ContentStore
	repo   *ContentRepository
	logger *zap.Logger
	notify NoticeFunc
}

// NewReorderCoordinator shares the repository's store, logger and notice
// sink so reorder failures surface the same way other mutations do.
func NewReorderCoordinator(repo *ContentRepository) *ReorderCoordinator {
	return &ReorderCoordinator{
		store:  repo.store,
		repo:   repo,
		logger: repo.logger,
		notify: repo.notify,
	}
}

// Move applies array-move semantics to a snapshot of a category's items:
// the item at from is reinserted at to and everything between shifts one
// slot. The returned assignment is 1-based and contiguous. Out-of-bounds
// indices and from == to yield nil (no-op).
func Move(items []domain.GalleryItem, from, to int) []RankUpdate {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return nil
	}

	reordered := make([]domain.GalleryItem, 0, len(items))
	reordered = append(reordered, items[:from]...)
	reordered = append(reordered, items[from+1:]...)
	reordered = append(reordered[:to], append([]domain.GalleryItem{items[from]}, reordered[to:]...)...)

	updates := make([]RankUpdate, len(reordered))
	for i, item := range reordered {
		updates[i] = RankUpdate{ID: item.ID, DisplayOrder: i + 1}
	}
	return updates
}

// Persist writes the rank assignment as independent concurrent per-item
// updates. There is no multi-item transaction: a partial failure is
// surfaced as one aggregate error and answered with a corrective reload,
// not a rollback.
func (c *ReorderCoordinator) Persist(ctx context.Context, updates []RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, update := range updates {
		update := update
		g.Go(func() error {
			patch := domain.ItemPatch{DisplayOrder: &update.DisplayOrder}
			if _, err := c.store.Update(gctx, update.ID, patch); err != nil {
				return fmt.Errorf("rank %s: %w", update.ID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Error("persist reorder", zap.Int("items", len(updates)), zap.Error(err))
		c.notify(Notice{Level: NoticeError, Message: "Erreur lors de la réorganisation"})
		if reloadErr := c.repo.Reload(ctx); reloadErr != nil {
			c.logger.Error("reload after failed reorder", zap.Error(reloadErr))
		}
		return &domain.StoreError{Op: "reorder", Err: err}
	}
	return nil
}

// Reorder moves the item at from to position to within the given category
// snapshot and persists the resulting ranks. Reapplying the same move to
// the already-reordered list leaves the ranks unchanged.
func (c *ReorderCoordinator) Reorder(ctx context.Context, items []domain.GalleryItem, from, to int) error {
	return c.Persist(ctx, Move(items, from, to))
}
