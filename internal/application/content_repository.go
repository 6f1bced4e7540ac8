package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// Notice is a transient, user-facing message (the web client renders these
// as toasts). Notices are advisory; errors still flow back to the caller.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// NoticeFunc receives user-facing notices emitted by the repository.
type NoticeFunc func(Notice)

// ErrAlreadySubscribed is returned by SubscribeLive when a live listener is
// already attached. One repository owns at most one subscription; the old
// client stacked a fresh channel per page render and leaked them.
var ErrAlreadySubscribed = errors.New("live subscription already active")

// AddInput is the caller-supplied part of ContentRepository.Add. A standard
// item needs ImageURL; a before/after training pair needs both comparison
// URLs instead.
type AddInput struct {
	Category       domain.Category `json:"category"`
	Title          string          `json:"title"`
	ImageURL       string          `json:"image_url"`
	BeforeImageURL string          `json:"before_image_url"`
	AfterImageURL  string          `json:"after_image_url"`
}

// ContentRepository is the single source of truth for the current set of
// gallery items under an optional category filter. It caches query results,
// applies mutations optimistically, and folds live change events delivered
// by a LiveListener. The cache is owned exclusively by the repository.
type ContentRepository struct {
	store  domain.ContentStore
	logger *zap.Logger
	notify NoticeFunc

	mu      sync.Mutex
	items   []domain.GalleryItem
	scope   domain.QueryScope
	loading bool
	loadErr error

	live *LiveListener
}

type RepositoryOption func(*ContentRepository)

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) RepositoryOption {
	return func(r *ContentRepository) { r.logger = logger }
}

// WithNotices attaches a sink for user-facing notices.
func WithNotices(notify NoticeFunc) RepositoryOption {
	return func(r *ContentRepository) { r.notify = notify }
}

func NewContentRepository(store domain.ContentStore, opts ...RepositoryOption) *ContentRepository {
	r := &ContentRepository{
		store:  store,
		logger: zap.NewNop(),
		notify: func(Notice) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load queries the store for the given scope and replaces the cache
// wholesale. On failure the previous cache is kept and a notice is raised.
func (r *ContentRepository) Load(ctx context.Context, scope domain.QueryScope) ([]domain.GalleryItem, error) {
	r.mu.Lock()
	r.scope = scope
	r.loading = true
	r.loadErr = nil
	r.mu.Unlock()

	items, err := r.store.Query(ctx, scope)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		r.loadErr = err
		r.logger.Error("load content", zap.String("category", string(scope.Category)), zap.Error(err))
		r.notify(Notice{Level: NoticeError, Message: "Erreur lors du chargement"})
		return nil, &domain.StoreError{Op: "query", Err: err}
	}
	r.items = items
	return r.snapshotLocked(), nil
}

// Reload re-runs the last Load with the same scope. The reorder coordinator
// and failed deletes use it to resynchronize with the store.
func (r *ContentRepository) Reload(ctx context.Context) error {
	r.mu.Lock()
	scope := r.scope
	r.mu.Unlock()
	_, err := r.Load(ctx, scope)
	return err
}

// Items returns a copy of the cached list in display order.
func (r *ContentRepository) Items() []domain.GalleryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Loading reports whether a Load round trip is in flight.
func (r *ContentRepository) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// LoadErr returns the error of the last failed Load, if any.
func (r *ContentRepository) LoadErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadErr
}

func (r *ContentRepository) snapshotLocked() []domain.GalleryItem {
	out := make([]domain.GalleryItem, len(r.items))
	copy(out, r.items)
	return out
}

func validateAdd(input AddInput) error {
	if !input.Category.Valid() {
		return &domain.ValidationError{Field: "category", Reason: "unknown category"}
	}
	hasComparison := input.BeforeImageURL != "" && input.AfterImageURL != ""
	if input.ImageURL == "" && !hasComparison {
		if input.BeforeImageURL != "" || input.AfterImageURL != "" {
			return &domain.ValidationError{Field: "before_image_url", Reason: "comparison items need both before and after images"}
		}
		return &domain.ValidationError{Field: "image_url", Reason: "an image is required"}
	}
	for field, raw := range map[string]string{
		"image_url":        input.ImageURL,
		"before_image_url": input.BeforeImageURL,
		"after_image_url":  input.AfterImageURL,
	} {
		if err := validateImageURL(field, raw); err != nil {
			return err
		}
	}
	return nil
}

// Add validates the input, ranks the item after everything in its category
// and inserts it. The stored record is prepended to the cache when it
// matches the active filter. On failure the cache is untouched and the
// error propagates so the caller can keep its form state.
func (r *ContentRepository) Add(ctx context.Context, input AddInput) (domain.GalleryItem, error) {
	if err := validateAdd(input); err != nil {
		return domain.GalleryItem{}, err
	}

	title := input.Title
	if title == "" {
		title = fmt.Sprintf("%s - %d", input.Category, time.Now().UnixMilli())
	}

	max, err := r.store.MaxDisplayOrder(ctx, input.Category)
	if err != nil {
		r.logger.Error("rank new content", zap.Error(err))
		r.notify(Notice{Level: NoticeError, Message: "Erreur lors de l'ajout"})
		return domain.GalleryItem{}, &domain.StoreError{Op: "max display order", Err: err}
	}

	item, err := r.store.Insert(ctx, domain.ItemDraft{
		Category:       input.Category,
		Title:          title,
		ImageURL:       input.ImageURL,
		BeforeImageURL: input.BeforeImageURL,
		AfterImageURL:  input.AfterImageURL,
		DisplayOrder:   max + 1,
	})
	if err != nil {
		r.logger.Error("add content", zap.Error(err))
		r.notify(Notice{Level: NoticeError, Message: "Erreur lors de l'ajout"})
		return domain.GalleryItem{}, &domain.StoreError{Op: "insert", Err: err}
	}

	r.mu.Lock()
	if r.scope.Matches(item) && !r.cachedLocked(item.ID) {
		r.items = append([]domain.GalleryItem{item}, r.items...)
	}
	r.mu.Unlock()

	r.notify(Notice{Level: NoticeSuccess, Message: "Contenu ajouté avec succès"})
	return item, nil
}

// Delete removes the item optimistically, then issues the store delete. A
// store failure triggers a corrective Reload so the cache reflects the true
// server state again.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	r.removeLocked(id)
	r.mu.Unlock()

	if err := r.store.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Error("delete content", zap.String("id", id), zap.Error(err))
		r.notify(Notice{Level: NoticeError, Message: "Erreur lors de la suppression"})
		if reloadErr := r.Reload(ctx); reloadErr != nil {
			r.logger.Error("reload after failed delete", zap.Error(reloadErr))
		}
		return &domain.StoreError{Op: "delete", Err: err}
	}

	r.notify(Notice{Level: NoticeSuccess, Message: "Contenu supprimé"})
	return nil
}

// Update patches the stored item and replaces it in place in the cache.
// Category moves flow through here too; an item moved out of the active
// filter is dropped from the cache.
func (r *ContentRepository) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.GalleryItem, error) {
	item, err := r.store.Update(ctx, id, patch)
	if err != nil {
		r.logger.Error("update content", zap.String("id", id), zap.Error(err))
		r.notify(Notice{Level: NoticeError, Message: "Erreur lors de la mise à jour"})
		return domain.GalleryItem{}, &domain.StoreError{Op: "update", Err: err}
	}

	r.mu.Lock()
	if !r.scope.Matches(item) {
		r.removeLocked(id)
	} else {
		for i := range r.items {
			if r.items[i].ID == id {
				r.items[i] = item
				break
			}
		}
	}
	r.mu.Unlock()

	r.notify(Notice{Level: NoticeSuccess, Message: "Contenu mis à jour"})
	return item, nil
}

// SubscribeLive attaches a live listener with the repository's current
// scope. The returned listener must be closed on teardown. A second call
// while one is active returns ErrAlreadySubscribed.
func (r *ContentRepository) SubscribeLive(ctx context.Context) (*LiveListener, error) {
	r.mu.Lock()
	if r.live != nil && r.live.State() != StateDisconnected {
		r.mu.Unlock()
		return nil, ErrAlreadySubscribed
	}
	scope := r.scope
	r.mu.Unlock()

	listener := NewLiveListener(r, scope, r.logger)
	if err := listener.Start(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.live = listener
	r.mu.Unlock()
	return listener, nil
}

// Close releases the live subscription, if any.
func (r *ContentRepository) Close() error {
	r.mu.Lock()
	live := r.live
	r.live = nil
	r.mu.Unlock()
	if live != nil {
		return live.Close()
	}
	return nil
}

func (r *ContentRepository) cachedLocked(id string) bool {
	for i := range r.items {
		if r.items[i].ID == id {
			return true
		}
	}
	return false
}

func (r *ContentRepository) removeLocked(id string) {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return
		}
	}
}

// applyEvent folds one change feed event into the cache. Inserts dedupe
// against optimistic adds, updates replace in place and are ignored for
// unknown ids, deletes are idempotent.
func (r *ContentRepository) applyEvent(event domain.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.scope.Matches(event.Record) {
		return
	}

	switch event.Type {
	case domain.ChangeInsert:
		if !r.cachedLocked(event.Record.ID) {
			r.items = append([]domain.GalleryItem{event.Record}, r.items...)
		}
	case domain.ChangeUpdate:
		for i := range r.items {
			if r.items[i].ID == event.Record.ID {
				r.items[i] = event.Record
				return
			}
		}
	case domain.ChangeDelete:
		r.removeLocked(event.Record.ID)
	}
}
