package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Category identifies one of the fixed gallery sections of the site.
type Category string

const (
	CategoryMiniatures   Category = "miniatures"
	CategoryAffiches     Category = "affiches"
	CategoryAutres       Category = "autres"
	CategoryEntrainement Category = "entrainement"
)

// Categories lists every valid category, in site navigation order.
var Categories = []Category{
	CategoryMiniatures,
	CategoryAffiches,
	CategoryAutres,
	CategoryEntrainement,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryMiniatures, CategoryAffiches, CategoryAutres, CategoryEntrainement:
		return true
	}
	return false
}

// GalleryItem is a single piece of published work. Items created before the
// category column existed carry Legacy=true and are normalized to
// CategoryMiniatures when loaded.
type GalleryItem struct {
	ID             string    `json:"id"`
	Category       Category  `json:"category"`
	Title          string    `json:"title"`
	ImageURL       string    `json:"image_url"`
	BeforeImageURL string    `json:"before_image_url,omitempty"`
	AfterImageURL  string    `json:"after_image_url,omitempty"`
	DisplayOrder   int       `json:"display_order"`
	CreatedAt      time.Time `json:"created_at"`
	Legacy         bool      `json:"-"`
}

// IsComparison reports whether the item is a before/after training pair.
// Both URLs are set together or not at all.
func (g GalleryItem) IsComparison() bool {
	return g.BeforeImageURL != "" && g.AfterImageURL != ""
}

// ItemDraft is the caller-supplied part of a new item. The store assigns
// ID and CreatedAt.
type ItemDraft struct {
	Category       Category `json:"category"`
	Title          string   `json:"title"`
	ImageURL       string   `json:"image_url"`
	BeforeImageURL string   `json:"before_image_url,omitempty"`
	AfterImageURL  string   `json:"after_image_url,omitempty"`
	DisplayOrder   int      `json:"display_order"`
}

// ItemPatch carries the mutable fields of an update. Nil fields are left
// untouched by the store.
type ItemPatch struct {
	Category       *Category `json:"category,omitempty"`
	Title          *string   `json:"title,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	BeforeImageURL *string   `json:"before_image_url,omitempty"`
	AfterImageURL  *string   `json:"after_image_url,omitempty"`
	DisplayOrder   *int      `json:"display_order,omitempty"`
}

// QueryScope restricts a query or subscription to one category. The zero
// value means "all categories".
type QueryScope struct {
	Category Category
}

// Scoped reports whether the scope restricts to a single category.
func (s QueryScope) Scoped() bool { return s.Category != "" }

// Matches applies the scope to an item, honouring the legacy rule: an item
// without a category belongs to miniatures.
func (s QueryScope) Matches(item GalleryItem) bool {
	if !s.Scoped() {
		return true
	}
	if item.Category == "" {
		return s.Category == CategoryMiniatures
	}
	return item.Category == s.Category
}

// ChangeType tags a change-feed event.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is one entry of the content store's push feed. For deletes
// only Record.ID is guaranteed to be populated.
type ChangeEvent struct {
	Type   ChangeType  `json:"type"`
	Record GalleryItem `json:"record"`
}

// Subscription is a live change feed opened against the content store.
// Close must be called when the consumer goes away; a subscription that
// outlives its consumer is a leak.
type Subscription interface {
	Events() <-chan ChangeEvent
	Err() error
	Close() error
}

// ContentStore is the durable table of gallery items. Implementations:
// Postgres (production) and an in-memory store (tests, local runs).
type ContentStore interface {
	Query(ctx context.Context, scope QueryScope) ([]GalleryItem, error)
	Insert(ctx context.Context, draft ItemDraft) (GalleryItem, error)
	Update(ctx context.Context, id string, patch ItemPatch) (GalleryItem, error)
	Delete(ctx context.Context, id string) error
	MaxDisplayOrder(ctx context.Context, category Category) (int, error)
	Subscribe(ctx context.Context, scope QueryScope) (Subscription, error)
}

// ErrNotFound is returned by stores when an id does not exist.
var ErrNotFound = errors.New("item not found")

// ValidationError reports caller input rejected before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failed content store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// SubscriptionError reports a change feed that failed to establish or
// dropped. Reconnection is left to the underlying channel transport.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription: %v", e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }
