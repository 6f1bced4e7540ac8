package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// PostgresStore implements domain.ContentStore on a single gallery_items
// table. Change notifications are produced by database triggers (see
// migrations/) and consumed through the pq listener in listener.go.
type PostgresStore struct {
	db      *sql.DB
	connStr string
}

// NewPostgresStore wraps an open database handle. connStr is kept for the
// LISTEN/NOTIFY subscription, which needs its own connection.
func NewPostgresStore(db *sql.DB, connStr string) *PostgresStore {
	return &PostgresStore{db: db, connStr: connStr}
}

const itemColumns = `id, category, title, image_url, before_image_url, after_image_url, display_order, created_at`

func scanItem(row interface{ Scan(...any) error }) (domain.GalleryItem, error) {
	var (
		item     domain.GalleryItem
		category sql.NullString
		before   sql.NullString
		after    sql.NullString
	)
	err := row.Scan(&item.ID, &category, &item.Title, &item.ImageURL, &before, &after, &item.DisplayOrder, &item.CreatedAt)
	if err != nil {
		return domain.GalleryItem{}, err
	}
	// Rows from before the category column exist with NULL category and
	// belong to miniatures.
	if category.Valid {
		item.Category = domain.Category(category.String)
	} else {
		item.Category = domain.CategoryMiniatures
		item.Legacy = true
	}
	item.BeforeImageURL = before.String
	item.AfterImageURL = after.String
	return item, nil
}

func (s *PostgresStore) Query(ctx context.Context, scope domain.QueryScope) ([]domain.GalleryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM gallery_items`
	args := []any{}
	if scope.Scoped() {
		query += ` WHERE category = $1 OR (category IS NULL AND $1 = 'miniatures')`
		args = append(args, string(scope.Category))
	}
	query += ` ORDER BY display_order ASC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.GalleryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) Insert(ctx context.Context, draft domain.ItemDraft) (domain.GalleryItem, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO gallery_items (category, title, image_url, before_image_url, after_image_url, display_order)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
		RETURNING `+itemColumns,
		string(draft.Category), draft.Title, draft.ImageURL,
		draft.BeforeImageURL, draft.AfterImageURL, draft.DisplayOrder,
	)
	return scanItem(row)
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.GalleryItem, error) {
	set := ""
	args := []any{}
	add := func(column string, value any) {
		if set != "" {
			set += ", "
		}
		args = append(args, value)
		set += fmt.Sprintf("%s = $%d", column, len(args))
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.BeforeImageURL != nil {
		add("before_image_url", *patch.BeforeImageURL)
	}
	if patch.AfterImageURL != nil {
		add("after_image_url", *patch.AfterImageURL)
	}
	if patch.DisplayOrder != nil {
		add("display_order", *patch.DisplayOrder)
	}
	if set == "" {
		row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM gallery_items WHERE id = $1`, id)
		item, err := scanItem(row)
		if err == sql.ErrNoRows {
			return domain.GalleryItem{}, domain.ErrNotFound
		}
		return item, err
	}

	args = append(args, id)
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE gallery_items SET %s WHERE id = $%d RETURNING %s`, set, len(args), itemColumns),
		args...,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return domain.GalleryItem{}, domain.ErrNotFound
	}
	return item, err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) MaxDisplayOrder(ctx context.Context, category domain.Category) (int, error) {
	var max int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(display_order), 0) FROM gallery_items
		WHERE category = $1 OR (category IS NULL AND $1 = 'miniatures')`,
		string(category),
	).Scan(&max)
	return max, err
}
