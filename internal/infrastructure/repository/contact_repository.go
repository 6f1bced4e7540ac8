package repository

import (
	"context"
	"database/sql"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, req domain.CreateContactRequest) (domain.ContactMessage, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id, name, email, COALESCE(subject, ''), message, is_read, created_at`,
		req.Name, req.Email, req.Subject, req.Message,
	)
	return scanContact(row)
}

func (r *contactRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, COALESCE(subject, ''), message, is_read, created_at
		FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ContactMessage
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *contactRepository) SetRead(ctx context.Context, id int64, read bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = $1 WHERE id = $2`, read, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanContact(row interface{ Scan(...any) error }) (domain.ContactMessage, error) {
	var msg domain.ContactMessage
	err := row.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message, &msg.IsRead, &msg.CreatedAt)
	return msg, err
}
