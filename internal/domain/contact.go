package domain

import (
	"context"
	"time"
)

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContactRequest is the public form payload.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactRepository interface {
	Create(ctx context.Context, req CreateContactRequest) (ContactMessage, error)
	List(ctx context.Context) ([]ContactMessage, error)
	SetRead(ctx context.Context, id int64, read bool) error
	Delete(ctx context.Context, id int64) error
}
