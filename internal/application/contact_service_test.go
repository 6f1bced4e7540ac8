package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

type fakeContactRepo struct {
	mu       sync.Mutex
	messages []domain.ContactMessage
	nextID   int64
}

func (r *fakeContactRepo) Create(ctx context.Context, req domain.CreateContactRequest) (domain.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	msg := domain.ContactMessage{
		ID:        r.nextID,
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *fakeContactRepo) List(ctx context.Context) ([]domain.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ContactMessage{}, r.messages...), nil
}

func (r *fakeContactRepo) SetRead(ctx context.Context, id int64, read bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].IsRead = read
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeContactRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeMailer struct {
	sent chan string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.sent <- subject
	return nil
}

func TestContactCreateNotifiesOwner(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan string, 1)}
	service := NewContactService(&fakeContactRepo{}, mailer, "owner@example.com", zap.NewNop())

	msg, err := service.Create(context.Background(), domain.CreateContactRequest{
		Name:    "Jeanne",
		Email:   "jeanne@example.com",
		Subject: "Commande",
		Message: "Bonjour",
	})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	select {
	case subject := <-mailer.sent:
		assert.Contains(t, subject, "Commande")
	case <-time.After(time.Second):
		t.Fatal("expected a notification email")
	}
}

func TestContactCreateValidation(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan string, 1)}
	service := NewContactService(&fakeContactRepo{}, mailer, "owner@example.com", zap.NewNop())
	ctx := context.Background()

	var validation *domain.ValidationError
	cases := []domain.CreateContactRequest{
		{Email: "a@b.fr", Message: "hi"},
		{Name: "A", Email: "not-an-address", Message: "hi"},
		{Name: "A", Email: "a@b.fr"},
	}
	for _, req := range cases {
		_, err := service.Create(ctx, req)
		require.ErrorAs(t, err, &validation, "request %+v", req)
	}
	assert.Empty(t, mailer.sent, "no email on rejected submissions")
}

func TestUnreadCount(t *testing.T) {
	messages := []domain.ContactMessage{
		{ID: 1, IsRead: true},
		{ID: 2},
		{ID: 3},
	}
	assert.Equal(t, 2, UnreadCount(messages))
	assert.Zero(t, UnreadCount(nil))
}

func TestContactReadFlagRoundTrip(t *testing.T) {
	repo := &fakeContactRepo{}
	service := NewContactService(repo, nil, "", zap.NewNop())
	ctx := context.Background()

	msg, err := service.Create(ctx, domain.CreateContactRequest{
		Name: "A", Email: "a@b.fr", Message: "hello",
	})
	require.NoError(t, err)

	require.NoError(t, service.SetRead(ctx, msg.ID, true))
	listed, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsRead)

	require.NoError(t, service.Delete(ctx, msg.ID))
	assert.ErrorIs(t, service.SetRead(ctx, msg.ID, false), domain.ErrNotFound)
}
