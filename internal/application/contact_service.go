package application

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// Mailer is the outbound notifier used for contact form submissions.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// ContactService persists contact form submissions and notifies the site
// owner by email. The email is fire-and-forget: a send failure is logged
// and never fails the submission.
type ContactService struct {
	repo       domain.ContactRepository
	mailer     Mailer
	ownerEmail string
	logger     *zap.Logger
}

func NewContactService(repo domain.ContactRepository, mailer Mailer, ownerEmail string, logger *zap.Logger) *ContactService {
	return &ContactService{repo: repo, mailer: mailer, ownerEmail: ownerEmail, logger: logger}
}

func (s *ContactService) Create(ctx context.Context, req domain.CreateContactRequest) (domain.ContactMessage, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.ContactMessage{}, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if err := validateEmail(req.Email); err != nil {
		return domain.ContactMessage{}, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return domain.ContactMessage{}, &domain.ValidationError{Field: "message", Reason: "required"}
	}

	msg, err := s.repo.Create(ctx, req)
	if err != nil {
		return domain.ContactMessage{}, &domain.StoreError{Op: "contact insert", Err: err}
	}

	if s.mailer != nil && s.ownerEmail != "" {
		go func() {
			if err := s.mailer.Send(s.ownerEmail, notificationSubject(msg), notificationBody(msg)); err != nil {
				s.logger.Error("send contact notification", zap.Int64("message_id", msg.ID), zap.Error(err))
			}
		}()
	}
	return msg, nil
}

func (s *ContactService) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.repo.List(ctx)
}

// UnreadCount derives the admin badge count from a listed snapshot.
func UnreadCount(messages []domain.ContactMessage) int {
	count := 0
	for _, msg := range messages {
		if !msg.IsRead {
			count++
		}
	}
	return count
}

func (s *ContactService) SetRead(ctx context.Context, id int64, read bool) error {
	return s.repo.SetRead(ctx, id, read)
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func notificationSubject(msg domain.ContactMessage) string {
	if msg.Subject != "" {
		return fmt.Sprintf("Nouveau message : %s", msg.Subject)
	}
	return fmt.Sprintf("Nouveau message de %s", msg.Name)
}

func notificationBody(msg domain.ContactMessage) string {
	return fmt.Sprintf(`
		<h2>Nouveau message depuis le site</h2>
		<p><strong>Nom :</strong> %s</p>
		<p><strong>Email :</strong> %s</p>
		<p><strong>Sujet :</strong> %s</p>
		<p>%s</p>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Subject),
		html.EscapeString(msg.Message),
	)
}
