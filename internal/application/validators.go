package application

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validateEmail checks the contact form sender address.
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &domain.ValidationError{Field: "email", Reason: "required"}
	}
	if !emailRegex.MatchString(email) {
		return &domain.ValidationError{Field: "email", Reason: "invalid address format"}
	}
	return nil
}

// validateImageURL rejects URLs the image CDN could never serve. An empty
// value is legal here; Add decides whether an image is required at all.
func validateImageURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return &domain.ValidationError{Field: field, Reason: "not a valid URL"}
	}
	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &domain.ValidationError{Field: field, Reason: "unsupported URL scheme"}
	}
	return nil
}
