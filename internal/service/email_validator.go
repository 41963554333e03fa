package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"devblog/internal/errors"
	"devblog/internal/repository"
)

var (
	// emailShape checks the character sets of both halves; the TLD and
	// label count are checked separately so each failure gets its own reason.
	emailShape = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+$`)
	tldShape   = regexp.MustCompile(`^[a-z]{2,}$`)
)

const (
	minDomainLabels = 2 // example.com
	maxDomainLabels = 3 // company.co.uk
)

// EmailValidator normalizes registration emails and enforces uniqueness.
type EmailValidator struct {
	accounts repository.AccountRepository
}

// NewEmailValidator creates a validator backed by the account store.
func NewEmailValidator(accounts repository.AccountRepository) *EmailValidator {
	return &EmailValidator{accounts: accounts}
}

// NormalizeEmail trims surrounding whitespace and lower-cases.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CheckEmailShape runs the format and domain-shape checks on a normalized email.
func CheckEmailShape(email string) error {
	if !emailShape.MatchString(email) {
		return errors.ErrInvalidEmailFormat
	}

	domain := email[strings.IndexByte(email, '@')+1:]
	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if label == "" {
			return errors.ErrInvalidEmailDomain
		}
	}
	if len(labels) < minDomainLabels || len(labels) > maxDomainLabels {
		return errors.ErrInvalidEmailDomain
	}

	if !tldShape.MatchString(labels[len(labels)-1]) {
		return errors.ErrInvalidEmailFormat
	}
	return nil
}

// Validate returns the normalized email, or ErrInvalidEmailFormat,
// ErrInvalidEmailDomain or ErrDuplicateEmail. excludeID skips one account
// in the uniqueness check (0 skips none).
func (v *EmailValidator) Validate(ctx context.Context, raw string, excludeID uint) (string, error) {
	email := NormalizeEmail(raw)
	if err := CheckEmailShape(email); err != nil {
		return "", err
	}

	exists, err := v.accounts.EmailExists(ctx, email, excludeID)
	if err != nil {
		return "", fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		return "", errors.ErrDuplicateEmail
	}
	return email, nil
}
