package valueobject

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("email must not be empty")
	ErrEmailTooLong = errors.New("email must be at most 254 characters")
	ErrEmailFormat  = errors.New("email format is invalid")
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9\-]+(\.[a-z0-9\-]+)+$`)

// Email is a normalized, validated email address. The zero value is invalid;
// construct with NewEmail.
type Email struct {
	value string
}

// NewEmail validates raw and returns the lowercased email.
func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Email{}, ErrEmailEmpty
	}
	if len(v) > 254 {
		return Email{}, ErrEmailTooLong
	}
	if strings.Contains(v, "..") || strings.Contains(v, "@@") {
		return Email{}, fmt.Errorf("%w: consecutive separators", ErrEmailFormat)
	}
	if !emailPattern.MatchString(v) {
		return Email{}, ErrEmailFormat
	}
	return Email{value: v}, nil
}

func (e Email) String() string { return e.value }

// IsZero reports whether the email was never constructed.
func (e Email) IsZero() bool { return e.value == "" }

// Equals compares normalized values.
func (e Email) Equals(other Email) bool { return e.value == other.value }
