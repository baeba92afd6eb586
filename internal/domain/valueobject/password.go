package valueobject

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 128 characters")
	ErrPasswordUpper    = errors.New("password must contain an uppercase letter")
	ErrPasswordLower    = errors.New("password must contain a lowercase letter")
	ErrPasswordDigit    = errors.New("password must contain a digit")
	ErrPasswordHash     = errors.New("password hash must not be empty")
)

const bcryptCost = 12

// Password holds a bcrypt hash. It is either derived from a plaintext that
// satisfies the policy, or reconstructed from an already-stored hash.
// Compare never re-hashes.
type Password struct {
	hash string
}

// NewPassword validates plain against the policy and hashes it.
func NewPassword(plain string) (Password, error) {
	if err := checkPolicy(plain); err != nil {
		return Password{}, err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: string(b)}, nil
}

// PasswordFromHash wraps a stored hash without re-validating the plaintext policy.
func PasswordFromHash(hash string) (Password, error) {
	if hash == "" {
		return Password{}, ErrPasswordHash
	}
	return Password{hash: hash}, nil
}

// Compare reports whether plain matches the stored hash.
func (p Password) Compare(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}

// Hash returns the bcrypt hash for persistence.
func (p Password) Hash() string { return p.hash }

func (p Password) IsZero() bool { return p.hash == "" }

func checkPolicy(plain string) error {
	if n := utf8.RuneCountInString(plain); n < 8 {
		return ErrPasswordTooShort
	} else if n > 128 {
		return ErrPasswordTooLong
	}
	var upper, lower, digit bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return ErrPasswordUpper
	}
	if !lower {
		return ErrPasswordLower
	}
	if !digit {
		return ErrPasswordDigit
	}
	return nil
}
