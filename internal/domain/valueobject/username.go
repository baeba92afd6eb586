package valueobject

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrNameTooShort    = errors.New("name must be at least 2 characters")
	ErrNameTooLong     = errors.New("name must be at most 50 characters")
	ErrNameCharset     = errors.New("name may only contain letters, spaces, hyphens and apostrophes")
	ErrNameDoubleSpace = errors.New("name must not contain consecutive spaces")
)

var namePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-']+$`)

// UserName is a validated display name, trimmed of surrounding whitespace.
type UserName struct {
	value string
}

func NewUserName(raw string) (UserName, error) {
	v := strings.TrimSpace(raw)
	// length limits count characters, not bytes; accented letters are one char
	if n := utf8.RuneCountInString(v); n < 2 {
		return UserName{}, ErrNameTooShort
	} else if n > 50 {
		return UserName{}, ErrNameTooLong
	}
	if !namePattern.MatchString(v) {
		return UserName{}, ErrNameCharset
	}
	if strings.Contains(v, "  ") {
		return UserName{}, ErrNameDoubleSpace
	}
	return UserName{value: v}, nil
}

func (n UserName) String() string { return n.value }

func (n UserName) IsZero() bool { return n.value == "" }
