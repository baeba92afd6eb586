package valueobject

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
)

var ErrUserIDFormat = errors.New("user id must be a UUID v4")

var uuidV4Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UserID identifies a user aggregate. Only UUID v4 strings are accepted.
type UserID struct {
	value string
}

func NewUserID(raw string) (UserID, error) {
	if !uuidV4Pattern.MatchString(raw) {
		return UserID{}, ErrUserIDFormat
	}
	return UserID{value: raw}, nil
}

// GenerateUserID allocates a fresh id.
func GenerateUserID() UserID {
	return UserID{value: uuid.NewString()}
}

func (id UserID) String() string { return id.value }

func (id UserID) IsZero() bool { return id.value == "" }

func (id UserID) Equals(other UserID) bool { return id.value == other.value }
