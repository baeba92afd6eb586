package valueobject

import (
	"errors"
	"strings"
)

var ErrTokenFormat = errors.New("token must have three dot-separated segments")

// JWTToken wraps a compact JWS string. Construction only checks the segment
// count; signature validity is the token manager's concern.
type JWTToken struct {
	value string
}

func NewJWTToken(raw string) (JWTToken, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return JWTToken{}, ErrTokenFormat
	}
	for _, p := range parts {
		if p == "" {
			return JWTToken{}, ErrTokenFormat
		}
	}
	return JWTToken{value: raw}, nil
}

func (t JWTToken) String() string { return t.value }

func (t JWTToken) IsZero() bool { return t.value == "" }
