package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		e, err := NewEmail("  John.Doe@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "john.doe@example.com", e.String())
	})

	t.Run("accepts plus addressing and subdomains", func(t *testing.T) {
		for _, raw := range []string{
			"a+tag@example.com",
			"user_name@mail.example.co.uk",
			"x@d.io",
		} {
			_, err := NewEmail(raw)
			assert.NoError(t, err, raw)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]error{
			"":                   ErrEmailEmpty,
			"   ":                ErrEmailEmpty,
			"no-at-sign":         ErrEmailFormat,
			"two@@example.com":   ErrEmailFormat,
			"dots..x@example.io": ErrEmailFormat,
			"user@nodot":         ErrEmailFormat,
		}
		for raw, want := range cases {
			_, err := NewEmail(raw)
			assert.ErrorIs(t, err, want, raw)
		}
	})

	t.Run("rejects over-long address", func(t *testing.T) {
		_, err := NewEmail(strings.Repeat("a", 250) + "@example.com")
		assert.ErrorIs(t, err, ErrEmailTooLong)
	})

	t.Run("equality is by normalized value", func(t *testing.T) {
		a, _ := NewEmail("Same@Example.com")
		b, _ := NewEmail("same@example.com")
		assert.True(t, a.Equals(b))
	})
}

func TestNewUserName(t *testing.T) {
	t.Run("accepts names with accents and hyphens", func(t *testing.T) {
		for _, raw := range []string{"Jo", "Anne-Marie", "José García", "O'Neill"} {
			n, err := NewUserName(raw)
			require.NoError(t, err, raw)
			assert.Equal(t, raw, n.String())
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		n, err := NewUserName("  Jane Doe  ")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", n.String())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]error{
			"J":                     ErrNameTooShort,
			strings.Repeat("a", 51): ErrNameTooLong,
			"R2-D2":                 ErrNameCharset,
			"john@doe":              ErrNameCharset,
			"double  space":         ErrNameDoubleSpace,
			"":                      ErrNameTooShort,
		}
		for raw, want := range cases {
			_, err := NewUserName(raw)
			assert.ErrorIs(t, err, want, raw)
		}
	})

	t.Run("length counts characters, not bytes", func(t *testing.T) {
		// accented letters encode as two bytes each
		_, err := NewUserName(strings.Repeat("é", 30))
		assert.NoError(t, err)
		_, err = NewUserName(strings.Repeat("é", 50))
		assert.NoError(t, err)
		_, err = NewUserName(strings.Repeat("é", 51))
		assert.ErrorIs(t, err, ErrNameTooLong)
		_, err = NewUserName("À")
		assert.ErrorIs(t, err, ErrNameTooShort)
	})
}

func TestNewPassword(t *testing.T) {
	t.Run("hashes and verifies round trip", func(t *testing.T) {
		p, err := NewPassword("Sup3rSecret")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p.Hash(), "$2"), "expected a bcrypt hash")
		assert.True(t, p.Compare("Sup3rSecret"))
		assert.False(t, p.Compare("sup3rsecret"))
	})

	t.Run("same plaintext yields different hashes", func(t *testing.T) {
		a, err := NewPassword("Sup3rSecret")
		require.NoError(t, err)
		b, err := NewPassword("Sup3rSecret")
		require.NoError(t, err)
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("enforces the policy", func(t *testing.T) {
		cases := map[string]error{
			"Ab1":                     ErrPasswordTooShort,
			strings.Repeat("Ab1", 43): ErrPasswordTooLong,
			"alllowercase1":           ErrPasswordUpper,
			"ALLUPPERCASE1":           ErrPasswordLower,
			"NoDigitsHere":            ErrPasswordDigit,
		}
		for raw, want := range cases {
			_, err := NewPassword(raw)
			assert.ErrorIs(t, err, want, raw)
		}
	})

	t.Run("minimum length counts characters, not bytes", func(t *testing.T) {
		// 7 characters but 8 bytes thanks to the accent
		_, err := NewPassword("É1aaaaa")
		assert.ErrorIs(t, err, ErrPasswordTooShort)

		p, err := NewPassword("É1aaaaaa")
		require.NoError(t, err)
		assert.True(t, p.Compare("É1aaaaaa"))
	})

	t.Run("from hash never re-checks policy", func(t *testing.T) {
		orig, err := NewPassword("Sup3rSecret")
		require.NoError(t, err)
		p, err := PasswordFromHash(orig.Hash())
		require.NoError(t, err)
		assert.True(t, p.Compare("Sup3rSecret"))
	})
}

func TestUserID(t *testing.T) {
	t.Run("generate produces a valid v4 id", func(t *testing.T) {
		id := GenerateUserID()
		parsed, err := NewUserID(id.String())
		require.NoError(t, err)
		assert.True(t, id.Equals(parsed))
	})

	t.Run("rejects non-v4 ids", func(t *testing.T) {
		for _, raw := range []string{
			"",
			"not-a-uuid",
			"123e4567-e89b-12d3-a456-426614174000", // v1
			"A69B2B2A-0000-4000-8000-000000000000", // uppercase
		} {
			_, err := NewUserID(raw)
			assert.ErrorIs(t, err, ErrUserIDFormat, raw)
		}
	})
}

func TestNewJWTToken(t *testing.T) {
	t.Run("accepts three dot segments", func(t *testing.T) {
		tok, err := NewJWTToken("aaa.bbb.ccc")
		require.NoError(t, err)
		assert.Equal(t, "aaa.bbb.ccc", tok.String())
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		for _, raw := range []string{"", "aaa.bbb", "aaa.bbb.ccc.ddd", "..", "aaa..ccc"} {
			_, err := NewJWTToken(raw)
			assert.ErrorIs(t, err, ErrTokenFormat, raw)
		}
	})
}

func TestParseRoleAndPlan(t *testing.T) {
	r, err := ParseRole(" admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrRoleUnknown)

	p, err := ParsePlan("premium")
	require.NoError(t, err)
	assert.Equal(t, PlanPremium, p)

	_, err = ParsePlan("free")
	assert.ErrorIs(t, err, ErrPlanUnknown)
}
