package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
	"github.com/oksasatya/go-accounts-service/pkg/mailer"
)

type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the authenticated profile plus the signed token pair.
type LoginOutput struct {
	User         UserDTO   `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	SessionID    string    `json:"session_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Login verifies the credentials, issues the token pair and records the
// session. Credential failures all come back as AUTHENTICATION_ERROR with the
// same message, so a caller cannot probe which emails are registered.
func (uc *UseCases) Login(ctx context.Context, in LoginInput) Result[LoginOutput] {
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return Fail[LoginOutput](CodeFor(err), err)
	}

	creds, err := uc.Auth.Authenticate(ctx, email, in.Password, nil)
	if err != nil {
		return Fail[LoginOutput](codeOr(err, CodeAuthentication), err)
	}
	u, err := uc.Users.GetUserByEmail(ctx, email, nil)
	if err != nil {
		return Fail[LoginOutput](codeOr(err, CodeAuthentication), err)
	}

	sessionID := uuid.NewString()
	access, exp, err := uc.JWT.GenerateAccessToken(creds.UserID, sessionID, u.Role.String())
	if err != nil {
		return Fail[LoginOutput](CodeInternal, err)
	}
	refresh, _, err := uc.JWT.GenerateRefreshToken(creds.UserID, sessionID)
	if err != nil {
		return Fail[LoginOutput](CodeInternal, err)
	}
	if _, err = valueobject.NewJWTToken(access); err != nil {
		return Fail[LoginOutput](CodeInternal, err)
	}
	if _, err = valueobject.NewJWTToken(refresh); err != nil {
		return Fail[LoginOutput](CodeInternal, err)
	}

	uc.writeSession(ctx, creds.UserID, map[string]any{
		"session_id": sessionID,
		"email":      u.Email.String(),
		"role":       u.Role.String(),
		"logged_in":  time.Now().UTC().Format(time.RFC3339),
	})
	uc.enqueueEmail(ctx, mailer.EmailJob{
		To:   u.Email.String(),
		Kind: mailer.KindLoginNotification,
		Data: map[string]string{"name": u.Name.String()},
	})
	if uc.Logger != nil {
		uc.Logger.WithField("user_id", creds.UserID).Info("user logged in")
	}

	return Ok(LoginOutput{
		User:         toUserDTO(u),
		AccessToken:  access,
		RefreshToken: refresh,
		SessionID:    sessionID,
		ExpiresAt:    exp,
	})
}

// RefreshInput is the refresh cookie contents.
type RefreshInput struct {
	RefreshToken string
}

type RefreshOutput struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RefreshTokens rotates the pair from a still-valid refresh token. The
// session must still exist; logout kills refresh as well.
func (uc *UseCases) RefreshTokens(ctx context.Context, in RefreshInput) Result[RefreshOutput] {
	if _, err := valueobject.NewJWTToken(in.RefreshToken); err != nil {
		return Fail[RefreshOutput](CodeFor(err), err)
	}
	claims, err := uc.JWT.ParseRefreshToken(in.RefreshToken)
	if err != nil {
		return Fail[RefreshOutput](CodeAuthentication, err)
	}
	if !uc.sessionAlive(ctx, claims.UserID, claims.SessionID) {
		return Fail[RefreshOutput](CodeAuthentication, errSessionExpired)
	}

	id, err := valueobject.NewUserID(claims.UserID)
	if err != nil {
		return Fail[RefreshOutput](CodeAuthentication, err)
	}
	u, err := uc.Users.GetUserByID(ctx, id, nil)
	if err != nil {
		return Fail[RefreshOutput](codeOr(err, CodeAuthentication), err)
	}

	access, exp, err := uc.JWT.GenerateAccessToken(claims.UserID, claims.SessionID, u.Role.String())
	if err != nil {
		return Fail[RefreshOutput](CodeInternal, err)
	}
	refresh, _, err := uc.JWT.GenerateRefreshToken(claims.UserID, claims.SessionID)
	if err != nil {
		return Fail[RefreshOutput](CodeInternal, err)
	}
	return Ok(RefreshOutput{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp})
}

// Logout drops the server-side session. Cookie clearing is the handler's job.
func (uc *UseCases) Logout(ctx context.Context, userID string) Result[struct{}] {
	uc.dropSession(ctx, userID)
	if uc.Logger != nil {
		uc.Logger.WithField("user_id", userID).Info("user logged out")
	}
	return Ok(struct{}{})
}
