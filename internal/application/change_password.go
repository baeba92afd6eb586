package application

import (
	"context"

	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
	"github.com/oksasatya/go-accounts-service/pkg/mailer"
)

type ChangePasswordInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// ChangePassword swaps the stored hash after the current password checks out.
// The new password is validated and hashed before the current one is checked,
// so a policy failure never touches the stored credentials.
func (uc *UseCases) ChangePassword(ctx context.Context, in ChangePasswordInput) Result[struct{}] {
	id, err := valueobject.NewUserID(in.UserID)
	if err != nil {
		return Fail[struct{}](CodeFor(err), err)
	}
	newPassword, err := valueobject.NewPassword(in.NewPassword)
	if err != nil {
		return Fail[struct{}](CodeFor(err), err)
	}

	if err := uc.Auth.ChangePassword(ctx, id.String(), in.CurrentPassword, newPassword, nil); err != nil {
		return Fail[struct{}](codeOr(err, CodePasswordChange), err)
	}

	if u, uerr := uc.Users.GetUserByID(ctx, id, nil); uerr == nil {
		uc.enqueueEmail(ctx, mailer.EmailJob{
			To:   u.Email.String(),
			Kind: mailer.KindPasswordChanged,
			Data: map[string]string{"name": u.Name.String()},
		})
	}
	if uc.Logger != nil {
		uc.Logger.WithField("user_id", id.String()).Info("password changed")
	}
	return Ok(struct{}{})
}
