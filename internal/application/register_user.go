package application

import (
	"context"

	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
	"github.com/oksasatya/go-accounts-service/pkg/mailer"
)

type RegisterUserInput struct {
	Email    string
	Password string
	Name     string
}

// RegisterUser creates the profile and the credentials inside one
// transaction, so a failed credentials insert cannot leave a half-registered
// account behind.
func (uc *UseCases) RegisterUser(ctx context.Context, in RegisterUserInput) Result[UserDTO] {
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	name, err := valueobject.NewUserName(in.Name)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	password, err := valueobject.NewPassword(in.Password)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}

	tx, err := uc.Tx.Begin(ctx)
	if err != nil {
		return Fail[UserDTO](CodeInternal, err)
	}
	committed := false
	defer func() { uc.rollback(ctx, tx, committed) }()

	u, err := uc.Users.CreateUser(ctx, email, name, tx)
	if err != nil {
		return Fail[UserDTO](codeOr(err, CodeRegistration), err)
	}
	if _, err = uc.Auth.RegisterCredentials(ctx, email, password, u.ID.String(), tx); err != nil {
		return Fail[UserDTO](codeOr(err, CodeRegistration), err)
	}
	if err = uc.Tx.Commit(ctx, tx); err != nil {
		return Fail[UserDTO](codeOr(err, CodeRegistration), err)
	}
	committed = true

	uc.Indexer.IndexUser(ctx, u)
	uc.enqueueEmail(ctx, mailer.EmailJob{
		To:   email.String(),
		Kind: mailer.KindWelcome,
		Data: map[string]string{"name": name.String()},
	})
	if uc.Logger != nil {
		uc.Logger.WithField("user_id", u.ID.String()).Info("user registered")
	}
	return Ok(toUserDTO(u))
}

func (uc *UseCases) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if uc.Queue == nil {
		return
	}
	if err := uc.Queue.PublishJSON(ctx, job); err != nil && uc.Logger != nil {
		uc.Logger.WithError(err).WithField("kind", job.Kind).Warn("email enqueue failed")
	}
}
