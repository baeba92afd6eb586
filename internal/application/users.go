package application

import (
	"context"

	"github.com/oksasatya/go-accounts-service/internal/domain/service"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

type CreateUserInput struct {
	Email string
	Name  string
}

// CreateUser creates a profile without credentials. Such accounts cannot log
// in until they go through registration; admins use this to pre-provision
// users. Email conflicts surface as USER_ALREADY_EXISTS.
func (uc *UseCases) CreateUser(ctx context.Context, in CreateUserInput) Result[UserDTO] {
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	name, err := valueobject.NewUserName(in.Name)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}

	u, err := uc.Users.CreateUser(ctx, email, name, nil)
	if err != nil {
		return Fail[UserDTO](codeOr(err, CodeInternal), err)
	}

	uc.Indexer.IndexUser(ctx, u)
	return Ok(toUserDTO(u))
}

// GetUser loads a single profile by id.
func (uc *UseCases) GetUser(ctx context.Context, userID string) Result[UserDTO] {
	id, err := valueobject.NewUserID(userID)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	u, err := uc.Users.GetUserByID(ctx, id, nil)
	if err != nil {
		return Fail[UserDTO](codeOr(err, CodeInternal), err)
	}
	return Ok(toUserDTO(u))
}

// ListUsers returns every user profile.
func (uc *UseCases) ListUsers(ctx context.Context) Result[[]UserDTO] {
	users, err := uc.Users.GetAllUsers(ctx, nil)
	if err != nil {
		return Fail[[]UserDTO](codeOr(err, CodeInternal), err)
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return Ok(out)
}

// DeleteUser removes the profile and its credentials in one transaction.
// Accounts younger than the grace period cannot be deleted.
func (uc *UseCases) DeleteUser(ctx context.Context, userID string) Result[struct{}] {
	id, err := valueobject.NewUserID(userID)
	if err != nil {
		return Fail[struct{}](CodeFor(err), err)
	}

	tx, err := uc.Tx.Begin(ctx)
	if err != nil {
		return Fail[struct{}](CodeInternal, err)
	}
	committed := false
	defer func() { uc.rollback(ctx, tx, committed) }()

	if err = uc.Users.DeleteUser(ctx, id, tx); err != nil {
		return Fail[struct{}](CodeFor(err), err)
	}
	if err = uc.Auth.RemoveCredentials(ctx, id.String(), tx); err != nil {
		return Fail[struct{}](CodeFor(err), err)
	}
	if err = uc.Tx.Commit(ctx, tx); err != nil {
		return Fail[struct{}](CodeFor(err), err)
	}
	committed = true

	uc.Indexer.DeleteUser(ctx, id.String())
	uc.dropSession(ctx, id.String())
	return Ok(struct{}{})
}

// SetUserActive flips the active flag on both the profile and the
// credentials so a deactivated user can neither log in nor keep a session.
func (uc *UseCases) SetUserActive(ctx context.Context, userID string, active bool) Result[UserDTO] {
	id, err := valueobject.NewUserID(userID)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}

	tx, err := uc.Tx.Begin(ctx)
	if err != nil {
		return Fail[UserDTO](CodeInternal, err)
	}
	committed := false
	defer func() { uc.rollback(ctx, tx, committed) }()

	u, err := uc.Users.SetUserActive(ctx, id, active, tx)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	if active {
		err = uc.Auth.ReactivateUser(ctx, id.String(), tx)
	} else {
		err = uc.Auth.DeactivateUser(ctx, id.String(), tx)
	}
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	if err = uc.Tx.Commit(ctx, tx); err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	committed = true

	if !active {
		uc.dropSession(ctx, id.String())
	}
	uc.Indexer.IndexUser(ctx, u)
	return Ok(toUserDTO(u))
}

// GetUserStatistics aggregates counts over the whole user set.
func (uc *UseCases) GetUserStatistics(ctx context.Context) Result[service.UserStatistics] {
	stats, err := uc.Users.GetUserStatistics(ctx, nil)
	if err != nil {
		return Fail[service.UserStatistics](codeOr(err, CodeInternal), err)
	}
	return Ok(stats)
}

// SearchUsers queries the search index; with no index configured it returns
// an empty page rather than failing.
func (uc *UseCases) SearchUsers(ctx context.Context, query string, size int) Result[[]map[string]any] {
	docs, err := uc.Indexer.Search(ctx, query, size)
	if err != nil {
		return Fail[[]map[string]any](CodeInternal, err)
	}
	return Ok(docs)
}
