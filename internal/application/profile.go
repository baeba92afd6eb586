package application

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
	"github.com/oksasatya/go-accounts-service/pkg/helpers"
)

// GetUserProfile loads a single profile by id.
func (uc *UseCases) GetUserProfile(ctx context.Context, userID string) Result[UserDTO] {
	id, err := valueobject.NewUserID(userID)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	u, err := uc.Users.GetUserByID(ctx, id, nil)
	if err != nil {
		return Fail[UserDTO](codeOr(err, CodeProfileRetrieval), err)
	}
	return Ok(toUserDTO(u))
}

type UpdateProfileInput struct {
	UserID       string
	Name         string
	ProfileImage *string
}

// UpdateProfile renames the user and optionally swaps the profile image URL,
// then refreshes the search index with the new document.
func (uc *UseCases) UpdateProfile(ctx context.Context, in UpdateProfileInput) Result[UserDTO] {
	id, err := valueobject.NewUserID(in.UserID)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	name, err := valueobject.NewUserName(in.Name)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}

	u, err := uc.Users.UpdateUserProfile(ctx, id, name, in.ProfileImage, nil)
	if err != nil {
		return Fail[UserDTO](codeOr(err, CodeProfileRetrieval), err)
	}

	uc.Indexer.IndexUser(ctx, u)
	return Ok(toUserDTO(u))
}

type ChangeEmailInput struct {
	UserID string
	Email  string
}

// ChangeEmail moves the account to a new address, failing when another user
// already holds it.
func (uc *UseCases) ChangeEmail(ctx context.Context, in ChangeEmailInput) Result[UserDTO] {
	id, err := valueobject.NewUserID(in.UserID)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	email, err := valueobject.NewEmail(in.Email)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}

	u, err := uc.Users.ChangeUserEmail(ctx, id, email, nil)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	uc.Indexer.IndexUser(ctx, u)
	return Ok(toUserDTO(u))
}

// avatarObjectName builds an unguessable bucket key for an uploaded avatar.
// Only the extension survives from the client-supplied filename, so uploads
// can never overwrite each other or be enumerated.
func avatarObjectName(userID, filename string) string {
	return path.Join("avatars", userID, uuid.NewString()+path.Ext(filename))
}

type UploadProfileImageInput struct {
	UserID      string
	Filename    string
	ContentType string
	Body        io.Reader
}

// UploadProfileImage stores the image in the bucket and points the profile at
// its public URL. Requires the GCS client; deployments without one should not
// expose the route.
func (uc *UseCases) UploadProfileImage(ctx context.Context, in UploadProfileImageInput) Result[UserDTO] {
	id, err := valueobject.NewUserID(in.UserID)
	if err != nil {
		return Fail[UserDTO](CodeFor(err), err)
	}
	if uc.GCS == nil {
		return Fail[UserDTO](CodeInternal, fmt.Errorf("image storage not configured"))
	}
	u, err := uc.Users.GetUserByID(ctx, id, nil)
	if err != nil {
		return Fail[UserDTO](codeOr(err, CodeProfileRetrieval), err)
	}

	url, err := helpers.UploadProfileImage(ctx, uc.GCS, uc.Bucket, avatarObjectName(id.String(), in.Filename), in.ContentType, in.Body)
	if err != nil {
		return Fail[UserDTO](CodeInternal, err)
	}

	updated, err := uc.Users.UpdateUserProfile(ctx, id, u.Name, &url, nil)
	if err != nil {
		return Fail[UserDTO](codeOr(err, CodeProfileRetrieval), err)
	}
	uc.Indexer.IndexUser(ctx, updated)
	return Ok(toUserDTO(updated))
}
