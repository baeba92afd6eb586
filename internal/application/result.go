package application

import (
	"errors"
	"time"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/service"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

// ErrorCode identifies the failure class carried out of a use case.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
	CodeInvalidEmail      ErrorCode = "INVALID_EMAIL"
	CodeInvalidPassword   ErrorCode = "INVALID_PASSWORD"
	CodeInvalidName       ErrorCode = "INVALID_NAME"
	CodeInvalidRole       ErrorCode = "INVALID_ROLE"
	CodeInvalidPlan       ErrorCode = "INVALID_PLAN"
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeUserAlreadyExists ErrorCode = "USER_ALREADY_EXISTS"
	CodeAuthentication    ErrorCode = "AUTHENTICATION_ERROR"
	CodeRegistration      ErrorCode = "REGISTRATION_ERROR"
	CodeUnknown           ErrorCode = "UNKNOWN_ERROR"
	CodePasswordChange    ErrorCode = "PASSWORD_CHANGE_ERROR"
	CodeProfileRetrieval  ErrorCode = "PROFILE_RETRIEVAL_ERROR"
)

// Result is the transport-neutral envelope returned by every use case.
// Domain errors never escape as Go errors; they are mapped here.
type Result[T any] struct {
	Success   bool              `json:"success"`
	Data      T                 `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorCode ErrorCode         `json:"error_code,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data, Timestamp: time.Now().UTC()}
}

func Fail[T any](code ErrorCode, err error) Result[T] {
	return Result[T]{Success: false, Error: err.Error(), ErrorCode: code, Timestamp: time.Now().UTC()}
}

func FailWithDetails[T any](code ErrorCode, err error, details map[string]string) Result[T] {
	r := Fail[T](code, err)
	r.Details = details
	return r
}

// CodeFor maps a domain error to its one error code. Unknown errors are
// internal; nothing here is retried.
func CodeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, valueobject.ErrEmailEmpty),
		errors.Is(err, valueobject.ErrEmailTooLong),
		errors.Is(err, valueobject.ErrEmailFormat):
		return CodeInvalidEmail
	case errors.Is(err, valueobject.ErrPasswordTooShort),
		errors.Is(err, valueobject.ErrPasswordTooLong),
		errors.Is(err, valueobject.ErrPasswordUpper),
		errors.Is(err, valueobject.ErrPasswordLower),
		errors.Is(err, valueobject.ErrPasswordDigit),
		errors.Is(err, valueobject.ErrPasswordHash):
		return CodeInvalidPassword
	case errors.Is(err, valueobject.ErrNameTooShort),
		errors.Is(err, valueobject.ErrNameTooLong),
		errors.Is(err, valueobject.ErrNameCharset),
		errors.Is(err, valueobject.ErrNameDoubleSpace):
		return CodeInvalidName
	case errors.Is(err, valueobject.ErrRoleUnknown):
		return CodeInvalidRole
	case errors.Is(err, valueobject.ErrPlanUnknown):
		return CodeInvalidPlan
	case errors.Is(err, valueobject.ErrUserIDFormat),
		errors.Is(err, valueobject.ErrTokenFormat):
		return CodeValidation
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrCredentialsNotFound):
		return CodeUserNotFound
	case errors.Is(err, repository.ErrUserAlreadyExists),
		errors.Is(err, service.ErrEmailTaken):
		return CodeUserAlreadyExists
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		return CodeAuthentication
	case errors.Is(err, service.ErrInvalidCurrentPassword):
		return CodePasswordChange
	case errors.Is(err, service.ErrUserCannotBeDeleted):
		return CodeValidation
	case errors.Is(err, repository.ErrTransactionNotFound),
		errors.Is(err, repository.ErrTransactionCompleted):
		return CodeInternal
	default:
		return CodeUnknown
	}
}

// codeOr maps err to its code, falling back to the use case's own class for
// errors nothing in the taxonomy claims.
func codeOr(err error, fallback ErrorCode) ErrorCode {
	if c := CodeFor(err); c != CodeUnknown {
		return c
	}
	return fallback
}

// UserDTO is the outward shape of a user profile.
type UserDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profile_image"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	Role         string    `json:"role"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserDTO(u entity.User) UserDTO {
	dto := UserDTO{
		ID:         u.ID.String(),
		Email:      u.Email.String(),
		Name:       u.Name.String(),
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		Role:       u.Role.String(),
		Plan:       u.Plan.String(),
		CreatedAt:  u.CreatedAt,
	}
	if u.ProfileImage != "" {
		img := u.ProfileImage
		dto.ProfileImage = &img
	}
	return dto
}
