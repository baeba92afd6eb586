package repository

import "errors"

// Domain-level persistence errors shared by all adapters.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrUserAlreadyExists   = errors.New("user already exists")

	// Transaction lifecycle errors. Both are programmer/integration errors
	// and are never retried.
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransactionCompleted = errors.New("transaction already completed")
)
