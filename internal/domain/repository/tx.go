package repository

import "context"

// Transaction is an opaque unit-of-work handle spanning one or more
// repositories. Identity is the ID; two live transactions never share one.
//
// The state machine is ACTIVE -> COMMITTED or ACTIVE -> ROLLED_BACK, both
// terminal. Completing a transaction twice, or completing one the manager
// does not know, fails with ErrTransactionCompleted / ErrTransactionNotFound.
type Transaction interface {
	ID() string
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Abort is rollback under document-store vocabulary.
	Abort(ctx context.Context) error
}

// TxManager begins and completes transactions independent of the backing
// store. A real adapter's Begin may fail (connection errors); the in-memory
// variant never does.
type TxManager interface {
	Begin(ctx context.Context) (Transaction, error)
	Commit(ctx context.Context, tx Transaction) error
	Rollback(ctx context.Context, tx Transaction) error
	Abort(ctx context.Context, tx Transaction) error
}
