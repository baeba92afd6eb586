package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
)

type txState int

const (
	txActive txState = iota
	txCommitted
	txRolledBack
)

// applier is the slice of the store API the manager drives on completion.
type applier interface {
	conflicts(txID string) bool
	apply(txID string)
	discard(txID string)
}

// TxManager coordinates copy-on-write transactions across the stores it was
// built with. Begin never fails for the in-memory backend.
type TxManager struct {
	mu       sync.Mutex
	commitMu sync.Mutex
	states   map[string]txState
	stores   []applier
}

func NewTxManager(stores ...applier) *TxManager {
	return &TxManager{states: make(map[string]txState), stores: stores}
}

type memTx struct {
	id  string
	mgr *TxManager
}

func (t *memTx) ID() string                         { return t.id }
func (t *memTx) Commit(ctx context.Context) error   { return t.mgr.Commit(ctx, t) }
func (t *memTx) Rollback(ctx context.Context) error { return t.mgr.Rollback(ctx, t) }
func (t *memTx) Abort(ctx context.Context) error    { return t.mgr.Abort(ctx, t) }

func (m *TxManager) Begin(ctx context.Context) (repository.Transaction, error) {
	id := uuid.NewString()
	m.mu.Lock()
	m.states[id] = txActive
	m.mu.Unlock()
	return &memTx{id: id, mgr: m}, nil
}

// transition validates the move out of ACTIVE and records the terminal state
// while holding the lock, so two completions cannot interleave.
func (m *TxManager) transition(tx repository.Transaction, next txState) error {
	if tx == nil {
		return repository.ErrTransactionNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[tx.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", repository.ErrTransactionNotFound, tx.ID())
	}
	if state != txActive {
		return fmt.Errorf("%w: %s", repository.ErrTransactionCompleted, tx.ID())
	}
	m.states[tx.ID()] = next
	return nil
}

// Commit applies the transaction's pending writes to every store. Commits are
// serialized: conflicts are checked across all stores first, so either the
// whole overlay merges or none of it does.
func (m *TxManager) Commit(ctx context.Context, tx repository.Transaction) error {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	for _, s := range m.stores {
		if tx != nil && s.conflicts(tx.ID()) {
			if err := m.transition(tx, txRolledBack); err != nil {
				return err
			}
			for _, d := range m.stores {
				d.discard(tx.ID())
			}
			return fmt.Errorf("%w: concurrent insert won", repository.ErrUserAlreadyExists)
		}
	}
	if err := m.transition(tx, txCommitted); err != nil {
		return err
	}
	for _, s := range m.stores {
		s.apply(tx.ID())
	}
	return nil
}

func (m *TxManager) Rollback(ctx context.Context, tx repository.Transaction) error {
	if err := m.transition(tx, txRolledBack); err != nil {
		return err
	}
	for _, s := range m.stores {
		s.discard(tx.ID())
	}
	return nil
}

// Abort is rollback; kept distinct for document-store terminology.
func (m *TxManager) Abort(ctx context.Context, tx repository.Transaction) error {
	return m.Rollback(ctx, tx)
}

var _ repository.TxManager = (*TxManager)(nil)
