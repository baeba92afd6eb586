package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
)

// TxManager adapts pgx transactions to the domain transaction contract.
// Unlike the in-memory variant, Begin can fail with a connection error.
type TxManager struct {
	pool *pgxpool.Pool

	mu   sync.Mutex
	live map[string]*pgTx
	done map[string]struct{}
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{
		pool: pool,
		live: make(map[string]*pgTx),
		done: make(map[string]struct{}),
	}
}

type pgTx struct {
	id  string
	tx  pgx.Tx
	mgr *TxManager
}

func (t *pgTx) ID() string                         { return t.id }
func (t *pgTx) Commit(ctx context.Context) error   { return t.mgr.Commit(ctx, t) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.mgr.Rollback(ctx, t) }
func (t *pgTx) Abort(ctx context.Context) error    { return t.mgr.Abort(ctx, t) }

func (m *TxManager) Begin(ctx context.Context) (repository.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	h := &pgTx{id: uuid.NewString(), tx: tx, mgr: m}
	m.mu.Lock()
	m.live[h.id] = h
	m.mu.Unlock()
	return h, nil
}

// take moves the handle out of the live set, enforcing the lifecycle errors.
func (m *TxManager) take(tx repository.Transaction) (*pgTx, error) {
	if tx == nil {
		return nil, repository.ErrTransactionNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, completed := m.done[tx.ID()]; completed {
		return nil, fmt.Errorf("%w: %s", repository.ErrTransactionCompleted, tx.ID())
	}
	h, ok := m.live[tx.ID()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrTransactionNotFound, tx.ID())
	}
	delete(m.live, tx.ID())
	m.done[tx.ID()] = struct{}{}
	return h, nil
}

func (m *TxManager) Commit(ctx context.Context, tx repository.Transaction) error {
	h, err := m.take(tx)
	if err != nil {
		return err
	}
	return h.tx.Commit(ctx)
}

func (m *TxManager) Rollback(ctx context.Context, tx repository.Transaction) error {
	h, err := m.take(tx)
	if err != nil {
		return err
	}
	return h.tx.Rollback(ctx)
}

func (m *TxManager) Abort(ctx context.Context, tx repository.Transaction) error {
	return m.Rollback(ctx, tx)
}

var _ repository.TxManager = (*TxManager)(nil)
