// Package repokit is the glue between SQL repos and the store seams:
// query aliases, per-transaction binding and begin hooks
package repokit

import (
	"context"

	"dvf/internal/platform/store"
)

// Aliases keep repos off the store package
type (
	Queryer    = store.RowQuerier
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder builds a repo over whichever Queryer is current (pool or tx)
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to Binder
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// WithTx binds b inside one transaction of db and hands the repo to fn
func WithTx[T any](ctx context.Context, db TxRunner, b Binder[T], fn func(T) error) error {
	return db.Tx(ctx, func(q Queryer) error { return fn(b.Bind(q)) })
}
