package repokit

import "context"

// BeginHook runs first inside every transaction, on the tx-bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns db with hooks prepended to each Tx; no hooks returns db as is
func WithBeginHooks(db TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return db
	}
	return hookedTx{TxRunner: db, hooks: hooks}
}

// SetLocal sets a transaction-scoped GUC such as lock_timeout
func SetLocal(name, value string) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, "SELECT set_config($1, $2, true)", name, value)
		return err
	}
}

// hookedTx overrides Tx only; plain statements go straight to the embedded runner
type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, run := range h.hooks {
			if err := run(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}
